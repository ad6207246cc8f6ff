package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lcrespo/fishpond/internal/core"
	"github.com/lcrespo/fishpond/internal/domain"
)

// Fanout tracks which live connections are subscribed to which room and
// pushes state frames to all of them. Delivery is best-effort: a connection
// that fails a send is pruned on the spot and the rest still get the frame.
type Fanout struct {
	mu   sync.RWMutex
	subs map[domain.RoomCode]map[core.SignalConnection]bool // value: observer tier
}

func NewFanout() *Fanout {
	return &Fanout{subs: make(map[domain.RoomCode]map[core.SignalConnection]bool)}
}

func (f *Fanout) Attach(code domain.RoomCode, conn core.SignalConnection, observer bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.subs[code]
	if !ok {
		set = make(map[core.SignalConnection]bool)
		f.subs[code] = set
	}
	set[conn] = observer
}

func (f *Fanout) Detach(code domain.RoomCode, conn core.SignalConnection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.subs[code]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(f.subs, code)
		}
	}
}

type subscriber struct {
	conn     core.SignalConnection
	observer bool
}

// Publish delivers a frame to every subscriber of the room: the player frame
// to participants, the richer observer frame to observer connections. Failed
// connections are detached; the frame still reaches everyone else.
func (f *Fanout) Publish(code domain.RoomCode, frame, observerFrame core.Frame) int {
	f.mu.RLock()
	subs := make([]subscriber, 0, len(f.subs[code]))
	for conn, observer := range f.subs[code] {
		subs = append(subs, subscriber{conn: conn, observer: observer})
	}
	f.mu.RUnlock()

	sent := 0
	var dead []core.SignalConnection
	for _, s := range subs {
		out := frame
		if s.observer && observerFrame != nil {
			out = observerFrame
		}
		if err := s.conn.TrySend(out); err != nil {
			dead = append(dead, s.conn)
			continue
		}
		sent++
	}
	for _, conn := range dead {
		f.Detach(code, conn)
	}
	if len(dead) > 0 {
		log.Debug().Str("module", "app.fanout").Str("room", string(code)).Int("sent", sent).Int("pruned", len(dead)).Msg("publish pruned dead connections")
	}
	return sent
}
