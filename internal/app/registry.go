package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lcrespo/fishpond/internal/core"
	"github.com/lcrespo/fishpond/internal/domain"
)

// Registry owns the code→room store. Rooms are created lazily on first
// reference and live for the process lifetime; only Reset replaces one.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomCode]*core.Room
	settings core.Settings
}

func NewRegistry(settings core.Settings) *Registry {
	return &Registry{
		rooms:    make(map[domain.RoomCode]*core.Room),
		settings: settings,
	}
}

// GetOrCreate normalizes the code and returns the live room for it,
// constructing a fresh one on first reference.
func (r *Registry) GetOrCreate(raw string) *core.Room {
	code := domain.NormalizeRoomCode(raw)

	r.mu.RLock()
	room, ok := r.rooms[code]
	r.mu.RUnlock()
	if ok {
		return room
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok = r.rooms[code]; ok {
		return room
	}
	room = core.NewRoom(code, r.settings)
	r.rooms[code] = room
	log.Info().Str("module", "app.registry").Str("room", string(code)).Msg("created room")
	return room
}

// Reset discards the room under this code and stores a fresh one: round 1,
// starting stock, empty roster. Players have to rejoin.
func (r *Registry) Reset(raw string) *core.Room {
	code := domain.NormalizeRoomCode(raw)

	r.mu.Lock()
	defer r.mu.Unlock()
	room := core.NewRoom(code, r.settings)
	r.rooms[code] = room
	log.Info().Str("module", "app.registry").Str("room", string(code)).Msg("reset room")
	return room
}

// RoomInfo is a read-only line in the room listing API.
type RoomInfo struct {
	Code    domain.RoomCode `json:"code"`
	Phase   string          `json:"phase"`
	Players int             `json:"players"`
	Round   int             `json:"round"`
}

func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RoomInfo, 0, len(r.rooms))
	for code, room := range r.rooms {
		out = append(out, RoomInfo{
			Code:    code,
			Phase:   room.Phase().String(),
			Players: room.RosterSize(),
			Round:   room.RoundNum(),
		})
	}
	return out
}
