package signal

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/lcrespo/fishpond/internal/app"
	"github.com/lcrespo/fishpond/internal/config"
	"github.com/lcrespo/fishpond/internal/core"
	"github.com/lcrespo/fishpond/internal/domain"
)

const appVersion = "0.9.2"

var ErrBackpressure = errors.New("backpressure")

// Messages a single connection may send per second (burst above).
const (
	inboundRate  = 10
	inboundBurst = 20
)

type Controller struct {
	Rooms  *app.Registry
	Fanout *app.Fanout
	Cfg    *config.Config
}

func NewController(rooms *app.Registry, fanout *app.Fanout, cfg *config.Config) *Controller {
	return &Controller{Rooms: rooms, Fanout: fanout, Cfg: cfg}
}

// WsSignalConn wraps one websocket with a buffered outbound channel so that
// TrySend never blocks the publisher.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// session is the connection-local state threaded through every handler:
// which room the connection is bound to, which participant identity it
// owns, and whether it is a read-only observer.
type session struct {
	sid      string
	conn     *WsSignalConn
	limiter  *rate.Limiter
	roomCode domain.RoomCode
	playerID domain.ParticipantID
	observer bool
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request and runs the per-connection pumps.
func (ctl *Controller) HandleWS(c *gin.Context) {
	sid := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("sid", sid).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	sess := &session{
		sid:     sid,
		conn:    &WsSignalConn{conn: ws, send: make(chan core.Frame, 32)},
		limiter: rate.NewLimiter(inboundRate, inboundBurst),
	}

	go ctl.writePump(sess.conn)
	ctl.readPump(sess)
}
