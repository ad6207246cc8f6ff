package signal

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeDeadline = 5 * time.Second

func (ctl *Controller) writePump(c *WsSignalConn) {
	ping := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ping.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(sess *session) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", sess.sid).Msg("readPump closing")
		if sess.roomCode != "" {
			ctl.Fanout.Detach(sess.roomCode, sess.conn)
		}
		sess.conn.Close()
	}()

	for {
		_, data, err := sess.conn.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("module", "signal").Str("sid", sess.sid).Msg("readPump read error")
			return
		}
		if !sess.limiter.Allow() {
			ctl.sendError(sess.conn, "too many messages, slow down")
			continue
		}
		ctl.handleMessage(sess, data)
	}
}

// envelope is the inbound wire format. Legacy clients omit the type field;
// the kind is then inferred from which fields are present.
type envelope struct {
	Type     string `json:"type"`
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
	Harvest  *int   `json:"harvest"`
	Pin      string `json:"pin"`
}

// handleMessage dispatches one inbound frame. A fault while handling it is
// reported to this connection only; the loop and every other room stay up.
func (ctl *Controller) handleMessage(sess *session, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Str("sid", sess.sid).Any("panic", r).Msg("recovered while handling message")
			ctl.sendError(sess.conn, "something went wrong handling that message")
		}
	}()

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", sess.sid).Msg("bad json")
		ctl.sendError(sess.conn, "could not parse message")
		return
	}

	kind := strings.ToLower(strings.TrimSpace(env.Type))
	if kind == "" {
		switch {
		case env.RoomCode != "" && env.Name != "":
			kind = "join"
		case env.Harvest != nil:
			kind = "submit"
		}
	}

	switch kind {
	case "join":
		ctl.handleJoin(sess, env)
	case "submit":
		ctl.handleSubmit(sess, env)
	case "observe":
		ctl.handleObserve(sess, env)
	case "reset":
		ctl.handleReset(sess, env)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown message type")
		ctl.sendError(sess.conn, "unrecognized message type")
	}
}

func (ctl *Controller) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c *WsSignalConn, msg string) {
	ctl.sendJSON(c, map[string]any{
		"type":    "error",
		"message": msg,
	})
}
