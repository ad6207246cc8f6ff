package signal

import (
	"crypto/subtle"
	"strings"

	"github.com/rs/zerolog/log"
)

// handleObserve authenticates the shared instructor pin and flips the
// connection into read-only observer mode. Observers get the full-history
// snapshot immediately and on every subsequent room change.
func (ctl *Controller) handleObserve(sess *session, env envelope) {
	if strings.TrimSpace(env.RoomCode) == "" {
		ctl.sendError(sess.conn, "room code is required")
		return
	}
	pin := strings.TrimSpace(env.Pin)
	if subtle.ConstantTimeCompare([]byte(pin), []byte(ctl.Cfg.ObserverPin)) != 1 {
		log.Warn().Str("module", "signal").Str("sid", sess.sid).Msg("observe with wrong pin")
		ctl.sendError(sess.conn, "invalid pin")
		return
	}

	room := ctl.Rooms.GetOrCreate(env.RoomCode)
	if sess.roomCode != "" && sess.roomCode != room.Code() {
		ctl.Fanout.Detach(sess.roomCode, sess.conn)
	}
	sess.observer = true
	sess.playerID = ""
	sess.roomCode = room.Code()
	ctl.Fanout.Attach(room.Code(), sess.conn, true)

	log.Info().Str("module", "signal").Str("sid", sess.sid).Str("room", string(room.Code())).Msg("observer attached")
	ctl.sendJSON(sess.conn, map[string]any{
		"type":      "observing",
		"room_code": room.Code(),
	})

	snap := room.Snapshot(true)
	snap.AppVersion = appVersion
	ctl.sendJSON(sess.conn, stateMsg{Type: "state", State: snap})
}
