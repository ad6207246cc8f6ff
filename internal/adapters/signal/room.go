package signal

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lcrespo/fishpond/internal/core"
)

type stateMsg struct {
	Type  string        `json:"type"`
	State core.Snapshot `json:"state"`
}

// broadcastState pushes the room's current snapshot to every subscribed
// connection: the player view to participants, the history+scoreboard view
// to observers.
func (ctl *Controller) broadcastState(room *core.Room) {
	player := room.Snapshot(false)
	obs := room.Snapshot(true)
	obs.AppVersion = appVersion

	pf, err := json.Marshal(stateMsg{Type: "state", State: player})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("marshal player state")
		return
	}
	of, err := json.Marshal(stateMsg{Type: "state", State: obs})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("marshal observer state")
		return
	}
	ctl.Fanout.Publish(room.Code(), pf, of)
}

func (ctl *Controller) handleJoin(sess *session, env envelope) {
	if sess.observer {
		ctl.sendError(sess.conn, "observers cannot join as players")
		return
	}
	if strings.TrimSpace(env.RoomCode) == "" {
		ctl.sendError(sess.conn, "room code is required")
		return
	}

	room := ctl.Rooms.GetOrCreate(env.RoomCode)
	p, err := room.Join(env.Name)
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Str("sid", sess.sid).Str("room", string(room.Code())).Msg("join rejected")
		ctl.sendError(sess.conn, err.Error())
		return
	}

	if sess.roomCode != "" && sess.roomCode != room.Code() {
		ctl.Fanout.Detach(sess.roomCode, sess.conn)
	}
	sess.roomCode = room.Code()
	sess.playerID = p.ID
	ctl.Fanout.Attach(room.Code(), sess.conn, false)

	log.Info().Str("module", "signal").Str("sid", sess.sid).Str("room", string(room.Code())).Str("player", string(p.ID)).Str("name", p.Name).Msg("joined")
	ctl.sendJSON(sess.conn, map[string]any{
		"type":      "joined",
		"player_id": p.ID,
		"room_code": room.Code(),
	})
	ctl.broadcastState(room)
}

func (ctl *Controller) handleSubmit(sess *session, env envelope) {
	if sess.observer {
		ctl.sendError(sess.conn, "observers cannot submit a harvest")
		return
	}
	if sess.playerID == "" || sess.roomCode == "" {
		ctl.sendError(sess.conn, "join a room before submitting")
		return
	}
	if env.Harvest == nil {
		ctl.sendError(sess.conn, "harvest amount is required")
		return
	}

	room := ctl.Rooms.GetOrCreate(string(sess.roomCode))
	if err := room.Submit(sess.playerID, *env.Harvest); err != nil {
		ctl.sendError(sess.conn, err.Error())
		return
	}

	log.Debug().Str("module", "signal").Str("player", string(sess.playerID)).Str("room", string(sess.roomCode)).Int("harvest", *env.Harvest).Msg("harvest submitted")
	ctl.broadcastState(room)
}

// handleReset recreates the room from scratch: fresh roster, round 1,
// starting stock. Knowing the room code is the only authorization; this is
// a facilitator control.
func (ctl *Controller) handleReset(sess *session, env envelope) {
	code := env.RoomCode
	if strings.TrimSpace(code) == "" {
		code = string(sess.roomCode)
	}
	if strings.TrimSpace(code) == "" {
		ctl.sendError(sess.conn, "no room to reset")
		return
	}

	room := ctl.Rooms.Reset(code)
	if sess.roomCode == room.Code() {
		// old roster is gone; this connection has to rejoin as a player
		sess.playerID = ""
	}
	log.Info().Str("module", "signal").Str("sid", sess.sid).Str("room", string(room.Code())).Msg("room reset")
	ctl.broadcastState(room)
}
