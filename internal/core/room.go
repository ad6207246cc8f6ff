package core

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lcrespo/fishpond/internal/domain"
)

const collapseMessage = "There are no fish left in the pond."

// Room is one isolated game: roster, stock, rounds, totals, history.
// All fields are guarded by mu; every public method takes the lock, so the
// "last submission completes the round" check and the resolution that
// follows it are a single atomic step relative to other submissions.
type Room struct {
	mu       sync.Mutex
	code     domain.RoomCode
	settings Settings

	roster []*domain.Participant
	byID   map[domain.ParticipantID]*domain.Participant

	phase         Phase
	roundNum      int
	stock         int
	pending       map[domain.ParticipantID]int
	totals        map[domain.ParticipantID]int
	history       map[int]map[domain.ParticipantID]int
	lastOutcome   *RoundOutcome
	collapseRound int
}

func NewRoom(code domain.RoomCode, settings Settings) *Room {
	return &Room{
		code:     code,
		settings: settings,
		byID:     make(map[domain.ParticipantID]*domain.Participant),
		phase:    PhaseWaiting,
		roundNum: 1,
		stock:    settings.StartingStock,
		pending:  make(map[domain.ParticipantID]int),
		totals:   make(map[domain.ParticipantID]int),
		history:  make(map[int]map[domain.ParticipantID]int),
	}
}

func (r *Room) Code() domain.RoomCode { return r.code }

func (r *Room) Settings() Settings { return r.settings }

func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Room) RosterSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roster)
}

func (r *Room) RoundNum() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roundNum
}

// Join appends a new participant to the roster. The roster freezes the
// instant it reaches MinPlayers, so a join can flip the room to active but
// never lands after that.
func (r *Room) Join(name string) (*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.phase {
	case PhaseActive:
		return nil, domain.ErrAlreadyStarted
	case PhaseFinished:
		return nil, domain.ErrAlreadyFinished
	}
	if len(r.roster) >= r.settings.MaxPlayers {
		return nil, domain.ErrRoomFull
	}

	p := domain.NewParticipant(name)
	r.roster = append(r.roster, p)
	r.byID[p.ID] = p
	r.totals[p.ID] = 0

	if len(r.roster) >= r.settings.MinPlayers {
		r.phase = PhaseActive
		log.Info().Str("module", "core.room").Str("room", string(r.code)).Int("players", len(r.roster)).Msg("room started")
	}
	return p, nil
}

// Submit records a harvest request for the current season, clamped to
// [0, MaxHarvestPerPlayer]. Resubmitting before the season resolves
// overwrites the previous value. When the last roster member submits, the
// season resolves synchronously before Submit returns.
func (r *Room) Submit(id domain.ParticipantID, harvest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.phase {
	case PhaseWaiting:
		return domain.ErrNotStarted
	case PhaseFinished:
		return domain.ErrAlreadyFinished
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotAMember
	}

	if harvest < 0 {
		harvest = 0
	}
	if harvest > r.settings.MaxHarvestPerPlayer {
		harvest = r.settings.MaxHarvestPerPlayer
	}
	r.pending[id] = harvest

	if len(r.pending) == len(r.roster) {
		r.resolveRound()
	}
	return nil
}

// resolveRound advances the season exactly once. Caller holds mu.
func (r *Room) resolveRound() {
	order := make([]domain.ParticipantID, 0, len(r.roster))
	for _, p := range r.roster {
		order = append(order, p.ID)
	}

	requested := r.pending
	actual := Allocate(r.stock, requested, order)

	harvested := 0
	for _, id := range order {
		harvested += actual[id]
		r.totals[id] += actual[id]
	}
	remaining := r.stock - harvested
	next := Grow(remaining, r.roundNum, r.settings.GrowthStartRound, r.settings.StockCap)

	r.history[r.roundNum] = actual
	outcome := &RoundOutcome{
		StockBefore:    r.stock,
		Requested:      requested,
		Actual:         actual,
		HarvestedTotal: harvested,
		Remaining:      remaining,
		NextStock:      next,
	}

	r.stock = next
	r.roundNum++
	r.pending = make(map[domain.ParticipantID]int)

	if r.stock == 0 {
		r.phase = PhaseFinished
		r.collapseRound = r.roundNum - 1
		outcome.Collapse = true
		outcome.CollapseMessage = collapseMessage
		log.Info().Str("module", "core.room").Str("room", string(r.code)).Int("round", r.collapseRound).Msg("stock collapsed")
	} else if r.roundNum > r.settings.RoundsTotal {
		r.phase = PhaseFinished
		log.Info().Str("module", "core.room").Str("room", string(r.code)).Msg("all seasons played")
	}
	r.lastOutcome = outcome
}

// Snapshot builds the read-only public view. Observer snapshots carry the
// full history and the totals-ranked scoreboard on top of the player view.
func (r *Room) Snapshot(observer bool) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]domain.Participant, 0, len(r.roster))
	for _, p := range r.roster {
		players = append(players, *p)
	}
	submitted := make([]domain.ParticipantID, 0, len(r.pending))
	for _, p := range r.roster {
		if _, ok := r.pending[p.ID]; ok {
			submitted = append(submitted, p.ID)
		}
	}
	totals := make(map[domain.ParticipantID]int, len(r.totals))
	for id, t := range r.totals {
		totals[id] = t
	}

	snap := Snapshot{
		RoomCode:            r.code,
		RoundNum:            r.roundNum,
		RoundsTotal:         r.settings.RoundsTotal,
		Stock:               r.stock,
		MaxHarvestPerPlayer: r.settings.MaxHarvestPerPlayer,
		GrowthStartRound:    r.settings.GrowthStartRound,
		StockCap:            r.settings.StockCap,
		MinPlayers:          r.settings.MinPlayers,
		MaxPlayers:          r.settings.MaxPlayers,
		Players:             players,
		Submitted:           submitted,
		Totals:              totals,
		LastRoundResults:    r.lastOutcome,
		Started:             r.phase != PhaseWaiting,
		Finished:            r.phase == PhaseFinished,
		SeasonsCompleted:    len(r.history),
		CollapseRound:       r.collapseRound,
	}

	if observer {
		history := make(map[int]map[domain.ParticipantID]int, len(r.history))
		for round, h := range r.history {
			entry := make(map[domain.ParticipantID]int, len(h))
			for id, v := range h {
				entry[id] = v
			}
			history[round] = entry
		}
		snap.History = history
		snap.Scoreboard = r.scoreboard()
	}
	return snap
}

// scoreboard ranks participants by lifetime total. Caller holds mu.
func (r *Room) scoreboard() []ScoreboardRow {
	survived := len(r.history)
	if r.collapseRound > 0 {
		survived = r.collapseRound
	}

	rows := make([]ScoreboardRow, 0, len(r.roster))
	for _, p := range r.roster {
		byRound := make(map[int]int, len(r.history))
		for round, h := range r.history {
			byRound[round] = h[p.ID]
		}
		rows = append(rows, ScoreboardRow{
			PlayerID:        p.ID,
			Name:            p.Name,
			Total:           r.totals[p.ID],
			ByRound:         byRound,
			SeasonsSurvived: survived,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	return rows
}
