package core

import "github.com/lcrespo/fishpond/internal/domain"

// RoundOutcome is the resolved numbers of the most recent season.
type RoundOutcome struct {
	StockBefore     int                          `json:"stock_before"`
	Requested       map[domain.ParticipantID]int `json:"requested"`
	Actual          map[domain.ParticipantID]int `json:"actual"`
	HarvestedTotal  int                          `json:"harvested_total"`
	Remaining       int                          `json:"remaining"`
	NextStock       int                          `json:"next_stock"`
	Collapse        bool                         `json:"collapse,omitempty"`
	CollapseMessage string                       `json:"collapse_message,omitempty"`
}

// ScoreboardRow is one participant's line in the observer scoreboard,
// ranked by lifetime total.
type ScoreboardRow struct {
	PlayerID        domain.ParticipantID `json:"player_id"`
	Name            string               `json:"name"`
	Total           int                  `json:"total"`
	ByRound         map[int]int          `json:"by_round"`
	SeasonsSurvived int                  `json:"seasons_survived"`
}

// Snapshot is the read-only public view of a room that goes out on every
// state broadcast. Pending harvest amounts are withheld; only the set of
// participants who have submitted is visible. History and scoreboard are
// populated for observer connections only.
type Snapshot struct {
	RoomCode            domain.RoomCode              `json:"room_code"`
	RoundNum            int                          `json:"round_num"`
	RoundsTotal         int                          `json:"rounds_total"`
	Stock               int                          `json:"stock"`
	MaxHarvestPerPlayer int                          `json:"max_harvest_per_player"`
	GrowthStartRound    int                          `json:"growth_start_round"`
	StockCap            int                          `json:"stock_cap,omitempty"`
	MinPlayers          int                          `json:"min_players"`
	MaxPlayers          int                          `json:"max_players"`
	Players             []domain.Participant         `json:"players"`
	Submitted           []domain.ParticipantID       `json:"submitted"`
	Totals              map[domain.ParticipantID]int `json:"totals"`
	LastRoundResults    *RoundOutcome                `json:"last_round_results,omitempty"`
	Started             bool                         `json:"started"`
	Finished            bool                         `json:"finished"`
	SeasonsCompleted    int                          `json:"seasons_completed"`
	CollapseRound       int                          `json:"collapse_round,omitempty"`

	History    map[int]map[domain.ParticipantID]int `json:"history,omitempty"`
	Scoreboard []ScoreboardRow                      `json:"scoreboard,omitempty"`
	AppVersion string                               `json:"app_version,omitempty"`
}
