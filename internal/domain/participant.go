// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"

	"github.com/google/uuid"
)

const (
	MaxNameLen  = 24
	DefaultName = "Player"

	// participant ids are short opaque tokens, not full uuids
	participantIDLen = 8
)

type ParticipantID string

// Participant is one member of a room's roster. Immutable after creation;
// a disconnect never removes it, so totals and history stay attributable.
type Participant struct {
	ID   ParticipantID `json:"player_id"`
	Name string        `json:"name"`
}

// NewParticipant generates a fresh id and normalizes the display name:
// trimmed, truncated to MaxNameLen, defaulted when blank.
func NewParticipant(name string) *Participant {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if len(name) > MaxNameLen {
		name = name[:MaxNameLen]
	}
	id := ParticipantID(uuid.NewString()[:participantIDLen])
	return &Participant{ID: id, Name: name}
}
