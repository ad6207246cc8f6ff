package domain

import "strings"

type RoomCode string

// NormalizeRoomCode folds a user-typed code to its canonical form: trimmed
// and upper-cased. Registry keys are always normalized.
func NormalizeRoomCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}
