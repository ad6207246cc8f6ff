package domain

import "errors"

var (
	ErrRoomFull        = errors.New("room is full")
	ErrAlreadyStarted  = errors.New("game already started")
	ErrNotStarted      = errors.New("waiting for more players")
	ErrNotAMember      = errors.New("not a member of this room")
	ErrAlreadyFinished = errors.New("game already finished")
)
