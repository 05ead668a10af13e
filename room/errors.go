package room

import "errors"

var (
	ErrRoomExists       = errors.New("room already exists")
	ErrRoomClosed       = errors.New("room closed")
	ErrWrongPassword    = errors.New("wrong room password")
	ErrBallNotRemovable = errors.New("the ball cannot leave the room")
	ErrNotMember        = errors.New("entity is not in the room")
)
