package room

import (
	"haxball/game"
	"haxball/geom"
)

// Conn is the room's view of a subscribed connection. Both calls must not
// block: the transport queues or drops.
type Conn interface {
	Send([]byte) error      // JSON envelope
	SendFrame([]byte) error // binary room-update frame
}

// Join: seat a named connection
type Join struct {
	Conn     Conn
	Nickname string
	Reply    chan<- JoinResult
}

type JoinResult struct {
	EntityID uint32
	Err      error
}

// Leave: issued on disconnect or room switch
type Leave struct {
	EntityID uint32
}

// Move: apply a movement impulse right away
type Move struct {
	EntityID uint32
	Input    geom.Vector2
}

// SetFlags: replace the client-owned flags of an entity
type SetFlags struct {
	EntityID uint32
	Flags    game.Flags
}

// Rename: a seated member changed nickname
type Rename struct {
	EntityID uint32
	Nickname string
}
