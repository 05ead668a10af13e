package protocol

import (
	"encoding/json"
)

// Inbound events, client to server.
const (
	MsgSetNick         = "set-nick"
	MsgSetRoom         = "set-room"
	MsgMove            = "move"
	MsgSetFlags        = "set-flags"
	MsgEnableShooting  = "enable-shooting"
	MsgDisableShooting = "disable-shooting"
)

// Outbound events, server to client. MsgRoomUpdate travels as a binary frame
// and never inside an Envelope.
const (
	MsgAuthSuccess = "auth-success"
	MsgServerError = "server-error"
	MsgRoomEntered = "room-entered"
	MsgRoomRebuild = "room-rebuild"
	MsgRoomUpdate  = "room-update"
	MsgNewFlags    = "new-flags"
)

// Error codes carried by MsgServerError.
const (
	CodeNickAlreadyExists = "NICK_ALREADY_EXISTS"
	CodeInvalidNick       = "INVALID_NICK"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeRoomNotFound      = "ROOM_NOT_FOUND"
	CodeNotAuthenticated  = "NOT_AUTHENTICATED"
)

const (
	MaxNickLength = 30
	Welcome       = "Welcome to the pitch!"
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"` // raw payload bytes
}
