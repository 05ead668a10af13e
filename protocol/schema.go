package protocol

import (
	"github.com/invopop/jsonschema"
)

// payloads lists the JSON payload type of every enveloped event.
var payloads = map[string]any{
	MsgSetNick:     "",
	MsgSetRoom:     JoinRequest{},
	MsgMove:        Move{},
	MsgSetFlags:    uint8(0),
	MsgAuthSuccess: "",
	MsgServerError: ServerError{},
	MsgRoomEntered: RoomEntered{},
	MsgRoomRebuild: RoomRebuild{},
	MsgNewFlags:    NewFlags{},
}

// Schema describes the payload of every JSON event as a definition keyed by
// event name. The binary room-update frame is documented in its description.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	defs := make(jsonschema.Definitions, len(payloads))
	for name, v := range payloads {
		s := reflector.Reflect(v)
		s.Version = ""
		s.Title = name
		defs[name] = s
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Room protocol",
		Description: "Events are JSON envelopes {\"t\": event, \"p\": payload}. " + MsgRoomUpdate + " is a binary frame of little-endian float32 records [id, x, y, vx, vy].",
		Type:        "object",
		Definitions: defs,
	}
}

// JSONSchema lets the reflector describe both accepted move shapes.
func (Move) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer", Description: "direction: 0 up, 1 down, 2 left, 3 right"},
			{Type: "object", Description: "free vector {x, y}, clamped to unit length"},
		},
	}
}
