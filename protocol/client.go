package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"haxball/geom"
)

var null = []byte("null")

//input structs coming in from the client.

// JoinRequest is the set-room payload. Clients may send just the room name
// as a JSON string, or an object when the room has a password.
type JoinRequest struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

func (j *JoinRequest) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		*j = JoinRequest{}
		return json.Unmarshal(b, &j.Name)
	}
	type plain JoinRequest
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*j = JoinRequest(p)
	return nil
}

// Move is the move payload: either a direction index (0 up, 1 down, 2 left,
// 3 right) or a free vector {x, y}.
type Move struct {
	Direction *int
	Vector    *geom.Vector2
}

func (m *Move) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*m = Move{}
	if bytes.Equal(b, null) {
		return fmt.Errorf("move payload is null")
	}
	if len(b) > 0 && b[0] == '{' {
		var v geom.Vector2
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		m.Vector = &v
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("move payload must be a direction or a vector: %w", err)
	}
	d := int(f)
	if float64(d) != f {
		return fmt.Errorf("direction %v is not an integer", f)
	}
	m.Direction = &d
	return nil
}

func (m Move) MarshalJSON() ([]byte, error) {
	switch {
	case m.Vector != nil:
		return json.Marshal(m.Vector)
	case m.Direction != nil:
		return json.Marshal(*m.Direction)
	}
	return []byte("null"), nil
}
