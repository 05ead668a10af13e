package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrEmptyMessage = errors.New("empty message")

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope without type")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload for %q", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %q payload: %w", t, err)
	}

	return json.Marshal(Envelope{T: t, P: pb})
}

// EncodeError builds a MsgServerError envelope. The payload is static so it
// cannot fail to marshal.
func EncodeError(code string) []byte {
	b, _ := Encode(MsgServerError, ServerError{Code: code})
	return b
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyMessage
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("envelope without type")
	}
	return e, nil
}

// DecodePayload unmarshals the payload of env into a fresh T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if p := bytes.TrimSpace(env.P); len(p) == 0 || bytes.Equal(p, null) {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
