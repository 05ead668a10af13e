package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haxball/game"
	"haxball/geom"
)

func TestMessageConstants(t *testing.T) {
	if MsgRoomUpdate != "room-update" {
		t.Fatalf("MsgRoomUpdate = %q, want %q", MsgRoomUpdate, "room-update")
	}
	if CodeNickAlreadyExists != "NICK_ALREADY_EXISTS" {
		t.Fatalf("CodeNickAlreadyExists = %q", CodeNickAlreadyExists)
	}
	if MaxNickLength != 30 {
		t.Fatalf("MaxNickLength = %d, want 30", MaxNickLength)
	}
}

func TestEncodeDecodeEnvelope(t *testing.T) {
	b, err := Encode(MsgNewFlags, NewFlags{Nickname: "alice", Flags: game.FlagPlayer | game.FlagShooting})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"new-flags","p":{"nick":"alice","flags":12}}`, string(b))

	env, err := DecodeEnvelope(b)
	require.NoError(t, err)
	assert.Equal(t, MsgNewFlags, env.T)

	nf, err := DecodePayload[NewFlags](env)
	require.NoError(t, err)
	assert.Equal(t, "alice", nf.Nickname)
	assert.True(t, nf.Flags.Has(game.FlagShooting))
}

func TestEncodeRejectsMissingParts(t *testing.T) {
	_, err := Encode("", ServerError{})
	assert.Error(t, err)

	_, err = Encode(MsgServerError, nil)
	assert.Error(t, err)
}

func TestEncodeError(t *testing.T) {
	assert.JSONEq(t, `{"t":"server-error","p":{"code":"NICK_ALREADY_EXISTS"}}`, string(EncodeError(CodeNickAlreadyExists)))
}

func TestDecodeEnvelopeErrors(t *testing.T) {
	_, err := DecodeEnvelope(nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = DecodeEnvelope([]byte(`{not json`))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{"p":1}`))
	assert.Error(t, err)

	env, err := DecodeEnvelope([]byte(`{"t":"enable-shooting"}`))
	require.NoError(t, err)
	_, err = DecodePayload[string](env)
	assert.Error(t, err, "missing payload")

	env, err = DecodeEnvelope([]byte(`{"t":"set-flags","p":null}`))
	require.NoError(t, err)
	_, err = DecodePayload[uint8](env)
	assert.Error(t, err, "null payload")

	env, err = DecodeEnvelope([]byte(`{"t":"move","p":null}`))
	require.NoError(t, err)
	_, err = DecodePayload[Move](env)
	assert.Error(t, err, "null move")
}

func TestJoinRequestShapes(t *testing.T) {
	var j JoinRequest
	require.NoError(t, json.Unmarshal([]byte(`"test"`), &j))
	assert.Equal(t, JoinRequest{Name: "test"}, j)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"pro","password":"secret"}`), &j))
	assert.Equal(t, JoinRequest{Name: "pro", Password: "secret"}, j)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &j))
}

func TestMoveShapes(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		wantDir *int
		wantVec *geom.Vector2
		wantErr bool
	}{
		{name: "direction", raw: `3`, wantDir: ptr(3)},
		{name: "negative direction decodes", raw: `-1`, wantDir: ptr(-1)},
		{name: "vector", raw: ` {"x":0.5,"y":-1}`, wantVec: &geom.Vector2{X: 0.5, Y: -1}},
		{name: "fractional direction", raw: `1.5`, wantErr: true},
		{name: "string", raw: `"up"`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var m Move
			err := json.Unmarshal([]byte(tc.raw), &m)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantDir, m.Direction)
			assert.Equal(t, tc.wantVec, m.Vector)
		})
	}
}

func TestMoveMarshal(t *testing.T) {
	b, err := json.Marshal(Move{Direction: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, "2", string(b))

	b, err = json.Marshal(Move{Vector: &geom.Vector2{X: 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1,"y":0}`, string(b))
}

func TestFrameShape(t *testing.T) {
	for n := 0; n < 8; n++ {
		entities := make([]*game.Entity, n)
		for i := range entities {
			e, err := game.NewEntity(uint32(i+1), game.FlagPlayer, "")
			require.NoError(t, err)
			entities[i] = e
		}
		assert.Len(t, EncodeFrame(entities), 20*n)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	ball, err := game.NewEntity(1, game.FlagBall, "")
	require.NoError(t, err)
	ball.Info.Rect = geom.R(440, 220, 20, 20)
	ball.Velocity = geom.V(1.5, -0.25)

	p, err := game.NewEntity(7, game.FlagPlayer, "bob")
	require.NoError(t, err)
	p.Info.Rect = geom.R(100, 50, 30, 30)

	frame := EncodeFrame([]*game.Entity{ball, p})
	records, err := DecodeFrame(frame)
	require.NoError(t, err)

	assert.Equal(t, []FrameRecord{
		{ID: 1, X: 440, Y: 220, VX: 1.5, VY: -0.25},
		{ID: 7, X: 100, Y: 50},
	}, records)
}

func TestDecodeFrameRejectsPartialRecords(t *testing.T) {
	_, err := DecodeFrame(make([]byte, 21))
	assert.Error(t, err)

	records, err := DecodeFrame(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNewRoomConfig(t *testing.T) {
	cfg := game.DefaultConfig()
	rc := NewRoomConfig(&cfg)

	assert.Equal(t, cfg.Delay.Milliseconds(), rc.DelayMs)
	assert.Equal(t, cfg.Board, rc.Board)
	assert.Len(t, rc.Goals, 2)
}

func TestSchemaCoversEvents(t *testing.T) {
	s := Schema()

	for _, name := range []string{MsgSetNick, MsgSetRoom, MsgMove, MsgRoomEntered, MsgRoomRebuild, MsgNewFlags, MsgServerError} {
		def, ok := s.Definitions[name]
		require.True(t, ok, "missing definition for %s", name)
		assert.Equal(t, name, def.Title)
	}

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), MsgRoomUpdate)
}

func ptr[T any](v T) *T { return &v }
