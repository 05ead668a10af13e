package protocol

import (
	"encoding/binary"
	"fmt"
	"math"

	"haxball/game"
)

// FrameRecordSize is the byte size of one entity record in a room-update
// frame: id, x, y, vx, vy as little-endian float32.
const FrameRecordSize = 5 * 4

// FrameRecord is one decoded room-update record.
type FrameRecord struct {
	ID     uint32
	X, Y   float32
	VX, VY float32
}

// EncodeFrame serializes the positions and velocities of entities in roster
// order. The frame has no header; receivers derive the entity count from its
// length. The first slot carries the stable entity id, not the roster index,
// so a roster reshuffle cannot make a client apply a record to the wrong body.
func EncodeFrame(entities []*game.Entity) []byte {
	return AppendFrame(make([]byte, 0, len(entities)*FrameRecordSize), entities)
}

// AppendFrame is EncodeFrame into a caller-owned buffer.
func AppendFrame(dst []byte, entities []*game.Entity) []byte {
	for _, e := range entities {
		r := e.Info.Rect
		dst = appendFloat(dst, float32(e.Info.ID))
		dst = appendFloat(dst, float32(r.X))
		dst = appendFloat(dst, float32(r.Y))
		dst = appendFloat(dst, float32(e.Velocity.X))
		dst = appendFloat(dst, float32(e.Velocity.Y))
	}
	return dst
}

func appendFloat(dst []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
}

func DecodeFrame(b []byte) ([]FrameRecord, error) {
	if len(b)%FrameRecordSize != 0 {
		return nil, fmt.Errorf("frame length %d is not a multiple of %d", len(b), FrameRecordSize)
	}
	out := make([]FrameRecord, 0, len(b)/FrameRecordSize)
	for off := 0; off < len(b); off += FrameRecordSize {
		f := func(i int) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(b[off+i*4:]))
		}
		out = append(out, FrameRecord{
			ID: uint32(f(0)),
			X:  f(1),
			Y:  f(2),
			VX: f(3),
			VY: f(4),
		})
	}
	return out, nil
}
