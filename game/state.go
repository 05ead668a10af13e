package game

import (
	"haxball/geom"
)

// Internal truth authoritative game state

type Team uint8

const (
	TeamLeft Team = iota
	TeamRight
	TeamSpectator
)

func (t Team) String() string {
	switch t {
	case TeamLeft:
		return "left"
	case TeamRight:
		return "right"
	default:
		return "spectator"
	}
}

// EntityInfo is the serializable snapshot of an entity. It is both the live
// state kept by the room and the shape sent to clients on a roster rebuild.
type EntityInfo struct {
	ID       uint32    `json:"id"`
	Number   int       `json:"number"`
	Flags    Flags     `json:"flags"`
	Team     Team      `json:"team"`
	Nickname string    `json:"nick"`
	Rect     geom.Rect `json:"rect"`
}

// Entity is a simulated body: a player or the ball.
type Entity struct {
	Info     EntityInfo
	Kind     Kind
	Velocity geom.Vector2
	Mass     float64
}

// NewEntity builds an unseated entity. The kind is taken from the kind bits of
// flags, which must name exactly one kind.
func NewEntity(id uint32, flags Flags, nickname string) (*Entity, error) {
	kind, err := flags.Kind()
	if err != nil {
		return nil, err
	}
	return &Entity{
		Info: EntityInfo{
			ID:       id,
			Flags:    flags,
			Team:     TeamSpectator,
			Nickname: nickname,
		},
		Kind: kind,
	}, nil
}

func (e *Entity) ID() uint32 { return e.Info.ID }

func (e *Entity) IsBall() bool { return e.Kind == KindBall }

func (e *Entity) Center() geom.Vector2 { return e.Info.Rect.Center() }

func (e *Entity) Speed() float64 { return e.Velocity.Length() }

func (e *Entity) Shooting() bool { return e.Info.Flags.Has(FlagShooting) }

// Seat puts the entity on a team and copies the size and mass of its kind
// template. The position is left to the roster layout.
func (e *Entity) Seat(team Team, tmpl Template) {
	e.Info.Team = team
	e.Info.Rect.W = tmpl.Size.X
	e.Info.Rect.H = tmpl.Size.Y
	e.Mass = tmpl.Mass
}

// SetClientFlags replaces the client-owned bits and keeps the server-owned
// ones. It reports whether anything changed.
func (e *Entity) SetClientFlags(f Flags) bool {
	next := e.Info.Flags&^ClientFlags | f&ClientFlags
	if next == e.Info.Flags {
		return false
	}
	e.Info.Flags = next
	return true
}

// Integrate advances the position by the current velocity.
func (e *Entity) Integrate() {
	e.Info.Rect = e.Info.Rect.Translate(e.Velocity)
}

type State struct {
	Tick     uint64
	Entities []*Entity
}
