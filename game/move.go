package game

import (
	"fmt"

	"haxball/geom"
)

type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

var directions = [...]geom.Vector2{
	DirUp:    {X: 0, Y: -1},
	DirDown:  {X: 0, Y: 1},
	DirLeft:  {X: -1, Y: 0},
	DirRight: {X: 1, Y: 0},
}

func (d Direction) Vector() (geom.Vector2, error) {
	if d < 0 || int(d) >= len(directions) {
		return geom.Vector2{}, fmt.Errorf("%w: %d", ErrInvalidDirection, d)
	}
	return directions[d], nil
}

// ApplyMove adds a movement impulse to e. Inputs longer than one unit are
// clamped. Spectators and entities at their speed cap are left untouched, in
// which case ApplyMove reports false.
func ApplyMove(cfg *Config, e *Entity, input geom.Vector2) (bool, error) {
	if !input.IsFinite() {
		return false, ErrNonFinite
	}
	if e.Info.Team == TeamSpectator {
		return false, nil
	}
	if e.Speed() >= cfg.Template(e.Kind).SpeedCap {
		return false, nil
	}
	if l := input.Length(); l > 1 {
		input = input.Scale(1 / l)
	}
	e.Velocity = e.Velocity.Add(input.Scale(cfg.MoveImpulse))
	return true, nil
}
