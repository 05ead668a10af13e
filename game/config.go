package game

import (
	"fmt"
	"time"

	"haxball/geom"
)

// Template holds the per-kind physical parameters copied onto an entity when
// it is seated.
type Template struct {
	Size     geom.Vector2 `json:"size"`
	Mass     float64      `json:"mass"`
	SpeedCap float64      `json:"speedCap"`
}

// Config is the tuning of a room. It does not change while the room runs and
// the physics engine only reads it.
type Config struct {
	Delay       time.Duration `json:"-"`
	Board       geom.Rect     `json:"board"`
	GateHeight  float64       `json:"gateHeight"`
	GateDepth   float64       `json:"gateDepth"`
	Goals       []geom.Rect   `json:"goals"`
	ShootPower  float64       `json:"shootPower"`
	Damping     float64       `json:"damping"`
	GateDamping float64       `json:"gateDamping"`
	MoveImpulse float64       `json:"moveImpulse"`
	Grid        geom.Vector2  `json:"grid"` // layout columns (X) and rows (Y) per team
	Player      Template      `json:"player"`
	Ball        Template      `json:"ball"`
}

func DefaultConfig() Config {
	cfg := Config{
		Delay:       TickDelay,
		Board:       geom.R(BoardX, BoardY, BoardWidth, BoardHeight),
		GateHeight:  GateHeight,
		GateDepth:   GateDepth,
		ShootPower:  ShootPower,
		Damping:     Damping,
		GateDamping: GateDamping,
		MoveImpulse: MoveImpulse,
		Grid:        geom.V(GridColumns, GridRows),
		Player: Template{
			Size:     geom.V(PlayerSize, PlayerSize),
			Mass:     PlayerMass,
			SpeedCap: PlayerSpeedCap,
		},
		Ball: Template{
			Size:     geom.V(BallSize, BallSize),
			Mass:     BallMass,
			SpeedCap: BallSpeedCap,
		},
	}
	cfg.Goals = GoalsFor(cfg.Board, cfg.GateHeight, cfg.GateDepth)
	return cfg
}

// GoalsFor returns the two goal mouths just outside the left and right edges
// of the board, vertically centered.
func GoalsFor(board geom.Rect, height, depth float64) []geom.Rect {
	y := board.Y + board.H/2 - height/2
	return []geom.Rect{
		geom.R(board.X-depth, y, depth, height),
		geom.R(board.X+board.W, y, depth, height),
	}
}

func (c *Config) Template(k Kind) Template {
	if k == KindBall {
		return c.Ball
	}
	return c.Player
}

// Validate rejects configs that would feed negative sizes or non-finite
// values into the simulation. Missing goals are derived from the board.
func (c *Config) Validate() error {
	if c.Delay <= 0 {
		return fmt.Errorf("%w: delay must be positive, got %s", ErrInvalidConfig, c.Delay)
	}
	if !c.Board.IsFinite() || c.Board.W <= 0 || c.Board.H <= 0 {
		return fmt.Errorf("%w: board %+v", ErrInvalidConfig, c.Board)
	}
	if c.Damping <= 0 || c.Damping > 1 || c.GateDamping <= 0 || c.GateDamping > 1 {
		return fmt.Errorf("%w: damping must be in (0, 1]", ErrInvalidConfig)
	}
	if c.ShootPower < 0 || c.MoveImpulse < 0 {
		return fmt.Errorf("%w: negative impulse", ErrInvalidConfig)
	}
	if c.Grid.X < 1 || c.Grid.Y < 1 {
		return fmt.Errorf("%w: grid %+v", ErrInvalidConfig, c.Grid)
	}
	for _, t := range []Template{c.Player, c.Ball} {
		if !t.Size.IsFinite() || t.Size.X <= 0 || t.Size.Y <= 0 {
			return fmt.Errorf("%w: template size %+v", ErrInvalidConfig, t.Size)
		}
		if t.Mass <= 0 || t.SpeedCap <= 0 {
			return fmt.Errorf("%w: template mass and speed cap must be positive", ErrInvalidConfig)
		}
	}
	if len(c.Goals) == 0 {
		if c.GateHeight < 0 || c.GateDepth < 0 {
			return fmt.Errorf("%w: negative gate size", ErrInvalidConfig)
		}
		c.Goals = GoalsFor(c.Board, c.GateHeight, c.GateDepth)
	}
	for _, g := range c.Goals {
		if !g.IsFinite() || g.W < 0 || g.H < 0 {
			return fmt.Errorf("%w: goal %+v", ErrInvalidConfig, g)
		}
	}
	return nil
}
