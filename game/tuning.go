package game

import "time"

const (
	TickDelay   = 16 * time.Millisecond
	BoardX      = 50.0
	BoardY      = 50.0
	BoardWidth  = 800.0
	BoardHeight = 360.0
	GateHeight  = 130.0
	GateDepth   = 30.0
	GridColumns = 3
	GridRows    = 4

	Damping     = 0.98 // per tick velocity scale for every entity
	GateDamping = 0.8  // extra scale while the ball is inside a goal mouth
	MoveImpulse = 0.6  // velocity added per move event
	ShootPower  = 9.0

	PlayerSize     = 30.0
	PlayerMass     = 1.0
	PlayerSpeedCap = 4.0
	BallSize       = 20.0
	BallMass       = 0.5
	BallSpeedCap   = 12.0
)
