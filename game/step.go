package game

import (
	"haxball/geom"
)

// Step advances the simulation by one tick. Entities are processed in roster
// order; every unordered pair is tested for collision once.
func Step(cfg *Config, s *State) {
	s.Tick++

	inGate := make([]bool, len(s.Entities))
	for i, e := range s.Entities {
		if e.Kind == KindBall {
			inGate[i] = insideGoal(cfg, e.Info.Rect)
		}
	}

	for i := 0; i < len(s.Entities); i++ {
		for j := i + 1; j < len(s.Entities); j++ {
			collide(cfg, s.Entities[i], s.Entities[j])
		}
	}

	for i, e := range s.Entities {
		if inGate[i] {
			// top and bottom still hold, the goal mouth is open sideways
			bounce(cfg.Board, e, false)
			e.Velocity = e.Velocity.Scale(cfg.GateDamping)
		} else {
			bounce(cfg.Board, e, true)
		}
		e.Velocity = e.Velocity.Scale(cfg.Damping)
		e.Integrate()
	}
}

// insideGoal reports whether a ball with rect r is in a goal mouth: its
// vertical center lies within the goal span and the rect reaches into the
// goal horizontally. A ball grazing a post from above or below is not in.
func insideGoal(cfg *Config, r geom.Rect) bool {
	cy := r.Center().Y
	for _, g := range cfg.Goals {
		if cy >= g.Y && cy <= g.Y+g.H && r.X < g.X+g.W && r.X+r.W > g.X {
			return true
		}
	}
	return false
}

// bounce inverts the velocity component on each axis where the entity has
// crossed the board edge and is still moving outward.
func bounce(board geom.Rect, e *Entity, sides bool) {
	r := e.Info.Rect
	v := &e.Velocity
	if (r.Y < board.Y && v.Y < 0) || (r.Y+r.H > board.Y+board.H && v.Y > 0) {
		v.Y = -v.Y
	}
	if !sides {
		return
	}
	if (r.X < board.X && v.X < 0) || (r.X+r.W > board.X+board.W && v.X > 0) {
		v.X = -v.X
	}
}

func collide(cfg *Config, a, b *Entity) {
	ca, cb := a.Center(), b.Center()
	dist := ca.Distance(cb)
	if dist == 0 || dist >= a.Info.Rect.W/2+b.Info.Rect.W/2 {
		return
	}
	n := cb.Sub(ca).Scale(1 / dist)

	switch {
	case a.Kind == KindPlayer && b.Kind == KindBall && a.Shooting():
		if kick(cfg, a, b, n) {
			return
		}
	case a.Kind == KindBall && b.Kind == KindPlayer && b.Shooting():
		if kick(cfg, b, a, n.Scale(-1)) {
			return
		}
	}

	p := 2 * (a.Velocity.Dot(n) - b.Velocity.Dot(n)) / (a.Mass + b.Mass)
	if p <= 0 {
		// already separating
		return
	}
	a.Velocity = a.Velocity.Sub(n.Scale(p * b.Mass))
	b.Velocity = b.Velocity.Add(n.Scale(p * a.Mass))
	a.Integrate()
	b.Integrate()
}

// kick replaces the elastic response between a shooting player and the ball
// with a fixed impulse along dir (player towards ball). The ball speed is
// capped and the player takes the matching recoil. It reports false when the
// ball is already at its cap so the pair falls back to a plain collision.
func kick(cfg *Config, player, ball *Entity, dir geom.Vector2) bool {
	limit := cfg.Ball.SpeedCap
	if ball.Speed() >= limit {
		return false
	}
	next := ball.Velocity.Add(dir.Scale(cfg.ShootPower))
	if s := next.Length(); s > limit {
		next = next.Scale(limit / s)
	}
	delta := next.Sub(ball.Velocity)
	ball.Velocity = next
	player.Velocity = player.Velocity.Sub(delta.Scale(ball.Mass / player.Mass))
	player.Integrate()
	ball.Integrate()
	return true
}
