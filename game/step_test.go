package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haxball/geom"
)

func body(t *testing.T, cfg *Config, kind Kind, center, v geom.Vector2) *Entity {
	t.Helper()
	e, err := NewEntity(0, kind.Flag(), "")
	require.NoError(t, err)
	e.Seat(TeamLeft, cfg.Template(kind))
	e.Info.Rect = e.Info.Rect.WithCenter(center)
	e.Velocity = v
	return e
}

func TestStepMovesEntityAndAdvancesTick(t *testing.T) {
	cfg := DefaultConfig()
	p := body(t, &cfg, KindPlayer, cfg.Board.Center(), geom.V(1, 0))
	s := &State{Entities: []*Entity{p}}

	Step(&cfg, s)
	if s.Tick != 1 {
		t.Fatalf("tick after 1 step = %d, want 1", s.Tick)
	}
	x1 := p.Center().X
	if x1 <= cfg.Board.Center().X {
		t.Fatalf("expected x to increase after 1 step, got %f", x1)
	}

	for i := 0; i < 4; i++ {
		Step(&cfg, s)
	}
	if s.Tick != 5 {
		t.Fatalf("tick after 5 steps = %d, want 5", s.Tick)
	}
	if x2 := p.Center().X; x2 <= x1 {
		t.Fatalf("expected x to keep increasing: x1=%f x2=%f", x1, x2)
	}
}

func TestDampingDecay(t *testing.T) {
	cfg := DefaultConfig()
	p := body(t, &cfg, KindPlayer, cfg.Board.Center(), geom.V(2, 1))
	s := &State{Entities: []*Entity{p}}
	initial := p.Speed()

	const ticks = 50
	for i := 0; i < ticks; i++ {
		Step(&cfg, s)
	}

	want := initial * math.Pow(cfg.Damping, ticks)
	assert.InDelta(t, want, p.Speed(), 1e-9)
	assert.Greater(t, p.Speed(), 0.0)
}

func TestBoundaryReflection(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg.Board

	testCases := []struct {
		name   string
		center geom.Vector2
		v      geom.Vector2
		wantX  float64 // sign of vx after the tick
		wantY  float64 // sign of vy after the tick
	}{
		{"top edge", geom.V(b.Center().X, b.Y+5), geom.V(0, -2), 0, 1},
		{"bottom edge", geom.V(b.Center().X, b.Y+b.H-5), geom.V(0, 2), 0, -1},
		{"left edge", geom.V(b.X+5, b.Y+20), geom.V(-2, 0), 1, 0},
		{"right edge", geom.V(b.X+b.W-5, b.Y+20), geom.V(2, 0), -1, 0},
		{"moving back inside", geom.V(b.X+5, b.Y+20), geom.V(2, 0), 1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := body(t, &cfg, KindPlayer, tc.center, tc.v)
			Step(&cfg, &State{Entities: []*Entity{p}})
			assert.Equal(t, tc.wantX, sign(p.Velocity.X))
			assert.Equal(t, tc.wantY, sign(p.Velocity.Y))
		})
	}
}

func TestGoalPassThrough(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg.Board
	mid := b.Center().Y
	edge := b.X + b.W

	ball := body(t, &cfg, KindBall, geom.V(edge-5, mid), geom.V(3, 0))
	Step(&cfg, &State{Entities: []*Entity{ball}})
	assert.Greater(t, ball.Velocity.X, 0.0, "ball in the goal mouth keeps heading out")
	assert.InDelta(t, 3*cfg.GateDamping*cfg.Damping, ball.Velocity.X, 1e-12)

	player := body(t, &cfg, KindPlayer, geom.V(edge-5, mid), geom.V(3, 0))
	Step(&cfg, &State{Entities: []*Entity{player}})
	assert.Less(t, player.Velocity.X, 0.0, "players bounce off the goal line")

	high := body(t, &cfg, KindBall, geom.V(edge-5, b.Y+20), geom.V(3, 0))
	Step(&cfg, &State{Entities: []*Entity{high}})
	assert.Less(t, high.Velocity.X, 0.0, "ball outside the gate window bounces")
}

func TestBallGrazingPostBounces(t *testing.T) {
	cfg := DefaultConfig()
	edge := cfg.Board.X + cfg.Board.W
	goal := cfg.Goals[1]
	r := cfg.Ball.Size.Y / 2

	testCases := []struct {
		name  string
		y     float64
		wantX float64
	}{
		{"center just above the window", goal.Y - r/2, -1},
		{"center just below the window", goal.Y + goal.H + r/2, -1},
		{"center on the top post", goal.Y, 1},
		{"center on the bottom post", goal.Y + goal.H, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ball := body(t, &cfg, KindBall, geom.V(edge-5, tc.y), geom.V(3, 0))
			require.True(t, ball.Info.Rect.Intersects(goal), "the rect overlaps the goal")
			Step(&cfg, &State{Entities: []*Entity{ball}})
			assert.Equal(t, tc.wantX, sign(ball.Velocity.X))
		})
	}
}

func TestBallLeavesGateBackwards(t *testing.T) {
	cfg := DefaultConfig()
	goal := cfg.Goals[1]

	// fully past the net: no longer inside the gate, so the side wall applies
	ball := body(t, &cfg, KindBall, geom.V(goal.X+goal.W+cfg.Ball.Size.X, goal.Center().Y), geom.V(2, 0))
	Step(&cfg, &State{Entities: []*Entity{ball}})
	assert.Less(t, ball.Velocity.X, 0.0)
}

func TestCollisionConservesMomentum(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		a := body(t, &cfg, KindPlayer, geom.V(400, 200), geom.V(rng.Float64()*8-4, rng.Float64()*8-4))
		b := body(t, &cfg, KindPlayer, geom.V(0, 0), geom.V(rng.Float64()*8-4, rng.Float64()*8-4))
		a.Mass = 0.1 + rng.Float64()*10
		b.Mass = 0.1 + rng.Float64()*10

		angle := rng.Float64() * 2 * math.Pi
		dist := 1 + rng.Float64()*(a.Info.Rect.W/2+b.Info.Rect.W/2-1.5)
		b.Info.Rect = b.Info.Rect.WithCenter(a.Center().Add(geom.V(math.Cos(angle), math.Sin(angle)).Scale(dist)))

		before := momentum(a, b)
		energyBefore := energy(a, b)
		collide(&cfg, a, b)
		after := momentum(a, b)

		require.InDelta(t, before.X, after.X, 1e-9, "iteration %d", i)
		require.InDelta(t, before.Y, after.Y, 1e-9, "iteration %d", i)
		require.InDelta(t, energyBefore, energy(a, b), 1e-9, "iteration %d", i)
	}
}

func TestHeadOnEqualMassesSwapVelocities(t *testing.T) {
	cfg := DefaultConfig()
	a := body(t, &cfg, KindPlayer, geom.V(200, 200), geom.V(2, 0))
	b := body(t, &cfg, KindPlayer, geom.V(220, 200), geom.V(-1, 0))

	collide(&cfg, a, b)

	assert.InDelta(t, -1.0, a.Velocity.X, 1e-12)
	assert.InDelta(t, 2.0, b.Velocity.X, 1e-12)
	assert.InDelta(t, 200-1.0, a.Center().X, 1e-12, "position integrated with the new velocity")
}

func TestSeparatingPairIsLeftAlone(t *testing.T) {
	cfg := DefaultConfig()
	a := body(t, &cfg, KindPlayer, geom.V(200, 200), geom.V(-2, 0))
	b := body(t, &cfg, KindPlayer, geom.V(220, 200), geom.V(1, 0))

	collide(&cfg, a, b)

	assert.Equal(t, geom.V(-2, 0), a.Velocity)
	assert.Equal(t, geom.V(1, 0), b.Velocity)
}

func TestShootingPlayerKicksBall(t *testing.T) {
	cfg := DefaultConfig()
	ball := body(t, &cfg, KindBall, geom.V(224, 200), geom.V(0, 0))
	p := body(t, &cfg, KindPlayer, geom.V(200, 200), geom.V(0, 0))
	p.SetClientFlags(FlagShooting)

	collide(&cfg, ball, p)

	assert.InDelta(t, cfg.ShootPower, ball.Velocity.X, 1e-12)
	assert.InDelta(t, 0, ball.Velocity.Y, 1e-12)
	m := momentum(ball, p)
	assert.InDelta(t, 0, m.X, 1e-12)
}

func TestKickIsCappedAtBallSpeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShootPower = 100
	ball := body(t, &cfg, KindBall, geom.V(224, 200), geom.V(0, 0))
	p := body(t, &cfg, KindPlayer, geom.V(200, 200), geom.V(0, 0))
	p.SetClientFlags(FlagShooting)

	collide(&cfg, p, ball)

	assert.InDelta(t, cfg.Ball.SpeedCap, ball.Speed(), 1e-9)
}

func TestBallAtCapFallsBackToElasticCollision(t *testing.T) {
	cfg := DefaultConfig()
	ball := body(t, &cfg, KindBall, geom.V(224, 200), geom.V(-cfg.Ball.SpeedCap, 0))
	p := body(t, &cfg, KindPlayer, geom.V(200, 200), geom.V(0, 0))
	p.SetClientFlags(FlagShooting)
	before := momentum(ball, p)

	collide(&cfg, p, ball)

	assert.Greater(t, ball.Velocity.X, -cfg.Ball.SpeedCap)
	assert.InDelta(t, before.X, momentum(ball, p).X, 1e-9)
}

func momentum(es ...*Entity) geom.Vector2 {
	var m geom.Vector2
	for _, e := range es {
		m = m.Add(e.Velocity.Scale(e.Mass))
	}
	return m
}

func energy(es ...*Entity) float64 {
	var k float64
	for _, e := range es {
		k += 0.5 * e.Mass * e.Velocity.Dot(e.Velocity)
	}
	return k
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}
