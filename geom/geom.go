package geom

import "math"

// Vector2 is a 2D point or direction.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func V(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Scale(k float64) Vector2 { return Vector2{v.X * k, v.Y * k} }

// Mul multiplies component-wise.
func (v Vector2) Mul(o Vector2) Vector2 { return Vector2{v.X * o.X, v.Y * o.Y} }

func (v Vector2) Dot(o Vector2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector in the direction of v. The zero vector
// stays zero instead of turning into NaN.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return Vector2{v.X / l, v.Y / l}
}

func (v Vector2) Distance(o Vector2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

func (v Vector2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner. It is
// used both as a physical body and as plain geometry (board, goal mouth).
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Position() Vector2 { return Vector2{r.X, r.Y} }
func (r Rect) Size() Vector2     { return Vector2{r.W, r.H} }

func (r Rect) Center() Vector2 {
	return Vector2{r.X + r.W/2, r.Y + r.H/2}
}

// Intersects reports whether r and o overlap with a non-empty area.
func (r Rect) Intersects(o Rect) bool {
	return r.X+r.W > o.X &&
		r.X < o.X+o.W &&
		r.Y+r.H > o.Y &&
		r.Y < o.Y+o.H
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X &&
		o.X+o.W <= r.X+r.W &&
		o.Y >= r.Y &&
		o.Y+o.H <= r.Y+r.H
}

func (r Rect) Translate(v Vector2) Rect {
	return Rect{r.X + v.X, r.Y + v.Y, r.W, r.H}
}

// WithCenter keeps the size of r and moves it so that its center is c.
func (r Rect) WithCenter(c Vector2) Rect {
	return Rect{c.X - r.W/2, c.Y - r.H/2, r.W, r.H}
}

func (r Rect) WithPadding(p float64) Rect {
	return Rect{r.X + p, r.Y + p, r.W - 2*p, r.H - 2*p}
}

func (r Rect) IsFinite() bool {
	return isFinite(r.X) && isFinite(r.Y) && isFinite(r.W) && isFinite(r.H)
}
