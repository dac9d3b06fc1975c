package game

import "math"

// --- Vec3 ---

// Vec3 is a world-space vector in metres. +Y is up, -Z is "forward" for
// tracked objects (the WebXR / three.js convention the headset reports in).
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for a Vec3 literal.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) LenSq() float64       { return v.Dot(v) }
func (v Vec3) Len() float64         { return math.Sqrt(v.LenSq()) }
func (v Vec3) Dist(o Vec3) float64  { return v.Sub(o).Len() }
func (v Vec3) IsZero() bool         { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Cross returns v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// PointSegmentDistance returns the shortest distance from p to the segment ab.
// A zero-length segment degrades to point distance.
func PointSegmentDistance(p, a, b Vec3) float64 {
	ab := b.Sub(a)
	denom := ab.LenSq()
	if denom == 0 {
		return p.Dist(a)
	}
	t := clamp01(p.Sub(a).Dot(ab) / denom)
	return p.Dist(a.Add(ab.Scale(t)))
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- Quat ---

// Quat is a unit rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity is the no-rotation quaternion.
func QuatIdentity() Quat { return Quat{W: 1} }

// QuatAxisAngle builds a rotation of angle radians around axis.
func QuatAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{X: a.X * s, Y: a.Y * s, Z: a.Z * s, W: math.Cos(angle / 2)}
}

// Mul composes q then r (r applied first, as in q*r).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Normalize rescales q to unit length; a zero quaternion becomes identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// LookRotation returns the orientation whose forward axis (-Z) points along
// dir. A zero dir yields identity.
func LookRotation(dir Vec3) Quat {
	f := dir.Normalize()
	if f.IsZero() {
		return QuatIdentity()
	}
	// Shortest arc from -Z to f.
	from := Vec3{0, 0, -1}
	d := from.Dot(f)
	if d < -0.999999 {
		// Opposite: half turn around up.
		return QuatAxisAngle(Vec3{0, 1, 0}, math.Pi)
	}
	c := from.Cross(f)
	return Quat{X: c.X, Y: c.Y, Z: c.Z, W: 1 + d}.Normalize()
}

// --- Transform ---

// Transform is a world pose with uniform scale.
type Transform struct {
	Position    Vec3
	Orientation Quat
	Scale       float64
}

// NewTransform places an unrotated, unit-scale transform at p.
func NewTransform(p Vec3) Transform {
	return Transform{Position: p, Orientation: QuatIdentity(), Scale: 1}
}

// Forward is the world direction of the local -Z axis.
func (t Transform) Forward() Vec3 {
	return t.Orientation.Rotate(Vec3{0, 0, -1})
}

// Local converts a local-space offset into world space (scale not applied).
func (t Transform) Local(offset Vec3) Vec3 {
	return t.Position.Add(t.Orientation.Rotate(offset))
}

// --- AABB ---

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// BoundsOfCapsule returns the box enclosing segment ab swept by radius r.
func BoundsOfCapsule(a, b Vec3, r float64) AABB {
	return AABB{
		Min: Vec3{math.Min(a.X, b.X) - r, math.Min(a.Y, b.Y) - r, math.Min(a.Z, b.Z) - r},
		Max: Vec3{math.Max(a.X, b.X) + r, math.Max(a.Y, b.Y) + r, math.Max(a.Z, b.Z) + r},
	}
}

// Size returns the box extents.
func (b AABB) Size() Vec3 { return b.Max.Sub(b.Min) }

// Diagonal returns the length of the box diagonal.
func (b AABB) Diagonal() float64 { return b.Size().Len() }
