package game

import "math"

type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64         { return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z) }
func (a Vec3) LenXZ() float64       { return math.Hypot(a.X, a.Z) }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{a.X + t*(b.X-a.X), a.Y + t*(b.Y-a.Y), a.Z + t*(b.Z-a.Z)}
}

// Quat is a unit rotation quaternion.
type Quat struct{ W, X, Y, Z float64 }

func QuatIdentity() Quat { return Quat{W: 1} }

// QuatFromYaw builds a rotation about +Y; yaw 0 faces +Z.
func QuatFromYaw(yaw float64) Quat {
	half := yaw * 0.5
	return Quat{W: math.Cos(half), Y: math.Sin(half)}
}

func (q Quat) Yaw() float64 { return 2 * math.Atan2(q.Y, q.W) }

func (q Quat) Dot(p Quat) float64 { return q.W*p.W + q.X*p.X + q.Y*p.Y + q.Z*p.Z }

func (q Quat) Normalize() Quat {
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if n == 0 {
		return QuatIdentity()
	}
	inv := 1 / n
	return Quat{q.W * inv, q.X * inv, q.Y * inv, q.Z * inv}
}

// Slerp interpolates along the shortest arc between two unit quaternions.
// Nearly parallel inputs fall back to a normalized linear blend.
func Slerp(a, b Quat, t float64) Quat {
	d := a.Dot(b)
	if d < 0 {
		b = Quat{-b.W, -b.X, -b.Y, -b.Z}
		d = -d
	}
	if d > 0.9995 {
		return Quat{
			W: a.W + t*(b.W-a.W),
			X: a.X + t*(b.X-a.X),
			Y: a.Y + t*(b.Y-a.Y),
			Z: a.Z + t*(b.Z-a.Z),
		}.Normalize()
	}
	theta := math.Acos(Clamp(d, -1, 1))
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return Quat{
		W: wa*a.W + wb*b.W,
		X: wa*a.X + wb*b.X,
		Y: wa*a.Y + wb*b.Y,
		Z: wa*a.Z + wb*b.Z,
	}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Lerp(a, b, t float64) float64 { return a + t*(b-a) }

// Damp moves current a fixed fraction of the way toward target.
func Damp(current, target, factor float64) float64 {
	return current + (target-current)*factor
}

func moveToward(current, target, maxDelta float64) float64 {
	d := target - current
	if math.Abs(d) <= maxDelta {
		return target
	}
	if d < 0 {
		return current - maxDelta
	}
	return current + maxDelta
}

func moveTowardsVec(current, target Vec3, maxDelta float64) Vec3 {
	toTarget := target.Sub(current)
	dist := toTarget.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(toTarget.Scale(maxDelta / dist))
}
