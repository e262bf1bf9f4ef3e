package hyper4d

import "math"

// Quat is a quaternion W + X·i + Y·j + Z·k.
type Quat struct {
	W Real `json:"w"`
	X Real `json:"x"`
	Y Real `json:"y"`
	Z Real `json:"z"`
}

// IdentityQuat is the multiplicative identity.
func IdentityQuat() Quat { return Quat{W: 1} }

// Mul returns the Hamilton product a·b.
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
	}
}

func (q Quat) Conj() Quat { return Quat{q.W, -q.X, -q.Y, -q.Z} }

func (q Quat) Norm() Real { return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z) }

// Normalize returns a unit quaternion. Degenerate or non-finite input
// collapses to the identity.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if !(n > epsNorm) || !isFinite(n) {
		return IdentityQuat()
	}
	return Quat{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// leftMatrix is p -> q·p on (x, y, z, w) coordinates.
func (q Quat) leftMatrix() Mat4 {
	return Mat4{M: [4][4]Real{
		{q.W, -q.Z, q.Y, q.X},
		{q.Z, q.W, -q.X, q.Y},
		{-q.Y, q.X, q.W, q.Z},
		{-q.X, -q.Y, -q.Z, q.W},
	}}
}

// rightMatrix is p -> p·q.
func (q Quat) rightMatrix() Mat4 {
	return Mat4{M: [4][4]Real{
		{q.W, q.Z, -q.Y, q.X},
		{-q.Z, q.W, q.X, q.Y},
		{q.Y, -q.X, q.W, q.Z},
		{-q.X, -q.Y, -q.Z, q.W},
	}}
}

// Point reads the quaternion back as a 4D point.
func (q Quat) Point() Point4 { return Point4{X: q.X, Y: q.Y, Z: q.Z, W: q.W} }

// planeAxis holds the imaginary unit (and its sign) each plane's half-angle
// sine is written into. Complementary planes share an axis.
var planeAxis = [numPlanes]Quat{
	PlaneXY: {Z: 1},
	PlaneXZ: {Y: -1},
	PlaneYZ: {X: 1},
	PlaneXW: {X: -1},
	PlaneYW: {Y: -1},
	PlaneZW: {Z: -1},
}

// FromPlaneAngle builds cos(θ/2) + sin(θ/2)·axis(plane).
func FromPlaneAngle(p Plane, angle Real) Quat {
	if !p.Valid() || !isFinite(angle) {
		return IdentityQuat()
	}
	s, c := math.Sincos(angle / 2)
	a := planeAxis[p]
	return Quat{W: c, X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}
