package hyper4d

import "math"

// Point4 represents a point in 4-dimensional space.
// It is a value type: every transform returns a new point.
type Point4 struct {
	X, Y, Z, W Real
}

func (a Point4) Add(b Point4) Point4 { return Point4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W} }
func (a Point4) Sub(b Point4) Point4 { return Point4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W} }
func (p Point4) Mul(s Real) Point4   { return Point4{p.X * s, p.Y * s, p.Z * s, p.W * s} }

// Dot returns the 4D dot product.
func (a Point4) Dot(b Point4) Real {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Len returns the Euclidean norm.
func (p Point4) Len() Real { return math.Sqrt(p.Dot(p)) }

// Dist returns the Euclidean distance between two points.
func (a Point4) Dist(b Point4) Real { return a.Sub(b).Len() }

// Quat reads the point as the quaternion w + x·i + y·j + z·k.
func (p Point4) Quat() Quat { return Quat{W: p.W, X: p.X, Y: p.Y, Z: p.Z} }

// Point3 is a projected point.
type Point3 struct {
	X, Y, Z Real
}
