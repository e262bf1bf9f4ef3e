package hyper4d

import (
	"fmt"
	"strings"
)

// Plane names one of the six coordinate planes of 4-space.
type Plane uint8

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
	PlaneXW
	PlaneYW
	PlaneZW
	numPlanes
)

var planeNames = [numPlanes]string{"XY", "XZ", "YZ", "XW", "YW", "ZW"}

// Planes lists all planes in canonical order.
var Planes = [numPlanes]Plane{PlaneXY, PlaneXZ, PlaneYZ, PlaneXW, PlaneYW, PlaneZW}

func (p Plane) Valid() bool { return p < numPlanes }

func (p Plane) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Plane(%d)", uint8(p))
	}
	return planeNames[p]
}

// InvolvesW reports whether the plane rotates the W axis.
func (p Plane) InvolvesW() bool { return p == PlaneXW || p == PlaneYW || p == PlaneZW }

// Complement returns the totally orthogonal plane: XY<->ZW, XZ<->YW, XW<->YZ.
func (p Plane) Complement() Plane {
	switch p {
	case PlaneXY:
		return PlaneZW
	case PlaneZW:
		return PlaneXY
	case PlaneXZ:
		return PlaneYW
	case PlaneYW:
		return PlaneXZ
	case PlaneXW:
		return PlaneYZ
	case PlaneYZ:
		return PlaneXW
	}
	return p
}

// ParsePlane accepts "xy", "XY", ... .
func ParsePlane(s string) (Plane, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range planeNames {
		if n == u {
			return Plane(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rotation plane %q", s)
}

// Angles in radians for rotations in coordinate planes.
type Rot4 struct {
	XY, XZ, XW, YZ, YW, ZW Real
}

// Get returns the angle for plane p.
func (r Rot4) Get(p Plane) Real {
	switch p {
	case PlaneXY:
		return r.XY
	case PlaneXZ:
		return r.XZ
	case PlaneYZ:
		return r.YZ
	case PlaneXW:
		return r.XW
	case PlaneYW:
		return r.YW
	case PlaneZW:
		return r.ZW
	}
	return 0
}

// Set assigns the angle for plane p.
func (r *Rot4) Set(p Plane, a Real) {
	switch p {
	case PlaneXY:
		r.XY = a
	case PlaneXZ:
		r.XZ = a
	case PlaneYZ:
		r.YZ = a
	case PlaneXW:
		r.XW = a
	case PlaneYW:
		r.YW = a
	case PlaneZW:
		r.ZW = a
	}
}

// Rotor is an isoclinic rotation: a pair of unit quaternions acting on a
// point p as L·p·conj(R). L alone is a left-isoclinic rotation, R alone a
// right-isoclinic one; every rotation of 4-space is such a pair.
type Rotor struct {
	L Quat `json:"left"`
	R Quat `json:"right"`
}

func Identity() Rotor { return Rotor{L: IdentityQuat(), R: IdentityQuat()} }

// LeftOnly rotates by p -> q·p.
func LeftOnly(q Quat) Rotor { return Rotor{L: q.Normalize(), R: IdentityQuat()} }

// RightOnly rotates by p -> p·conj(q).
func RightOnly(q Quat) Rotor { return Rotor{L: IdentityQuat(), R: q.Normalize()} }

// SimpleRotation rotates by angle in exactly one plane, fixing its complement.
// Planes inside XYZ use L = R (a 3D rotation embedded in 4D); planes through W
// need R = conj(L).
func SimpleRotation(p Plane, angle Real) Rotor {
	q := FromPlaneAngle(p, angle)
	if p.InvolvesW() {
		return Rotor{L: q, R: q.Conj()}
	}
	return Rotor{L: q, R: q}
}

// DoubleRotation pairs a left factor from one plane with a right factor from
// another. With distinct factors it has no 3D analogue.
func DoubleRotation(pl Plane, al Real, pr Plane, ar Real) Rotor {
	return Rotor{L: FromPlaneAngle(pl, al), R: FromPlaneAngle(pr, ar)}
}

// RotorFromAngles composes XY·XZ·YZ·XW·YW·ZW; ZW is applied first.
func RotorFromAngles(r Rot4) Rotor {
	out := Identity()
	for _, p := range Planes {
		a := r.Get(p)
		if a > 1e-8 || a < -1e-8 {
			out = out.Mul(SimpleRotation(p, a))
		}
	}
	return out
}

// Mul composes per side; a.Mul(b) applies b first, then a.
func (a Rotor) Mul(b Rotor) Rotor {
	return Rotor{L: a.L.Mul(b.L), R: a.R.Mul(b.R)}
}

// Inverse undoes the rotation.
func (a Rotor) Inverse() Rotor { return Rotor{L: a.L.Conj(), R: a.R.Conj()} }

// Normalize re-normalizes both factors; drift accumulates under repeated Mul.
func (a Rotor) Normalize() Rotor { return Rotor{L: a.L.Normalize(), R: a.R.Normalize()} }

// Rotate applies the sandwich product L·p·conj(R) to all four components.
func (a Rotor) Rotate(p Point4) Point4 {
	return a.L.Mul(p.Quat()).Mul(a.R.Conj()).Point()
}

// ToMatrix returns M with M·p == Rotate(p) (row-major, column c is the image
// of basis vector c).
func (a Rotor) ToMatrix() Mat4 {
	return a.L.leftMatrix().Mul(a.R.Conj().rightMatrix())
}

// ApproxEqual compares two rotors as rotations: (L,R) and (-L,-R) are the same.
func (a Rotor) ApproxEqual(b Rotor, eps Real) bool {
	d := a.ToMatrix()
	e := b.ToMatrix()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			x := d.M[r][c] - e.M[r][c]
			if x > eps || x < -eps {
				return false
			}
		}
	}
	return true
}
