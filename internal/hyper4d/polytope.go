package hyper4d

import "math"

// Phi is the golden ratio.
var Phi = (1 + math.Sqrt(5)) / 2

// Trilatic names one of the three 16-cells a 24-cell splits into.
type Trilatic uint8

const (
	TrilaticAlpha Trilatic = iota
	TrilaticBeta
	TrilaticGamma
	TrilaticAll
)

func (t Trilatic) String() string {
	switch t {
	case TrilaticAlpha:
		return "alpha"
	case TrilaticBeta:
		return "beta"
	case TrilaticGamma:
		return "gamma"
	case TrilaticAll:
		return "all"
	}
	return "unknown"
}

// ParseTrilatic is the inverse of String.
func ParseTrilatic(s string) (Trilatic, bool) {
	for t := TrilaticAlpha; t <= TrilaticAll; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return TrilaticAll, false
}

// Cell24Vertices returns the unit-radius 24-cell (the 24 Hurwitz unit
// quaternions) scaled by scale. Ordering is fixed:
//
//	0..7   (±1,0,0,0) and permutations          alpha
//	8..15  (±½,±½,±½,±½), even number of minuses beta
//	16..23 (±½,±½,±½,±½), odd number of minuses  gamma
//
// A non-positive or non-finite scale is replaced by 1.
func Cell24Vertices(scale Real) [CellVerts]Point4 {
	if !(scale > 0) || !isFinite(scale) {
		scale = 1
	}
	var out [CellVerts]Point4
	idx := 0
	for a := 0; a < 4; a++ {
		for s := 1; s >= -1; s -= 2 {
			v := [4]Real{}
			v[a] = Real(s)
			out[idx] = Point4{v[0], v[1], v[2], v[3]}.Mul(scale)
			idx++
		}
	}
	even, odd := 8, 16
	for m := 0; m < 16; m++ {
		v := [4]Real{0.5, 0.5, 0.5, 0.5}
		minus := 0
		for i := 0; i < 4; i++ {
			if (m>>i)&1 == 1 {
				v[i] = -v[i]
				minus++
			}
		}
		p := Point4{v[0], v[1], v[2], v[3]}.Mul(scale)
		if minus&1 == 0 {
			out[even] = p
			even++
		} else {
			out[odd] = p
			odd++
		}
	}
	return out
}

// Edge joins two vertex indices, I < J.
type Edge struct {
	I, J int
}

var cell24Edges = func() [CellEdges]Edge {
	V := Cell24Vertices(1)
	var out [CellEdges]Edge
	n := 0
	for i := 0; i < CellVerts; i++ {
		for j := i + 1; j < CellVerts; j++ {
			// unit-radius 24-cell: edge length equals the radius
			if math.Abs(V[i].Dist(V[j])-1) < 1e-9 {
				out[n] = Edge{i, j}
				n++
			}
		}
	}
	return out
}()

// Cell24Edges returns the 96 edges of the 24-cell.
func Cell24Edges() [CellEdges]Edge { return cell24Edges }

// TrilaticPartition returns the three disjoint 8-vertex index sets.
func TrilaticPartition() [3][8]int {
	var out [3][8]int
	for s := 0; s < 3; s++ {
		for i := 0; i < 8; i++ {
			out[s][i] = s*8 + i
		}
	}
	return out
}

// TrilaticOf returns the subset a vertex index belongs to.
func TrilaticOf(i int) Trilatic {
	switch {
	case i < 8:
		return TrilaticAlpha
	case i < 16:
		return TrilaticBeta
	default:
		return TrilaticGamma
	}
}

// epitaxialGenerator is ½(φ + i + φ⁻¹k), an element of order 10 of the binary
// icosahedral group. Its powers h^0..h^4 pick the five cosets of the Hurwitz
// units, which are the five disjoint 24-cells of the 600-cell.
func epitaxialGenerator() Quat {
	return Quat{W: Phi / 2, X: 0.5, Y: 0, Z: 1 / (2 * Phi)}
}

// EpitaxialOffsets returns the five left-only rotors placing each structural
// layer's 24-cell inside the 600-cell.
func EpitaxialOffsets() [NumStructure]Rotor {
	h := epitaxialGenerator()
	var out [NumStructure]Rotor
	q := IdentityQuat()
	for k := 0; k < NumStructure; k++ {
		out[k] = LeftOnly(q)
		q = h.Mul(q)
	}
	return out
}

// ControlOffset places the pilot layer as the dual 24-cell, (±1,±1,0,0)/√2,
// which shares no vertex with the 600-cell.
func ControlOffset() Rotor {
	r := 1 / math.Sqrt2
	return LeftOnly(Quat{W: r, X: r})
}

// LayerOffset returns the fixed offset for layer id.
func LayerOffset(id int) Rotor {
	if id >= 0 && id < NumStructure {
		return EpitaxialOffsets()[id]
	}
	return ControlOffset()
}

// Cell600Vertices returns the 120 unit vertices of the 600-cell as the union of
// the five offset 24-cells (layer k owns indices 24k..24k+23).
func Cell600Vertices() []Point4 {
	base := Cell24Vertices(1)
	out := make([]Point4, 0, NumStructure*CellVerts)
	for _, off := range EpitaxialOffsets() {
		for _, v := range base {
			out = append(out, off.Rotate(v))
		}
	}
	return out
}

// Cell600EdgeLength is the edge of the unit-radius 600-cell, 1/φ.
func Cell600EdgeLength() Real { return 1 / Phi }
