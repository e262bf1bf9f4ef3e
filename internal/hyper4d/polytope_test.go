package hyper4d

import (
	"math"
	"testing"
)

func TestCell24Vertices(t *testing.T) {
	V := Cell24Vertices(1)
	for i, v := range V {
		if math.Abs(v.Len()-1) > 1e-12 {
			t.Fatalf("vertex %d not unit: %.12g", i, v.Len())
		}
		for j := i + 1; j < CellVerts; j++ {
			if V[i] == V[j] {
				t.Fatalf("duplicate vertices %d and %d", i, j)
			}
		}
	}
	S := Cell24Vertices(2.5)
	if math.Abs(S[9].Len()-2.5) > 1e-12 {
		t.Fatalf("scale not applied: %.12g", S[9].Len())
	}
	if Cell24Vertices(-1) != V || Cell24Vertices(math.NaN()) != V {
		t.Fatal("bad scale must fall back to 1")
	}
}

func TestCell24Edges(t *testing.T) {
	E := Cell24Edges()
	deg := make([]int, CellVerts)
	for _, e := range E {
		if e.I >= e.J {
			t.Fatalf("edge not ordered: %+v", e)
		}
		deg[e.I]++
		deg[e.J]++
		// every edge crosses between two of the three 16-cells
		if TrilaticOf(e.I) == TrilaticOf(e.J) {
			t.Fatalf("edge %+v inside one subset", e)
		}
	}
	for i, d := range deg {
		if d != 8 {
			t.Fatalf("vertex %d has degree %d, want 8", i, d)
		}
	}
}

func TestTrilaticPartitionIsDisjointCover(t *testing.T) {
	seen := make(map[int]Trilatic)
	for s, set := range TrilaticPartition() {
		if len(set) != 8 {
			t.Fatalf("subset %d has size %d", s, len(set))
		}
		for _, i := range set {
			if prev, dup := seen[i]; dup {
				t.Fatalf("index %d in %s and %s", i, prev, Trilatic(s))
			}
			seen[i] = Trilatic(s)
			if TrilaticOf(i) != Trilatic(s) {
				t.Fatalf("TrilaticOf(%d) = %s, want %s", i, TrilaticOf(i), Trilatic(s))
			}
		}
	}
	for i := 0; i < CellVerts; i++ {
		if _, ok := seen[i]; !ok {
			t.Fatalf("index %d not covered", i)
		}
	}
}

func TestTrilaticSubsetsAre16Cells(t *testing.T) {
	V := Cell24Vertices(1)
	for s, set := range TrilaticPartition() {
		// a unit 16-cell: each vertex has exactly one antipode and six
		// neighbours at √2
		for _, i := range set {
			near, far := 0, 0
			for _, j := range set {
				if i == j {
					continue
				}
				d := V[i].Dist(V[j])
				switch {
				case math.Abs(d-math.Sqrt2) < 1e-12:
					near++
				case math.Abs(d-2) < 1e-12:
					far++
				}
			}
			if near != 6 || far != 1 {
				t.Fatalf("subset %d vertex %d: near=%d far=%d", s, i, near, far)
			}
		}
	}
}

func TestParseTrilatic(t *testing.T) {
	for tr := TrilaticAlpha; tr <= TrilaticAll; tr++ {
		got, ok := ParseTrilatic(tr.String())
		if !ok || got != tr {
			t.Fatalf("ParseTrilatic(%q) = %v, %v", tr.String(), got, ok)
		}
	}
	if _, ok := ParseTrilatic("delta"); ok {
		t.Fatal("expected unknown focus to fail")
	}
}

func TestCell600FromFiveLayers(t *testing.T) {
	P := Cell600Vertices()
	if len(P) != 120 {
		t.Fatalf("600-cell has %d vertices", len(P))
	}
	edge := Cell600EdgeLength()
	for i := range P {
		if math.Abs(P[i].Len()-1) > 1e-12 {
			t.Fatalf("vertex %d not unit", i)
		}
		n := 0
		for j := range P {
			if i == j {
				continue
			}
			d := P[i].Dist(P[j])
			if d < 1e-9 {
				t.Fatalf("vertices %d and %d coincide (layers %d and %d)", i, j, i/CellVerts, j/CellVerts)
			}
			if math.Abs(d-edge) < 1e-9 {
				n++
			}
		}
		if n != 12 {
			t.Fatalf("vertex %d has %d neighbours at 1/φ, want 12", i, n)
		}
	}
}

func TestEpitaxialOffsets(t *testing.T) {
	offs := EpitaxialOffsets()
	if !offs[0].ApproxEqual(Identity(), 1e-15) {
		t.Fatal("layer 0 must sit at the identity")
	}
	for k, o := range offs {
		if math.Abs(o.L.Norm()-1) > 1e-12 || o.R != IdentityQuat() {
			t.Fatalf("offset %d is not a unit left-only rotor: %+v", k, o)
		}
		if LayerOffset(k) != o {
			t.Fatalf("LayerOffset(%d) mismatch", k)
		}
	}
	if LayerOffset(5) != ControlOffset() || LayerOffset(-1) != ControlOffset() {
		t.Fatal("pilot and out-of-range ids use the control offset")
	}
	// h has order 10, so h^5 = -1
	h := epitaxialGenerator()
	q := IdentityQuat()
	for i := 0; i < 5; i++ {
		q = h.Mul(q)
	}
	if math.Abs(q.W+1) > 1e-12 {
		t.Fatalf("h^5 = %+v, want -1", q)
	}
}

func TestControlLayerIsDual24Cell(t *testing.T) {
	base := Cell24Vertices(1)
	P := Cell600Vertices()
	c := ControlOffset()
	for _, v := range base {
		w := c.Rotate(v)
		// dual 24-cell vertices are permutations of (±1,±1,0,0)/√2
		zeros := 0
		for _, x := range [4]Real{w.X, w.Y, w.Z, w.W} {
			switch {
			case math.Abs(x) < 1e-12:
				zeros++
			case math.Abs(math.Abs(x)-1/math.Sqrt2) > 1e-12:
				t.Fatalf("unexpected coordinate in %+v", w)
			}
		}
		if zeros != 2 {
			t.Fatalf("%+v is not a dual 24-cell vertex", w)
		}
		for _, p := range P {
			if w.Dist(p) < 1e-6 {
				t.Fatalf("pilot vertex %+v coincides with the 600-cell", w)
			}
		}
	}
}
