package hyper4d

import (
	"math"
	"testing"
)

func TestPointAdd(t *testing.T) {
	p := Point4{1, 2, 3, 4}
	v := Point4{-1, 1, 0, 2}
	q := p.Add(v)
	if q != (Point4{0, 3, 3, 6}) {
		t.Fatalf("Add mismatch: %+v", q)
	}
	if q.Sub(v) != p {
		t.Fatalf("Sub mismatch: %+v", q.Sub(v))
	}
}

func TestPointQuatRoundTrip(t *testing.T) {
	p := Point4{0.1, -0.2, 0.3, 0.9}
	if p.Quat().Point() != p {
		t.Fatalf("quat round trip changed point: %+v", p.Quat().Point())
	}
	if q := p.Quat(); q.W != p.W || q.X != p.X {
		t.Fatalf("W must map to the real part: %+v", q)
	}
	if math.Abs(Point4{3, 4, 0, 0}.Len()-5) > 1e-15 {
		t.Fatal("Len failed")
	}
}

func TestIsFinite(t *testing.T) {
	if !isFinite(1) || isFinite(math.Inf(1)) || isFinite(math.NaN()) {
		t.Fatal("isFinite failed")
	}
}

func TestIMax(t *testing.T) {
	if imax(3, 5) != 5 || imax(5, 3) != 5 {
		t.Fatal("imax failed")
	}
}
