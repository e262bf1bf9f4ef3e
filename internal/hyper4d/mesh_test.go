package hyper4d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProjectVertex(t *testing.T) {
	u := VertexUniforms{View: Identity(), Dimension: 3, ZOffset: 0.5}
	p := ProjectVertex(u, Point4{1, 2, 3, 1})
	require.InDelta(t, 0.5, p.X, 1e-15)
	require.InDelta(t, 1.0, p.Y, 1e-15)
	require.InDelta(t, 1.5+0.5, p.Z, 1e-15)

	u.View = SimpleRotation(PlaneXW, math.Pi/2)
	// x rotates onto w, which pushes the point toward the camera
	p = ProjectVertex(u, Point4{X: 1})
	require.InDelta(t, 0, p.X, 1e-12)
	require.InDelta(t, 0.5, p.Z, 1e-12)
}

func TestProjectVertexSingularity(t *testing.T) {
	u := VertexUniforms{View: Identity(), Dimension: 1}
	p := ProjectVertex(u, Point4{X: 0.5, W: 1})
	require.True(t, isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z))
	require.Greater(t, p.X, 1e3)
	x, y := ToScreen(p, 100, 100)
	require.True(t, isFinite(x) && isFinite(y))
}

func TestToScreenCentersOrigin(t *testing.T) {
	x, y := ToScreen(Point3{}, 640, 480)
	require.Equal(t, 320.0, x)
	require.Equal(t, 240.0, y)
	// +Y is up on screen
	_, y = ToScreen(Point3{Y: 1}, 640, 480)
	require.Less(t, y, 240.0)
}

func TestTriangles(t *testing.T) {
	m := LayerMesh{
		Edges:     []MeshEdge{{Edge: Edge{0, 1}, Alpha: 0.5}, {Edge: Edge{2, 3}, Alpha: 1}},
		Primary:   RGBA{1, 0, 0, 0.8},
		Secondary: RGBA{0, 0, 1, 0.8},
		Uniforms:  VertexUniforms{View: Identity(), Dimension: 3, LineWidth: 4},
	}
	m.Vertices[0] = Point4{X: -1}
	m.Vertices[1] = Point4{X: 1}
	// 2 and 3 coincide: that edge has no length and is dropped
	v, idx := m.Triangles(100, 100)
	require.Len(t, v, 4)
	require.Len(t, idx, 6)
	require.Equal(t, RGBA{1, 0, 0, 0.4}, v[0].Color)
	require.Equal(t, RGBA{0, 0, 1, 0.4}, v[3].Color)
	require.InDelta(t, 4, math.Abs(v[0].Y-v[1].Y), 1e-9, "quad is LineWidth wide")
	for _, i := range idx {
		require.Less(t, int(i), len(v))
	}
}

func TestExclusionBlend(t *testing.T) {
	cases := []struct {
		src, dst [3]Real
		alpha    Real
		want     [3]Real
	}{
		{[3]Real{1, 0, 0}, [3]Real{0, 0, 0}, 1, [3]Real{1, 0, 0}},
		{[3]Real{1, 1, 0}, [3]Real{1, 0, 0}, 1, [3]Real{0, 1, 0}},
		{[3]Real{0.5, 0.5, 0.5}, [3]Real{0.5, 0.5, 0.5}, 1, [3]Real{0.5, 0.5, 0.5}},
		{[3]Real{1, 1, 1}, [3]Real{0.2, 0.4, 0.6}, 0.5, [3]Real{0.5, 0.5, 0.5}},
		{[3]Real{1, 1, 1}, [3]Real{0.2, 0.4, 0.6}, 0, [3]Real{0.2, 0.4, 0.6}},
	}
	for _, tc := range cases {
		got := ExclusionBlend(tc.src, tc.dst, tc.alpha)
		for c := 0; c < 3; c++ {
			require.InDelta(t, tc.want[c], got[c], 1e-12, "%+v", tc)
		}
	}
}
