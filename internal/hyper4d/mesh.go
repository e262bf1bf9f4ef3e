package hyper4d

import "math"

// VertexUniforms drive the layer program's vertex stage.
type VertexUniforms struct {
	View      Rotor // extra 4D rotation applied before projection
	Dimension Real  // 4D camera distance along W
	ZOffset   Real
	LineWidth Real // pixels
}

// MeshEdge is an edge with its focus-weighted alpha.
type MeshEdge struct {
	Edge
	Alpha Real
}

// LayerMesh is one layer's vertex buffer plus uniforms.
type LayerMesh struct {
	Layer     int
	Vertices  [CellVerts]Point4
	Edges     []MeshEdge
	Primary   RGBA
	Secondary RGBA
	Uniforms  VertexUniforms
}

// ScreenVertex is a vertex after the vertex stage.
type ScreenVertex struct {
	X, Y  Real
	Color RGBA
}

// ProjectVertex runs the 4D part of the vertex stage:
// pos3 = view(p).xyz / (dimension - view(p).w), then z += zOffset.
func ProjectVertex(u VertexUniforms, p Point4) Point3 {
	return project(u.View.ToMatrix(), u, p)
}

// project is ProjectVertex with the view rotor already expanded to a matrix,
// as the vertex program receives it.
func project(view Mat4, u VertexUniforms, p Point4) Point3 {
	q := view.MulPoint(p)
	d := u.Dimension - q.W
	if math.Abs(d) < epsProj {
		DebugLogOnce("Vertex %v at projection singularity (dimension=%.4g)", q, u.Dimension)
		s := 1.0
		if d < 0 {
			s = -1
		}
		return Point3{q.X * s * bigProj, q.Y * s * bigProj, q.Z*s*bigProj + u.ZOffset}
	}
	return Point3{q.X / d, q.Y / d, q.Z/d + u.ZOffset}
}

// ToScreen maps a projected point through a fixed pinhole onto a w×h target.
func ToScreen(p Point3, w, h int) (Real, Real) {
	d := CameraDist - p.Z
	if d < 0.1 {
		d = 0.1
	}
	f := Real(min(w, h)) * 0.9 / d
	return Real(w)/2 + p.X*f, Real(h)/2 - p.Y*f
}

// Triangles expands every edge into a screen-space quad (two triangles).
// Each quad runs from the primary color at I to the secondary color at J.
func (m *LayerMesh) Triangles(w, h int) ([]ScreenVertex, []uint16) {
	var xy [CellVerts][2]Real
	view := m.Uniforms.View.ToMatrix()
	for i, v := range m.Vertices {
		xy[i][0], xy[i][1] = ToScreen(project(view, m.Uniforms, v), w, h)
	}
	half := m.Uniforms.LineWidth / 2
	if !(half > 0) {
		half = LineWidth / 2
	}
	verts := make([]ScreenVertex, 0, 4*len(m.Edges))
	idx := make([]uint16, 0, 6*len(m.Edges))
	for _, e := range m.Edges {
		a, b := xy[e.I], xy[e.J]
		dx, dy := b[0]-a[0], b[1]-a[1]
		l := math.Hypot(dx, dy)
		if !(l > epsNorm) || !isFinite(l) {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		ca, cb := m.Primary, m.Secondary
		ca.A *= e.Alpha
		cb.A *= e.Alpha
		base := uint16(len(verts))
		verts = append(verts,
			ScreenVertex{a[0] + nx, a[1] + ny, ca},
			ScreenVertex{a[0] - nx, a[1] - ny, ca},
			ScreenVertex{b[0] + nx, b[1] + ny, cb},
			ScreenVertex{b[0] - nx, b[1] - ny, cb},
		)
		idx = append(idx, base, base+1, base+2, base+1, base+3, base+2)
	}
	return verts, idx
}

// ExclusionBlend is the fragment stage: the layer color src is excluded
// against background dst and mixed in by alpha.
func ExclusionBlend(src, dst [3]Real, alpha Real) [3]Real {
	a := clamp01(alpha)
	var out [3]Real
	for c := 0; c < 3; c++ {
		s, d := clamp01(src[c]), clamp01(dst[c])
		x := s + d - 2*s*d
		out[c] = d + (x-d)*a
	}
	return out
}

// edgeAlphas weights each 24-cell edge by the computational focus: edges
// touching a focused vertex keep full alpha, the rest are dimmed.
func edgeAlphas(focus Trilatic) []MeshEdge {
	edges := Cell24Edges()
	out := make([]MeshEdge, len(edges))
	for i, e := range edges {
		a := 1.0
		if focus != TrilaticAll && TrilaticOf(e.I) != focus && TrilaticOf(e.J) != focus {
			a = FocusDimAlpha
		}
		out[i] = MeshEdge{Edge: e, Alpha: a}
	}
	return out
}

// BuildMeshes copies each layer's current vertices into a mesh. view may be
// nil; otherwise view(i) supplies layer i's extra rotation.
func (h *Hexastack) BuildMeshes(view func(layer int) Rotor, dimension, lineWidth Real) []LayerMesh {
	edges := edgeAlphas(h.focus)
	out := make([]LayerMesh, NumLayers)
	for i, l := range h.layers {
		v := Identity()
		if view != nil {
			v = view(i)
		}
		m := &out[i]
		m.Layer = l.ID
		copy(m.Vertices[:], l.CurrentVertices())
		m.Edges = edges
		m.Primary = l.Primary
		m.Secondary = l.Secondary
		m.Uniforms = VertexUniforms{
			View:      v,
			Dimension: dimension,
			ZOffset:   l.ZOffset(),
			LineWidth: lineWidth,
		}
	}
	return out
}
