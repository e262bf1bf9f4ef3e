package hyper4d

import (
	"fmt"
	"math"
)

// Program sources understood by SoftDevice. The vertex names also document
// which Go vertex stage a GPU backend runs before its fragment shader.
const (
	VertexProject4D   = "hyper4d:project4d"
	VertexFullscreen  = "hyper4d:fullscreen"
	SoftExclusionFrag = "soft:exclusion"
	SoftPassFrag      = "soft:passthrough"
	softMaxPixels     = 4096 * 4096
)

// SoftSources returns the programs SoftDevice compiles.
func SoftSources() ProgramSources {
	return ProgramSources{
		LayerVertex:   VertexProject4D,
		LayerFragment: SoftExclusionFrag,
		BlitVertex:    VertexFullscreen,
		BlitFragment:  SoftPassFrag,
	}
}

// Frame is a linear RGB float image.
type Frame struct {
	W, H int
	Pix  []Real // 3 per pixel, row-major, top row first
}

func newFrame(w, h int) *Frame { return &Frame{W: w, H: h, Pix: make([]Real, 3*w*h)} }

func (f *Frame) Size() (int, int) { return f.W, f.H }

// At returns the RGB value at (x, y).
func (f *Frame) At(x, y int) [3]Real {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return [3]Real{}
	}
	i := 3 * (y*f.W + x)
	return [3]Real{f.Pix[i], f.Pix[i+1], f.Pix[i+2]}
}

func (f *Frame) clone() *Frame {
	c := newFrame(f.W, f.H)
	copy(c.Pix, f.Pix)
	return c
}

type softProgram struct {
	name  string
	layer bool
}

// SoftDevice is a CPU implementation of Device. Targets are *Frame.
type SoftDevice struct {
	screen    *Frame
	maxPixels int
	targets   int
	programs  int
}

func NewSoftDevice() *SoftDevice { return &SoftDevice{maxPixels: softMaxPixels} }

func (d *SoftDevice) CompileProgram(name, vs, fs string) (Program, error) {
	switch {
	case vs == VertexProject4D && fs == SoftExclusionFrag:
		d.programs++
		return &softProgram{name: name, layer: true}, nil
	case vs == VertexFullscreen && fs == SoftPassFrag:
		d.programs++
		return &softProgram{name: name}, nil
	}
	return nil, &CompileError{Program: name, Log: fmt.Sprintf("unsupported stages %q/%q", vs, fs)}
}

func (d *SoftDevice) NewTarget(w, h int) (Target, error) {
	if w <= 0 || h <= 0 || w*h > d.maxPixels {
		d.targets++
		return newFrame(1, 1), fmt.Errorf("%dx%d: %w", w, h, ErrIncompleteTarget)
	}
	d.targets++
	return newFrame(w, h), nil
}

func (d *SoftDevice) Clear(t Target) {
	if f, ok := t.(*Frame); ok {
		for i := range f.Pix {
			f.Pix[i] = 0
		}
	}
}

// DrawLayer first carries the background over, then blends every covered
// pixel against the background sample at the same position.
func (d *SoftDevice) DrawLayer(p Program, dst, background Target, mesh *LayerMesh) {
	prog, ok := p.(*softProgram)
	if !ok || !prog.layer {
		return
	}
	out, ok1 := dst.(*Frame)
	bg, ok2 := background.(*Frame)
	if !ok1 || !ok2 || out == bg {
		return
	}
	if out.W == bg.W && out.H == bg.H {
		copy(out.Pix, bg.Pix)
	}
	verts, idx := mesh.Triangles(out.W, out.H)
	for t := 0; t+2 < len(idx); t += 3 {
		rasterize(out, bg, verts[idx[t]], verts[idx[t+1]], verts[idx[t+2]])
	}
}

func rasterize(out, bg *Frame, a, b, c ScreenVertex) {
	area := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if math.Abs(area) < epsNorm {
		return
	}
	minX := int(math.Floor(math.Min(a.X, math.Min(b.X, c.X))))
	maxX := int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))))
	minY := int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))))
	maxY := int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))))
	minX, minY = imax(minX, 0), imax(minY, 0)
	maxX, maxY = min(maxX, out.W-1), min(maxY, out.H-1)
	for y := minY; y <= maxY; y++ {
		py := Real(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := Real(x) + 0.5
			w0 := ((b.X-px)*(c.Y-py) - (b.Y-py)*(c.X-px)) / area
			w1 := ((c.X-px)*(a.Y-py) - (c.Y-py)*(a.X-px)) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			src := [3]Real{
				w0*a.Color.R + w1*b.Color.R + w2*c.Color.R,
				w0*a.Color.G + w1*b.Color.G + w2*c.Color.G,
				w0*a.Color.B + w1*b.Color.B + w2*c.Color.B,
			}
			alpha := w0*a.Color.A + w1*b.Color.A + w2*c.Color.A
			i := 3 * (y*out.W + x)
			var under [3]Real
			if x < bg.W && y < bg.H {
				j := 3 * (y*bg.W + x)
				under = [3]Real{bg.Pix[j], bg.Pix[j+1], bg.Pix[j+2]}
			}
			res := ExclusionBlend(src, under, alpha)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = res[0], res[1], res[2]
		}
	}
}

func (d *SoftDevice) Blit(p Program, src Target) {
	if prog, ok := p.(*softProgram); !ok || prog.layer {
		return
	}
	if f, ok := src.(*Frame); ok {
		d.screen = f.clone()
	}
}

func (d *SoftDevice) DeleteTarget(t Target) {
	if t != nil {
		d.targets--
	}
}

func (d *SoftDevice) DeleteProgram(p Program) {
	if p != nil {
		d.programs--
	}
}

// Screen returns the last blitted frame, or nil before the first blit.
func (d *SoftDevice) Screen() *Frame { return d.screen }

// Live reports allocated targets and programs.
func (d *SoftDevice) Live() (targets, programs int) { return d.targets, d.programs }
