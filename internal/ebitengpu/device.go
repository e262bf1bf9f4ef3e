// Package ebitengpu implements the hyper4d render device on ebiten images
// and Kage shaders.
package ebitengpu

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lukaszgryglicki/hyper4d/internal/hyper4d"
)

// MaxTargetSize is the largest side ebiten guarantees for an image.
const MaxTargetSize = 8192

type program struct {
	name   string
	shader *ebiten.Shader
	layer  bool
}

type target struct {
	img  *ebiten.Image
	w, h int
}

func (t *target) Size() (int, int) { return t.w, t.h }

// Device renders into off-screen ebiten images. Blit copies into the
// present image, which the window draws to the screen in Draw.
type Device struct {
	present  *ebiten.Image
	vertices []ebiten.Vertex
}

func New() *Device { return &Device{} }

// CompileProgram compiles the Kage fragment source. vertexSrc selects the
// CPU vertex stage.
func (d *Device) CompileProgram(name, vertexSrc, fragmentSrc string) (hyper4d.Program, error) {
	var layer bool
	switch vertexSrc {
	case hyper4d.VertexProject4D:
		layer = true
	case hyper4d.VertexFullscreen:
	default:
		return nil, &hyper4d.CompileError{Program: name, Log: fmt.Sprintf("unknown vertex stage %q", vertexSrc)}
	}
	sh, err := ebiten.NewShader([]byte(fragmentSrc))
	if err != nil {
		return nil, &hyper4d.CompileError{Program: name, Log: err.Error()}
	}
	return &program{name: name, shader: sh, layer: layer}, nil
}

// NewTarget falls back to a 1x1 image for sizes ebiten cannot allocate.
func (d *Device) NewTarget(w, h int) (hyper4d.Target, error) {
	if w <= 0 || h <= 0 || w > MaxTargetSize || h > MaxTargetSize {
		return &target{img: ebiten.NewImage(1, 1), w: 1, h: 1}, fmt.Errorf("%dx%d: %w", w, h, hyper4d.ErrIncompleteTarget)
	}
	return &target{img: ebiten.NewImage(w, h), w: w, h: h}, nil
}

func (d *Device) Clear(t hyper4d.Target) {
	if tt, ok := t.(*target); ok {
		tt.img.Clear()
	}
}

// toVertices converts the CPU vertex stage output. The background is
// sampled at the destination pixel, so the source coordinates equal the
// destination ones.
func toVertices(dst []ebiten.Vertex, in []hyper4d.ScreenVertex) []ebiten.Vertex {
	dst = dst[:0]
	for _, v := range in {
		x, y := float32(v.X), float32(v.Y)
		dst = append(dst, ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: x, SrcY: y,
			ColorR: float32(v.Color.R),
			ColorG: float32(v.Color.G),
			ColorB: float32(v.Color.B),
			ColorA: float32(v.Color.A),
		})
	}
	return dst
}

// DrawLayer copies the background into dst, then draws the edge quads with
// the exclusion shader reading the background.
func (d *Device) DrawLayer(p hyper4d.Program, dst, background hyper4d.Target, mesh *hyper4d.LayerMesh) {
	prog, ok := p.(*program)
	if !ok || !prog.layer {
		return
	}
	out, ok1 := dst.(*target)
	bg, ok2 := background.(*target)
	if !ok1 || !ok2 || out == bg {
		return
	}
	out.img.DrawImage(bg.img, &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy})
	if out.w != bg.w || out.h != bg.h {
		return
	}
	sv, idx := mesh.Triangles(out.w, out.h)
	if len(idx) == 0 {
		return
	}
	d.vertices = toVertices(d.vertices, sv)
	op := &ebiten.DrawTrianglesShaderOptions{Blend: ebiten.BlendCopy}
	op.Images[0] = bg.img
	out.img.DrawTrianglesShader(d.vertices, idx, prog.shader, op)
}

// Blit copies src into the present image, reallocating it on size changes.
func (d *Device) Blit(p hyper4d.Program, src hyper4d.Target) {
	prog, ok := p.(*program)
	if !ok || prog.layer {
		return
	}
	s, ok := src.(*target)
	if !ok {
		return
	}
	if d.present == nil || d.present.Bounds().Dx() != s.w || d.present.Bounds().Dy() != s.h {
		if d.present != nil {
			d.present.Deallocate()
		}
		d.present = ebiten.NewImage(s.w, s.h)
	}
	op := &ebiten.DrawRectShaderOptions{Blend: ebiten.BlendCopy}
	op.Images[0] = s.img
	d.present.DrawRectShader(s.w, s.h, prog.shader, op)
}

func (d *Device) DeleteTarget(t hyper4d.Target) {
	if tt, ok := t.(*target); ok {
		tt.img.Deallocate()
	}
}

func (d *Device) DeleteProgram(p hyper4d.Program) {
	if prog, ok := p.(*program); ok {
		prog.shader.Deallocate()
	}
}

// Present is the last blitted frame, or nil before the first blit.
func (d *Device) Present() *ebiten.Image { return d.present }

var _ hyper4d.Device = (*Device)(nil)
