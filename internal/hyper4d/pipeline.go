package hyper4d

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrNoContext means no rendering device was supplied.
	ErrNoContext = errors.New("hyper4d: no rendering device")
	// ErrIncompleteTarget is returned with a usable but degraded target.
	ErrIncompleteTarget = errors.New("hyper4d: incomplete render target")
	// ErrDisposed is returned by calls on a disposed pipeline.
	ErrDisposed = errors.New("hyper4d: pipeline disposed")
)

// CompileError is the fatal outcome of compiling a program.
type CompileError struct {
	Program string
	Log     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %s", e.Program, e.Log)
}

// Program is a compiled device program.
type Program interface{}

// Target is an off-screen color target.
type Target interface {
	Size() (width, height int)
}

// Device is the GPU capability the pipeline consumes.
type Device interface {
	// CompileProgram fails with *CompileError.
	CompileProgram(name, vertexSrc, fragmentSrc string) (Program, error)
	// NewTarget may return a usable target together with ErrIncompleteTarget.
	NewTarget(width, height int) (Target, error)
	Clear(t Target)
	// DrawLayer renders mesh into dst, sampling background as the blend input.
	DrawLayer(p Program, dst, background Target, mesh *LayerMesh)
	// Blit copies src to the screen.
	Blit(p Program, src Target)
	DeleteTarget(t Target)
	DeleteProgram(p Program)
}

// ProgramSources are the device-language sources of the two programs.
type ProgramSources struct {
	LayerVertex   string
	LayerFragment string
	BlitVertex    string
	BlitFragment  string
}

// ExclusionPipeline composites layers with the exclusion blend
// src + dst - 2·src·dst. Fixed-function blending cannot express it, so every
// layer is a full pass that samples the previous pass's output.
type ExclusionPipeline struct {
	dev Device
	log *zap.Logger

	targets     [2]Target
	read, write int
	layerProg   Program
	blitProg    Program

	width, height int
	degraded      bool
	disposed      bool

	passes, blits, frames uint64
}

// NewExclusionPipeline compiles both programs and allocates the ping-pong
// pair. Compile failures are fatal: no pipeline is returned.
func NewExclusionPipeline(dev Device, width, height int, src ProgramSources, log *zap.Logger) (*ExclusionPipeline, error) {
	if dev == nil {
		return nil, ErrNoContext
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &ExclusionPipeline{dev: dev, log: log}
	var err error
	p.layerProg, err = dev.CompileProgram("layer", src.LayerVertex, src.LayerFragment)
	if err != nil {
		return nil, fmt.Errorf("exclusion pipeline: %w", err)
	}
	p.blitProg, err = dev.CompileProgram("blit", src.BlitVertex, src.BlitFragment)
	if err != nil {
		dev.DeleteProgram(p.layerProg)
		return nil, fmt.Errorf("exclusion pipeline: %w", err)
	}
	if err := p.allocTargets(width, height); err != nil {
		dev.DeleteProgram(p.layerProg)
		dev.DeleteProgram(p.blitProg)
		return nil, err
	}
	DebugLog("Created exclusion pipeline %dx%d", width, height)
	return p, nil
}

func (p *ExclusionPipeline) allocTargets(width, height int) error {
	p.degraded = false
	for i := range p.targets {
		t, err := p.dev.NewTarget(width, height)
		switch {
		case err == nil:
		case errors.Is(err, ErrIncompleteTarget) && t != nil:
			p.degraded = true
			p.log.Warn("render target incomplete, continuing degraded",
				zap.Int("target", i), zap.Int("width", width), zap.Int("height", height), zap.Error(err))
		default:
			for j := 0; j < i; j++ {
				p.dev.DeleteTarget(p.targets[j])
				p.targets[j] = nil
			}
			return fmt.Errorf("allocate render target %d: %w", i, err)
		}
		p.targets[i] = t
	}
	p.read, p.write = 0, 1
	p.width, p.height = width, height
	return nil
}

func (p *ExclusionPipeline) freeTargets() {
	for i, t := range p.targets {
		if t != nil {
			p.dev.DeleteTarget(t)
			p.targets[i] = nil
		}
	}
}

// swap exchanges the read and write indices; the pair never aliases.
func (p *ExclusionPipeline) swap() { p.read, p.write = p.write, p.read }

// RenderAllLayers clears both targets and runs one pass per mesh, in order.
// Pass k+1 samples pass k's output, so the order is part of the result.
func (p *ExclusionPipeline) RenderAllLayers(meshes []LayerMesh) (int, error) {
	if p.disposed {
		return 0, ErrDisposed
	}
	p.dev.Clear(p.targets[0])
	p.dev.Clear(p.targets[1])
	for i := range meshes {
		p.dev.DrawLayer(p.layerProg, p.targets[p.write], p.targets[p.read], &meshes[i])
		p.swap()
		p.passes++
	}
	p.frames++
	return len(meshes), nil
}

// BlitToScreen copies the last completed pass to the screen.
func (p *ExclusionPipeline) BlitToScreen() error {
	if p.disposed {
		return ErrDisposed
	}
	p.dev.Blit(p.blitProg, p.targets[p.read])
	p.blits++
	return nil
}

// Resize reallocates both targets. Call it between frames only.
func (p *ExclusionPipeline) Resize(width, height int) error {
	if p.disposed {
		return ErrDisposed
	}
	if width == p.width && height == p.height {
		return nil
	}
	p.freeTargets()
	return p.allocTargets(width, height)
}

// Dispose releases all device resources.
func (p *ExclusionPipeline) Dispose() {
	if p.disposed {
		return
	}
	p.freeTargets()
	p.dev.DeleteProgram(p.layerProg)
	p.dev.DeleteProgram(p.blitProg)
	p.disposed = true
}

// Result is the target holding the final image (the read side after the
// last swap).
func (p *ExclusionPipeline) Result() Target { return p.targets[p.read] }

func (p *ExclusionPipeline) ReadIndex() int         { return p.read }
func (p *ExclusionPipeline) WriteIndex() int        { return p.write }
func (p *ExclusionPipeline) Degraded() bool         { return p.degraded }
func (p *ExclusionPipeline) Size() (int, int)       { return p.width, p.height }
func (p *ExclusionPipeline) Passes() uint64         { return p.passes }
func (p *ExclusionPipeline) Blits() uint64          { return p.blits }
func (p *ExclusionPipeline) FramesRendered() uint64 { return p.frames }
