package hyper4d

import (
	"math"
	"math/rand"
)

// oscillatorFreqs are staggered so the six channels never lock in phase.
var oscillatorFreqs = [NumChannels]Real{1.0, 1.3, 1.7, 2.1, 2.6, 3.2}

// SyntheticSignal stands in for audio: six sine oscillators at staggered
// phases plus optional turbulence.
type SyntheticSignal struct {
	t   Real
	rng *rand.Rand
}

func NewSyntheticSignal(seed int64) *SyntheticSignal {
	return &SyntheticSignal{rng: rand.New(rand.NewSource(seed))}
}

// Next advances by dt and returns one frame; chaos scales the random term.
func (s *SyntheticSignal) Next(dt, speed, chaos Real) [NumChannels]Real {
	s.t += sanitizeStep(dt)
	var out [NumChannels]Real
	for i := range out {
		v := 0.5 + 0.5*math.Sin(s.t*speed*oscillatorFreqs[i]+Real(i)*math.Pi/3)
		if chaos > 0 {
			v += chaos * (s.rng.Float64() - 0.5)
		}
		out[i] = clamp01(v)
	}
	return out
}

// Energy is the summed magnitude of a signal frame.
func Energy(data []Real) Real {
	e := 0.0
	for _, v := range data {
		if isFinite(v) {
			e += math.Abs(v)
		}
	}
	return e
}
