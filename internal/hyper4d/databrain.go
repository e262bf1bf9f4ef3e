package hyper4d

// PlaneReading is one plane's share of a processed signal frame.
type PlaneReading struct {
	Angle Real `json:"angle"`
	Value Real `json:"value"`
}

// DataBrain maps a six-channel signal onto the six rotation planes.
// It is the only place raw numbers become 4D rotation angles.
type DataBrain struct {
	Mapping    [NumChannels]Plane
	AngleScale Real
	Smoothing  Real

	smoothed [NumChannels]Real
}

// DefaultMapping pairs consecutive channels with complementary planes.
var DefaultMapping = [NumChannels]Plane{PlaneXY, PlaneZW, PlaneXZ, PlaneYW, PlaneXW, PlaneYZ}

func NewDataBrain() *DataBrain {
	return &DataBrain{
		Mapping:    DefaultMapping,
		AngleScale: DefaultAngleScale,
		Smoothing:  DefaultSmoothing,
	}
}

// Process smooths each channel with a one-pole filter and converts it to an
// angle on its mapped plane.
func (b *DataBrain) Process(data []Real) [numPlanes]PlaneReading {
	f := clamp01(b.Smoothing)
	var out [numPlanes]PlaneReading
	for ch := 0; ch < NumChannels; ch++ {
		target := b.smoothed[ch]
		if ch < len(data) && isFinite(data[ch]) {
			target = data[ch]
		}
		b.smoothed[ch] += (target - b.smoothed[ch]) * f
		p := b.Mapping[ch]
		if !p.Valid() {
			continue
		}
		out[p] = PlaneReading{Angle: b.smoothed[ch] * b.AngleScale, Value: b.smoothed[ch]}
	}
	return out
}

// Smoothed returns the filter state.
func (b *DataBrain) Smoothed() [NumChannels]Real { return b.smoothed }

// Angles returns the current smoothed state as a Rot4.
func (b *DataBrain) Angles() Rot4 {
	var r Rot4
	for ch, p := range b.Mapping {
		r.Set(p, b.smoothed[ch]*b.AngleScale)
	}
	return r
}

// CreateLayerRotation drives layer i with channels 2i and 2i+1 (mod 6) as the
// left and right isoclinic factors.
func (b *DataBrain) CreateLayerRotation(layer int, data []Real) Rotor {
	if layer < 0 {
		layer = -layer
	}
	cl := (2 * layer) % NumChannels
	cr := (2*layer + 1) % NumChannels
	at := func(ch int) Real {
		if ch < len(data) && isFinite(data[ch]) {
			return data[ch]
		}
		return 0
	}
	return DoubleRotation(
		b.Mapping[cl], at(cl)*b.AngleScale,
		b.Mapping[cr], at(cr)*b.AngleScale,
	)
}

// Reset clears the smoothing state.
func (b *DataBrain) Reset() { b.smoothed = [NumChannels]Real{} }
