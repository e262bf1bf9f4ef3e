package hyper4d

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// LayerPalette spaces the six layers 60° apart around the hue wheel. The
// secondary color sits 30° further on at reduced value.
func LayerPalette(hue, saturation, intensity Real, id int) (RGBA, RGBA) {
	h := math.Mod(hue+Real(id)*60, 360)
	if h < 0 {
		h += 360
	}
	s, v := clamp01(saturation), clamp01(intensity)
	p := colorful.Hsv(h, s, v).Clamped()
	q := colorful.Hsv(math.Mod(h+30, 360), s, v*0.7).Clamped()
	return RGBA{p.R, p.G, p.B, LayerAlpha}, RGBA{q.R, q.G, q.B, LayerAlpha}
}

// ApplyPalette colors every layer.
func (h *Hexastack) ApplyPalette(hue, saturation, intensity Real) {
	for _, l := range h.layers {
		l.Primary, l.Secondary = LayerPalette(hue, saturation, intensity, l.ID)
	}
}
