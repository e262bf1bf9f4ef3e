package hyper4d

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
)

// GIFRecorder quantizes frames as they arrive so a long run never holds
// more than one float frame at a time.
type GIFRecorder struct {
	out   gif.GIF
	delay int
	gamma Real
}

// NewGIFRecorder takes the per-frame delay in 100ths of a second
// (e.g., 2 => 50 fps) and an output gamma (e.g., 0.7 brightens).
func NewGIFRecorder(delay int, gamma Real) *GIFRecorder {
	return &GIFRecorder{delay: delay, gamma: gamma}
}

// toByte maps a [0,1] value to 0..255 with gamma.
func toByte(v, gamma Real) uint8 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		v = 1
	}
	if gamma != 1 && gamma > 0 {
		v = math.Pow(v, 1.0/gamma)
	}
	return uint8(math.Round(v * 255))
}

func (r *GIFRecorder) Add(fr *Frame) {
	rgba := image.NewNRGBA(image.Rect(0, 0, fr.W, fr.H))
	for y := 0; y < fr.H; y++ {
		rowOff := y * rgba.Stride
		for x := 0; x < fr.W; x++ {
			c := fr.At(x, y)
			p := rowOff + x*4
			rgba.Pix[p+0] = toByte(c[0], r.gamma)
			rgba.Pix[p+1] = toByte(c[1], r.gamma)
			rgba.Pix[p+2] = toByte(c[2], r.gamma)
			rgba.Pix[p+3] = 255
		}
	}
	// Quantize to paletted for GIF
	pimg := image.NewPaletted(rgba.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), rgba, image.Point{})

	r.out.Image = append(r.out.Image, pimg)
	r.out.Delay = append(r.out.Delay, r.delay)
}

func (r *GIFRecorder) Len() int { return len(r.out.Image) }

// Save writes a looping GIF.
func (r *GIFRecorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &r.out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveAnimatedGIF writes all frames into one looping GIF.
func SaveAnimatedGIF(frames []*Frame, path string, delay int, gamma Real) error {
	r := NewGIFRecorder(delay, gamma)
	for _, fr := range frames {
		r.Add(fr)
	}
	return r.Save(path)
}
