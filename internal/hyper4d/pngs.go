package hyper4d

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
)

// toU16 maps a [0,1] value to 16 bits with gamma.
func toU16(v, gamma Real) uint16 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		v = 1
	}
	if gamma != 1 && gamma > 0 {
		v = math.Pow(v, 1.0/gamma)
	}
	return uint16(math.Round(v * 65535.0))
}

// NRGBA64 converts the frame to a 16-bit image.
func (f *Frame) NRGBA64(gamma Real) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, f.W, f.H))
	const pxBytes = 8 // 4 channels * 2 bytes/channel
	for y := 0; y < f.H; y++ {
		rowOff := y * img.Stride
		for x := 0; x < f.W; x++ {
			c := f.At(x, y)
			r := toU16(c[0], gamma)
			g := toU16(c[1], gamma)
			b := toU16(c[2], gamma)
			a := uint16(0xFFFF)

			p := rowOff + x*pxBytes
			// NRGBA64 stores big-endian uint16 per channel: R,G, B, A.
			img.Pix[p+0] = uint8(r >> 8)
			img.Pix[p+1] = uint8(r)
			img.Pix[p+2] = uint8(g >> 8)
			img.Pix[p+3] = uint8(g)
			img.Pix[p+4] = uint8(b >> 8)
			img.Pix[p+5] = uint8(b)
			img.Pix[p+6] = uint8(a >> 8)
			img.Pix[p+7] = uint8(a)
		}
	}
	return img
}

// pngName numbers frame k of n with enough digits for n.
func pngName(prefix string, k, n int) string {
	width := 1
	if n > 1 {
		width = int(math.Log10(Real(n-1))) + 1
	}
	return fmt.Sprintf("%s_%0*d.png", prefix, width, k)
}

// SavePNG16 writes one lossless 16-bit PNG.
func SavePNG16(fr *Frame, path string, gamma Real) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, fr.NRGBA64(gamma)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SavePNGSequence16 writes one 16-bit PNG per frame, named prefix_NNN.png.
func SavePNGSequence16(frames []*Frame, prefix string, gamma Real) error {
	n := len(frames)
	for k, fr := range frames {
		full := pngName(prefix, k, n)
		if err := SavePNG16(fr, full, gamma); err != nil {
			return err
		}
		DebugLog("Saved frame %d/%d: %s", k+1, n, full)
	}
	return nil
}
