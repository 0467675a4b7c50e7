package mmpx

import (
	"image"
	"image/color"
)

// Pack converts an 8-bit-per-channel color to a packed pixel.
func Pack(c color.Color, f Format) uint16 {
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := uint16(r>>8), uint16(g>>8), uint16(b>>8)
	if f == Format565 {
		return (r8>>3)<<11 | (g8>>2)<<5 | b8>>3
	}
	return (r8>>3)<<10 | (g8>>3)<<5 | b8>>3
}

// Unpack expands a packed pixel to an opaque RGBA color, replicating the high
// bits into the low ones.
func Unpack(p uint16, f Format) color.RGBA {
	var r, g, b uint8
	if f == Format565 {
		r = expand5(uint8(p >> 11 & 0x1F))
		g = expand6(uint8(p >> 5 & 0x3F))
	} else {
		r = expand5(uint8(p >> 10 & 0x1F))
		g = expand5(uint8(p >> 5 & 0x1F))
	}
	b = expand5(uint8(p & 0x1F))
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func expand5(v uint8) uint8 { return v<<3 | v>>2 }
func expand6(v uint8) uint8 { return v<<2 | v>>4 }

// FromImage packs every pixel of img. Alpha is dropped.
func FromImage(img image.Image, f Format) *Image {
	bounds := img.Bounds()
	m := NewImage(bounds.Dx(), bounds.Dy(), f)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			m.Pix[y*m.Width+x] = Pack(img.At(bounds.Min.X+x, bounds.Min.Y+y), f)
		}
	}
	return m
}

func ToImage(m *Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			out.SetRGBA(x, y, Unpack(m.Pix[y*m.Width+x], m.Format))
		}
	}
	return out
}
