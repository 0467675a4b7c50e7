// Package mmpx implements the MMPX 2x pixel-art magnification filter over
// packed 16-bit pixels.
package mmpx

import "fmt"

// Format is the bit layout of a packed pixel.
type Format uint8

const (
	Format555 Format = iota
	Format565
)

func (f Format) String() string {
	switch f {
	case Format555:
		return "555"
	case Format565:
		return "565"
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

func ParseFormat(name string) (Format, error) {
	switch name {
	case "555":
		return Format555, nil
	case "565", "":
		return Format565, nil
	}
	return Format555, fmt.Errorf("mmpx: unknown pixel format %q", name)
}

// luma is an approximate brightness: the sum of the channels plus one.
func luma(c uint16, f Format) uint16 {
	if f == Format565 {
		return c&0x1F + (c>>5)&0x3F + (c>>11)&0x1F + 1
	}
	return c&0x1F + (c>>5)&0x1F + (c>>10)&0x1F + 1
}

func allEq2(b, a0, a1 uint16) bool {
	return (b^a0)|(b^a1) == 0
}

func allEq3(b, a0, a1, a2 uint16) bool {
	return (b^a0)|(b^a1)|(b^a2) == 0
}

func allEq4(b, a0, a1, a2, a3 uint16) bool {
	return (b^a0)|(b^a1)|(b^a2)|(b^a3) == 0
}

func anyEq3(b, a0, a1, a2 uint16) bool {
	return b == a0 || b == a1 || b == a2
}

func noneEq2(b, a0, a1 uint16) bool {
	return b != a0 && b != a1
}

func noneEq4(b, a0, a1, a2, a3 uint16) bool {
	return b != a0 && b != a1 && b != a2 && b != a3
}

// Image is a row-major grid of packed pixels.
type Image struct {
	Pix    []uint16
	Width  int
	Height int
	Format Format
}

func NewImage(w, h int, f Format) *Image {
	return &Image{Pix: make([]uint16, w*h), Width: w, Height: h, Format: f}
}

// At reads a pixel with coordinates clamped to the image.
func (m *Image) At(x, y int) uint16 {
	x = min(max(x, 0), m.Width-1)
	y = min(max(y, 0), m.Height-1)
	return m.Pix[y*m.Width+x]
}

func (m *Image) validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("mmpx: empty image %dx%d", m.Width, m.Height)
	}
	if len(m.Pix) < m.Width*m.Height {
		return fmt.Errorf("mmpx: %d pixels for a %dx%d image", len(m.Pix), m.Width, m.Height)
	}
	return nil
}

// Upscale2x magnifies src to twice its width and height.
func Upscale2x(src *Image) (*Image, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	dst := NewImage(src.Width*2, src.Height*2, src.Format)
	upscaleRows(src, dst, 0, src.Height)
	return dst, nil
}

// upscaleRows writes the output of source rows [y0, y1) into dst.
func upscaleRows(src, dst *Image, y0, y1 int) {
	for y := y0; y < y1; y++ {
		upscaleRow(src, dst, y)
	}
}

func upscaleRow(src, dst *Image, srcY int) {
	f := src.Format
	at := src.At

	a, b, c := at(-1, srcY-1), at(0, srcY-1), at(1, srcY-1)
	d, e, ff := at(-1, srcY), at(0, srcY), at(1, srcY)
	g, h, i := at(-1, srcY+1), at(0, srcY+1), at(1, srcY+1)
	q, r := at(-2, srcY), at(2, srcY)

	for srcX := 0; srcX < src.Width; srcX++ {
		j, k, l, m := e, e, e, e

		if (a^e)|(b^e)|(c^e)|(d^e)|(ff^e)|(g^e)|(h^e)|(i^e) != 0 {
			p, s := at(srcX, srcY-2), at(srcX, srcY+2)
			bl, dl, el, fl, hl := luma(b, f), luma(d, f), luma(e, f), luma(ff, f), luma(h, f)

			// 1:1 slopes
			if (d == b && d != h && d != ff) && (el >= dl || e == a) && anyEq3(e, a, c, g) && (el < dl || a != d || e != p || e != q) {
				j = d
			}
			if (b == ff && b != d && b != h) && (el >= bl || e == c) && anyEq3(e, a, c, i) && (el < bl || c != b || e != p || e != r) {
				k = b
			}
			if (h == d && h != ff && h != b) && (el >= hl || e == g) && anyEq3(e, a, g, i) && (el < hl || g != h || e != s || e != q) {
				l = h
			}
			if (ff == h && ff != b && ff != d) && (el >= fl || e == i) && anyEq3(e, c, g, i) && (el < fl || i != h || e != r || e != s) {
				m = ff
			}

			// Intersections
			if (e != ff && allEq4(e, c, i, d, q) && allEq2(ff, b, h)) && ff != at(srcX+3, srcY) {
				k, m = ff, ff
			}
			if (e != d && allEq4(e, a, g, ff, r) && allEq2(d, b, h)) && d != at(srcX-3, srcY) {
				j, l = d, d
			}
			if (e != h && allEq4(e, g, i, b, p) && allEq2(h, d, ff)) && h != at(srcX, srcY+3) {
				l, m = h, h
			}
			if (e != b && allEq4(e, a, c, h, s) && allEq2(b, d, ff)) && b != at(srcX, srcY-3) {
				j, k = b, b
			}
			if bl < el && allEq4(e, g, h, i, s) && noneEq4(e, a, d, c, ff) {
				j, k = b, b
			}
			if hl < el && allEq4(e, a, b, c, p) && noneEq4(e, d, g, i, ff) {
				l, m = h, h
			}
			if fl < el && allEq4(e, a, d, g, q) && noneEq4(e, b, c, i, h) {
				k, m = ff, ff
			}
			if dl < el && allEq4(e, c, ff, i, r) && noneEq4(e, b, a, g, h) {
				j, l = d, d
			}

			// 2:1 slopes
			if h != b {
				if h != a && h != e && h != c {
					if allEq3(h, g, ff, r) && noneEq2(h, d, at(srcX+2, srcY-1)) {
						l = m
					}
					if allEq3(h, i, d, q) && noneEq2(h, ff, at(srcX-2, srcY-1)) {
						m = l
					}
				}
				if b != i && b != g && b != e {
					if allEq3(b, a, ff, r) && noneEq2(b, d, at(srcX+2, srcY+1)) {
						j = k
					}
					if allEq3(b, c, d, q) && noneEq2(b, ff, at(srcX-2, srcY+1)) {
						k = j
					}
				}
			}
			if ff != d {
				if d != i && d != e && d != c {
					if allEq3(d, a, h, s) && noneEq2(d, b, at(srcX+1, srcY+2)) {
						j = l
					}
					if allEq3(d, g, b, p) && noneEq2(d, h, at(srcX+1, srcY-2)) {
						l = j
					}
				}
				if ff != e && ff != a && ff != g {
					if allEq3(ff, c, h, s) && noneEq2(ff, b, at(srcX-1, srcY+2)) {
						k = m
					}
					if allEq3(ff, i, b, p) && noneEq2(ff, h, at(srcX-1, srcY-2)) {
						m = k
					}
				}
			}
		}

		row := 2 * srcY * dst.Width
		dx := 2 * srcX
		dst.Pix[row+dx] = j
		dst.Pix[row+dx+1] = k
		dst.Pix[row+dst.Width+dx] = l
		dst.Pix[row+dst.Width+dx+1] = m

		a, b, c = b, c, at(srcX+2, srcY-1)
		q, d, e, ff, r = d, e, ff, r, at(srcX+3, srcY)
		g, h, i = h, i, at(srcX+2, srcY+1)
	}
}
