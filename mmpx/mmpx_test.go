package mmpx

import (
	"image"
	"image/color"
	"reflect"
	"strings"
	"testing"
)

const (
	white uint16 = 0x7FFF
	black uint16 = 0x0000
)

func fill(w, h int, f func(x, y int) uint16) *Image {
	m := NewImage(w, h, Format555)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Pix[y*w+x] = f(x, y)
		}
	}
	return m
}

func TestUpscale2xUniform(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{name: "single_pixel", w: 1, h: 1},
		{name: "row", w: 7, h: 1},
		{name: "block", w: 5, h: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := fill(tt.w, tt.h, func(int, int) uint16 { return 0x1234 })
			dst, err := Upscale2x(src)
			if err != nil {
				t.Fatalf("Upscale2x: %v", err)
			}
			if dst.Width != 2*tt.w || dst.Height != 2*tt.h {
				t.Fatalf("size = %dx%d", dst.Width, dst.Height)
			}
			for i, p := range dst.Pix {
				if p != 0x1234 {
					t.Fatalf("pixel %d = %#x", i, p)
				}
			}
		})
	}
}

func TestUpscale2xIsolatedDot(t *testing.T) {
	src := fill(5, 5, func(x, y int) uint16 {
		if x == 2 && y == 2 {
			return white
		}
		return black
	})
	dst, err := Upscale2x(src)
	if err != nil {
		t.Fatalf("Upscale2x: %v", err)
	}
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			want := black
			if x/2 == 2 && y/2 == 2 {
				want = white
			}
			if got := dst.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %#x, want %#x", x, y, got, want)
			}
		}
	}
}

func TestUpscale2xCutsStairCorner(t *testing.T) {
	// White above the anti-diagonal x+y < 3, black below.
	src := fill(4, 4, func(x, y int) uint16 {
		if x+y < 3 {
			return white
		}
		return black
	})
	dst, err := Upscale2x(src)
	if err != nil {
		t.Fatalf("Upscale2x: %v", err)
	}
	// Source pixel (1,1) keeps three white quadrants and loses its
	// bottom-right one to the slope.
	got := []uint16{dst.At(2, 2), dst.At(3, 2), dst.At(2, 3), dst.At(3, 3)}
	want := []uint16{white, white, white, black}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("quadrants = %#x, want %#x", got, want)
	}
}

// pixels builds an image from rows of '#' (white) and '.' (black).
func pixels(lines ...string) *Image {
	return fill(len(lines[0]), len(lines), func(x, y int) uint16 {
		if lines[y][x] == '#' {
			return white
		}
		return black
	})
}

func rows(m *Image) []string {
	out := make([]string, m.Height)
	for y := range out {
		b := make([]byte, m.Width)
		for x := range b {
			b[x] = '.'
			if m.At(x, y) == white {
				b[x] = '#'
			}
		}
		out[y] = string(b)
	}
	return out
}

func TestUpscale2xPatterns(t *testing.T) {
	tests := []struct {
		name string
		src  []string
		want []string
	}{
		{
			name: "checkerboard",
			src: []string{
				"#.#.",
				".#.#",
				"#.#.",
				".#.#",
			},
			want: []string{
				"##..##..",
				"#...###.",
				"..##..##",
				"..##..##",
				"##..##..",
				"##..##..",
				".###...#",
				"..##..##",
			},
		},
		{
			// The short arms of the cross lose their outer halves.
			name: "line_crossing",
			src: []string{
				".....",
				"..#..",
				"#####",
				"..#..",
				".....",
			},
			want: []string{
				"..........",
				"..........",
				"..........",
				"....##....",
				"##########",
				"##########",
				"....##....",
				"..........",
				"..........",
				"..........",
			},
		},
		{
			// The dark pixel inside the chevron takes the chevron's color.
			name: "chevron_intersection",
			src: []string{
				".....",
				"..#..",
				"...#.",
				"..#..",
				".....",
			},
			want: []string{
				"..........",
				"..........",
				"....##....",
				"....###...",
				".....###..",
				".....###..",
				"....###...",
				"....##....",
				"..........",
				"..........",
			},
		},
		{
			name: "two_to_one_stairs",
			src: []string{
				"......",
				"....##",
				"..####",
				"######",
				"######",
			},
			want: []string{
				"............",
				"............",
				"..........##",
				"........####",
				"......######",
				"....########",
				"############",
				"############",
				"############",
				"############",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, err := Upscale2x(pixels(tt.src...))
			if err != nil {
				t.Fatalf("Upscale2x: %v", err)
			}
			if got := rows(dst); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("output:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestUpscale2xRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		src  *Image
	}{
		{name: "empty", src: NewImage(0, 3, Format565)},
		{name: "short", src: &Image{Pix: make([]uint16, 3), Width: 2, Height: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Upscale2x(tt.src); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLuma(t *testing.T) {
	tests := []struct {
		name   string
		pixel  uint16
		format Format
		want   uint16
	}{
		{name: "black_555", pixel: 0, format: Format555, want: 1},
		{name: "white_555", pixel: 0x7FFF, format: Format555, want: 94},
		{name: "white_565", pixel: 0xFFFF, format: Format565, want: 126},
		{name: "green_565", pixel: 0x07E0, format: Format565, want: 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := luma(tt.pixel, tt.format); got != tt.want {
				t.Fatalf("luma = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScalerMatchesSerial(t *testing.T) {
	src := fill(23, 37, func(x, y int) uint16 {
		return []uint16{black, white, 0x001F, 0x03E0, 0x7C00}[(x*7+y*13+x*y)%5]
	})
	want, err := Upscale2x(src)
	if err != nil {
		t.Fatalf("Upscale2x: %v", err)
	}

	s := NewScaler(3, 4)
	defer s.Close()
	for range 3 {
		got, err := s.Upscale2x(src)
		if err != nil {
			t.Fatalf("Scaler.Upscale2x: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatal("parallel output differs from serial")
		}
	}
}

func TestImageConversion(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		c      color.RGBA
		packed uint16
	}{
		{name: "red_565", format: Format565, c: color.RGBA{R: 0xFF, A: 0xFF}, packed: 0xF800},
		{name: "green_565", format: Format565, c: color.RGBA{G: 0xFF, A: 0xFF}, packed: 0x07E0},
		{name: "red_555", format: Format555, c: color.RGBA{R: 0xFF, A: 0xFF}, packed: 0x7C00},
		{name: "white_555", format: Format555, c: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, packed: 0x7FFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 2, 1))
			img.SetRGBA(1, 0, tt.c)
			m := FromImage(img, tt.format)
			if m.Pix[1] != tt.packed {
				t.Fatalf("packed = %#x, want %#x", m.Pix[1], tt.packed)
			}
			back := ToImage(m)
			if got := back.RGBAAt(1, 0); got != tt.c {
				t.Fatalf("unpacked = %+v, want %+v", got, tt.c)
			}
		})
	}
}
