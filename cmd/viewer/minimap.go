package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/actorsim/grid"
	"github.com/milk9111/actorsim/logger"
	"github.com/milk9111/actorsim/mmpx"
	"github.com/milk9111/actorsim/scene"
	"golang.org/x/image/colornames"
)

const (
	minimapCell    = 2
	minimapMargin  = 10
	minimapRefresh = 10
)

// minimap renders the brick map at minimapCell pixels per cell and magnifies
// it with MMPX.
type minimap struct {
	scaler   *mmpx.Scaler
	image    *ebiten.Image
	rendered int32
	valid    bool
}

func newMinimap(scaler *mmpx.Scaler) *minimap {
	return &minimap{scaler: scaler}
}

func (m *minimap) draw(screen *ebiten.Image, s *scene.Scene) {
	now := s.Clock().Now()
	if !m.valid || now-m.rendered >= minimapRefresh || now < m.rendered {
		if err := m.render(s); err != nil {
			logger.Log.WithError(err).Warn("minimap")
			return
		}
		m.rendered = now
		m.valid = true
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(screen.Bounds().Dx()-m.image.Bounds().Dx()-minimapMargin), minimapMargin)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(m.image, op)
}

func (m *minimap) render(s *scene.Scene) error {
	w, h := grid.SizeX*minimapCell, grid.SizeZ*minimapCell
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	g := s.Grid()
	for z := int32(0); z < grid.SizeZ; z++ {
		for x := int32(0); x < grid.SizeX; x++ {
			c, shape, ok := g.Top(x, z)
			clr := color.Color(colornames.Black)
			if ok {
				clr = brickColor(shape, c.Y)
			}
			fillCell(img, int(x), int(grid.SizeZ-1-z), clr)
		}
	}

	actors := s.Actors()
	for i := 0; i < actors.Len(); i++ {
		a := actors.Get(i)
		if a.Dormant() {
			continue
		}
		c := grid.CellAt(a.Pos.X, a.Pos.Y, a.Pos.Z)
		fillCell(img, int(c.X), int(grid.SizeZ-1-c.Z), actorColor(i, s.Hero(), a))
	}

	big, err := m.scaler.Upscale2x(mmpx.FromImage(img, mmpx.Format565))
	if err != nil {
		return err
	}
	if m.image == nil {
		m.image = ebiten.NewImage(big.Width, big.Height)
	}
	m.image.WritePixels(mmpx.ToImage(big).Pix)
	return nil
}

func fillCell(img *image.RGBA, x, y int, clr color.Color) {
	for dy := range minimapCell {
		for dx := range minimapCell {
			img.Set(x*minimapCell+dx, y*minimapCell+dy, clr)
		}
	}
}
