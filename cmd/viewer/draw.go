package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/grid"
	"github.com/milk9111/actorsim/scene"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	// worldScale is screen pixels per world unit.
	worldScale = 0.08
	facingLen  = 400
	eventLines = 12
)

var hudFace text.Face = text.NewGoXFace(basicfont.Face7x13)

// camera maps the X/Z plane onto the screen, Z pointing up.
type camera struct {
	cx, cz float64
	w, h   float64
}

func newCamera(w, h int, focus common.Vec3) camera {
	return camera{cx: float64(focus.X), cz: float64(focus.Z), w: float64(w), h: float64(h)}
}

func (c camera) toScreen(x, z int32) (float32, float32) {
	sx := c.w/2 + (float64(x)-c.cx)*worldScale
	sy := c.h/2 - (float64(z)-c.cz)*worldScale
	return float32(sx), float32(sy)
}

func brickColor(shape grid.ShapeType, layer int32) color.Color {
	if shape != grid.ShapeSolid {
		return colornames.Sandybrown
	}
	shade := uint8(min(60+layer*30, 220))
	return color.RGBA{R: shade, G: shade, B: shade + 20, A: 0xff}
}

func drawBricks(screen *ebiten.Image, g *grid.Grid, cam camera) {
	size := float32(float64(grid.BrickSize) * worldScale)
	for z := int32(0); z < grid.SizeZ; z++ {
		for x := int32(0); x < grid.SizeX; x++ {
			c, shape, ok := g.Top(x, z)
			if !ok {
				continue
			}
			// Cell centers sit on multiples of BrickSize.
			sx, sy := cam.toScreen(x*grid.BrickSize-grid.BrickSize/2, z*grid.BrickSize+grid.BrickSize/2)
			if sx+size < 0 || sy+size < 0 || sx > float32(cam.w) || sy > float32(cam.h) {
				continue
			}
			vector.FillRect(screen, sx, sy, size, size, brickColor(shape, c.Y), false)
			vector.StrokeRect(screen, sx, sy, size, size, 1, colornames.Black, false)
		}
	}
}

func actorColor(index, hero int, a *actor.Actor) color.Color {
	switch {
	case a.Dead():
		return colornames.Dimgray
	case index == hero:
		return colornames.Gold
	case a.Dynamic.Falling:
		return colornames.Orange
	case a.Static.IsSpriteActor:
		return colornames.Steelblue
	case a.Dynamic.Hitting:
		return colornames.Red
	}
	return colornames.Lightgreen
}

func drawActors(screen *ebiten.Image, s *scene.Scene, cam camera, selected int, debug bool) {
	actors := s.Actors()
	for i := 0; i < actors.Len(); i++ {
		a := actors.Get(i)
		if a.Dormant() {
			continue
		}
		lo := a.Pos.Add(a.BoundingBox.Min)
		hi := a.Pos.Add(a.BoundingBox.Max)
		x0, y0 := cam.toScreen(lo.X, hi.Z)
		x1, y1 := cam.toScreen(hi.X, lo.Z)

		clr := actorColor(i, s.Hero(), a)
		width := float32(1)
		if i == selected {
			width = 3
		}
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, width, clr, false)

		dx, dz := common.RotateXZ(0, facingLen, a.Angle)
		px, py := cam.toScreen(a.Pos.X, a.Pos.Z)
		fx, fy := cam.toScreen(a.Pos.X+dx, a.Pos.Z+dz)
		vector.StrokeLine(screen, px, py, fx, fy, 2, clr, true)

		if debug {
			label := a.Name
			if !a.Static.IsSpriteActor {
				label = fmt.Sprintf("%s %s:%d", a.Name, a.Anim, a.AnimPosition)
			}
			ebitenutil.DebugPrintAt(screen, label, int(x0), int(y1)+2)
		}
	}
}

func drawHUD(screen *ebiten.Image, v *Viewer) {
	ebitenutil.DebugPrintAt(screen, v.status(), 10, 10)

	if a := v.scene.Actors().Get(v.selected); a != nil && !a.Dormant() {
		info := fmt.Sprintf("[%d] %s\npos %d %d %d  angle %d\nlife %d  anim %s (%s)\nbrick %s  sound %#x  stand on %d",
			v.selected, a.Name,
			a.Pos.X, a.Pos.Y, a.Pos.Z, a.Angle,
			a.Life, a.Anim, a.AnimState,
			a.BrickShape, a.BrickSound, a.StandOn)
		ebitenutil.DebugPrintAt(screen, info, 10, 30)
	}

	events := v.scene.Effects().Events()
	if len(events) > eventLines {
		events = events[len(events)-eventLines:]
	}
	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "%6d %-12s actor %-3d value %d\n", e.Tick, e.Kind, e.Actor, e.Value)
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(10, float64(baseHeight-eventLines*16-30))
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, b.String(), hudFace, op)

	ebitenutil.DebugPrintAt(screen, "space pause  . step  tab select  m manual  k kick  b ball  r reload  f1 debug", 10, baseHeight-20)
}
