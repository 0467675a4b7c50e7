package collision

import (
	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/grid"
)

// Terrain is the brick map collision queries run against.
type Terrain interface {
	BrickShape(x, y, z int32) (grid.ShapeType, grid.Cell)
	BrickShapeFull(x, y, z, height int32) (grid.ShapeType, grid.Cell)
	Reajust(shape grid.ShapeType, c grid.Cell, pos common.Vec3) common.Vec3
}

// Corner damage bits reported by CheckBricks.
const (
	CornerMinXMinZ int32 = 1 << iota
	CornerMaxXMinZ
	CornerMaxXMaxZ
	CornerMinXMaxZ
)

// Probe carries one actor's candidate position through a tick's collision
// pass. Every terrain query records the cell it hit in Cell.
type Probe struct {
	Terrain  Terrain
	Index    int
	Actor    *actor.Actor
	Process  common.Vec3
	Previous common.Vec3
	Cell     grid.Cell
	Damage   int32
}

func NewProbe(t Terrain, index int, a *actor.Actor) *Probe {
	return &Probe{
		Terrain:  t,
		Index:    index,
		Actor:    a,
		Process:  a.Pos,
		Previous: a.CollisionPos,
	}
}

// Shape queries the brick at a position and remembers its cell.
func (p *Probe) Shape(x, y, z int32) grid.ShapeType {
	s, c := p.Terrain.BrickShape(x, y, z)
	p.Cell = c
	return s
}

func (p *Probe) ShapeFull(x, y, z, height int32) grid.ShapeType {
	s, c := p.Terrain.BrickShapeFull(x, y, z, height)
	p.Cell = c
	return s
}

// Reajust moves the candidate onto the slope of the last queried brick.
func (p *Probe) Reajust(shape grid.ShapeType) {
	p.Process = p.Terrain.Reajust(shape, p.Cell, p.Process)
}

// CheckBricks sweeps the four bottom corners of the bounding box. A corner
// inside a solid brick sets its damage bit and pulls the candidate back
// along the blocked axis. Full checks test the actor's whole height, which
// the hero uses.
func (p *Probe) CheckBricks(full bool) {
	bb := p.Actor.BoundingBox
	corners := [4]struct {
		off  common.Vec3
		mask int32
	}{
		{common.Vec3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z}, CornerMinXMinZ},
		{common.Vec3{X: bb.Max.X, Y: bb.Min.Y, Z: bb.Min.Z}, CornerMaxXMinZ},
		{common.Vec3{X: bb.Max.X, Y: bb.Min.Y, Z: bb.Max.Z}, CornerMaxXMaxZ},
		{common.Vec3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Max.Z}, CornerMinXMaxZ},
	}
	height := int32(0)
	if full {
		height = bb.Height()
	}
	collision := p.Process
	for _, c := range corners {
		p.corner(&collision, c.off, c.mask, full, height)
	}
}

func (p *Probe) corner(collision *common.Vec3, off common.Vec3, mask int32, full bool, height int32) {
	shape := p.Shape(p.Process.X, p.Process.Y, p.Process.Z)
	probe := p.Process.Add(off)
	if probe.X >= 0 && probe.Z >= 0 && probe.X <= common.SceneSizeMax && probe.Z <= common.SceneSizeMax {
		probe = p.Terrain.Reajust(shape, p.Cell, probe)
		if p.solid(probe.X, probe.Y, probe.Z, full, height) {
			p.Damage |= mask
			if p.solid(probe.X, probe.Y, p.Previous.Z+off.Z, full, height) {
				if !p.solid(p.Previous.X+off.X, probe.Y, probe.Z, full, height) {
					collision.X = p.Previous.X
				}
			} else {
				collision.Z = p.Previous.Z
			}
		}
	}
	p.Process = *collision
}

func (p *Probe) solid(x, y, z int32, full bool, height int32) bool {
	if full {
		return p.ShapeFull(x, y, z, height) == grid.ShapeSolid
	}
	return p.Shape(x, y, z) == grid.ShapeSolid
}
