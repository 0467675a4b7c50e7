package grid

import (
	"fmt"
	"strings"

	"github.com/milk9111/actorsim/common"
)

const (
	BrickSize   int32 = 512
	BrickHeight int32 = 256

	SizeX = 64
	SizeY = 25
	SizeZ = 64
)

// ShapeType is the collision class of one brick.
type ShapeType uint8

const (
	ShapeNone ShapeType = iota
	ShapeSolid
	StairsTopLeft
	StairsTopRight
	StairsBottomLeft
	StairsBottomRight
	DoubleStairsTop1
	DoubleStairsBottom1
	DoubleStairsLeft1
	DoubleStairsRight1
	DoubleStairsTop2
	DoubleStairsBottom2
	DoubleStairsLeft2
	DoubleStairsRight2
	FlatBottom1
	FlatBottom2
)

var shapeNames = []string{
	"none", "solid",
	"stairs_top_left", "stairs_top_right", "stairs_bottom_left", "stairs_bottom_right",
	"double_stairs_top1", "double_stairs_bottom1", "double_stairs_left1", "double_stairs_right1",
	"double_stairs_top2", "double_stairs_bottom2", "double_stairs_left2", "double_stairs_right2",
	"flat_bottom1", "flat_bottom2",
}

func (s ShapeType) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

func ParseShape(name string) (ShapeType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ShapeSolid, nil
	}
	for i, s := range shapeNames {
		if s == n {
			return ShapeType(i), nil
		}
	}
	return ShapeNone, fmt.Errorf("grid: unknown shape %q", name)
}

// SilentSound marks a brick whose footsteps make no sound.
const SilentSound int32 = 0xF0

// Cell is a brick coordinate.
type Cell struct {
	X, Y, Z int32
}

// CellAt converts a world position into the brick containing it. Positions
// below the floor land in layer -1.
func CellAt(x, y, z int32) Cell {
	return Cell{
		X: floorDiv(x+BrickSize/2, BrickSize),
		Y: floorDiv(y, BrickHeight),
		Z: floorDiv(z+BrickSize/2, BrickSize),
	}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Grid is the brick map of one scene. Layers are stored bottom-up, each a
// row-major SizeX*SizeZ slice.
type Grid struct {
	shapes []ShapeType
	sounds []int32
}

func New() *Grid {
	n := SizeX * SizeY * SizeZ
	g := &Grid{shapes: make([]ShapeType, n), sounds: make([]int32, n)}
	for i := range g.sounds {
		g.sounds[i] = SilentSound
	}
	return g
}

func index(c Cell) (int, bool) {
	if c.X < 0 || c.X >= SizeX || c.Y < 0 || c.Y >= SizeY || c.Z < 0 || c.Z >= SizeZ {
		return 0, false
	}
	return int(c.Y)*SizeX*SizeZ + int(c.Z)*SizeX + int(c.X), true
}

// Set stores a brick. Out of range cells are ignored.
func (g *Grid) Set(c Cell, shape ShapeType, sound int32) {
	i, ok := index(c)
	if !ok {
		return
	}
	g.shapes[i] = shape
	g.sounds[i] = sound
}

// Fill sets every cell in the inclusive box between a and b.
func (g *Grid) Fill(a, b Cell, shape ShapeType, sound int32) {
	for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
		for z := min(a.Z, b.Z); z <= max(a.Z, b.Z); z++ {
			for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
				g.Set(Cell{X: x, Y: y, Z: z}, shape, sound)
			}
		}
	}
}

// BrickShape classifies the brick at a world position. Anything below the
// map floor is solid and anything outside the X/Z extent is empty. The
// returned cell is the one that was queried.
func (g *Grid) BrickShape(x, y, z int32) (ShapeType, Cell) {
	c := CellAt(x, y, z)
	if c.X < 0 || c.X >= SizeX || c.Z < 0 || c.Z >= SizeZ {
		return ShapeNone, c
	}
	if c.Y <= -1 {
		return ShapeSolid, c
	}
	i, ok := index(c)
	if !ok {
		return ShapeNone, c
	}
	return g.shapes[i], c
}

// BrickShapeFull is BrickShape extended upward over height world units. Any
// occupied brick above the base reports solid.
func (g *Grid) BrickShapeFull(x, y, z, height int32) (ShapeType, Cell) {
	shape, c := g.BrickShape(x, y, z)
	if shape != ShapeNone {
		return shape, c
	}
	above := (height + BrickHeight - 1) / BrickHeight
	for dy := int32(1); dy <= above; dy++ {
		if s, _ := g.BrickShape(x, y+dy*BrickHeight, z); s != ShapeNone {
			return ShapeSolid, c
		}
	}
	return ShapeNone, c
}

// BrickSound returns the footstep sound of the brick at a world position.
func (g *Grid) BrickSound(x, y, z int32) int32 {
	i, ok := index(CellAt(x, y, z))
	if !ok {
		return SilentSound
	}
	return g.sounds[i]
}

// Reajust places pos on the surface of a sloped brick. The cell must be the
// one BrickShape returned for shape.
func (g *Grid) Reajust(shape ShapeType, c Cell, pos common.Vec3) common.Vec3 {
	if shape == ShapeNone || shape == ShapeSolid {
		return pos
	}
	brkX := c.X*BrickSize - BrickSize/2
	brkY := c.Y * BrickHeight
	brkZ := c.Z*BrickSize - BrickSize/2
	lx := pos.X - brkX
	lz := pos.Z - brkZ

	switch shape {
	case DoubleStairsTop1:
		shape = pick(lz <= lx, StairsTopLeft, StairsTopRight)
	case DoubleStairsBottom1:
		shape = pick(lz <= lx, StairsBottomLeft, StairsBottomRight)
	case DoubleStairsLeft1:
		shape = pick(BrickSize-lz <= lx, StairsTopLeft, StairsBottomLeft)
	case DoubleStairsRight1:
		shape = pick(BrickSize-lz <= lx, StairsTopRight, StairsBottomRight)
	case DoubleStairsTop2:
		shape = pick(lx <= lz, StairsTopLeft, StairsTopRight)
	case DoubleStairsBottom2:
		shape = pick(lx <= lz, StairsBottomLeft, StairsBottomRight)
	case DoubleStairsLeft2:
		shape = pick(BrickSize-lz <= lx, StairsBottomLeft, StairsTopLeft)
	case DoubleStairsRight2:
		shape = pick(BrickSize-lz <= lx, StairsBottomRight, StairsTopRight)
	}

	switch shape {
	case StairsTopLeft:
		pos.Y = brkY + common.AverageValue(0, BrickHeight, BrickSize, lx)
	case StairsTopRight:
		pos.Y = brkY + common.AverageValue(0, BrickHeight, BrickSize, lz)
	case StairsBottomLeft:
		pos.Y = brkY + common.AverageValue(BrickHeight, 0, BrickSize, lz)
	case StairsBottomRight:
		pos.Y = brkY + common.AverageValue(BrickHeight, 0, BrickSize, lx)
	}
	return pos
}

func pick(cond bool, a, b ShapeType) ShapeType {
	if cond {
		return a
	}
	return b
}

// Top returns the highest occupied brick of a column, or ok false when the
// column is empty.
func (g *Grid) Top(x, z int32) (c Cell, shape ShapeType, ok bool) {
	for y := int32(SizeY - 1); y >= 0; y-- {
		c = Cell{X: x, Y: y, Z: z}
		i, in := index(c)
		if !in {
			return c, ShapeNone, false
		}
		if g.shapes[i] != ShapeNone {
			return c, g.shapes[i], true
		}
	}
	return c, ShapeNone, false
}
