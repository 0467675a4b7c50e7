package collision

import (
	"testing"

	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/grid"
)

type table []*actor.Actor

func (t table) Get(i int) *actor.Actor {
	if i < 0 || i >= len(t) {
		return nil
	}
	return t[i]
}

func (t table) Len() int { return len(t) }

type hitRecord struct {
	attacker, victim int
	strength, angle  int32
}

type hitLog []hitRecord

func (h *hitLog) HitActor(attacker, victim int, strength, angle int32) {
	*h = append(*h, hitRecord{attacker, victim, strength, angle})
}

func boxActor(pos common.Vec3, half, height int32) *actor.Actor {
	a := actor.New()
	a.Bind(0, 1)
	a.Life = 10
	a.Pos = pos
	a.CollisionPos = pos
	a.BoundingBox = actor.BoundingBox{
		Min: common.Vec3{X: -half, Y: 0, Z: -half},
		Max: common.Vec3{X: half, Y: height, Z: half},
	}
	return a
}

func TestStandingOn(t *testing.T) {
	carrier := boxActor(common.Vec3{X: 1000, Y: 0, Z: 1000}, 200, 300)
	rider := boxActor(common.Vec3{}, 100, 500)

	cases := []struct {
		name string
		pos  common.Vec3
		want bool
	}{
		{"on_top", common.Vec3{X: 1000, Y: 301, Z: 1000}, true},
		{"touching_top", common.Vec3{X: 1000, Y: 300, Z: 1000}, true},
		{"hovering", common.Vec3{X: 1000, Y: 302, Z: 1000}, false},
		{"sunk_a_brick", common.Vec3{X: 1000, Y: 300 - grid.BrickHeight, Z: 1000}, false},
		{"edge_touch_x", common.Vec3{X: 1300, Y: 301, Z: 1000}, false},
		{"overlapping_edge", common.Vec3{X: 1299, Y: 301, Z: 1000}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := StandingOn(rider, c.pos, carrier); got != c.want {
				t.Fatalf("StandingOn(%+v) = %v, want %v", c.pos, got, c.want)
			}
		})
	}
}

func TestCheckBricksSlidesAlongWall(t *testing.T) {
	g := grid.New()
	g.Fill(grid.Cell{X: 0, Y: 0, Z: 0}, grid.Cell{X: 10, Y: 0, Z: 10}, grid.ShapeSolid, 0)
	// wall at cell x=5, one brick high above the floor
	g.Fill(grid.Cell{X: 5, Y: 1, Z: 0}, grid.Cell{X: 5, Y: 1, Z: 10}, grid.ShapeSolid, 0)

	a := boxActor(common.Vec3{X: 2000, Y: 256, Z: 2000}, 100, 500)
	p := NewProbe(g, 1, a)
	// moving diagonally into the wall: x should be pulled back, z kept
	p.Process = common.Vec3{X: 2250, Y: 256, Z: 2100}
	p.CheckBricks(false)

	if p.Damage == 0 {
		t.Fatalf("expected corner damage bits")
	}
	if p.Process.X != 2000 {
		t.Fatalf("x = %d, want pulled back to 2000", p.Process.X)
	}
	if p.Process.Z != 2100 {
		t.Fatalf("z = %d, want slide to 2100", p.Process.Z)
	}
}

func TestCheckBricksFreeSpace(t *testing.T) {
	g := grid.New()
	g.Fill(grid.Cell{X: 0, Y: 0, Z: 0}, grid.Cell{X: 10, Y: 0, Z: 10}, grid.ShapeSolid, 0)
	a := boxActor(common.Vec3{X: 2000, Y: 256, Z: 2000}, 100, 500)
	p := NewProbe(g, 0, a)
	p.Process = common.Vec3{X: 2050, Y: 256, Z: 2050}
	p.CheckBricks(true)
	if p.Damage != 0 || p.Process != (common.Vec3{X: 2050, Y: 256, Z: 2050}) {
		t.Fatalf("free move altered: damage=%d pos=%+v", p.Damage, p.Process)
	}
}

func TestCheckActorsCarrier(t *testing.T) {
	lift := boxActor(common.Vec3{X: 1000, Y: 0, Z: 1000}, 300, 400)
	lift.Static.IsCarrier = true
	hero := boxActor(common.Vec3{X: 1000, Y: 500, Z: 1000}, 100, 600)
	hero.Dynamic.Falling = true

	actors := table{hero, lift}
	p := NewProbe(grid.New(), 0, hero)
	p.Process = common.Vec3{X: 1000, Y: 350, Z: 1000}

	if got := p.CheckActors(actors, nil); got != 1 {
		t.Fatalf("collision = %d, want 1", got)
	}
	if hero.StandOn != 1 {
		t.Fatalf("StandOn = %d, want 1", hero.StandOn)
	}
	if p.Process.Y != 401 {
		t.Fatalf("y = %d, want 401", p.Process.Y)
	}
}

func TestCheckActorsPushOut(t *testing.T) {
	crate := boxActor(common.Vec3{X: 2000, Y: 0, Z: 1000}, 200, 400)
	crate.Static.CanBePushed = true
	hero := boxActor(common.Vec3{X: 1650, Y: 0, Z: 1000}, 200, 600)
	hero.Angle = common.Angle90

	actors := table{hero, crate}
	p := NewProbe(grid.New(), 0, hero)
	p.Process = common.Vec3{X: 1700, Y: 0, Z: 1000}

	p.CheckActors(actors, nil)
	if p.Process.X != 1600 {
		t.Fatalf("x = %d, want pushed out to 1600", p.Process.X)
	}
	if crate.Push.X != 50 {
		t.Fatalf("crate push = %+v, want x=50", crate.Push)
	}
}

func TestCheckActorsBlocksNonSquare(t *testing.T) {
	wall := boxActor(common.Vec3{X: 2000, Y: 0, Z: 1000}, 200, 400)
	wall.BoundingBox.Max.Z = 800
	hero := boxActor(common.Vec3{X: 1650, Y: 0, Z: 1000}, 200, 600)

	p := NewProbe(grid.New(), 0, hero)
	p.Process = common.Vec3{X: 1700, Y: 0, Z: 1000}
	p.CheckActors(table{hero, wall}, nil)
	if p.Process != hero.CollisionPos {
		t.Fatalf("non-square collision should restore previous position, got %+v", p.Process)
	}
}

func TestCheckActorsHit(t *testing.T) {
	hero := boxActor(common.Vec3{X: 1000, Y: 0, Z: 1000}, 100, 600)
	hero.Dynamic.Hitting = true
	hero.StrengthOfHit = 12
	victim := boxActor(common.Vec3{X: 1000, Y: 0, Z: 1350}, 100, 600)
	bystander := boxActor(common.Vec3{X: 3000, Y: 0, Z: 1000}, 100, 600)

	var hits hitLog
	p := NewProbe(grid.New(), 0, hero)
	p.CheckActors(table{hero, victim, bystander}, &hits)

	if len(hits) != 1 {
		t.Fatalf("hits = %+v, want one", hits)
	}
	if hits[0].victim != 1 || hits[0].strength != 12 || hits[0].angle != common.Angle180 {
		t.Fatalf("hit = %+v", hits[0])
	}
	if hero.Dynamic.Hitting {
		t.Fatalf("landing a hit should clear the hitting flag")
	}
}
