package system

import (
	"testing"

	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/grid"
)

func hasSpecial(rec *recorder, kind SpecialKind) bool {
	for _, k := range rec.specials {
		if k == kind {
			return true
		}
	}
	return false
}

// spawnCrate adds a pushable sprite actor with no motion of its own.
func (f *fixture) spawnCrate(t *testing.T, pos common.Vec3) (int, *actor.Actor) {
	t.Helper()
	idx, a := f.spawn(t, pos)
	a.Static.IsSpriteActor = true
	a.Static.CanBePushed = true
	return idx, a
}

func TestResolveClampsToScene(t *testing.T) {
	tests := []struct {
		name string
		pos  common.Vec3
		push common.Vec3
		want common.Vec3
	}{
		{
			name: "clamped",
			pos:  common.Vec3{X: 100, Y: 100, Z: common.SceneSizeMax - 10},
			push: common.Vec3{X: -500, Y: -500, Z: 500},
			want: common.Vec3{X: 0, Y: 0, Z: common.SceneSizeMax},
		},
		{
			name: "boundary_kept",
			pos:  common.Vec3{X: 0, Y: 0, Z: common.SceneSizeMax},
			want: common.Vec3{X: 0, Y: 0, Z: common.SceneSizeMax},
		},
		{
			name: "inside",
			pos:  common.Vec3{X: 3000, Y: 512, Z: 3000},
			push: common.Vec3{X: 10, Y: 20, Z: -30},
			want: common.Vec3{X: 3010, Y: 532, Z: 2970},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, defaultAnims())
			idx, a := f.spawnCrate(t, tt.pos)
			a.Push = tt.push
			f.step(t, idx)
			if a.Pos != tt.want {
				t.Fatalf("pos = %+v, want %+v", a.Pos, tt.want)
			}
			if a.Push != (common.Vec3{}) {
				t.Fatalf("push = %+v, want consumed", a.Push)
			}
		})
	}
}

func TestResolveMiniGridSnapsPushedActors(t *testing.T) {
	f := newFixture(t, defaultAnims())
	idx, a := f.spawnCrate(t, common.Vec3{X: 1000, Y: 256, Z: 1000})
	a.Static.UseMiniZv = true
	a.Push = common.Vec3{X: 100, Z: 30}
	f.step(t, idx)

	if a.Pos.X != 1024 || a.Pos.Z != 1024 {
		t.Fatalf("pos = %+v, want x and z on the 128 grid", a.Pos)
	}
}

func TestResolveBlockedOnBothAxes(t *testing.T) {
	f := newFixture(t, defaultAnims())
	f.floor()
	f.grid.Set(grid.Cell{X: 5, Y: 1, Z: 4}, grid.ShapeSolid, 1)
	f.grid.Set(grid.Cell{X: 4, Y: 1, Z: 5}, grid.ShapeSolid, 1)
	f.grid.Set(grid.Cell{X: 5, Y: 1, Z: 5}, grid.ShapeSolid, 1)

	start := common.Vec3{X: 2000, Y: 256, Z: 2000}
	idx, a := f.spawnCrate(t, start)
	a.Static.ComputeCollisionWithBricks = true
	a.Push = common.Vec3{X: 600, Z: 600}
	f.step(t, idx)

	if a.Pos != start {
		t.Fatalf("pos = %+v, want unchanged %+v", a.Pos, start)
	}
	if a.Dynamic.BrickCausesDamage {
		t.Fatal("damage flagged on a tick that did not commit")
	}
	if a.BrickShape != grid.ShapeSolid {
		t.Fatalf("brick shape = %v, want solid", a.BrickShape)
	}
}

func TestResolveSlidesAlongWall(t *testing.T) {
	f := newFixture(t, defaultAnims())
	f.floor()
	f.grid.Fill(grid.Cell{X: 5, Y: 1, Z: 0}, grid.Cell{X: 5, Y: 1, Z: 20}, grid.ShapeSolid, 1)

	idx, a := f.spawnCrate(t, common.Vec3{X: 2000, Y: 256, Z: 2000})
	a.Static.ComputeCollisionWithBricks = true
	a.Push = common.Vec3{X: 250, Z: 100}
	f.step(t, idx)

	if want := (common.Vec3{X: 2000, Y: 256, Z: 2100}); a.Pos != want {
		t.Fatalf("pos = %+v, want %+v", a.Pos, want)
	}
	if !a.Dynamic.BrickCausesDamage {
		t.Fatal("corner contact not flagged")
	}
}

func TestResolveBrickSound(t *testing.T) {
	f := newFixture(t, defaultAnims())
	f.grid.Fill(grid.Cell{X: 0, Y: 0, Z: 0}, grid.Cell{X: 20, Y: 0, Z: 20}, grid.ShapeSolid, 5)

	idx, a := f.spawnCrate(t, common.Vec3{X: 2000, Y: 256, Z: 2000})
	a.Static.ComputeCollisionWithBricks = true
	f.step(t, idx)

	if a.BrickSound != 5 {
		t.Fatalf("brick sound = %d, want 5", a.BrickSound)
	}
}

func TestResolveFalling(t *testing.T) {
	tests := []struct {
		name      string
		hero      bool
		startY    int32
		wantLife  int32
		wantAnim  actor.AnimationID
		wantStars bool
	}{
		{name: "guard_resumes", startY: 600, wantLife: 10, wantAnim: actor.Standing},
		{name: "hero_short_fall", hero: true, startY: 600, wantLife: 10, wantAnim: actor.Landing},
		{name: "hero_hurt", hero: true, startY: 2560, wantLife: 9, wantAnim: actor.LandingHit, wantStars: true},
		{name: "hero_killed", hero: true, startY: 4608, wantLife: 0, wantAnim: actor.LandDeath, wantStars: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, defaultAnims())
			f.floor()
			idx, a := f.spawn(t, common.Vec3{X: 2000, Y: tt.startY, Z: 2000})
			a.Static.ComputeCollisionWithBricks = true
			a.Static.CanFall = true
			if tt.hero {
				f.env.Hero = idx
			}
			f.play(t, idx, actor.Standing, actor.AnimLoop)

			f.step(t, idx)
			if !a.Dynamic.Falling || a.Anim != actor.Fall {
				t.Fatalf("falling = %v anim = %v, want a fall", a.Dynamic.Falling, a.Anim)
			}
			if tt.hero && f.resolver.HeroYBeforeFall() != tt.startY {
				t.Fatalf("fall start = %d, want %d", f.resolver.HeroYBeforeFall(), tt.startY)
			}

			for i := 0; i < 100 && a.Dynamic.Falling; i++ {
				f.step(t, idx)
			}
			if a.Dynamic.Falling {
				t.Fatal("still falling")
			}
			if a.Pos.Y != grid.BrickHeight {
				t.Fatalf("landed at y=%d, want %d", a.Pos.Y, grid.BrickHeight)
			}
			if a.Anim != tt.wantAnim || a.Life != tt.wantLife {
				t.Fatalf("anim = %v life = %d, want %v and %d", a.Anim, a.Life, tt.wantAnim, tt.wantLife)
			}
			if hasSpecial(f.rec, SpecialHitStars) != tt.wantStars {
				t.Fatalf("specials = %v", f.rec.specials)
			}
			if f.resolver.HeroYBeforeFall() != 0 {
				t.Fatalf("fall start = %d, want reset", f.resolver.HeroYBeforeFall())
			}
		})
	}
}

func TestResolveVoidKills(t *testing.T) {
	f := newFixture(t, defaultAnims())
	idx, a := f.spawn(t, common.Vec3{X: 2000, Y: 0, Z: 2000})
	a.Static.ComputeCollisionWithBricks = true
	a.Static.CanFall = true
	f.play(t, idx, actor.Standing, actor.AnimLoop)
	f.step(t, idx)

	if a.Life != 0 {
		t.Fatalf("life = %d, want 0", a.Life)
	}
}

func TestResolveWallHit(t *testing.T) {
	tests := []struct {
		name          string
		wallCollision bool
		behaviour     HeroBehaviour
		wantHit       bool
	}{
		{name: "athletic_hero", wallCollision: true, behaviour: BehaviourAthletic, wantHit: true},
		{name: "disabled", behaviour: BehaviourAthletic},
		{name: "normal_hero", wallCollision: true, behaviour: BehaviourNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anims := defaultAnims()
			anims[animForward] = buildAnim(0, 3, 1, 400)
			f := newFixture(t, anims)
			f.resolver = NewResolver(f.env, f.ctrl, f.clock, ResolverConfig{WallCollision: tt.wallCollision})
			f.game.behaviour = tt.behaviour
			f.floor()
			f.grid.Fill(grid.Cell{X: 5, Y: 1, Z: 0}, grid.Cell{X: 5, Y: 2, Z: 20}, grid.ShapeSolid, 1)

			idx, a := f.spawn(t, common.Vec3{X: 2200, Y: 256, Z: 2000})
			a.Static.ComputeCollisionWithBricks = true
			a.Static.CanFall = true
			a.Angle = common.Angle90
			f.env.Hero = idx
			f.play(t, idx, actor.Forward, actor.AnimLoop)
			f.step(t, idx)

			if a.Pos.X != 2200 {
				t.Fatalf("x = %d, want held at 2200", a.Pos.X)
			}
			if tt.wantHit {
				if a.Anim != actor.BigHit || a.Life != 9 || !hasSpecial(f.rec, SpecialHitStars) {
					t.Fatalf("anim = %v life = %d specials = %v, want a wall hit", a.Anim, a.Life, f.rec.specials)
				}
				return
			}
			if a.Anim != actor.Forward || a.Life != 10 || len(f.rec.specials) != 0 {
				t.Fatalf("anim = %v life = %d specials = %v, want no hit", a.Anim, a.Life, f.rec.specials)
			}
		})
	}
}

func TestResolveDoors(t *testing.T) {
	anchor := common.Vec3{X: 2000, Y: 256, Z: 2000}
	tests := []struct {
		name   string
		start  common.Vec3
		speed  int32
		status int32
		want   common.Vec3
	}{
		{name: "opens", start: anchor, speed: 512, status: 512, want: common.Vec3{X: 2000, Y: 256, Z: 2512}},
		{name: "closes", start: common.Vec3{X: 2000, Y: 256, Z: 2100}, speed: -512, want: anchor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, defaultAnims())
			idx, a := f.spawn(t, tt.start)
			a.Static.IsSpriteActor = true
			a.Dynamic.SpriteMoving = true
			a.DoorAnchor = anchor
			a.DoorStatus = tt.status
			a.Speed = tt.speed

			for i := 0; i < 60 && a.Dynamic.SpriteMoving; i++ {
				f.step(t, idx)
			}
			if a.Dynamic.SpriteMoving || a.Speed != 0 {
				t.Fatalf("door still moving: speed = %d", a.Speed)
			}
			if a.Pos != tt.want {
				t.Fatalf("pos = %+v, want %+v", a.Pos, tt.want)
			}
		})
	}
}

func TestResolveFollowsCarrier(t *testing.T) {
	tests := []struct {
		name      string
		rider     common.Vec3
		wantPos   common.Vec3
		wantStand bool
	}{
		{
			name:      "carried",
			rider:     common.Vec3{X: 2000, Y: 456, Z: 2000},
			wantPos:   common.Vec3{X: 2100, Y: 456, Z: 2000},
			wantStand: true,
		},
		{
			name:    "walked_off",
			rider:   common.Vec3{X: 2400, Y: 456, Z: 2000},
			wantPos: common.Vec3{X: 2500, Y: 456, Z: 2000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, defaultAnims())
			carrierIdx, carrier := f.spawn(t, common.Vec3{X: 2000, Y: 256, Z: 2000})
			carrier.Static.IsCarrier = true
			carrier.BoundingBox = actor.BoundingBox{
				Min: common.Vec3{X: -200, Z: -200},
				Max: common.Vec3{X: 200, Y: 200, Z: 200},
			}
			// The carrier already moved this tick.
			carrier.CollisionPos = carrier.Pos
			carrier.Pos.X += 100

			idx, rider := f.spawn(t, tt.rider)
			rider.StandOn = carrierIdx
			f.step(t, idx)

			if rider.Pos != tt.wantPos {
				t.Fatalf("pos = %+v, want %+v", rider.Pos, tt.wantPos)
			}
			if (rider.StandOn == carrierIdx) != tt.wantStand {
				t.Fatalf("stand on = %d, want carried=%v", rider.StandOn, tt.wantStand)
			}
		})
	}
}
