package system

import (
	"fmt"
	"testing"

	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/anim"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/entity"
	"github.com/milk9111/actorsim/grid"
	"github.com/milk9111/actorsim/prefabs"
)

const (
	animStanding = iota
	animForward
	animKick
	animFall
	animBigHit
	animLanding
	animLandingHit
	animLandDeath
)

type memLoader map[int][]byte

func (m memLoader) Animation(index int) ([]byte, error) {
	buf, ok := m[index]
	if !ok {
		return nil, fmt.Errorf("no animation %d", index)
	}
	return buf, nil
}

// buildAnim encodes count keyframes over three bones. Bone 1 rotates by 100
// per keyframe and bone 2 translates by 10.
func buildAnim(loop, count int, length int32, stepZ int16) []byte {
	kfs := make([]anim.Keyframe, count)
	for i := range kfs {
		kfs[i] = anim.Keyframe{
			Length: length,
			Z:      stepZ,
			Bones: []anim.BoneFrame{
				{Mode: anim.BoneRotate},
				{Mode: anim.BoneRotate, X: int16(i * 100)},
				{Mode: anim.BoneTranslate, Y: int16(i * 10)},
			},
		}
	}
	return anim.Encode(loop, kfs)
}

func defaultAnims() map[int][]byte {
	return map[int][]byte{
		animStanding:   buildAnim(0, 2, 10, 0),
		animForward:    buildAnim(1, 3, 10, 100),
		animKick:       buildAnim(0, 3, 10, 0),
		animFall:       buildAnim(0, 1, 10, 0),
		animBigHit:     buildAnim(0, 2, 5, 0),
		animLanding:    buildAnim(0, 2, 5, 0),
		animLandingHit: buildAnim(0, 2, 5, 0),
		animLandDeath:  buildAnim(0, 2, 5, 0),
	}
}

func guardSpec() *prefabs.EntitySpec {
	return &prefabs.EntitySpec{
		Name:  "guard",
		Bones: 3,
		Animations: map[string]prefabs.AnimSpec{
			"standing": {Index: animStanding},
			"forward": {Index: animForward, Actions: []prefabs.ActionSpec{
				{Type: "sample", Frame: 1, Params: map[string]any{"sample": 11}},
				{Type: "sample", Frame: 2, Params: map[string]any{"sample": 12}},
			}},
			"kick": {Index: animKick, Actions: []prefabs.ActionSpec{
				{Type: "hit", Frame: 2, Params: map[string]any{"strength": 20}},
			}},
			"fall":        {Index: animFall},
			"big_hit":     {Index: animBigHit},
			"landing":     {Index: animLanding},
			"landing_hit": {Index: animLandingHit},
			"land_death":  {Index: animLandDeath},
		},
	}
}

type sampleCall struct {
	sample, repeat int32
	actor          int
}

type throwCall struct {
	actor          int
	pos            common.Vec3
	sprite         int32
	xAngle, yAngle int32
	strength       int32
}

type ballCall struct {
	pos                   common.Vec3
	xAngle, yAngle, third int32
	fourth                int32
}

// recorder collects every audio and extra call.
type recorder struct {
	samples  []sampleCall
	stops    []int32
	throws   []throwCall
	aimed    []int
	balls    []ballCall
	specials []SpecialKind
}

func (r *recorder) PlaySample(sample, repeat int32, pos common.Vec3, actorIndex int) {
	r.samples = append(r.samples, sampleCall{sample: sample, repeat: repeat, actor: actorIndex})
}

func (r *recorder) StopSample(sample int32) { r.stops = append(r.stops, sample) }

func (r *recorder) Throw(actorIndex int, pos common.Vec3, sprite, xAngle, yAngle, xRotPoint, extraAngle, strength int32) {
	r.throws = append(r.throws, throwCall{actor: actorIndex, pos: pos, sprite: sprite, xAngle: xAngle, yAngle: yAngle, strength: strength})
}

func (r *recorder) ThrowAimed(actorIndex int, pos common.Vec3, sprite int32, target int, finalAngle, strength int32) {
	r.aimed = append(r.aimed, target)
}

func (r *recorder) ThrowMagicBall(pos common.Vec3, xAngle, yAngle, xRotPoint, extraAngle int32) {
	r.balls = append(r.balls, ballCall{pos: pos, xAngle: xAngle, yAngle: yAngle, third: xRotPoint, fourth: extraAngle})
}

func (r *recorder) Special(pos common.Vec3, kind SpecialKind) {
	r.specials = append(r.specials, kind)
}

type gameState struct {
	ballActive bool
	level      int
	behaviour  HeroBehaviour
}

func (g *gameState) MagicBallActive() bool        { return g.ballActive }
func (g *gameState) MagicLevel() int              { return g.level }
func (g *gameState) HeroBehaviour() HeroBehaviour { return g.behaviour }

type fixture struct {
	env      *Env
	grid     *grid.Grid
	clock    *Clock
	catalog  *entity.Catalog
	arena    *anim.PoseArena
	dispatch *Dispatcher
	ctrl     *Controller
	resolver *Resolver
	rec      *recorder
	game     *gameState
}

func newFixture(t *testing.T, anims map[int][]byte) *fixture {
	t.Helper()
	catalog := entity.NewCatalog()
	if err := catalog.Register(0, guardSpec()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	g := grid.New()
	rec := &recorder{}
	game := &gameState{}
	env := &Env{
		Actors:  actor.NewTable(8),
		Terrain: g,
		Audio:   rec,
		Extras:  rec,
		Game:    game,
		Hero:    -1,
	}
	clock := NewClock(1)
	arena := anim.NewPoseArena(4)
	dispatch := NewDispatcher(env, catalog)
	ctrl := NewController(env, catalog, anim.NewLibrary(memLoader(anims)), arena, dispatch, clock)
	return &fixture{
		env:      env,
		grid:     g,
		clock:    clock,
		catalog:  catalog,
		arena:    arena,
		dispatch: dispatch,
		ctrl:     ctrl,
		resolver: NewResolver(env, ctrl, clock, ResolverConfig{WallCollision: true}),
		rec:      rec,
		game:     game,
	}
}

// spawn adds a live guard with a 200x500x200 box standing at pos.
func (f *fixture) spawn(t *testing.T, pos common.Vec3) (int, *actor.Actor) {
	t.Helper()
	a := actor.New()
	a.Bind(0, 3)
	a.Life = 10
	a.Pos = pos
	a.CollisionPos = pos
	a.BoundingBox = actor.BoundingBox{
		Min: common.Vec3{X: -100, Y: 0, Z: -100},
		Max: common.Vec3{X: 100, Y: 500, Z: 100},
	}
	idx, err := f.env.Actors.Add(a)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return idx, a
}

func (f *fixture) play(t *testing.T, idx int, id actor.AnimationID, typ actor.AnimType) {
	t.Helper()
	res, err := f.ctrl.SwitchAnimation(idx, id, typ, actor.Standing)
	if err != nil || res != Applied {
		t.Fatalf("SwitchAnimation(%v) = (%v, %v)", id, res, err)
	}
}

// step runs one tick of the resolver for idx, the way the scene does.
func (f *fixture) step(t *testing.T, idx int) {
	t.Helper()
	a := f.env.Actors.Get(idx)
	a.CollisionPos = a.Pos
	f.clock.Advance()
	if err := f.resolver.Resolve(idx); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func (f *fixture) floor() {
	f.grid.Fill(grid.Cell{X: 0, Y: 0, Z: 0}, grid.Cell{X: 20, Y: 0, Z: 20}, grid.ShapeSolid, 1)
}
