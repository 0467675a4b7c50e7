package actor

import (
	"fmt"

	"github.com/milk9111/actorsim/anim"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/grid"
)

// NoEntity marks an actor slot with nothing bound to it.
const NoEntity = -1

// NoActor is the empty value of actor references such as StandOn.
const NoActor = -1

// StaticFlags are set when the actor is placed and never change during a tick.
type StaticFlags struct {
	ComputeCollisionWithObj    bool
	ComputeCollisionWithBricks bool
	ComputeLowCollision        bool
	IsSpriteActor              bool
	CanFall                    bool
	CanBePushed                bool
	UseMiniZv                  bool
	IsCarrier                  bool
}

type DynamicFlags struct {
	Hitting           bool
	Falling           bool
	AnimEnded         bool
	FrameReached      bool
	RotationByAnim    bool
	SpriteMoving      bool
	BrickCausesDamage bool
}

// BoundingBox is relative to the actor's position.
type BoundingBox struct {
	Min common.Vec3
	Max common.Vec3
}

func (b BoundingBox) Width() int32  { return b.Max.X - b.Min.X }
func (b BoundingBox) Height() int32 { return b.Max.Y - b.Min.Y }
func (b BoundingBox) Depth() int32  { return b.Max.Z - b.Min.Z }

// AnimTimer tracks the pose being blended from and the tick it was reached.
type AnimTimer struct {
	Last anim.PoseRef
	Time int32
}

type Actor struct {
	Name   string
	Entity int

	Static  StaticFlags
	Dynamic DynamicFlags

	Pos          common.Vec3
	CollisionPos common.Vec3
	BoundingBox  BoundingBox
	Angle        int32
	Speed        int32
	Move         common.Move

	// SpriteAngle is the pitch along which a sprite actor travels.
	SpriteAngle int32
	// DoorStatus is the opening distance of a sliding door, zero when closing.
	DoorStatus int32
	// DoorAnchor is the closed position of a door.
	DoorAnchor common.Vec3
	// Push is the displacement other actors applied this tick.
	Push common.Vec3

	Life          int32
	StandOn       int
	Collision     int
	BrickShape    grid.ShapeType
	BrickSound    int32
	StrengthOfHit int32

	Anim              AnimationID
	AnimExtra         AnimationID
	ActionAnim        AnimationID
	PreviousAnimIndex int
	AnimType          AnimType
	AnimPosition      int
	AnimState         AnimState
	LastRotationAngle int32
	LastStep          common.Vec3
	Timer             AnimTimer
	Pose              anim.Pose
}

// New returns a dormant actor.
func New() *Actor {
	a := &Actor{Entity: NoEntity}
	a.ResetAnimation()
	a.StandOn = NoActor
	a.Collision = NoActor
	return a
}

// Bind attaches an entity and a fresh pose, clearing animation state.
func (a *Actor) Bind(entity, bones int) {
	a.Entity = entity
	a.Pose = anim.NewPose(bones)
	a.ResetAnimation()
}

// ResetAnimation clears everything the animation controller owns.
func (a *Actor) ResetAnimation() {
	a.Anim = AnimNone
	a.AnimExtra = Standing
	a.ActionAnim = AnimNone
	a.PreviousAnimIndex = -1
	a.AnimType = AnimLoop
	a.AnimPosition = 0
	a.AnimState = NoAnimation
	a.LastRotationAngle = 0
	a.LastStep = common.Vec3{}
	a.Timer = AnimTimer{}
	a.StrengthOfHit = 0
	a.Dynamic.Hitting = false
	a.Dynamic.AnimEnded = false
	a.Dynamic.FrameReached = false
	a.Dynamic.RotationByAnim = false
	clear(a.Pose)
}

func (a *Actor) Dormant() bool { return a == nil || a.Entity == NoEntity }

func (a *Actor) Dead() bool { return a.Life <= 0 }

// Table is a fixed-capacity, index-addressed set of actors.
type Table struct {
	actors []*Actor
	max    int
}

const MaxActors = 100

func NewTable(max int) *Table {
	if max <= 0 {
		max = MaxActors
	}
	return &Table{max: max}
}

func (t *Table) Add(a *Actor) (int, error) {
	if len(t.actors) >= t.max {
		return -1, fmt.Errorf("actor: table full (%d actors)", t.max)
	}
	t.actors = append(t.actors, a)
	return len(t.actors) - 1, nil
}

// Get returns nil for indices outside the table.
func (t *Table) Get(i int) *Actor {
	if i < 0 || i >= len(t.actors) {
		return nil
	}
	return t.actors[i]
}

func (t *Table) Len() int { return len(t.actors) }

func (t *Table) Cap() int { return t.max }
