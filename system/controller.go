package system

import (
	"fmt"

	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/anim"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/entity"
	"github.com/milk9111/actorsim/logger"
)

// SwitchResult reports what SwitchAnimation did.
type SwitchResult uint8

const (
	Rejected SwitchResult = iota
	AlreadyPlaying
	Deferred
	Applied
)

func (r SwitchResult) String() string {
	switch r {
	case Rejected:
		return "rejected"
	case AlreadyPlaying:
		return "already_playing"
	case Deferred:
		return "deferred"
	case Applied:
		return "applied"
	}
	return "unknown"
}

// Motion is the root displacement one controller tick produced, already in
// world space. The resolver adds it to the actor's committed position.
type Motion struct {
	Delta common.Vec3
	// Frames counts keyframe boundaries crossed this tick.
	Frames int
	Ended  bool
}

// Controller owns the animation state of every actor: switching animations,
// advancing keyframes and blending the live pose.
type Controller struct {
	env      *Env
	catalog  *entity.Catalog
	library  *anim.Library
	arena    *anim.PoseArena
	dispatch *Dispatcher
	clock    *Clock
}

func NewController(env *Env, catalog *entity.Catalog, library *anim.Library, arena *anim.PoseArena, dispatch *Dispatcher, clock *Clock) *Controller {
	return &Controller{
		env:      env,
		catalog:  catalog,
		library:  library,
		arena:    arena,
		dispatch: dispatch,
		clock:    clock,
	}
}

// resolve maps a gameplay animation to the entity's animation index, falling
// back to Standing. The second result is the animation that resolved.
func (c *Controller) resolve(index int, a *actor.Actor, id actor.AnimationID) (int, actor.AnimationID, bool) {
	if idx := c.catalog.AnimIndex(a.Entity, id); idx >= 0 {
		return idx, id, true
	}
	idx := c.catalog.AnimIndex(a.Entity, actor.Standing)
	if idx < 0 {
		return -1, actor.AnimNone, false
	}
	logger.ForActor(index).WithField("anim", id.String()).Debug("animation missing, using standing")
	return idx, actor.Standing, true
}

func nonResumable(id actor.AnimationID) bool {
	switch id {
	case actor.ThrowBall, actor.Fall, actor.Landing, actor.LandingHit:
		return true
	}
	return false
}

// SwitchAnimation starts newAnim on an actor. extra is the animation to fall
// through to when a non-looping animation ends; AnimInvalid keeps the current
// one. While an overlay plays, requests other than AnimOverlayForced are
// remembered in AnimExtra and Deferred.
func (c *Controller) SwitchAnimation(index int, newAnim actor.AnimationID, typ actor.AnimType, extra actor.AnimationID) (SwitchResult, error) {
	a := c.env.Actors.Get(index)
	if a.Dormant() || a.Static.IsSpriteActor {
		return Rejected, nil
	}
	if newAnim == a.Anim && a.PreviousAnimIndex != -1 {
		return AlreadyPlaying, nil
	}
	if extra == actor.AnimInvalid && a.AnimType != actor.AnimOverlay {
		extra = a.Anim
	}

	animIndex, actionAnim, ok := c.resolve(index, a, newAnim)

	if typ != actor.AnimOverlayForced && a.AnimType == actor.AnimOverlay {
		a.AnimExtra = newAnim
		return Deferred, nil
	}
	if !ok {
		logger.ForActor(index).WithField("anim", newAnim.String()).Warn("entity has no standing animation")
		return Rejected, nil
	}

	switch typ {
	case actor.AnimInterruptResume:
		typ = actor.AnimOverlay
		extra = a.Anim
		if nonResumable(extra) {
			extra = actor.Standing
		}
	case actor.AnimOverlayForced:
		typ = actor.AnimOverlay
	}

	now := c.clock.Now()
	if body, _ := c.catalog.Body(a.Entity); body.Animated {
		if a.PreviousAnimIndex == -1 {
			if err := c.snap(a, animIndex, now); err != nil {
				return Rejected, fmt.Errorf("system: actor %d: %w", index, err)
			}
		} else {
			c.stash(index, a, now)
		}
	}

	a.PreviousAnimIndex = animIndex
	a.Anim = newAnim
	a.AnimExtra = extra
	a.ActionAnim = actionAnim
	a.AnimType = typ
	a.AnimPosition = 0
	a.AnimState = actor.TransitionPending
	a.Dynamic.Hitting = false
	a.Dynamic.AnimEnded = false
	a.Dynamic.FrameReached = true

	c.dispatch.Dispatch(index)

	a.LastRotationAngle = 0
	a.LastStep = common.Vec3{}
	return Applied, nil
}

// snap puts the pose on the first keyframe with no blending.
func (c *Controller) snap(a *actor.Actor, animIndex int, now int32) error {
	animation, err := c.library.Get(animIndex)
	if err != nil {
		return err
	}
	kf, ok := animation.Keyframe(0)
	if !ok {
		return nil
	}
	anim.Snap(a.Pose, kf)
	a.Timer = actor.AnimTimer{Last: anim.KeyframeRef(animIndex, 0), Time: now}
	return nil
}

// stash copies the live pose to the arena so the next animation blends from it.
func (c *Controller) stash(index int, a *actor.Actor, now int32) {
	wraps := c.arena.Wraps()
	h := c.arena.Stash(a.Pose)
	if c.arena.Wraps() != wraps {
		logger.ForActor(index).WithField("wraps", c.arena.Wraps()).Debug("pose arena wrapped")
	}
	a.Timer = actor.AnimTimer{Last: anim.ArenaRef(h), Time: now}
}

// Tick advances a skeletal actor's animation to the clock's current time and
// returns the root motion to apply. A tick that spans several keyframes
// crosses each of them in turn, firing their actions once apiece.
func (c *Controller) Tick(index int) (Motion, error) {
	var m Motion
	a := c.env.Actors.Get(index)
	if a.Dormant() || a.Static.IsSpriteActor || a.PreviousAnimIndex == -1 {
		return m, nil
	}
	animation, err := c.library.Get(a.PreviousAnimIndex)
	if err != nil {
		return m, fmt.Errorf("system: actor %d: %w", index, err)
	}

	a.Dynamic.AnimEnded = false
	a.Dynamic.FrameReached = false
	a.AnimState = actor.Interpolating

	body, _ := c.catalog.Body(a.Entity)
	if !body.Animated {
		return m, nil
	}

	now := c.clock.Now()
	playing := a.PreviousAnimIndex
	for range animation.KeyframeCount() {
		kf, ok := animation.Keyframe(a.AnimPosition)
		if !ok {
			break
		}
		step, passed := c.verify(a, kf, now)

		a.Dynamic.RotationByAnim = step.RotationByAnim
		a.Angle = common.ClampAngle(a.Angle + step.Rotation - a.LastRotationAngle)
		a.LastRotationAngle = step.Rotation

		x, z := common.RotateXZ(step.X, step.Z, a.Angle)
		world := common.Vec3{X: x, Y: step.Y, Z: z}
		m.Delta = m.Delta.Add(world.Sub(a.LastStep))
		a.LastStep = world

		if !passed {
			break
		}
		m.Frames++
		a.AnimState = actor.FrameAdvanced
		if c.advance(index, a, animation) {
			m.Ended = true
		}
		a.LastRotationAngle = 0
		a.LastStep = common.Vec3{}
		if a.PreviousAnimIndex != playing {
			break
		}
	}

	if err := c.updatePose(index, a, now); err != nil {
		return m, err
	}
	return m, nil
}

// verify scales the root step of kf to the time spent on it and reports
// whether the keyframe is complete. Completing moves the timer onto kf.
func (c *Controller) verify(a *actor.Actor, kf *anim.Keyframe, now int32) (anim.Step, bool) {
	start := a.Timer.Time
	if !a.Timer.Last.Valid() {
		start = kf.Length
	}
	step, passed := anim.RootStep(kf, now-start)
	if !passed {
		return step, false
	}
	if a.Timer.Last.Valid() {
		a.Timer.Time += kf.Length
	} else {
		a.Timer.Time = now
	}
	a.Timer.Last = anim.KeyframeRef(a.PreviousAnimIndex, a.AnimPosition)
	return step, true
}

// advance moves to the next keyframe. At the end of the animation it loops or
// falls through to AnimExtra, and reports true.
func (c *Controller) advance(index int, a *actor.Actor, animation *anim.Animation) bool {
	a.AnimPosition++
	c.dispatch.Dispatch(index)
	if a.AnimPosition < animation.KeyframeCount() {
		return false
	}

	a.Dynamic.Hitting = false
	if a.AnimType == actor.AnimLoop {
		a.AnimPosition = animation.LoopFrame
	} else {
		next := a.AnimExtra
		animIndex, actionAnim, ok := c.resolve(index, a, next)
		if ok {
			if actionAnim == actor.Standing {
				next = actor.Standing
			}
			a.Anim = next
			a.PreviousAnimIndex = animIndex
			a.ActionAnim = actionAnim
			a.AnimType = actor.AnimLoop
			a.AnimPosition = 0
			a.StrengthOfHit = 0
		} else {
			logger.ForActor(index).WithField("anim", next.String()).Warn("entity has no standing animation")
			a.AnimPosition = animation.LoopFrame
		}
	}
	c.dispatch.Dispatch(index)
	a.Dynamic.AnimEnded = true
	return true
}

// updatePose blends the live pose toward the current keyframe from the pose
// the timer remembers.
func (c *Controller) updatePose(index int, a *actor.Actor, now int32) error {
	animation, err := c.library.Get(a.PreviousAnimIndex)
	if err != nil {
		return fmt.Errorf("system: actor %d: %w", index, err)
	}
	kf, ok := animation.Keyframe(a.AnimPosition)
	if !ok {
		return nil
	}
	start := a.Timer.Time
	if !a.Timer.Last.Valid() {
		start = kf.Length
	}
	if _, err := anim.Blend(a.Pose, kf, c.lastPose(a.Timer.Last), now-start); err != nil {
		return fmt.Errorf("system: actor %d anim %s frame %d: %w", index, a.Anim, a.AnimPosition, err)
	}
	return nil
}

// lastPose resolves a timer reference. Stale arena handles resolve to nil.
func (c *Controller) lastPose(ref anim.PoseRef) []anim.BoneFrame {
	switch ref.Kind {
	case anim.RefKeyframe:
		bones, _ := c.library.Bones(ref.Anim, ref.Keyframe)
		return bones
	case anim.RefArena:
		bones, _ := c.arena.Get(ref.Handle)
		return bones
	}
	return nil
}
