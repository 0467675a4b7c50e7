package system

import (
	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/entity"
	"github.com/milk9111/actorsim/grid"
)

// Dispatcher fires the actions an actor's animation carries on its current
// frame. Each call evaluates the frame once; callers invoke it exactly once
// per frame the animation reaches.
type Dispatcher struct {
	env     *Env
	catalog *entity.Catalog
}

func NewDispatcher(env *Env, catalog *entity.Catalog) *Dispatcher {
	return &Dispatcher{env: env, catalog: catalog}
}

func (d *Dispatcher) Dispatch(index int) {
	a := d.env.Actors.Get(index)
	if a.Dormant() || a.ActionAnim == actor.AnimNone {
		return
	}
	for _, act := range d.catalog.Actions(a.Entity, a.ActionAnim) {
		d.resolve(index, a, act)
	}
}

func (d *Dispatcher) resolve(index int, a *actor.Actor, act entity.Action) {
	switch act := act.(type) {
	case entity.HitAction:
		d.resolveHit(a, act)
	case entity.HeroHitAction:
		d.resolveHeroHit(a, act)
	case entity.SampleAction:
		d.resolveSample(index, a, act)
	case entity.SampleRepeatAction:
		d.resolveSampleRepeat(index, a, act)
	case entity.SampleStopAction:
		d.resolveSampleStop(a, act)
	case entity.StepAction:
		d.resolveStep(index, a, act)
	case entity.ThrowAction:
		d.resolveThrow(index, a, act)
	case entity.ThrowMagicBallAction:
		d.resolveThrowMagicBall(a, act)
	case entity.ThrowSearchAction:
		d.resolveThrowSearch(index, a, act)
	case entity.Throw3DAction:
		d.resolveThrow3D(index, a, act)
	case entity.Throw3DSearchAction:
		d.resolveThrow3DSearch(index, a, act)
	case entity.Throw3DMagicBallAction:
		d.resolveThrow3DMagicBall(a, act)
	case entity.ReservedAction:
	}
}

// Attacks arm one frame ahead of the frame they are authored on.
func armed(a *actor.Actor, act entity.Action) bool {
	return act.TriggerFrame()-1 == a.AnimPosition
}

func due(a *actor.Actor, act entity.Action) bool {
	return act.TriggerFrame() == a.AnimPosition
}

func (d *Dispatcher) resolveHit(a *actor.Actor, act entity.HitAction) {
	if !armed(a, act) {
		return
	}
	a.StrengthOfHit = act.Strength
	a.Dynamic.Hitting = true
}

func (d *Dispatcher) resolveHeroHit(a *actor.Actor, act entity.HeroHitAction) {
	if !armed(a, act) {
		return
	}
	level := 0
	if d.env.Game != nil {
		level = d.env.Game.MagicLevel()
	}
	a.StrengthOfHit = MagicLevelStrength(level)
	a.Dynamic.Hitting = true
}

func (d *Dispatcher) resolveSample(index int, a *actor.Actor, act entity.SampleAction) {
	if !due(a, act) || d.env.Audio == nil {
		return
	}
	d.env.Audio.PlaySample(act.Sample, 1, a.Pos, index)
}

func (d *Dispatcher) resolveSampleRepeat(index int, a *actor.Actor, act entity.SampleRepeatAction) {
	if !due(a, act) || d.env.Audio == nil {
		return
	}
	d.env.Audio.PlaySample(act.Sample, act.Repeat, a.Pos, index)
}

func (d *Dispatcher) resolveSampleStop(a *actor.Actor, act entity.SampleStopAction) {
	if !due(a, act) || d.env.Audio == nil {
		return
	}
	d.env.Audio.StopSample(act.Sample)
}

func (d *Dispatcher) resolveStep(index int, a *actor.Actor, act entity.StepAction) {
	if !due(a, act) || d.env.Audio == nil || a.BrickSound&grid.SilentSound == grid.SilentSound {
		return
	}
	d.env.Audio.PlaySample(SampleWalkFloorBegin+a.BrickSound&0x0F, 1, a.Pos, index)
}

func (d *Dispatcher) resolveThrow(index int, a *actor.Actor, act entity.ThrowAction) {
	if !due(a, act) || d.env.Extras == nil {
		return
	}
	yAngle := act.YAngle
	if act.Alpha {
		yAngle += a.Angle
	}
	pos := a.Pos.Add(common.Vec3{Y: act.YHeight})
	d.env.Extras.Throw(index, pos, act.Sprite, act.XAngle, yAngle, act.XRotPoint, act.ExtraAngle, act.Strength)
}

func (d *Dispatcher) magicBallActive() bool {
	return d.env.Game != nil && d.env.Game.MagicBallActive()
}

func (d *Dispatcher) resolveThrowMagicBall(a *actor.Actor, act entity.ThrowMagicBallAction) {
	if !due(a, act) || d.env.Extras == nil || d.magicBallActive() {
		return
	}
	pos := a.Pos.Add(common.Vec3{Y: act.YHeight})
	d.env.Extras.ThrowMagicBall(pos, act.XAngle, a.Angle+act.YAngle, act.XRotPoint, act.ExtraAngle)
}

func (d *Dispatcher) resolveThrowSearch(index int, a *actor.Actor, act entity.ThrowSearchAction) {
	if !due(a, act) || d.env.Extras == nil {
		return
	}
	pos := a.Pos.Add(common.Vec3{Y: act.YHeight})
	d.env.Extras.ThrowAimed(index, pos, act.Sprite, act.TargetActor, act.FinalAngle, act.Strength)
}

// launchPoint rotates a body-relative offset by the actor's facing.
func launchPoint(a *actor.Actor, dx, dy, dz int32) common.Vec3 {
	x, z := common.RotateXZ(dx, dz, a.Angle)
	return common.Vec3{X: a.Pos.X + x, Y: a.Pos.Y + dy, Z: a.Pos.Z + z}
}

func (d *Dispatcher) resolveThrow3D(index int, a *actor.Actor, act entity.Throw3DAction) {
	if !due(a, act) || d.env.Extras == nil {
		return
	}
	xAngle := act.XAngle
	if act.Alpha {
		if hero := d.env.hero(); hero != nil {
			distance := common.DistanceXZ(a.Pos.X, a.Pos.Z, hero.Pos.X, hero.Pos.Z)
			xAngle += common.PitchTo(a.Pos.Y, hero.Pos.Y, distance)
		}
	}
	pos := launchPoint(a, act.DistanceX, act.DistanceY, act.DistanceZ)
	d.env.Extras.Throw(index, pos, act.Sprite, xAngle, act.YAngle+a.Angle, act.XRotPoint, act.ExtraAngle, act.Strength)
}

func (d *Dispatcher) resolveThrow3DSearch(index int, a *actor.Actor, act entity.Throw3DSearchAction) {
	if !due(a, act) || d.env.Extras == nil {
		return
	}
	pos := launchPoint(a, act.DistanceX, act.DistanceY, act.DistanceZ)
	d.env.Extras.ThrowAimed(index, pos, act.Sprite, act.TargetActor, act.FinalAngle, act.Strength)
}

func (d *Dispatcher) resolveThrow3DMagicBall(a *actor.Actor, act entity.Throw3DMagicBallAction) {
	if !due(a, act) || d.env.Extras == nil || d.magicBallActive() {
		return
	}
	pos := launchPoint(a, act.DistanceX, act.DistanceY, act.DistanceZ)
	d.env.Extras.ThrowMagicBall(pos, act.XAngle, a.Angle, act.YAngle, act.FinalAngle)
}
