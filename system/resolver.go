package system

import (
	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/collision"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/grid"
	"github.com/milk9111/actorsim/logger"
	"github.com/sirupsen/logrus"
)

const (
	DefaultFallStep int32 = -64

	// Falls of at least this height hurt the hero; twice as high kills.
	hurtFallHeight = grid.BrickHeight * 8
	deadFallHeight = grid.BrickHeight * 16
	// Shorter falls than this land without a landing animation.
	softFallHeight = 10

	miniGridStep = 128
)

type ResolverConfig struct {
	// FallStep is added to a falling actor's height every tick.
	FallStep int32
	// WallCollision enables the running-into-a-wall penalty for the hero.
	WallCollision bool
}

// Resolver runs the per-tick movement pipeline of one actor and commits its
// new position.
type Resolver struct {
	env        *Env
	controller *Controller
	clock      *Clock
	cfg        ResolverConfig

	heroYBeforeFall int32
}

func NewResolver(env *Env, controller *Controller, clock *Clock, cfg ResolverConfig) *Resolver {
	if cfg.FallStep == 0 {
		cfg.FallStep = DefaultFallStep
	}
	return &Resolver{env: env, controller: controller, clock: clock, cfg: cfg}
}

// HeroYBeforeFall is the height the hero started its current fall from, or 0.
func (r *Resolver) HeroYBeforeFall() int32 { return r.heroYBeforeFall }

// Update implements System.
func (r *Resolver) Update(index int) error {
	return r.Resolve(index)
}

// Resolve moves one actor for the current tick. The actor's CollisionPos must
// hold its position at the start of the tick.
func (r *Resolver) Resolve(index int) error {
	a := r.env.Actors.Get(index)
	if a.Dormant() {
		return nil
	}

	p := collision.NewProbe(r.env.Terrain, index, a)
	if a.Static.IsSpriteActor {
		r.moveSprite(p)
	} else {
		m, err := r.controller.Tick(index)
		if err != nil {
			return err
		}
		p.Process = a.Pos.Add(m.Delta)
	}

	r.followCarrier(p)

	if a.Dynamic.Falling {
		p.Process = common.Vec3{X: p.Previous.X, Y: p.Previous.Y + r.cfg.FallStep, Z: p.Previous.Z}
	}

	if a.Static.ComputeCollisionWithBricks {
		commit, err := r.collideBricks(p)
		if err != nil || !commit {
			return err
		}
	} else if a.Static.ComputeCollisionWithObj {
		p.CheckActors(r.env.Actors, r.env.Hits)
	}

	if p.Damage != 0 {
		a.Dynamic.BrickCausesDamage = true
	}

	p.Process.X = common.ClampInt32(p.Process.X, 0, common.SceneSizeMax)
	p.Process.Z = common.ClampInt32(p.Process.Z, 0, common.SceneSizeMax)
	p.Process.Y = max(p.Process.Y, 0)
	a.Pos = p.Process
	a.BrickSound = r.env.Terrain.BrickSound(a.Pos.X, a.Pos.Y-1, a.Pos.Z)
	return nil
}

func (r *Resolver) moveSprite(p *collision.Probe) {
	a := p.Actor
	if a.StrengthOfHit != 0 {
		a.Dynamic.Hitting = true
	}
	if a.Dynamic.Falling {
		return
	}

	if a.Speed != 0 {
		now := r.clock.Now()
		v := a.Move.RealValue(now)
		if v == 0 {
			v = 1
			if a.Move.To <= 0 {
				v = -1
			}
		}
		forward, lift := common.RotateXZ(v, 0, a.SpriteAngle)
		p.Process.Y = a.Pos.Y - lift
		dx, dz := common.RotateXZ(0, forward, a.Angle)
		p.Process.X = a.Pos.X + dx
		p.Process.Z = a.Pos.Z + dz

		a.Move.Set(common.Angle0, a.Speed, common.Angle17, now)

		if a.Dynamic.SpriteMoving {
			if a.DoorStatus != 0 {
				openDoor(p)
			} else {
				closeDoor(p)
			}
		}
	}

	if a.Static.CanBePushed {
		p.Process = p.Process.Add(a.Push)
		if a.Static.UseMiniZv {
			p.Process.X = p.Process.X / miniGridStep * miniGridStep
			p.Process.Z = p.Process.Z / miniGridStep * miniGridStep
		}
		a.Push = common.Vec3{}
	}
}

// openDoor stops a sliding door once it is DoorStatus away from its anchor.
func openDoor(p *collision.Probe) {
	a := p.Actor
	anchor := a.DoorAnchor
	if common.DistanceXZ(p.Process.X, p.Process.Z, anchor.X, anchor.Z) < a.DoorStatus {
		return
	}
	switch a.Angle {
	case common.Angle0:
		p.Process.Z = anchor.Z + a.DoorStatus
	case common.Angle90:
		p.Process.X = anchor.X + a.DoorStatus
	case common.Angle180:
		p.Process.Z = anchor.Z - a.DoorStatus
	case common.Angle270:
		p.Process.X = anchor.X - a.DoorStatus
	}
	a.Dynamic.SpriteMoving = false
	a.Speed = 0
}

// closeDoor stops a closing door when it reaches its anchor.
func closeDoor(p *collision.Probe) {
	a := p.Actor
	anchor := a.DoorAnchor
	var shut bool
	switch a.Angle {
	case common.Angle0:
		shut = p.Process.Z <= anchor.Z
	case common.Angle90:
		shut = p.Process.X <= anchor.X
	case common.Angle180:
		shut = p.Process.Z >= anchor.Z
	case common.Angle270:
		shut = p.Process.X >= anchor.X
	}
	if !shut {
		return
	}
	p.Process = anchor
	a.Dynamic.SpriteMoving = false
	a.Speed = 0
}

// followCarrier moves an actor with the actor it stands on and drops the
// relation once it no longer rests on it.
func (r *Resolver) followCarrier(p *collision.Probe) {
	a := p.Actor
	if a.StandOn == actor.NoActor {
		return
	}
	carrier := r.env.Actors.Get(a.StandOn)
	if carrier == nil {
		a.StandOn = actor.NoActor
		return
	}
	p.Process = p.Process.Sub(carrier.CollisionPos).Add(carrier.Pos)
	if !collision.StandingOn(a, p.Process, carrier) {
		a.StandOn = actor.NoActor
	}
}

func (r *Resolver) athleticHero(p *collision.Probe) bool {
	return p.Index == r.env.Hero && r.env.Game != nil &&
		r.env.Game.HeroBehaviour() == BehaviourAthletic && p.Actor.Anim == actor.Forward
}

// collideBricks resolves the candidate against the brick map. It reports
// false when the actor is blocked on both axes, in which case nothing is
// committed this tick.
func (r *Resolver) collideBricks(p *collision.Probe) (bool, error) {
	a := p.Actor
	hero := p.Index == r.env.Hero

	p.Cell.Y = 0
	if shape := p.Shape(p.Previous.X, p.Previous.Y, p.Previous.Z); shape != grid.ShapeNone && shape != grid.ShapeSolid {
		p.Reajust(shape)
	}

	if a.Static.ComputeCollisionWithObj {
		p.CheckActors(r.env.Actors, r.env.Hits)
	}
	if a.StandOn != actor.NoActor && a.Dynamic.Falling {
		if err := r.stopFalling(p); err != nil {
			return false, err
		}
	}

	p.Damage = 0
	p.CheckBricks(hero && !a.Static.ComputeLowCollision)

	if p.Damage != 0 && !a.Dynamic.Falling && r.athleticHero(p) && r.wallAhead(p) {
		if err := r.hitWall(p); err != nil {
			return false, err
		}
	}

	shape := p.Shape(p.Process.X, p.Process.Y, p.Process.Z)
	a.BrickShape = shape

	switch shape {
	case grid.ShapeNone:
		if err := r.checkFall(p); err != nil {
			return false, err
		}
	case grid.ShapeSolid:
		if a.Dynamic.Falling {
			if err := r.stopFalling(p); err != nil {
				return false, err
			}
			p.Process.Y = p.Cell.Y*grid.BrickHeight + grid.BrickHeight
		} else {
			if r.athleticHero(p) && r.cfg.WallCollision {
				if err := r.hitWall(p); err != nil {
					return false, err
				}
			}
			if p.Shape(p.Process.X, p.Process.Y, p.Previous.Z) == grid.ShapeNone {
				p.Process.Z = p.Previous.Z
			}
			if p.Shape(p.Previous.X, p.Process.Y, p.Process.Z) == grid.ShapeNone {
				p.Process.X = p.Previous.X
			}
			if p.Shape(p.Process.X, p.Process.Y, p.Previous.Z) != grid.ShapeNone &&
				p.Shape(p.Previous.X, p.Process.Y, p.Process.Z) != grid.ShapeNone {
				return false, nil
			}
		}
		a.Dynamic.Falling = false
	default:
		if a.Dynamic.Falling {
			if err := r.stopFalling(p); err != nil {
				return false, err
			}
		}
		p.Reajust(shape)
		a.Dynamic.Falling = false
	}

	if p.Cell.Y == -1 {
		logger.ForActor(p.Index).Debug("fell out of the map")
		a.Life = 0
	}
	return true, nil
}

// wallAhead probes the brick one layer up in front of the actor's leading
// corner.
func (r *Resolver) wallAhead(p *collision.Probe) bool {
	if !r.cfg.WallCollision {
		return false
	}
	bb := p.Actor.BoundingBox
	x, z := common.RotateXZ(bb.Min.X, bb.Min.Z, p.Actor.Angle+common.Angle360+common.Angle135)
	x += p.Process.X
	z += p.Process.Z
	if x < 0 || z < 0 || x > common.SceneSizeMax || z > common.SceneSizeMax {
		return false
	}
	shape, _ := r.env.Terrain.BrickShape(x, p.Process.Y+grid.BrickHeight, z)
	return shape != grid.ShapeNone
}

// hitWall knocks the hero back off a wall it ran into.
func (r *Resolver) hitWall(p *collision.Probe) error {
	a := p.Actor
	if r.env.Extras != nil {
		r.env.Extras.Special(a.Pos.Add(common.Vec3{Y: 1000}), SpecialHitStars)
	}
	if _, err := r.controller.SwitchAnimation(p.Index, actor.BigHit, actor.AnimOverlay, actor.Standing); err != nil {
		return err
	}
	a.Life--
	logger.ForActor(p.Index).WithField("life", a.Life).Debug("ran into a wall")
	return nil
}

// checkFall looks for ground below an actor over an empty brick and starts a
// fall when there is none.
func (r *Resolver) checkFall(p *collision.Probe) error {
	a := p.Actor
	if !a.Static.CanFall || a.StandOn != actor.NoActor {
		return nil
	}
	if below := p.Shape(p.Process.X, p.Process.Y-1, p.Process.Z); below != grid.ShapeNone {
		if a.Dynamic.Falling {
			if err := r.stopFalling(p); err != nil {
				return err
			}
		}
		p.Reajust(below)
		return nil
	}
	if a.Dynamic.RotationByAnim {
		return nil
	}
	a.Dynamic.Falling = true
	if p.Index == r.env.Hero && r.heroYBeforeFall == 0 {
		r.heroYBeforeFall = p.Process.Y
	}
	_, err := r.controller.SwitchAnimation(p.Index, actor.Fall, actor.AnimLoop, actor.AnimInvalid)
	return err
}

// stopFalling lands a falling actor. The hero's landing depends on how far it
// fell; other actors resume the animation they fell out of.
func (r *Resolver) stopFalling(p *collision.Probe) error {
	a := p.Actor
	var err error
	if p.Index == r.env.Hero {
		fall := r.heroYBeforeFall - p.Process.Y
		switch {
		case fall >= hurtFallHeight:
			if r.env.Extras != nil {
				r.env.Extras.Special(a.Pos.Add(common.Vec3{Y: 1000}), SpecialHitStars)
			}
			if fall >= deadFallHeight {
				a.Life = 0
				_, err = r.controller.SwitchAnimation(p.Index, actor.LandDeath, actor.AnimOverlay, actor.Standing)
			} else {
				a.Life--
				_, err = r.controller.SwitchAnimation(p.Index, actor.LandingHit, actor.AnimOverlay, actor.Standing)
			}
		case fall > softFallHeight:
			_, err = r.controller.SwitchAnimation(p.Index, actor.Landing, actor.AnimOverlay, actor.Standing)
		default:
			_, err = r.controller.SwitchAnimation(p.Index, actor.Standing, actor.AnimLoop, actor.Standing)
		}
		logger.ForActor(p.Index).WithFields(logrus.Fields{"fall": fall, "life": a.Life}).Debug("landed")
		r.heroYBeforeFall = 0
	} else {
		_, err = r.controller.SwitchAnimation(p.Index, a.AnimExtra, actor.AnimOverlay, a.AnimExtra)
	}
	a.Dynamic.Falling = false
	return err
}
