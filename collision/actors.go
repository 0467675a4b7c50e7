package collision

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/grid"
)

// Actors is the index-addressed actor table.
type Actors interface {
	Get(index int) *actor.Actor
	Len() int
}

// HitHandler applies a landed attack.
type HitHandler interface {
	HitActor(attacker, victim int, strength, angle int32)
}

// Reach of an attack in front of the attacker.
const hitReach int32 = 200

// Push offsets applied to mini-grid pushables, in world units.
const (
	miniPushForward  = grid.BrickSize/4 + grid.BrickSize/8
	miniPushBackward = -grid.BrickSize/4 + grid.BrickSize/8
)

// footprint returns the XZ extent of a box as a cp.BB shrunk by a quarter
// unit per side, so that cp's inclusive Intersects matches strict integer
// overlap.
func footprint(min, max common.Vec3) cp.BB {
	return cp.BB{
		L: float64(min.X) + 0.25,
		B: float64(min.Z) + 0.25,
		R: float64(max.X) - 0.25,
		T: float64(max.Z) - 0.25,
	}
}

func overlaps(aMin, aMax, bMin, bMax common.Vec3) bool {
	if aMin.Y >= bMax.Y || aMax.Y <= bMin.Y {
		return false
	}
	return footprint(aMin, aMax).Intersects(footprint(bMin, bMax))
}

// StandingOn reports whether an actor at pos rests on top of other.
func StandingOn(a *actor.Actor, pos common.Vec3, other *actor.Actor) bool {
	min1 := pos.Add(a.BoundingBox.Min)
	max1 := pos.Add(a.BoundingBox.Max)
	min2 := other.Pos.Add(other.BoundingBox.Min)
	max2 := other.Pos.Add(other.BoundingBox.Max)

	if !footprint(min1, max1).Intersects(footprint(min2, max2)) {
		return false
	}
	if min1.Y > max2.Y+1 {
		return false
	}
	if min1.Y <= max2.Y-grid.BrickHeight {
		return false
	}
	if max1.Y <= min2.Y {
		return false
	}
	return true
}

// CheckActors resolves the probe's actor against every other actor: landing
// on carriers, pushing pushables, sliding out of square boxes and landing
// attacks. It records and returns the index collided with, or -1.
func (p *Probe) CheckActors(actors Actors, hits HitHandler) int {
	a := p.Actor
	a.Collision = actor.NoActor

	for i := 0; i < actors.Len(); i++ {
		other := actors.Get(i)
		if i == p.Index || other.Dormant() || a.Static.ComputeLowCollision || other.StandOn == p.Index {
			continue
		}
		min1 := p.Process.Add(a.BoundingBox.Min)
		max1 := p.Process.Add(a.BoundingBox.Max)
		minT := other.Pos.Add(other.BoundingBox.Min)
		maxT := other.Pos.Add(other.BoundingBox.Max)
		if !overlaps(min1, max1, minT, maxT) {
			continue
		}

		a.Collision = i
		if other.Static.IsCarrier && (a.Dynamic.Falling || StandingOn(a, p.Process, other)) {
			p.Process.Y = maxT.Y - a.BoundingBox.Min.Y + 1
			a.StandOn = i
			continue
		}
		p.pushAgainst(other, minT, maxT)
	}

	if a.Dynamic.Hitting {
		p.resolveHit(actors, hits)
	}
	return a.Collision
}

func (p *Probe) pushAgainst(other *actor.Actor, minT, maxT common.Vec3) {
	a := p.Actor
	angle := common.AngleTo(p.Process.X, p.Process.Z, other.Pos.X, other.Pos.Z)

	if other.Static.CanBePushed && !a.Static.CanBePushed {
		other.Push.Y = 0
		if other.Static.UseMiniZv {
			switch {
			case angle >= common.Angle45 && angle < common.Angle135 && a.Angle > common.Angle45 && a.Angle < common.Angle135:
				other.Push.X = miniPushForward
			case angle >= common.Angle135 && angle < common.Angle225 && a.Angle > common.Angle135 && a.Angle < common.Angle225:
				other.Push.Z = miniPushBackward
			case angle >= common.Angle225 && angle < common.Angle315 && a.Angle > common.Angle225 && a.Angle < common.Angle315:
				other.Push.X = miniPushBackward
			case (angle >= common.Angle315 || angle < common.Angle45) && (a.Angle > common.Angle315 || a.Angle < common.Angle45):
				other.Push.Z = miniPushForward
			}
		} else {
			other.Push.X = p.Process.X - a.CollisionPos.X
			other.Push.Z = p.Process.Z - a.CollisionPos.Z
		}
	}

	square := other.BoundingBox.Width() == other.BoundingBox.Depth() &&
		a.BoundingBox.Width() == a.BoundingBox.Depth()
	if !square {
		if !a.Dynamic.Falling {
			p.Process = p.Previous
		}
		return
	}
	switch {
	case angle >= common.Angle45 && angle < common.Angle135:
		p.Process.X = minT.X - a.BoundingBox.Max.X
	case angle >= common.Angle135 && angle < common.Angle225:
		p.Process.Z = maxT.Z - a.BoundingBox.Min.Z
	case angle >= common.Angle225 && angle < common.Angle315:
		p.Process.X = maxT.X - a.BoundingBox.Min.X
	default:
		p.Process.Z = minT.Z - a.BoundingBox.Max.Z
	}
}

func (p *Probe) resolveHit(actors Actors, hits HitHandler) {
	a := p.Actor
	dx, dz := common.RotateXZ(0, hitReach, a.Angle)
	reach := common.Vec3{X: dx, Z: dz}
	min1 := p.Process.Add(a.BoundingBox.Min).Add(reach)
	max1 := p.Process.Add(a.BoundingBox.Max).Add(reach)

	for i := 0; i < actors.Len(); i++ {
		other := actors.Get(i)
		if i == p.Index || other.Dormant() || other.Dead() {
			continue
		}
		minT := other.Pos.Add(other.BoundingBox.Min)
		maxT := other.Pos.Add(other.BoundingBox.Max)
		if !overlaps(min1, max1, minT, maxT) {
			continue
		}
		if hits != nil {
			hits.HitActor(p.Index, i, a.StrengthOfHit, common.ClampAngle(a.Angle+common.Angle180))
		}
		a.Dynamic.Hitting = false
	}
}
