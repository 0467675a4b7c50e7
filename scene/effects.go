package scene

import (
	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/common"
	"github.com/milk9111/actorsim/logger"
	"github.com/milk9111/actorsim/system"
	"github.com/sirupsen/logrus"
)

type EventKind uint8

const (
	EventSample EventKind = iota
	EventSampleStop
	EventThrow
	EventThrowAimed
	EventMagicBall
	EventSpecial
	EventHit
)

var eventNames = []string{"sample", "sample_stop", "throw", "throw_aimed", "magic_ball", "special", "hit"}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is one side effect raised during a tick.
type Event struct {
	Tick  int32
	Kind  EventKind
	Actor int
	// Target is the victim of a hit or the target of an aimed throw.
	Target int
	Pos    common.Vec3
	// Value is the sample, sprite, strength or special kind, per Kind.
	Value int32
}

const defaultEventCapacity = 256

// EffectLog records the sound, projectile and hit requests of a scene in a
// bounded ring and applies hits to their victims.
type EffectLog struct {
	clock      *system.Clock
	events     []Event
	next       int
	full       bool
	controller *system.Controller
	actors     *actor.Table
	game       *gameState
}

func newEffectLog(clock *system.Clock, capacity int) *EffectLog {
	if capacity <= 0 {
		capacity = defaultEventCapacity
	}
	return &EffectLog{clock: clock, events: make([]Event, capacity)}
}

func (l *EffectLog) record(e Event) {
	e.Tick = l.clock.Now()
	l.events[l.next] = e
	l.next++
	if l.next == len(l.events) {
		l.next = 0
		l.full = true
	}
	logger.Log.WithFields(logrus.Fields{
		"tick":  e.Tick,
		"event": e.Kind.String(),
		"actor": e.Actor,
		"value": e.Value,
	}).Debug("effect")
}

// Events returns the recorded events, oldest first.
func (l *EffectLog) Events() []Event {
	if !l.full {
		return append([]Event(nil), l.events[:l.next]...)
	}
	out := make([]Event, 0, len(l.events))
	out = append(out, l.events[l.next:]...)
	return append(out, l.events[:l.next]...)
}

func (l *EffectLog) Reset() {
	l.next = 0
	l.full = false
}

func (l *EffectLog) PlaySample(sample, repeat int32, pos common.Vec3, actorIndex int) {
	l.record(Event{Kind: EventSample, Actor: actorIndex, Target: -1, Pos: pos, Value: sample})
}

func (l *EffectLog) StopSample(sample int32) {
	l.record(Event{Kind: EventSampleStop, Actor: -1, Target: -1, Value: sample})
}

func (l *EffectLog) Throw(actorIndex int, pos common.Vec3, sprite, xAngle, yAngle, xRotPoint, extraAngle, strength int32) {
	l.record(Event{Kind: EventThrow, Actor: actorIndex, Target: -1, Pos: pos, Value: sprite})
}

func (l *EffectLog) ThrowAimed(actorIndex int, pos common.Vec3, sprite int32, target int, finalAngle, strength int32) {
	l.record(Event{Kind: EventThrowAimed, Actor: actorIndex, Target: target, Pos: pos, Value: sprite})
}

func (l *EffectLog) ThrowMagicBall(pos common.Vec3, xAngle, yAngle, xRotPoint, extraAngle int32) {
	if l.game != nil {
		l.game.launchBall(l.clock.Now())
	}
	l.record(Event{Kind: EventMagicBall, Actor: -1, Target: -1, Pos: pos})
}

func (l *EffectLog) Special(pos common.Vec3, kind system.SpecialKind) {
	l.record(Event{Kind: EventSpecial, Actor: -1, Target: -1, Pos: pos, Value: int32(kind)})
}

// HitActor takes strength off the victim's life and turns it to face the
// blow with a hit animation.
func (l *EffectLog) HitActor(attacker, victim int, strength, angle int32) {
	l.record(Event{Kind: EventHit, Actor: attacker, Target: victim, Value: strength})
	if l.actors == nil {
		return
	}
	v := l.actors.Get(victim)
	if v.Dormant() || v.Dead() {
		return
	}
	v.Life = max(v.Life-strength, 0)
	v.Angle = common.ClampAngle(angle)

	if l.controller == nil {
		return
	}
	hit := actor.Hit
	if v.Dead() {
		hit = actor.BigHit
	}
	if _, err := l.controller.SwitchAnimation(victim, hit, actor.AnimInterruptResume, actor.Standing); err != nil {
		logger.ForActor(victim).WithError(err).Warn("hit animation failed")
	}
}
