package system

import (
	"fmt"
	"strings"

	"github.com/milk9111/actorsim/actor"
	"github.com/milk9111/actorsim/collision"
	"github.com/milk9111/actorsim/common"
)

// Audio plays samples. Calls are fire-and-forget.
type Audio interface {
	PlaySample(sample, repeat int32, pos common.Vec3, actorIndex int)
	StopSample(sample int32)
}

// Extras spawns projectiles and visual effects.
type Extras interface {
	Throw(actorIndex int, pos common.Vec3, sprite, xAngle, yAngle, xRotPoint, extraAngle, strength int32)
	ThrowAimed(actorIndex int, pos common.Vec3, sprite int32, target int, finalAngle, strength int32)
	ThrowMagicBall(pos common.Vec3, xAngle, yAngle, xRotPoint, extraAngle int32)
	Special(pos common.Vec3, kind SpecialKind)
}

// GameState exposes the hero-wide state that actions and collisions read.
type GameState interface {
	MagicBallActive() bool
	MagicLevel() int
	HeroBehaviour() HeroBehaviour
}

// Terrain is the brick map as seen by the tick resolver.
type Terrain interface {
	collision.Terrain
	BrickSound(x, y, z int32) int32
}

// Env bundles the collaborators shared by the per-actor systems.
type Env struct {
	Actors  *actor.Table
	Terrain Terrain
	Audio   Audio
	Extras  Extras
	Game    GameState
	Hits    collision.HitHandler
	// Hero is the index of the player-controlled actor.
	Hero int
}

func (e *Env) hero() *actor.Actor {
	return e.Actors.Get(e.Hero)
}

type SpecialKind uint8

const (
	SpecialHitStars SpecialKind = iota
	SpecialExplodeCloud
)

func (k SpecialKind) String() string {
	switch k {
	case SpecialHitStars:
		return "hit_stars"
	case SpecialExplodeCloud:
		return "explode_cloud"
	}
	return "unknown"
}

type HeroBehaviour uint8

const (
	BehaviourNormal HeroBehaviour = iota
	BehaviourAthletic
	BehaviourAggressive
	BehaviourDiscreet
	BehaviourProtopack
)

var behaviourNames = []string{"normal", "athletic", "aggressive", "discreet", "protopack"}

func (b HeroBehaviour) String() string {
	if int(b) < len(behaviourNames) {
		return behaviourNames[b]
	}
	return fmt.Sprintf("behaviour(%d)", uint8(b))
}

func ParseHeroBehaviour(name string) (HeroBehaviour, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return BehaviourNormal, nil
	}
	for i, s := range behaviourNames {
		if s == n {
			return HeroBehaviour(i), nil
		}
	}
	return BehaviourNormal, fmt.Errorf("system: unknown hero behaviour %q", name)
}

// SampleWalkFloorBegin is the first footstep sample; a brick's sound nibble
// selects the one played.
const SampleWalkFloorBegin int32 = 126

// Hit strength of the hero's attacks per magic level.
const (
	NoBallStrength     int32 = 2
	YellowBallStrength int32 = 3
	GreenBallStrength  int32 = 4
	RedBallStrength    int32 = 6
	FireBallStrength   int32 = 8
)

var magicLevelStrength = [...]int32{
	NoBallStrength,
	YellowBallStrength,
	GreenBallStrength,
	RedBallStrength,
	FireBallStrength,
	0,
}

// MagicLevelStrength returns the hero's hit strength at a magic level.
func MagicLevelStrength(level int) int32 {
	if level < 0 || level >= len(magicLevelStrength) {
		return 0
	}
	return magicLevelStrength[level]
}

// Clock is the engine's tick counter.
type Clock struct {
	now  int32
	step int32
}

func NewClock(step int32) *Clock {
	if step <= 0 {
		step = 1
	}
	return &Clock{step: step}
}

func (c *Clock) Now() int32 { return c.now }

// Advance moves the clock one step forward and returns the new time.
func (c *Clock) Advance() int32 {
	c.now += c.step
	return c.now
}

// Set jumps the clock to t.
func (c *Clock) Set(t int32) { c.now = t }

func (c *Clock) Step() int32 { return c.step }
