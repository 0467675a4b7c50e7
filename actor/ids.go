package actor

import (
	"fmt"
	"strings"
)

// AnimationID names a gameplay animation slot. Entities map slots to
// concrete animation indices.
type AnimationID int16

const (
	AnimNone    AnimationID = -1
	Standing    AnimationID = 0
	Forward     AnimationID = 1
	Backward    AnimationID = 2
	TurnLeft    AnimationID = 3
	TurnRight   AnimationID = 4
	Hit         AnimationID = 5
	BigHit      AnimationID = 6
	Fall        AnimationID = 7
	Landing     AnimationID = 8
	LandingHit  AnimationID = 9
	LandDeath   AnimationID = 10
	Action      AnimationID = 11
	ClimbLadder AnimationID = 12
	TopLadder   AnimationID = 13
	Jump        AnimationID = 14
	ThrowBall   AnimationID = 15
	Hide        AnimationID = 16
	Kick        AnimationID = 17
	RightPunch  AnimationID = 18
	LeftPunch   AnimationID = 19
	FoundItem   AnimationID = 20
	Drawn       AnimationID = 21
	Hit2        AnimationID = 22
	SabreAttack AnimationID = 23
	AnimInvalid AnimationID = 255
)

var animationNames = map[AnimationID]string{
	Standing:    "standing",
	Forward:     "forward",
	Backward:    "backward",
	TurnLeft:    "turn_left",
	TurnRight:   "turn_right",
	Hit:         "hit",
	BigHit:      "big_hit",
	Fall:        "fall",
	Landing:     "landing",
	LandingHit:  "landing_hit",
	LandDeath:   "land_death",
	Action:      "action",
	ClimbLadder: "climb_ladder",
	TopLadder:   "top_ladder",
	Jump:        "jump",
	ThrowBall:   "throw_ball",
	Hide:        "hide",
	Kick:        "kick",
	RightPunch:  "right_punch",
	LeftPunch:   "left_punch",
	FoundItem:   "found_item",
	Drawn:       "drawn",
	Hit2:        "hit2",
	SabreAttack: "sabre_attack",
}

func (id AnimationID) String() string {
	switch id {
	case AnimNone:
		return "none"
	case AnimInvalid:
		return "invalid"
	}
	if name, ok := animationNames[id]; ok {
		return name
	}
	return fmt.Sprintf("anim(%d)", int16(id))
}

// ParseAnimationID accepts the snake_case names used in entity specs.
func ParseAnimationID(name string) (AnimationID, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for id, s := range animationNames {
		if s == n {
			return id, nil
		}
	}
	switch n {
	case "none":
		return AnimNone, nil
	case "invalid":
		return AnimInvalid, nil
	}
	return AnimNone, fmt.Errorf("actor: unknown animation %q", name)
}

// AnimType controls what happens when an animation reaches its last frame.
type AnimType int16

const (
	// AnimLoop restarts at the animation's loop frame.
	AnimLoop AnimType = 0
	// AnimOnce falls through to AnimExtra.
	AnimOnce AnimType = 1
	// AnimOverlay plays once over the current animation; other requests are
	// deferred into AnimExtra until it ends.
	AnimOverlay AnimType = 2
	// AnimInterruptResume becomes an overlay that resumes the current animation.
	AnimInterruptResume AnimType = 3
	// AnimOverlayForced becomes an overlay even while another overlay runs.
	AnimOverlayForced AnimType = 4
)

func ParseAnimType(name string) (AnimType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "loop":
		return AnimLoop, nil
	case "once":
		return AnimOnce, nil
	case "overlay":
		return AnimOverlay, nil
	case "interrupt", "interrupt_resume":
		return AnimInterruptResume, nil
	case "overlay_forced", "forced":
		return AnimOverlayForced, nil
	}
	return AnimLoop, fmt.Errorf("actor: unknown animation type %q", name)
}

// AnimState is the controller's view of an actor's animation.
type AnimState uint8

const (
	NoAnimation AnimState = iota
	TransitionPending
	Interpolating
	FrameAdvanced
)

func (s AnimState) String() string {
	switch s {
	case NoAnimation:
		return "no_animation"
	case TransitionPending:
		return "transition_pending"
	case Interpolating:
		return "interpolating"
	case FrameAdvanced:
		return "frame_advanced"
	}
	return "unknown"
}
