package entity

// Action is a gameplay event fired when an animation reaches a frame. The
// set of kinds is closed; see the concrete types below.
type Action interface {
	// TriggerFrame is the animation frame the action is authored on.
	TriggerFrame() int
	isAction()
}

// At records the frame an action is authored on.
type At struct {
	Frame int
}

func (a At) TriggerFrame() int { return a.Frame }
func (At) isAction()           {}

// HitAction arms the actor's attack one frame before its authored frame.
type HitAction struct {
	At
	Strength int32 `yaml:"strength"`
}

// HeroHitAction is HitAction with strength taken from the hero's magic level.
type HeroHitAction struct {
	At
}

type SampleAction struct {
	At
	Sample    int32 `yaml:"sample"`
	Frequency int32 `yaml:"frequency"`
}

type SampleRepeatAction struct {
	At
	Sample int32 `yaml:"sample"`
	Repeat int32 `yaml:"repeat"`
}

type SampleStopAction struct {
	At
	Sample int32 `yaml:"sample"`
}

// StepAction plays the footstep sound of the brick under the actor.
type StepAction struct {
	At
	Right bool
}

// ThrowAction spawns a projectile above the actor. With Alpha the yaw is
// relative to the actor's facing.
type ThrowAction struct {
	At
	Alpha      bool
	YHeight    int32 `yaml:"y_height"`
	Sprite     int32 `yaml:"sprite"`
	XAngle     int32 `yaml:"x_angle"`
	YAngle     int32 `yaml:"y_angle"`
	XRotPoint  int32 `yaml:"x_rot_point"`
	ExtraAngle int32 `yaml:"extra_angle"`
	Strength   int32 `yaml:"strength"`
}

type ThrowMagicBallAction struct {
	At
	YHeight    int32 `yaml:"y_height"`
	XAngle     int32 `yaml:"x_angle"`
	YAngle     int32 `yaml:"y_angle"`
	XRotPoint  int32 `yaml:"x_rot_point"`
	ExtraAngle int32 `yaml:"extra_angle"`
}

// ThrowSearchAction spawns a projectile homing on TargetActor.
type ThrowSearchAction struct {
	At
	YHeight     int32 `yaml:"y_height"`
	Sprite      int32 `yaml:"sprite"`
	TargetActor int   `yaml:"target"`
	FinalAngle  int32 `yaml:"final_angle"`
	Strength    int32 `yaml:"strength"`
}

// Throw3DAction spawns a projectile from an offset rotated by the actor's
// facing. With Alpha it is pitched toward the hero.
type Throw3DAction struct {
	At
	Alpha      bool
	DistanceX  int32 `yaml:"dx"`
	DistanceY  int32 `yaml:"dy"`
	DistanceZ  int32 `yaml:"dz"`
	Sprite     int32 `yaml:"sprite"`
	XAngle     int32 `yaml:"x_angle"`
	YAngle     int32 `yaml:"y_angle"`
	XRotPoint  int32 `yaml:"x_rot_point"`
	ExtraAngle int32 `yaml:"extra_angle"`
	Strength   int32 `yaml:"strength"`
}

type Throw3DSearchAction struct {
	At
	DistanceX   int32 `yaml:"dx"`
	DistanceY   int32 `yaml:"dy"`
	DistanceZ   int32 `yaml:"dz"`
	Sprite      int32 `yaml:"sprite"`
	TargetActor int   `yaml:"target"`
	FinalAngle  int32 `yaml:"final_angle"`
	Strength    int32 `yaml:"strength"`
}

type Throw3DMagicBallAction struct {
	At
	DistanceX  int32 `yaml:"dx"`
	DistanceY  int32 `yaml:"dy"`
	DistanceZ  int32 `yaml:"dz"`
	XAngle     int32 `yaml:"x_angle"`
	YAngle     int32 `yaml:"y_angle"`
	FinalAngle int32 `yaml:"final_angle"`
}

// ReservedAction carries opcodes the engine knows about but ignores.
type ReservedAction struct {
	At
	Type string
}
