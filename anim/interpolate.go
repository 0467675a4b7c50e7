package anim

import (
	"fmt"

	"github.com/milk9111/actorsim/common"
)

// UnsupportedModeError reports a bone record whose mode is neither rotation
// nor translation. It means the animation data does not match the engine.
type UnsupportedModeError struct {
	Bone int
	Mode BoneMode
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("anim: unsupported bone mode %d on bone %d", e.Mode, e.Bone)
}

// InterpolateAngle blends two angles along the shorter arc.
func InterpolateAngle(last, next int16, dt, length int32) int16 {
	l := common.ClampAngle(int32(last))
	n := common.ClampAngle(int32(next))
	diff := n - l
	if diff == 0 || length <= 0 {
		return int16(l)
	}
	if diff < -common.Angle180 {
		diff += common.Angle360
	} else if diff > common.Angle180 {
		diff -= common.Angle360
	}
	return int16(common.ClampAngle(l + diff*dt/length))
}

// InterpolatePosition moves from last toward next. The distance is taken in
// int16 and wraps when the two ends are more than 32767 apart.
func InterpolatePosition(last, next int16, dt, length int32) int16 {
	distance := int32(next - last)
	if distance == 0 || length <= 0 {
		return last
	}
	return int16(int32(last) + distance*dt/length)
}

// Step is the root motion of one keyframe scaled to the elapsed time.
type Step struct {
	X, Y, Z        int32
	Rotation       int32
	RotationByAnim bool
}

// RootStep scales the keyframe's root translation and yaw by dt/Length. The
// second result reports whether the keyframe boundary has been reached.
func RootStep(kf *Keyframe, dt int32) (Step, bool) {
	s := Step{X: int32(kf.X), Y: int32(kf.Y), Z: int32(kf.Z)}
	if len(kf.Bones) > 0 {
		s.RotationByAnim = kf.Bones[0].Mode != 0
		s.Rotation = int32(kf.Bones[0].Y)
	}
	if dt >= kf.Length || kf.Length <= 0 {
		return s, true
	}
	s.Rotation = s.Rotation * dt / kf.Length
	s.X = s.X * dt / kf.Length
	s.Y = s.Y * dt / kf.Length
	s.Z = s.Z * dt / kf.Length
	return s, false
}

// Blend writes into pose the target keyframe blended from last by dt. When dt
// reaches the keyframe length the target bones are committed verbatim and
// Blend reports true. Only bones from 1 onward are blended; bone 0 carries
// root motion which RootStep handles. A nil last blends from target itself.
func Blend(pose Pose, target *Keyframe, last []BoneFrame, dt int32) (bool, error) {
	n := min(len(pose), len(target.Bones))
	if dt >= target.Length || target.Length <= 0 {
		copy(pose[:n], target.Bones[:n])
		return true, nil
	}
	if last == nil {
		last = target.Bones
	}
	for i := 1; i < n; i++ {
		next := target.Bones[i]
		prev := next
		if i < len(last) {
			prev = last[i]
		}
		pose[i].Mode = next.Mode
		switch next.Mode {
		case BoneRotate:
			pose[i].X = InterpolateAngle(prev.X, next.X, dt, target.Length)
			pose[i].Y = InterpolateAngle(prev.Y, next.Y, dt, target.Length)
			pose[i].Z = InterpolateAngle(prev.Z, next.Z, dt, target.Length)
		case BoneTranslate, BoneTranslateHidden:
			pose[i].X = InterpolatePosition(prev.X, next.X, dt, target.Length)
			pose[i].Y = InterpolatePosition(prev.Y, next.Y, dt, target.Length)
			pose[i].Z = InterpolatePosition(prev.Z, next.Z, dt, target.Length)
		default:
			return false, &UnsupportedModeError{Bone: i, Mode: next.Mode}
		}
	}
	return false, nil
}

// Snap commits target into pose without blending.
func Snap(pose Pose, target *Keyframe) {
	n := min(len(pose), len(target.Bones))
	copy(pose[:n], target.Bones[:n])
}
