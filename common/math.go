package common

import "math"

// Angles are expressed in engine units where a full turn is Angle360.
const (
	Angle0   int32 = 0
	Angle17  int32 = 17
	Angle45  int32 = 512
	Angle90  int32 = 1024
	Angle135 int32 = 1536
	Angle180 int32 = 2048
	Angle225 int32 = 2560
	Angle270 int32 = 3072
	Angle315 int32 = 3584
	Angle360 int32 = 4096
)

// SceneSizeMax is the largest valid world coordinate on the X and Z axes.
const SceneSizeMax int32 = 0x7E00

const trigShift = 14

var (
	sinTab [Angle360]int32
	cosTab [Angle360]int32
)

func init() {
	for i := range sinTab {
		r := float64(i) * 2 * math.Pi / float64(Angle360)
		sinTab[i] = int32(math.Round(math.Sin(r) * (1 << trigShift)))
		cosTab[i] = int32(math.Round(math.Cos(r) * (1 << trigShift)))
	}
}

// ClampAngle wraps a into [0, Angle360).
func ClampAngle(a int32) int32 {
	return a & (Angle360 - 1)
}

// Sin and Cos return the fixed-point (1<<14) sine and cosine of a.
func Sin(a int32) int32 { return sinTab[ClampAngle(a)] }
func Cos(a int32) int32 { return cosTab[ClampAngle(a)] }

// RotateXZ rotates the planar offset (x, z) by the yaw angle.
func RotateXZ(x, z, angle int32) (int32, int32) {
	s, c := int64(Sin(angle)), int64(Cos(angle))
	rx := (int64(x)*c + int64(z)*s) >> trigShift
	rz := (int64(z)*c - int64(x)*s) >> trigShift
	return int32(rx), int32(rz)
}

// AngleTo returns the yaw from (x1, z1) toward (x2, z2).
func AngleTo(x1, z1, x2, z2 int32) int32 {
	dx, dz := float64(x2-x1), float64(z2-z1)
	if dx == 0 && dz == 0 {
		return 0
	}
	a := math.Atan2(dx, dz) * float64(Angle360) / (2 * math.Pi)
	return ClampAngle(int32(math.Round(a)))
}

// PitchTo returns the vertical angle needed to cover dy over a planar distance.
func PitchTo(y1, y2, distance int32) int32 {
	if distance == 0 && y1 == y2 {
		return 0
	}
	a := math.Atan2(float64(y2-y1), float64(distance)) * float64(Angle360) / (2 * math.Pi)
	return ClampAngle(int32(math.Round(a)))
}

// DistanceXZ is the planar distance between two points.
func DistanceXZ(x1, z1, x2, z2 int32) int32 {
	dx, dz := float64(x2-x1), float64(z2-z1)
	return int32(math.Sqrt(dx*dx + dz*dz))
}

// AverageValue interpolates from start to end as delay runs over [0, maxDelay].
func AverageValue(start, end, maxDelay, delay int32) int32 {
	if delay <= 0 {
		return start
	}
	if delay >= maxDelay {
		return end
	}
	return (end-start)*delay/maxDelay + start
}

func ClampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
