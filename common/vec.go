package common

// Vec3 is a world-space position or offset in fixed-point engine units.
type Vec3 struct {
	X, Y, Z int32
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Move is a linear value ramp from From to To over Steps ticks starting at Start.
type Move struct {
	From  int32
	To    int32
	Steps int32
	Start int32
}

// Set restarts the ramp at now.
func (m *Move) Set(from, to, steps, now int32) {
	m.From = from
	m.To = to
	m.Steps = steps
	m.Start = now
}

// RealValue returns the ramp value at now. Once the ramp completes it
// collapses to To.
func (m *Move) RealValue(now int32) int32 {
	if m.Steps == 0 {
		return m.To
	}
	elapsed := now - m.Start
	if elapsed >= m.Steps {
		m.Steps = 0
		return m.To
	}
	return (m.To-m.From)*elapsed/m.Steps + m.From
}
