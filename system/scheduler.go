package system

// System is one stage of an actor's tick.
type System interface {
	Update(index int) error
}

// SystemFunc adapts a function to System.
type SystemFunc func(index int) error

func (f SystemFunc) Update(index int) error { return f(index) }

// Scheduler runs every system for actor 0, then every system for actor 1,
// and so on, so later actors observe the committed state of earlier ones.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs one tick over actors [0, count). The first error stops the
// tick.
func (s *Scheduler) Update(count int) error {
	for i := range count {
		for _, system := range s.systems {
			if err := system.Update(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
