package anim

// Pose is the live per-bone state of a skeletal model.
type Pose []BoneFrame

func NewPose(bones int) Pose {
	if bones < 0 {
		bones = 0
	}
	return make(Pose, bones)
}

func (p Pose) Clone() Pose {
	return append(Pose(nil), p...)
}

// Handle addresses a pose stashed in a PoseArena.
type Handle struct {
	slot int
	gen  uint32
}

type arenaSlot struct {
	gen  uint32
	pose Pose
}

// PoseArena is a bounded ring of pose snapshots. Stashing into a full arena
// overwrites the oldest slot, after which handles to it no longer resolve.
type PoseArena struct {
	slots []arenaSlot
	next  int
	wraps int
}

const DefaultArenaSlots = 20

func NewPoseArena(slots int) *PoseArena {
	if slots <= 0 {
		slots = DefaultArenaSlots
	}
	return &PoseArena{slots: make([]arenaSlot, slots)}
}

// Stash copies pose into the next slot and returns its handle.
func (a *PoseArena) Stash(pose Pose) Handle {
	s := &a.slots[a.next]
	s.gen++
	s.pose = append(s.pose[:0], pose...)
	h := Handle{slot: a.next, gen: s.gen}
	a.next++
	if a.next == len(a.slots) {
		a.next = 0
		a.wraps++
	}
	return h
}

// Get returns the stashed bones for h, or false once the slot has been reused.
func (a *PoseArena) Get(h Handle) ([]BoneFrame, bool) {
	if a == nil || h.slot < 0 || h.slot >= len(a.slots) || h.gen == 0 {
		return nil, false
	}
	s := &a.slots[h.slot]
	if s.gen != h.gen {
		return nil, false
	}
	return s.pose, true
}

func (a *PoseArena) Len() int { return len(a.slots) }

// Wraps counts how many times the arena has cycled.
func (a *PoseArena) Wraps() int { return a.wraps }

// RefKind tells what a PoseRef points at.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefKeyframe
	RefArena
)

// PoseRef is the optional "last pose" an actor blends from: a keyframe of a
// loaded animation or a snapshot in the arena.
type PoseRef struct {
	Kind     RefKind
	Anim     int
	Keyframe int
	Handle   Handle
}

func KeyframeRef(animIndex, keyframe int) PoseRef {
	return PoseRef{Kind: RefKeyframe, Anim: animIndex, Keyframe: keyframe}
}

func ArenaRef(h Handle) PoseRef {
	return PoseRef{Kind: RefArena, Handle: h}
}

func (r PoseRef) Valid() bool { return r.Kind != RefNone }
