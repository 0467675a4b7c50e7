package anim

import "testing"

func TestPoseArena(t *testing.T) {
	arena := NewPoseArena(2)
	p1 := Pose{{Mode: 1, X: 1}}
	p2 := Pose{{Mode: 1, X: 2}}
	p3 := Pose{{Mode: 1, X: 3}}

	h1 := arena.Stash(p1)
	p1[0].X = 99
	got, ok := arena.Get(h1)
	if !ok || got[0].X != 1 {
		t.Fatalf("stash must copy the pose, got (%+v,%v)", got, ok)
	}

	h2 := arena.Stash(p2)
	h3 := arena.Stash(p3)
	if arena.Wraps() != 1 {
		t.Fatalf("Wraps = %d, want 1", arena.Wraps())
	}
	if _, ok := arena.Get(h1); ok {
		t.Fatalf("overwritten slot must not resolve")
	}
	if got, ok := arena.Get(h2); !ok || got[0].X != 2 {
		t.Fatalf("h2 = (%+v,%v)", got, ok)
	}
	if got, ok := arena.Get(h3); !ok || got[0].X != 3 {
		t.Fatalf("h3 = (%+v,%v)", got, ok)
	}
	if _, ok := arena.Get(Handle{}); ok {
		t.Fatalf("zero handle must not resolve")
	}
	if _, ok := arena.Get(Handle{slot: 9, gen: 1}); ok {
		t.Fatalf("out of range handle must not resolve")
	}
}

func TestNewPoseArenaDefault(t *testing.T) {
	if got := NewPoseArena(0).Len(); got != DefaultArenaSlots {
		t.Fatalf("Len = %d, want %d", got, DefaultArenaSlots)
	}
}
