package system

import (
	"errors"
	"reflect"
	"testing"
)

func TestSchedulerRunsSystemsPerActor(t *testing.T) {
	var calls []string
	record := func(name string) System {
		return SystemFunc(func(index int) error {
			calls = append(calls, name+string(rune('0'+index)))
			return nil
		})
	}
	s := NewScheduler(record("a"), record("b"))
	s.Add(nil)
	s.Add(record("c"))

	if err := s.Update(2); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []string{"a0", "b0", "c0", "a1", "b1", "c1"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	if got := len(s.Systems()); got != 3 {
		t.Fatalf("systems = %d, want 3", got)
	}
}

func TestSchedulerStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var ran []int
	s := NewScheduler(
		SystemFunc(func(index int) error {
			if index == 1 {
				return boom
			}
			return nil
		}),
		SystemFunc(func(index int) error {
			ran = append(ran, index)
			return nil
		}),
	)

	if err := s.Update(3); !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want boom", err)
	}
	if !reflect.DeepEqual(ran, []int{0}) {
		t.Fatalf("ran = %v, want [0]", ran)
	}
}
