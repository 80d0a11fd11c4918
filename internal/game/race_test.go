package game

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
)

// TestRaceTickAdvancesSessions verifies the fixed-step clock and that
// every driver session records one frame per tick.
func TestRaceTickAdvancesSessions(t *testing.T) {
	r := newRace("r1", DefaultTuning(), nil, zerolog.Nop())
	r.Mu.Lock()
	d := r.AddDriverLocked("ada")
	r.Mu.Unlock()
	if d == nil {
		t.Fatal("could not add a driver to an empty race")
	}

	for i := 0; i < 10; i++ {
		r.Tick()
	}
	if math.Abs(r.Now-10*Dt) > 1e-12 {
		t.Errorf("race clock %.6f after 10 ticks, want %.6f", r.Now, 10*Dt)
	}
	if d.Session.Recorder.Len() != 10 {
		t.Errorf("session recorded %d frames in 10 ticks, want 10", d.Session.Recorder.Len())
	}
}

// TestRaceGridSlots verifies capacity and that freed slots are reused.
func TestRaceGridSlots(t *testing.T) {
	r := newRace("r2", DefaultTuning(), nil, zerolog.Nop())
	r.Mu.Lock()
	defer r.Mu.Unlock()

	var drivers []*Driver
	for i := 0; i < RaceMaxDrivers; i++ {
		d := r.AddDriverLocked("d")
		if d == nil {
			t.Fatalf("driver %d rejected below capacity", i)
		}
		drivers = append(drivers, d)
	}
	if extra := r.AddDriverLocked("late"); extra != nil {
		t.Error("driver accepted past capacity")
	}

	seen := map[int]bool{}
	for _, d := range drivers {
		if seen[d.Slot] {
			t.Errorf("slot %d handed out twice", d.Slot)
		}
		seen[d.Slot] = true
	}

	r.RemoveDriverLocked(drivers[1].ID)
	replacement := r.AddDriverLocked("sub")
	if replacement == nil {
		t.Fatal("driver rejected after a slot freed up")
	}
	if replacement.Slot != drivers[1].Slot {
		t.Errorf("replacement got slot %d, want freed slot %d", replacement.Slot, drivers[1].Slot)
	}
}

// TestHubGetRaceReturnsSameInstance verifies lazy creation hands back
// one race per id.
func TestHubGetRaceReturnsSameInstance(t *testing.T) {
	h, err := NewHub(DefaultTuning(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	a := h.GetRace("alpha")
	defer a.Stop()
	b := h.GetRace("beta")
	defer b.Stop()

	if a == b {
		t.Error("different ids produced the same race")
	}
	if again := h.GetRace("alpha"); again != a {
		t.Error("same id produced a different race instance")
	}
}

// TestHubCleanupEmptyRaces verifies only races without drivers are
// stopped and dropped.
func TestHubCleanupEmptyRaces(t *testing.T) {
	h, err := NewHub(DefaultTuning(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	empty := h.GetRace("empty")
	busy := h.GetRace("busy")
	defer busy.Stop()

	busy.Mu.Lock()
	busy.AddDriverLocked("driver")
	busy.Mu.Unlock()

	h.CleanupEmptyRaces()

	h.Mu.Lock()
	_, emptyKept := h.Races["empty"]
	_, busyKept := h.Races["busy"]
	h.Mu.Unlock()
	if emptyKept {
		t.Error("empty race survived cleanup")
	}
	if !busyKept {
		t.Error("busy race removed by cleanup")
	}
	_ = empty
}

// TestRandIdFormat verifies the id helper keeps its prefix-dash-suffix
// shape.
func TestRandIdFormat(t *testing.T) {
	id := RandId("race")
	if len(id) != len("race")+1+6 {
		t.Errorf("id %q has unexpected length", id)
	}
	if id[:5] != "race-" {
		t.Errorf("id %q missing prefix", id)
	}
}
