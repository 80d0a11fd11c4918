package server

import (
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	. "NitroRally/internal/game"
)

// TestParseCrashOverrides verifies query values map onto the override
// struct and junk values are ignored.
func TestParseCrashOverrides(t *testing.T) {
	values := url.Values{}
	values.Set("crashMin", "4000")
	values.Set("crashGrace", "1.5")
	values.Set("crashMajor", "abc")

	ov, found := parseCrashOverrides(values)
	if !found {
		t.Fatal("overrides not detected")
	}
	if ov.MinImpactN == nil || *ov.MinImpactN != 4000 {
		t.Errorf("crashMin = %v, want 4000", ov.MinImpactN)
	}
	if ov.GraceS == nil || *ov.GraceS != 1.5 {
		t.Errorf("crashGrace = %v, want 1.5", ov.GraceS)
	}
	if ov.MajorN != nil {
		t.Errorf("unparseable crashMajor produced %v, want nil", *ov.MajorN)
	}
	if ov.CatastrophicN != nil {
		t.Errorf("absent crashCat produced %v, want nil", *ov.CatastrophicN)
	}
}

// TestParseCrashOverridesEmpty verifies a bare query reports nothing found.
func TestParseCrashOverridesEmpty(t *testing.T) {
	if _, found := parseCrashOverrides(url.Values{}); found {
		t.Error("empty query reported overrides")
	}
}

// TestParseReplayOverrides verifies the replay window query keys.
func TestParseReplayOverrides(t *testing.T) {
	values := url.Values{}
	values.Set("replayLookback", "4")
	values.Set("replayMax", "oops")

	ov, found := parseReplayOverrides(values)
	if !found {
		t.Fatal("overrides not detected")
	}
	if ov.LookbackS == nil || *ov.LookbackS != 4 {
		t.Errorf("replayLookback = %v, want 4", ov.LookbackS)
	}
	if ov.MaxS != nil {
		t.Errorf("unparseable replayMax produced %v, want nil", *ov.MaxS)
	}
	if ov.KeepS != nil {
		t.Errorf("absent replayKeep produced %v, want nil", *ov.KeepS)
	}
}

func newTestDriver() (*Driver, float64) {
	s := NewSession(DefaultTuning(), 0, DefaultTrack(), nil, zerolog.Nop(), 0)
	d := &Driver{ID: "drv-test01", Name: "Ayrton", Slot: 0, Session: s}

	// Idle past the detector's grace window so a staged impact registers.
	now := 0.0
	for i := 0; i < 42; i++ {
		now += Dt
		s.Advance(now, Dt)
	}
	return d, now
}

// TestStateDTOsWhilePlaying verifies the wire shapes for a quiet session:
// vehicle snapshot, chase camera, and no replay or crash payloads.
func TestStateDTOsWhilePlaying(t *testing.T) {
	d, _ := newTestDriver()
	s := d.Session

	me := vehicleToDTO(d, true)
	if !me.Self {
		t.Error("self flag not set")
	}
	if me.State != "playing" {
		t.Errorf("state %q, want playing", me.State)
	}
	if me.X != s.Vehicle.Pos.X || me.Z != s.Vehicle.Pos.Z {
		t.Errorf("position (%.2f, %.2f), want (%.2f, %.2f)", me.X, me.Z, s.Vehicle.Pos.X, s.Vehicle.Pos.Z)
	}
	if !me.Grounded {
		t.Error("idle vehicle not grounded")
	}

	other := vehicleToDTO(d, false)
	if other.Self {
		t.Error("self flag set on another driver's snapshot")
	}

	cam := cameraToDTO(s)
	if cam.Y <= 0 {
		t.Errorf("chase camera height %.2f, want above ground", cam.Y)
	}
	if cam.Shake != 0 {
		t.Errorf("quiet session shake %.2f, want 0", cam.Shake)
	}

	if replayToDTO(s) != nil {
		t.Error("replay payload present while playing")
	}
	if crashToDTO(s) != nil {
		t.Error("crash payload present before any crash")
	}
}

// TestStateDTOsAfterCrash verifies a staged impact flips the session into
// replay and the optional payloads appear with sensible values.
func TestStateDTOsAfterCrash(t *testing.T) {
	d, now := newTestDriver()
	s := d.Session

	// A sudden velocity change far beyond anything the drivetrain can
	// command reads as a catastrophic impact on the next tick.
	s.Vehicle.Vel = Vec3{X: 50}
	now += Dt
	s.Advance(now, Dt)

	if !s.InCrashReplay() {
		t.Fatalf("session state %v after staged impact, want replay", s.State)
	}

	r := replayToDTO(s)
	if r == nil {
		t.Fatal("replay payload missing during replay")
	}
	if r.Duration <= 0 {
		t.Errorf("replay duration %.2f, want positive", r.Duration)
	}
	if r.Progress < 0 || r.Progress > 1 {
		t.Errorf("replay progress %.2f outside [0, 1]", r.Progress)
	}
	if r.Remaining <= 0 {
		t.Errorf("replay remaining %.2f, want positive", r.Remaining)
	}

	c := crashToDTO(s)
	if c == nil {
		t.Fatal("crash payload missing after crash")
	}
	if c.Severity != "catastrophic" {
		t.Errorf("severity %q, want catastrophic", c.Severity)
	}
	if c.Force <= CrashCatastropheN {
		t.Errorf("force %.0f, want above %.0f", c.Force, CrashCatastropheN)
	}

	if got := vehicleToDTO(d, true).State; got != "replay" {
		t.Errorf("vehicle state %q, want replay", got)
	}
}
