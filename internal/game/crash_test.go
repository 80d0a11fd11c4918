package game

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
)

// testDetector builds a detector with a listener that records every
// emission. The returned clock starts past the grace window with the
// detector already primed at rest.
func testDetector(t *testing.T, p CrashParams) (*CrashDetector, *[]CrashEvent, float64) {
	t.Helper()
	events := &[]CrashEvent{}
	det := NewCrashDetector(p, nil, zerolog.Nop(), 0)
	det.Bus().Subscribe(func(ev CrashEvent) { *events = append(*events, ev) })

	// Seed a rest sample once the grace window has passed
	now := p.GraceS + 1.0
	det.Observe(KinematicSample{MassKg: 1000, Grounded: true}, 0.25, now)
	return det, events, now
}

// TestCrashSeverityBoundaries verifies the force bands, including the
// boundary-exact values: 5,000 N and 15,000 N both classify as major.
func TestCrashSeverityBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		dvx   float64 // with mass 1000 kg and dt 0.25 s, force = dvx * 4000
		force float64
		want  Severity
		emits bool
	}{
		{"below detection floor", 0.5, 2000, SeverityMinor, false},
		{"minor band", 1.0, 4000, SeverityMinor, true},
		{"exactly major threshold", 1.25, 5000, SeverityMajor, true},
		{"middle of major band", 2.5, 10000, SeverityMajor, true},
		{"exactly catastrophic threshold", 3.75, 15000, SeverityMajor, true},
		{"past catastrophic threshold", 5.0, 20000, SeverityCatastrophic, true},
	}
	for _, tc := range cases {
		det, events, now := testDetector(t, DefaultCrashParams())

		now += 0.25
		det.Observe(KinematicSample{Vel: Vec3{X: tc.dvx}, MassKg: 1000, Grounded: true}, 0.25, now)

		if !tc.emits {
			if len(*events) != 0 {
				t.Errorf("%s: expected silence, got %d event(s)", tc.name, len(*events))
			}
			continue
		}
		if len(*events) != 1 {
			t.Fatalf("%s: expected 1 event, got %d", tc.name, len(*events))
		}
		ev := (*events)[0]
		if math.Abs(ev.Force-tc.force) > 1e-9 {
			t.Errorf("%s: force %.4f, want %.4f", tc.name, ev.Force, tc.force)
		}
		if ev.Severity != tc.want {
			t.Errorf("%s: severity %s, want %s", tc.name, ev.Severity, tc.want)
		}
	}
}

// TestCrashGracePeriodSuppressesDetection verifies that no event fires
// within the grace window regardless of how violent the delta is.
func TestCrashGracePeriodSuppressesDetection(t *testing.T) {
	events := []CrashEvent{}
	det := NewCrashDetector(DefaultCrashParams(), nil, zerolog.Nop(), 0)
	det.Bus().Subscribe(func(ev CrashEvent) { events = append(events, ev) })

	// Hammer the detector with huge deltas inside the 0.5 s grace window
	now := 0.0
	dt := 0.05
	vx := 0.0
	for i := 0; i < 9; i++ {
		now += dt
		vx += 40.0 // 800 m/s^2, far past every threshold
		det.Observe(KinematicSample{Vel: Vec3{X: vx}, MassKg: 1000, Grounded: true}, dt, now)
	}
	if len(events) != 0 {
		t.Errorf("event fired inside grace window: got %d event(s)", len(events))
	}

	// The same delta right after the window must fire
	now = 0.6
	det.Observe(KinematicSample{Vel: Vec3{X: vx + 40}, MassKg: 1000, Grounded: true}, dt, now)
	if len(events) != 1 {
		t.Errorf("event did not fire after grace window: got %d event(s)", len(events))
	}
}

// TestCrashCooldownSuppressesSecondEvent verifies that after one
// emission the detector stays quiet for the cooldown window.
func TestCrashCooldownSuppressesSecondEvent(t *testing.T) {
	det, events, now := testDetector(t, DefaultCrashParams())

	// First qualifying hit
	now += 0.25
	vx := 10.0
	det.Observe(KinematicSample{Vel: Vec3{X: vx}, MassKg: 1000, Grounded: true}, 0.25, now)
	if len(*events) != 1 {
		t.Fatalf("first hit did not emit: got %d event(s)", len(*events))
	}

	// Qualifying deltas 1.0 s and 1.9 s later land inside the 2 s cooldown
	for _, gap := range []float64{1.0, 0.9} {
		now += gap
		vx += 10.0
		det.Observe(KinematicSample{Vel: Vec3{X: vx}, MassKg: 1000, Grounded: true}, 0.25, now)
	}
	if len(*events) != 1 {
		t.Errorf("event fired inside cooldown: got %d event(s)", len(*events))
	}

	// Past the cooldown the detector re-arms
	now += 2.1
	det.Observe(KinematicSample{Vel: Vec3{X: vx + 10}, MassKg: 1000, Grounded: true}, 0.25, now)
	if len(*events) != 2 {
		t.Errorf("detector did not re-arm after cooldown: got %d event(s)", len(*events))
	}
}

// TestCrashNaNSampleSkipped verifies that malformed samples neither
// emit nor poison the velocity tracking.
func TestCrashNaNSampleSkipped(t *testing.T) {
	det, events, now := testDetector(t, DefaultCrashParams())

	nan := math.NaN()
	now += 0.25
	det.Observe(KinematicSample{Vel: Vec3{X: nan}, MassKg: 1000, Grounded: true}, 0.25, now)
	now += 0.25
	det.Observe(KinematicSample{Vel: Vec3{X: 1}, MassKg: 1000, Grounded: true}, nan, now)
	if len(*events) != 0 {
		t.Errorf("malformed sample emitted: got %d event(s)", len(*events))
	}

	// The delta is still measured against the last valid sample (rest),
	// so a hit right after the garbage must classify normally.
	now += 0.25
	det.Observe(KinematicSample{Vel: Vec3{X: 5.0}, MassKg: 1000, Grounded: true}, 0.25, now)
	if len(*events) != 1 {
		t.Fatalf("expected 1 event after malformed samples, got %d", len(*events))
	}
	if got := (*events)[0].Force; math.Abs(got-20000) > 1e-9 {
		t.Errorf("force measured from poisoned tracking: %.4f, want 20000", got)
	}
}

// TestHardLandingTriggersCrash verifies the touchdown rule: vertical
// speed over 15 is a major crash and over 25 escalates.
func TestHardLandingTriggersCrash(t *testing.T) {
	cases := []struct {
		name  string
		vy    float64
		want  Severity
		emits bool
	}{
		{"soft landing", -10, SeverityMinor, false},
		{"hard landing", -18, SeverityMajor, true},
		{"brutal landing", -30, SeverityCatastrophic, true},
	}
	for _, tc := range cases {
		det, events, now := testDetector(t, DefaultCrashParams())

		// Falling straight down; vertical speed never feeds the scrub force
		now += 0.25
		det.Observe(KinematicSample{Vel: Vec3{Y: tc.vy}, MassKg: 1000, Grounded: false}, 0.25, now)
		if len(*events) != 0 {
			t.Fatalf("%s: event fired before touchdown", tc.name)
		}

		// Touchdown zeroes the vertical speed
		now += 0.25
		det.Observe(KinematicSample{MassKg: 1000, Grounded: true}, 0.25, now)

		if !tc.emits {
			if len(*events) != 0 {
				t.Errorf("%s: expected silence, got %d event(s)", tc.name, len(*events))
			}
			continue
		}
		if len(*events) != 1 {
			t.Fatalf("%s: expected 1 event, got %d", tc.name, len(*events))
		}
		if got := (*events)[0].Severity; got != tc.want {
			t.Errorf("%s: severity %s, want %s", tc.name, got, tc.want)
		}
	}
}

// TestFreeFallStaysSilent verifies that gravity alone never reads as
// an impact: only horizontal deltas feed the force estimate.
func TestFreeFallStaysSilent(t *testing.T) {
	det, events, now := testDetector(t, DefaultCrashParams())

	dt := 1.0 / SimHz
	vy := 0.0
	for i := 0; i < 120; i++ {
		now += dt
		vy -= Gravity * dt
		det.Observe(KinematicSample{Vel: Vec3{X: 30, Y: vy}, MassKg: VehicleMass, Grounded: false}, dt, now)
	}
	if len(*events) != 0 {
		t.Errorf("free fall emitted %d event(s), vertical speed reached %.2f", len(*events), vy)
	}
}

// TestMinorSeverityDoesNotTriggerReplay verifies the replay gate on
// the severity type itself.
func TestMinorSeverityDoesNotTriggerReplay(t *testing.T) {
	if SeverityMinor.TriggersReplay() {
		t.Error("minor severity must not trigger a replay")
	}
	if !SeverityMajor.TriggersReplay() {
		t.Error("major severity must trigger a replay")
	}
	if !SeverityCatastrophic.TriggersReplay() {
		t.Error("catastrophic severity must trigger a replay")
	}
}

// TestCrashResetReopensGrace verifies that Reset re-arms the grace
// window, as after a respawn.
func TestCrashResetReopensGrace(t *testing.T) {
	det, events, now := testDetector(t, DefaultCrashParams())

	det.Reset(now)
	now += 0.1
	det.Observe(KinematicSample{Vel: Vec3{}, MassKg: 1000, Grounded: true}, 0.1, now)
	now += 0.1
	det.Observe(KinematicSample{Vel: Vec3{X: 50}, MassKg: 1000, Grounded: true}, 0.1, now)
	if len(*events) != 0 {
		t.Errorf("event fired inside re-opened grace window: got %d", len(*events))
	}
}

// TestObserveDoesNotAllocate verifies the hot path stays allocation
// free while samples classify below the floor.
func TestObserveDoesNotAllocate(t *testing.T) {
	det := NewCrashDetector(DefaultCrashParams(), nil, zerolog.Nop(), 0)
	now := 1.0
	dt := 1.0 / SimHz
	sample := KinematicSample{Vel: Vec3{X: 20}, MassKg: VehicleMass, Grounded: true}

	allocs := testing.AllocsPerRun(1000, func() {
		now += dt
		det.Observe(sample, dt, now)
	})
	if allocs != 0 {
		t.Errorf("Observe allocated %.1f times per call", allocs)
	}
}

// TestSanitizeCrashParamsOrdersThresholds verifies that nonsense
// configurations fall back to usable ordering.
func TestSanitizeCrashParamsOrdersThresholds(t *testing.T) {
	p := SanitizeCrashParams(CrashParams{
		MinImpactN:    -5,
		MajorN:        1,
		CatastrophicN: 0.5,
		LandingVy:     math.NaN(),
		LandingCatVy:  -1,
		GraceS:        -2,
		CooldownS:     math.NaN(),
	})
	if p.MinImpactN <= 0 {
		t.Errorf("MinImpactN not repaired: %.2f", p.MinImpactN)
	}
	if p.MajorN < p.MinImpactN {
		t.Errorf("MajorN below the floor: %.2f < %.2f", p.MajorN, p.MinImpactN)
	}
	if p.CatastrophicN < p.MajorN {
		t.Errorf("CatastrophicN below MajorN: %.2f < %.2f", p.CatastrophicN, p.MajorN)
	}
	if p.LandingCatVy < p.LandingVy {
		t.Errorf("landing thresholds out of order: %.2f < %.2f", p.LandingCatVy, p.LandingVy)
	}
	if p.GraceS < 0 || p.CooldownS < 0 {
		t.Errorf("negative quiet windows survived: grace %.2f cooldown %.2f", p.GraceS, p.CooldownS)
	}
}
