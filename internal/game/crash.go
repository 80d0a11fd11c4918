package game

import (
	"math"

	"github.com/rs/zerolog"
)

// CrashParams tune impact detection. Forces are newtons, speeds m/s,
// durations seconds.
type CrashParams struct {
	MinImpactN    float64 // below this the hit is road noise and nothing emits
	MajorN        float64 // at or above: major
	CatastrophicN float64 // strictly above: catastrophic
	LandingVy     float64 // touchdown vertical speed that counts as a crash
	LandingCatVy  float64 // touchdown vertical speed that counts as catastrophic
	GraceS        float64 // quiet window after (re)arming
	CooldownS     float64 // quiet window after an emission
}

func DefaultCrashParams() CrashParams {
	return CrashParams{
		MinImpactN:    CrashMinImpactN,
		MajorN:        CrashMajorN,
		CatastrophicN: CrashCatastropheN,
		LandingVy:     CrashLandingVy,
		LandingCatVy:  CrashLandingCatVy,
		GraceS:        CrashGraceS,
		CooldownS:     CrashCooldownS,
	}
}

func SanitizeCrashParams(p CrashParams) CrashParams {
	d := DefaultCrashParams()
	if p.MinImpactN <= 0 || math.IsNaN(p.MinImpactN) {
		p.MinImpactN = d.MinImpactN
	}
	if p.MajorN < p.MinImpactN || math.IsNaN(p.MajorN) {
		p.MajorN = math.Max(d.MajorN, p.MinImpactN)
	}
	if p.CatastrophicN < p.MajorN || math.IsNaN(p.CatastrophicN) {
		p.CatastrophicN = math.Max(d.CatastrophicN, p.MajorN)
	}
	if p.LandingVy <= 0 || math.IsNaN(p.LandingVy) {
		p.LandingVy = d.LandingVy
	}
	if p.LandingCatVy < p.LandingVy || math.IsNaN(p.LandingCatVy) {
		p.LandingCatVy = math.Max(d.LandingCatVy, p.LandingVy)
	}
	if p.GraceS < 0 || math.IsNaN(p.GraceS) {
		p.GraceS = d.GraceS
	}
	if p.CooldownS < 0 || math.IsNaN(p.CooldownS) {
		p.CooldownS = d.CooldownS
	}
	return p
}

// KinematicSample is one tick of vehicle motion as the detector sees it.
type KinematicSample struct {
	Pos      Vec3
	Vel      Vec3
	MassKg   float64
	Grounded bool
}

type CrashState struct {
	PrevVel      Vec3
	PrevGrounded bool
	QuietUntil   float64 // sim time before which detection stays silent
	Primed       bool    // false until the first sample has been tracked
}

// CrashDetector turns per-tick velocity deltas into crash events.
//
// Only the horizontal velocity change feeds the force estimate, so gravity
// during a jump never reads as an impact; vertical hits are caught by the
// touchdown rule instead. Observe allocates nothing on the hot path.
type CrashDetector struct {
	P CrashParams
	S CrashState

	bus *CrashBus
	log zerolog.Logger
}

func NewCrashDetector(p CrashParams, bus *CrashBus, log zerolog.Logger, now float64) *CrashDetector {
	if bus == nil {
		bus = &CrashBus{}
	}
	d := &CrashDetector{P: SanitizeCrashParams(p), bus: bus, log: log}
	d.Reset(now)
	return d
}

func (d *CrashDetector) Bus() *CrashBus { return d.bus }

// Reset re-arms the detector: the grace window opens and the next sample
// only seeds tracking. Call after spawn, respawn, or teleport.
func (d *CrashDetector) Reset(now float64) {
	d.S = CrashState{QuietUntil: now + d.P.GraceS}
}

// Observe inspects one kinematic sample. It emits at most one crash event,
// picking the worse of the scrub and touchdown readings when both fire on
// the same tick.
func (d *CrashDetector) Observe(s KinematicSample, dt, now float64) {
	if !sampleValid(s, dt) {
		d.log.Debug().
			Float64("dt", dt).
			Float64("vx", s.Vel.X).
			Float64("vy", s.Vel.Y).
			Float64("vz", s.Vel.Z).
			Msg("crash detector skipped invalid sample")
		return
	}
	prevVel := d.S.PrevVel
	prevGrounded := d.S.PrevGrounded
	primed := d.S.Primed
	d.S.PrevVel = s.Vel
	d.S.PrevGrounded = s.Grounded
	d.S.Primed = true

	if !primed || now < d.S.QuietUntil {
		return
	}

	var ev CrashEvent
	hit := false

	dvx := s.Vel.X - prevVel.X
	dvz := s.Vel.Z - prevVel.Z
	force := math.Hypot(dvx, dvz) * s.MassKg / dt
	if force >= d.P.MinImpactN {
		ev = CrashEvent{
			T:        now,
			Pos:      s.Pos,
			Vel:      prevVel,
			Force:    force,
			Severity: d.gradeForce(force),
		}
		hit = true
	}

	if s.Grounded && !prevGrounded {
		vy := math.Abs(prevVel.Y)
		if vy > d.P.LandingVy {
			landing := CrashEvent{
				T:        now,
				Pos:      s.Pos,
				Vel:      prevVel,
				Force:    vy * s.MassKg / dt,
				Severity: SeverityMajor,
			}
			if vy > d.P.LandingCatVy {
				landing.Severity = SeverityCatastrophic
			}
			if !hit || landing.Severity > ev.Severity ||
				(landing.Severity == ev.Severity && landing.Force > ev.Force) {
				ev = landing
				hit = true
			}
		}
	}

	if !hit {
		return
	}
	d.S.QuietUntil = now + d.P.CooldownS
	d.bus.Emit(ev)
}

func (d *CrashDetector) gradeForce(force float64) Severity {
	switch {
	case force > d.P.CatastrophicN:
		return SeverityCatastrophic
	case force >= d.P.MajorN:
		return SeverityMajor
	default:
		return SeverityMinor
	}
}

func sampleValid(s KinematicSample, dt float64) bool {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return false
	}
	for _, v := range [...]float64{s.Pos.X, s.Pos.Y, s.Pos.Z, s.Vel.X, s.Vel.Y, s.Vel.Z, s.MassKg} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.MassKg > 0
}
