package game

import "math"

// CameraParams tune the cinematic replay shot. Distances and heights
// are metres; stage and zoom bounds are fractions of the session.
type CameraParams struct {
	WideDist      float64
	WideHeight    float64
	CloseDist     float64
	CloseHeight   float64
	Stage1Frac    float64 // wide shot holds until here
	Stage2Frac    float64 // pull-in finishes here
	ZoomStartFrac float64
	ZoomEndFrac   float64
	ZoomPunch     float64 // fraction of the shot cut on impact, fades back out
	OrbitTurns    float64 // revolutions over the whole session
	Damping       float64 // realized-pose convergence per tick
	FocalLift     float64 // look-at raised above the focal point
}

func DefaultCameraParams() CameraParams {
	return CameraParams{
		WideDist:      CamWideDist,
		WideHeight:    CamWideHeight,
		CloseDist:     CamCloseDist,
		CloseHeight:   CamCloseHeight,
		Stage1Frac:    CamStage1Frac,
		Stage2Frac:    CamStage2Frac,
		ZoomStartFrac: CamZoomStartFrac,
		ZoomEndFrac:   CamZoomEndFrac,
		ZoomPunch:     CamZoomPunch,
		OrbitTurns:    CamOrbitTurns,
		Damping:       CamDamping,
		FocalLift:     CamFocalLift,
	}
}

func SanitizeCameraParams(p CameraParams) CameraParams {
	d := DefaultCameraParams()
	if p.WideDist <= 0 || math.IsNaN(p.WideDist) {
		p.WideDist = d.WideDist
	}
	if p.WideHeight <= 0 || math.IsNaN(p.WideHeight) {
		p.WideHeight = d.WideHeight
	}
	if p.CloseDist <= 0 || math.IsNaN(p.CloseDist) {
		p.CloseDist = d.CloseDist
	}
	if p.CloseHeight <= 0 || math.IsNaN(p.CloseHeight) {
		p.CloseHeight = d.CloseHeight
	}
	if p.Stage1Frac <= 0 || p.Stage1Frac >= 1 || math.IsNaN(p.Stage1Frac) {
		p.Stage1Frac = d.Stage1Frac
	}
	if p.Stage2Frac <= p.Stage1Frac || p.Stage2Frac >= 1 || math.IsNaN(p.Stage2Frac) {
		p.Stage2Frac = math.Max(d.Stage2Frac, p.Stage1Frac)
	}
	if p.ZoomStartFrac < 0 || p.ZoomStartFrac >= 1 || math.IsNaN(p.ZoomStartFrac) {
		p.ZoomStartFrac = d.ZoomStartFrac
	}
	if p.ZoomEndFrac <= p.ZoomStartFrac || p.ZoomEndFrac > 1 || math.IsNaN(p.ZoomEndFrac) {
		p.ZoomEndFrac = math.Max(d.ZoomEndFrac, p.ZoomStartFrac)
	}
	if p.ZoomPunch < 0 || p.ZoomPunch >= 1 || math.IsNaN(p.ZoomPunch) {
		p.ZoomPunch = d.ZoomPunch
	}
	if p.OrbitTurns < 0 || math.IsNaN(p.OrbitTurns) {
		p.OrbitTurns = d.OrbitTurns
	}
	if p.Damping <= 0 || p.Damping > 1 || math.IsNaN(p.Damping) {
		p.Damping = d.Damping
	}
	if p.FocalLift < 0 || math.IsNaN(p.FocalLift) {
		p.FocalLift = d.FocalLift
	}
	return p
}

type CameraState struct {
	Focal    Vec3 // fixed for the whole session
	Duration float64
	Elapsed  float64
	Angle    float64 // orbit angle realized at the last update, radians
	Pose     CameraPose
	Active   bool
	seeded   bool
}

// CinematicCamera sweeps a three-stage orbit around a crash site:
// a wide establishing shot, a pull-in, then a close-up, with a brief
// extra push as the recorded impact replays. The realized pose chases
// the ideal one so stage handoffs never pop.
type CinematicCamera struct {
	P CameraParams
	S CameraState
}

func NewCinematicCamera(p CameraParams) *CinematicCamera {
	return &CinematicCamera{P: SanitizeCameraParams(p)}
}

// Start pins the focal point at the crash position and arms a session
// of the given duration.
func (c *CinematicCamera) Start(ev CrashEvent, duration float64) {
	if duration <= 0 || math.IsNaN(duration) {
		duration = ReplayMaxS
	}
	c.S = CameraState{Focal: ev.Pos, Duration: duration, Active: true}
}

// Stop clears all session state. Calling it again is a no-op.
func (c *CinematicCamera) Stop() {
	c.S = CameraState{}
}

func (c *CinematicCamera) Active() bool { return c.S.Active }

// Shot returns the ideal distance and height for elapsed time e.
// The stage curve is continuous: the pull-in lands exactly on the
// close-up values, and the impact zoom fades back to 1 by its end.
func (c *CinematicCamera) Shot(e float64) (dist, height float64) {
	u := c.progress(e)
	switch {
	case u < c.P.Stage1Frac:
		dist, height = c.P.WideDist, c.P.WideHeight
	case u < c.P.Stage2Frac:
		t := (u - c.P.Stage1Frac) / (c.P.Stage2Frac - c.P.Stage1Frac)
		dist = Lerp(c.P.WideDist, c.P.CloseDist, t)
		height = Lerp(c.P.WideHeight, c.P.CloseHeight, t)
	default:
		dist, height = c.P.CloseDist, c.P.CloseHeight
	}
	if u >= c.P.ZoomStartFrac && u <= c.P.ZoomEndFrac {
		pz := (u - c.P.ZoomStartFrac) / (c.P.ZoomEndFrac - c.P.ZoomStartFrac)
		f := (1 - c.P.ZoomPunch) + c.P.ZoomPunch*pz
		dist *= f
		height *= f
	}
	return dist, height
}

// Ideal returns the undamped pose for elapsed time e.
func (c *CinematicCamera) Ideal(e float64) CameraPose {
	dist, height := c.Shot(e)
	angle := c.progress(e) * c.P.OrbitTurns * 2 * math.Pi
	offset := Vec3{
		X: math.Sin(angle) * dist,
		Y: height,
		Z: -math.Cos(angle) * dist,
	}
	look := c.S.Focal
	look.Y += c.P.FocalLift
	return CameraPose{Pos: c.S.Focal.Add(offset), LookAt: look}
}

// Update advances the session to elapsed time e and returns the
// realized pose. The first update snaps onto the ideal pose; later
// ones converge toward it by the damping factor.
func (c *CinematicCamera) Update(e float64) CameraPose {
	if !c.S.Active {
		return c.S.Pose
	}
	c.S.Elapsed = Clamp(e, 0, c.S.Duration)
	c.S.Angle = c.progress(c.S.Elapsed) * c.P.OrbitTurns * 2 * math.Pi
	ideal := c.Ideal(c.S.Elapsed)
	if !c.S.seeded {
		c.S.Pose = ideal
		c.S.seeded = true
		return c.S.Pose
	}
	c.S.Pose.Pos = c.S.Pose.Pos.Lerp(ideal.Pos, c.P.Damping)
	c.S.Pose.LookAt = c.S.Pose.LookAt.Lerp(ideal.LookAt, c.P.Damping)
	return c.S.Pose
}

func (c *CinematicCamera) progress(e float64) float64 {
	if c.S.Duration <= 0 {
		return 0
	}
	return Clamp(e/c.S.Duration, 0, 1)
}

// ChaseCamera is the ordinary driving camera: it trails the vehicle
// and takes a decaying shake kick when the car gets hit.
type ChaseCamera struct {
	Pose   CameraPose
	shake  float64
	phase  float64
	seeded bool
}

// AddShake kicks the shake amplitude up to at least a. Kicks do not
// stack; the strongest active one wins.
func (c *ChaseCamera) AddShake(a float64) {
	if a > c.shake {
		c.shake = a
	}
}

func (c *ChaseCamera) Shake() float64 { return c.shake }

// Update trails the target from behind its heading and applies shake.
func (c *ChaseCamera) Update(target Vec3, yaw, dt float64) CameraPose {
	fwd := Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
	ideal := target.Sub(fwd.Scale(ChaseDist))
	ideal.Y += ChaseHeight
	if !c.seeded {
		c.Pose.Pos = ideal
		c.seeded = true
	} else {
		c.Pose.Pos = c.Pose.Pos.Lerp(ideal, ChaseStiffness)
	}
	c.phase += dt
	if c.shake > 0 {
		c.Pose.Pos.X += math.Sin(c.phase*ChaseShakeFreq) * c.shake
		c.Pose.Pos.Y += math.Sin(c.phase*ChaseShakeFreq*1.3) * c.shake * 0.6
		c.shake *= math.Max(0, 1-ChaseShakeDecay*dt)
		if c.shake < 0.01 {
			c.shake = 0
		}
	}
	look := target
	look.Y += CamFocalLift
	c.Pose.LookAt = look
	return c.Pose
}
