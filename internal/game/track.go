package game

import "math"

// TrackWaypoint is a progress gate and a safe respawn anchor.
type TrackWaypoint struct {
	Pos Vec3
	Yaw float64 // heading a car respawned here should face
}

// Ramp is a rectangular wedge rising linearly along its yaw direction.
// Driving off the high end leaves the car airborne.
type Ramp struct {
	Pos    Vec3 // base center at ground level
	Yaw    float64
	Length float64
	Width  float64
	Height float64 // rise at the far end
}

type Track struct {
	Name          string
	HalfW         float64 // playable half extents; beyond them is wall
	HalfL         float64
	CaptureRadius float64
	Waypoints     []TrackWaypoint
	Ramps         []Ramp
}

// DefaultTrack is a stadium loop: two straights joined by 180 degree
// sweeps, one jump ramp on the first straight. Sized so a clean
// full-speed jump lands just under the hard-landing threshold.
func DefaultTrack() *Track {
	return &Track{
		Name:          "stadium",
		HalfW:         TrackHalfW,
		HalfL:         TrackHalfL,
		CaptureRadius: WaypointRadius,
		Waypoints: []TrackWaypoint{
			{Pos: Vec3{X: -180, Z: -300}, Yaw: 0},
			{Pos: Vec3{X: -180, Z: -100}, Yaw: 0},
			{Pos: Vec3{X: -180, Z: 100}, Yaw: 0},
			{Pos: Vec3{X: -180, Z: 300}, Yaw: 0},
			{Pos: Vec3{X: -120, Z: 420}, Yaw: 0.79},
			{Pos: Vec3{X: 0, Z: 460}, Yaw: 1.57},
			{Pos: Vec3{X: 120, Z: 420}, Yaw: 2.36},
			{Pos: Vec3{X: 180, Z: 300}, Yaw: 3.14},
			{Pos: Vec3{X: 180, Z: 100}, Yaw: 3.14},
			{Pos: Vec3{X: 180, Z: -100}, Yaw: 3.14},
			{Pos: Vec3{X: 180, Z: -300}, Yaw: 3.14},
			{Pos: Vec3{X: 120, Z: -420}, Yaw: -2.36},
			{Pos: Vec3{X: 0, Z: -460}, Yaw: -1.57},
			{Pos: Vec3{X: -120, Z: -420}, Yaw: -0.79},
		},
		Ramps: []Ramp{
			{Pos: Vec3{X: -180, Z: 140}, Yaw: 0, Length: 40, Width: 14, Height: 6},
		},
	}
}

// GroundHeight samples the drivable surface under p. Flat ground is
// zero; ramps raise it inside their footprint.
func (t *Track) GroundHeight(p Vec3) float64 {
	h := 0.0
	for i := range t.Ramps {
		r := &t.Ramps[i]
		dx := p.X - r.Pos.X
		dz := p.Z - r.Pos.Z
		s, c := math.Sincos(r.Yaw)
		along := dx*s + dz*c
		across := dx*c - dz*s
		if along < 0 || along > r.Length || math.Abs(across) > r.Width/2 {
			continue
		}
		rh := r.Pos.Y + r.Height*(along/r.Length)
		if rh > h {
			h = rh
		}
	}
	return h
}

// ClampToBounds pins p inside the walls and reports which axes hit.
func (t *Track) ClampToBounds(p Vec3) (Vec3, bool, bool) {
	hitX, hitZ := false, false
	if p.X < -t.HalfW {
		p.X, hitX = -t.HalfW, true
	} else if p.X > t.HalfW {
		p.X, hitX = t.HalfW, true
	}
	if p.Z < -t.HalfL {
		p.Z, hitZ = -t.HalfL, true
	} else if p.Z > t.HalfL {
		p.Z, hitZ = t.HalfL, true
	}
	return p, hitX, hitZ
}

// Waypoint returns the i-th waypoint with wraparound.
func (t *Track) Waypoint(i int) TrackWaypoint {
	n := len(t.Waypoints)
	if n == 0 {
		return TrackWaypoint{}
	}
	return t.Waypoints[((i%n)+n)%n]
}

// CaptureWaypoint advances progress when p is inside the capture
// radius of the waypoint after last. Progress only moves forward.
func (t *Track) CaptureWaypoint(p Vec3, last int) int {
	n := len(t.Waypoints)
	if n == 0 {
		return last
	}
	next := ((last+1)%n + n) % n
	if p.Sub(t.Waypoints[next].Pos).LenXZ() <= t.CaptureRadius {
		return next
	}
	return last
}

// SpawnPose lays drivers out on a two-wide grid behind the start line.
func (t *Track) SpawnPose(slot int) (Vec3, float64) {
	wp := t.Waypoint(0)
	fwd := Vec3{X: math.Sin(wp.Yaw), Z: math.Cos(wp.Yaw)}
	right := Vec3{X: math.Cos(wp.Yaw), Z: -math.Sin(wp.Yaw)}
	row := float64(slot / 2)
	side := -2.5
	if slot%2 == 1 {
		side = 2.5
	}
	pos := wp.Pos.
		Sub(fwd.Scale(6 * (row + 1))).
		Add(right.Scale(side))
	pos.Y = t.GroundHeight(pos)
	return pos, wp.Yaw
}
