package server

import (
	. "NitroRally/internal/game"
)

type stateMsg struct {
	Type   string       `json:"type"`
	Now    float64      `json:"now"`
	Me     vehicleDTO   `json:"me"`
	Others []vehicleDTO `json:"others,omitempty"`
	Camera cameraDTO    `json:"camera"`
	Replay *replayDTO   `json:"replay,omitempty"`
	Crash  *crashDTO    `json:"last_crash,omitempty"`
	Meta   raceMeta     `json:"meta"`
}

type raceMeta struct {
	Track   string  `json:"track"`
	HalfW   float64 `json:"half_w"`
	HalfL   float64 `json:"half_l"`
	Drivers int     `json:"drivers"`
}

type vehicleDTO struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Self     bool       `json:"self"`
	State    string     `json:"state"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Z        float64    `json:"z"`
	Yaw      float64    `json:"yaw"`
	VX       float64    `json:"vx"`
	VY       float64    `json:"vy"`
	VZ       float64    `json:"vz"`
	Steer    float64    `json:"steer"`
	Wheels   [4]float64 `json:"wheels"`
	Damage   float64    `json:"damage"`
	Grounded bool       `json:"grounded"`
	Waypoint int        `json:"waypoint"`
}

type cameraDTO struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	LookX float64 `json:"look_x"`
	LookY float64 `json:"look_y"`
	LookZ float64 `json:"look_z"`
	Shake float64 `json:"shake"`
}

type replayDTO struct {
	Elapsed   float64 `json:"elapsed"`
	Duration  float64 `json:"duration"`
	Progress  float64 `json:"progress"`
	Remaining float64 `json:"remaining"`
}

type crashDTO struct {
	T        float64 `json:"t"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Force    float64 `json:"force"`
	Severity string  `json:"severity"`
}

func vehicleToDTO(d *Driver, self bool) vehicleDTO {
	v := d.Session.Vehicle
	return vehicleDTO{
		ID:       d.ID,
		Name:     d.Name,
		Self:     self,
		State:    d.Session.State.String(),
		X:        v.Pos.X,
		Y:        v.Pos.Y,
		Z:        v.Pos.Z,
		Yaw:      v.Yaw,
		VX:       v.Vel.X,
		VY:       v.Vel.Y,
		VZ:       v.Vel.Z,
		Steer:    v.Steer,
		Wheels:   v.Wheels,
		Damage:   v.Damage,
		Grounded: v.Grounded,
		Waypoint: v.LastWaypoint,
	}
}

func cameraToDTO(s *Session) cameraDTO {
	p := s.CameraPose
	return cameraDTO{
		X:     p.Pos.X,
		Y:     p.Pos.Y,
		Z:     p.Pos.Z,
		LookX: p.LookAt.X,
		LookY: p.LookAt.Y,
		LookZ: p.LookAt.Z,
		Shake: s.Chase.Shake(),
	}
}

func replayToDTO(s *Session) *replayDTO {
	if !s.InCrashReplay() {
		return nil
	}
	return &replayDTO{
		Elapsed:   s.CrashReplayElapsed(),
		Duration:  s.Player.Duration(),
		Progress:  s.ReplayProgress(),
		Remaining: s.ReplayRemaining(),
	}
}

func crashToDTO(s *Session) *crashDTO {
	if !s.HasCrashed {
		return nil
	}
	ev := s.LastCrash
	return &crashDTO{
		T:        ev.T,
		X:        ev.Pos.X,
		Y:        ev.Pos.Y,
		Z:        ev.Pos.Z,
		Force:    ev.Force,
		Severity: ev.Severity.String(),
	}
}
