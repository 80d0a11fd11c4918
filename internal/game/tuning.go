package game

import "math"

// ReplayParams size the recorder ring and bound playback sessions.
type ReplayParams struct {
	KeepS     float64 // seconds of history retained
	LookbackS float64 // playback starts this far before the crash
	MaxS      float64 // hard bound on one session
}

func DefaultReplayParams() ReplayParams {
	return ReplayParams{KeepS: ReplayKeepS, LookbackS: ReplayLookbackS, MaxS: ReplayMaxS}
}

func SanitizeReplayParams(p ReplayParams) ReplayParams {
	d := DefaultReplayParams()
	if p.KeepS <= 0 || math.IsNaN(p.KeepS) {
		p.KeepS = d.KeepS
	}
	if p.LookbackS <= 0 || math.IsNaN(p.LookbackS) {
		p.LookbackS = d.LookbackS
	}
	if p.MaxS <= 0 || math.IsNaN(p.MaxS) {
		p.MaxS = d.MaxS
	}
	return p
}

// Tuning bundles everything a race hands its sessions.
type Tuning struct {
	Crash  CrashParams
	Camera CameraParams
	Replay ReplayParams
}

func DefaultTuning() Tuning {
	return Tuning{
		Crash:  DefaultCrashParams(),
		Camera: DefaultCameraParams(),
		Replay: DefaultReplayParams(),
	}
}

func SanitizeTuning(t Tuning) Tuning {
	t.Crash = SanitizeCrashParams(t.Crash)
	t.Camera = SanitizeCameraParams(t.Camera)
	t.Replay = SanitizeReplayParams(t.Replay)
	return t
}
