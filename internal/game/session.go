package game

import "github.com/rs/zerolog"

type SessionState int

const (
	StatePlaying SessionState = iota
	StateCrashed
	StateReplay
)

func (s SessionState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateCrashed:
		return "crashed"
	case StateReplay:
		return "replay"
	default:
		return "unknown"
	}
}

func shakeFor(sev Severity) float64 {
	switch sev {
	case SeverityCatastrophic:
		return ShakeCatastrophic
	case SeverityMajor:
		return ShakeMajor
	default:
		return ShakeMinor
	}
}

// Session is one driver's slice of a race: the car, its crash
// detector, the replay machinery, and the state machine that decides
// who owns the car on any given tick.
//
// States: playing -> crashed (qualifying crash event) -> replay
// (immediate, input frozen, recorder paused, kinematic playback) ->
// playing (on completion, timeout, or skip; car respawns at its last
// waypoint). Everything runs inside the owning race's tick, so no
// field here needs its own lock.
type Session struct {
	State   SessionState
	Vehicle *Vehicle

	Detector  *CrashDetector
	Recorder  *ReplayRecorder
	Player    *ReplayPlayer
	Cinematic *CinematicCamera
	Chase     *ChaseCamera

	Input         DriverInput
	SkipRequested bool

	CameraPose CameraPose // realized pose this tick, chase or cinematic

	LastCrash  CrashEvent
	HasCrashed bool
	Crashes    int

	trk       *Track
	lookbackS float64
	now       float64 // sim time of the latest Advance

	pendingCrash CrashEvent
	hasPending   bool

	metrics *raceMetrics
	log     zerolog.Logger
}

func NewSession(tn Tuning, slot int, trk *Track, m *raceMetrics, log zerolog.Logger, now float64) *Session {
	tn = SanitizeTuning(tn)
	s := &Session{
		Vehicle:   NewVehicle(slot, trk),
		Recorder:  NewReplayRecorder(tn.Replay.KeepS, SimHz),
		Cinematic: NewCinematicCamera(tn.Camera),
		Chase:     &ChaseCamera{},
		trk:       trk,
		lookbackS: tn.Replay.LookbackS,
		now:       now,
		metrics:   m,
		log:       log,
	}
	s.Detector = NewCrashDetector(tn.Crash, nil, log, now)
	s.Player = NewReplayPlayer(s.Recorder, tn.Replay.MaxS)
	s.Detector.Bus().Subscribe(s.onCrash)
	return s
}

// OnCrash registers an external observer for classified crash events.
func (s *Session) OnCrash(fn CrashListener) {
	s.Detector.Bus().Subscribe(fn)
}

func (s *Session) SetInput(in DriverInput) { s.Input = in }
func (s *Session) RequestSkip()            { s.SkipRequested = true }

// Reset puts the car back on its last captured waypoint. Dropped while
// a replay owns the car. The detector re-arms so the teleport itself
// never reads as an impact.
func (s *Session) Reset() {
	if s.State != StatePlaying {
		return
	}
	s.Input = DriverInput{}
	s.Vehicle.RespawnAt(s.trk.Waypoint(s.Vehicle.LastWaypoint), s.trk)
	s.Detector.Reset(s.now)
}

func (s *Session) InCrashReplay() bool { return s.State == StateReplay }

func (s *Session) CrashReplayElapsed() float64 {
	if s.State != StateReplay {
		return 0
	}
	return s.Player.Elapsed()
}

// ReplayProgress is the normalized session position for UI overlays.
func (s *Session) ReplayProgress() float64 {
	if s.State != StateReplay {
		return 0
	}
	return s.Player.Progress()
}

func (s *Session) ReplayRemaining() float64 {
	if s.State != StateReplay {
		return 0
	}
	return s.Player.Remaining()
}

func (s *Session) onCrash(ev CrashEvent) {
	s.LastCrash = ev
	s.HasCrashed = true
	s.Crashes++
	s.Vehicle.ApplyCrashDamage(ev.Severity)
	s.Chase.AddShake(shakeFor(ev.Severity))
	s.metrics.crash(ev.Severity)
	s.log.Info().
		Str("severity", ev.Severity.String()).
		Float64("force", ev.Force).
		Float64("t", ev.T).
		Msg("crash detected")
	if ev.Severity.TriggersReplay() && s.State == StatePlaying {
		s.pendingCrash = ev
		s.hasPending = true
	}
}

// Advance runs one tick. Order inside the tick is fixed: integrate,
// detect, then either record (playing) or play back (replay).
func (s *Session) Advance(now, dt float64) {
	s.now = now
	switch s.State {
	case StatePlaying:
		s.Vehicle.Integrate(s.Input, s.trk, dt)
		s.Detector.Observe(s.Vehicle.Sample(), dt, now)
		s.CameraPose = s.Chase.Update(s.Vehicle.Pos, s.Vehicle.Yaw, dt)
		s.RecordFrame(now)
		if s.hasPending {
			s.hasPending = false
			s.State = StateCrashed
			s.enterReplay(s.pendingCrash)
		}
	case StateCrashed:
		// transient; a crash normally reaches replay inside its own tick
		s.enterReplay(s.LastCrash)
	case StateReplay:
		if s.SkipRequested {
			s.SkipRequested = false
			s.Player.Skip()
		}
		frame, alive := s.Player.Update(dt)
		s.Vehicle.ApplyReplayFrame(frame)
		s.CameraPose = s.Cinematic.Update(s.Player.Elapsed())
		if !alive {
			s.exitReplay()
		}
	}
}

// RecordFrame captures the car and the live camera into the ring.
func (s *Session) RecordFrame(now float64) {
	f := s.Vehicle.Frame(now)
	f.Camera = s.CameraPose
	f.HasCamera = true
	s.Recorder.RecordFrame(f)
}

// StartCrashReplay forces a replay session for ev. No-op unless the
// session is currently playing.
func (s *Session) StartCrashReplay(ev CrashEvent) {
	if s.State != StatePlaying {
		return
	}
	s.LastCrash = ev
	s.HasCrashed = true
	s.enterReplay(ev)
}

// StopCrashReplay ends the replay immediately. Calling it while not
// replaying, or twice, is a no-op.
func (s *Session) StopCrashReplay() {
	if s.State != StateReplay {
		return
	}
	s.Player.Skip()
	s.exitReplay()
}

func (s *Session) enterReplay(ev CrashEvent) {
	s.State = StateReplay
	s.Input = DriverInput{}
	s.SkipRequested = false
	s.Recorder.Pause()
	s.Vehicle.SetKinematicOverride(true)
	if !s.Player.Start(ev.T - s.lookbackS) {
		s.exitReplay()
		return
	}
	s.Cinematic.Start(ev, s.Player.Duration())
	s.metrics.replayStarted()
	s.log.Info().
		Float64("from", ev.T-s.lookbackS).
		Float64("duration", s.Player.Duration()).
		Msg("replay started")
}

func (s *Session) exitReplay() {
	if s.State != StateReplay {
		return
	}
	skipped := s.Player.Skipped()
	s.State = StatePlaying
	s.Vehicle.SetKinematicOverride(false)
	s.Vehicle.RespawnAt(s.trk.Waypoint(s.Vehicle.LastWaypoint), s.trk)
	s.Detector.Reset(s.now)
	s.Player.Reset()
	s.Cinematic.Stop()
	s.Recorder.Resume()
	if skipped {
		s.metrics.replaySkipped()
	} else {
		s.metrics.replayCompleted()
	}
	s.log.Info().Bool("skipped", skipped).Msg("replay ended")
}
