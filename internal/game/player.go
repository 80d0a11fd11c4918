package game

import "math"

// ReplayPlayer drives kinematic playback out of a recorder's ring.
// One player owns one session at a time; Start rewinds it for the next.
type ReplayPlayer struct {
	rec  *ReplayRecorder
	maxS float64 // hard bound on session duration

	active   bool
	done     bool
	skipped  bool
	elapsed  float64
	duration float64
	startT   float64
	cursor   int // chronological index of the bracket's left frame
	last     ReplayFrame
}

func NewReplayPlayer(rec *ReplayRecorder, maxS float64) *ReplayPlayer {
	if maxS <= 0 || math.IsNaN(maxS) {
		maxS = ReplayMaxS
	}
	return &ReplayPlayer{rec: rec, maxS: maxS}
}

// Start seeks the recorder to the frame nearest fromT and opens a
// session there. The start clamps to the oldest retained frame when
// less history exists, which just makes the session shorter. Returns
// false if there is nothing to play.
func (p *ReplayPlayer) Start(fromT float64) bool {
	p.Reset()
	if p.rec == nil || p.rec.Len() == 0 {
		return false
	}
	earliest, _ := p.rec.Earliest()
	latest, _ := p.rec.Latest()
	fromT = Clamp(fromT, earliest.T, latest.T)
	idx, ok := p.rec.Seek(fromT)
	if !ok {
		return false
	}
	first, _ := p.rec.FrameAt(idx)
	p.active = true
	p.cursor = idx
	p.startT = first.T
	p.duration = math.Min(latest.T-first.T, p.maxS)
	p.last = first
	return true
}

// Update advances the playback clock by dt and returns the frame for
// the new time. The second return is false once the session is over:
// clock past the duration bound, buffer exhausted, or skipped. The
// returned frame stays valid after completion so callers can park the
// vehicle on the final pose.
func (p *ReplayPlayer) Update(dt float64) (ReplayFrame, bool) {
	if !p.active || p.done {
		return p.last, false
	}
	if p.rec.Len() == 0 || p.cursor >= p.rec.Len() {
		p.done = true
		return p.last, false
	}
	if dt > 0 && !math.IsNaN(dt) {
		p.elapsed += dt
	}
	if p.elapsed >= p.duration {
		p.elapsed = p.duration
		p.done = true
	}
	target := p.startT + p.elapsed

	for p.cursor+1 < p.rec.Len() {
		next := p.rec.frame(p.cursor + 1)
		if next.T >= target {
			break
		}
		p.cursor++
	}
	a := p.rec.frame(p.cursor)
	b := a
	if p.cursor+1 < p.rec.Len() {
		b = p.rec.frame(p.cursor + 1)
	}
	if b.T < a.T {
		// time ran backwards inside the ring; bail out rather than glitch
		p.done = true
		return p.last, false
	}
	t := 0.0
	if b.T > a.T {
		t = Clamp((target-a.T)/(b.T-a.T), 0, 1)
	}
	p.last = lerpFrame(a, b, t, target)
	return p.last, !p.done
}

// Skip ends the session immediately. Safe to call repeatedly.
func (p *ReplayPlayer) Skip() {
	if !p.active || p.done {
		return
	}
	p.done = true
	p.skipped = true
}

func (p *ReplayPlayer) Reset() {
	*p = ReplayPlayer{rec: p.rec, maxS: p.maxS}
}

func (p *ReplayPlayer) Active() bool  { return p.active }
func (p *ReplayPlayer) Done() bool    { return p.done }
func (p *ReplayPlayer) Skipped() bool { return p.skipped }

func (p *ReplayPlayer) Elapsed() float64  { return p.elapsed }
func (p *ReplayPlayer) Duration() float64 { return p.duration }

func (p *ReplayPlayer) Remaining() float64 {
	return math.Max(p.duration-p.elapsed, 0)
}

// Progress is the normalized session position in [0, 1].
func (p *ReplayPlayer) Progress() float64 {
	if p.duration <= 0 {
		if p.done {
			return 1
		}
		return 0
	}
	return Clamp(p.elapsed/p.duration, 0, 1)
}

func lerpFrame(a, b ReplayFrame, t, at float64) ReplayFrame {
	f := ReplayFrame{
		T:      at,
		Pos:    a.Pos.Lerp(b.Pos, t),
		Rot:    Slerp(a.Rot, b.Rot, t),
		Vel:    a.Vel.Lerp(b.Vel, t),
		AngVel: a.AngVel.Lerp(b.AngVel, t),
		Steer:  Lerp(a.Steer, b.Steer, t),
	}
	for i := range f.Wheels {
		f.Wheels[i] = Lerp(a.Wheels[i], b.Wheels[i], t)
	}
	if a.HasCamera && b.HasCamera {
		f.HasCamera = true
		f.Camera.Pos = a.Camera.Pos.Lerp(b.Camera.Pos, t)
		f.Camera.LookAt = a.Camera.LookAt.Lerp(b.Camera.LookAt, t)
	}
	return f
}
