package game

import "sort"

// CameraPose is a camera position plus the point it looks at.
type CameraPose struct {
	Pos    Vec3
	LookAt Vec3
}

// ReplayFrame is one tick of recorded vehicle state. Frames are value
// types; the recorder overwrites them in place once the ring wraps.
type ReplayFrame struct {
	T         float64
	Pos       Vec3
	Rot       Quat
	Vel       Vec3
	AngVel    Vec3
	Wheels    [4]float64 // wheel spin angles, radians
	Steer     float64
	Camera    CameraPose
	HasCamera bool
}

// ReplayRecorder keeps the last N frames in a preallocated ring.
// It is not safe for concurrent use: the session state machine
// guarantees writes only happen while playing and reads only while
// replaying.
type ReplayRecorder struct {
	buf    []ReplayFrame
	head   int // next write slot
	size   int
	limit  int
	paused bool
}

func NewReplayRecorder(seconds, hz float64) *ReplayRecorder {
	n := int(seconds * hz)
	if n < 1 {
		n = 1
	}
	return &ReplayRecorder{buf: make([]ReplayFrame, n), limit: n}
}

// RecordFrame appends one frame, overwriting the oldest once full.
// O(1), no allocation. Dropped silently while paused.
func (r *ReplayRecorder) RecordFrame(f ReplayFrame) {
	if r.paused {
		return
	}
	r.buf[r.head] = f
	r.head = (r.head + 1) % r.limit
	if r.size < r.limit {
		r.size++
	}
}

func (r *ReplayRecorder) Pause()       { r.paused = true }
func (r *ReplayRecorder) Resume()      { r.paused = false }
func (r *ReplayRecorder) Paused() bool { return r.paused }
func (r *ReplayRecorder) Len() int     { return r.size }
func (r *ReplayRecorder) Cap() int     { return r.limit }

func (r *ReplayRecorder) Clear() {
	r.head = 0
	r.size = 0
}

func (r *ReplayRecorder) frame(i int) ReplayFrame {
	return r.buf[(r.head-r.size+i+r.limit)%r.limit]
}

// FrameAt returns the i-th retained frame in chronological order,
// index 0 being the oldest.
func (r *ReplayRecorder) FrameAt(i int) (ReplayFrame, bool) {
	if i < 0 || i >= r.size {
		return ReplayFrame{}, false
	}
	return r.frame(i), true
}

func (r *ReplayRecorder) Earliest() (ReplayFrame, bool) {
	return r.FrameAt(0)
}

func (r *ReplayRecorder) Latest() (ReplayFrame, bool) {
	return r.FrameAt(r.size - 1)
}

// Seek finds the chronological index of the retained frame nearest t.
// Frames are written in time order, so binary search applies even
// though the backing array has wrapped.
func (r *ReplayRecorder) Seek(t float64) (int, bool) {
	if r.size == 0 {
		return 0, false
	}
	lo := sort.Search(r.size, func(i int) bool { return r.frame(i).T >= t })
	if lo == r.size {
		return r.size - 1, true
	}
	if lo == 0 {
		return 0, true
	}
	if t-r.frame(lo-1).T <= r.frame(lo).T-t {
		return lo - 1, true
	}
	return lo, true
}
