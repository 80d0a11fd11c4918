package game

// Severity grades a crash by peak impact force.
type Severity int

const (
	SeverityMinor Severity = iota
	SeverityMajor
	SeverityCatastrophic
)

func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityMajor:
		return "major"
	case SeverityCatastrophic:
		return "catastrophic"
	default:
		return "unknown"
	}
}

// TriggersReplay reports whether a crash of this severity interrupts the
// session with a cinematic replay. Minor scrapes never do.
func (s Severity) TriggersReplay() bool { return s >= SeverityMajor }

// CrashEvent is the detector's emission: where and how hard the hit was.
type CrashEvent struct {
	T        float64 // sim time of the impact
	Pos      Vec3
	Vel      Vec3 // velocity before the impact resolved
	Force    float64
	Severity Severity
}

type CrashListener func(CrashEvent)

// CrashBus fans one crash out to every subscriber in subscription order.
// Not safe for concurrent use; sessions run single-threaded inside a tick.
type CrashBus struct {
	listeners []CrashListener
}

func (b *CrashBus) Subscribe(fn CrashListener) {
	b.listeners = append(b.listeners, fn)
}

func (b *CrashBus) Emit(ev CrashEvent) {
	for _, fn := range b.listeners {
		fn(ev)
	}
}
