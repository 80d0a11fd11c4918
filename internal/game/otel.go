package game

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "NitroRally/internal/game"

func meter() metric.Meter { return otel.Meter(instrumentationName) }

// raceMetrics are shared by every race under one hub. All methods are
// nil-safe so bare sessions in tests can skip instrumentation.
type raceMetrics struct {
	crashes          metric.Int64Counter
	replaysStarted   metric.Int64Counter
	replaysCompleted metric.Int64Counter
	replaysSkipped   metric.Int64Counter
}

func newRaceMetrics() (*raceMetrics, error) {
	m := meter()
	crashes, err := m.Int64Counter("nitrorally.crashes",
		metric.WithDescription("Crash events accepted by the detector, tagged by severity"))
	if err != nil {
		return nil, err
	}
	started, err := m.Int64Counter("nitrorally.replays.started",
		metric.WithDescription("Cinematic replay sessions opened"))
	if err != nil {
		return nil, err
	}
	completed, err := m.Int64Counter("nitrorally.replays.completed",
		metric.WithDescription("Replay sessions that ran to their full duration"))
	if err != nil {
		return nil, err
	}
	skipped, err := m.Int64Counter("nitrorally.replays.skipped",
		metric.WithDescription("Replay sessions ended early by a skip"))
	if err != nil {
		return nil, err
	}
	return &raceMetrics{
		crashes:          crashes,
		replaysStarted:   started,
		replaysCompleted: completed,
		replaysSkipped:   skipped,
	}, nil
}

func (m *raceMetrics) crash(sev Severity) {
	if m == nil {
		return
	}
	m.crashes.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("severity", sev.String())))
}

func (m *raceMetrics) replayStarted() {
	if m == nil {
		return
	}
	m.replaysStarted.Add(context.Background(), 1)
}

func (m *raceMetrics) replayCompleted() {
	if m == nil {
		return
	}
	m.replaysCompleted.Add(context.Background(), 1)
}

func (m *raceMetrics) replaySkipped() {
	if m == nil {
		return
	}
	m.replaysSkipped.Add(context.Background(), 1)
}

// registerHubGauges publishes live race and driver counts. The
// callback takes the hub lock, then each race lock, the same order
// the cleanup sweep uses.
func registerHubGauges(h *Hub) error {
	m := meter()
	races, err := m.Int64ObservableGauge("nitrorally.races.active",
		metric.WithDescription("Races currently running"))
	if err != nil {
		return err
	}
	drivers, err := m.Int64ObservableGauge("nitrorally.drivers.active",
		metric.WithDescription("Drivers currently connected across all races"))
	if err != nil {
		return err
	}
	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		h.Mu.Lock()
		defer h.Mu.Unlock()
		o.ObserveInt64(races, int64(len(h.Races)))
		n := 0
		for _, r := range h.Races {
			r.Mu.Lock()
			n += len(r.Drivers)
			r.Mu.Unlock()
		}
		o.ObserveInt64(drivers, int64(n))
		return nil
	}, races, drivers)
	return err
}
