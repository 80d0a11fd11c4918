package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Driver couples a connected player to their session.
type Driver struct {
	ID      string
	Name    string
	Slot    int
	Session *Session
}

type Race struct {
	ID      string
	Now     float64
	Track   *Track
	Drivers map[string]*Driver
	Mu      sync.Mutex

	tuning  Tuning
	metrics *raceMetrics
	log     zerolog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func newRace(id string, tn Tuning, m *raceMetrics, log zerolog.Logger) *Race {
	return &Race{
		ID:      id,
		Track:   DefaultTrack(),
		Drivers: map[string]*Driver{},
		tuning:  tn,
		metrics: m,
		log:     log.With().Str("race", id).Logger(),
		stop:    make(chan struct{}),
	}
}

// Tick advances the race one fixed step. All sessions advance under
// the race lock; everything inside a session is single-threaded.
func (r *Race) Tick() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.Now += Dt
	for _, d := range r.Drivers {
		d.Session.Advance(r.Now, Dt)
	}
}

// run is the race's own loop goroutine, started by the hub.
func (r *Race) run() {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / SimHz))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.Tick()
		case <-r.stop:
			return
		}
	}
}

func (r *Race) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// AddDriverLocked joins a driver into the lowest free grid slot.
// Returns nil when the grid is full. Caller must hold r.Mu.
func (r *Race) AddDriverLocked(name string) *Driver {
	if len(r.Drivers) >= RaceMaxDrivers {
		return nil
	}
	slot := 0
	for ; slot < RaceMaxDrivers; slot++ {
		taken := false
		for _, d := range r.Drivers {
			if d.Slot == slot {
				taken = true
				break
			}
		}
		if !taken {
			break
		}
	}
	d := &Driver{
		ID:      RandId("drv"),
		Name:    name,
		Slot:    slot,
		Session: NewSession(r.tuning, slot, r.Track, r.metrics, r.log, r.Now),
	}
	r.Drivers[d.ID] = d
	return d
}

// RemoveDriverLocked drops a driver. Caller must hold r.Mu.
func (r *Race) RemoveDriverLocked(id string) {
	delete(r.Drivers, id)
}

// TuningLocked returns the tuning new sessions are built with.
// Caller must hold r.Mu.
func (r *Race) TuningLocked() Tuning { return r.tuning }

// SetTuningLocked swaps the tuning for sessions created after this
// call. Caller must hold r.Mu.
func (r *Race) SetTuningLocked(tn Tuning) {
	r.tuning = SanitizeTuning(tn)
}

// Hub owns every live race and hands out references by id.
type Hub struct {
	Races map[string]*Race
	Mu    sync.Mutex

	tuning  Tuning
	metrics *raceMetrics
	log     zerolog.Logger
}

func NewHub(tn Tuning, log zerolog.Logger) (*Hub, error) {
	m, err := newRaceMetrics()
	if err != nil {
		return nil, err
	}
	h := &Hub{
		Races:   map[string]*Race{},
		tuning:  SanitizeTuning(tn),
		metrics: m,
		log:     log,
	}
	if err := registerHubGauges(h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetRace returns the race with this id, creating and starting it on
// first reference.
func (h *Hub) GetRace(id string) *Race {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	r, ok := h.Races[id]
	if !ok {
		r = newRace(id, h.tuning, h.metrics, h.log)
		h.Races[id] = r
		go r.run()
		h.log.Info().Str("race", id).Msg("race created")
	}
	return r
}

// CleanupEmptyRaces stops and drops races with no drivers left.
func (h *Hub) CleanupEmptyRaces() {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	for id, r := range h.Races {
		r.Mu.Lock()
		empty := len(r.Drivers) == 0
		r.Mu.Unlock()
		if empty {
			r.Stop()
			delete(h.Races, id)
			h.log.Info().Str("race", id).Msg("race removed")
		}
	}
}

func RandId(prefix string) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return prefix + "-" + string(b)
}
