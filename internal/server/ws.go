package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	. "NitroRally/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMsg is the single inbound message shape. Type selects which
// fields matter.
type wsMsg struct {
	Type     string  `json:"type"`
	Name     string  `json:"name,omitempty"`
	Throttle float64 `json:"throttle,omitempty"`
	Brake    float64 `json:"brake,omitempty"`
	Steer    float64 `json:"steer,omitempty"`
}

type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func parseFloatOverride(values url.Values, key string) (*float64, bool) {
	raw := values.Get(key)
	if raw == "" {
		return nil, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &val, true
}

func parseCrashOverrides(values url.Values) (CrashParamOverrides, bool) {
	var overrides CrashParamOverrides
	var found bool

	if v, ok := parseFloatOverride(values, "crashMin"); ok {
		overrides.MinImpactN = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "crashMajor"); ok {
		overrides.MajorN = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "crashCat"); ok {
		overrides.CatastrophicN = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "crashLanding"); ok {
		overrides.LandingVy = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "crashLandingCat"); ok {
		overrides.LandingCatVy = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "crashGrace"); ok {
		overrides.GraceS = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "crashCooldown"); ok {
		overrides.CooldownS = v
		found = true
	}
	return overrides, found
}

func parseReplayOverrides(values url.Values) (ReplayParamOverrides, bool) {
	var overrides ReplayParamOverrides
	var found bool

	if v, ok := parseFloatOverride(values, "replayKeep"); ok {
		overrides.KeepS = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "replayLookback"); ok {
		overrides.LookbackS = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "replayMax"); ok {
		overrides.MaxS = v
		found = true
	}
	return overrides, found
}

type liveConn struct {
	conn     *websocket.Conn
	sendTick *time.Ticker
}

func serveWS(h *Hub, log zerolog.Logger, w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	raceID := query.Get("race")
	if raceID == "" {
		raceID = "default"
	}
	name := strings.TrimSpace(query.Get("name"))
	if name == "" {
		name = "Anon"
	}

	crashOverrides, hasCrashOverrides := parseCrashOverrides(query)
	replayOverrides, hasReplayOverrides := parseReplayOverrides(query)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	lc := &liveConn{
		conn:     conn,
		sendTick: time.NewTicker(time.Duration(1000.0/UpdateRateHz) * time.Millisecond),
	}

	race := h.GetRace(raceID)

	race.Mu.Lock()
	// The first driver in may retune the race before any session exists.
	if len(race.Drivers) == 0 && (hasCrashOverrides || hasReplayOverrides) {
		tn := race.TuningLocked()
		tn.Crash = crashOverrides.apply(tn.Crash)
		tn.Replay = replayOverrides.apply(tn.Replay)
		race.SetTuningLocked(tn)
		log.Info().
			Str("race", race.ID).
			Float64("crashMin", tn.Crash.MinImpactN).
			Float64("replayMax", tn.Replay.MaxS).
			Msg("race tuning overridden")
	}
	driver := race.AddDriverLocked(name)
	race.Mu.Unlock()

	if driver == nil {
		_ = conn.WriteJSON(errorMsg{Type: "race_full", Message: "race full"})
		conn.Close()
		return
	}
	driverID := driver.ID
	log.Info().Str("race", race.ID).Str("driver", driverID).Str("name", name).Msg("driver joined")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg wsMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Debug().Err(err).Msg("invalid message")
				continue
			}
			switch msg.Type {
			case "join":
				race.Mu.Lock()
				if d := race.Drivers[driverID]; d != nil {
					trimmed := strings.TrimSpace(msg.Name)
					if trimmed != "" {
						d.Name = trimmed
					}
				}
				race.Mu.Unlock()
			case "input":
				race.Mu.Lock()
				if d := race.Drivers[driverID]; d != nil {
					d.Session.SetInput(DriverInput{
						Throttle: msg.Throttle,
						Brake:    msg.Brake,
						Steer:    msg.Steer,
					})
				}
				race.Mu.Unlock()
			case "skip_replay":
				race.Mu.Lock()
				if d := race.Drivers[driverID]; d != nil {
					d.Session.RequestSkip()
				}
				race.Mu.Unlock()
			case "reset":
				race.Mu.Lock()
				if d := race.Drivers[driverID]; d != nil {
					d.Session.Reset()
				}
				race.Mu.Unlock()
			default:
				log.Debug().Str("type", msg.Type).Msg("unknown message type")
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-lc.sendTick.C:
				race.Mu.Lock()
				d := race.Drivers[driverID]
				if d == nil {
					race.Mu.Unlock()
					return
				}
				msg := stateMsg{
					Type:   "state",
					Now:    race.Now,
					Me:     vehicleToDTO(d, true),
					Camera: cameraToDTO(d.Session),
					Replay: replayToDTO(d.Session),
					Crash:  crashToDTO(d.Session),
					Meta: raceMeta{
						Track:   race.Track.Name,
						HalfW:   race.Track.HalfW,
						HalfL:   race.Track.HalfL,
						Drivers: len(race.Drivers),
					},
				}
				for id, other := range race.Drivers {
					if id == driverID {
						continue
					}
					msg.Others = append(msg.Others, vehicleToDTO(other, false))
				}
				race.Mu.Unlock()

				if err := conn.WriteJSON(msg); err != nil {
					log.Debug().Err(err).Msg("send failed")
					return
				}
			}
		}
	}()

	<-ctx.Done()
	lc.sendTick.Stop()
	conn.Close()

	race.Mu.Lock()
	race.RemoveDriverLocked(driverID)
	race.Mu.Unlock()
	log.Info().Str("race", race.ID).Str("driver", driverID).Msg("driver left")
}
