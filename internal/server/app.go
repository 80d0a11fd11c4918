package server

import (
	"time"

	"github.com/rs/zerolog"

	. "NitroRally/internal/game"
)

type AppConfig struct {
	TuningConfigPath string
	CrashOverrides   CrashParamOverrides
	ReplayOverrides  ReplayParamOverrides
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		TuningConfigPath: "configs/world.json",
	}
}

func resolveTuning(cfg AppConfig, log zerolog.Logger) Tuning {
	tn := DefaultTuning()
	loaded, err := loadTuningFromFile(cfg.TuningConfigPath, tn)
	if err != nil {
		log.Warn().Err(err).Msg("tuning config unreadable, using defaults")
	} else {
		tn = loaded
	}
	tn.Crash = cfg.CrashOverrides.apply(tn.Crash)
	tn.Replay = cfg.ReplayOverrides.apply(tn.Replay)
	return SanitizeTuning(tn)
}

func StartApp(addr string, cfg AppConfig, log zerolog.Logger) {
	tuning := resolveTuning(cfg, log)
	hub, err := NewHub(tuning, log)
	if err != nil {
		log.Fatal().Err(err).Msg("hub init failed")
	}

	// Periodic cleanup of empty races (every 60 seconds)
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			hub.CleanupEmptyRaces()
		}
	}()

	log.Info().
		Float64("crashMin", tuning.Crash.MinImpactN).
		Float64("replayLookback", tuning.Replay.LookbackS).
		Float64("replayMax", tuning.Replay.MaxS).
		Msg("starting race server")
	if err := startServer(hub, log, addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
