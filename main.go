package main

import (
	"flag"
	"math"

	"NitroRally/internal/logging"
	"NitroRally/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")
	configPath := flag.String("config", "configs/world.json", "path to world tuning JSON")
	logLevel := flag.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	crashMin := flag.Float64("crash-min", math.NaN(), "override minimum impact force in newtons")
	crashMajor := flag.Float64("crash-major", math.NaN(), "override major crash threshold in newtons")
	crashCat := flag.Float64("crash-cat", math.NaN(), "override catastrophic crash threshold in newtons")
	crashLanding := flag.Float64("crash-landing", math.NaN(), "override hard landing vertical speed in m/s")
	crashLandingCat := flag.Float64("crash-landing-cat", math.NaN(), "override catastrophic landing vertical speed in m/s")
	crashGrace := flag.Float64("crash-grace", math.NaN(), "override post-spawn detection grace in seconds")
	crashCooldown := flag.Float64("crash-cooldown", math.NaN(), "override per-crash cooldown in seconds")
	replayKeep := flag.Float64("replay-keep", math.NaN(), "override recorded history window in seconds")
	replayLookback := flag.Float64("replay-lookback", math.NaN(), "override replay lookback before impact in seconds")
	replayMax := flag.Float64("replay-max", math.NaN(), "override maximum replay duration in seconds")
	flag.Parse()

	log := logging.Setup(*logLevel)

	cfg := server.DefaultAppConfig()
	cfg.TuningConfigPath = *configPath

	var crash server.CrashParamOverrides

	if !math.IsNaN(*crashMin) {
		val := *crashMin
		crash.MinImpactN = &val
	}
	if !math.IsNaN(*crashMajor) {
		val := *crashMajor
		crash.MajorN = &val
	}
	if !math.IsNaN(*crashCat) {
		val := *crashCat
		crash.CatastrophicN = &val
	}
	if !math.IsNaN(*crashLanding) {
		val := *crashLanding
		crash.LandingVy = &val
	}
	if !math.IsNaN(*crashLandingCat) {
		val := *crashLandingCat
		crash.LandingCatVy = &val
	}
	if !math.IsNaN(*crashGrace) {
		val := *crashGrace
		crash.GraceS = &val
	}
	if !math.IsNaN(*crashCooldown) {
		val := *crashCooldown
		crash.CooldownS = &val
	}

	var replay server.ReplayParamOverrides

	if !math.IsNaN(*replayKeep) {
		val := *replayKeep
		replay.KeepS = &val
	}
	if !math.IsNaN(*replayLookback) {
		val := *replayLookback
		replay.LookbackS = &val
	}
	if !math.IsNaN(*replayMax) {
		val := *replayMax
		replay.MaxS = &val
	}

	cfg.CrashOverrides = crash
	cfg.ReplayOverrides = replay

	server.StartApp(*addr, cfg, log)
}
