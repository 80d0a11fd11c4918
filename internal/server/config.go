package server

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"

	. "NitroRally/internal/game"
)

type crashConfig struct {
	MinImpactN    *float64 `mapstructure:"minImpactN"`
	MajorN        *float64 `mapstructure:"majorN"`
	CatastrophicN *float64 `mapstructure:"catastrophicN"`
	LandingVy     *float64 `mapstructure:"landingVy"`
	LandingCatVy  *float64 `mapstructure:"landingCatVy"`
	GraceS        *float64 `mapstructure:"graceS"`
	CooldownS     *float64 `mapstructure:"cooldownS"`
}

type cameraConfig struct {
	WideDist      *float64 `mapstructure:"wideDist"`
	WideHeight    *float64 `mapstructure:"wideHeight"`
	CloseDist     *float64 `mapstructure:"closeDist"`
	CloseHeight   *float64 `mapstructure:"closeHeight"`
	Stage1Frac    *float64 `mapstructure:"stage1Frac"`
	Stage2Frac    *float64 `mapstructure:"stage2Frac"`
	ZoomStartFrac *float64 `mapstructure:"zoomStartFrac"`
	ZoomEndFrac   *float64 `mapstructure:"zoomEndFrac"`
	ZoomPunch     *float64 `mapstructure:"zoomPunch"`
	OrbitTurns    *float64 `mapstructure:"orbitTurns"`
	Damping       *float64 `mapstructure:"damping"`
	FocalLift     *float64 `mapstructure:"focalLift"`
}

type replayConfig struct {
	KeepS     *float64 `mapstructure:"keepS"`
	LookbackS *float64 `mapstructure:"lookbackS"`
	MaxS      *float64 `mapstructure:"maxS"`
}

type worldConfig struct {
	Crash  *crashConfig  `mapstructure:"crash"`
	Camera *cameraConfig `mapstructure:"camera"`
	Replay *replayConfig `mapstructure:"replay"`
}

// CrashParamOverrides represents optional command-line overrides for
// detector thresholds.
type CrashParamOverrides struct {
	MinImpactN    *float64
	MajorN        *float64
	CatastrophicN *float64
	LandingVy     *float64
	LandingCatVy  *float64
	GraceS        *float64
	CooldownS     *float64
}

func (o CrashParamOverrides) apply(base CrashParams) CrashParams {
	if o.MinImpactN != nil {
		base.MinImpactN = *o.MinImpactN
	}
	if o.MajorN != nil {
		base.MajorN = *o.MajorN
	}
	if o.CatastrophicN != nil {
		base.CatastrophicN = *o.CatastrophicN
	}
	if o.LandingVy != nil {
		base.LandingVy = *o.LandingVy
	}
	if o.LandingCatVy != nil {
		base.LandingCatVy = *o.LandingCatVy
	}
	if o.GraceS != nil {
		base.GraceS = *o.GraceS
	}
	if o.CooldownS != nil {
		base.CooldownS = *o.CooldownS
	}
	return SanitizeCrashParams(base)
}

// ReplayParamOverrides represents optional command-line overrides for
// the replay window.
type ReplayParamOverrides struct {
	KeepS     *float64
	LookbackS *float64
	MaxS      *float64
}

func (o ReplayParamOverrides) apply(base ReplayParams) ReplayParams {
	if o.KeepS != nil {
		base.KeepS = *o.KeepS
	}
	if o.LookbackS != nil {
		base.LookbackS = *o.LookbackS
	}
	if o.MaxS != nil {
		base.MaxS = *o.MaxS
	}
	return SanitizeReplayParams(base)
}

func mergeCrashConfig(base CrashParams, cfg *crashConfig) CrashParams {
	if cfg == nil {
		return base
	}
	if cfg.MinImpactN != nil {
		base.MinImpactN = *cfg.MinImpactN
	}
	if cfg.MajorN != nil {
		base.MajorN = *cfg.MajorN
	}
	if cfg.CatastrophicN != nil {
		base.CatastrophicN = *cfg.CatastrophicN
	}
	if cfg.LandingVy != nil {
		base.LandingVy = *cfg.LandingVy
	}
	if cfg.LandingCatVy != nil {
		base.LandingCatVy = *cfg.LandingCatVy
	}
	if cfg.GraceS != nil {
		base.GraceS = *cfg.GraceS
	}
	if cfg.CooldownS != nil {
		base.CooldownS = *cfg.CooldownS
	}
	return base
}

func mergeCameraConfig(base CameraParams, cfg *cameraConfig) CameraParams {
	if cfg == nil {
		return base
	}
	if cfg.WideDist != nil {
		base.WideDist = *cfg.WideDist
	}
	if cfg.WideHeight != nil {
		base.WideHeight = *cfg.WideHeight
	}
	if cfg.CloseDist != nil {
		base.CloseDist = *cfg.CloseDist
	}
	if cfg.CloseHeight != nil {
		base.CloseHeight = *cfg.CloseHeight
	}
	if cfg.Stage1Frac != nil {
		base.Stage1Frac = *cfg.Stage1Frac
	}
	if cfg.Stage2Frac != nil {
		base.Stage2Frac = *cfg.Stage2Frac
	}
	if cfg.ZoomStartFrac != nil {
		base.ZoomStartFrac = *cfg.ZoomStartFrac
	}
	if cfg.ZoomEndFrac != nil {
		base.ZoomEndFrac = *cfg.ZoomEndFrac
	}
	if cfg.ZoomPunch != nil {
		base.ZoomPunch = *cfg.ZoomPunch
	}
	if cfg.OrbitTurns != nil {
		base.OrbitTurns = *cfg.OrbitTurns
	}
	if cfg.Damping != nil {
		base.Damping = *cfg.Damping
	}
	if cfg.FocalLift != nil {
		base.FocalLift = *cfg.FocalLift
	}
	return base
}

func mergeReplayConfig(base ReplayParams, cfg *replayConfig) ReplayParams {
	if cfg == nil {
		return base
	}
	if cfg.KeepS != nil {
		base.KeepS = *cfg.KeepS
	}
	if cfg.LookbackS != nil {
		base.LookbackS = *cfg.LookbackS
	}
	if cfg.MaxS != nil {
		base.MaxS = *cfg.MaxS
	}
	return base
}

func mergeWorldConfig(base Tuning, cfg worldConfig) Tuning {
	base.Crash = mergeCrashConfig(base.Crash, cfg.Crash)
	base.Camera = mergeCameraConfig(base.Camera, cfg.Camera)
	base.Replay = mergeReplayConfig(base.Replay, cfg.Replay)
	return SanitizeTuning(base)
}

// loadTuningFromFile overlays a JSON tuning file onto base. A missing
// file is not an error; the base tuning is returned unchanged.
func loadTuningFromFile(path string, base Tuning) (Tuning, error) {
	if path == "" {
		return SanitizeTuning(base), nil
	}
	cleanPath := filepath.Clean(path)

	v := viper.New()
	v.SetConfigFile(cleanPath)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return SanitizeTuning(base), nil
		}
		return SanitizeTuning(base), fmt.Errorf("read tuning config %q: %w", cleanPath, err)
	}

	var cfg worldConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SanitizeTuning(base), fmt.Errorf("parse tuning config %q: %w", cleanPath, err)
	}
	return mergeWorldConfig(base, cfg), nil
}
