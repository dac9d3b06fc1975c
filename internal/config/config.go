// Package config loads arena settings through viper.
package config

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Garsondee/Snipe-Slash/internal/game"
)

// FileName is the config base name; any extension viper understands works
// (snipe_slash.cfg.yaml, snipe_slash.cfg.json, ...).
const FileName = "snipe_slash.cfg"

// Layout names accepted by arena.layout.
const (
	LayoutClassic = "classic"
	LayoutRandom  = "random"
)

// ErrUnknownLayout is returned for an arena.layout value that is not a layout.
var ErrUnknownLayout = errors.New("unknown arena layout")

// SpawnEntry is one arena.spawns item.
type SpawnEntry struct {
	Kind     string    `json:"kind" mapstructure:"kind"`
	Position []float64 `json:"position" mapstructure:"position"`
}

// Load sets default values and reads the config file from configDir if
// there is one. A missing file is not an error; a malformed one is.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")
	viper.SetDefault("seed", 1)
	viper.SetDefault("tickRate", 60)

	viper.SetDefault("arena.layout", LayoutClassic)
	viper.SetDefault("arena.randomCount", 7)
	viper.SetDefault("arena.spawns", []SpawnEntry{})

	viper.SetDefault("assets.dir", "./assets")
	viper.SetDefault("assets.names", game.ModelNames())

	viper.SetDefault("report.runs", 10)
	viper.SetDefault("report.duration", "90s")

	viper.SetDefault("telemetry.enabled", true)

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Tuning decodes the tuning section over the shipped defaults and validates
// the result. Keys left out keep their default.
func Tuning() (game.Tuning, error) {
	tun := game.DefaultTuning()
	if err := viper.UnmarshalKey("tuning", &tun); err != nil {
		return game.Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if err := tun.Validate(); err != nil {
		return game.Tuning{}, err
	}
	return tun, nil
}

// Spawns returns the arena's starting enemies. An explicit arena.spawns list
// wins over arena.layout; rng feeds the random layout.
func Spawns(rng *rand.Rand) ([]game.SpawnSpec, error) {
	var entries []SpawnEntry
	if err := viper.UnmarshalKey("arena.spawns", &entries); err != nil {
		return nil, fmt.Errorf("decode arena.spawns: %w", err)
	}
	if len(entries) > 0 {
		out := make([]game.SpawnSpec, 0, len(entries))
		for i, e := range entries {
			kind, err := game.ParseEnemyKind(e.Kind)
			if err != nil {
				return nil, fmt.Errorf("arena.spawns[%d]: %w", i, err)
			}
			if len(e.Position) != 3 {
				return nil, fmt.Errorf("arena.spawns[%d]: position needs 3 components, got %d", i, len(e.Position))
			}
			out = append(out, game.SpawnSpec{Kind: kind, Position: game.Vec3{X: e.Position[0], Y: e.Position[1], Z: e.Position[2]}})
		}
		return out, nil
	}

	switch layout := strings.ToLower(viper.GetString("arena.layout")); layout {
	case LayoutClassic, "":
		return game.ClassicLayout(), nil
	case LayoutRandom:
		return game.RandomLayout(rng, viper.GetInt("arena.randomCount")), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetStringSlice returns a string list config value.
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}
