// Mission tuning: YAML config loading with CUE schema validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spacehunter/Star-Raiders-sub000/game"
)

// GalaxyConfig sizes the sector grid.
type GalaxyConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// SiegeConfig times the strategic layer.
type SiegeConfig struct {
	IntervalSec    float64 `yaml:"interval_sec"`    // seconds between siege evaluations
	DestructionSec float64 `yaml:"destruction_sec"` // continuous surround time that kills a starbase
}

// SpawnConfig shapes sector-entry materialization.
type SpawnConfig struct {
	MaxLive int     `yaml:"max_live"` // cap on live entities per sector
	BandMin float64 `yaml:"band_min"` // spawn distance band around the player
	BandMax float64 `yaml:"band_max"`
}

// Flight scripts the harness player can run.
const (
	FlightStation = "station"
	FlightCruise  = "cruise"
	FlightWeave   = "weave"
)

// FlightConfig selects the harness player script.
type FlightConfig struct {
	Script       string  `yaml:"script"`         // station, cruise or weave
	SpeedFactor  float64 `yaml:"speed_factor"`   // of fighter base speed
	WarpEverySec float64 `yaml:"warp_every_sec"` // 0 disables scripted warps
	FireEverySec float64 `yaml:"fire_every_sec"` // 0 disables scripted player shots
}

// ShipTuning overrides individual stats of one hostile kind. Nil fields
// keep the stock value.
type ShipTuning struct {
	MaxHealth    *int     `yaml:"max_health"`
	BaseSpeed    *float64 `yaml:"base_speed"`
	MaxAccel     *float64 `yaml:"max_accel"`
	FireInterval *float64 `yaml:"fire_interval"`
	AttackRange  *float64 `yaml:"attack_range"`
	OrbitRadius  *float64 `yaml:"orbit_radius"`
	BandMin      *float64 `yaml:"band_min"`
	BandMax      *float64 `yaml:"band_max"`
}

// ProfileTuning overrides individual difficulty-profile fields of one
// tier. Nil fields keep the stock value.
type ProfileTuning struct {
	FireRateScale          *float64 `yaml:"fire_rate_scale"`
	EvasionChance          *float64 `yaml:"evasion_chance"`
	LeadAccuracy           *float64 `yaml:"lead_accuracy"`
	ShieldRegenChance      *float64 `yaml:"shield_regen_chance"`
	ProvocationSensitivity *float64 `yaml:"provocation_sensitivity"`
	StartProvoked          *bool    `yaml:"start_provoked"`
	FighterBias            *float64 `yaml:"fighter_bias"`
	SiegeSteps             *int     `yaml:"siege_steps"`
}

// Config is the root mission tuning record.
type Config struct {
	Difficulty string                   `yaml:"difficulty"`
	Seed       int64                    `yaml:"seed"` // 0 seeds from the clock
	TickRate   int                      `yaml:"tick_rate"`
	Galaxy     GalaxyConfig             `yaml:"galaxy"`
	Siege      SiegeConfig              `yaml:"siege"`
	Spawn      SpawnConfig              `yaml:"spawn"`
	Flight     FlightConfig             `yaml:"flight"`
	Ships      map[string]ShipTuning    `yaml:"ships"`
	Profiles   map[string]ProfileTuning `yaml:"profiles"`
}

// Default returns the stock mission tuning.
func Default() *Config {
	return &Config{
		Difficulty: "pilot",
		TickRate:   game.TicksPerSecond,
		Galaxy:     GalaxyConfig{Cols: game.GalaxyCols, Rows: game.GalaxyRows},
		Siege:      SiegeConfig{IntervalSec: 30, DestructionSec: 300},
		Spawn:      SpawnConfig{MaxLive: game.MaxSectorHostiles, BandMin: game.SpawnBandMin, BandMax: game.SpawnBandMax},
		Flight:     FlightConfig{Script: FlightWeave, SpeedFactor: 0.8},
	}
}

// Load reads and validates the tuning file, layered over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if err := ValidateWithCue(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Tier resolves the configured difficulty tier.
func (c *Config) Tier() (game.DifficultyTier, error) {
	return game.ParseTier(c.Difficulty)
}

// ShipStats returns the stock stats table with this config's overrides
// applied.
func (c *Config) ShipStats() map[game.HostileKind]game.HostileStats {
	out := make(map[game.HostileKind]game.HostileStats, len(game.HostileData))
	for kind, stats := range game.HostileData {
		if t, ok := c.Ships[kind.String()]; ok {
			applyShipTuning(&stats, t)
		}
		out[kind] = stats
	}
	return out
}

func applyShipTuning(stats *game.HostileStats, t ShipTuning) {
	if t.MaxHealth != nil {
		stats.MaxHealth = *t.MaxHealth
	}
	if t.BaseSpeed != nil {
		stats.BaseSpeed = *t.BaseSpeed
	}
	if t.MaxAccel != nil {
		stats.MaxAccel = *t.MaxAccel
	}
	if t.FireInterval != nil {
		stats.FireInterval = *t.FireInterval
	}
	if t.AttackRange != nil {
		stats.AttackRange = *t.AttackRange
	}
	if t.OrbitRadius != nil {
		stats.OrbitRadius = *t.OrbitRadius
	}
	if t.BandMin != nil {
		stats.BandMin = *t.BandMin
	}
	if t.BandMax != nil {
		stats.BandMax = *t.BandMax
	}
}

// DifficultyProfiles returns the stock profile table with this config's
// overrides applied. Entities share the returned profiles by reference.
func (c *Config) DifficultyProfiles() map[game.DifficultyTier]*game.DifficultyProfile {
	out := make(map[game.DifficultyTier]*game.DifficultyProfile, len(game.Profiles))
	for tier, stock := range game.Profiles {
		p := *stock
		if t, ok := c.Profiles[tier.String()]; ok {
			applyProfileTuning(&p, t)
		}
		out[tier] = &p
	}
	return out
}

func applyProfileTuning(p *game.DifficultyProfile, t ProfileTuning) {
	if t.FireRateScale != nil {
		p.FireRateScale = *t.FireRateScale
	}
	if t.EvasionChance != nil {
		p.EvasionChance = *t.EvasionChance
	}
	if t.LeadAccuracy != nil {
		p.LeadAccuracy = *t.LeadAccuracy
	}
	if t.ShieldRegenChance != nil {
		p.ShieldRegenChance = *t.ShieldRegenChance
	}
	if t.ProvocationSensitivity != nil {
		p.ProvocationSensitivity = *t.ProvocationSensitivity
	}
	if t.StartProvoked != nil {
		p.StartProvoked = *t.StartProvoked
	}
	if t.FighterBias != nil {
		p.FighterBias = *t.FighterBias
	}
	if t.SiegeSteps != nil {
		p.SiegeSteps = *t.SiegeSteps
	}
}

// Validate applies the semantic checks the CUE schema cannot express.
func (c *Config) Validate() error {
	if _, err := game.ParseTier(c.Difficulty); err != nil {
		return err
	}
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("tick_rate %d out of range 1..240", c.TickRate)
	}
	if c.Galaxy.Cols < 4 || c.Galaxy.Cols > 64 || c.Galaxy.Rows < 4 || c.Galaxy.Rows > 64 {
		return fmt.Errorf("galaxy %dx%d out of range 4..64 per side", c.Galaxy.Cols, c.Galaxy.Rows)
	}
	if c.Siege.IntervalSec <= 0 || c.Siege.DestructionSec <= 0 {
		return fmt.Errorf("siege timings must be positive")
	}
	if c.Spawn.MaxLive < 1 || c.Spawn.MaxLive > 32 {
		return fmt.Errorf("spawn max_live %d out of range 1..32", c.Spawn.MaxLive)
	}
	if c.Spawn.BandMin <= 0 || c.Spawn.BandMax <= c.Spawn.BandMin {
		return fmt.Errorf("spawn band [%.0f, %.0f] must satisfy 0 < min < max", c.Spawn.BandMin, c.Spawn.BandMax)
	}
	switch c.Flight.Script {
	case FlightStation, FlightCruise, FlightWeave:
	default:
		return fmt.Errorf("unknown flight script %q", c.Flight.Script)
	}

	for name := range c.Ships {
		if _, err := parseKind(name); err != nil {
			return err
		}
	}
	for name := range c.Profiles {
		if _, err := game.ParseTier(name); err != nil {
			return fmt.Errorf("profiles: %w", err)
		}
	}

	// Applied stats must stay self-consistent: ships may not open fire on
	// targets their shots cannot reach before fusing out.
	for kind, stats := range c.ShipStats() {
		if stats.AttackRange > game.EffectiveShotRangeDefault(stats) {
			return fmt.Errorf("%v attack_range %.0f exceeds effective shot range %.0f",
				kind, stats.AttackRange, game.EffectiveShotRangeDefault(stats))
		}
		if kind == game.KindCruiser && stats.BandMin >= stats.BandMax {
			return fmt.Errorf("cruiser band [%.0f, %.0f] must satisfy min < max", stats.BandMin, stats.BandMax)
		}
	}

	for tier, p := range c.DifficultyProfiles() {
		if p.FireRateScale <= 0 {
			return fmt.Errorf("%v fire_rate_scale must be positive", tier)
		}
		for field, v := range map[string]float64{
			"evasion_chance":          p.EvasionChance,
			"lead_accuracy":           p.LeadAccuracy,
			"shield_regen_chance":     p.ShieldRegenChance,
			"provocation_sensitivity": p.ProvocationSensitivity,
			"fighter_bias":            p.FighterBias,
		} {
			if v < 0 || v > 1 {
				return fmt.Errorf("%v %s %.2f out of range 0..1", tier, field, v)
			}
		}
		if p.SiegeSteps < 0 {
			return fmt.Errorf("%v siege_steps must not be negative", tier)
		}
	}
	return nil
}

func parseKind(s string) (game.HostileKind, error) {
	switch s {
	case "fighter":
		return game.KindFighter, nil
	case "cruiser":
		return game.KindCruiser, nil
	case "basestar":
		return game.KindBasestar, nil
	}
	return game.KindFighter, fmt.Errorf("ships: unknown kind %q", s)
}
