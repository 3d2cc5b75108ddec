package game

import "fmt"

// DifficultyTier selects the mission difficulty.
type DifficultyTier int

const (
	TierNovice DifficultyTier = iota
	TierPilot
	TierWarrior
	TierCommander
)

func (t DifficultyTier) String() string {
	switch t {
	case TierNovice:
		return "novice"
	case TierPilot:
		return "pilot"
	case TierWarrior:
		return "warrior"
	case TierCommander:
		return "commander"
	}
	return "unknown"
}

// ParseTier maps a tier name to its DifficultyTier.
func ParseTier(s string) (DifficultyTier, error) {
	switch s {
	case "novice":
		return TierNovice, nil
	case "pilot":
		return TierPilot, nil
	case "warrior":
		return TierWarrior, nil
	case "commander":
		return TierCommander, nil
	}
	return TierNovice, fmt.Errorf("unknown difficulty tier %q", s)
}

// DifficultyProfile holds the numeric behavior modifiers for one tier.
// Immutable; selected once per mission and shared by reference across all
// entities of that mission.
type DifficultyProfile struct {
	FireRateScale          float64 `yaml:"fire_rate_scale"`         // multiplies FireInterval; lower fires faster
	EvasionChance          float64 `yaml:"evasion_chance"`          // chance a threatened fighter starts a dodge
	LeadAccuracy           float64 `yaml:"lead_accuracy"`           // 0 = direct aim, 1 = full prediction
	ShieldRegenChance      float64 `yaml:"shield_regen_chance"`     // per-tick chance a downed shield returns
	ProvocationSensitivity float64 `yaml:"provocation_sensitivity"` // scales near-miss provocation rolls
	StartProvoked          bool    `yaml:"start_provoked"`          // cruisers spawn already provoked
	FighterBias            float64 `yaml:"fighter_bias"`            // spawn share of fighters vs cruisers
	SiegeSteps             int     `yaml:"siege_steps"`             // migration steps per siege interval; 0 disables the siege
}

// Profiles is the stock difficulty table. The config layer may override
// individual fields per mission.
var Profiles = map[DifficultyTier]*DifficultyProfile{
	TierNovice: {
		FireRateScale:          1.5,
		EvasionChance:          0.15,
		LeadAccuracy:           0.25,
		ShieldRegenChance:      0.002,
		ProvocationSensitivity: 0.1,
		FighterBias:            0.8,
		SiegeSteps:             0,
	},
	TierPilot: {
		FireRateScale:          1.2,
		EvasionChance:          0.3,
		LeadAccuracy:           0.5,
		ShieldRegenChance:      0.004,
		ProvocationSensitivity: 0.3,
		FighterBias:            0.7,
		SiegeSteps:             1,
	},
	TierWarrior: {
		FireRateScale:          0.9,
		EvasionChance:          0.5,
		LeadAccuracy:           0.75,
		ShieldRegenChance:      0.007,
		ProvocationSensitivity: 0.6,
		FighterBias:            0.6,
		SiegeSteps:             2,
	},
	TierCommander: {
		FireRateScale:          0.7,
		EvasionChance:          0.7,
		LeadAccuracy:           1.0,
		ShieldRegenChance:      0.01,
		ProvocationSensitivity: 0.9,
		StartProvoked:          true,
		FighterBias:            0.5,
		SiegeSteps:             3,
	},
}
