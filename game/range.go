package game

// DefaultShotSafety is the default safety margin on effective shot range,
// keeping shots inside their fuse with room for target movement and
// aiming error.
const DefaultShotSafety = 0.85

// MaxShotRange returns the absolute distance a shot can fly before its
// fuse expires.
func MaxShotRange(stats HostileStats) float64 {
	return stats.ProjSpeed * stats.ProjFuse
}

// EffectiveShotRange returns MaxShotRange scaled by a safety margin so a
// hostile only fires when a hit is reasonably possible.
func EffectiveShotRange(stats HostileStats, safetyMargin float64) float64 {
	return MaxShotRange(stats) * safetyMargin
}

// EffectiveShotRangeDefault returns the effective shot range with the
// default safety margin.
func EffectiveShotRangeDefault(stats HostileStats) float64 {
	return EffectiveShotRange(stats, DefaultShotSafety)
}
