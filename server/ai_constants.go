package server

// AI Constants for Hostile Behavior
// These constants control aspects of hostile AI behavior that are engine
// tuning rather than per-kind ship data or per-tier difficulty modifiers.
// Centralizing these values makes the AI more maintainable and allows for
// easier tuning and testing.

const (
	// Orbit-Strafe Control (Fighter / ATTACK)
	// These control how fighters hold their strafing orbit around the target
	OrbitFlipChance = 0.08 // Per-second chance the orbit direction flips
	OrbitRadialGain = 1.2  // Radial correction speed per unit of radius error

	// Aim Error
	// Angular jitter applied to hostile fire, shrinking as lead accuracy
	// rises so the hardest tiers shoot nearly true
	BaseAimJitter = 0.12 // Radians of maximum aim error at zero lead accuracy

	// Materialization Thresholds
	// These control how abstract chart units become live entities
	BasestarGroupSize = 4      // Cell count at which a group materializes a basestar
	DematRange        = 2400.0 // Entities farther than this from the anchor dissolve back into the chart

	// Siege Scoring Weights
	Ring2Weight = 0.5 // Contribution of Manhattan-distance-2 cells to siege target scores

	// Scoring
	StarbaseLossPenalty = 500 // Score deduction when a besieged starbase falls

	// Sentinel Values
	MaxSearchDistance = 999999.0 // Sentinel for "no target found" in nearest-object searches
)
