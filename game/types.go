package game

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Simulation constants
const (
	// Galaxy dimensions (sector grid)
	GalaxyCols = 16
	GalaxyRows = 8

	// Sector combat space extents, world units. Entities live in a
	// player-relative frame centered on the player anchor.
	SectorExtent = 1200.0

	// Game timing
	TicksPerSecond = 60
	UpdateInterval = time.Second / TicksPerSecond

	// MaxTickDelta caps the delta handed to any component in one tick.
	// Large real-time stalls must not turn into one giant sim step.
	MaxTickDelta = 0.1

	// Spawn placement band around the player anchor, world units
	SpawnBandMin = 260.0
	SpawnBandMax = 420.0

	// MaxSectorHostiles limits how many abstract units materialize as
	// live entities when a sector is entered.
	MaxSectorHostiles = 8

	// NearMissRadius is how close a player shot must pass to count as a
	// near miss for cruiser provocation.
	NearMissRadius = 18.0

	// Honing window armed on sector entry
	HoningDuration = 6.0

	// HoningSpeedFactor boosts base speed while honing in.
	HoningSpeedFactor = 1.1

	// Evasion window (fighters)
	EvadeDurationMin  = 0.8
	EvadeDurationMax  = 1.2
	EvadeSpeedFactor  = 1.5
	EvadeOffsetRadius = 90.0
	EvadeArriveRadius = 12.0

	// Alert ranges, world units
	RedAlertRange = 300.0

	// Player collaborator hull and hit cross-section
	PlayerMaxHull = 100
	PlayerRadius  = 14.0

	// Player collaborator weapon
	PlayerShotSpeed  = 300.0
	PlayerShotDamage = 10
	PlayerShotFuse   = 2.0
	PlayerShotRadius = 2.5
)

// HostileKind identifies one of the three hostile ship classes.
type HostileKind int

const (
	KindFighter HostileKind = iota
	KindCruiser
	KindBasestar
)

func (k HostileKind) String() string {
	switch k {
	case KindFighter:
		return "fighter"
	case KindCruiser:
		return "cruiser"
	case KindBasestar:
		return "basestar"
	}
	return "unknown"
}

// BehaviorState is the base state of the per-entity machine. Idle exists
// only as a fallback for kinds with no patrol routine.
type BehaviorState int

const (
	StateIdle BehaviorState = iota
	StatePatrol
	StateAttack
)

func (s BehaviorState) String() string {
	switch s {
	case StatePatrol:
		return "patrol"
	case StateAttack:
		return "attack"
	}
	return "idle"
}

// HostileStats holds the per-kind specifications and tuning values.
// All distances are world units, all times seconds, speeds units/second.
type HostileStats struct {
	Name            string
	MaxHealth       int
	BaseSpeed       float64
	MaxAccel        float64 // velocity may change by at most this per second
	FireInterval    float64 // base seconds between shots, before difficulty scaling
	AttackRange     float64
	CollisionRadius float64
	ProjSpeed       float64
	ProjDamage      int
	ProjFuse        float64 // projectile lifetime in seconds
	ProjRadius      float64
	PointValue      int
	HasShield       bool
	HoningArrive    float64 // honing clears inside this distance

	// Fighter tuning
	OrbitRadius float64
	OrbitSlack  float64 // beyond radius+slack, close directly instead of orbiting
	OrbitRate   float64 // orbital angular speed, radians/second
	WeaveAmp    float64 // lateral weave amplitude while closing
	WeaveRate   float64 // weave phase advance, radians/second

	// Cruiser tuning
	BandMin        float64 // preferred standoff band while attacking
	BandMax        float64
	StrafeFactor   float64 // speed fraction while strafing inside the band
	WaypointPause  float64 // seconds to hold at each patrol waypoint
	WaypointRadius float64 // arrival distance for a waypoint

	// Basestar tuning
	RotRate        float64 // radians/second with shield up
	RotRateExposed float64 // radians/second with shield down
}

// HostileData holds the stock specifications for each hostile kind.
// Values are tuning data; the config layer may override them per mission.
var HostileData = map[HostileKind]HostileStats{
	KindFighter: {
		Name:            "Zylon Fighter",
		MaxHealth:       20,
		BaseSpeed:       55,
		MaxAccel:        90,
		FireInterval:    1.1,
		AttackRange:     90,
		CollisionRadius: 6,
		ProjSpeed:       240,
		ProjDamage:      4,
		ProjFuse:        2.0,
		ProjRadius:      2,
		PointValue:      80,
		HoningArrive:    70,
		OrbitRadius:     60,
		OrbitSlack:      45,
		OrbitRate:       1.6,
		WeaveAmp:        22,
		WeaveRate:       3.5,
	},
	KindCruiser: {
		Name:            "Patrol Cruiser",
		MaxHealth:       45,
		BaseSpeed:       32,
		MaxAccel:        40,
		FireInterval:    1.6,
		AttackRange:     170,
		CollisionRadius: 10,
		ProjSpeed:       200,
		ProjDamage:      7,
		ProjFuse:        2.5,
		ProjRadius:      3,
		PointValue:      150,
		HoningArrive:    150,
		BandMin:         110,
		BandMax:         200,
		StrafeFactor:    0.45,
		WaypointPause:   1.5,
		WaypointRadius:  12,
	},
	KindBasestar: {
		Name:            "Zylon Basestar",
		MaxHealth:       120,
		BaseSpeed:       0,
		MaxAccel:        0, // basestars never translate
		FireInterval:    0.9,
		AttackRange:     260,
		CollisionRadius: 26,
		ProjSpeed:       180,
		ProjDamage:      10,
		ProjFuse:        3.0,
		ProjRadius:      4,
		PointValue:      400,
		HasShield:       true,
		HoningArrive:    0,
		RotRate:         0.4,
		RotRateExposed:  1.1,
	},
}

// FighterState is the fighter variant payload.
type FighterState struct {
	OrbitAngle float64 // current angle on the strafe orbit
	OrbitDir   float64 // +1 or -1, flips rarely and randomly
	WeavePhase float64
}

// CruiserState is the cruiser variant payload.
type CruiserState struct {
	Waypoints   []Vec2 // closed patrol polyline, generated once at spawn
	WaypointIdx int
	PauseLeft   float64
	Provoked    bool // one-way: never reverts once set
}

// BasestarState is the basestar variant payload.
type BasestarState struct {
	RotationPhase float64
}

// Hostile is one live enemy ship. Exactly one of the variant payloads is
// meaningful, selected by Kind.
type Hostile struct {
	ID    string       `json:"id"` // render handle, opaque to the core
	Kind  HostileKind  `json:"kind"`
	Stats HostileStats `json:"-"` // snapshot taken at spawn

	// Combat state
	Health       int     `json:"health"`
	MaxHealth    int     `json:"maxHealth"`
	Alive        bool    `json:"alive"`
	HasShield    bool    `json:"hasShield"`
	ShieldUp     bool    `json:"shieldUp"`
	LastFireTime float64 `json:"-"`

	// Kinematic state
	Pos     Vec2 `json:"pos"`
	Vel     Vec2 `json:"vel"`
	Desired Vec2 `json:"-"`

	// Timed mode overrides, evaluated before the base state machine
	HoningIn   bool          `json:"-"`
	HoningLeft float64       `json:"-"`
	Evading    bool          `json:"-"`
	EvadeLeft  float64       `json:"-"`
	EvadePoint Vec2          `json:"-"`
	State      BehaviorState `json:"state"`

	// Lead-aim bookkeeping
	LastTargetPos Vec2 `json:"-"`
	SeenTarget    bool `json:"-"`
	EstTargetVel  Vec2 `json:"-"`

	// Variant payloads
	Fighter  FighterState  `json:"-"`
	Cruiser  CruiserState  `json:"-"`
	Basestar BasestarState `json:"-"`

	// Occupancy released back to this sector when the ship dies
	SectorX int `json:"-"`
	SectorY int `json:"-"`
}

// NewHostile creates a live hostile of the given kind at a spawn position.
// The stats snapshot is taken at creation so later config changes leave
// live entities alone. The rng seeds per-entity randomization: cruiser
// patrol shape, fighter orbit direction and weave phase. Honing is armed
// because creation happens on sector entry; ArmHoning re-arms it on
// re-entry.
func NewHostile(kind HostileKind, pos Vec2, stats HostileStats, profile *DifficultyProfile, rng *rand.Rand) *Hostile {
	h := &Hostile{
		ID:        uuid.NewString(),
		Kind:      kind,
		Stats:     stats,
		Health:    stats.MaxHealth,
		MaxHealth: stats.MaxHealth,
		Alive:     true,
		HasShield: stats.HasShield,
		ShieldUp:  stats.HasShield,
		Pos:       pos,
		State:     StatePatrol,
	}

	switch kind {
	case KindFighter:
		h.Fighter.OrbitDir = 1
		if rng.Intn(2) == 0 {
			h.Fighter.OrbitDir = -1
		}
		h.Fighter.WeavePhase = rng.Float64() * 2 * math.Pi
	case KindCruiser:
		h.Cruiser.Waypoints = figureEightWaypoints(pos, rng)
		if profile != nil && profile.StartProvoked {
			h.Cruiser.Provoked = true
		}
	case KindBasestar:
		h.State = StateIdle
		h.Basestar.RotationPhase = rng.Float64() * 2 * math.Pi
	}

	h.ArmHoning()
	return h
}

// ArmHoning starts the aggressive-approach window. Basestars never move,
// so the window is pointless for them.
func (h *Hostile) ArmHoning() {
	if h.Kind == KindBasestar {
		return
	}
	h.HoningIn = true
	h.HoningLeft = HoningDuration
}

// figureEightWaypoints samples a closed 6-point figure-8 polyline around
// the given center, with lobe sizes jittered per entity.
func figureEightWaypoints(center Vec2, rng *rand.Rand) []Vec2 {
	a := 100 * (0.8 + 0.4*rng.Float64())
	b := 65 * (0.8 + 0.4*rng.Float64())
	tilt := rng.Float64() * 2 * math.Pi
	cos, sin := math.Cos(tilt), math.Sin(tilt)

	pts := make([]Vec2, 6)
	for i := range pts {
		t := float64(i) / 6 * 2 * math.Pi
		x := a * math.Sin(t)
		y := b * math.Sin(t) * math.Cos(t)
		pts[i] = Vec2{
			X: center.X + x*cos - y*sin,
			Y: center.Y + x*sin + y*cos,
		}
	}
	return pts
}

// Projectile is a live shot. Hostile shots damage the player collaborator;
// player shots (injected through the resolver) damage hostiles and drive
// near-miss provocation.
type Projectile struct {
	ID         int     `json:"id"`
	Owner      string  `json:"owner"` // hostile render handle, or "player"
	FromPlayer bool    `json:"fromPlayer"`
	Pos        Vec2    `json:"pos"`
	Vel        Vec2    `json:"vel"`
	Radius     float64 `json:"-"`
	Damage     int     `json:"-"`
	FuseLeft   float64 `json:"-"`
	Alive      bool    `json:"alive"`

	// Near-miss provocation rolls already taken against cruisers,
	// keyed by hostile ID. At most one roll per projectile per cruiser.
	rolled map[string]bool
}

// RolledAgainst reports whether this projectile already took its near-miss
// provocation roll against the given hostile, marking it taken.
func (p *Projectile) RolledAgainst(id string) bool {
	if p.rolled == nil {
		p.rolled = make(map[string]bool)
	}
	if p.rolled[id] {
		return true
	}
	p.rolled[id] = true
	return false
}

// AlertLevel mirrors the classic condition display.
type AlertLevel int

const (
	AlertGreen AlertLevel = iota
	AlertYellow
	AlertRed
)

func (a AlertLevel) String() string {
	switch a {
	case AlertYellow:
		return "yellow"
	case AlertRed:
		return "red"
	}
	return "green"
}

// MissionStatus tracks the overall mission outcome.
type MissionStatus int

const (
	MissionActive MissionStatus = iota
	MissionWon
	MissionLost
)

func (m MissionStatus) String() string {
	switch m {
	case MissionWon:
		return "won"
	case MissionLost:
		return "lost"
	}
	return "active"
}

// PlayerState is the observable state of the player collaborator. The
// world is player-relative: Pos stays near the origin and Displacement is
// the frame translation applied to world objects each tick.
type PlayerState struct {
	Pos          Vec2 `json:"pos"`
	Forward      Vec2 `json:"forward"`
	Displacement Vec2 `json:"-"` // this tick's frame translation
	SectorX      int  `json:"sectorX"`
	SectorY      int  `json:"sectorY"`
	Hull         int  `json:"hull"`
	MaxHull      int  `json:"maxHull"`
}

// GameState is the root simulation state. The mutex guards access from the
// observer bridge; the engine goroutine holds the write lock for each tick.
type GameState struct {
	Mu sync.RWMutex `json:"-"`

	Hostiles []*Hostile    `json:"hostiles"`
	Shots    []*Projectile `json:"shots"`
	Grid     *SectorGrid   `json:"grid"`
	Siege    SiegeState    `json:"siege"`
	Player   PlayerState   `json:"player"`

	Tier    DifficultyTier     `json:"tier"`
	Profile *DifficultyProfile `json:"-"`

	Frame  int64         `json:"frame"`
	Time   float64       `json:"time"` // simulated seconds since mission start
	Alert  AlertLevel    `json:"alert"`
	Status MissionStatus `json:"status"`
	Score  int           `json:"score"`

	// Index of the current target in Hostiles, -1 when none
	TargetIdx int `json:"targetIdx"`

	NextShotID int `json:"-"`
}

// NewGameState creates an empty mission state at the given difficulty.
func NewGameState(tier DifficultyTier) *GameState {
	gs := &GameState{
		Grid:      NewSectorGrid(GalaxyCols, GalaxyRows),
		Tier:      tier,
		Profile:   Profiles[tier],
		TargetIdx: -1,
	}
	gs.Player.Hull = PlayerMaxHull
	gs.Player.MaxHull = PlayerMaxHull
	return gs
}

// ActiveHostiles counts roster entries still alive.
func (gs *GameState) ActiveHostiles() int {
	n := 0
	for _, h := range gs.Hostiles {
		if h.Alive {
			n++
		}
	}
	return n
}
