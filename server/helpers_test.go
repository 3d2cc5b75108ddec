package server

import (
	"io"
	"log/slog"
	"math/rand"

	"github.com/spacehunter/Star-Raiders-sub000/config"
	"github.com/spacehunter/Star-Raiders-sub000/game"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// newTestServer builds an engine with a fixed seed, a quiet logger and an
// empty galactic chart. Tests place units and entities themselves so
// outcomes stay deterministic.
func newTestServer(seed int64) *Server {
	cfg := config.Default()
	cfg.Seed = seed

	gs := game.NewGameState(game.TierPilot)
	gs.Grid = game.NewSectorGrid(cfg.Galaxy.Cols, cfg.Galaxy.Rows)
	gs.Player.SectorX = cfg.Galaxy.Cols / 2
	gs.Player.SectorY = cfg.Galaxy.Rows / 2

	s := &Server{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ServerMessage, 256),
		done:       make(chan struct{}),
		gameState:  gs,
		cfg:        cfg,
		stats:      cfg.ShipStats(),
		profiles:   cfg.DifficultyProfiles(),
		rng:        rand.New(rand.NewSource(seed)),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		missionID:  "test-mission",
		pendingCfg: make(chan *config.Config, 1),
	}
	s.gameState.Profile = s.profiles[game.TierPilot]
	s.flight = newFlightState(cfg.Flight)
	return s
}

// addHostile places a live hostile of the given kind at pos, registered
// on the chart at the player's sector.
func addHostile(s *Server, kind game.HostileKind, pos game.Vec2) *game.Hostile {
	gs := s.gameState
	h := game.NewHostile(kind, pos, s.stats[kind], gs.Profile, s.rng)
	h.SectorX = gs.Player.SectorX
	h.SectorY = gs.Player.SectorY
	gs.Hostiles = append(gs.Hostiles, h)
	gs.Grid.AddHostiles(h.SectorX, h.SectorY, 1)
	return h
}

// settleHostile clears the spawn-time honing window so movement tests
// exercise the base behavior machine directly.
func settleHostile(h *game.Hostile) {
	h.HoningIn = false
	h.HoningLeft = 0
}

// testProfile returns a profile with no randomness: no evasion, no
// provocation rolls, no regen, full lead accuracy.
func testProfile() *game.DifficultyProfile {
	return &game.DifficultyProfile{
		FireRateScale:          1.0,
		EvasionChance:          0,
		LeadAccuracy:           1.0,
		ShieldRegenChance:      0,
		ProvocationSensitivity: 0,
		FighterBias:            1.0,
		SiegeSteps:             1,
	}
}

// collectWriter records everything written to it, standing in for a
// telemetry sink.
type collectWriter struct {
	ticks  []telemetry.Row
	events []telemetry.EventRow
}

func (w *collectWriter) WriteTick(row telemetry.Row) error {
	w.ticks = append(w.ticks, row)
	return nil
}

func (w *collectWriter) WriteEvents(events []telemetry.EventRow) error {
	w.events = append(w.events, events...)
	return nil
}

// eventTypes extracts the type strings from collected events in order.
func (w *collectWriter) eventTypes() []string {
	out := make([]string, len(w.events))
	for i, ev := range w.events {
		out[i] = ev.EventType
	}
	return out
}
