package server

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/spacehunter/Star-Raiders-sub000/config"
	"github.com/spacehunter/Star-Raiders-sub000/game"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

func TestNewServerBuildsMission(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 109
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := NewServer(cfg, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	gs := s.gameState

	if s.missionID == "" {
		t.Error("mission id missing")
	}
	if gs.Grid.TotalHostiles() == 0 {
		t.Error("chart populated with no units")
	}
	if got := len(gs.Grid.Starbases()); got != 4 {
		t.Errorf("pilot missions field 4 starbases, got %d", got)
	}
	if gs.Player.SectorX != gs.Grid.Cols/2 || gs.Player.SectorY != gs.Grid.Rows/2 {
		t.Error("player does not start in the center sector")
	}
	if len(gs.Hostiles) != 0 {
		t.Error("start sector begins empty; no entities should materialize")
	}
	if gs.Status != game.MissionActive {
		t.Error("fresh mission not active")
	}
}

func TestEqualSeedsBuildEqualCharts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	build := func() *game.SectorGrid {
		cfg := config.Default()
		cfg.Seed = 110
		s, err := NewServer(cfg, logger)
		if err != nil {
			t.Fatalf("NewServer: %v", err)
		}
		return s.gameState.Grid
	}

	a, b := build(), build()
	for i := range a.Cells {
		if a.Cells[i].HostileCount != b.Cells[i].HostileCount {
			t.Fatalf("cell %d,%d: %d units vs %d for the same seed",
				a.Cells[i].X, a.Cells[i].Y, a.Cells[i].HostileCount, b.Cells[i].HostileCount)
		}
		if a.Cells[i].HasStarbase != b.Cells[i].HasStarbase {
			t.Fatalf("cell %d,%d: starbase placement differs for the same seed",
				a.Cells[i].X, a.Cells[i].Y)
		}
	}
}

func TestNewServerRejectsUnknownDifficulty(t *testing.T) {
	cfg := config.Default()
	cfg.Difficulty = "impossible"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewServer(cfg, logger); err == nil {
		t.Error("unknown difficulty accepted")
	}
}

func TestStepAdvancesClockAndTelemetry(t *testing.T) {
	s := newTestServer(111)
	s.gameState.Profile = testProfile()
	gs := s.gameState
	gs.Grid.AddHostiles(0, 0, 3) // keeps the mission running

	w := &collectWriter{}
	s.AddTickWriter(w)
	s.AddEventWriter(w)

	dt := 1.0 / 60
	for i := 0; i < 3; i++ {
		s.step(dt)
	}

	if gs.Frame != 3 {
		t.Errorf("frame %d after 3 steps", gs.Frame)
	}
	if math.Abs(gs.Time-3*dt) > 1e-9 {
		t.Errorf("clock %.4f after 3 steps of %.4f", gs.Time, dt)
	}
	if len(w.ticks) != 3 {
		t.Fatalf("delivered %d tick rows, want 3", len(w.ticks))
	}
	first := w.ticks[0]
	if first.Frame != 1 || first.MissionID != "test-mission" {
		t.Errorf("row stamped frame=%d mission=%q", first.Frame, first.MissionID)
	}
	if first.Alert != "green" {
		t.Errorf("empty sector sampled alert %q", first.Alert)
	}
	if first.SectorX != gs.Player.SectorX || first.SectorY != gs.Player.SectorY {
		t.Error("row carries the wrong sector")
	}
}

func TestStepCapsRunawayDelta(t *testing.T) {
	s := newTestServer(112)
	s.gameState.Profile = testProfile()
	s.gameState.Grid.AddHostiles(0, 0, 1)

	s.step(10.0) // a stalled scheduler hands over a huge delta
	if s.gameState.Time != game.MaxTickDelta {
		t.Errorf("clock advanced %.3f, cap is %.3f", s.gameState.Time, game.MaxTickDelta)
	}
}

func TestStepSamplesLiveCounts(t *testing.T) {
	s := newTestServer(113)
	s.gameState.Profile = testProfile()
	gs := s.gameState

	settleHostile(addHostile(s, game.KindFighter, game.Vec2{X: 200}))
	settleHostile(addHostile(s, game.KindFighter, game.Vec2{X: -200}))
	settleHostile(addHostile(s, game.KindCruiser, game.Vec2{Y: 250}))

	w := &collectWriter{}
	s.AddTickWriter(w)
	s.step(1.0 / 60)

	row := w.ticks[0]
	if row.Fighters != 2 || row.Cruisers != 1 || row.Basestars != 0 {
		t.Errorf("sampled %d/%d/%d, want 2 fighters, 1 cruiser",
			row.Fighters, row.Cruisers, row.Basestars)
	}
	if row.Alert != "red" {
		t.Errorf("contacts inside alert range sampled %q", row.Alert)
	}
	if row.Shots != 0 {
		t.Errorf("patrolling contacts fired %d shots", row.Shots)
	}
	if gs.Status != game.MissionActive {
		t.Error("mission ended during a routine tick")
	}
}

func TestMissionOverFreezesWorld(t *testing.T) {
	s := newTestServer(114)
	s.gameState.Profile = testProfile()
	gs := s.gameState
	gs.Status = game.MissionLost

	h := addHostile(s, game.KindFighter, game.Vec2{X: 150})
	h.Vel = game.Vec2{X: 40}
	before := h.Pos

	w := &collectWriter{}
	s.AddTickWriter(w)
	s.step(1.0 / 60)

	if gs.Frame != 1 {
		t.Error("clock must keep counting after the mission settles")
	}
	if h.Pos != before {
		t.Error("entities moved after the mission settled")
	}
	if len(w.ticks) != 1 {
		t.Error("telemetry stopped after the mission settled")
	}
}

func TestRunHeadlessStopsWhenMissionEnds(t *testing.T) {
	s := newTestServer(115)
	s.gameState.Profile = testProfile()
	// Empty chart: the first tick scores the mission as won.
	s.RunHeadless(nil, 10, 0)

	if s.gameState.Status != game.MissionWon {
		t.Fatalf("mission status %v", s.gameState.Status)
	}
	if s.gameState.Frame != 1 {
		t.Errorf("ran %d frames past the mission end", s.gameState.Frame)
	}
}

func TestRunHeadlessHonorsStopSignal(t *testing.T) {
	s := newTestServer(116)
	s.gameState.Profile = testProfile()
	stop := make(chan struct{})
	close(stop)

	s.RunHeadless(stop, 10, 0)
	if s.gameState.Frame != 0 {
		t.Errorf("ticked %d times after the stop signal", s.gameState.Frame)
	}
}

func TestApplyTuningAtTickBoundary(t *testing.T) {
	s := newTestServer(117)
	s.gameState.Grid.AddHostiles(0, 0, 2)
	oldProfile := s.gameState.Profile

	w := &collectWriter{}
	s.AddEventWriter(w)

	next := config.Default()
	next.Siege.IntervalSec = 99
	next.Flight = config.FlightConfig{Script: config.FlightStation, SpeedFactor: 1.0, WarpEverySec: 30}
	s.ApplyTuning(next)

	s.step(1.0 / 60)

	if s.cfg.Siege.IntervalSec != 99 {
		t.Error("siege tuning not applied")
	}
	if s.flight.cfg.Script != config.FlightStation {
		t.Error("flight script not applied")
	}
	if s.gameState.Profile == oldProfile {
		t.Error("difficulty profile not rebuilt")
	}
	if !containsEvent(w.eventTypes(), "alert") {
		t.Error("tuning reload not announced")
	}
}

func TestFlushTelemetryDrainsQueueOnce(t *testing.T) {
	s := newTestServer(118)
	w := &collectWriter{}
	s.AddTickWriter(w)
	s.AddEventWriter(w)

	s.recordEvent(telemetry.EventRow{EventType: telemetry.EventDestroyed})
	s.recordEvent(telemetry.EventRow{EventType: telemetry.EventAlert})
	s.flushTelemetry(s.collectTickRow())

	if len(w.ticks) != 1 || len(w.events) != 2 {
		t.Fatalf("first flush delivered %d rows, %d events", len(w.ticks), len(w.events))
	}
	if len(s.pendingEvents) != 0 {
		t.Error("queue not drained")
	}

	s.flushTelemetry(s.collectTickRow())
	if len(w.ticks) != 2 || len(w.events) != 2 {
		t.Errorf("second flush re-delivered events (%d rows, %d events)",
			len(w.ticks), len(w.events))
	}
}

func TestHostileFirePassGatesOnInterval(t *testing.T) {
	s := newTestServer(119)
	s.gameState.Profile = testProfile()
	gs := s.gameState

	h := addHostile(s, game.KindFighter, game.Vec2{X: 50})
	settleHostile(h)
	h.State = game.StateAttack
	h.LastFireTime = -100

	s.hostileFirePass(gs.Player.Pos)
	if len(gs.Shots) != 1 {
		t.Fatalf("armed fighter in range fired %d shots", len(gs.Shots))
	}

	// Same tick again: the interval gate holds.
	s.hostileFirePass(gs.Player.Pos)
	if len(gs.Shots) != 1 {
		t.Error("fire interval not enforced")
	}

	gs.Time += h.Stats.FireInterval*gs.Profile.FireRateScale + 0.01
	s.hostileFirePass(gs.Player.Pos)
	if len(gs.Shots) != 2 {
		t.Error("fighter stayed silent after the interval elapsed")
	}
}

func TestUnprovokedCruiserHoldsFire(t *testing.T) {
	s := newTestServer(120)
	s.gameState.Profile = testProfile()
	gs := s.gameState

	h := addHostile(s, game.KindCruiser, game.Vec2{X: 100})
	settleHostile(h)
	h.State = game.StateAttack
	h.LastFireTime = -100

	s.hostileFirePass(gs.Player.Pos)
	if len(gs.Shots) != 0 {
		t.Fatal("unprovoked cruiser opened fire")
	}

	h.Cruiser.Provoked = true
	s.hostileFirePass(gs.Player.Pos)
	if len(gs.Shots) != 1 {
		t.Error("provoked cruiser held fire")
	}
}
