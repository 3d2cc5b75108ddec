package server

import (
	"fmt"
	"math"

	"github.com/spacehunter/Star-Raiders-sub000/config"
	"github.com/spacehunter/Star-Raiders-sub000/game"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// Flight script tuning. The wobble stays bounded so the anchor never
// drifts out of the combat volume; the unbounded cruise component is
// expressed as frame displacement instead.
const (
	stationOrbitRate   = 0.5  // radians/second of the holding pattern
	stationOrbitRadius = 40.0 // world units
	weavePhaseRate     = 1.2  // radians/second of the weave oscillator
	weaveAmplitude     = 60.0 // lateral weave extent, world units
	weaveDriftRate     = 0.1  // slow heading drift, radians/second
)

// flightState drives the scripted player collaborator. The engine needs
// a moving, occasionally-warping, occasionally-shooting target to
// exercise hostile behavior without a human at the controls.
type flightState struct {
	cfg     config.FlightConfig
	heading float64
	phase   float64
	warpIn  float64
	fireIn  float64
}

func newFlightState(fc config.FlightConfig) flightState {
	return flightState{
		cfg:    fc,
		warpIn: fc.WarpEverySec,
		fireIn: fc.FireEverySec,
	}
}

// retune swaps the script parameters on a tuning reload. Timers reset so
// a shortened interval takes effect immediately.
func (f *flightState) retune(fc config.FlightConfig) {
	f.cfg = fc
	f.warpIn = fc.WarpEverySec
	f.fireIn = fc.FireEverySec
}

// advanceFlight moves the player anchor for this tick. The bounded
// wobble stays in the anchor position so pursuers and lead-aim see real
// target motion; the cruise component becomes the frame displacement the
// rest of the world absorbs. Scripted warps fire from here too.
func (s *Server) advanceFlight(dt float64) {
	gs := s.gameState
	f := &s.flight
	speed := s.stats[game.KindFighter].BaseSpeed * f.cfg.SpeedFactor

	var cruise, wobble game.Vec2
	switch f.cfg.Script {
	case config.FlightStation:
		f.phase += stationOrbitRate * dt
		wobble = game.FromAngle(f.phase).Scale(stationOrbitRadius)
	case config.FlightCruise:
		cruise = game.FromAngle(f.heading).Scale(speed)
	default: // weave
		f.phase += weavePhaseRate * dt
		f.heading += weaveDriftRate * dt
		cruise = game.FromAngle(f.heading).Scale(speed)
		wobble = game.FromAngle(f.heading).Perp().Scale(math.Sin(f.phase) * weaveAmplitude)
	}

	prev := gs.Player.Pos
	gs.Player.Pos = wobble
	gs.Player.Displacement = cruise.Scale(-dt)

	move := cruise.Scale(dt).Add(wobble.Sub(prev))
	if l := move.Len(); l > 1e-9 {
		gs.Player.Forward = move.Scale(1 / l)
	}

	if f.cfg.WarpEverySec > 0 {
		f.warpIn -= dt
		if f.warpIn <= 0 {
			f.warpIn += f.cfg.WarpEverySec
			s.scriptedWarp()
		}
	}
}

// scriptedWarp jumps the anchor to a random occupied sector so the
// harness keeps finding fights. Stays put when the chart is empty.
func (s *Server) scriptedWarp() {
	gs := s.gameState
	var occupied []*game.SectorCell
	for i := range gs.Grid.Cells {
		c := &gs.Grid.Cells[i]
		if c.HostileCount > 0 && !(c.X == gs.Player.SectorX && c.Y == gs.Player.SectorY) {
			occupied = append(occupied, c)
		}
	}
	if len(occupied) == 0 {
		return
	}
	dst := occupied[s.rng.Intn(len(occupied))]
	s.warpToSector(dst.X, dst.Y)
}

// warpToSector relocates the player anchor to the given sector. The live
// roster dissolves back into the chart and the destination's units
// materialize fresh. Reports false for out-of-bounds coordinates or the
// current sector.
func (s *Server) warpToSector(x, y int) bool {
	gs := s.gameState
	if !gs.Grid.InBounds(x, y) {
		return false
	}
	fromX, fromY := gs.Player.SectorX, gs.Player.SectorY
	if x == fromX && y == fromY {
		return false
	}

	s.recordEvent(telemetry.EventRow{
		EventType: telemetry.EventWarp,
		SectorX:   x,
		SectorY:   y,
		Detail:    fmt.Sprintf("from %d,%d", fromX, fromY),
	})
	s.enterSector(x, y)
	s.log.Info("warp",
		"from_x", fromX, "from_y", fromY,
		"to_x", x, "to_y", y,
		"contacts", gs.ActiveHostiles())
	return true
}

// scriptedFire pulls the player trigger on its interval so hostile
// damage paths, provocation and evasion stay exercised in headless runs.
func (s *Server) scriptedFire(dt float64) {
	f := &s.flight
	if f.cfg.FireEverySec <= 0 {
		return
	}
	f.fireIn -= dt
	if f.fireIn > 0 {
		return
	}
	f.fireIn += f.cfg.FireEverySec
	s.firePlayerShot()
}
