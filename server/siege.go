package server

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spacehunter/Star-Raiders-sub000/game"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// runSiegeStep advances the strategic layer one interval: pick a target
// starbase when none is under siege, then route abstract units toward
// the empty blockade cells. The layer reads and writes only chart
// counts; live entities never move because of a siege.
func (s *Server) runSiegeStep() {
	gs := s.gameState
	steps := gs.Profile.SiegeSteps
	if steps <= 0 {
		return
	}

	siege := &gs.Siege
	if !siege.Active {
		s.selectSiegeTarget()
		if !siege.Active {
			return
		}
	}

	if !gs.Grid.HasStarbase(siege.TargetX, siege.TargetY) {
		// Lost to other means since the last interval
		s.clearSiege()
		return
	}

	if gs.Grid.Surrounded(siege.TargetX, siege.TargetY) {
		// Blockade holds; the destruction clock is running
		return
	}

	for i := 0; i < steps; i++ {
		if !s.migrateOneUnit() {
			break
		}
	}
}

// selectSiegeTarget scores every intact starbase by the hostile strength
// already nearby: the full weight of its orthogonal neighbors plus a
// reduced contribution from cells two Manhattan steps out. The richest
// neighborhood wins; scan order breaks ties.
func (s *Server) selectSiegeTarget() {
	gs := s.gameState
	var best *game.SectorCell
	bestScore := -1.0
	for _, c := range gs.Grid.Starbases() {
		score := 0.0
		for _, n := range gs.Grid.Neighbors4(c.X, c.Y) {
			score += float64(n.HostileCount)
		}
		for _, n := range gs.Grid.Ring2(c.X, c.Y) {
			score += Ring2Weight * float64(n.HostileCount)
		}
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if best == nil {
		return
	}

	gs.Siege = game.SiegeState{
		Active:  true,
		TargetX: best.X,
		TargetY: best.Y,
		Episode: uuid.NewString(),
	}
	s.recordEvent(telemetry.EventRow{
		EventType: telemetry.EventSiegeTarget,
		SectorX:   best.X,
		SectorY:   best.Y,
		Detail:    fmt.Sprintf("score %.1f", bestScore),
	})
	s.log.Info("siege target chosen", "sector_x", best.X, "sector_y", best.Y, "score", bestScore)
}

// migrateOneUnit moves one abstract unit toward the first empty blockade
// cell around the siege target. Reports whether a unit moved; a tick
// with no willing donor is silently skipped and retried next interval.
func (s *Server) migrateOneUnit() bool {
	gs := s.gameState
	siege := gs.Siege
	for _, dst := range gs.Grid.Neighbors4(siege.TargetX, siege.TargetY) {
		if dst.HostileCount > 0 {
			continue
		}
		if dst.X == gs.Player.SectorX && dst.Y == gs.Player.SectorY {
			// The combat resolver owns the active sector's count
			continue
		}
		donor := s.findDonor(dst)
		if donor == nil {
			continue
		}
		donor.HostileCount--
		dst.HostileCount++
		return true
	}
	return false
}

// findDonor picks the cell that gives up a unit for the destination:
// fewest Manhattan steps first, richer cells on equal distance. The
// besieged cell and the destination never donate, a donor already
// holding part of the blockade never drops to zero, and the player's
// sector belongs to the combat resolver.
func (s *Server) findDonor(dst *game.SectorCell) *game.SectorCell {
	gs := s.gameState
	siege := gs.Siege
	var best *game.SectorCell
	bestSteps := 0
	for i := range gs.Grid.Cells {
		c := &gs.Grid.Cells[i]
		if c.HostileCount <= 0 || c == dst {
			continue
		}
		if c.X == siege.TargetX && c.Y == siege.TargetY {
			continue
		}
		if c.X == gs.Player.SectorX && c.Y == gs.Player.SectorY {
			continue
		}
		if manhattan(c.X, c.Y, siege.TargetX, siege.TargetY) == 1 && c.HostileCount <= 1 {
			continue
		}
		steps := manhattan(c.X, c.Y, dst.X, dst.Y)
		if best == nil || steps < bestSteps || (steps == bestSteps && c.HostileCount > best.HostileCount) {
			best = c
			bestSteps = steps
		}
	}
	return best
}

// checkSiegeDestruction runs every tick so the surround test and the
// destruction clock track combat immediately, not just on interval
// boundaries. Breaking the blockade clears the clock; it never survives
// an interruption. Each notification fires at most once per episode.
func (s *Server) checkSiegeDestruction() {
	gs := s.gameState
	siege := &gs.Siege
	if !siege.Active {
		return
	}

	if !gs.Grid.HasStarbase(siege.TargetX, siege.TargetY) {
		s.clearSiege()
		return
	}

	surrounded := gs.Grid.Surrounded(siege.TargetX, siege.TargetY)
	switch {
	case surrounded && !siege.Surrounded:
		siege.Surrounded = true
		siege.SurroundedSince = gs.Time
		if !siege.NotifiedSurround {
			siege.NotifiedSurround = true
			s.recordEvent(telemetry.EventRow{
				EventType: telemetry.EventSurrounded,
				SectorX:   siege.TargetX,
				SectorY:   siege.TargetY,
				Detail:    "starbase surrounded",
			})
			s.log.Warn("starbase surrounded", "sector_x", siege.TargetX, "sector_y", siege.TargetY)
		}
	case !surrounded && siege.Surrounded:
		siege.Surrounded = false
		siege.SurroundedSince = 0
		s.recordEvent(telemetry.EventRow{
			EventType: telemetry.EventSurroundBroken,
			SectorX:   siege.TargetX,
			SectorY:   siege.TargetY,
			Detail:    "blockade broken",
		})
		s.log.Info("blockade broken", "sector_x", siege.TargetX, "sector_y", siege.TargetY)
	}

	if !siege.Surrounded {
		return
	}

	held := gs.Time - siege.SurroundedSince
	remaining := s.cfg.Siege.DestructionSec - held
	if remaining <= 60 && !siege.Notified60 {
		siege.Notified60 = true
		s.recordEvent(telemetry.EventRow{
			EventType: telemetry.EventCountdown60,
			SectorX:   siege.TargetX,
			SectorY:   siege.TargetY,
			Detail:    "starbase falls in 60 seconds",
		})
	}
	if remaining <= 30 && !siege.Notified30 {
		siege.Notified30 = true
		s.recordEvent(telemetry.EventRow{
			EventType: telemetry.EventCountdown30,
			SectorX:   siege.TargetX,
			SectorY:   siege.TargetY,
			Detail:    "starbase falls in 30 seconds",
		})
	}

	if held >= s.cfg.Siege.DestructionSec {
		gs.Grid.DestroyStarbase(siege.TargetX, siege.TargetY)
		gs.Score -= StarbaseLossPenalty
		s.recordEvent(telemetry.EventRow{
			EventType: telemetry.EventStarbaseLost,
			SectorX:   siege.TargetX,
			SectorY:   siege.TargetY,
			Detail:    "starbase destroyed",
		})
		s.log.Warn("starbase destroyed",
			"sector_x", siege.TargetX,
			"sector_y", siege.TargetY,
			"remaining", len(gs.Grid.Starbases()))
		s.clearSiege()
	}
}

// clearSiege ends the episode; the next interval may open a new one
// against a fresh target.
func (s *Server) clearSiege() {
	s.gameState.Siege = game.SiegeState{}
}

func manhattan(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
