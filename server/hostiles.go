package server

import (
	"math"

	"github.com/spacehunter/Star-Raiders-sub000/game"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// enterSector binds the combat volume to sector (x, y). The live roster
// and any flying shots dissolve; the cell's abstract units materialize
// fresh around the player anchor with their honing windows armed.
func (s *Server) enterSector(x, y int) {
	gs := s.gameState
	for i := range gs.Hostiles {
		gs.Hostiles[i] = nil
	}
	for i := range gs.Shots {
		gs.Shots[i] = nil
	}
	gs.Hostiles = gs.Hostiles[:0]
	gs.Shots = gs.Shots[:0]
	gs.TargetIdx = -1
	gs.Player.SectorX = x
	gs.Player.SectorY = y
	s.ensureSectorPopulation()
}

// ensureSectorPopulation materializes abstract units of the current cell
// into live entities, up to the configured live cap. Chart counts are
// untouched: a materialized unit still occupies its cell until combat
// removes it. The first contact becomes the target when none is locked.
func (s *Server) ensureSectorPopulation() {
	gs := s.gameState
	x, y := gs.Player.SectorX, gs.Player.SectorY
	desired := gs.Grid.Count(x, y)
	if desired > s.cfg.Spawn.MaxLive {
		desired = s.cfg.Spawn.MaxLive
	}
	live := gs.ActiveHostiles()
	if live >= desired {
		return
	}

	hadTarget := gs.TargetIdx >= 0
	for i := live; i < desired; i++ {
		s.spawnHostile(x, y)
	}
	if !hadTarget {
		for i, h := range gs.Hostiles {
			if h.Alive {
				gs.TargetIdx = i
				break
			}
		}
	}
}

// spawnHostile materializes one unit. A cell holding a full group fields
// one basestar as its anchor; everything else splits fighter or cruiser
// by the difficulty profile's bias.
func (s *Server) spawnHostile(x, y int) {
	gs := s.gameState

	var kind game.HostileKind
	switch {
	case gs.Grid.Count(x, y) >= BasestarGroupSize && !s.rosterHasKind(game.KindBasestar):
		kind = game.KindBasestar
	case s.rng.Float64() < gs.Profile.FighterBias:
		kind = game.KindFighter
	default:
		kind = game.KindCruiser
	}

	h := game.NewHostile(kind, s.spawnPosition(), s.stats[kind], gs.Profile, s.rng)
	h.SectorX = x
	h.SectorY = y
	gs.Hostiles = append(gs.Hostiles, h)

	s.recordEvent(telemetry.EventRow{
		EventType: telemetry.EventSpawn,
		Subject:   h.ID,
		Kind:      kind.String(),
		SectorX:   x,
		SectorY:   y,
	})
	s.log.Debug("hostile materialized", "kind", kind.String(), "sector_x", x, "sector_y", y)
}

// spawnPosition picks a random point in the configured distance band
// around the player anchor.
func (s *Server) spawnPosition() game.Vec2 {
	band := s.cfg.Spawn
	r := band.BandMin + s.rng.Float64()*(band.BandMax-band.BandMin)
	ang := s.rng.Float64() * 2 * math.Pi
	return s.gameState.Player.Pos.Add(game.FromAngle(ang).Scale(r))
}

func (s *Server) rosterHasKind(kind game.HostileKind) bool {
	for _, h := range s.gameState.Hostiles {
		if h.Alive && h.Kind == kind {
			return true
		}
	}
	return false
}

// gcHostiles sweeps the roster each tick. Destroyed entities release
// their unit from the chart; entities that fell too far behind the
// anchor dissolve back into the abstract count and will materialize
// afresh, honing re-armed, through the population check. The target
// lock survives compaction when its hostile does.
func (s *Server) gcHostiles() {
	gs := s.gameState
	var targetID string
	if gs.TargetIdx >= 0 && gs.TargetIdx < len(gs.Hostiles) {
		targetID = gs.Hostiles[gs.TargetIdx].ID
	}

	writeIdx := 0
	for _, h := range gs.Hostiles {
		if !h.Alive {
			gs.Grid.RemoveHostile(h.SectorX, h.SectorY)
			continue
		}
		if game.Distance(h.Pos, gs.Player.Pos) > DematRange {
			continue
		}
		gs.Hostiles[writeIdx] = h
		writeIdx++
	}
	for i := writeIdx; i < len(gs.Hostiles); i++ {
		gs.Hostiles[i] = nil
	}
	gs.Hostiles = gs.Hostiles[:writeIdx]

	s.retarget(targetID)
}
