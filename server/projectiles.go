package server

import (
	"github.com/spacehunter/Star-Raiders-sub000/game"
)

// updateProjectiles handles all shot movement, fuse countdown and
// collision resolution. Uses in-place filtering to avoid slice
// allocation every frame.
func (s *Server) updateProjectiles(dt float64) {
	gs := s.gameState
	writeIdx := 0
	for _, p := range gs.Shots {
		if p == nil || !p.Alive {
			continue
		}

		// Move before decrementing the fuse so a shot covers its full
		// configured range instead of dying one tick short.
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.FuseLeft -= dt

		if p.FuseLeft <= 0 || game.Distance(p.Pos, gs.Player.Pos) > DematRange {
			p.Alive = false
			continue
		}

		if p.FromPlayer {
			s.resolvePlayerShot(p)
		} else {
			s.resolveHostileShot(p)
		}

		if p.Alive {
			gs.Shots[writeIdx] = p
			writeIdx++
		}
	}
	// Clear the tail so dropped shots can be collected
	for i := writeIdx; i < len(gs.Shots); i++ {
		gs.Shots[i] = nil
	}
	gs.Shots = gs.Shots[:writeIdx]
}

// resolvePlayerShot tests one player bolt against the roster. A bolt hits
// at most one hostile; the scan stops at the first contact. Passing close
// without contact triggers at most one near-miss roll per hostile for the
// bolt's lifetime.
func (s *Server) resolvePlayerShot(p *game.Projectile) {
	for _, h := range s.gameState.Hostiles {
		if !h.Alive {
			continue
		}
		d := game.Distance(p.Pos, h.Pos)
		if d <= p.Radius+h.Stats.CollisionRadius {
			p.Alive = false
			s.applyPlayerHit(h)
			break
		}
		if d <= p.Radius+h.Stats.CollisionRadius+game.NearMissRadius && !p.RolledAgainst(h.ID) {
			s.nearMiss(h)
		}
	}
}

// nearMiss reacts to a player bolt shaving past a hostile: cruisers may
// provoke, fighters may break into a dodge. Both rolls scale with the
// difficulty profile.
func (s *Server) nearMiss(h *game.Hostile) {
	prof := s.gameState.Profile
	switch h.Kind {
	case game.KindCruiser:
		if s.rng.Float64() < prof.ProvocationSensitivity {
			h.Provoke()
		}
	case game.KindFighter:
		if s.rng.Float64() < prof.EvasionChance {
			s.startEvade(h)
		}
	}
}

// resolveHostileShot tests one hostile bolt against the player hull.
func (s *Server) resolveHostileShot(p *game.Projectile) {
	gs := s.gameState
	if game.Distance(p.Pos, gs.Player.Pos) <= p.Radius+game.PlayerRadius {
		p.Alive = false
		s.applyHullHit(p.Damage)
	}
}
