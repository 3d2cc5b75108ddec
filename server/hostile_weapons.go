package server

import (
	"github.com/spacehunter/Star-Raiders-sub000/game"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// hostileFirePass gives every eligible hostile its shot at the target.
// Fire gating lives on the entity; the server owns projectile creation,
// aiming with the entity's lead prediction plus an accuracy-scaled
// angular error.
func (s *Server) hostileFirePass(target game.Vec2) {
	gs := s.gameState
	for _, h := range gs.Hostiles {
		fired := h.ShouldFire(gs.Time, target, gs.Profile)
		logFireDecision(h, target, fired)
		if !fired {
			continue
		}
		aim := h.LeadAimPoint(target, h.Stats.ProjSpeed, gs.Profile)
		ang := aim.Sub(h.Pos).Angle() + s.aimJitter(gs.Profile)
		s.spawnHostileShot(h, game.FromAngle(ang))
	}
}

// spawnHostileShot launches one bolt from the hostile along dir.
func (s *Server) spawnHostileShot(h *game.Hostile, dir game.Vec2) {
	gs := s.gameState
	gs.NextShotID++
	gs.Shots = append(gs.Shots, &game.Projectile{
		ID:       gs.NextShotID,
		Owner:    h.ID,
		Pos:      h.Pos,
		Vel:      dir.Scale(h.Stats.ProjSpeed),
		Radius:   h.Stats.ProjRadius,
		Damage:   h.Stats.ProjDamage,
		FuseLeft: h.Stats.ProjFuse,
		Alive:    true,
	})
}

// firePlayerShot launches one player bolt at the locked target, falling
// back to the nearest contact. The scripted trigger and the observer fire
// command both land here. Reports whether a shot went out.
func (s *Server) firePlayerShot() bool {
	gs := s.gameState
	idx := gs.TargetIdx
	if idx < 0 || idx >= len(gs.Hostiles) || !gs.Hostiles[idx].Alive {
		idx = s.selectNearest(gs.Player.Pos)
		gs.TargetIdx = idx
	}
	if idx < 0 {
		return false
	}
	h := gs.Hostiles[idx]

	// Full intercept solution against the hostile's current velocity;
	// orbiting fighters outrun a straight direct shot too often.
	ang, _ := interceptDirection(gs.Player.Pos, h.Pos, h.Vel, game.PlayerShotSpeed)

	gs.NextShotID++
	gs.Shots = append(gs.Shots, &game.Projectile{
		ID:         gs.NextShotID,
		Owner:      "player",
		FromPlayer: true,
		Pos:        gs.Player.Pos,
		Vel:        game.FromAngle(ang).Scale(game.PlayerShotSpeed),
		Radius:     game.PlayerShotRadius,
		Damage:     game.PlayerShotDamage,
		FuseLeft:   game.PlayerShotFuse,
		Alive:      true,
	})
	return true
}

// applyPlayerHit lands a player bolt on a hostile: damage, score credit
// and the destruction event. Roster removal and chart release happen in
// the garbage-collection sweep.
func (s *Server) applyPlayerHit(h *game.Hostile) {
	if !h.TakeDamage(game.PlayerShotDamage) {
		return
	}
	gs := s.gameState
	gs.Score += h.Stats.PointValue
	s.recordEvent(telemetry.EventRow{
		EventType: telemetry.EventDestroyed,
		Subject:   h.ID,
		Kind:      h.Kind.String(),
		SectorX:   gs.Player.SectorX,
		SectorY:   gs.Player.SectorY,
	})
	s.log.Info("hostile destroyed",
		"kind", h.Kind.String(),
		"score", gs.Score,
		"remaining", gs.Grid.TotalHostiles()-1)
}

// applyHullHit lands a hostile bolt on the player collaborator.
func (s *Server) applyHullHit(damage int) {
	gs := s.gameState
	if gs.Player.Hull <= 0 {
		return
	}
	gs.Player.Hull -= damage
	if gs.Player.Hull < 0 {
		gs.Player.Hull = 0
	}
	s.log.Debug("hull hit", "damage", damage, "hull", gs.Player.Hull)
}
