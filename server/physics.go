package server

import (
	"github.com/spacehunter/Star-Raiders-sub000/game"
)

// blendVelocity moves the current velocity toward the desired velocity,
// capped by the entity's acceleration budget for this tick. Course
// changes therefore take time proportional to how sharp they are.
func blendVelocity(h *game.Hostile, dt float64) {
	delta := h.Desired.Sub(h.Vel).ClampLen(h.Stats.MaxAccel * dt)
	h.Vel = h.Vel.Add(delta)
}

// integrate advances position from the blended velocity.
func integrate(h *game.Hostile, dt float64) {
	h.Pos = h.Pos.Add(h.Vel.Scale(dt))
}

// applyDisplacement folds the player's frame translation for this tick
// into every hostile and live shot. The sector stays player-relative:
// when the player moves forward, everything else slides back. Applied
// exactly once per tick, after entity updates and before collisions.
func (s *Server) applyDisplacement() {
	d := s.gameState.Player.Displacement
	if d.X == 0 && d.Y == 0 {
		return
	}
	for _, h := range s.gameState.Hostiles {
		if h.Alive {
			h.Pos = h.Pos.Add(d)
		}
	}
	for _, shot := range s.gameState.Shots {
		if shot.Alive {
			shot.Pos = shot.Pos.Add(d)
		}
	}
}
