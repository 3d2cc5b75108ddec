package server

import (
	"math"

	"github.com/spacehunter/Star-Raiders-sub000/game"
)

// updateHostile advances one hostile by dt seconds against the current
// target position. The order inside a tick is fixed: target-velocity
// estimation, base state resolution, the override ladder or behavior
// dispatch, the acceleration-capped velocity blend, position integration,
// and finally the shield regeneration roll.
func (s *Server) updateHostile(h *game.Hostile, dt float64, target game.Vec2) {
	if h == nil || !h.Alive || dt <= 0 {
		return
	}

	// Estimated target kinematics feed lead-aim only, never movement.
	// The first sighting has no previous position to difference against.
	if h.SeenTarget {
		h.EstTargetVel = target.Sub(h.LastTargetPos).Scale(1 / dt)
	}
	h.LastTargetPos = target
	h.SeenTarget = true

	dist := game.Distance(h.Pos, target)
	resolveState(h, dist)

	// Timed overrides preempt the base machine: honing first, then
	// evasion, then the per-kind behavior dispatch.
	switch {
	case h.HoningIn:
		s.honingStep(h, dt, target, dist)
	case h.Evading:
		s.evadeStep(h, dt, target, dist)
	default:
		s.dispatchMove(h, dt, target, dist)
	}

	blendVelocity(h, dt)
	integrate(h, dt)

	if h.HasShield && !h.ShieldUp && s.rng.Float64() < s.gameState.Profile.ShieldRegenChance {
		h.ShieldUp = true
	}
}

// resolveState evaluates the base state transition: ATTACK inside attack
// range, otherwise the kind's routine state. Basestars have no patrol
// routine and fall back to idle; nothing ever forces a mobile hostile
// back to idle once it is in the sector.
func resolveState(h *game.Hostile, dist float64) {
	if dist < h.Stats.AttackRange {
		h.State = game.StateAttack
		return
	}
	if h.Kind == game.KindBasestar {
		h.State = game.StateIdle
		return
	}
	h.State = game.StatePatrol
}

// honingStep runs the aggressive-approach override: straight at the
// target above base speed until the countdown expires or the entity is
// close enough, so fresh spawns converge regardless of spawn distance.
func (s *Server) honingStep(h *game.Hostile, dt float64, target game.Vec2, dist float64) {
	h.HoningLeft -= dt
	if h.HoningLeft <= 0 || dist < h.Stats.HoningArrive {
		h.HoningIn = false
		h.HoningLeft = 0
		s.dispatchMove(h, dt, target, dist)
		return
	}
	dir := target.Sub(h.Pos).Normalize()
	h.Desired = dir.Scale(h.Stats.BaseSpeed * game.HoningSpeedFactor)
}

// evadeStep runs the dodge override: sprint toward the chosen offset
// point until arrival or timeout, then hand control back to the base
// machine the same tick.
func (s *Server) evadeStep(h *game.Hostile, dt float64, target game.Vec2, dist float64) {
	h.EvadeLeft -= dt
	toPoint := h.EvadePoint.Sub(h.Pos)
	if h.EvadeLeft <= 0 || toPoint.Len() < game.EvadeArriveRadius {
		h.Evading = false
		h.EvadeLeft = 0
		s.dispatchMove(h, dt, target, dist)
		return
	}
	h.Desired = toPoint.Normalize().Scale(h.Stats.BaseSpeed * game.EvadeSpeedFactor)
}

// startEvade arms the dodge window on a fighter with a random offset
// point and a randomized duration. Honing outranks evasion, and a dodge
// already in progress is never restarted.
func (s *Server) startEvade(h *game.Hostile) {
	if h.Kind != game.KindFighter || !h.Alive || h.Evading || h.HoningIn {
		return
	}
	ang := s.rng.Float64() * 2 * math.Pi
	h.EvadePoint = h.Pos.Add(game.FromAngle(ang).Scale(game.EvadeOffsetRadius))
	h.EvadeLeft = game.EvadeDurationMin + s.rng.Float64()*(game.EvadeDurationMax-game.EvadeDurationMin)
	h.Evading = true
}
