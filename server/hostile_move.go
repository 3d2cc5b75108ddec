package server

import (
	"math"

	"github.com/spacehunter/Star-Raiders-sub000/game"
)

// dispatchMove computes the desired velocity from the base behavior
// machine. The honing and evading overrides bypass this entirely; only
// the blend step afterwards touches the actual velocity.
func (s *Server) dispatchMove(h *game.Hostile, dt float64, target game.Vec2, dist float64) {
	switch h.Kind {
	case game.KindFighter:
		if h.State == game.StateAttack {
			s.fighterOrbit(h, dt, target, dist)
		} else {
			fighterPursue(h, dt, target)
		}
	case game.KindCruiser:
		if h.State == game.StateAttack && h.Cruiser.Provoked {
			cruiserStandoff(h, target, dist)
		} else {
			cruiserPatrol(h, dt)
		}
	case game.KindBasestar:
		basestarRotate(h, dt)
	}
}

// fighterPursue closes on the target with a sinusoidal lateral weave so
// the approach is never a straight, trivially-dodgeable line.
func fighterPursue(h *game.Hostile, dt float64, target game.Vec2) {
	h.Fighter.WeavePhase += h.Stats.WeaveRate * dt
	dir := target.Sub(h.Pos).Normalize()
	lateral := dir.Perp().Scale(math.Sin(h.Fighter.WeavePhase) * h.Stats.WeaveAmp)
	h.Desired = dir.Scale(h.Stats.BaseSpeed).Add(lateral)
}

// fighterOrbit holds a strafing orbit: tangential motion at the orbit
// rate plus a radial correction that grows with the error from the ideal
// radius. Beyond the slack band the fighter closes directly instead of
// orbiting, which would otherwise spiral it outward. The orbit direction
// flips rarely and randomly.
func (s *Server) fighterOrbit(h *game.Hostile, dt float64, target game.Vec2, dist float64) {
	if s.rng.Float64() < OrbitFlipChance*dt {
		h.Fighter.OrbitDir = -h.Fighter.OrbitDir
	}

	radial := h.Pos.Sub(target)
	if dist > h.Stats.OrbitRadius+h.Stats.OrbitSlack {
		h.Desired = radial.Normalize().Scale(-h.Stats.BaseSpeed)
		return
	}

	out := radial.Normalize()
	h.Fighter.OrbitAngle = radial.Angle()
	tangent := out.Perp().Scale(h.Fighter.OrbitDir * h.Stats.OrbitRate * h.Stats.OrbitRadius)
	inward := out.Scale(-(dist - h.Stats.OrbitRadius) * OrbitRadialGain)
	h.Desired = tangent.Add(inward).ClampLen(h.Stats.BaseSpeed)
}

// cruiserPatrol follows the closed waypoint polyline generated at spawn.
// Arrival starts a pause with the desired velocity at zero, so the blend
// decelerates the ship instead of stopping it dead.
func cruiserPatrol(h *game.Hostile, dt float64) {
	wps := h.Cruiser.Waypoints
	if len(wps) == 0 {
		h.Desired = game.Vec2{}
		return
	}

	if h.Cruiser.PauseLeft > 0 {
		h.Cruiser.PauseLeft -= dt
		h.Desired = game.Vec2{}
		return
	}

	to := wps[h.Cruiser.WaypointIdx].Sub(h.Pos)
	if to.Len() < h.Stats.WaypointRadius {
		h.Cruiser.PauseLeft = h.Stats.WaypointPause
		h.Cruiser.WaypointIdx = (h.Cruiser.WaypointIdx + 1) % len(wps)
		h.Desired = game.Vec2{}
		return
	}
	h.Desired = to.Normalize().Scale(h.Stats.BaseSpeed)
}

// cruiserStandoff keeps a provoked cruiser inside its preferred distance
// band: retreat when too close, advance when too far, otherwise strafe
// across the target's face at reduced speed.
func cruiserStandoff(h *game.Hostile, target game.Vec2, dist float64) {
	away := h.Pos.Sub(target).Normalize()
	switch {
	case dist < h.Stats.BandMin:
		h.Desired = away.Scale(h.Stats.BaseSpeed)
	case dist > h.Stats.BandMax:
		h.Desired = away.Scale(-h.Stats.BaseSpeed)
	default:
		h.Desired = away.Perp().Scale(h.Stats.BaseSpeed * h.Stats.StrafeFactor)
	}
}

// basestarRotate advances the rotation phase, spinning faster while the
// shield is down. Basestars never translate; zero max acceleration keeps
// the velocity pinned regardless of the desired vector.
func basestarRotate(h *game.Hostile, dt float64) {
	rate := h.Stats.RotRate
	if !h.ShieldUp {
		rate = h.Stats.RotRateExposed
	}
	h.Basestar.RotationPhase = game.NormalizeAngle(h.Basestar.RotationPhase + rate*dt)
	h.Desired = game.Vec2{}
}
