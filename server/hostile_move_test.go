package server

import (
	"math"
	"testing"

	"github.com/spacehunter/Star-Raiders-sub000/game"
)

func TestFighterPursuitWeaves(t *testing.T) {
	s := newTestServer(20)
	s.gameState.Profile = testProfile()
	h := addHostile(s, game.KindFighter, game.Vec2{X: 500})
	settleHostile(h)

	dt := 1.0 / 60
	target := game.Vec2{}
	phase := h.Fighter.WeavePhase

	// The desired vector must keep a closing component toward the target
	// while the lateral component oscillates with the weave phase.
	var lateralSeen [2]bool
	for i := 0; i < 600; i++ {
		s.dispatchMove(h, dt, target, game.Distance(h.Pos, target))
		dir := target.Sub(h.Pos).Normalize()
		closing := h.Desired.Dot(dir)
		if closing < h.Stats.BaseSpeed-1e-6 {
			t.Fatalf("tick %d: closing speed %.2f below base speed", i, closing)
		}
		lateral := h.Desired.Dot(dir.Perp())
		if lateral > 1 {
			lateralSeen[0] = true
		}
		if lateral < -1 {
			lateralSeen[1] = true
		}
	}
	if !lateralSeen[0] || !lateralSeen[1] {
		t.Error("weave never swung to both sides")
	}
	if h.Fighter.WeavePhase <= phase {
		t.Error("weave phase did not advance")
	}
}

func TestFighterOrbitHoldsRadius(t *testing.T) {
	s := newTestServer(21)
	s.gameState.Profile = testProfile()
	h := addHostile(s, game.KindFighter, game.Vec2{X: 70})
	settleHostile(h)
	h.State = game.StateAttack

	target := game.Vec2{}
	dt := 1.0 / 60

	// Let the orbit settle, then verify it holds near the ideal radius.
	for i := 0; i < 600; i++ {
		s.fighterOrbit(h, dt, target, game.Distance(h.Pos, target))
		blendVelocity(h, dt)
		integrate(h, dt)
	}
	for i := 0; i < 600; i++ {
		s.fighterOrbit(h, dt, target, game.Distance(h.Pos, target))
		blendVelocity(h, dt)
		integrate(h, dt)
		r := game.Distance(h.Pos, target)
		if r < h.Stats.OrbitRadius*0.4 || r > h.Stats.OrbitRadius+h.Stats.OrbitSlack {
			t.Fatalf("tick %d: orbit radius %.1f escaped band around %.1f", i, r, h.Stats.OrbitRadius)
		}
	}
}

func TestFighterOrbitDesiredSpeedClamped(t *testing.T) {
	s := newTestServer(22)
	s.gameState.Profile = testProfile()
	h := addHostile(s, game.KindFighter, game.Vec2{X: 95})
	settleHostile(h)

	s.fighterOrbit(h, 1.0/60, game.Vec2{}, 95)
	if got := h.Desired.Len(); got > h.Stats.BaseSpeed+1e-9 {
		t.Errorf("orbit desired speed %.2f exceeds base speed %.2f", got, h.Stats.BaseSpeed)
	}
}

func TestFighterBeyondSlackClosesDirectly(t *testing.T) {
	s := newTestServer(23)
	s.gameState.Profile = testProfile()
	h := addHostile(s, game.KindFighter, game.Vec2{X: 300})
	settleHostile(h)

	target := game.Vec2{}
	s.fighterOrbit(h, 1.0/60, target, 300)
	dir := target.Sub(h.Pos).Normalize()
	if dot := h.Desired.Normalize().Dot(dir); dot < 0.999 {
		t.Errorf("far fighter should close directly, alignment %.4f", dot)
	}
}

func TestCruiserPatrolWalksWaypoints(t *testing.T) {
	s := newTestServer(24)
	s.gameState.Profile = testProfile()
	h := addHostile(s, game.KindCruiser, game.Vec2{X: 600})
	settleHostile(h)

	if len(h.Cruiser.Waypoints) == 0 {
		t.Fatal("cruiser spawned without a patrol polyline")
	}

	// Drop the ship on its current waypoint: arrival starts the pause and
	// advances the index.
	idx := h.Cruiser.WaypointIdx
	h.Pos = h.Cruiser.Waypoints[idx]
	cruiserPatrol(h, 1.0/60)

	if h.Cruiser.WaypointIdx != (idx+1)%len(h.Cruiser.Waypoints) {
		t.Errorf("waypoint index = %d, want %d", h.Cruiser.WaypointIdx, (idx+1)%len(h.Cruiser.Waypoints))
	}
	if h.Cruiser.PauseLeft != h.Stats.WaypointPause {
		t.Errorf("pause = %.2f, want %.2f", h.Cruiser.PauseLeft, h.Stats.WaypointPause)
	}
	if h.Desired.Len() != 0 {
		t.Error("desired velocity must be zero on arrival")
	}

	// The pause counts down with the ship holding still, then patrol
	// resumes toward the next waypoint at base speed.
	for h.Cruiser.PauseLeft > 0 {
		cruiserPatrol(h, 1.0/60)
		if h.Desired.Len() != 0 {
			t.Fatal("desired velocity must stay zero through the pause")
		}
	}
	cruiserPatrol(h, 1.0/60)
	if math.Abs(h.Desired.Len()-h.Stats.BaseSpeed) > 1e-6 {
		t.Errorf("patrol speed = %.2f, want %.2f", h.Desired.Len(), h.Stats.BaseSpeed)
	}
}

func TestCruiserStandoffBand(t *testing.T) {
	s := newTestServer(25)
	s.gameState.Profile = testProfile()
	h := addHostile(s, game.KindCruiser, game.Vec2{})
	settleHostile(h)
	target := game.Vec2{}

	tests := []struct {
		name string
		dist float64
		want string
	}{
		{"too close retreats", h.Stats.BandMin - 30, "away"},
		{"too far approaches", h.Stats.BandMax + 50, "toward"},
		{"inside band strafes", (h.Stats.BandMin + h.Stats.BandMax) / 2, "lateral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.Pos = game.Vec2{X: tt.dist}
			cruiserStandoff(h, target, tt.dist)
			away := h.Pos.Sub(target).Normalize()
			radial := h.Desired.Dot(away)
			switch tt.want {
			case "away":
				if radial <= 0 {
					t.Errorf("radial component %.2f, want positive", radial)
				}
			case "toward":
				if radial >= 0 {
					t.Errorf("radial component %.2f, want negative", radial)
				}
			case "lateral":
				if math.Abs(radial) > 1e-6 {
					t.Errorf("radial component %.2f, want zero", radial)
				}
				want := h.Stats.BaseSpeed * h.Stats.StrafeFactor
				if math.Abs(h.Desired.Len()-want) > 1e-6 {
					t.Errorf("strafe speed %.2f, want %.2f", h.Desired.Len(), want)
				}
			}
		})
	}
}

func TestUnprovokedCruiserKeepsPatrolMovement(t *testing.T) {
	s := newTestServer(26)
	s.gameState.Profile = testProfile()
	h := addHostile(s, game.KindCruiser, game.Vec2{X: 140})
	settleHostile(h)
	h.State = game.StateAttack

	// Spawn position doubles as the first waypoint; aim at the second so
	// the patrol leg is observable.
	h.Cruiser.WaypointIdx = 1
	h.Cruiser.PauseLeft = 0

	// In attack state but unprovoked: movement stays on the waypoint
	// routine instead of the standoff band.
	h.Cruiser.Provoked = false
	s.dispatchMove(h, 1.0/60, game.Vec2{}, 140)
	toWp := h.Cruiser.Waypoints[h.Cruiser.WaypointIdx].Sub(h.Pos).Normalize()
	if dot := h.Desired.Normalize().Dot(toWp); dot < 0.999 {
		t.Errorf("unprovoked cruiser not heading to waypoint, alignment %.4f", dot)
	}

	h.Cruiser.Provoked = true
	s.dispatchMove(h, 1.0/60, game.Vec2{}, 140)
	away := h.Pos.Normalize()
	if math.Abs(h.Desired.Dot(away)) > 1e-6 {
		t.Error("provoked cruiser inside its band should strafe, not move radially")
	}
}

func TestBasestarRotatesInPlace(t *testing.T) {
	s := newTestServer(27)
	s.gameState.Profile = testProfile()
	h := addHostile(s, game.KindBasestar, game.Vec2{X: 200})

	dt := 1.0 / 60
	phase := h.Basestar.RotationPhase
	pos := h.Pos

	for i := 0; i < 120; i++ {
		s.updateHostile(h, dt, game.Vec2{})
	}
	if h.Pos != pos {
		t.Error("basestar translated")
	}
	turned := game.NormalizeAngle(h.Basestar.RotationPhase - phase)
	want := h.Stats.RotRate * 2.0
	if math.Abs(turned-want) > 1e-6 {
		t.Errorf("rotated %.4f rad in 2s, want %.4f", turned, want)
	}
}

func TestBasestarSpinsFasterExposed(t *testing.T) {
	s := newTestServer(28)
	s.gameState.Profile = testProfile()
	h := addHostile(s, game.KindBasestar, game.Vec2{X: 200})

	dt := 1.0 / 60
	h.ShieldUp = true
	start := h.Basestar.RotationPhase
	basestarRotate(h, dt)
	shielded := game.NormalizeAngle(h.Basestar.RotationPhase - start)

	h.ShieldUp = false
	start = h.Basestar.RotationPhase
	basestarRotate(h, dt)
	exposed := game.NormalizeAngle(h.Basestar.RotationPhase - start)

	if exposed <= shielded {
		t.Errorf("exposed spin %.5f not faster than shielded %.5f", exposed, shielded)
	}
}
