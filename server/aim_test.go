package server

import (
	"math"
	"testing"

	"github.com/spacehunter/Star-Raiders-sub000/game"
)

func TestInterceptStationaryTarget(t *testing.T) {
	shooter := game.Vec2{}
	target := game.Vec2{X: 100, Y: 100}

	ang, ok := interceptDirection(shooter, target, game.Vec2{}, 200)
	if !ok {
		t.Fatal("stationary target must always have a solution")
	}
	if want := math.Pi / 4; math.Abs(ang-want) > 1e-9 {
		t.Errorf("angle = %.4f, want %.4f", ang, want)
	}
}

func TestInterceptLeadsCrossingTarget(t *testing.T) {
	shooter := game.Vec2{}
	target := game.Vec2{X: 200}
	vel := game.Vec2{Y: 50} // crossing upward

	ang, ok := interceptDirection(shooter, target, vel, 240)
	if !ok {
		t.Fatal("expected an intercept solution")
	}
	if ang <= 0 {
		t.Errorf("angle %.4f does not lead the upward crossing", ang)
	}

	// The solution must actually meet the target: equal distances covered
	// at the intercept time.
	dir := game.FromAngle(ang)
	// Solve for the meet time along the shot direction
	// shooter + dir*240*t == target + vel*t componentwise.
	tMeet := target.X / (dir.X*240 - vel.X)
	shot := dir.Scale(240 * tMeet)
	tgt := target.Add(vel.Scale(tMeet))
	if game.Distance(shot, tgt) > 1e-6 {
		t.Errorf("shot and target diverge by %.4f at meet time", game.Distance(shot, tgt))
	}
}

func TestInterceptUnreachableTargetFallsBack(t *testing.T) {
	shooter := game.Vec2{}
	target := game.Vec2{X: 300}
	vel := game.Vec2{X: 500} // outruns the shot straight away

	ang, ok := interceptDirection(shooter, target, vel, 200)
	if ok {
		t.Fatal("no intercept should exist against a faster receding target")
	}
	if ang != 0 {
		t.Errorf("fallback angle = %.4f, want direct 0", ang)
	}
}

func TestInterceptMatchedSpeeds(t *testing.T) {
	shooter := game.Vec2{}
	target := game.Vec2{X: 100}

	// Approaching head-on at projectile speed: the degenerate linear case
	// still has a valid meet time.
	_, ok := interceptDirection(shooter, target, game.Vec2{X: -200}, 200)
	if !ok {
		t.Error("head-on approach at matched speed should solve")
	}

	// Receding at projectile speed never meets.
	_, ok = interceptDirection(shooter, target, game.Vec2{X: 200}, 200)
	if ok {
		t.Error("matched-speed receding target must not solve")
	}
}

func TestInterceptTargetOnShooter(t *testing.T) {
	p := game.Vec2{X: 42, Y: -7}
	if _, ok := interceptDirection(p, p, game.Vec2{X: 30}, 200); !ok {
		t.Error("coincident positions count as an immediate solution")
	}
}

func TestAimJitterShrinksWithAccuracy(t *testing.T) {
	s := newTestServer(30)

	low := &game.DifficultyProfile{LeadAccuracy: 0}
	high := &game.DifficultyProfile{LeadAccuracy: 1}

	for i := 0; i < 500; i++ {
		j := s.aimJitter(low)
		if math.Abs(j) > BaseAimJitter {
			t.Fatalf("jitter %.4f beyond bound %.4f", j, BaseAimJitter)
		}
	}
	if j := s.aimJitter(high); j != 0 {
		t.Errorf("full accuracy jitter = %.6f, want 0", j)
	}
}
