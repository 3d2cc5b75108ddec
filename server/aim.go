package server

import (
	"math"

	"github.com/spacehunter/Star-Raiders-sub000/game"
)

// interceptDirection calculates the heading that puts a projectile of the
// given speed onto a target moving at constant velocity, using the
// standard 2D intercept formula. Returns the direct-aim heading and false
// when no intercept exists (target too fast, or solutions in the past).
func interceptDirection(shooter, target, targetVel game.Vec2, projSpeed float64) (float64, bool) {
	direct := target.Sub(shooter).Angle()
	if projSpeed <= 0 {
		return direct, false
	}

	rel := target.Sub(shooter)
	distSq := rel.LenSq()
	if distSq < 1e-9 {
		// Target is essentially on top of the shooter
		return 0, true
	}

	velSq := targetVel.LenSq()
	if velSq < 1e-9 {
		// Stationary target, fire directly at it
		return direct, true
	}

	// Find t such that |target + targetVel*t - shooter| = projSpeed*t,
	// which expands to a*t^2 + b*t + c = 0.
	a := velSq - projSpeed*projSpeed
	b := 2 * rel.Dot(targetVel)
	c := distSq

	if math.Abs(a) < 1e-9 {
		// Projectile and target share a speed; the quadratic degenerates
		if math.Abs(b) < 1e-9 {
			return direct, false
		}
		t := -c / b
		if t < 0 {
			return direct, false
		}
		hit := target.Add(targetVel.Scale(t))
		return hit.Sub(shooter).Angle(), true
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return direct, false
	}

	// Smallest positive root wins
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / (2 * a)
	t2 := (-b - sq) / (2 * a)
	var t float64
	switch {
	case t1 > 0 && t2 > 0:
		t = math.Min(t1, t2)
	case t1 > 0:
		t = t1
	case t2 > 0:
		t = t2
	default:
		return direct, false
	}

	hit := target.Add(targetVel.Scale(t))
	return hit.Sub(shooter).Angle(), true
}

// aimJitter returns a random angular aim error in radians. The error band
// shrinks as lead accuracy rises, so the hardest tiers shoot nearly true
// while novice-tier hostiles spray.
func (s *Server) aimJitter(profile *game.DifficultyProfile) float64 {
	maxErr := BaseAimJitter * (1 - profile.LeadAccuracy)
	if maxErr <= 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * maxErr
}
