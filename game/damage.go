package game

// DesperationHealthFrac is the health fraction under which fighters fire
// faster.
const DesperationHealthFrac = 0.35

// DesperationFireFactor multiplies the fire gate for near-dead fighters.
const DesperationFireFactor = 0.6

// Provoke flips a cruiser into its one-way provoked state. No-op for any
// other kind; the flag never reverts for the entity's lifetime.
func (h *Hostile) Provoke() {
	if h.Kind == KindCruiser {
		h.Cruiser.Provoked = true
	}
}

// TakeDamage applies a hit to the hostile and reports whether it was
// destroyed by this hit. A hit always provokes a cruiser, even when the
// damage is absorbed. A raised shield absorbs the full amount and drops.
// Damage to an already-dead entity is a no-op.
func (h *Hostile) TakeDamage(amount int) bool {
	if h == nil || !h.Alive || amount <= 0 {
		return false
	}

	h.Provoke()

	if h.HasShield && h.ShieldUp {
		h.ShieldUp = false
		return false
	}

	h.Health -= amount
	if h.Health <= 0 {
		h.Health = 0
		h.Alive = false
		return true
	}
	return false
}

// ShouldFire reports whether the hostile may fire at the given sim time,
// and on success records the shot time. False while inactive, outside
// ATTACK, unprovoked, or beyond attack range. The elapsed-time gate scales
// with the difficulty fire-rate and a desperation factor for near-dead
// fighters. The caller owns projectile creation.
func (h *Hostile) ShouldFire(now float64, targetPos Vec2, profile *DifficultyProfile) bool {
	if h == nil || !h.Alive || h.State != StateAttack {
		return false
	}
	if h.Kind == KindCruiser && !h.Cruiser.Provoked {
		return false
	}
	if Distance(h.Pos, targetPos) > h.Stats.AttackRange {
		return false
	}

	gate := h.Stats.FireInterval * profile.FireRateScale
	if h.Kind == KindFighter && float64(h.Health) < float64(h.MaxHealth)*DesperationHealthFrac {
		gate *= DesperationFireFactor
	}
	if now-h.LastFireTime < gate {
		return false
	}
	h.LastFireTime = now
	return true
}

// LeadAimPoint predicts where to shoot so a projectile meets the target,
// scaled by the profile's lead accuracy. Accuracy 0 degenerates to the
// target's current position.
func (h *Hostile) LeadAimPoint(targetPos Vec2, projSpeed float64, profile *DifficultyProfile) Vec2 {
	if projSpeed <= 0 || profile.LeadAccuracy <= 0 {
		return targetPos
	}
	flight := Distance(h.Pos, targetPos) / projSpeed
	return targetPos.Add(h.EstTargetVel.Scale(flight * profile.LeadAccuracy))
}
