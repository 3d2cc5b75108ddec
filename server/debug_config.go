package server

import (
	"log/slog"

	"github.com/spacehunter/Star-Raiders-sub000/game"
)

// Debug flags for various subsystems
var (
	DebugFire = false // Set to true to enable detailed fire-decision logs
)

// logFireDecision logs hostile fire decisions when debugging is enabled
func logFireDecision(h *game.Hostile, target game.Vec2, fired bool) {
	if !DebugFire {
		return
	}
	slog.Debug("fire decision",
		"id", h.ID,
		"kind", h.Kind.String(),
		"state", h.State.String(),
		"fired", fired,
		"dist", game.Distance(h.Pos, target),
		"attack_range", h.Stats.AttackRange)
}
