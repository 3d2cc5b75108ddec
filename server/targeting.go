package server

import (
	"github.com/spacehunter/Star-Raiders-sub000/game"
)

// selectNearest returns the roster index of the closest active hostile to
// pos, or -1 on an empty or fully-inactive roster. Ties keep the first
// entry found. Callers hold the state lock.
func (s *Server) selectNearest(pos game.Vec2) int {
	best := -1
	bestDist := MaxSearchDistance
	for i, h := range s.gameState.Hostiles {
		if !h.Alive {
			continue
		}
		if d := game.Distance(pos, h.Pos); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// selectNext cycles forward through the roster from the current target,
// skipping inactive entries and wrapping. An invalid current index starts
// the scan from the top. Returns -1 when nothing is targetable.
func (s *Server) selectNext() int {
	gs := s.gameState
	n := len(gs.Hostiles)
	if n == 0 {
		return -1
	}
	start := gs.TargetIdx
	if start < 0 || start >= n {
		start = -1
	}
	for step := 1; step <= n; step++ {
		i := (start + step + n) % n
		if gs.Hostiles[i].Alive {
			return i
		}
	}
	return -1
}

// retarget repairs the target index after the roster was compacted. When
// the previously locked hostile survived, its new index is restored;
// otherwise the lock advances with selectNext semantics.
func (s *Server) retarget(oldID string) {
	gs := s.gameState
	if oldID != "" {
		for i, h := range gs.Hostiles {
			if h.ID == oldID {
				gs.TargetIdx = i
				return
			}
		}
	}
	gs.TargetIdx = s.selectNext()
}
