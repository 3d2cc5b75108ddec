package server

import (
	"github.com/spacehunter/Star-Raiders-sub000/game"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// updateAlertLevel mirrors the classic condition display: red with a
// hostile inside red-alert range, yellow with any live contact in the
// sector, green otherwise. Transitions are recorded as events.
func (s *Server) updateAlertLevel() {
	gs := s.gameState
	level := game.AlertGreen
	for _, h := range gs.Hostiles {
		if !h.Alive {
			continue
		}
		if game.Distance(h.Pos, gs.Player.Pos) <= game.RedAlertRange {
			level = game.AlertRed
			break
		}
		level = game.AlertYellow
	}

	if level == gs.Alert {
		return
	}
	prev := gs.Alert
	gs.Alert = level
	s.recordEvent(telemetry.EventRow{
		EventType: telemetry.EventAlert,
		SectorX:   gs.Player.SectorX,
		SectorY:   gs.Player.SectorY,
		Detail:    prev.String() + " to " + level.String(),
	})
	if level == game.AlertRed {
		s.log.Info("red alert", "contacts", gs.ActiveHostiles())
	}
}

// checkMissionEnd settles the mission: won once the chart holds no
// hostile units anywhere, lost when the hull gives out or the last
// starbase falls. The tick that ends the mission still completes; later
// ticks only advance the clock.
func (s *Server) checkMissionEnd() {
	gs := s.gameState
	if gs.Status != game.MissionActive {
		return
	}

	switch {
	case gs.Player.Hull <= 0:
		gs.Status = game.MissionLost
		s.recordEvent(telemetry.EventRow{
			EventType: telemetry.EventMissionOver,
			SectorX:   gs.Player.SectorX,
			SectorY:   gs.Player.SectorY,
			Detail:    "hull breached",
		})
		s.log.Warn("mission lost", "score", gs.Score, "time", gs.Time)

	case gs.Grid.TotalHostiles() == 0:
		gs.Status = game.MissionWon
		s.recordEvent(telemetry.EventRow{
			EventType: telemetry.EventMissionOver,
			SectorX:   gs.Player.SectorX,
			SectorY:   gs.Player.SectorY,
			Detail:    "all hostiles destroyed",
		})
		s.log.Info("mission won", "score", gs.Score, "time", gs.Time)

	case gs.Grid.AllStarbasesLost():
		gs.Status = game.MissionLost
		s.recordEvent(telemetry.EventRow{
			EventType: telemetry.EventMissionOver,
			SectorX:   gs.Player.SectorX,
			SectorY:   gs.Player.SectorY,
			Detail:    "all starbases lost",
		})
		s.log.Warn("mission lost", "score", gs.Score, "time", gs.Time)
	}
}

// MissionSummary is the end-of-run report handed to the CLI.
type MissionSummary struct {
	MissionID     string
	Status        string
	Score         int
	Frames        int64
	SimTime       float64
	UnitsLeft     int
	StarbasesLeft int
	SectorX       int
	SectorY       int
}

// Summary snapshots the mission outcome.
func (s *Server) Summary() MissionSummary {
	gs := s.gameState
	gs.Mu.RLock()
	defer gs.Mu.RUnlock()

	return MissionSummary{
		MissionID:     s.missionID,
		Status:        gs.Status.String(),
		Score:         gs.Score,
		Frames:        gs.Frame,
		SimTime:       gs.Time,
		UnitsLeft:     gs.Grid.TotalHostiles(),
		StarbasesLeft: len(gs.Grid.Starbases()),
		SectorX:       gs.Player.SectorX,
		SectorY:       gs.Player.SectorY,
	}
}
