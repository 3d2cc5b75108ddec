package server

import (
	"time"

	"github.com/spacehunter/Star-Raiders-sub000/game"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// recordEvent stamps and queues a telemetry event while the state lock
// is held. flushTelemetry drains the queue after release, so no writer
// or observer I/O ever runs inside a tick.
func (s *Server) recordEvent(ev telemetry.EventRow) {
	ev.MissionID = s.missionID
	ev.Timestamp = time.Now()
	s.pendingEvents = append(s.pendingEvents, ev)
}

// collectTickRow samples the observable state into one telemetry row.
func (s *Server) collectTickRow() telemetry.Row {
	gs := s.gameState
	gs.Mu.RLock()
	defer gs.Mu.RUnlock()

	var fighters, cruisers, basestars int
	for _, h := range gs.Hostiles {
		if !h.Alive {
			continue
		}
		switch h.Kind {
		case game.KindFighter:
			fighters++
		case game.KindCruiser:
			cruisers++
		case game.KindBasestar:
			basestars++
		}
	}

	return telemetry.Row{
		MissionID: s.missionID,
		Frame:     uint64(gs.Frame),
		SimTime:   gs.Time,
		Fighters:  fighters,
		Cruisers:  cruisers,
		Basestars: basestars,
		Shots:     len(gs.Shots),
		SectorX:   gs.Player.SectorX,
		SectorY:   gs.Player.SectorY,
		Alert:     gs.Alert.String(),
		Siege:     gs.Siege.Active,
		Timestamp: time.Now(),
	}
}

// flushTelemetry hands the tick row and any queued events to the writers
// and observers. Writer and observer I/O runs without the state lock; a
// failing sink logs and the mission carries on. Observer sends never
// block the engine.
func (s *Server) flushTelemetry(row telemetry.Row) {
	// Observer handlers also queue events under the state lock, so the
	// swap takes it briefly.
	s.gameState.Mu.Lock()
	events := s.pendingEvents
	s.pendingEvents = nil
	s.gameState.Mu.Unlock()

	for _, w := range s.tickWriters {
		if err := w.WriteTick(row); err != nil {
			s.log.Error("tick telemetry write failed", "error", err)
		}
	}

	if len(events) == 0 {
		return
	}
	for _, w := range s.eventWriters {
		if err := w.WriteEvents(events); err != nil {
			s.log.Error("event telemetry write failed", "error", err)
		}
	}
	for _, ev := range events {
		select {
		case s.broadcast <- ServerMessage{Type: MsgTypeEvent, Data: ev}:
		default:
		}
	}
}
