package server

import (
	"testing"

	"github.com/spacehunter/Star-Raiders-sub000/game"
)

func TestAlertLevels(t *testing.T) {
	s := newTestServer(90)
	s.gameState.Profile = testProfile()
	gs := s.gameState

	s.updateAlertLevel()
	if gs.Alert != game.AlertGreen {
		t.Errorf("empty sector alert = %v, want green", gs.Alert)
	}

	h := addHostile(s, game.KindCruiser, game.Vec2{X: game.RedAlertRange + 200})
	s.updateAlertLevel()
	if gs.Alert != game.AlertYellow {
		t.Errorf("distant contact alert = %v, want yellow", gs.Alert)
	}

	h.Pos = game.Vec2{X: game.RedAlertRange - 50}
	s.updateAlertLevel()
	if gs.Alert != game.AlertRed {
		t.Errorf("close contact alert = %v, want red", gs.Alert)
	}

	h.Alive = false
	s.updateAlertLevel()
	if gs.Alert != game.AlertGreen {
		t.Errorf("cleared sector alert = %v, want green", gs.Alert)
	}

	// Three transitions, three events
	count := 0
	for _, typ := range collectEventTypes(s) {
		if typ == "alert" {
			count++
		}
	}
	if count != 3 {
		t.Errorf("alert events = %d, want 3", count)
	}
}

func TestMissionWonWhenChartEmpty(t *testing.T) {
	s := newTestServer(91)
	s.gameState.Profile = testProfile()
	gs := s.gameState

	gs.Grid.AddHostiles(3, 3, 1)
	s.checkMissionEnd()
	if gs.Status != game.MissionActive {
		t.Fatal("mission ended with units still on the chart")
	}

	gs.Grid.RemoveHostile(3, 3)
	s.checkMissionEnd()
	if gs.Status != game.MissionWon {
		t.Errorf("status = %v, want won", gs.Status)
	}
	if !containsEvent(collectEventTypes(s), "mission_over") {
		t.Error("mission end not recorded")
	}
}

func TestMissionLostOnHullBreach(t *testing.T) {
	s := newTestServer(92)
	s.gameState.Profile = testProfile()
	gs := s.gameState

	gs.Grid.AddHostiles(3, 3, 2)
	gs.Player.Hull = 0
	s.checkMissionEnd()
	if gs.Status != game.MissionLost {
		t.Errorf("status = %v, want lost", gs.Status)
	}
}

func TestMissionLostWhenStarbasesGone(t *testing.T) {
	s := newTestServer(94)
	s.gameState.Profile = testProfile()
	gs := s.gameState

	gs.Grid.AddHostiles(3, 3, 2)
	gs.Grid.PlaceStarbase(1, 1)
	gs.Grid.PlaceStarbase(5, 2)

	gs.Grid.DestroyStarbase(1, 1)
	s.checkMissionEnd()
	if gs.Status != game.MissionActive {
		t.Fatal("mission ended with a starbase still standing")
	}

	gs.Grid.DestroyStarbase(5, 2)
	s.checkMissionEnd()
	if gs.Status != game.MissionLost {
		t.Errorf("status = %v, want lost", gs.Status)
	}
	if !containsEvent(collectEventTypes(s), "mission_over") {
		t.Error("mission end not recorded")
	}
}

func TestClearedChartOutranksStarbaseLoss(t *testing.T) {
	s := newTestServer(95)
	s.gameState.Profile = testProfile()
	gs := s.gameState

	// Last unit and last starbase fall in the same tick: the cleared
	// chart counts as the victory.
	gs.Grid.PlaceStarbase(1, 1)
	gs.Grid.DestroyStarbase(1, 1)
	s.checkMissionEnd()
	if gs.Status != game.MissionWon {
		t.Errorf("status = %v, want won", gs.Status)
	}
}

func TestMissionEndSettlesOnce(t *testing.T) {
	s := newTestServer(93)
	s.gameState.Profile = testProfile()
	gs := s.gameState

	gs.Player.Hull = 0
	s.checkMissionEnd()
	// An empty chart afterwards must not flip the loss into a win.
	s.checkMissionEnd()
	if gs.Status != game.MissionLost {
		t.Errorf("status = %v, want the original loss", gs.Status)
	}

	count := 0
	for _, typ := range collectEventTypes(s) {
		if typ == "mission_over" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("mission_over events = %d, want 1", count)
	}
}
