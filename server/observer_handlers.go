package server

import (
	"encoding/json"
	"fmt"

	"github.com/spacehunter/Star-Raiders-sub000/game"
)

// handleStatusRequest answers an in-band status query for one observer.
func (c *Client) handleStatusRequest(data json.RawMessage) {
	s := c.server
	s.gameState.Mu.RLock()
	gs := s.gameState
	resp := map[string]interface{}{
		"mission":    s.missionID,
		"difficulty": gs.Tier.String(),
		"frame":      gs.Frame,
		"time":       gs.Time,
		"status":     gs.Status.String(),
		"alert":      gs.Alert.String(),
		"score":      gs.Score,
		"hull":       gs.Player.Hull,
		"units":      gs.Grid.TotalHostiles(),
		"starbases":  len(gs.Grid.Starbases()),
		"sector":     map[string]int{"x": gs.Player.SectorX, "y": gs.Player.SectorY},
	}
	s.gameState.Mu.RUnlock()

	c.sendMsg(ServerMessage{Type: MsgTypeStatus, Data: resp})
}

// handleChartRequest sends the observer a galactic chart snapshot: cell
// counts, starbases and the siege situation.
func (c *Client) handleChartRequest(data json.RawMessage) {
	s := c.server
	s.gameState.Mu.RLock()
	gs := s.gameState
	cells := make([]game.SectorCell, len(gs.Grid.Cells))
	copy(cells, gs.Grid.Cells)
	chart := struct {
		Cols    int               `json:"cols"`
		Rows    int               `json:"rows"`
		Cells   []game.SectorCell `json:"cells"`
		Siege   game.SiegeState   `json:"siege"`
		SectorX int               `json:"sectorX"`
		SectorY int               `json:"sectorY"`
	}{
		Cols:    gs.Grid.Cols,
		Rows:    gs.Grid.Rows,
		Cells:   cells,
		Siege:   gs.Siege,
		SectorX: gs.Player.SectorX,
		SectorY: gs.Player.SectorY,
	}
	s.gameState.Mu.RUnlock()

	c.sendMsg(ServerMessage{Type: MsgTypeChart, Data: chart})
}

// WarpData carries an observer warp command.
type WarpData struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// handleWarp relocates the player anchor on observer request.
func (c *Client) handleWarp(data json.RawMessage) {
	var warp WarpData
	if err := json.Unmarshal(data, &warp); err != nil {
		return
	}

	s := c.server
	s.gameState.Mu.Lock()
	ok := s.warpToSector(warp.X, warp.Y)
	s.gameState.Mu.Unlock()

	if !ok {
		c.sendMsg(ServerMessage{
			Type: MsgTypeError,
			Data: map[string]interface{}{"text": fmt.Sprintf("cannot warp to %d,%d", warp.X, warp.Y)},
		})
		return
	}

	s.broadcast <- ServerMessage{
		Type: MsgTypeMessage,
		Data: map[string]interface{}{
			"text": fmt.Sprintf("warped to sector %d,%d", warp.X, warp.Y),
			"type": "info",
		},
	}
}

// DifficultyData carries an observer difficulty change.
type DifficultyData struct {
	Tier string `json:"tier"`
}

// handleDifficulty switches the mission tier mid-flight. Live entities
// keep their spawn snapshots; the shared profile swap changes fire
// gating, evasion, regen and siege pacing from the next tick on.
func (c *Client) handleDifficulty(data json.RawMessage) {
	var req DifficultyData
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}
	tier, err := game.ParseTier(req.Tier)
	if err != nil {
		c.sendMsg(ServerMessage{
			Type: MsgTypeError,
			Data: map[string]interface{}{"text": err.Error()},
		})
		return
	}

	s := c.server
	s.gameState.Mu.Lock()
	s.gameState.Tier = tier
	s.gameState.Profile = s.profiles[tier]
	s.gameState.Mu.Unlock()

	s.log.Info("difficulty changed", "tier", tier.String(), "client", c.ID)
	s.broadcast <- ServerMessage{
		Type: MsgTypeMessage,
		Data: map[string]interface{}{
			"text": "difficulty set to " + tier.String(),
			"type": "info",
		},
	}
}

// handleFire pulls the player trigger on observer request.
func (c *Client) handleFire(data json.RawMessage) {
	s := c.server
	s.gameState.Mu.Lock()
	ok := s.firePlayerShot()
	s.gameState.Mu.Unlock()

	if !ok {
		c.sendMsg(ServerMessage{
			Type: MsgTypeError,
			Data: map[string]interface{}{"text": "no target in sector"},
		})
	}
}

// TargetData carries an observer target selection.
type TargetData struct {
	Mode string `json:"mode"` // nearest or next
}

// handleTarget moves the target lock on observer request.
func (c *Client) handleTarget(data json.RawMessage) {
	var req TargetData
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	s := c.server
	s.gameState.Mu.Lock()
	gs := s.gameState
	switch req.Mode {
	case "nearest":
		gs.TargetIdx = s.selectNearest(gs.Player.Pos)
	default:
		gs.TargetIdx = s.selectNext()
	}
	idx := gs.TargetIdx
	var locked *game.Hostile
	if idx >= 0 && idx < len(gs.Hostiles) {
		locked = gs.Hostiles[idx]
	}
	resp := map[string]interface{}{"targetIdx": idx}
	if locked != nil {
		resp["id"] = locked.ID
		resp["kind"] = locked.Kind.String()
		resp["health"] = locked.Health
	}
	s.gameState.Mu.Unlock()

	c.sendMsg(ServerMessage{Type: MsgTypeTarget, Data: resp})
}
