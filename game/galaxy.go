package game

import (
	"math/rand"
)

// missionSetup holds the per-tier galaxy population parameters.
type missionSetup struct {
	totalUnits int // abstract hostile units scattered across the chart
	starbases  int
	maxPerCell int
}

var missionSetups = map[DifficultyTier]missionSetup{
	TierNovice:    {totalUnits: 24, starbases: 4, maxPerCell: 3},
	TierPilot:     {totalUnits: 36, starbases: 4, maxPerCell: 3},
	TierWarrior:   {totalUnits: 48, starbases: 3, maxPerCell: 4},
	TierCommander: {totalUnits: 60, starbases: 2, maxPerCell: 4},
}

// PopulateGalaxy sets up the galactic chart for a fresh mission: the
// player's start sector, starbase placement, and the initial scatter of
// abstract hostile units. The start sector and starbase sectors begin
// empty; sieges have to bring units in.
func PopulateGalaxy(gs *GameState, rng *rand.Rand) {
	setup := missionSetups[gs.Tier]
	grid := gs.Grid

	startX, startY := grid.Cols/2, grid.Rows/2
	gs.Player.SectorX = startX
	gs.Player.SectorY = startY

	reserved := func(x, y int) bool {
		if x == startX && y == startY {
			return true
		}
		return grid.Cell(x, y) != nil && grid.Cell(x, y).HasStarbase
	}

	// Starbases on distinct cells away from the start sector
	placed := 0
	for placed < setup.starbases {
		x := rng.Intn(grid.Cols)
		y := rng.Intn(grid.Rows)
		if reserved(x, y) {
			continue
		}
		grid.PlaceStarbase(x, y)
		placed++
	}

	// Scatter the unit budget one at a time, respecting the per-cell cap
	for i := 0; i < setup.totalUnits; i++ {
		for tries := 0; tries < 64; tries++ {
			x := rng.Intn(grid.Cols)
			y := rng.Intn(grid.Rows)
			if reserved(x, y) || grid.Count(x, y) >= setup.maxPerCell {
				continue
			}
			grid.AddHostiles(x, y, 1)
			break
		}
	}
}
