package game

import (
	"testing"
)

func TestGridOutOfBoundsQueries(t *testing.T) {
	g := NewSectorGrid(4, 3)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x past edge", 4, 0},
		{"y past edge", 0, 3},
		{"both past edge", 99, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if g.Cell(tt.x, tt.y) != nil {
				t.Errorf("Cell(%d,%d) = non-nil, want nil", tt.x, tt.y)
			}
			if got := g.Count(tt.x, tt.y); got != 0 {
				t.Errorf("Count(%d,%d) = %d, want 0", tt.x, tt.y, got)
			}
			if g.RemoveHostile(tt.x, tt.y) {
				t.Errorf("RemoveHostile(%d,%d) = true, want false", tt.x, tt.y)
			}
			if g.HasStarbase(tt.x, tt.y) {
				t.Errorf("HasStarbase(%d,%d) = true, want false", tt.x, tt.y)
			}
		})
	}
}

func TestRemoveHostileNeverGoesNegative(t *testing.T) {
	g := NewSectorGrid(2, 2)
	g.AddHostiles(1, 1, 1)

	if !g.RemoveHostile(1, 1) {
		t.Fatal("RemoveHostile on occupied cell = false, want true")
	}
	if g.RemoveHostile(1, 1) {
		t.Error("RemoveHostile on empty cell = true, want false")
	}
	if got := g.Count(1, 1); got != 0 {
		t.Errorf("Count after draining = %d, want 0", got)
	}
}

func TestSurrounded(t *testing.T) {
	// Interior cell with all four neighbors occupied
	g := NewSectorGrid(5, 5)
	for _, d := range [][2]int{{2, 1}, {3, 2}, {2, 3}, {1, 2}} {
		g.AddHostiles(d[0], d[1], 1)
	}
	if !g.Surrounded(2, 2) {
		t.Fatal("interior cell with four occupied neighbors not surrounded")
	}

	// Zeroing any single neighbor breaks the surround
	for _, d := range [][2]int{{2, 1}, {3, 2}, {2, 3}, {1, 2}} {
		c := g.Cell(d[0], d[1])
		saved := c.HostileCount
		c.HostileCount = 0
		if g.Surrounded(2, 2) {
			t.Errorf("still surrounded with neighbor (%d,%d) empty", d[0], d[1])
		}
		c.HostileCount = saved
	}
}

func TestSurroundedEdgeAndCorner(t *testing.T) {
	g := NewSectorGrid(4, 4)

	// Corner (0,0) has only two in-bounds neighbors
	g.AddHostiles(1, 0, 1)
	g.AddHostiles(0, 1, 1)
	if !g.Surrounded(0, 0) {
		t.Error("corner cell with both neighbors occupied not surrounded")
	}

	// Edge (2,0) has three in-bounds neighbors
	g2 := NewSectorGrid(4, 4)
	g2.AddHostiles(1, 0, 1)
	g2.AddHostiles(3, 0, 2)
	g2.AddHostiles(2, 1, 1)
	if !g2.Surrounded(2, 0) {
		t.Error("edge cell with all three neighbors occupied not surrounded")
	}
	g2.Cell(2, 1).HostileCount = 0
	if g2.Surrounded(2, 0) {
		t.Error("edge cell still surrounded after clearing a neighbor")
	}
}

func TestStarbaseLifecycle(t *testing.T) {
	g := NewSectorGrid(3, 3)
	g.PlaceStarbase(1, 1)

	if !g.HasStarbase(1, 1) {
		t.Fatal("placed starbase not reported present")
	}
	if !g.DestroyStarbase(1, 1) {
		t.Fatal("DestroyStarbase on intact starbase = false")
	}
	if g.HasStarbase(1, 1) {
		t.Error("destroyed starbase still reported intact")
	}
	if g.DestroyStarbase(1, 1) {
		t.Error("DestroyStarbase twice = true, want false")
	}
	if g.DestroyStarbase(0, 0) {
		t.Error("DestroyStarbase on empty cell = true, want false")
	}
	if got := len(g.Starbases()); got != 0 {
		t.Errorf("Starbases() after destruction = %d cells, want 0", got)
	}
}

func TestAllStarbasesLost(t *testing.T) {
	g := NewSectorGrid(3, 3)
	if g.AllStarbasesLost() {
		t.Error("chart without starbases reports all lost")
	}

	g.PlaceStarbase(0, 0)
	g.PlaceStarbase(2, 2)
	if g.AllStarbasesLost() {
		t.Error("intact starbases report all lost")
	}

	g.DestroyStarbase(0, 0)
	if g.AllStarbasesLost() {
		t.Error("one surviving starbase reports all lost")
	}

	g.DestroyStarbase(2, 2)
	if !g.AllStarbasesLost() {
		t.Error("every starbase destroyed, yet not reported lost")
	}
}

func TestNeighbors4AndRing2(t *testing.T) {
	g := NewSectorGrid(5, 5)

	if got := len(g.Neighbors4(2, 2)); got != 4 {
		t.Errorf("interior Neighbors4 = %d, want 4", got)
	}
	if got := len(g.Neighbors4(0, 0)); got != 2 {
		t.Errorf("corner Neighbors4 = %d, want 2", got)
	}

	// Interior ring at Manhattan distance 2 has 8 cells
	ring := g.Ring2(2, 2)
	if len(ring) != 8 {
		t.Fatalf("interior Ring2 = %d cells, want 8", len(ring))
	}
	for _, c := range ring {
		d := abs(c.X-2) + abs(c.Y-2)
		if d != 2 {
			t.Errorf("Ring2 returned (%d,%d) at Manhattan distance %d", c.X, c.Y, d)
		}
	}
}

func TestTotalHostiles(t *testing.T) {
	g := NewSectorGrid(3, 3)
	g.AddHostiles(0, 0, 3)
	g.AddHostiles(2, 1, 2)
	g.AddHostiles(1, 2, 1)

	if got := g.TotalHostiles(); got != 6 {
		t.Errorf("TotalHostiles = %d, want 6", got)
	}
	g.RemoveHostile(0, 0)
	if got := g.TotalHostiles(); got != 5 {
		t.Errorf("TotalHostiles after removal = %d, want 5", got)
	}
}
