package game

// SectorCell is one cell of the galactic chart. HostileCount is the
// abstract unit count the strategic layer migrates; it only drops when
// combat destroys a materialized unit.
type SectorCell struct {
	X                 int  `json:"x"`
	Y                 int  `json:"y"`
	HostileCount      int  `json:"hostileCount"`
	HasStarbase       bool `json:"hasStarbase"`
	StarbaseDestroyed bool `json:"starbaseDestroyed"`
}

// SectorGrid is the galaxy-wide chart. Out-of-bounds queries return
// no data rather than panicking; callers handle the empty result.
type SectorGrid struct {
	Cols  int          `json:"cols"`
	Rows  int          `json:"rows"`
	Cells []SectorCell `json:"cells"` // row-major, y*Cols+x
}

// NewSectorGrid creates an empty grid of the given dimensions.
func NewSectorGrid(cols, rows int) *SectorGrid {
	g := &SectorGrid{
		Cols:  cols,
		Rows:  rows,
		Cells: make([]SectorCell, cols*rows),
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := &g.Cells[y*cols+x]
			c.X = x
			c.Y = y
		}
	}
	return g
}

// InBounds reports whether (x, y) is a valid sector coordinate.
func (g *SectorGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Cols && y >= 0 && y < g.Rows
}

// Cell returns the cell at (x, y), or nil when out of bounds.
func (g *SectorGrid) Cell(x, y int) *SectorCell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.Cells[y*g.Cols+x]
}

// Count returns the hostile count at (x, y), zero when out of bounds.
func (g *SectorGrid) Count(x, y int) int {
	c := g.Cell(x, y)
	if c == nil {
		return 0
	}
	return c.HostileCount
}

// AddHostiles raises the count at (x, y). Out of bounds is ignored.
func (g *SectorGrid) AddHostiles(x, y, n int) {
	c := g.Cell(x, y)
	if c == nil || n <= 0 {
		return
	}
	c.HostileCount += n
}

// RemoveHostile lowers the count at (x, y) by one. Returns false when the
// cell is out of bounds or already empty; the count never goes negative.
func (g *SectorGrid) RemoveHostile(x, y int) bool {
	c := g.Cell(x, y)
	if c == nil || c.HostileCount <= 0 {
		return false
	}
	c.HostileCount--
	return true
}

// PlaceStarbase marks a starbase present at (x, y).
func (g *SectorGrid) PlaceStarbase(x, y int) {
	if c := g.Cell(x, y); c != nil {
		c.HasStarbase = true
		c.StarbaseDestroyed = false
	}
}

// HasStarbase reports an intact starbase at (x, y).
func (g *SectorGrid) HasStarbase(x, y int) bool {
	c := g.Cell(x, y)
	return c != nil && c.HasStarbase && !c.StarbaseDestroyed
}

// DestroyStarbase marks the starbase at (x, y) destroyed. Returns false
// when no intact starbase is there.
func (g *SectorGrid) DestroyStarbase(x, y int) bool {
	c := g.Cell(x, y)
	if c == nil || !c.HasStarbase || c.StarbaseDestroyed {
		return false
	}
	c.StarbaseDestroyed = true
	return true
}

// TotalHostiles sums the counts across the whole grid.
func (g *SectorGrid) TotalHostiles() int {
	total := 0
	for i := range g.Cells {
		total += g.Cells[i].HostileCount
	}
	return total
}

// Starbases returns every cell with an intact starbase.
func (g *SectorGrid) Starbases() []*SectorCell {
	var out []*SectorCell
	for i := range g.Cells {
		c := &g.Cells[i]
		if c.HasStarbase && !c.StarbaseDestroyed {
			out = append(out, c)
		}
	}
	return out
}

// AllStarbasesLost reports whether the chart placed at least one starbase
// and every one of them has been destroyed. A chart that never had
// starbases reports false.
func (g *SectorGrid) AllStarbasesLost() bool {
	placed := false
	for i := range g.Cells {
		c := &g.Cells[i]
		if !c.HasStarbase {
			continue
		}
		placed = true
		if !c.StarbaseDestroyed {
			return false
		}
	}
	return placed
}

// Neighbors4 returns the in-bounds orthogonal neighbors of (x, y).
func (g *SectorGrid) Neighbors4(x, y int) []*SectorCell {
	out := make([]*SectorCell, 0, 4)
	for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		if c := g.Cell(x+d[0], y+d[1]); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Ring2 returns the in-bounds cells at exactly Manhattan distance 2.
func (g *SectorGrid) Ring2(x, y int) []*SectorCell {
	var out []*SectorCell
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if abs(dx)+abs(dy) != 2 {
				continue
			}
			if c := g.Cell(x+dx, y+dy); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// Surrounded reports whether every in-bounds orthogonal neighbor of (x, y)
// hosts at least one hostile unit. Edge and corner cells qualify with only
// their existing neighbors.
func (g *SectorGrid) Surrounded(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	for _, c := range g.Neighbors4(x, y) {
		if c.HostileCount <= 0 {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// SiegeState tracks the single active siege episode galaxy-wide.
type SiegeState struct {
	Active          bool    `json:"active"`
	TargetX         int     `json:"targetX"`
	TargetY         int     `json:"targetY"`
	Episode         string  `json:"episode"` // episode id, fresh per target selection
	Surrounded      bool    `json:"surrounded"`
	SurroundedSince float64 `json:"surroundedSince"`

	// Per-episode notification latches
	NotifiedSurround bool `json:"-"`
	Notified60       bool `json:"-"`
	Notified30       bool `json:"-"`
}
