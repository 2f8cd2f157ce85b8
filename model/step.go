package model

import "github.com/sheikhrachel/lifegrid/rules"

// Stepper computes the next generation from the current one
type Stepper func(*Grid) *Grid

// CountNeighbors counts living neighbors of (i, k). Offsets falling outside
// the grid count as dead; edges do not wrap.
func (g *Grid) CountNeighbors(i, k int) int {
	count := 0
	for _, o := range rules.NeighborOffsets {
		ni, nk := i+o.DRow, k+o.DCol
		if ni >= 0 && ni < g.rows && nk >= 0 && nk < g.cols && g.cells[ni][nk] {
			count++
		}
	}
	return count
}

// Step returns the next generation of g. Every cell is decided from g alone
// and written into a freshly allocated grid.
func Step(g *Grid) *Grid {
	next := NewGrid(g.rows, g.cols)
	for i := range g.rows {
		for k := range g.cols {
			next.cells[i][k] = rules.ApplyConwayRules(g.CountNeighbors(i, k), g.cells[i][k])
		}
	}
	return next
}
