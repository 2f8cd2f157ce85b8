package model

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Grid is a fixed rows x cols board of cells. A Grid is never modified after
// it is handed out: stepping and edits return a new Grid.
type Grid struct {
	rows  int
	cols  int
	cells [][]bool
}

// NewGrid creates an all-dead grid with the specified dimensions
func NewGrid(rows, cols int) *Grid {
	return NewFilledGrid(rows, cols, false)
}

// NewFilledGrid creates a grid with every cell set to the given state
func NewFilledGrid(rows, cols int, alive bool) *Grid {
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
		if alive {
			for k := range cells[i] {
				cells[i][k] = true
			}
		}
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: cells,
	}
}

// FromRows builds a grid from 0/1 rows. Any non-zero value is alive.
func FromRows(rows [][]uint8) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("[FromRows] grid must have at least one row and one column")
	}
	g := NewGrid(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != g.cols {
			return nil, errors.Errorf("[FromRows] row %d has %d cells, want %d", i, len(row), g.cols)
		}
		for k, v := range row {
			g.cells[i][k] = v != 0
		}
	}
	return g, nil
}

// Rows returns the height of the grid
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the width of the grid
func (g *Grid) Cols() int {
	return g.cols
}

func (g *Grid) inBounds(i, k int) bool {
	return i >= 0 && i < g.rows && k >= 0 && k < g.cols
}

// Alive reports whether the cell at row i, column k is alive. Positions
// outside the grid are dead.
func (g *Grid) Alive(i, k int) bool {
	if !g.inBounds(i, k) {
		return false
	}
	return g.cells[i][k]
}

// Cell returns the cell at (i, k) as 1 (alive) or 0 (dead)
func (g *Grid) Cell(i, k int) uint8 {
	if g.Alive(i, k) {
		return 1
	}
	return 0
}

func (g *Grid) clone() *Grid {
	cells := make([][]bool, g.rows)
	for i := range cells {
		cells[i] = append([]bool(nil), g.cells[i]...)
	}
	return &Grid{
		rows:  g.rows,
		cols:  g.cols,
		cells: cells,
	}
}

// WithCell returns a copy of the grid with one cell set. Out-of-range
// positions return g itself.
func (g *Grid) WithCell(i, k int, alive bool) *Grid {
	if !g.inBounds(i, k) {
		return g
	}
	next := g.clone()
	next.cells[i][k] = alive
	return next
}

// Toggle returns a copy of the grid with the cell at (i, k) flipped
func (g *Grid) Toggle(i, k int) *Grid {
	return g.WithCell(i, k, !g.Alive(i, k))
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for i := range g.rows {
		for k := range g.cols {
			if g.cells[i][k] {
				count++
			}
		}
	}
	return
}

// Hash returns an MD5 hash of the grid state
func (g *Grid) Hash() string {
	h := md5.New()
	row := make([]byte, g.cols)
	for i := range g.rows {
		for k := range g.cols {
			row[k] = g.Cell(i, k)
		}
		h.Write(row)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Equal reports whether both grids have the same shape and cells
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := range g.rows {
		for k := range g.cols {
			if g.cells[i][k] != other.cells[i][k] {
				return false
			}
		}
	}
	return true
}

// String renders the grid as lines of 0 and 1
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for i := range g.rows {
		for k := range g.cols {
			b.WriteByte('0' + g.Cell(i, k))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
