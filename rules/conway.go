package rules

// Offset is a (row, col) displacement to one of a cell's neighbors.
type Offset struct {
	DRow, DCol int
}

/*
NeighborOffsets is the 8-connected neighborhood around a cell:

	[-1,-1][-1, 0][-1, 1]
	[ 0,-1][ cell][ 0, 1]
	[ 1,-1][ 1, 0][ 1, 1]
*/
var NeighborOffsets = [8]Offset{
	{0, 1},
	{0, -1},
	{1, 0},
	{1, 1},
	{1, -1},
	{-1, 0},
	{-1, 1},
	{-1, -1},
}

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Fewer than 2 or more than 3 neighbors kills the cell, a dead cell with exactly 3 is born,
anything else keeps its state: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}
