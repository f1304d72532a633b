// Copyright 2015-2024 Daniel C. Brotsky.  All rights reserved.

// Package puzzle provides a model for 9x9 Sudoku boards and a
// constraint-pruned backtracking solver over them.  It supports
// both a golang interface and a web interface to the solver.
package puzzle

/*

Boards

*/

// Standard Sudoku dimensions.  The solver is specific to the 9x9
// geometry: nine rows, nine columns, and nine 3x3 blocks.
const (
	SideLength  = 9                       // cells per row, column, and block
	BlockLength = 3                       // rows and columns per block
	CellCount   = SideLength * SideLength // cells per board
)

// A Board is a 9x9 grid of cell values.  Cells hold values 1
// through 9, or 0 for an empty cell.  Boards are small value
// types: operations that place values return a modified copy and
// leave the receiver untouched, so every level of a search keeps
// its own board and backtracking needs no undo bookkeeping.
type Board struct {
	cells [CellCount]int
}

// New creates a Board from a row-major slice of cell values.
// There must be exactly 81 values, each in the range 0 through 9.
func New(values []int) (Board, error) {
	var b Board
	if len(values) != CellCount {
		return b, countError(len(values))
	}
	for i, v := range values {
		if v < 0 || v > SideLength {
			return Board{}, valueError(i, v)
		}
		b.cells[i] = v
	}
	return b, nil
}

// Get returns the value at the given cell.  Both coordinates
// must be in the range 0 through 8: anything else is a caller
// bug, and panics the way any out-of-range index does.
func (b Board) Get(row, col int) int {
	return b.cells[row*SideLength+col]
}

// WithCell returns a copy of the board in which the given cell
// holds the given value.  The receiver is unchanged.  WithCell
// does not check the value against the cell's peers; callers
// that need conflict-free placement go through Assign or consult
// Candidates first.
func (b Board) WithCell(row, col, value int) Board {
	b.cells[row*SideLength+col] = value
	return b
}

// Empty reports whether the given cell has no value.
func (b Board) Empty(row, col int) bool {
	return b.cells[row*SideLength+col] == 0
}

// RowValues returns the nine values of the given row, in column
// order.
func (b Board) RowValues(row int) []int {
	values := make([]int, SideLength)
	copy(values, b.cells[row*SideLength:(row+1)*SideLength])
	return values
}

// ColValues returns the nine values of the given column, in row
// order.
func (b Board) ColValues(col int) []int {
	values := make([]int, SideLength)
	for row := 0; row < SideLength; row++ {
		values[row] = b.cells[row*SideLength+col]
	}
	return values
}

// BlockCorner returns the top-left cell of the 3x3 block
// containing the given cell.
func BlockCorner(row, col int) (top, left int) {
	return BlockLength * (row / BlockLength), BlockLength * (col / BlockLength)
}

// BlockValues returns the nine values of the 3x3 block
// containing the given cell, in row-major order within the
// block.
func (b Board) BlockValues(row, col int) []int {
	top, left := BlockCorner(row, col)
	values := make([]int, 0, SideLength)
	for r := top; r < top+BlockLength; r++ {
		for c := left; c < left+BlockLength; c++ {
			values = append(values, b.cells[r*SideLength+c])
		}
	}
	return values
}

// CountEmpty returns the number of empty cells on the board.
func (b Board) CountEmpty() (count int) {
	for _, v := range b.cells {
		if v == 0 {
			count++
		}
	}
	return
}

/*

Guarded placement

*/

// Assign returns a copy of the board with the given value placed
// in the given cell, if the placement is allowed: the cell must
// be on the board and empty, the value must be in range, and no
// row, column, or block peer may already hold it.  The returned
// error identifies which requirement failed; on error the
// original board comes back unchanged.
func (b Board) Assign(row, col, value int) (Board, error) {
	if row < 0 || row >= SideLength || col < 0 || col >= SideLength {
		return b, locationError(row, col)
	}
	if value < 1 || value > SideLength {
		return b, valueError(row*SideLength+col, value)
	}
	if v := b.Get(row, col); v != 0 {
		return b, occupiedError(row, col, v)
	}
	if cs := intset(b.Candidates(row, col)); !cs.contains(value) {
		return b, conflictError(row, col, value)
	}
	return b.WithCell(row, col, value), nil
}
