package puzzle

/*

Backtracking search

*/

// Solve searches for a completion of the board: an assignment of
// digits to all the empty cells after which every row, column,
// and block is a permutation of 1 through 9.  The first
// completion found in search order is returned, and repeated
// solves of the same board return the same completion.  If the
// search exhausts every alternative without filling the board,
// Solve returns an Unsolvable error.
//
// Cells that already hold values are taken as given and are
// never changed or questioned: consistency is checked only when
// the search places a digit.  A board whose givens conflict with
// each other is therefore discovered to be unsolvable (or not)
// by exhaustion, not by any up-front validation.
func (b Board) Solve() (Board, error) {
	solved, ok := solve(b, 0, 0)
	if !ok {
		return Board{}, unsolvableError()
	}
	return solved, nil
}

// solve continues the search from the given cursor position,
// scanning cells in row-major order.  Candidate placements are
// tried on copies of the board, so a failed branch needs no
// undoing; success just hands the completed copy back up the
// stack.
func solve(b Board, row, col int) (Board, bool) {
	switch {
	case col == SideLength:
		// this row is done, wrap to the start of the next
		return solve(b, row+1, 0)
	case row == SideLength:
		// scanned off the end of the board: it's complete
		return b, true
	case b.Get(row, col) != 0:
		// a given or an already-placed digit, leave it alone
		return solve(b, row, col+1)
	}
	// empty cell: try each usable digit in ascending order,
	// keeping the first whose branch completes the board
	for _, v := range b.Candidates(row, col) {
		if solved, ok := solve(b.WithCell(row, col, v), row, col+1); ok {
			return solved, true
		}
	}
	// no digit works here, so no completion from this board
	return Board{}, false
}
