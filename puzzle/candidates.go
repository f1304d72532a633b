package puzzle

/*

Candidate computation

*/

// Candidates returns the digits that can be placed in the given
// cell without duplicating a value already present in the cell's
// row, column, or containing block.  The result is in ascending
// order.  The cell's own current value is excluded from the
// conflict set, so a filled cell is not treated as a peer of
// itself.  Candidates are recomputed from the board on every
// call: nothing is cached, because the board changes between
// calls during a search.
func (b Board) Candidates(row, col int) []int {
	var used intset
	for _, v := range b.RowValues(row) {
		if v != 0 {
			used.insert(v)
		}
	}
	for _, v := range b.ColValues(col) {
		if v != 0 {
			used.insert(v)
		}
	}
	for _, v := range b.BlockValues(row, col) {
		if v != 0 {
			used.insert(v)
		}
	}
	used.remove(b.Get(row, col))
	candidates := newIntsetRange(SideLength)
	candidates.subtract(used)
	return candidates
}

/*

Integer sets

*/

// An intset is a small set of integers, represented as a sorted
// slice.  We use intsets for candidate values, so that walking a
// set tries digits in ascending order.
type intset []int

// newIntsetRange makes an intset of the values 1 through max.
func newIntsetRange(max int) intset {
	if max < 1 {
		return intset{}
	}
	out := make(intset, max)
	for i := 0; i < max; i++ {
		out[i] = i + 1
	}
	return out
}

// find looks for value v, returning where it should sit in the
// set and whether it was found there.
func (ps *intset) find(v int) (int, bool) {
	end := len(*ps)
	where := end
	for i := 0; i < end; i++ {
		if (*ps)[i] == v {
			return i, true
		}
		if (*ps)[i] > v {
			where = i
			break
		}
	}
	return where, false
}

// contains reports whether v is in the set.
func (ps *intset) contains(v int) bool {
	_, found := ps.find(v)
	return found
}

// insert adds value v, returning whether it was there already.
func (ps *intset) insert(v int) bool {
	end := len(*ps)
	where, found := ps.find(v)
	if found {
		return true
	}
	// insert by lengthening, shifting, inserting
	*ps = append(*ps, v)
	if where < end {
		copy((*ps)[where+1:], (*ps)[where:])
		(*ps)[where] = v
	}
	return false
}

// remove deletes value v, returning whether it was there.
func (ps *intset) remove(v int) bool {
	end := len(*ps)
	for i := 0; i < end; i++ {
		pv := (*ps)[i]
		if pv == v {
			copy((*ps)[i:], (*ps)[i+1:])
			*ps = (*ps)[:end-1]
			return true
		}
		if pv > v {
			return false
		}
	}
	return false
}

// subtract removes every value of xs from the set, returning
// whether anything was removed.  Both sets are sorted, so this
// is a single merge pass.
func (ps *intset) subtract(xs intset) bool {
	pend, xend := len(*ps), len(xs)
	newend, removed := 0, false
	for pi, xi := 0, 0; pi < pend; pi++ {
		pv := (*ps)[pi]
		for xi < xend && xs[xi] < pv {
			xi++
		}
		if xi < xend && xs[xi] == pv {
			removed = true
			continue
		}
		(*ps)[newend] = pv
		newend++
	}
	*ps = (*ps)[:newend]
	return removed
}
