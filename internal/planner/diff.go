package planner

// Diff computes the matched "moves" between an old and new wiring matrix.
// Each row's removed links (delta < 0) are paired against that row's added
// links (delta > 0) directly. Any add or remove left unpaired in a row (the
// row's sum changed) becomes a Move with the unmatched side set to -1 (a
// pure connect or pure disconnect, e.g. for a freshly added agg/core block
// that has no prior wiring to move from). Diff does not report or reject
// such residue.
func Diff(w0, wnew Matrix) []Move {
	rows, cols := wnew.Dims()

	var moves []Move
	for i := 0; i < rows; i++ {
		type entry struct {
			col   int
			count int
		}
		var removed, added []entry

		for j := 0; j < cols; j++ {
			delta := wnew.at(i, j) - w0.at(i, j)
			switch {
			case delta < 0:
				removed = append(removed, entry{col: j, count: -delta})
			case delta > 0:
				added = append(added, entry{col: j, count: delta})
			}
		}

		ri, ai := 0, 0
		for ri < len(removed) && ai < len(added) {
			n := min(removed[ri].count, added[ai].count)
			moves = append(moves, Move{Agg: i, From: removed[ri].col, To: added[ai].col})
			for k := 1; k < n; k++ {
				moves = append(moves, Move{Agg: i, From: removed[ri].col, To: added[ai].col})
			}
			removed[ri].count -= n
			added[ai].count -= n
			if removed[ri].count == 0 {
				ri++
			}
			if added[ai].count == 0 {
				ai++
			}
		}
		for ; ri < len(removed); ri++ {
			for k := 0; k < removed[ri].count; k++ {
				moves = append(moves, Move{Agg: i, From: removed[ri].col, To: -1})
			}
		}
		for ; ai < len(added); ai++ {
			for k := 0; k < added[ai].count; k++ {
				moves = append(moves, Move{Agg: i, From: -1, To: added[ai].col})
			}
		}
	}

	return moves
}
