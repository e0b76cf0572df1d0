package planner

// Sequence orders a set of matched moves into a concrete CONNECT/DISCONNECT
// action list that never asks a core column to exceed its port budget at
// any point during replay. It tracks free capacity explicitly and resolves
// a blocked destination by splicing in another pending move's disconnect
// half ahead of schedule.
//
// w0 is the wiring matrix the moves are relative to (already padded to the
// post-expansion shape) and colBudgets holds one port budget per column,
// matching that shape.
func Sequence(moves []Move, w0 Matrix, colBudgets []int) ([]Action, error) {
	rows, cols := w0.Dims()
	if cols != len(colBudgets) {
		cols = len(colBudgets)
	}

	cur := make(Matrix, rows)
	for i := 0; i < rows; i++ {
		cur[i] = make([]int, cols)
		for j := 0; j < cols; j++ {
			cur[i][j] = w0.at(i, j)
		}
	}

	free := make([]int, cols)
	for j := 0; j < cols; j++ {
		free[j] = colBudgets[j] - w0.colSum(j)
	}

	var actions []Action
	disconnected := make([]bool, len(moves))
	done := make([]bool, len(moves))

	connect := func(agg, col int) {
		actions = append(actions, Action{Op: Connect, AggIndex: agg, CoreIndex: col})
		cur[agg][col]++
		free[col]--
	}
	disconnect := func(agg, col int) {
		actions = append(actions, Action{Op: Disconnect, AggIndex: agg, CoreIndex: col})
		cur[agg][col]--
		free[col]++
	}

	// ensureRoom frees a port on column j by pulling forward the
	// disconnect half of some other not-yet-disconnected pending move
	// whose source is j. Its own connect half still runs later, in its
	// original position.
	var ensureRoom func(j int) bool
	ensureRoom = func(j int) bool {
		if free[j] > 0 {
			return true
		}
		for idx, m := range moves {
			if done[idx] || disconnected[idx] || m.From != j {
				continue
			}
			disconnect(m.Agg, m.From)
			disconnected[idx] = true
			return true
		}
		return false
	}

	for idx, m := range moves {
		switch {
		case m.From == -1 && m.To == -1:
			return nil, ErrSequencerInvariant
		case m.From == -1:
			if !ensureRoom(m.To) {
				return nil, ErrSequencerInvariant
			}
			connect(m.Agg, m.To)
		case m.To == -1:
			if !disconnected[idx] {
				disconnect(m.Agg, m.From)
			}
		default:
			if !disconnected[idx] && free[m.To] <= 0 && !ensureRoom(m.To) {
				return nil, ErrSequencerInvariant
			}
			if !disconnected[idx] {
				disconnect(m.Agg, m.From)
				connect(m.Agg, m.To)
			} else {
				if free[m.To] <= 0 && !ensureRoom(m.To) {
					return nil, ErrSequencerInvariant
				}
				connect(m.Agg, m.To)
			}
		}
		done[idx] = true
	}

	for j := 0; j < cols; j++ {
		if free[j] < 0 {
			return nil, ErrSequencerInvariant
		}
	}

	return actions, nil
}
