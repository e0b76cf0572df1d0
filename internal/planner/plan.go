package planner

// Plan is the result of running the three-step minimal-rewiring planner
// end to end for one expansion.
type Plan struct {
	// Wnew is the post-expansion agg<->core wiring matrix.
	Wnew Matrix
	// Moves is the row-major matched diff between the old and new
	// wiring (Step 2).
	Moves []Move
	// Actions is the capacity-safe CONNECT/DISCONNECT sequence that
	// realizes Moves (Step 3).
	Actions []Action
}

// Rewire runs the full minimal-rewiring planner: it solves for a balanced
// new wiring matrix, diffs it against the old one, and sequences the diff
// into a safe action list. w0 need not be pre-padded; solver, diff and
// sequencer each pad relative to the old matrix as needed.
func Rewire(solver Solver, w0 Matrix, level Level, newPorts int) (Plan, error) {
	wnew, err := solver.Solve(w0, level, newPorts)
	if err != nil {
		return Plan{}, err
	}

	rows, cols := wnew.Dims()
	w0p := w0.padded(rows, cols)

	moves := Diff(w0p, wnew)

	// A column's port budget for sequencing is the real switch port cap:
	// an existing core column's current wiring usage (w0's column sum,
	// the same t_j the solver budgeted it against), or newPorts for the
	// one freshly added column. Wnew's own column sums can fall short of
	// that cap (the even-spread bound caps a cell at the row's current
	// usage, not the column's), so they are not a valid substitute.
	_, cols0 := w0.Dims()
	colBudgets := make([]int, cols)
	for j := 0; j < cols; j++ {
		if j < cols0 {
			colBudgets[j] = w0.colSum(j)
		} else {
			colBudgets[j] = newPorts
		}
	}
	actions, err := Sequence(moves, w0p, colBudgets)
	if err != nil {
		return Plan{}, err
	}

	return Plan{Wnew: wnew, Moves: moves, Actions: actions}, nil
}
