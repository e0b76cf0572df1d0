package planner

import "sort"

// Solver computes a new agg<->core wiring matrix from an old one. It is
// treated as a pluggable capability ("any branch-and-bound integer solver
// suffices"): callers depend only on this interface, never on a concrete
// backend.
type Solver interface {
	// Solve returns Wnew of shape (R, C), where R, C are the
	// post-expansion dimensions implied by level: Spine appends one
	// column (a new core block with newPorts ports), Server appends one
	// row (a new agg block with newPorts ports). Existing rows/columns
	// keep a port budget equal to their current total usage in w0 (the
	// row/column sum): a minimal rewiring only ever grows the newly
	// added block's capacity, never an existing switch's.
	Solve(w0 Matrix, level Level, newPorts int) (Matrix, error)
}

// GreedyBalancedSolver is the no-dependency solver used when no external
// ILP backend is configured (the default, and the only one this repo
// ships -- see DESIGN.md).
//
// It exploits a closed-form property of the balancing objective (minimize
// Σd_ij - Σx_ij, d_ij = |x_ij - W0[i,j]|): per cell, this term is
// non-increasing in x_ij, so maximizing utilization never conflicts with
// minimizing edit distance -- the two halves of the unweighted objective
// always agree on "make x_ij as large as the even-spread bound and column
// caps allow." The even-spread bound forces every cell to be either
// floor(s_i/C) or ceil(s_i/C); the only real freedom is which
// (s_i mod C) columns per row receive the "+1", which this solver assigns
// greedily, row by row, preferring columns that are already closer to
// their old wiring (minimizing edit distance among otherwise-tied totals)
// and falling back to any column with spare capacity.
type GreedyBalancedSolver struct{}

func (GreedyBalancedSolver) Solve(w0 Matrix, level Level, newPorts int) (Matrix, error) {
	oldR, oldC := w0.Dims()

	rowBudgets := make([]int, oldR)
	for i := 0; i < oldR; i++ {
		rowBudgets[i] = w0.rowSum(i)
	}
	colBudgets := make([]int, oldC)
	for j := 0; j < oldC; j++ {
		colBudgets[j] = w0.colSum(j)
	}

	var r, c int
	switch level {
	case Spine:
		r, c = oldR, oldC+1
		colBudgets = append(colBudgets, newPorts)
	case Server:
		r, c = oldR+1, oldC
		rowBudgets = append(rowBudgets, newPorts)
	}

	if c == 0 || r == 0 {
		return w0.padded(r, c), nil
	}

	w0p := w0.padded(r, c)

	floor := make([]int, r)
	rem := make([]int, r)
	for i := 0; i < r; i++ {
		floor[i] = rowBudgets[i] / c
		rem[i] = rowBudgets[i] % c
	}

	out := make(Matrix, r)
	colUsed := make([]int, c)
	for i := 0; i < r; i++ {
		out[i] = make([]int, c)
		for j := 0; j < c; j++ {
			out[i][j] = floor[i]
			colUsed[j] += floor[i]
		}
	}
	for j := 0; j < c; j++ {
		if colUsed[j] > colBudgets[j] {
			return nil, ErrInfeasible
		}
	}

	type candidate struct {
		col        int
		aboveFloor bool
		old        int
		headroom   int
	}

	for i := 0; i < r; i++ {
		need := rem[i]
		if need == 0 {
			continue
		}

		cands := make([]candidate, 0, c)
		for j := 0; j < c; j++ {
			headroom := colBudgets[j] - colUsed[j]
			if headroom <= 0 {
				continue
			}
			cands = append(cands, candidate{
				col:        j,
				aboveFloor: w0p[i][j] > floor[i],
				old:        w0p[i][j],
				headroom:   headroom,
			})
		}
		sort.SliceStable(cands, func(a, b int) bool {
			if cands[a].aboveFloor != cands[b].aboveFloor {
				return cands[a].aboveFloor
			}
			if cands[a].old != cands[b].old {
				return cands[a].old > cands[b].old
			}
			if cands[a].headroom != cands[b].headroom {
				return cands[a].headroom > cands[b].headroom
			}
			return cands[a].col < cands[b].col
		})

		for _, cand := range cands {
			if need == 0 {
				break
			}
			out[i][cand.col]++
			colUsed[cand.col]++
			need--
		}
		// A remaining need here means global column headroom ran out;
		// this row simply uses fewer ports than its budget allows. That
		// is a valid, if suboptimal, feasible point -- not an error.
	}

	return out, nil
}
