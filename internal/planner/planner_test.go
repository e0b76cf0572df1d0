package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceWiring is a small reference agg<->core submatrix, rows = agg
// tier_index (13..16), cols = core tier_index (17,18).
func referenceWiring() Matrix {
	return Matrix{
		{2, 1},
		{1, 2},
		{2, 1},
		{1, 2},
	}
}

// TestGreedyBalancedSolverEvenSpread asserts P5: every cell of the new
// wiring is within {floor(s_i/C), ceil(s_i/C)} of its row's port budget.
func TestGreedyBalancedSolverEvenSpread(t *testing.T) {
	w0 := referenceWiring()
	solver := GreedyBalancedSolver{}

	wnew, err := solver.Solve(w0, Spine, 5)
	require.NoError(t, err)

	rows, cols := wnew.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, 3, cols)

	rowBudgets := []int{w0.rowSum(0), w0.rowSum(1), w0.rowSum(2), w0.rowSum(3)}
	for i := 0; i < rows; i++ {
		floor := rowBudgets[i] / cols
		ceil := floor
		if rowBudgets[i]%cols != 0 {
			ceil = floor + 1
		}
		for j := 0; j < cols; j++ {
			assert.GreaterOrEqual(t, wnew[i][j], floor)
			assert.LessOrEqual(t, wnew[i][j], ceil)
		}
	}
}

// TestGreedyBalancedSolverPortCaps asserts P6: no row or column exceeds its
// port budget in the solved matrix.
func TestGreedyBalancedSolverPortCaps(t *testing.T) {
	w0 := referenceWiring()
	solver := GreedyBalancedSolver{}

	wnew, err := solver.Solve(w0, Server, 2)
	require.NoError(t, err)

	rows, cols := wnew.Dims()
	require.Equal(t, 5, rows)
	require.Equal(t, 2, cols)

	colBudgets := []int{w0.colSum(0), w0.colSum(1)}
	for j := 0; j < cols; j++ {
		assert.LessOrEqual(t, wnew.colSum(j), colBudgets[j])
	}

	rowBudgets := []int{w0.rowSum(0), w0.rowSum(1), w0.rowSum(2), w0.rowSum(3), 2}
	for i := 0; i < rows; i++ {
		assert.LessOrEqual(t, wnew.rowSum(i), rowBudgets[i])
	}
}

// TestGreedyBalancedSolverInfeasible forces the even-spread floor to exceed
// a newly added column's tiny port budget: row budget 10 split across 2
// columns floors to 5 each, but the new spine only has 1 port.
func TestGreedyBalancedSolverInfeasible(t *testing.T) {
	w0 := Matrix{{10}}
	solver := GreedyBalancedSolver{}

	_, err := solver.Solve(w0, Spine, 1)
	assert.ErrorIs(t, err, ErrInfeasible)
}

// TestDiffRealizesTransition asserts P8: replaying Diff's moves against the
// old matrix reproduces the new matrix exactly.
func TestDiffRealizesTransition(t *testing.T) {
	w0 := referenceWiring()
	solver := GreedyBalancedSolver{}

	wnew, err := solver.Solve(w0, Spine, 5)
	require.NoError(t, err)

	rows, cols := wnew.Dims()
	w0p := w0.padded(rows, cols)
	moves := Diff(w0p, wnew)

	got := make(Matrix, rows)
	for i := range got {
		got[i] = append([]int(nil), w0p[i]...)
	}
	for _, m := range moves {
		if m.From != -1 {
			got[m.Agg][m.From]--
		}
		if m.To != -1 {
			got[m.Agg][m.To]++
		}
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.Equal(t, wnew[i][j], got[i][j], "cell (%d,%d)", i, j)
		}
	}
}

// TestSequenceNeverExceedsCapacity asserts P7: replaying the sequenced
// actions in order never drives any column's usage above its real port
// budget, nor any existing agg row's usage above its real port budget
// (rowSum(i) in w0 -- a Spine expansion never grows an existing agg's
// capacity, only spreads it across more core columns).
func TestSequenceNeverExceedsCapacity(t *testing.T) {
	w0 := referenceWiring()
	solver := GreedyBalancedSolver{}

	wnew, err := solver.Solve(w0, Spine, 5)
	require.NoError(t, err)

	rows, cols := wnew.Dims()
	w0p := w0.padded(rows, cols)
	moves := Diff(w0p, wnew)

	_, cols0 := w0.Dims()
	colBudgets := make([]int, cols)
	for j := 0; j < cols; j++ {
		if j < cols0 {
			colBudgets[j] = w0.colSum(j)
		} else {
			colBudgets[j] = 5
		}
	}
	require.Equal(t, []int{6, 6, 5}, colBudgets)

	rowBudgets := make([]int, rows)
	for i := 0; i < rows; i++ {
		rowBudgets[i] = w0.rowSum(i)
	}

	actions, err := Sequence(moves, w0p, colBudgets)
	require.NoError(t, err)
	require.NotEmpty(t, actions)

	cur := make(Matrix, rows)
	for i := range cur {
		cur[i] = append([]int(nil), w0p[i]...)
	}
	colUsed := make([]int, cols)
	for j := 0; j < cols; j++ {
		colUsed[j] = w0p.colSum(j)
	}
	rowUsed := make([]int, rows)
	for i := 0; i < rows; i++ {
		rowUsed[i] = w0p.rowSum(i)
	}

	for _, a := range actions {
		switch a.Op {
		case Connect:
			cur[a.AggIndex][a.CoreIndex]++
			colUsed[a.CoreIndex]++
			rowUsed[a.AggIndex]++
		case Disconnect:
			cur[a.AggIndex][a.CoreIndex]--
			colUsed[a.CoreIndex]--
			rowUsed[a.AggIndex]--
		}
		require.GreaterOrEqual(t, cur[a.AggIndex][a.CoreIndex], 0)
		require.LessOrEqual(t, colUsed[a.CoreIndex], colBudgets[a.CoreIndex])
		require.LessOrEqual(t, rowUsed[a.AggIndex], rowBudgets[a.AggIndex])
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.Equal(t, wnew[i][j], cur[i][j])
		}
	}
}

// TestRewireEndToEnd exercises the full Plan pipeline: adding a spine.
func TestRewireEndToEnd(t *testing.T) {
	w0 := referenceWiring()
	plan, err := Rewire(GreedyBalancedSolver{}, w0, Spine, 5)
	require.NoError(t, err)

	rows, cols := plan.Wnew.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)
	assert.NotEmpty(t, plan.Moves)
	assert.NotEmpty(t, plan.Actions)
}

// TestRewireServerExpansion exercises scenario 4's shape, adding an agg
// block instead of a core block.
func TestRewireServerExpansion(t *testing.T) {
	w0 := referenceWiring()
	plan, err := Rewire(GreedyBalancedSolver{}, w0, Server, 2)
	require.NoError(t, err)

	rows, cols := plan.Wnew.Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 2, cols)

	// The new agg row must end up with at least one link (its whole
	// port budget is fresh capacity, nothing for it to preserve).
	assert.Greater(t, plan.Wnew.rowSum(4), 0)
}
