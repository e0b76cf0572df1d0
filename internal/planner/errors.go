package planner

import "errors"

var (
	// ErrInfeasible is returned when the even-spread bounds contradict a
	// port cap. Should not occur when caps are consistent; surfaced as a
	// fatal planner error.
	ErrInfeasible = errors.New("planner: wiring constraints are infeasible")
	// ErrSolverError surfaces a solver backend failure or timeout.
	ErrSolverError = errors.New("planner: solver backend failed")
	// ErrSequencerInvariant indicates the swap sequencer's residue or
	// capacity invariant was violated -- a bug, fatal.
	ErrSequencerInvariant = errors.New("planner: sequencer invariant violated")
)
