package worker

import (
	"context"
	"log"
	"math/rand"
	"os"
	"testing"

	"github.com/fabricwire/rewire/internal/domain/netstate"
	"github.com/fabricwire/rewire/internal/fabric"
	"github.com/fabricwire/rewire/internal/orchestrator"
	"github.com/fabricwire/rewire/internal/planner"
	"github.com/fabricwire/rewire/pkg/logger"
	"github.com/stretchr/testify/require"
)

func buildTinyFabric(t *testing.T) *netstate.Network {
	t.Helper()
	n := netstate.New()
	require.NoError(t, n.AddSwitch(1, 4, netstate.Host))
	require.NoError(t, n.AddSwitch(2, 4, netstate.Edge))
	require.NoError(t, n.AddSwitch(3, 4, netstate.Agg))
	require.NoError(t, n.AddSwitch(4, 4, netstate.Core))
	require.NoError(t, n.AddLink(1, 2, 1))
	require.NoError(t, n.AddLink(2, 3, 1))
	require.NoError(t, n.AddLink(3, 4, 1))
	return n
}

func testLogger() *log.Logger {
	return log.New(os.Stdout, "[TEST] ", 0)
}

func TestAuditRoutesDriftBeforeAnyExpand(t *testing.T) {
	n := buildTinyFabric(t)
	orch := orchestrator.New(n, planner.GreedyBalancedSolver{}, fabric.NewRecorder(), logger.New("error"), orchestrator.Options{RNGSeed: 1})

	// pushRoutes only runs from Expand; AddLink alone leaves orch.Routes()
	// empty, so every recomputed entry here has nothing pushed to match.
	rng := rand.New(rand.NewSource(1))
	err := auditRoutes(orch, rng, testLogger())
	require.Error(t, err)
}

func TestAuditRoutesNoDriftWhenUnchanged(t *testing.T) {
	n := netstate.New()
	require.NoError(t, n.AddSwitch(1, 4, netstate.Host))
	require.NoError(t, n.AddSwitch(2, 4, netstate.Edge))
	require.NoError(t, n.AddSwitch(3, 4, netstate.Agg))
	require.NoError(t, n.AddSwitch(4, 4, netstate.Core))
	require.NoError(t, n.AddSwitch(5, 5, netstate.Core))
	require.NoError(t, n.AddLink(1, 2, 1))
	require.NoError(t, n.AddLink(2, 3, 1))
	require.NoError(t, n.AddLink(3, 4, 1))

	orch := orchestrator.New(n, planner.GreedyBalancedSolver{}, fabric.NewRecorder(), logger.New("error"), orchestrator.Options{RNGSeed: 1})

	actions, err := orch.Expand(context.Background(), planner.Spine, 5)
	require.NoError(t, err)
	// The only agg has a single uplink, already on core 4, so the balanced
	// wiring is unchanged and the new spine gets no links.
	require.Empty(t, actions)

	rng := rand.New(rand.NewSource(1))
	err = auditRoutes(orch, rng, testLogger())
	require.NoError(t, err, "immediately after Expand, a recompute with the same RNG seed should reproduce the pushed table")
}

func TestNewRouteAuditTaskSetsIDAndFunction(t *testing.T) {
	n := buildTinyFabric(t)
	orch := orchestrator.New(n, planner.GreedyBalancedSolver{}, fabric.NewRecorder(), logger.New("error"), orchestrator.Options{RNGSeed: 1})

	task := NewRouteAuditTask(orch, 1, 0, testLogger())
	require.Equal(t, RouteAuditTaskID, task.ID)
	require.NotNil(t, task.Function)
}
