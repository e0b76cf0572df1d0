// route_audit.go builds the one background job this fabric runs on the
// generic scheduler: periodically recompute ECMP routes from the live
// Network State and diff them against the orchestrator's last-pushed
// table, logging any drift. The live Network State itself is authoritative;
// this task never mutates it or reinstalls flows, it only detects
// disagreement between what was pushed and what the current topology would
// produce.
package worker

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/fabricwire/rewire/internal/domain/netstate"
	"github.com/fabricwire/rewire/internal/orchestrator"
	"github.com/fabricwire/rewire/internal/router"
)

const RouteAuditTaskID = "route-audit"

// NewRouteAuditTask builds the scheduler Task that recomputes ECMP routes
// against orch.Network() every interval and logs any switch/host pair whose
// recomputed egress port disagrees with orch.Routes()'s last-pushed value.
// Disagreement is expected right after a concurrent Expand races the audit
// tick. Core-tier entries with several equal-cost ports are drawn from this
// task's own RNG, not the orchestrator's, so they can also disagree with
// the pushed choice when no push was missed.
func NewRouteAuditTask(orch *orchestrator.Orchestrator, rngSeed int64, interval time.Duration, logger *log.Logger) *Task {
	rng := rand.New(rand.NewSource(rngSeed))

	return &Task{
		ID:          RouteAuditTaskID,
		Name:        "Route audit",
		Description: "Recompute ECMP routes and diff against the last pushed table",
		Enabled:     true,
		Interval:    interval,
		Function: func(ctx context.Context) error {
			return auditRoutes(orch, rng, logger)
		},
	}
}

func auditRoutes(orch *orchestrator.Orchestrator, rng *rand.Rand, logger *log.Logger) error {
	current := orch.Routes()
	recomputed := router.RouteECMP(orch.Network(), rng)

	drift := 0
	for sw, table := range recomputed {
		for host, port := range table {
			if got, ok := current[sw][host]; !ok || got != port {
				drift++
				logger.Printf("route drift: switch %d host %d: pushed=%v recomputed=%d", sw, host, lookup(current, sw, host), port)
			}
		}
	}

	if drift == 0 {
		logger.Printf("route audit: no drift across %d switches", len(recomputed))
		return nil
	}
	return fmt.Errorf("route audit: %d drifted entries", drift)
}

func lookup(routes router.Routes, sw, host netstate.SwitchID) any {
	table, ok := routes[sw]
	if !ok {
		return "none"
	}
	port, ok := table[host]
	if !ok {
		return "none"
	}
	return port
}
