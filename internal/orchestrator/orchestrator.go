// Package orchestrator coordinates Network State, the planner, and the
// ECMP router into a single operation: expanding the fabric by one switch,
// applying the resulting wiring actions against a FlowInstaller, and pushing
// ECMP routes at the configured pace.
package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/fabricwire/rewire/internal/domain/netstate"
	"github.com/fabricwire/rewire/internal/fabric"
	"github.com/fabricwire/rewire/internal/planner"
	"github.com/fabricwire/rewire/internal/router"
	"github.com/fabricwire/rewire/internal/store"
	"github.com/fabricwire/rewire/pkg/logger"
	"github.com/google/uuid"
)

// Options configures an Orchestrator.
type Options struct {
	// InitialPriority is the starting value of the flow priority counter.
	// The counter is incremented before every route push, so the first
	// push installs at InitialPriority+1 and each later push strictly
	// higher (P9).
	InitialPriority int
	// Pace is the number of wiring actions applied between route
	// recomputations. A final recomputation always runs after the last
	// action regardless of pace alignment.
	Pace int
	// RNGSeed seeds the ECMP router's core-tier random choice.
	RNGSeed int64
	// Store is the audit log / read-model mirror each Expand call records
	// into after it applies successfully. Nil skips recording, for tests
	// and call sites that don't carry a store.
	Store store.Store
}

func (o Options) withDefaults() Options {
	if o.InitialPriority == 0 {
		o.InitialPriority = 1100
	}
	if o.Pace == 0 {
		o.Pace = 2
	}
	return o
}

// Orchestrator serializes fabric expansions: one event at a time.
type Orchestrator struct {
	mu        sync.Mutex
	net       *netstate.Network
	solver    planner.Solver
	installer fabric.FlowInstaller
	log       *logger.Logger
	opts      Options
	priority  int
	rng       *rand.Rand
	lastRoutes router.Routes
}

func New(net *netstate.Network, solver planner.Solver, installer fabric.FlowInstaller, log *logger.Logger, opts Options) *Orchestrator {
	opts = opts.withDefaults()
	return &Orchestrator{
		net:       net,
		solver:    solver,
		installer: installer,
		log:       log,
		opts:      opts,
		priority:  opts.InitialPriority,
		rng:       rand.New(rand.NewSource(opts.RNGSeed)),
	}
}

// Network returns the live Network State. Callers must not mutate it
// directly; mutation only ever happens through Expand.
func (o *Orchestrator) Network() *netstate.Network {
	return o.net
}

// Routes returns the forwarding table computed by the most recent Expand,
// or the empty table if no expansion has run yet.
func (o *Orchestrator) Routes() router.Routes {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastRoutes
}

// Expand adds one switch of nports ports -- a new core block if level is
// planner.Spine, a new agg block if planner.Server -- rewires the fabric
// around it with minimal edits, applies the result to Network State, pushes
// the wiring changes and recomputed ECMP routes southbound, and returns the
// action sequence that was applied. On a planner failure Network State is
// rolled back to its pre-expansion snapshot and left untouched.
func (o *Orchestrator) Expand(ctx context.Context, level planner.Level, nports int) ([]planner.Action, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	tier := tierForLevel(level)
	o.log.ExpansionStarted(ctx, tier.String(), nports)

	snapshot := o.net.Clone()

	w0core, coreKey, aggKey := o.net.CoreAggWiring()
	w0 := transpose(w0core)

	sid := o.net.MaxSid() + 1
	if err := o.net.AddSwitch(sid, nports, tier); err != nil {
		return nil, err
	}

	plan, err := planner.Rewire(o.solver, w0, level, nports)
	if err != nil {
		o.net = snapshot
		return nil, fmt.Errorf("orchestrator: expansion rejected, rolled back: %w", err)
	}
	o.log.PlannerSolved(ctx, len(plan.Moves), len(plan.Actions))

	aggIndexToSid := invert(aggKey)
	coreIndexToSid := invert(coreKey)
	switch level {
	case planner.Spine:
		coreIndexToSid[len(coreKey)] = sid
	case planner.Server:
		aggIndexToSid[len(aggKey)] = sid
	}

	links := make([]store.LinkRecord, 0, len(plan.Actions))
	applied := 0
	for _, action := range plan.Actions {
		aggSid, ok := aggIndexToSid[action.AggIndex]
		if !ok {
			o.net = snapshot
			return nil, fmt.Errorf("%w: unknown agg index %d", planner.ErrSequencerInvariant, action.AggIndex)
		}
		coreSid, ok := coreIndexToSid[action.CoreIndex]
		if !ok {
			o.net = snapshot
			return nil, fmt.Errorf("%w: unknown core index %d", planner.ErrSequencerInvariant, action.CoreIndex)
		}

		if err := o.applyAction(ctx, action.Op, aggSid, coreSid); err != nil {
			o.net = snapshot
			return nil, err
		}
		links = append(links, store.LinkRecord{
			ID: uuid.New().String(),
			A:  int(aggSid),
			B:  int(coreSid),
			Op: strings.ToLower(action.Op.String()),
		})

		applied++
		if applied%o.opts.Pace == 0 {
			o.pushRoutes(ctx)
		}
	}

	o.pushRoutes(ctx)
	o.log.ExpansionCompleted(ctx, int(sid), len(plan.Actions), time.Since(start).String())

	if o.opts.Store != nil {
		o.recordExpansion(ctx, level, nports, sid, tier, links)
	}

	return plan.Actions, nil
}

// recordExpansion mirrors one successful Expand call into the configured
// audit store: the new switch's inventory row, one link row per applied
// action, and a summary expansion row. Recording failures are logged, not
// returned -- the in-process Network State already reflects the change and
// is the actual source of truth, so a store write failure must not unwind
// an expansion that already happened.
func (o *Orchestrator) recordExpansion(ctx context.Context, level planner.Level, nports int, sid netstate.SwitchID, tier netstate.Tier, links []store.LinkRecord) {
	sw := store.SwitchRecord{ID: int(sid), Tier: tier.String(), NPorts: nports}
	if err := store.RecordApplied(ctx, o.opts.Store, uuid.New().String(), sw, links); err != nil {
		o.log.FlowInstallFailed(ctx, int(sid), 0, fmt.Errorf("store: record applied: %w", err))
		return
	}

	levelName := "server"
	if level == planner.Spine {
		levelName = "spine"
	}
	rec := store.ExpansionRecord{
		ID:          uuid.New().String(),
		Level:       levelName,
		NPorts:      nports,
		NewSwitchID: int(sid),
		ActionCount: len(links),
	}
	if err := o.opts.Store.RecordExpansion(ctx, rec); err != nil {
		o.log.FlowInstallFailed(ctx, int(sid), 0, fmt.Errorf("store: record expansion: %w", err))
	}
}

func (o *Orchestrator) applyAction(ctx context.Context, op planner.Op, aggSid, coreSid netstate.SwitchID) error {
	switch op {
	case planner.Connect:
		if err := o.net.AddLink(aggSid, coreSid, 1); err != nil {
			return fmt.Errorf("%w: %v", planner.ErrSequencerInvariant, err)
		}
		if err := o.installer.LinkAdd(ctx, aggSid, coreSid); err != nil {
			o.log.FlowInstallFailed(ctx, int(aggSid), int(coreSid), err)
		}
	case planner.Disconnect:
		if err := o.net.RemoveLink(aggSid, coreSid, 1); err != nil {
			return fmt.Errorf("%w: %v", planner.ErrSequencerInvariant, err)
		}
		if err := o.installer.LinkDel(ctx, aggSid, coreSid); err != nil {
			o.log.FlowInstallFailed(ctx, int(aggSid), int(coreSid), err)
		}
	}
	return nil
}

// pushRoutes recomputes ECMP routes and installs them at a strictly higher
// priority than any prior push (P9).
func (o *Orchestrator) pushRoutes(ctx context.Context) {
	o.priority++
	routes := router.RouteECMP(o.net, o.rng)
	o.lastRoutes = routes

	for sw, table := range routes {
		for host, port := range table {
			if err := o.installer.InstallFlow(ctx, sw, host, port, o.priority); err != nil {
				o.log.FlowInstallFailed(ctx, int(sw), int(host), err)
			}
		}
	}
	o.log.RouteRecomputed(ctx, o.priority, len(routes))
}

func tierForLevel(level planner.Level) netstate.Tier {
	if level == planner.Spine {
		return netstate.Core
	}
	return netstate.Agg
}

// transpose swaps rows and columns: netstate.CoreAggWiring returns
// rows=core/cols=agg, but the planner works in rows=agg/cols=core.
func transpose(w [][]int) planner.Matrix {
	rows := len(w)
	if rows == 0 {
		return planner.Matrix{}
	}
	cols := len(w[0])

	out := make(planner.Matrix, cols)
	for j := 0; j < cols; j++ {
		out[j] = make([]int, rows)
		for i := 0; i < rows; i++ {
			out[j][i] = w[i][j]
		}
	}
	return out
}

func invert(m map[netstate.SwitchID]int) map[int]netstate.SwitchID {
	out := make(map[int]netstate.SwitchID, len(m))
	for sid, idx := range m {
		out[idx] = sid
	}
	return out
}
