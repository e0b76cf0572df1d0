package fabric

import (
	"context"
	"sync"

	"github.com/fabricwire/rewire/internal/domain/netstate"
)

// InstallFlowCall records one InstallFlow invocation, for assertions in
// orchestrator tests.
type InstallFlowCall struct {
	Switch, Host  netstate.SwitchID
	Port, Priority int
}

// LinkCall records one LinkAdd/LinkDel invocation.
type LinkCall struct {
	A, B netstate.SwitchID
}

// Recorder is an in-memory FlowInstaller that records every call instead of
// talking to a fabric. Used by orchestrator tests and single-node
// deployments with no southbound system configured.
type Recorder struct {
	mu          sync.Mutex
	Flows       []InstallFlowCall
	LinksAdded  []LinkCall
	LinksDelled []LinkCall
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) InstallFlow(_ context.Context, sw, host netstate.SwitchID, port, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Flows = append(r.Flows, InstallFlowCall{Switch: sw, Host: host, Port: port, Priority: priority})
	return nil
}

func (r *Recorder) LinkAdd(_ context.Context, a, b netstate.SwitchID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LinksAdded = append(r.LinksAdded, LinkCall{A: a, B: b})
	return nil
}

func (r *Recorder) LinkDel(_ context.Context, a, b netstate.SwitchID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LinksDelled = append(r.LinksDelled, LinkCall{A: a, B: b})
	return nil
}
