// Package fabric defines the southbound interface the orchestrator drives
// to push wiring and routing changes to the physical/emulated fabric, plus
// a Redis-backed implementation of it.
package fabric

import (
	"context"

	"github.com/fabricwire/rewire/internal/domain/netstate"
)

// FlowInstaller is the southbound boundary: INSTALL_FLOW, LINK_ADD, LINK_DEL.
type FlowInstaller interface {
	// InstallFlow pushes a forwarding rule on switch sw directing traffic
	// to host out via egress port, at the given priority.
	InstallFlow(ctx context.Context, sw, host netstate.SwitchID, port, priority int) error
	// LinkAdd notifies the fabric that a physical link between a and b was
	// connected.
	LinkAdd(ctx context.Context, a, b netstate.SwitchID) error
	// LinkDel notifies the fabric that a physical link between a and b was
	// disconnected.
	LinkDel(ctx context.Context, a, b netstate.SwitchID) error
}
