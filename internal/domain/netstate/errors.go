package netstate

import "errors"

// Sentinel errors surfaced by the network state layer. None of these are
// retried internally; they bubble to the caller as-is.
var (
	// ErrDuplicateID is returned by AddSwitch when sid is already registered.
	ErrDuplicateID = errors.New("netstate: switch id already registered")
	// ErrBadTier is returned by AddSwitch when tier is outside the enum.
	ErrBadTier = errors.New("netstate: unknown tier")
	// ErrUnknownSwitch is returned by link operations on an unregistered id.
	ErrUnknownSwitch = errors.New("netstate: unknown switch id")
	// ErrPortsExhausted is returned when a link operation would exceed nports.
	ErrPortsExhausted = errors.New("netstate: not enough free ports")
	// ErrInsufficientLinks is returned when removing more links than exist.
	ErrInsufficientLinks = errors.New("netstate: not enough links to remove")
)
