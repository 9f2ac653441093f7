// Package bootstrap holds the process-wide start-exactly-once state shared
// by the legacy launch path and the scene connection path.
//
// The Coordinator is the only stateful piece of the bootstrap core. It
// performs no I/O and never touches the runtime or the platform API; it is
// a guarded state cell that hands out a single start grant.
//
// State transitions are monotonic:
//
//	NotStarted -> Starting -> Started
//	NotStarted -> Starting -> Failed (terminal)
//
// Once Starting is entered there is no path back to NotStarted, and Failed
// is never exited. There is no retry anywhere: bootstrap is one-shot.
package bootstrap

import (
	"errors"
	"fmt"
	"sync"
)

// State is the process-wide bootstrap state.
type State int

const (
	// StateNotStarted is the initial state before any entry point fired.
	StateNotStarted State = iota
	// StateStarting means a caller holds the start grant and is attaching
	// a surface to the runtime.
	StateStarting
	// StateStarted means the runtime start completed successfully.
	StateStarted
	// StateFailed means surface construction or runtime start failed.
	// Terminal: no subsequent caller is ever granted a start.
	StateFailed
)

// String returns the state name for logs and debug snapshots.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStarting:
		return "starting"
	case StateStarted:
		return "started"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Decision is the outcome of TryBeginStart.
type Decision int

const (
	// DecisionGranted authorizes the caller, and only that caller, to
	// construct a surface and invoke the runtime's start operation.
	DecisionGranted Decision = iota
	// DecisionAlreadyStarting rejects the caller because another caller
	// holds the grant and has not finished.
	DecisionAlreadyStarting
	// DecisionAlreadyStarted rejects the caller because the runtime is
	// already running; the caller may still construct a visual-only
	// surface if the platform demands one per connection.
	DecisionAlreadyStarted
	// DecisionFailed rejects the caller because a previous start attempt
	// failed. Equivalent to DecisionAlreadyStarting for the purposes of
	// the "never granted again" guarantee.
	DecisionFailed
)

// String returns the decision name for logs.
func (d Decision) String() string {
	switch d {
	case DecisionGranted:
		return "granted"
	case DecisionAlreadyStarting:
		return "already_starting"
	case DecisionAlreadyStarted:
		return "already_started"
	case DecisionFailed:
		return "failed"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// ErrBadTransition is returned by MarkStarted/MarkFailed when called in a
// state other than Starting. It indicates a handler bug, not a platform
// condition.
var ErrBadTransition = errors.New("bootstrap: transition only valid from Starting")

// Notifier observes coordinator state transitions. The reason is non-nil
// only for StateFailed. Notifiers run synchronously on the transitioning
// goroutine and must not call back into the Coordinator.
type Notifier func(s State, reason error)

// Coordinator enforces the start-exactly-once invariant.
//
// The platform is nominally single-threaded, but the legacy launch callback
// and a connection callback may arrive on different internal threads during
// the capability-transition window, so TryBeginStart is an atomic
// check-and-set behind a mutex.
//
// The zero value is not usable; call New.
type Coordinator struct {
	mu        sync.Mutex
	state     State
	reason    error
	notifiers []Notifier
}

// New returns a Coordinator in StateNotStarted.
func New() *Coordinator {
	return &Coordinator{state: StateNotStarted}
}

// TryBeginStart atomically transitions NotStarted -> Starting and returns
// DecisionGranted. In any other state it returns the corresponding
// rejection without mutating state.
//
// Only the caller that received DecisionGranted may construct a surface
// and invoke the runtime's start operation, and that caller must follow up
// with exactly one of MarkStarted or MarkFailed.
func (c *Coordinator) TryBeginStart() Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateNotStarted:
		c.state = StateStarting
		c.notifyLocked()
		return DecisionGranted
	case StateStarting:
		return DecisionAlreadyStarting
	case StateStarted:
		return DecisionAlreadyStarted
	default:
		return DecisionFailed
	}
}

// MarkStarted transitions Starting -> Started. Returns ErrBadTransition
// from any other state.
func (c *Coordinator) MarkStarted() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateStarting {
		return fmt.Errorf("%w: MarkStarted in %s", ErrBadTransition, c.state)
	}
	c.state = StateStarted
	c.notifyLocked()
	return nil
}

// MarkFailed transitions Starting -> Failed and records the reason.
// Failed is terminal; it is the only failure-reporting surface for entry
// points whose platform callback has no error channel. Returns
// ErrBadTransition from any state other than Starting.
func (c *Coordinator) MarkFailed(reason error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateStarting {
		return fmt.Errorf("%w: MarkFailed in %s", ErrBadTransition, c.state)
	}
	c.state = StateFailed
	c.reason = reason
	c.notifyLocked()
	return nil
}

// State returns the current bootstrap state. Intended for polling by host
// observability (debug snapshots, health endpoints).
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FailureReason returns the error recorded by MarkFailed, or nil if the
// state is not Failed.
func (c *Coordinator) FailureReason() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Notify registers a callback invoked on every state transition. This is
// the subscription flavor of observability; State/FailureReason are the
// polling flavor. Registration after transitions have occurred does not
// replay past states.
func (c *Coordinator) Notify(fn Notifier) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifiers = append(c.notifiers, fn)
}

// notifyLocked invokes notifiers while holding the mutex. Transitions are
// rare (at most three per process lifetime) so holding the lock keeps
// delivery ordered without a queue.
func (c *Coordinator) notifyLocked() {
	for _, fn := range c.notifiers {
		fn(c.state, c.reason)
	}
}
