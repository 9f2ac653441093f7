// Package surface models the drawable region a hosted runtime renders
// into. A Surface has exactly one owner for its lifetime: either the
// process-level legacy owner or a single per-connection owner.
package surface

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Owner identifies which bootstrap path constructed and owns a Surface.
type Owner int

const (
	// OwnerProcess marks a surface constructed by the legacy launch path
	// and bound to the full display bounds.
	OwnerProcess Owner = iota
	// OwnerConnection marks a surface constructed for one scene
	// connection and bound to that connection for its lifetime.
	OwnerConnection
)

// String returns the owner name for logs and debug snapshots.
func (o Owner) String() string {
	switch o {
	case OwnerProcess:
		return "process"
	case OwnerConnection:
		return "connection"
	default:
		return fmt.Sprintf("owner(%d)", int(o))
	}
}

// Bounds is the size of the drawable region in platform pixels.
type Bounds struct {
	Width  int
	Height int
}

// ErrConstruction is the sentinel wrapped by ConstructionError. A failed
// construction is fatal to its bootstrap path; there is no retry.
var ErrConstruction = errors.New("surface: construction failed")

// ConstructionError reports that the platform could not allocate a
// drawable region.
type ConstructionError struct {
	Owner  Owner
	Reason string
}

// Error implements error.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("surface: %s-owned construction failed: %s", e.Owner, e.Reason)
}

// Unwrap makes errors.Is(err, ErrConstruction) work.
func (e *ConstructionError) Unwrap() error { return ErrConstruction }

// Surface is a handle to one platform drawable region. Create at most one
// per connection lifetime via New; released surfaces stay identifiable but
// must not be handed to the runtime.
type Surface struct {
	id           uuid.UUID
	owner        Owner
	bounds       Bounds
	connectionID string
	released     bool
}

// New allocates a surface handle. connectionID must be empty for
// OwnerProcess and non-empty for OwnerConnection; bounds must be positive.
func New(owner Owner, bounds Bounds, connectionID string) (*Surface, error) {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, &ConstructionError{Owner: owner, Reason: fmt.Sprintf("non-positive bounds %dx%d", bounds.Width, bounds.Height)}
	}
	switch owner {
	case OwnerProcess:
		if connectionID != "" {
			return nil, &ConstructionError{Owner: owner, Reason: "process-owned surface cannot bind a connection"}
		}
	case OwnerConnection:
		if connectionID == "" {
			return nil, &ConstructionError{Owner: owner, Reason: "connection-owned surface requires a connection ID"}
		}
	default:
		return nil, &ConstructionError{Owner: owner, Reason: "unknown owner"}
	}

	return &Surface{
		id:           uuid.New(),
		owner:        owner,
		bounds:       bounds,
		connectionID: connectionID,
	}, nil
}

// ID returns the surface's unique identifier.
func (s *Surface) ID() uuid.UUID { return s.id }

// Owner returns which bootstrap path owns the surface.
func (s *Surface) Owner() Owner { return s.owner }

// Bounds returns the drawable region size.
func (s *Surface) Bounds() Bounds { return s.bounds }

// ConnectionID returns the owning connection's identifier, or "" for a
// process-owned surface.
func (s *Surface) ConnectionID() string { return s.connectionID }

// Released reports whether the surface has been released.
func (s *Surface) Released() bool { return s.released }

// Release marks the surface released. Idempotent. Releasing never affects
// bootstrap state: a disconnect after a successful start leaves the
// runtime started.
func (s *Surface) Release() { s.released = true }
