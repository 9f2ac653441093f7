package lifecycle

import (
	"errors"
	"fmt"
)

// Phase is the per-connection lifecycle state on the scene path:
//
//	Connected -> (Active <-> Inactive) -> (Foreground <-> Background) -> Disconnected
//
// Connected is initial, Disconnected terminal. Activation and
// foreground/background events are no-ops in the base design (extension
// points for the styling/resource collaborators), but their ordering is
// still validated.
type Phase int

const (
	PhaseConnected Phase = iota
	PhaseActive
	PhaseInactive
	PhaseForeground
	PhaseBackground
	PhaseDisconnected
)

// String returns the phase name for logs and debug snapshots.
func (p Phase) String() string {
	switch p {
	case PhaseConnected:
		return "connected"
	case PhaseActive:
		return "active"
	case PhaseInactive:
		return "inactive"
	case PhaseForeground:
		return "foreground"
	case PhaseBackground:
		return "background"
	case PhaseDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrInvalidPhaseTransition reports a platform callback arriving out of
// order for a connection.
var ErrInvalidPhaseTransition = errors.New("lifecycle: invalid phase transition")

// legalPhaseTransitions encodes the phase graph above. Disconnection is
// legal from every non-terminal phase.
var legalPhaseTransitions = map[Phase][]Phase{
	PhaseConnected:  {PhaseActive, PhaseInactive, PhaseDisconnected},
	PhaseActive:     {PhaseInactive, PhaseForeground, PhaseBackground, PhaseDisconnected},
	PhaseInactive:   {PhaseActive, PhaseForeground, PhaseBackground, PhaseDisconnected},
	PhaseForeground: {PhaseBackground, PhaseDisconnected},
	PhaseBackground: {PhaseForeground, PhaseDisconnected},
}

func phaseTransitionAllowed(from, to Phase) bool {
	for _, next := range legalPhaseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
