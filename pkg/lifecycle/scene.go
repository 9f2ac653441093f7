package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/sufield/scenehost/pkg/surface"
)

// SceneConnectionHandler implements the per-surface connection entry
// point, driven by the platform once per ConnectionContext when the scene
// lifecycle capability is active.
//
// Only the first connection to win the start grant attaches the runtime;
// later connections receive a surface for visual presence only. With
// supportsMultipleSurfaces=false only one connection is ever expected to
// exist at a time, so a second live connection is recorded as an anomaly
// rather than passed through silently.
type SceneConnectionHandler struct {
	attacher
	bounds         surface.Bounds
	supportsMulti  bool
	configurations []ConfigurationDescriptor

	mu        sync.Mutex
	conns     map[string]*connection
	live      int
	anomalies uint64
}

type connection struct {
	ctx   ConnectionContext
	phase Phase
	s     *surface.Surface
}

// ConnectionSnapshot is a read-only view of one connection for
// observability.
type ConnectionSnapshot struct {
	ID        string
	Role      string
	Phase     string
	SurfaceID string
	Released  bool
}

// NewSceneConnectionHandler wires the scene entry point against the
// shared coordinator and the process-level runtime reference (created
// once at process start regardless of which path the platform takes).
func NewSceneConnectionHandler(cfg Config) (*SceneConnectionHandler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	return &SceneConnectionHandler{
		attacher:       newAttacher(cfg),
		bounds:         cfg.SceneBounds,
		supportsMulti:  cfg.SupportsMultipleSurfaces,
		configurations: cfg.Configurations,
		conns:          make(map[string]*connection),
	}, nil
}

// OnConfigurationRequest returns the static binding governing the given
// context. The platform calls this before delivering OnConnect. The
// context's role selects a manifest configuration by name; when no name
// matches, the first declared configuration applies.
func (h *SceneConnectionHandler) OnConfigurationRequest(conn ConnectionContext, options map[string]string) (ConfigurationDescriptor, error) {
	if len(h.configurations) == 0 {
		return ConfigurationDescriptor{}, fmt.Errorf("%w: no scene configurations declared", ErrMisconfigured)
	}
	for _, cfg := range h.configurations {
		if cfg.Name == conn.Role {
			return cfg, nil
		}
	}
	return h.configurations[0], nil
}

// OnConnect handles a new scene connection. The platform callback for
// this event has no error channel and no return value, so this method
// has none either: a bootstrap failure here is observable only through
// the coordinator's terminal Failed state (and the debug snapshot), and
// the connection is left with a constructed but non-functional surface
// where construction itself succeeded.
func (h *SceneConnectionHandler) OnConnect(ctx context.Context, conn ConnectionContext, options map[string]string) {
	h.mu.Lock()
	if _, exists := h.conns[conn.ID]; exists {
		h.anomalies++
		h.mu.Unlock()
		h.log.Warn().Str("connection", conn.ID).Msg("duplicate connect for live connection, ignoring")
		return
	}
	if h.live >= 1 && !h.supportsMulti {
		// The manifest promised a single surface; the platform sent more.
		h.anomalies++
		h.log.Warn().
			Str("connection", conn.ID).
			Uint64("anomalies", h.anomalies).
			Msg("extra connection with supports_multiple_surfaces=false")
	}
	rec := &connection{ctx: conn, phase: PhaseConnected}
	h.conns[conn.ID] = rec
	h.live++
	h.mu.Unlock()

	build := func() (*surface.Surface, error) {
		return h.allocate(surface.OwnerConnection, h.bounds, conn.ID)
	}

	s, err := h.attachAndMaybeStart(ctx, build, options, true)
	if err != nil {
		h.log.Warn().Err(err).Str("connection", conn.ID).Msg("connection bootstrap failed")
	}

	h.mu.Lock()
	rec.s = s
	h.mu.Unlock()
}

// OnDisconnect releases the connection's surface and moves the connection
// to its terminal phase. It never touches bootstrap state: a disconnect
// after a successful start leaves the runtime Started (and Failed stays
// Failed). Unknown connections are ignored with a warning.
func (h *SceneConnectionHandler) OnDisconnect(conn ConnectionContext) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec, ok := h.conns[conn.ID]
	if !ok {
		h.log.Warn().Str("connection", conn.ID).Msg("disconnect for unknown connection, ignoring")
		return
	}
	if rec.phase == PhaseDisconnected {
		h.log.Warn().Str("connection", conn.ID).Msg("duplicate disconnect, ignoring")
		return
	}
	rec.phase = PhaseDisconnected
	if rec.s != nil {
		rec.s.Release()
	}
	h.live--
	h.log.Debug().Str("connection", conn.ID).Msg("connection released")
}

// OnActivate, OnDeactivate, OnEnterForeground and OnEnterBackground are
// no-ops in the base design, defined as extension points for the excluded
// styling and resource-management collaborators. Their ordering is still
// validated against the connection phase graph.

func (h *SceneConnectionHandler) OnActivate(conn ConnectionContext) error {
	return h.transition(conn, PhaseActive)
}

func (h *SceneConnectionHandler) OnDeactivate(conn ConnectionContext) error {
	return h.transition(conn, PhaseInactive)
}

func (h *SceneConnectionHandler) OnEnterForeground(conn ConnectionContext) error {
	return h.transition(conn, PhaseForeground)
}

func (h *SceneConnectionHandler) OnEnterBackground(conn ConnectionContext) error {
	return h.transition(conn, PhaseBackground)
}

func (h *SceneConnectionHandler) transition(conn ConnectionContext, to Phase) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec, ok := h.conns[conn.ID]
	if !ok {
		return fmt.Errorf("%w: %s for unknown connection %q", ErrInvalidPhaseTransition, to, conn.ID)
	}
	if !phaseTransitionAllowed(rec.phase, to) {
		return fmt.Errorf("%w: %s -> %s for connection %q", ErrInvalidPhaseTransition, rec.phase, to, conn.ID)
	}
	rec.phase = to
	return nil
}

// Anomalies returns how many unexpected connection events have been
// observed (extra connections under a single-surface manifest, duplicate
// connects).
func (h *SceneConnectionHandler) Anomalies() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.anomalies
}

// Connections returns a snapshot of every connection seen this process
// lifetime, including disconnected ones, for observability.
func (h *SceneConnectionHandler) Connections() []ConnectionSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]ConnectionSnapshot, 0, len(h.conns))
	for _, rec := range h.conns {
		snap := ConnectionSnapshot{
			ID:    rec.ctx.ID,
			Role:  rec.ctx.Role,
			Phase: rec.phase.String(),
		}
		if rec.s != nil {
			snap.SurfaceID = rec.s.ID().String()
			snap.Released = rec.s.Released()
		}
		out = append(out, snap)
	}
	return out
}

// SurfaceFor returns the surface bound to the given connection, or nil if
// the connection is unknown or construction failed.
func (h *SceneConnectionHandler) SurfaceFor(conn ConnectionContext) *surface.Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec, ok := h.conns[conn.ID]; ok {
		return rec.s
	}
	return nil
}
