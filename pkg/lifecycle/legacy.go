package lifecycle

import (
	"context"
	"sync"

	"github.com/sufield/scenehost/pkg/surface"
)

// LegacyLaunchHandler implements the legacy process-level entry point,
// driven by the platform when the scene lifecycle is unavailable or not
// registered. It is invoked at most once per process lifetime.
type LegacyLaunchHandler struct {
	attacher
	bounds surface.Bounds

	mu sync.Mutex
	s  *surface.Surface
}

// NewLegacyLaunchHandler wires the legacy entry point against the shared
// coordinator and runtime.
func NewLegacyLaunchHandler(cfg Config) (*LegacyLaunchHandler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	return &LegacyLaunchHandler{
		attacher: newAttacher(cfg),
		bounds:   cfg.DisplayBounds,
	}, nil
}

// OnLaunch handles the platform's legacy launch callback. The return
// value is the platform's generic success signal; it has no structured
// error channel, so a false return plus the coordinator's Failed state is
// all the reporting there is. The surrounding platform keeps the process
// running on failure, in a degraded unstarted state.
//
// A rejected grant (the scene path won the race during the capability
// transition window) is defensively treated as success without
// constructing anything.
func (h *LegacyLaunchHandler) OnLaunch(ctx context.Context, options map[string]string) bool {
	build := func() (*surface.Surface, error) {
		return h.allocate(surface.OwnerProcess, h.bounds, "")
	}

	s, err := h.attachAndMaybeStart(ctx, build, options, false)
	if err != nil {
		return false
	}
	if s != nil {
		h.mu.Lock()
		h.s = s
		h.mu.Unlock()
	}
	return true
}

// Surface returns the process-owned surface, or nil before a successful
// launch.
func (h *LegacyLaunchHandler) Surface() *surface.Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s
}
