package lifecycle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sufield/scenehost/pkg/bootstrap"
	"github.com/sufield/scenehost/pkg/surface"
)

// builder constructs the surface for one attach attempt. The two handler
// types differ only in how they build their surface (full display bounds
// for the legacy path, connection-bound for the scene path); the guarded
// start logic below is shared between them.
type builder func() (*surface.Surface, error)

// attacher is the shared attach-and-maybe-start capability consulted by
// both handlers.
type attacher struct {
	coord    *bootstrap.Coordinator
	runtime  Runtime
	module   string
	base     map[string]string
	allocate Allocator
	decorate Decorator
	log      zerolog.Logger
}

func newAttacher(cfg Config) attacher {
	return attacher{
		coord:    cfg.Coordinator,
		runtime:  cfg.Runtime,
		module:   cfg.Module,
		base:     cfg.BaseOptions,
		allocate: cfg.Allocate,
		decorate: cfg.Decorate,
		log:      cfg.Logger,
	}
}

// attachAndMaybeStart asks the coordinator for the start grant and, if
// granted, constructs a surface, applies deferred decoration and starts
// the runtime. Rejected callers skip runtime startup; when
// visualOnRejection is set they still construct a surface for visual
// presence only (the scene path owes the platform one surface per
// connection even when the runtime is already running).
//
// The returned surface may be non-nil even when err is non-nil: a runtime
// start failure leaves the caller with a constructed but non-functional
// surface, and the coordinator's terminal Failed state is what reports
// the fault.
func (a *attacher) attachAndMaybeStart(ctx context.Context, build builder, options map[string]string, visualOnRejection bool) (*surface.Surface, error) {
	decision := a.coord.TryBeginStart()
	switch decision {
	case bootstrap.DecisionGranted:
		return a.startGranted(ctx, build, options)
	case bootstrap.DecisionAlreadyStarted, bootstrap.DecisionAlreadyStarting, bootstrap.DecisionFailed:
		a.log.Debug().Stringer("decision", decision).Msg("start grant rejected, skipping runtime startup")
		if !visualOnRejection {
			return nil, nil
		}
		s, err := build()
		if err != nil {
			a.log.Warn().Err(err).Msg("visual-only surface construction failed")
			return nil, err
		}
		a.decorate(s)
		return s, nil
	default:
		return nil, fmt.Errorf("lifecycle: unexpected decision %s", decision)
	}
}

// startGranted runs the path only the grant holder may take. Exactly one
// of MarkStarted or MarkFailed is recorded before returning.
func (a *attacher) startGranted(ctx context.Context, build builder, options map[string]string) (*surface.Surface, error) {
	s, err := build()
	if err != nil {
		a.fail(err)
		return nil, err
	}
	a.decorate(s)

	merged := mergeOptions(a.base, options)
	if err := a.runtime.Start(ctx, a.module, s, merged); err != nil {
		wrapped := fmt.Errorf("lifecycle: runtime start for module %q: %w", a.module, err)
		a.fail(wrapped)
		return s, wrapped
	}

	if err := a.coord.MarkStarted(); err != nil {
		// Unreachable while the grant is held; surfaced for handler bugs.
		return s, err
	}
	a.log.Info().
		Str("module", a.module).
		Str("surface", s.ID().String()).
		Msg("hosted runtime started")
	return s, nil
}

func (a *attacher) fail(reason error) {
	if err := a.coord.MarkFailed(reason); err != nil {
		a.log.Error().Err(err).Msg("could not record bootstrap failure")
		return
	}
	a.log.Error().Err(reason).Msg("bootstrap failed, runtime left unstarted")
}
