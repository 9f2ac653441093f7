// Package lifecycle implements the two platform entry points that can
// bootstrap the hosted runtime: the legacy process-level launch hook and
// the per-surface scene connection callback. Exactly one of the two is
// driven by the platform per process lifetime; both consult the shared
// bootstrap.Coordinator so the runtime starts exactly once no matter
// which path fires.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sufield/scenehost/pkg/bootstrap"
	"github.com/sufield/scenehost/pkg/surface"
)

// Runtime is the hosted application runtime, consumed as an opaque
// capability. Start is synchronous from the coordinator's point of view;
// any asynchronous initialization inside the runtime is the runtime's own
// concern. The runtime is not designed for multiple independent instances,
// so Start must never be invoked twice in one process.
type Runtime interface {
	Start(ctx context.Context, module string, s *surface.Surface, options map[string]string) error
}

// Allocator constructs a surface handle. The default is surface.New;
// tests and embedders inject their own to model platform allocation
// failures or to wrap a platform drawable.
type Allocator func(owner surface.Owner, bounds surface.Bounds, connectionID string) (*surface.Surface, error)

// Decorator applies deferred visual configuration to a freshly
// constructed surface before the runtime attaches. Styling itself is an
// external collaborator; this is only the attach point.
type Decorator func(*surface.Surface)

// ConnectionContext is the platform-issued handle identifying one
// surface-hosting session on the scene path.
type ConnectionContext struct {
	ID   string
	Role string
}

// ConfigurationDescriptor names which connection handler governs a
// context; the platform requests it via OnConfigurationRequest before
// delivering OnConnect.
type ConfigurationDescriptor struct {
	Name           string
	HandlerBinding string
}

// Config carries the shared wiring for both handler types. The Runtime
// reference is created once at process start regardless of which path the
// platform takes, and handed to both handlers.
type Config struct {
	Coordinator *bootstrap.Coordinator
	Runtime     Runtime

	// Module is the hosted runtime module name passed to Start.
	Module string

	// BaseOptions from the manifest are merged under the options the
	// platform supplies with each callback.
	BaseOptions map[string]string

	// DisplayBounds is the full display region used by the legacy path;
	// SceneBounds is the per-connection region used by the scene path.
	DisplayBounds surface.Bounds
	SceneBounds   surface.Bounds

	// SupportsMultipleSurfaces mirrors the manifest declaration. When
	// false, a second live connection is an anomaly, not a supported
	// case.
	SupportsMultipleSurfaces bool
	Configurations           []ConfigurationDescriptor

	Allocate Allocator
	Decorate Decorator
	Logger   zerolog.Logger
}

// ErrMisconfigured is returned by the handler constructors when required
// wiring is missing.
var ErrMisconfigured = errors.New("lifecycle: handler misconfigured")

func (c *Config) validate() error {
	if c.Coordinator == nil {
		return fmt.Errorf("%w: coordinator is required", ErrMisconfigured)
	}
	if c.Runtime == nil {
		return fmt.Errorf("%w: runtime is required", ErrMisconfigured)
	}
	if c.Module == "" {
		return fmt.Errorf("%w: module name is required", ErrMisconfigured)
	}
	return nil
}

// withDefaults fills the injectable collaborators that have safe
// fallbacks.
func (c Config) withDefaults() Config {
	if c.Allocate == nil {
		c.Allocate = surface.New
	}
	if c.Decorate == nil {
		c.Decorate = func(*surface.Surface) {}
	}
	if c.DisplayBounds == (surface.Bounds{}) {
		c.DisplayBounds = surface.Bounds{Width: 1920, Height: 1080}
	}
	if c.SceneBounds == (surface.Bounds{}) {
		c.SceneBounds = c.DisplayBounds
	}
	return c
}

// mergeOptions layers the callback-supplied options over the manifest base
// options. The result is never nil: the runtime contract takes an options
// map even when both sources are empty.
func mergeOptions(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
