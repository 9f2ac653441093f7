// Package scenehost bootstraps a hosted application runtime onto a
// platform-provided surface, guaranteeing the runtime starts exactly once
// no matter which platform entry point fires.
//
// The platform is migrating from a single legacy launch hook to
// per-surface connection callbacks, and both mechanisms coexist for a
// transition period. scenehost wires the two entry points to a shared
// bootstrap coordinator: the legacy path constructs a surface over the
// full display bounds and starts the runtime directly; the scene path
// constructs one surface per connection and starts the runtime for the
// first connection only.
//
// Quick Start:
//
//	host, err := scenehost.Attach("scenehost.yaml", myRuntime,
//	    scenehost.WithPlatformVersion(26),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Hand the entry points to the platform bindings:
//	if host.SceneLifecycle() {
//	    platform.BindSceneDelegate(host.Scenes())
//	} else {
//	    platform.BindLaunchDelegate(host.Legacy())
//	}
//
// Configuration (scenehost.yaml):
//
//	runtime:
//	  module: app
//	  options:
//	    theme: dark
//	scene:
//	  supports_multiple_surfaces: false
//	  configurations:
//	    - name: default
//	      handler_binding: SceneConnectionHandler
//
// Bootstrap failure never crashes the process: the legacy path reports it
// through its boolean launch result, and the scene path (whose platform
// callback has no error channel) reports it only through
// Host.State/Host.FailureReason, the NotifyState subscription, and the
// optional debug HTTP endpoint.
package scenehost

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/sufield/scenehost/internal/capability"
	"github.com/sufield/scenehost/internal/debug"
	"github.com/sufield/scenehost/internal/manifest"
	"github.com/sufield/scenehost/pkg/bootstrap"
	"github.com/sufield/scenehost/pkg/lifecycle"
	"github.com/sufield/scenehost/pkg/surface"
)

// EnvManifest is the environment variable consulted by AttachFromEnv.
const EnvManifest = "SCENEHOST_MANIFEST"

// Option customizes Attach.
type Option func(*options)

type options struct {
	logger    zerolog.Logger
	probe     capability.Probe
	allocate  lifecycle.Allocator
	decorate  lifecycle.Decorator
	debugAddr string
}

// WithLogger sets the structured logger used by the handlers and the
// debug server. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithPlatformVersion resolves the capability flag from the platform
// major version: versions that predate the scene lifecycle drive the
// legacy path. The default assumes a current platform.
func WithPlatformVersion(version int) Option {
	return func(o *options) { o.probe = capability.VersionProbe(version) }
}

// WithCapabilityDetection overrides capability detection entirely.
// Intended for platform bindings that have their own detection mechanism.
// The probe runs once, during Attach.
func WithCapabilityDetection(probe func() bool) Option {
	return func(o *options) { o.probe = capability.ProbeFunc(probe) }
}

// WithAllocator replaces the surface allocator, letting platform bindings
// wrap real drawables and tests inject allocation failures.
func WithAllocator(a lifecycle.Allocator) Option {
	return func(o *options) { o.allocate = a }
}

// WithDecorator installs the deferred visual-configuration hook applied
// to every surface before the runtime attaches.
func WithDecorator(d lifecycle.Decorator) Option {
	return func(o *options) { o.decorate = d }
}

// WithDebugServer enables the localhost debug HTTP endpoint on addr
// (e.g. "127.0.0.1:6061"), serving /_debug/bootstrap and
// /_debug/connections.
func WithDebugServer(addr string) Option {
	return func(o *options) { o.debugAddr = addr }
}

// Host owns the wired bootstrap: one coordinator, one handler per entry
// point, and the resolved capability flag. The platform drives exactly
// one of the two handlers per process lifetime.
type Host struct {
	manifest manifest.Manifest
	flag     capability.Flag
	coord    *bootstrap.Coordinator
	legacy   *lifecycle.LegacyLaunchHandler
	scenes   *lifecycle.SceneConnectionHandler
	log      zerolog.Logger
	dbg      *debug.Server
}

// Attach loads and validates the manifest, resolves the capability flag,
// and wires both entry-point handlers against a fresh coordinator. The
// runtime reference is taken once here and shared by both paths.
func Attach(manifestPath string, rt lifecycle.Runtime, opts ...Option) (*Host, error) {
	if rt == nil {
		return nil, errors.New("scenehost: runtime is required")
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("scenehost: %w", err)
	}
	if err := manifest.Validate(m); err != nil {
		return nil, fmt.Errorf("scenehost: invalid manifest: %w", err)
	}

	o := options{
		logger: zerolog.Nop(),
		probe:  capability.ProbeFunc(func() bool { return true }),
	}
	for _, opt := range opts {
		opt(&o)
	}

	flag := capability.Resolve(o.probe, len(m.Scene.Configurations) > 0)
	coord := bootstrap.New()

	cfg := lifecycle.Config{
		Coordinator:              coord,
		Runtime:                  rt,
		Module:                   m.Runtime.Module,
		BaseOptions:              m.Runtime.Options,
		DisplayBounds:            surface.Bounds{Width: m.Surface.DisplayWidth, Height: m.Surface.DisplayHeight},
		SceneBounds:              surface.Bounds{Width: m.Surface.SceneWidth, Height: m.Surface.SceneHeight},
		SupportsMultipleSurfaces: m.Scene.SupportsMultipleSurfaces,
		Allocate:                 o.allocate,
		Decorate:                 o.decorate,
		Logger:                   o.logger,
	}
	for _, sc := range m.Scene.Configurations {
		cfg.Configurations = append(cfg.Configurations, lifecycle.ConfigurationDescriptor{
			Name:           sc.Name,
			HandlerBinding: sc.HandlerBinding,
		})
	}

	legacy, err := lifecycle.NewLegacyLaunchHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("scenehost: %w", err)
	}
	scenes, err := lifecycle.NewSceneConnectionHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("scenehost: %w", err)
	}

	h := &Host{
		manifest: m,
		flag:     flag,
		coord:    coord,
		legacy:   legacy,
		scenes:   scenes,
		log:      o.logger,
	}

	if o.debugAddr != "" {
		h.dbg = debug.NewServer(o.debugAddr, hostIntrospector{h: h}, o.logger)
		h.dbg.Start()
	}

	h.log.Info().
		Str("module", m.Runtime.Module).
		Bool("scene_lifecycle", flag.SceneLifecycle()).
		Msg("scenehost attached")
	return h, nil
}

// AttachFromEnv reads the manifest path from SCENEHOST_MANIFEST. It
// returns an error if the variable is not set, so the library never
// silently assumes a default environment. For explicit control, use
// Attach directly (recommended for production).
func AttachFromEnv(rt lifecycle.Runtime, opts ...Option) (*Host, error) {
	path := os.Getenv(EnvManifest)
	if path == "" {
		return nil, fmt.Errorf("scenehost: %s environment variable not set; either set %s or call Attach() with an explicit manifest path", EnvManifest, EnvManifest)
	}
	return Attach(path, rt, opts...)
}

// Legacy returns the process-level launch handler. The platform invokes
// it only when SceneLifecycle() is false.
func (h *Host) Legacy() *lifecycle.LegacyLaunchHandler { return h.legacy }

// Scenes returns the per-surface connection handler. The platform invokes
// it only when SceneLifecycle() is true.
func (h *Host) Scenes() *lifecycle.SceneConnectionHandler { return h.scenes }

// SceneLifecycle reports which entry point the platform will drive.
func (h *Host) SceneLifecycle() bool { return h.flag.SceneLifecycle() }

// Module returns the hosted runtime module name from the manifest.
func (h *Host) Module() string { return h.manifest.Runtime.Module }

// State returns the current bootstrap state for polling.
func (h *Host) State() bootstrap.State { return h.coord.State() }

// FailureReason returns the terminal bootstrap failure, or nil.
func (h *Host) FailureReason() error { return h.coord.FailureReason() }

// NotifyState subscribes to bootstrap state transitions.
func (h *Host) NotifyState(fn bootstrap.Notifier) { h.coord.Notify(fn) }

// Shutdown stops the debug server if one was enabled. It never touches
// bootstrap state: there is no teardown path for a started runtime.
func (h *Host) Shutdown(ctx context.Context) error {
	if h.dbg == nil {
		return nil
	}
	return h.dbg.Shutdown(ctx)
}

// hostIntrospector adapts Host to the debug snapshot interface.
type hostIntrospector struct {
	h *Host
}

func (i hostIntrospector) SnapshotData(context.Context) debug.Snapshot {
	snap := debug.Snapshot{
		BootstrapState: i.h.coord.State().String(),
		SceneLifecycle: i.h.flag.SceneLifecycle(),
		Anomalies:      i.h.scenes.Anomalies(),
	}
	if reason := i.h.coord.FailureReason(); reason != nil {
		snap.FailureReason = reason.Error()
	}
	for _, c := range i.h.scenes.Connections() {
		snap.Connections = append(snap.Connections, debug.ConnectionView{
			ID:        c.ID,
			Role:      c.Role,
			Phase:     c.Phase,
			SurfaceID: c.SurfaceID,
			Released:  c.Released,
		})
	}
	return snap
}
