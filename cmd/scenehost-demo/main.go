// Command scenehost-demo simulates the platform driving a scenehost
// bootstrap: it resolves the capability flag from a platform version
// flag, then fires either the legacy launch hook or a sequence of scene
// connection callbacks against a toy runtime.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/sufield/scenehost"
	"github.com/sufield/scenehost/pkg/bootstrap"
	"github.com/sufield/scenehost/pkg/lifecycle"
	"github.com/sufield/scenehost/pkg/surface"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
)

// demoRuntime is a stand-in hosted engine that logs its start call.
type demoRuntime struct {
	log zerolog.Logger
}

func (r demoRuntime) Start(_ context.Context, module string, s *surface.Surface, options map[string]string) error {
	r.log.Info().
		Str("module", module).
		Str("surface", s.ID().String()).
		Stringer("owner", s.Owner()).
		Int("width", s.Bounds().Width).
		Int("height", s.Bounds().Height).
		Interface("options", options).
		Msg("hosted runtime attached")
	return nil
}

func main() {
	versionFlag := flag.Bool("version", false, "Print version information and exit")
	manifestPath := flag.String("manifest", "examples/scenehost.yaml", "Path to scenehost manifest file")
	platformVersion := flag.Int("platform-version", 26, "Simulated platform major version")
	connections := flag.Int("connections", 1, "Number of scene connections to simulate")
	debugAddr := flag.String("debug-addr", "", "Optional localhost debug server address (e.g. 127.0.0.1:6061)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("scenehost-demo %s (commit %s)\n", version, commit)
		os.Exit(0)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	opts := []scenehost.Option{
		scenehost.WithLogger(log),
		scenehost.WithPlatformVersion(*platformVersion),
	}
	if *debugAddr != "" {
		opts = append(opts, scenehost.WithDebugServer(*debugAddr))
	}

	host, err := scenehost.Attach(*manifestPath, demoRuntime{log: log}, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("attach failed")
	}
	defer func() {
		if err := host.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	host.NotifyState(func(s bootstrap.State, reason error) {
		evt := log.Info()
		if reason != nil {
			evt = log.Error().Err(reason)
		}
		evt.Stringer("state", s).Msg("bootstrap state changed")
	})

	ctx := context.Background()
	if !host.SceneLifecycle() {
		log.Info().Int("platform_version", *platformVersion).Msg("legacy launch path selected")
		if ok := host.Legacy().OnLaunch(ctx, map[string]string{"cold_start": "true"}); !ok {
			log.Error().Err(host.FailureReason()).Msg("legacy launch failed")
			os.Exit(1)
		}
	} else {
		log.Info().Int("platform_version", *platformVersion).Msg("scene connection path selected")
		for i := 0; i < *connections; i++ {
			conn := lifecycle.ConnectionContext{ID: fmt.Sprintf("conn-%d", i+1), Role: "default"}
			desc, err := host.Scenes().OnConfigurationRequest(conn, nil)
			if err != nil {
				log.Error().Err(err).Msg("configuration request failed")
				continue
			}
			log.Info().Str("connection", conn.ID).Str("binding", desc.HandlerBinding).Msg("connecting")
			host.Scenes().OnConnect(ctx, conn, map[string]string{})
			if err := host.Scenes().OnActivate(conn); err != nil {
				log.Warn().Err(err).Msg("activate")
			}
		}
	}

	log.Info().
		Stringer("state", host.State()).
		Uint64("anomalies", host.Scenes().Anomalies()).
		Msg("bootstrap complete")

	if *debugAddr != "" {
		log.Info().Str("addr", *debugAddr).Msg("debug server running, press Ctrl+C to exit")
		waitCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-waitCtx.Done()
	}
}
