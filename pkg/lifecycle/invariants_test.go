package lifecycle_test

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"testing/quick"

	"github.com/sufield/scenehost/pkg/bootstrap"
	"github.com/sufield/scenehost/pkg/lifecycle"
)

// defaultPBTConfig returns standard config for property-based tests.
func defaultPBTConfig() *quick.Config {
	maxCount := 2000
	if v := os.Getenv("PBT_MAX_COUNT"); v != "" {
		// Allow override for faster local runs
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxCount = n
		}
	}
	return &quick.Config{MaxCount: maxCount}
}

// TestCallbackSequences_StartAtMostOnce drives both handlers with random
// platform callback sequences and checks the core invariant: for every
// sequence, the runtime's Start is invoked at most once per process
// lifetime, and a Failed bootstrap is never exited.
func TestCallbackSequences_StartAtMostOnce(t *testing.T) {
	t.Parallel()

	property := func(ops []uint8) bool {
		coord := bootstrap.New()
		rt := &fakeRuntime{}
		cfg := sceneConfig(coord, rt)
		legacy, err := lifecycle.NewLegacyLaunchHandler(cfg)
		if err != nil {
			return false
		}
		scenes, err := lifecycle.NewSceneConnectionHandler(cfg)
		if err != nil {
			return false
		}

		ctx := context.Background()
		nextConn := 0
		live := []lifecycle.ConnectionContext{}

		for _, op := range ops {
			switch op % 6 {
			case 0:
				legacy.OnLaunch(ctx, nil)
			case 1:
				conn := lifecycle.ConnectionContext{ID: fmt.Sprintf("conn-%d", nextConn)}
				nextConn++
				scenes.OnConnect(ctx, conn, nil)
				live = append(live, conn)
			case 2:
				if len(live) > 0 {
					scenes.OnDisconnect(live[0])
					live = live[1:]
				}
			case 3:
				if len(live) > 0 {
					_ = scenes.OnActivate(live[0])
				}
			case 4:
				if len(live) > 0 {
					_ = scenes.OnEnterBackground(live[0])
				}
			case 5:
				if len(live) > 0 {
					_ = scenes.OnDeactivate(live[0])
				}
			}

			if len(rt.startCalls()) > 1 {
				return false
			}
			if s := coord.State(); s == bootstrap.StateFailed {
				// fakeRuntime never fails here, so Failed is unreachable.
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, defaultPBTConfig()); err != nil {
		t.Error(err)
	}
}
