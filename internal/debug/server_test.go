package debug

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIntrospector struct {
	snap Snapshot
}

func (s stubIntrospector) SnapshotData(context.Context) Snapshot { return s.snap }

func TestHandleBootstrap(t *testing.T) {
	t.Parallel()

	in := stubIntrospector{snap: Snapshot{
		BootstrapState: "failed",
		FailureReason:  "runtime rejected configuration",
		SceneLifecycle: true,
		Anomalies:      2,
		Connections:    []ConnectionView{{ID: "conn-1", Phase: "connected"}},
	}}
	srv := NewServer("127.0.0.1:0", in, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/_debug/bootstrap")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "failed", got.BootstrapState)
	assert.Equal(t, "runtime rejected configuration", got.FailureReason)
	assert.Equal(t, uint64(2), got.Anomalies)
	assert.Empty(t, got.Connections, "bootstrap view omits connections")
}

func TestHandleConnections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		snap  Snapshot
		count int
	}{
		{
			name: "with connections",
			snap: Snapshot{Connections: []ConnectionView{
				{ID: "conn-1", Phase: "foreground", SurfaceID: "s-1"},
				{ID: "conn-2", Phase: "disconnected", Released: true},
			}},
			count: 2,
		},
		{name: "empty is a list, not null", snap: Snapshot{}, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := NewServer("127.0.0.1:0", stubIntrospector{snap: tt.snap}, zerolog.Nop())
			ts := httptest.NewServer(srv.Handler())
			defer ts.Close()

			resp, err := ts.Client().Get(ts.URL + "/_debug/connections")
			require.NoError(t, err)
			defer resp.Body.Close()

			var got []ConnectionView
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Len(t, got, tt.count)
		})
	}
}

func TestShutdown_WithoutStart(t *testing.T) {
	t.Parallel()

	srv := NewServer("127.0.0.1:0", stubIntrospector{}, zerolog.Nop())
	assert.NoError(t, srv.Shutdown(context.Background()))
}
