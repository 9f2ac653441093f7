// Package debug exposes sanitized bootstrap state for host
// observability. The scene connection callback has no error channel, so
// a failed bootstrap on that path is visible only through the
// coordinator's terminal Failed state; this package is the polling
// surface for it.
package debug

import "context"

// Snapshot is what we expose over /_debug/bootstrap. Only state safe for
// diagnostics belongs here.
type Snapshot struct {
	// BootstrapState is one of not_started, starting, started, failed.
	BootstrapState string `json:"bootstrapState"`
	// FailureReason is set only when BootstrapState is failed.
	FailureReason string `json:"failureReason,omitempty"`
	// SceneLifecycle reports which platform path drives this process.
	SceneLifecycle bool `json:"sceneLifecycle"`
	// Anomalies counts unexpected connection events (extra connections
	// under a single-surface manifest, duplicate connects).
	Anomalies uint64 `json:"anomalies"`

	Connections []ConnectionView `json:"connections"`
}

// ConnectionView is a safe view of one scene connection.
type ConnectionView struct {
	ID        string `json:"id"`
	Role      string `json:"role,omitempty"`
	Phase     string `json:"phase"`
	SurfaceID string `json:"surfaceID,omitempty"`
	Released  bool   `json:"released"`
}

// Introspector is implemented by the host to provide debug snapshots.
type Introspector interface {
	SnapshotData(ctx context.Context) Snapshot
}
