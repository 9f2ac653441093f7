// Package capability resolves which platform lifecycle variant drives
// this process. The flag is computed once at process start and is
// read-only thereafter; there is no runtime reconfiguration.
package capability

// MinSceneLifecycleVersion is the first platform major version that
// delivers the per-surface connection callbacks.
const MinSceneLifecycleVersion = 13

// Probe reports whether the running platform offers the scene lifecycle
// API at all. The detection mechanism itself is the platform's concern;
// this package only consumes the boolean.
type Probe interface {
	SceneLifecycleAvailable() bool
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func() bool

// SceneLifecycleAvailable implements Probe.
func (f ProbeFunc) SceneLifecycleAvailable() bool { return f() }

// VersionProbe derives availability from the platform major version.
type VersionProbe int

// SceneLifecycleAvailable implements Probe.
func (v VersionProbe) SceneLifecycleAvailable() bool {
	return int(v) >= MinSceneLifecycleVersion
}

// Flag is the resolved capability. The platform drives the scene path
// only when the API exists and the manifest registered a scene
// configuration; otherwise it falls back to the legacy launch hook.
type Flag struct {
	sceneLifecycle bool
}

// Resolve computes the flag. Call once at process start and keep the
// result; the two handler paths are selected from it for the whole
// process lifetime.
func Resolve(p Probe, manifestDeclaresScenes bool) Flag {
	return Flag{sceneLifecycle: p.SceneLifecycleAvailable() && manifestDeclaresScenes}
}

// SceneLifecycle reports whether the platform will drive the per-surface
// connection path. When false, only the legacy launch handler is ever
// invoked.
func (f Flag) SceneLifecycle() bool { return f.sceneLifecycle }
