// Package manifest reads the static descriptor that declares how the
// platform binds this process's entry points: which hosted module to
// start, whether multiple surfaces are supported, and the scene
// configurations the platform may request.
package manifest

// SceneConfiguration declares one named configuration and the connection
// handler binding that governs contexts created under it.
type SceneConfiguration struct {
	Name           string `yaml:"name"`
	HandlerBinding string `yaml:"handler_binding"`
}

// SceneSection contains the scene-lifecycle declaration.
type SceneSection struct {
	// SupportsMultipleSurfaces must be false in the single-window
	// configuration; the connection handler treats extra connections as
	// anomalies when it is.
	SupportsMultipleSurfaces bool `yaml:"supports_multiple_surfaces"`

	// Configurations enumerates the static bindings returned to the
	// platform's configuration requests. At least one is required when
	// the scene lifecycle is declared.
	Configurations []SceneConfiguration `yaml:"configurations"`
}

// RuntimeSection identifies the hosted runtime module and its base start
// options. Callback-supplied options are layered over these.
type RuntimeSection struct {
	Module  string            `yaml:"module"`
	Options map[string]string `yaml:"options"`
}

// SurfaceSection carries the drawable-region sizes used when the platform
// does not dictate them.
type SurfaceSection struct {
	DisplayWidth  int `yaml:"display_width"`
	DisplayHeight int `yaml:"display_height"`
	SceneWidth    int `yaml:"scene_width"`
	SceneHeight   int `yaml:"scene_height"`
}

// Manifest represents a scenehost manifest file.
//
// The file format is versioned to support future evolution without
// breaking changes.
type Manifest struct {
	// Version is the manifest format version (optional, currently always 1).
	Version int `yaml:"version,omitempty"`

	Runtime RuntimeSection `yaml:"runtime"`
	Scene   SceneSection   `yaml:"scene"`
	Surface SurfaceSection `yaml:"surface"`
}
