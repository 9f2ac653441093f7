package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

// FuzzLoad tests manifest loading with random inputs to find panics,
// crashes, or unexpected behavior.
func FuzzLoad(f *testing.F) {
	// Seed corpus with valid manifest examples
	f.Add([]byte(`
runtime:
  module: app
scene:
  supports_multiple_surfaces: false
  configurations:
    - name: default
      handler_binding: SceneConnectionHandler
`))
	f.Add([]byte(`
version: 1
runtime:
  module: dashboard
  options:
    theme: dark
surface:
  display_width: 1920
  display_height: 1080
`))

	f.Fuzz(func(t *testing.T, data []byte) {
		path := filepath.Join(t.TempDir(), "fuzz_manifest.yaml")
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Skip()
		}

		// Load then Validate - neither should ever panic.
		m, err := Load(path)
		if err != nil {
			return
		}
		_ = Validate(m)
	})
}
