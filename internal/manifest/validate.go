package manifest

import (
	"errors"
	"fmt"
)

// Validate checks a parsed manifest.
//
// Ensures:
//   - runtime.module is non-empty
//   - surface sizes, when set, are positive
//   - scene configurations, when declared, have unique non-empty names
//     and non-empty handler bindings
//   - supports_multiple_surfaces=true requires at least one configuration
func Validate(m Manifest) error {
	if m.Runtime.Module == "" {
		return errors.New("runtime.module must be set")
	}

	if err := validateBounds("surface.display", m.Surface.DisplayWidth, m.Surface.DisplayHeight); err != nil {
		return err
	}
	if err := validateBounds("surface.scene", m.Surface.SceneWidth, m.Surface.SceneHeight); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(m.Scene.Configurations))
	for i, cfg := range m.Scene.Configurations {
		if cfg.Name == "" {
			return fmt.Errorf("scene.configurations[%d].name must be set", i)
		}
		if cfg.HandlerBinding == "" {
			return fmt.Errorf("scene.configurations[%d].handler_binding must be set", i)
		}
		if _, dup := seen[cfg.Name]; dup {
			return fmt.Errorf("scene.configurations has duplicate name %q", cfg.Name)
		}
		seen[cfg.Name] = struct{}{}
	}

	if m.Scene.SupportsMultipleSurfaces && len(m.Scene.Configurations) == 0 {
		return errors.New("scene.supports_multiple_surfaces requires at least one scene configuration")
	}

	return nil
}

// validateBounds rejects half-set or negative sizes. Both zero means
// "use defaults".
func validateBounds(field string, w, h int) error {
	if w == 0 && h == 0 {
		return nil
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%s dimensions must both be positive, got %dx%d", field, w, h)
	}
	return nil
}
