package scene

import (
	_ "embed"
	"fmt"
)

//go:embed default.yaml
var defaultScene []byte

// Default returns the built-in demo scene: one body per primitive and a
// compound dumbbell.
func Default() (*File, error) {
	f, err := Parse(defaultScene)
	if err != nil {
		return nil, fmt.Errorf("scene: default: %w", err)
	}
	return f, nil
}
