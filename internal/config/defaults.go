package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the default Flappy Bird configuration.
// Kept in sync with defaults/flappy.yaml; used when the embedded file
// cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Field: FlappyField{
			Width:  700,
			Height: 650,
		},
		Loop: FlappyLoop{
			TickRate: 30,
		},
		Physics: FlappyPhysics{
			Gravity:     1.0,
			JumpImpulse: -10.0,
			Damping:     0.9,
		},
		Obstacles: FlappyObstacles{
			PipeWidth:      50,
			GapSize:        200,
			Margin:         50,
			Speed:          5,
			SpawnThreshold: 200,
		},
		Player: FlappyPlayer{
			X:    50,
			Size: 30,
		},
		Rules: FlappyRules{
			BoundaryCollision: true,
		},
		Menu: FlappyMenu{
			ButtonWidth:   150,
			ButtonHeight:  50,
			ButtonSpacing: 100,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
