// Package config provides YAML-based game configuration loading and
// validation for the flappy game.
package config

import "github.com/vovakirdan/tui-flappy/internal/core"

// FlappyConfig contains all configuration for the Flappy Bird game.
// Distances are in field units, speeds and accelerations per tick.
type FlappyConfig struct {
	Field     FlappyField     `yaml:"field"`
	Loop      FlappyLoop      `yaml:"loop"`
	Physics   FlappyPhysics   `yaml:"physics"`
	Obstacles FlappyObstacles `yaml:"obstacles"`
	Player    FlappyPlayer    `yaml:"player"`
	Rules     FlappyRules     `yaml:"rules"`
	Menu      FlappyMenu      `yaml:"menu"`
}

// FlappyField defines the play-field size.
type FlappyField struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FlappyLoop defines the frame loop pacing.
type FlappyLoop struct {
	TickRate int `yaml:"tick_rate"` // Frames per second
}

// FlappyPhysics defines physics parameters for the bird.
type FlappyPhysics struct {
	Gravity     float64 `yaml:"gravity"`
	JumpImpulse float64 `yaml:"jump_impulse"` // Negative = up
	Damping     float64 `yaml:"damping"`      // Applied to velocity every frame, 0 < d < 1
}

// FlappyObstacles defines pipe parameters.
type FlappyObstacles struct {
	PipeWidth      float64 `yaml:"pipe_width"`
	GapSize        float64 `yaml:"gap_size"`
	Margin         float64 `yaml:"margin"` // Minimum height of each pipe segment
	Speed          float64 `yaml:"speed"`
	SpawnThreshold float64 `yaml:"spawn_threshold"` // Spacing between consecutive pipes
}

// FlappyPlayer defines bird placement and hitbox.
type FlappyPlayer struct {
	X    float64 `yaml:"x"`
	Size float64 `yaml:"size"` // Square hitbox edge
}

// FlappyRules toggles optional collision rules.
type FlappyRules struct {
	BoundaryCollision bool `yaml:"boundary_collision"` // Ceiling and floor end the run
}

// FlappyMenu defines the start menu button layout.
type FlappyMenu struct {
	ButtonWidth   float64 `yaml:"button_width"`
	ButtonHeight  float64 `yaml:"button_height"`
	ButtonSpacing float64 `yaml:"button_spacing"` // Vertical distance between button tops
}

// StartButton returns the start button rectangle, centered horizontally
// with its top edge at mid-field.
func (c FlappyConfig) StartButton() core.Box {
	return core.NewBox(
		c.Field.Width/2-c.Menu.ButtonWidth/2,
		c.Field.Height/2,
		c.Menu.ButtonWidth,
		c.Menu.ButtonHeight,
	)
}

// QuitButton returns the quit button rectangle, one spacing below start.
func (c FlappyConfig) QuitButton() core.Box {
	b := c.StartButton()
	b.Y += c.Menu.ButtonSpacing
	return b
}

// StartY returns the bird's initial vertical position (mid-field).
func (c FlappyConfig) StartY() float64 {
	return c.Field.Height / 2
}
