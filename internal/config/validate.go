package config

import (
	"errors"
	"fmt"
	"math"
)

// ConfigurationError reports an invalid configuration constant.
// It is fatal: the game must not start with such a configuration.
type ConfigurationError struct {
	Field  string // YAML path of the offending key, e.g. "obstacles.gap_size"
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks every constant and returns all violations joined together.
// Each violation is a *ConfigurationError, so errors.As works on the result.
func (c FlappyConfig) Validate() error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	// NaN and infinities slip through every range check below
	for _, f := range c.floats() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			fail(f.field, "must be a finite number, got %g", f.value)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if c.Field.Width <= 0 {
		fail("field.width", "must be positive, got %g", c.Field.Width)
	}
	if c.Field.Height <= 0 {
		fail("field.height", "must be positive, got %g", c.Field.Height)
	}
	if c.Loop.TickRate <= 0 {
		fail("loop.tick_rate", "must be positive, got %d", c.Loop.TickRate)
	}

	if c.Physics.Gravity <= 0 {
		fail("physics.gravity", "must be positive, got %g", c.Physics.Gravity)
	}
	if c.Physics.JumpImpulse >= 0 {
		fail("physics.jump_impulse", "must be negative (upwards), got %g", c.Physics.JumpImpulse)
	}
	if c.Physics.Damping <= 0 || c.Physics.Damping >= 1 {
		fail("physics.damping", "must be in (0, 1), got %g", c.Physics.Damping)
	}

	o := c.Obstacles
	if o.PipeWidth <= 0 {
		fail("obstacles.pipe_width", "must be positive, got %g", o.PipeWidth)
	}
	if o.Speed <= 0 {
		fail("obstacles.speed", "must be positive, got %g", o.Speed)
	}
	if o.SpawnThreshold <= 0 {
		fail("obstacles.spawn_threshold", "must be positive, got %g", o.SpawnThreshold)
	}
	if o.Margin < 0 {
		fail("obstacles.margin", "must not be negative, got %g", o.Margin)
	}
	switch {
	case o.GapSize <= 0:
		fail("obstacles.gap_size", "must be positive, got %g", o.GapSize)
	case o.GapSize >= c.Field.Height:
		fail("obstacles.gap_size", "%g must be smaller than field height %g", o.GapSize, c.Field.Height)
	case o.GapSize+2*o.Margin > c.Field.Height:
		fail("obstacles.margin", "gap %g plus two margins of %g exceed field height %g", o.GapSize, o.Margin, c.Field.Height)
	}

	p := c.Player
	switch {
	case p.Size <= 0:
		fail("player.size", "must be positive, got %g", p.Size)
	case p.Size >= o.GapSize:
		fail("player.size", "%g does not fit through gap %g", p.Size, o.GapSize)
	}
	if p.X < 0 || p.X+p.Size > c.Field.Width {
		fail("player.x", "%g puts the bird outside the field", p.X)
	}

	m := c.Menu
	if m.ButtonWidth <= 0 || m.ButtonHeight <= 0 {
		fail("menu", "button size must be positive, got %gx%g", m.ButtonWidth, m.ButtonHeight)
	} else if m.ButtonSpacing < m.ButtonHeight {
		fail("menu.button_spacing", "%g makes the buttons overlap", m.ButtonSpacing)
	} else if m.ButtonWidth > c.Field.Width || c.QuitButton().Bottom() > c.Field.Height {
		fail("menu", "buttons do not fit the field")
	}

	return errors.Join(errs...)
}

type floatField struct {
	field string
	value float64
}

// floats lists every float constant with its YAML path.
func (c FlappyConfig) floats() []floatField {
	return []floatField{
		{"field.width", c.Field.Width},
		{"field.height", c.Field.Height},
		{"physics.gravity", c.Physics.Gravity},
		{"physics.jump_impulse", c.Physics.JumpImpulse},
		{"physics.damping", c.Physics.Damping},
		{"obstacles.pipe_width", c.Obstacles.PipeWidth},
		{"obstacles.gap_size", c.Obstacles.GapSize},
		{"obstacles.margin", c.Obstacles.Margin},
		{"obstacles.speed", c.Obstacles.Speed},
		{"obstacles.spawn_threshold", c.Obstacles.SpawnThreshold},
		{"player.x", c.Player.X},
		{"player.size", c.Player.Size},
		{"menu.button_width", c.Menu.ButtonWidth},
		{"menu.button_height", c.Menu.ButtonHeight},
		{"menu.button_spacing", c.Menu.ButtonSpacing},
	}
}
