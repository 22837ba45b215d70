package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Bird is the player-controlled falling actor.
// Y grows downwards, so a negative velocity moves the bird up.
type Bird struct {
	X, Y     float64 // Top-left corner of the hitbox
	Velocity float64 // Vertical velocity per tick
	Size     float64 // Hitbox edge length

	gravity float64
	impulse float64
	damping float64
}

// NewBird places a bird at rest at the configured start position.
func NewBird(cfg config.FlappyConfig) Bird {
	return Bird{
		X:       cfg.Player.X,
		Y:       cfg.StartY(),
		Size:    cfg.Player.Size,
		gravity: cfg.Physics.Gravity,
		impulse: cfg.Physics.JumpImpulse,
		damping: cfg.Physics.Damping,
	}
}

// Flap overrides the velocity with the jump impulse.
// Position is untouched until the next Advance.
func (b *Bird) Flap() {
	b.Velocity = b.impulse
}

// Advance moves the bird by one tick. Velocity is updated before position
// and damping applies every tick whether or not the bird flapped.
func (b *Bird) Advance() {
	b.Velocity += b.gravity
	b.Velocity *= b.damping
	b.Y += b.Velocity
}

// Box returns the square hitbox anchored at the bird's position.
func (b Bird) Box() core.Box {
	return core.NewBox(b.X, b.Y, b.Size, b.Size)
}
