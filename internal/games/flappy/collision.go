package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// Collides reports whether the bird's box hits either segment of the pipe:
// the box overlaps the pipe horizontally and sticks out of the gap.
func Collides(bird core.Box, p *Pipe) bool {
	if bird.Right() <= p.X || bird.X >= p.Right() {
		return false
	}
	return bird.Y < p.TopHeight || bird.Bottom() > p.GapBottom()
}

// OutOfBounds reports whether the bird's box crosses the ceiling or the floor.
func OutOfBounds(bird core.Box, fieldH float64) bool {
	return bird.Y < 0 || bird.Bottom() > fieldH
}
