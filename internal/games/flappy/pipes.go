package flappy

import (
	"iter"
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Pipe represents a vertical obstacle with a gap for the player to pass through.
type Pipe struct {
	X           float64 // Horizontal position (left edge)
	TopHeight   float64 // Height of the top segment, i.e. where the gap starts
	Gap         float64 // Height of the passable gap
	Width       float64
	Speed       float64 // Leftward movement per tick
	FieldHeight float64
	Passed      bool // Whether the player has passed this pipe (for scoring)
}

// maxSpan caps the random draw range so it always fits in an int.
const maxSpan = 1 << 30

// newPipe creates a pipe at x whose top segment height is drawn uniformly
// from the closed interval [margin, fieldH-gap-margin], so both segments
// are at least margin tall.
func newPipe(rng *rand.Rand, x float64, fieldH float64, o config.FlappyObstacles) Pipe {
	span := min(math.Floor(fieldH-o.GapSize-2*o.Margin), maxSpan)
	top := o.Margin
	if span > 0 {
		top += float64(rng.Intn(int(span) + 1))
	}

	return Pipe{
		X:           x,
		TopHeight:   top,
		Gap:         o.GapSize,
		Width:       o.PipeWidth,
		Speed:       o.Speed,
		FieldHeight: fieldH,
	}
}

// BottomHeight returns the height of the bottom segment.
func (p Pipe) BottomHeight() float64 {
	return p.FieldHeight - p.Gap - p.TopHeight
}

// GapBottom returns the y-coordinate where the bottom segment starts.
func (p Pipe) GapBottom() float64 {
	return p.TopHeight + p.Gap
}

// Right returns the x-coordinate of the right edge.
func (p Pipe) Right() float64 {
	return p.X + p.Width
}

// TopRect returns the rectangle of the top segment.
func (p Pipe) TopRect() core.Box {
	return core.NewBox(p.X, 0, p.Width, p.TopHeight)
}

// BottomRect returns the rectangle of the bottom segment.
func (p Pipe) BottomRect() core.Box {
	return core.NewBox(p.X, p.GapBottom(), p.Width, p.BottomHeight())
}

// Advance moves the pipe left by one tick.
func (p *Pipe) Advance() {
	p.X -= p.Speed
}

// MarkPassedIfCleared returns true exactly once: on the first call where
// the pipe's right edge is left of birdX.
func (p *Pipe) MarkPassedIfCleared(birdX float64) bool {
	if p.Passed || p.Right() >= birdX {
		return false
	}
	p.Passed = true
	return true
}

// OffScreen reports whether the pipe has scrolled fully past the left edge.
func (p Pipe) OffScreen() bool {
	return p.Right() < 0
}

// PipeManager handles spawning, movement, and removal of pipes.
type PipeManager struct {
	pipes  []Pipe
	rng    *rand.Rand
	fieldH float64
	cfg    config.FlappyObstacles
}

// NewPipeManager creates a new pipe manager with the given RNG seed.
func NewPipeManager(seed int64, cfg config.FlappyConfig) *PipeManager {
	return &PipeManager{
		pipes:  make([]Pipe, 0, 8),
		rng:    rand.New(rand.NewSource(seed)),
		fieldH: cfg.Field.Height,
		cfg:    cfg.Obstacles,
	}
}

// Clear removes all pipes. The RNG keeps its position, so the next run
// draws a fresh sequence of gaps.
func (pm *PipeManager) Clear() {
	pm.pipes = pm.pipes[:0]
}

// MaybeSpawn appends a pipe at the right edge of the field if there are no
// pipes or the last one has moved further than threshold from the edge.
// Returns true if a pipe was spawned.
func (pm *PipeManager) MaybeSpawn(fieldW, threshold float64) bool {
	if n := len(pm.pipes); n > 0 && pm.pipes[n-1].X >= fieldW-threshold {
		return false
	}
	pm.pipes = append(pm.pipes, newPipe(pm.rng, fieldW, pm.fieldH, pm.cfg))
	return true
}

// AdvanceAll moves every pipe left, then drops the ones that have left the field.
func (pm *PipeManager) AdvanceAll() {
	for i := range pm.pipes {
		pm.pipes[i].Advance()
	}

	validPipes := pm.pipes[:0]
	for _, p := range pm.pipes {
		if !p.OffScreen() {
			validPipes = append(validPipes, p)
		}
	}
	// Zero the tail so the backing array does not hold stale pipes
	clear(pm.pipes[len(validPipes):])
	pm.pipes = validPipes
}

// All returns an iterator over the active pipes, oldest first.
// Each call starts a fresh iteration; yielded pointers stay valid until
// the next MaybeSpawn or AdvanceAll.
func (pm *PipeManager) All() iter.Seq[*Pipe] {
	return func(yield func(*Pipe) bool) {
		for i := range pm.pipes {
			if !yield(&pm.pipes[i]) {
				return
			}
		}
	}
}

// Len returns the number of active pipes.
func (pm *PipeManager) Len() int {
	return len(pm.pipes)
}
