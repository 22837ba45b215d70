// Package core provides fundamental types and utilities shared by the
// simulation and its front ends. It contains no external dependencies
// (especially no Bubble Tea) to keep game logic pure and testable.
package core

import "math"

// Point is a position in field units.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned bounding box in field units.
// Field coordinates grow rightwards and downwards.
type Box struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewBox creates a new box with the given position and dimensions.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}

// Contains returns true if the point is inside this box.
// The left and top edges are inclusive, the right and bottom edges exclusive.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.Right() && p.Y >= b.Y && p.Y < b.Bottom()
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Rect represents an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Scale maps field units onto screen cells.
type Scale struct {
	SX, SY float64 // Cells per field unit
}

// NewScale returns the scale that fits a field of fieldW×fieldH units
// into a screen of cols×rows cells.
func NewScale(fieldW, fieldH float64, cols, rows int) Scale {
	if fieldW <= 0 || fieldH <= 0 {
		return Scale{}
	}
	return Scale{
		SX: float64(cols) / fieldW,
		SY: float64(rows) / fieldH,
	}
}

// Rect converts a box to the smallest cell rectangle covering it.
// Non-empty boxes always cover at least one cell.
func (s Scale) Rect(b Box) Rect {
	if b.Empty() {
		return Rect{}
	}
	x0 := int(math.Floor(b.X * s.SX))
	y0 := int(math.Floor(b.Y * s.SY))
	x1 := int(math.Ceil(b.Right() * s.SX))
	y1 := int(math.Ceil(b.Bottom() * s.SY))
	return NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}

// Point converts a cell coordinate to the field position at the cell center.
func (s Scale) Point(col, row int) Point {
	if s.SX == 0 || s.SY == 0 {
		return Point{}
	}
	return Point{
		X: (float64(col) + 0.5) / s.SX,
		Y: (float64(row) + 0.5) / s.SY,
	}
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
