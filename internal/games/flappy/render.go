package flappy

import (
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Render draws a snapshot onto the screen, scaling field units to cells.
// It reads nothing but the snapshot, so it can run on a copy taken
// after the simulation step.
func Render(dst *core.Screen, snap Snapshot) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}

	scale := core.NewScale(snap.Field.W, snap.Field.H, dst.Width(), dst.Height())

	for _, p := range snap.Pipes {
		drawPipe(dst, scale, p)
	}
	drawBird(dst, scale, snap.Bird)

	switch snap.Phase {
	case core.PhaseMenu:
		drawMenu(dst, scale, snap.Buttons)
	case core.PhasePlaying:
		drawScore(dst, snap.Score)
	case core.PhaseEnded:
		drawScore(dst, snap.Score)
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  |  R: menu  Q: quit", snap.Score))
	}
}

// drawPipe renders a single pipe with caps facing the gap.
func drawPipe(dst *core.Screen, scale core.Scale, p PipeView) {
	if !p.Top.Empty() {
		top := scale.Rect(p.Top)
		dst.DrawRectColor(top, PipeChar, core.ColorGreen)
		dst.DrawRectColor(core.NewRect(top.X, top.Bottom()-1, top.W, 1), PipeCapTop, core.ColorBrightGreen)
	}
	if !p.Bottom.Empty() {
		bottom := scale.Rect(p.Bottom)
		dst.DrawRectColor(bottom, PipeChar, core.ColorGreen)
		dst.DrawRectColor(core.NewRect(bottom.X, bottom.Y, bottom.W, 1), PipeCapBottom, core.ColorBrightGreen)
	}
}

// drawBird renders the bird hitbox with a beak on the top-right cell.
func drawBird(dst *core.Screen, scale core.Scale, bird core.Box) {
	r := scale.Rect(bird)
	dst.DrawRectColor(r, PlayerBody, core.ColorBrightYellow)
	dst.SetColor(r.Right()-1, r.Y, PlayerChar, core.ColorOrange)
}

// drawScore draws the HUD in the top-left corner.
func drawScore(dst *core.Screen, score int) {
	dst.DrawTextColor(2, 0, fmt.Sprintf(" Score: %d ", score), core.ColorBrightWhite)
}

// drawMenu draws the title and the clickable buttons.
func drawMenu(dst *core.Screen, scale core.Scale, buttons []Button) {
	title := "F L A P P Y"
	dst.DrawTextCentered(max(dst.Height()/4, 0), title)

	for _, b := range buttons {
		r := scale.Rect(b.Box)
		dst.DrawRectColor(r, ' ', b.Color)
		if r.H >= 2 && r.W >= 2 {
			dst.DrawBox(r)
		}
		labelX := r.X + (r.W-len(b.Label))/2
		dst.DrawTextColor(labelX, r.Y+r.H/2, b.Label, b.Color)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	// Calculate box dimensions
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box
	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRectColor(box, ' ', core.ColorBrightWhite)
	dst.DrawBox(box)

	// Draw text
	titleX := boxX + (boxW-len(title))/2
	dst.DrawTextColor(titleX, boxY+1, title, core.ColorBrightRed)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
