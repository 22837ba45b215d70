package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the game to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionFlap           // Space, W, Up - flap the bird
	ActionConfirm        // Enter - start a run from the menu
	ActionRestart        // R - go back to the menu after game over
	ActionQuit           // Q, Ctrl+C - exit the game loop
	ActionPointer        // Pointer press; position carried in InputFrame.Pointers
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionFlap:
		return "Flap"
	case ActionConfirm:
		return "Confirm"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPointer:
		return "Pointer"
	default:
		return "Unknown"
	}
}

// ParseAction is the inverse of Action.String.
// Unknown names map to ActionNone.
func ParseAction(name string) Action {
	for a := ActionFlap; a <= ActionPointer; a++ {
		if a.String() == name {
			return a
		}
	}
	return ActionNone
}

// InputFrame represents the input batch for a single simulation tick.
// It contains all actions and pointer presses that happened during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// Pointers holds pointer presses in field units, in arrival order.
	Pointers []Point
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Press records a pointer press at the given field position.
func (f *InputFrame) Press(p Point) {
	f.Pointers = append(f.Pointers, p)
	f.Set(ActionPointer)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether nothing happened this frame.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && len(f.Pointers) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Pointers = f.Pointers[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	if len(f.Pointers) > 0 {
		clone.Pointers = append([]Point(nil), f.Pointers...)
	}
	return clone
}
