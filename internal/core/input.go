package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionLeft              // A, Left arrow - move left
	ActionRight             // D, Right arrow - move right
	ActionJump              // Space, W, Up - jump
	ActionPause             // P, Escape - pause/unpause
	ActionRestart           // R - restart after game over
	ActionSave              // S - save score after game over
	ActionMute              // M - toggle background music
	ActionVolumeUp          // + / =
	ActionVolumeDown        // -
	ActionQuit              // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionSave:
		return "Save"
	case ActionMute:
		return "Mute"
	case ActionVolumeUp:
		return "VolumeUp"
	case ActionVolumeDown:
		return "VolumeDown"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they are active this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action is active this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// ControlSnapshot is the normalized movement state the engine reads once per
// frame. The zero value is the neutral snapshot.
type ControlSnapshot struct {
	MovingLeft  bool
	MovingRight bool
	JumpActive  bool
}

// SnapshotFromFrame extracts the movement actions of an input frame.
func SnapshotFromFrame(f InputFrame) ControlSnapshot {
	return ControlSnapshot{
		MovingLeft:  f.Has(ActionLeft),
		MovingRight: f.Has(ActionRight),
		JumpActive:  f.Has(ActionJump),
	}
}

// ControlStatus tags whether a control source could produce a reading.
type ControlStatus int

const (
	ControlsAvailable ControlStatus = iota
	ControlsUnavailable
)

// ControlResult is what a control source hands to the engine each frame.
type ControlResult struct {
	Status   ControlStatus
	Snapshot ControlSnapshot
}

// Controls wraps an available snapshot.
func Controls(s ControlSnapshot) ControlResult {
	return ControlResult{Status: ControlsAvailable, Snapshot: s}
}

// NoControls reports an unavailable control source.
func NoControls() ControlResult {
	return ControlResult{Status: ControlsUnavailable}
}

// Resolve returns the snapshot, or the neutral snapshot when unavailable.
func (r ControlResult) Resolve() ControlSnapshot {
	if r.Status != ControlsAvailable {
		return ControlSnapshot{}
	}
	return r.Snapshot
}

// ControlLatch turns discrete key presses into held controls.
// Terminals report key repeats but never key releases, so a press keeps its
// action held for holdTicks ticks after the most recent repeat.
type ControlLatch struct {
	holdTicks int
	remaining map[Action]int
}

// NewControlLatch creates a latch. holdTicks below 1 is treated as 1.
func NewControlLatch(holdTicks int) *ControlLatch {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return &ControlLatch{
		holdTicks: holdTicks,
		remaining: make(map[Action]int),
	}
}

// Press (re)starts the hold window for an action. Pressing one direction
// releases the opposite one.
func (l *ControlLatch) Press(a Action) {
	switch a {
	case ActionLeft:
		delete(l.remaining, ActionRight)
	case ActionRight:
		delete(l.remaining, ActionLeft)
	}
	l.remaining[a] = l.holdTicks
}

// Apply marks every held action on the frame and ages the holds by one tick.
func (l *ControlLatch) Apply(f *InputFrame) {
	for a, n := range l.remaining {
		f.Set(a)
		if n <= 1 {
			delete(l.remaining, a)
		} else {
			l.remaining[a] = n - 1
		}
	}
}

// Release drops every held action.
func (l *ControlLatch) Release() {
	for a := range l.remaining {
		delete(l.remaining, a)
	}
}
