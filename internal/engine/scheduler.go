package engine

// Stepper is a per-frame callback registered with a Scheduler.
type Stepper interface {
	OnFrame(dt float64)
}

// Scheduler is the host's frame-scheduling primitive. The engine registers
// itself on Start and deregisters on Stop or game over.
type Scheduler interface {
	Add(s Stepper)
	Remove(s Stepper)
}

// FrameScheduler is a Scheduler driven explicitly by the host through Tick.
// It is not safe for concurrent use; the TUI calls it from the bubbletea
// update loop only.
type FrameScheduler struct {
	steppers []Stepper
}

// NewFrameScheduler creates an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// Add registers s. Adding a registered stepper again is a no-op.
func (fs *FrameScheduler) Add(s Stepper) {
	if s == nil || fs.index(s) >= 0 {
		return
	}
	fs.steppers = append(fs.steppers, s)
}

// Remove deregisters s if present.
func (fs *FrameScheduler) Remove(s Stepper) {
	i := fs.index(s)
	if i < 0 {
		return
	}
	fs.steppers = append(fs.steppers[:i], fs.steppers[i+1:]...)
}

// Tick invokes every registered stepper once with dt, in registration order.
// A stepper removed by an earlier stepper during the same tick is skipped.
func (fs *FrameScheduler) Tick(dt float64) {
	if len(fs.steppers) == 0 {
		return
	}
	pending := make([]Stepper, len(fs.steppers))
	copy(pending, fs.steppers)

	for _, s := range pending {
		if fs.index(s) < 0 {
			continue
		}
		s.OnFrame(dt)
	}
}

// Len returns the number of registered steppers.
func (fs *FrameScheduler) Len() int {
	return len(fs.steppers)
}

func (fs *FrameScheduler) index(s Stepper) int {
	for i, registered := range fs.steppers {
		if registered == s {
			return i
		}
	}
	return -1
}
