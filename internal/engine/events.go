package engine

// maxPendingEvents bounds the queue for hosts that never drain it.
const maxPendingEvents = 1024

// Event is emitted by the engine and drained by the host after a step.
type Event interface {
	engineEvent()
}

// ScoreChanged is emitted whenever the score takes a new value, including
// the reset to 0 on stage initialization.
type ScoreChanged struct {
	Score int
}

// PlatformVanished is emitted when a platform's vanish timer runs out.
type PlatformVanished struct {
	Index int
}

// Respawned is emitted when the forgiving respawn rule catches a fall.
type Respawned struct {
	Score int
}

// GameOver is emitted once per run when the player falls off the stage.
type GameOver struct {
	Score int
}

func (ScoreChanged) engineEvent() {}
func (PlatformVanished) engineEvent() {}
func (Respawned) engineEvent() {}
func (GameOver) engineEvent() {}

// eventQueue is a bounded FIFO. When full, the oldest event is dropped.
type eventQueue struct {
	events []Event
}

func (q *eventQueue) push(e Event) {
	if len(q.events) >= maxPendingEvents {
		q.events = q.events[1:]
	}
	q.events = append(q.events, e)
}

func (q *eventQueue) drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

func (q *eventQueue) reset() {
	q.events = nil
}
