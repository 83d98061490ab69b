package event

import "github.com/go-gl/mathgl/mgl64"

// StateTransition is emitted on every accepted locomotion state change.
type StateTransition struct {
	From     string
	To       string
	Reason   string
	Grounded bool
	Energy   float64
	Health   float64
	Velocity mgl64.Vec3
}

// Damage is emitted when a hazard zone hits the player.
type Damage struct {
	Amount    float64
	Remaining float64
	Segment   int
}

// Death is emitted once when the player dies.
// Reason is one of "damage", "lava", "rising_lava", "fall".
type Death struct {
	Reason string
	Score  int
}

// Landing is emitted when the player touches down; the segment identity lets
// the renderer color-match landing dust to the platform.
type Landing struct {
	Segment int
	Tint    [3]float64
}

// CrumbleChanged is emitted on every crumble lifecycle step.
type CrumbleChanged struct {
	Segment int
	State   string
}

// Score is emitted when a new segment is generated.
type Score struct {
	Total int
}

// InsufficientEnergy signals a rejected quick jump for the UI flash.
type InsufficientEnergy struct {
	Cost float64
	Have float64
}

// ChargePreview drives the charge strength UI while the key is held.
// Active false clears the preview.
type ChargePreview struct {
	Fraction float64
	Active   bool
}

// Event wraps one payload in the queue.
type Event struct {
	Data any
}

// Bus is a single-threaded FIFO event queue. Producers push during the tick;
// the host drains once per frame.
type Bus struct {
	items []Event
}

// Push adds an event payload.
func (b *Bus) Push(data any) {
	if b == nil || data == nil {
		return
	}
	b.items = append(b.items, Event{Data: data})
}

// Drain returns all pending events and clears the queue.
func (b *Bus) Drain() []Event {
	if b == nil || len(b.items) == 0 {
		return nil
	}
	out := b.items
	b.items = nil
	return out
}

// Len returns the number of queued events.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}
