package player

import "github.com/go-gl/mathgl/mgl64"

// StateKind is the locomotion state tag.
type StateKind uint8

const (
	StateIdle StateKind = iota
	StateWalk
	StateCharge
	StateLeap
	StateFall
	StateDash
	StateDead
)

func (s StateKind) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWalk:
		return "walk"
	case StateCharge:
		return "charge"
	case StateLeap:
		return "leap"
	case StateFall:
		return "fall"
	case StateDash:
		return "dash"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// transitions is the fixed allowed-edge table. Dead is terminal; respawn
// re-enters Idle through a forced reset, not through this table.
var transitions = map[StateKind][]StateKind{
	StateIdle:   {StateWalk, StateCharge, StateDash, StateFall, StateDead},
	StateWalk:   {StateIdle, StateCharge, StateDash, StateFall, StateDead},
	StateCharge: {StateLeap, StateIdle, StateFall, StateDead},
	StateLeap:   {StateDash, StateFall, StateDead},
	StateFall:   {StateIdle, StateWalk, StateCharge, StateDash, StateDead},
	StateDash:   {StateIdle, StateWalk, StateLeap, StateFall, StateDead},
	StateDead:   {},
}

func canTransition(from, to StateKind) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// historyRecord is one entry of the bounded transition diagnostic log.
type historyRecord struct {
	Tick     uint64
	From     StateKind
	To       StateKind
	Reason   string
	Grounded bool
	Energy   float64
	Health   float64
	Velocity mgl64.Vec3
}

const historyCap = 10
