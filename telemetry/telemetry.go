// Package telemetry provides structured logging and counters for the
// simulation. Systems receive a *Telemetry by injection; there is no global.
package telemetry

import (
	"log/slog"
	"sync/atomic"
)

// Telemetry wraps a structured logger with simulation counters.
type Telemetry struct {
	log *slog.Logger

	transitions         atomic.Uint64
	rejectedTransitions atomic.Uint64
	recoveredPanics     atomic.Uint64
	damageApplied       atomic.Uint64
	deaths              atomic.Uint64
	segmentsGenerated   atomic.Uint64
	segmentsDespawned   atomic.Uint64
	staleHandles        atomic.Uint64
	jointFallbacks      atomic.Uint64
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	Transitions         uint64 `json:"transitions"`
	RejectedTransitions uint64 `json:"rejectedTransitions"`
	RecoveredPanics     uint64 `json:"recoveredPanics"`
	DamageApplied       uint64 `json:"damageApplied"`
	Deaths              uint64 `json:"deaths"`
	SegmentsGenerated   uint64 `json:"segmentsGenerated"`
	SegmentsDespawned   uint64 `json:"segmentsDespawned"`
	StaleHandles        uint64 `json:"staleHandles"`
	JointFallbacks      uint64 `json:"jointFallbacks"`
}

// New creates a Telemetry writing to the given logger. A nil logger uses the
// slog default.
func New(logger *slog.Logger) *Telemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Telemetry{log: logger}
}

// Logger returns the underlying structured logger.
func (t *Telemetry) Logger() *slog.Logger {
	if t == nil || t.log == nil {
		return slog.Default()
	}
	return t.log
}

// Transition records an accepted locomotion state change.
func (t *Telemetry) Transition(from, to, reason string, grounded bool, energy, health float64) {
	if t == nil {
		return
	}
	t.transitions.Add(1)
	t.Logger().Debug("state transition",
		"from", from,
		"to", to,
		"reason", reason,
		"grounded", grounded,
		"energy", energy,
		"health", health,
	)
}

// RejectedTransition records an off-table transition attempt.
func (t *Telemetry) RejectedTransition(from, to, reason string) {
	if t == nil {
		return
	}
	t.rejectedTransitions.Add(1)
	t.Logger().Warn("rejected state transition", "from", from, "to", to, "reason", reason)
}

// RecoveredPanic records a panic caught by the frame loop or a transition.
func (t *Telemetry) RecoveredPanic(where string, v any) {
	if t == nil {
		return
	}
	t.recoveredPanics.Add(1)
	t.Logger().Error("recovered panic", "where", where, "panic", v)
}

// SessionStart logs the start of a coalesced consume/regen session.
func (t *Telemetry) SessionStart(kind string, energy float64) {
	if t == nil {
		return
	}
	t.Logger().Debug("energy session start", "kind", kind, "energy", energy)
}

// SessionEnd logs the end of a coalesced session with its total delta.
func (t *Telemetry) SessionEnd(kind string, total, energy float64) {
	if t == nil {
		return
	}
	t.Logger().Debug("energy session end", "kind", kind, "total", total, "energy", energy)
}

// Damage records a hazard hit.
func (t *Telemetry) Damage(amount, remaining float64, segment int) {
	if t == nil {
		return
	}
	t.damageApplied.Add(1)
	t.Logger().Info("damage applied", "amount", amount, "remaining", remaining, "segment", segment)
}

// Death records a player death with its reason tag.
func (t *Telemetry) Death(reason string, score int) {
	if t == nil {
		return
	}
	t.deaths.Add(1)
	t.Logger().Info("player death", "reason", reason, "score", score)
}

// SegmentGenerated records one generated track segment.
func (t *Telemetry) SegmentGenerated(index int, motion string, crumble bool, spikes int) {
	if t == nil {
		return
	}
	t.segmentsGenerated.Add(1)
	t.Logger().Debug("segment generated", "index", index, "motion", motion, "crumble", crumble, "spikes", spikes)
}

// SegmentDespawned records one pruned track segment.
func (t *Telemetry) SegmentDespawned(index int) {
	if t == nil {
		return
	}
	t.segmentsDespawned.Add(1)
}

// StaleHandle records a defensively caught stale physics handle access.
func (t *Telemetry) StaleHandle(where string) {
	if t == nil {
		return
	}
	t.staleHandles.Add(1)
	t.Logger().Debug("stale physics handle", "where", where)
}

// JointFallback records a joint creation failure that degraded to a fixed
// platform.
func (t *Telemetry) JointFallback(index int, err error) {
	if t == nil {
		return
	}
	t.jointFallbacks.Add(1)
	t.Logger().Warn("joint creation fell back to fixed platform", "segment", index, "err", err)
}

// Counters returns a snapshot of every counter.
func (t *Telemetry) Counters() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	return Snapshot{
		Transitions:         t.transitions.Load(),
		RejectedTransitions: t.rejectedTransitions.Load(),
		RecoveredPanics:     t.recoveredPanics.Load(),
		DamageApplied:       t.damageApplied.Load(),
		Deaths:              t.deaths.Load(),
		SegmentsGenerated:   t.segmentsGenerated.Load(),
		SegmentsDespawned:   t.segmentsDespawned.Load(),
		StaleHandles:        t.staleHandles.Load(),
		JointFallbacks:      t.jointFallbacks.Load(),
	}
}
