// Package sched runs delayed callbacks on the fixed-tick timeline instead of
// wall-clock timers, so pending work is deterministic and cancelable.
package sched

import "container/heap"

// Token cancels a scheduled callback. Canceling an already-fired or
// already-canceled token is a no-op.
type Token struct {
	canceled bool
	fired    bool
}

// Cancel prevents the callback from firing.
func (t *Token) Cancel() {
	if t == nil {
		return
	}
	t.canceled = true
}

// Pending reports whether the callback can still fire.
func (t *Token) Pending() bool {
	return t != nil && !t.canceled && !t.fired
}

type entry struct {
	fireTick uint64
	seq      uint64
	fn       func()
	token    *Token
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].fireTick != h[j].fireTick {
		return h[i].fireTick < h[j].fireTick
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(*entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler is a priority queue of (fireTick, callback, token) entries owned
// by the single simulation goroutine.
type Scheduler struct {
	tick    uint64
	seq     uint64
	pending entryHeap
}

// New creates an empty scheduler at tick zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Tick returns the current tick.
func (s *Scheduler) Tick() uint64 {
	if s == nil {
		return 0
	}
	return s.tick
}

// After schedules fn to run delayTicks fixed ticks from now and returns a
// cancellation token. A zero delay fires on the next Advance.
func (s *Scheduler) After(delayTicks uint64, fn func()) *Token {
	if s == nil || fn == nil {
		return &Token{canceled: true}
	}
	s.seq++
	t := &Token{}
	heap.Push(&s.pending, &entry{
		fireTick: s.tick + delayTicks,
		seq:      s.seq,
		fn:       fn,
		token:    t,
	})
	return t
}

// Advance moves the scheduler forward one tick and fires everything due.
// Callbacks run in schedule order and may schedule further work.
func (s *Scheduler) Advance() {
	if s == nil {
		return
	}
	s.tick++
	for len(s.pending) > 0 && s.pending[0].fireTick <= s.tick {
		e := heap.Pop(&s.pending).(*entry)
		if e.token != nil {
			if e.token.canceled {
				continue
			}
			e.token.fired = true
		}
		e.fn()
	}
}

// Reset drops every pending entry. Tokens remain canceled-equivalent since
// their callbacks can never fire.
func (s *Scheduler) Reset() {
	if s == nil {
		return
	}
	for _, e := range s.pending {
		if e.token != nil {
			e.token.canceled = true
		}
	}
	s.pending = nil
}
