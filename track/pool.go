package track

// Handle is a generation-checked reference into the segment pool. A handle
// held across a despawn goes stale instead of aliasing the slot's next
// occupant.
type Handle struct {
	Slot int32
	Gen  uint32
}

// Valid reports whether the handle was ever issued.
func (h Handle) Valid() bool {
	return h.Gen > 0
}

// pool is an arena of segments with a free list of slot indices.
type pool struct {
	slots []Segment
	gens  []uint32
	free  []int32
}

func (p *pool) alloc() (Handle, *Segment) {
	var slot int32
	if n := len(p.free); n > 0 {
		slot = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		p.slots = append(p.slots, Segment{})
		p.gens = append(p.gens, 0)
		slot = int32(len(p.slots) - 1)
	}
	p.gens[slot]++
	seg := &p.slots[slot]
	seg.live = true
	h := Handle{Slot: slot, Gen: p.gens[slot]}
	seg.handle = h
	return h, seg
}

// release resets every transient field before returning the slot to the free
// list, so no state leaks into the next occupant.
func (p *pool) release(h Handle) {
	seg := p.get(h)
	if seg == nil {
		return
	}
	*seg = Segment{}
	p.free = append(p.free, h.Slot)
}

// get resolves a handle, or nil when stale.
func (p *pool) get(h Handle) *Segment {
	if h.Slot < 0 || int(h.Slot) >= len(p.slots) {
		return nil
	}
	if p.gens[h.Slot] != h.Gen {
		return nil
	}
	seg := &p.slots[h.Slot]
	if !seg.live {
		return nil
	}
	return seg
}
