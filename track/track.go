package track

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/phys"
)

// UpdateTrack maintains the sliding window. It runs once per render frame,
// not per physics tick.
func (t *Track) UpdateTrack(playerPos mgl64.Vec3, frameDt float64) {
	if t == nil {
		return
	}

	// re-sync logical positions of dynamic platforms (teeter, falling)
	for _, h := range t.active {
		seg := t.pool.get(h)
		if seg == nil || seg.Body == nil {
			continue
		}
		if seg.Body.Type() == phys.BodyDynamic && seg.Body.IsValid() {
			seg.Pos = seg.Body.Translation()
		}
	}

	// throttled nearest-segment search over a small index window
	t.searchTimer += frameDt
	if t.searchTimer >= t.cfg.Track.SearchInterval {
		t.searchTimer = 0
		t.resolvePlayerIndex(playerPos)
	}

	for t.highestIndex() < t.playerIndex+t.cfg.Track.GenerateAhead {
		t.generateNext()
	}

	despawned := false
	for len(t.active) > 0 {
		seg := t.pool.get(t.active[0])
		if seg == nil {
			t.active = t.active[1:]
			despawned = true
			continue
		}
		if seg.Index >= t.playerIndex-t.cfg.Track.KeepBehind {
			break
		}
		t.despawn(t.active[0])
		t.active = t.active[1:]
		despawned = true
	}

	// compaction is deferred to frames where something actually despawned
	if despawned {
		t.pruneStaleZones()
	}
}

func (t *Track) highestIndex() int {
	for i := len(t.active) - 1; i >= 0; i-- {
		if seg := t.pool.get(t.active[i]); seg != nil {
			return seg.Index
		}
	}
	return -1
}

// resolvePlayerIndex scans only [playerIndex-SearchBack, playerIndex+
// SearchAhead) for the closest segment in XZ. The window keeps this O(window)
// as the run lengthens.
func (t *Track) resolvePlayerIndex(playerPos mgl64.Vec3) {
	lo := t.playerIndex - t.cfg.Track.SearchBack
	hi := t.playerIndex + t.cfg.Track.SearchAhead

	best := t.playerIndex
	bestDist := 0.0
	found := false
	for _, h := range t.active {
		seg := t.pool.get(h)
		if seg == nil || seg.Index < lo || seg.Index >= hi {
			continue
		}
		dx := playerPos.X() - seg.Pos.X()
		dz := playerPos.Z() - seg.Pos.Z()
		d := dx*dx + dz*dz
		if !found || d < bestDist {
			found = true
			bestDist = d
			best = seg.Index
		}
	}
	if found {
		t.playerIndex = best
	}
}

// SetPlayerIndex overrides the tracked player segment, used on teleports.
func (t *Track) SetPlayerIndex(idx int) {
	if t == nil {
		return
	}
	t.playerIndex = idx
}

// ResolveByBody finds the active segment owning a physics body, searching
// only the index window around the player.
func (t *Track) ResolveByBody(body *phys.Body) (*Segment, bool) {
	if t == nil || body == nil {
		return nil, false
	}
	lo := t.playerIndex - t.cfg.Track.SearchBack
	hi := t.playerIndex + t.cfg.Track.SearchAhead
	for _, h := range t.active {
		seg := t.pool.get(h)
		if seg == nil || seg.Index < lo || seg.Index >= hi {
			continue
		}
		if seg.Body == body {
			return seg, true
		}
	}
	return nil, false
}

// despawn releases every physics resource a segment owns. Joints must go
// before the bodies they connect; an already-removed error is a no-op while
// anything else is a genuine failure worth logging.
func (t *Track) despawn(h Handle) {
	seg := t.pool.get(h)
	if seg == nil {
		return
	}

	if seg.crumbleToken != nil {
		seg.crumbleToken.Cancel()
		seg.crumbleToken = nil
	}

	if seg.Joint != nil {
		if err := t.space.RemoveJoint(seg.Joint); err != nil && !errors.Is(err, phys.ErrAlreadyRemoved) {
			t.tele.Logger().Warn("joint removal failed", "segment", seg.Index, "err", err)
		}
		seg.Joint = nil
	}
	t.removeBody(seg, seg.Body)
	seg.Body = nil
	t.removeBody(seg, seg.anchor)
	seg.anchor = nil

	for i := range seg.Zones {
		seg.Zones[i].Removed = true
		seg.Zones[i].body = nil
	}

	t.tele.SegmentDespawned(seg.Index)
	t.pool.release(h)
}

func (t *Track) removeBody(seg *Segment, body *phys.Body) {
	if body == nil {
		return
	}
	if err := t.space.RemoveBody(body); err != nil && !errors.Is(err, phys.ErrAlreadyRemoved) {
		t.tele.Logger().Warn("body removal failed", "segment", seg.Index, "err", err)
	}
}

// pruneStaleZones drops zones whose backing body reference is no longer
// valid on the surviving segments.
func (t *Track) pruneStaleZones() {
	for _, h := range t.active {
		seg := t.pool.get(h)
		if seg == nil || len(seg.Zones) == 0 {
			continue
		}
		// crumble zones stay on the segment so a respawn can restore them
		if seg.IsCrumble {
			continue
		}
		kept := seg.Zones[:0]
		for _, z := range seg.Zones {
			if z.Removed || !z.body.IsValid() {
				continue
			}
			kept = append(kept, z)
		}
		seg.Zones = kept
	}
}

// Reset tears the whole track down and starts a fresh run: new spawn segment,
// lava back at base, run score cleared, uniform motion re-rolled.
func (t *Track) Reset() {
	if t == nil {
		return
	}
	for _, h := range t.active {
		t.despawn(h)
	}
	t.active = nil
	t.playerIndex = 0
	t.searchTimer = 0
	t.generated = 0
	t.lastMotion = MotionStatic
	t.lavaHeight = t.cfg.Lava.SurfaceY
	t.lavaSpeed = t.cfg.Lava.RiseBase
	t.rollUniformMotion()
	t.generateNext()
}
