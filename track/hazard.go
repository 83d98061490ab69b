package track

import "github.com/go-gl/mathgl/mgl64"

// Hit is one damaging spike contact resolved this tick.
type Hit struct {
	Damage  float64
	Segment int
}

// CheckHazards tests the player capsule against every spike zone in the
// active window and returns the contacts whose per-zone cooldown has lapsed.
// Cooldowns tick down here too, so the call runs once per fixed tick.
func (t *Track) CheckHazards(playerPos mgl64.Vec3, bottomY, playerRadius, dt float64) []Hit {
	if t == nil {
		return nil
	}

	var hits []Hit
	for _, h := range t.active {
		seg := t.pool.get(h)
		if seg == nil || len(seg.Zones) == 0 {
			continue
		}
		for i := range seg.Zones {
			z := &seg.Zones[i]
			if z.Removed {
				continue
			}
			if z.cooldown > 0 {
				z.cooldown -= dt
			}
			if !z.body.IsValid() {
				z.Removed = true
				t.tele.StaleHandle("hazard zone")
				continue
			}

			world := z.body.Rotation().Rotate(z.Local).Add(z.body.Translation())
			dx := playerPos.X() - world.X()
			dz := playerPos.Z() - world.Z()
			distSq := dx*dx + dz*dz
			if distSq > t.cfg.Hazards.BroadPhaseDistSq {
				continue
			}

			combined := z.Radius + playerRadius
			if distSq > combined*combined {
				continue
			}
			top := world.Y() + z.HalfHeight
			if bottomY > top || bottomY < top-2*z.HalfHeight {
				continue
			}

			if z.cooldown <= 0 {
				z.cooldown = t.cfg.Hazards.Cooldown
				hits = append(hits, Hit{Damage: z.Damage, Segment: seg.Index})
			}
		}
	}
	return hits
}

// CheckLava reports whether the capsule bottom has sunk below the kill
// surface and which death reason applies.
func (t *Track) CheckLava(bottomY float64) (string, bool) {
	if t == nil {
		return "", false
	}
	if bottomY >= t.lavaHeight-t.cfg.Lava.Tolerance {
		return "", false
	}
	if t.cfg.Lava.Rising {
		return "rising_lava", true
	}
	return "lava", true
}

// LavaSurface returns the current kill plane height.
func (t *Track) LavaSurface() float64 {
	if t == nil {
		return 0
	}
	return t.lavaHeight
}
