package phys

import "github.com/go-gl/mathgl/mgl64"

// CastHit describes the nearest surface found by a shape cast.
type CastHit struct {
	Body     *Body
	Shape    *Shape
	Point    mgl64.Vec3
	Distance float64
}

// CastCapsuleDown sweeps a vertical capsule straight down from origin and
// returns the nearest box top surface within maxDist. Sensor shapes and the
// excluded body are ignored.
func (s *Space) CastCapsuleDown(origin mgl64.Vec3, radius, halfHeight, maxDist float64, exclude *Body) (CastHit, bool) {
	if s == nil || maxDist <= 0 {
		return CastHit{}, false
	}
	bottom := origin.Y() - halfHeight - radius

	best := CastHit{Distance: maxDist}
	found := false
	for _, b := range s.bodies {
		if b == exclude || !b.IsValid() {
			continue
		}
		for _, shape := range b.shapes {
			if shape.kind != ShapeBox || shape.sensor {
				continue
			}
			topY, inside := boxTopAt(b, shape, origin)
			if !inside {
				continue
			}
			dist := bottom - topY
			// a slightly sunk capsule still counts as touching
			if dist < -0.25 || dist > best.Distance {
				continue
			}
			if dist < 0 {
				dist = 0
			}
			if !found || dist <= best.Distance {
				best = CastHit{
					Body:     b,
					Shape:    shape,
					Point:    mgl64.Vec3{origin.X(), topY, origin.Z()},
					Distance: dist,
				}
				found = true
			}
		}
	}
	if !found {
		return CastHit{}, false
	}
	return best, true
}
