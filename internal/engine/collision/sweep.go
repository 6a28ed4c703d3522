package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/kinema/internal/engine/physics"
)

const parallelEps = 1e-7

// sweepCapsulePlane sweeps a vertical capsule against a half-space. The
// capsule surface distance to the plane is linear in the center position,
// so the first contact time solves directly.
func sweepCapsulePlane(c physics.Capsule, from, to mgl32.Vec3, p Plane) (physics.Contact, bool) {
	n := p.Normal

	// Half-length of the capsule core segment
	s := c.HalfHeight() - c.Radius
	if s < 0 {
		s = 0
	}

	// Surface distance = center distance - core reach along the normal - radius
	coreReach := s*math32.Abs(n.Y()) + c.Radius
	d0 := from.Sub(p.Point).Dot(n) - coreReach
	d1 := to.Sub(p.Point).Dot(n) - coreReach
	dv := d1 - d0

	if dv >= -parallelEps {
		// Moving away from or parallel to the surface
		return physics.Contact{}, false
	}

	t := (d0 - Skin) / -dv
	if t > 1 {
		return physics.Contact{}, false
	}
	if t < 0 {
		t = 0
	}

	center := from.Add(to.Sub(from).Mul(t))
	closest := center
	if n.Y() > parallelEps {
		closest = center.Sub(mgl32.Vec3{0, s, 0})
	} else if n.Y() < -parallelEps {
		closest = center.Add(mgl32.Vec3{0, s, 0})
	}

	depth := Skin - d1
	if depth < 0 {
		depth = 0
	}

	return physics.Contact{
		Point:    closest.Sub(n.Mul(c.Radius)),
		Normal:   n,
		Fraction: t,
		Depth:    depth,
	}, true
}

// sweepCapsuleBox sweeps the capsule against an axis-aligned box using the
// capsule's bounding box and slab intersection. The box is expanded by the
// capsule half-extents so the capsule center can be swept as a point; the
// reported fraction is backed off so the final gap equals the skin width.
func sweepCapsuleBox(c physics.Capsule, from, to mgl32.Vec3, b BBox) (physics.Contact, bool) {
	half := mgl32.Vec3{c.Radius, c.HalfHeight(), c.Radius}
	lo := b.Min.Sub(half)
	hi := b.Max.Add(half)
	d := to.Sub(from)

	tEnter := float32(-math32.MaxFloat32)
	tExit := float32(math32.MaxFloat32)
	axis := -1
	var sign float32

	for i := 0; i < 3; i++ {
		if math32.Abs(d[i]) < parallelEps {
			// No motion on this axis: reject unless strictly inside the slab.
			// Touching the boundary counts as outside so resting contacts do
			// not block sliding along the surface.
			if from[i] <= lo[i] || from[i] >= hi[i] {
				return physics.Contact{}, false
			}
			continue
		}

		t1 := (lo[i] - from[i]) / d[i]
		t2 := (hi[i] - from[i]) / d[i]
		axisSign := float32(-1)
		if d[i] < 0 {
			t1, t2 = t2, t1
			axisSign = 1
		}

		if t1 > tEnter {
			tEnter = t1
			axis = i
			sign = axisSign
		}
		if t2 < tExit {
			tExit = t2
		}
	}

	if axis < 0 || tEnter > tExit || tEnter > 1 || tExit < 0 {
		return physics.Contact{}, false
	}

	// Back off along the motion so the resting gap equals the skin width
	t := tEnter - Skin/math32.Abs(d[axis])
	if t > 1 {
		return physics.Contact{}, false
	}
	depth := float32(0)
	if t < 0 {
		depth = -t * math32.Abs(d[axis])
		t = 0
	}

	normal := mgl32.Vec3{}
	normal[axis] = sign

	center := from.Add(d.Mul(t))
	point := center.Sub(normal.Mul(half[axis]))

	return physics.Contact{
		Point:    point,
		Normal:   normal,
		Fraction: t,
		Depth:    depth,
	}, true
}
