package character

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/kinema/internal/engine/physics"
)

const (
	// maxSlideIterations caps collide-and-slide resolution. Concave
	// corners can trade contacts back and forth forever; hitting the cap
	// freezes horizontal motion for the step instead of tunneling.
	maxSlideIterations = 10

	// minSweepDistance filters displacements too small to resolve
	// against floating-point noise.
	minSweepDistance = 1e-6
)

// sweep runs the world sweep for this character's capsule, translating
// node-origin positions to capsule centers.
func (c *Character) sweep(w physics.World, from, to mgl32.Vec3) (physics.Contact, bool) {
	off := c.capsule.Center
	return w.SweepCapsule(c.capsule, from.Add(off), to.Add(off))
}

// stepUp raises the character by up to the step height so the following
// horizontal sweep can pass over climbable ledges. Blocked partway, it
// clamps to the first contact. Returns the height actually gained.
func (c *Character) stepUp(w physics.World) float32 {
	if !c.grounded {
		return 0
	}
	if c.currentVelocity.X() == 0 && c.currentVelocity.Z() == 0 {
		// Not moving horizontally: nothing to climb
		return 0
	}

	rise := c.stepHeight
	target := c.position.Add(mgl32.Vec3{0, rise, 0})
	if hit, ok := c.sweep(w, c.position, target); ok {
		rise *= hit.Fraction
		c.colliding = true
		c.collisionNormal = hit.Normal
	}

	c.position = c.position.Add(mgl32.Vec3{0, rise, 0})
	return rise
}

// stepForwardAndStrafe sweeps the capsule by currentVelocity*dt and
// resolves contacts by sliding: the displacement component into each
// struck surface is removed and the tangential remainder is retried.
// Surfaces steeper than the slope limit are treated as walls, so motion
// slides along their horizontal tangent and never up them.
func (c *Character) stepForwardAndStrafe(w physics.World, dt float32) {
	remaining := c.currentVelocity.Mul(dt)
	if remaining.Len() < minSweepDistance {
		return
	}

	start := c.position

	for i := 0; i < maxSlideIterations; i++ {
		if remaining.Len() < minSweepDistance {
			return
		}

		target := c.position.Add(remaining)
		hit, ok := c.sweep(w, c.position, target)
		if !ok {
			c.position = target
			return
		}

		c.position = c.position.Add(remaining.Mul(hit.Fraction))
		c.colliding = true
		c.collisionNormal = hit.Normal

		rest := remaining.Mul(1 - hit.Fraction)
		if hit.Normal.Y() >= c.cosSlopeAngle {
			// Walkable surface: slide along it, climbing is fine
			remaining = rest.Sub(hit.Normal.Mul(rest.Dot(hit.Normal)))
		} else {
			// Wall or unwalkable slope: slide along the horizontal
			// tangent only
			nh := mgl32.Vec3{hit.Normal.X(), 0, hit.Normal.Z()}
			if nh.Len() < minSweepDistance {
				return
			}
			nh = nh.Normalize()
			remaining = rest.Sub(nh.Mul(rest.Dot(nh)))
		}
	}

	// Iteration cap reached: freeze horizontal motion for this step
	// rather than risk tunneling.
	c.position[0] = start[0]
	c.position[2] = start[2]
}

// stepDown keeps the character glued to ground within step range, or
// integrates gravity when airborne. tickStart is the position before
// stepUp ran; raised is the height stepUp gained.
func (c *Character) stepDown(w physics.World, dt float32, tickStart mgl32.Vec3, raised float32) {
	if c.fallVelocity > 0 {
		c.ascend(w, dt)
		return
	}

	// Ground probe: cover the step-up rise plus the step height so
	// descending stairs stays glued.
	drop := raised + c.stepHeight
	target := c.position.Sub(mgl32.Vec3{0, drop, 0})
	hit, ok := c.sweep(w, c.position, target)

	if ok && hit.Normal.Y() < c.cosSlopeAngle {
		// The surface below is unwalkable. Undo this step's horizontal
		// motion so raised sweeps cannot stair-step up steep slopes,
		// then probe again from where the step began.
		c.position[0] = tickStart[0]
		c.position[2] = tickStart[2]
		target = c.position.Sub(mgl32.Vec3{0, drop, 0})
		hit, ok = c.sweep(w, c.position, target)
	}

	if ok {
		c.position = c.position.Sub(mgl32.Vec3{0, drop * hit.Fraction, 0})
		c.grounded = true
		c.fallVelocity = 0
		c.colliding = true
		c.collisionNormal = hit.Normal
		return
	}

	// Airborne: cancel the step-up rise and fall under gravity.
	c.position[1] -= raised
	c.grounded = false
	c.fallVelocity += c.gravity * dt

	fall := -c.fallVelocity * dt
	if fall < minSweepDistance {
		return
	}
	target = c.position.Sub(mgl32.Vec3{0, fall, 0})
	if hit, ok := c.sweep(w, c.position, target); ok {
		c.position = c.position.Sub(mgl32.Vec3{0, fall * hit.Fraction, 0})
		c.grounded = true
		c.fallVelocity = 0
		c.colliding = true
		c.collisionNormal = hit.Normal
		return
	}
	c.position = target
}

// ascend applies upward jump motion, clamping at ceilings.
func (c *Character) ascend(w physics.World, dt float32) {
	rise := c.fallVelocity * dt
	target := c.position.Add(mgl32.Vec3{0, rise, 0})
	if hit, ok := c.sweep(w, c.position, target); ok {
		c.position = c.position.Add(mgl32.Vec3{0, rise * hit.Fraction, 0})
		c.fallVelocity = 0
		c.colliding = true
		c.collisionNormal = hit.Normal
	} else {
		c.position = target
	}
	c.grounded = false
	c.fallVelocity += c.gravity * dt
}
