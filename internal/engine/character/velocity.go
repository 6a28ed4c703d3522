package character

import "github.com/go-gl/mathgl/mgl32"

var (
	forwardAxis = mgl32.Vec3{0, 0, -1}
	rightAxis   = mgl32.Vec3{1, 0, 0}
)

// updateCurrentVelocity recomposes the step's velocity from movement
// input and animation state: forward, right, and explicit velocity add in
// the character's local basis, rotate into world space, and scale by the
// active animation's move speed. Pure computation, never fails.
func (c *Character) updateCurrentVelocity() {
	speed := c.activeMoveSpeed()

	v := c.moveVelocity
	if c.forwardVelocity != 0 {
		v = v.Add(c.rotation.Rotate(forwardAxis).Mul(c.forwardVelocity))
	}
	if c.rightVelocity != 0 {
		v = v.Add(c.rotation.Rotate(rightAxis).Mul(c.rightVelocity))
	}

	c.currentVelocity = v.Mul(speed)

	if l := c.currentVelocity.Len(); l > 1e-6 {
		c.normalizedVelocity = c.currentVelocity.Mul(1 / l)
	} else {
		c.normalizedVelocity = mgl32.Vec3{}
	}
}

// activeMoveSpeed returns the move speed driving this step. With no
// animations registered the input velocity passes through unscaled; once
// animations are bound, a stopped character animates nothing and moves
// nothing.
func (c *Character) activeMoveSpeed() float32 {
	if len(c.entries) == 0 {
		return 1
	}
	for el := c.layers.Front(); el != nil; el = el.Next() {
		e := &c.entries[el.Value]
		if e.playing {
			return e.moveSpeed
		}
	}
	return 0
}
