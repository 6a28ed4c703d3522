// Package character implements a kinematic character controller.
//
// The controller moves a capsule through the collision world under direct
// author control: velocity comes from movement input scaled by the active
// animation's move speed, and the per-step resolver handles step-up,
// collide-and-slide, and step-down terrain following. Dynamics are never
// applied to the character by the physics system; this gives a more
// responsive game character than force-driven simulation.
package character

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/kinema/internal/engine/physics"
	"github.com/Faultbox/kinema/internal/engine/scene"
)

// Controller errors.
var (
	ErrNotCapsule         = errors.New("character collision shape must be a capsule")
	ErrNilNode            = errors.New("character requires a scene node")
	ErrDuplicateAnimation = errors.New("animation name already registered")
	ErrAnimationNotFound  = errors.New("animation not registered")
)

// MoveFlags control which parts of the node transform the controller
// writes each step.
type MoveFlags uint

const (
	// MoveTranslate lets the controller translate the node.
	MoveTranslate MoveFlags = 1 << iota
	// MoveRotate lets the controller rotate the node. Reserved: the
	// resolver does not steer orientation yet, but consumers that drive
	// rotation externally mask this off so their writes survive.
	MoveRotate
)

// Default tuning. Step height and slope angle are per-character
// configurable; these match a human-scale character.
const (
	DefaultStepHeight = 0.3
	DefaultSlopeAngle = 45.0
	DefaultGravity    = -9.8
)

// Character is a kinematic character controller bound to a scene node.
//
// The character owns its capsule volume and holds a non-owning reference
// to the node; the node must outlive the character, or Detach must be
// called first. All state is mutated only from the simulation step
// callback, never concurrently.
type Character struct {
	node    *scene.Node
	capsule physics.Capsule

	position mgl32.Vec3
	rotation mgl32.Quat

	moveVelocity       mgl32.Vec3
	forwardVelocity    float32
	rightVelocity      float32
	fallVelocity       float32
	currentVelocity    mgl32.Vec3
	normalizedVelocity mgl32.Vec3
	moveFlags          MoveFlags

	gravity       float32
	stepHeight    float32
	slopeAngle    float32
	cosSlopeAngle float32

	colliding       bool
	collisionNormal mgl32.Vec3
	grounded        bool

	// Depth counter, not a boolean: nested notification chains from
	// self-initiated node writes must stay suppressed at every level.
	ignoreTransformChanged int

	world physics.World

	entries []animationEntry
	byName  map[string]int
	layers  *orderedmap.OrderedMap[int, int]
}

// New creates a character controlling the given node with a capsule
// collision volume. The shape descriptor must be a valid capsule; invalid
// dimensions are the only fatal misconfiguration.
func New(node *scene.Node, def physics.ShapeDef) (*Character, error) {
	if node == nil {
		return nil, ErrNilNode
	}
	if def.Type != physics.ShapeCapsule {
		return nil, fmt.Errorf("%w, got %s", ErrNotCapsule, def.Type)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	c := &Character{
		node:      node,
		capsule:   physics.CapsuleFromDef(def),
		position:  node.Position(),
		rotation:  node.Rotation(),
		moveFlags: MoveTranslate | MoveRotate,
		gravity:   DefaultGravity,
		byName:    make(map[string]int),
		layers:    orderedmap.NewOrderedMap[int, int](),
	}
	c.SetStepHeight(DefaultStepHeight)
	c.SetMaxSlopeAngle(DefaultSlopeAngle)

	node.AddListener(c)
	return c, nil
}

// Node returns the controlled scene node.
func (c *Character) Node() *scene.Node {
	return c.node
}

// Position returns the character's authoritative world position.
func (c *Character) Position() mgl32.Vec3 {
	return c.position
}

// StepHeight returns the maximum climbable ledge height.
func (c *Character) StepHeight() float32 {
	return c.stepHeight
}

// SetStepHeight sets the maximum climbable ledge height.
func (c *Character) SetStepHeight(h float32) {
	c.stepHeight = h
}

// MaxSlopeAngle returns the maximum walkable slope angle in degrees.
func (c *Character) MaxSlopeAngle() float32 {
	return c.slopeAngle
}

// SetMaxSlopeAngle sets the maximum walkable slope angle in degrees.
// The cosine is cached so per-contact gating avoids trigonometry.
func (c *Character) SetMaxSlopeAngle(degrees float32) {
	c.slopeAngle = degrees
	c.cosSlopeAngle = math32.Cos(mgl32.DegToRad(degrees))
}

// Gravity returns the vertical acceleration applied while airborne.
func (c *Character) Gravity() float32 {
	return c.gravity
}

// SetGravity sets the vertical acceleration applied while airborne.
// Negative is down.
func (c *Character) SetGravity(g float32) {
	c.gravity = g
}

// SetVelocity sets the character's explicit movement velocity. The final
// velocity each step is the product of this vector (plus the forward and
// right components) and the playing animation's move speed, so a unit
// vector leaves speed entirely to the animation. A zero vector stops the
// controller from applying motion, which is the right setting when an
// animation targets the node transform directly.
func (c *Character) SetVelocity(v mgl32.Vec3, flags MoveFlags) {
	c.moveVelocity = v
	if flags != 0 {
		c.moveFlags = flags
	}
}

// SetForwardVelocity moves the character along its forward vector.
// Negative values move backwards.
func (c *Character) SetForwardVelocity(v float32) {
	c.forwardVelocity = v
}

// SetRightVelocity moves the character along its right vector. Negative
// values move left.
func (c *Character) SetRightVelocity(v float32) {
	c.rightVelocity = v
}

// Jump launches the character to approximately the given apex height.
// The height is converted to an initial vertical velocity via
// v = sqrt(2*g*h); callers wanting a specific launch velocity can invert
// the conversion. A jump while airborne is ignored.
func (c *Character) Jump(height float32) {
	if !c.grounded || height <= 0 {
		return
	}
	c.fallVelocity = math32.Sqrt(2 * math32.Abs(c.gravity) * height)
	c.grounded = false
}

// IsColliding reports whether any contact occurred during the last step.
func (c *Character) IsColliding() bool {
	return c.colliding
}

// CollisionNormal returns the most recent contact normal. Only meaningful
// when IsColliding reports true; exposed for collision-listener hooks.
func (c *Character) CollisionNormal() mgl32.Vec3 {
	return c.collisionNormal
}

// IsGrounded reports whether the character stood on walkable ground at
// the end of the last step.
func (c *Character) IsGrounded() bool {
	return c.grounded
}

// FallVelocity returns the current vertical velocity, negative while
// falling.
func (c *Character) FallVelocity() float32 {
	return c.fallVelocity
}

// CurrentVelocity returns the velocity vector used for the last step's
// horizontal displacement.
func (c *Character) CurrentVelocity() mgl32.Vec3 {
	return c.currentVelocity
}

// Volume implements physics.Ghost.
func (c *Character) Volume() physics.Capsule {
	return c.capsule
}

// GhostPosition implements physics.Ghost.
func (c *Character) GhostPosition() mgl32.Vec3 {
	return c.position.Add(c.capsule.Center)
}

// Detach unsubscribes the character from its node and unregisters its
// ghost volume. Must be called before the node is destroyed.
func (c *Character) Detach() {
	c.node.RemoveListener(c)
	if c.world != nil {
		c.world.RemoveGhost(c)
		c.world = nil
	}
}

// OnSimulationStep implements physics.StepParticipant. The physics loop
// invokes it once per substep; dt is opaque elapsed time.
func (c *Character) OnSimulationStep(w physics.World, dt float32) {
	if w != c.world {
		if c.world != nil {
			c.world.RemoveGhost(c)
		}
		w.AddGhost(c)
		c.world = w
	}

	c.colliding = false
	c.updateCurrentVelocity()

	tickStart := c.position
	raised := c.stepUp(w)
	c.stepForwardAndStrafe(w, dt)
	c.stepDown(w, dt, tickStart, raised)

	c.writeTransform()
	c.updateAnimations()
}

// OnDebugDraw implements physics.DebugDrawer: capsule axis, velocity, and
// the last contact normal.
func (c *Character) OnDebugDraw(r physics.DebugRenderer) {
	center := c.position.Add(c.capsule.Center)
	half := mgl32.Vec3{0, c.capsule.HalfHeight(), 0}
	r.DrawLine(center.Sub(half), center.Add(half), mgl32.Vec3{0, 1, 0})

	if c.currentVelocity.Len() > 0 {
		r.DrawLine(center, center.Add(c.currentVelocity), mgl32.Vec3{1, 1, 0})
	}
	if c.colliding {
		r.DrawLine(center, center.Add(c.collisionNormal), mgl32.Vec3{1, 0, 0})
	}
}
