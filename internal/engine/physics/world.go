package physics

import "github.com/go-gl/mathgl/mgl32"

// Contact is a single sweep-test result.
type Contact struct {
	Point    mgl32.Vec3 // Contact point on the struck surface
	Normal   mgl32.Vec3 // Surface normal at the contact, unit length
	Fraction float32    // Fraction of the motion completed at first contact, in [0,1]
	Depth    float32    // Penetration depth at the contact
}

// Sweeper is the convex sweep query a character controller depends on.
// Implementations move the capsule's center from one position to another
// and report the first contact with world geometry, if any.
type Sweeper interface {
	SweepCapsule(c Capsule, from, to mgl32.Vec3) (Contact, bool)
}

// Ghost is a kinematic collision participant: a volume that other physics
// objects detect but that dynamics never move.
type Ghost interface {
	Volume() Capsule
	GhostPosition() mgl32.Vec3
}

// World is the per-step snapshot handed to simulation participants: the
// sweep query plus registration of kinematic ghost volumes.
type World interface {
	Sweeper

	AddGhost(g Ghost)
	RemoveGhost(g Ghost)
}

// StepParticipant is implemented by objects that take part in each
// simulation substep. The physics loop invokes OnSimulationStep once per
// substep; dt is opaque elapsed time and carries no tick-rate guarantee.
type StepParticipant interface {
	OnSimulationStep(w World, dt float32)
}

// DebugRenderer is the minimal line-drawing surface for debug overlays.
type DebugRenderer interface {
	DrawLine(from, to, color mgl32.Vec3)
}

// DebugDrawer is optionally implemented by participants that can render
// a debug visualization of themselves.
type DebugDrawer interface {
	OnDebugDraw(r DebugRenderer)
}
