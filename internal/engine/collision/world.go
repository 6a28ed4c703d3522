// Package collision provides a static collision world implementing the
// physics sweep contract: half-space and axis-aligned box colliders swept
// against capsule volumes. It backs the charsim harness and the
// controller tests; a full physics engine can be substituted behind the
// same interface.
package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/kinema/internal/engine/physics"
)

// Skin is the contact tolerance applied to every sweep test. Surfaces
// closer than this are treated as touching, which keeps grazing contacts
// from slipping through floating-point coincidence.
const Skin = 0.02

// Plane is an infinite half-space collider. Geometry on the opposite side
// of Normal is solid.
type Plane struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

// BBox is an axis-aligned box collider.
type BBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// World is a static collection of colliders plus a registry of kinematic
// ghost volumes. It is safe for concurrent reads only after construction;
// the simulation loop owns all mutation.
type World struct {
	planes []Plane
	boxes  []BBox
	ghosts []physics.Ghost
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{}
}

// AddPlane adds a half-space collider. The normal is normalized here so
// sweep math can assume unit length.
func (w *World) AddPlane(p Plane) {
	p.Normal = p.Normal.Normalize()
	w.planes = append(w.planes, p)
}

// AddBox adds an axis-aligned box collider.
func (w *World) AddBox(b BBox) {
	w.boxes = append(w.boxes, b)
}

// AddGhost registers a kinematic collision participant.
func (w *World) AddGhost(g physics.Ghost) {
	w.ghosts = append(w.ghosts, g)
}

// RemoveGhost unregisters a kinematic collision participant.
func (w *World) RemoveGhost(g physics.Ghost) {
	for i, existing := range w.ghosts {
		if existing == g {
			w.ghosts = append(w.ghosts[:i], w.ghosts[i+1:]...)
			return
		}
	}
}

// Ghosts returns the registered kinematic volumes. Ghost volumes are
// visible to other queries but excluded from SweepCapsule, which serves
// the ghost owners themselves.
func (w *World) Ghosts() []physics.Ghost {
	return w.ghosts
}

// SweepCapsule moves the capsule center from one position to another and
// reports the earliest contact with static geometry.
func (w *World) SweepCapsule(c physics.Capsule, from, to mgl32.Vec3) (physics.Contact, bool) {
	best := physics.Contact{Fraction: 2}
	found := false

	for _, p := range w.planes {
		if hit, ok := sweepCapsulePlane(c, from, to, p); ok && hit.Fraction < best.Fraction {
			best = hit
			found = true
		}
	}
	for _, b := range w.boxes {
		if hit, ok := sweepCapsuleBox(c, from, to, b); ok && hit.Fraction < best.Fraction {
			best = hit
			found = true
		}
	}

	return best, found
}
