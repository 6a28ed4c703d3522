// Package physics defines the boundary contracts between controllers and
// the collision engine: shape descriptors, sweep queries, and the
// simulation-step participant capability. It contains no broad-phase or
// narrow-phase code of its own.
package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape construction errors.
var (
	ErrInvalidRadius = errors.New("shape radius must be positive")
	ErrInvalidHeight = errors.New("capsule height must be at least twice the radius")
	ErrEmptyMesh     = errors.New("mesh shape requires vertices and indices")
	ErrEmptyField    = errors.New("heightfield shape requires height samples")
)

// ShapeType identifies the geometry of a collision shape.
type ShapeType int

const (
	ShapeBox ShapeType = iota
	ShapeSphere
	ShapeCapsule
	ShapeMesh
	ShapeHeightfield
)

// String returns the lowercase shape type name.
func (t ShapeType) String() string {
	switch t {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeCapsule:
		return "capsule"
	case ShapeMesh:
		return "mesh"
	case ShapeHeightfield:
		return "heightfield"
	default:
		return "unknown"
	}
}

// ShapeDef is an immutable collision shape descriptor. Only the fields
// relevant to Type are meaningful.
type ShapeDef struct {
	Type ShapeType

	// Box
	Extents mgl32.Vec3 // Half-extents

	// Sphere and capsule
	Radius float32

	// Capsule: total height including both hemisphere caps, and the
	// offset of the capsule center from the owning node's origin.
	Height float32
	Center mgl32.Vec3

	// Mesh
	Vertices []mgl32.Vec3
	Indices  []uint32

	// Heightfield: row-major height samples on a regular grid.
	Heights  [][]float32
	CellSize float32
}

// Box returns a box shape descriptor with the given half-extents.
func Box(extents mgl32.Vec3) ShapeDef {
	return ShapeDef{Type: ShapeBox, Extents: extents}
}

// Sphere returns a sphere shape descriptor.
func Sphere(radius float32) ShapeDef {
	return ShapeDef{Type: ShapeSphere, Radius: radius}
}

// CapsuleShape returns a capsule shape descriptor. Height is the full
// height of the capsule including both caps; center offsets the capsule
// from the node origin.
func CapsuleShape(radius, height float32, center mgl32.Vec3) ShapeDef {
	return ShapeDef{Type: ShapeCapsule, Radius: radius, Height: height, Center: center}
}

// Mesh returns a triangle mesh shape descriptor.
func Mesh(vertices []mgl32.Vec3, indices []uint32) ShapeDef {
	return ShapeDef{Type: ShapeMesh, Vertices: vertices, Indices: indices}
}

// Heightfield returns a heightfield shape descriptor.
func Heightfield(heights [][]float32, cellSize float32) ShapeDef {
	return ShapeDef{Type: ShapeHeightfield, Heights: heights, CellSize: cellSize}
}

// Validate checks the descriptor's dimensions. Invalid dimensions are the
// only fatal misconfiguration in this subsystem; everything downstream of
// construction absorbs faults locally.
func (d ShapeDef) Validate() error {
	switch d.Type {
	case ShapeSphere:
		if d.Radius <= 0 {
			return fmt.Errorf("sphere: %w", ErrInvalidRadius)
		}
	case ShapeCapsule:
		if d.Radius <= 0 {
			return fmt.Errorf("capsule: %w", ErrInvalidRadius)
		}
		if d.Height < 2*d.Radius {
			return fmt.Errorf("capsule: %w", ErrInvalidHeight)
		}
	case ShapeMesh:
		if len(d.Vertices) == 0 || len(d.Indices) == 0 {
			return ErrEmptyMesh
		}
	case ShapeHeightfield:
		if len(d.Heights) == 0 || d.CellSize <= 0 {
			return ErrEmptyField
		}
	}
	return nil
}

// Capsule is the convex query volume used by character sweeps: Height is
// the full capsule height, Center the world-space offset from the node
// origin. The capsule axis is vertical.
type Capsule struct {
	Radius float32
	Height float32
	Center mgl32.Vec3
}

// CapsuleFromDef extracts the query volume from a capsule descriptor.
func CapsuleFromDef(d ShapeDef) Capsule {
	return Capsule{Radius: d.Radius, Height: d.Height, Center: d.Center}
}

// HalfHeight returns the distance from the capsule center to the tip of
// either cap.
func (c Capsule) HalfHeight() float32 {
	return c.Height / 2
}
