package physics

import "fmt"

// SharedShape is a cache-managed shape instance. Multiple owners may hold
// the same instance when their descriptors are identical; the cache keeps
// it alive until every owner has released it.
type SharedShape struct {
	Def ShapeDef

	key  string
	refs int
}

// Cache deduplicates primitive shape instances by descriptor. Mesh and
// heightfield shapes carry backing data and are never shared.
type Cache struct {
	shapes map[string]*SharedShape
}

// NewCache creates an empty shape cache.
func NewCache() *Cache {
	return &Cache{shapes: make(map[string]*SharedShape)}
}

// Acquire returns a shape instance for the descriptor, reusing an existing
// instance when an identical primitive shape is already cached.
func (c *Cache) Acquire(def ShapeDef) (*SharedShape, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	key := shapeKey(def)
	if key == "" {
		return &SharedShape{Def: def, refs: 1}, nil
	}

	if s, ok := c.shapes[key]; ok {
		s.refs++
		return s, nil
	}

	s := &SharedShape{Def: def, key: key, refs: 1}
	c.shapes[key] = s
	return s, nil
}

// Release drops one reference to the shape, evicting it from the cache
// when no owners remain.
func (c *Cache) Release(s *SharedShape) {
	if s == nil {
		return
	}
	s.refs--
	if s.refs <= 0 && s.key != "" {
		delete(c.shapes, s.key)
	}
}

// Len returns the number of distinct cached shapes.
func (c *Cache) Len() int {
	return len(c.shapes)
}

// shapeKey returns a sharing key for primitive shapes, or "" for shapes
// that must stay unique.
func shapeKey(def ShapeDef) string {
	switch def.Type {
	case ShapeBox:
		return fmt.Sprintf("box:%v", def.Extents)
	case ShapeSphere:
		return fmt.Sprintf("sphere:%v", def.Radius)
	case ShapeCapsule:
		return fmt.Sprintf("capsule:%v:%v:%v", def.Radius, def.Height, def.Center)
	default:
		return ""
	}
}
