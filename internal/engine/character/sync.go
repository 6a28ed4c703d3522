package character

import "github.com/Faultbox/kinema/internal/engine/scene"

// writeTransform pushes the resolver's result into the scene node.
// Self-initiated writes raise the suppression depth so the resulting
// change notification is not mistaken for an external edit, even when
// listeners chain into further nested writes.
func (c *Character) writeTransform() {
	if c.moveFlags&(MoveTranslate|MoveRotate) == 0 {
		return
	}

	c.ignoreTransformChanged++
	defer func() { c.ignoreTransformChanged-- }()

	switch {
	case c.moveFlags&MoveTranslate != 0 && c.moveFlags&MoveRotate != 0:
		c.node.SetTransform(c.position, c.rotation)
	case c.moveFlags&MoveTranslate != 0:
		c.node.SetPosition(c.position)
	default:
		c.node.SetRotation(c.rotation)
	}
}

// TransformChanged implements scene.Listener. External edits to the node
// (scripted teleports, motion-path animations) become the authoritative
// transform for the next step; the controller's own writes are filtered
// out by the suppression depth.
func (c *Character) TransformChanged(n *scene.Node) {
	if c.ignoreTransformChanged > 0 {
		return
	}
	c.position = n.Position()
	c.rotation = n.Rotation()
}
