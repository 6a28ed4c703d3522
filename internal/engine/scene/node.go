// Package scene provides the transform-node side of the scene graph:
// world-space position and orientation with change notification, used as
// the read/write target for controllers that drive node transforms.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Listener receives a callback whenever a node's transform changes.
type Listener interface {
	TransformChanged(n *Node)
}

// Node is a scene-graph node with a world transform.
//
// Nodes do not own the objects attached to them; a controller holding a
// node reference must be detached before the node is destroyed.
type Node struct {
	name      string
	position  mgl32.Vec3
	rotation  mgl32.Quat
	listeners []Listener
}

// NewNode creates a node at the origin with identity rotation.
func NewNode(name string) *Node {
	return &Node{
		name:     name,
		rotation: mgl32.QuatIdent(),
	}
}

// Name returns the node name.
func (n *Node) Name() string {
	return n.name
}

// Position returns the node's world position.
func (n *Node) Position() mgl32.Vec3 {
	return n.position
}

// SetPosition sets the node's world position and notifies listeners.
func (n *Node) SetPosition(p mgl32.Vec3) {
	n.position = p
	n.notify()
}

// Rotation returns the node's world rotation.
func (n *Node) Rotation() mgl32.Quat {
	return n.rotation
}

// SetRotation sets the node's world rotation and notifies listeners.
func (n *Node) SetRotation(q mgl32.Quat) {
	n.rotation = q
	n.notify()
}

// SetTransform sets position and rotation together with a single
// notification.
func (n *Node) SetTransform(p mgl32.Vec3, q mgl32.Quat) {
	n.position = p
	n.rotation = q
	n.notify()
}

// Forward returns the node's forward axis (-Z rotated into world space).
func (n *Node) Forward() mgl32.Vec3 {
	return n.rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Right returns the node's right axis (+X rotated into world space).
func (n *Node) Right() mgl32.Vec3 {
	return n.rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// AddListener subscribes a transform-change listener.
func (n *Node) AddListener(l Listener) {
	n.listeners = append(n.listeners, l)
}

// RemoveListener unsubscribes a previously added listener.
func (n *Node) RemoveListener(l Listener) {
	for i, existing := range n.listeners {
		if existing == l {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return
		}
	}
}

func (n *Node) notify() {
	for _, l := range n.listeners {
		l.TransformChanged(n)
	}
}
