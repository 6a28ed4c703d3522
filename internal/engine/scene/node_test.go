package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type recordingListener struct {
	calls int
	last  mgl32.Vec3
}

func (r *recordingListener) TransformChanged(n *Node) {
	r.calls++
	r.last = n.Position()
}

func TestSetPositionNotifies(t *testing.T) {
	n := NewNode("player")
	l := &recordingListener{}
	n.AddListener(l)

	n.SetPosition(mgl32.Vec3{1, 2, 3})

	if l.calls != 1 {
		t.Fatalf("expected 1 notification, got %d", l.calls)
	}
	if l.last != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("expected listener to observe {1 2 3}, got %v", l.last)
	}
}

func TestSetTransformNotifiesOnce(t *testing.T) {
	n := NewNode("player")
	l := &recordingListener{}
	n.AddListener(l)

	n.SetTransform(mgl32.Vec3{4, 5, 6}, mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0}))

	if l.calls != 1 {
		t.Errorf("expected a single notification for SetTransform, got %d", l.calls)
	}
}

func TestRemoveListener(t *testing.T) {
	n := NewNode("player")
	l := &recordingListener{}
	n.AddListener(l)
	n.RemoveListener(l)

	n.SetPosition(mgl32.Vec3{1, 0, 0})

	if l.calls != 0 {
		t.Errorf("expected no notifications after removal, got %d", l.calls)
	}
}

func TestForwardAndRight(t *testing.T) {
	n := NewNode("player")

	// Identity: forward is -Z, right is +X
	if got := n.Forward(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("expected forward {0 0 -1}, got %v", got)
	}
	if got := n.Right(); !got.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("expected right {1 0 0}, got %v", got)
	}

	// Yaw 90 degrees left: forward becomes -X
	n.SetRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	if got := n.Forward(); !got.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-5) {
		t.Errorf("expected rotated forward {-1 0 0}, got %v", got)
	}
}
