package character

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/kinema/internal/engine/anim"
	"github.com/Faultbox/kinema/internal/engine/collision"
	"github.com/Faultbox/kinema/internal/engine/physics"
	"github.com/Faultbox/kinema/internal/engine/scene"
)

const testDt = float32(1.0 / 60.0)

// testCharacter builds a character resting on the given world, capsule
// radius 0.3 / height 1.8, at the origin.
func testCharacter(t *testing.T) (*Character, *scene.Node) {
	t.Helper()
	node := scene.NewNode("player")
	node.SetPosition(mgl32.Vec3{0, 0.9, 0})

	c, err := New(node, physics.CapsuleShape(0.3, 1.8, mgl32.Vec3{}))
	if err != nil {
		t.Fatalf("failed to create character: %v", err)
	}
	return c, node
}

func groundWorld() *collision.World {
	w := collision.NewWorld()
	w.AddPlane(collision.Plane{Point: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 1, 0}})
	return w
}

func step(c *Character, w physics.World, ticks int) {
	for i := 0; i < ticks; i++ {
		c.OnSimulationStep(w, testDt)
	}
}

func TestNewRejectsBadShapes(t *testing.T) {
	node := scene.NewNode("player")

	if _, err := New(node, physics.Box(mgl32.Vec3{1, 1, 1})); err == nil {
		t.Error("expected non-capsule shape to be rejected")
	}
	if _, err := New(node, physics.CapsuleShape(0, 1.8, mgl32.Vec3{})); err == nil {
		t.Error("expected zero-radius capsule to be rejected")
	}
	if _, err := New(node, physics.CapsuleShape(0.5, 0.7, mgl32.Vec3{})); err == nil {
		t.Error("expected too-short capsule to be rejected")
	}
	if _, err := New(nil, physics.CapsuleShape(0.3, 1.8, mgl32.Vec3{})); err == nil {
		t.Error("expected nil node to be rejected")
	}
}

func TestZeroVelocityNoDrift(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()

	start := c.Position()
	step(c, w, 120)

	if got := c.Position(); !got.ApproxEqualThreshold(start, 1e-4) {
		t.Errorf("expected no drift with zero velocity, moved from %v to %v", start, got)
	}
}

func TestZeroMoveSpeedNoDrift(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()

	// An animation is registered but nothing is playing: movement input
	// must produce no displacement.
	if err := c.AddAnimation("walk", anim.NewTimedClip(800), 2.0); err != nil {
		t.Fatalf("failed to add animation: %v", err)
	}
	c.SetForwardVelocity(1.0)

	start := c.Position()
	step(c, w, 60)

	got := c.Position()
	if dz := got.Z() - start.Z(); dz < -1e-4 || dz > 1e-4 {
		t.Errorf("expected no displacement with no playing animation, moved %f", dz)
	}
}

func TestWalkFlatGround(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()

	if err := c.AddAnimation("walk", anim.NewTimedClip(800), 2.0); err != nil {
		t.Fatalf("failed to add animation: %v", err)
	}
	if err := c.Play("walk", AnimationRepeat, 1.0, 0, 0); err != nil {
		t.Fatalf("failed to play animation: %v", err)
	}
	c.SetForwardVelocity(1.0)

	step(c, w, 60)

	// Forward is -Z: 1 second at 2 m/s
	got := c.Position()
	if dz := got.Z() - (-2.0); dz < -0.05 || dz > 0.05 {
		t.Errorf("expected net forward displacement ~2.0m, got %f", -got.Z())
	}
	if dy := got.Y() - 0.9; dy < -0.05 || dy > 0.05 {
		t.Errorf("expected character to stay on the ground, y drifted to %f", got.Y())
	}
	if !c.IsGrounded() {
		t.Error("expected character to be grounded on flat ground")
	}
}

func TestAirborneGravityIntegration(t *testing.T) {
	c, node := testCharacter(t)
	node.SetPosition(mgl32.Vec3{0, 100, 0}) // adopted as authoritative

	w := groundWorld()
	step(c, w, 10)

	wantVel := float32(-9.8) * 10 * testDt
	if diff := c.FallVelocity() - wantVel; diff < -1e-3 || diff > 1e-3 {
		t.Errorf("expected fall velocity %.4f, got %.4f", wantVel, c.FallVelocity())
	}

	// Displacement is the discrete integral: sum of g*k*dt*dt
	wantDrop := float32(0)
	for k := 1; k <= 10; k++ {
		wantDrop += -9.8 * float32(k) * testDt * testDt
	}
	gotDrop := c.Position().Y() - 100
	if diff := gotDrop - wantDrop; diff < -1e-3 || diff > 1e-3 {
		t.Errorf("expected vertical displacement %.4f, got %.4f", wantDrop, gotDrop)
	}
}

func TestStepUpOverLowObstacle(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()
	// 0.25m tall step across the walking path, lower than the 0.3 step height
	w.AddBox(collision.BBox{Min: mgl32.Vec3{-1, 0, -3}, Max: mgl32.Vec3{1, 0.25, -2.4}})

	if err := c.AddAnimation("walk", anim.NewTimedClip(800), 2.0); err != nil {
		t.Fatalf("failed to add animation: %v", err)
	}
	if err := c.Play("walk", AnimationRepeat, 1.0, 0, 0); err != nil {
		t.Fatalf("failed to play animation: %v", err)
	}
	c.SetForwardVelocity(1.0)

	prevY := c.Position().Y()
	maxJump := float32(0)
	for i := 0; i < 120; i++ {
		c.OnSimulationStep(w, testDt)
		y := c.Position().Y()
		if d := math32.Abs(y - prevY); d > maxJump {
			maxJump = d
		}
		prevY = y
	}

	// 2 seconds at 2 m/s carries the character well past the obstacle
	if got := c.Position().Z(); got > -3.2 {
		t.Errorf("expected character to cross the obstacle, stopped at z=%f", got)
	}
	if maxJump > 0.25+collision.Skin+1e-3 {
		t.Errorf("expected no vertical discontinuity above obstacle height, got %f", maxJump)
	}
}

func TestBlockedByTallWall(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()
	// Wall taller than the step height
	w.AddBox(collision.BBox{Min: mgl32.Vec3{-2, 0, -3}, Max: mgl32.Vec3{2, 3, -2.5}})

	if err := c.AddAnimation("walk", anim.NewTimedClip(800), 2.0); err != nil {
		t.Fatalf("failed to add animation: %v", err)
	}
	if err := c.Play("walk", AnimationRepeat, 1.0, 0, 0); err != nil {
		t.Fatalf("failed to play animation: %v", err)
	}
	c.SetForwardVelocity(1.0)

	step(c, w, 180)

	// The capsule surface stops a skin width short of the wall face at
	// z=-2.5, so the center rests near -2.5 + radius + skin
	if got := c.Position().Z(); got < -2.25 || got > -2.1 {
		t.Errorf("expected character stopped at the wall, z=%f", got)
	}
	if !c.IsColliding() {
		t.Error("expected colliding flag while pressed against the wall")
	}
}

func TestSlideAlongWall(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()
	w.AddBox(collision.BBox{Min: mgl32.Vec3{-10, 0, -3}, Max: mgl32.Vec3{10, 3, -2.5}})

	// Move diagonally into the wall: the -Z component is blocked, the
	// +X strafe component survives.
	c.SetVelocity(mgl32.Vec3{1, 0, -1}, MoveTranslate)

	step(c, w, 300)

	got := c.Position()
	if got.X() < 4.0 {
		t.Errorf("expected strafe component to slide along the wall, x=%f", got.X())
	}
	if got.Z() < -2.25 || got.Z() > -2.0 {
		t.Errorf("expected wall to block forward component, z=%f", got.Z())
	}
}

func TestWalkableSlopeClimbs(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()
	// 30 degree slope rising along -Z, starting 2m ahead
	rad := mgl32.DegToRad(30)
	n := mgl32.Vec3{0, math32.Cos(rad), math32.Sin(rad)}
	w.AddPlane(collision.Plane{Point: mgl32.Vec3{0, 0, -2}, Normal: n})

	c.SetVelocity(mgl32.Vec3{0, 0, -2}, MoveTranslate)

	step(c, w, 240) // 4 seconds at 2 m/s

	got := c.Position()
	if got.Z() > -6.0 {
		t.Errorf("expected walkable slope to leave movement unobstructed, z=%f", got.Z())
	}
	// 4m past the slope base at 30 degrees gains over 2m of height
	if got.Y() < 2.0 {
		t.Errorf("expected character to climb the slope, y=%f", got.Y())
	}
	if !c.IsGrounded() {
		t.Error("expected character grounded on walkable slope")
	}
}

func TestUnwalkableSlopeBlocks(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()
	// 60 degree slope rising along -Z, starting 2m ahead: steeper than
	// the 45 degree limit
	rad := mgl32.DegToRad(60)
	n := mgl32.Vec3{0, math32.Cos(rad), math32.Sin(rad)}
	w.AddPlane(collision.Plane{Point: mgl32.Vec3{0, 0, -2}, Normal: n})

	c.SetVelocity(mgl32.Vec3{0, 0, -2}, MoveTranslate)

	step(c, w, 240)

	got := c.Position()
	// The capsule contacts the slope before the base line at z=-2 and
	// must not creep up it
	if got.Z() < -2.0 {
		t.Errorf("expected unwalkable slope to block movement, z=%f", got.Z())
	}
	if got.Y() > 1.3 {
		t.Errorf("expected no climbing on unwalkable slope, y=%f", got.Y())
	}
}

func TestJumpAndLand(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()

	step(c, w, 2) // settle onto the ground
	if !c.IsGrounded() {
		t.Fatal("expected character grounded before jump")
	}

	c.Jump(0.5)
	wantLaunch := math32.Sqrt(2 * 9.8 * 0.5)
	if diff := c.FallVelocity() - wantLaunch; diff < -1e-4 || diff > 1e-4 {
		t.Errorf("expected launch velocity %.4f, got %.4f", wantLaunch, c.FallVelocity())
	}

	apex := c.Position().Y()
	landed := false
	for i := 0; i < 240; i++ {
		c.OnSimulationStep(w, testDt)
		if y := c.Position().Y(); y > apex {
			apex = y
		}
		if c.IsGrounded() && c.FallVelocity() == 0 && i > 10 {
			landed = true
			break
		}
	}

	if !landed {
		t.Fatal("expected character to land within 4 seconds")
	}
	rise := apex - 0.9
	if rise < 0.4 || rise > 0.6 {
		t.Errorf("expected jump apex near 0.5m, got %f", rise)
	}

	// A second jump while airborne is ignored
	c.Jump(0.5)
	c.grounded = false
	c.Jump(0.5)
	if c.FallVelocity() > wantLaunch+1e-3 {
		t.Error("expected airborne jump to be ignored")
	}
}

func TestGhostRegistration(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()

	step(c, w, 1)
	if len(w.Ghosts()) != 1 {
		t.Fatalf("expected character registered as ghost, got %d", len(w.Ghosts()))
	}

	c.Detach()
	if len(w.Ghosts()) != 0 {
		t.Errorf("expected ghost removed on detach, got %d", len(w.Ghosts()))
	}
}

func TestConfigAccessors(t *testing.T) {
	c, _ := testCharacter(t)

	if c.StepHeight() != DefaultStepHeight {
		t.Errorf("expected default step height %f, got %f", float32(DefaultStepHeight), c.StepHeight())
	}
	if c.MaxSlopeAngle() != DefaultSlopeAngle {
		t.Errorf("expected default slope angle %f, got %f", float32(DefaultSlopeAngle), c.MaxSlopeAngle())
	}

	c.SetStepHeight(0.5)
	c.SetMaxSlopeAngle(60)
	if c.StepHeight() != 0.5 {
		t.Errorf("expected step height 0.5, got %f", c.StepHeight())
	}
	if c.MaxSlopeAngle() != 60 {
		t.Errorf("expected slope angle 60, got %f", c.MaxSlopeAngle())
	}
	wantCos := math32.Cos(mgl32.DegToRad(60))
	if diff := c.cosSlopeAngle - wantCos; diff < -1e-5 || diff > 1e-5 {
		t.Errorf("expected cached cosine %f, got %f", wantCos, c.cosSlopeAngle)
	}
}

func TestDebugDraw(t *testing.T) {
	c, _ := testCharacter(t)
	w := groundWorld()
	c.SetVelocity(mgl32.Vec3{0, 0, -1}, MoveTranslate)
	step(c, w, 1)

	r := &lineRecorder{}
	c.OnDebugDraw(r)
	if r.lines < 2 {
		t.Errorf("expected capsule axis and velocity lines, got %d", r.lines)
	}
}

type lineRecorder struct {
	lines int
}

func (r *lineRecorder) DrawLine(from, to, color mgl32.Vec3) {
	r.lines++
}
