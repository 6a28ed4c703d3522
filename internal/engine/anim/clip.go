// Package anim defines the animation clip contract consumed by character
// controllers, plus a simple clock-driven clip used by charsim and tests.
// Real playback and blending live in the animation engine; controllers
// only start, stop, and observe clips.
package anim

// Clip is an opaque animation driver.
type Clip interface {
	Play()
	Stop()
	IsPlaying() bool
	SetSpeed(speed float32)
}

// TimedClip is a Clip driven by an external clock. It plays for a fixed
// duration scaled by speed, then stops. Advance must be called once per
// frame by whoever owns the clock.
type TimedClip struct {
	duration float32 // Seconds at speed 1.0
	elapsed  float32
	speed    float32
	playing  bool
}

// NewTimedClip creates a stopped clip with the given duration.
func NewTimedClip(durationMs int) *TimedClip {
	return &TimedClip{
		duration: float32(durationMs) / 1000.0,
		speed:    1.0,
	}
}

// Play starts the clip from the beginning.
func (c *TimedClip) Play() {
	c.elapsed = 0
	c.playing = true
}

// Stop halts the clip immediately.
func (c *TimedClip) Stop() {
	c.playing = false
}

// IsPlaying reports whether the clip is currently running.
func (c *TimedClip) IsPlaying() bool {
	return c.playing
}

// SetSpeed sets the playback speed multiplier.
func (c *TimedClip) SetSpeed(speed float32) {
	c.speed = speed
}

// Speed returns the playback speed multiplier.
func (c *TimedClip) Speed() float32 {
	return c.speed
}

// Advance moves the clip clock forward by dt seconds. A clip whose scaled
// duration elapses stops; zero-duration clips never finish on their own.
func (c *TimedClip) Advance(dt float32) {
	if !c.playing || c.duration <= 0 {
		return
	}
	c.elapsed += dt * c.speed
	if c.elapsed >= c.duration {
		c.playing = false
	}
}
