package character

import (
	"fmt"

	"github.com/Faultbox/kinema/internal/engine/anim"
)

// AnimationFlags control how a character animation plays back.
type AnimationFlags int

const (
	// AnimationStop plays the animation once, then the layer goes idle.
	AnimationStop AnimationFlags = iota
	// AnimationResume plays the animation once, then resumes the
	// previously playing animation on the same layer.
	AnimationResume
	// AnimationRepeat plays the animation until explicitly stopped.
	AnimationRepeat
)

// animationEntry binds a named clip to a move speed and per-layer
// playback state. prev is an index into the entry table, not a pointer:
// handles survive table growth and cannot dangle.
type animationEntry struct {
	name      string
	clip      anim.Clip
	moveSpeed float32
	layer     int
	playing   bool
	flags     AnimationFlags
	blendMs   uint
	prev      int
}

// AddAnimation registers a named animation with an associated move speed
// in meters per second. The clip is shared, not owned. Registering a name
// twice fails and leaves the first registration intact.
func (c *Character) AddAnimation(name string, clip anim.Clip, moveSpeed float32) error {
	if _, exists := c.byName[name]; exists {
		return fmt.Errorf("%q: %w", name, ErrDuplicateAnimation)
	}
	c.entries = append(c.entries, animationEntry{
		name:      name,
		clip:      clip,
		moveSpeed: moveSpeed,
		prev:      -1,
	})
	c.byName[name] = len(c.entries) - 1
	return nil
}

// GetAnimation returns the clip registered under name, or nil.
func (c *Character) GetAnimation(name string) anim.Clip {
	idx, ok := c.byName[name]
	if !ok {
		return nil
	}
	return c.entries[idx].clip
}

// Play starts the named animation on the given layer. An empty name stops
// whatever is active on the layer. Each layer holds at most one active
// animation; starting a new one records the old as the resume target and
// requests a crossfade of blendMs milliseconds from the clip engine (the
// duration is advisory). Playing a name that was never registered fails
// and changes nothing.
func (c *Character) Play(name string, flags AnimationFlags, speed float32, blendMs uint, layer int) error {
	if name == "" {
		c.stopLayer(layer)
		return nil
	}

	idx, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrAnimationNotFound)
	}

	prev := -1
	if cur, active := c.layers.Get(layer); active && cur != idx {
		p := &c.entries[cur]
		p.playing = false
		if p.clip != nil {
			p.clip.Stop()
		}
		prev = cur
	}

	e := &c.entries[idx]
	e.layer = layer
	e.flags = flags
	e.blendMs = blendMs
	if prev >= 0 {
		e.prev = prev
	}
	e.playing = true
	if e.clip != nil {
		e.clip.SetSpeed(speed)
		e.clip.Play()
	}
	c.layers.Set(layer, idx)
	return nil
}

// ClipFinished notifies the controller that a clip completed naturally.
// The animation engine calls this; the same transition also runs when the
// per-step poll observes a stopped clip.
func (c *Character) ClipFinished(name string) {
	idx, ok := c.byName[name]
	if !ok {
		return
	}
	e := &c.entries[idx]
	if !e.playing {
		return
	}
	c.finishEntry(e.layer, idx)
}

// stopLayer transitions a layer to idle.
func (c *Character) stopLayer(layer int) {
	cur, active := c.layers.Get(layer)
	if !active {
		return
	}
	e := &c.entries[cur]
	e.playing = false
	if e.clip != nil {
		e.clip.Stop()
	}
	c.layers.Delete(layer)
}

// updateAnimations advances queued transitions: layers whose clip stopped
// since the last step take their completion transition now, so the next
// step's move speed reflects the change.
func (c *Character) updateAnimations() {
	type finished struct{ layer, idx int }
	var done []finished

	for el := c.layers.Front(); el != nil; el = el.Next() {
		e := &c.entries[el.Value]
		if e.playing && e.clip != nil && !e.clip.IsPlaying() {
			done = append(done, finished{el.Key, el.Value})
		}
	}
	for _, f := range done {
		c.finishEntry(f.layer, f.idx)
	}
}

// finishEntry applies the completion transition for an entry whose clip
// has run out.
func (c *Character) finishEntry(layer, idx int) {
	e := &c.entries[idx]
	switch e.flags {
	case AnimationRepeat:
		// Repeats until explicitly stopped
		if e.clip != nil {
			e.clip.Play()
		}
	case AnimationResume:
		e.playing = false
		if e.prev >= 0 && e.prev < len(c.entries) {
			p := &c.entries[e.prev]
			p.playing = true
			if p.clip != nil {
				p.clip.Play()
			}
			c.layers.Set(layer, e.prev)
			return
		}
		c.layers.Delete(layer)
	default: // AnimationStop
		e.playing = false
		c.layers.Delete(layer)
	}
}
