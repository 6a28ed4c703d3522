// Package sim wires the character controller, collision world, and
// animation clock into a headless simulation driven by config. It owns
// the tick loop that charsim runs.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/kinema/internal/config"
	"github.com/Faultbox/kinema/internal/engine/anim"
	"github.com/Faultbox/kinema/internal/engine/character"
	"github.com/Faultbox/kinema/internal/engine/collision"
	"github.com/Faultbox/kinema/internal/engine/physics"
	"github.com/Faultbox/kinema/internal/engine/scene"
	"github.com/Faultbox/kinema/internal/logger"
)

// Sim runs one character through a static collision world at a fixed
// timestep. All simulation state is owned by the tick loop; config
// updates cross into it through a channel and apply between ticks.
type Sim struct {
	cfg   *config.Config
	world *collision.World
	node  *scene.Node
	char  *character.Character
	clips []*anim.TimedClip

	stream  *Server
	updates chan *config.Config

	tick int
}

// New builds a simulation from config: collision geometry, the character
// capsule, and its animation bindings.
func New(cfg *config.Config) (*Sim, error) {
	world := collision.NewWorld()
	for _, p := range cfg.Scene.Planes {
		world.AddPlane(collision.Plane{
			Point:  mgl32.Vec3(p.Point),
			Normal: mgl32.Vec3(p.Normal),
		})
	}
	for _, b := range cfg.Scene.Boxes {
		world.AddBox(collision.BBox{Min: mgl32.Vec3(b.Min), Max: mgl32.Vec3(b.Max)})
	}

	// Spawn resting on the origin plane
	node := scene.NewNode("player")
	node.SetPosition(mgl32.Vec3{0, cfg.Character.Height/2 + collision.Skin, 0})

	shape := physics.CapsuleShape(
		cfg.Character.Radius,
		cfg.Character.Height,
		mgl32.Vec3(cfg.Character.Center),
	)
	char, err := character.New(node, shape)
	if err != nil {
		return nil, fmt.Errorf("creating character: %w", err)
	}

	s := &Sim{
		cfg:     cfg,
		world:   world,
		node:    node,
		char:    char,
		updates: make(chan *config.Config, 1),
	}
	s.applyTuning(cfg)

	for _, a := range cfg.Character.Animations {
		clip := anim.NewTimedClip(a.DurationMs)
		if err := char.AddAnimation(a.Name, clip, a.MoveSpeed); err != nil {
			return nil, fmt.Errorf("registering animation: %w", err)
		}
		s.clips = append(s.clips, clip)
	}
	if name := cfg.Character.PlayOnStart; name != "" {
		flags := character.AnimationStop
		if a, ok := animConfig(cfg, name); ok && a.Repeat {
			flags = character.AnimationRepeat
		}
		layer := 0
		if a, ok := animConfig(cfg, name); ok {
			layer = a.Layer
		}
		if err := char.Play(name, flags, 1.0, 0, layer); err != nil {
			return nil, fmt.Errorf("starting animation: %w", err)
		}
	}

	if cfg.Stream.Enabled {
		s.stream = NewServer(cfg.Stream.Listen)
		if err := s.stream.Start(); err != nil {
			return nil, fmt.Errorf("starting stream server: %w", err)
		}
		logger.Info("snapshot stream listening", zap.String("addr", cfg.Stream.Listen))
	}

	return s, nil
}

func animConfig(cfg *config.Config, name string) (config.AnimationConfig, bool) {
	for _, a := range cfg.Character.Animations {
		if a.Name == name {
			return a, true
		}
	}
	return config.AnimationConfig{}, false
}

// Character returns the simulated character.
func (s *Sim) Character() *character.Character {
	return s.char
}

// UpdateConfig queues a config for the tick loop to apply. Only the
// latest queued config survives; superseded ones are dropped.
func (s *Sim) UpdateConfig(cfg *config.Config) {
	for {
		select {
		case s.updates <- cfg:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

// applyTuning pushes the character tuning from config. Runs between
// ticks only.
func (s *Sim) applyTuning(cfg *config.Config) {
	s.char.SetStepHeight(cfg.Character.StepHeight)
	s.char.SetMaxSlopeAngle(cfg.Character.MaxSlopeDeg)
	s.char.SetGravity(cfg.Simulation.Gravity)
	s.char.SetForwardVelocity(cfg.Character.ForwardSpeed)
}

// Step advances the simulation by one substep.
func (s *Sim) Step() {
	select {
	case cfg := <-s.updates:
		s.cfg.Character = cfg.Character
		s.cfg.Simulation.Gravity = cfg.Simulation.Gravity
		s.applyTuning(cfg)
		logger.Info("config applied",
			zap.Float32("step_height", cfg.Character.StepHeight),
			zap.Float32("max_slope_deg", cfg.Character.MaxSlopeDeg),
			zap.Float32("forward_speed", cfg.Character.ForwardSpeed))
	default:
	}

	dt := s.cfg.Simulation.Dt
	for _, clip := range s.clips {
		clip.Advance(dt)
	}
	s.char.OnSimulationStep(s.world, dt)
	s.tick++

	if s.stream != nil {
		s.stream.Broadcast(s.snapshot())
	}
	if s.tick%60 == 0 {
		pos := s.char.Position()
		logger.Debug("tick",
			zap.Int("n", s.tick),
			zap.Float32("x", pos.X()),
			zap.Float32("y", pos.Y()),
			zap.Float32("z", pos.Z()),
			zap.Bool("grounded", s.char.IsGrounded()))
		s.char.OnDebugDraw(debugLog{})
	}
}

func (s *Sim) snapshot() Snapshot {
	pos := s.char.Position()
	vel := s.char.CurrentVelocity()
	return Snapshot{
		Tick:         s.tick,
		Position:     [3]float32{pos.X(), pos.Y(), pos.Z()},
		Velocity:     [3]float32{vel.X(), vel.Y(), vel.Z()},
		FallVelocity: s.char.FallVelocity(),
		Grounded:     s.char.IsGrounded(),
		Colliding:    s.char.IsColliding(),
	}
}

// Run steps the simulation at the configured rate until the tick budget
// runs out or the context is cancelled. A tick budget of zero runs until
// cancelled.
func (s *Sim) Run(ctx context.Context) error {
	interval := time.Duration(float64(s.cfg.Simulation.Dt) * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	budget := s.cfg.Simulation.Ticks
	for {
		select {
		case <-ctx.Done():
			logger.Info("simulation interrupted", zap.Int("ticks", s.tick))
			return ctx.Err()
		case <-ticker.C:
			s.Step()
			if budget > 0 && s.tick >= budget {
				pos := s.char.Position()
				logger.Info("simulation complete",
					zap.Int("ticks", s.tick),
					zap.Float32("x", pos.X()),
					zap.Float32("y", pos.Y()),
					zap.Float32("z", pos.Z()))
				return nil
			}
		}
	}
}

// Close releases the stream server and detaches the character.
func (s *Sim) Close() {
	if s.stream != nil {
		s.stream.Close()
	}
	s.char.Detach()
}

// debugLog writes debug-draw lines to the log instead of a render pass.
type debugLog struct{}

func (debugLog) DrawLine(from, to, color mgl32.Vec3) {
	logger.Debug("debug line",
		zap.Any("from", [3]float32{from.X(), from.Y(), from.Z()}),
		zap.Any("to", [3]float32{to.X(), to.Y(), to.Z()}))
}
