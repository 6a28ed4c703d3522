// Package config handles simulation configuration loading and management.
package config

// Config holds all charsim settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Character  CharacterConfig  `yaml:"character"`
	Scene      SceneConfig      `yaml:"scene"`
	Stream     StreamConfig     `yaml:"stream"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds the stepping parameters for the simulation loop.
type SimulationConfig struct {
	Dt      float32 `yaml:"dt"`      // Seconds per substep
	Ticks   int     `yaml:"ticks"`   // Number of substeps to run (0 = run until interrupted)
	Gravity float32 `yaml:"gravity"` // Vertical acceleration, negative is down (m/s^2)
}

// CharacterConfig holds the character capsule and movement tuning.
type CharacterConfig struct {
	Radius       float32           `yaml:"radius"`         // Capsule radius (m)
	Height       float32           `yaml:"height"`         // Capsule height including caps (m)
	Center       [3]float32        `yaml:"center"`         // Capsule center offset from the node origin
	StepHeight   float32           `yaml:"step_height"`    // Max climbable ledge height (m)
	MaxSlopeDeg  float32           `yaml:"max_slope_deg"`  // Max walkable slope angle (degrees)
	JumpHeight   float32           `yaml:"jump_height"`    // Jump apex height (m)
	ForwardSpeed float32           `yaml:"forward_speed"`  // Forward velocity multiplier applied each tick
	Animations   []AnimationConfig `yaml:"animations"`     // Registered clips
	PlayOnStart  string            `yaml:"play_on_start"`  // Animation played before the first tick
}

// AnimationConfig describes one registered animation clip.
type AnimationConfig struct {
	Name       string  `yaml:"name"`
	MoveSpeed  float32 `yaml:"move_speed"`  // Meters per second while playing
	DurationMs int     `yaml:"duration_ms"` // Clip length for the timed driver
	Layer      int     `yaml:"layer"`
	Repeat     bool    `yaml:"repeat"`
}

// SceneConfig describes the static collision geometry.
type SceneConfig struct {
	Planes []PlaneConfig `yaml:"planes"`
	Boxes  []BoxConfig   `yaml:"boxes"`
}

// PlaneConfig is an infinite half-space collider (ground, slopes, walls).
type PlaneConfig struct {
	Point  [3]float32 `yaml:"point"`
	Normal [3]float32 `yaml:"normal"`
}

// BoxConfig is an axis-aligned box collider (steps, ledges, obstacles).
type BoxConfig struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// StreamConfig holds the websocket snapshot streaming settings.
type StreamConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Dt:      1.0 / 60.0,
			Ticks:   600,
			Gravity: -9.8,
		},
		Character: CharacterConfig{
			Radius:       0.3,
			Height:       1.8,
			StepHeight:   0.3,
			MaxSlopeDeg:  45,
			JumpHeight:   0.5,
			ForwardSpeed: 1.0,
			Animations: []AnimationConfig{
				{Name: "walk", MoveSpeed: 2.0, DurationMs: 800, Layer: 0, Repeat: true},
			},
			PlayOnStart: "walk",
		},
		Scene: SceneConfig{
			Planes: []PlaneConfig{
				{Point: [3]float32{0, 0, 0}, Normal: [3]float32{0, 1, 0}},
			},
		},
		Stream: StreamConfig{
			Enabled: false,
			Listen:  "127.0.0.1:8090",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
