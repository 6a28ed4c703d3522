package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagTicks  = flag.Int("ticks", 0, "Number of simulation substeps to run")
	flagDt     = flag.Float64("dt", 0, "Seconds per substep")
	flagListen = flag.String("listen", "", "Websocket listen address (enables streaming)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTicks > 0 {
		cfg.Simulation.Ticks = *flagTicks
	}
	if *flagDt > 0 {
		cfg.Simulation.Dt = float32(*flagDt)
	}
	if *flagListen != "" {
		cfg.Stream.Enabled = true
		cfg.Stream.Listen = *flagListen
	}
}
