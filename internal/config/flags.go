package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagModel  = flag.String("model", "", "Mesh file to load at startup")
	flagScene  = flag.String("scene", "", "Saved scene file to open at startup")
	flagMode   = flag.String("mode", "", "Render mode: points, wireframe, solid, lit")
	flagWidth  = flag.Int("width", 0, "Render width")
	flagHeight = flag.Int("height", 0, "Render height")
	flagWatch  = flag.Bool("watch", false, "Reload the model when its file changes")
	flagOut    = flag.String("out", "", "Snapshot output directory")
	flagFormat = flag.String("format", "", "Snapshot format: png, webp, tga")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
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
	if *flagModel != "" {
		cfg.Model.Path = *flagModel
	}
	if *flagScene != "" {
		cfg.Model.Scene = *flagScene
	}
	if *flagMode != "" {
		cfg.Viewer.RenderMode = *flagMode
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	if *flagWatch {
		cfg.Model.Watch = true
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
}
