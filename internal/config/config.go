// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/internal/snapshot"
)

// Config holds all viewer settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Camera  CameraConfig  `yaml:"camera"`
	Model   ModelConfig   `yaml:"model"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds render target and display settings.
type ViewerConfig struct {
	Width             int      `yaml:"width"`
	Height            int      `yaml:"height"`
	RenderMode        string   `yaml:"render_mode"` // points, wireframe, solid, lit
	ShowFaceNormals   bool     `yaml:"show_face_normals"`
	ShowVertexNormals bool     `yaml:"show_vertex_normals"`
	Background        [3]uint8 `yaml:"background,flow"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	FOVDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	OrbitSpeed float32 `yaml:"orbit_speed"`
	PanSpeed   float32 `yaml:"pan_speed"`
}

// ModelConfig holds what to load at startup.
type ModelConfig struct {
	Path  string `yaml:"path"`  // mesh file loaded into the root Object
	Scene string `yaml:"scene"` // saved scene, takes precedence over Path
	Watch bool   `yaml:"watch"` // reload the mesh when the file changes
}

// OutputConfig holds snapshot settings.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Format      string `yaml:"format"` // png, webp, tga
	Prefix      string `yaml:"prefix"`
	Supersample int    `yaml:"supersample"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Width:      800,
			Height:     600,
			RenderMode: "lit",
			Background: [3]uint8{0, 0, 0},
		},
		Camera: CameraConfig{
			FOVDegrees: 45,
			Near:       0.01,
			OrbitSpeed: 0.001,
			PanSpeed:   0.001,
		},
		Output: OutputConfig{
			Dir:         "snapshots",
			Format:      "png",
			Prefix:      "sceneview",
			Supersample: 2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values a YAML file or flag could have set out of range.
func (c *Config) Validate() error {
	var errs []error
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewer size %dx%d must be positive", c.Viewer.Width, c.Viewer.Height))
	}
	if _, err := c.Mode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Format(); err != nil {
		errs = append(errs, err)
	}
	if c.Output.Supersample < 1 || c.Output.Supersample > 8 {
		errs = append(errs, fmt.Errorf("supersample %d out of range 1..8", c.Output.Supersample))
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("fov %v out of range", c.Camera.FOVDegrees))
	}
	if c.Camera.Near <= 0 {
		errs = append(errs, fmt.Errorf("near plane %v must be positive", c.Camera.Near))
	}
	return errors.Join(errs...)
}

// Mode returns the configured render mode.
func (c *Config) Mode() (scene.RenderMode, error) {
	return scene.ParseRenderMode(c.Viewer.RenderMode)
}

// Format returns the configured snapshot format.
func (c *Config) Format() (snapshot.Format, error) {
	return snapshot.ParseFormat(c.Output.Format)
}
