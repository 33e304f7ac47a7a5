package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/internal/snapshot"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test viewer defaults
	if cfg.Viewer.Width != 800 {
		t.Errorf("expected width 800, got %d", cfg.Viewer.Width)
	}
	if cfg.Viewer.Height != 600 {
		t.Errorf("expected height 600, got %d", cfg.Viewer.Height)
	}
	if cfg.Viewer.RenderMode != "lit" {
		t.Errorf("expected render mode 'lit', got %s", cfg.Viewer.RenderMode)
	}
	if cfg.Viewer.ShowFaceNormals || cfg.Viewer.ShowVertexNormals {
		t.Error("expected normals hidden by default")
	}

	// Test camera defaults
	if cfg.Camera.FOVDegrees != 45 {
		t.Errorf("expected fov 45, got %f", cfg.Camera.FOVDegrees)
	}
	if cfg.Camera.OrbitSpeed != 0.001 {
		t.Errorf("expected orbit speed 0.001, got %f", cfg.Camera.OrbitSpeed)
	}

	// Test output defaults
	if cfg.Output.Format != "png" {
		t.Errorf("expected format 'png', got %s", cfg.Output.Format)
	}
	if cfg.Output.Supersample != 2 {
		t.Errorf("expected supersample 2, got %d", cfg.Output.Supersample)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
viewer:
  width: 1024
  height: 768
  render_mode: wireframe
  show_face_normals: true
  background: [32, 32, 48]

camera:
  fov_degrees: 60
  near: 0.5

model:
  path: "models/cube.obj"
  watch: true

output:
  dir: "shots"
  format: webp
  supersample: 4

logging:
  level: "debug"
  log_file: "sceneview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Viewer.Width != 1024 {
		t.Errorf("expected width 1024, got %d", cfg.Viewer.Width)
	}
	if cfg.Viewer.Height != 768 {
		t.Errorf("expected height 768, got %d", cfg.Viewer.Height)
	}
	if mode, err := cfg.Mode(); err != nil || mode != scene.ModeWireframe {
		t.Errorf("expected wireframe mode, got %v (%v)", mode, err)
	}
	if !cfg.Viewer.ShowFaceNormals {
		t.Error("expected show_face_normals to be true")
	}
	if cfg.Viewer.Background != [3]uint8{32, 32, 48} {
		t.Errorf("unexpected background %v", cfg.Viewer.Background)
	}

	if cfg.Camera.FOVDegrees != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOVDegrees)
	}
	// untouched keys keep their defaults
	if cfg.Camera.PanSpeed != 0.001 {
		t.Errorf("expected default pan speed, got %f", cfg.Camera.PanSpeed)
	}

	if cfg.Model.Path != "models/cube.obj" || !cfg.Model.Watch {
		t.Errorf("unexpected model config %+v", cfg.Model)
	}

	if f, err := cfg.Format(); err != nil || f != snapshot.FormatWebP {
		t.Errorf("expected webp format, got %v (%v)", f, err)
	}
	if cfg.Output.Supersample != 4 {
		t.Errorf("expected supersample 4, got %d", cfg.Output.Supersample)
	}
	if cfg.Output.Prefix != "sceneview" {
		t.Errorf("expected default prefix, got %s", cfg.Output.Prefix)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "sceneview.log" {
		t.Errorf("expected log file 'sceneview.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
viewer:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"points mode", func(c *Config) { c.Viewer.RenderMode = "points" }, true},
		{"unknown mode", func(c *Config) { c.Viewer.RenderMode = "xray" }, false},
		{"unknown format", func(c *Config) { c.Output.Format = "gif" }, false},
		{"zero width", func(c *Config) { c.Viewer.Width = 0 }, false},
		{"supersample too large", func(c *Config) { c.Output.Supersample = 16 }, false},
		{"supersample zero", func(c *Config) { c.Output.Supersample = 0 }, false},
		{"flat fov", func(c *Config) { c.Camera.FOVDegrees = 180 }, false},
		{"negative near", func(c *Config) { c.Camera.Near = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "sceneview.yaml")
	if err := os.WriteFile(configPath, []byte("viewer:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find sceneview.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "model and watch flags",
			setup: func() {
				*flagModel = "bunny.obj"
				*flagWatch = true
			},
			verify: func(cfg *Config) {
				if cfg.Model.Path != "bunny.obj" {
					t.Errorf("expected model bunny.obj, got %s", cfg.Model.Path)
				}
				if !cfg.Model.Watch {
					t.Error("expected watch to be enabled")
				}
			},
			teardown: func() {
				*flagModel = ""
				*flagWatch = false
			},
		},
		{
			name: "mode flag",
			setup: func() {
				*flagMode = "solid"
			},
			verify: func(cfg *Config) {
				if cfg.Viewer.RenderMode != "solid" {
					t.Errorf("expected mode solid, got %s", cfg.Viewer.RenderMode)
				}
			},
			teardown: func() {
				*flagMode = ""
			},
		},
		{
			name: "output flags",
			setup: func() {
				*flagOut = "/tmp/frames"
				*flagFormat = "tga"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Dir != "/tmp/frames" {
					t.Errorf("expected output dir /tmp/frames, got %s", cfg.Output.Dir)
				}
				if cfg.Output.Format != "tga" {
					t.Errorf("expected format tga, got %s", cfg.Output.Format)
				}
			},
			teardown: func() {
				*flagOut = ""
				*flagFormat = ""
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 1920
				*flagHeight = 1080
			},
			verify: func(cfg *Config) {
				if cfg.Viewer.Width != 1920 {
					t.Errorf("expected width 1920, got %d", cfg.Viewer.Width)
				}
				if cfg.Viewer.Height != 1080 {
					t.Errorf("expected height 1080, got %d", cfg.Viewer.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
viewer:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Viewer.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Viewer.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Viewer.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Viewer.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("viewer:\n  render_mode: xray\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown render mode")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Viewer.RenderMode = "points"
	cfg.Output.Supersample = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Viewer.RenderMode != "points" || loaded.Output.Supersample != 3 {
		t.Errorf("saved values not restored: %+v", loaded)
	}
}
