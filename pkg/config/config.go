// Package config loads and validates softraster settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

// DefaultPath is where the CLI looks for a config file when none is given.
const DefaultPath = "softraster.yaml"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds every setting of a softraster run. Zero-valued fields in a
// file keep their defaults.
type Config struct {
	Screen   Screen             `yaml:"screen"`
	Camera   Camera             `yaml:"camera"`
	Lighting Lighting           `yaml:"lighting"`
	Draw     render.DrawOptions `yaml:"draw"`
	Assets   Assets             `yaml:"assets"`

	Seed     uint64 `yaml:"seed"`      // Rotation walk and face order seed
	Frames   int    `yaml:"frames"`    // Headless frame count; 0 runs the terminal viewer
	Output   string `yaml:"output"`    // Directory for headless PNG frames
	LogFile  string `yaml:"log_file"`  // Viewer log destination
	LogLevel string `yaml:"log_level"` // debug, info, warn or error
}

// Screen is the raster target. In the terminal viewer Width and Height are
// replaced by the terminal size.
type Screen struct {
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	FPS        int      `yaml:"fps"`
	Background [3]uint8 `yaml:"background"`
}

// Camera is the initial camera pose.
type Camera struct {
	Location [3]float64 `yaml:"location"`
	LookAt   [3]float64 `yaml:"look_at"`
}

// Lighting mirrors render.Lighting.
type Lighting struct {
	Direction    [3]float64 `yaml:"direction"`
	MinIntensity float64    `yaml:"min_intensity"`
	MaxIntensity float64    `yaml:"max_intensity"`
}

// Assets names the mesh and texture to load. An empty Model draws the
// built-in cube.
type Assets struct {
	Model          string  `yaml:"model"`
	Texture        string  `yaml:"texture"`
	MaxTextureSize int     `yaml:"max_texture_size"`
	FitSize        float64 `yaml:"fit_size"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	light := render.DefaultLighting()
	return Config{
		Screen: Screen{
			Width:      160,
			Height:     120,
			FPS:        30,
			Background: [3]uint8{0, 0, 0},
		},
		Camera: Camera{
			Location: [3]float64{0, 0, -5},
			LookAt:   [3]float64{0, 0, 0},
		},
		Lighting: Lighting{
			Direction:    [3]float64{light.Direction.X, light.Direction.Y, light.Direction.Z},
			MinIntensity: light.MinIntensity,
			MaxIntensity: light.MaxIntensity,
		},
		Draw: render.DefaultDrawOptions(),
		Assets: Assets{
			MaxTextureSize: 256,
			FitSize:        2,
		},
		Seed:     1,
		Output:   "frames",
		LogFile:  filepath.Join("logs", "softraster.log"),
		LogLevel: "info",
	}
}

// Load reads a YAML config from path over the defaults. A missing file is
// not an error and yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path as YAML, creating the parent directory if needed.
func Save(path string, c Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first setting the renderer cannot use.
func (c Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case c.Screen.FPS <= 0 || c.Screen.FPS > 240:
		return fmt.Errorf("%w: fps %d not in 1..240", ErrInvalid, c.Screen.FPS)
	case c.Frames < 0:
		return fmt.Errorf("%w: negative frame count %d", ErrInvalid, c.Frames)
	case c.Lighting.MinIntensity > c.Lighting.MaxIntensity:
		return fmt.Errorf("%w: min intensity %v above max %v", ErrInvalid, c.Lighting.MinIntensity, c.Lighting.MaxIntensity)
	case c.Draw.TriangleFill < render.FillNone || c.Draw.TriangleFill > render.FillTextured:
		return fmt.Errorf("%w: triangle fill %d", ErrInvalid, int(c.Draw.TriangleFill))
	case c.Assets.MaxTextureSize < 0:
		return fmt.Errorf("%w: max texture size %d", ErrInvalid, c.Assets.MaxTextureSize)
	case c.Assets.FitSize < 0:
		return fmt.Errorf("%w: fit size %v", ErrInvalid, c.Assets.FitSize)
	}

	if _, err := render.NewCamera(c.CameraLocation(), c.CameraLookAt(), math3d.Up()); err != nil {
		return fmt.Errorf("%w: camera: %w", ErrInvalid, err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// CameraLocation returns the configured camera position.
func (c Config) CameraLocation() math3d.Vec3 {
	return vec(c.Camera.Location)
}

// CameraLookAt returns the configured camera target.
func (c Config) CameraLookAt() math3d.Vec3 {
	return vec(c.Camera.LookAt)
}

// RenderLighting converts the lighting section for render.Renderer.
func (c Config) RenderLighting() render.Lighting {
	return render.Lighting{
		Direction:    vec(c.Lighting.Direction),
		MinIntensity: c.Lighting.MinIntensity,
		MaxIntensity: c.Lighting.MaxIntensity,
	}
}

// BackgroundColor returns the opaque clear color.
func (c Config) BackgroundColor() render.Color {
	bg := c.Screen.Background
	return render.RGB(bg[0], bg[1], bg[2])
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

func vec(v [3]float64) math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}
