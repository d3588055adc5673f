// softraster - software 3D rasterizer
// Renders a spinning mesh on the CPU, either into PNG frames or live in the
// terminal.
//
// Controls (terminal viewer):
//
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom in/out
//	W/S/A/D     - Orbit up/down/left/right (arrows work too)
//	+/-         - Zoom in/out
//	X           - Toggle wireframe
//	F           - Cycle fill: none, flat, textured
//	C           - Toggle backface culling
//	P / Space   - Pause the rotation
//	T           - Toggle texture
//	R           - Reset the camera
//	?           - Toggle HUD overlay
//	Esc / Q     - Quit
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/render"
)

func main() {
	err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}

// cliFlags are the command-line overrides. Only flags the user set replace
// config file values.
type cliFlags struct {
	configPath     string
	width          int
	height         int
	fps            int
	frames         int
	output         string
	seed           uint64
	texture        string
	maxTextureSize int
	fill           string
	wireframe      bool
	culling        bool
	pause          bool
	logFile        string
	logLevel       string
}

func (f *cliFlags) register(fs *pflag.FlagSet) {
	def := config.Default()
	fs.StringVarP(&f.configPath, "config", "c", config.DefaultPath, "YAML config file")
	fs.IntVar(&f.width, "width", def.Screen.Width, "Headless frame width in pixels")
	fs.IntVar(&f.height, "height", def.Screen.Height, "Headless frame height in pixels")
	fs.IntVar(&f.fps, "fps", def.Screen.FPS, "Target FPS of the terminal viewer")
	fs.IntVarP(&f.frames, "frames", "n", def.Frames, "Render this many PNG frames instead of opening the viewer")
	fs.StringVarP(&f.output, "out", "o", def.Output, "Directory for PNG frames")
	fs.Uint64Var(&f.seed, "seed", def.Seed, "Seed for the rotation walk and face order")
	fs.StringVarP(&f.texture, "texture", "t", def.Assets.Texture, "Texture image (PNG, JPEG, BMP, TIFF or WebP)")
	fs.IntVar(&f.maxTextureSize, "max-texture-size", def.Assets.MaxTextureSize, "Downsample textures larger than this; 0 keeps full size")
	fs.StringVar(&f.fill, "fill", def.Draw.TriangleFill.String(), "Triangle fill: none, flat or textured")
	fs.BoolVar(&f.wireframe, "wireframe", def.Draw.DrawWireframe, "Draw triangle outlines")
	fs.BoolVar(&f.culling, "culling", def.Draw.BackfaceCulling, "Skip faces pointing away from the camera")
	fs.BoolVar(&f.pause, "pause", def.Draw.PauseRendering, "Start with the rotation paused")
	fs.StringVar(&f.logFile, "log", def.LogFile, "Log file used by the terminal viewer")
	fs.StringVar(&f.logLevel, "log-level", def.LogLevel, "Log level: debug, info, warn or error")
}

// apply copies every flag the user set onto cfg.
func (f *cliFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("width") {
		cfg.Screen.Width = f.width
	}
	if fs.Changed("height") {
		cfg.Screen.Height = f.height
	}
	if fs.Changed("fps") {
		cfg.Screen.FPS = f.fps
	}
	if fs.Changed("frames") {
		cfg.Frames = f.frames
	}
	if fs.Changed("out") {
		cfg.Output = f.output
	}
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fs.Changed("texture") {
		cfg.Assets.Texture = f.texture
	}
	if fs.Changed("max-texture-size") {
		cfg.Assets.MaxTextureSize = f.maxTextureSize
	}
	if fs.Changed("fill") {
		if err := cfg.Draw.TriangleFill.UnmarshalText([]byte(f.fill)); err != nil {
			return fmt.Errorf("--fill: %w", err)
		}
	}
	if fs.Changed("wireframe") {
		cfg.Draw.DrawWireframe = f.wireframe
	}
	if fs.Changed("culling") {
		cfg.Draw.BackfaceCulling = f.culling
	}
	if fs.Changed("pause") {
		cfg.Draw.PauseRendering = f.pause
	}
	if fs.Changed("log") {
		cfg.LogFile = f.logFile
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	root := &cobra.Command{
		Use:   "softraster [model.glb|model.gltf]",
		Short: "Software 3D rasterizer",
		Long: `Renders a randomly spinning mesh entirely on the CPU.

Without a model the built-in cube is drawn. With --frames the frames are
written as PNG files; otherwise they are shown live in the terminal.`,
		Example: `
# Spin the cube in the terminal:
softraster

# Dump 120 textured frames of a model:
softraster --frames 120 --fill textured --out frames model.glb`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), &flags, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	flags.register(root.Flags())

	root.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})

	return root
}

// resolveConfig layers the config file, the positional model argument and
// the changed flags, then validates the result.
func resolveConfig(fs *pflag.FlagSet, flags *cliFlags, args []string) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if len(args) == 1 {
		cfg.Assets.Model = args[0]
	}
	if err := flags.apply(fs, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	headless := cfg.Frames > 0

	logger, closeLog, err := newLogger(cfg, headless, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.SetDefault(logger)
	render.SetLogger(logger)
	defer render.SetLogger(nil)

	sc, err := loadScene(cfg.Assets)
	if err != nil {
		return err
	}

	if headless {
		n, err := renderFrames(ctx, cfg, sc)
		if errors.Is(err, context.Canceled) {
			slog.Info("interrupted", "frames", n)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %d frames to %s\n", n, cfg.Output)
		return nil
	}
	return runViewer(ctx, cfg, sc)
}

// newLogger logs to stderr in headless mode. The terminal viewer owns the
// screen, so it logs to cfg.LogFile instead.
func newLogger(cfg config.Config, headless bool, stderr io.Writer) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if headless {
		return slog.New(slog.NewTextHandler(stderr, opts)), func() {}, nil
	}

	if dir := filepath.Dir(cfg.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }, nil
}
