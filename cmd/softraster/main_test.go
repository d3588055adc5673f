package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/render"
)

func parseFlags(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("softraster", pflag.ContinueOnError)
	var f cliFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return resolveConfig(fs, &f, fs.Args())
}

func TestResolveConfigDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")

	cfg, err := parseFlags(t, "-c", missing)
	if err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("resolveConfig() = %+v, want defaults", cfg)
	}
}

func TestResolveConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "softraster.yaml")
	data := "screen:\n  width: 99\n  height: 77\ndraw:\n  fill: none\n  wireframe: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("file only", func(t *testing.T) {
		cfg, err := parseFlags(t, "-c", path)
		if err != nil {
			t.Fatalf("resolveConfig() error = %v", err)
		}
		if cfg.Screen.Width != 99 || cfg.Screen.Height != 77 {
			t.Errorf("size = %dx%d, want 99x77", cfg.Screen.Width, cfg.Screen.Height)
		}
		if cfg.Draw.TriangleFill != render.FillNone || !cfg.Draw.DrawWireframe {
			t.Errorf("draw = %+v, want none + wireframe", cfg.Draw)
		}
	})

	t.Run("flags override", func(t *testing.T) {
		cfg, err := parseFlags(t, "-c", path, "--width", "64", "--fill", "textured", "--wireframe=false", "-n", "5", "model.glb")
		if err != nil {
			t.Fatalf("resolveConfig() error = %v", err)
		}
		if cfg.Screen.Width != 64 || cfg.Screen.Height != 77 {
			t.Errorf("size = %dx%d, want 64x77", cfg.Screen.Width, cfg.Screen.Height)
		}
		if cfg.Draw.TriangleFill != render.FillTextured || cfg.Draw.DrawWireframe {
			t.Errorf("draw = %+v, want textured without wireframe", cfg.Draw)
		}
		if cfg.Frames != 5 {
			t.Errorf("Frames = %d, want 5", cfg.Frames)
		}
		if cfg.Assets.Model != "model.glb" {
			t.Errorf("Model = %q, want model.glb", cfg.Assets.Model)
		}
	})
}

func TestResolveConfigErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")

	if _, err := parseFlags(t, "-c", missing, "--fill", "sparkly"); err == nil || !strings.Contains(err.Error(), "--fill") {
		t.Errorf("bad --fill error = %v, want a --fill error", err)
	}
	if _, err := parseFlags(t, "-c", missing, "--fps", "0"); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("--fps 0 error = %v, want ErrInvalid", err)
	}
	if _, err := parseFlags(t, "-c", missing, "--log-level", "loud"); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("--log-level loud error = %v, want ErrInvalid", err)
	}
}

func TestRootCommandHeadless(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frames")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"-c", filepath.Join(dir, "none.yaml"),
		"--frames", "2",
		"--width", "32",
		"--height", "24",
		"--out", out,
		"--log-level", "debug",
	})

	if err := cmd.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(stdout.String(), "wrote 2 frames") {
		t.Errorf("stdout = %q, want frame summary", stdout.String())
	}
	if !strings.Contains(stderr.String(), "msg=frame") {
		t.Errorf("stderr = %q, want per-frame debug logs", stderr.String())
	}
	for _, name := range []string{"frame_0000.png", "frame_0001.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "softraster.yaml")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"init", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init error = %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("written config = %+v, want defaults", cfg)
	}

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init", path})
	if err := cmd.Execute(); err == nil {
		t.Error("second init expected an error for an existing file")
	}
}
