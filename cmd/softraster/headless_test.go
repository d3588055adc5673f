package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/models"
	"github.com/taigrr/softraster/pkg/render"
)

func headlessConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Screen.Width, cfg.Screen.Height = 48, 36
	cfg.Frames = 3
	cfg.Output = filepath.Join(t.TempDir(), "frames")
	return cfg
}

func cubeScene() *scene {
	return &scene{
		Name:    "cube",
		Mesh:    models.NewCube(),
		Texture: render.NewCheckerTexture(16, 16, 4, render.ColorWhite, render.ColorGray),
	}
}

func TestRenderFrames(t *testing.T) {
	cfg := headlessConfig(t)

	n, err := renderFrames(t.Context(), cfg, cubeScene())
	if err != nil {
		t.Fatalf("renderFrames() error = %v", err)
	}
	if n != 3 {
		t.Errorf("renderFrames() = %d, want 3", n)
	}

	for i := range 3 {
		path := filepath.Join(cfg.Output, fmt.Sprintf("frame_%04d.png", i))
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", path, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 36 {
			t.Errorf("%s size = %dx%d, want 48x36", path, b.Dx(), b.Dy())
		}
	}
}

func TestRenderFramesDeterministic(t *testing.T) {
	a := headlessConfig(t)
	b := headlessConfig(t)

	if _, err := renderFrames(t.Context(), a, cubeScene()); err != nil {
		t.Fatalf("renderFrames() error = %v", err)
	}
	if _, err := renderFrames(t.Context(), b, cubeScene()); err != nil {
		t.Fatalf("renderFrames() error = %v", err)
	}

	for i := range a.Frames {
		name := fmt.Sprintf("frame_%04d.png", i)
		da, err := os.ReadFile(filepath.Join(a.Output, name))
		if err != nil {
			t.Fatal(err)
		}
		db, err := os.ReadFile(filepath.Join(b.Output, name))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(da, db) {
			t.Errorf("%s differs between runs with the same seed", name)
		}
	}
}

func TestRenderFramesCanceled(t *testing.T) {
	cfg := headlessConfig(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	n, err := renderFrames(ctx, cfg, cubeScene())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("renderFrames() error = %v, want context.Canceled", err)
	}
	if n != 0 {
		t.Errorf("renderFrames() = %d, want 0", n)
	}
}

func TestRenderFramesBadOutput(t *testing.T) {
	cfg := headlessConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Output = filepath.Join(blocker, "frames")

	if _, err := renderFrames(t.Context(), cfg, cubeScene()); err == nil {
		t.Error("renderFrames() expected error when the output dir cannot be created")
	}
}
