package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

// renderFrames draws cfg.Frames frames off screen and writes each one to
// cfg.Output as frame_NNNN.png. It returns the number of frames written.
func renderFrames(ctx context.Context, cfg config.Config, sc *scene) (int, error) {
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	cam, err := render.NewCamera(cfg.CameraLocation(), cfg.CameraLookAt(), math3d.Up())
	if err != nil {
		return 0, fmt.Errorf("camera: %w", err)
	}

	fb := render.NewFramebuffer(cfg.Screen.Width, cfg.Screen.Height)
	r := newRenderer(cfg, sc)

	for i := range cfg.Frames {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		stats := r.DrawMesh(fb, cfg.Draw, sc.Mesh, cam)

		path := filepath.Join(cfg.Output, fmt.Sprintf("frame_%04d.png", i))
		if err := fb.SavePNG(path); err != nil {
			return i, fmt.Errorf("frame %d: %w", i, err)
		}
		slog.Debug("wrote frame", "path", path, "rasterized", stats.Rasterized, "pixels", stats.Pixels)
	}

	slog.Info("headless run complete", "frames", cfg.Frames, "output", cfg.Output)
	return cfg.Frames, nil
}
