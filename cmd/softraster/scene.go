package main

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/models"
	"github.com/taigrr/softraster/pkg/render"
)

var errUnsupportedFormat = errors.New("unsupported model format")

// scene is everything a run draws: one mesh and the texture its textured
// fill samples.
type scene struct {
	Name    string
	Mesh    *models.Mesh
	Texture *render.Texture
}

// loadScene loads the configured model, or the built-in cube when none is
// set. The texture comes from the explicit path, then the model's embedded
// image, then a generated checkerboard.
func loadScene(assets config.Assets) (*scene, error) {
	sc := &scene{Name: "cube"}

	var embedded image.Image
	if assets.Model == "" {
		sc.Mesh = models.NewCube()
	} else {
		ext := strings.ToLower(filepath.Ext(assets.Model))
		switch ext {
		case ".glb", ".gltf":
			loader := models.NewGLTFLoader()
			loader.FitSize = assets.FitSize
			mesh, img, err := loader.LoadWithTexture(assets.Model)
			if err != nil {
				return nil, fmt.Errorf("load model: %w", err)
			}
			sc.Mesh, embedded = mesh, img
		default:
			return nil, fmt.Errorf("%w: %q (use .glb or .gltf)", errUnsupportedFormat, ext)
		}
		sc.Name = filepath.Base(assets.Model)
	}

	if assets.Texture != "" {
		tex, err := render.LoadTexture(assets.Texture, assets.MaxTextureSize)
		if err != nil {
			slog.Warn("could not load texture", "path", assets.Texture, "err", err)
		} else {
			sc.Texture = tex
		}
	}
	if sc.Texture == nil && embedded != nil {
		sc.Texture = render.TextureFromImage(embedded, assets.MaxTextureSize)
		slog.Info("using embedded texture", "width", sc.Texture.Width, "height", sc.Texture.Height)
	}
	if sc.Texture == nil {
		sc.Texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	slog.Info("loaded scene",
		"model", sc.Name,
		"vertices", sc.Mesh.VertexCount(),
		"triangles", sc.Mesh.TriangleCount(),
	)
	return sc, nil
}

// newRenderer builds a renderer seeded from cfg so runs with the same seed
// draw the same frames.
func newRenderer(cfg config.Config, sc *scene) *render.Renderer {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	r := render.NewRenderer(rng)
	r.Lighting = cfg.RenderLighting()
	r.Background = cfg.BackgroundColor()
	if sc.Texture != nil {
		r.Texture = sc.Texture
	}
	return r
}
