package render

import (
	"fmt"
	"strings"

	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/models"
)

// TriangleFill selects how faces are filled.
type TriangleFill int

const (
	FillNone     TriangleFill = iota // No fill; outline or points only
	FillFlat                         // Face color, flat shaded
	FillTextured                     // Texture lookup, flat shaded
)

func (f TriangleFill) String() string {
	switch f {
	case FillNone:
		return "none"
	case FillFlat:
		return "flat"
	case FillTextured:
		return "textured"
	}
	return fmt.Sprintf("TriangleFill(%d)", int(f))
}

// Next cycles none → flat → textured → none.
func (f TriangleFill) Next() TriangleFill {
	return (f + 1) % 3
}

// MarshalText implements encoding.TextMarshaler.
func (f TriangleFill) MarshalText() ([]byte, error) {
	if f < FillNone || f > FillTextured {
		return nil, fmt.Errorf("invalid triangle fill %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *TriangleFill) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "none", "":
		*f = FillNone
	case "flat", "color":
		*f = FillFlat
	case "textured", "texture":
		*f = FillTextured
	default:
		return fmt.Errorf("unknown triangle fill %q", text)
	}
	return nil
}

// DrawOptions are the per-frame toggles of the pipeline.
type DrawOptions struct {
	DrawWireframe   bool         `yaml:"wireframe"`
	TriangleFill    TriangleFill `yaml:"fill"`
	BackfaceCulling bool         `yaml:"backface_culling"`
	PauseRendering  bool         `yaml:"pause"`
}

// DefaultDrawOptions returns flat-filled, backface-culled rendering.
func DefaultDrawOptions() DrawOptions {
	return DrawOptions{
		TriangleFill:    FillFlat,
		BackfaceCulling: true,
	}
}

// RandSource is the randomness the frame driver consumes. *rand.Rand from
// math/rand/v2 satisfies it.
type RandSource interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Lighting is a single directional light with a remapped intensity range.
type Lighting struct {
	Direction    math3d.Vec3
	MinIntensity float64
	MaxIntensity float64
}

// DefaultLighting returns the light used when nothing is configured.
func DefaultLighting() Lighting {
	return Lighting{
		Direction:    math3d.V3(-100, -100, -50),
		MinIntensity: 0.4,
		MaxIntensity: 1.2,
	}
}

// FrameStats counts what happened to the faces of one frame.
type FrameStats struct {
	Faces       int  // Faces in the mesh
	Culled      int  // Rejected by backface culling
	Clipped     int  // Clipped away entirely
	Rasterized  int  // Faces that reached the fill or outline stage
	Triangles   int  // Triangles produced by fan triangulation
	Pixels      int  // Pixels covered by fills, before depth testing
	MeshOutside bool // Mesh bounds were outside the frustum
}

// Renderer draws a mesh one frame at a time.
type Renderer struct {
	Lighting       Lighting
	Background     Color
	WireframeColor Color

	// Texture is sampled by FillTextured. When nil, textured faces fall back
	// to flat fill.
	Texture TextureSampler

	// Rotation random walk: with probability RotationChance per frame each
	// axis becomes r*RotationDecay + U(-RotationJitter, RotationJitter).
	RotationChance float64
	RotationJitter float64
	RotationDecay  float64

	rng   RandSource
	order []int

	frustum       Frustum
	frustumWidth  int
	frustumHeight int

	tris   [][3]ClipVertex
	screen []math3d.Vec2
}

// NewRenderer creates a renderer using rng for the rotation walk and the
// face draw order.
func NewRenderer(rng RandSource) *Renderer {
	return &Renderer{
		Lighting:       DefaultLighting(),
		Background:     ColorBlack,
		WireframeColor: ColorWhite,
		RotationChance: 0.03,
		RotationJitter: 0.05,
		RotationDecay:  0.9999,
		rng:            rng,
	}
}

// frustumFor returns the frustum for a width×height sink, rebuilding it only
// when the size changes.
func (r *Renderer) frustumFor(width, height int) Frustum {
	if width != r.frustumWidth || height != r.frustumHeight {
		r.frustum = FrustumForScreen(width, height)
		r.frustumWidth, r.frustumHeight = width, height
	}
	return r.frustum
}

// Step advances the mesh rotation by one frame: the rotation step takes a
// random-walk step, then every vertex is rotated in place by it.
func (r *Renderer) Step(mesh *models.Mesh) {
	if r.rng.Float64() < r.RotationChance {
		mesh.Rotation.X = mesh.Rotation.X*r.RotationDecay + r.jitter()
		mesh.Rotation.Y = mesh.Rotation.Y*r.RotationDecay + r.jitter()
		mesh.Rotation.Z = mesh.Rotation.Z*r.RotationDecay + r.jitter()
	}
	mesh.Rotate(mesh.Rotation)
}

func (r *Renderer) jitter() float64 {
	return (r.rng.Float64()*2 - 1) * r.RotationJitter
}

// DrawMesh renders one frame of mesh as seen by cam into sink. Unless
// paused, the mesh is rotated first; the sink is always cleared.
func (r *Renderer) DrawMesh(sink PixelSink, opts DrawOptions, mesh *models.Mesh, cam *Camera) FrameStats {
	stats := FrameStats{Faces: len(mesh.Faces)}

	if !opts.PauseRendering {
		r.Step(mesh)
	} else {
		mesh.CalculateBounds()
	}

	sink.Clear(r.Background)
	width, height := sink.Size()
	if width <= 0 || height <= 0 || len(mesh.Faces) == 0 {
		return stats
	}

	frustum := r.frustumFor(width, height)
	view := cam.ViewMatrix()

	bounds := NewAABB(mesh.BoundsMin, mesh.BoundsMax).Transform(view)
	containment := frustum.ClassifyAABB(bounds)
	if containment == Outside {
		stats.MeshOutside = true
		Logger().Debug("mesh outside frustum", "mesh", mesh.Name)
		return stats
	}

	r.shuffleFaces(len(mesh.Faces))
	rast := NewRasterizer(sink)
	lightDir := r.Lighting.Direction

	for _, fi := range r.order {
		face := mesh.Faces[fi]
		va, vb, vc := mesh.Vertices[face.A], mesh.Vertices[face.B], mesh.Vertices[face.C]

		normal := vb.Sub(va).Cross(vc.Sub(va))
		if opts.BackfaceCulling && normal.Dot(cam.Location.Sub(va)) <= 0 {
			stats.Culled++
			continue
		}

		intensity := LightIntensity(normal, lightDir, r.Lighting.MinIntensity, r.Lighting.MaxIntensity)

		tri := [3]ClipVertex{
			{Position: view.MulVec3(va), UV: mesh.UVs[face.AUV]},
			{Position: view.MulVec3(vb), UV: mesh.UVs[face.BUV]},
			{Position: view.MulVec3(vc), UV: mesh.UVs[face.CUV]},
		}

		var poly Polygon
		if containment == Inside {
			poly = NewPolygon(tri)
		} else {
			poly = frustum.ClipTriangle(tri)
		}
		if poly.Len() == 0 {
			stats.Clipped++
			continue
		}
		stats.Rasterized++

		r.tris = poly.Triangulate(r.tris[:0])
		stats.Triangles += len(r.tris)

		switch opts.TriangleFill {
		case FillFlat:
			stats.Pixels += r.fillFlat(rast, width, height, MulColor(face.Color, intensity))
		case FillTextured:
			if r.Texture == nil {
				stats.Pixels += r.fillFlat(rast, width, height, MulColor(face.Color, intensity))
			} else {
				stats.Pixels += r.fillTextured(rast, width, height, intensity)
			}
		}

		if opts.DrawWireframe || opts.TriangleFill == FillNone {
			r.screen = r.screen[:0]
			for _, v := range poly.Vertices() {
				r.screen = append(r.screen, ProjectToScreenSpace(width, height, v.Position).XY())
			}
			if opts.DrawWireframe {
				DrawPolygonOutline(sink, r.WireframeColor, r.screen)
			} else {
				DrawPoints(sink, r.WireframeColor, r.screen)
			}
		}
	}

	Logger().Debug("frame",
		"mesh", mesh.Name,
		"faces", stats.Faces,
		"culled", stats.Culled,
		"clipped", stats.Clipped,
		"rasterized", stats.Rasterized,
		"triangles", stats.Triangles,
		"pixels", stats.Pixels,
	)
	return stats
}

// shuffleFaces fills r.order with a random permutation of [0, n).
func (r *Renderer) shuffleFaces(n int) {
	if cap(r.order) < n {
		r.order = make([]int, n)
	}
	r.order = r.order[:n]
	for i := range r.order {
		r.order[i] = i
	}
	r.rng.Shuffle(n, func(i, j int) {
		r.order[i], r.order[j] = r.order[j], r.order[i]
	})
}

func (r *Renderer) fillFlat(rast *Rasterizer, width, height int, c Color) int {
	covered := 0
	for _, t := range r.tris {
		covered += rast.FillFlat(
			ProjectToScreenSpace(width, height, t[0].Position),
			ProjectToScreenSpace(width, height, t[1].Position),
			ProjectToScreenSpace(width, height, t[2].Position),
			c,
		)
	}
	return covered
}

func (r *Renderer) fillTextured(rast *Rasterizer, width, height int, intensity float64) int {
	covered := 0
	for _, t := range r.tris {
		covered += rast.FillTextured(
			ProjectToScreenSpace(width, height, t[0].Position),
			ProjectToScreenSpace(width, height, t[1].Position),
			ProjectToScreenSpace(width, height, t[2].Position),
			t[0].UV, t[1].UV, t[2].UV,
			r.Texture, intensity,
		)
	}
	return covered
}
