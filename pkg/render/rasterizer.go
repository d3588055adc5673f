package render

import (
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
)

// Rasterizer fills screen-space triangles into a PixelSink.
//
// Vertices are the Vec4 results of ProjectToScreenSpace: X and Y in pixels,
// W the camera-space depth. W must be positive, which clipping against the
// near plane guarantees.
type Rasterizer struct {
	sink PixelSink
}

// NewRasterizer creates a rasterizer drawing into sink.
func NewRasterizer(sink PixelSink) *Rasterizer {
	return &Rasterizer{sink: sink}
}

// Sink returns the target the rasterizer draws into.
func (r *Rasterizer) Sink() PixelSink {
	return r.sink
}

// edge is the line from Origin along Dir. Its value at p is
// cross(Dir, p-Origin), positive on the interior side of a triangle with
// positive signed area.
type edge struct {
	origin  math3d.Vec2
	dir     math3d.Vec2
	topLeft bool
}

func newEdge(from, to math3d.Vec2) edge {
	d := to.Sub(from)
	return edge{
		origin:  from,
		dir:     d,
		topLeft: d.Y > 0 || (d.Y == 0 && d.X > 0),
	}
}

func (e edge) eval(p math3d.Vec2) float64 {
	return e.dir.Cross(p.Sub(e.origin))
}

// covers applies the fill rule: strictly inside, or exactly on an edge that
// owns its boundary pixels.
func (e edge) covers(v float64) bool {
	return v > 0 || (v == 0 && e.topLeft)
}

// triangleSetup holds a normalized triangle and its clamped pixel bounds.
type triangleSetup struct {
	v       [3]math3d.Vec4
	edges   [3]edge // bc, ca, ab: edge i is opposite vertex i
	invArea float64
	swapped bool

	minX, minY, maxX, maxY int
}

// setup orients a→b→c to positive signed area and computes the bounding
// box. It reports false for triangles that cannot cover any pixel.
func (r *Rasterizer) setup(a, b, c math3d.Vec4) (triangleSetup, bool) {
	var t triangleSetup
	if !a.IsFinite() || !b.IsFinite() || !c.IsFinite() {
		return t, false
	}
	if a.W <= 0 || b.W <= 0 || c.W <= 0 {
		return t, false
	}

	area := b.XY().Sub(a.XY()).Cross(c.XY().Sub(a.XY()))
	if area == 0 {
		return t, false
	}
	if area < 0 {
		b, c = c, b
		area = -area
		t.swapped = true
	}
	t.v = [3]math3d.Vec4{a, b, c}
	t.invArea = 1 / area
	t.edges = [3]edge{
		newEdge(b.XY(), c.XY()),
		newEdge(c.XY(), a.XY()),
		newEdge(a.XY(), b.XY()),
	}

	width, height := r.sink.Size()
	t.minX = clampIndex(min(a.X, b.X, c.X), width)
	t.maxX = clampIndex(max(a.X, b.X, c.X), width)
	t.minY = clampIndex(min(a.Y, b.Y, c.Y), height)
	t.maxY = clampIndex(max(a.Y, b.Y, c.Y), height)

	return t, width > 0 && height > 0
}

// weights returns the perspective-correct barycentric weights of p and the
// interpolated camera-space depth. ok is false when p is not covered.
func (t *triangleSetup) weights(p math3d.Vec2) (l [3]float64, w float64, ok bool) {
	var sum float64
	for i := range 3 {
		e := t.edges[i].eval(p)
		if !t.edges[i].covers(e) {
			return l, 0, false
		}
		l[i] = e * t.invArea / t.v[i].W
		sum += l[i]
	}
	for i := range l {
		l[i] /= sum
	}
	return l, 1 / sum, true
}

// FillFlat fills a triangle with a single color, depth tested on the
// perspective-correct camera depth. It returns the number of pixels that
// passed the coverage test.
func (r *Rasterizer) FillFlat(a, b, c math3d.Vec4, color Color) int {
	t, ok := r.setup(a, b, c)
	if !ok {
		return 0
	}

	covered := 0
	for y := t.minY; y <= t.maxY; y++ {
		for x := t.minX; x <= t.maxX; x++ {
			_, w, inside := t.weights(math3d.V2(float64(x), float64(y)))
			if !inside {
				continue
			}
			r.sink.SetPixelDepth(x, y, w, color)
			covered++
		}
	}
	return covered
}

// FillTextured fills a triangle with texels looked up at perspective-correct
// UVs, modulated by intensity. ua, ub and uc are the UVs of a, b and c.
func (r *Rasterizer) FillTextured(a, b, c math3d.Vec4, ua, ub, uc math3d.Vec2, tex TextureSampler, intensity float64) int {
	t, ok := r.setup(a, b, c)
	if !ok {
		return 0
	}
	if t.swapped {
		ub, uc = uc, ub
	}
	uvs := [3]math3d.Vec2{ua, ub, uc}

	covered := 0
	for y := t.minY; y <= t.maxY; y++ {
		for x := t.minX; x <= t.maxX; x++ {
			l, w, inside := t.weights(math3d.V2(float64(x), float64(y)))
			if !inside {
				continue
			}
			uv := uvs[0].Scale(l[0]).Add(uvs[1].Scale(l[1])).Add(uvs[2].Scale(l[2]))
			r.sink.SetPixelDepth(x, y, w, MulColor(TexelFor(tex, uv), intensity))
			covered++
		}
	}
	return covered
}

// InterpolateUV returns the perspective-correct UV and camera depth at
// screen point p inside triangle abc. Points outside the triangle are
// extrapolated.
func InterpolateUV(p math3d.Vec2, a, b, c math3d.Vec4, ua, ub, uc math3d.Vec2) (math3d.Vec2, float64) {
	area := b.XY().Sub(a.XY()).Cross(c.XY().Sub(a.XY()))
	if area == 0 {
		return math3d.Vec2{}, 0
	}
	la := c.XY().Sub(b.XY()).Cross(p.Sub(b.XY())) / area / a.W
	lb := a.XY().Sub(c.XY()).Cross(p.Sub(c.XY())) / area / b.W
	lc := b.XY().Sub(a.XY()).Cross(p.Sub(a.XY())) / area / c.W
	sum := la + lb + lc
	uv := ua.Scale(la).Add(ub.Scale(lb)).Add(uc.Scale(lc)).Scale(1 / sum)
	return uv, 1 / sum
}

// TexelFor returns the texel nearest to uv. V grows upward, so v=0 is the
// bottom row of the texture. Coordinates outside [0,1] clamp to the edge.
func TexelFor(tex TextureSampler, uv math3d.Vec2) Color {
	w, h := tex.Dimensions()
	if w <= 0 || h <= 0 {
		return Color{}
	}
	x := clampIndex(float64(w-1)*uv.X, w)
	y := clampIndex(float64(h-1)*(1-uv.Y), h)
	return tex.Texel(x, y)
}

// clampIndex rounds f to the nearest index in [0, n-1]. NaN maps to 0.
func clampIndex(f float64, n int) int {
	if math.IsNaN(f) || n <= 0 {
		return 0
	}
	return int(math.Round(min(max(f, 0), float64(n-1))))
}

// LightIntensity maps the cosine between normal and lightDir from [-1, 1]
// onto [minI, maxI]. A zero normal or light yields the midpoint.
func LightIntensity(normal, lightDir math3d.Vec3, minI, maxI float64) float64 {
	cos := normal.Normalize().Dot(lightDir.Normalize())
	return (cos+1)/2*(maxI-minI) + minI
}
