package render

import (
	"github.com/taigrr/softraster/pkg/math3d"
)

// ClipEpsilon is the tolerance below zero at which a vertex still counts as
// in front of a clip plane.
const ClipEpsilon = 1e-4

// MaxPolygonVertices bounds a clipped triangle: each of the six planes adds
// at most one vertex to a convex polygon.
const MaxPolygonVertices = 3 + 6

// ClipVertex is a camera-space position with its texture coordinate.
type ClipVertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
}

func (v ClipVertex) lerp(o ClipVertex, t float64) ClipVertex {
	return ClipVertex{
		Position: v.Position.Lerp(o.Position, t),
		UV:       v.UV.Lerp(o.UV, t),
	}
}

// Polygon is a convex polygon produced by clipping. It lives on the stack.
type Polygon struct {
	verts [MaxPolygonVertices]ClipVertex
	n     int
}

// NewPolygon creates a polygon from a triangle.
func NewPolygon(tri [3]ClipVertex) Polygon {
	var p Polygon
	for _, v := range tri {
		p.add(v)
	}
	return p
}

func (p *Polygon) add(v ClipVertex) {
	if p.n < MaxPolygonVertices {
		p.verts[p.n] = v
		p.n++
	}
}

// Len returns the vertex count. Zero means the input was clipped away.
func (p *Polygon) Len() int {
	return p.n
}

// Vertices returns the polygon's vertices in winding order.
func (p *Polygon) Vertices() []ClipVertex {
	return p.verts[:p.n]
}

// Triangulate appends the fan triangulation (v0, vi, vi+1) to dst.
// Convexity makes the fan valid.
func (p *Polygon) Triangulate(dst [][3]ClipVertex) [][3]ClipVertex {
	for i := 1; i+1 < p.n; i++ {
		dst = append(dst, [3]ClipVertex{p.verts[0], p.verts[i], p.verts[i+1]})
	}
	return dst
}

// ClipTriangle clips a camera-space triangle against every plane of the
// frustum in order (Sutherland–Hodgman). The result has 3 to 9 vertices,
// or none when the triangle lies entirely outside.
func (f Frustum) ClipTriangle(tri [3]ClipVertex) Polygon {
	poly := NewPolygon(tri)
	for i := range f.Planes {
		poly = clipPolygon(f.Planes[i], &poly)
		if poly.n == 0 {
			break
		}
	}
	return poly
}

// clipPolygon keeps the part of in that lies in front of plane. Whenever an
// edge changes side, the intersection is emitted right after the edge's
// start vertex, with position and UV interpolated.
func clipPolygon(plane ClipPlane, in *Polygon) Polygon {
	var out Polygon
	if in.n == 0 {
		return out
	}

	prev := in.verts[in.n-1]
	prevDist := plane.SignedDistance(prev.Position)
	for i := range in.n {
		cur := in.verts[i]
		curDist := plane.SignedDistance(cur.Position)

		prevIn := prevDist >= -ClipEpsilon
		curIn := curDist >= -ClipEpsilon

		if prevIn != curIn {
			t := prevDist / (prevDist - curDist)
			out.add(prev.lerp(cur, min(max(t, 0), 1)))
		}
		if curIn {
			out.add(cur)
		}

		prev, prevDist = cur, curDist
	}
	return out
}
