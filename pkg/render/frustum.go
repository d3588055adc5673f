package render

import (
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
)

// ClipPlane is a camera-space plane given by a point on it and a unit normal
// pointing into the kept half-space.
type ClipPlane struct {
	Name   string
	Point  math3d.Vec3
	Normal math3d.Vec3
}

// SignedDistance returns the signed distance from the plane to p.
// Positive = in front (kept side), negative = behind.
func (p ClipPlane) SignedDistance(q math3d.Vec3) float64 {
	return q.Sub(p.Point).Dot(p.Normal)
}

// Frustum holds the six clip planes of the view volume in camera space.
// Planes are ordered: Near, Far, Left, Right, Top, Bottom.
type Frustum struct {
	Planes [6]ClipPlane
}

// FrustumPlane indices for clarity.
const (
	FrustumNear = iota
	FrustumFar
	FrustumLeft
	FrustumRight
	FrustumTop
	FrustumBottom
)

// NewFrustum builds the view volume for a vertical field of view and an
// aspect ratio of width/height. Near and far planes sit at ZNear and ZFar.
// The side planes pass through the camera origin; their normals are the
// axis normals rotated by half the field of view.
func NewFrustum(fovY, aspect float64) Frustum {
	hy := fovY / 2
	hx := math.Atan(math.Tan(hy) * aspect)
	cx, sx := math.Cos(hx), math.Sin(hx)
	cy, sy := math.Cos(hy), math.Sin(hy)

	var origin math3d.Vec3
	return Frustum{Planes: [6]ClipPlane{
		FrustumNear:   {Name: "near", Point: math3d.V3(0, 0, ZNear), Normal: math3d.V3(0, 0, 1)},
		FrustumFar:    {Name: "far", Point: math3d.V3(0, 0, ZFar), Normal: math3d.V3(0, 0, -1)},
		FrustumLeft:   {Name: "left", Point: origin, Normal: math3d.V3(cx, 0, sx)},
		FrustumRight:  {Name: "right", Point: origin, Normal: math3d.V3(-cx, 0, sx)},
		FrustumTop:    {Name: "top", Point: origin, Normal: math3d.V3(0, -cy, sy)},
		FrustumBottom: {Name: "bottom", Point: origin, Normal: math3d.V3(0, cy, sy)},
	}}
}

// FrustumForScreen returns the frustum matching ProjectToScreenSpace for a
// width×height target.
func FrustumForScreen(width, height int) Frustum {
	if width <= 0 || height <= 0 {
		return NewFrustum(FOV, 1)
	}
	return NewFrustum(FOV, float64(width)/float64(height))
}

// ContainsPoint tests if a camera-space point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(minPt, maxPt math3d.Vec3) AABB {
	return AABB{Min: minPt, Max: maxPt}
}

// Transform returns an AABB that bounds the original AABB after transformation.
// This computes a new AABB that contains all 8 transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	transformed := m.MulVec3(corners[0])
	newMin := transformed
	newMax := transformed

	for i := 1; i < 8; i++ {
		transformed = m.MulVec3(corners[i])
		newMin = newMin.Min(transformed)
		newMax = newMax.Max(transformed)
	}

	return AABB{Min: newMin, Max: newMax}
}

// Containment is the result of testing a box against the frustum.
type Containment int

const (
	Outside Containment = iota
	Intersecting
	Inside
)

func (c Containment) String() string {
	switch c {
	case Outside:
		return "outside"
	case Intersecting:
		return "intersecting"
	default:
		return "inside"
	}
}

// ClassifyAABB reports whether a camera-space box is entirely outside one
// plane, entirely inside all planes, or straddles at least one.
// Uses the "positive vertex" corner furthest along each normal for
// rejection and the opposite corner for containment.
func (f Frustum) ClassifyAABB(box AABB) Containment {
	result := Inside
	for i := range f.Planes {
		plane := f.Planes[i]

		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.SignedDistance(pVertex) < 0 {
			return Outside
		}

		nVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Min.X, box.Max.X),
			selectComponent(plane.Normal.Y >= 0, box.Min.Y, box.Max.Y),
			selectComponent(plane.Normal.Z >= 0, box.Min.Z, box.Max.Z),
		)
		if plane.SignedDistance(nVertex) < 0 {
			result = Intersecting
		}
	}
	return result
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
