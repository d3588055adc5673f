package render

import (
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
)

// Projection constants. Depth is measured along the camera's forward axis.
const (
	FOV   = math.Pi / 3 // vertical field of view
	ZNear = 1.0
	ZFar  = 10.0
)

// CameraViewMatrix builds the world-to-camera matrix for a camera at
// location looking toward lookAt. The camera frame has x pointing right,
// y up and z forward. lookAt must differ from location and up must not be
// parallel to the view direction; Camera enforces both.
func CameraViewMatrix(location, lookAt, up math3d.Vec3) math3d.Mat4 {
	z := lookAt.Sub(location).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	return math3d.FromRows(
		math3d.V4(x.X, x.Y, x.Z, -x.Dot(location)),
		math3d.V4(y.X, y.Y, y.Z, -y.Dot(location)),
		math3d.V4(z.X, z.Y, z.Z, -z.Dot(location)),
		math3d.V4(0, 0, 0, 1),
	)
}

// ProjectToCameraSpace transforms a world point into the frame of a camera
// at location looking at lookAt with world up +Y.
func ProjectToCameraSpace(p, location, lookAt math3d.Vec3) math3d.Vec3 {
	return CameraViewMatrix(location, lookAt, math3d.Up()).MulVec3(p)
}

// ProjectionMatrix returns the perspective matrix for a width×height
// target. Multiplying a camera-space point by it leaves the camera depth in
// w and maps z in [ZNear, ZFar] to [0, ZFar].
func ProjectionMatrix(width, height int) math3d.Mat4 {
	aspect := float64(height) / float64(width)
	f := 1 / math.Tan(FOV/2)
	zRatio := ZFar / (ZFar - ZNear)

	return math3d.FromRows(
		math3d.V4(aspect*f, 0, 0, 0),
		math3d.V4(0, -f, 0, 0),
		math3d.V4(0, 0, zRatio, -zRatio*ZNear),
		math3d.V4(0, 0, 1, 0),
	)
}

// ProjectToScreenSpace maps a camera-space point to pixel coordinates.
// The result holds (screenX, screenY, projected z, w) where w is the
// camera-space depth. p must lie in front of the camera; clipping guarantees
// that for every vertex the pipeline projects.
func ProjectToScreenSpace(width, height int, p math3d.Vec3) math3d.Vec4 {
	q := ProjectionMatrix(width, height).MulVec4(math3d.V4FromV3(p, 1))

	hw, hh := float64(width)/2, float64(height)/2
	return math3d.V4(
		(q.X/q.W)*hw+hw,
		(q.Y/q.W)*hh+hh,
		q.Z,
		q.W,
	)
}

// UnprojectFromScreenSpace inverts ProjectToScreenSpace, returning the
// camera-space point that projects to s.
func UnprojectFromScreenSpace(width, height int, s math3d.Vec4) math3d.Vec3 {
	hw, hh := float64(width)/2, float64(height)/2
	clip := math3d.V4(
		(s.X-hw)/hw*s.W,
		(s.Y-hh)/hh*s.W,
		s.Z,
		s.W,
	)

	inv, ok := ProjectionMatrix(width, height).Inverse()
	if !ok {
		return math3d.Vec3{}
	}
	return inv.MulVec4(clip).PerspectiveDivide()
}
