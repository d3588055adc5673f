package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
)

// ErrDegenerateCamera is returned when a camera update would leave no
// well-defined view direction.
var ErrDegenerateCamera = errors.New("degenerate camera")

// Camera is a look-at camera. Fields are read-only; use the update methods
// so the view matrix stays valid.
type Camera struct {
	Location math3d.Vec3
	LookAt   math3d.Vec3
	Up       math3d.Vec3

	view math3d.Mat4
}

// NewCamera creates a camera at location looking at lookAt.
func NewCamera(location, lookAt, up math3d.Vec3) (*Camera, error) {
	c := &Camera{}
	if err := c.Set(location, lookAt, up); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultCamera sits five units behind the origin on -Z, looking at it.
func DefaultCamera() *Camera {
	c, _ := NewCamera(math3d.V3(0, 0, -5), math3d.Vec3{}, math3d.Up())
	return c
}

// Set replaces the whole camera pose. The camera is unchanged on error.
func (c *Camera) Set(location, lookAt, up math3d.Vec3) error {
	if err := validatePose(location, lookAt, up); err != nil {
		return err
	}
	c.Location = location
	c.LookAt = lookAt
	c.Up = up
	c.view = CameraViewMatrix(location, lookAt, up)
	return nil
}

// MoveTo moves the camera, keeping its target.
func (c *Camera) MoveTo(location math3d.Vec3) error {
	return c.Set(location, c.LookAt, c.Up)
}

// PointAt changes the target, keeping the location.
func (c *Camera) PointAt(lookAt math3d.Vec3) error {
	return c.Set(c.Location, lookAt, c.Up)
}

// Orbit places the camera distance units from target. Yaw turns around the
// world Y axis and pitch raises the camera; zero yaw and pitch put it on -Z.
func (c *Camera) Orbit(target math3d.Vec3, distance, yaw, pitch float64) error {
	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		-math.Cos(yaw)*math.Cos(pitch),
	).Scale(distance)
	return c.Set(target.Add(offset), target, math3d.Up())
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return c.view
}

// ToCameraSpace transforms a world point into camera space.
func (c *Camera) ToCameraSpace(p math3d.Vec3) math3d.Vec3 {
	return c.view.MulVec3(p)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.LookAt.Sub(c.Location).Normalize()
}

func validatePose(location, lookAt, up math3d.Vec3) error {
	for _, v := range [3]math3d.Vec3{location, lookAt, up} {
		if !finite3(v) {
			return fmt.Errorf("non-finite vector %v: %w", v, ErrDegenerateCamera)
		}
	}
	fwd := lookAt.Sub(location)
	if fwd.Len() < 1e-9 {
		return fmt.Errorf("look-at equals location: %w", ErrDegenerateCamera)
	}
	if up.Cross(fwd.Normalize()).Len() < 1e-9 {
		return fmt.Errorf("up %v parallel to view direction: %w", up, ErrDegenerateCamera)
	}
	return nil
}

func finite3(v math3d.Vec3) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
