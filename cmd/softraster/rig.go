package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

// Orbit limits. The far plane sits at render.ZFar, so the rig never backs the
// camera out past it.
const (
	minDistance = 1.5
	maxDistance = 8.0
	maxPitch    = 1.5
	zoomStep    = 0.5
	orbitStep   = 0.15
)

// springAxis eases a value toward its target with a critically damped spring.
type springAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

func newSpringAxis(fps int, v float64) springAxis {
	return springAxis{
		Position: v,
		Target:   v,
		// Frequency 6 settles in about a third of a second without overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *springAxis) update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// OrbitRig moves the camera on a sphere around a fixed target. Input changes
// the targets; Update lets the springs catch up one frame at a time.
type OrbitRig struct {
	Yaw, Pitch, Distance springAxis

	target math3d.Vec3
	home   [3]float64
}

// NewOrbitRig derives yaw, pitch and distance from the camera's current pose.
func NewOrbitRig(fps int, cam *render.Camera) *OrbitRig {
	offset := cam.Location.Sub(cam.LookAt)
	dist := offset.Len()
	yaw := math.Atan2(offset.X, -offset.Z)
	pitch := clampFloat(math.Asin(clampFloat(offset.Y/dist, -1, 1)), -maxPitch, maxPitch)

	return &OrbitRig{
		Yaw:      newSpringAxis(fps, yaw),
		Pitch:    newSpringAxis(fps, pitch),
		Distance: newSpringAxis(fps, dist),
		target:   cam.LookAt,
		home:     [3]float64{yaw, pitch, dist},
	}
}

// Nudge turns the orbit by the given angles in radians. Pitch stays short of
// the poles so the up vector never lines up with the view.
func (r *OrbitRig) Nudge(yaw, pitch float64) {
	r.Yaw.Target += yaw
	r.Pitch.Target = clampFloat(r.Pitch.Target+pitch, -maxPitch, maxPitch)
}

// Zoom moves the camera delta units away from the target.
func (r *OrbitRig) Zoom(delta float64) {
	r.Distance.Target = clampFloat(r.Distance.Target+delta, minDistance, maxDistance)
}

// Reset springs back to the starting pose.
func (r *OrbitRig) Reset() {
	r.Yaw.Target, r.Pitch.Target, r.Distance.Target = r.home[0], r.home[1], r.home[2]
}

// Update advances every spring by one frame.
func (r *OrbitRig) Update() {
	r.Yaw.update()
	r.Pitch.update()
	r.Distance.update()
}

// Apply moves cam to the rig's current position.
func (r *OrbitRig) Apply(cam *render.Camera) error {
	return cam.Orbit(r.target, r.Distance.Position, r.Yaw.Position, r.Pitch.Position)
}

func clampFloat(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
