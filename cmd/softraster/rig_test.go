package main

import (
	"math"
	"testing"

	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

func settle(r *OrbitRig) {
	for range 300 {
		r.Update()
	}
}

func TestNewOrbitRigFromDefaultCamera(t *testing.T) {
	r := NewOrbitRig(30, render.DefaultCamera())

	if r.Yaw.Position != 0 || r.Pitch.Position != 0 {
		t.Errorf("yaw, pitch = %v, %v, want 0, 0", r.Yaw.Position, r.Pitch.Position)
	}
	if r.Distance.Position != 5 {
		t.Errorf("distance = %v, want 5", r.Distance.Position)
	}
}

func TestOrbitRigApplyKeepsStartingPose(t *testing.T) {
	loc := math3d.V3(5*math.Sin(0.5)*math.Cos(0.3), 5*math.Sin(0.3), -5*math.Cos(0.5)*math.Cos(0.3))
	cam, err := render.NewCamera(loc, math3d.Vec3{}, math3d.Up())
	if err != nil {
		t.Fatalf("NewCamera() error = %v", err)
	}

	r := NewOrbitRig(30, cam)
	if err := r.Apply(cam); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !cam.Location.ApproxEqual(loc, 1e-9) {
		t.Errorf("Location = %v, want %v", cam.Location, loc)
	}
}

func TestOrbitRigSettlesOnTarget(t *testing.T) {
	cam := render.DefaultCamera()
	r := NewOrbitRig(30, cam)

	r.Nudge(0.3, 0.2)
	r.Zoom(1)
	r.Update()
	if r.Yaw.Position == 0 || r.Yaw.Position >= 0.3 {
		t.Errorf("yaw after one frame = %v, want strictly between 0 and 0.3", r.Yaw.Position)
	}

	settle(r)
	for name, a := range map[string]springAxis{"yaw": r.Yaw, "pitch": r.Pitch, "distance": r.Distance} {
		if math.Abs(a.Position-a.Target) > 1e-3 {
			t.Errorf("%s = %v, want %v", name, a.Position, a.Target)
		}
	}

	if err := r.Apply(cam); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := cam.Location.Len(); math.Abs(got-6) > 1e-2 {
		t.Errorf("camera distance = %v, want 6", got)
	}
	if cam.Location.Y <= 0 {
		t.Errorf("camera Y = %v, want above the target", cam.Location.Y)
	}
}

func TestOrbitRigLimits(t *testing.T) {
	r := NewOrbitRig(30, render.DefaultCamera())

	r.Nudge(0, 10)
	if r.Pitch.Target != maxPitch {
		t.Errorf("pitch target = %v, want %v", r.Pitch.Target, maxPitch)
	}
	r.Nudge(0, -20)
	if r.Pitch.Target != -maxPitch {
		t.Errorf("pitch target = %v, want %v", r.Pitch.Target, -maxPitch)
	}

	r.Zoom(100)
	if r.Distance.Target != maxDistance {
		t.Errorf("distance target = %v, want %v", r.Distance.Target, maxDistance)
	}
	r.Zoom(-100)
	if r.Distance.Target != minDistance {
		t.Errorf("distance target = %v, want %v", r.Distance.Target, minDistance)
	}

	// Full pitch must still give a valid camera.
	r.Nudge(0, 10)
	settle(r)
	cam := render.DefaultCamera()
	if err := r.Apply(cam); err != nil {
		t.Errorf("Apply() at max pitch error = %v", err)
	}
}

func TestOrbitRigReset(t *testing.T) {
	r := NewOrbitRig(30, render.DefaultCamera())
	r.Nudge(1, 0.5)
	r.Zoom(2)
	settle(r)

	r.Reset()
	settle(r)
	if math.Abs(r.Yaw.Position) > 1e-3 || math.Abs(r.Pitch.Position) > 1e-3 || math.Abs(r.Distance.Position-5) > 1e-3 {
		t.Errorf("after Reset yaw, pitch, distance = %v, %v, %v, want 0, 0, 5",
			r.Yaw.Position, r.Pitch.Position, r.Distance.Position)
	}
}
