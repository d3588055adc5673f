package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/softraster/pkg/math3d"
)

func TestNewCube(t *testing.T) {
	cube := NewCube()

	if got := cube.VertexCount(); got != 8 {
		t.Errorf("VertexCount() = %d, want 8", got)
	}
	if got := cube.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount() = %d, want 12", got)
	}
	if err := cube.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cube.BoundsMin != math3d.V3(-1, -1, -1) || cube.BoundsMax != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %v..%v, want (-1,-1,-1)..(1,1,1)", cube.BoundsMin, cube.BoundsMax)
	}
}

func TestCubeNormalsPointOutward(t *testing.T) {
	cube := NewCube()

	for i := range cube.Faces {
		a, b, c := cube.FaceVertices(i)
		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		n := cube.FaceNormal(i)
		if n.Dot(centroid) <= 0 {
			t.Errorf("face %d normal %v points inward", i, n)
		}
		if math.Abs(n.Len()-4) > 1e-12 {
			t.Errorf("face %d normal length = %v, want 4", i, n.Len())
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		face    Face
		wantErr error
	}{
		{"valid", Face{A: 0, B: 1, C: 2}, nil},
		{"vertex too large", Face{A: 0, B: 1, C: 3}, ErrIndexOutOfRange},
		{"negative vertex", Face{A: -1, B: 1, C: 2}, ErrIndexOutOfRange},
		{"uv too large", Face{A: 0, B: 1, C: 2, CUV: 1}, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMesh("tri")
			m.Vertices = []math3d.Vec3{{}, {X: 1}, {Y: 1}}
			m.UVs = []math3d.Vec2{{}}
			m.Faces = []Face{tt.face}

			err := m.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := NewMesh("empty").Validate(); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("empty Validate() = %v, want ErrNoGeometry", err)
	}
}

func TestRotatePreservesShape(t *testing.T) {
	cube := NewCube()
	r := math3d.V3(0.3, -0.2, 0.7)

	want := make([]math3d.Vec3, len(cube.Vertices))
	m := math3d.RotateX(r.X).Mul(math3d.RotateY(r.Y)).Mul(math3d.RotateZ(r.Z))
	for i, v := range cube.Vertices {
		want[i] = m.MulVec3(v)
	}

	cube.Rotate(r)

	for i, v := range cube.Vertices {
		if !v.ApproxEqual(want[i], 1e-12) {
			t.Errorf("vertex %d = %v, want %v", i, v, want[i])
		}
		if math.Abs(v.Len()-math.Sqrt(3)) > 1e-12 {
			t.Errorf("vertex %d moved off the circumsphere: |v| = %v", i, v.Len())
		}
	}
}

func TestFitToCube(t *testing.T) {
	m := NewMesh("box")
	m.Vertices = []math3d.Vec3{
		math3d.V3(10, 10, 10),
		math3d.V3(14, 11, 12),
	}

	m.FitToCube(2)

	if !m.Center().ApproxEqual(math3d.Vec3{}, 1e-12) {
		t.Errorf("Center() = %v, want origin", m.Center())
	}
	if got := m.Size().X; math.Abs(got-2) > 1e-12 {
		t.Errorf("largest extent = %v, want 2", got)
	}
}

func TestClone(t *testing.T) {
	cube := NewCube()
	clone := cube.Clone()

	clone.Vertices[0] = math3d.V3(9, 9, 9)
	clone.Faces[0].A = 7

	if cube.Vertices[0] == clone.Vertices[0] {
		t.Error("Clone shares vertex storage")
	}
	if cube.Faces[0].A == 7 {
		t.Error("Clone shares face storage")
	}
}
