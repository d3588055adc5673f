// Package models holds the triangle meshes the renderer draws: the mesh
// data model, a procedural cube, and a glTF loader.
package models

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/taigrr/softraster/pkg/math3d"
)

var (
	// ErrIndexOutOfRange is returned by Validate when a face refers to a
	// vertex or UV that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNoGeometry is returned when a source contains no triangles.
	ErrNoGeometry = errors.New("mesh has no geometry")
)

// DefaultFaceColor is used for faces whose source carries no color.
var DefaultFaceColor = color.RGBA{255, 255, 255, 255}

// Face is a triangle. A, B and C index Mesh.Vertices, AUV, BUV and CUV index
// Mesh.UVs. The winding a→b→c defines the outward normal (b-a)×(c-a).
type Face struct {
	A, B, C       int
	AUV, BUV, CUV int
	Color         color.RGBA
}

// Mesh is a rigid triangle mesh. Vertices are rotated in place every frame
// by the accumulated Rotation step.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	UVs      []math3d.Vec2
	Faces    []Face
	Rotation math3d.Vec3

	// Bounding box, refreshed by CalculateBounds.
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		UVs:      make([]math3d.Vec2, 0),
		Faces:    make([]Face, 0),
	}
}

// Validate checks that every face index is in range. Loaders call it so the
// renderer can index without checks.
func (m *Mesh) Validate() error {
	if len(m.Faces) == 0 {
		return ErrNoGeometry
	}
	nv, nuv := len(m.Vertices), len(m.UVs)
	for i, f := range m.Faces {
		for _, idx := range [3]int{f.A, f.B, f.C} {
			if idx < 0 || idx >= nv {
				return fmt.Errorf("face %d: vertex %d of %d: %w", i, idx, nv, ErrIndexOutOfRange)
			}
		}
		for _, idx := range [3]int{f.AUV, f.BUV, f.CUV} {
			if idx < 0 || idx >= nuv {
				return fmt.Errorf("face %d: uv %d of %d: %w", i, idx, nuv, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceVertices returns the three corners of face i.
func (m *Mesh) FaceVertices(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i]
	return m.Vertices[f.A], m.Vertices[f.B], m.Vertices[f.C]
}

// FaceNormal returns the unnormalized normal (b-a)×(c-a) of face i.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	a, b, c := m.FaceVertices(i)
	return b.Sub(a).Cross(c.Sub(a))
}

// Rotate rotates every vertex in place by RotateX(r.X)·RotateY(r.Y)·RotateZ(r.Z)
// and refreshes the bounds.
func (m *Mesh) Rotate(r math3d.Vec3) {
	m.Transform(math3d.RotateEuler(r))
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	m.CalculateBounds()
}

// FitToCube centers the mesh on the origin and scales it uniformly so its
// largest extent equals size.
func (m *Mesh) FitToCube(size float64) {
	m.CalculateBounds()
	ext := m.Size()
	maxDim := max(ext.X, ext.Y, ext.Z)
	if maxDim <= 0 {
		return
	}
	s := size / maxDim
	m.Transform(math3d.Scale(math3d.V3(s, s, s)).Mul(math3d.Translate(m.Center().Negate())))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		UVs:       make([]math3d.Vec2, len(m.UVs)),
		Faces:     make([]Face, len(m.Faces)),
		Rotation:  m.Rotation,
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.UVs, m.UVs)
	copy(clone.Faces, m.Faces)
	return clone
}
