package models

import (
	"image/color"

	"github.com/taigrr/softraster/pkg/math3d"
)

// cubeSideColors holds one color per side, in face-pair order.
var cubeSideColors = [6]color.RGBA{
	{230, 80, 70, 255},   // -Z
	{90, 200, 100, 255},  // +X
	{80, 130, 230, 255},  // +Z
	{240, 200, 70, 255},  // -X
	{200, 100, 220, 255}, // +Y
	{70, 210, 210, 255},  // -Y
}

// NewCube returns the cube spanning [-1, 1] on every axis: 8 vertices,
// 12 outward-wound triangles and a unit square of UVs per side.
func NewCube() *Mesh {
	m := NewMesh("cube")
	m.Vertices = []math3d.Vec3{
		math3d.V3(-1, -1, -1),
		math3d.V3(-1, 1, -1),
		math3d.V3(1, 1, -1),
		math3d.V3(1, -1, -1),
		math3d.V3(1, 1, 1),
		math3d.V3(1, -1, 1),
		math3d.V3(-1, 1, 1),
		math3d.V3(-1, -1, 1),
	}
	m.UVs = []math3d.Vec2{
		math3d.V2(0, 0),
		math3d.V2(0, 1),
		math3d.V2(1, 1),
		math3d.V2(1, 0),
	}

	sides := [6][4]int{
		{0, 1, 2, 3}, // -Z
		{3, 2, 4, 5}, // +X
		{5, 4, 6, 7}, // +Z
		{7, 6, 1, 0}, // -X
		{1, 6, 4, 2}, // +Y
		{5, 7, 0, 3}, // -Y
	}
	for i, s := range sides {
		c := cubeSideColors[i]
		m.Faces = append(m.Faces,
			Face{A: s[0], B: s[1], C: s[2], AUV: 0, BUV: 1, CUV: 2, Color: c},
			Face{A: s[0], B: s[2], C: s[3], AUV: 0, BUV: 2, CUV: 3, Color: c},
		)
	}

	m.CalculateBounds()
	return m
}
