package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Vectors are treated as columns, so a.Mul(b).MulVec4(v) applies b first.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromRows builds a matrix from four rows written the way they read on paper.
func FromRows(r0, r1, r2, r3 Vec4) Mat4 {
	return Mat4{
		r0.X, r1.X, r2.X, r3.X,
		r0.Y, r1.Y, r2.Y, r3.Y,
		r0.Z, r1.Z, r2.Z, r3.Z,
		r0.W, r1.W, r2.W, r3.W,
	}
}

// Row returns row i as a Vec4.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

func (m *Mat4) set(row, col int, v float64) {
	m[row+col*4] = v
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m.set(0, 3, v.X)
	m.set(1, 3, v.Y)
	m.set(2, 3, v.Z)
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m.set(0, 0, v.X)
	m.set(1, 1, v.Y)
	m.set(2, 2, v.Z)
	return m
}

// planeRotation rotates by angle in the plane of axes i and j, turning
// axis i toward axis j.
func planeRotation(i, j int, angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m.set(i, i, c)
	m.set(j, j, c)
	m.set(j, i, s)
	m.set(i, j, -s)
	return m
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 { return planeRotation(1, 2, angle) }

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 { return planeRotation(2, 0, angle) }

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 { return planeRotation(0, 1, angle) }

// RotateEuler returns RotateX(r.X) * RotateY(r.Y) * RotateZ(r.Z).
// Applied to a vector, the Z rotation happens first.
func RotateEuler(r Vec3) Mat4 {
	return RotateX(r.X).Mul(RotateY(r.Y)).Mul(RotateZ(r.Z))
}

// Mul returns the product a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		r := a.Row(row)
		for col := range 4 {
			c := b[col*4 : col*4+4]
			m.set(row, col, r.X*c[0]+r.Y*c[1]+r.Z*c[2]+r.W*c[3])
		}
	}
	return m
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m.Row(0).Dot(v),
		m.Row(1).Dot(v),
		m.Row(2).Dot(v),
		m.Row(3).Dot(v),
	}
}

// MulVec3 transforms v as a point (w = 1) and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// Inverse inverts m by Gauss-Jordan elimination with partial pivoting. ok is
// false when m is singular, in which case the identity is returned.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	// Augmented [m | I], reduced in place to [I | m⁻¹].
	var a [4][8]float64
	for r := range 4 {
		for c := range 4 {
			a[r][c] = m.Get(r, c)
		}
		a[r][4+r] = 1
	}

	for col := range 4 {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		p := a[pivot][col]
		if p == 0 || math.IsNaN(p) {
			return Identity(), false
		}
		a[col], a[pivot] = a[pivot], a[col]

		for c := range 8 {
			a[col][c] /= p
		}
		for r := range 4 {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col]
			for c := range 8 {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	for r := range 4 {
		for c := range 4 {
			inv.set(r, c, a[r][4+c])
		}
	}
	return inv, true
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
