package math3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func TestRotationsMatchMathGL(t *testing.T) {
	tests := []struct {
		name string
		got  func(float64) Mat4
		want func(float64) mgl64.Mat4
	}{
		{"x", RotateX, mgl64.HomogRotate3DX},
		{"y", RotateY, mgl64.HomogRotate3DY},
		{"z", RotateZ, mgl64.HomogRotate3DZ},
	}

	for _, tt := range tests {
		for _, angle := range []float64{0, 0.3, -1.2, math.Pi / 2, 3} {
			got := tt.got(angle)
			want := Mat4(tt.want(angle))
			if !got.ApproxEqual(want, eps) {
				t.Errorf("Rotate%s(%v) = %v, want %v", tt.name, angle, got, want)
			}
		}
	}
}

func TestRotateEulerOrder(t *testing.T) {
	r := V3(0.4, -0.7, 1.1)
	got := RotateEuler(r)
	want := Mat4(mgl64.HomogRotate3DX(r.X).
		Mul4(mgl64.HomogRotate3DY(r.Y)).
		Mul4(mgl64.HomogRotate3DZ(r.Z)))
	if !got.ApproxEqual(want, eps) {
		t.Errorf("RotateEuler(%v) = %v, want %v", r, got, want)
	}

	// Quarter turn about Z takes +X to +Y.
	v := RotateEuler(V3(0, 0, math.Pi/2)).MulVec3(V3(1, 0, 0))
	if !v.ApproxEqual(V3(0, 1, 0), eps) {
		t.Errorf("z quarter turn of +X = %v, want (0,1,0)", v)
	}
}

func TestFromRows(t *testing.T) {
	m := FromRows(
		V4(1, 2, 3, 4),
		V4(5, 6, 7, 8),
		V4(9, 10, 11, 12),
		V4(13, 14, 15, 16),
	)

	if got := m.Get(0, 3); got != 4 {
		t.Errorf("Get(0,3) = %v, want 4", got)
	}
	if got := m.Get(3, 0); got != 13 {
		t.Errorf("Get(3,0) = %v, want 13", got)
	}
	if got := m.Row(1); got != V4(5, 6, 7, 8) {
		t.Errorf("Row(1) = %v, want (5,6,7,8)", got)
	}

	got := m.MulVec4(V4(1, 0, 0, 1))
	if got != V4(5, 13, 21, 29) {
		t.Errorf("MulVec4 = %v, want (5,13,21,29)", got)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 3, 4)))

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse reported singular matrix")
	}
	if !m.Mul(inv).ApproxEqual(Identity(), 1e-12) {
		t.Errorf("m * inv = %v, want identity", m.Mul(inv))
	}

	want := Mat4(mgl64.Mat4(m).Inv())
	if !inv.ApproxEqual(want, 1e-9) {
		t.Errorf("Inverse = %v, want %v", inv, want)
	}

	if _, ok := Scale(V3(1, 0, 1)).Inverse(); ok {
		t.Error("Inverse of singular matrix reported ok")
	}
}

func TestAffineMatchMathGL(t *testing.T) {
	v := V3(1.5, -2, 3)
	if got, want := Translate(v), Mat4(mgl64.Translate3D(v.X, v.Y, v.Z)); got != want {
		t.Errorf("Translate(%v) = %v, want %v", v, got, want)
	}
	if got, want := Scale(v), Mat4(mgl64.Scale3D(v.X, v.Y, v.Z)); got != want {
		t.Errorf("Scale(%v) = %v, want %v", v, got, want)
	}

	m := Translate(V3(10, 20, 30)).Mul(Scale(V3(2, 2, 2)))
	if got := m.MulVec3(V3(1, 2, 3)); got != V3(12, 24, 36) {
		t.Errorf("MulVec3 = %v, want (12,24,36)", got)
	}
}

func TestMulMatchesMathGL(t *testing.T) {
	a := FromRows(V4(1, 2, 3, 4), V4(0, 1, 0, 2), V4(5, 0, 1, 0), V4(0, 0, 0, 1))
	b := RotateEuler(V3(0.3, 0.2, -0.9)).Mul(Translate(V3(1, -1, 2)))

	want := Mat4(mgl64.Mat4(a).Mul4(mgl64.Mat4(b)))
	if got := a.Mul(b); !got.ApproxEqual(want, eps) {
		t.Errorf("Mul = %v, want %v", got, want)
	}
}

func TestInversePivots(t *testing.T) {
	// Zero on the leading diagonal forces a row swap.
	m := FromRows(V4(0, 1, 0, 0), V4(1, 0, 0, 0), V4(0, 0, 2, 0), V4(0, 0, 0, 1))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse reported singular matrix")
	}
	if !m.Mul(inv).ApproxEqual(Identity(), eps) {
		t.Errorf("m * inv = %v, want identity", m.Mul(inv))
	}
}

func TestVec2Cross(t *testing.T) {
	tests := []struct {
		a, b Vec2
		want float64
	}{
		{V2(1, 0), V2(0, 1), 1},
		{V2(0, 1), V2(1, 0), -1},
		{V2(2, 2), V2(4, 4), 0},
	}
	for _, tt := range tests {
		if got := tt.a.Cross(tt.b); got != tt.want {
			t.Errorf("%v.Cross(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestVec3Cross(t *testing.T) {
	got := V3(1, 0, 0).Cross(V3(0, 1, 0))
	if got != V3(0, 0, 1) {
		t.Errorf("x cross y = %v, want z", got)
	}
	if n := V3(0, 0, 0).Normalize(); n != (Vec3{}) {
		t.Errorf("zero normalize = %v", n)
	}
}

func TestIsFinite(t *testing.T) {
	if !V4(1, 2, 3, 4).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if V4(math.NaN(), 0, 0, 1).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	if V2(math.Inf(1), 0).IsFinite() {
		t.Error("Inf vector reported finite")
	}
}
