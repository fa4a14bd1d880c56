package types

import (
	"math"
	"testing"
)

func approxVec3(a, b Vec3, tol float32) bool {
	for i := 0; i < 3; i++ {
		if float32(math.Abs(float64(a[i]-b[i]))) > tol {
			return false
		}
	}
	return true
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3{
		2, 0, 1,
		1, 3, 0,
		0, 1, 4,
	}

	prod := m.Mul3(m.Inv())
	ident := Ident3()
	for i := range prod {
		if math.Abs(float64(prod[i]-ident[i])) > 1e-5 {
			t.Fatalf("expected m * inv(m) to be the identity; got %v", prod)
		}
	}

	if inv := (Mat3{}).Inv(); inv != (Mat3{}) {
		t.Fatalf("expected singular matrix inverse to be zero; got %v", inv)
	}
}

func TestFrame(t *testing.T) {
	specs := []Vec3{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
		{0.3, -2, 0.7},
		{0, 0, -4},
	}

	for index, n := range specs {
		f := Frame(n)
		dx, dy := f.Col(0), f.Col(1)

		if f.Col(2) != n {
			t.Fatalf("[spec %d] expected third frame column to be %v; got %v", index, n, f.Col(2))
		}
		if math.Abs(float64(dx.Len()-1)) > 1e-5 || math.Abs(float64(dy.Len()-1)) > 1e-5 {
			t.Fatalf("[spec %d] expected unit tangent columns; got lengths %f, %f", index, dx.Len(), dy.Len())
		}
		if math.Abs(float64(dx.Dot(dy))) > 1e-5 || math.Abs(float64(dx.Dot(n))) > 1e-5 || math.Abs(float64(dy.Dot(n))) > 1e-5 {
			t.Fatalf("[spec %d] expected frame columns to be orthogonal", index)
		}

		// The inverse frame maps n onto the z axis with unit length.
		if got := f.Inv().Mul3x1(n); !approxVec3(got, XYZ(0, 0, 1), 1e-5) {
			t.Fatalf("[spec %d] expected inverse frame to map n to (0,0,1); got %v", index, got)
		}
	}
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(XYZ(0, 1, 0), math.Pi/2)
	got := q.Rotate(XYZ(1, 0, 0))
	if !approxVec3(got, XYZ(0, 0, -1), 1e-5) {
		t.Fatalf("expected rotated vector to be (0,0,-1); got %v", got)
	}

	composed := q.Mul(q).Normalize().Rotate(XYZ(1, 0, 0))
	if !approxVec3(composed, XYZ(-1, 0, 0), 1e-5) {
		t.Fatalf("expected twice rotated vector to be (-1,0,0); got %v", composed)
	}
}

func TestBBox(t *testing.T) {
	b := EmptyBBox().Extend(XYZ(1, 2, 3)).Extend(XYZ(-1, 0, 5))
	if b[0] != XYZ(-1, 0, 3) || b[1] != XYZ(1, 2, 5) {
		t.Fatalf("unexpected bbox %v", b)
	}

	b = b.Enlarge(0.5)
	if !b.Contains(XYZ(-1.5, -0.5, 5.5)) || b.Contains(XYZ(0, 0, 6)) {
		t.Fatalf("unexpected containment results for %v", b)
	}

	if c := b.Center(); c != XYZ(0, 1, 4) {
		t.Fatalf("expected center (0,1,4); got %v", c)
	}
}
