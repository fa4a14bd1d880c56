package types

import "golang.org/x/image/math/f32"

const floatCmpEpsilon = 1e-6

// A row-major 3x3 matrix.
type Mat3 f32.Mat3

// Create identity matrix.
func Ident3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Create a matrix whose columns are the supplied vectors.
func Mat3FromCols(c0, c1, c2 Vec3) Mat3 {
	return Mat3{
		c0[0], c1[0], c2[0],
		c0[1], c1[1], c2[1],
		c0[2], c1[2], c2[2],
	}
}

// Get matrix column.
func (m Mat3) Col(c int) Vec3 {
	return Vec3{m[c], m[3+c], m[6+c]}
}

// Multiply matrix with a column vector.
func (m Mat3) Mul3x1(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Multiply two matrices.
func (m Mat3) Mul3(m2 Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = m[r*3]*m2[c] + m[r*3+1]*m2[3+c] + m[r*3+2]*m2[6+c]
		}
	}
	return out
}

// Calculate the matrix determinant.
func (m Mat3) Det() float32 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Calculate the matrix inverse using its adjugate. If the matrix is singular
// a zero matrix is returned.
func (m Mat3) Inv() Mat3 {
	det := m.Det()
	if det == 0 {
		return Mat3{}
	}

	inv := 1.0 / det
	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,

		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,

		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}
}

// Build a frame whose third column is n and whose first two columns are unit
// vectors orthogonal to n and to each other. n is used as-is (not normalized)
// so that the inverse frame maps points along n to z values measured in
// multiples of n.
func Frame(n Vec3) Mat3 {
	dx0 := XYZ(1, 0, 0).Cross(n)
	dx1 := XYZ(0, 1, 0).Cross(n)
	dx := dx1
	if dx0.Dot(dx0) > dx1.Dot(dx1) {
		dx = dx0
	}
	dx = dx.Normalize()
	dy := n.Cross(dx).Normalize()
	return Mat3FromCols(dx, dy, n)
}
