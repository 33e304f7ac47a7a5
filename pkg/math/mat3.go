package math

import "github.com/chewxy/math32"

// Mat3 is a 3x3 rotation matrix in column-major order.
// Element (row, col) lives at index col*3+row.
//
//	[m0 m3 m6]
//	[m1 m4 m7]
//	[m2 m5 m8]
type Mat3 [9]float32

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// At returns the element at row, col.
func (m Mat3) At(row, col int) float32 {
	return m[col*3+row]
}

// Add returns m + other.
func (m Mat3) Add(other Mat3) Mat3 {
	var result Mat3
	for i := range m {
		result[i] = m[i] + other[i]
	}
	return result
}

// MulScalar returns s * m.
func (m Mat3) MulScalar(s float32) Mat3 {
	var result Mat3
	for i := range m {
		result[i] = m[i] * s
	}
	return result
}

// Mul multiplies this matrix by another (m * other).
func (m Mat3) Mul(other Mat3) Mat3 {
	var result Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			result[col*3+row] =
				m[0*3+row]*other[col*3+0] +
					m[1*3+row]*other[col*3+1] +
					m[2*3+row]*other[col*3+2]
		}
	}
	return result
}

// MulVec3 transforms v by m.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix. For a rotation this is its inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Skew returns the cross-product matrix W of a, so that W*v == a x v.
func Skew(a Vec3) Mat3 {
	return Mat3{
		0, a.Z, -a.Y,
		-a.Z, 0, a.X,
		a.Y, -a.X, 0,
	}
}

// AxisAngle builds a rotation of angle radians about a unit axis using
// Rodrigues' formula: I + W*sin(angle) + W*W*(1-cos(angle)).
func AxisAngle(axis Vec3, angle float32) Mat3 {
	w := Skew(axis)
	s := math32.Sin(angle)
	c := math32.Cos(angle)
	return Identity3().
		Add(w.MulScalar(s)).
		Add(w.Mul(w).MulScalar(1 - c))
}

// ApproxEqual reports whether all elements differ by at most tol.
func (m Mat3) ApproxEqual(other Mat3, tol float32) bool {
	for i := range m {
		if math32.Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}

// Column returns column col as a vector.
func (m Mat3) Column(col int) Vec3 {
	return Vec3{m[col*3], m[col*3+1], m[col*3+2]}
}
