package curve

import "github.com/go-gl/mathgl/mgl64"

// Basis matrices. A curve point is G × M × [1, t, t², t³]ᵀ where the columns of the
// 3×4 geometry matrix G are the control points (or points and tangents for Hermite).
var (
	CatmullRomBasis = mgl64.Mat4FromRows(
		mgl64.Vec4{0, -0.5, 1, -0.5},
		mgl64.Vec4{1, 0, -2.5, 1.5},
		mgl64.Vec4{0, 0.5, 2, -1.5},
		mgl64.Vec4{0, 0, -0.5, 0.5},
	)

	BezierBasis = mgl64.Mat4FromRows(
		mgl64.Vec4{1, -3, 3, -1},
		mgl64.Vec4{0, 3, -6, 3},
		mgl64.Vec4{0, 0, 3, -3},
		mgl64.Vec4{0, 0, 0, 1},
	)

	HermiteBasis = mgl64.Mat4FromRows(
		mgl64.Vec4{1, 0, -3, 2},
		mgl64.Vec4{0, 0, 3, -2},
		mgl64.Vec4{0, 1, -2, 1},
		mgl64.Vec4{0, 0, -1, 1},
	)
)

// ParameterVector returns [1, t, t², t³].
func ParameterVector(t float64) mgl64.Vec4 {
	t2 := t * t
	return mgl64.Vec4{1, t, t2, t2 * t}
}

// segment holds the polynomial coefficients G × M of one cubic piece.
type segment mgl64.Mat3x4

func newSegment(basis mgl64.Mat4, c0, c1, c2, c3 mgl64.Vec3) segment {
	return segment(mgl64.Mat3x4FromCols(c0, c1, c2, c3).Mul4(basis))
}

func (s segment) at(t float64) mgl64.Vec3 {
	return mgl64.Mat3x4(s).Mul4x1(ParameterVector(t))
}
