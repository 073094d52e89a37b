package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Compose multiplies transforms left to right: Compose(a, b, c) = a × b × c.
// With no arguments it returns the identity.
func Compose(ms ...mgl64.Mat4) mgl64.Mat4 {
	m := mgl64.Ident4()
	for _, x := range ms {
		m = m.Mul4(x)
	}
	return m
}

// TRS builds translate × rotZ × rotY × rotX × scale. Rotation angles in degrees.
func TRS(t, rotDeg, s mgl64.Vec3) mgl64.Mat4 {
	if s == (mgl64.Vec3{}) {
		s = mgl64.Vec3{1, 1, 1}
	}
	return Compose(
		mgl64.Translate3D(t[0], t[1], t[2]),
		mgl64.HomogRotate3DZ(Deg2Rad(rotDeg[2])),
		mgl64.HomogRotate3DY(Deg2Rad(rotDeg[1])),
		mgl64.HomogRotate3DX(Deg2Rad(rotDeg[0])),
		mgl64.Scale3D(s[0], s[1], s[2]),
	)
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func MulPoint(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(v.Vec4(1)).Vec3()
}

// IsIdentity checks if the matrix is approximately identity.
func IsIdentity(m mgl64.Mat4) bool {
	return m.ApproxEqualThreshold(mgl64.Ident4(), 1e-8)
}
