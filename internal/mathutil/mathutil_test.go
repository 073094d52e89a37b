package mathutil

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{0}, Linspace(0, 1, 1))
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5))

	ts := Linspace(0, 1, 450)
	require.Len(t, ts, 450)
	assert.Equal(t, 0.0, ts[0])
	assert.Equal(t, 1.0, ts[449])
	for i := 1; i < len(ts); i++ {
		assert.Greater(t, ts[i], ts[i-1])
	}
}

func TestComposeOrder(t *testing.T) {
	// translate after scale: (2,0,0) -> scale 2 -> (4,0,0) -> +1 -> (5,0,0)
	m := Compose(mgl64.Translate3D(1, 0, 0), mgl64.Scale3D(2, 2, 2))
	p := MulPoint(m, mgl64.Vec3{2, 0, 0})
	assert.True(t, p.ApproxEqual(mgl64.Vec3{5, 0, 0}))
	assert.True(t, IsIdentity(Compose()))
}

func TestRotate(t *testing.T) {
	p := MulPoint(Rotate(AxisZ, math.Pi/2), mgl64.Vec3{1, 0, 0})
	assertNear(t, mgl64.Vec3{0, 1, 0}, p)
	p = MulPoint(Rotate(AxisX, math.Pi/2), mgl64.Vec3{0, 1, 0})
	assertNear(t, mgl64.Vec3{0, 0, 1}, p)
	p = MulPoint(Rotate(AxisY, math.Pi/2), mgl64.Vec3{0, 0, 1})
	assertNear(t, mgl64.Vec3{1, 0, 0}, p)
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis(" Y ")
	require.NoError(t, err)
	assert.Equal(t, AxisY, a)
	_, err = ParseAxis("w")
	assert.Error(t, err)
}

func TestTRS(t *testing.T) {
	m := TRS(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 90}, mgl64.Vec3{})
	p := MulPoint(m, mgl64.Vec3{1, 0, 0})
	assertNear(t, mgl64.Vec3{0, 1, 1}, p)
}

// assertNear compares componentwise with an absolute tolerance, so a cos(π/2)
// residue matches an exact zero.
func assertNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-12)
}
