package animation

import (
	"math"
	"testing"

	"cg-scene-renderer/internal/curve"
	"cg-scene-renderer/internal/mathutil"
	"cg-scene-renderer/internal/scenegraph"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ramp returns n samples (i, value+i, 0).
func ramp(n int, value float64) curve.Curve {
	c := make(curve.Curve, n)
	for i := range c {
		c[i] = mgl64.Vec3{float64(i), value + float64(i), 0}
	}
	return c
}

func newGraph(t *testing.T) (*scenegraph.Graph, scenegraph.NodeID) {
	t.Helper()
	g := scenegraph.New()
	root := g.CreateNode("root")
	n := g.CreateNode("arm")
	require.NoError(t, g.AddChild(root, n))
	return g, n
}

func TestClampPolicy(t *testing.T) {
	g, n := newGraph(t)
	d, err := New("boat", g, n, Clamp, Translate2D(), ramp(3, 0))
	require.NoError(t, err)
	assert.Equal(t, NotStarted, d.State())
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, d.Pos())

	d.Advance()
	assert.Equal(t, Advancing, d.State())
	assert.Equal(t, 1, d.Index())
	d.Advance()
	assert.Equal(t, 2, d.Index())
	assert.Equal(t, Exhausted, d.State())
	for i := 0; i < 5; i++ {
		d.Advance()
	}
	assert.Equal(t, 2, d.Index())
	assert.Equal(t, mgl64.Vec3{2, 2, 0}, d.Pos())

	require.NoError(t, d.Apply())
	m, err := g.Transform(n)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Translate3D(2, 2, 0), m)
}

func TestLoopPolicy(t *testing.T) {
	g, n := newGraph(t)
	d, err := New("camera", g, n, Loop, Translate2D(), ramp(3, 0))
	require.NoError(t, err)
	var idx []int
	for i := 0; i < 5; i++ {
		d.Advance()
		idx = append(idx, d.Index())
	}
	assert.Equal(t, []int{1, 2, 0, 1, 2}, idx)
	assert.Equal(t, Advancing, d.State())
}

func TestPlaylistPolicy(t *testing.T) {
	g, n := newGraph(t)
	d, err := New("arm", g, n, AdvancePlaylist, Translate2D(), ramp(2, 0), ramp(2, 10), ramp(2, 20))
	require.NoError(t, err)

	var phases []int
	for i := 0; i < 7; i++ {
		d.Advance()
		phases = append(phases, d.Phase())
	}
	assert.Equal(t, []int{0, 1, 1, 2, 2, 0, 0}, phases)
	assert.Equal(t, mgl64.Vec3{1, 1, 0}, d.Pos())
}

func TestDancePhasesCompose(t *testing.T) {
	g, n := newGraph(t)
	a := math.Pi / 6
	flat := func(v float64) curve.Curve {
		return curve.Curve{{0, v, 0}, {1, v, 0}}
	}
	d, err := New("arm", g, n, AdvancePlaylist, PhaseRotations(DanceSteps...),
		flat(a), flat(2*a), flat(3*a), flat(4*a))
	require.NoError(t, err)

	tick := func() mgl64.Mat4 {
		d.Advance()
		require.NoError(t, d.Apply())
		m, err := g.Transform(n)
		require.NoError(t, err)
		return m
	}

	rx := mathutil.Rotate(mathutil.AxisX, a)
	assert.True(t, tick().ApproxEqual(rx))

	// phase 1 rotates about Y on top of the X pose
	ry := mathutil.Rotate(mathutil.AxisY, 2*a).Mul4(rx)
	assert.True(t, tick().ApproxEqual(ry))
	assert.True(t, tick().ApproxEqual(ry))

	rz := mathutil.Rotate(mathutil.AxisZ, 3*a).Mul4(ry)
	assert.True(t, tick().ApproxEqual(rz))
	assert.True(t, tick().ApproxEqual(rz))

	// phase 3 starts over from a plain X rotation
	assert.True(t, tick().ApproxEqual(mathutil.Rotate(mathutil.AxisX, 4*a)))
}

func TestFollowPathKeepsBase(t *testing.T) {
	g, n := newGraph(t)
	base := mgl64.Scale3D(0.2, 0.3, 0.1)
	require.NoError(t, g.SetTransform(n, base))
	d, err := New("boat", g, n, Clamp, FollowPath(mgl64.Vec3{0, 0, 0.01}), curve.Curve{{1, 2, 3}})
	require.NoError(t, err)
	require.NoError(t, d.Apply())
	m, err := g.Transform(n)
	require.NoError(t, err)
	assert.True(t, m.ApproxEqual(mgl64.Translate3D(1, 2, 3.01).Mul4(base)))
}

func TestRotateAbout(t *testing.T) {
	g, n := newGraph(t)
	d, err := New("arm", g, n, Clamp, RotateAbout(mathutil.AxisZ), curve.Curve{{0, math.Pi / 2, 0}})
	require.NoError(t, err)
	require.NoError(t, d.Apply())
	m, err := g.Transform(n)
	require.NoError(t, err)
	p := mathutil.MulPoint(m, mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{0, 1, 0}
	assert.InDeltaSlice(t, want[:], p[:], 1e-12)
}

func TestRebind(t *testing.T) {
	g := scenegraph.New()
	a := g.CreateNode("a")
	b := g.CreateNode("b")
	d, err := New("mover", g, a, Clamp, Translate2D(), curve.Curve{{1, 1, 0}})
	require.NoError(t, err)
	require.NoError(t, d.Bind(b))
	require.NoError(t, d.Apply())

	ma, _ := g.Transform(a)
	mb, _ := g.Transform(b)
	assert.Equal(t, mgl64.Ident4(), ma)
	assert.Equal(t, mgl64.Translate3D(1, 1, 0), mb)

	assert.ErrorIs(t, d.Bind(scenegraph.NodeID(50)), scenegraph.ErrUnknownNode)
	assert.Equal(t, b, d.Node())
}

func TestNewValidation(t *testing.T) {
	g, n := newGraph(t)
	_, err := New("x", g, n, Clamp, Translate2D())
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
	_, err = New("x", g, n, Clamp, Translate2D(), curve.Curve{})
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
	_, err = New("x", g, n, Clamp, nil, ramp(2, 0))
	assert.ErrorIs(t, err, ErrNoMapping)
	_, err = New("x", g, scenegraph.Nil, Clamp, Translate2D(), ramp(2, 0))
	assert.ErrorIs(t, err, scenegraph.ErrUnknownNode)
}

func TestStepRate(t *testing.T) {
	g, n := newGraph(t)
	d, err := New("x", g, n, Clamp, Translate2D(), ramp(100, 0))
	require.NoError(t, err)
	d.Rate = 60

	assert.Equal(t, 1, d.Step(1.0/60+1e-9))
	assert.Equal(t, 0, d.Step(0.5/60))
	assert.Equal(t, 1, d.Step(0.5/60+1e-9))
	assert.Equal(t, 2, d.Index())

	d.Rate = 0
	assert.Equal(t, 1, d.Step(10))
	assert.Equal(t, 3, d.Index())
}

func TestSet(t *testing.T) {
	g := scenegraph.New()
	a := g.CreateNode("a")
	b := g.CreateNode("b")
	da, err := New("a", g, a, Clamp, Translate2D(), ramp(5, 0))
	require.NoError(t, err)
	db, err := New("b", g, b, Loop, Translate2D(), ramp(2, 0))
	require.NoError(t, err)

	var s Set
	s.Add(da, db)
	require.NoError(t, s.Tick())
	require.NoError(t, s.Tick())

	ma, _ := g.Transform(a)
	mb, _ := g.Transform(b)
	assert.Equal(t, mgl64.Translate3D(2, 2, 0), ma)
	assert.Equal(t, mgl64.Ident4(), mb)

	got, ok := s.Find("b")
	assert.True(t, ok)
	assert.Same(t, db, got)
	_, ok = s.Find("c")
	assert.False(t, ok)

	da.Rate, db.Rate = 10, 10
	s.TimeScale = 0.5
	require.NoError(t, s.Step(0.2+1e-9))
	assert.Equal(t, 3, da.Index())
	assert.Len(t, s.Drivers(), 2)
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{Clamp, Loop, AdvancePlaylist} {
		got, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePolicy("bounce")
	assert.Error(t, err)
	assert.Equal(t, "exhausted", Exhausted.String())
}
