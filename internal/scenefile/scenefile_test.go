package scenefile

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cg-scene-renderer/internal/camera"
	"cg-scene-renderer/internal/curve"
	"cg-scene-renderer/internal/raster"
	"cg-scene-renderer/internal/scenegraph"
)

func loadGarage(t *testing.T) *Scene {
	t.Helper()
	doc, err := Load(filepath.Join("testdata", "garage.yaml"))
	require.NoError(t, err)
	s, err := doc.Build()
	require.NoError(t, err)
	return s
}

func TestBuildGarage(t *testing.T) {
	s := loadGarage(t)

	assert.Equal(t, 6, s.Graph.Len())
	assert.Equal(t, "world", s.Graph.Name(s.Root))
	assert.Len(t, s.Curves, 6)
	assert.Len(t, s.Meshes, 3)
	assert.Len(t, s.Drivers.Drivers(), 4)
	assert.Equal(t, color.NRGBA{20, 22, 30, 255}, s.Background)

	assert.Len(t, s.Curves["chassis"], 40)
	assert.Len(t, s.Curves["orbit"], 160)
	assert.Len(t, s.Meshes["body"].Verts, 80)

	car, err := s.Graph.FindNode(s.Root, "car")
	require.NoError(t, err)
	m, err := s.Graph.Transform(car)
	require.NoError(t, err)
	assert.True(t, m.ApproxEqual(mgl64.Translate3D(0, 0.8, 0)))

	assert.InDelta(t, 1.2, s.Camera.Rho, 1e-12)
	assert.InDelta(t, 0.6, s.Camera.Height, 1e-12)
	assert.InDelta(t, 3.0, s.Camera.MaxRho, 1e-12)
	assert.InDelta(t, 0.3, s.Camera.MinRho, 1e-12)
}

func TestSharedMeshReleasedOnce(t *testing.T) {
	s := loadGarage(t)
	require.NoError(t, s.Release())
	for name, m := range s.Meshes {
		assert.True(t, m.Released(), name)
	}
	require.NoError(t, s.Release())
}

func TestDriversAnimateNodes(t *testing.T) {
	s := loadGarage(t)
	wheel := s.Graph.MustFindNode(s.Root, "front-wheel")
	before, err := s.Graph.Transform(wheel)
	require.NoError(t, err)

	require.NoError(t, s.Drivers.Tick())
	after, err := s.Graph.Transform(wheel)
	require.NoError(t, err)
	assert.False(t, before.ApproxEqual(after))

	// the boat sits on the river sample, lifted by the offset
	boat := s.Graph.MustFindNode(s.Root, "boat")
	bm, err := s.Graph.Transform(boat)
	require.NoError(t, err)
	sail, ok := s.Drivers.Find("sail")
	require.True(t, ok)
	assert.InDelta(t, sail.Pos()[0], bm.At(0, 3), 1e-12)
	assert.InDelta(t, sail.Pos()[2]+0.05, bm.At(2, 3), 1e-12)
}

func TestSceneDraws(t *testing.T) {
	s := loadGarage(t)
	p := raster.NewPipeline(64, 48)
	p.Background = s.Background
	p.SetView(s.Camera.View())
	p.SetProjection(camera.Perspective(45, 64.0/48, 0.1, 100))
	p.Begin()
	require.NoError(t, s.Graph.Draw(s.Root, p, raster.ModelUniform))
	assert.Positive(t, p.Triangles())
}

const minimal = `
version: "1.0.0"
curves:
  - name: c
    kind: bezier
    points: [0, 0, 1, 1, 2, 1, 3, 0]
    samples: 10
meshes:
  - name: box
    kind: cube
root:
  name: root
  meshes: [box]
`

func TestParseVersion(t *testing.T) {
	_, err := Parse([]byte(minimal))
	require.NoError(t, err)

	_, err = Parse([]byte("version: \"2.0.0\"\nroot: {name: r}\n"))
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Parse([]byte("root: {name: r}\n"))
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Parse([]byte("version: banana\n"))
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Parse(nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("version: \"1.0.0\"\nlights: []\n"))
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func build(t *testing.T, extra string) error {
	t.Helper()
	doc, err := Parse([]byte(minimal + extra))
	require.NoError(t, err)
	_, err = doc.Build()
	return err
}

func TestBuildErrors(t *testing.T) {
	assert.NoError(t, build(t, ""))

	assert.ErrorIs(t, build(t, `
drivers:
  - node: missing
    curves: [c]
    mapping: translate2d
`), scenegraph.ErrNotFound)

	assert.ErrorIs(t, build(t, `
drivers:
  - node: root
    curves: [nope]
    mapping: translate2d
`), ErrInvalid)

	assert.ErrorIs(t, build(t, `
drivers:
  - node: root
    curves: [c]
    mapping: wobble
`), ErrInvalid)

	assert.Error(t, build(t, `
drivers:
  - node: root
    curves: [c]
    policy: bounce
    mapping: translate2d
`))

	assert.Error(t, build(t, `
drivers:
  - node: root
    curves: [c]
    mapping: rotate
    axis: w
`))
}

func TestBuildCurveErrors(t *testing.T) {
	doc := &Document{
		Version: "1.0.0",
		Curves:  []CurveSpec{{Name: "short", Kind: "catmull-rom", Points: []float64{0, 0, 1, 1}, Samples: 10}},
		Root:    NodeSpec{Name: "root"},
	}
	_, err := doc.Build()
	assert.ErrorIs(t, err, curve.ErrInvalidArgument)

	doc.Curves = []CurveSpec{{Name: "odd", Kind: "catmull-rom", Points: make([]float64, 14), Samples: 10}}
	_, err = doc.Build()
	assert.ErrorIs(t, err, curve.ErrInvalidArgument)

	doc.Curves[0].Truncate = true
	s, err := doc.Build()
	require.NoError(t, err)
	assert.Len(t, s.Curves["odd"], 8)
}

func TestBuildMeshErrors(t *testing.T) {
	doc := &Document{
		Version: "1.0.0",
		Meshes:  []MeshSpec{{Name: "m", Kind: "sphere"}},
		Root:    NodeSpec{Name: "root"},
	}
	_, err := doc.Build()
	assert.ErrorIs(t, err, ErrInvalid)

	doc.Meshes = []MeshSpec{{Name: "m", Kind: "cube", Color: []int{1, 2, 300}}}
	_, err = doc.Build()
	assert.ErrorIs(t, err, ErrInvalid)

	doc.Meshes = nil
	doc.Root = NodeSpec{Name: "root", Meshes: []string{"ghost"}}
	_, err = doc.Build()
	assert.ErrorIs(t, err, ErrInvalid)

	doc.Root = NodeSpec{}
	_, err = doc.Build()
	assert.ErrorIs(t, err, ErrInvalid)
}
