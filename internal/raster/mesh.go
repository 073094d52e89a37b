package raster

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"cg-scene-renderer/internal/curve"
	"cg-scene-renderer/internal/scenegraph"
)

// Mesh is an indexed triangle list with a single base color.
type Mesh struct {
	Name  string
	Verts []mgl64.Vec3
	Tris  [][3]int
	Color color.NRGBA

	released bool
}

// Render draws the mesh with the accumulated world transform.
func (m *Mesh) Render(world mgl64.Mat4, p scenegraph.Pipeline) error {
	if m.released {
		return fmt.Errorf("raster: render %s: %w", m.Name, ErrReleased)
	}
	rp, ok := p.(*Pipeline)
	if !ok {
		return fmt.Errorf("raster: render %s: %w", m.Name, ErrForeignPipeline)
	}
	return rp.DrawTriangles(world, m.Verts, m.Tris, m.Color)
}

// Release drops the vertex buffers. A second call returns ErrReleased.
func (m *Mesh) Release() error {
	if m.released {
		return fmt.Errorf("raster: release %s: %w", m.Name, ErrReleased)
	}
	m.released = true
	m.Verts = nil
	m.Tris = nil
	return nil
}

// Released reports whether Release has been called.
func (m *Mesh) Released() bool { return m.released }

// NewCube returns a unit cube centered on the origin.
func NewCube(name string, col color.NRGBA) *Mesh {
	verts := []mgl64.Vec3{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	tris := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // -z
		{4, 5, 6}, {4, 6, 7}, // +z
		{0, 1, 5}, {0, 5, 4}, // -y
		{3, 7, 6}, {3, 6, 2}, // +y
		{0, 4, 7}, {0, 7, 3}, // -x
		{1, 2, 6}, {1, 6, 5}, // +x
	}
	return &Mesh{Name: name, Verts: verts, Tris: tris, Color: col}
}

// NewRibbon builds a vertical strip between each curve point and its
// projection onto the line y = baseY.
func NewRibbon(name string, c curve.Curve, baseY float64, col color.NRGBA) (*Mesh, error) {
	if c.Len() < 2 {
		return nil, fmt.Errorf("raster: ribbon %s needs at least 2 curve points, got %d: %w",
			name, c.Len(), curve.ErrInvalidArgument)
	}
	verts := make([]mgl64.Vec3, 0, 2*c.Len())
	for _, pt := range c {
		verts = append(verts, pt, mgl64.Vec3{pt[0], baseY, pt[2]})
	}
	tris := make([][3]int, 0, 2*(c.Len()-1))
	for i := 0; i < c.Len()-1; i++ {
		a, b := 2*i, 2*i+1
		tris = append(tris, [3]int{a, b, a + 2}, [3]int{a + 2, b, b + 2})
	}
	return &Mesh{Name: name, Verts: verts, Tris: tris, Color: col}, nil
}

// Bounds returns the axis-aligned bounding box of the vertices in model space.
func (m *Mesh) Bounds() (lo, hi mgl64.Vec3) {
	if len(m.Verts) == 0 {
		return lo, hi
	}
	lo, hi = m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	return lo, hi
}
