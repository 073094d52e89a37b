package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"cg-scene-renderer/internal/mathutil"
)

var (
	ErrReleased        = errors.New("raster: drawable already released")
	ErrForeignPipeline = errors.New("raster: drawable needs a raster pipeline")
	ErrUniformName     = errors.New("raster: empty uniform name")
)

// Uniform names understood by the pipeline.
const (
	ModelUniform      = "model"
	ViewUniform       = "view"
	ProjectionUniform = "projection"
)

// Pipeline is a software stand-in for a shader program bound to a framebuffer.
// Drawables project their vertices through projection · view · world and
// rasterize flat-shaded triangles into the z-buffer.
type Pipeline struct {
	Light      LightConfig
	Background color.NRGBA

	fb        *FrameBuffer
	uniforms  map[string]mgl64.Mat4
	triangles int
}

// NewPipeline allocates a w×h framebuffer with identity view and projection.
func NewPipeline(w, h int) *Pipeline {
	return &Pipeline{
		Light: DefaultLightConfig(),
		fb:    NewFrameBuffer(w, h),
		uniforms: map[string]mgl64.Mat4{
			ModelUniform:      mgl64.Ident4(),
			ViewUniform:       mgl64.Ident4(),
			ProjectionUniform: mgl64.Ident4(),
		},
	}
}

// SetUniformMat4 stores m under name.
func (p *Pipeline) SetUniformMat4(name string, m mgl64.Mat4) error {
	if name == "" {
		return ErrUniformName
	}
	p.uniforms[name] = m
	return nil
}

// Uniform returns the matrix last stored under name.
func (p *Pipeline) Uniform(name string) (mgl64.Mat4, bool) {
	m, ok := p.uniforms[name]
	return m, ok
}

func (p *Pipeline) SetView(m mgl64.Mat4)       { p.uniforms[ViewUniform] = m }
func (p *Pipeline) SetProjection(m mgl64.Mat4) { p.uniforms[ProjectionUniform] = m }

// Begin clears the framebuffer for a new frame.
func (p *Pipeline) Begin() {
	p.fb.Clear(p.Background)
	p.triangles = 0
}

// Image returns a copy of the current frame.
func (p *Pipeline) Image() *image.NRGBA { return p.fb.Image() }

// FrameBuffer exposes the render target.
func (p *Pipeline) FrameBuffer() *FrameBuffer { return p.fb }

// Triangles is the number of triangles rasterized since Begin.
func (p *Pipeline) Triangles() int { return p.triangles }

// DrawTriangles projects verts with world and rasterizes tris in col.
// Triangles with a vertex behind the eye are skipped.
func (p *Pipeline) DrawTriangles(world mgl64.Mat4, verts []mgl64.Vec3, tris [][3]int, col color.NRGBA) error {
	mvp := p.uniforms[ProjectionUniform].Mul4(p.uniforms[ViewUniform]).Mul4(world)
	w, h := float64(p.fb.Width), float64(p.fb.Height)
	base := [3]uint8{col.R, col.G, col.B}

	for ti, tri := range tris {
		var px, py, pz [3]float64
		var wp [3]mgl64.Vec3
		visible := true
		for k, vi := range tri {
			if vi < 0 || vi >= len(verts) {
				return fmt.Errorf("raster: triangle %d: vertex index %d out of range", ti, vi)
			}
			v := verts[vi]
			wp[k] = mathutil.MulPoint(world, v)
			clip := mvp.Mul4x1(v.Vec4(1))
			if clip[3] <= 1e-9 {
				visible = false
				break
			}
			ndc := clip.Vec3().Mul(1 / clip[3])
			px[k] = (ndc[0] + 1) * 0.5 * w
			py[k] = (1 - ndc[1]) * 0.5 * h
			pz[k] = -ndc[2]
		}
		if !visible {
			continue
		}

		n := wp[1].Sub(wp[0]).Cross(wp[2].Sub(wp[0]))
		if n.Len() < 1e-12 {
			continue
		}
		shade := p.Light.ComputeShade(n.Normalize())
		RasterizeTriangle(p.fb, px, py, pz, p.Light.shadeColor(base, shade), col.A)
		p.triangles++
	}
	return nil
}
