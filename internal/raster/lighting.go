package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir  mgl64.Vec3
	RimDir    mgl64.Vec3
	ViewDir   mgl64.Vec3
	HalfMain  mgl64.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// DefaultLightConfig returns a key light from above-front and a cool rim from behind,
// for a z-up scene.
func DefaultLightConfig() LightConfig {
	lightDir := mgl64.Vec3{180, 140, 260}.Normalize()
	rimDir := mgl64.Vec3{-160, -210, 130}.Normalize()
	viewDir := mgl64.Vec3{0, -400, -110}.Normalize()

	halfMain := lightDir.Sub(viewDir).Normalize()

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		ViewDir:   viewDir,
		HalfMain:  halfMain,
		Ambient:   0.35,
		Hemi:      0.30,
		Direct:    1.10,
		Rim:       0.40,
		SpecInt:   0.30,
		SpecPow:   12.0,
		Exposure:  1.0,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a unit face normal.
func (lc *LightConfig) ComputeShade(normal mgl64.Vec3) float64 {
	// Lambertian (abs for double-sided)
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	// Hemisphere fill, z up
	hemi := (1.0-math.Abs(normal[2]))*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := normal.Dot(lc.HalfMain)
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadeColor lights an sRGB color: decode, scale, tone map, encode.
func (lc *LightConfig) shadeColor(c [3]uint8, shade float64) [3]uint8 {
	var out [3]uint8
	for k := 0; k < 3; k++ {
		lin := srgbToLinear[c[k]] * shade * lc.Exposure
		out[k] = clamp255(math.Pow(ACESTonemap(lin), lc.InvGamma) * 255)
	}
	return out
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
