package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsample(t *testing.T) {
	img := solid(64, 32, color.NRGBA{200, 100, 50, 255})
	out := Downsample(img, 16, 8)
	require.Equal(t, image.Rect(0, 0, 16, 8), out.Bounds())
	c := out.NRGBAAt(8, 4)
	assert.InDelta(t, 200, int(c.R), 2)
	assert.InDelta(t, 100, int(c.G), 2)
	assert.InDelta(t, 50, int(c.B), 2)
	assert.Equal(t, uint8(255), c.A)
}

func TestDownsampleNoop(t *testing.T) {
	img := solid(8, 8, color.NRGBA{1, 2, 3, 255})
	assert.Same(t, img, Downsample(img, 16, 16))
}

func TestDownsampleTransparentEdges(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	out := Downsample(img, 8, 8)
	// partially covered edge pixels keep their color instead of darkening
	for x := 0; x < 8; x++ {
		c := out.NRGBAAt(x, 4)
		if c.A > 16 {
			assert.GreaterOrEqual(t, int(c.R), 240, "x=%d", x)
		}
	}
}

func TestParseEffect(t *testing.T) {
	for _, e := range Effects {
		got, err := ParseEffect(string(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	got, err := ParseEffect("")
	require.NoError(t, err)
	assert.Equal(t, EffectNone, got)

	_, err = ParseEffect("bloom")
	assert.ErrorIs(t, err, ErrUnknownEffect)
}

func TestApply(t *testing.T) {
	img := solid(8, 8, color.NRGBA{200, 50, 10, 255})

	out, err := Apply(img, EffectNone)
	require.NoError(t, err)
	assert.Same(t, img, out)

	out, err = Apply(img, EffectInvert)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{55, 205, 245, 255}, out.NRGBAAt(3, 3))

	out, err = Apply(img, EffectGrayscale)
	require.NoError(t, err)
	c := out.NRGBAAt(3, 3)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
	assert.Equal(t, uint8(255), c.A)

	for _, e := range []Effect{EffectBlur, EffectEdges, EffectSharpen} {
		out, err = Apply(img, e)
		require.NoError(t, err, e)
		assert.Equal(t, img.Bounds(), out.Bounds(), e)
	}

	_, err = Apply(img, Effect("bloom"))
	assert.ErrorIs(t, err, ErrUnknownEffect)
}
