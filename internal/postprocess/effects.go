package postprocess

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"golang.org/x/image/draw"
)

// ErrUnknownEffect is returned by ParseEffect for unrecognized names.
var ErrUnknownEffect = errors.New("postprocess: unknown effect")

// Effect is a full-frame filter applied after rasterization.
type Effect string

const (
	EffectNone      Effect = "none"
	EffectBlur      Effect = "blur"
	EffectGrayscale Effect = "grayscale"
	EffectEdges     Effect = "edges"
	EffectSharpen   Effect = "sharpen"
	EffectInvert    Effect = "invert"
)

// Effects lists every supported effect.
var Effects = []Effect{EffectNone, EffectBlur, EffectGrayscale, EffectEdges, EffectSharpen, EffectInvert}

// ParseEffect maps a name to an Effect. The empty string means EffectNone.
func ParseEffect(s string) (Effect, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return EffectNone, nil
	}
	for _, e := range Effects {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEffect, s)
}

// BlurRadius is the Gaussian radius used by EffectBlur.
const BlurRadius = 2.0

// Apply runs e over img. EffectNone returns img unchanged.
func Apply(img *image.NRGBA, e Effect) (*image.NRGBA, error) {
	var out image.Image
	switch e {
	case EffectNone, "":
		return img, nil
	case EffectBlur:
		out = blur.Gaussian(img, BlurRadius)
	case EffectGrayscale:
		out = effect.Grayscale(img)
	case EffectEdges:
		out = effect.Sobel(img)
	case EffectSharpen:
		out = effect.Sharpen(img)
	case EffectInvert:
		out = effect.Invert(img)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, e)
	}
	return toNRGBA(out, img), nil
}

// toNRGBA converts a filter result back to NRGBA, keeping the source alpha
// for filters that drop it.
func toNRGBA(out image.Image, src *image.NRGBA) *image.NRGBA {
	if n, ok := out.(*image.NRGBA); ok {
		return n
	}
	b := out.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, out, b.Min, draw.Src)
	if _, gray := out.(*image.Gray); gray {
		for i := 3; i < len(dst.Pix) && i < len(src.Pix); i += 4 {
			dst.Pix[i] = src.Pix[i]
		}
	}
	return dst
}
