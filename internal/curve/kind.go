package curve

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind names a curve family for data-driven evaluation.
type Kind string

const (
	KindCatmullRom    Kind = "catmull-rom"
	KindBezier        Kind = "bezier"
	KindHermite       Kind = "hermite"
	KindHermiteBezier Kind = "hermite-bezier"
)

// Evaluate dispatches on kind. Hermite expects p0, p1, t0, t1; hermite-bezier expects
// the four Hermite inputs followed by the four Bezier control points.
func Evaluate(kind Kind, points []mgl64.Vec3, n int, opts ...Option) (Curve, error) {
	switch kind {
	case KindCatmullRom:
		return EvalCatmullRomChain(points, n, opts...)
	case KindBezier:
		if len(points) != 4 {
			return nil, countErr(kind, 4, len(points))
		}
		return EvalBezier([4]mgl64.Vec3(points), n)
	case KindHermite:
		if len(points) != 4 {
			return nil, countErr(kind, 4, len(points))
		}
		return EvalHermite(points[0], points[1], points[2], points[3], n)
	case KindHermiteBezier:
		if len(points) != 8 {
			return nil, countErr(kind, 8, len(points))
		}
		return EvalHermiteBezier([4]mgl64.Vec3(points[:4]), [4]mgl64.Vec3(points[4:]), n, opts...)
	}
	return nil, fmt.Errorf("curve: unknown kind %q: %w", kind, ErrInvalidArgument)
}

func countErr(kind Kind, want, got int) error {
	return fmt.Errorf("curve: %s needs %d control points, got %d: %w", kind, want, got, ErrInvalidArgument)
}
