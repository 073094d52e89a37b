// Package curve evaluates cubic parametric curves (Catmull-Rom, Bezier, Hermite)
// into dense, fully materialized point sequences.
package curve

import (
	"errors"
	"fmt"

	"cg-scene-renderer/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidArgument reports a sample count or control point set the evaluator cannot use.
var ErrInvalidArgument = errors.New("invalid argument")

// Point is a control point or curve sample.
type Point = mgl64.Vec3

// Curve is an ordered, read-only sequence of sampled points.
type Curve []Point

// Len returns the number of samples.
func (c Curve) Len() int { return len(c) }

// At returns sample i. It panics on an out-of-range index like a slice access.
func (c Curve) At(i int) mgl64.Vec3 { return c[i] }

// Last returns the final sample, or the zero point for an empty curve.
func (c Curve) Last() mgl64.Vec3 {
	if len(c) == 0 {
		return mgl64.Vec3{}
	}
	return c[len(c)-1]
}

// Option tunes evaluation.
type Option func(*options)

type options struct {
	truncate bool
}

// Truncate accepts sample counts that do not divide evenly among the segments.
// Each segment then receives n/segments samples (integer division) and the
// remainder is dropped, so the curve is shorter than n.
func Truncate() Option {
	return func(o *options) { o.truncate = true }
}

func collect(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// perSegment validates n against the segment count and returns the samples per segment.
func perSegment(kind string, n, segments int, o options) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("curve: %s sample count %d: %w", kind, n, ErrInvalidArgument)
	}
	if n < segments {
		return 0, fmt.Errorf("curve: %s sample count %d below %d segments: %w", kind, n, segments, ErrInvalidArgument)
	}
	if n%segments != 0 && !o.truncate {
		return 0, fmt.Errorf("curve: %s sample count %d not divisible by %d segments: %w", kind, n, segments, ErrInvalidArgument)
	}
	return n / segments, nil
}

// sample evaluates every segment at the same per-segment parameters and lays the
// results out segment after segment.
func sample(segs []segment, per int) Curve {
	ts := mathutil.Linspace(0, 1, per)
	out := make(Curve, per*len(segs))
	for k, s := range segs {
		off := k * per
		for i, t := range ts {
			out[off+i] = s.at(t)
		}
	}
	return out
}

// EvalCatmullRomChain evaluates len(points)-3 chained Catmull-Rom segments over the
// overlapping windows points[k..k+3], n/segments samples each.
func EvalCatmullRomChain(points []mgl64.Vec3, n int, opts ...Option) (Curve, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("curve: catmull-rom needs at least 4 control points, got %d: %w", len(points), ErrInvalidArgument)
	}
	segments := len(points) - 3
	per, err := perSegment("catmull-rom", n, segments, collect(opts))
	if err != nil {
		return nil, err
	}
	segs := make([]segment, segments)
	for k := range segs {
		segs[k] = newSegment(CatmullRomBasis, points[k], points[k+1], points[k+2], points[k+3])
	}
	return sample(segs, per), nil
}

// EvalCatmullRom evaluates the 4-segment spline through 7 control points.
func EvalCatmullRom(points [7]mgl64.Vec3, n int, opts ...Option) (Curve, error) {
	return EvalCatmullRomChain(points[:], n, opts...)
}

// EvalCatmullRomLong evaluates the 8-segment spline through 11 control points,
// used for longer camera paths.
func EvalCatmullRomLong(points [11]mgl64.Vec3, n int, opts ...Option) (Curve, error) {
	return EvalCatmullRomChain(points[:], n, opts...)
}

// EvalBezier evaluates one cubic Bezier segment at n samples.
func EvalBezier(points [4]mgl64.Vec3, n int) (Curve, error) {
	per, err := perSegment("bezier", n, 1, options{})
	if err != nil {
		return nil, err
	}
	s := newSegment(BezierBasis, points[0], points[1], points[2], points[3])
	return sample([]segment{s}, per), nil
}

// EvalHermite evaluates the cubic Hermite segment from p0 to p1 with tangents t0, t1.
func EvalHermite(p0, p1, t0, t1 mgl64.Vec3, n int) (Curve, error) {
	per, err := perSegment("hermite", n, 1, options{})
	if err != nil {
		return nil, err
	}
	s := newSegment(HermiteBasis, p0, p1, t0, t1)
	return sample([]segment{s}, per), nil
}

// EvalHermiteBezier builds a composite curve: the first n/2 samples follow the Hermite
// segment (p0, p1, t0, t1) and the last n/2 follow the Bezier segment.
func EvalHermiteBezier(hermite, bezier [4]mgl64.Vec3, n int, opts ...Option) (Curve, error) {
	per, err := perSegment("hermite-bezier", n, 2, collect(opts))
	if err != nil {
		return nil, err
	}
	return sample([]segment{
		newSegment(HermiteBasis, hermite[0], hermite[1], hermite[2], hermite[3]),
		newSegment(BezierBasis, bezier[0], bezier[1], bezier[2], bezier[3]),
	}, per), nil
}
