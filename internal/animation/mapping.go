package animation

import (
	"cg-scene-renderer/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// By convention component 0 of a sample is the curve parameter and component 1 the
// angle (radians) or offset to apply.

// RotateAbout rotates by Point[1] radians around axis, on top of Base.
func RotateAbout(axis mathutil.Axis) Mapping {
	return func(s Sample) mgl64.Mat4 {
		return mathutil.Rotate(axis, s.Point[1]).Mul4(s.Base)
	}
}

// Translate2D translates by (Point[0], Point[1]) on top of Base.
func Translate2D() Mapping {
	return func(s Sample) mgl64.Mat4 {
		return mgl64.Translate3D(s.Point[0], s.Point[1], 0).Mul4(s.Base)
	}
}

// FollowPath moves the node to the sample point plus offset, on top of Base.
func FollowPath(offset mgl64.Vec3) Mapping {
	return func(s Sample) mgl64.Mat4 {
		p := s.Point.Add(offset)
		return mgl64.Translate3D(p[0], p[1], p[2]).Mul4(s.Base)
	}
}

// PhaseStep is the rotation used while a given playlist phase is active.
type PhaseStep struct {
	Axis mathutil.Axis
	// Compose keeps the transform reached by the previous phase (Carry) and
	// rotates it further; otherwise the rotation replaces it.
	Compose bool
}

// PhaseRotations picks steps[phase % len(steps)] and rotates by Point[1] radians.
func PhaseRotations(steps ...PhaseStep) Mapping {
	if len(steps) == 0 {
		steps = []PhaseStep{{Axis: mathutil.AxisX}}
	}
	return func(s Sample) mgl64.Mat4 {
		st := steps[s.Phase%len(steps)]
		r := mathutil.Rotate(st.Axis, s.Point[1])
		if st.Compose {
			return r.Mul4(s.Carry)
		}
		return r
	}
}

// DanceSteps is the four-phase articulation: X, then Y and Z composed on the pose
// reached so far, then X again from scratch.
var DanceSteps = []PhaseStep{
	{Axis: mathutil.AxisX},
	{Axis: mathutil.AxisY, Compose: true},
	{Axis: mathutil.AxisZ, Compose: true},
	{Axis: mathutil.AxisX},
}
