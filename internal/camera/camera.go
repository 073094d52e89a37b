// Package camera provides the orbit camera and the per-frame input state that
// drives it.
package camera

import (
	"math"

	"cg-scene-renderer/internal/curve"
	"cg-scene-renderer/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// SlowMotionScale is the time scale applied to animation while slow motion is on.
const SlowMotionScale = 0.25

// Input is the directional key state and toggles sampled once per frame.
type Input struct {
	Up, Down, Left, Right bool
	AutoCamera            bool
	SlowMotion            bool
}

// TimeScale returns the factor applied to frame time for animation drivers.
func (in Input) TimeScale() float64 {
	if in.SlowMotion {
		return SlowMotionScale
	}
	return 1
}

// Polar orbits Center at distance Rho and angle Theta, Height above it.
type Polar struct {
	Center mgl64.Vec3
	Up     mgl64.Vec3
	Theta  float64
	Rho    float64
	Height float64

	// Rho is only changed while it stays strictly inside (MinRho, MaxRho).
	// MaxRho <= 0 leaves it unbounded above.
	MinRho, MaxRho float64

	// ThetaRate and RhoRate are the per-second key speeds.
	ThetaRate, RhoRate float64

	path  curve.Curve
	index int
	eye   mgl64.Vec3
	auto  bool
}

// NewPolar returns the default orbit camera looking at center, z up.
func NewPolar(center mgl64.Vec3) *Polar {
	c := &Polar{
		Center:    center,
		Up:        mgl64.Vec3{0, 0, 1},
		Rho:       1,
		Height:    0.5,
		MinRho:    0.3,
		MaxRho:    1.5,
		ThetaRate: 2,
		RhoRate:   5,
	}
	c.orbit()
	return c
}

// SetPath sets the curve followed in auto mode.
func (c *Polar) SetPath(path curve.Curve) {
	c.path = path
	c.index = 0
}

// SetTheta rotates the orbit angle by delta, wrapping into [0, 2π).
func (c *Polar) SetTheta(delta float64) {
	c.Theta = math.Mod(c.Theta+delta, 2*math.Pi)
	if c.Theta < 0 {
		c.Theta += 2 * math.Pi
	}
}

// SetRho changes the orbit radius by delta unless that leaves the allowed range.
func (c *Polar) SetRho(delta float64) {
	r := c.Rho + delta
	if r <= c.MinRho {
		return
	}
	if c.MaxRho > 0 && r >= c.MaxRho {
		return
	}
	c.Rho = r
}

// Update applies one frame of input: arrows orbit and zoom, AutoCamera follows the path.
func (c *Polar) Update(in Input, dt float64) {
	if in.Left {
		c.SetTheta(-c.ThetaRate * dt)
	}
	if in.Right {
		c.SetTheta(c.ThetaRate * dt)
	}
	if in.Up {
		c.SetRho(-c.RhoRate * dt)
	}
	if in.Down {
		c.SetRho(c.RhoRate * dt)
	}
	c.auto = in.AutoCamera && len(c.path) > 0
	if c.auto {
		c.AutoView()
		return
	}
	c.orbit()
}

func (c *Polar) orbit() {
	c.eye = mgl64.Vec3{
		c.Rho*math.Sin(c.Theta) + c.Center[0],
		c.Rho*math.Cos(c.Theta) + c.Center[1],
		c.Height + c.Center[2],
	}
}

// AutoView moves the eye to the next point of the path, wrapping at the end.
func (c *Polar) AutoView() mgl64.Mat4 {
	if len(c.path) == 0 {
		return c.View()
	}
	c.index++
	if c.index >= len(c.path) {
		c.index = 0
	}
	c.eye = c.path[c.index]
	return c.View()
}

// Eye returns the current eye position.
func (c *Polar) Eye() mgl64.Vec3 { return c.eye }

// PathIndex returns the cursor into the auto-mode path.
func (c *Polar) PathIndex() int { return c.index }

// View returns the look-at matrix for the current eye.
func (c *Polar) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.eye, c.Center, c.Up)
}

// Perspective returns a projection matrix; fovy in degrees.
func Perspective(fovy, aspect, near, far float64) mgl64.Mat4 {
	return mgl64.Perspective(mathutil.Deg2Rad(fovy), aspect, near, far)
}
