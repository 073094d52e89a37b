package mathutil

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis selects one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis accepts "x", "y" or "z" (any case).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("mathutil: unknown axis %q", s)
}

// Rotate returns a homogeneous rotation around the given axis. Angle in radians.
func Rotate(axis Axis, a float64) mgl64.Mat4 {
	switch axis {
	case AxisY:
		return mgl64.HomogRotate3DY(a)
	case AxisZ:
		return mgl64.HomogRotate3DZ(a)
	default:
		return mgl64.HomogRotate3DX(a)
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
