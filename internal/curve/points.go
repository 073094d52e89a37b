package curve

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Points2D groups a flat x0, y0, x1, y1, ... list into points on the z = 0 plane.
func Points2D(flat ...float64) ([]mgl64.Vec3, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("curve: %d coordinates do not form 2D points: %w", len(flat), ErrInvalidArgument)
	}
	pts := make([]mgl64.Vec3, len(flat)/2)
	for i := range pts {
		pts[i] = mgl64.Vec3{flat[2*i], flat[2*i+1], 0}
	}
	return pts, nil
}

// Points3D groups a flat x0, y0, z0, x1, ... list into points.
func Points3D(flat ...float64) ([]mgl64.Vec3, error) {
	if len(flat)%3 != 0 {
		return nil, fmt.Errorf("curve: %d coordinates do not form 3D points: %w", len(flat), ErrInvalidArgument)
	}
	pts := make([]mgl64.Vec3, len(flat)/3)
	for i := range pts {
		pts[i] = mgl64.Vec3{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return pts, nil
}
