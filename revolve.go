package sweep

import (
	"math"

	vec3 "github.com/flywave/go3d/float64/vec3"
)

// revolveRing places a clipped cross-section at revolution angle phi around
// the turtle's up axis: local x maps onto the rotated radial direction, local
// y stays on up.
func revolveRing(shape *Shape, pose Pose, phi float64) []vec3.T {
	r := pose.Right()
	radial := r.Scaled(math.Cos(phi))
	swing := pose.Heading.Scaled(math.Sin(phi))
	radial.Add(&swing)
	ring := make([]vec3.T, len(shape.Points))
	for i, pt := range shape.Points {
		p := pose.Position
		dx := radial.Scaled(pt[0])
		dy := pose.Up.Scaled(pt[1])
		p.Add(&dx)
		p.Add(&dy)
		ring[i] = p
	}
	return ring
}

// Revolve lathes a profile around the turtle's up axis through angleDeg
// degrees. Each angular step samples the profile at its revolution progress
// and clips it to the x >= 0 half-plane so the surface cannot cross its own
// axis; a profile clipped away entirely yields an empty mesh. A full 360
// degree revolution welds the last ring to the first and emits no caps;
// partial revolutions are capped with profile fans at both ends.
func (t *Turtle) Revolve(prof Profile, angleDeg float64) (*Mesh, error) {
	if prof == nil || angleDeg == 0 {
		logger.Debug("revolve skipped: no profile or zero angle")
		return NewMesh(t.Pose, t.Material), nil
	}
	first := prof.At(0)
	if first == nil || len(first.Points) < 2 {
		logger.Debug("revolve skipped: degenerate profile")
		return NewMesh(t.Pose, t.Material), nil
	}
	firstClipped := first.clipAxis()
	if firstClipped == nil {
		logger.Debug("revolve skipped: profile lies entirely past the axis")
		return NewMesh(t.Pose, t.Material), nil
	}
	n0 := len(firstClipped.Points)

	full := math.Abs(math.Abs(angleDeg)-360) < epsilon
	steps := t.Resolution.Steps(angleDeg, math.Abs(degToRad(angleDeg))*firstClipped.Radius())
	if steps < 3 && full {
		steps = 3
	}

	ringCount := steps + 1
	if full {
		ringCount = steps
	}
	rings := make([][]vec3.T, 0, ringCount)
	for i := 0; i < ringCount; i++ {
		frac := float64(i) / float64(steps)
		shape := prof.At(clamp(frac, 0, 1))
		if shape == nil || len(shape.Points) < 2 {
			shape = first
		}
		shape = shape.clipAxis()
		if shape == nil {
			logger.Debug("revolve skipped: profile clipped away mid-revolution")
			return NewMesh(t.Pose, t.Material), nil
		}
		if len(shape.Points) != n0 {
			shape = shape.Resample(n0)
		}
		rings = append(rings, revolveRing(shape, t.Pose, degToRad(angleDeg)*frac))
	}

	m := tubeMesh(rings, firstClipped.Closed, full, !full, !full, angleDeg < 0, t.Pose, t.Material)
	t.Meshes = append(t.Meshes, m)
	return m, nil
}
