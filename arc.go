package sweep

import "math"

// lowerArc decomposes an arc into the standard rotate-half, move,
// rotate-half sequence: the turtle enters and leaves tangent to the arc, and
// each forward step covers one chord of length 2·r·sin(stepAngle/2).
// Horizontal arcs turn with th, vertical arcs with tv. Zero radius or angle
// lowers to nothing.
func lowerArc(res Resolution, vertical bool, radius, angleDeg float64, steps int) []Command {
	if radius == 0 || angleDeg == 0 {
		return nil
	}
	arcLen := math.Abs(degToRad(angleDeg)) * math.Abs(radius)
	if steps <= 0 {
		steps = res.Steps(angleDeg, arcLen)
	}
	op := OpTurnH
	if vertical {
		op = OpTurnV
	}
	stepAngle := angleDeg / float64(steps)
	chord := 2 * math.Abs(radius) * math.Sin(math.Abs(degToRad(stepAngle))/2)

	out := make([]Command, 0, 2*steps+1)
	out = append(out, Command{Op: op, Angle: stepAngle / 2, Smooth: true})
	for i := 0; i < steps; i++ {
		out = append(out, Command{Op: OpForward, Dist: chord, Smooth: true})
		if i < steps-1 {
			out = append(out, Command{Op: op, Angle: stepAngle, Smooth: true})
		}
	}
	out = append(out, Command{Op: op, Angle: stepAngle / 2, Smooth: true})
	return out
}
