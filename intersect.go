package sweep

import (
	vec3 "github.com/flywave/go3d/float64/vec3"
)

// SelfIntersects estimates whether sweeping a cross-section of the given
// radius along the path would fold the surface into itself. The replayed
// poses are resampled to a fixed count and each consecutive pair is checked:
// when the lateral displacement of the outline under the local turn exceeds
// the forward travel, scaled by the threshold, the rings overlap. threshold
// is in [0,1]; lower values flag gentler curves. The check is a heuristic
// over sampled poses, not an exact surface test, so very short kinks between
// samples can escape it.
func SelfIntersects(t *Turtle, p *Path, shapeRadius, threshold float64) bool {
	if p == nil || shapeRadius < epsilon {
		return false
	}
	threshold = clamp(threshold, 0, 1)
	_, poses, err := Replay(t, p)
	if err != nil || len(poses) < 2 {
		return false
	}
	poses = resamplePoses(poses, selfIntersectSamples)
	for i := 1; i < len(poses); i++ {
		turn := headingAngle(&poses[i-1].Heading, &poses[i].Heading)
		d := vec3.Sub(&poses[i].Position, &poses[i-1].Position)
		chord := d.Length()
		if shapeRadius*turn > chord*threshold+epsilon {
			logger.Debug("self-intersection detected along path")
			return true
		}
	}
	return false
}
