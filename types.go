// Package sweep implements a turtle-driven sweep-geometry kernel: a stateful
// 3D turtle that records or replays motion commands and uses them to generate
// triangle meshes by sweeping 2D cross-section shapes along paths (extrude,
// loft, bezier-safe loft, revolve), plus an attach/clone-face mechanism that
// edits existing meshes with the same machinery.
package sweep

import "math"

// PenMode controls whether forward moves leave trace segments.
type PenMode int

const (
	PenDown PenMode = iota
	PenUp
)

// ResolutionMode selects the policy for lowering curves into discrete steps.
type ResolutionMode int

const (
	// ResolutionCount uses a fixed number of steps per curve.
	ResolutionCount ResolutionMode = iota
	// ResolutionAngle uses a fixed number of degrees per step.
	ResolutionAngle
	// ResolutionLength uses a fixed arc length per step.
	ResolutionLength
)

// Resolution is the curve-lowering policy carried by a turtle and captured
// into recorded paths.
type Resolution struct {
	Mode  ResolutionMode
	Value float64
}

// Steps derives a step count for a curve of the given sweep angle (degrees)
// and arc length. The result is always at least 1.
func (r Resolution) Steps(angleDeg, arcLen float64) int {
	var n int
	switch r.Mode {
	case ResolutionAngle:
		if r.Value > 0 {
			n = int(math.Ceil(math.Abs(angleDeg) / r.Value))
		}
	case ResolutionLength:
		if r.Value > 0 {
			n = int(math.Ceil(arcLen / r.Value))
		}
	default:
		n = int(r.Value)
	}
	if n < 1 {
		n = 1
	}
	return n
}

// JointMode controls corner handling during sweeps.
type JointMode int

const (
	// JointMiter places a single ring at each sharp corner.
	JointMiter JointMode = iota
	// JointRound subdivides sharp corners into a fan of rotated rings.
	JointRound
)

// AttachMode distinguishes move-only attachment from incremental extrusion.
type AttachMode int

const (
	AttachMove AttachMode = iota
	AttachExtrude
)

const (
	// epsilon is the tolerance used for degenerate-geometry checks.
	epsilon = 1e-9

	// selfIntersectSamples is the fixed pose count the self-intersection
	// heuristic resamples a path to.
	selfIntersectSamples = 32

	// autoControlRatio scales auto-generated bezier control points as a
	// fraction of the chord length.
	autoControlRatio = 0.33

	// roundJointStepDeg is the angular granularity of corner fans in
	// JointRound mode.
	roundJointStepDeg = 15.0
)

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
