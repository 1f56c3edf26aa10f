package sweep

import (
	"math"

	vec2 "github.com/flywave/go3d/float64/vec2"
)

// ShapeRecorder traces a 2D outline with turtle commands. Only planar motion
// is allowed; the 3D-only rotations (tv, tr) are usage errors here. Errors
// are sticky: the first one aborts the recording and surfaces from Shape.
type ShapeRecorder struct {
	pos        vec2.T
	angleDeg   float64
	resolution Resolution
	points     []vec2.T
	err        error
}

// NewShapeRecorder starts a shape at the origin, facing +Y.
func NewShapeRecorder() *ShapeRecorder {
	return &ShapeRecorder{
		resolution: Resolution{Mode: ResolutionCount, Value: 16},
		points:     []vec2.T{{0, 0}},
	}
}

// SetResolution overrides the arc-lowering policy for this recording.
func (r *ShapeRecorder) SetResolution(res Resolution) *ShapeRecorder {
	r.resolution = res
	return r
}

func (r *ShapeRecorder) dir() vec2.T {
	rad := degToRad(r.angleDeg)
	return vec2.T{-math.Sin(rad), math.Cos(rad)}
}

// F moves forward, appending an outline point.
func (r *ShapeRecorder) F(dist float64) *ShapeRecorder {
	if r.err != nil {
		return r
	}
	d := r.dir()
	d.Scale(dist)
	r.pos = vec2.Add(&r.pos, &d)
	r.points = append(r.points, r.pos)
	return r
}

// Th turns in the plane. Positive angles turn left.
func (r *ShapeRecorder) Th(deg float64) *ShapeRecorder {
	if r.err != nil {
		return r
	}
	r.angleDeg += deg
	return r
}

// Tv is not meaningful in a 2D shape recording and records a usage error.
func (r *ShapeRecorder) Tv(float64) *ShapeRecorder {
	if r.err == nil {
		r.err = usageError(OpTurnV, "shape recording", "vertical rotation requires a 3D path")
	}
	return r
}

// Tr is not meaningful in a 2D shape recording and records a usage error.
func (r *ShapeRecorder) Tr(float64) *ShapeRecorder {
	if r.err == nil {
		r.err = usageError(OpRoll, "shape recording", "roll requires a 3D path")
	}
	return r
}

// ArcH lowers a planar arc into chord steps, mirroring the 3D arc walker.
func (r *ShapeRecorder) ArcH(radius, angleDeg float64, steps int) *ShapeRecorder {
	if r.err != nil || radius == 0 || angleDeg == 0 {
		return r
	}
	arcLen := math.Abs(degToRad(angleDeg)) * math.Abs(radius)
	if steps <= 0 {
		steps = r.resolution.Steps(angleDeg, arcLen)
	}
	stepAngle := angleDeg / float64(steps)
	chord := 2 * math.Abs(radius) * math.Sin(math.Abs(degToRad(stepAngle))/2)
	r.Th(stepAngle / 2)
	for i := 0; i < steps; i++ {
		r.F(chord)
		if i < steps-1 {
			r.Th(stepAngle)
		}
	}
	r.Th(stepAngle / 2)
	return r
}

// Shape finalizes the recording. Closed recordings drop a duplicated final
// point when the outline returns to its start.
func (r *ShapeRecorder) Shape(closed bool) (*Shape, error) {
	if r.err != nil {
		return nil, r.err
	}
	pts := r.points
	if closed && len(pts) > 1 {
		d := vec2.Sub(&pts[len(pts)-1], &pts[0])
		if d.Length() < 1e-6 {
			pts = pts[:len(pts)-1]
		}
	}
	return &Shape{Points: append([]vec2.T(nil), pts...), Closed: closed}, nil
}
