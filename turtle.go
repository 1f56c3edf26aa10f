package sweep

import (
	vec3 "github.com/flywave/go3d/float64/vec3"
)

// LineSegment is one pen-trace segment left behind by a forward move.
type LineSegment struct {
	From, To vec3.T
}

// Stamp is a debug overlay: a 2D shape pinned at the pose it was stamped at.
type Stamp struct {
	Shape *Shape
	Pose  Pose
}

// Turtle is the live kernel state: a pose plus pen, resolution and joint
// policies, the inherited material, named anchors, a save/restore stack, an
// optional attach context and the per-scope geometry accumulators.
type Turtle struct {
	Pose       Pose
	Pen        PenMode
	Resolution Resolution
	Joint      JointMode
	Material   MeshMaterial

	// IntersectThreshold tunes the self-intersection heuristic in [0,1];
	// lower is more sensitive.
	IntersectThreshold float64

	// Union is the external mesh-boolean capability consumed by Bloft.
	Union Unioner

	Anchors map[string]Pose

	stack  []Pose
	attach *AttachContext
	err    error

	// Accumulators. Reset on Clone, discarded at scope exit.
	Trace  []LineSegment
	Stamps []Stamp
	Meshes []*Mesh
}

// NewTurtle returns a fresh turtle at the origin pose with default policies.
func NewTurtle() *Turtle {
	return &Turtle{
		Pose:               NewPose(),
		Pen:                PenDown,
		Resolution:         Resolution{Mode: ResolutionCount, Value: 16},
		Joint:              JointMiter,
		Material:           &BaseMaterial{Color: [3]byte{200, 200, 200}},
		IntersectThreshold: 1,
		Union:              CombineUnion{},
		Anchors:            map[string]Pose{},
	}
}

// Clone copies pose and settings into a child turtle with fresh accumulators
// and an empty pose stack. Anchors are copied, not shared.
func (t *Turtle) Clone() *Turtle {
	anchors := make(map[string]Pose, len(t.Anchors))
	for k, v := range t.Anchors {
		anchors[k] = v
	}
	return &Turtle{
		Pose:               t.Pose,
		Pen:                t.Pen,
		Resolution:         t.Resolution,
		Joint:              t.Joint,
		Material:           t.Material,
		IntersectThreshold: t.IntersectThreshold,
		Union:              t.Union,
		Anchors:            anchors,
	}
}

// Scope runs fn against a child turtle, isolating geometry accumulators but
// not pose: the child's final pose flows back to the parent. The child's
// meshes are returned.
func (t *Turtle) Scope(fn func(*Turtle)) []*Mesh {
	child := t.Clone()
	fn(child)
	t.Pose = child.Pose
	return child.Meshes
}

// PushState saves the current pose. Accumulators are not captured.
func (t *Turtle) PushState() {
	t.stack = append(t.stack, t.Pose)
}

// PopState restores the most recently pushed pose. Popping past an empty
// stack is a no-op.
func (t *Turtle) PopState() {
	if len(t.stack) == 0 {
		return
	}
	t.Pose = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

// PenUp lifts the pen; forward moves stop tracing.
func (t *Turtle) PenUp() { t.Pen = PenUp }

// PenDown lowers the pen.
func (t *Turtle) PenDown() { t.Pen = PenDown }

// Err reports the first error recorded by a fluent motion method. The fluent
// methods return nothing themselves; Do returns errors directly.
func (t *Turtle) Err() error { return t.err }

func (t *Turtle) recordErr(err error) {
	if t.err == nil {
		t.err = err
	}
}

// F moves forward, tracing a segment while the pen is down. While attached,
// the move also transforms the attachment's vertices.
func (t *Turtle) F(dist float64) {
	if t.attach != nil {
		t.recordErr(t.attach.apply(t, Command{Op: OpForward, Dist: dist}))
		return
	}
	from := t.Pose.Position
	t.Pose = t.Pose.Forward(dist)
	if t.Pen == PenDown {
		t.Trace = append(t.Trace, LineSegment{From: from, To: t.Pose.Position})
	}
}

// Th yaws about the up axis; positive angles turn left.
func (t *Turtle) Th(deg float64) { t.motion(Command{Op: OpTurnH, Angle: deg}) }

// Tv pitches about the right axis; positive angles tilt toward up.
func (t *Turtle) Tv(deg float64) { t.motion(Command{Op: OpTurnV, Angle: deg}) }

// Tr rolls about the heading axis; positive angles bank up toward right.
func (t *Turtle) Tr(deg float64) { t.motion(Command{Op: OpRoll, Angle: deg}) }

// U moves laterally along up.
func (t *Turtle) U(dist float64) { t.motion(Command{Op: OpUp, Dist: dist}) }

// D moves laterally against up.
func (t *Turtle) D(dist float64) { t.motion(Command{Op: OpDown, Dist: dist}) }

// Rt moves laterally along right.
func (t *Turtle) Rt(dist float64) { t.motion(Command{Op: OpRight, Dist: dist}) }

// Lt moves laterally against right.
func (t *Turtle) Lt(dist float64) { t.motion(Command{Op: OpLeft, Dist: dist}) }

func (t *Turtle) motion(c Command) {
	if t.attach != nil {
		t.recordErr(t.attach.apply(t, c))
		return
	}
	t.Pose = applyMotion(t.Pose, c)
}

// ArcH walks a horizontal arc live, lowering it through the turtle's
// resolution policy. Zero radius or angle is a no-op.
func (t *Turtle) ArcH(radius, angleDeg float64, steps int) {
	t.walk(lowerArc(t.Resolution, false, radius, angleDeg, steps))
}

// ArcV walks a vertical arc live.
func (t *Turtle) ArcV(radius, angleDeg float64, steps int) {
	t.walk(lowerArc(t.Resolution, true, radius, angleDeg, steps))
}

// BezierTo walks a cubic bezier to the target point. With no controls, the
// control points are auto-generated from the entry heading and the chord.
func (t *Turtle) BezierTo(target vec3.T, controls []vec3.T, steps int) {
	t.walk(lowerBezier(t.Pose, target, controls, t.Resolution, steps))
}

// BezierToAnchor walks a tension-weighted bezier to a named anchor pose.
func (t *Turtle) BezierToAnchor(name string, tension float64, steps int) error {
	anchor, ok := t.Anchors[name]
	if !ok {
		return &UsageError{Command: OpBezierToAnchor.String(), Context: "live", Reason: "unknown anchor " + name}
	}
	t.walk(lowerBezierToPose(t.Pose, anchor, tension, t.Resolution, steps))
	return nil
}

// BezierAs resamples a polyline into uniform chords and walks it.
func (t *Turtle) BezierAs(points []vec3.T, steps int) {
	t.walk(lowerPolyline(t.Pose, points, t.Resolution, steps))
}

// SetAnchor names the current pose for later bezier-to-anchor targets.
func (t *Turtle) SetAnchor(name string) {
	t.Anchors[name] = t.Pose
}

// StampShape records a debug overlay of the shape at the current pose.
func (t *Turtle) StampShape(s *Shape) {
	t.Stamps = append(t.Stamps, Stamp{Shape: s, Pose: t.Pose})
}

// Do dispatches one command against the live turtle. Commands that are only
// meaningful during recording or attachment fail fast.
func (t *Turtle) Do(c Command) error {
	if t.attach != nil {
		return t.attach.apply(t, c)
	}
	switch {
	case c.Op == OpMark:
		return usageError(OpMark, "live", "anchors are recorded into paths; use SetAnchor on a live turtle")
	case c.isAttachOnly():
		return usageError(c.Op, "live", "requires an attached mesh or face")
	case c.Op == OpForward:
		t.F(c.Dist)
	case c.isMove() || c.isRotation():
		t.Pose = applyMotion(t.Pose, c)
	case c.Op == OpArcH:
		t.ArcH(c.Radius, c.Angle, c.Steps)
	case c.Op == OpArcV:
		t.ArcV(c.Radius, c.Angle, c.Steps)
	case c.Op == OpBezierTo:
		t.BezierTo(c.Target, c.Controls, c.Steps)
	case c.Op == OpBezierToAnchor:
		return t.BezierToAnchor(c.Name, c.Tension, c.Steps)
	case c.Op == OpBezierAs:
		t.BezierAs(c.Points, c.Steps)
	}
	return nil
}

func (t *Turtle) walk(cmds []Command) {
	for _, c := range cmds {
		if c.Op == OpForward {
			t.F(c.Dist)
			continue
		}
		t.Pose = applyMotion(t.Pose, c)
	}
}
