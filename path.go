package sweep

import (
	"math"

	vec3 "github.com/flywave/go3d/float64/vec3"
)

// Path is an ordered command sequence plus the resolution/joint snapshot it
// was recorded under. Bezier is set once any bezier-derived command is
// recorded; sweeps use it to arm the self-intersection heuristic.
type Path struct {
	Commands   []Command
	Resolution Resolution
	Joint      JointMode
	Bezier     bool
}

// Length sums the forward and lateral travel of the path.
func (p *Path) Length() float64 {
	var total float64
	for _, c := range p.Commands {
		if c.isMove() {
			total += math.Abs(c.Dist)
		}
	}
	return total
}

// Recorder accumulates commands against an isolated turtle state seeded from
// a live turtle, never mutating the live one. Curve commands are lowered at
// record time so every replay consumer sees uniform step granularity.
// Errors are sticky; Path surfaces the first one.
type Recorder struct {
	path  *Path
	state *Turtle
	err   error
}

// NewRecorder starts a recording from the default turtle state.
func NewRecorder() *Recorder {
	return NewTurtle().NewRecorder()
}

// NewRecorder starts a recording seeded from this turtle's pose, resolution
// and joint mode. The live turtle is not touched by recording.
func (t *Turtle) NewRecorder() *Recorder {
	iso := t.Clone()
	return &Recorder{
		path:  &Path{Resolution: iso.Resolution, Joint: iso.Joint},
		state: iso,
	}
}

func (r *Recorder) record(c Command) {
	if r.err != nil {
		return
	}
	r.path.Commands = append(r.path.Commands, c)
	r.state.Pose = applyMotion(r.state.Pose, c)
}

func (r *Recorder) recordLowered(cmds []Command, bezier bool) {
	if r.err != nil {
		return
	}
	r.path.Commands = append(r.path.Commands, cmds...)
	for _, c := range cmds {
		r.state.Pose = applyMotion(r.state.Pose, c)
	}
	if bezier {
		r.path.Bezier = true
	}
}

// F records a forward move.
func (r *Recorder) F(dist float64) *Recorder {
	r.record(Command{Op: OpForward, Dist: dist})
	return r
}

// Th records a yaw.
func (r *Recorder) Th(deg float64) *Recorder {
	r.record(Command{Op: OpTurnH, Angle: deg})
	return r
}

// Tv records a pitch.
func (r *Recorder) Tv(deg float64) *Recorder {
	r.record(Command{Op: OpTurnV, Angle: deg})
	return r
}

// Tr records a roll.
func (r *Recorder) Tr(deg float64) *Recorder {
	r.record(Command{Op: OpRoll, Angle: deg})
	return r
}

// U records an upward lateral move.
func (r *Recorder) U(dist float64) *Recorder {
	r.record(Command{Op: OpUp, Dist: dist})
	return r
}

// D records a downward lateral move.
func (r *Recorder) D(dist float64) *Recorder {
	r.record(Command{Op: OpDown, Dist: dist})
	return r
}

// Rt records a rightward lateral move.
func (r *Recorder) Rt(dist float64) *Recorder {
	r.record(Command{Op: OpRight, Dist: dist})
	return r
}

// Lt records a leftward lateral move.
func (r *Recorder) Lt(dist float64) *Recorder {
	r.record(Command{Op: OpLeft, Dist: dist})
	return r
}

// ArcH lowers a horizontal arc against the recording's resolution snapshot.
func (r *Recorder) ArcH(radius, angleDeg float64, steps int) *Recorder {
	r.recordLowered(lowerArc(r.path.Resolution, false, radius, angleDeg, steps), false)
	return r
}

// ArcV lowers a vertical arc.
func (r *Recorder) ArcV(radius, angleDeg float64, steps int) *Recorder {
	r.recordLowered(lowerArc(r.path.Resolution, true, radius, angleDeg, steps), false)
	return r
}

// BezierTo lowers a cubic bezier from the recording pose to target.
func (r *Recorder) BezierTo(target vec3.T, controls []vec3.T, steps int) *Recorder {
	if r.err != nil {
		return r
	}
	r.recordLowered(lowerBezier(r.state.Pose, target, controls, r.path.Resolution, steps), true)
	return r
}

// BezierToAnchor lowers a tension-weighted bezier to a pose marked earlier in
// this recording (or inherited from the seeding turtle).
func (r *Recorder) BezierToAnchor(name string, tension float64, steps int) *Recorder {
	if r.err != nil {
		return r
	}
	anchor, ok := r.state.Anchors[name]
	if !ok {
		r.err = &UsageError{Command: OpBezierToAnchor.String(), Context: "recording", Reason: "unknown anchor " + name}
		return r
	}
	r.recordLowered(lowerBezierToPose(r.state.Pose, anchor, tension, r.path.Resolution, steps), true)
	return r
}

// BezierAs resamples a polyline into uniform chords and lowers it.
func (r *Recorder) BezierAs(points []vec3.T, steps int) *Recorder {
	if r.err != nil {
		return r
	}
	r.recordLowered(lowerPolyline(r.state.Pose, points, r.path.Resolution, steps), true)
	return r
}

// Mark names the pose reached at this point of the path.
func (r *Recorder) Mark(name string) *Recorder {
	if r.err != nil {
		return r
	}
	r.path.Commands = append(r.path.Commands, Command{Op: OpMark, Name: name})
	r.state.Anchors[name] = r.state.Pose
	return r
}

// Inset records an attach-only boundary inset. Replaying it outside an
// attach context is a usage error.
func (r *Recorder) Inset(dist float64) *Recorder {
	if r.err != nil {
		return r
	}
	r.path.Commands = append(r.path.Commands, Command{Op: OpInset, Dist: dist})
	return r
}

// Scale records an attach-only scale about the driven centroid.
func (r *Recorder) Scale(factor float64) *Recorder {
	if r.err != nil {
		return r
	}
	r.path.Commands = append(r.path.Commands, Command{Op: OpScale, Factor: factor})
	return r
}

// MoveTo records an attach-only relocation to a world-space target.
func (r *Recorder) MoveTo(target vec3.T) *Recorder {
	if r.err != nil {
		return r
	}
	r.path.Commands = append(r.path.Commands, Command{Op: OpMoveTo, Target: target})
	return r
}

// Path finalizes the recording.
func (r *Recorder) Path() (*Path, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.path, nil
}

// Replay folds the path through the same primitive operations used for live
// execution, against a clone of the given turtle state. It returns the final
// state and the sequence of intermediate poses, one per discrete step (the
// granularity sweep generators consume).
func Replay(t *Turtle, p *Path) (*Turtle, []Pose, error) {
	st, runs, err := replayRuns(t, p)
	if err != nil {
		return nil, nil, err
	}
	return st, flattenRuns(runs), nil
}

// replayRuns replays the path and groups the emitted poses into runs split at
// sharp corners (explicit, non-smooth rotations). Loft builds one mesh per
// run; extrude flattens them. In JointRound mode sharp corners are subdivided
// into an orientation fan inside the run instead of splitting it.
func replayRuns(t *Turtle, p *Path) (*Turtle, [][]Pose, error) {
	st := t.Clone()
	st.Resolution = p.Resolution
	st.Joint = p.Joint

	var runs [][]Pose
	cur := []Pose{st.Pose}

	var step func(c Command) error
	step = func(c Command) error {
		switch {
		case c.Op == OpMark:
			st.Anchors[c.Name] = st.Pose
		case c.isAttachOnly():
			return usageError(c.Op, "replay", "requires an attached mesh or face")
		case c.Op == OpArcH:
			return stepAll(step, lowerArc(p.Resolution, false, c.Radius, c.Angle, c.Steps))
		case c.Op == OpArcV:
			return stepAll(step, lowerArc(p.Resolution, true, c.Radius, c.Angle, c.Steps))
		case c.Op == OpBezierTo:
			return stepAll(step, lowerBezier(st.Pose, c.Target, c.Controls, p.Resolution, c.Steps))
		case c.Op == OpBezierToAnchor:
			anchor, ok := st.Anchors[c.Name]
			if !ok {
				return &UsageError{Command: c.Op.String(), Context: "replay", Reason: "unknown anchor " + c.Name}
			}
			return stepAll(step, lowerBezierToPose(st.Pose, anchor, c.Tension, p.Resolution, c.Steps))
		case c.Op == OpBezierAs:
			return stepAll(step, lowerPolyline(st.Pose, c.Points, p.Resolution, c.Steps))
		case c.isRotation():
			if c.Smooth || c.Angle == 0 {
				st.Pose = applyMotion(st.Pose, c)
				break
			}
			if len(cur) < 2 {
				// Corner before any travel: just reorient the run start.
				st.Pose = applyMotion(st.Pose, c)
				cur[len(cur)-1] = st.Pose
				break
			}
			if st.Joint == JointRound {
				n := int(math.Ceil(math.Abs(c.Angle) / roundJointStepDeg))
				if n < 1 {
					n = 1
				}
				sub := c
				sub.Angle = c.Angle / float64(n)
				for i := 0; i < n; i++ {
					st.Pose = applyMotion(st.Pose, sub)
					cur = append(cur, st.Pose)
				}
				break
			}
			st.Pose = applyMotion(st.Pose, c)
			runs = append(runs, cur)
			cur = []Pose{st.Pose}
		case c.isMove():
			st.Pose = applyMotion(st.Pose, c)
			cur = append(cur, st.Pose)
		}
		return nil
	}

	for _, c := range p.Commands {
		if err := step(c); err != nil {
			return nil, nil, err
		}
	}
	runs = append(runs, cur)
	return st, runs, nil
}

func stepAll(step func(Command) error, cmds []Command) error {
	for _, c := range cmds {
		if err := step(c); err != nil {
			return err
		}
	}
	return nil
}

// flattenRuns joins runs into one pose sequence, keeping a single pose per
// corner. The corner pose carries the outgoing (post-rotation) orientation,
// which each following run starts with.
func flattenRuns(runs [][]Pose) []Pose {
	if len(runs) == 0 {
		return nil
	}
	out := append([]Pose(nil), runs[0]...)
	for _, run := range runs[1:] {
		if len(run) == 0 {
			continue
		}
		if len(out) > 0 {
			out[len(out)-1] = run[0]
		}
		out = append(out, run[1:]...)
	}
	return out
}

// runLengths returns each run's travel length and the total.
func runLengths(runs [][]Pose) ([]float64, float64) {
	lengths := make([]float64, len(runs))
	var total float64
	for i, run := range runs {
		for j := 1; j < len(run); j++ {
			d := vec3.Sub(&run[j].Position, &run[j-1].Position)
			lengths[i] += d.Length()
		}
		total += lengths[i]
	}
	return lengths, total
}
