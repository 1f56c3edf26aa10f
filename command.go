package sweep

import (
	vec3 "github.com/flywave/go3d/float64/vec3"
)

// Op tags a Command variant.
type Op int

const (
	OpForward Op = iota
	OpTurnH
	OpTurnV
	OpRoll
	OpUp
	OpDown
	OpRight
	OpLeft
	OpArcH
	OpArcV
	OpBezierTo
	OpBezierToAnchor
	OpBezierAs
	OpMark
	OpInset
	OpScale
	OpMoveTo
)

var opNames = map[Op]string{
	OpForward:        "f",
	OpTurnH:          "th",
	OpTurnV:          "tv",
	OpRoll:           "tr",
	OpUp:             "u",
	OpDown:           "d",
	OpRight:          "rt",
	OpLeft:           "lt",
	OpArcH:           "arc-h",
	OpArcV:           "arc-v",
	OpBezierTo:       "bezier-to",
	OpBezierToAnchor: "bezier-to-anchor",
	OpBezierAs:       "bezier-as",
	OpMark:           "mark",
	OpInset:          "inset",
	OpScale:          "scale",
	OpMoveTo:         "move-to",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "unknown"
}

// Command is the tagged variant all turtle motion is expressed in. Only the
// fields relevant to Op are populated. Mark and the attach-only commands
// (Inset, Scale, MoveTo) are meaningful during recording/replay only.
type Command struct {
	Op       Op
	Dist     float64
	Angle    float64
	Radius   float64
	Steps    int
	Factor   float64
	Tension  float64
	Name     string
	Target   vec3.T
	Controls []vec3.T
	Points   []vec3.T

	// Smooth marks steps emitted by a curve walker. Sweep replay does not
	// treat smooth rotations as corners.
	Smooth bool
}

// isRotation reports whether the command changes orientation without moving.
func (c Command) isRotation() bool {
	switch c.Op {
	case OpTurnH, OpTurnV, OpRoll:
		return true
	}
	return false
}

// isMove reports whether the command translates the turtle one step.
func (c Command) isMove() bool {
	switch c.Op {
	case OpForward, OpUp, OpDown, OpRight, OpLeft:
		return true
	}
	return false
}

// isAttachOnly reports whether the command requires an attach context.
func (c Command) isAttachOnly() bool {
	switch c.Op {
	case OpInset, OpScale, OpMoveTo:
		return true
	}
	return false
}

// applyMotion folds a motion command into a pose. Rotations and translations
// only; callers dispatch the remaining ops per context.
func applyMotion(p Pose, c Command) Pose {
	switch c.Op {
	case OpForward:
		return p.Forward(c.Dist)
	case OpTurnH:
		return p.Yaw(c.Angle)
	case OpTurnV:
		return p.Pitch(c.Angle)
	case OpRoll:
		return p.Roll(c.Angle)
	case OpUp:
		return p.Shift(0, c.Dist)
	case OpDown:
		return p.Shift(0, -c.Dist)
	case OpRight:
		return p.Shift(c.Dist, 0)
	case OpLeft:
		return p.Shift(-c.Dist, 0)
	}
	return p
}
