package sweep

import (
	"math"

	vec3 "github.com/flywave/go3d/float64/vec3"
)

// Pose is a position plus an orthonormal heading/up frame. The right vector
// is implicit: Right() == Cross(Heading, Up) everywhere in this kernel.
type Pose struct {
	Position vec3.T
	Heading  vec3.T
	Up       vec3.T
}

// NewPose returns the origin pose: heading +Y, up +Z, right +X.
func NewPose() Pose {
	return Pose{
		Position: vec3.Zero,
		Heading:  vec3.UnitY,
		Up:       vec3.UnitZ,
	}
}

// Right returns the implicit right vector of the frame.
func (p Pose) Right() vec3.T {
	return vec3.Cross(&p.Heading, &p.Up)
}

// Forward translates the pose along its heading.
func (p Pose) Forward(dist float64) Pose {
	step := p.Heading.Scaled(dist)
	p.Position.Add(&step)
	return p
}

// Shift translates the pose along its right and up vectors without touching
// orientation.
func (p Pose) Shift(right, up float64) Pose {
	r := p.Right()
	dr := r.Scaled(right)
	du := p.Up.Scaled(up)
	p.Position.Add(&dr)
	p.Position.Add(&du)
	return p
}

// Yaw rotates the heading about the up axis. Positive angles turn left
// (counterclockwise seen from above the up vector).
func (p Pose) Yaw(deg float64) Pose {
	p.Heading = rotateAbout(&p.Heading, &p.Up, deg)
	p.Heading.Normalize()
	return p
}

// Pitch rotates heading and up about the right axis, keeping the frame
// orthonormal. Positive angles tilt the heading toward up.
func (p Pose) Pitch(deg float64) Pose {
	r := p.Right()
	r.Normalize()
	p.Heading = rotateAbout(&p.Heading, &r, deg)
	p.Up = rotateAbout(&p.Up, &r, deg)
	return p.orthonormalized()
}

// Roll rotates the up vector about the heading axis. Positive angles bank up
// toward right.
func (p Pose) Roll(deg float64) Pose {
	p.Up = rotateAbout(&p.Up, &p.Heading, deg)
	p.Up.Normalize()
	return p
}

// PlacePoint maps a 2D cross-section point into world space using the pose's
// right/up vectors as the local plane basis.
func (p Pose) PlacePoint(x, y float64) vec3.T {
	r := p.Right()
	out := p.Position
	dx := r.Scaled(x)
	dy := p.Up.Scaled(y)
	out.Add(&dx)
	out.Add(&dy)
	return out
}

// orthonormalized renormalizes heading and projects up back onto the plane
// perpendicular to it. Rotations use exact trigonometry, so this only cleans
// up floating-point residue.
func (p Pose) orthonormalized() Pose {
	p.Heading.Normalize()
	d := vec3.Dot(&p.Up, &p.Heading)
	adj := p.Heading.Scaled(d)
	p.Up.Sub(&adj)
	p.Up.Normalize()
	return p
}

// rotateAbout rotates v about the unit axis by deg degrees using the
// Rodrigues formula.
func rotateAbout(v, axis *vec3.T, deg float64) vec3.T {
	rad := degToRad(deg)
	sin, cos := math.Sin(rad), math.Cos(rad)
	out := v.Scaled(cos)
	cr := vec3.Cross(axis, v)
	cr.Scale(sin)
	out.Add(&cr)
	ax := axis.Scaled(vec3.Dot(axis, v) * (1 - cos))
	out.Add(&ax)
	return out
}

// lerp interpolates two points component-wise.
func lerp(a, b *vec3.T, t float64) vec3.T {
	out := a.Scaled(1 - t)
	bt := b.Scaled(t)
	out.Add(&bt)
	return out
}

// headingAngle returns the unsigned angle in radians between two unit
// directions.
func headingAngle(a, b *vec3.T) float64 {
	return math.Acos(clamp(vec3.Dot(a, b), -1, 1))
}
