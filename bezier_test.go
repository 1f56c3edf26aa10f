package sweep

import (
	"testing"

	vec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBezierPointEndpoints(t *testing.T) {
	p0 := vec3.T{0, 0, 0}
	c1 := vec3.T{0, 1, 0}
	c2 := vec3.T{1, 2, 0}
	p3 := vec3.T{2, 2, 0}
	assertVecNear(t, p0, bezierPoint(&p0, &c1, &c2, &p3, 0), 1e-12)
	assertVecNear(t, p3, bezierPoint(&p0, &c1, &c2, &p3, 1), 1e-12)
}

func TestBezierToReachesTarget(t *testing.T) {
	target := vec3.T{4, 10, 2}
	turtle := NewTurtle()
	turtle.BezierTo(target, nil, 32)
	assertVecNear(t, target, turtle.Pose.Position, 1e-9)
}

func TestBezierToExplicitControls(t *testing.T) {
	target := vec3.T{0, 10, 0}
	controls := []vec3.T{{5, 3, 0}, {5, 7, 0}}
	turtle := NewTurtle()
	turtle.BezierTo(target, controls, 32)
	assertVecNear(t, target, turtle.Pose.Position, 1e-9)
}

func TestBezierZeroChordIsNoop(t *testing.T) {
	pose := NewPose()
	assert.Nil(t, lowerBezier(pose, pose.Position, nil, Resolution{}, 8))
}

func TestBezierAsWalksPolyline(t *testing.T) {
	pts := []vec3.T{{0, 10, 0}, {5, 10, 0}, {5, 10, 5}}
	turtle := NewTurtle()
	turtle.BezierAs(pts, 20)
	assertVecNear(t, pts[len(pts)-1], turtle.Pose.Position, 1e-9)
}

func TestWalkPolylineStraightEmitsNoTurns(t *testing.T) {
	cmds := walkPolyline(NewPose(), []vec3.T{{0, 5, 0}, {0, 10, 0}})
	require.Len(t, cmds, 2)
	for _, c := range cmds {
		assert.Equal(t, OpForward, c.Op)
		assert.True(t, c.Smooth)
	}
}

func TestWalkPolylineReplaysExactly(t *testing.T) {
	// The emitted relative commands must reproduce the absolute waypoints
	// when replayed from the same start pose.
	targets := []vec3.T{{1, 3, 0.5}, {2, 5, 2}, {1, 8, 3}}
	cmds := walkPolyline(NewPose(), targets)

	pose := NewPose()
	var reached []vec3.T
	for _, c := range cmds {
		pose = applyMotion(pose, c)
		if c.Op == OpForward {
			reached = append(reached, pose.Position)
		}
	}
	require.Len(t, reached, len(targets))
	for i := range targets {
		assertVecNear(t, targets[i], reached[i], 1e-9)
	}
}

func TestBezierToAnchorArrivesTangent(t *testing.T) {
	// A tension-weighted curve back to an anchor arrives tangent to the
	// anchor's heading, so orientation is continuous across the junction.
	turtle := NewTurtle()
	turtle.SetAnchor("home")
	turtle.F(10)
	turtle.Th(90)
	turtle.F(5)
	require.NoError(t, turtle.BezierToAnchor("home", 0.4, 64))
	assertVecNear(t, vec3.T{0, 0, 0}, turtle.Pose.Position, 1e-9)
	assertVecNear(t, vec3.UnitY, turtle.Pose.Heading, 0.05)
}

func TestRmfUpStaysPerpendicular(t *testing.T) {
	up := vec3.UnitZ
	dir := vec3.T{0.6, 0.8, 0.1}
	dir.Normalize()
	out := rmfUp(&up, &dir)
	assert.InDelta(t, 0, vec3.Dot(&out, &dir), 1e-12)
	assert.InDelta(t, 1, out.Length(), 1e-12)
}

func TestRmfUpDegenerateFallback(t *testing.T) {
	up := vec3.UnitZ
	dir := vec3.T{1e-12, 0, 1}
	dir.Normalize()
	out := rmfUp(&up, &dir)
	assert.InDelta(t, 1, out.Length(), 1e-12)
	assert.InDelta(t, 0, vec3.Dot(&out, &dir), 1e-9)
}

func TestResamplePolylineUniform(t *testing.T) {
	pts := []vec3.T{{0, 0, 0}, {0, 4, 0}, {0, 4, 4}}
	out := resamplePolyline(pts, 8)
	require.Len(t, out, 9)
	assertVecNear(t, pts[0], out[0], 1e-12)
	assertVecNear(t, pts[2], out[8], 1e-12)
	for i := 1; i < len(out); i++ {
		d := vec3.Sub(&out[i], &out[i-1])
		assert.InDelta(t, 1, d.Length(), 1e-9)
	}
}
