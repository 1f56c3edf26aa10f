package sweep

import (
	"testing"

	vec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtrudeOctagonPrism(t *testing.T) {
	turtle := NewTurtle()
	m, err := turtle.Extrude(Circle(1, 8), mustPath(t, NewRecorder().F(20)))
	require.NoError(t, err)

	// Two rings of 8 vertices; 8 wall quads and two 6 triangle fan caps.
	assert.Equal(t, 16, m.VertexCount())
	assert.Equal(t, 28, m.FaceCount())
	require.NoError(t, m.Validate())
	assert.Len(t, m.FaceGroups["wall"], 16)
	assert.Len(t, m.FaceGroups["start"], 6)
	assert.Len(t, m.FaceGroups["end"], 6)
	assert.Len(t, turtle.Meshes, 1)
}

func TestExtrudeRingCountLaw(t *testing.T) {
	// n outline points times k+1 rings for k forward moves, corners included.
	shape := Rect(2, 1)
	p := mustPath(t, NewRecorder().F(5).Th(90).F(5).Th(-45).F(5))
	m, err := NewTurtle().Extrude(shape, p)
	require.NoError(t, err)
	assert.Equal(t, 4*4, m.VertexCount())
	require.NoError(t, m.Validate())
}

func TestExtrudeDegenerate(t *testing.T) {
	turtle := NewTurtle()

	m, err := turtle.Extrude(nil, mustPath(t, NewRecorder().F(5)))
	require.NoError(t, err)
	assert.True(t, m.Empty())

	m, err = turtle.Extrude(Circle(1, 8), mustPath(t, NewRecorder().Th(90)))
	require.NoError(t, err)
	assert.True(t, m.Empty())
}

func TestExtrudeWithHoleOmitsCaps(t *testing.T) {
	shape := Rect(4, 4)
	shape.Holes = append(shape.Holes, Circle(1, 8).Points)
	m, err := NewTurtle().Extrude(shape, mustPath(t, NewRecorder().F(10)))
	require.NoError(t, err)

	// Outer wall plus flipped inner wall, no caps.
	assert.Equal(t, 2*4+2*8, m.VertexCount())
	assert.Equal(t, 2*4+2*8, m.FaceCount())
	assert.NotContains(t, m.FaceGroups, "start")
	assert.NotContains(t, m.FaceGroups, "end")
	require.NoError(t, m.Validate())
}

func TestExtrudeOpenShapeHasNoCaps(t *testing.T) {
	shape := NewShape(Rect(2, 2).Points, false)
	m, err := NewTurtle().Extrude(shape, mustPath(t, NewRecorder().F(10)))
	require.NoError(t, err)

	// 3 quad columns for 4 open points, no wrap, no caps.
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 6, m.FaceCount())
}

func TestExtrudeClosedLoop(t *testing.T) {
	p := mustPath(t, NewRecorder().F(10).Th(90).F(10).Th(90).F(10).Th(90).F(10).Th(90))
	m, err := NewTurtle().ExtrudeClosed(Circle(0.5, 8), p)
	require.NoError(t, err)

	// 5 rings (start ring plus one per move), welded back to the first ring,
	// so faces cover 5 bands and no caps exist.
	assert.Equal(t, 5*8, m.VertexCount())
	assert.Equal(t, 5*8*2, m.FaceCount())
	assert.NotContains(t, m.FaceGroups, "start")
	require.NoError(t, m.Validate())
}

func TestExtrudeBezierDelegatesWhenTooTight(t *testing.T) {
	// A sharp kink swept with a fat section triggers the heuristic and the
	// extrude transparently becomes a hull-bridged loft instead of failing.
	pts := []vec3.T{{0, 10, 0}, {5, 10.5, 0}}
	p := mustPath(t, NewRecorder().BezierAs(pts, 8))
	require.True(t, p.Bezier)

	turtle := NewTurtle()
	require.True(t, SelfIntersects(turtle, p, 3, turtle.IntersectThreshold))
	m, err := turtle.Extrude(Circle(3, 8), p)
	require.NoError(t, err)
	assert.False(t, m.Empty())
	require.NoError(t, m.Validate())
}
