package sweep

import (
	"math"
	"testing"

	vec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxMesh(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewTurtle().Extrude(Rect(2, 2), mustPath(t, NewRecorder().F(4)))
	require.NoError(t, err)
	return m
}

func TestAttachTranslatesWholeMesh(t *testing.T) {
	turtle := NewTurtle()
	src := boxMesh(t)
	before := append([]vec3.T(nil), src.Vertices...)

	out, err := turtle.Attach(src, mustPath(t, NewRecorder().F(3).Rt(1)))
	require.NoError(t, err)

	// The source is untouched; the copy keeps its identity and every vertex
	// moved by the same rigid offset.
	assert.Equal(t, src.ID, out.ID)
	assertVecNear(t, before[0], src.Vertices[0], 0)
	for i := range out.Vertices {
		d := vec3.Sub(&out.Vertices[i], &src.Vertices[i])
		assertVecNear(t, vec3.T{1, 3, 0}, d, 1e-9)
	}
}

func TestAttachRotatesAboutHandle(t *testing.T) {
	turtle := NewTurtle()
	src := boxMesh(t)

	out, err := turtle.Attach(src, mustPath(t, NewRecorder().Th(90)))
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	// Distances to the handle position are preserved under rotation.
	handle := src.CreationPose.Position
	for i := range out.Vertices {
		a := vec3.Sub(&src.Vertices[i], &handle)
		b := vec3.Sub(&out.Vertices[i], &handle)
		assert.InDelta(t, a.Length(), b.Length(), 1e-9)
	}
}

func TestAttachFaceDragsOnlyGroup(t *testing.T) {
	turtle := NewTurtle()
	src := boxMesh(t)

	out, err := turtle.AttachFace(src, "end", mustPath(t, NewRecorder().F(2)))
	require.NoError(t, err)
	assert.Equal(t, src.VertexCount(), out.VertexCount())

	// The end cap sits at y=4 facing +Y; its vertices move 2 along the
	// normal while the start ring stays put.
	moved, still := 0, 0
	for i := range out.Vertices {
		d := vec3.Sub(&out.Vertices[i], &src.Vertices[i])
		if d.Length() > 1e-9 {
			assertVecNear(t, vec3.T{0, 2, 0}, d, 1e-9)
			moved++
		} else {
			still++
		}
	}
	assert.Equal(t, 4, moved)
	assert.Equal(t, 4, still)
}

func TestAttachFaceUnknownGroup(t *testing.T) {
	_, err := NewTurtle().AttachFace(boxMesh(t), "nope", mustPath(t, NewRecorder().F(1)))
	var ue *UsageError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "attach", ue.Context)
}

func TestCloneFaceGrowsTube(t *testing.T) {
	turtle := NewTurtle()
	src := boxMesh(t)

	out, err := turtle.CloneFace(src, "end", mustPath(t, NewRecorder().F(2).F(2)))
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	// Each forward step leaves one boundary ring copy and 8 wall triangles.
	assert.Equal(t, src.VertexCount()+2*4, out.VertexCount())
	assert.Equal(t, src.FaceCount()+2*8, out.FaceCount())
	assert.Len(t, out.FaceGroups["end.wall"], 16)

	// The driven cap ends up 4 further along its normal.
	endVerts := groupVertices(out, out.FaceGroups["end"])
	for _, vi := range endVerts {
		assert.InDelta(t, 8, out.Vertices[vi][1], 1e-9)
	}
}

func TestCloneFaceWallsStayBetweenRings(t *testing.T) {
	turtle := NewTurtle()
	src := boxMesh(t)

	out, err := turtle.CloneFace(src, "end", mustPath(t, NewRecorder().F(4).F(4)))
	require.NoError(t, err)
	require.Len(t, out.FaceGroups["end.wall"], 16)

	// The first wall band bridges the stationary rings at y=4 and y=8; it
	// must not stretch to the cap's final resting plane at y=12.
	for _, fi := range out.FaceGroups["end.wall"][:8] {
		for _, vi := range out.Faces[fi] {
			y := out.Vertices[vi][1]
			assert.GreaterOrEqual(t, y, 4-1e-9)
			assert.LessOrEqual(t, y, 8+1e-9)
		}
	}
}

func TestCloneFaceCornerWallsDoNotReachFinalCap(t *testing.T) {
	turtle := NewTurtle()
	src := boxMesh(t)

	out, err := turtle.CloneFace(src, "end", mustPath(t, NewRecorder().F(4).Th(90).F(4)))
	require.NoError(t, err)
	require.Len(t, out.FaceGroups["end.wall"], 16)

	// After the turn the cap travels out to x=-4. The pre-turn band stays
	// pinned between its own two rings near the extrusion axis instead of
	// cutting across to the cap's final position.
	for _, fi := range out.FaceGroups["end.wall"][:8] {
		for _, vi := range out.Faces[fi] {
			assert.GreaterOrEqual(t, out.Vertices[vi][0], -1-1e-9)
		}
	}
}

func TestAttachedMotionSurfacesApplyError(t *testing.T) {
	turtle := NewTurtle()
	ctx, err := faceContext(boxMesh(t), "end", AttachMove)
	require.NoError(t, err)
	turtle.attach = ctx

	turtle.F(2)
	require.NoError(t, turtle.Err())

	// Commands that fail inside an attachment surface through Err instead
	// of being dropped by the fluent motion methods.
	turtle.motion(Command{Op: OpBezierToAnchor, Name: "nowhere"})
	require.Error(t, turtle.Err())
	var ue *UsageError
	assert.ErrorAs(t, turtle.Err(), &ue)
	assert.Equal(t, "attach", ue.Context)
}

func TestCloneFaceTurnsFollowHandlePose(t *testing.T) {
	turtle := NewTurtle()
	src := boxMesh(t)

	out, err := turtle.CloneFace(src, "end", mustPath(t, NewRecorder().F(2).Tv(45).F(2)))
	require.NoError(t, err)
	require.NoError(t, out.Validate())
	assert.Equal(t, src.VertexCount()+2*4, out.VertexCount())
}

func TestCloneFaceNeedsBoundary(t *testing.T) {
	// A tetrahedron's surface is closed; grouping all of it leaves no
	// boundary loop to extrude.
	m := NewMesh(NewPose(), &BaseMaterial{})
	m.Vertices = []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	m.Faces = [][3]uint32{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}
	m.FaceGroups = map[string][]int{"all": {0, 1, 2, 3}}

	_, err := NewTurtle().CloneFace(m, "all", mustPath(t, NewRecorder().F(1)))
	assert.ErrorIs(t, err, ErrNoBoundary)
}

func TestAttachInsetAndScale(t *testing.T) {
	turtle := NewTurtle()
	src := boxMesh(t)

	out, err := turtle.AttachFace(src, "end", mustPath(t, NewRecorder().Scale(0.5)))
	require.NoError(t, err)
	endVerts := groupVertices(out, out.FaceGroups["end"])
	for _, vi := range endVerts {
		// Cap corners pull halfway toward the cap centroid (0, 4, 0).
		d := vec3.T{out.Vertices[vi][0], 0, out.Vertices[vi][2]}
		assert.InDelta(t, math.Sqrt2/2, d.Length(), 1e-9)
	}

	out, err = turtle.AttachFace(src, "end", mustPath(t, NewRecorder().Inset(0.5)))
	require.NoError(t, err)
	for _, vi := range endVerts {
		d := vec3.T{out.Vertices[vi][0], 0, out.Vertices[vi][2]}
		assert.InDelta(t, math.Sqrt2-0.5, d.Length(), 1e-9)
	}
}

func TestAttachMoveTo(t *testing.T) {
	turtle := NewTurtle()
	src := boxMesh(t)

	out, err := turtle.Attach(src, mustPath(t, NewRecorder().MoveTo(vec3.T{10, 20, 30})))
	require.NoError(t, err)

	// The handle lands on the target and the mesh follows rigidly.
	delta := vec3.Sub(&vec3.T{10, 20, 30}, &src.CreationPose.Position)
	for i := range out.Vertices {
		d := vec3.Sub(&out.Vertices[i], &src.Vertices[i])
		assertVecNear(t, delta, d, 1e-9)
	}
}

func TestAttachReplayDoesNotMoveTurtle(t *testing.T) {
	turtle := NewTurtle()
	_, err := turtle.Attach(boxMesh(t), mustPath(t, NewRecorder().F(5).Th(90)))
	require.NoError(t, err)
	assert.Equal(t, NewPose(), turtle.Pose)
}

func TestFaceBoundaryOrdering(t *testing.T) {
	m := boxMesh(t)
	loop := faceBoundary(m, m.FaceGroups["end"])
	require.Len(t, loop, 4)

	// Consecutive loop vertices share an edge of the cap ring.
	for i := range loop {
		a := m.Vertices[loop[i]]
		b := m.Vertices[loop[(i+1)%len(loop)]]
		d := vec3.Sub(&b, &a)
		assert.InDelta(t, 2, d.Length(), 1e-9)
	}
}
