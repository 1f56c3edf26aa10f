package sweep

import (
	"fmt"

	vec3 "github.com/flywave/go3d/float64/vec3"
)

// AttachContext binds a working copy of a mesh to the turtle so motion
// commands transform vertices instead of just the pose. Only the driven
// vertex set moves; in extrude mode each forward step also clones the
// boundary loop and grows wall quads behind it.
type AttachContext struct {
	mesh     *Mesh
	driven   []int
	boundary []int
	group    string
	mode     AttachMode
	pose     Pose
	walls    []int
	lastRing []int
}

// Attach replays a path against a rigid copy of the whole mesh: every vertex
// is driven, so the mesh translates and rotates as one body. The handle pose
// is the mesh's creation pose. The transformed copy is returned; the input
// mesh is untouched.
func (t *Turtle) Attach(m *Mesh, p *Path) (*Mesh, error) {
	if m == nil || p == nil {
		return nil, usageError(OpMoveTo, "attach", "nil mesh or path")
	}
	work := m.Clone()
	driven := make([]int, len(work.Vertices))
	for i := range driven {
		driven[i] = i
	}
	ctx := &AttachContext{
		mesh:   work,
		driven: driven,
		mode:   AttachMove,
		pose:   work.CreationPose,
	}
	return t.runAttach(ctx, p)
}

// AttachFace replays a path against the vertices of one face group, dragging
// that patch while the rest of the mesh stays put. The handle pose sits at
// the group centroid, heading along the average face normal.
func (t *Turtle) AttachFace(m *Mesh, group string, p *Path) (*Mesh, error) {
	ctx, err := faceContext(m, group, AttachMove)
	if err != nil {
		return nil, err
	}
	return t.runAttach(ctx, p)
}

// CloneFace replays a path against a face group in extrude mode: each forward
// step duplicates the boundary loop in place, successive copies are bridged
// with wall quads, and the resting cap is bridged last, so the patch grows a
// tube as it travels. The group must have an open boundary loop.
func (t *Turtle) CloneFace(m *Mesh, group string, p *Path) (*Mesh, error) {
	ctx, err := faceContext(m, group, AttachExtrude)
	if err != nil {
		return nil, err
	}
	if len(ctx.boundary) < 3 {
		return nil, ErrNoBoundary
	}
	return t.runAttach(ctx, p)
}

// runAttach installs the context, replays the path through it and detaches.
// The turtle's own pose is not moved by an attach replay; the context carries
// its own handle pose.
func (t *Turtle) runAttach(ctx *AttachContext, p *Path) (*Mesh, error) {
	prev := t.attach
	t.attach = ctx
	defer func() { t.attach = prev }()
	for _, c := range p.Commands {
		if err := ctx.apply(t, c); err != nil {
			return nil, err
		}
	}
	// Close the tube: the last stationary ring bridges to wherever the
	// boundary finally came to rest.
	if ctx.lastRing != nil {
		ctx.wallBand(ctx.lastRing, ctx.boundary)
	}
	if len(ctx.walls) > 0 {
		if ctx.mesh.FaceGroups == nil {
			ctx.mesh.FaceGroups = map[string][]int{}
		}
		ctx.mesh.FaceGroups[fmt.Sprintf("%s.wall", ctx.group)] = ctx.walls
	}
	t.Meshes = append(t.Meshes, ctx.mesh)
	return ctx.mesh, nil
}

// faceContext resolves a face group into an attach context: driven vertex
// set, ordered boundary loop and a handle pose seeded from the patch.
func faceContext(m *Mesh, group string, mode AttachMode) (*AttachContext, error) {
	if m == nil {
		return nil, usageError(OpMoveTo, "attach", "nil mesh")
	}
	tris, ok := m.FaceGroups[group]
	if !ok || len(tris) == 0 {
		return nil, usageError(OpMoveTo, "attach", "unknown face group "+group)
	}
	work := m.Clone()
	driven := groupVertices(work, tris)
	pose := facePose(work, tris, driven)
	return &AttachContext{
		mesh:     work,
		driven:   driven,
		boundary: faceBoundary(work, tris),
		group:    group,
		mode:     mode,
		pose:     pose,
	}, nil
}

// groupVertices collects the unique vertex indices referenced by a triangle
// set, in first-seen order.
func groupVertices(m *Mesh, tris []int) []int {
	seen := map[uint32]bool{}
	var out []int
	for _, ti := range tris {
		for _, vi := range m.Faces[ti] {
			if !seen[vi] {
				seen[vi] = true
				out = append(out, int(vi))
			}
		}
	}
	return out
}

// faceBoundary extracts the ordered boundary loop of a triangle patch: the
// directed edges whose reverse never appears inside the patch, chained
// head to tail. A closed patch (no boundary) yields nil.
func faceBoundary(m *Mesh, tris []int) []int {
	type edge struct{ a, b uint32 }
	dir := map[edge]bool{}
	for _, ti := range tris {
		f := m.Faces[ti]
		dir[edge{f[0], f[1]}] = true
		dir[edge{f[1], f[2]}] = true
		dir[edge{f[2], f[0]}] = true
	}
	next := map[uint32]uint32{}
	var start uint32
	found := false
	for e := range dir {
		if !dir[edge{e.b, e.a}] {
			next[e.a] = e.b
			if !found {
				start, found = e.a, true
			}
		}
	}
	if !found {
		return nil
	}
	loop := []int{int(start)}
	for cur := next[start]; cur != start; cur = next[cur] {
		if _, ok := next[cur]; !ok || len(loop) > len(next) {
			return nil
		}
		loop = append(loop, int(cur))
	}
	return loop
}

// facePose seeds the handle pose: position at the driven centroid, heading
// along the area-weighted patch normal, up picked perpendicular to it.
func facePose(m *Mesh, tris []int, driven []int) Pose {
	var centroid vec3.T
	for _, vi := range driven {
		centroid.Add(&m.Vertices[vi])
	}
	if len(driven) > 0 {
		centroid.Scale(1 / float64(len(driven)))
	}
	var normal vec3.T
	for _, ti := range tris {
		f := m.Faces[ti]
		e1 := vec3.Sub(&m.Vertices[f[1]], &m.Vertices[f[0]])
		e2 := vec3.Sub(&m.Vertices[f[2]], &m.Vertices[f[0]])
		cr := vec3.Cross(&e1, &e2)
		normal.Add(&cr)
	}
	if normal.Length() < epsilon {
		normal = vec3.UnitY
	}
	normal.Normalize()
	up := rmfUp(&vec3.UnitZ, &normal)
	return Pose{Position: centroid, Heading: normal, Up: up}
}

// apply folds one command into the attachment. Curve commands are lowered
// through the turtle's resolution policy and applied step by step.
func (a *AttachContext) apply(t *Turtle, c Command) error {
	switch {
	case c.Op == OpMark:
		t.Anchors[c.Name] = a.pose

	case c.Op == OpArcH:
		return a.applyAll(t, lowerArc(t.Resolution, false, c.Radius, c.Angle, c.Steps))
	case c.Op == OpArcV:
		return a.applyAll(t, lowerArc(t.Resolution, true, c.Radius, c.Angle, c.Steps))
	case c.Op == OpBezierTo:
		return a.applyAll(t, lowerBezier(a.pose, c.Target, c.Controls, t.Resolution, c.Steps))
	case c.Op == OpBezierToAnchor:
		anchor, ok := t.Anchors[c.Name]
		if !ok {
			return &UsageError{Command: c.Op.String(), Context: "attach", Reason: "unknown anchor " + c.Name}
		}
		return a.applyAll(t, lowerBezierToPose(a.pose, anchor, c.Tension, t.Resolution, c.Steps))
	case c.Op == OpBezierAs:
		return a.applyAll(t, lowerPolyline(a.pose, c.Points, t.Resolution, c.Steps))

	case c.isRotation():
		before := a.pose
		a.pose = applyMotion(a.pose, c)
		var axis vec3.T
		switch c.Op {
		case OpTurnH:
			axis = before.Up
		case OpTurnV:
			axis = before.Right()
		case OpRoll:
			axis = before.Heading
		}
		a.rotate(&axis, c.Angle, &before.Position)

	case c.isMove():
		before := a.pose.Position
		a.pose = applyMotion(a.pose, c)
		delta := vec3.Sub(&a.pose.Position, &before)
		if a.mode == AttachExtrude && c.Op == OpForward {
			a.extrudeStep()
		}
		a.translate(&delta)

	case c.Op == OpInset:
		a.inset(c.Dist)
	case c.Op == OpScale:
		a.scale(c.Factor)
	case c.Op == OpMoveTo:
		delta := vec3.Sub(&c.Target, &a.pose.Position)
		a.pose.Position = c.Target
		a.translate(&delta)
	}
	return nil
}

func (a *AttachContext) applyAll(t *Turtle, cmds []Command) error {
	for _, c := range cmds {
		if err := a.apply(t, c); err != nil {
			return err
		}
	}
	return nil
}

func (a *AttachContext) translate(delta *vec3.T) {
	for _, vi := range a.driven {
		a.mesh.Vertices[vi].Add(delta)
	}
}

func (a *AttachContext) rotate(axis *vec3.T, deg float64, origin *vec3.T) {
	for _, vi := range a.driven {
		rel := vec3.Sub(&a.mesh.Vertices[vi], origin)
		rot := rotateAbout(&rel, axis, deg)
		a.mesh.Vertices[vi] = vec3.Add(origin, &rot)
	}
}

func (a *AttachContext) drivenCentroid() vec3.T {
	var sum vec3.T
	if len(a.driven) == 0 {
		return sum
	}
	for _, vi := range a.driven {
		sum.Add(&a.mesh.Vertices[vi])
	}
	sum.Scale(1 / float64(len(a.driven)))
	return sum
}

// inset pulls every driven vertex toward the driven centroid by a fixed
// distance, clamping at the centroid so the patch cannot turn inside out.
func (a *AttachContext) inset(dist float64) {
	c := a.drivenCentroid()
	for _, vi := range a.driven {
		rel := vec3.Sub(&a.mesh.Vertices[vi], &c)
		l := rel.Length()
		if l < epsilon {
			continue
		}
		step := clamp(dist, -l, l)
		shift := rel.Scaled(-step / l)
		a.mesh.Vertices[vi].Add(&shift)
	}
}

// scale resizes the driven patch about its centroid.
func (a *AttachContext) scale(factor float64) {
	c := a.drivenCentroid()
	for _, vi := range a.driven {
		rel := vec3.Sub(&a.mesh.Vertices[vi], &c)
		rel.Scale(factor)
		a.mesh.Vertices[vi] = vec3.Add(&c, &rel)
	}
}

// extrudeStep leaves a copy of the boundary loop behind at the departure
// position and bridges it to the previous stationary ring. Walls only ever
// connect stationary copies, never the live boundary vertices, which keep
// traveling with the patch; the final bridge to the resting boundary is added
// at detach.
func (a *AttachContext) extrudeStep() {
	base := len(a.mesh.Vertices)
	ring := make([]int, len(a.boundary))
	for i, vi := range a.boundary {
		a.mesh.Vertices = append(a.mesh.Vertices, a.mesh.Vertices[vi])
		ring[i] = base + i
	}
	if a.lastRing != nil {
		a.wallBand(a.lastRing, ring)
	}
	a.lastRing = ring
}

// wallBand bridges two same-length rings with wall quads, winding so the
// outside of the tube faces outward for a counterclockwise boundary loop.
func (a *AttachContext) wallBand(from, to []int) {
	n := len(from)
	for j := 0; j < n; j++ {
		j1 := (j + 1) % n
		p := uint32(from[j])
		q := uint32(from[j1])
		r := uint32(to[j1])
		s := uint32(to[j])
		a.walls = append(a.walls, len(a.mesh.Faces), len(a.mesh.Faces)+1)
		a.mesh.Faces = append(a.mesh.Faces, [3]uint32{p, q, r}, [3]uint32{p, r, s})
	}
}
