package sweep

import (
	vec2 "github.com/flywave/go3d/float64/vec2"
	vec3 "github.com/flywave/go3d/float64/vec3"
)

// ringAt places a 2D outline at a pose, producing one vertex ring.
func ringAt(points []vec2.T, pose Pose) []vec3.T {
	ring := make([]vec3.T, len(points))
	for i, pt := range points {
		ring[i] = pose.PlacePoint(pt[0], pt[1])
	}
	return ring
}

// tubeMesh assembles rings of equal point counts into a tube: consecutive
// rings are connected with triangulated quads, optionally wrapping the last
// ring back to the first (closeLoop) and fanning caps over the end rings.
// flip reverses winding, used for hole walls.
func tubeMesh(rings [][]vec3.T, closedRing, closeLoop, capStart, capEnd, flip bool, pose Pose, material MeshMaterial) *Mesh {
	m := NewMesh(pose, material)
	if len(rings) == 0 || len(rings[0]) == 0 {
		return m
	}
	n := len(rings[0])
	for _, ring := range rings {
		m.Vertices = append(m.Vertices, ring...)
	}

	quadCols := n - 1
	if closedRing {
		quadCols = n
	}
	// The ring plane basis is (right, up), whose cross product opposes the
	// sweep direction, so a counterclockwise outline needs reversed quad
	// winding to face outward. flip undoes that for hole walls.
	var wall []int
	band := func(r0, r1 int) {
		for j := 0; j < quadCols; j++ {
			j1 := (j + 1) % n
			a := uint32(r0*n + j)
			b := uint32(r0*n + j1)
			c := uint32(r1*n + j1)
			d := uint32(r1*n + j)
			if flip {
				a, b, c, d = b, a, d, c
			}
			wall = append(wall, len(m.Faces), len(m.Faces)+1)
			m.Faces = append(m.Faces, [3]uint32{a, d, c}, [3]uint32{a, c, b})
		}
	}
	for r := 0; r+1 < len(rings); r++ {
		band(r, r+1)
	}
	if closeLoop && len(rings) > 2 {
		band(len(rings)-1, 0)
	}
	m.FaceGroups = map[string][]int{"wall": wall}

	if closedRing && n >= 3 && !closeLoop {
		if capStart {
			var start []int
			for j := 1; j < n-1; j++ {
				start = append(start, len(m.Faces))
				m.Faces = append(m.Faces, [3]uint32{0, uint32(j), uint32(j + 1)})
			}
			m.FaceGroups["start"] = start
		}
		if capEnd {
			var end []int
			base := uint32((len(rings) - 1) * n)
			for j := 1; j < n-1; j++ {
				end = append(end, len(m.Faces))
				m.Faces = append(m.Faces, [3]uint32{base, base + uint32(j + 1), base + uint32(j)})
			}
			m.FaceGroups["end"] = end
		}
	}
	return m
}

// sweepRings builds the outer (and hole) meshes for one ring sequence of a
// constant cross-section.
func sweepRings(shape *Shape, poses []Pose, closeLoop, caps bool, material MeshMaterial) *Mesh {
	outer := make([][]vec3.T, len(poses))
	for i, pose := range poses {
		outer[i] = ringAt(shape.Points, pose)
	}
	withCaps := caps && len(shape.Holes) == 0
	parts := []*Mesh{tubeMesh(outer, shape.Closed, closeLoop, withCaps, withCaps, false, poses[0], material)}
	for _, hole := range shape.Holes {
		rings := make([][]vec3.T, len(poses))
		for i, pose := range poses {
			rings[i] = ringAt(hole, pose)
		}
		parts = append(parts, tubeMesh(rings, true, closeLoop, false, false, true, poses[0], material))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return Combine(parts)
}

// Extrude sweeps a constant cross-section along a path: one vertex ring per
// replayed pose, quads between consecutive rings, fan caps over the first and
// last ring of a closed shape. Paths flagged as bezier-derived are first run
// through the self-intersection heuristic; when the cross-section would
// overlap itself at a tight turn the call transparently delegates to Bloft.
func (t *Turtle) Extrude(shape *Shape, p *Path) (*Mesh, error) {
	if shape == nil || p == nil || len(shape.Points) < 2 {
		logger.Debug("extrude skipped: degenerate shape or path")
		return NewMesh(t.Pose, t.Material), nil
	}
	if p.Bezier && SelfIntersects(t, p, shape.Radius(), t.IntersectThreshold) {
		logger.Info("extrude would self-intersect; substituting hull-bridged loft")
		return t.Bloft(shape, p, 0, t.IntersectThreshold)
	}
	_, poses, err := Replay(t, p)
	if err != nil {
		return nil, err
	}
	if len(poses) < 2 {
		logger.Debug("extrude skipped: path has no travel")
		return NewMesh(t.Pose, t.Material), nil
	}
	m := sweepRings(shape, poses, false, true, t.Material)
	t.Meshes = append(t.Meshes, m)
	return m, nil
}

// ExtrudeClosed sweeps a cross-section along a path that returns to its
// start: the last ring is welded back to the first and no caps are emitted.
func (t *Turtle) ExtrudeClosed(shape *Shape, p *Path) (*Mesh, error) {
	if shape == nil || p == nil || len(shape.Points) < 2 {
		logger.Debug("extrude-closed skipped: degenerate shape or path")
		return NewMesh(t.Pose, t.Material), nil
	}
	_, poses, err := Replay(t, p)
	if err != nil {
		return nil, err
	}
	if len(poses) < 3 {
		logger.Debug("extrude-closed skipped: loop too short")
		return NewMesh(t.Pose, t.Material), nil
	}
	m := sweepRings(shape, poses, true, false, t.Material)
	t.Meshes = append(t.Meshes, m)
	return m, nil
}
