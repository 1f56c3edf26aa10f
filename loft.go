package sweep

import (
	"math"

	vec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/golang/geo/r3"
	quickhull "github.com/markus-wa/quickhull-go/v2"
)

// maxProfileRadius samples a profile at a few progress values to bound the
// cross-section radius for the self-intersection heuristic.
func maxProfileRadius(prof Profile) float64 {
	var r float64
	for _, t := range []float64{0, 0.5, 1} {
		if s := prof.At(t); s != nil {
			if sr := s.Radius(); sr > r {
				r = sr
			}
		}
	}
	return r
}

// resamplePoses redistributes a pose sequence to k poses spaced uniformly by
// travel distance, interpolating positions and frames between neighbors.
func resamplePoses(poses []Pose, k int) []Pose {
	if k < 2 || len(poses) < 2 {
		return poses
	}
	cum := make([]float64, len(poses))
	for i := 1; i < len(poses); i++ {
		d := vec3.Sub(&poses[i].Position, &poses[i-1].Position)
		cum[i] = cum[i-1] + d.Length()
	}
	total := cum[len(cum)-1]
	if total < epsilon {
		return poses
	}
	out := make([]Pose, k)
	seg := 1
	for i := 0; i < k; i++ {
		target := total * float64(i) / float64(k-1)
		for seg < len(poses)-1 && cum[seg] < target {
			seg++
		}
		span := cum[seg] - cum[seg-1]
		t := 1.0
		if span > epsilon {
			t = clamp((target-cum[seg-1])/span, 0, 1)
		}
		p := Pose{
			Position: lerp(&poses[seg-1].Position, &poses[seg].Position, t),
			Heading:  lerp(&poses[seg-1].Heading, &poses[seg].Heading, t),
			Up:       lerp(&poses[seg-1].Up, &poses[seg].Up, t),
		}
		out[i] = p.orthonormalized()
	}
	return out
}

// Loft sweeps a varying cross-section along a path. The profile is sampled at
// the normalized travel progress of each ring; outlines whose point counts
// differ from the first sample are resampled to match. Sharp corners split
// the sweep into separate per-segment meshes which are then combined, so a
// loft through a direction change yields disjoint mesh islands at the corner.
func (t *Turtle) Loft(prof Profile, p *Path, steps int) (*Mesh, error) {
	if prof == nil || p == nil {
		logger.Debug("loft skipped: no profile or path")
		return NewMesh(t.Pose, t.Material), nil
	}
	if p.Bezier && SelfIntersects(t, p, maxProfileRadius(prof), t.IntersectThreshold) {
		logger.Info("loft would self-intersect; substituting hull-bridged loft")
		return t.Bloft(prof, p, steps, t.IntersectThreshold)
	}
	_, runs, err := replayRuns(t, p)
	if err != nil {
		return nil, err
	}
	lengths, total := runLengths(runs)
	first := prof.At(0)
	if total < epsilon || first == nil || len(first.Points) < 2 {
		logger.Debug("loft skipped: degenerate profile or path")
		return NewMesh(t.Pose, t.Material), nil
	}
	n0 := len(first.Points)

	firstRun, lastRun := -1, -1
	for ri, run := range runs {
		if len(run) < 2 {
			continue
		}
		if firstRun < 0 {
			firstRun = ri
		}
		lastRun = ri
	}

	var parts []*Mesh
	travelled := 0.0
	for ri, run := range runs {
		if len(run) < 2 {
			continue
		}
		if steps > 0 {
			k := int(math.Round(float64(steps) * lengths[ri] / total))
			if k < 1 {
				k = 1
			}
			run = resamplePoses(run, k+1)
		}
		rings := make([][]vec3.T, len(run))
		dist := 0.0
		for i, pose := range run {
			if i > 0 {
				d := vec3.Sub(&run[i].Position, &run[i-1].Position)
				dist += d.Length()
			}
			shape := prof.At(clamp((travelled+dist)/total, 0, 1))
			if shape == nil || len(shape.Points) < 2 {
				shape = first
			}
			if len(shape.Points) != n0 {
				shape = shape.Resample(n0)
			}
			rings[i] = ringAt(shape.Points, pose)
		}
		capStart := first.Closed && ri == firstRun
		capEnd := first.Closed && ri == lastRun
		parts = append(parts, tubeMesh(rings, first.Closed, false, capStart, capEnd, false, run[0], t.Material))
		travelled += lengths[ri]
	}
	if len(parts) == 0 {
		return NewMesh(t.Pose, t.Material), nil
	}
	m := parts[0]
	if len(parts) > 1 {
		m = Combine(parts)
	}
	t.Meshes = append(t.Meshes, m)
	return m, nil
}

// Bloft is the bezier-safe loft: ring segments are generated as in Loft, but
// junctions where the rings would self-intersect are bridged with the convex
// hull of the adjacent ring pair, and all pieces are merged through the
// turtle's Unioner capability into one result. threshold in [0,1] trades
// detection sensitivity for speed; lower is more sensitive.
func (t *Turtle) Bloft(prof Profile, p *Path, steps int, threshold float64) (*Mesh, error) {
	if prof == nil || p == nil {
		logger.Debug("bloft skipped: no profile or path")
		return NewMesh(t.Pose, t.Material), nil
	}
	if threshold <= 0 {
		threshold = t.IntersectThreshold
	}
	threshold = clamp(threshold, 0, 1)
	_, poses, err := Replay(t, p)
	if err != nil {
		return nil, err
	}
	if len(poses) < 2 {
		logger.Debug("bloft skipped: path has no travel")
		return NewMesh(t.Pose, t.Material), nil
	}
	if steps > 0 {
		poses = resamplePoses(poses, steps+1)
	}
	first := prof.At(0)
	if first == nil || len(first.Points) < 2 {
		logger.Debug("bloft skipped: degenerate profile")
		return NewMesh(t.Pose, t.Material), nil
	}
	n0 := len(first.Points)

	cum := make([]float64, len(poses))
	for i := 1; i < len(poses); i++ {
		d := vec3.Sub(&poses[i].Position, &poses[i-1].Position)
		cum[i] = cum[i-1] + d.Length()
	}
	total := cum[len(cum)-1]
	if total < epsilon {
		return NewMesh(t.Pose, t.Material), nil
	}

	rings := make([][]vec3.T, len(poses))
	radii := make([]float64, len(poses))
	for i, pose := range poses {
		shape := prof.At(cum[i] / total)
		if shape == nil || len(shape.Points) < 2 {
			shape = first
		}
		if len(shape.Points) != n0 {
			shape = shape.Resample(n0)
		}
		radii[i] = shape.Radius()
		rings[i] = ringAt(shape.Points, pose)
	}

	var pieces []*Mesh
	closePiece := func(seg [][]vec3.T, startPose Pose) {
		if len(seg) >= 2 {
			pieces = append(pieces, tubeMesh(seg, first.Closed, false, first.Closed, first.Closed, false, startPose, t.Material))
		}
	}
	seg := [][]vec3.T{rings[0]}
	segPose := poses[0]
	bridged := 0
	for i := 1; i < len(poses); i++ {
		turn := headingAngle(&poses[i-1].Heading, &poses[i].Heading)
		chord := cum[i] - cum[i-1]
		if radii[i]*turn > chord*threshold+epsilon {
			closePiece(seg, segPose)
			bridge := append(append([]vec3.T(nil), rings[i-1]...), rings[i]...)
			pieces = append(pieces, hullMesh(bridge, poses[i-1], t.Material))
			bridged++
			seg = [][]vec3.T{rings[i]}
			segPose = poses[i]
			continue
		}
		seg = append(seg, rings[i])
	}
	closePiece(seg, segPose)

	if bridged > 0 {
		logger.Info("bloft bridged self-intersecting ring sections")
	}
	m, err := t.Union.Union(pieces...)
	if err != nil {
		return nil, err
	}
	m.CreationPose = poses[0]
	m.Material = t.Material
	t.Meshes = append(t.Meshes, m)
	return m, nil
}

// hullMesh wraps the external convex-hull capability: the hull of a point
// cloud as a triangle mesh.
func hullMesh(points []vec3.T, pose Pose, material MeshMaterial) *Mesh {
	cloud := make([]r3.Vector, len(points))
	for i, p := range points {
		cloud[i] = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
	}
	hull := new(quickhull.QuickHull).ConvexHull(cloud, true, false, 0)
	m := NewMesh(pose, material)
	m.Vertices = make([]vec3.T, len(hull.Vertices))
	for i, v := range hull.Vertices {
		m.Vertices[i] = vec3.T{v.X, v.Y, v.Z}
	}
	for i := 0; i+2 < len(hull.Indices); i += 3 {
		m.Faces = append(m.Faces, [3]uint32{
			uint32(hull.Indices[i]),
			uint32(hull.Indices[i+1]),
			uint32(hull.Indices[i+2]),
		})
	}
	return m
}
