package sweep

import (
	"math"

	vec3 "github.com/flywave/go3d/float64/vec3"
)

// bezierPoint evaluates a cubic bezier at parameter t.
func bezierPoint(p0, c1, c2, p3 *vec3.T, t float64) vec3.T {
	u := 1 - t
	out := p0.Scaled(u * u * u)
	b := c1.Scaled(3 * u * u * t)
	c := c2.Scaled(3 * u * t * t)
	d := p3.Scaled(t * t * t)
	out.Add(&b)
	out.Add(&c)
	out.Add(&d)
	return out
}

// bezierSteps derives a sample count for a curve of roughly the given length.
// Angular resolution has no natural angle for a bezier, so it falls back to a
// fixed count.
func bezierSteps(res Resolution, approxLen float64) int {
	switch res.Mode {
	case ResolutionLength:
		if res.Value > 0 {
			n := int(math.Ceil(approxLen / res.Value))
			if n < 1 {
				n = 1
			}
			return n
		}
	case ResolutionCount:
		if n := int(res.Value); n >= 1 {
			return n
		}
	}
	return 24
}

// lowerBezier lowers a cubic bezier from the start pose to target into
// relative turn/move commands. With no explicit controls, control points are
// auto-generated: the first extends from the start along its heading, the
// second pulls back from the target along the chord, both by 0.33 of the
// chord length. A zero-length chord lowers to nothing.
func lowerBezier(start Pose, target vec3.T, controls []vec3.T, res Resolution, steps int) []Command {
	chord := vec3.Sub(&target, &start.Position)
	chordLen := chord.Length()
	if chordLen < epsilon {
		return nil
	}
	var c1, c2 vec3.T
	switch {
	case len(controls) >= 2:
		c1, c2 = controls[0], controls[1]
	case len(controls) == 1:
		c1, c2 = controls[0], controls[0]
	default:
		ext := start.Heading.Scaled(autoControlRatio * chordLen)
		c1 = vec3.Add(&start.Position, &ext)
		chordDir := chord.Scaled(1 / chordLen)
		back := chordDir.Scaled(autoControlRatio * chordLen)
		c2 = vec3.Sub(&target, &back)
	}
	return walkBezier(start, &start.Position, &c1, &c2, &target, res, steps)
}

// lowerBezierToPose lowers a tension-weighted bezier connecting two poses:
// both endpoint headings shape the curve. Tension defaults to 0.33.
func lowerBezierToPose(start Pose, anchor Pose, tension float64, res Resolution, steps int) []Command {
	chord := vec3.Sub(&anchor.Position, &start.Position)
	chordLen := chord.Length()
	if chordLen < epsilon {
		return nil
	}
	if tension <= 0 {
		tension = autoControlRatio
	}
	ext := start.Heading.Scaled(tension * chordLen)
	c1 := vec3.Add(&start.Position, &ext)
	back := anchor.Heading.Scaled(tension * chordLen)
	c2 := vec3.Sub(&anchor.Position, &back)
	return walkBezier(start, &start.Position, &c1, &c2, &anchor.Position, res, steps)
}

func walkBezier(start Pose, p0, c1, c2, p3 *vec3.T, res Resolution, steps int) []Command {
	if steps <= 0 {
		steps = bezierSteps(res, controlPolygonLength(p0, c1, c2, p3))
	}
	targets := make([]vec3.T, steps)
	for i := 1; i <= steps; i++ {
		targets[i-1] = bezierPoint(p0, c1, c2, p3, float64(i)/float64(steps))
	}
	return walkPolyline(start, targets)
}

func controlPolygonLength(p0, c1, c2, p3 *vec3.T) float64 {
	a := vec3.Sub(c1, p0)
	b := vec3.Sub(c2, c1)
	c := vec3.Sub(p3, c2)
	return a.Length() + b.Length() + c.Length()
}

// lowerPolyline resamples an absolute polyline into uniform-length chords and
// lowers it into relative commands (the bezier-as walk).
func lowerPolyline(start Pose, points []vec3.T, res Resolution, steps int) []Command {
	if len(points) == 0 {
		return nil
	}
	waypoints := append([]vec3.T{start.Position}, points...)
	total := polylineLength(waypoints)
	if total < epsilon {
		return nil
	}
	if steps <= 0 {
		steps = bezierSteps(res, total)
	}
	return walkPolyline(start, resamplePolyline(waypoints, steps)[1:])
}

func polylineLength(pts []vec3.T) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		d := vec3.Sub(&pts[i], &pts[i-1])
		total += d.Length()
	}
	return total
}

// resamplePolyline redistributes a polyline into n uniform chords (n+1
// points, endpoints preserved).
func resamplePolyline(pts []vec3.T, n int) []vec3.T {
	total := polylineLength(pts)
	out := make([]vec3.T, 0, n+1)
	out = append(out, pts[0])
	seg := 1
	segStart := 0.0
	segLen := func(i int) float64 {
		d := vec3.Sub(&pts[i], &pts[i-1])
		return d.Length()
	}
	cur := segLen(1)
	for i := 1; i <= n; i++ {
		target := total * float64(i) / float64(n)
		for seg < len(pts)-1 && target > segStart+cur+epsilon {
			segStart += cur
			seg++
			cur = segLen(seg)
		}
		t := 1.0
		if cur > epsilon {
			t = clamp((target-segStart)/cur, 0, 1)
		}
		out = append(out, lerp(&pts[seg-1], &pts[seg], t))
	}
	return out
}

// walkPolyline converts absolute waypoints into relative (th, tv) pairs plus
// forward moves, so the emitted path replays from any starting pose. The up
// vector is propagated with a rotation-minimizing frame; the residual twist
// between the replayed frame and the minimizing frame is emitted as a smooth
// roll so replay reproduces the walked frame exactly.
func walkPolyline(start Pose, targets []vec3.T) []Command {
	pose := start
	var out []Command
	for i := range targets {
		delta := vec3.Sub(&targets[i], &pose.Position)
		dist := delta.Length()
		if dist < epsilon {
			continue
		}
		dir := delta.Scaled(1 / dist)
		upBefore := pose.Up

		// Pitch component: projection of the direction onto the current up.
		vert := clamp(vec3.Dot(&dir, &pose.Up), -1, 1)
		tvDeg := radToDeg(math.Asin(vert))

		// Yaw component: the horizontal remainder against heading/right.
		horiz := dir
		proj := pose.Up.Scaled(vert)
		horiz.Sub(&proj)
		var thDeg float64
		if hlen := horiz.Length(); hlen > 1e-9 {
			hdir := horiz.Scaled(1 / hlen)
			cr := vec3.Cross(&pose.Heading, &hdir)
			sinTh := vec3.Dot(&cr, &pose.Up)
			cosTh := clamp(vec3.Dot(&pose.Heading, &hdir), -1, 1)
			thDeg = radToDeg(math.Atan2(sinTh, cosTh))
		}

		if math.Abs(thDeg) > 1e-12 {
			out = append(out, Command{Op: OpTurnH, Angle: thDeg, Smooth: true})
			pose = pose.Yaw(thDeg)
		}
		if math.Abs(tvDeg) > 1e-12 {
			out = append(out, Command{Op: OpTurnV, Angle: tvDeg, Smooth: true})
			pose = pose.Pitch(tvDeg)
		}

		rmf := rmfUp(&upBefore, &dir)
		cr := vec3.Cross(&pose.Up, &rmf)
		sinTr := vec3.Dot(&cr, &pose.Heading)
		cosTr := clamp(vec3.Dot(&pose.Up, &rmf), -1, 1)
		if trDeg := radToDeg(math.Atan2(sinTr, cosTr)); math.Abs(trDeg) > 1e-9 {
			out = append(out, Command{Op: OpRoll, Angle: trDeg, Smooth: true})
			pose = pose.Roll(trDeg)
		}

		out = append(out, Command{Op: OpForward, Dist: dist, Smooth: true})
		pose = pose.Forward(dist)
	}
	return out
}

// rmfUp propagates an up vector along a direction with a rotation-minimizing
// frame: the up is projected off the direction. When the direction is nearly
// parallel to up the projection degenerates and the double-cross fallback is
// used instead.
func rmfUp(up, dir *vec3.T) vec3.T {
	proj := dir.Scaled(vec3.Dot(up, dir))
	out := *up
	out.Sub(&proj)
	if out.Length() < 1e-9 {
		c := vec3.Cross(dir, up)
		out = vec3.Cross(&c, dir)
	}
	out.Normalize()
	return out
}
