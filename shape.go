package sweep

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
	vec2 "github.com/flywave/go3d/float64/vec2"
)

// Shape is an ordered 2D point sequence, optionally with hole contours.
// Closed shapes auto-connect the last point back to the first.
type Shape struct {
	Points []vec2.T
	Holes  [][]vec2.T
	Closed bool
}

// NewShape builds a shape from explicit points.
func NewShape(points []vec2.T, closed bool) *Shape {
	return &Shape{Points: points, Closed: closed}
}

// Circle returns a closed regular polygon approximating a circle of the given
// radius, wound counterclockwise.
func Circle(radius float64, segments int) *Shape {
	if segments < 3 {
		segments = 3
	}
	pts := make([]vec2.T, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = vec2.T{radius * math.Cos(a), radius * math.Sin(a)}
	}
	return &Shape{Points: pts, Closed: true}
}

// Rect returns a closed axis-aligned rectangle centered on the origin.
func Rect(w, h float64) *Shape {
	return &Shape{
		Points: []vec2.T{
			{-w / 2, -h / 2},
			{w / 2, -h / 2},
			{w / 2, h / 2},
			{-w / 2, h / 2},
		},
		Closed: true,
	}
}

// Radius returns the largest distance from the origin to any outline point.
// The self-intersection heuristic compares this against path curvature.
func (s *Shape) Radius() float64 {
	var r float64
	for i := range s.Points {
		if l := s.Points[i].Length(); l > r {
			r = l
		}
	}
	return r
}

// Perimeter returns the outline length, including the closing edge for
// closed shapes.
func (s *Shape) Perimeter() float64 {
	var total float64
	n := len(s.Points)
	if n < 2 {
		return 0
	}
	limit := n - 1
	if s.Closed {
		limit = n
	}
	for i := 0; i < limit; i++ {
		d := vec2.Sub(&s.Points[(i+1)%n], &s.Points[i])
		total += d.Length()
	}
	return total
}

func (s *Shape) minX() float64 {
	min := math.Inf(1)
	for i := range s.Points {
		if s.Points[i][0] < min {
			min = s.Points[i][0]
		}
	}
	return min
}

// Clone deep-copies the shape.
func (s *Shape) Clone() *Shape {
	out := &Shape{Points: append([]vec2.T(nil), s.Points...), Closed: s.Closed}
	for _, h := range s.Holes {
		out.Holes = append(out.Holes, append([]vec2.T(nil), h...))
	}
	return out
}

// Resample redistributes the outline to n points spaced uniformly by arc
// length. Holes are carried over unchanged.
func (s *Shape) Resample(n int) *Shape {
	if n < 2 || len(s.Points) < 2 {
		return s.Clone()
	}
	total := s.Perimeter()
	if total < epsilon {
		return s.Clone()
	}
	out := &Shape{Points: make([]vec2.T, n), Closed: s.Closed}
	for _, h := range s.Holes {
		out.Holes = append(out.Holes, append([]vec2.T(nil), h...))
	}
	src := s.Points
	m := len(src)
	segCount := m - 1
	if s.Closed {
		segCount = m
	}
	denom := float64(n)
	if !s.Closed {
		denom = float64(n - 1)
	}
	seg := 0
	segStart := 0.0
	segLen := func(i int) float64 {
		d := vec2.Sub(&src[(i+1)%m], &src[i])
		return d.Length()
	}
	cur := segLen(0)
	for i := 0; i < n; i++ {
		target := total * float64(i) / denom
		for seg < segCount-1 && target > segStart+cur {
			segStart += cur
			seg++
			cur = segLen(seg)
		}
		t := 0.0
		if cur > epsilon {
			t = clamp((target-segStart)/cur, 0, 1)
		}
		a := src[seg]
		b := src[(seg+1)%m]
		d := vec2.Sub(&b, &a)
		d.Scale(t)
		out.Points[i] = vec2.Add(&a, &d)
	}
	return out
}

// alignTo cyclically rotates a closed shape's start index to minimize the
// summed squared distance to the reference outline, reducing twist when two
// shapes are interpolated. Point counts must match.
func (s *Shape) alignTo(ref *Shape) *Shape {
	n := len(s.Points)
	if !s.Closed || n == 0 || n != len(ref.Points) {
		return s
	}
	best, bestOff := math.Inf(1), 0
	for off := 0; off < n; off++ {
		var sum float64
		for i := 0; i < n; i++ {
			d := vec2.Sub(&s.Points[(i+off)%n], &ref.Points[i])
			sum += d.LengthSqr()
		}
		if sum < best {
			best, bestOff = sum, off
		}
	}
	if bestOff == 0 {
		return s
	}
	out := s.Clone()
	for i := 0; i < n; i++ {
		out.Points[i] = s.Points[(i+bestOff)%n]
	}
	return out
}

// interpolateShape blends two outlines with equal point counts. Holes do not
// interpolate; the result carries none.
func interpolateShape(a, b *Shape, t float64) *Shape {
	n := len(a.Points)
	out := &Shape{Points: make([]vec2.T, n), Closed: a.Closed}
	for i := 0; i < n; i++ {
		d := vec2.Sub(&b.Points[i], &a.Points[i])
		d.Scale(t)
		out.Points[i] = vec2.Add(&a.Points[i], &d)
	}
	return out
}

// clipAxis intersects the shape with the x >= 0 half-plane, the preparation
// step revolve uses to avoid self-intersecting lathe geometry. Returns nil
// when clipping removes the whole outline. Shapes already in the half-plane
// are returned unchanged.
func (s *Shape) clipAxis() *Shape {
	if len(s.Points) == 0 {
		return nil
	}
	if s.minX() >= 0 {
		return s
	}
	var maxX, minY, maxY float64 = 0, math.Inf(1), math.Inf(-1)
	for i := range s.Points {
		if s.Points[i][0] > maxX {
			maxX = s.Points[i][0]
		}
		if s.Points[i][1] < minY {
			minY = s.Points[i][1]
		}
		if s.Points[i][1] > maxY {
			maxY = s.Points[i][1]
		}
	}
	if maxX <= 0 {
		return nil
	}
	clip := polyclip.Polygon{{
		{X: 0, Y: minY - 1},
		{X: maxX + 1, Y: minY - 1},
		{X: maxX + 1, Y: maxY + 1},
		{X: 0, Y: maxY + 1},
	}}
	res := polyclip.Polygon{contourOf(s.Points)}.Construct(polyclip.INTERSECTION, clip)
	outline := largestContour(res)
	if outline == nil {
		return nil
	}
	out := &Shape{Points: outline, Closed: true}
	for _, h := range s.Holes {
		hres := polyclip.Polygon{contourOf(h)}.Construct(polyclip.INTERSECTION, clip)
		if hc := largestContour(hres); hc != nil {
			out.Holes = append(out.Holes, hc)
		}
	}
	return out
}

func contourOf(pts []vec2.T) polyclip.Contour {
	c := make(polyclip.Contour, len(pts))
	for i, p := range pts {
		c[i] = polyclip.Point{X: p[0], Y: p[1]}
	}
	return c
}

func largestContour(poly polyclip.Polygon) []vec2.T {
	bestArea := 0.0
	var best polyclip.Contour
	for _, c := range poly {
		if a := math.Abs(contourArea(c)); a > bestArea {
			bestArea, best = a, c
		}
	}
	if best == nil || bestArea < epsilon {
		return nil
	}
	out := make([]vec2.T, len(best))
	for i, p := range best {
		out[i] = vec2.T{p.X, p.Y}
	}
	return out
}

func contourArea(c polyclip.Contour) float64 {
	var sum float64
	n := len(c)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}

// Profile supplies the cross-section for a sweep at normalized progress
// t in [0,1]. A fixed *Shape is a Profile; so is a ShapeFn.
type Profile interface {
	At(t float64) *Shape
}

// At implements Profile for a constant cross-section.
func (s *Shape) At(float64) *Shape { return s }

// ShapeFn is an externally supplied cross-section generator, opaque to the
// kernel (taper, twist, noise and the like live on the caller's side).
type ShapeFn func(t float64) *Shape

// At implements Profile.
func (f ShapeFn) At(t float64) *Shape { return f(t) }

// morphProfile interpolates between two outlines.
type morphProfile struct {
	from, to *Shape
}

// NewMorphProfile prepares a two-shape profile: outlines with differing point
// counts are resampled to the larger count and angularly aligned so the
// interpolation does not twist.
func NewMorphProfile(from, to *Shape) Profile {
	a, b := from, to
	if len(a.Points) != len(b.Points) {
		n := len(a.Points)
		if len(b.Points) > n {
			n = len(b.Points)
		}
		a = a.Resample(n)
		b = b.Resample(n)
	}
	b = b.alignTo(a)
	return &morphProfile{from: a, to: b}
}

func (m *morphProfile) At(t float64) *Shape {
	return interpolateShape(m.from, m.to, clamp(t, 0, 1))
}
