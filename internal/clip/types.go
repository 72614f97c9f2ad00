// Package clip computes the intersection of transformed surface rectangles
// with axis-aligned clip windows.
package clip

import "math"

// Point represents a 2D point with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Lerp performs linear interpolation between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// near reports whether p and q are the same vertex for clipping purposes.
func (p Point) near(q Point) bool {
	return math.Abs(p.X-q.X) < vertexEpsilon && math.Abs(p.Y-q.Y) < vertexEpsilon
}

// Box is an axis-aligned box given by its edges, in global coordinates.
type Box struct {
	X1, Y1 float64 // Top-left corner
	X2, Y2 float64 // Bottom-right corner
}

// NewBox creates a Box from integer edges.
func NewBox(x1, y1, x2, y2 int) Box {
	return Box{X1: float64(x1), Y1: float64(y1), X2: float64(x2), Y2: float64(y2)}
}

// Overlaps reports whether b and o share a region of positive area.
func (b Box) Overlaps(o Box) bool {
	return !(o.X1 >= b.X2 || o.X2 <= b.X1 || o.Y1 >= b.Y2 || o.Y2 <= b.Y1)
}

// clamp moves p inside b.
func (b Box) clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, b.X1), b.X2),
		Y: math.Min(math.Max(p.Y, b.Y1), b.Y2),
	}
}

// boundsOf returns the bounding box of pts. pts must not be empty.
func boundsOf(pts []Point) Box {
	b := Box{X1: pts[0].X, Y1: pts[0].Y, X2: pts[0].X, Y2: pts[0].Y}
	for _, p := range pts[1:] {
		b.X1 = math.Min(b.X1, p.X)
		b.X2 = math.Max(b.X2, p.X)
		b.Y1 = math.Min(b.Y1, p.Y)
		b.Y2 = math.Max(b.Y2, p.Y)
	}
	return b
}
