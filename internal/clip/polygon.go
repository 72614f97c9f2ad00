package clip

// MaxVertices is the largest vertex count a quadrilateral can reach after
// being clipped by the four sides of a box.
const MaxVertices = 8

// vertexEpsilon is the distance under which two clipped vertices collapse.
const vertexEpsilon = 1e-6

// Polygon is a convex polygon of at most MaxVertices vertices, wound
// clockwise in y-down coordinates.
type Polygon struct {
	pts [MaxVertices]Point
	n   int
}

// Len returns the number of vertices.
func (p *Polygon) Len() int {
	return p.n
}

// Points returns the vertices. The slice aliases p.
func (p *Polygon) Points() []Point {
	return p.pts[:p.n]
}

// Bounds returns the bounding box of the polygon. The result is the zero
// Box for an empty polygon.
func (p *Polygon) Bounds() Box {
	if p.n == 0 {
		return Box{}
	}
	return boundsOf(p.pts[:p.n])
}

func (p *Polygon) push(pt Point) {
	if p.n < MaxVertices {
		p.pts[p.n] = pt
		p.n++
	}
}

// ClipQuad intersects the surface rectangle surf, mapped to global
// coordinates by toGlobal, with the clip box.
//
// The result has either zero vertices or between 3 and 8 vertices
// enclosing a positive area. When transformed is false the mapping is
// assumed to be a pure translation and the corners are simply clamped.
func ClipQuad(clip Box, surf Box, toGlobal func(x, y float64) (float64, float64), transformed bool) Polygon {
	var quad Polygon
	corners := [4]Point{
		{surf.X1, surf.Y1},
		{surf.X2, surf.Y1},
		{surf.X2, surf.Y2},
		{surf.X1, surf.Y2},
	}
	for _, c := range corners {
		x, y := toGlobal(c.X, c.Y)
		quad.push(Point{x, y})
	}

	// Cheap rejection before any per-edge work.
	if !clip.Overlaps(quad.Bounds()) {
		return Polygon{}
	}

	if !transformed {
		return ClipSimple(clip, &quad)
	}

	out := ClipTransformed(clip, &quad)
	if out.n < 3 {
		return Polygon{}
	}
	return out
}

// ClipSimple clamps every vertex of an axis-aligned polygon into the clip
// box. The vertex count is unchanged.
func ClipSimple(clip Box, poly *Polygon) Polygon {
	var out Polygon
	for _, pt := range poly.Points() {
		out.push(clip.clamp(pt))
	}
	return out
}

// ClipTransformed clips an arbitrary convex polygon against the four
// half-planes of the clip box (Sutherland–Hodgman), in the order left,
// right, top, bottom, and drops duplicate vertices from the result.
func ClipTransformed(clip Box, poly *Polygon) Polygon {
	var a, b Polygon

	clipEdge(poly, &a,
		func(p Point) bool { return p.X >= clip.X1 },
		func(s, e Point) Point { return crossX(s, e, clip.X1) })
	clipEdge(&a, &b,
		func(p Point) bool { return p.X <= clip.X2 },
		func(s, e Point) Point { return crossX(s, e, clip.X2) })
	clipEdge(&b, &a,
		func(p Point) bool { return p.Y >= clip.Y1 },
		func(s, e Point) Point { return crossY(s, e, clip.Y1) })
	clipEdge(&a, &b,
		func(p Point) bool { return p.Y <= clip.Y2 },
		func(s, e Point) Point { return crossY(s, e, clip.Y2) })

	return dedup(&b)
}

// clipEdge runs one half-plane pass: for every edge s→e it keeps s when it
// is inside and adds the boundary crossing when s and e are on different
// sides.
func clipEdge(in, out *Polygon, inside func(Point) bool, cross func(s, e Point) Point) {
	out.n = 0
	n := in.n
	for i := 0; i < n; i++ {
		s := in.pts[i]
		e := in.pts[(i+1)%n]
		sIn, eIn := inside(s), inside(e)
		if sIn {
			out.push(s)
		}
		if sIn != eIn {
			out.push(cross(s, e))
		}
	}
}

// crossX returns the point where s→e meets the vertical line at x.
func crossX(s, e Point, x float64) Point {
	t := (x - s.X) / (e.X - s.X)
	p := s.Lerp(e, t)
	p.X = x
	return p
}

// crossY returns the point where s→e meets the horizontal line at y.
func crossY(s, e Point, y float64) Point {
	t := (y - s.Y) / (e.Y - s.Y)
	p := s.Lerp(e, t)
	p.Y = y
	return p
}

func dedup(in *Polygon) Polygon {
	var out Polygon
	if in.n == 0 {
		return out
	}
	out.push(in.pts[0])
	for _, pt := range in.pts[1:in.n] {
		if pt.near(out.pts[out.n-1]) {
			continue
		}
		out.push(pt)
	}
	if out.n > 1 && out.pts[out.n-1].near(out.pts[0]) {
		out.n--
	}
	return out
}
