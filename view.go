package g2d

import (
	"math"

	"github.com/gogpu/g2d/region"
)

// Plane identifies the hardware plane a view is presented on. Only views
// on the primary plane are composited by the renderer.
type Plane int

// Planes.
const (
	PlanePrimary Plane = iota
	PlaneOverlay
	PlaneCursor
)

// Mapper maps surface-local coordinates to global coordinates.
type Mapper interface {
	Map(x, y float64) (float64, float64)
}

// Transform is the view transform. When Enabled is false the view is only
// translated by its position.
type Transform struct {
	Enabled bool
	Mapper  Mapper
}

// View is one placement of a surface in the global coordinate space.
type View struct {
	Surface *Surface

	// X and Y place the surface origin when the transform is disabled.
	X, Y float64

	Transform Transform

	// BoundingBox covers the transformed surface, in global coordinates.
	BoundingBox region.Region

	// Clip is the part of the bounding box hidden by opaque views above.
	Clip region.Region

	Alpha float32
	Plane Plane
}

// NewView places s at the origin, fully opaque, on the primary plane.
func NewView(s *Surface) *View {
	v := &View{Surface: s, Alpha: 1}
	s.views = append(s.views, v)
	v.UpdateBoundingBox()
	return v
}

// SetPosition moves an untransformed view.
func (v *View) SetPosition(x, y float64) {
	v.X, v.Y = x, y
	v.UpdateBoundingBox()
}

// SetTransform installs m as the view transform. A nil m disables the
// transform. A Matrix that only translates moves the view instead.
func (v *View) SetTransform(m Mapper) {
	if t, ok := m.(Matrix); ok && t.IsTranslation() {
		v.X, v.Y = t.C, t.F
		m = nil
	}
	v.Transform = Transform{Enabled: m != nil, Mapper: m}
	v.UpdateBoundingBox()
}

// ToGlobal maps a surface-local point to global coordinates.
func (v *View) ToGlobal(x, y float64) (float64, float64) {
	if !v.Transform.Enabled {
		return x + v.X, y + v.Y
	}
	return v.Transform.Mapper.Map(x, y)
}

// UpdateBoundingBox recomputes the bounding box from the surface size,
// the position and the transform.
func (v *View) UpdateBoundingBox() {
	w, h := float64(v.Surface.Width), float64(v.Surface.Height)
	if !v.Transform.Enabled {
		x, y := int(math.Floor(v.X)), int(math.Floor(v.Y))
		v.BoundingBox = region.FromRect(region.XYWH(x, y, v.Surface.Width, v.Surface.Height))
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}} {
		x, y := v.ToGlobal(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	v.BoundingBox = region.FromRect(region.R(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	))
}

// Visible reports whether some part of the view is not hidden by the
// views above it.
func (v *View) Visible() bool {
	return v.BoundingBox.Subtract(v.Clip).NotEmpty()
}

// opaqueGlobal returns the surface opaque region in global coordinates.
// Transformed or translucent views hide nothing.
func (v *View) opaqueGlobal() region.Region {
	if v.Transform.Enabled || v.Alpha < 1 {
		return region.Region{}
	}
	return v.Surface.Opaque.Translate(int(math.Floor(v.X)), int(math.Floor(v.Y)))
}

// ComputeClips sets the clip of every view in a back-to-front list to the
// union of the opaque regions of the primary-plane views above it.
func ComputeClips(views []*View) {
	var above region.Region
	for i := len(views) - 1; i >= 0; i-- {
		v := views[i]
		v.Clip = above
		if v.Plane == PlanePrimary {
			above = above.Union(v.opaqueGlobal())
		}
	}
}
