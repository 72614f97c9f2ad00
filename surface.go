package g2d

import (
	"slices"

	"github.com/gogpu/g2d/region"
)

// Surface is a client surface as seen by the renderer: a size, the
// regions the client declared, the committed buffer and the views that
// show it.
type Surface struct {
	Width, Height int

	// Opaque is the part of the surface known to be fully opaque, in
	// surface coordinates.
	Opaque region.Region

	// Damage is the area changed by the last commit, in surface
	// coordinates. The host clears it after FlushDamage.
	Damage region.Region

	buffer        BufferReference
	views         []*View
	destroySignal Signal
	state         *SurfaceState
	destroyed     bool
}

// NewSurface returns a surface of the given size without a buffer.
func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height}
}

// Commit references b as the current buffer, resizes the surface to the
// buffer and marks the whole surface damaged. A nil b removes the buffer.
func (s *Surface) Commit(b *Buffer) {
	s.buffer.Set(b)
	if b != nil {
		s.Width, s.Height = b.Size()
	}
	s.Damage = region.FromRect(region.R(0, 0, s.Width, s.Height))
}

// Buffer returns the committed buffer, or nil.
func (s *Surface) Buffer() *Buffer {
	return s.buffer.Buffer()
}

// Views returns the views of the surface.
func (s *Surface) Views() []*View {
	return s.views
}

// RemoveView detaches v from the surface.
func (s *Surface) RemoveView(v *View) {
	if i := slices.Index(s.views, v); i >= 0 {
		s.views = slices.Delete(s.views, i, i+1)
	}
}

// DestroySignal is emitted with the surface when it is destroyed.
func (s *Surface) DestroySignal() *Signal {
	return &s.destroySignal
}

// Destroy notifies destroy listeners and drops the committed buffer.
// Calling it again is a no-op.
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.destroySignal.Emit(s)
	s.buffer.Set(nil)
	s.views = nil
}
