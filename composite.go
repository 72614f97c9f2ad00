package g2d

import (
	"math"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/g2d/internal/clip"
	"github.com/gogpu/g2d/region"
	"github.com/gogpu/g2d/surface"
)

// repaintViews draws the primary-plane views, back to front.
func (r *Renderer) repaintViews(o *Output, views []*View, damage region.Region) {
	for _, v := range views {
		if v.Plane == PlanePrimary {
			r.drawView(o, v, damage)
		}
	}
}

// drawView repaints the damaged, unoccluded part of v. The opaque part of
// the surface is copied; the rest is blended, with global alpha when the
// view is translucent.
func (r *Renderer) drawView(o *Output, v *View, damage region.Region) {
	repaint := v.BoundingBox.Intersect(damage).Subtract(v.Clip)
	if !repaint.NotEmpty() {
		return
	}

	g := o.currentBuffer
	o.bufferDamage[g] = o.bufferDamage[g].Subtract(repaint)

	gs := r.SurfaceState(v.Surface)
	if gs == nil {
		return
	}

	s := v.Surface
	blend := region.FromRect(region.R(0, 0, s.Width, s.Height)).Subtract(s.Opaque)

	if s.Opaque.NotEmpty() {
		r.repaintRegion(o, v, gs, repaint, s.Opaque)
	}

	if blend.NotEmpty() {
		r.enable(surface.CapBlend)
		if v.Alpha < 1 {
			r.enable(surface.CapGlobalAlpha)
			gs.drawable.GlobalAlpha = uint8(v.Alpha * 0xFF)
		}
		r.repaintRegion(o, v, gs, repaint, blend)
		r.disable(surface.CapGlobalAlpha)
		r.disable(surface.CapBlend)
	}
}

// repaintRegion blits the part of the surface region surf that falls in
// the global region rgn.
//
// Source and destination rectangles are computed once from the first
// rectangle of the bounding box. Each (damage rectangle, surface
// rectangle) pair then programs the hardware clip with the bounds of
// their intersection polygon and issues a blit.
func (r *Renderer) repaintRegion(o *Output, v *View, gs *SurfaceState, rgn, surf region.Region) {
	bb := v.BoundingBox.Rects()
	solid := !gs.attached && gs.color[3] > 0
	if (!gs.attached && !solid) || len(bb) == 0 {
		return
	}
	// Translucent colour fills are blended from a one pixel source so that
	// blending and global alpha apply.
	fill := solid && (v.Alpha < 1 || gs.color[3] < 1)

	dst, ok := o.target()
	if !ok {
		Logger().Warn("g2d: output has no render target")
		return
	}

	s := v.Surface
	var src region.Rect
	if v.X < 0 {
		src.Left = intFromFloat(math.Abs(v.X))
	}
	if v.Y < 0 {
		src.Top = intFromFloat(math.Abs(v.Y))
	}
	src.Right, src.Bottom = s.Width, s.Height

	dr := region.R(max(bb[0].Left, 0), max(bb[0].Top, 0), bb[0].Right, bb[0].Bottom)
	if o.x > 0 {
		dr.Left -= o.x
		dr.Right -= o.x
	}
	if dr.Left < 0 {
		src.Left -= dr.Left
		dr.Left = 0
		if src.Left > s.Width {
			return
		}
	}
	if dr.Right > dst.Width {
		dr.Right = dst.Width
		src.Right = src.Left + dr.Right - dr.Left
		if src.Right > s.Width {
			return
		}
	}
	if dr.Bottom > dst.Height {
		dr.Bottom = dst.Height
		src.Bottom = src.Top + dr.Bottom - dr.Top
		if src.Bottom < 0 {
			return
		}
	}

	srcDrawable := gs.drawable
	if fill {
		d, err := gs.colorSource()
		if err != nil {
			Logger().Warn("g2d: colour fill source", "err", err)
			return
		}
		d.GlobalAlpha = gs.drawable.GlobalAlpha
		srcDrawable = d
		src = d.Bounds()
	}

	for _, rc := range rgn.Rects() {
		for _, sr := range surf.Rects() {
			poly := calculateEdges(v, rc, sr)
			if poly.Len() < 3 {
				continue
			}
			b := poly.Bounds()
			cr := region.R(intFromFloat(b.X1), intFromFloat(b.Y1), intFromFloat(b.X2), intFromFloat(b.Y2))
			if o.x > 0 {
				cr.Left -= o.x
				cr.Right -= o.x
			}

			if solid && !fill {
				area := dst.WithRect(cr.Intersect(dr))
				area.ClearColor = gs.solidColor()
				if !area.Rect().Empty() {
					r.clear(area)
				}
				continue
			}
			if err := r.blitter.SetClipping(cr.Left, cr.Top, cr.Right, cr.Bottom); err != nil {
				Logger().Warn("g2d: set clipping", "err", err)
			}
			r.blitSurface(srcDrawable, dst, src, dr)
		}
	}
}

// blitSurface copies srcRect of src onto dstRect of dst with the source
// over blend factors. Blending is turned off for sources without alpha.
func (r *Renderer) blitSurface(src, dst surface.Drawable, srcRect, dstRect region.Rect) {
	src = src.WithRect(srcRect)
	dst = dst.WithRect(dstRect)
	src.BlendFunc = surface.BlendOne
	dst.BlendFunc = surface.BlendOneMinusSrcAlpha
	if !src.HasAlpha() {
		r.disable(surface.CapBlend)
	}
	if err := r.blitter.Blit(src, dst); err != nil {
		Logger().Warn("g2d: blit failed", "err", err, "src", src, "dst", dst)
	}
}

// calculateEdges intersects the surface rectangle sr, mapped to global
// coordinates by the view, with the global rectangle rc.
func calculateEdges(v *View, rc, sr region.Rect) clip.Polygon {
	return clip.ClipQuad(
		clip.NewBox(rc.Left, rc.Top, rc.Right, rc.Bottom),
		clip.NewBox(sr.Left, sr.Top, sr.Right, sr.Bottom),
		v.ToGlobal,
		v.Transform.Enabled,
	)
}

// intFromFloat snaps d to the 24.8 fixed-point grid and truncates toward
// zero.
func intFromFloat(d float64) int {
	// 24.8 widens exactly to 52.12.
	v := fixed.Int52_12(math.RoundToEven(d*256)) << 4
	if v < 0 {
		return -(-v).Floor()
	}
	return v.Floor()
}
