package g2d

import (
	"github.com/gogpu/g2d/region"
)

// copyToFramebuffer finishes a frame on the display hardware: the
// offscreen surface is copied to the hardware buffer in single-buffer
// mode, every mirror receives a scaled copy of the frame and
// multi-buffer outputs pan to the buffer just drawn.
func (r *Renderer) copyToFramebuffer(o *Output) {
	if o.fb == nil {
		return
	}
	composed := !o.directBlit && o.bufferCount == 1
	hw := o.renderSurfs[o.active]

	if composed {
		full := o.offscreen.Bounds()
		clipRect := full
		if r.config.ClipFramebufferCopy {
			clipRect = o.damageClip()
		}
		if !clipRect.Empty() {
			if err := r.blitter.SetClipping(clipRect.Left, clipRect.Top, clipRect.Right, clipRect.Bottom); err != nil {
				Logger().Warn("g2d: set clipping", "err", err)
			}
			r.blitSurface(o.offscreen, hw, full, full)
		}
	}

	src := hw
	if composed {
		src = o.offscreen
	}
	for _, m := range o.mirrors {
		dstRect := m.dst.Bounds()
		if err := r.blitter.SetClipping(dstRect.Left, dstRect.Top, dstRect.Right, dstRect.Bottom); err != nil {
			Logger().Warn("g2d: set clipping", "err", err)
		}
		r.blitSurface(src, m.dst, hw.Bounds(), dstRect)
	}

	r.finish()

	if o.bufferCount > 1 {
		o.flip()
	}
}

// damageClip returns the extents of the published damage in offscreen
// coordinates.
func (o *Output) damageClip() region.Rect {
	ext := o.previousDamage.Extents()
	if w := o.offscreen.Width; ext.Left >= w {
		ext.Left -= w
		ext.Right -= w
	}
	return ext.Intersect(o.offscreen.Bounds())
}

// flip scans out the active buffer and advances to the next one.
func (o *Output) flip() {
	yoffset := o.active * o.height
	if err := o.fb.Pan(yoffset); err != nil {
		Logger().Warn("g2d: pan display failed", "yoffset", yoffset, "err", err)
	}
	o.active = (o.active + 1) % o.bufferCount
}
