package memblit

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/g2d/surface"
)

// SetClipping limits blits to the destination rectangle given. An empty
// rectangle turns clipping off.
func (d *Device) SetClipping(left, top, right, bottom int) error {
	if d.closed {
		return ErrClosed
	}
	d.clip = image.Rect(left, top, right, bottom)
	d.clipSet = !d.clip.Empty()
	return nil
}

// Enable turns a capability on. CapDither is accepted and has no effect.
func (d *Device) Enable(c surface.Capability) error { return d.setCap(c, true) }

// Disable turns a capability off.
func (d *Device) Disable(c surface.Capability) error { return d.setCap(c, false) }

func (d *Device) setCap(c surface.Capability, on bool) error {
	if d.closed {
		return ErrClosed
	}
	if c >= 0 && int(c) < len(d.caps) {
		d.caps[c] = on
	}
	return nil
}

// Enabled reports whether a capability is on.
func (d *Device) Enabled(c surface.Capability) bool {
	return c >= 0 && int(c) < len(d.caps) && d.caps[c]
}

// Clear fills the active rectangle of dst with its clear colour. Clearing
// ignores the clipping rectangle and blending.
func (d *Device) Clear(dst surface.Drawable) error {
	if d.closed {
		return ErrClosed
	}
	img, err := d.image(dst)
	if err != nil {
		return err
	}
	r := rect(dst).Intersect(img.rect)
	xdraw.Draw(img, r, image.NewUniform(argb(dst.ClearColor)), image.Point{}, xdraw.Src)
	d.stats.Clears++
	return nil
}

// Blit scales the active rectangle of src onto the active rectangle of
// dst with nearest-neighbour sampling.
//
// With CapBlend the source is composited over the destination, otherwise
// it replaces it. With CapGlobalAlpha every source pixel is first
// multiplied by src.GlobalAlpha.
func (d *Device) Blit(src, dst surface.Drawable) error {
	if d.closed {
		return ErrClosed
	}
	si, err := d.image(src)
	if err != nil {
		return err
	}
	di, err := d.image(dst)
	if err != nil {
		return err
	}
	sr, dr := rect(src), rect(dst)
	d.stats.Blits++
	if sr.Empty() || dr.Empty() {
		return nil
	}
	d.stats.Pixels += dr.Dx() * dr.Dy()

	target := di
	if d.clipSet {
		target = di.clipped(d.clip)
	}
	if target.rect.Empty() {
		return nil
	}

	op := xdraw.Src
	if d.caps[surface.CapBlend] {
		op = xdraw.Over
	}
	var opts *xdraw.Options
	if d.caps[surface.CapGlobalAlpha] {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: src.GlobalAlpha})}
	}
	xdraw.NearestNeighbor.Scale(target, dr, si, sr, op, opts)
	return nil
}

func rect(d surface.Drawable) image.Rectangle {
	return image.Rect(d.Left, d.Top, d.Right, d.Bottom)
}
