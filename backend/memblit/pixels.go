package memblit

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/g2d/surface"
)

// layout gives the byte offset of each component of a 32-bit pixel. An
// alpha offset of -1 marks an ignored padding byte.
type layout struct {
	r, g, b, a int
}

// Formats that share a GPU texture layout are resolved through
// layoutOf; the rest are listed here.
var layouts = map[surface.Format]layout{
	surface.FormatARGB8888: {1, 2, 3, 0},
	surface.FormatABGR8888: {3, 2, 1, 0},
	surface.FormatXRGB8888: {1, 2, 3, -1},
	surface.FormatXBGR8888: {3, 2, 1, -1},
}

// packedSize returns the pixel size of the formats the device emulates.
func packedSize(f surface.Format) (int, bool) {
	switch f {
	case surface.FormatRGB565, surface.FormatBGR565:
		return 2, true
	}
	if _, ok := layoutOf(f); ok {
		return 4, true
	}
	return 0, false
}

// layoutOf returns the byte layout of a packed 32-bit format.
func layoutOf(f surface.Format) (layout, bool) {
	var l layout
	switch f.TextureFormat() {
	case gputypes.TextureFormatRGBA8Unorm:
		l = layout{0, 1, 2, 3}
	case gputypes.TextureFormatBGRA8Unorm:
		l = layout{2, 1, 0, 3}
	default:
		l, ok := layouts[f]
		return l, ok
	}
	if !f.HasAlpha() {
		l.a = -1
	}
	return l, true
}

// pixels is a draw.Image over device memory. Colours are premultiplied;
// formats without alpha read as opaque.
type pixels struct {
	mem    []byte
	pitch  int
	bpp    int
	format surface.Format
	layout layout
	rect   image.Rectangle
}

func (p *pixels) ColorModel() color.Model { return color.RGBAModel }

func (p *pixels) Bounds() image.Rectangle { return p.rect }

// clipped returns p limited to r.
func (p *pixels) clipped(r image.Rectangle) *pixels {
	q := *p
	q.rect = p.rect.Intersect(r)
	return &q
}

func (p *pixels) offset(x, y int) int {
	return y*p.pitch + x*p.bpp
}

func (p *pixels) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(p.rect)) {
		return color.RGBA{}
	}
	return p.rgbaAt(x, y)
}

func (p *pixels) rgbaAt(x, y int) color.RGBA {
	px := p.mem[p.offset(x, y):]
	switch p.format {
	case surface.FormatRGB565, surface.FormatBGR565:
		v := uint16(px[0]) | uint16(px[1])<<8
		hi, mid, lo := expand5(v>>11), expand6(v>>5&0x3f), expand5(v&0x1f)
		if p.format == surface.FormatBGR565 {
			hi, lo = lo, hi
		}
		return color.RGBA{hi, mid, lo, 0xff}
	}
	l := p.layout
	c := color.RGBA{px[l.r], px[l.g], px[l.b], 0xff}
	if l.a >= 0 {
		c.A = px[l.a]
	}
	return c
}

func (p *pixels) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.rect)) {
		return
	}
	p.setRGBA(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}

func (p *pixels) setRGBA(x, y int, c color.RGBA) {
	px := p.mem[p.offset(x, y):]
	switch p.format {
	case surface.FormatRGB565, surface.FormatBGR565:
		hi, lo := c.R, c.B
		if p.format == surface.FormatBGR565 {
			hi, lo = lo, hi
		}
		v := uint16(hi>>3)<<11 | uint16(c.G>>2)<<5 | uint16(lo>>3)
		px[0], px[1] = byte(v), byte(v>>8)
		return
	}
	l := p.layout
	px[l.r], px[l.g], px[l.b] = c.R, c.G, c.B
	if l.a >= 0 {
		px[l.a] = c.A
	}
}

func expand5(v uint16) uint8 { return uint8(v<<3 | v>>2) }
func expand6(v uint16) uint8 { return uint8(v<<2 | v>>4) }

// argb converts a 0xAARRGGBB clear colour.
func argb(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: uint8(v >> 24)}
}

// Snapshot copies the visible pixels of a drawable into an RGBA image.
func (d *Device) Snapshot(dr surface.Drawable) (*image.RGBA, error) {
	p, err := d.image(dr)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(p.rect)
	for y := p.rect.Min.Y; y < p.rect.Max.Y; y++ {
		for x := p.rect.Min.X; x < p.rect.Max.X; x++ {
			out.SetRGBA(x, y, p.rgbaAt(x, y))
		}
	}
	return out, nil
}
