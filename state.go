package g2d

import (
	"errors"
	"fmt"

	"github.com/gogpu/g2d/region"
	"github.com/gogpu/g2d/surface"
)

// SurfaceState is the renderer's view of one surface: the drawable the
// blitter reads, the buffer it came from and the blitter memory holding
// shared-memory pixels.
//
// The state is torn down by whichever of surface destruction and renderer
// destruction happens first.
type SurfaceState struct {
	renderer *Renderer
	surface  *Surface

	drawable surface.Drawable
	attached bool
	buffer   BufferReference

	// Blitter copy of shared-memory pixels.
	shm       *surface.Buffer
	shmLength int
	bpp       int

	textureDamage region.Region
	color         [4]float32

	// One pixel of blitter memory cleared to the fill colour.
	fill      *surface.Buffer
	fillColor uint32
	fillValid bool

	surfaceDestroy  *Listener
	rendererDestroy *Listener
	destroyed       bool
}

// SurfaceState returns the render state of s, creating it on first use.
// It returns nil once the renderer has been destroyed.
func (r *Renderer) SurfaceState(s *Surface) *SurfaceState {
	if s.state != nil {
		return s.state
	}
	if r.destroyed || s.destroyed {
		return nil
	}

	gs := &SurfaceState{renderer: r, surface: s}
	s.state = gs

	gs.surfaceDestroy = NewListener(func(any) { gs.destroy() })
	s.destroySignal.Add(gs.surfaceDestroy)
	gs.rendererDestroy = NewListener(func(any) { gs.destroy() })
	r.destroySignal.Add(gs.rendererDestroy)

	if b := s.Buffer(); b != nil {
		if err := r.Attach(s, b); err == nil {
			r.FlushDamage(s)
		}
	}
	return gs
}

// Drawable returns the blitter description of the attached buffer.
func (gs *SurfaceState) Drawable() surface.Drawable {
	return gs.drawable
}

// Attached reports whether a buffer has been translated successfully.
func (gs *SurfaceState) Attached() bool {
	return gs.attached
}

// BytesPerPixel returns the pixel size of the attached shared-memory buffer.
func (gs *SurfaceState) BytesPerPixel() int {
	return gs.bpp
}

// Color returns the solid fill colour as red, green, blue, alpha.
func (gs *SurfaceState) Color() [4]float32 {
	return gs.color
}

// Buffer returns the buffer awaiting upload, or nil.
func (gs *SurfaceState) Buffer() *Buffer {
	return gs.buffer.Buffer()
}

// destroy releases the buffer reference and the shared-memory storage.
// Only the first call has an effect.
func (gs *SurfaceState) destroy() {
	if gs.destroyed {
		return
	}
	gs.destroyed = true

	gs.surface.destroySignal.Remove(gs.surfaceDestroy)
	gs.renderer.destroySignal.Remove(gs.rendererDestroy)
	if gs.surface.state == gs {
		gs.surface.state = nil
	}

	if gs.shm != nil {
		if err := gs.renderer.blitter.Free(gs.shm); err != nil {
			Logger().Warn("g2d: free surface storage", "err", err)
		}
		gs.shm = nil
	}
	if gs.fill != nil {
		if err := gs.renderer.blitter.Free(gs.fill); err != nil {
			Logger().Warn("g2d: free fill storage", "err", err)
		}
		gs.fill = nil
	}
	gs.buffer.Set(nil)
}

// Attach binds buf to the surface. A nil buf drops the pending buffer and
// keeps the last drawable.
//
// Buffers whose format or tiling cannot be translated are logged and
// rejected; the surface keeps its previous drawable.
func (r *Renderer) Attach(s *Surface, buf *Buffer) error {
	gs := r.SurfaceState(s)
	if gs == nil {
		return ErrRendererDestroyed
	}
	gs.buffer.Set(buf)
	if buf == nil {
		return nil
	}

	var err error
	switch src := buf.Source.(type) {
	case *surface.ShmSource:
		err = gs.attachShm(src)
	default:
		err = gs.attachDrawable(src)
	}
	if err != nil {
		return err
	}
	gs.attached = true
	return nil
}

func (gs *SurfaceState) attachShm(src *surface.ShmSource) error {
	d, err := src.Drawable()
	if err != nil {
		Logger().Warn("g2d: unknown shm buffer format", "format", fmt.Sprintf("%08x", uint32(src.Format)))
		return err
	}
	bpp := d.Format.BytesPerPixel()
	length := d.Stride * src.Height * bpp

	// Storage is only replaced when it is too small.
	gs.shmLength = length
	if gs.shm == nil || gs.shm.Size < length {
		b := gs.renderer.blitter
		if gs.shm != nil {
			if err := b.Free(gs.shm); err != nil {
				Logger().Warn("g2d: free surface storage", "err", err)
			}
			gs.shm = nil
		}
		buf, err := b.Alloc(length, false)
		if err != nil {
			return fmt.Errorf("g2d: alloc %d bytes for shm buffer: %w", length, err)
		}
		gs.shm = buf
	}

	d.Planes[0] = gs.shm.PAddr
	gs.drawable = d
	gs.bpp = bpp
	return nil
}

func (gs *SurfaceState) attachDrawable(src surface.Source) error {
	d, err := src.Drawable()
	if err != nil {
		Logger().Warn("g2d: invalid buffer", "err", err)
		return err
	}
	gs.drawable = d
	return nil
}

// FlushDamage brings the drawable up to date with the pending buffer.
//
// Nothing happens unless a buffer is pending and a view of the surface is
// on the primary plane. Shared-memory pixels are copied row by row into
// the aligned blitter storage when there is damage. The buffer reference
// is dropped afterwards.
func (r *Renderer) FlushDamage(s *Surface) {
	gs := r.SurfaceState(s)
	if gs == nil {
		return
	}
	gs.textureDamage = gs.textureDamage.Union(s.Damage)

	buf := gs.buffer.Buffer()
	if buf == nil {
		return
	}
	used := false
	for _, v := range s.views {
		if v.Plane == PlanePrimary {
			used = true
			break
		}
	}
	if !used {
		return
	}

	if gs.textureDamage.NotEmpty() {
		switch src := buf.Source.(type) {
		case *surface.ShmSource:
			if err := gs.upload(src); err != nil {
				Logger().Warn("g2d: shm upload", "err", err)
			}
		default:
			if err := gs.attachDrawable(src); err == nil {
				gs.attached = true
			}
		}
	}

	gs.textureDamage = region.Region{}
	gs.buffer.Set(nil)
}

var errNotAttached = errors.New("g2d: shm buffer was not attached")

// upload copies the client rows into storage whose rows are padded to the
// aligned width.
func (gs *SurfaceState) upload(src *surface.ShmSource) error {
	if gs.shm == nil || gs.shm.Mem == nil {
		return errNotAttached
	}
	dst := gs.shm.Mem
	rowBytes := src.Width * gs.bpp
	dstPitch := surface.AlignWidth(src.Width) * gs.bpp
	srcPitch := src.Stride
	if srcPitch == 0 {
		srcPitch = rowBytes
	}

	if dstPitch == srcPitch {
		n := min(len(dst), len(src.Data), srcPitch*src.Height)
		copy(dst[:n], src.Data[:n])
		return nil
	}
	for y := 0; y < src.Height; y++ {
		so, do := y*srcPitch, y*dstPitch
		if so+rowBytes > len(src.Data) || do+rowBytes > len(dst) {
			return fmt.Errorf("g2d: shm row %d out of range", y)
		}
		copy(dst[do:do+rowBytes], src.Data[so:so+rowBytes])
	}
	return nil
}

// SetColor sets the fill colour of a surface that has no buffer.
// Components are in [0, 1].
func (r *Renderer) SetColor(s *Surface, red, green, blue, alpha float32) {
	gs := r.SurfaceState(s)
	if gs == nil {
		return
	}
	gs.color = [4]float32{red, green, blue, alpha}
}

// solidColor packs the fill colour as 0xAARRGGBB.
func (gs *SurfaceState) solidColor() uint32 {
	c := func(v float32) uint32 {
		return uint32(min(max(v, 0), 1)*255 + 0.5)
	}
	return c(gs.color[3])<<24 | c(gs.color[0])<<16 | c(gs.color[1])<<8 | c(gs.color[2])
}

// colorSource returns a 1x1 drawable holding the fill colour. The pixel is
// cleared again only when the colour changes.
func (gs *SurfaceState) colorSource() (surface.Drawable, error) {
	b := gs.renderer.blitter
	stride := surface.AlignWidth(1)
	if gs.fill == nil {
		buf, err := b.Alloc(stride*4, false)
		if err != nil {
			return surface.Drawable{}, fmt.Errorf("g2d: alloc fill pixel: %w", err)
		}
		gs.fill = buf
		gs.fillValid = false
	}

	d := surface.Drawable{
		Planes:     [3]uint64{gs.fill.PAddr},
		Right:      1,
		Bottom:     1,
		Stride:     stride,
		Width:      1,
		Height:     1,
		Format:     surface.FormatBGRA8888,
		ClearColor: gs.solidColor(),
	}
	if !gs.fillValid || gs.fillColor != d.ClearColor {
		if err := b.Clear(d); err != nil {
			return surface.Drawable{}, fmt.Errorf("g2d: clear fill pixel: %w", err)
		}
		gs.fillColor = d.ClearColor
		gs.fillValid = true
	}
	return d, nil
}
