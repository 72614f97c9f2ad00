package g2d

import (
	"fmt"

	"github.com/gogpu/g2d/surface"
)

// Renderer composites surfaces onto outputs with a 2D blitter.
//
// A Renderer is not safe for concurrent use. All of its methods, and the
// methods of the outputs and surface states it creates, must be called
// from one goroutine.
type Renderer struct {
	blitter surface.Blitter
	opener  surface.FramebufferOpener
	config  Config
	lookup  func(string) (string, bool)

	destroySignal Signal
	destroyed     bool
}

// NewRenderer opens a blit context and returns a renderer using it.
//
// Without WithBlitter the context comes from the driver registry: the
// driver named by the configuration, or the best available one.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.resolve()

	b := o.blitter
	if b == nil {
		var err error
		dopts := surface.Options{Logger: Logger()}
		if o.config.Driver != "" {
			b, err = surface.OpenByName(o.config.Driver, dopts)
		} else {
			b, err = surface.Open(dopts)
		}
		if err != nil {
			return nil, fmt.Errorf("g2d: open blitter: %w", err)
		}
	}

	Logger().Info("g2d: renderer created", "drm", o.config.DRM, "driver", o.config.Driver)
	return &Renderer{
		blitter: b,
		opener:  o.opener,
		config:  o.config,
		lookup:  o.lookup,
	}, nil
}

// Blitter returns the blit context.
func (r *Renderer) Blitter() surface.Blitter {
	return r.blitter
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// DestroySignal is emitted with the renderer when it is destroyed.
func (r *Renderer) DestroySignal() *Signal {
	return &r.destroySignal
}

// Destroy tears down every surface state and closes the blit context.
// Outputs must be destroyed by their owner. Calling Destroy again is a
// no-op.
func (r *Renderer) Destroy() error {
	if r.destroyed {
		return nil
	}
	r.destroySignal.Emit(r)
	r.destroyed = true
	if err := r.blitter.Close(); err != nil {
		return fmt.Errorf("g2d: close blitter: %w", err)
	}
	return nil
}

// ReadPixels is not supported by the blitter path. It leaves pixels
// untouched and reports success.
func (r *Renderer) ReadPixels(o *Output, format surface.Format, pixels []byte, x, y, width, height int) error {
	return nil
}

// Image is host memory made addressable by the blitter.
type Image struct {
	Drawable surface.Drawable
	buf      *surface.Buffer
}

// CreateImage wraps mem, holding a width×height image with rows stride
// bytes apart, into a drawable. A stride of 0 means tightly packed rows.
func (r *Renderer) CreateImage(format surface.Format, mem []byte, width, height, stride int) (*Image, error) {
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("g2d: create image: %w", surface.ErrUnsupportedFormat)
	}
	pitch := width
	if stride > 0 {
		pitch = stride / bpp
	}
	buf, err := r.blitter.Import(mem)
	if err != nil {
		return nil, fmt.Errorf("g2d: create image: %w", err)
	}
	return &Image{
		Drawable: surface.Drawable{
			Planes:     [3]uint64{buf.PAddr},
			Right:      width,
			Bottom:     height,
			Stride:     pitch,
			Width:      width,
			Height:     height,
			Format:     format,
			Tiling:     surface.TilingLinear,
			Rotation:   surface.Rotation0,
			ClearColor: surface.DefaultClearColor,
		},
		buf: buf,
	}, nil
}

// ReleaseImage returns the memory of img to its owner.
func (r *Renderer) ReleaseImage(img *Image) error {
	if img.buf == nil {
		return nil
	}
	err := r.blitter.Free(img.buf)
	img.buf = nil
	return err
}

// The helpers below issue blitter calls whose failure is a per-frame soft
// error: they are logged and compositing continues.

func (r *Renderer) enable(c surface.Capability) {
	if err := r.blitter.Enable(c); err != nil {
		Logger().Warn("g2d: enable", "cap", c.String(), "err", err)
	}
}

func (r *Renderer) disable(c surface.Capability) {
	if err := r.blitter.Disable(c); err != nil {
		Logger().Warn("g2d: disable", "cap", c.String(), "err", err)
	}
}

func (r *Renderer) clear(d surface.Drawable) {
	if err := r.blitter.Clear(d); err != nil {
		Logger().Warn("g2d: clear failed", "err", err, "dst", d)
	}
}

func (r *Renderer) finish() {
	if err := r.blitter.Finish(); err != nil {
		Logger().Warn("g2d: finish failed", "err", err)
	}
}
