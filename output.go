package g2d

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/g2d/region"
	"github.com/gogpu/g2d/surface"
)

// damageGenerations is the depth of the per-output damage ring. It stays
// 2 in single-buffer mode.
const damageGenerations = 2

// OutputOptions describes an output to create.
type OutputOptions struct {
	// X is the horizontal offset of the output in the global space.
	X int

	// Devices is a comma-separated list of framebuffer devices. The first
	// is the primary display; the others mirror it.
	Devices string

	// Width and Height size DRM outputs. Framebuffer outputs take their
	// size from the primary device.
	Width, Height int
}

type mirror struct {
	device string
	fb     surface.Framebuffer
	dst    surface.Drawable
}

// Output is the render state of one display.
type Output struct {
	renderer *Renderer
	x        int
	width    int
	height   int
	drm      bool

	bufferDamage  [damageGenerations]region.Region
	currentBuffer int

	fb          surface.Framebuffer
	renderSurfs []surface.Drawable
	bufferCount int
	active      int

	offscreen    surface.Drawable
	offscreenBuf *surface.Buffer

	mirrors   []mirror
	drmBuffer *surface.Drawable

	directBlit     bool
	previousDamage region.Region
	frameSignal    Signal
	stage          FrameStage
	destroyed      bool
}

// ParseDevices splits a comma-separated device list. Spaces are removed.
func ParseDevices(list string) ([]string, error) {
	list = strings.ReplaceAll(list, " ", "")
	if list == "" {
		return nil, ErrInvalidDevice
	}
	devices := strings.Split(list, ",")
	for i, d := range devices {
		if d == "" {
			return nil, fmt.Errorf("%w: empty entry %d in %q", ErrInvalidDevice, i, list)
		}
	}
	return devices, nil
}

// CreateOutput opens the framebuffer devices of an output and prepares
// its render surfaces.
//
// The number of hardware buffers comes from the configuration and the
// FB_MULTI_BUFFER environment variable. With one buffer an offscreen
// surface of the framebuffer size is allocated as composition target.
func (r *Renderer) CreateOutput(opts OutputOptions) (*Output, error) {
	if r.destroyed {
		return nil, ErrRendererDestroyed
	}
	devices, err := ParseDevices(opts.Devices)
	if err != nil {
		return nil, err
	}
	if r.opener == nil {
		return nil, ErrNoFramebuffer
	}

	cfg := r.config.ApplyEnv(r.lookup)
	o := &Output{renderer: r, x: opts.X}
	o.bufferCount, o.active = cfg.buffering()
	Logger().Info("g2d: creating output", "devices", devices, "buffers", o.bufferCount, "mirrors", len(devices)-1)

	if err := o.createRenderSurfaces(devices[0]); err != nil {
		return nil, errors.Join(err, o.Destroy())
	}
	for _, dev := range devices[1:] {
		if err := o.openMirror(dev); err != nil {
			return nil, errors.Join(err, o.Destroy())
		}
	}
	r.finish()
	return o, nil
}

func (o *Output) createRenderSurfaces(device string) error {
	r := o.renderer
	fb, err := r.opener.OpenFramebuffer(device, o.bufferCount)
	if err != nil {
		return fmt.Errorf("g2d: open framebuffer %s: %w", device, err)
	}
	o.fb = fb
	info := fb.Info()
	o.width, o.height = info.XRes, info.YRes

	o.renderSurfs = make([]surface.Drawable, o.bufferCount)
	for i := range o.renderSurfs {
		d, err := (&surface.FramebufferSource{Info: info, Page: i}).Drawable()
		if err != nil {
			return fmt.Errorf("g2d: framebuffer %s: %w", device, err)
		}
		o.renderSurfs[i] = d
		r.clear(d)
	}

	if o.bufferCount == 1 {
		buf, err := r.blitter.Alloc(info.BufferLength, false)
		if err != nil {
			return fmt.Errorf("g2d: alloc offscreen surface: %w", err)
		}
		o.offscreenBuf = buf
		o.offscreen = o.renderSurfs[o.active]
		o.offscreen.Planes[0] = buf.PAddr
		r.clear(o.offscreen)
	}
	return nil
}

func (o *Output) openMirror(device string) error {
	r := o.renderer
	fb, err := r.opener.OpenFramebuffer(device, o.bufferCount)
	if err != nil {
		return fmt.Errorf("g2d: open mirror %s: %w", device, err)
	}
	m := mirror{device: device, fb: fb}
	o.mirrors = append(o.mirrors, m)

	d, err := (&surface.FramebufferSource{Info: fb.Info()}).Drawable()
	if err != nil {
		return fmt.Errorf("g2d: mirror %s: %w", device, err)
	}
	o.mirrors[len(o.mirrors)-1].dst = d
	r.clear(d)
	return nil
}

// CreateDRMOutput creates an output rendering into drawables supplied with
// SetBuffer. It owns no framebuffer.
func (r *Renderer) CreateDRMOutput(opts OutputOptions) (*Output, error) {
	if r.destroyed {
		return nil, ErrRendererDestroyed
	}
	return &Output{
		renderer: r,
		x:        opts.X,
		width:    opts.Width,
		height:   opts.Height,
		drm:      true,
	}, nil
}

// SetBuffer sets the scanout drawable for the next frames. On a DRM
// renderer it replaces every other composition target. Passing nil clears
// it.
func (o *Output) SetBuffer(d *surface.Drawable) {
	if d == nil {
		o.drmBuffer = nil
		return
	}
	cp := *d
	o.drmBuffer = &cp
}

// Destroy frees the offscreen storage and closes every framebuffer device.
// Calling it again is a no-op.
func (o *Output) Destroy() error {
	if o.destroyed {
		return nil
	}
	o.destroyed = true

	var errs []error
	if o.offscreenBuf != nil {
		if err := o.renderer.blitter.Free(o.offscreenBuf); err != nil {
			errs = append(errs, fmt.Errorf("g2d: free offscreen surface: %w", err))
		}
		o.offscreenBuf = nil
	}
	if o.fb != nil {
		if err := o.fb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("g2d: close framebuffer: %w", err))
		}
		o.fb = nil
	}
	for _, m := range o.mirrors {
		if err := m.fb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("g2d: close mirror %s: %w", m.device, err))
		}
	}
	o.mirrors = nil
	o.renderSurfs = nil
	o.drmBuffer = nil
	for i := range o.bufferDamage {
		o.bufferDamage[i] = region.Region{}
	}
	return errors.Join(errs...)
}

// Width returns the output width in pixels.
func (o *Output) Width() int { return o.width }

// Height returns the output height in pixels.
func (o *Output) Height() int { return o.height }

// X returns the horizontal offset of the output.
func (o *Output) X() int { return o.x }

// BufferCount returns the number of hardware buffers.
func (o *Output) BufferCount() int { return o.bufferCount }

// ActiveBuffer returns the index of the hardware buffer drawn next.
func (o *Output) ActiveBuffer() int { return o.active }

// CurrentGeneration returns the index of the damage generation consumed
// by the next frame.
func (o *Output) CurrentGeneration() int { return o.currentBuffer }

// BufferDamage returns the damage still pending for generation i.
func (o *Output) BufferDamage(i int) region.Region { return o.bufferDamage[i] }

// DirectBlit reports whether the last frame composited straight into the
// hardware buffer.
func (o *Output) DirectBlit() bool { return o.directBlit }

// PreviousDamage returns the damage repainted by the last frame.
func (o *Output) PreviousDamage() region.Region { return o.previousDamage }

// FrameSignal is emitted with the output once a frame has been composited
// and its damage published.
func (o *Output) FrameSignal() *Signal { return &o.frameSignal }

// RenderSurface returns hardware buffer i.
func (o *Output) RenderSurface(i int) surface.Drawable { return o.renderSurfs[i] }

// Offscreen returns the offscreen composition surface of a single-buffer
// output.
func (o *Output) Offscreen() (surface.Drawable, bool) {
	return o.offscreen, o.offscreenBuf != nil
}

// Mirrors returns the surfaces of the mirror displays.
func (o *Output) Mirrors() []surface.Drawable {
	out := make([]surface.Drawable, len(o.mirrors))
	for i, m := range o.mirrors {
		out[i] = m.dst
	}
	return out
}

// target returns the drawable views are composited onto this frame.
func (o *Output) target() (surface.Drawable, bool) {
	if o.drmBuffer != nil && o.renderer.config.DRM {
		return *o.drmBuffer, true
	}
	if len(o.renderSurfs) == 0 {
		return surface.Drawable{}, false
	}
	if o.bufferCount > 1 || o.directBlit {
		return o.renderSurfs[o.active], true
	}
	return o.offscreen, true
}

// Target returns the drawable the next frame composites onto, if any.
func (o *Output) Target() (surface.Drawable, bool) {
	return o.target()
}
