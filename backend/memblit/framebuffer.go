package memblit

import (
	"errors"
	"fmt"

	"github.com/gogpu/g2d/surface"
)

// ScreenConfig is the geometry of an emulated display.
type ScreenConfig struct {
	Width, Height int

	// Format defaults to BGRX8888.
	Format surface.Format
}

// FramebufferOpener serves emulated framebuffer devices backed by device
// memory. Devices without their own screen configuration use the default
// one.
type FramebufferOpener struct {
	dev      *Device
	def      ScreenConfig
	screens  map[string]ScreenConfig
	opened   map[string]*Framebuffer
	fallback bool
}

// NewFramebufferOpener returns an opener allocating pages from dev. A
// zero def means only devices added with AddScreen can be opened.
func NewFramebufferOpener(dev *Device, def ScreenConfig) *FramebufferOpener {
	return &FramebufferOpener{
		dev:      dev,
		def:      def,
		screens:  make(map[string]ScreenConfig),
		opened:   make(map[string]*Framebuffer),
		fallback: def.Width > 0 && def.Height > 0,
	}
}

// AddScreen configures one device path.
func (f *FramebufferOpener) AddScreen(device string, cfg ScreenConfig) {
	f.screens[device] = cfg
}

// Framebuffer returns the last framebuffer opened on device.
func (f *FramebufferOpener) Framebuffer(device string) (*Framebuffer, bool) {
	fb, ok := f.opened[device]
	return fb, ok
}

// OpenFramebuffer allocates pages visible pages for device.
func (f *FramebufferOpener) OpenFramebuffer(device string, pages int) (surface.Framebuffer, error) {
	cfg, ok := f.screens[device]
	if !ok {
		if !f.fallback {
			return nil, fmt.Errorf("memblit: no screen configured for %s", device)
		}
		cfg = f.def
	}
	if cfg.Format == surface.FormatUndefined {
		cfg.Format = surface.FormatBGRX8888
	}
	bpp, ok := packedSize(cfg.Format)
	if !ok {
		return nil, fmt.Errorf("memblit: screen %s: %w: %s", device, surface.ErrUnsupportedFormat, cfg.Format)
	}
	pages = max(pages, 1)

	info := surface.ScreenInfo{
		XRes:        cfg.Width,
		YRes:        cfg.Height,
		Stride:      cfg.Width,
		StrideBytes: cfg.Width * bpp,
		Format:      cfg.Format,
	}
	info.BufferLength = info.StrideBytes * info.YRes * pages
	buf, err := f.dev.Alloc(info.BufferLength, false)
	if err != nil {
		return nil, fmt.Errorf("memblit: screen %s: %w", device, err)
	}
	info.Physical = buf.PAddr

	fb := &Framebuffer{dev: f.dev, buf: buf, info: info, pages: pages}
	f.opened[device] = fb
	f.dev.logger.Info("memblit: framebuffer opened", "device", device,
		"width", info.XRes, "height", info.YRes, "pages", pages, "format", info.Format.String())
	return fb, nil
}

// ErrPanRange is returned by Pan for offsets outside the virtual
// framebuffer.
var ErrPanRange = errors.New("memblit: pan offset out of range")

// Framebuffer is an emulated display device.
type Framebuffer struct {
	dev     *Device
	buf     *surface.Buffer
	info    surface.ScreenInfo
	pages   int
	yoffset int
	pans    []int
	closed  bool
}

// Info returns the screen geometry.
func (fb *Framebuffer) Info() surface.ScreenInfo {
	return fb.info
}

// Pan scans out from row yoffset. The whole visible page must fit in the
// virtual framebuffer.
func (fb *Framebuffer) Pan(yoffset int) error {
	if yoffset < 0 || yoffset+fb.info.YRes > fb.info.YRes*fb.pages {
		return fmt.Errorf("%w: %d", ErrPanRange, yoffset)
	}
	fb.yoffset = yoffset
	fb.pans = append(fb.pans, yoffset)
	return nil
}

// Pans returns every offset passed to Pan, oldest first.
func (fb *Framebuffer) Pans() []int {
	return fb.pans
}

// Scanout returns the drawable of the page being displayed.
func (fb *Framebuffer) Scanout() surface.Drawable {
	return surface.Drawable{
		Planes:     [3]uint64{fb.info.Physical + uint64(fb.yoffset)*uint64(fb.info.StrideBytes)},
		Right:      fb.info.XRes,
		Bottom:     fb.info.YRes,
		Stride:     fb.info.Stride,
		Width:      fb.info.XRes,
		Height:     fb.info.YRes,
		Format:     fb.info.Format,
		ClearColor: surface.DefaultClearColor,
	}
}

// Close frees the pages. Calling it again is a no-op.
func (fb *Framebuffer) Close() error {
	if fb.closed {
		return nil
	}
	fb.closed = true
	if err := fb.dev.Free(fb.buf); err != nil && !errors.Is(err, ErrClosed) {
		return err
	}
	return nil
}

// Mapped is a framebuffer whose pages are mapped into the process.
type Mapped interface {
	surface.Framebuffer
	Mem() []byte
}

// ImportingOpener opens real display devices and imports their mapped
// pages into the device, so that blits reach the screen. Opened
// framebuffers report the imported address as their physical address.
type ImportingOpener struct {
	Device *Device
	Opener surface.FramebufferOpener
}

// OpenFramebuffer opens device through the wrapped opener.
func (o *ImportingOpener) OpenFramebuffer(device string, pages int) (surface.Framebuffer, error) {
	fb, err := o.Opener.OpenFramebuffer(device, pages)
	if err != nil {
		return nil, err
	}
	m, ok := fb.(Mapped)
	if !ok {
		return nil, errors.Join(fmt.Errorf("memblit: %s is not mapped", device), fb.Close())
	}
	buf, err := o.Device.Import(m.Mem())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("memblit: import %s: %w", device, err), fb.Close())
	}
	info := fb.Info()
	info.Physical = buf.PAddr
	return &importedFramebuffer{Mapped: m, dev: o.Device, buf: buf, info: info}, nil
}

type importedFramebuffer struct {
	Mapped
	dev  *Device
	buf  *surface.Buffer
	info surface.ScreenInfo
}

func (fb *importedFramebuffer) Info() surface.ScreenInfo {
	return fb.info
}

func (fb *importedFramebuffer) Close() error {
	err := fb.dev.Free(fb.buf)
	if errors.Is(err, ErrClosed) {
		err = nil
	}
	return errors.Join(err, fb.Mapped.Close())
}
