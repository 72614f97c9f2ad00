package memblit

import "github.com/gogpu/g2d/surface"

// DriverName is the registry name of the emulated driver.
const DriverName = "mem"

func init() {
	surface.Register(DriverName, 10, func(opts surface.Options) (surface.Blitter, error) {
		return New(WithLogger(opts.Logger)), nil
	}, nil)
}

var (
	_ surface.Blitter           = (*Device)(nil)
	_ surface.FramebufferOpener = (*FramebufferOpener)(nil)
	_ surface.FramebufferOpener = (*ImportingOpener)(nil)
	_ surface.Framebuffer       = (*Framebuffer)(nil)
)
