package g2d

import (
	"os"

	"github.com/gogpu/g2d/surface"
)

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	// Emulated blitter and framebuffers for headless use
//	dev := memblit.New()
//	r, err := g2d.NewRenderer(
//	    g2d.WithBlitter(dev),
//	    g2d.WithFramebufferOpener(memblit.NewFramebufferOpener(dev, memblit.ScreenConfig{Width: 800, Height: 480})),
//	)
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	config  Config
	blitter surface.Blitter
	opener  surface.FramebufferOpener
	lookup  func(string) (string, bool)

	// Set by WithDriver and WithDRM; they win over WithConfig.
	driver *string
	drm    *bool
}

// defaultOptions returns the default renderer options.
func defaultOptions() rendererOptions {
	return rendererOptions{
		config: DefaultConfig(),
		lookup: os.LookupEnv,
	}
}

// WithConfig replaces the renderer configuration. Fields also set by
// WithDriver or WithDRM keep those values whatever the option order.
func WithConfig(c Config) RendererOption {
	return func(o *rendererOptions) {
		o.config = c
	}
}

// WithBlitter uses an already open blit context instead of opening one
// from the driver registry. The renderer closes it on Destroy.
func WithBlitter(b surface.Blitter) RendererOption {
	return func(o *rendererOptions) {
		o.blitter = b
	}
}

// WithDriver opens the named blit driver from the registry.
func WithDriver(name string) RendererOption {
	return func(o *rendererOptions) {
		o.driver = &name
	}
}

// WithFramebufferOpener sets how CreateOutput reaches display devices.
func WithFramebufferOpener(fo surface.FramebufferOpener) RendererOption {
	return func(o *rendererOptions) {
		o.opener = fo
	}
}

// WithDRM selects the DRM scanout path.
func WithDRM(enabled bool) RendererOption {
	return func(o *rendererOptions) {
		o.drm = &enabled
	}
}

// WithEnv replaces the environment lookup used for FB_MULTI_BUFFER.
// The default is os.LookupEnv.
func WithEnv(lookup func(string) (string, bool)) RendererOption {
	return func(o *rendererOptions) {
		o.lookup = lookup
	}
}

// resolve folds the field overrides into the configuration.
func (o *rendererOptions) resolve() {
	if o.driver != nil {
		o.config.Driver = *o.driver
	}
	if o.drm != nil {
		o.config.DRM = *o.drm
	}
}
