//go:build !linux

package fbdev

import (
	"errors"
	"log/slog"

	"github.com/gogpu/g2d/surface"
)

// ErrUnsupported is returned on systems without framebuffer devices.
var ErrUnsupported = errors.New("fbdev: framebuffer devices require linux")

// Opener opens framebuffer devices by path.
type Opener struct {
	Logger *slog.Logger
}

// OpenFramebuffer always fails on this system.
func (o *Opener) OpenFramebuffer(string, int) (surface.Framebuffer, error) {
	return nil, ErrUnsupported
}
