//go:build linux

package fbdev

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/gogpu/g2d/surface"
)

// Opener opens framebuffer devices by path.
type Opener struct {
	// Logger receives device diagnostics. Nil means silent.
	Logger *slog.Logger
}

// OpenFramebuffer opens device read-write, grows its virtual height to
// pages screens when more than one is requested and maps its memory.
func (o *Opener) OpenFramebuffer(device string, pages int) (surface.Framebuffer, error) {
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	fd, err := unix.Open(device, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("fbdev: open %s: %w", device, err)
	}
	fb := &Framebuffer{device: device, fd: fd, log: log}

	if err := fb.query(pages); err != nil {
		return nil, errors.Join(err, fb.Close())
	}
	mem, err := unix.Mmap(fd, 0, fb.info.BufferLength, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("fbdev: mmap %s: %w", device, err), fb.Close())
	}
	fb.mem = mem

	log.Info("fbdev: opened", "device", device, "width", fb.info.XRes, "height", fb.info.YRes,
		"format", fb.info.Format.String(), "pages", pages)
	return fb, nil
}

// Framebuffer is an open framebuffer device.
type Framebuffer struct {
	device string
	fd     int
	log    *slog.Logger
	vinfo  varScreenInfo
	info   surface.ScreenInfo
	mem    []byte
}

func (fb *Framebuffer) query(pages int) error {
	if err := ioctl(fb.fd, ioctlGetVScreenInfo, unsafe.Pointer(&fb.vinfo)); err != nil {
		return fmt.Errorf("fbdev: %s: get variable screen info: %w", fb.device, err)
	}
	if pages > 1 {
		fb.vinfo.YResVirtual = fb.vinfo.YRes * uint32(pages)
		if err := ioctl(fb.fd, ioctlPutVScreenInfo, unsafe.Pointer(&fb.vinfo)); err != nil {
			return fmt.Errorf("fbdev: %s: set virtual height: %w", fb.device, err)
		}
	}

	var finfo fixScreenInfo
	if err := ioctl(fb.fd, ioctlGetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		return fmt.Errorf("fbdev: %s: get fixed screen info: %w", fb.device, err)
	}
	if err := ioctl(fb.fd, ioctlGetVScreenInfo, unsafe.Pointer(&fb.vinfo)); err != nil {
		return fmt.Errorf("fbdev: %s: get variable screen info: %w", fb.device, err)
	}

	info, err := screenInfo(&fb.vinfo, &finfo)
	if err != nil {
		return fmt.Errorf("fbdev: %s: %w", fb.device, err)
	}
	fb.info = info
	return nil
}

// Info returns the geometry read when the device was opened.
func (fb *Framebuffer) Info() surface.ScreenInfo {
	return fb.info
}

// Mem returns the mapped device memory.
func (fb *Framebuffer) Mem() []byte {
	return fb.mem
}

// Pan scans out from row yoffset of the virtual framebuffer.
func (fb *Framebuffer) Pan(yoffset int) error {
	fb.vinfo.YOffset = uint32(yoffset)
	if err := ioctl(fb.fd, ioctlPanDisplay, unsafe.Pointer(&fb.vinfo)); err != nil {
		return fmt.Errorf("fbdev: %s: pan to %d: %w", fb.device, yoffset, err)
	}
	return nil
}

// Close unmaps the memory and closes the device. Calling it again is a
// no-op.
func (fb *Framebuffer) Close() error {
	var errs []error
	if fb.mem != nil {
		if err := unix.Munmap(fb.mem); err != nil {
			errs = append(errs, fmt.Errorf("fbdev: munmap %s: %w", fb.device, err))
		}
		fb.mem = nil
	}
	if fb.fd >= 0 {
		if err := unix.Close(fb.fd); err != nil {
			errs = append(errs, fmt.Errorf("fbdev: close %s: %w", fb.device, err))
		}
		fb.fd = -1
	}
	return errors.Join(errs...)
}

func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

var _ surface.FramebufferOpener = (*Opener)(nil)
