package fbdev

import (
	"fmt"

	"github.com/gogpu/g2d/surface"
)

// Framebuffer ioctl requests.
const (
	ioctlGetVScreenInfo = 0x4600
	ioctlPutVScreenInfo = 0x4601
	ioctlGetFScreenInfo = 0x4602
	ioctlPanDisplay     = 0x4606
)

type bitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// varScreenInfo mirrors struct fb_var_screeninfo.
type varScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp bitfield
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	PixClock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync                     uint32
	VMode                    uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// fixScreenInfo mirrors struct fb_fix_screeninfo. The unsigned long
// fields follow the platform word size.
type fixScreenInfo struct {
	ID                            [16]byte
	SmemStart                     uintptr
	SmemLen                       uint32
	Type                          uint32
	TypeAux                       uint32
	Visual                        uint32
	XPanStep, YPanStep, YWrapStep uint16
	LineLength                    uint32
	MmioStart                     uintptr
	MmioLen                       uint32
	Accel                         uint32
	Capabilities                  uint16
	Reserved                      [2]uint16
}

// screenInfo derives the renderer view of a device from its screen
// information.
func screenInfo(v *varScreenInfo, f *fixScreenInfo) (surface.ScreenInfo, error) {
	if v.BitsPerPixel < 8 {
		return surface.ScreenInfo{}, fmt.Errorf("fbdev: %d bits per pixel: %w", v.BitsPerPixel, surface.ErrUnsupportedFormat)
	}
	format, err := surface.FormatFromBitfields(
		surface.Bitfield{Offset: v.Blue.Offset, Length: v.Blue.Length},
		surface.Bitfield{Offset: v.Green.Offset, Length: v.Green.Length},
		surface.Bitfield{Offset: v.Transp.Offset, Length: v.Transp.Length},
	)
	if err != nil {
		return surface.ScreenInfo{}, fmt.Errorf("fbdev: %w", err)
	}
	return surface.ScreenInfo{
		XRes:         int(v.XRes),
		YRes:         int(v.YRes),
		Physical:     uint64(f.SmemStart),
		BufferLength: int(f.SmemLen),
		Stride:       int(f.LineLength / (v.BitsPerPixel >> 3)),
		StrideBytes:  int(f.LineLength),
		Format:       format,
	}, nil
}
