// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Format is the pixel layout tag understood by the blitter. The 32-bit
// names list components in memory byte order; 16-bit names list them from
// the most significant bit.
type Format int

// Pixel formats.
const (
	FormatUndefined Format = iota
	FormatRGB565
	FormatBGR565
	FormatRGBA8888
	FormatRGBX8888
	FormatBGRA8888
	FormatBGRX8888
	FormatARGB8888
	FormatABGR8888
	FormatXRGB8888
	FormatXBGR8888
	FormatNV12
	FormatNV21
	FormatNV16
	FormatNV61
	FormatI420
	FormatYV12
	FormatYUYV
	FormatYVYU
	FormatUYVY
	FormatVYUY
)

var formatNames = [...]string{
	FormatUndefined: "undefined",
	FormatRGB565:    "RGB565",
	FormatBGR565:    "BGR565",
	FormatRGBA8888:  "RGBA8888",
	FormatRGBX8888:  "RGBX8888",
	FormatBGRA8888:  "BGRA8888",
	FormatBGRX8888:  "BGRX8888",
	FormatARGB8888:  "ARGB8888",
	FormatABGR8888:  "ABGR8888",
	FormatXRGB8888:  "XRGB8888",
	FormatXBGR8888:  "XBGR8888",
	FormatNV12:      "NV12",
	FormatNV21:      "NV21",
	FormatNV16:      "NV16",
	FormatNV61:      "NV61",
	FormatI420:      "I420",
	FormatYV12:      "YV12",
	FormatYUYV:      "YUYV",
	FormatYVYU:      "YVYU",
	FormatUYVY:      "UYVY",
	FormatVYUY:      "VYUY",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// HasAlpha reports whether the format carries a per-pixel alpha channel.
func (f Format) HasAlpha() bool {
	switch f {
	case FormatRGBA8888, FormatBGRA8888, FormatARGB8888, FormatABGR8888:
		return true
	}
	return false
}

// BytesPerPixel returns the size of one pixel of the first plane.
// Planar YUV formats report the luma plane size.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatRGB565, FormatBGR565, FormatYUYV, FormatYVYU, FormatUYVY, FormatVYUY:
		return 2
	case FormatNV12, FormatNV21, FormatNV16, FormatNV61, FormatI420, FormatYV12:
		return 1
	case FormatUndefined:
		return 0
	}
	return 4
}

// TextureFormat returns the GPU texture format sharing the byte layout of f,
// or gputypes.TextureFormatUndefined when there is none.
func (f Format) TextureFormat() gputypes.TextureFormat {
	switch f {
	case FormatRGBA8888, FormatRGBX8888:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatBGRA8888, FormatBGRX8888:
		return gputypes.TextureFormatBGRA8Unorm
	}
	return gputypes.TextureFormatUndefined
}

// Tiling is the memory layout of a surface.
type Tiling int

// Tiling modes.
const (
	TilingLinear Tiling = iota
	TilingTiled
	TilingSuperTiled
)

func (t Tiling) String() string {
	switch t {
	case TilingLinear:
		return "linear"
	case TilingTiled:
		return "tiled"
	case TilingSuperTiled:
		return "supertiled"
	}
	return fmt.Sprintf("Tiling(%d)", int(t))
}

// GPUFormat is the surface format code of a vendor GPU buffer.
type GPUFormat int

// Vendor GPU buffer formats that have a blitter equivalent.
const (
	GPUFormatR5G6B5   GPUFormat = 209
	GPUFormatA8B8G8R8 GPUFormat = 212
	GPUFormatX8B8G8R8 GPUFormat = 211
	GPUFormatA8R8G8B8 GPUFormat = 213
	GPUFormatX8R8G8B8 GPUFormat = 214
	GPUFormatB5G6R5   GPUFormat = 221
	GPUFormatB8G8R8A8 GPUFormat = 216
	GPUFormatR8G8B8A8 GPUFormat = 215
	GPUFormatB8G8R8X8 GPUFormat = 218
	GPUFormatR8G8B8X8 GPUFormat = 217
	GPUFormatYUY2     GPUFormat = 500
	GPUFormatUYVY     GPUFormat = 501
	GPUFormatYV12     GPUFormat = 502
	GPUFormatI420     GPUFormat = 503
	GPUFormatNV12     GPUFormat = 504
	GPUFormatNV21     GPUFormat = 505
	GPUFormatNV16     GPUFormat = 506
	GPUFormatNV61     GPUFormat = 507
	GPUFormatYVYU     GPUFormat = 508
	GPUFormatVYUY     GPUFormat = 509
)

var gpuFormats = map[GPUFormat]Format{
	GPUFormatR5G6B5:   FormatRGB565,
	GPUFormatA8B8G8R8: FormatRGBA8888,
	GPUFormatX8B8G8R8: FormatRGBA8888,
	GPUFormatA8R8G8B8: FormatBGRA8888,
	GPUFormatX8R8G8B8: FormatBGRX8888,
	GPUFormatB5G6R5:   FormatBGR565,
	GPUFormatB8G8R8A8: FormatARGB8888,
	GPUFormatR8G8B8A8: FormatABGR8888,
	GPUFormatB8G8R8X8: FormatXRGB8888,
	GPUFormatR8G8B8X8: FormatXBGR8888,
	GPUFormatNV12:     FormatNV12,
	GPUFormatNV21:     FormatNV21,
	GPUFormatI420:     FormatI420,
	GPUFormatYV12:     FormatYV12,
	GPUFormatYUY2:     FormatYUYV,
	GPUFormatYVYU:     FormatYVYU,
	GPUFormatUYVY:     FormatUYVY,
	GPUFormatVYUY:     FormatVYUY,
	GPUFormatNV16:     FormatNV16,
	GPUFormatNV61:     FormatNV61,
}

// FormatFromGPU translates a vendor GPU buffer format.
func FormatFromGPU(f GPUFormat) (Format, error) {
	if out, ok := gpuFormats[f]; ok {
		return out, nil
	}
	return FormatUndefined, fmt.Errorf("%w: gpu format %d", ErrUnsupportedFormat, int(f))
}

// GPUTiling is the tiling code of a vendor GPU buffer.
type GPUTiling int

// Vendor GPU buffer tiling codes.
const (
	GPUTilingLinear     GPUTiling = 0x1
	GPUTilingTiled      GPUTiling = 0x2
	GPUTilingSuperTiled GPUTiling = 0x4
)

// TilingFromGPU translates a vendor GPU buffer tiling code.
func TilingFromGPU(t GPUTiling) (Tiling, error) {
	switch t {
	case GPUTilingLinear:
		return TilingLinear, nil
	case GPUTilingTiled:
		return TilingTiled, nil
	case GPUTilingSuperTiled:
		return TilingSuperTiled, nil
	}
	return TilingLinear, fmt.Errorf("%w: gpu tiling %#x", ErrUnsupportedTiling, int(t))
}

// ShmFormat is a shared-memory buffer format code (DRM fourcc space, with
// the two legacy codes 0 and 1 for ARGB8888 and XRGB8888).
type ShmFormat uint32

// Shared-memory formats accepted by Attach.
const (
	ShmFormatARGB8888 ShmFormat = 0
	ShmFormatXRGB8888 ShmFormat = 1
	ShmFormatRGB565   ShmFormat = 0x36314752
)

// FormatFromShm translates a shared-memory format and returns the pixel
// size in bytes.
func FormatFromShm(f ShmFormat) (Format, int, error) {
	switch f {
	case ShmFormatXRGB8888:
		return FormatBGRX8888, 4, nil
	case ShmFormatARGB8888:
		return FormatBGRA8888, 4, nil
	case ShmFormatRGB565:
		return FormatRGB565, 2, nil
	}
	return FormatUndefined, 0, fmt.Errorf("%w: shm format %08x", ErrUnsupportedFormat, uint32(f))
}

// Bitfield describes one colour channel of a framebuffer pixel.
type Bitfield struct {
	Offset, Length uint32
}

// FormatFromBitfields derives the framebuffer format from the channel
// layout reported by the display device.
func FormatFromBitfields(blue, green, transp Bitfield) (Format, error) {
	switch green.Length {
	case 6:
		return FormatRGB565, nil
	case 8:
		if blue.Offset == 0 {
			if transp.Length == 0 {
				return FormatBGRX8888, nil
			}
			return FormatBGRA8888, nil
		}
		if transp.Length == 0 {
			return FormatRGBX8888, nil
		}
		return FormatRGBA8888, nil
	}
	return FormatUndefined, fmt.Errorf("%w: green channel of %d bits", ErrUnsupportedFormat, green.Length)
}
