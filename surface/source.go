// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "fmt"

// Source is a client or device buffer that can be described as a Drawable.
// It is one of *ShmSource, *GPUBufferSource or *FramebufferSource.
type Source interface {
	// Size returns the buffer dimensions in pixels.
	Size() (width, height int)

	// Drawable translates the buffer into a blitter surface description.
	Drawable() (Drawable, error)

	source()
}

// ShmSource is a shared-memory pixel buffer owned by a client. Its pixels
// are not addressable by the blitter and must be copied into storage
// allocated from it; the returned Drawable therefore has no planes set.
type ShmSource struct {
	Width, Height int

	// Stride is the row pitch in bytes.
	Stride int

	Format ShmFormat
	Data   []byte
}

// Size returns the buffer dimensions.
func (s *ShmSource) Size() (int, int) { return s.Width, s.Height }

// Drawable describes the aligned, linear storage that will receive the
// shared-memory pixels.
func (s *ShmSource) Drawable() (Drawable, error) {
	format, _, err := FormatFromShm(s.Format)
	if err != nil {
		return Drawable{}, err
	}
	return Drawable{
		Right:      s.Width,
		Bottom:     s.Height,
		Stride:     AlignWidth(s.Width),
		Width:      s.Width,
		Height:     s.Height,
		Format:     format,
		Tiling:     TilingLinear,
		Rotation:   Rotation0,
		ClearColor: DefaultClearColor,
	}, nil
}

func (*ShmSource) source() {}

// GPUBufferSource describes a buffer allocated by the GPU driver and
// already addressable by the blitter.
type GPUBufferSource struct {
	Width, Height int

	// AlignedWidth is the row pitch in pixels.
	AlignedWidth, AlignedHeight int

	Format GPUFormat
	Tiling GPUTiling

	// Physical holds plane offsets relative to BaseAddr.
	Physical [3]uint64
	BaseAddr uint64
}

// Size returns the buffer dimensions.
func (s *GPUBufferSource) Size() (int, int) { return s.Width, s.Height }

// Drawable translates the vendor format and tiling codes.
func (s *GPUBufferSource) Drawable() (Drawable, error) {
	if s.Width < 0 || s.Height < 0 {
		return Drawable{}, fmt.Errorf("%w: %dx%d", ErrInvalidBuffer, s.Width, s.Height)
	}
	format, err := FormatFromGPU(s.Format)
	if err != nil {
		return Drawable{}, err
	}
	tiling, err := TilingFromGPU(s.Tiling)
	if err != nil {
		return Drawable{}, err
	}
	d := Drawable{
		Right:    s.Width,
		Bottom:   s.Height,
		Stride:   s.AlignedWidth,
		Width:    s.Width,
		Height:   s.Height,
		Format:   format,
		Tiling:   tiling,
		Rotation: Rotation0,
	}
	for i, p := range s.Physical {
		d.Planes[i] = p + s.BaseAddr
	}
	return d, nil
}

func (*GPUBufferSource) source() {}

// FramebufferSource is one page of a display framebuffer.
type FramebufferSource struct {
	Info ScreenInfo

	// Page selects the buffer within a multi-buffered framebuffer.
	Page int
}

// Size returns the visible resolution.
func (s *FramebufferSource) Size() (int, int) { return s.Info.XRes, s.Info.YRes }

// Drawable describes the selected page.
func (s *FramebufferSource) Drawable() (Drawable, error) {
	if s.Info.Format == FormatUndefined {
		return Drawable{}, fmt.Errorf("%w: framebuffer", ErrUnsupportedFormat)
	}
	return Drawable{
		Planes:     [3]uint64{s.Info.Physical + uint64(s.Page)*s.Info.PageSize()},
		Right:      s.Info.XRes,
		Bottom:     s.Info.YRes,
		Stride:     s.Info.Stride,
		Width:      s.Info.XRes,
		Height:     s.Info.YRes,
		Format:     s.Info.Format,
		Tiling:     TilingLinear,
		Rotation:   Rotation0,
		ClearColor: DefaultClearColor,
	}, nil
}

func (*FramebufferSource) source() {}
