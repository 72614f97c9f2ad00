// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/g2d/region"
)

// DefaultClearColor is the colour newly created surfaces are cleared to,
// as 0xAARRGGBB.
const DefaultClearColor uint32 = 0xFF400000

// Rotation is the orientation applied by the blitter when reading or
// writing a surface.
type Rotation int

// Rotations.
const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
	RotationFlipH
	RotationFlipV
)

// BlendFunc is a blend factor applied to source or destination pixels.
type BlendFunc int

// Blend factors.
const (
	BlendZero BlendFunc = iota
	BlendOne
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

// Drawable is a hardware-addressable pixel buffer: where its pixels live,
// how they are laid out and which sub-rectangle a blit reads or writes.
type Drawable struct {
	// Planes holds the bus address of each plane. Packed formats use only
	// the first entry.
	Planes [3]uint64

	// Active sub-rectangle, right and bottom exclusive.
	Left, Top, Right, Bottom int

	// Stride is the distance between rows, in pixels.
	Stride int

	Width, Height int

	Format   Format
	Tiling   Tiling
	Rotation Rotation

	BlendFunc   BlendFunc
	GlobalAlpha uint8

	// ClearColor is used by Blitter.Clear, as 0xAARRGGBB.
	ClearColor uint32
}

// Rect returns the active sub-rectangle.
func (d Drawable) Rect() region.Rect {
	return region.R(d.Left, d.Top, d.Right, d.Bottom)
}

// Bounds returns the full extent of the surface.
func (d Drawable) Bounds() region.Rect {
	return region.R(0, 0, d.Width, d.Height)
}

// WithRect returns a copy of d whose active sub-rectangle is r.
func (d Drawable) WithRect(r region.Rect) Drawable {
	d.Left, d.Top, d.Right, d.Bottom = r.Left, r.Top, r.Right, r.Bottom
	return d
}

// HasAlpha reports whether the pixels carry an alpha channel.
func (d Drawable) HasAlpha() bool {
	return d.Format.HasAlpha()
}

// LogValue implements slog.LogValuer so drawables can be logged as a group.
func (d Drawable) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("paddr", fmt.Sprintf("%#x", d.Planes[0])),
		slog.Int("left", d.Left),
		slog.Int("right", d.Right),
		slog.Int("top", d.Top),
		slog.Int("bottom", d.Bottom),
		slog.Int("stride", d.Stride),
		slog.String("tiling", d.Tiling.String()),
		slog.String("format", d.Format.String()),
	)
}

// AlignWidth rounds a width in pixels up to the blitter's 16 pixel row
// alignment.
func AlignWidth(w int) int {
	return (w + 15) &^ 15
}
