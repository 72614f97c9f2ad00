// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface describes pixel buffers and the 2D blit engine that
// moves pixels between them.
//
// A [Drawable] tells the blitter where a buffer lives (plane addresses),
// how it is laid out (format, tiling, stride) and which sub-rectangle an
// operation reads or writes. Client and device buffers reach the renderer
// as one of three [Source] kinds, each translated into a Drawable:
//
//   - [ShmSource]: shared-memory pixels that are copied into blitter memory
//   - [GPUBufferSource]: GPU driver buffers, addressed in place
//   - [FramebufferSource]: pages of a display framebuffer
//
// # Drivers
//
// A [Blitter] is an open context on a blit engine. Drivers register a
// factory with the package registry and the renderer opens them by name
// or by priority:
//
//	b, err := surface.OpenByName("mem", surface.Options{})
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//
// Display devices are reached through [FramebufferOpener].
package surface
