// Package g2d composites client surfaces onto display outputs with a 2D
// blit engine, repainting only damaged areas.
//
// # Overview
//
// A [Renderer] owns a blit context ([surface.Blitter]) and creates
// [Output] values for framebuffer devices. Each frame the host hands
// [Renderer.RepaintOutput] the views of the scene, back to front, and the
// damage of the frame:
//
//	r, err := g2d.NewRenderer(g2d.WithFramebufferOpener(opener))
//	if err != nil {
//	    return err
//	}
//	defer r.Destroy()
//
//	out, err := r.CreateOutput(g2d.OutputOptions{Devices: "/dev/fb0,/dev/fb1"})
//	if err != nil {
//	    return err
//	}
//	defer out.Destroy()
//
//	damage := region.FromRect(region.XYWH(0, 0, 800, 480))
//	r.RepaintOutput(out, views, &damage)
//
// # Buffering
//
// Outputs use one or two hardware buffers (see [Config.BufferCount] and
// the FB_MULTI_BUFFER environment variable). With one buffer, views are
// composited onto an offscreen surface that is copied to the display at
// the end of the frame, unless the frame qualifies for direct blitting.
// With two, frames alternate between buffers and the display is panned.
// Damage is tracked per buffer generation so that an area stays dirty
// until both buffers have been repainted.
//
// Devices after the first in [OutputOptions.Devices] mirror the primary
// display and receive a scaled copy of every frame.
//
// # Surfaces
//
// Client buffers are wrapped in a shared [Buffer] and committed to a
// [Surface]. [Renderer.Attach] and [Renderer.FlushDamage] translate them
// into drawables; shared-memory pixels are copied into blitter memory.
// Per-surface state is released when either the surface or the renderer
// is destroyed.
//
// # Logging
//
// g2d is silent by default. See [SetLogger].
package g2d
