// Package memblit is a blit engine emulated over host memory.
//
// A Device hands out bus addresses for memory it allocates or imports and
// resolves drawables back to pixels when blitting, so the renderer runs
// unchanged without blitter hardware. Emulated framebuffer devices are
// served by FramebufferOpener.
//
// The driver registers itself as "mem" with priority 10:
//
//	import _ "github.com/gogpu/g2d/backend/memblit"
//
//	r, err := g2d.NewRenderer(g2d.WithDriver("mem"))
//
// Only linear, unrotated packed RGB formats are emulated.
package memblit
