// Package fbdev opens Linux framebuffer devices for the renderer.
//
// The device is queried with the FBIOGET_VSCREENINFO and
// FBIOGET_FSCREENINFO ioctls, its virtual height is grown to hold every
// requested page, and its memory is mapped so that emulated blitters can
// import it. Pan scans out with FBIOPAN_DISPLAY.
package fbdev
