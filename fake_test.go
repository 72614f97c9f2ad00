package g2d

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/g2d/region"
	"github.com/gogpu/g2d/surface"
)

var errBlit = errors.New("blit rejected")

type blitCall struct {
	src, dst    surface.Drawable
	clip        region.Rect
	blend       bool
	globalAlpha bool
}

// recordingBlitter records every call and allocates addresses from a
// counter. It never touches pixels.
type recordingBlitter struct {
	ops      []string
	blits    []blitCall
	clears   []surface.Drawable
	allocs   []*surface.Buffer
	freed    []*surface.Buffer
	clip     region.Rect
	caps     map[surface.Capability]bool
	next     uint64
	failBlit bool
	finishes int
	closed   int
}

func newRecordingBlitter() *recordingBlitter {
	return &recordingBlitter{caps: make(map[surface.Capability]bool), next: 0x4000_0000}
}

func (b *recordingBlitter) Alloc(size int, _ bool) (*surface.Buffer, error) {
	buf := &surface.Buffer{PAddr: b.next, Size: size, Mem: make([]byte, size)}
	b.next += uint64(size) + 0x1000
	b.allocs = append(b.allocs, buf)
	b.ops = append(b.ops, "alloc")
	return buf, nil
}

func (b *recordingBlitter) Import(mem []byte) (*surface.Buffer, error) {
	buf := &surface.Buffer{PAddr: b.next, Size: len(mem), Mem: mem}
	b.next += uint64(len(mem)) + 0x1000
	b.ops = append(b.ops, "import")
	return buf, nil
}

func (b *recordingBlitter) Free(buf *surface.Buffer) error {
	b.freed = append(b.freed, buf)
	b.ops = append(b.ops, "free")
	return nil
}

func (b *recordingBlitter) Clear(dst surface.Drawable) error {
	b.clears = append(b.clears, dst)
	b.ops = append(b.ops, "clear")
	return nil
}

func (b *recordingBlitter) Blit(src, dst surface.Drawable) error {
	b.ops = append(b.ops, "blit")
	b.blits = append(b.blits, blitCall{
		src: src, dst: dst, clip: b.clip,
		blend: b.caps[surface.CapBlend], globalAlpha: b.caps[surface.CapGlobalAlpha],
	})
	if b.failBlit {
		return errBlit
	}
	return nil
}

func (b *recordingBlitter) SetClipping(left, top, right, bottom int) error {
	b.clip = region.R(left, top, right, bottom)
	b.ops = append(b.ops, "clip")
	return nil
}

func (b *recordingBlitter) Enable(c surface.Capability) error {
	b.caps[c] = true
	b.ops = append(b.ops, "enable:"+c.String())
	return nil
}

func (b *recordingBlitter) Disable(c surface.Capability) error {
	b.caps[c] = false
	b.ops = append(b.ops, "disable:"+c.String())
	return nil
}

func (b *recordingBlitter) Finish() error {
	b.finishes++
	b.ops = append(b.ops, "finish")
	return nil
}

func (b *recordingBlitter) Close() error {
	b.closed++
	return nil
}

// blitsTo returns the blits whose destination plane is paddr.
func (b *recordingBlitter) blitsTo(paddr uint64) []blitCall {
	var out []blitCall
	for _, c := range b.blits {
		if c.dst.Planes[0] == paddr {
			out = append(out, c)
		}
	}
	return out
}

func (b *recordingBlitter) reset() {
	b.ops = nil
	b.blits = nil
	b.clears = nil
	b.finishes = 0
}

type fakeFramebuffer struct {
	info   surface.ScreenInfo
	pans   []int
	closed int
}

func (f *fakeFramebuffer) Info() surface.ScreenInfo { return f.info }

func (f *fakeFramebuffer) Pan(yoffset int) error {
	f.pans = append(f.pans, yoffset)
	return nil
}

func (f *fakeFramebuffer) Close() error {
	f.closed++
	return nil
}

// fakeOpener serves framebuffers of fixed geometry by device name.
type fakeOpener struct {
	screens map[string]surface.ScreenInfo
	fail    map[string]error
	opened  map[string]*fakeFramebuffer
	pages   map[string]int
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{
		screens: map[string]surface.ScreenInfo{},
		fail:    map[string]error{},
		opened:  map[string]*fakeFramebuffer{},
		pages:   map[string]int{},
	}
}

// add registers a BGRX device of the given size.
func (f *fakeOpener) add(device string, w, h int, phys uint64) {
	f.screens[device] = surface.ScreenInfo{
		XRes: w, YRes: h, Physical: phys,
		Stride: w, StrideBytes: w * 4,
		Format: surface.FormatBGRX8888,
	}
}

func (f *fakeOpener) OpenFramebuffer(device string, pages int) (surface.Framebuffer, error) {
	if err := f.fail[device]; err != nil {
		return nil, err
	}
	info, ok := f.screens[device]
	if !ok {
		return nil, fmt.Errorf("no such device %s", device)
	}
	info.BufferLength = info.StrideBytes * info.YRes * pages
	fb := &fakeFramebuffer{info: info}
	f.opened[device] = fb
	f.pages[device] = pages
	return fb, nil
}

// env returns a lookup serving FB_MULTI_BUFFER=v, or an unset variable
// when v is empty.
func env(v string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if key != EnvMultiBuffer || v == "" {
			return "", false
		}
		return v, true
	}
}

const (
	fb0Phys = 0x8000_0000
	fb1Phys = 0x9000_0000
)

// newTestRenderer returns a renderer over a recording blitter with an
// 800x480 /dev/fb0 and a 400x240 /dev/fb1.
func newTestRenderer(t *testing.T, multiBuffer string, opts ...RendererOption) (*Renderer, *recordingBlitter, *fakeOpener) {
	t.Helper()
	b := newRecordingBlitter()
	fo := newFakeOpener()
	fo.add("/dev/fb0", 800, 480, fb0Phys)
	fo.add("/dev/fb1", 400, 240, fb1Phys)

	all := append([]RendererOption{WithBlitter(b), WithFramebufferOpener(fo), WithEnv(env(multiBuffer))}, opts...)
	r, err := NewRenderer(all...)
	require.NoError(t, err)
	return r, b, fo
}

// shmSurface returns a committed, attached and flushed surface of the
// given size placed at (x, y).
func shmSurface(t *testing.T, r *Renderer, w, h int, format surface.ShmFormat, x, y float64) (*Surface, *View) {
	t.Helper()
	bpp := 4
	if format == surface.ShmFormatRGB565 {
		bpp = 2
	}
	s := NewSurface(w, h)
	v := NewView(s)
	v.SetPosition(x, y)
	require.NotNil(t, r.SurfaceState(s))

	buf := NewBuffer(&surface.ShmSource{
		Width: w, Height: h, Stride: w * bpp, Format: format,
		Data: make([]byte, w*h*bpp),
	}, nil)
	s.Commit(buf)
	buf.Release()
	if format == surface.ShmFormatXRGB8888 || format == surface.ShmFormatRGB565 {
		s.Opaque = region.FromRect(region.R(0, 0, w, h))
	}
	v.UpdateBoundingBox()
	require.NoError(t, r.Attach(s, s.Buffer()))
	r.FlushDamage(s)
	s.Damage = region.Region{}
	return s, v
}

func fullDamage() *region.Region {
	d := region.FromRect(region.R(0, 0, 800, 480))
	return &d
}
