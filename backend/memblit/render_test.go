package memblit_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/backend/memblit"
	"github.com/gogpu/g2d/region"
	"github.com/gogpu/g2d/surface"
)

var (
	red        = color.RGBA{0xff, 0, 0, 0xff}
	blue       = color.RGBA{0, 0, 0xff, 0xff}
	background = color.RGBA{0x40, 0, 0, 0xff}
)

type harness struct {
	dev    *memblit.Device
	opener *memblit.FramebufferOpener
	r      *g2d.Renderer
	o      *g2d.Output
}

func newHarness(t *testing.T, multiBuffer string) *harness {
	t.Helper()
	dev := memblit.New()
	fo := memblit.NewFramebufferOpener(dev, memblit.ScreenConfig{Width: 64, Height: 32})
	r, err := g2d.NewRenderer(
		g2d.WithBlitter(dev),
		g2d.WithFramebufferOpener(fo),
		g2d.WithEnv(func(string) (string, bool) { return multiBuffer, multiBuffer != "" }),
	)
	require.NoError(t, err)
	o, err := r.CreateOutput(g2d.OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, o.Destroy())
		assert.NoError(t, r.Destroy())
	})
	return &harness{dev: dev, opener: fo, r: r, o: o}
}

// solid returns an opaque XRGB8888 surface filled with c and shown at
// (x, y).
func (h *harness) solid(t *testing.T, w, ht int, c color.RGBA, x, y float64) *g2d.View {
	t.Helper()
	data := make([]byte, w*ht*4)
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = c.B, c.G, c.R, 0xff
	}
	s := g2d.NewSurface(0, 0)
	v := g2d.NewView(s)
	buf := g2d.NewBuffer(&surface.ShmSource{
		Width: w, Height: ht, Stride: w * 4,
		Format: surface.ShmFormatXRGB8888, Data: data,
	}, nil)
	s.Commit(buf)
	buf.Release()
	s.Opaque = region.FromRect(region.R(0, 0, w, ht))
	v.SetPosition(x, y)
	require.NotNil(t, h.r.SurfaceState(s))
	return v
}

func (h *harness) repaint(t *testing.T, views ...*g2d.View) {
	t.Helper()
	damage := region.FromRect(region.R(0, 0, 64, 32))
	require.NoError(t, h.r.RepaintOutput(h.o, views, &damage))
}

func (h *harness) screen(t *testing.T) func(x, y int) color.RGBA {
	t.Helper()
	fb, ok := h.opener.Framebuffer("/dev/fb0")
	require.True(t, ok)
	img, err := h.dev.Snapshot(fb.Scanout())
	require.NoError(t, err)
	return img.RGBAAt
}

func TestRenderDirect(t *testing.T) {
	h := newHarness(t, "")
	v := h.solid(t, 16, 8, red, 8, 4)

	h.repaint(t, v)

	require.True(t, h.o.DirectBlit())
	px := h.screen(t)
	assert.Equal(t, red, px(8, 4))
	assert.Equal(t, red, px(23, 11))
	assert.Equal(t, background, px(24, 11))
	assert.Equal(t, background, px(0, 0))
}

func TestRenderOffscreen(t *testing.T) {
	h := newHarness(t, "")
	bg := h.solid(t, 64, 32, blue, 0, 0)
	fg := h.solid(t, 16, 8, red, 8, 4)

	h.repaint(t, bg, fg)

	require.False(t, h.o.DirectBlit())
	px := h.screen(t)
	assert.Equal(t, red, px(10, 6))
	assert.Equal(t, blue, px(0, 0))
	assert.Equal(t, blue, px(63, 31))

	off, ok := h.o.Offscreen()
	require.True(t, ok)
	img, err := h.dev.Snapshot(off)
	require.NoError(t, err)
	assert.Equal(t, red, img.RGBAAt(10, 6), "the frame is composed offscreen first")
}

func TestRenderDoubleBuffered(t *testing.T) {
	h := newHarness(t, "2")
	v := h.solid(t, 16, 8, red, 0, 0)

	h.repaint(t, v)

	fb, ok := h.opener.Framebuffer("/dev/fb0")
	require.True(t, ok)
	assert.Equal(t, []int{32}, fb.Pans())
	px := h.screen(t)
	assert.Equal(t, red, px(0, 0))
	assert.Equal(t, background, px(16, 0))

	_, ok = h.o.Offscreen()
	assert.False(t, ok)
}

func TestRenderMoveRepaintsOldArea(t *testing.T) {
	h := newHarness(t, "")
	bg := h.solid(t, 64, 32, blue, 0, 0)
	fg := h.solid(t, 8, 8, red, 0, 0)
	h.repaint(t, bg, fg)

	fg.SetPosition(32, 16)
	h.repaint(t, bg, fg)

	px := h.screen(t)
	assert.Equal(t, blue, px(2, 2))
	assert.Equal(t, red, px(34, 18))
}

func TestRenderTranslucentColorFill(t *testing.T) {
	tests := []struct {
		name       string
		colorAlpha float32
		viewAlpha  float32
	}{
		{"view alpha", 1, 0.5},
		{"colour alpha", 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "")
			bg := h.solid(t, 64, 32, red, 0, 0)

			s := g2d.NewSurface(64, 32)
			fade := g2d.NewView(s)
			fade.Alpha = tt.viewAlpha
			h.r.SetColor(s, 0, 0, 0, tt.colorAlpha)

			h.repaint(t, bg, fade)

			got := h.screen(t)(20, 10)
			assert.InDelta(t, 0x80, int(got.R), 2, "half of the red shows through: %v", got)
			assert.Zero(t, got.G)
			assert.Zero(t, got.B)
		})
	}
}

func TestRenderOpaqueColorFill(t *testing.T) {
	h := newHarness(t, "")
	bg := h.solid(t, 64, 32, red, 0, 0)
	s := g2d.NewSurface(16, 8)
	v := g2d.NewView(s)
	v.SetPosition(4, 4)
	h.r.SetColor(s, 0, 0, 1, 1)

	h.repaint(t, bg, v)

	px := h.screen(t)
	assert.Equal(t, blue, px(4, 4))
	assert.Equal(t, red, px(20, 4))
}
