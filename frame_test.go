package g2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/g2d/region"
	"github.com/gogpu/g2d/surface"
)

// TestRepaintSingleBufferEndToEnd composites a fullscreen opaque view and
// a small translucent one on a single-buffer 800x480 output.
func TestRepaintSingleBufferEndToEnd(t *testing.T) {
	r, b, fo := newTestRenderer(t, "")
	o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)

	_, bg := shmSurface(t, r, 800, 480, surface.ShmFormatXRGB8888, 0, 0)
	_, cursor := shmSurface(t, r, 64, 64, surface.ShmFormatARGB8888, 100, 100)
	views := []*View{bg, cursor}
	ComputeClips(views)
	b.reset()

	require.NoError(t, r.RepaintOutput(o, views, fullDamage()))

	assert.False(t, o.DirectBlit())
	off, _ := o.Offscreen()
	hw := o.RenderSurface(0)

	toOffscreen := b.blitsTo(off.Planes[0])
	require.Len(t, toOffscreen, 2)
	assert.Equal(t, region.R(0, 0, 800, 480), toOffscreen[0].dst.Rect())
	assert.False(t, toOffscreen[0].blend)
	assert.Equal(t, region.R(100, 100, 164, 164), toOffscreen[1].dst.Rect())
	assert.Equal(t, region.R(100, 100, 164, 164), toOffscreen[1].clip)
	assert.True(t, toOffscreen[1].blend)

	toHardware := b.blitsTo(hw.Planes[0])
	require.Len(t, toHardware, 1, "exactly one copy to the hardware buffer")
	assert.Equal(t, off.Planes[0], toHardware[0].src.Planes[0])
	assert.Equal(t, hw.Bounds(), toHardware[0].src.Rect())
	assert.Equal(t, hw.Bounds(), toHardware[0].dst.Rect())
	assert.Equal(t, hw.Bounds(), toHardware[0].clip)

	assert.Empty(t, fo.opened["/dev/fb0"].pans)
	assert.Equal(t, 0, o.ActiveBuffer())
	assert.Equal(t, 1, o.CurrentGeneration())
	assert.Equal(t, StageIdle, o.Stage())
}

func TestRepaintSingleViewBlitsDirectly(t *testing.T) {
	r, b, fo := newTestRenderer(t, "")
	o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)

	_, bg := shmSurface(t, r, 800, 480, surface.ShmFormatXRGB8888, 0, 0)
	b.reset()

	require.NoError(t, r.RepaintOutput(o, []*View{bg}, fullDamage()))

	assert.True(t, o.DirectBlit())
	require.Len(t, b.blits, 1)
	assert.Equal(t, uint64(fb0Phys), b.blits[0].dst.Planes[0])
	assert.Empty(t, fo.opened["/dev/fb0"].pans)
}

func TestDirectBlitSelection(t *testing.T) {
	r, _, _ := newTestRenderer(t, "")
	o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)

	view := func(w, h int, x, y float64) *View {
		v := NewView(NewSurface(w, h))
		v.SetPosition(x, y)
		return v
	}

	tests := []struct {
		name  string
		views []*View
		want  bool
	}{
		{"no views", nil, false},
		{"one visible view", []*View{view(200, 100, 10, 10)}, true},
		{"two fullscreen views", []*View{view(800, 480, 0, 0), view(800, 480, 0, 0)}, true},
		{"two partial views", []*View{view(300, 300, 0, 0), view(300, 300, 200, 100)}, false},
		{"fullscreen and small overlapping view", []*View{view(800, 480, 0, 0), view(64, 64, 10, 10)}, false},
		{"fullscreen view moved off origin", []*View{view(800, 480, 1, 0), view(800, 480, 0, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o.useOutput(tt.views)
			assert.Equal(t, tt.want, o.DirectBlit())
		})
	}

	t.Run("occluded views do not count", func(t *testing.T) {
		bottom := view(300, 300, 0, 0)
		top := view(400, 400, 0, 0)
		top.Surface.Opaque = region.FromRect(region.R(0, 0, 400, 400))
		views := []*View{bottom, top}
		ComputeClips(views)
		require.False(t, bottom.Visible())

		o.useOutput(views)
		assert.True(t, o.DirectBlit())
	})

	t.Run("views off the primary plane do not count", func(t *testing.T) {
		a, c := view(100, 100, 0, 0), view(100, 100, 300, 0)
		c.Plane = PlaneOverlay
		o.useOutput([]*View{a, c})
		assert.True(t, o.DirectBlit())
	})
}

// TestDamageAccumulator checks that damage a frame does not repaint stays
// pending for its buffer generation while the other generation keeps the
// full damage.
func TestDamageAccumulator(t *testing.T) {
	r, _, _ := newTestRenderer(t, "")
	o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)

	_, left := shmSurface(t, r, 400, 480, surface.ShmFormatXRGB8888, 0, 0)
	views := []*View{left}
	full := region.FromRect(region.R(0, 0, 800, 480))
	right := region.FromRect(region.R(400, 0, 800, 480))

	damage := full.Clone()
	require.NoError(t, r.RepaintOutput(o, views, &damage))
	assert.True(t, damage.Equal(full))
	assert.True(t, o.BufferDamage(0).Equal(right), "generation 0: %v", o.BufferDamage(0))
	assert.True(t, o.BufferDamage(1).Equal(full), "generation 1: %v", o.BufferDamage(1))
	assert.Equal(t, 1, o.CurrentGeneration())

	// A frame without new damage repaints what generation 1 still owes.
	damage = region.Region{}
	require.NoError(t, r.RepaintOutput(o, views, &damage))
	assert.True(t, damage.Equal(full), "damage extended in place: %v", damage)
	assert.True(t, o.PreviousDamage().Equal(full))
	assert.True(t, o.BufferDamage(1).Equal(right))
	assert.True(t, o.BufferDamage(0).Equal(right))
	assert.Equal(t, 0, o.CurrentGeneration())

	// Once a view covers the rest, both generations drain in turn.
	_, rest := shmSurface(t, r, 400, 480, surface.ShmFormatXRGB8888, 400, 0)
	views = append(views, rest)
	damage = region.Region{}
	require.NoError(t, r.RepaintOutput(o, views, &damage))
	assert.False(t, o.BufferDamage(0).NotEmpty())
	assert.True(t, o.BufferDamage(1).Equal(right))

	damage = region.Region{}
	require.NoError(t, r.RepaintOutput(o, views, &damage))
	assert.False(t, o.BufferDamage(1).NotEmpty())
}

func TestDamageAccumulatorKeepsOccludedDamage(t *testing.T) {
	r, _, _ := newTestRenderer(t, "")
	o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)

	_, bg := shmSurface(t, r, 800, 480, surface.ShmFormatXRGB8888, 0, 0)
	bg.Clip = region.FromRect(region.R(0, 0, 100, 100))

	damage := region.FromRect(region.R(0, 0, 200, 200))
	require.NoError(t, r.RepaintOutput(o, []*View{bg}, &damage))

	want := region.FromRect(region.R(0, 0, 100, 100))
	assert.True(t, o.BufferDamage(0).Equal(want), "got %v", o.BufferDamage(0))
}

func TestBufferRotation(t *testing.T) {
	r, b, fo := newTestRenderer(t, "2")
	o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)
	_, bg := shmSurface(t, r, 800, 480, surface.ShmFormatXRGB8888, 0, 0)

	for n := 1; n <= 5; n++ {
		drawn := o.RenderSurface(o.ActiveBuffer()).Planes[0]
		b.reset()
		require.NoError(t, r.RepaintOutput(o, []*View{bg}, fullDamage()))

		require.Len(t, b.blits, 1)
		assert.Equal(t, drawn, b.blits[0].dst.Planes[0], "cycle %d draws the active buffer", n)
		assert.Equal(t, (1+n)%2, o.ActiveBuffer(), "cycle %d", n)
	}

	assert.Equal(t, []int{480, 0, 480, 0, 480}, fo.opened["/dev/fb0"].pans)
	assert.False(t, o.DirectBlit(), "direct blit is only evaluated with one buffer")
}

func TestMirrorPass(t *testing.T) {
	t.Run("single buffer", func(t *testing.T) {
		r, b, _ := newTestRenderer(t, "")
		o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0,/dev/fb1"})
		require.NoError(t, err)
		_, bg := shmSurface(t, r, 800, 480, surface.ShmFormatXRGB8888, 0, 0)
		_, top := shmSurface(t, r, 100, 100, surface.ShmFormatARGB8888, 50, 50)
		b.reset()

		for range 3 {
			require.NoError(t, r.RepaintOutput(o, []*View{bg, top}, fullDamage()))
		}

		off, _ := o.Offscreen()
		mirrorBlits := b.blitsTo(fb1Phys)
		require.Len(t, mirrorBlits, 3, "one mirror blit per frame")
		for _, c := range mirrorBlits {
			assert.Equal(t, off.Planes[0], c.src.Planes[0])
			assert.Equal(t, region.R(0, 0, 800, 480), c.src.Rect())
			assert.Equal(t, region.R(0, 0, 400, 240), c.dst.Rect())
			assert.Equal(t, region.R(0, 0, 400, 240), c.clip)
		}
	})

	t.Run("direct blit mirrors the hardware buffer", func(t *testing.T) {
		r, b, _ := newTestRenderer(t, "")
		o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0,/dev/fb1"})
		require.NoError(t, err)
		_, bg := shmSurface(t, r, 800, 480, surface.ShmFormatXRGB8888, 0, 0)
		b.reset()

		require.NoError(t, r.RepaintOutput(o, []*View{bg}, fullDamage()))
		mirrorBlits := b.blitsTo(fb1Phys)
		require.Len(t, mirrorBlits, 1)
		assert.Equal(t, uint64(fb0Phys), mirrorBlits[0].src.Planes[0])
	})
}

func TestRepaintDRMOverride(t *testing.T) {
	r, b, _ := newTestRenderer(t, "", WithDRM(true))
	o, err := r.CreateDRMOutput(OutputOptions{Width: 800, Height: 480})
	require.NoError(t, err)
	_, bg := shmSurface(t, r, 800, 480, surface.ShmFormatXRGB8888, 0, 0)
	_, top := shmSurface(t, r, 100, 100, surface.ShmFormatARGB8888, 50, 50)
	b.reset()

	// No scanout buffer yet: views are skipped.
	require.NoError(t, r.RepaintOutput(o, []*View{bg, top}, fullDamage()))
	assert.Empty(t, b.blits)

	scanout := surface.Drawable{
		Planes: [3]uint64{0xc000_0000}, Right: 800, Bottom: 480,
		Stride: 800, Width: 800, Height: 480, Format: surface.FormatBGRX8888,
	}
	o.SetBuffer(&scanout)
	b.reset()
	require.NoError(t, r.RepaintOutput(o, []*View{bg, top}, fullDamage()))

	require.Len(t, b.blits, 2)
	assert.Len(t, b.blitsTo(0xc000_0000), 2, "all view blits go to the scanout buffer")
	assert.Equal(t, 1, b.finishes, "no framebuffer copy pass")
}

func TestFrameSignal(t *testing.T) {
	r, _, _ := newTestRenderer(t, "")
	o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)

	var stages []FrameStage
	var published []region.Region
	o.FrameSignal().Add(NewListener(func(data any) {
		out := data.(*Output)
		stages = append(stages, out.Stage())
		published = append(published, out.PreviousDamage())
	}))

	damage := region.FromRect(region.R(10, 10, 20, 20))
	require.NoError(t, r.RepaintOutput(o, nil, &damage))

	assert.Equal(t, []FrameStage{StagePublishDamage}, stages)
	require.Len(t, published, 1)
	assert.True(t, published[0].Equal(damage))
	assert.Equal(t, StageIdle, o.Stage())
	assert.Equal(t, "publish-damage", StagePublishDamage.String())
	assert.Equal(t, "unknown", FrameStage(42).String())
}

func TestClipFramebufferCopy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClipFramebufferCopy = true
	r, b, _ := newTestRenderer(t, "", WithConfig(cfg))
	o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)
	_, bg := shmSurface(t, r, 800, 480, surface.ShmFormatXRGB8888, 0, 0)
	_, top := shmSurface(t, r, 100, 100, surface.ShmFormatARGB8888, 50, 50)
	b.reset()

	damage := region.New(region.R(10, 10, 20, 20), region.R(300, 200, 310, 400))
	require.NoError(t, r.RepaintOutput(o, []*View{bg, top}, &damage))

	copies := b.blitsTo(fb0Phys)
	require.Len(t, copies, 1)
	assert.Equal(t, region.R(10, 10, 310, 400), copies[0].clip)
}
