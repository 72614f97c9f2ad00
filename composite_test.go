package g2d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/g2d/region"
	"github.com/gogpu/g2d/surface"
)

func TestIntFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1e-9, 0},
		{2.5, 2},
		{99.99, 99},
		{99.999, 100},
		{-0.001, 0},
		{-1.5, -1},
		{-99.999, -100},
		{99.995, 99},
		{49.996, 49},
		{9.994, 9},
		{-9.995, -9},
		{99.9981, 100},
	}
	for _, tt := range tests {
		if got := intFromFloat(tt.in); got != tt.want {
			t.Errorf("intFromFloat(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// newDirectOutput returns a single-buffer 800x480 output; one visible view
// per frame composites straight into the framebuffer.
func newDirectOutput(t *testing.T, opts OutputOptions) (*Renderer, *recordingBlitter, *Output) {
	t.Helper()
	r, b, _ := newTestRenderer(t, "")
	if opts.Devices == "" {
		opts.Devices = "/dev/fb0"
	}
	o, err := r.CreateOutput(opts)
	require.NoError(t, err)
	return r, b, o
}

func TestCompositeTranslucentView(t *testing.T) {
	r, b, o := newDirectOutput(t, OutputOptions{})
	_, v := shmSurface(t, r, 100, 100, surface.ShmFormatARGB8888, 0, 0)
	v.Alpha = 0.5
	b.reset()

	require.NoError(t, r.RepaintOutput(o, []*View{v}, fullDamage()))

	assert.Equal(t, []string{
		"enable:blend", "enable:global-alpha", "clip", "blit",
		"disable:global-alpha", "disable:blend", "finish", "finish",
	}, b.ops)
	require.Len(t, b.blits, 1)
	c := b.blits[0]
	assert.True(t, c.blend)
	assert.True(t, c.globalAlpha)
	assert.Equal(t, uint8(127), c.src.GlobalAlpha)
	assert.Equal(t, surface.BlendOne, c.src.BlendFunc)
	assert.Equal(t, surface.BlendOneMinusSrcAlpha, c.dst.BlendFunc)
}

func TestCompositeOpaqueAndBlendedParts(t *testing.T) {
	r, b, o := newDirectOutput(t, OutputOptions{})
	s, v := shmSurface(t, r, 200, 100, surface.ShmFormatXRGB8888, 0, 0)
	s.Opaque = region.FromRect(region.R(0, 0, 100, 100))
	b.reset()

	require.NoError(t, r.RepaintOutput(o, []*View{v}, fullDamage()))

	assert.Equal(t, []string{
		"clip", "disable:blend", "blit",
		"enable:blend", "clip", "disable:blend", "blit", "disable:global-alpha", "disable:blend",
		"finish", "finish",
	}, b.ops)
	require.Len(t, b.blits, 2)
	assert.Equal(t, region.R(0, 0, 100, 100), b.blits[0].clip)
	assert.Equal(t, region.R(100, 0, 200, 100), b.blits[1].clip)
	for _, c := range b.blits {
		assert.Equal(t, region.R(0, 0, 200, 100), c.src.Rect())
		assert.Equal(t, region.R(0, 0, 200, 100), c.dst.Rect())
		assert.False(t, c.blend, "sources without alpha are never blended")
	}
}

func TestCompositeRectangles(t *testing.T) {
	tests := []struct {
		name     string
		output   OutputOptions
		w, h     int
		x, y     float64
		damage   region.Rect
		wantSrc  region.Rect
		wantDst  region.Rect
		wantClip region.Rect
	}{
		{
			name: "negative position crops the source",
			w:    100, h: 100, x: -30, y: -20,
			damage:   region.R(0, 0, 800, 480),
			wantSrc:  region.R(30, 20, 100, 100),
			wantDst:  region.R(0, 0, 70, 80),
			wantClip: region.R(0, 0, 70, 80),
		},
		{
			name: "overhang is clamped to the target",
			w:    200, h: 200, x: 700, y: 400,
			damage:   region.R(0, 0, 800, 480),
			wantSrc:  region.R(0, 0, 100, 80),
			wantDst:  region.R(700, 400, 800, 480),
			wantClip: region.R(700, 400, 800, 480),
		},
		{
			name:   "output offset",
			output: OutputOptions{X: 800},
			w:      100, h: 50, x: 900, y: 10,
			damage:   region.R(800, 0, 1600, 480),
			wantSrc:  region.R(0, 0, 100, 50),
			wantDst:  region.R(100, 10, 200, 60),
			wantClip: region.R(100, 10, 200, 60),
		},
		{
			name: "damage limits the clip",
			w:    300, h: 200, x: 50, y: 50,
			damage:   region.R(100, 100, 150, 120),
			wantSrc:  region.R(0, 0, 300, 200),
			wantDst:  region.R(50, 50, 350, 250),
			wantClip: region.R(100, 100, 150, 120),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, b, o := newDirectOutput(t, tt.output)
			_, v := shmSurface(t, r, tt.w, tt.h, surface.ShmFormatXRGB8888, tt.x, tt.y)
			b.reset()

			damage := region.FromRect(tt.damage)
			require.NoError(t, r.RepaintOutput(o, []*View{v}, &damage))

			require.Len(t, b.blits, 1)
			c := b.blits[0]
			assert.Equal(t, tt.wantSrc, c.src.Rect())
			assert.Equal(t, tt.wantDst, c.dst.Rect())
			assert.Equal(t, tt.wantClip, c.clip)
		})
	}
}

func TestCompositeTransformedView(t *testing.T) {
	r, b, o := newDirectOutput(t, OutputOptions{})
	_, v := shmSurface(t, r, 100, 100, surface.ShmFormatXRGB8888, 0, 0)
	v.SetTransform(Translate(400, 240).Multiply(Rotate(math.Pi / 4)).Multiply(Translate(-50, -50)))
	require.Equal(t, region.R(329, 169, 471, 311), v.BoundingBox.Extents())
	b.reset()

	damage := region.FromRect(region.R(400, 0, 800, 480))
	require.NoError(t, r.RepaintOutput(o, []*View{v}, &damage))

	require.Len(t, b.blits, 1)
	c := b.blits[0]
	assert.Equal(t, region.R(400, 169, 470, 310), c.clip, "clip is the bounding box of the clipped polygon")
	assert.Equal(t, region.R(329, 169, 471, 311), c.dst.Rect())
	assert.Equal(t, region.R(0, 0, 100, 100), c.src.Rect())
}

func TestCompositeSkips(t *testing.T) {
	t.Run("view off the primary plane", func(t *testing.T) {
		r, b, o := newDirectOutput(t, OutputOptions{})
		_, v := shmSurface(t, r, 100, 100, surface.ShmFormatXRGB8888, 0, 0)
		v.Plane = PlaneOverlay
		b.reset()

		require.NoError(t, r.RepaintOutput(o, []*View{v}, fullDamage()))
		off, ok := o.Offscreen()
		require.True(t, ok)
		require.Len(t, b.blits, 1, "only the offscreen copy")
		assert.Equal(t, off.Planes[0], b.blits[0].src.Planes[0])
	})

	t.Run("view outside the damage", func(t *testing.T) {
		r, b, o := newDirectOutput(t, OutputOptions{})
		_, v := shmSurface(t, r, 100, 100, surface.ShmFormatXRGB8888, 0, 0)
		b.reset()

		damage := region.FromRect(region.R(500, 300, 600, 400))
		require.NoError(t, r.RepaintOutput(o, []*View{v}, &damage))
		assert.Empty(t, b.blits)
	})

	t.Run("surface without buffer or colour", func(t *testing.T) {
		r, b, o := newDirectOutput(t, OutputOptions{})
		v := NewView(NewSurface(100, 100))
		b.reset()

		require.NoError(t, r.RepaintOutput(o, []*View{v}, fullDamage()))
		assert.Empty(t, b.blits)
		assert.Empty(t, b.clears)
	})
}

func TestCompositeSolidColor(t *testing.T) {
	r, b, o := newDirectOutput(t, OutputOptions{})
	s := NewSurface(50, 50)
	v := NewView(s)
	v.SetPosition(10, 10)
	r.SetColor(s, 1, 0, 0, 1)
	b.reset()

	require.NoError(t, r.RepaintOutput(o, []*View{v}, fullDamage()))

	assert.Empty(t, b.blits)
	require.Len(t, b.clears, 1)
	assert.Equal(t, region.R(10, 10, 60, 60), b.clears[0].Rect())
	assert.Equal(t, uint32(0xFFFF0000), b.clears[0].ClearColor)
	assert.Equal(t, uint64(fb0Phys), b.clears[0].Planes[0])
}

func TestCompositeBlitFailureContinues(t *testing.T) {
	r, b, _ := newTestRenderer(t, "")
	o, err := r.CreateOutput(OutputOptions{Devices: "/dev/fb0"})
	require.NoError(t, err)
	_, bg := shmSurface(t, r, 800, 480, surface.ShmFormatXRGB8888, 0, 0)
	_, top := shmSurface(t, r, 100, 100, surface.ShmFormatARGB8888, 50, 50)
	b.reset()
	b.failBlit = true

	require.NoError(t, r.RepaintOutput(o, []*View{bg, top}, fullDamage()))

	assert.Len(t, b.blits, 3, "both views and the framebuffer copy are attempted")
	assert.Equal(t, StageIdle, o.Stage())
	assert.Equal(t, 1, o.CurrentGeneration())
}

func TestComputeClips(t *testing.T) {
	bottom := NewView(NewSurface(800, 480))
	middle := NewView(NewSurface(200, 200))
	middle.SetPosition(100, 100)
	middle.Surface.Opaque = region.FromRect(region.R(0, 0, 200, 200))
	top := NewView(NewSurface(100, 100))
	top.Surface.Opaque = region.FromRect(region.R(0, 0, 100, 100))
	top.Alpha = 0.5

	ComputeClips([]*View{bottom, middle, top})

	assert.False(t, top.Clip.NotEmpty())
	assert.False(t, middle.Clip.NotEmpty(), "translucent views hide nothing")
	assert.True(t, bottom.Clip.Equal(region.FromRect(region.R(100, 100, 300, 300))))
	assert.True(t, bottom.Visible())
}

func TestCompositeTranslucentSolidColor(t *testing.T) {
	r, b, o := newDirectOutput(t, OutputOptions{})
	s := NewSurface(50, 50)
	v := NewView(s)
	v.SetPosition(10, 10)
	v.Alpha = 0.5
	r.SetColor(s, 0, 0, 0, 1)
	b.reset()

	require.NoError(t, r.RepaintOutput(o, []*View{v}, fullDamage()))

	require.Len(t, b.allocs, 2, "offscreen storage and the fill pixel")
	pixel := b.allocs[1]
	fill := pixel.PAddr
	require.Len(t, b.clears, 1, "the fill pixel, not the framebuffer")
	assert.Equal(t, fill, b.clears[0].Planes[0])
	assert.Equal(t, uint32(0xFF000000), b.clears[0].ClearColor)

	require.Len(t, b.blits, 1)
	c := b.blits[0]
	assert.Equal(t, fill, c.src.Planes[0])
	assert.Equal(t, region.R(0, 0, 1, 1), c.src.Rect())
	assert.Equal(t, region.R(10, 10, 60, 60), c.dst.Rect())
	assert.True(t, c.blend)
	assert.True(t, c.globalAlpha)
	assert.Equal(t, uint8(127), c.src.GlobalAlpha)

	b.reset()
	require.NoError(t, r.RepaintOutput(o, []*View{v}, fullDamage()))
	assert.Empty(t, b.clears, "unchanged colour is not cleared again")
	assert.Len(t, b.blits, 1)

	s.Destroy()
	assert.Contains(t, b.freed, pixel)
}
