package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/region"
	"github.com/gogpu/g2d/surface"
)

// session is a scene loaded into a renderer.
type session struct {
	r        *g2d.Renderer
	outputs  []*g2d.Output
	surfaces []*g2d.Surface
	views    []*g2d.View
}

// load creates the outputs, surfaces and views of sc.
func load(r *g2d.Renderer, sc *Scene) (*session, error) {
	s := &session{r: r}
	for i, spec := range sc.Outputs {
		o, err := r.CreateOutput(g2d.OutputOptions{X: spec.X, Devices: spec.Devices})
		if err != nil {
			return nil, errors.Join(fmt.Errorf("output %d: %w", i, err), s.close())
		}
		s.outputs = append(s.outputs, o)
	}

	byName := make(map[string]*g2d.Surface, len(sc.Surfaces))
	for _, spec := range sc.Surfaces {
		surf, err := s.newSurface(spec)
		if err != nil {
			return nil, errors.Join(err, s.close())
		}
		byName[spec.Name] = surf
		s.surfaces = append(s.surfaces, surf)
	}

	for _, spec := range sc.Views {
		v := g2d.NewView(byName[spec.Surface])
		if spec.Alpha != nil {
			v.Alpha = *spec.Alpha
		}
		switch spec.Plane {
		case "overlay":
			v.Plane = g2d.PlaneOverlay
		case "cursor":
			v.Plane = g2d.PlaneCursor
		}
		if spec.Rotate != 0 {
			w, h := float64(v.Surface.Width), float64(v.Surface.Height)
			v.SetTransform(g2d.Translate(spec.X+w/2, spec.Y+h/2).
				Multiply(g2d.Rotate(spec.Rotate * math.Pi / 180)).
				Multiply(g2d.Translate(-w/2, -h/2)))
		} else {
			v.SetPosition(spec.X, spec.Y)
		}
		s.views = append(s.views, v)
	}

	// The render state attaches and uploads committed buffers once the
	// surfaces have views.
	for _, surf := range s.surfaces {
		gs := r.SurfaceState(surf)
		if gs == nil {
			return nil, errors.Join(g2d.ErrRendererDestroyed, s.close())
		}
		if surf.Buffer() != nil && !gs.Attached() {
			return nil, errors.Join(errors.New("surface buffer was rejected"), s.close())
		}
		surf.Damage = region.Region{}
	}
	return s, nil
}

func (s *session) newSurface(spec SurfaceSpec) (*g2d.Surface, error) {
	c, err := parseColor(spec.Color)
	if err != nil {
		return nil, err
	}
	surf := g2d.NewSurface(spec.Width, spec.Height)
	if spec.Solid {
		s.r.SetColor(surf, float32(c.r)/255, float32(c.g)/255, float32(c.b)/255, float32(c.a)/255)
		return surf, nil
	}

	format, bpp, err := shmFormat(spec.Format)
	if err != nil {
		return nil, err
	}
	buf := g2d.NewBuffer(&surface.ShmSource{
		Width:  spec.Width,
		Height: spec.Height,
		Stride: spec.Width * bpp,
		Format: format,
		Data:   pixels(c, format, spec.Width, spec.Height),
	}, nil)
	surf.Commit(buf)
	buf.Release()
	if format != surface.ShmFormatARGB8888 || c.a == 0xff {
		surf.Opaque = region.FromRect(region.R(0, 0, spec.Width, spec.Height))
	}
	return surf, nil
}

// frame applies the moves of f and repaints every output.
func (s *session) frame(f FrameSpec) error {
	for _, m := range f.Moves {
		v := s.views[m.View]
		if v.Transform.Enabled {
			w, h := float64(v.Surface.Width), float64(v.Surface.Height)
			m0, _ := v.Transform.Mapper.(g2d.Matrix)
			cx, cy := m0.Map(w/2, h/2)
			v.SetTransform(g2d.Translate(m.X+w/2-cx, m.Y+h/2-cy).Multiply(m0))
			continue
		}
		v.SetPosition(m.X, m.Y)
	}
	g2d.ComputeClips(s.views)

	for i, o := range s.outputs {
		var damage region.Region
		if rects := f.rects(); len(rects) > 0 {
			damage = region.New(rects...)
		} else {
			damage = region.FromRect(region.XYWH(o.X(), 0, o.Width(), o.Height()))
		}
		if err := s.r.RepaintOutput(o, s.views, &damage); err != nil {
			return fmt.Errorf("frame on output %d: %w", i, err)
		}
	}
	return nil
}

// displayed returns the hardware buffer an output is scanning out.
func displayed(o *g2d.Output) surface.Drawable {
	n := o.BufferCount()
	if n <= 1 {
		return o.RenderSurface(0)
	}
	return o.RenderSurface((o.ActiveBuffer() + n - 1) % n)
}

func (s *session) close() error {
	for _, surf := range s.surfaces {
		surf.Destroy()
	}
	var errs []error
	for _, o := range s.outputs {
		errs = append(errs, o.Destroy())
	}
	return errors.Join(errs...)
}
