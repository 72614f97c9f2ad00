package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/g2d/region"
	"github.com/gogpu/g2d/surface"
)

// Scene is a scripted compositor session.
type Scene struct {
	// Screens configures emulated framebuffer devices by path.
	Screens map[string]ScreenSpec `yaml:"screens"`

	Outputs  []OutputSpec  `yaml:"outputs"`
	Surfaces []SurfaceSpec `yaml:"surfaces"`

	// Views are listed back to front.
	Views  []ViewSpec  `yaml:"views"`
	Frames []FrameSpec `yaml:"frames"`
}

// ScreenSpec is the geometry of an emulated display.
type ScreenSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Format string `yaml:"format"`
}

// OutputSpec describes one output.
type OutputSpec struct {
	Devices string `yaml:"devices"`
	X       int    `yaml:"x"`
}

// SurfaceSpec describes a client surface filled with one colour.
type SurfaceSpec struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// Color is #RRGGBB or #RRGGBBAA.
	Color string `yaml:"color"`

	// Format is the shm format: xrgb8888 (default), argb8888 or rgb565.
	Format string `yaml:"format"`

	// Solid surfaces have no buffer and are filled by the blitter.
	Solid bool `yaml:"solid"`
}

// ViewSpec places a surface.
type ViewSpec struct {
	Surface string   `yaml:"surface"`
	X       float64  `yaml:"x"`
	Y       float64  `yaml:"y"`
	Alpha   *float32 `yaml:"alpha"`

	// Rotate turns the view around its centre, in degrees.
	Rotate float64 `yaml:"rotate"`

	// Plane is primary (default), overlay or cursor.
	Plane string `yaml:"plane"`
}

// FrameSpec is one repaint.
type FrameSpec struct {
	// Damage rectangles as [left, top, right, bottom]. No rectangles
	// damage every output completely.
	Damage [][4]int `yaml:"damage"`

	Moves []MoveSpec `yaml:"moves"`
}

// MoveSpec repositions a view before the frame.
type MoveSpec struct {
	View int     `yaml:"view"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

var errScene = errors.New("scene")

// LoadScene reads a scene script. Unknown keys are rejected.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(data)
}

// ParseScene decodes and validates a scene script.
func ParseScene(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var sc Scene
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scene) validate() error {
	if len(sc.Outputs) == 0 {
		return fmt.Errorf("%w: no outputs", errScene)
	}
	names := make(map[string]bool, len(sc.Surfaces))
	for _, s := range sc.Surfaces {
		if s.Name == "" || names[s.Name] {
			return fmt.Errorf("%w: surface name %q missing or repeated", errScene, s.Name)
		}
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%w: surface %s has size %dx%d", errScene, s.Name, s.Width, s.Height)
		}
		if _, err := parseColor(s.Color); err != nil {
			return fmt.Errorf("%w: surface %s: %w", errScene, s.Name, err)
		}
		if _, _, err := shmFormat(s.Format); err != nil {
			return fmt.Errorf("%w: surface %s: %w", errScene, s.Name, err)
		}
		names[s.Name] = true
	}
	for i, v := range sc.Views {
		if !names[v.Surface] {
			return fmt.Errorf("%w: view %d shows unknown surface %q", errScene, i, v.Surface)
		}
	}
	for i, f := range sc.Frames {
		for _, m := range f.Moves {
			if m.View < 0 || m.View >= len(sc.Views) {
				return fmt.Errorf("%w: frame %d moves unknown view %d", errScene, i, m.View)
			}
		}
	}
	return nil
}

// rects converts damage entries.
func (f FrameSpec) rects() []region.Rect {
	out := make([]region.Rect, len(f.Damage))
	for i, d := range f.Damage {
		out[i] = region.R(d[0], d[1], d[2], d[3])
	}
	return out
}

// rgba is a colour with 8-bit straight components.
type rgba struct {
	r, g, b, a uint8
}

func parseColor(s string) (rgba, error) {
	if s == "" {
		return rgba{0, 0, 0, 0xff}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return rgba{}, fmt.Errorf("colour %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgba{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return rgba{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

func shmFormat(name string) (surface.ShmFormat, int, error) {
	switch strings.ToLower(name) {
	case "", "xrgb8888":
		return surface.ShmFormatXRGB8888, 4, nil
	case "argb8888":
		return surface.ShmFormatARGB8888, 4, nil
	case "rgb565":
		return surface.ShmFormatRGB565, 2, nil
	}
	return 0, 0, fmt.Errorf("unknown shm format %q", name)
}

func screenFormat(name string) (surface.Format, error) {
	if name == "" {
		return surface.FormatBGRX8888, nil
	}
	for f := surface.FormatRGB565; f <= surface.FormatXBGR8888; f++ {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return surface.FormatUndefined, fmt.Errorf("%w: %q", surface.ErrUnsupportedFormat, name)
}

// pixels encodes a w×h buffer of c in the given shm format. ARGB pixels
// are premultiplied.
func pixels(c rgba, format surface.ShmFormat, w, h int) []byte {
	switch format {
	case surface.ShmFormatRGB565:
		v := uint16(c.r>>3)<<11 | uint16(c.g>>2)<<5 | uint16(c.b>>3)
		return bytes.Repeat([]byte{byte(v), byte(v >> 8)}, w*h)
	case surface.ShmFormatARGB8888:
		pm := func(v uint8) byte { return byte(uint16(v) * uint16(c.a) / 0xff) }
		return bytes.Repeat([]byte{pm(c.b), pm(c.g), pm(c.r), c.a}, w*h)
	}
	return bytes.Repeat([]byte{c.b, c.g, c.r, 0xff}, w*h)
}
