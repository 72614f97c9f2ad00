// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package g2d

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvMultiBuffer names the environment variable overriding the number of
// hardware buffers per output.
const EnvMultiBuffer = "FB_MULTI_BUFFER"

// Config holds renderer settings.
type Config struct {
	// BufferCount is the requested number of hardware buffers per output.
	// Values below 2 select single buffering with an offscreen composition
	// surface; 2 and above select double buffering with panning.
	BufferCount int `toml:"buffer_count"`

	// ClipFramebufferCopy limits the end-of-frame offscreen copy to the
	// extents of the damage published for the frame.
	ClipFramebufferCopy bool `toml:"clip_framebuffer_copy"`

	// DRM selects the scanout path: outputs render into the drawable given
	// to Output.SetBuffer and no framebuffer copy or pan is issued.
	DRM bool `toml:"drm"`

	// Driver names the blit driver to open. Empty selects the available
	// driver with the highest priority.
	Driver string `toml:"driver"`
}

// DefaultConfig returns the default settings: single buffering, full-frame
// copies and the best available driver.
func DefaultConfig() Config {
	return Config{BufferCount: 1}
}

// LoadConfig reads a TOML configuration file. Keys missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("g2d: load config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML configuration data. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("g2d: parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv returns c with environment overrides applied. lookup has the
// signature of os.LookupEnv.
//
// A set FB_MULTI_BUFFER replaces BufferCount; values that are not numbers
// count as 0.
func (c Config) ApplyEnv(lookup func(string) (string, bool)) Config {
	if lookup == nil {
		return c
	}
	v, ok := lookup(EnvMultiBuffer)
	if !ok {
		return c
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		Logger().Warn("g2d: ignoring malformed buffer count", "env", EnvMultiBuffer, "value", v)
		n = 0
	}
	c.BufferCount = n
	return c
}

// buffering returns the number of hardware buffers and the initial active
// buffer index.
func (c Config) buffering() (count, active int) {
	if c.BufferCount < 2 {
		return 1, 0
	}
	return 2, 1
}
