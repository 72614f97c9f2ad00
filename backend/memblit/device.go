package memblit

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/g2d/surface"
)

// Errors.
var (
	// ErrClosed is returned by every operation on a closed device.
	ErrClosed = errors.New("memblit: device closed")

	// ErrBadAddress is returned when a drawable does not lie inside memory
	// known to the device.
	ErrBadAddress = errors.New("memblit: address not mapped")

	// ErrUnknownBuffer is returned by Free for buffers the device does not
	// own.
	ErrUnknownBuffer = errors.New("memblit: unknown buffer")
)

const (
	baseAddress = 0x1000_0000
	pageSize    = 0x1000
)

// Stats counts the operations a device has executed.
type Stats struct {
	Blits    int
	Clears   int
	Finishes int

	// Pixels is the number of destination pixels covered by blits, before
	// clipping.
	Pixels int

	// Mapped is the number of bytes currently allocated or imported.
	Mapped int
}

type block struct {
	paddr    uint64
	mem      []byte
	imported bool
}

// Device is an emulated blit context. It is not safe for concurrent use.
type Device struct {
	logger *slog.Logger
	next   uint64
	blocks []*block

	clip    image.Rectangle
	clipSet bool
	caps    [3]bool

	stats  Stats
	closed bool
}

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the device logger. A nil logger keeps the device silent.
func WithLogger(l *slog.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.logger = l
		}
	}
}

// New returns an open device with an empty address space.
func New(opts ...Option) *Device {
	d := &Device{
		logger: slog.New(slog.DiscardHandler),
		next:   baseAddress,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Alloc allocates zeroed memory. The cacheable hint is ignored.
func (d *Device) Alloc(size int, _ bool) (*surface.Buffer, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if size <= 0 {
		return nil, fmt.Errorf("memblit: alloc %d bytes: %w", size, surface.ErrInvalidBuffer)
	}
	return d.mapBlock(make([]byte, size), false), nil
}

// Import maps host memory. Writes through the returned address are
// visible in mem.
func (d *Device) Import(mem []byte) (*surface.Buffer, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if len(mem) == 0 {
		return nil, fmt.Errorf("memblit: import empty memory: %w", surface.ErrInvalidBuffer)
	}
	return d.mapBlock(mem, true), nil
}

func (d *Device) mapBlock(mem []byte, imported bool) *surface.Buffer {
	b := &block{paddr: d.next, mem: mem, imported: imported}
	d.blocks = append(d.blocks, b)
	d.next += (uint64(len(mem)) + 2*pageSize - 1) &^ (pageSize - 1)
	d.stats.Mapped += len(mem)
	d.logger.Debug("memblit: map", "paddr", fmt.Sprintf("%#x", b.paddr), "size", len(mem), "imported", imported)
	return &surface.Buffer{PAddr: b.paddr, Size: len(mem), Mem: mem}
}

// Free unmaps a buffer returned by Alloc or Import.
func (d *Device) Free(buf *surface.Buffer) error {
	if d.closed {
		return ErrClosed
	}
	for i, b := range d.blocks {
		if b.paddr == buf.PAddr {
			d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
			d.stats.Mapped -= len(b.mem)
			d.logger.Debug("memblit: unmap", "paddr", fmt.Sprintf("%#x", b.paddr))
			return nil
		}
	}
	return fmt.Errorf("%w: %#x", ErrUnknownBuffer, buf.PAddr)
}

// Finish completes queued operations. Blits run synchronously, so it only
// counts the call.
func (d *Device) Finish() error {
	if d.closed {
		return ErrClosed
	}
	d.stats.Finishes++
	return nil
}

// Close drops every mapping. Calling it again is a no-op.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.blocks = nil
	d.stats.Mapped = 0
	return nil
}

// Stats returns the operation counters.
func (d *Device) Stats() Stats {
	return d.stats
}

// Memory returns the bytes mapped at paddr, up to the end of the mapping.
func (d *Device) Memory(paddr uint64) ([]byte, error) {
	for _, b := range d.blocks {
		if paddr >= b.paddr && paddr < b.paddr+uint64(len(b.mem)) {
			return b.mem[paddr-b.paddr:], nil
		}
	}
	return nil, fmt.Errorf("%w: %#x", ErrBadAddress, paddr)
}

// image resolves a drawable to its pixels.
func (d *Device) image(dr surface.Drawable) (*pixels, error) {
	if dr.Tiling != surface.TilingLinear || dr.Rotation != surface.Rotation0 {
		return nil, fmt.Errorf("%w: %s %s", surface.ErrUnsupportedFormat, dr.Format, dr.Tiling)
	}
	bpp, ok := packedSize(dr.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", surface.ErrUnsupportedFormat, dr.Format)
	}
	mem, err := d.Memory(dr.Planes[0])
	if err != nil {
		return nil, err
	}
	pitch := dr.Stride * bpp
	if dr.Height > 0 {
		if need := (dr.Height-1)*pitch + dr.Width*bpp; need > len(mem) {
			return nil, fmt.Errorf("%w: %dx%d %s at %#x needs %d bytes, %d mapped",
				ErrBadAddress, dr.Width, dr.Height, dr.Format, dr.Planes[0], need, len(mem))
		}
	}
	l, _ := layoutOf(dr.Format)
	return &pixels{
		mem:    mem,
		pitch:  pitch,
		bpp:    bpp,
		format: dr.Format,
		layout: l,
		rect:   image.Rect(0, 0, dr.Width, dr.Height),
	}, nil
}
