package g2d

import "github.com/gogpu/g2d/surface"

// Buffer is a client buffer shared between its owner, the surface it is
// committed to and the renderer state reading its pixels.
//
// A Buffer starts with one reference held by its creator. Every holder
// calls Release when it is done; the release callback runs once, when the
// last reference is dropped.
type Buffer struct {
	Source surface.Source

	refs      int
	onRelease func(*Buffer)
}

// NewBuffer wraps src. onRelease may be nil.
func NewBuffer(src surface.Source, onRelease func(*Buffer)) *Buffer {
	return &Buffer{Source: src, refs: 1, onRelease: onRelease}
}

// Size returns the buffer dimensions in pixels.
func (b *Buffer) Size() (width, height int) {
	return b.Source.Size()
}

// Ref takes an additional reference and returns b.
func (b *Buffer) Ref() *Buffer {
	b.refs++
	return b
}

// Release drops one reference. Releasing a buffer that has no references
// left is a no-op.
func (b *Buffer) Release() {
	if b.refs == 0 {
		return
	}
	b.refs--
	if b.refs == 0 && b.onRelease != nil {
		b.onRelease(b)
	}
}

// Refs returns the number of live references.
func (b *Buffer) Refs() int {
	return b.refs
}

// BufferReference is a slot holding at most one buffer reference.
// The zero value is empty.
type BufferReference struct {
	buffer *Buffer
}

// Set references b and releases the previously held buffer. Setting nil
// empties the slot.
func (r *BufferReference) Set(b *Buffer) {
	if b == r.buffer {
		return
	}
	if b != nil {
		b.Ref()
	}
	if r.buffer != nil {
		r.buffer.Release()
	}
	r.buffer = b
}

// Buffer returns the referenced buffer, or nil.
func (r *BufferReference) Buffer() *Buffer {
	return r.buffer
}
