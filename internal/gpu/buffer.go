// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu provides the wgpu/hal plumbing behind the line renderer:
// fixed-capacity dynamic buffers, vertex arrays and frame encoding.
package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Buffer errors.
var (
	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = errors.New("gpu: buffer has been destroyed")

	// ErrInvalidBufferSize is returned when a buffer capacity is zero or
	// not a multiple of 4 bytes.
	ErrInvalidBufferSize = errors.New("gpu: invalid buffer size")

	// ErrCapacityExceeded is returned when a write does not fit into the
	// fixed capacity reserved at creation. The buffer is left untouched.
	ErrCapacityExceeded = errors.New("gpu: buffer capacity exceeded")

	// ErrInvalidMapRange is returned when a buffer cannot be mapped for readback.
	ErrInvalidMapRange = errors.New("gpu: map range out of bounds")

	// ErrNilDevice is returned when a device or queue is missing.
	ErrNilDevice = errors.New("gpu: device or queue is nil")
)

// copyAlignment is the WebGPU alignment for queue buffer writes.
const copyAlignment = 4

// DynamicBuffer is a GPU buffer with a capacity fixed at creation.
//
// The buffer never grows: reallocating would invalidate vertex arrays and
// bind groups that reference it. Writes larger than the capacity fail with
// ErrCapacityExceeded. Clear zeroes every byte written since the previous
// Clear, so a shorter write after Clear leaves no residue.
//
// DynamicBuffer is not safe for concurrent use.
type DynamicBuffer struct {
	device hal.Device
	queue  hal.Queue
	buf    hal.Buffer

	label    string
	usage    gputypes.BufferUsage
	capacity uint64

	// used is the size of the last write, dirty the high-water mark of
	// bytes written since the last Clear.
	used  uint64
	dirty uint64

	zeros []byte
}

// NewDynamicBuffer reserves capacity bytes on the device. CopyDst is added
// to usage so the buffer can be rewritten through the queue every frame.
func NewDynamicBuffer(device hal.Device, queue hal.Queue, label string, usage gputypes.BufferUsage, capacity uint64) (*DynamicBuffer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if capacity == 0 || capacity%copyAlignment != 0 {
		return nil, fmt.Errorf("%w: %s capacity %d", ErrInvalidBufferSize, label, capacity)
	}

	usage |= gputypes.BufferUsageCopyDst
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  capacity,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}

	slogger().Debug("dynamic buffer created", "label", label, "capacity", capacity)

	return &DynamicBuffer{
		device:   device,
		queue:    queue,
		buf:      buf,
		label:    label,
		usage:    usage,
		capacity: capacity,
		zeros:    make([]byte, capacity),
	}, nil
}

// Write uploads data at offset 0. The capacity check happens before any
// GPU call, so an oversized write leaves the previous contents intact.
func (b *DynamicBuffer) Write(data []byte) error {
	if b.buf == nil {
		return ErrBufferDestroyed
	}
	n := uint64(len(data))
	if n > b.capacity {
		return fmt.Errorf("%w: %s needs %d bytes, capacity is %d", ErrCapacityExceeded, b.label, n, b.capacity)
	}
	if n%copyAlignment != 0 {
		return fmt.Errorf("%w: %s write of %d bytes is not %d-byte aligned", ErrInvalidBufferSize, b.label, n, copyAlignment)
	}
	b.used = n
	if n == 0 {
		return nil
	}
	if err := b.queue.WriteBuffer(b.buf, 0, data); err != nil {
		return fmt.Errorf("write %s: %w", b.label, err)
	}
	if n > b.dirty {
		b.dirty = n
	}
	return nil
}

// Clear zeroes the range written since the last Clear.
func (b *DynamicBuffer) Clear() error {
	if b.buf == nil {
		return ErrBufferDestroyed
	}
	if b.dirty > 0 {
		if err := b.queue.WriteBuffer(b.buf, 0, b.zeros[:b.dirty]); err != nil {
			return fmt.Errorf("clear %s: %w", b.label, err)
		}
	}
	b.used, b.dirty = 0, 0
	return nil
}

// Len returns the number of bytes written by the last Write.
func (b *DynamicBuffer) Len() uint64 { return b.used }

// Capacity returns the fixed byte capacity.
func (b *DynamicBuffer) Capacity() uint64 { return b.capacity }

// Label returns the debug label.
func (b *DynamicBuffer) Label() string { return b.label }

// Usage returns the buffer usage flags, including CopyDst.
func (b *DynamicBuffer) Usage() gputypes.BufferUsage { return b.usage }

// Handle returns the underlying hal buffer, or nil after Destroy.
func (b *DynamicBuffer) Handle() hal.Buffer { return b.buf }

// ReadBack maps the whole buffer and returns a copy of its contents.
// Only backends that keep buffers host-visible (noop, software) support
// mapping vertex and index buffers; others return an error.
func (b *DynamicBuffer) ReadBack() ([]byte, error) {
	if b.buf == nil {
		return nil, ErrBufferDestroyed
	}
	mapping, err := b.device.MapBuffer(b.buf, 0, b.capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMapRange, b.label, err)
	}
	defer func() {
		if err := b.device.UnmapBuffer(b.buf); err != nil {
			slogger().Warn("unmap failed", "label", b.label, "err", err)
		}
	}()
	if mapping.Ptr == nil {
		return nil, fmt.Errorf("%w: %s: nil mapping", ErrInvalidMapRange, b.label)
	}

	out := make([]byte, b.capacity)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), b.capacity))
	return out, nil
}

// Destroy releases the GPU buffer. Safe to call more than once.
func (b *DynamicBuffer) Destroy() {
	if b.buf == nil {
		return
	}
	b.device.DestroyBuffer(b.buf)
	b.buf = nil
	b.used, b.dirty = 0, 0
}
