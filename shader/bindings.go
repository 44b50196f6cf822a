// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Uniform errors.
var (
	// ErrUnknownUniform is returned when writing a uniform the program
	// does not declare.
	ErrUnknownUniform = errors.New("shader: unknown uniform")

	// ErrUniformSize is returned when the written bytes do not match the
	// uniform's declared size.
	ErrUniformSize = errors.New("shader: uniform size mismatch")
)

// Bindings holds one renderer's uniform values for a Program: a CPU-side
// copy of the uniform block, the GPU uniform buffer and the bind group
// that exposes it at @group(0) @binding(0).
//
// Setters only stage bytes; Flush uploads the block. Bindings is not safe
// for concurrent use.
type Bindings struct {
	program *Program
	block   []byte
	buf     hal.Buffer
	group   hal.BindGroup
}

// NewBindings allocates a uniform buffer and bind group for p.
func (p *Program) NewBindings(label string) (*Bindings, error) {
	if p.pipeline == nil {
		return nil, ErrProgramDestroyed
	}
	size := p.BlockSize()
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_uniforms",
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s uniform buffer: %w", label, err)
	}
	group, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: size,
			}},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("create %s bind group: %w", label, err)
	}
	return &Bindings{
		program: p,
		block:   make([]byte, size),
		buf:     buf,
		group:   group,
	}, nil
}

// Program returns the program these bindings were created for.
func (b *Bindings) Program() *Program { return b.program }

// BindGroup returns the bind group for @group(0).
func (b *Bindings) BindGroup() hal.BindGroup { return b.group }

// Buffer returns the uniform buffer, or nil after Destroy.
func (b *Bindings) Buffer() hal.Buffer { return b.buf }

// WriteUniform stages raw bytes for a uniform. Matrices are written in
// the GPU's native layout: 16 little-endian float32 in column-major order.
func (b *Bindings) WriteUniform(name string, data []byte) error {
	u, ok := b.program.Uniform(name)
	if !ok {
		return fmt.Errorf("%w: %q in program %q", ErrUnknownUniform, name, b.program.name)
	}
	if uint32(len(data)) != u.Size { //nolint:gosec // uniform data is at most a few hundred bytes
		return fmt.Errorf("%w: %q wants %d bytes, got %d", ErrUniformSize, name, u.Size, len(data))
	}
	copy(b.block[u.Offset:], data)
	return nil
}

// SetFloat stages a scalar f32 uniform.
func (b *Bindings) SetFloat(name string, v float32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	return b.WriteUniform(name, buf[:])
}

// SetVec4 stages a vec4<f32> uniform.
func (b *Bindings) SetVec4(name string, v [4]float32) error {
	var buf [16]byte
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return b.WriteUniform(name, buf[:])
}

// SetMat4 stages a mat4x4<f32> uniform from 16 column-major floats.
func (b *Bindings) SetMat4(name string, m [16]float32) error {
	var buf [64]byte
	for i, f := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return b.WriteUniform(name, buf[:])
}

// Block returns a copy of the staged uniform block.
func (b *Bindings) Block() []byte {
	out := make([]byte, len(b.block))
	copy(out, b.block)
	return out
}

// Flush uploads the staged block to the uniform buffer.
func (b *Bindings) Flush() error {
	if b.buf == nil {
		return ErrProgramDestroyed
	}
	if err := b.program.queue.WriteBuffer(b.buf, 0, b.block); err != nil {
		return fmt.Errorf("flush uniforms: %w", err)
	}
	return nil
}

// Destroy releases the bind group and uniform buffer. Safe to call twice.
func (b *Bindings) Destroy() {
	dev := b.program.device
	if b.group != nil {
		dev.DestroyBindGroup(b.group)
		b.group = nil
	}
	if b.buf != nil {
		dev.DestroyBuffer(b.buf)
		b.buf = nil
	}
}
