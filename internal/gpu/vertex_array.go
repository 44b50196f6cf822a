// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrIncompleteVertexArray is returned when a vertex array is created
// without a pipeline, bind group or one of its buffers.
var ErrIncompleteVertexArray = errors.New("gpu: vertex array needs pipeline, bind group, vertex and index buffers")

// VertexArray binds a program's pipeline and uniform bind group to a
// vertex buffer and a uint32 index buffer. It owns none of them.
type VertexArray struct {
	pipeline  hal.RenderPipeline
	bindGroup hal.BindGroup
	vertices  *DynamicBuffer
	indices   *DynamicBuffer
}

// NewVertexArray groups the resources for an indexed draw.
func NewVertexArray(pipeline hal.RenderPipeline, bindGroup hal.BindGroup, vertices, indices *DynamicBuffer) (*VertexArray, error) {
	if pipeline == nil || bindGroup == nil || vertices == nil || indices == nil {
		return nil, ErrIncompleteVertexArray
	}
	return &VertexArray{
		pipeline:  pipeline,
		bindGroup: bindGroup,
		vertices:  vertices,
		indices:   indices,
	}, nil
}

// Render records an indexed draw of indexCount indices into pass and
// reports whether a draw call was issued. A zero count still records the
// draw, which the GPU treats as empty. Nothing is recorded for a nil pass.
func (va *VertexArray) Render(pass hal.RenderPassEncoder, indexCount uint32) bool {
	if pass == nil {
		return false
	}
	if va.vertices.Handle() == nil || va.indices.Handle() == nil {
		slogger().Warn("vertex array render skipped: buffers destroyed")
		return false
	}
	pass.SetPipeline(va.pipeline)
	pass.SetBindGroup(0, va.bindGroup, nil)
	pass.SetVertexBuffer(0, va.vertices.Handle(), 0)
	pass.SetIndexBuffer(va.indices.Handle(), gputypes.IndexFormatUint32, 0)
	pass.DrawIndexed(indexCount, 1, 0, 0, 0)
	return true
}
