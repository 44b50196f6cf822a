// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	_ "embed"

	"github.com/gogpu/gputypes"
)

//go:embed shaders/lines.wgsl
var linesShaderSource string

// LinesProgram is the registry name of the debug line program.
const LinesProgram = "lines"

// Vertex layout of the lines program. Each vertex is one column-major
// mat4x4<f32>:
//
//	columns 0-2 (vec4<f32> x3) = 48 bytes  (not read by the shader)
//	column 3    (vec4<f32>)    = 16 bytes  (location 0, "position")
//
// Total = 64 bytes per vertex.
const (
	LinesVertexStride    = 64
	LinesPositionOffset  = 48
	LinesPositionAttrib  = "position"
	defaultSurfaceFormat = gputypes.TextureFormatBGRA8Unorm
)

// LinesSource returns the Source of the debug line program for a color
// target format. TextureFormatUndefined selects BGRA8Unorm.
func LinesSource(format gputypes.TextureFormat) Source {
	if format == gputypes.TextureFormatUndefined {
		format = defaultSurfaceFormat
	}
	return Source{
		Name:            LinesProgram,
		WGSL:            linesShaderSource,
		VertexEntry:     "vs_main",
		FragmentEntry:   "fs_main",
		Attribute:       LinesPositionAttrib,
		AttributeFormat: gputypes.VertexFormatFloat32x4,
		AttributeOffset: LinesPositionOffset,
		VertexStride:    LinesVertexStride,
		Topology:        gputypes.PrimitiveTopologyLineList,
		TargetFormat:    format,
	}
}

func builtinSources(format gputypes.TextureFormat) []Source {
	return []Source{LinesSource(format)}
}
