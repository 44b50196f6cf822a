// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Program errors.
var (
	// ErrMissingAttribute is returned when the vertex entry point has no
	// argument with the attribute name the Source asks for.
	ErrMissingAttribute = errors.New("shader: vertex attribute not found")

	// ErrProgramDestroyed is returned when using a destroyed program.
	ErrProgramDestroyed = errors.New("shader: program has been destroyed")

	// ErrNilDevice is returned when a program is created without a device or queue.
	ErrNilDevice = errors.New("shader: device or queue is nil")
)

// uniformAlignment is the size granularity of uniform buffer bindings.
const uniformAlignment = 16

// Source describes a program to compile.
type Source struct {
	// Name registers the program in a Registry.
	Name string

	// WGSL is the shader source.
	WGSL string

	// VertexEntry and FragmentEntry name the entry points.
	VertexEntry   string
	FragmentEntry string

	// Attribute is the single vertex input read from the vertex buffer.
	Attribute       string
	AttributeFormat gputypes.VertexFormat
	AttributeOffset uint64

	// VertexStride is the byte distance between consecutive vertices.
	VertexStride uint64

	Topology     gputypes.PrimitiveTopology
	TargetFormat gputypes.TextureFormat
}

// Program is a compiled render pipeline with reflected uniform slots.
// It is shared read-only between renderers once created.
type Program struct {
	name   string
	device hal.Device
	queue  hal.Queue

	refl         *Reflection
	uniforms     map[string]Uniform
	attrLocation uint32
	stride       uint64

	module        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
}

// NewProgram reflects src, then creates the shader module, layouts and
// render pipeline. GPU objects created before a failure are released.
func NewProgram(device hal.Device, queue hal.Queue, src Source) (*Program, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}

	refl, err := Reflect(src.WGSL, src.VertexEntry)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", src.Name, err)
	}
	attr, ok := refl.Attribute(src.Attribute)
	if !ok {
		return nil, fmt.Errorf("program %q: %w: %q", src.Name, ErrMissingAttribute, src.Attribute)
	}

	p := &Program{
		name:         src.Name,
		device:       device,
		queue:        queue,
		refl:         refl,
		uniforms:     make(map[string]Uniform, len(refl.Uniforms)),
		attrLocation: attr.Location,
		stride:       src.VertexStride,
	}
	for _, u := range refl.Uniforms {
		p.uniforms[u.Name] = u
	}

	if err := p.createPipeline(src); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("program %q: %w", src.Name, err)
	}
	Logger().Debug("shader program created",
		"name", src.Name,
		"uniforms", len(refl.Uniforms),
		"block", refl.BlockSize,
		"stride", src.VertexStride)
	return p, nil
}

func (p *Program) createPipeline(src Source) error {
	module, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  src.Name + "_shader",
		Source: hal.ShaderSource{WGSL: src.WGSL},
	})
	if err != nil {
		return fmt.Errorf("compile shader: %w", err)
	}
	p.module = module

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: src.Name + "_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            src.Name + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	blend := gputypes.BlendStateAlpha()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  src.Name + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: src.VertexEntry,
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: src.VertexStride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{{
					Format:         src.AttributeFormat,
					Offset:         src.AttributeOffset,
					ShaderLocation: p.attrLocation,
				}},
			}},
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: src.FragmentEntry,
			Targets: []gputypes.ColorTargetState{{
				Format:    src.TargetFormat,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: src.Topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// Name returns the registry name of the program.
func (p *Program) Name() string { return p.name }

// Uniform returns the slot for a uniform name.
func (p *Program) Uniform(name string) (Uniform, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

// Uniforms returns all uniform slots sorted by offset.
func (p *Program) Uniforms() []Uniform {
	out := make([]Uniform, 0, len(p.uniforms))
	for _, u := range p.uniforms {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// BlockSize returns the uniform buffer size, rounded up to 16 bytes.
func (p *Program) BlockSize() uint64 {
	size := uint64(p.refl.BlockSize)
	return (size + uniformAlignment - 1) &^ (uniformAlignment - 1)
}

// AttributeLocation returns the @location of the vertex attribute.
func (p *Program) AttributeLocation() uint32 { return p.attrLocation }

// VertexStride returns the byte stride of one vertex.
func (p *Program) VertexStride() uint64 { return p.stride }

// Device returns the device the program was compiled on.
func (p *Program) Device() hal.Device { return p.device }

// Pipeline returns the render pipeline, or nil after Destroy.
func (p *Program) Pipeline() hal.RenderPipeline { return p.pipeline }

// Destroy releases all pipeline resources in reverse creation order.
// Safe to call multiple times.
func (p *Program) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.module != nil {
		p.device.DestroyShaderModule(p.module)
		p.module = nil
	}
}
