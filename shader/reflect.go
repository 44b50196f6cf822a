// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Reflection errors.
var (
	// ErrInvalidSource is returned when WGSL fails to parse, lower or validate.
	ErrInvalidSource = errors.New("shader: invalid WGSL source")

	// ErrNoUniformBlock is returned when the source has no struct bound
	// as var<uniform> at @group(0) @binding(0).
	ErrNoUniformBlock = errors.New("shader: no uniform struct at @group(0) @binding(0)")

	// ErrEntryPointNotFound is returned when the vertex entry point is missing.
	ErrEntryPointNotFound = errors.New("shader: vertex entry point not found")
)

// Uniform is one member of a program's uniform block.
type Uniform struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Attribute is a vertex entry point input bound with @location.
type Attribute struct {
	Name     string
	Location uint32
}

// Reflection describes the interface of a WGSL program.
type Reflection struct {
	// Uniforms are listed in declaration order.
	Uniforms []Uniform

	// BlockSize is the size of the uniform struct, including tail padding.
	BlockSize uint32

	// Attributes are the vertex entry point's @location arguments.
	Attributes []Attribute
}

// Uniform looks up a uniform slot by name.
func (r *Reflection) Uniform(name string) (Uniform, bool) {
	for _, u := range r.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Attribute looks up a vertex attribute by name.
func (r *Reflection) Attribute(name string) (Attribute, bool) {
	for _, a := range r.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Reflect parses, lowers and validates WGSL source with naga, then reads
// the uniform block layout and the attributes of vertexEntry.
func Reflect(source, vertexEntry string) (*Reflection, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSource, verrs[0].Error())
	}

	refl := &Reflection{}
	if err := reflectUniforms(module, refl); err != nil {
		return nil, err
	}
	if err := reflectAttributes(module, vertexEntry, refl); err != nil {
		return nil, err
	}
	return refl, nil
}

func reflectUniforms(module *ir.Module, refl *Reflection) error {
	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		if gv.Space != ir.SpaceUniform || gv.Binding == nil {
			continue
		}
		if gv.Binding.Group != 0 || gv.Binding.Binding != 0 {
			continue
		}
		st, ok := module.Types[gv.Type].Inner.(ir.StructType)
		if !ok {
			return fmt.Errorf("%w: %q is not a struct", ErrNoUniformBlock, gv.Name)
		}
		for _, m := range st.Members {
			refl.Uniforms = append(refl.Uniforms, Uniform{
				Name:   m.Name,
				Offset: m.Offset,
				Size:   ir.TypeSize(module, m.Type),
			})
		}
		refl.BlockSize = st.Span
		return nil
	}
	return ErrNoUniformBlock
}

func reflectAttributes(module *ir.Module, vertexEntry string, refl *Reflection) error {
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Name != vertexEntry || ep.Stage != ir.StageVertex {
			continue
		}
		for _, arg := range ep.Function.Arguments {
			if arg.Binding == nil {
				continue
			}
			if loc, ok := (*arg.Binding).(ir.LocationBinding); ok {
				refl.Attributes = append(refl.Attributes, Attribute{Name: arg.Name, Location: loc.Location})
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrEntryPointNotFound, vertexEntry)
}
