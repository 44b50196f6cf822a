// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader compiles and registers the WGSL programs used by the
// line renderer.
//
// A [Program] owns a shader module and a render pipeline. Its uniform
// slots are discovered by reflecting the WGSL source with naga: the struct
// bound at @group(0) @binding(0) becomes a set of named slots with byte
// offsets, and vertex entry point arguments become named attributes.
//
// Programs are shared read-only between renderers. Per-instance uniform
// state lives in [Bindings], which each renderer creates from the program
// so that several renderers can draw with different uniforms in one pass.
//
// The process-wide [Registry] returned by [Default] maps names to
// programs. [Init] fills it with the built-in programs, currently "lines".
package shader
