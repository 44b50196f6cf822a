// Package lines renders debug line geometry on a wgpu/hal device.
//
// # Overview
//
// A line list is a slice of [Segment] values. Each segment is a pair of
// 4x4 transforms whose translation columns are the endpoints. [BuildLines]
// packs segments into a vertex stream of whole matrices and a uint32 index
// stream, and [Renderer] uploads them into fixed-capacity GPU buffers and
// draws them as a line list with the built-in "lines" shader program.
//
// # Quick Start
//
//	ctx := lines.NewHeadlessContext(device, queue, 800, 600)
//	r, err := lines.NewRenderer(ctx, 2, lines.WithColor([4]float32{0, 1, 0, 1}))
//	if err != nil {
//	    return err
//	}
//	defer r.Destroy()
//
//	_ = r.Update([]lines.Segment{lines.SegmentBetween(a, b)})
//	_ = r.DrawFrame(target, proj, view)
//
// # Buffer Budget
//
// Vertex and index buffers are reserved once with [MaxLineBufferSize]
// bytes each (see [WithCapacity]). They never grow. An [Renderer.Update]
// that does not fit returns [ErrCapacityExceeded] and leaves the previous
// lines on the GPU.
//
// # Coordinate System
//
// Matrices are [mgl32.Mat4] values, column-major, which is also the
// layout of WGSL mat4x4<f32>. The model matrix is
// translate * rotate * scale.
//
// # Logging
//
// The package is silent by default. Call [SetLogger] to route diagnostics
// from the renderer, the shader registry and the GPU buffers to slog.
package lines
