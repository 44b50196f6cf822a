package lines

import "github.com/gogpu/lines/shader"

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	r, err := lines.NewRenderer(ctx, 2,
//	    lines.WithColor([4]float32{0, 1, 0, 1}),
//	    lines.WithLines(grid),
//	)
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	color    [4]float32
	lines    []Segment
	capacity uint64
	shaders  *shader.Registry
}

// defaultRendererOptions returns the default renderer options.
func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		color:    [4]float32{1, 0, 0, 1},
		capacity: MaxLineBufferSize,
		shaders:  nil, // Will use shader.Default() if nil
	}
}

// WithColor sets the RGBA line color. The default is opaque red.
func WithColor(c [4]float32) RendererOption {
	return func(o *rendererOptions) {
		o.color = c
	}
}

// WithLines sets the segments uploaded at creation.
func WithLines(segments []Segment) RendererOption {
	return func(o *rendererOptions) {
		o.lines = segments
	}
}

// WithCapacity sets the byte capacity of the vertex and index buffers.
// It must be a positive multiple of 4.
func WithCapacity(bytes uint64) RendererOption {
	return func(o *rendererOptions) {
		o.capacity = bytes
	}
}

// WithShaders selects the registry the "lines" program is taken from.
// The registry must already hold it (see shader.RegisterBuiltins).
// Without this option the process-wide registry is initialized for the
// context's device.
func WithShaders(r *shader.Registry) RendererOption {
	return func(o *rendererOptions) {
		o.shaders = r
	}
}

// WithConfig applies the renderer section of a Config: color and buffer
// capacity. Options after WithConfig override it.
func WithConfig(c Config) RendererOption {
	return func(o *rendererOptions) {
		o.color = c.Renderer.Color
		if c.Renderer.MaxBufferSize > 0 {
			o.capacity = c.Renderer.MaxBufferSize
		}
	}
}
