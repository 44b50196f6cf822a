package lines

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lines/internal/gpu"
	"github.com/gogpu/lines/shader"
)

// Uniform names of the "lines" program.
const (
	uniformImgWidth      = "img_width"
	uniformImgHeight     = "img_height"
	uniformLineThickness = "line_thickness"
	uniformModel         = "model"
	uniformView          = "view"
	uniformProjection    = "projection"
	uniformColor         = "color"
)

// Renderer draws a batch of line segments with one indexed line-list draw.
//
// The renderer owns a vertex buffer and an index buffer whose capacity is
// fixed at creation, plus a uniform buffer for its own color, thickness
// and transforms. The shader program is shared with other renderers.
//
// Typical frame:
//
//	r.Update(segments)
//	r.DrawFrame(target, proj, view)
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	ctx    Context
	device hal.Device
	queue  hal.Queue

	program  *shader.Program
	bindings *shader.Bindings
	vertices *gpu.DynamicBuffer
	indices  *gpu.DynamicBuffer
	vao      *gpu.VertexArray

	transform Transform
	color     [4]float32
	lineWidth float32

	indexCount uint32
	lastDraw   uint32
	drawCalls  int
	destroyed  bool
}

// NewRenderer creates a renderer on the context's device and uploads the
// initial lines (see WithLines). lineWidth is the thickness in pixels.
//
// Creation fails with ErrUnsupportedDevice when the context does not hold
// a hal device, with ErrDeviceMismatch when the shader registry belongs to
// another device, and with ErrCapacityExceeded when the initial lines do
// not fit the buffers.
func NewRenderer(ctx Context, lineWidth float32, opts ...RendererOption) (*Renderer, error) {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}

	device, queue, err := HalDevice(ctx)
	if err != nil {
		return nil, err
	}

	registry := o.shaders
	if registry == nil {
		registry, err = shader.Init(device, queue, ctx.SurfaceFormat())
		if err != nil {
			return nil, fmt.Errorf("init shaders: %w", err)
		}
	}
	program, err := registry.Get(shader.LinesProgram)
	if err != nil {
		return nil, err
	}
	if program.Device() != device {
		return nil, fmt.Errorf("%w: program %q", ErrDeviceMismatch, program.Name())
	}

	r := &Renderer{
		ctx:       ctx,
		device:    device,
		queue:     queue,
		program:   program,
		transform: IdentityTransform(),
		color:     o.color,
		lineWidth: lineWidth,
	}
	if err := r.createResources(o.capacity); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.Update(o.lines); err != nil {
		r.Destroy()
		return nil, err
	}

	Logger().Debug("line renderer created",
		"capacity", o.capacity,
		"segments", len(o.lines),
		"line_width", lineWidth)
	return r, nil
}

func (r *Renderer) createResources(capacity uint64) error {
	var err error
	r.vertices, err = gpu.NewDynamicBuffer(r.device, r.queue, "lines_vertices", gputypes.BufferUsageVertex, capacity)
	if err != nil {
		return err
	}
	r.indices, err = gpu.NewDynamicBuffer(r.device, r.queue, "lines_indices", gputypes.BufferUsageIndex, capacity)
	if err != nil {
		return err
	}
	r.bindings, err = r.program.NewBindings("lines")
	if err != nil {
		return err
	}
	r.vao, err = gpu.NewVertexArray(r.program.Pipeline(), r.bindings.BindGroup(), r.vertices, r.indices)
	return err
}

// Update replaces the lines on the GPU. Both packed streams are checked
// against the capacity before any buffer is touched: on overflow the
// error wraps ErrCapacityExceeded and the previous lines stay in place.
// Otherwise both buffers are cleared and rewritten, so no bytes from a
// longer previous list remain.
func (r *Renderer) Update(segments []Segment) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	packed := BuildLines(segments)
	vb, ib := packed.VertexBytes(), packed.IndexBytes()

	if capacity := r.vertices.Capacity(); uint64(len(vb)) > capacity {
		return fmt.Errorf("%w: %d segments need %d vertex bytes, capacity is %d",
			ErrCapacityExceeded, len(segments), len(vb), capacity)
	}
	if capacity := r.indices.Capacity(); uint64(len(ib)) > capacity {
		return fmt.Errorf("%w: %d segments need %d index bytes, capacity is %d",
			ErrCapacityExceeded, len(segments), len(ib), capacity)
	}

	if err := r.vertices.Clear(); err != nil {
		return err
	}
	if err := r.indices.Clear(); err != nil {
		return err
	}
	if err := r.vertices.Write(vb); err != nil {
		return err
	}
	if err := r.indices.Write(ib); err != nil {
		return err
	}
	r.indexCount = uint32(len(packed.Indices)) //nolint:gosec // bounded by capacity
	return nil
}

// ModelMatrix returns translate * rotate * scale for the current state.
func (r *Renderer) ModelMatrix() mgl32.Mat4 {
	return r.transform.Matrix()
}

// Draw writes the frame uniforms and records the line draw into pass.
//
// The viewport size is read from the context on every call, in physical
// pixels. With no lines the draw is still recorded with zero indices.
func (r *Renderer) Draw(pass hal.RenderPassEncoder, proj, view mgl32.Mat4) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	if pass == nil {
		return ErrNilPass
	}
	r.lastDraw = 0
	r.drawCalls = 0

	if err := r.writeUniforms(proj, view); err != nil {
		return err
	}
	if r.vao.Render(pass, r.indexCount) {
		r.lastDraw = r.indexCount
		r.drawCalls = 1
	}
	return nil
}

// writeUniforms stages and uploads the per-draw uniform block.
func (r *Renderer) writeUniforms(proj, view mgl32.Mat4) error {
	width, height := r.viewport()
	b := r.bindings
	if err := b.SetFloat(uniformImgWidth, width); err != nil {
		return err
	}
	if err := b.SetFloat(uniformImgHeight, height); err != nil {
		return err
	}
	if err := b.SetFloat(uniformLineThickness, r.lineWidth); err != nil {
		return err
	}
	if err := b.SetMat4(uniformModel, r.ModelMatrix()); err != nil {
		return err
	}
	if err := b.SetMat4(uniformView, view); err != nil {
		return err
	}
	if err := b.SetMat4(uniformProjection, proj); err != nil {
		return err
	}
	if err := b.SetVec4(uniformColor, r.color); err != nil {
		return err
	}
	return b.Flush()
}

// DrawFrame opens a render pass that loads target, draws the lines and
// submits the commands.
func (r *Renderer) DrawFrame(target hal.TextureView, proj, view mgl32.Mat4) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	frame, err := gpu.BeginFrame(r.device, r.queue, target)
	if err != nil {
		return err
	}
	if err := r.Draw(frame.Pass(), proj, view); err != nil {
		frame.Discard()
		return err
	}
	return frame.Submit()
}

// viewport returns the window size in physical pixels.
func (r *Renderer) viewport() (float32, float32) {
	w, h := r.ctx.Size()
	sf := float32(r.ctx.ScaleFactor())
	return math32.Round(float32(w) * sf), math32.Round(float32(h) * sf)
}

// SetTranslation sets the model translation.
func (r *Renderer) SetTranslation(t mgl32.Vec3) { r.transform.Translation = t }

// SetRotation sets the model rotation. Non-unit quaternions are normalized
// when the matrix is built.
func (r *Renderer) SetRotation(q mgl32.Quat) { r.transform.Rotation = q }

// SetScale sets the non-uniform model scale.
func (r *Renderer) SetScale(s mgl32.Vec3) { r.transform.Scale = s }

// Transform returns the model transform.
func (r *Renderer) Transform() Transform { return r.transform }

// SetColor sets the RGBA line color.
func (r *Renderer) SetColor(c [4]float32) { r.color = c }

// Color returns the RGBA line color.
func (r *Renderer) Color() [4]float32 { return r.color }

// SetLineWidth sets the line thickness in pixels.
func (r *Renderer) SetLineWidth(w float32) { r.lineWidth = w }

// LineWidth returns the line thickness in pixels.
func (r *Renderer) LineWidth() float32 { return r.lineWidth }

// IndexCount returns the number of indices currently on the GPU.
func (r *Renderer) IndexCount() uint32 { return r.indexCount }

// Capacity returns the byte capacity of each line buffer.
func (r *Renderer) Capacity() uint64 {
	if r.vertices == nil {
		return 0
	}
	return r.vertices.Capacity()
}

// LastDrawCount returns the index count of the last recorded draw.
func (r *Renderer) LastDrawCount() uint32 { return r.lastDraw }

// LastDrawCalls returns how many draw calls the last Draw recorded.
func (r *Renderer) LastDrawCalls() int { return r.drawCalls }

// Destroy releases the renderer's buffers and uniform bindings. The
// shared program is left alive. Safe to call multiple times.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.vao = nil
	if r.bindings != nil {
		r.bindings.Destroy()
		r.bindings = nil
	}
	if r.indices != nil {
		r.indices.Destroy()
		r.indices = nil
	}
	if r.vertices != nil {
		r.vertices.Destroy()
		r.vertices = nil
	}
	r.indexCount, r.lastDraw = 0, 0
}
