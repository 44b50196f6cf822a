package assets

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Loader turns one model file into GPU-ready model data.
type Loader interface {
	FromFile(path string) (*Model, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (*Model, error)

// FromFile calls f(path).
func (f LoaderFunc) FromFile(path string) (*Model, error) { return f(path) }

// Model is a loaded model file: its meshes and the textures they reference.
type Model struct {
	// Path is the file the model was loaded from.
	Path string

	Meshes   []*Mesh
	Textures []*Texture

	device hal.Device
}

// NewModel returns an empty model whose GPU resources will be released on
// device. device may be nil for CPU-only models.
func NewModel(device hal.Device, path string) *Model {
	return &Model{Path: path, device: device}
}

// Mesh is one drawable primitive.
type Mesh struct {
	Name string

	// Positions holds xyz triples; Indices index into them.
	Positions []float32
	Indices   []uint32

	Topology gputypes.PrimitiveTopology

	// Material is the base color texture index in Model.Textures, or -1.
	Material int

	VertexBuffer hal.Buffer
	IndexBuffer  hal.Buffer
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// Texture is a decoded RGBA8 image uploaded to the GPU.
type Texture struct {
	Name          string
	Width, Height int

	Texture hal.Texture
	View    hal.TextureView
}

// Destroy releases the model's GPU buffers and textures. Safe to call
// more than once.
func (m *Model) Destroy() {
	if m.device == nil {
		return
	}
	for _, mesh := range m.Meshes {
		if mesh.IndexBuffer != nil {
			m.device.DestroyBuffer(mesh.IndexBuffer)
			mesh.IndexBuffer = nil
		}
		if mesh.VertexBuffer != nil {
			m.device.DestroyBuffer(mesh.VertexBuffer)
			mesh.VertexBuffer = nil
		}
	}
	for _, tex := range m.Textures {
		if tex.View != nil {
			m.device.DestroyTextureView(tex.View)
			tex.View = nil
		}
		if tex.Texture != nil {
			m.device.DestroyTexture(tex.Texture)
			tex.Texture = nil
		}
	}
}
