package gltf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/assets"
)

// ErrUnsupportedMode is returned for primitive modes without a WebGPU
// topology (line loops and triangle fans).
var ErrUnsupportedMode = errors.New("gltf: unsupported primitive mode")

// ErrMissingPosition is returned for primitives without a POSITION attribute.
var ErrMissingPosition = errors.New("gltf: primitive has no POSITION attribute")

// Primitive modes.
const (
	modePoints        = 0
	modeLines         = 1
	modeLineStrip     = 3
	modeTriangles     = 4
	modeTriangleStrip = 5
)

// Loader reads glTF files and uploads them to a device. It implements
// assets.Loader.
type Loader struct {
	device         hal.Device
	queue          hal.Queue
	maxTextureSize int
}

var _ assets.Loader = (*Loader)(nil)

// NewLoader creates a loader for the context's device.
func NewLoader(ctx lines.Context) (*Loader, error) {
	device, queue, err := lines.HalDevice(ctx)
	if err != nil {
		return nil, err
	}
	return &Loader{
		device:         device,
		queue:          queue,
		maxTextureSize: int(gputypes.DefaultLimits().MaxTextureDimension2D),
	}, nil
}

// FromFile loads a .gltf or .glb file. The container is detected from the
// file contents. Errors are wrapped with the path.
func (l *Loader) FromFile(path string) (*assets.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gltf: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") && !isGLB(data) {
		_, _, err = splitGLB(data)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m, err := l.Decode(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Decode loads a model from memory. dir resolves relative buffer and
// image URIs. GPU resources created before a failure are released.
func (l *Loader) Decode(data []byte, dir string) (*assets.Model, error) {
	jsonChunk, bin := data, []byte(nil)
	if isGLB(data) {
		var err error
		if jsonChunk, bin, err = splitGLB(data); err != nil {
			return nil, err
		}
	}
	doc, err := parseDocument(jsonChunk)
	if err != nil {
		return nil, err
	}
	buffers, err := loadBuffers(doc, dir, bin)
	if err != nil {
		return nil, err
	}

	m := assets.NewModel(l.device, "")
	if err := l.build(m, doc, buffers, dir); err != nil {
		m.Destroy()
		return nil, err
	}
	lines.Logger().Debug("gltf model decoded",
		"meshes", len(m.Meshes),
		"textures", len(m.Textures))
	return m, nil
}

func (l *Loader) build(m *assets.Model, doc *document, buffers [][]byte, dir string) error {
	// Material index -> slot in m.Textures.
	slots := make(map[int]int)
	for mi, mat := range doc.Materials {
		if mat.PBR == nil || mat.PBR.BaseColorTexture == nil {
			continue
		}
		ti := mat.PBR.BaseColorTexture.Index
		if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
			return fmt.Errorf("%w: material %d references texture %d", ErrInvalidDocument, mi, ti)
		}
		src := *doc.Textures[ti].Source
		encoded, err := imageBytes(doc, buffers, dir, src)
		if err != nil {
			return fmt.Errorf("material %d: %w", mi, err)
		}
		rgba, err := decodeRGBA(encoded, l.maxTextureSize)
		if err != nil {
			return fmt.Errorf("material %d: %w", mi, err)
		}
		tex, err := l.uploadTexture(mat.Name, rgba)
		if err != nil {
			return err
		}
		slots[mi] = len(m.Textures)
		m.Textures = append(m.Textures, tex)
	}

	for mi, msh := range doc.Meshes {
		for pi, prim := range msh.Primitives {
			mesh, err := readPrimitive(doc, buffers, prim)
			if err != nil {
				return fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			mesh.Name = msh.Name
			mesh.Material = -1
			if prim.Material != nil {
				if slot, ok := slots[*prim.Material]; ok {
					mesh.Material = slot
				}
			}
			m.Meshes = append(m.Meshes, mesh)
			if err := l.uploadMesh(mesh); err != nil {
				return err
			}
		}
	}
	return nil
}

// readPrimitive reads positions and indices. Primitives without indices
// get the sequence 0..n-1.
func readPrimitive(doc *document, buffers [][]byte, prim primitive) (*assets.Mesh, error) {
	mode := modeTriangles
	if prim.Mode != nil {
		mode = *prim.Mode
	}
	topology, err := topologyFor(mode)
	if err != nil {
		return nil, err
	}
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, ErrMissingPosition
	}
	positions, err := readPositions(doc, buffers, posIdx)
	if err != nil {
		return nil, err
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = readIndices(doc, buffers, *prim.Indices); err != nil {
			return nil, err
		}
	} else {
		indices = make([]uint32, len(positions)/3)
		for i := range indices {
			indices[i] = uint32(i) //nolint:gosec // bounded by accessor count
		}
	}
	n := uint32(len(positions) / 3) //nolint:gosec // bounded by accessor count
	for i, idx := range indices {
		if idx >= n {
			return nil, fmt.Errorf("%w: index %d at %d exceeds %d vertices", ErrInvalidDocument, idx, i, n)
		}
	}
	return &assets.Mesh{Positions: positions, Indices: indices, Topology: topology}, nil
}

func topologyFor(mode int) (gputypes.PrimitiveTopology, error) {
	switch mode {
	case modePoints:
		return gputypes.PrimitiveTopologyPointList, nil
	case modeLines:
		return gputypes.PrimitiveTopologyLineList, nil
	case modeLineStrip:
		return gputypes.PrimitiveTopologyLineStrip, nil
	case modeTriangles:
		return gputypes.PrimitiveTopologyTriangleList, nil
	case modeTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedMode, mode)
}

func (l *Loader) uploadMesh(mesh *assets.Mesh) error {
	if len(mesh.Positions) == 0 {
		return nil
	}
	vb := make([]byte, len(mesh.Positions)*4)
	for i, f := range mesh.Positions {
		binary.LittleEndian.PutUint32(vb[i*4:], math.Float32bits(f))
	}
	ib := make([]byte, len(mesh.Indices)*4)
	for i, idx := range mesh.Indices {
		binary.LittleEndian.PutUint32(ib[i*4:], idx)
	}

	var err error
	if mesh.VertexBuffer, err = l.uploadBuffer(mesh.Name+"_positions", gputypes.BufferUsageVertex, vb); err != nil {
		return err
	}
	if len(ib) > 0 {
		if mesh.IndexBuffer, err = l.uploadBuffer(mesh.Name+"_indices", gputypes.BufferUsageIndex, ib); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) uploadBuffer(label string, usage gputypes.BufferUsage, data []byte) (hal.Buffer, error) {
	buf, err := l.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := l.queue.WriteBuffer(buf, 0, data); err != nil {
		l.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

func (l *Loader) uploadTexture(name string, img *image.RGBA) (*assets.Texture, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	size := hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1} //nolint:gosec // clamped by maxTextureSize
	tex, err := l.device.CreateTexture(&hal.TextureDescriptor{
		Label:         name + "_base_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", name, err)
	}
	err = l.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0, Aspect: gputypes.TextureAspectAll},
		img.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride), //nolint:gosec // clamped by maxTextureSize
			RowsPerImage: size.Height,
		},
		&size,
	)
	if err != nil {
		l.device.DestroyTexture(tex)
		return nil, fmt.Errorf("write texture %q: %w", name, err)
	}
	view, err := l.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     name + "_base_color_view",
		Format:    gputypes.TextureFormatRGBA8Unorm,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		l.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view %q: %w", name, err)
	}
	return &assets.Texture{Name: name, Width: w, Height: h, Texture: tex, View: view}, nil
}
