package lines

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ComponentsPerVertex is the number of float32 values in one vertex: a
// whole column-major 4x4 matrix.
const ComponentsPerVertex = 16

// Byte sizes of one packed segment.
const (
	VertexStride       = ComponentsPerVertex * 4
	SegmentVertexBytes = 2 * VertexStride
	SegmentIndexBytes  = 2 * 4
)

// Segment is one line from the translation of Start to the translation of End.
type Segment struct {
	Start mgl32.Mat4
	End   mgl32.Mat4
}

// SegmentBetween returns the segment between two points as pure translations.
func SegmentBetween(a, b mgl32.Vec3) Segment {
	return Segment{
		Start: mgl32.Translate3D(a.X(), a.Y(), a.Z()),
		End:   mgl32.Translate3D(b.X(), b.Y(), b.Z()),
	}
}

// Packed is the GPU form of a segment list: 2*16*N floats and 2*N indices.
type Packed struct {
	Vertices []float32
	Indices  []uint32
}

// BuildLines packs segments in input order. Segment i contributes the 16
// floats of Start, the 16 floats of End, and the indices 2i and 2i+1.
// Empty input yields empty, non-nil slices.
func BuildLines(segments []Segment) Packed {
	p := Packed{
		Vertices: make([]float32, 0, len(segments)*2*ComponentsPerVertex),
		Indices:  make([]uint32, 0, len(segments)*2),
	}
	for i, s := range segments {
		p.Vertices = append(p.Vertices, s.Start[:]...)
		p.Vertices = append(p.Vertices, s.End[:]...)
		n := uint32(2 * i) //nolint:gosec // bounded by the buffer capacity
		p.Indices = append(p.Indices, n, n+1)
	}
	return p
}

// Segments returns the number of packed segments.
func (p Packed) Segments() int { return len(p.Indices) / 2 }

// VertexBytes encodes the vertex stream as little-endian float32.
func (p Packed) VertexBytes() []byte {
	out := make([]byte, len(p.Vertices)*4)
	for i, f := range p.Vertices {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// IndexBytes encodes the index stream as little-endian uint32.
func (p Packed) IndexBytes() []byte {
	out := make([]byte, len(p.Indices)*4)
	for i, idx := range p.Indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}
