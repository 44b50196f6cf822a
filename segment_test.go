package lines

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// numberedSegments returns n segments whose matrices hold distinct values.
func numberedSegments(n int) []Segment {
	segs := make([]Segment, n)
	for i := range segs {
		for j := 0; j < ComponentsPerVertex; j++ {
			segs[i].Start[j] = float32(i*100 + j)
			segs[i].End[j] = float32(i*100 + 50 + j)
		}
	}
	return segs
}

func TestBuildLines_Counts(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 18} {
		p := BuildLines(numberedSegments(n))
		if got, want := len(p.Vertices), 2*n*ComponentsPerVertex; got != want {
			t.Errorf("N=%d: len(Vertices) = %d, want %d", n, got, want)
		}
		if got, want := len(p.Indices), 2*n; got != want {
			t.Errorf("N=%d: len(Indices) = %d, want %d", n, got, want)
		}
		for i, idx := range p.Indices {
			if idx != uint32(i) {
				t.Fatalf("N=%d: Indices[%d] = %d, want %d", n, i, idx, i)
			}
		}
		if p.Segments() != n {
			t.Errorf("N=%d: Segments() = %d", n, p.Segments())
		}
	}
}

func TestBuildLines_Empty(t *testing.T) {
	for _, in := range [][]Segment{nil, {}} {
		p := BuildLines(in)
		if p.Vertices == nil || p.Indices == nil {
			t.Fatal("empty input should give empty, non-nil slices")
		}
		if len(p.Vertices) != 0 || len(p.Indices) != 0 {
			t.Errorf("got %d vertices, %d indices, want 0, 0", len(p.Vertices), len(p.Indices))
		}
		if len(p.VertexBytes()) != 0 || len(p.IndexBytes()) != 0 {
			t.Error("empty input should encode to zero bytes")
		}
	}
}

func TestBuildLines_OrderPreserving(t *testing.T) {
	segs := numberedSegments(4)
	p := BuildLines(segs)

	for i, s := range segs {
		start := p.Vertices[(2*i)*ComponentsPerVertex : (2*i+1)*ComponentsPerVertex]
		end := p.Vertices[(2*i+1)*ComponentsPerVertex : (2*i+2)*ComponentsPerVertex]
		if mgl32.Mat4(start) != s.Start {
			t.Errorf("segment %d start = %v, want %v", i, start, s.Start)
		}
		if mgl32.Mat4(end) != s.End {
			t.Errorf("segment %d end = %v, want %v", i, end, s.End)
		}
		if p.Indices[2*i] != uint32(2*i) || p.Indices[2*i+1] != uint32(2*i+1) {
			t.Errorf("segment %d indices = %d,%d", i, p.Indices[2*i], p.Indices[2*i+1])
		}
	}
}

func TestPacked_Bytes(t *testing.T) {
	seg := SegmentBetween(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 5, 6})
	p := BuildLines([]Segment{seg})

	vb := p.VertexBytes()
	if len(vb) != SegmentVertexBytes {
		t.Fatalf("len(VertexBytes) = %d, want %d", len(vb), SegmentVertexBytes)
	}
	f32 := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(vb[off:])) }

	// Translation column of each vertex starts 48 bytes into it.
	if f32(48) != 1 || f32(52) != 2 || f32(56) != 3 || f32(60) != 1 {
		t.Errorf("start position = %v %v %v %v", f32(48), f32(52), f32(56), f32(60))
	}
	if f32(VertexStride+48) != 4 || f32(VertexStride+52) != 5 || f32(VertexStride+56) != 6 {
		t.Errorf("end position = %v %v %v", f32(VertexStride+48), f32(VertexStride+52), f32(VertexStride+56))
	}

	ib := p.IndexBytes()
	if len(ib) != SegmentIndexBytes {
		t.Fatalf("len(IndexBytes) = %d, want %d", len(ib), SegmentIndexBytes)
	}
	if binary.LittleEndian.Uint32(ib) != 0 || binary.LittleEndian.Uint32(ib[4:]) != 1 {
		t.Errorf("index bytes = %v", ib)
	}
}
