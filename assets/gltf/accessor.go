package gltf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedAccessor is returned for accessor layouts the loader
// cannot read.
var ErrUnsupportedAccessor = errors.New("gltf: unsupported accessor")

// Component types.
const (
	componentUnsignedByte  = 5121
	componentUnsignedShort = 5123
	componentUnsignedInt   = 5125
	componentFloat         = 5126
)

func componentSize(ct int) int {
	switch ct {
	case componentUnsignedByte:
		return 1
	case componentUnsignedShort:
		return 2
	case componentUnsignedInt, componentFloat:
		return 4
	}
	return 0
}

func typeComponents(t string) int {
	switch t {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4":
		return 4
	}
	return 0
}

// maxZeroAccessorBytes bounds the zero-filled data of an accessor that has
// no buffer view.
const maxZeroAccessorBytes = 64 << 20

// bytes returns the range of the view's buffer, or false when it does not
// lie inside the buffer.
func (v bufferView) bytes(buffers [][]byte) ([]byte, bool) {
	if v.Buffer < 0 || v.Buffer >= len(buffers) {
		return nil, false
	}
	buf := buffers[v.Buffer]
	if v.ByteOffset < 0 || v.ByteLength < 0 || v.ByteOffset > len(buf) ||
		v.ByteLength > len(buf)-v.ByteOffset {
		return nil, false
	}
	return buf[v.ByteOffset : v.ByteOffset+v.ByteLength], true
}

// accessorView returns the bytes of accessor idx and its element stride.
// An accessor without a buffer view is all zeros.
func accessorView(doc *document, buffers [][]byte, idx int) (accessor, []byte, int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return accessor{}, nil, 0, fmt.Errorf("%w: accessor %d does not exist", ErrInvalidDocument, idx)
	}
	acc := doc.Accessors[idx]
	elem := componentSize(acc.ComponentType) * typeComponents(acc.Type)
	if elem == 0 {
		return acc, nil, 0, fmt.Errorf("%w: accessor %d is %s of component type %d",
			ErrUnsupportedAccessor, idx, acc.Type, acc.ComponentType)
	}
	if acc.Count <= 0 {
		return acc, nil, elem, nil
	}
	if acc.BufferView == nil {
		if acc.Count > maxZeroAccessorBytes/elem {
			return acc, nil, 0, fmt.Errorf("%w: accessor %d count %d is too large",
				ErrInvalidDocument, idx, acc.Count)
		}
		return acc, make([]byte, acc.Count*elem), elem, nil
	}

	vi := *acc.BufferView
	if vi < 0 || vi >= len(doc.BufferViews) {
		return acc, nil, 0, fmt.Errorf("%w: accessor %d references bufferView %d", ErrInvalidDocument, idx, vi)
	}
	view := doc.BufferViews[vi]
	stride := elem
	if view.ByteStride > 0 {
		stride = view.ByteStride
	}
	if stride < elem {
		return acc, nil, 0, fmt.Errorf("%w: bufferView %d stride %d is smaller than element size %d",
			ErrInvalidDocument, vi, stride, elem)
	}
	buf, ok := view.bytes(buffers)
	if !ok {
		return acc, nil, 0, fmt.Errorf("%w: bufferView %d [%d, +%d) outside buffer %d",
			ErrInvalidDocument, vi, view.ByteOffset, view.ByteLength, view.Buffer)
	}
	if acc.ByteOffset < 0 || acc.ByteOffset > view.ByteLength ||
		view.ByteLength-acc.ByteOffset < elem {
		return acc, nil, 0, fmt.Errorf("%w: accessor %d offset %d outside bufferView %d",
			ErrInvalidDocument, idx, acc.ByteOffset, vi)
	}
	// Divide rather than multiply so huge counts or strides cannot wrap.
	avail := view.ByteLength - acc.ByteOffset
	if acc.Count-1 > (avail-elem)/stride {
		return acc, nil, 0, fmt.Errorf("%w: accessor %d needs %d elements of stride %d, bufferView %d has %d bytes",
			ErrInvalidDocument, idx, acc.Count, stride, vi, avail)
	}
	start := acc.ByteOffset
	end := start + stride*(acc.Count-1) + elem
	return acc, buf[start:end], stride, nil
}

// readPositions reads a float32 VEC3 accessor as xyz triples.
func readPositions(doc *document, buffers [][]byte, idx int) ([]float32, error) {
	acc, data, stride, err := accessorView(doc, buffers, idx)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType != componentFloat || acc.Type != "VEC3" {
		return nil, fmt.Errorf("%w: POSITION must be float VEC3, got %s of %d",
			ErrUnsupportedAccessor, acc.Type, acc.ComponentType)
	}
	out := make([]float32, 0, acc.Count*3)
	for i := 0; i < acc.Count; i++ {
		e := data[i*stride:]
		out = append(out,
			math.Float32frombits(binary.LittleEndian.Uint32(e)),
			math.Float32frombits(binary.LittleEndian.Uint32(e[4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(e[8:])))
	}
	return out, nil
}

// readIndices reads an unsigned SCALAR accessor, widening to uint32.
func readIndices(doc *document, buffers [][]byte, idx int) ([]uint32, error) {
	acc, data, stride, err := accessorView(doc, buffers, idx)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" || acc.ComponentType == componentFloat {
		return nil, fmt.Errorf("%w: indices must be unsigned SCALAR, got %s of %d",
			ErrUnsupportedAccessor, acc.Type, acc.ComponentType)
	}
	out := make([]uint32, acc.Count)
	for i := range out {
		e := data[i*stride:]
		switch acc.ComponentType {
		case componentUnsignedByte:
			out[i] = uint32(e[0])
		case componentUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(e))
		case componentUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(e)
		}
	}
	return out, nil
}
