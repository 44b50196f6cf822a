package gltf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidGLB is returned for malformed binary containers.
var ErrInvalidGLB = errors.New("gltf: invalid glb container")

// GLB layout (all little-endian):
//
//	header  magic "glTF" | version 2 | total length   (12 bytes)
//	chunk   length | type "JSON" | payload            (required, first)
//	chunk   length | type "BIN\0" | payload           (optional)
const (
	glbMagic      = 0x46546C67
	glbVersion    = 2
	glbHeaderSize = 12
	glbChunkJSON  = 0x4E4F534A
	glbChunkBIN   = 0x004E4942
)

// isGLB reports whether data starts with the GLB magic.
func isGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic
}

// splitGLB returns the JSON chunk and the optional BIN chunk.
func splitGLB(data []byte) (jsonChunk, bin []byte, err error) {
	if len(data) < glbHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrInvalidGLB, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data); magic != glbMagic {
		return nil, nil, fmt.Errorf("%w: bad magic %#08x", ErrInvalidGLB, magic)
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != glbVersion {
		return nil, nil, fmt.Errorf("%w: container version %d", ErrUnsupportedVersion, v)
	}
	total := int(binary.LittleEndian.Uint32(data[8:]))
	if total > len(data) {
		return nil, nil, fmt.Errorf("%w: header length %d exceeds file size %d", ErrInvalidGLB, total, len(data))
	}
	data = data[:total]

	off := glbHeaderSize
	for off < len(data) {
		if off+8 > len(data) {
			return nil, nil, fmt.Errorf("%w: truncated chunk header at %d", ErrInvalidGLB, off)
		}
		size := int(binary.LittleEndian.Uint32(data[off:]))
		kind := binary.LittleEndian.Uint32(data[off+4:])
		start := off + 8
		if size < 0 || start+size > len(data) {
			return nil, nil, fmt.Errorf("%w: chunk at %d overruns the file", ErrInvalidGLB, off)
		}
		payload := data[start : start+size]

		switch {
		case jsonChunk == nil && kind != glbChunkJSON:
			return nil, nil, fmt.Errorf("%w: first chunk is not JSON", ErrInvalidGLB)
		case jsonChunk == nil:
			jsonChunk = payload
		case kind == glbChunkBIN && bin == nil:
			bin = payload
		}
		off = start + size
	}
	if jsonChunk == nil {
		return nil, nil, fmt.Errorf("%w: missing JSON chunk", ErrInvalidGLB)
	}
	return jsonChunk, bin, nil
}
