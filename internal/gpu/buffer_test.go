package gpu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func newTestBuffer(t *testing.T, capacity uint64) (*DynamicBuffer, func()) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	buf, err := NewDynamicBuffer(device, queue, "test_vertices", gputypes.BufferUsageVertex, capacity)
	if err != nil {
		cleanup()
		t.Fatalf("NewDynamicBuffer: %v", err)
	}
	return buf, func() {
		buf.Destroy()
		cleanup()
	}
}

func TestNewDynamicBuffer_InvalidSize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	for _, size := range []uint64{0, 3, 2401} {
		_, err := NewDynamicBuffer(device, queue, "bad", gputypes.BufferUsageVertex, size)
		if !errors.Is(err, ErrInvalidBufferSize) {
			t.Errorf("capacity %d: err = %v, want ErrInvalidBufferSize", size, err)
		}
	}
}

func TestNewDynamicBuffer_NilDevice(t *testing.T) {
	_, err := NewDynamicBuffer(nil, nil, "nil", gputypes.BufferUsageVertex, 16)
	if !errors.Is(err, ErrNilDevice) {
		t.Fatalf("err = %v, want ErrNilDevice", err)
	}
}

func TestDynamicBuffer_AddsCopyDst(t *testing.T) {
	buf, cleanup := newTestBuffer(t, 64)
	defer cleanup()

	if !buf.Usage().Contains(gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst) {
		t.Errorf("Usage() = %v, want Vertex|CopyDst", buf.Usage())
	}
	if buf.Capacity() != 64 {
		t.Errorf("Capacity() = %d, want 64", buf.Capacity())
	}
}

func TestDynamicBuffer_WriteReadBack(t *testing.T) {
	buf, cleanup := newTestBuffer(t, 16)
	defer cleanup()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := buf.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() != 8 {
		t.Errorf("Len() = %d, want 8", buf.Len())
	}
	got, err := buf.ReadBack()
	if err != nil {
		t.Fatalf("ReadBack: %v", err)
	}
	want := append(append([]byte{}, data...), make([]byte, 8)...)
	if !bytes.Equal(got, want) {
		t.Errorf("ReadBack() = %v, want %v", got, want)
	}
}

func TestDynamicBuffer_OverCapacityKeepsContents(t *testing.T) {
	buf, cleanup := newTestBuffer(t, 8)
	defer cleanup()

	first := []byte{9, 9, 9, 9, 8, 8, 8, 8}
	if err := buf.Write(first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	err := buf.Write(make([]byte, 12))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("oversized Write err = %v, want ErrCapacityExceeded", err)
	}
	if buf.Len() != 8 {
		t.Errorf("Len() after failed write = %d, want 8", buf.Len())
	}
	got, err := buf.ReadBack()
	if err != nil {
		t.Fatalf("ReadBack: %v", err)
	}
	if !bytes.Equal(got, first) {
		t.Errorf("contents changed after failed write: %v", got)
	}
}

func TestDynamicBuffer_UnalignedWrite(t *testing.T) {
	buf, cleanup := newTestBuffer(t, 16)
	defer cleanup()

	if err := buf.Write([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidBufferSize) {
		t.Fatalf("err = %v, want ErrInvalidBufferSize", err)
	}
}

func TestDynamicBuffer_ClearLeavesNoResidue(t *testing.T) {
	buf, cleanup := newTestBuffer(t, 32)
	defer cleanup()

	long := bytes.Repeat([]byte{0xAB}, 32)
	if err := buf.Write(long); err != nil {
		t.Fatalf("Write long: %v", err)
	}
	if err := buf.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", buf.Len())
	}
	short := []byte{1, 1, 1, 1}
	if err := buf.Write(short); err != nil {
		t.Fatalf("Write short: %v", err)
	}

	got, err := buf.ReadBack()
	if err != nil {
		t.Fatalf("ReadBack: %v", err)
	}
	if !bytes.Equal(got[:4], short) {
		t.Errorf("prefix = %v, want %v", got[:4], short)
	}
	for i, b := range got[4:] {
		if b != 0 {
			t.Fatalf("byte %d = %#x after Clear, want 0", i+4, b)
		}
	}
}

func TestDynamicBuffer_Destroy(t *testing.T) {
	buf, cleanup := newTestBuffer(t, 16)
	defer cleanup()

	buf.Destroy()
	buf.Destroy()

	if buf.Handle() != nil {
		t.Error("Handle() should be nil after Destroy")
	}
	if err := buf.Write([]byte{0, 0, 0, 0}); !errors.Is(err, ErrBufferDestroyed) {
		t.Errorf("Write after Destroy err = %v, want ErrBufferDestroyed", err)
	}
	if err := buf.Clear(); !errors.Is(err, ErrBufferDestroyed) {
		t.Errorf("Clear after Destroy err = %v, want ErrBufferDestroyed", err)
	}
	if _, err := buf.ReadBack(); !errors.Is(err, ErrBufferDestroyed) {
		t.Errorf("ReadBack after Destroy err = %v, want ErrBufferDestroyed", err)
	}
}
