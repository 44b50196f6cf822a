package shader

import (
	"testing"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

// readBuffer copies size bytes out of a host-visible noop buffer.
func readBuffer(t *testing.T, device hal.Device, buf hal.Buffer, size uint64) []byte {
	t.Helper()
	mapping, err := device.MapBuffer(buf, 0, size)
	if err != nil {
		t.Fatalf("MapBuffer: %v", err)
	}
	defer func() { _ = device.UnmapBuffer(buf) }()
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	return out
}
