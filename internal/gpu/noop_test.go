package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// drawCall is one DrawIndexed recorded by recordingPass.
type drawCall struct {
	indexCount    uint32
	instanceCount uint32
}

// recordingPass records the calls the line renderer makes on a render pass.
type recordingPass struct {
	noop.RenderPassEncoder

	pipelines   int
	bindGroups  int
	vertexBufs  int
	indexFormat gputypes.IndexFormat
	draws       []drawCall
	ended       bool
}

func (r *recordingPass) SetPipeline(hal.RenderPipeline)               { r.pipelines++ }
func (r *recordingPass) SetBindGroup(uint32, hal.BindGroup, []uint32) { r.bindGroups++ }
func (r *recordingPass) SetVertexBuffer(uint32, hal.Buffer, uint64)   { r.vertexBufs++ }

func (r *recordingPass) SetIndexBuffer(_ hal.Buffer, f gputypes.IndexFormat, _ uint64) {
	r.indexFormat = f
}

func (r *recordingPass) DrawIndexed(indexCount, instanceCount, _ uint32, _ int32, _ uint32) {
	r.draws = append(r.draws, drawCall{indexCount: indexCount, instanceCount: instanceCount})
}

func (r *recordingPass) End() { r.ended = true }
