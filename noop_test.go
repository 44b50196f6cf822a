package lines

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/lines/shader"
)

// newTestContext opens a noop device behind a 800x600 headless context.
func newTestContext(t *testing.T) *HeadlessContext {
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
	return NewHeadlessContext(openDev.Device, openDev.Queue, 800, 600)
}

// newTestRegistry compiles the built-in programs into a private registry.
func newTestRegistry(t *testing.T, ctx *HeadlessContext) *shader.Registry {
	t.Helper()
	device, queue, err := HalDevice(ctx)
	if err != nil {
		t.Fatalf("halDevice: %v", err)
	}
	r := shader.NewRegistry()
	if err := shader.RegisterBuiltins(r, device, queue, ctx.SurfaceFormat()); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}
	t.Cleanup(r.Destroy)
	return r
}

// recordingPass records the draw calls a renderer issues.
type recordingPass struct {
	noop.RenderPassEncoder

	pipelines int
	draws     []uint32
}

func (p *recordingPass) SetPipeline(hal.RenderPipeline) { p.pipelines++ }

func (p *recordingPass) DrawIndexed(indexCount, _, _ uint32, _ int32, _ uint32) {
	p.draws = append(p.draws, indexCount)
}
