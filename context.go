package lines

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Context is what the renderer needs from its host: the shared GPU device
// and the window whose size drives the viewport uniforms.
//
// Key principle: lines RECEIVES the device from the host, it does NOT
// create one. Device() and Queue() must return a hal.Device and a
// hal.Queue.
type Context interface {
	gpucontext.DeviceProvider
	gpucontext.WindowProvider
}

// HalDevice extracts the hal device and queue from ctx. It fails with
// ErrUnsupportedDevice when the context holds another kind of device.
func HalDevice(ctx Context) (hal.Device, hal.Queue, error) {
	if ctx == nil {
		return nil, nil, fmt.Errorf("%w: nil context", ErrUnsupportedDevice)
	}
	device, ok := ctx.Device().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: device is %T", ErrUnsupportedDevice, ctx.Device())
	}
	queue, ok := ctx.Queue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: queue is %T", ErrUnsupportedDevice, ctx.Queue())
	}
	return device, queue, nil
}

// HeadlessContext is a Context over an existing hal device with a fixed
// virtual window. It is used by tests and the demo command.
type HeadlessContext struct {
	gpucontext.NullWindowProvider

	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

// NewHeadlessContext wraps device and queue with a width x height window.
// The surface format is BGRA8Unorm.
func NewHeadlessContext(device hal.Device, queue hal.Queue, width, height int) *HeadlessContext {
	return &HeadlessContext{
		NullWindowProvider: gpucontext.NullWindowProvider{W: width, H: height},
		device:             device,
		queue:              queue,
		format:             gputypes.TextureFormatBGRA8Unorm,
	}
}

// Device returns the hal.Device.
func (c *HeadlessContext) Device() gpucontext.Device { return c.device }

// Queue returns the hal.Queue.
func (c *HeadlessContext) Queue() gpucontext.Queue { return c.queue }

// SurfaceFormat returns the color target format.
func (c *HeadlessContext) SurfaceFormat() gputypes.TextureFormat { return c.format }

// Adapter returns nil: the context never owns an adapter.
func (c *HeadlessContext) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports a software adapter.
func (c *HeadlessContext) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "headless", Type: gpucontext.AdapterTypeSoftware}
}

// Resize changes the virtual window size.
func (c *HeadlessContext) Resize(width, height int) {
	c.W, c.H = width, height
}

// SetScaleFactor changes the virtual DPI scale factor.
func (c *HeadlessContext) SetScaleFactor(sf float64) { c.SF = sf }
