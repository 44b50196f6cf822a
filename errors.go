package lines

import (
	"errors"

	"github.com/gogpu/lines/internal/gpu"
	"github.com/gogpu/lines/shader"
)

var (
	// ErrCapacityExceeded is returned by Update and NewRenderer when the
	// packed lines do not fit the fixed buffer capacity. Nothing is written.
	ErrCapacityExceeded = gpu.ErrCapacityExceeded

	// ErrInvalidCapacity is returned by NewRenderer when the buffer
	// capacity is zero or not a multiple of 4 bytes.
	ErrInvalidCapacity = gpu.ErrInvalidBufferSize

	// ErrRendererDestroyed is returned when using a renderer after Destroy.
	ErrRendererDestroyed = errors.New("lines: renderer has been destroyed")

	// ErrUnsupportedDevice is returned when a Context does not provide a
	// hal.Device and hal.Queue.
	ErrUnsupportedDevice = errors.New("lines: context does not provide a hal device and queue")

	// ErrDeviceMismatch is returned by NewRenderer when the shader program
	// was compiled on a different device than the context's.
	ErrDeviceMismatch = shader.ErrDeviceMismatch

	// ErrNilPass is returned by Draw when no render pass is given.
	ErrNilPass = errors.New("lines: render pass is nil")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("lines: invalid config")
)
