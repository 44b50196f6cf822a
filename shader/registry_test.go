package shader

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// otherDevice wraps a device so it compares unequal to the wrapped one.
type otherDevice struct {
	hal.Device
	id int
}

func TestRegistry_GetMissing(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nope"); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("err = %v, want ErrProgramNotFound", err)
	}
	if len(r.Names()) != 0 {
		t.Errorf("Names() = %v, want empty", r.Names())
	}
}

func TestRegistry_RegisterBuiltins(t *testing.T) {
	device, queue := createNoopDevice(t)
	r := NewRegistry()
	defer r.Destroy()

	if err := RegisterBuiltins(r, device, queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}
	first, err := r.Get(LinesProgram)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// A second registration keeps the existing program.
	if err := RegisterBuiltins(r, device, queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
		t.Fatalf("RegisterBuiltins again: %v", err)
	}
	second, _ := r.Get(LinesProgram)
	if first != second {
		t.Error("RegisterBuiltins replaced an existing program")
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{LinesProgram}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestRegistry_Destroy(t *testing.T) {
	device, queue := createNoopDevice(t)
	r := NewRegistry()

	p, err := NewProgram(device, queue, LinesSource(0))
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	r.Register(p)
	r.Destroy()

	if r.Has(LinesProgram) {
		t.Error("program still registered after Destroy")
	}
	if p.Pipeline() != nil {
		t.Error("program not destroyed with registry")
	}
}

func TestRegistry_BoundToDevice(t *testing.T) {
	device, queue := createNoopDevice(t)
	r := NewRegistry()
	defer r.Destroy()

	if err := RegisterBuiltins(r, device, queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}
	if r.Device() != device {
		t.Error("registry not bound to the compiling device")
	}

	second := otherDevice{Device: device, id: 2}
	err := RegisterBuiltins(r, second, queue, gputypes.TextureFormatBGRA8Unorm)
	if !errors.Is(err, ErrDeviceMismatch) {
		t.Fatalf("second device err = %v, want ErrDeviceMismatch", err)
	}

	// Destroy unbinds, so the registry can serve the second device.
	r.Destroy()
	if err := RegisterBuiltins(r, second, queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
		t.Fatalf("RegisterBuiltins after Destroy: %v", err)
	}
	p, err := r.Get(LinesProgram)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Device() != second {
		t.Error("program not compiled on the second device")
	}
}

func TestRegisterBuiltins_NilDevice(t *testing.T) {
	if err := RegisterBuiltins(NewRegistry(), nil, nil, 0); !errors.Is(err, ErrNilDevice) {
		t.Errorf("err = %v, want ErrNilDevice", err)
	}
}

func TestDefault_Init(t *testing.T) {
	device, queue := createNoopDevice(t)
	t.Cleanup(Default().Destroy)

	r, err := Init(device, queue, gputypes.TextureFormatUndefined)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if r != Default() {
		t.Error("Init did not return the default registry")
	}
	if _, err := Default().Get(LinesProgram); err != nil {
		t.Errorf("lines program missing after Init: %v", err)
	}
}
