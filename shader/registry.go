// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrProgramNotFound is returned by Registry.Get for unregistered names.
	ErrProgramNotFound = errors.New("shader: program not found")

	// ErrDeviceMismatch is returned when built-in programs are requested
	// for a device other than the one the registry compiled them on.
	ErrDeviceMismatch = errors.New("shader: registry is bound to another device")
)

// Registry maps program names to compiled programs. A registry holds the
// built-in programs of one device at a time.
type Registry struct {
	programs *gpucontext.Registry[*Program]

	mu     sync.Mutex
	device hal.Device
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{programs: gpucontext.NewRegistry[*Program]()}
}

// Register adds p under p.Name(), replacing any program with that name.
func (r *Registry) Register(p *Program) {
	r.programs.Register(p.Name(), func() *Program { return p })
}

// Get returns the program registered under name.
func (r *Registry) Get(name string) (*Program, error) {
	p := r.programs.Get(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrProgramNotFound, name)
	}
	return p, nil
}

// Has reports whether a program is registered under name.
func (r *Registry) Has(name string) bool { return r.programs.Has(name) }

// Names returns the registered program names in sorted order.
func (r *Registry) Names() []string {
	names := r.programs.Available()
	sort.Strings(names)
	return names
}

// Device returns the device the built-in programs were compiled on, or nil.
func (r *Registry) Device() hal.Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.device
}

// Destroy releases every registered program and empties the registry.
// The registry can then be bound to a new device.
func (r *Registry) Destroy() {
	r.mu.Lock()
	r.device = nil
	r.mu.Unlock()

	for _, name := range r.programs.Available() {
		if p := r.programs.Get(name); p != nil {
			p.Destroy()
		}
		r.programs.Unregister(name)
	}
}

var (
	defaultMu       sync.Mutex
	defaultRegistry = NewRegistry()
)

// Default returns the process-wide registry shared by all renderers.
func Default() *Registry { return defaultRegistry }

// Init registers the built-in programs in the default registry for the
// given device. Programs already present are kept, so Init is idempotent
// for one device. Another device gets ErrDeviceMismatch until the default
// registry is destroyed.
func Init(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) (*Registry, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if err := RegisterBuiltins(defaultRegistry, device, queue, format); err != nil {
		return nil, err
	}
	return defaultRegistry, nil
}

// RegisterBuiltins compiles every built-in program missing from r and
// binds r to device.
func RegisterBuiltins(r *Registry, device hal.Device, queue hal.Queue, format gputypes.TextureFormat) error {
	if device == nil || queue == nil {
		return ErrNilDevice
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device != nil && r.device != device {
		return fmt.Errorf("%w: compiled on %T, requested for %T", ErrDeviceMismatch, r.device, device)
	}
	r.device = device
	for _, src := range builtinSources(format) {
		if r.Has(src.Name) {
			continue
		}
		p, err := NewProgram(device, queue, src)
		if err != nil {
			return err
		}
		r.Register(p)
	}
	return nil
}
