// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrFrameSubmitted is returned when a frame is used after Submit or Discard.
var ErrFrameSubmitted = errors.New("gpu: frame already submitted")

// Frame is one command encoder with a single render pass that loads and
// stores target. Draw calls are recorded into Pass and sent with Submit.
type Frame struct {
	device  hal.Device
	queue   hal.Queue
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder
	done    bool
}

// BeginFrame opens a command encoder and a render pass over target.
// The target's existing contents are kept so line overlays draw on top of
// whatever the application rendered before.
func BeginFrame(device hal.Device, queue hal.Queue, target hal.TextureView) (*Frame, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "lines_frame"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("lines_frame"); err != nil {
		encoder.Destroy()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "lines_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    target,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})

	return &Frame{
		device:  device,
		queue:   queue,
		encoder: encoder,
		pass:    pass,
	}, nil
}

// Pass returns the render pass to record draws into.
func (f *Frame) Pass() hal.RenderPassEncoder { return f.pass }

// Submit ends the pass, finishes encoding and submits the command buffer.
func (f *Frame) Submit() error {
	if f.done {
		return ErrFrameSubmitted
	}
	f.done = true
	defer f.encoder.Destroy()

	f.pass.End()
	cmdBuf, err := f.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer f.device.FreeCommandBuffer(cmdBuf)

	idx, err := f.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	slogger().Debug("frame submitted", "submission", idx)
	return nil
}

// Discard abandons the recorded commands. Safe after Submit.
func (f *Frame) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.pass.End()
	f.encoder.DiscardEncoding()
	f.encoder.Destroy()
}
