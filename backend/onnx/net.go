// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo

package onnx

import (
	"context"
	"fmt"
	"sync/atomic"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/gogpu/upscale/backend"
)

type net struct {
	session *ort.DynamicAdvancedSession
	half    bool
	pad     int
	closed  atomic.Bool
}

func newNet(opts backend.NetOptions) (*net, error) {
	file := modelFile(opts.Files[0], opts.FP32)
	inputs, outputs, err := ort.GetInputOutputInfo(file)
	if err != nil {
		return nil, fmt.Errorf("onnx: read %s: %w", file, err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("onnx: %s has %d inputs and %d outputs, want 1 and 1", file, len(inputs), len(outputs))
	}
	half := inputs[0].DataType == ort.TensorElementDataTypeFloat16
	if half && opts.FP32 {
		slogger().Warn("onnx: model is float16, fp32 ignored", "model", file)
	}

	so, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: session options: %w", err)
	}
	defer so.Destroy()

	cuda, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: CUDA provider: %w", err)
	}
	defer cuda.Destroy()
	if err := cuda.Update(cudaOptions(opts.Device)); err != nil {
		return nil, fmt.Errorf("onnx: CUDA provider options: %w", err)
	}
	if err := so.AppendExecutionProviderCUDA(cuda); err != nil {
		return nil, fmt.Errorf("onnx: CUDA provider: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(file,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, so)
	if err != nil {
		return nil, fmt.Errorf("onnx: create session: %w", err)
	}
	slogger().Debug("onnx: session created", "model", file, "device", opts.Device, "half", half)
	return &net{session: session, half: half, pad: opts.Prepadding}, nil
}

func (n *net) Forward(_ context.Context, in backend.Image, b backend.Border, out backend.Image) error {
	if n.closed.Load() {
		return backend.ErrClosed
	}
	padded := padTile(in, b, n.pad)
	shape := ort.NewShape(1, backend.Channels, int64(padded.Height), int64(padded.Width))

	var input ort.Value
	var err error
	if n.half {
		input, err = ort.NewCustomDataTensor(shape, toHalf(padded.Data), ort.TensorElementDataTypeFloat16)
	} else {
		input, err = ort.NewTensor(shape, padded.Data)
	}
	if err != nil {
		return fmt.Errorf("onnx: input tensor: %w", err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := n.session.Run([]ort.Value{input}, outputs); err != nil {
		return fmt.Errorf("onnx: run: %w", err)
	}
	defer outputs[0].Destroy()

	shapeOut := outputs[0].GetShape()
	if len(shapeOut) != 4 {
		return fmt.Errorf("onnx: output shape %v, want NCHW", shapeOut)
	}
	sh, sw := int(shapeOut[2]), int(shapeOut[3])

	switch t := outputs[0].(type) {
	case *ort.Tensor[float32]:
		return cropInto(t.GetData(), sw, sh, out)
	case *ort.CustomDataTensor:
		return cropInto(fromHalf(t.GetData()), sw, sh, out)
	default:
		return fmt.Errorf("onnx: unsupported output type %T", outputs[0])
	}
}

func (n *net) Close() error {
	if n.closed.Swap(true) {
		return backend.ErrClosed
	}
	return n.session.Destroy()
}
