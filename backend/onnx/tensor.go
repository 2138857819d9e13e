// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package onnx

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/x448/float16"

	"github.com/gogpu/upscale/backend"
)

// Format is the model layout of this provider.
var Format = backend.ModelFormat{Extensions: []string{".onnx"}}

// padTile returns in extended so that every side carries pad context pixels.
// Sides with fewer than pad real pixels are filled by replicating the edge.
func padTile(in backend.Image, b backend.Border, pad int) backend.Image {
	miss := b.Missing(pad)
	if miss == (backend.Border{}) {
		return in
	}
	w := in.Width + miss.Left + miss.Right
	h := in.Height + miss.Top + miss.Bottom
	out := backend.NewImage(w, h)
	for c := range backend.Channels {
		for y := range h {
			sy := min(max(y-miss.Top, 0), in.Height-1)
			for x := range w {
				sx := min(max(x-miss.Left, 0), in.Width-1)
				out.Set(c, x, y, in.At(c, sx, sy))
			}
		}
	}
	return out
}

// cropInto copies the centre of a planar sw×sh result into out, clamping
// samples to [0, 1].
func cropInto(src []float32, sw, sh int, out backend.Image) error {
	if len(src) < backend.Channels*sw*sh {
		return fmt.Errorf("onnx: output has %d samples, want %d", len(src), backend.Channels*sw*sh)
	}
	if sw < out.Width || sh < out.Height {
		return fmt.Errorf("onnx: output %dx%d smaller than tile %dx%d", sw, sh, out.Width, out.Height)
	}
	ox := (sw - out.Width) / 2
	oy := (sh - out.Height) / 2
	for c := range backend.Channels {
		plane := src[c*sw*sh : (c+1)*sw*sh]
		for y := range out.Height {
			row := plane[(oy+y)*sw+ox:]
			for x := range out.Width {
				out.Set(c, x, y, min(max(row[x], 0), 1))
			}
		}
	}
	return nil
}

// toHalf encodes samples as little-endian IEEE 754 binary16.
func toHalf(src []float32) []byte {
	buf := make([]byte, 2*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint16(buf[2*i:], float16.Fromfloat32(v).Bits())
	}
	return buf
}

// fromHalf decodes little-endian binary16 samples.
func fromHalf(buf []byte) []float32 {
	out := make([]float32, len(buf)/2)
	for i := range out {
		out[i] = float16.Frombits(binary.LittleEndian.Uint16(buf[2*i:])).Float32()
	}
	return out
}

// cudaOptions returns the CUDA execution provider settings for device.
func cudaOptions(device int) map[string]string {
	return map[string]string{
		"device_id":              strconv.Itoa(device),
		"cudnn_conv_algo_search": "HEURISTIC",
	}
}
