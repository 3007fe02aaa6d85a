//go:build nogpu

// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/glowstack/herofx"
)

// gpuBloom is a stub for nogpu builds; bloom always runs on the CPU.
type gpuBloom struct{}

func newGPUBloom(DeviceHandle) (*gpuBloom, error) {
	return nil, errors.New("render: built without GPU support")
}

func (*gpuBloom) BrightPass(src, dst *herofx.Pixmap, threshold float64) error {
	return errors.New("render: built without GPU support")
}

func (*gpuBloom) Close() {}
