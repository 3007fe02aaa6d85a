// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNullDeviceHandle(t *testing.T) {
	var h DeviceHandle = NullDeviceHandle{}
	if h.Device() != nil {
		t.Error("null handle should expose no device")
	}
	if h.Queue() != nil {
		t.Error("null handle should expose no queue")
	}
	if h.Adapter() != nil {
		t.Error("null handle should expose no adapter")
	}
	if h.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Error("null handle surface format should be undefined")
	}
}
