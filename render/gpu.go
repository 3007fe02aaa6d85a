//go:build !nogpu

// Copyright 2026 The glowstack Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/glowstack/herofx"
)

//go:embed shaders/bloom.wgsl
var bloomShaderWGSL string

// bloomParamsSize is the byte size of the bright-pass uniform buffer:
// width (u32) + height (u32) + threshold (f32) + padding (f32).
const bloomParamsSize = 16

// gpuBloom runs the bloom bright-pass extraction on a wgpu/hal compute
// pipeline. The gaussian blur and composite stay on the CPU; the bright
// pass is the stage that touches every pixel with per-pixel math and
// benefits most from moving off the CPU first.
type gpuBloom struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	externalDevice bool
}

// newGPUBloom sets up the bright-pass pipeline. When the handle exposes HAL
// device access (HalDevice/HalQueue), the shared device is used and never
// destroyed here; otherwise a private Vulkan device is opened.
func newGPUBloom(handle DeviceHandle) (*gpuBloom, error) {
	g := &gpuBloom{}

	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if hp, ok := handle.(halProvider); ok {
		device, dok := hp.HalDevice().(hal.Device)
		queue, qok := hp.HalQueue().(hal.Queue)
		if dok && qok && device != nil && queue != nil {
			g.device = device
			g.queue = queue
			g.externalDevice = true
		}
	}
	if g.device == nil {
		if err := g.openDevice(); err != nil {
			return nil, err
		}
	}

	if err := g.createPipeline(); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

func (g *gpuBloom) openDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	g.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	g.device = openDev.Device
	g.queue = openDev.Queue
	herofx.Logger().Debug("render: GPU bloom device opened", "adapter", selected.Info.Name)
	return nil
}

func (g *gpuBloom) createPipeline() error {
	// naga compiles WGSL to SPIR-V words for the Vulkan backend.
	spirvBytes, err := naga.Compile(bloomShaderWGSL)
	if err != nil {
		return fmt.Errorf("compile bloom shader: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shader, err := g.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "bloom_bright",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	g.shader = shader

	bindLayout, err := g.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "bloom_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	g.bindLayout = bindLayout

	pipeLayout, err := g.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "bloom_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{g.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	g.pipeLayout = pipeLayout

	pipeline, err := g.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "bloom_pipeline", Layout: g.pipeLayout,
		Compute: hal.ComputeState{Module: g.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	g.pipeline = pipeline
	return nil
}

// BrightPass extracts pixels above the luma threshold from src into dst.
// One submit and one fence wait per call.
func (g *gpuBloom) BrightPass(src, dst *herofx.Pixmap, threshold float64) error {
	w, h := uint32(src.Width()), uint32(src.Height()) //nolint:gosec // dimensions always fit uint32
	bufSize := uint64(w * h * 4)
	packed := packPixels(src.Data(), int(w*h))

	params := make([]byte, bloomParamsSize)
	binary.LittleEndian.PutUint32(params[0:], w)
	binary.LittleEndian.PutUint32(params[4:], h)
	binary.LittleEndian.PutUint32(params[8:], floatBits(float32(threshold)))

	paramsBuf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "bloom_params", Size: bloomParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	defer g.device.DestroyBuffer(paramsBuf)

	srcBuf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "bloom_src", Size: bufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create source buffer: %w", err)
	}
	defer g.device.DestroyBuffer(srcBuf)

	dstBuf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "bloom_dst", Size: bufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create dest buffer: %w", err)
	}
	defer g.device.DestroyBuffer(dstBuf)

	stagingBuf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "bloom_staging", Size: bufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer g.device.DestroyBuffer(stagingBuf)

	g.queue.WriteBuffer(paramsBuf, 0, params)
	g.queue.WriteBuffer(srcBuf, 0, packed)

	bg, err := g.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "bloom_bind", Layout: g.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: bloomParamsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: srcBuf.NativeHandle(), Offset: 0, Size: bufSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: dstBuf.NativeHandle(), Offset: 0, Size: bufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer g.device.DestroyBindGroup(bg)

	encoder, err := g.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "bloom_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("bloom"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "bloom_pass"})
	pass.SetPipeline(g.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch((w+7)/8, (h+7)/8, 1)
	pass.End()

	encoder.CopyBufferToBuffer(dstBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: bufSize},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer g.device.FreeCommandBuffer(cmdBuf)

	fence, err := g.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer g.device.DestroyFence(fence)
	if err := g.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := g.device.Wait(fence, 1, 5*time.Second)
	if err != nil {
		return fmt.Errorf("fence wait: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("fence wait timed out")
	}

	readback := make([]byte, bufSize)
	if err := g.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("read staging buffer: %w", err)
	}
	unpackPixels(readback, dst.Data())
	return nil
}

// Close releases pipeline objects and, for privately opened devices, the
// device and instance. Safe to call more than once.
func (g *gpuBloom) Close() {
	if g.device != nil {
		if g.pipeline != nil {
			g.device.DestroyComputePipeline(g.pipeline)
			g.pipeline = nil
		}
		if g.pipeLayout != nil {
			g.device.DestroyPipelineLayout(g.pipeLayout)
			g.pipeLayout = nil
		}
		if g.bindLayout != nil {
			g.device.DestroyBindGroupLayout(g.bindLayout)
			g.bindLayout = nil
		}
		if g.shader != nil {
			g.device.DestroyShaderModule(g.shader)
			g.shader = nil
		}
	}
	if !g.externalDevice {
		if g.device != nil {
			g.device.Destroy()
		}
		if g.instance != nil {
			g.instance.Destroy()
		}
	}
	g.device = nil
	g.queue = nil
	g.instance = nil
}

// packPixels converts RGBA8 bytes to little-endian packed u32 words for the
// storage buffer.
func packPixels(data []uint8, pixelCount int) []byte {
	out := make([]byte, pixelCount*4)
	for i := 0; i < pixelCount; i++ {
		src := i * 4
		packed := uint32(data[src]) | uint32(data[src+1])<<8 | uint32(data[src+2])<<16 | uint32(data[src+3])<<24
		binary.LittleEndian.PutUint32(out[i*4:], packed)
	}
	return out
}

// unpackPixels reverses packPixels into an RGBA8 byte slice.
func unpackPixels(packed []byte, data []uint8) {
	n := len(data) / 4
	for i := 0; i < n; i++ {
		word := binary.LittleEndian.Uint32(packed[i*4:])
		dst := i * 4
		data[dst] = uint8(word)
		data[dst+1] = uint8(word >> 8)
		data[dst+2] = uint8(word >> 16)
		data[dst+3] = uint8(word >> 24)
	}
}

func floatBits(f float32) uint32 {
	return math.Float32bits(f)
}
