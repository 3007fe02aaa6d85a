// Package probe detects whether the runtime can create an accelerated
// graphics surface, and at what API tier.
//
// Detection runs once per process: it creates a throwaway wgpu adapter and
// device, records adapter identity and limits, and releases everything
// immediately. Capability absence is an expected condition, not an error —
// headless hosts (CI machines, servers) deterministically report
// unsupported, and nothing in this package panics.
package probe

import (
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/glowstack/herofx"
)

// APIVersion is the accelerated surface API tier.
type APIVersion int

const (
	// APINone means no accelerated surface can be created.
	APINone APIVersion = iota

	// API1 means an adapter exists but a full device could not be opened.
	// Rendering may work with reduced features.
	API1

	// API2 means a full device and queue were created successfully.
	API2
)

// String returns the API tier name.
func (v APIVersion) String() string {
	switch v {
	case API1:
		return "v1"
	case API2:
		return "v2"
	default:
		return "none"
	}
}

// Result describes the detected rendering capability.
type Result struct {
	// Supported reports whether an accelerated surface can be created.
	Supported bool

	// API is the surface API tier (APINone when unsupported).
	API APIVersion

	// RendererName is the adapter name (e.g. "NVIDIA GeForce RTX 3080").
	RendererName string

	// VendorName is the adapter vendor.
	VendorName string

	// MaxTextureSize is the maximum 2D texture dimension, when known.
	MaxTextureSize int
}

// Prober is the low-level detection function. The default creates and
// immediately discards a wgpu adapter/device; tests inject fakes.
type Prober func() Result

// Option configures a Probe during creation.
type Option func(*Probe)

// WithProber replaces the detection function. Used by tests and by hosts
// that already know their capability.
func WithProber(p Prober) Option {
	return func(pr *Probe) {
		if p != nil {
			pr.prober = p
		}
	}
}

// Probe caches a single capability detection.
type Probe struct {
	once   sync.Once
	result Result
	prober Prober
}

// New creates a probe. Detection does not run until Detect is called.
func New(opts ...Option) *Probe {
	p := &Probe{prober: detectAccelerated}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Detect returns the capability result, computing it on the first call and
// returning the cached result afterwards. Detect never panics: any failure
// during surface creation reports Supported=false, API=APINone.
func (p *Probe) Detect() Result {
	p.once.Do(func() {
		p.result = p.prober()
	})
	return p.result
}

var defaultProbe = New()

// Detect runs the process-wide default probe.
func Detect() Result {
	return defaultProbe.Detect()
}

// detectAccelerated creates a throwaway instance, adapter and device to
// establish capability, releasing each immediately. All failure modes fold
// into an unsupported result.
func detectAccelerated() (result Result) {
	defer func() {
		if r := recover(); r != nil {
			herofx.Logger().Warn("probe: surface creation panicked", "panic", r)
			result = Result{}
		}
	}()

	instance := core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})
	if instance == nil {
		return Result{}
	}

	adapterID, err := instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		// No adapter at all: headless or unsupported platform.
		herofx.Logger().Info("probe: no adapter available", "err", err)
		return Result{}
	}
	defer func() {
		if err := core.AdapterDrop(adapterID); err != nil {
			herofx.Logger().Warn("probe: adapter release failed", "err", err)
		}
	}()

	result = Result{Supported: true, API: API1}
	if info, err := core.GetAdapterInfo(adapterID); err == nil {
		result.RendererName = info.Name
		result.VendorName = info.Vendor
	}

	deviceID, err := core.RequestDevice(adapterID, &gputypes.DeviceDescriptor{
		Label:          "herofx-probe",
		RequiredLimits: gputypes.DefaultLimits(),
	})
	if err != nil {
		// Adapter without an openable device: tier 1.
		herofx.Logger().Info("probe: device creation failed", "err", err)
		return result
	}
	defer func() {
		if err := core.DeviceDrop(deviceID); err != nil {
			herofx.Logger().Warn("probe: device release failed", "err", err)
		}
	}()

	if _, err := core.GetDeviceQueue(deviceID); err != nil {
		return result
	}
	result.API = API2

	if limits, err := core.GetDeviceLimits(deviceID); err == nil {
		result.MaxTextureSize = int(limits.MaxTextureDimension2D)
	}

	herofx.Logger().Info("probe: accelerated surface available",
		"renderer", result.RendererName,
		"vendor", result.VendorName,
		"api", result.API.String())
	return result
}
