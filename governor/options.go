package governor

import "github.com/glowstack/herofx"

// Option configures a Governor during creation.
type Option func(*options)

// options holds optional configuration for Governor creation.
type options struct {
	fpsThreshold     float64
	sampleWindowSize int
	mobileBreakpoint int
	tabletBreakpoint int
	initialTier      *herofx.Tier
}

// defaultOptions returns the default governor options.
func defaultOptions() options {
	return options{
		fpsThreshold:     30,
		sampleWindowSize: 5,
		mobileBreakpoint: 768,
		tabletBreakpoint: 1024,
	}
}

// WithFPSThreshold sets the mean frame rate below which a full sample
// window triggers a tier downgrade. Default 30.
func WithFPSThreshold(fps float64) Option {
	return func(o *options) {
		if fps > 0 {
			o.fpsThreshold = fps
		}
	}
}

// WithSampleWindowSize sets how many one-second samples must accumulate
// before a downgrade decision is made. Default 5.
func WithSampleWindowSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sampleWindowSize = n
		}
	}
}

// WithMobileBreakpoint sets the viewport width below which the device is
// classified as mobile. Default 768.
func WithMobileBreakpoint(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.mobileBreakpoint = px
		}
	}
}

// WithTabletBreakpoint sets the viewport width below which the device is
// classified as tablet (and at or above which, desktop). Default 1024.
func WithTabletBreakpoint(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.tabletBreakpoint = px
		}
	}
}

// WithInitialTier overrides the viewport-derived initial tier.
// A reduced-motion preference still forces TierLow. Invalid tiers are ignored.
func WithInitialTier(t herofx.Tier) Option {
	return func(o *options) {
		if t.Valid() {
			o.initialTier = &t
		}
	}
}
