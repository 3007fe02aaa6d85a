package governor

import (
	"testing"
	"time"

	"github.com/glowstack/herofx"
)

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// feedWindow drives exactly one one-second sample window at the given frame
// rate and returns the time of the last frame. The governor must already
// have received at least one Frame call (to anchor the window).
func feedWindow(g *Governor, start time.Time, fps int) time.Time {
	step := time.Second / time.Duration(fps)
	t := start
	for i := 0; i < fps; i++ {
		t = t.Add(step)
		g.Frame(t)
	}
	return t
}

// feedWindows drives n consecutive sample windows at the given frame rate.
func feedWindows(g *Governor, n, fps int) {
	t := testEpoch
	g.Frame(t)
	for i := 0; i < n; i++ {
		t = feedWindow(g, t, fps)
	}
}

func TestInitialTier(t *testing.T) {
	tests := []struct {
		name          string
		width         int
		reducedMotion bool
		want          herofx.Tier
	}{
		{"narrow viewport", 320, false, herofx.TierMedium},
		{"just below mobile breakpoint", 767, false, herofx.TierMedium},
		{"mobile breakpoint", 768, false, herofx.TierMedium},
		{"just below tablet breakpoint", 1023, false, herofx.TierMedium},
		{"tablet breakpoint", 1024, false, herofx.TierHigh},
		{"wide desktop", 2560, false, herofx.TierHigh},
		{"reduced motion on desktop", 2560, true, herofx.TierLow},
		{"reduced motion on mobile", 320, true, herofx.TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.width, tt.reducedMotion)
			if got := g.Tier(); got != tt.want {
				t.Errorf("New(%d, %v).Tier() = %v, want %v",
					tt.width, tt.reducedMotion, got, tt.want)
			}
		})
	}
}

func TestInitialTierOverride(t *testing.T) {
	g := New(320, false, WithInitialTier(herofx.TierHigh))
	if got := g.Tier(); got != herofx.TierHigh {
		t.Errorf("override: Tier() = %v, want TierHigh", got)
	}

	// Reduced motion beats the override.
	g = New(2560, true, WithInitialTier(herofx.TierHigh))
	if got := g.Tier(); got != herofx.TierLow {
		t.Errorf("override with reduced motion: Tier() = %v, want TierLow", got)
	}
}

func TestSustainedUnderperformanceDowngradesOnce(t *testing.T) {
	g := New(1920, false) // TierHigh

	feedWindows(g, 5, 20)

	if got := g.Tier(); got != herofx.TierMedium {
		t.Fatalf("after 5 slow windows: Tier() = %v, want TierMedium", got)
	}
	if n := g.pendingSamples(); n != 0 {
		t.Errorf("sample window holds %d samples after downgrade, want 0", n)
	}
}

func TestDowngradeStopsAtLow(t *testing.T) {
	g := New(1920, false)

	feedWindows(g, 5, 20)
	if got := g.Tier(); got != herofx.TierMedium {
		t.Fatalf("after 5 windows: %v, want TierMedium", got)
	}

	g2 := New(1920, false)
	feedWindows(g2, 10, 20)
	if got := g2.Tier(); got != herofx.TierLow {
		t.Fatalf("after 10 windows: %v, want TierLow", got)
	}

	g3 := New(1920, false)
	feedWindows(g3, 15, 20)
	if got := g3.Tier(); got != herofx.TierLow {
		t.Errorf("after 15 windows: %v, want TierLow (no further downgrade)", got)
	}
}

func TestHealthyFrameRateKeepsTier(t *testing.T) {
	g := New(1920, false)
	feedWindows(g, 8, 60)
	if got := g.Tier(); got != herofx.TierHigh {
		t.Errorf("Tier() = %v after healthy windows, want TierHigh", got)
	}
}

func TestNoAutomaticUpgrade(t *testing.T) {
	g := New(1920, false)
	feedWindows(g, 5, 20)
	if got := g.Tier(); got != herofx.TierMedium {
		t.Fatalf("setup: %v, want TierMedium", got)
	}

	// Frame rate fully recovers; tier must not rise.
	t0 := testEpoch.Add(time.Hour)
	g.Frame(t0)
	for i := 0; i < 10; i++ {
		t0 = feedWindow(g, t0, 60)
	}
	if got := g.Tier(); got != herofx.TierMedium {
		t.Errorf("Tier() = %v after recovery, want TierMedium (no upgrade path)", got)
	}
}

func TestReducedMotionForcesLowImmediately(t *testing.T) {
	g := New(1920, false)

	// Partially filled window; the forced transition must bypass it.
	feedWindows(g, 2, 20)
	g.SetReducedMotion(true)

	if got := g.Tier(); got != herofx.TierLow {
		t.Errorf("Tier() = %v after reduced motion, want TierLow", got)
	}
	if n := g.pendingSamples(); n != 0 {
		t.Errorf("sample window holds %d samples after forced transition, want 0", n)
	}

	// Turning the preference back off must not restore the tier.
	g.SetReducedMotion(false)
	if got := g.Tier(); got != herofx.TierLow {
		t.Errorf("Tier() = %v after preference cleared, want TierLow", got)
	}
}

func TestResizeUpdatesClassificationOnly(t *testing.T) {
	g := New(1920, false)

	g.SetViewportWidth(320)
	if got := g.Tier(); got != herofx.TierHigh {
		t.Errorf("Tier() = %v after resize, want TierHigh (resize never retiers)", got)
	}
	mobile, tablet, desktop := g.DeviceClass()
	if !mobile || tablet || desktop {
		t.Errorf("DeviceClass() = (%v, %v, %v), want (true, false, false)",
			mobile, tablet, desktop)
	}

	g.SetViewportWidth(800)
	mobile, tablet, desktop = g.DeviceClass()
	if mobile || !tablet || desktop {
		t.Errorf("DeviceClass() = (%v, %v, %v), want (false, true, false)",
			mobile, tablet, desktop)
	}
}

func TestForceTier(t *testing.T) {
	g := New(1920, false)

	g.ForceTier(herofx.TierLow)
	if got := g.Tier(); got != herofx.TierLow {
		t.Fatalf("ForceTier(TierLow): Tier() = %v", got)
	}

	// Invalid requests are ignored, last valid tier retained.
	g.ForceTier(herofx.Tier(99))
	g.ForceTier(herofx.Tier(-1))
	if got := g.Tier(); got != herofx.TierLow {
		t.Errorf("Tier() = %v after invalid ForceTier, want TierLow", got)
	}

	// Manual upgrade is allowed; automatic downgrades continue from there.
	g.ForceTier(herofx.TierHigh)
	feedWindows(g, 5, 20)
	if got := g.Tier(); got != herofx.TierMedium {
		t.Errorf("Tier() = %v after forced high + slow windows, want TierMedium", got)
	}
}

func TestClockBackwardsDiscardsSample(t *testing.T) {
	g := New(1920, false)
	g.Frame(testEpoch)
	g.Frame(testEpoch.Add(500 * time.Millisecond))
	g.Frame(testEpoch.Add(-time.Minute)) // must not panic or sample

	if n := g.pendingSamples(); n != 0 {
		t.Errorf("window holds %d samples after backwards clock, want 0", n)
	}
	if got := g.Tier(); got != herofx.TierHigh {
		t.Errorf("Tier() = %v, want TierHigh", got)
	}
}

func TestOnChangeNotification(t *testing.T) {
	g := New(1920, false)

	var gotTiers []herofx.Tier
	var gotCfg herofx.FidelityConfig
	g.OnChange(func(tier herofx.Tier, cfg herofx.FidelityConfig) {
		gotTiers = append(gotTiers, tier)
		gotCfg = cfg
	})

	feedWindows(g, 5, 20)

	if len(gotTiers) != 1 || gotTiers[0] != herofx.TierMedium {
		t.Fatalf("OnChange tiers = %v, want [TierMedium]", gotTiers)
	}
	if gotCfg.Tier != herofx.TierMedium {
		t.Errorf("OnChange config tier = %v, want TierMedium", gotCfg.Tier)
	}
}

func TestConfigTracksTier(t *testing.T) {
	g := New(1920, false)
	if cfg := g.Config(); !cfg.BloomEnabled {
		t.Error("TierHigh config: BloomEnabled = false, want true")
	}
	g.ForceTier(herofx.TierLow)
	if cfg := g.Config(); cfg.PostProcessingEnabled {
		t.Error("TierLow config: PostProcessingEnabled = true, want false")
	}
}
