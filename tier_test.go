package herofx

import "testing"

func TestTierString(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierLow, "low"},
		{TierMedium, "medium"},
		{TierHigh, "high"},
		{Tier(42), "invalid"},
		{Tier(-1), "invalid"},
	}
	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestTierValid(t *testing.T) {
	for _, tier := range []Tier{TierLow, TierMedium, TierHigh} {
		if !tier.Valid() {
			t.Errorf("%v.Valid() = false, want true", tier)
		}
	}
	for _, tier := range []Tier{Tier(-1), Tier(3), Tier(99)} {
		if tier.Valid() {
			t.Errorf("Tier(%d).Valid() = true, want false", tier)
		}
	}
}

func TestConfigMonotonicInTier(t *testing.T) {
	low := Config(TierLow)
	med := Config(TierMedium)
	high := Config(TierHigh)

	if !(high.ParticleCount > med.ParticleCount && med.ParticleCount > low.ParticleCount) {
		t.Errorf("particle counts not strictly increasing: %d, %d, %d",
			low.ParticleCount, med.ParticleCount, high.ParticleCount)
	}
	if !(high.ParticleMultiplier > med.ParticleMultiplier && med.ParticleMultiplier > low.ParticleMultiplier) {
		t.Errorf("particle multipliers not strictly increasing: %v, %v, %v",
			low.ParticleMultiplier, med.ParticleMultiplier, high.ParticleMultiplier)
	}
}

func TestConfigLowDisablesEffects(t *testing.T) {
	low := Config(TierLow)
	if low.BloomEnabled {
		t.Error("TierLow: BloomEnabled = true, want false")
	}
	if low.DepthOfFieldEnabled {
		t.Error("TierLow: DepthOfFieldEnabled = true, want false")
	}
	if low.PostProcessingEnabled {
		t.Error("TierLow: PostProcessingEnabled = true, want false")
	}
	if low.BloomIntensity != 0 {
		t.Errorf("TierLow: BloomIntensity = %v, want 0", low.BloomIntensity)
	}
}

func TestConfigDepthOfFieldNeverEnabled(t *testing.T) {
	// Depth-of-field stays off at every tier; only the master post-processing
	// gate and bloom vary.
	for _, tier := range []Tier{TierLow, TierMedium, TierHigh} {
		if Config(tier).DepthOfFieldEnabled {
			t.Errorf("%v: DepthOfFieldEnabled = true, want false", tier)
		}
	}
}

func TestConfigInvalidTierClampsToLow(t *testing.T) {
	got := Config(Tier(99))
	if got.Tier != TierLow {
		t.Errorf("Config(99).Tier = %v, want TierLow", got.Tier)
	}
}

func TestConfigSnapshotIndependence(t *testing.T) {
	a := Config(TierHigh)
	b := Config(TierHigh)
	a.ParticleCount = 1
	if b.ParticleCount == 1 {
		t.Error("mutating one config snapshot affected another")
	}
}
