package herofx

// Tier is a discrete visual fidelity level. Tiers are totally ordered by
// resource cost: TierLow < TierMedium < TierHigh.
type Tier int

const (
	// TierLow disables all optional effects and halves the frame budget.
	TierLow Tier = iota

	// TierMedium reduces particle density but keeps bloom.
	TierMedium

	// TierHigh is full fidelity.
	TierHigh
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "invalid"
	}
}

// Valid reports whether t is one of the three defined tiers.
func (t Tier) Valid() bool {
	return t >= TierLow && t <= TierHigh
}

// FidelityConfig is the rendering budget derived from a tier. It is a pure
// function of the tier (see Config) and is treated as an immutable snapshot:
// consumers receive it by value and never mutate it.
type FidelityConfig struct {
	// Tier is the tier this config was derived from.
	Tier Tier

	// ParticleCount is the base particle budget for the particle field.
	ParticleCount int

	// ParticleMultiplier scales a caller-supplied base count
	// (effective count = round(base × multiplier)).
	ParticleMultiplier float64

	// BloomEnabled gates the bloom post-effect.
	BloomEnabled bool

	// BloomIntensity scales the bloom contribution. Zero at TierLow.
	BloomIntensity float64

	// DepthOfFieldEnabled gates the depth-of-field post-effect.
	// No tier currently enables it; the flag exists for config symmetry.
	DepthOfFieldEnabled bool

	// PostProcessingEnabled is the master gate: when false, neither bloom
	// nor depth-of-field runs regardless of their individual flags.
	PostProcessingEnabled bool

	// MaxFrameRate is the scheduling ceiling in frames per second.
	MaxFrameRate int
}

// Config returns the fidelity configuration for a tier.
//
// For any two tiers A > B, ParticleCount(A) > ParticleCount(B) and
// ParticleMultiplier(A) > ParticleMultiplier(B). TierLow always has every
// optional effect disabled and zero bloom intensity. Invalid tiers are
// clamped to TierLow.
func Config(t Tier) FidelityConfig {
	switch t {
	case TierHigh:
		return FidelityConfig{
			Tier:                  TierHigh,
			ParticleCount:         2000,
			ParticleMultiplier:    1.0,
			BloomEnabled:          true,
			BloomIntensity:        1.5,
			DepthOfFieldEnabled:   false,
			PostProcessingEnabled: true,
			MaxFrameRate:          60,
		}
	case TierMedium:
		return FidelityConfig{
			Tier:                  TierMedium,
			ParticleCount:         1200,
			ParticleMultiplier:    0.6,
			BloomEnabled:          true,
			BloomIntensity:        0.8,
			DepthOfFieldEnabled:   false,
			PostProcessingEnabled: true,
			MaxFrameRate:          60,
		}
	default:
		return FidelityConfig{
			Tier:                  TierLow,
			ParticleCount:         500,
			ParticleMultiplier:    0.25,
			BloomEnabled:          false,
			BloomIntensity:        0,
			DepthOfFieldEnabled:   false,
			PostProcessingEnabled: false,
			MaxFrameRate:          30,
		}
	}
}
