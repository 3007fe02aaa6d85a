package scene

import (
	"math"
	"math/rand"

	"github.com/glowstack/herofx"
)

// brightChance is the fraction of particles promoted to size-doubled
// "bright stars".
const brightChance = 0.05

// Particle is one point of the background star field.
type Particle struct {
	Position   herofx.Vec3
	Size       float64
	Brightness float64
	Bright     bool
	Color      herofx.RGBA
}

// FieldConfig controls particle field generation.
type FieldConfig struct {
	// BaseCount is the particle budget before the fidelity multiplier.
	BaseCount int

	// Depth is the radial extent of the field beyond the inner shell.
	Depth float64

	// ColorA and ColorB are the palette endpoints; each particle's color is
	// an independent random mix of the two.
	ColorA herofx.RGBA
	ColorB herofx.RGBA

	// Seed makes generation reproducible. A given seed always produces the
	// same field.
	Seed int64
}

// DefaultFieldConfig returns the standard deep-blue star field.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		BaseCount: 2000,
		Depth:     50,
		ColorA:    herofx.Hex("#8ab4f8"),
		ColorB:    herofx.Hex("#f8e3a1"),
		Seed:      1,
	}
}

// GenerateField samples round(BaseCount × multiplier) particles on a
// randomized spherical shell. The radius is drawn from [5, Depth+5], so
// density falls off with distance from the camera, producing the depth
// illusion. About 5% of particles come out bright with doubled size.
func GenerateField(cfg FieldConfig, multiplier float64) []Particle {
	count := int(math.Round(float64(cfg.BaseCount) * multiplier))
	if count <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	particles := make([]Particle, count)
	for i := range particles {
		azimuth := rng.Float64() * 2 * math.Pi
		polar := rng.Float64() * math.Pi
		radius := 5 + rng.Float64()*cfg.Depth

		sinPolar := math.Sin(polar)
		pos := herofx.V3(
			radius*sinPolar*math.Cos(azimuth),
			radius*sinPolar*math.Sin(azimuth),
			radius*math.Cos(polar),
		)

		size := 0.5 + rng.Float64()
		brightness := 0.4 + rng.Float64()*0.4
		bright := rng.Float64() < brightChance
		if bright {
			size *= 2
			brightness = 1
		}

		particles[i] = Particle{
			Position:   pos,
			Size:       size,
			Brightness: brightness,
			Bright:     bright,
			Color:      cfg.ColorA.Lerp(cfg.ColorB, rng.Float64()),
		}
	}
	return particles
}
