package filters

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/Fepozopo/photofix/pkg/raster"
)

// NoiseKind selects the distribution used by AddNoise.
type NoiseKind string

const (
	NoiseGaussian      NoiseKind = "gaussian"
	NoiseUniform       NoiseKind = "uniform"
	NoisePoisson       NoiseKind = "poisson"
	NoiseSaltAndPepper NoiseKind = "saltpepper"
)

// ParseNoiseKind accepts the kind names case-insensitively.
func ParseNoiseKind(s string) (NoiseKind, error) {
	switch k := NoiseKind(strings.ToLower(s)); k {
	case NoiseGaussian, NoiseUniform, NoisePoisson, NoiseSaltAndPepper:
		return k, nil
	}
	return "", fmt.Errorf("%w: noise kind %q", raster.ErrInvalidParameter, s)
}

// AddNoise perturbs the color channels of b. amount is the standard deviation
// for gaussian, the maximum deviation for uniform, the photon scale for
// poisson, and the fraction of pixels hit for salt-and-pepper. The same seed
// always produces the same output.
func AddNoise(b *raster.Buffer, kind NoiseKind, amount float64, seed int64) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: noise amount %v", raster.ErrInvalidParameter, amount)
	}
	if kind == NoiseSaltAndPepper && amount > 1 {
		return fmt.Errorf("%w: salt-and-pepper fraction %v", raster.ErrInvalidParameter, amount)
	}
	if _, err := ParseNoiseKind(string(kind)); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	var cdfs [][]float64
	if kind == NoisePoisson {
		cdfs = buildPoissonCDFs(amount)
	}
	cc := b.ColorChannels()
	for i := 0; i < len(b.Pix); i += b.C {
		px := b.Pix[i : i+cc]
		switch kind {
		case NoiseSaltAndPepper:
			if rng.Float64() < amount {
				v := uint8(0)
				if rng.Intn(2) == 1 {
					v = 255
				}
				for ch := range px {
					px[ch] = v
				}
			}
		case NoiseUniform:
			for ch := range px {
				px[ch] = raster.ClampUint8(float64(px[ch]) + (rng.Float64()*2-1)*amount)
			}
		case NoisePoisson:
			for ch := range px {
				k := sort.SearchFloat64s(cdfs[px[ch]], rng.Float64())
				px[ch] = raster.ClampUint8(float64(k) * 255 / amount)
			}
		default:
			for ch := range px {
				px[ch] = raster.ClampUint8(float64(px[ch]) + rng.NormFloat64()*amount)
			}
		}
	}
	return nil
}

// buildPoissonCDFs precomputes, for every 8-bit level v, the CDF of a Poisson
// distribution with lambda = v/255*amount.
func buildPoissonCDFs(amount float64) [][]float64 {
	cdfs := make([][]float64, 256)
	raster.ParallelRange(256, 16, func(start, end int) {
		for v := start; v < end; v++ {
			lambda := float64(v) / 255 * amount
			if lambda <= 0 {
				cdfs[v] = []float64{1}
				continue
			}
			upper := max(32, int(math.Ceil(lambda+10*math.Sqrt(lambda)+10)))
			cdf := make([]float64, 0, upper)
			p := math.Exp(-lambda)
			cum := p
			cdf = append(cdf, cum)
			for k := 1; cum < 1-1e-12 && k <= upper; k++ {
				p *= lambda / float64(k)
				cum = math.Min(cum+p, 1)
				cdf = append(cdf, cum)
			}
			cdfs[v] = cdf
		}
	})
	return cdfs
}
