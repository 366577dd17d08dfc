// Package dist provides the random variate samplers used by the emergency
// department model. Samplers are stateless values: every draw takes the
// caller's random stream, so reproducibility is owned by the replication's
// PartitionedRNG rather than by the sampler.
package dist

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler produces non-negative durations in logical minutes.
type Sampler interface {
	// Sample draws one value from src.
	Sample(src rand.Source) float64
	// Mean returns the expected value of a draw.
	Mean() float64
}

// Exponential samples exponentially distributed durations by inverse CDF.
type Exponential struct {
	mean float64
}

// NewExponential creates an exponential sampler with the given mean.
func NewExponential(mean float64) (Exponential, error) {
	if err := validateFinitePositive("exponential mean", mean); err != nil {
		return Exponential{}, err
	}
	return Exponential{mean: mean}, nil
}

func (e Exponential) Sample(src rand.Source) float64 {
	return distuv.Exponential{Rate: 1 / e.mean}.Quantile(unitUniform(src))
}

func (e Exponential) Mean() float64 { return e.mean }

// Lognormal samples a lognormal variable parameterized by the mean and
// standard deviation of the variable itself, not of its logarithm.
type Lognormal struct {
	mean, stdDev float64
	mu, sigma    float64
}

// NewLognormal derives the underlying normal parameters in closed form:
//
//	φ = sqrt(s² + m²),  μ = ln(m²/φ),  σ = sqrt(ln(φ²/m²))
//
// A non-positive mean has no lognormal counterpart and is rejected here so the
// fault surfaces at configuration time rather than at the first draw.
func NewLognormal(mean, stdDev float64) (Lognormal, error) {
	if err := validateFinitePositive("lognormal mean", mean); err != nil {
		return Lognormal{}, err
	}
	if math.IsNaN(stdDev) || math.IsInf(stdDev, 0) || stdDev < 0 {
		return Lognormal{}, fmt.Errorf("lognormal stdev must be a finite non-negative number, got %f", stdDev)
	}
	mu, sigma := NormalMomentsFromLognormal(mean, stdDev*stdDev)
	return Lognormal{mean: mean, stdDev: stdDev, mu: mu, sigma: sigma}, nil
}

// NormalMomentsFromLognormal returns μ and σ of the normal distribution
// underlying a lognormal with mean m and variance v. m must be positive.
func NormalMomentsFromLognormal(m, v float64) (mu, sigma float64) {
	phi := math.Sqrt(v + m*m)
	mu = math.Log(m * m / phi)
	sigma = math.Sqrt(math.Log(phi * phi / (m * m)))
	return mu, sigma
}

// Sample draws by inverse CDF, so each draw consumes exactly one value of src.
func (l Lognormal) Sample(src rand.Source) float64 {
	return l.Dist(nil).Quantile(unitUniform(src))
}

func (l Lognormal) Mean() float64 { return l.mean }

// StdDev returns the target standard deviation.
func (l Lognormal) StdDev() float64 { return l.stdDev }

// Mu returns the mean of the underlying normal distribution.
func (l Lognormal) Mu() float64 { return l.mu }

// Sigma returns the standard deviation of the underlying normal distribution.
func (l Lognormal) Sigma() float64 { return l.sigma }

// Dist returns the gonum distribution drawing from src.
func (l Lognormal) Dist(src rand.Source) distuv.LogNormal {
	return distuv.LogNormal{Mu: l.mu, Sigma: l.sigma, Src: src}
}

// Constant always returns the same duration.
type Constant struct {
	Value float64
}

func (c Constant) Sample(_ rand.Source) float64 { return c.Value }

func (c Constant) Mean() float64 { return c.Value }

// Bernoulli is a weighted coin.
type Bernoulli struct {
	p float64
}

// NewBernoulli creates a coin that lands true with probability p.
func NewBernoulli(p float64) (Bernoulli, error) {
	if err := ValidateProbability("probability", p); err != nil {
		return Bernoulli{}, err
	}
	return Bernoulli{p: p}, nil
}

// Draw flips the coin once.
func (b Bernoulli) Draw(src rand.Source) bool {
	return unitUniform(src) < b.p
}

// P returns the probability of true.
func (b Bernoulli) P() float64 { return b.p }

// ValidateProbability checks that p is a finite number in [0, 1].
func ValidateProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%s must be in [0, 1], got %f", name, p)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}

// unitUniform draws from the open interval (0, 1) straight off src, with the
// 53-bit resolution of rand.Rand.Float64 and without wrapping src per draw.
func unitUniform(src rand.Source) float64 {
	return (float64(src.Uint64()>>11) + 0.5) / (1 << 53)
}
