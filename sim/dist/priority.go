package dist

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// PriorityLevels is the number of triage priorities; 1 is the most urgent.
const PriorityLevels = 5

// DefaultPriorityWeights is the triage priority mix for priorities 1..5.
// Most patients are moderately urgent.
var DefaultPriorityWeights = []float64{0.1, 0.2, 0.4, 0.2, 0.1}

// weightSumTolerance bounds the rounding error accepted in a weight vector.
const weightSumTolerance = 1e-9

// PriorityDistribution is a categorical distribution over priorities
// 1..PriorityLevels; weights[i] is the probability of priority i+1.
type PriorityDistribution struct {
	weights    []float64
	cumulative []float64
	// lastLevel is the highest index with positive weight; draws landing in
	// the rounding slack above the cumulative total fall back to it.
	lastLevel int
}

// NewPriorityDistribution validates weights and copies them.
// Weights must be non-negative and sum to 1, one per priority level.
func NewPriorityDistribution(weights []float64) (PriorityDistribution, error) {
	if err := ValidateWeights(weights); err != nil {
		return PriorityDistribution{}, err
	}
	d := PriorityDistribution{
		weights:    append([]float64(nil), weights...),
		cumulative: floats.CumSum(make([]float64, len(weights)), weights),
	}
	for i, w := range weights {
		if w > 0 {
			d.lastLevel = i
		}
	}
	return d, nil
}

// ValidateWeights checks a categorical weight vector over the priority levels.
func ValidateWeights(weights []float64) error {
	if len(weights) != PriorityLevels {
		return fmt.Errorf("priority weights must have %d entries, got %d", PriorityLevels, len(weights))
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("priority weight[%d] must be a finite non-negative number, got %f", i, w)
		}
	}
	if sum := floats.Sum(weights); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("priority weights must sum to 1, got %f", sum)
	}
	return nil
}

// Levels returns the number of priority levels.
func (d PriorityDistribution) Levels() int { return len(d.weights) }

// Prob returns the probability of the given priority.
func (d PriorityDistribution) Prob(priority int) float64 {
	if priority < 1 || priority > len(d.weights) {
		return 0
	}
	return d.weights[priority-1]
}

// Sample draws a priority in 1..Levels(). A zero-weight level is never drawn.
func (d PriorityDistribution) Sample(src rand.Source) int {
	u := unitUniform(src)
	i := sort.Search(len(d.cumulative), func(i int) bool { return d.cumulative[i] > u })
	if i > d.lastLevel {
		i = d.lastLevel
	}
	return i + 1
}
