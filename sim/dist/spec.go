package dist

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DistSpec parameterizes a service-time distribution in YAML:
//
//	type: lognormal
//	params: {mean: 10, stdev: 5}
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

var validDistTypes = map[string]bool{
	"lognormal": true, "exponential": true, "constant": true,
}

// LognormalSpec is shorthand for a lognormal DistSpec.
func LognormalSpec(mean, stdDev float64) DistSpec {
	return DistSpec{Type: "lognormal", Params: map[string]float64{"mean": mean, "stdev": stdDev}}
}

// ExponentialSpec is shorthand for an exponential DistSpec.
func ExponentialSpec(mean float64) DistSpec {
	return DistSpec{Type: "exponential", Params: map[string]float64{"mean": mean}}
}

// ConstantSpec is shorthand for a constant DistSpec.
func ConstantSpec(value float64) DistSpec {
	return DistSpec{Type: "constant", Params: map[string]float64{"value": value}}
}

func (s DistSpec) String() string {
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, s.Params[k]))
	}
	return fmt.Sprintf("%s(%s)", s.Type, strings.Join(parts, ", "))
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewSampler creates a Sampler from a DistSpec.
func NewSampler(spec DistSpec) (Sampler, error) {
	if !validDistTypes[spec.Type] {
		return nil, fmt.Errorf("unknown distribution type %q; valid: lognormal, exponential, constant", spec.Type)
	}
	for name, val := range spec.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("params.%s must be a finite number, got %f", name, val)
		}
	}
	switch spec.Type {
	case "lognormal":
		if err := requireParam(spec.Params, "mean", "stdev"); err != nil {
			return nil, err
		}
		return NewLognormal(spec.Params["mean"], spec.Params["stdev"])

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		return NewExponential(spec.Params["mean"])

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		v := spec.Params["value"]
		if v < 0 {
			return nil, fmt.Errorf("constant value must be non-negative, got %f", v)
		}
		return Constant{Value: v}, nil

	default:
		return nil, fmt.Errorf("unhandled distribution type %q", spec.Type)
	}
}
