package model

import "math"

// Big Five dimensions
const (
	DimExtraversion      = "extraversion"
	DimAgreeableness     = "agreeableness"
	DimConscientiousness = "conscientiousness"
	DimNeuroticism       = "neuroticism"
	DimOpenness          = "openness"
)

// Thinking pattern dimensions
const (
	DimLogical    = "logical"
	DimIntuitive  = "intuitive"
	DimAnalytical = "analytical"
	DimCreative   = "creative"
)

// Behavior pattern dimensions (derived, never answered directly)
const (
	DimEfficiency  = "efficiency"
	DimCooperation = "cooperation"
	DimInitiative  = "initiative"
	DimPrecision   = "precision"
	DimFlexibility = "flexibility"
)

// BigFiveDimensions lists the big-five dimensions in canonical order.
var BigFiveDimensions = []string{
	DimExtraversion,
	DimAgreeableness,
	DimConscientiousness,
	DimNeuroticism,
	DimOpenness,
}

// ThinkingDimensions lists the thinking-pattern dimensions in canonical order.
var ThinkingDimensions = []string{
	DimLogical,
	DimIntuitive,
	DimAnalytical,
	DimCreative,
}

// BehaviorDimensions lists the behavior-pattern dimensions in canonical order.
var BehaviorDimensions = []string{
	DimEfficiency,
	DimCooperation,
	DimInitiative,
	DimPrecision,
	DimFlexibility,
}

// DimensionDisplayNames maps internal dimension keys to report-facing names.
var DimensionDisplayNames = map[string]string{
	DimExtraversion:      "Extraversion",
	DimAgreeableness:     "Agreeableness",
	DimConscientiousness: "Conscientiousness",
	DimNeuroticism:       "Emotional Reactivity",
	DimOpenness:          "Openness",
	DimLogical:           "Logical Thinking",
	DimIntuitive:         "Intuitive Thinking",
	DimAnalytical:        "Analytical Thinking",
	DimCreative:          "Creative Thinking",
	DimEfficiency:        "Efficiency",
	DimCooperation:       "Cooperation",
	DimInitiative:        "Initiative",
	DimPrecision:         "Precision",
	DimFlexibility:       "Flexibility",
}

// TraitVector maps dimension names to scores in [0,100].
type TraitVector map[string]float64

// Get returns the value for a dimension, defaulting to the neutral midpoint
// when the dimension is absent.
func (v TraitVector) Get(dim string) float64 {
	if val, ok := v[dim]; ok {
		return val
	}
	return 50
}

// Clone returns a deep copy of the vector.
func (v TraitVector) Clone() TraitVector {
	out := make(TraitVector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// SharedDimensions returns the dimensions present in both vectors, in
// canonical order.
func (v TraitVector) SharedDimensions(other TraitVector) []string {
	all := make([]string, 0, len(BigFiveDimensions)+len(ThinkingDimensions)+len(BehaviorDimensions))
	all = append(all, BigFiveDimensions...)
	all = append(all, ThinkingDimensions...)
	all = append(all, BehaviorDimensions...)

	var dims []string
	for _, d := range all {
		if _, ok := v[d]; !ok {
			continue
		}
		if _, ok := other[d]; ok {
			dims = append(dims, d)
		}
	}
	return dims
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
