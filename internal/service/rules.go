package service

import "talentscope/internal/model"

// typeTable maps the (extraversion >= 50, logical >= 50) split to a type
// code. Any combination missing from the table falls back to defaultType.
var typeTable = map[[2]bool]string{
	{true, true}:   model.TypeDriver,
	{true, false}:  model.TypeExpressive,
	{false, true}:  model.TypeAnalytical,
	{false, false}: model.TypeAmiable,
}

const defaultType = model.TypeAmiable

// Feature-label thresholds
const (
	labelHighThreshold = 70.0
	labelLowThreshold  = 30.0
	maxFeatureLabels   = 5
)

// labelRule emits a label when a dimension crosses a threshold. Rules are
// evaluated in priority order; the first five matches win.
type labelRule struct {
	dimension string
	vector    string // "bigFive" or "thinkingPattern"
	highLabel string
	lowLabel  string
}

var labelRules = []labelRule{
	{model.DimExtraversion, "bigFive", "Outgoing", "Reserved"},
	{model.DimConscientiousness, "bigFive", "Disciplined", "Spontaneous"},
	{model.DimOpenness, "bigFive", "Inventive", ""},
	{model.DimAgreeableness, "bigFive", "Supportive", ""},
	{model.DimNeuroticism, "bigFive", "Sensitive", "Composed"},
	{model.DimLogical, "thinkingPattern", "Systematic", ""},
	{model.DimCreative, "thinkingPattern", "Imaginative", ""},
}

// behaviorRule derives one behavior dimension from two source dimensions.
type behaviorRule struct {
	dimension string
	sourceA   string
	sourceB   string
}

var behaviorRules = []behaviorRule{
	{model.DimEfficiency, model.DimConscientiousness, model.DimLogical},
	{model.DimCooperation, model.DimAgreeableness, model.DimExtraversion},
	{model.DimInitiative, model.DimExtraversion, model.DimIntuitive},
	{model.DimPrecision, model.DimConscientiousness, model.DimAnalytical},
	{model.DimFlexibility, model.DimOpenness, model.DimCreative},
}

// Stress tolerance thresholds over (100 - neuroticism)
const (
	stressHighThreshold   = 70.0
	stressMediumThreshold = 40.0
)

// Reliability heuristics
const (
	straightLineRunThreshold = 10
	extremityFraction        = 0.7
	lowVarianceStdDev        = 0.5
)

// jobWeightTable scores one job type from weighted dimensions. A negative
// weight is an inverted contribution: (100 - value) * |weight|.
type jobWeightTable struct {
	jobType string
	weights map[string]float64
}

var jobWeightTables = []jobWeightTable{
	{
		jobType: "SALES",
		weights: map[string]float64{
			model.DimExtraversion:  2,
			model.DimAgreeableness: 1,
			model.DimIntuitive:     1,
			model.DimNeuroticism:   -1,
		},
	},
	{
		jobType: "ENGINEERING",
		weights: map[string]float64{
			model.DimConscientiousness: 2,
			model.DimLogical:           2,
			model.DimAnalytical:        1,
			model.DimOpenness:          1,
		},
	},
	{
		jobType: "MANAGEMENT",
		weights: map[string]float64{
			model.DimExtraversion:      1.5,
			model.DimConscientiousness: 1.5,
			model.DimAgreeableness:     1,
			model.DimLogical:           1,
			model.DimNeuroticism:       -1,
		},
	},
	{
		jobType: "PLANNING",
		weights: map[string]float64{
			model.DimConscientiousness: 2,
			model.DimAnalytical:        2,
			model.DimOpenness:          1,
		},
	},
	{
		jobType: "SUPPORT",
		weights: map[string]float64{
			model.DimAgreeableness:     2,
			model.DimConscientiousness: 1,
			model.DimNeuroticism:       -1,
		},
	},
}

// Potential score grade thresholds
const (
	gradeAThreshold = 75.0
	gradeBThreshold = 60.0
	gradeCThreshold = 45.0
)

func gradeForScore(score float64) model.JobGrade {
	switch {
	case score >= gradeAThreshold:
		return model.GradeA
	case score >= gradeBThreshold:
		return model.GradeB
	case score >= gradeCThreshold:
		return model.GradeC
	default:
		return model.GradeD
	}
}
