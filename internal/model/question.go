package model

// QuestionCategory groups questions by the trait they measure
type QuestionCategory string

const (
	CategoryExtraversion      QuestionCategory = "EXTRAVERSION"
	CategoryAgreeableness     QuestionCategory = "AGREEABLENESS"
	CategoryConscientiousness QuestionCategory = "CONSCIENTIOUSNESS"
	CategoryNeuroticism       QuestionCategory = "NEUROTICISM"
	CategoryOpenness          QuestionCategory = "OPENNESS"
	CategoryThinking          QuestionCategory = "THINKING"
	CategoryBehavior          QuestionCategory = "BEHAVIOR"
)

// BigFiveCategories maps the five personality categories to their vector dimension.
var BigFiveCategories = map[QuestionCategory]string{
	CategoryExtraversion:      DimExtraversion,
	CategoryAgreeableness:     DimAgreeableness,
	CategoryConscientiousness: DimConscientiousness,
	CategoryNeuroticism:       DimNeuroticism,
	CategoryOpenness:          DimOpenness,
}

// Question is reference data; the engine never mutates it.
// THINKING questions declare which thinking sub-dimension they contribute to
// instead of relying on their position in the ordered list.
type Question struct {
	ID           string           `json:"id" bson:"_id,omitempty"`
	Text         string           `json:"text" bson:"text"`
	Category     QuestionCategory `json:"category" bson:"category"`
	SubDimension string           `json:"subDimension,omitempty" bson:"subDimension,omitempty"`
	OrderNumber  int              `json:"orderNumber" bson:"orderNumber"`
	Page         int              `json:"page" bson:"page"`
	IsReverse    bool             `json:"isReverse" bson:"isReverse"`
	IsActive     bool             `json:"isActive" bson:"isActive"`
}
