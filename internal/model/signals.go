package model

import "time"

// SecondaryKind types a secondary diagnosis supplied from outside the engine
type SecondaryKind string

const (
	SecondaryStrengths SecondaryKind = "STRENGTHS"
	SecondaryValues    SecondaryKind = "VALUES"
)

// SecondaryDiagnosis is an externally supplied assessment (strengths finder,
// work-values survey) used as a brush-up signal. Read-only to the engine.
type SecondaryDiagnosis struct {
	ID        string             `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Kind      SecondaryKind      `json:"kind" bson:"kind"`
	Summary   string             `json:"summary" bson:"summary"`
	Scores    map[string]float64 `json:"scores,omitempty" bson:"scores,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// InterviewEvaluation is a structured interview write-up used as a brush-up
// signal. The pipeline consumes at most the 10 most recent per user.
type InterviewEvaluation struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	UserID      string         `json:"userId" bson:"userId"`
	Interviewer string         `json:"interviewer" bson:"interviewer"`
	Ratings     map[string]int `json:"ratings" bson:"ratings"`
	Comments    string         `json:"comments" bson:"comments"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
}

// MaxEvaluationSignals caps how many recent evaluations feed one brush-up.
const MaxEvaluationSignals = 10

// RequiredKind returns the secondary-diagnosis kind a typed trigger demands,
// or "" when the trigger has no kind requirement.
func (t TriggerType) RequiredKind() SecondaryKind {
	switch t {
	case TriggerStrengthsAdded:
		return SecondaryStrengths
	case TriggerValuesAdded:
		return SecondaryValues
	default:
		return ""
	}
}
