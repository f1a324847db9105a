package model

import "time"

// TriggerType identifies what kicked off a brush-up run
type TriggerType string

const (
	TriggerInitial         TriggerType = "INITIAL"
	TriggerStrengthsAdded  TriggerType = "STRENGTHS_ADDED"
	TriggerValuesAdded     TriggerType = "VALUES_ADDED"
	TriggerEvaluationAdded TriggerType = "EVALUATION_ADDED"
	TriggerManual          TriggerType = "MANUAL"
)

// BrushUpStatus is the terminal state of a brush-up run
type BrushUpStatus string

const (
	BrushUpApplied    BrushUpStatus = "APPLIED"
	BrushUpSuppressed BrushUpStatus = "SUPPRESSED"
	BrushUpFailed     BrushUpStatus = "FAILED"
)

// Bounded adjustment rules: a single brush-up may move a dimension by at
// most MaxDelta points and must keep it inside [FloorValue, CeilValue].
const (
	BrushUpMaxDelta   = 5.0
	BrushUpFloorValue = 20.0
	BrushUpCeilValue  = 80.0
)

// ConfidenceThreshold is the gate below which a suggestion is discarded
// without mutating stored data. The boundary is inclusive at the threshold.
const ConfidenceThreshold = 50.0

// DiagnosisSnapshot captures the mutable parts of a diagnosis at a point in
// time for the brush-up ledger.
type DiagnosisSnapshot struct {
	FeatureLabels   []string    `json:"featureLabels" bson:"featureLabels"`
	BigFive         TraitVector `json:"bigFive" bson:"bigFive"`
	ThinkingPattern TraitVector `json:"thinkingPattern" bson:"thinkingPattern"`
	BehaviorPattern TraitVector `json:"behaviorPattern" bson:"behaviorPattern"`
}

// SnapshotOf captures the current mutable state of a diagnosis.
func SnapshotOf(d *DiagnosisResult) DiagnosisSnapshot {
	return DiagnosisSnapshot{
		FeatureLabels:   append([]string(nil), d.FeatureLabels...),
		BigFive:         d.BigFive.Clone(),
		ThinkingPattern: d.ThinkingPattern.Clone(),
		BehaviorPattern: d.BehaviorPattern.Clone(),
	}
}

// BrushUpHistory is the append-only ledger of applied mutations. AuditLogID
// references the generation log written in the same transaction.
type BrushUpHistory struct {
	ID                string            `json:"id" bson:"_id,omitempty"`
	DiagnosisResultID string            `json:"diagnosisResultId" bson:"diagnosisResultId"`
	UserID            string            `json:"userId" bson:"userId"`
	Version           string            `json:"version" bson:"version"`
	TriggerType       TriggerType       `json:"triggerType" bson:"triggerType"`
	SourceRef         string            `json:"sourceRef,omitempty" bson:"sourceRef,omitempty"`
	AuditLogID        string            `json:"auditLogId" bson:"auditLogId"`
	PreviousData      DiagnosisSnapshot `json:"previousData" bson:"previousData"`
	UpdatedData       DiagnosisSnapshot `json:"updatedData" bson:"updatedData"`
	AIReasoning       string            `json:"aiReasoning" bson:"aiReasoning"`
	CreatedAt         time.Time         `json:"createdAt" bson:"createdAt"`
}

// DisplayDecision records what the brush-up pipeline did with an AI output
type DisplayDecision string

const (
	DecisionShown      DisplayDecision = "shown"
	DecisionSuppressed DisplayDecision = "suppressed"
	DecisionFallback   DisplayDecision = "fallback"
)

// TokenUsage carries token/cost counters reported by the AI collaborator.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens" bson:"promptTokens"`
	CompletionTokens int `json:"completionTokens" bson:"completionTokens"`
	TotalTokens      int `json:"totalTokens" bson:"totalTokens"`
}

// AuditLogEntry is written once per brush-up attempt that reached the AI
// collaborator, regardless of outcome. Append-only.
type AuditLogEntry struct {
	ID                string          `json:"id" bson:"_id,omitempty"`
	DiagnosisResultID string          `json:"diagnosisResultId" bson:"diagnosisResultId"`
	UserID            string          `json:"userId" bson:"userId"`
	InputHash         string          `json:"inputHash" bson:"inputHash"`
	ModelVersion      string          `json:"modelVersion" bson:"modelVersion"`
	Confidence        float64         `json:"confidence" bson:"confidence"`
	RiskFlag          bool            `json:"riskFlag" bson:"riskFlag"`
	DisplayDecision   DisplayDecision `json:"displayDecision" bson:"displayDecision"`
	InputData         string          `json:"inputData" bson:"inputData"`
	OutputData        string          `json:"outputData" bson:"outputData"`
	Usage             TokenUsage      `json:"usage" bson:"usage"`
	CreatedAt         time.Time       `json:"createdAt" bson:"createdAt"`
}

// BrushUpResult is the structured, non-throwing outcome returned to callers.
// FAILED and SUPPRESSED are designed no-op outcomes, not errors; the
// diagnosis is untouched on every branch except APPLIED.
type BrushUpResult struct {
	Status     BrushUpStatus `json:"status"`
	Reason     string        `json:"reason,omitempty"`
	Confidence float64       `json:"confidence"`
	RiskFlags  []string      `json:"riskFlags,omitempty"`
	Reasoning  string        `json:"reasoning,omitempty"`
	NewVersion string        `json:"newVersion,omitempty"`
	HistoryID  string        `json:"historyId,omitempty"`
}

// DimensionDelta is one dimension's before/after in a version diff.
type DimensionDelta struct {
	Dimension   string  `json:"dimension"`
	DisplayName string  `json:"displayName"`
	Before      float64 `json:"before"`
	After       float64 `json:"after"`
	Delta       float64 `json:"delta"`
}

// VersionDiff is the field-level difference between the two snapshots of one
// BrushUpHistory row, joined with its generation-log entry.
type VersionDiff struct {
	HistoryID      string           `json:"historyId"`
	Version        string           `json:"version"`
	TriggerType    TriggerType      `json:"triggerType"`
	AddedLabels    []string         `json:"addedLabels"`
	RemovedLabels  []string         `json:"removedLabels"`
	BigFive        []DimensionDelta `json:"bigFive"`
	Thinking       []DimensionDelta `json:"thinkingPattern"`
	Behavior       []DimensionDelta `json:"behaviorPattern"`
	AIReasoning    string           `json:"aiReasoning"`
	Confidence     float64          `json:"confidence"`
	RiskFlag       bool             `json:"riskFlag"`
	ModelVersion   string           `json:"modelVersion"`
	CreatedAt      time.Time        `json:"createdAt"`
}
