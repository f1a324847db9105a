package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReliabilityStatus classifies how trustworthy a user's raw answers are
type ReliabilityStatus string

const (
	ReliabilityReliable    ReliabilityStatus = "RELIABLE"
	ReliabilityNeedsReview ReliabilityStatus = "NEEDS_REVIEW"
	ReliabilityUnreliable  ReliabilityStatus = "UNRELIABLE"
)

// StressTolerance buckets derived from the neuroticism score
type StressTolerance string

const (
	StressToleranceHigh   StressTolerance = "HIGH"
	StressToleranceMedium StressTolerance = "MEDIUM"
	StressToleranceLow    StressTolerance = "LOW"
)

// Personality type codes from the extraversion/logical split
const (
	TypeDriver     = "DRIVER"
	TypeExpressive = "EXPRESSIVE"
	TypeAnalytical = "ANALYTICAL"
	TypeAmiable    = "AMIABLE"
)

// TypeNames maps type codes to display names.
var TypeNames = map[string]string{
	TypeDriver:     "Driver",
	TypeExpressive: "Expressive",
	TypeAnalytical: "Analytical",
	TypeAmiable:    "Amiable",
}

// DiagnosisResult is the single mutable "current" diagnosis per user.
// Past versions are reconstructed from BrushUpHistory, not kept as rows.
type DiagnosisResult struct {
	ID                string            `json:"id" bson:"_id,omitempty"`
	UserID            string            `json:"userId" bson:"userId"`
	TypeCode          string            `json:"typeCode" bson:"typeCode"`
	TypeName          string            `json:"typeName" bson:"typeName"`
	FeatureLabels     []string          `json:"featureLabels" bson:"featureLabels"`
	ReliabilityStatus ReliabilityStatus `json:"reliabilityStatus" bson:"reliabilityStatus"`
	ReliabilityIssues []string          `json:"reliabilityIssues,omitempty" bson:"reliabilityIssues,omitempty"`
	StressTolerance   StressTolerance   `json:"stressTolerance" bson:"stressTolerance"`
	BigFive           TraitVector       `json:"bigFive" bson:"bigFive"`
	ThinkingPattern   TraitVector       `json:"thinkingPattern" bson:"thinkingPattern"`
	BehaviorPattern   TraitVector       `json:"behaviorPattern" bson:"behaviorPattern"`
	Version           string            `json:"version" bson:"version"`
	CompletedAt       time.Time         `json:"completedAt" bson:"completedAt"`
	UpdatedAt         time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// JobGrade is the letter grade for a potential score
type JobGrade string

const (
	GradeA JobGrade = "A"
	GradeB JobGrade = "B"
	GradeC JobGrade = "C"
	GradeD JobGrade = "D"
)

// PotentialScore is a per-job-type fit score. Rows are recreated wholesale
// whenever a fresh DiagnosisResult is created and never touched by brush-up.
type PotentialScore struct {
	ID                string   `json:"id" bson:"_id,omitempty"`
	DiagnosisResultID string   `json:"diagnosisResultId" bson:"diagnosisResultId"`
	JobType           string   `json:"jobType" bson:"jobType"`
	Grade             JobGrade `json:"grade" bson:"grade"`
	Score             float64  `json:"score" bson:"score"`
}

// InitialVersion is the version assigned to a user's first diagnosis.
const InitialVersion = "1.0"

// ParseVersion splits a "major.minor" version string into its integer parts.
func ParseVersion(v string) (major, minor int, err error) {
	parts := strings.SplitN(v, ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed version %q", v)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed version %q", v)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed version %q", v)
	}
	return major, minor, nil
}

// NextVersion increments the minor part as an integer: "1.9" -> "1.10".
func NextVersion(v string) (string, error) {
	major, minor, err := ParseVersion(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d.%d", major, minor+1), nil
}
