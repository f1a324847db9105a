package model

import "time"

// SimilarityScore is a directional cache row; a symmetric pair is stored as
// two rows, one per ordering. Rows are only valid for the trait-vector
// version they were computed from and are deleted whenever either user's
// diagnosis mutates.
type SimilarityScore struct {
	ID                   string    `json:"id" bson:"_id,omitempty"`
	UserID               string    `json:"userId" bson:"userId"`
	SimilarUserID        string    `json:"similarUserId" bson:"similarUserId"`
	SimilarityPercentage float64   `json:"similarityPercentage" bson:"similarityPercentage"`
	DifferingFactors     []string  `json:"differingFactors" bson:"differingFactors"`
	CalculatedAt         time.Time `json:"calculatedAt" bson:"calculatedAt"`
}

// MatrixReport summarizes a cohort-wide similarity rebuild. Failed counts
// pairs whose write failed; they never abort the batch.
type MatrixReport struct {
	Members  int `json:"members"`
	Pairs    int `json:"pairs"`
	Upserted int `json:"upserted"`
	Failed   int `json:"failed"`
}
