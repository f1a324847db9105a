package model

import "time"

// Answer score bounds for the 7-point Likert scale
const (
	MinAnswerScore = 1
	MaxAnswerScore = 7
)

// Answer is one user's response to one question. Upserted per
// (user, question); the stored row always reflects the latest submission.
type Answer struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	UserID     string    `json:"userId" bson:"userId"`
	QuestionID string    `json:"questionId" bson:"questionId"`
	Score      int       `json:"score" bson:"score"`
	AnsweredAt time.Time `json:"answeredAt" bson:"answeredAt"`
}

// ReversedScore returns the score with the reverse-keyed transform applied.
func (a *Answer) ReversedScore() int {
	return MaxAnswerScore + MinAnswerScore - a.Score
}
