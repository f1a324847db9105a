package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentscope/internal/model"
)

type AnswerRepo interface {
	Upsert(ctx context.Context, answer *model.Answer) error
	UpsertMany(ctx context.Context, answers []*model.Answer) error
	GetByUserID(ctx context.Context, userID string) ([]*model.Answer, error)
}

type answerRepo struct {
	collection *mongo.Collection
}

func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{collection: db.Collection("answers")}
}

// Upsert replaces the user's answer to a question; one row per
// (user, question).
func (r *answerRepo) Upsert(ctx context.Context, answer *model.Answer) error {
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now()
	}

	filter := bson.M{"userId": answer.UserID, "questionId": answer.QuestionID}
	update := bson.M{"$set": bson.M{
		"userId":     answer.UserID,
		"questionId": answer.QuestionID,
		"score":      answer.Score,
		"answeredAt": answer.AnsweredAt,
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *answerRepo) UpsertMany(ctx context.Context, answers []*model.Answer) error {
	for _, a := range answers {
		if err := r.Upsert(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *answerRepo) GetByUserID(ctx context.Context, userID string) ([]*model.Answer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []*model.Answer
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
