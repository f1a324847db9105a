package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentscope/internal/model"
)

// SignalRepo reads the externally supplied refinement signals. The engine
// never writes these; other parts of the platform append them.
type SignalRepo interface {
	GetSecondaryByUserID(ctx context.Context, userID string) ([]*model.SecondaryDiagnosis, error)
	GetRecentEvaluations(ctx context.Context, userID string, limit int) ([]*model.InterviewEvaluation, error)

	// Insert methods exist for seeding and tests.
	InsertSecondary(ctx context.Context, d *model.SecondaryDiagnosis) error
	InsertEvaluation(ctx context.Context, e *model.InterviewEvaluation) error
}

type signalRepo struct {
	secondaries *mongo.Collection
	evaluations *mongo.Collection
}

func NewSignalRepo(db *mongo.Database) SignalRepo {
	return &signalRepo{
		secondaries: db.Collection("secondary_diagnoses"),
		evaluations: db.Collection("interview_evaluations"),
	}
}

func (r *signalRepo) GetSecondaryByUserID(ctx context.Context, userID string) ([]*model.SecondaryDiagnosis, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.secondaries.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var diagnoses []*model.SecondaryDiagnosis
	if err = cursor.All(ctx, &diagnoses); err != nil {
		return nil, err
	}
	return diagnoses, nil
}

func (r *signalRepo) GetRecentEvaluations(ctx context.Context, userID string, limit int) ([]*model.InterviewEvaluation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.evaluations.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var evaluations []*model.InterviewEvaluation
	if err = cursor.All(ctx, &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *signalRepo) InsertSecondary(ctx context.Context, d *model.SecondaryDiagnosis) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := r.secondaries.InsertOne(ctx, d)
	return err
}

func (r *signalRepo) InsertEvaluation(ctx context.Context, e *model.InterviewEvaluation) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := r.evaluations.InsertOne(ctx, e)
	return err
}
