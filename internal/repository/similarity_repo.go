package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentscope/internal/model"
)

type SimilarityRepo interface {
	// UpsertPair writes both directional rows for one unordered pair.
	UpsertPair(ctx context.Context, a, b *model.SimilarityScore) error
	GetByUserID(ctx context.Context, userID string, minSimilarity float64, limit int) ([]*model.SimilarityScore, error)
	// DeleteByUserID removes every row the user appears in, in either
	// direction. Called when the user's vectors change.
	DeleteByUserID(ctx context.Context, userID string) error
}

type similarityRepo struct {
	collection *mongo.Collection
}

func NewSimilarityRepo(db *mongo.Database) SimilarityRepo {
	return &similarityRepo{collection: db.Collection("similarity_scores")}
}

func (r *similarityRepo) UpsertPair(ctx context.Context, a, b *model.SimilarityScore) error {
	for _, score := range []*model.SimilarityScore{a, b} {
		if score.CalculatedAt.IsZero() {
			score.CalculatedAt = time.Now()
		}
		filter := bson.M{"userId": score.UserID, "similarUserId": score.SimilarUserID}
		update := bson.M{"$set": bson.M{
			"userId":               score.UserID,
			"similarUserId":        score.SimilarUserID,
			"similarityPercentage": score.SimilarityPercentage,
			"differingFactors":     score.DifferingFactors,
			"calculatedAt":         score.CalculatedAt,
		}}
		if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return err
		}
	}
	return nil
}

func (r *similarityRepo) GetByUserID(ctx context.Context, userID string, minSimilarity float64, limit int) ([]*model.SimilarityScore, error) {
	filter := bson.M{
		"userId":               userID,
		"similarityPercentage": bson.M{"$gte": minSimilarity},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "similarityPercentage", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scores []*model.SimilarityScore
	if err = cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *similarityRepo) DeleteByUserID(ctx context.Context, userID string) error {
	filter := bson.M{"$or": []bson.M{
		{"userId": userID},
		{"similarUserId": userID},
	}}
	_, err := r.collection.DeleteMany(ctx, filter)
	return err
}
