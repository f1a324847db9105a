package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentscope/internal/model"
)

// BrushUpRepo reads the append-only mutation ledger. Inserts happen inside
// DiagnosisRepo.ApplyBrushUp so the history row, the audit row and the
// diagnosis update commit together.
type BrushUpRepo interface {
	GetByID(ctx context.Context, id string) (*model.BrushUpHistory, error)
	ListByUserID(ctx context.Context, userID string) ([]*model.BrushUpHistory, error)
}

type brushUpRepo struct {
	collection *mongo.Collection
}

func NewBrushUpRepo(db *mongo.Database) BrushUpRepo {
	return &brushUpRepo{collection: db.Collection("brushup_history")}
}

func (r *brushUpRepo) GetByID(ctx context.Context, id string) (*model.BrushUpHistory, error) {
	var history model.BrushUpHistory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&history)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

func (r *brushUpRepo) ListByUserID(ctx context.Context, userID string) ([]*model.BrushUpHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.BrushUpHistory
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
