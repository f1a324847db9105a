package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"talentscope/internal/model"
)

// AuditRepo writes and reads the append-only AI generation log. Entries for
// applied brush-ups are inserted transactionally by DiagnosisRepo; entries
// for suppressed and failed runs are inserted here directly.
type AuditRepo interface {
	Insert(ctx context.Context, entry *model.AuditLogEntry) error
	GetByID(ctx context.Context, id string) (*model.AuditLogEntry, error)
}

type auditRepo struct {
	collection *mongo.Collection
}

func NewAuditRepo(db *mongo.Database) AuditRepo {
	return &auditRepo{collection: db.Collection("ai_generation_logs")}
}

func (r *auditRepo) Insert(ctx context.Context, entry *model.AuditLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *auditRepo) GetByID(ctx context.Context, id string) (*model.AuditLogEntry, error) {
	var entry model.AuditLogEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
