package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"talentscope/internal/model"
)

type DiagnosisRepo interface {
	GetCurrentByUserID(ctx context.Context, userID string) (*model.DiagnosisResult, error)
	ListCurrent(ctx context.Context) ([]*model.DiagnosisResult, error)
	GetPotentials(ctx context.Context, diagnosisResultID string) ([]*model.PotentialScore, error)

	// SaveCurrent writes a freshly scored diagnosis and replaces its
	// potential scores in one transaction. expectedVersion is "" for a
	// user's first diagnosis; otherwise the write is rejected with
	// model.ErrVersionConflict unless the stored row still carries it.
	SaveCurrent(ctx context.Context, result *model.DiagnosisResult, potentials []*model.PotentialScore, expectedVersion string) error

	// ApplyBrushUp mutates the current row in place and appends the
	// history and audit rows in one transaction, guarded by the same
	// version check.
	ApplyBrushUp(ctx context.Context, result *model.DiagnosisResult, expectedVersion string, history *model.BrushUpHistory, audit *model.AuditLogEntry) error
}

type diagnosisRepo struct {
	client     *mongo.Client
	diagnoses  *mongo.Collection
	potentials *mongo.Collection
	history    *mongo.Collection
	audits     *mongo.Collection
}

func NewDiagnosisRepo(client *mongo.Client, db *mongo.Database) DiagnosisRepo {
	return &diagnosisRepo{
		client:     client,
		diagnoses:  db.Collection("diagnosis_results"),
		potentials: db.Collection("potential_scores"),
		history:    db.Collection("brushup_history"),
		audits:     db.Collection("ai_generation_logs"),
	}
}

func (r *diagnosisRepo) GetCurrentByUserID(ctx context.Context, userID string) (*model.DiagnosisResult, error) {
	var result model.DiagnosisResult
	err := r.diagnoses.FindOne(ctx, bson.M{"userId": userID}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *diagnosisRepo) ListCurrent(ctx context.Context) ([]*model.DiagnosisResult, error) {
	cursor, err := r.diagnoses.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*model.DiagnosisResult
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *diagnosisRepo) GetPotentials(ctx context.Context, diagnosisResultID string) ([]*model.PotentialScore, error) {
	cursor, err := r.potentials.Find(ctx, bson.M{"diagnosisResultId": diagnosisResultID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scores []*model.PotentialScore
	if err = cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *diagnosisRepo) SaveCurrent(ctx context.Context, result *model.DiagnosisResult, potentials []*model.PotentialScore, expectedVersion string) error {
	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if expectedVersion == "" {
			if _, err := r.diagnoses.InsertOne(sc, result); err != nil {
				return err
			}
		} else {
			res, err := r.diagnoses.ReplaceOne(sc, bson.M{"_id": result.ID, "version": expectedVersion}, result)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return model.ErrVersionConflict
			}
		}

		if _, err := r.potentials.DeleteMany(sc, bson.M{"diagnosisResultId": result.ID}); err != nil {
			return err
		}
		if len(potentials) > 0 {
			docs := make([]interface{}, len(potentials))
			for i, p := range potentials {
				docs[i] = p
			}
			if _, err := r.potentials.InsertMany(sc, docs); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *diagnosisRepo) ApplyBrushUp(ctx context.Context, result *model.DiagnosisResult, expectedVersion string, history *model.BrushUpHistory, audit *model.AuditLogEntry) error {
	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		update := bson.M{"$set": bson.M{
			"featureLabels":   result.FeatureLabels,
			"bigFive":         result.BigFive,
			"thinkingPattern": result.ThinkingPattern,
			"behaviorPattern": result.BehaviorPattern,
			"version":         result.Version,
			"updatedAt":       result.UpdatedAt,
		}}
		res, err := r.diagnoses.UpdateOne(sc, bson.M{"_id": result.ID, "version": expectedVersion}, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return model.ErrVersionConflict
		}

		if _, err := r.audits.InsertOne(sc, audit); err != nil {
			return err
		}
		if _, err := r.history.InsertOne(sc, history); err != nil {
			return err
		}
		return nil
	})
}

func (r *diagnosisRepo) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := fn(sc); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
