package service

import (
	"context"
	"fmt"

	"talentscope/internal/model"
)

// GetVersionDiff computes the field-level difference between the two
// snapshots of one history row and joins the generation-log entry the row
// references.
func (s *BrushUpService) GetVersionDiff(ctx context.Context, historyID string) (*model.VersionDiff, error) {
	history, err := s.brushUpRepo.GetByID(ctx, historyID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return nil, fmt.Errorf("brush-up history %s: %w", historyID, model.ErrNotFound)
	}

	added, removed := labelDiff(history.PreviousData.FeatureLabels, history.UpdatedData.FeatureLabels)

	diff := &model.VersionDiff{
		HistoryID:     history.ID,
		Version:       history.Version,
		TriggerType:   history.TriggerType,
		AddedLabels:   added,
		RemovedLabels: removed,
		BigFive:       vectorDiff(history.PreviousData.BigFive, history.UpdatedData.BigFive, model.BigFiveDimensions),
		Thinking:      vectorDiff(history.PreviousData.ThinkingPattern, history.UpdatedData.ThinkingPattern, model.ThinkingDimensions),
		Behavior:      vectorDiff(history.PreviousData.BehaviorPattern, history.UpdatedData.BehaviorPattern, model.BehaviorDimensions),
		AIReasoning:   history.AIReasoning,
		CreatedAt:     history.CreatedAt,
	}

	audit, err := s.auditRepo.GetByID(ctx, history.AuditLogID)
	if err != nil {
		return nil, err
	}
	if audit != nil {
		diff.Confidence = audit.Confidence
		diff.RiskFlag = audit.RiskFlag
		diff.ModelVersion = audit.ModelVersion
	}
	return diff, nil
}

func labelDiff(before, after []string) (added, removed []string) {
	beforeSet := make(map[string]bool, len(before))
	for _, l := range before {
		beforeSet[l] = true
	}
	afterSet := make(map[string]bool, len(after))
	for _, l := range after {
		afterSet[l] = true
	}

	for _, l := range after {
		if !beforeSet[l] {
			added = append(added, l)
		}
	}
	for _, l := range before {
		if !afterSet[l] {
			removed = append(removed, l)
		}
	}
	return added, removed
}

func vectorDiff(before, after model.TraitVector, dims []string) []model.DimensionDelta {
	var deltas []model.DimensionDelta
	for _, dim := range dims {
		b, okB := before[dim]
		a, okA := after[dim]
		if !okB && !okA {
			continue
		}
		if b == a {
			continue
		}
		deltas = append(deltas, model.DimensionDelta{
			Dimension:   dim,
			DisplayName: model.DimensionDisplayNames[dim],
			Before:      b,
			After:       a,
			Delta:       model.Round1(a - b),
		})
	}
	return deltas
}
