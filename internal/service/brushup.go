package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"talentscope/internal/cache"
	"talentscope/internal/model"
	"talentscope/internal/repository"
	"talentscope/pkg/logger"
)

// Evaluator is the AI completion collaborator.
type Evaluator interface {
	SuggestBrushUp(ctx context.Context, input *BrushUpInput) (*BrushUpSuggestion, error)
	ModelVersion() string
}

// BrushUpService runs the confidence-gated refinement pipeline:
// load -> collect -> gate -> evaluate -> apply/suppress/fail. Collaborator
// failures and low-confidence suggestions are designed no-op outcomes that
// leave the diagnosis untouched; every run that reached the collaborator
// leaves an audit entry.
type BrushUpService struct {
	diagnosisRepo  repository.DiagnosisRepo
	signalRepo     repository.SignalRepo
	auditRepo      repository.AuditRepo
	brushUpRepo    repository.BrushUpRepo
	similarityRepo repository.SimilarityRepo
	simCache       cache.SimilarMembersCache
	evaluator      Evaluator
	log            *logger.Logger
}

func NewBrushUpService(
	diagnosisRepo repository.DiagnosisRepo,
	signalRepo repository.SignalRepo,
	auditRepo repository.AuditRepo,
	brushUpRepo repository.BrushUpRepo,
	similarityRepo repository.SimilarityRepo,
	simCache cache.SimilarMembersCache,
	evaluator Evaluator,
	log *logger.Logger,
) *BrushUpService {
	return &BrushUpService{
		diagnosisRepo:  diagnosisRepo,
		signalRepo:     signalRepo,
		auditRepo:      auditRepo,
		brushUpRepo:    brushUpRepo,
		similarityRepo: similarityRepo,
		simCache:       simCache,
		evaluator:      evaluator,
		log:            log,
	}
}

// Run executes one brush-up attempt for the user. Insufficient data before
// the collaborator call surfaces as *model.InsufficientDataError; a stale
// read during apply surfaces as model.ErrVersionConflict.
func (s *BrushUpService) Run(ctx context.Context, userID string, trigger model.TriggerType, sourceRef string) (*model.BrushUpResult, error) {
	switch trigger {
	case model.TriggerInitial, model.TriggerStrengthsAdded, model.TriggerValuesAdded, model.TriggerEvaluationAdded, model.TriggerManual:
	default:
		return nil, &model.ValidationError{Field: "trigger", Reason: fmt.Sprintf("unknown trigger type %q", trigger)}
	}

	diagnosis, err := s.diagnosisRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load current diagnosis: %w", err)
	}
	if diagnosis == nil {
		return nil, fmt.Errorf("diagnosis for user %s: %w", userID, model.ErrNotFound)
	}

	secondaries, err := s.signalRepo.GetSecondaryByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load secondary diagnoses: %w", err)
	}
	evaluations, err := s.signalRepo.GetRecentEvaluations(ctx, userID, model.MaxEvaluationSignals)
	if err != nil {
		return nil, fmt.Errorf("load evaluations: %w", err)
	}

	if !sufficientData(trigger, secondaries, evaluations) {
		return nil, &model.InsufficientDataError{Trigger: trigger}
	}

	input := &BrushUpInput{
		TriggerType:     trigger,
		BigFive:         diagnosis.BigFive,
		ThinkingPattern: diagnosis.ThinkingPattern,
		BehaviorPattern: diagnosis.BehaviorPattern,
		FeatureLabels:   diagnosis.FeatureLabels,
		Secondaries:     secondaries,
		Evaluations:     evaluations,
	}
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode brush-up input: %w", err)
	}
	hash := sha256.Sum256(inputJSON)
	inputHash := hex.EncodeToString(hash[:])

	suggestion, evalErr := s.evaluator.SuggestBrushUp(ctx, input)
	if evalErr != nil {
		audit := s.newAudit(diagnosis, inputHash, string(inputJSON))
		audit.ModelVersion = s.evaluator.ModelVersion()
		audit.DisplayDecision = model.DecisionSuppressed
		audit.OutputData = evalErr.Error()
		if err := s.auditRepo.Insert(ctx, audit); err != nil {
			return nil, fmt.Errorf("write audit entry: %w", err)
		}
		s.log.Warn("brush-up collaborator failed", "userId", userID, "trigger", trigger, "error", evalErr)
		return &model.BrushUpResult{
			Status: model.BrushUpFailed,
			Reason: evalErr.Error(),
		}, nil
	}

	outputJSON, _ := json.Marshal(suggestion)

	if suggestion.Confidence < model.ConfidenceThreshold {
		audit := s.newAudit(diagnosis, inputHash, string(inputJSON))
		audit.ModelVersion = suggestion.ModelVersion
		audit.Confidence = suggestion.Confidence
		audit.RiskFlag = len(suggestion.RiskFlags) > 0
		audit.DisplayDecision = model.DecisionSuppressed
		audit.OutputData = string(outputJSON)
		audit.Usage = suggestion.Usage
		if err := s.auditRepo.Insert(ctx, audit); err != nil {
			return nil, fmt.Errorf("write audit entry: %w", err)
		}
		s.log.Info("brush-up suppressed by confidence gate",
			"userId", userID,
			"trigger", trigger,
			"confidence", suggestion.Confidence,
		)
		return &model.BrushUpResult{
			Status:     model.BrushUpSuppressed,
			Reason:     "confidence below threshold",
			Confidence: suggestion.Confidence,
			RiskFlags:  suggestion.RiskFlags,
			Reasoning:  suggestion.Reasoning,
		}, nil
	}

	previous := model.SnapshotOf(diagnosis)
	expectedVersion := diagnosis.Version

	newVersion, err := model.NextVersion(diagnosis.Version)
	if err != nil {
		return nil, fmt.Errorf("increment version: %w", err)
	}

	diagnosis.BigFive = applyDeltas(diagnosis.BigFive, suggestion.BigFiveDeltas)
	diagnosis.ThinkingPattern = applyDeltas(diagnosis.ThinkingPattern, suggestion.ThinkingDeltas)
	diagnosis.BehaviorPattern = applyDeltas(diagnosis.BehaviorPattern, suggestion.BehaviorDeltas)
	if len(suggestion.FeatureLabels) > 0 {
		labels := suggestion.FeatureLabels
		if len(labels) > maxFeatureLabels {
			labels = labels[:maxFeatureLabels]
		}
		diagnosis.FeatureLabels = labels
	}
	diagnosis.Version = newVersion
	diagnosis.UpdatedAt = time.Now()

	audit := s.newAudit(diagnosis, inputHash, string(inputJSON))
	audit.ModelVersion = suggestion.ModelVersion
	audit.Confidence = suggestion.Confidence
	audit.RiskFlag = len(suggestion.RiskFlags) > 0
	audit.DisplayDecision = model.DecisionShown
	audit.OutputData = string(outputJSON)
	audit.Usage = suggestion.Usage

	history := &model.BrushUpHistory{
		ID:                uuid.NewString(),
		DiagnosisResultID: diagnosis.ID,
		UserID:            userID,
		Version:           newVersion,
		TriggerType:       trigger,
		SourceRef:         sourceRef,
		AuditLogID:        audit.ID,
		PreviousData:      previous,
		UpdatedData:       model.SnapshotOf(diagnosis),
		AIReasoning:       suggestion.Reasoning,
		CreatedAt:         diagnosis.UpdatedAt,
	}

	if err := s.diagnosisRepo.ApplyBrushUp(ctx, diagnosis, expectedVersion, history, audit); err != nil {
		// The transaction aborted, taking its audit insert with it. The
		// collaborator was still called, so the run must leave a trail.
		if errors.Is(err, model.ErrVersionConflict) {
			audit.DisplayDecision = model.DecisionSuppressed
			if auditErr := s.auditRepo.Insert(ctx, audit); auditErr != nil {
				s.log.Error("audit write after version conflict failed", "userId", userID, "error", auditErr)
			}
		}
		return nil, fmt.Errorf("apply brush-up: %w", err)
	}

	s.invalidateSimilarity(ctx, userID)

	s.log.Info("brush-up applied",
		"userId", userID,
		"trigger", trigger,
		"version", newVersion,
		"confidence", suggestion.Confidence,
	)
	return &model.BrushUpResult{
		Status:     model.BrushUpApplied,
		Confidence: suggestion.Confidence,
		RiskFlags:  suggestion.RiskFlags,
		Reasoning:  suggestion.Reasoning,
		NewVersion: newVersion,
		HistoryID:  history.ID,
	}, nil
}

// ListHistory returns the user's brush-up ledger, newest first.
func (s *BrushUpService) ListHistory(ctx context.Context, userID string) ([]*model.BrushUpHistory, error) {
	return s.brushUpRepo.ListByUserID(ctx, userID)
}

func (s *BrushUpService) newAudit(diagnosis *model.DiagnosisResult, inputHash, inputData string) *model.AuditLogEntry {
	return &model.AuditLogEntry{
		ID:                uuid.NewString(),
		DiagnosisResultID: diagnosis.ID,
		UserID:            diagnosis.UserID,
		InputHash:         inputHash,
		InputData:         inputData,
		CreatedAt:         time.Now(),
	}
}

func (s *BrushUpService) invalidateSimilarity(ctx context.Context, userID string) {
	if err := s.similarityRepo.DeleteByUserID(ctx, userID); err != nil {
		s.log.Warn("similarity row invalidation failed", "userId", userID, "error", err)
	}
	if err := s.simCache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("similarity cache invalidation failed", "userId", userID, "error", err)
	}
}

// sufficientData implements the pre-collaborator gate. INITIAL always
// proceeds; MANUAL needs any signal; typed triggers need a signal of their
// own type.
func sufficientData(trigger model.TriggerType, secondaries []*model.SecondaryDiagnosis, evaluations []*model.InterviewEvaluation) bool {
	switch trigger {
	case model.TriggerInitial:
		return true
	case model.TriggerManual:
		return len(secondaries) > 0 || len(evaluations) > 0
	case model.TriggerEvaluationAdded:
		return len(evaluations) > 0
	default:
		kind := trigger.RequiredKind()
		for _, sd := range secondaries {
			if sd.Kind == kind {
				return true
			}
		}
		return false
	}
}

// applyDeltas applies bounded adjustments: each proposed delta is clamped
// to +/-MaxDelta and the resulting value to [FloorValue, CeilValue], one
// decimal. Dimensions without a proposal keep their value.
func applyDeltas(vector model.TraitVector, deltas map[string]float64) model.TraitVector {
	out := vector.Clone()
	for dim, delta := range deltas {
		current, ok := out[dim]
		if !ok {
			continue
		}
		clamped := model.Clamp(delta, -model.BrushUpMaxDelta, model.BrushUpMaxDelta)
		out[dim] = model.Round1(model.Clamp(current+clamped, model.BrushUpFloorValue, model.BrushUpCeilValue))
	}
	return out
}
