package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentscope/internal/model"
	"talentscope/pkg/logger"
)

type brushUpFixture struct {
	svc            *BrushUpService
	diagnosisRepo  *fakeDiagnosisRepo
	signalRepo     *fakeSignalRepo
	auditRepo      *fakeAuditRepo
	brushUpRepo    *fakeBrushUpRepo
	similarityRepo *fakeSimilarityRepo
	simCache       *fakeSimCache
	evaluator      *fakeEvaluator
}

func newBrushUpFixture(evaluator *fakeEvaluator) *brushUpFixture {
	f := &brushUpFixture{
		diagnosisRepo:  newFakeDiagnosisRepo(),
		signalRepo:     &fakeSignalRepo{},
		auditRepo:      &fakeAuditRepo{},
		brushUpRepo:    &fakeBrushUpRepo{},
		similarityRepo: newFakeSimilarityRepo(),
		simCache:       newFakeSimCache(),
		evaluator:      evaluator,
	}
	f.svc = NewBrushUpService(
		f.diagnosisRepo,
		f.signalRepo,
		f.auditRepo,
		f.brushUpRepo,
		f.similarityRepo,
		f.simCache,
		f.evaluator,
		logger.NewNop(),
	)
	return f
}

func seedDiagnosis(f *brushUpFixture, userID string) *model.DiagnosisResult {
	d := &model.DiagnosisResult{
		ID:            "diag-" + userID,
		UserID:        userID,
		TypeCode:      model.TypeAnalytical,
		FeatureLabels: []string{"Systematic", "Reserved"},
		Version:       "1.0",
		BigFive: model.TraitVector{
			model.DimExtraversion:      40,
			model.DimAgreeableness:     55,
			model.DimConscientiousness: 78,
			model.DimNeuroticism:       22,
			model.DimOpenness:          60,
		},
		ThinkingPattern: model.TraitVector{
			model.DimLogical:    75,
			model.DimIntuitive:  45,
			model.DimAnalytical: 70,
			model.DimCreative:   50,
		},
		BehaviorPattern: model.TraitVector{
			model.DimEfficiency: 77,
			model.DimPrecision:  74,
		},
		CompletedAt: time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.diagnosisRepo.current[userID] = d
	return d
}

func applySuggestion(confidence float64) *BrushUpSuggestion {
	return &BrushUpSuggestion{
		FeatureLabels:  []string{"Systematic", "Composed"},
		BigFiveDeltas:  map[string]float64{model.DimExtraversion: 3},
		ThinkingDeltas: map[string]float64{},
		BehaviorDeltas: map[string]float64{},
		Reasoning:      "interview signals show more outgoing behavior",
		Confidence:     confidence,
		ModelVersion:   "fake-model",
	}
}

func TestRunUnknownTrigger(t *testing.T) {
	f := newBrushUpFixture(&fakeEvaluator{})
	var vErr *model.ValidationError
	_, err := f.svc.Run(context.Background(), "u1", model.TriggerType("BOGUS"), "")
	if !errors.As(err, &vErr) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestRunNoDiagnosis(t *testing.T) {
	f := newBrushUpFixture(&fakeEvaluator{})
	_, err := f.svc.Run(context.Background(), "missing", model.TriggerInitial, "")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRunInsufficientData(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		trigger model.TriggerType
		seed    func(f *brushUpFixture)
	}{
		{"manual without signals", model.TriggerManual, func(f *brushUpFixture) {}},
		{"evaluation trigger without evaluations", model.TriggerEvaluationAdded, func(f *brushUpFixture) {
			f.signalRepo.secondaries = append(f.signalRepo.secondaries, &model.SecondaryDiagnosis{
				UserID: "u1", Kind: model.SecondaryStrengths,
			})
		}},
		{"strengths trigger with only values", model.TriggerStrengthsAdded, func(f *brushUpFixture) {
			f.signalRepo.secondaries = append(f.signalRepo.secondaries, &model.SecondaryDiagnosis{
				UserID: "u1", Kind: model.SecondaryValues,
			})
		}},
		{"values trigger with only strengths", model.TriggerValuesAdded, func(f *brushUpFixture) {
			f.signalRepo.secondaries = append(f.signalRepo.secondaries, &model.SecondaryDiagnosis{
				UserID: "u1", Kind: model.SecondaryStrengths,
			})
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newBrushUpFixture(&fakeEvaluator{suggestion: applySuggestion(90)})
			seedDiagnosis(f, "u1")
			c.seed(f)

			var insErr *model.InsufficientDataError
			_, err := f.svc.Run(ctx, "u1", c.trigger, "")
			if !errors.As(err, &insErr) {
				t.Fatalf("got %v, want InsufficientDataError", err)
			}
			if f.evaluator.calls != 0 {
				t.Error("collaborator must not be called when gated")
			}
			if len(f.auditRepo.entries) != 0 || len(f.diagnosisRepo.audits) != 0 {
				t.Error("gated runs must not write audit entries")
			}
		})
	}
}

func TestRunInitialAlwaysProceeds(t *testing.T) {
	f := newBrushUpFixture(&fakeEvaluator{suggestion: applySuggestion(90)})
	seedDiagnosis(f, "u1")

	result, err := f.svc.Run(context.Background(), "u1", model.TriggerInitial, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != model.BrushUpApplied {
		t.Errorf("status = %s, want APPLIED", result.Status)
	}
	if f.evaluator.calls != 1 {
		t.Errorf("collaborator called %d times, want 1", f.evaluator.calls)
	}
}

func TestRunAppliesSuggestion(t *testing.T) {
	f := newBrushUpFixture(&fakeEvaluator{suggestion: applySuggestion(82)})
	seedDiagnosis(f, "u1")
	f.signalRepo.evaluations = append(f.signalRepo.evaluations, &model.InterviewEvaluation{UserID: "u1"})

	result, err := f.svc.Run(context.Background(), "u1", model.TriggerEvaluationAdded, "eval-7")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != model.BrushUpApplied {
		t.Fatalf("status = %s, want APPLIED", result.Status)
	}
	if result.NewVersion != "1.1" {
		t.Errorf("newVersion = %s, want 1.1", result.NewVersion)
	}

	updated := f.diagnosisRepo.current["u1"]
	if updated.Version != "1.1" {
		t.Errorf("stored version = %s, want 1.1", updated.Version)
	}
	if got := updated.BigFive[model.DimExtraversion]; got != 43 {
		t.Errorf("extraversion = %v, want 43", got)
	}
	if len(updated.FeatureLabels) != 2 || updated.FeatureLabels[1] != "Composed" {
		t.Errorf("labels = %v, want replacement set", updated.FeatureLabels)
	}

	if len(f.diagnosisRepo.histories) != 1 {
		t.Fatalf("got %d history rows, want 1", len(f.diagnosisRepo.histories))
	}
	history := f.diagnosisRepo.histories[0]
	if history.ID != result.HistoryID {
		t.Errorf("history ID mismatch: %s vs %s", history.ID, result.HistoryID)
	}
	if history.SourceRef != "eval-7" {
		t.Errorf("sourceRef = %s, want eval-7", history.SourceRef)
	}
	if history.PreviousData.BigFive[model.DimExtraversion] != 40 {
		t.Errorf("previous snapshot extraversion = %v, want 40", history.PreviousData.BigFive[model.DimExtraversion])
	}
	if history.UpdatedData.BigFive[model.DimExtraversion] != 43 {
		t.Errorf("updated snapshot extraversion = %v, want 43", history.UpdatedData.BigFive[model.DimExtraversion])
	}

	if len(f.diagnosisRepo.audits) != 1 {
		t.Fatalf("got %d audit rows, want 1", len(f.diagnosisRepo.audits))
	}
	audit := f.diagnosisRepo.audits[0]
	if audit.DisplayDecision != model.DecisionShown {
		t.Errorf("displayDecision = %s, want shown", audit.DisplayDecision)
	}
	if audit.Confidence != 82 {
		t.Errorf("audit confidence = %v, want 82", audit.Confidence)
	}
	if history.AuditLogID != audit.ID {
		t.Errorf("history.auditLogId = %s, want %s", history.AuditLogID, audit.ID)
	}
	if audit.InputHash == "" || audit.InputData == "" {
		t.Error("audit must capture the input payload and its hash")
	}

	if len(f.similarityRepo.deleted) != 1 || f.similarityRepo.deleted[0] != "u1" {
		t.Errorf("similarity rows not invalidated: %v", f.similarityRepo.deleted)
	}
	if len(f.simCache.invalidated) != 1 {
		t.Errorf("similarity cache not invalidated: %v", f.simCache.invalidated)
	}
}

func TestRunConfidenceGate(t *testing.T) {
	ctx := context.Background()

	// Just below the threshold: suppressed, audited, diagnosis untouched.
	f := newBrushUpFixture(&fakeEvaluator{suggestion: applySuggestion(49.9)})
	seedDiagnosis(f, "u1")

	result, err := f.svc.Run(ctx, "u1", model.TriggerInitial, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != model.BrushUpSuppressed {
		t.Errorf("status = %s, want SUPPRESSED", result.Status)
	}
	if f.diagnosisRepo.current["u1"].Version != "1.0" {
		t.Error("suppressed run must not touch the diagnosis")
	}
	if len(f.auditRepo.entries) != 1 {
		t.Fatalf("got %d audit rows, want 1", len(f.auditRepo.entries))
	}
	if f.auditRepo.entries[0].DisplayDecision != model.DecisionSuppressed {
		t.Errorf("displayDecision = %s, want suppressed", f.auditRepo.entries[0].DisplayDecision)
	}

	// Exactly at the threshold: applied.
	f = newBrushUpFixture(&fakeEvaluator{suggestion: applySuggestion(50)})
	seedDiagnosis(f, "u1")

	result, err = f.svc.Run(ctx, "u1", model.TriggerInitial, "")
	if err != nil {
		t.Fatalf("Run at threshold: %v", err)
	}
	if result.Status != model.BrushUpApplied {
		t.Errorf("status at threshold = %s, want APPLIED", result.Status)
	}
}

func TestRunEvaluatorFailure(t *testing.T) {
	f := newBrushUpFixture(&fakeEvaluator{
		err: &model.ExternalServiceError{Service: "gemini", Err: errors.New("status 503")},
	})
	seedDiagnosis(f, "u1")

	result, err := f.svc.Run(context.Background(), "u1", model.TriggerInitial, "")
	if err != nil {
		t.Fatalf("collaborator failure must be a structured outcome, got error %v", err)
	}
	if result.Status != model.BrushUpFailed {
		t.Errorf("status = %s, want FAILED", result.Status)
	}
	if result.Reason == "" {
		t.Error("failed result must carry a reason")
	}
	if f.diagnosisRepo.current["u1"].Version != "1.0" {
		t.Error("failed run must not touch the diagnosis")
	}
	if len(f.auditRepo.entries) != 1 {
		t.Fatalf("got %d audit rows, want 1", len(f.auditRepo.entries))
	}
	audit := f.auditRepo.entries[0]
	if audit.DisplayDecision != model.DecisionSuppressed {
		t.Errorf("displayDecision = %s, want suppressed", audit.DisplayDecision)
	}
	if audit.OutputData == "" {
		t.Error("audit must record the failure")
	}
}

func TestRunVersionConflict(t *testing.T) {
	f := newBrushUpFixture(&fakeEvaluator{suggestion: applySuggestion(90)})
	seedDiagnosis(f, "u1")
	f.diagnosisRepo.applyErr = model.ErrVersionConflict

	_, err := f.svc.Run(context.Background(), "u1", model.TriggerInitial, "")
	if !errors.Is(err, model.ErrVersionConflict) {
		t.Errorf("got %v, want ErrVersionConflict", err)
	}

	// The aborted transaction dropped its audit insert; the collaborator
	// ran, so the entry must be re-written outside the transaction.
	if f.evaluator.calls != 1 {
		t.Fatalf("collaborator called %d times, want 1", f.evaluator.calls)
	}
	if len(f.auditRepo.entries) != 1 {
		t.Fatalf("got %d audit rows, want 1", len(f.auditRepo.entries))
	}
	audit := f.auditRepo.entries[0]
	if audit.DisplayDecision != model.DecisionSuppressed {
		t.Errorf("displayDecision = %s, want suppressed", audit.DisplayDecision)
	}
	if audit.Confidence != 90 {
		t.Errorf("audit confidence = %v, want 90", audit.Confidence)
	}
}

func TestApplyDeltas(t *testing.T) {
	vector := model.TraitVector{
		model.DimExtraversion:      40,
		model.DimConscientiousness: 78,
		model.DimNeuroticism:       22,
	}

	out := applyDeltas(vector, map[string]float64{
		model.DimExtraversion:      12,  // clamped to +5
		model.DimConscientiousness: 5,   // 83 clamped to ceiling 80
		model.DimNeuroticism:       -12, // clamped to -5, then 17 to floor 20
		model.DimOpenness:          4,   // absent dimension, ignored
	})

	if got := out[model.DimExtraversion]; got != 45 {
		t.Errorf("extraversion = %v, want 45 (delta clamped to 5)", got)
	}
	if got := out[model.DimConscientiousness]; got != 80 {
		t.Errorf("conscientiousness = %v, want ceiling 80", got)
	}
	if got := out[model.DimNeuroticism]; got != 20 {
		t.Errorf("neuroticism = %v, want floor 20", got)
	}
	if _, ok := out[model.DimOpenness]; ok {
		t.Error("delta on absent dimension must be ignored")
	}
	// Input untouched.
	if vector[model.DimExtraversion] != 40 {
		t.Error("applyDeltas mutated its input")
	}
}

func TestRunTruncatesLabels(t *testing.T) {
	suggestion := applySuggestion(90)
	suggestion.FeatureLabels = []string{"a", "b", "c", "d", "e", "f", "g"}
	f := newBrushUpFixture(&fakeEvaluator{suggestion: suggestion})
	seedDiagnosis(f, "u1")

	if _, err := f.svc.Run(context.Background(), "u1", model.TriggerInitial, ""); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(f.diagnosisRepo.current["u1"].FeatureLabels); got != maxFeatureLabels {
		t.Errorf("labels = %d, want cap %d", got, maxFeatureLabels)
	}
}

func TestRunKeepsLabelsWhenSuggestionEmpty(t *testing.T) {
	suggestion := applySuggestion(90)
	suggestion.FeatureLabels = nil
	f := newBrushUpFixture(&fakeEvaluator{suggestion: suggestion})
	seedDiagnosis(f, "u1")

	if _, err := f.svc.Run(context.Background(), "u1", model.TriggerInitial, ""); err != nil {
		t.Fatalf("Run: %v", err)
	}
	labels := f.diagnosisRepo.current["u1"].FeatureLabels
	if len(labels) != 2 || labels[0] != "Systematic" {
		t.Errorf("labels = %v, want the current set kept", labels)
	}
}

func TestGetVersionDiff(t *testing.T) {
	ctx := context.Background()
	f := newBrushUpFixture(&fakeEvaluator{})

	f.auditRepo.entries = append(f.auditRepo.entries, &model.AuditLogEntry{
		ID:           "audit-1",
		Confidence:   82,
		RiskFlag:     true,
		ModelVersion: "fake-model",
	})
	f.brushUpRepo.entries = append(f.brushUpRepo.entries, &model.BrushUpHistory{
		ID:          "hist-1",
		UserID:      "u1",
		Version:     "1.1",
		TriggerType: model.TriggerEvaluationAdded,
		AuditLogID:  "audit-1",
		PreviousData: model.DiagnosisSnapshot{
			FeatureLabels: []string{"Systematic", "Reserved"},
			BigFive:       model.TraitVector{model.DimExtraversion: 40, model.DimOpenness: 60},
		},
		UpdatedData: model.DiagnosisSnapshot{
			FeatureLabels: []string{"Systematic", "Composed"},
			BigFive:       model.TraitVector{model.DimExtraversion: 43, model.DimOpenness: 60},
		},
		AIReasoning: "more outgoing in interviews",
	})

	diff, err := f.svc.GetVersionDiff(ctx, "hist-1")
	if err != nil {
		t.Fatalf("GetVersionDiff: %v", err)
	}
	if len(diff.AddedLabels) != 1 || diff.AddedLabels[0] != "Composed" {
		t.Errorf("addedLabels = %v, want [Composed]", diff.AddedLabels)
	}
	if len(diff.RemovedLabels) != 1 || diff.RemovedLabels[0] != "Reserved" {
		t.Errorf("removedLabels = %v, want [Reserved]", diff.RemovedLabels)
	}
	if len(diff.BigFive) != 1 {
		t.Fatalf("bigFive deltas = %+v, want only the changed dimension", diff.BigFive)
	}
	delta := diff.BigFive[0]
	if delta.Dimension != model.DimExtraversion || delta.Delta != 3 {
		t.Errorf("delta = %+v, want extraversion +3", delta)
	}
	if diff.Confidence != 82 || !diff.RiskFlag || diff.ModelVersion != "fake-model" {
		t.Errorf("audit join missing: %+v", diff)
	}
}

func TestGetVersionDiffNotFound(t *testing.T) {
	f := newBrushUpFixture(&fakeEvaluator{})
	_, err := f.svc.GetVersionDiff(context.Background(), "missing")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListHistory(t *testing.T) {
	f := newBrushUpFixture(&fakeEvaluator{})
	f.brushUpRepo.entries = append(f.brushUpRepo.entries,
		&model.BrushUpHistory{ID: "h1", UserID: "u1"},
		&model.BrushUpHistory{ID: "h2", UserID: "u2"},
		&model.BrushUpHistory{ID: "h3", UserID: "u1"},
	)

	got, err := f.svc.ListHistory(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d rows, want 2", len(got))
	}
}
