package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"talentscope/internal/model"
)

// In-memory repository fakes shared by the service tests.

type fakeQuestionRepo struct {
	questions []*model.Question
}

func (f *fakeQuestionRepo) Create(ctx context.Context, q *model.Question) error {
	f.questions = append(f.questions, q)
	return nil
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}

func (f *fakeQuestionRepo) GetActive(ctx context.Context) ([]*model.Question, error) {
	var active []*model.Question
	for _, q := range f.questions {
		if q.IsActive {
			active = append(active, q)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].Page != active[j].Page {
			return active[i].Page < active[j].Page
		}
		return active[i].OrderNumber < active[j].OrderNumber
	})
	return active, nil
}

func (f *fakeQuestionRepo) GetAll(ctx context.Context) ([]*model.Question, error) {
	return f.questions, nil
}

type fakeAnswerRepo struct {
	answers map[string][]*model.Answer // by userID
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[string][]*model.Answer)}
}

func (f *fakeAnswerRepo) Upsert(ctx context.Context, a *model.Answer) error {
	existing := f.answers[a.UserID]
	for i, e := range existing {
		if e.QuestionID == a.QuestionID {
			existing[i] = a
			return nil
		}
	}
	f.answers[a.UserID] = append(existing, a)
	return nil
}

func (f *fakeAnswerRepo) UpsertMany(ctx context.Context, answers []*model.Answer) error {
	for _, a := range answers {
		if err := f.Upsert(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAnswerRepo) GetByUserID(ctx context.Context, userID string) ([]*model.Answer, error) {
	return f.answers[userID], nil
}

type fakeDiagnosisRepo struct {
	current    map[string]*model.DiagnosisResult // by userID
	potentials map[string][]*model.PotentialScore
	histories  []*model.BrushUpHistory
	audits     []*model.AuditLogEntry
	applyErr   error
}

func newFakeDiagnosisRepo() *fakeDiagnosisRepo {
	return &fakeDiagnosisRepo{
		current:    make(map[string]*model.DiagnosisResult),
		potentials: make(map[string][]*model.PotentialScore),
	}
}

func (f *fakeDiagnosisRepo) GetCurrentByUserID(ctx context.Context, userID string) (*model.DiagnosisResult, error) {
	// Return a copy, matching the real repo which decodes into fresh
	// structs; the service mutates the loaded diagnosis in place before
	// ApplyBrushUp checks the stored version.
	d, ok := f.current[userID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDiagnosisRepo) ListCurrent(ctx context.Context) ([]*model.DiagnosisResult, error) {
	var results []*model.DiagnosisResult
	for _, d := range f.current {
		results = append(results, d)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].UserID < results[j].UserID })
	return results, nil
}

func (f *fakeDiagnosisRepo) GetPotentials(ctx context.Context, diagnosisResultID string) ([]*model.PotentialScore, error) {
	return f.potentials[diagnosisResultID], nil
}

func (f *fakeDiagnosisRepo) SaveCurrent(ctx context.Context, result *model.DiagnosisResult, potentials []*model.PotentialScore, expectedVersion string) error {
	if expectedVersion != "" {
		stored, ok := f.current[result.UserID]
		if !ok || stored.Version != expectedVersion {
			return model.ErrVersionConflict
		}
	}
	f.current[result.UserID] = result
	f.potentials[result.ID] = potentials
	return nil
}

func (f *fakeDiagnosisRepo) ApplyBrushUp(ctx context.Context, result *model.DiagnosisResult, expectedVersion string, history *model.BrushUpHistory, audit *model.AuditLogEntry) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	stored, ok := f.current[result.UserID]
	if !ok || stored.Version != expectedVersion {
		return model.ErrVersionConflict
	}
	f.current[result.UserID] = result
	f.audits = append(f.audits, audit)
	f.histories = append(f.histories, history)
	return nil
}

type fakeSimilarityRepo struct {
	mu      sync.Mutex
	scores  map[string][]*model.SimilarityScore // by userID
	deleted []string
	failFor map[string]bool // fail upserts touching these user ids
}

func newFakeSimilarityRepo() *fakeSimilarityRepo {
	return &fakeSimilarityRepo{
		scores:  make(map[string][]*model.SimilarityScore),
		failFor: make(map[string]bool),
	}
}

func (f *fakeSimilarityRepo) UpsertPair(ctx context.Context, a, b *model.SimilarityScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[a.UserID] || f.failFor[b.UserID] {
		return fmt.Errorf("simulated write failure")
	}
	for _, score := range []*model.SimilarityScore{a, b} {
		replaced := false
		for i, e := range f.scores[score.UserID] {
			if e.SimilarUserID == score.SimilarUserID {
				f.scores[score.UserID][i] = score
				replaced = true
			}
		}
		if !replaced {
			f.scores[score.UserID] = append(f.scores[score.UserID], score)
		}
	}
	return nil
}

func (f *fakeSimilarityRepo) GetByUserID(ctx context.Context, userID string, minSimilarity float64, limit int) ([]*model.SimilarityScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.SimilarityScore
	for _, s := range f.scores[userID] {
		if s.SimilarityPercentage >= minSimilarity {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SimilarityPercentage > out[j].SimilarityPercentage })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSimilarityRepo) DeleteByUserID(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, userID)
	delete(f.scores, userID)
	for user, list := range f.scores {
		var kept []*model.SimilarityScore
		for _, s := range list {
			if s.SimilarUserID != userID {
				kept = append(kept, s)
			}
		}
		f.scores[user] = kept
	}
	return nil
}

type fakeBrushUpRepo struct {
	entries []*model.BrushUpHistory
}

func (f *fakeBrushUpRepo) GetByID(ctx context.Context, id string) (*model.BrushUpHistory, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeBrushUpRepo) ListByUserID(ctx context.Context, userID string) ([]*model.BrushUpHistory, error) {
	var out []*model.BrushUpHistory
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLogEntry
}

func (f *fakeAuditRepo) Insert(ctx context.Context, entry *model.AuditLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) GetByID(ctx context.Context, id string) (*model.AuditLogEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

type fakeSignalRepo struct {
	secondaries []*model.SecondaryDiagnosis
	evaluations []*model.InterviewEvaluation
}

func (f *fakeSignalRepo) GetSecondaryByUserID(ctx context.Context, userID string) ([]*model.SecondaryDiagnosis, error) {
	var out []*model.SecondaryDiagnosis
	for _, s := range f.secondaries {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSignalRepo) GetRecentEvaluations(ctx context.Context, userID string, limit int) ([]*model.InterviewEvaluation, error) {
	var out []*model.InterviewEvaluation
	for _, e := range f.evaluations {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSignalRepo) InsertSecondary(ctx context.Context, d *model.SecondaryDiagnosis) error {
	f.secondaries = append(f.secondaries, d)
	return nil
}

func (f *fakeSignalRepo) InsertEvaluation(ctx context.Context, e *model.InterviewEvaluation) error {
	f.evaluations = append(f.evaluations, e)
	return nil
}

type fakeSimCache struct {
	mu          sync.Mutex
	entries     map[string][]*model.SimilarityScore
	invalidated []string
}

func newFakeSimCache() *fakeSimCache {
	return &fakeSimCache{entries: make(map[string][]*model.SimilarityScore)}
}

func (f *fakeSimCache) cacheKey(userID string, minSimilarity float64, limit int) string {
	return fmt.Sprintf("%s:%g:%d", userID, minSimilarity, limit)
}

func (f *fakeSimCache) Get(ctx context.Context, userID string, minSimilarity float64, limit int) ([]*model.SimilarityScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[f.cacheKey(userID, minSimilarity, limit)], nil
}

func (f *fakeSimCache) Set(ctx context.Context, userID string, minSimilarity float64, limit int, scores []*model.SimilarityScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[f.cacheKey(userID, minSimilarity, limit)] = scores
	return nil
}

func (f *fakeSimCache) Invalidate(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, userID)
	for key := range f.entries {
		if len(key) >= len(userID) && key[:len(userID)] == userID {
			delete(f.entries, key)
		}
	}
	return nil
}

type fakeEvaluator struct {
	suggestion *BrushUpSuggestion
	err        error
	calls      int
}

func (f *fakeEvaluator) SuggestBrushUp(ctx context.Context, input *BrushUpInput) (*BrushUpSuggestion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.suggestion, nil
}

func (f *fakeEvaluator) ModelVersion() string {
	return "fake-model"
}
