package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"talentscope/internal/cache"
	"talentscope/internal/model"
	"talentscope/internal/repository"
	"talentscope/pkg/logger"
)

// ScoringService converts a completed answer set into a versioned
// DiagnosisResult with potential scores.
type ScoringService struct {
	questionRepo   repository.QuestionRepo
	answerRepo     repository.AnswerRepo
	diagnosisRepo  repository.DiagnosisRepo
	similarityRepo repository.SimilarityRepo
	simCache       cache.SimilarMembersCache
	log            *logger.Logger
}

func NewScoringService(
	questionRepo repository.QuestionRepo,
	answerRepo repository.AnswerRepo,
	diagnosisRepo repository.DiagnosisRepo,
	similarityRepo repository.SimilarityRepo,
	simCache cache.SimilarMembersCache,
	log *logger.Logger,
) *ScoringService {
	return &ScoringService{
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		diagnosisRepo:  diagnosisRepo,
		similarityRepo: similarityRepo,
		simCache:       simCache,
		log:            log,
	}
}

// ScoredTraits is the pure scoring output before persistence concerns.
type ScoredTraits struct {
	BigFive           model.TraitVector
	ThinkingPattern   model.TraitVector
	BehaviorPattern   model.TraitVector
	TypeCode          string
	TypeName          string
	FeatureLabels     []string
	ReliabilityStatus model.ReliabilityStatus
	ReliabilityIssues []string
	StressTolerance   model.StressTolerance
}

// CompleteDiagnosis scores the user's answers, persists the diagnosis and
// replaces its potential scores atomically, then invalidates the user's
// similarity entries. The whole write aborts on any repository error.
func (s *ScoringService) CompleteDiagnosis(ctx context.Context, userID string) (*model.DiagnosisResult, []*model.PotentialScore, error) {
	questions, err := s.questionRepo.GetActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}
	answers, err := s.answerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load answers: %w", err)
	}

	// Stored answers can outlive their question's active flag; retakes
	// only score against the current question set.
	active := make(map[string]bool, len(questions))
	for _, q := range questions {
		active[q.ID] = true
	}
	scorable := make([]*model.Answer, 0, len(answers))
	for _, a := range answers {
		if active[a.QuestionID] {
			scorable = append(scorable, a)
		}
	}

	traits, err := ScoreAnswers(scorable, questions)
	if err != nil {
		return nil, nil, err
	}

	prior, err := s.diagnosisRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load current diagnosis: %w", err)
	}

	now := time.Now()
	result := &model.DiagnosisResult{
		UserID:            userID,
		TypeCode:          traits.TypeCode,
		TypeName:          traits.TypeName,
		FeatureLabels:     traits.FeatureLabels,
		ReliabilityStatus: traits.ReliabilityStatus,
		ReliabilityIssues: traits.ReliabilityIssues,
		StressTolerance:   traits.StressTolerance,
		BigFive:           traits.BigFive,
		ThinkingPattern:   traits.ThinkingPattern,
		BehaviorPattern:   traits.BehaviorPattern,
		CompletedAt:       now,
		UpdatedAt:         now,
	}

	expectedVersion := ""
	if prior == nil {
		result.ID = uuid.NewString()
		result.Version = model.InitialVersion
	} else {
		result.ID = prior.ID
		expectedVersion = prior.Version
		result.Version, err = model.NextVersion(prior.Version)
		if err != nil {
			return nil, nil, fmt.Errorf("increment version: %w", err)
		}
	}

	potentials := computePotentialScores(result.ID, traits)

	if err := s.diagnosisRepo.SaveCurrent(ctx, result, potentials, expectedVersion); err != nil {
		return nil, nil, fmt.Errorf("save diagnosis: %w", err)
	}

	s.invalidateSimilarity(ctx, userID)

	s.log.Info("diagnosis completed",
		"userId", userID,
		"type", result.TypeCode,
		"version", result.Version,
		"reliability", result.ReliabilityStatus,
	)
	return result, potentials, nil
}

// GetDiagnosis returns the user's current diagnosis with potential scores.
func (s *ScoringService) GetDiagnosis(ctx context.Context, userID string) (*model.DiagnosisResult, []*model.PotentialScore, error) {
	result, err := s.diagnosisRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if result == nil {
		return nil, nil, fmt.Errorf("diagnosis for user %s: %w", userID, model.ErrNotFound)
	}
	potentials, err := s.diagnosisRepo.GetPotentials(ctx, result.ID)
	if err != nil {
		return nil, nil, err
	}
	return result, potentials, nil
}

// SubmitAnswers validates and upserts a batch of answers.
func (s *ScoringService) SubmitAnswers(ctx context.Context, userID string, answers []*model.Answer) error {
	questions, err := s.questionRepo.GetActive(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for _, a := range answers {
		a.UserID = userID
		if !known[a.QuestionID] {
			return &model.ValidationError{Field: "questionId", Reason: fmt.Sprintf("unknown question %s", a.QuestionID)}
		}
		if a.Score < model.MinAnswerScore || a.Score > model.MaxAnswerScore {
			return &model.ValidationError{Field: "score", Reason: fmt.Sprintf("score %d outside [%d,%d]", a.Score, model.MinAnswerScore, model.MaxAnswerScore)}
		}
	}
	return s.answerRepo.UpsertMany(ctx, answers)
}

// Stale similarity entries only mislead; a failed invalidation is logged
// and the TTL bounds the damage.
func (s *ScoringService) invalidateSimilarity(ctx context.Context, userID string) {
	if err := s.similarityRepo.DeleteByUserID(ctx, userID); err != nil {
		s.log.Warn("similarity row invalidation failed", "userId", userID, "error", err)
	}
	if err := s.simCache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("similarity cache invalidation failed", "userId", userID, "error", err)
	}
}

// ScoreAnswers is the pure scoring core: answers + questions in, trait
// vectors and classifications out. Every active question must have exactly
// one in-range answer.
func ScoreAnswers(answers []*model.Answer, questions []*model.Question) (*ScoredTraits, error) {
	ordered := make([]*model.Question, len(questions))
	copy(ordered, questions)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Page != ordered[j].Page {
			return ordered[i].Page < ordered[j].Page
		}
		return ordered[i].OrderNumber < ordered[j].OrderNumber
	})

	byQuestion := make(map[string]*model.Answer, len(answers))
	questionIDs := make(map[string]bool, len(ordered))
	for _, q := range ordered {
		questionIDs[q.ID] = true
	}
	for _, a := range answers {
		if !questionIDs[a.QuestionID] {
			return nil, &model.ValidationError{Field: "questionId", Reason: fmt.Sprintf("unknown question %s", a.QuestionID)}
		}
		if a.Score < model.MinAnswerScore || a.Score > model.MaxAnswerScore {
			return nil, &model.ValidationError{Field: "score", Reason: fmt.Sprintf("score %d outside [%d,%d]", a.Score, model.MinAnswerScore, model.MaxAnswerScore)}
		}
		byQuestion[a.QuestionID] = a
	}

	rawScores := make([]int, 0, len(ordered))
	categoryScores := make(map[model.QuestionCategory][]float64)
	thinkingScores := make(map[string][]float64)

	for _, q := range ordered {
		a, ok := byQuestion[q.ID]
		if !ok {
			return nil, &model.ValidationError{Field: "answers", Reason: fmt.Sprintf("question %s has no answer", q.ID)}
		}
		rawScores = append(rawScores, a.Score)

		score := float64(a.Score)
		if q.IsReverse {
			score = float64(a.ReversedScore())
		}
		categoryScores[q.Category] = append(categoryScores[q.Category], score)

		if q.Category == model.CategoryThinking {
			if !isThinkingDimension(q.SubDimension) {
				return nil, &model.ValidationError{Field: "subDimension", Reason: fmt.Sprintf("question %s declares unknown sub-dimension %q", q.ID, q.SubDimension)}
			}
			thinkingScores[q.SubDimension] = append(thinkingScores[q.SubDimension], score)
		}
	}

	bigFive := make(model.TraitVector, len(model.BigFiveDimensions))
	for category, dim := range model.BigFiveCategories {
		bigFive[dim] = scaleAverage(categoryScores[category])
	}

	thinking := make(model.TraitVector, len(model.ThinkingDimensions))
	for _, dim := range model.ThinkingDimensions {
		thinking[dim] = scaleAverage(thinkingScores[dim])
	}

	behavior := make(model.TraitVector, len(behaviorRules))
	merged := mergeVectors(bigFive, thinking)
	for _, rule := range behaviorRules {
		behavior[rule.dimension] = math.Round((merged[rule.sourceA] + merged[rule.sourceB]) / 2)
	}

	typeCode := classifyType(bigFive, thinking)
	reliability := CheckReliability(rawScores)

	return &ScoredTraits{
		BigFive:           bigFive,
		ThinkingPattern:   thinking,
		BehaviorPattern:   behavior,
		TypeCode:          typeCode,
		TypeName:          model.TypeNames[typeCode],
		FeatureLabels:     featureLabels(bigFive, thinking),
		ReliabilityStatus: reliability.Status,
		ReliabilityIssues: reliability.Issues,
		StressTolerance:   stressTolerance(bigFive),
	}, nil
}

// scaleAverage maps a 1-7 average onto 0-100; an empty group is neutral.
func scaleAverage(scores []float64) float64 {
	if len(scores) == 0 {
		return 50
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))
	return math.Round((avg - 1) / 6 * 100)
}

func isThinkingDimension(dim string) bool {
	for _, d := range model.ThinkingDimensions {
		if d == dim {
			return true
		}
	}
	return false
}

func mergeVectors(vectors ...model.TraitVector) model.TraitVector {
	merged := make(model.TraitVector)
	for _, v := range vectors {
		for dim, val := range v {
			merged[dim] = val
		}
	}
	return merged
}

func classifyType(bigFive, thinking model.TraitVector) string {
	key := [2]bool{bigFive.Get(model.DimExtraversion) >= 50, thinking.Get(model.DimLogical) >= 50}
	if code, ok := typeTable[key]; ok {
		return code
	}
	return defaultType
}

func featureLabels(bigFive, thinking model.TraitVector) []string {
	labels := make([]string, 0, maxFeatureLabels)
	for _, rule := range labelRules {
		vector := bigFive
		if rule.vector == "thinkingPattern" {
			vector = thinking
		}
		value := vector.Get(rule.dimension)
		switch {
		case rule.highLabel != "" && value >= labelHighThreshold:
			labels = append(labels, rule.highLabel)
		case rule.lowLabel != "" && value <= labelLowThreshold:
			labels = append(labels, rule.lowLabel)
		}
		if len(labels) == maxFeatureLabels {
			break
		}
	}
	return labels
}

func stressTolerance(bigFive model.TraitVector) model.StressTolerance {
	score := 100 - bigFive.Get(model.DimNeuroticism)
	switch {
	case score >= stressHighThreshold:
		return model.StressToleranceHigh
	case score >= stressMediumThreshold:
		return model.StressToleranceMedium
	default:
		return model.StressToleranceLow
	}
}

func computePotentialScores(diagnosisResultID string, traits *ScoredTraits) []*model.PotentialScore {
	merged := mergeVectors(traits.BigFive, traits.ThinkingPattern)
	scores := make([]*model.PotentialScore, 0, len(jobWeightTables))
	for _, table := range jobWeightTables {
		var weighted, totalWeight float64
		for dim, weight := range table.weights {
			value := merged.Get(dim)
			if weight < 0 {
				weighted += (100 - value) * -weight
			} else {
				weighted += value * weight
			}
			totalWeight += math.Abs(weight)
		}
		score := model.Round1(weighted / totalWeight)
		scores = append(scores, &model.PotentialScore{
			ID:                uuid.NewString(),
			DiagnosisResultID: diagnosisResultID,
			JobType:           table.jobType,
			Grade:             gradeForScore(score),
			Score:             score,
		})
	}
	return scores
}
