package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"talentscope/internal/cache"
	"talentscope/internal/model"
	"talentscope/internal/repository"
	"talentscope/pkg/logger"
)

// Similarity defaults and constants
const (
	DefaultMinSimilarity = 70.0
	DefaultSimilarLimit  = 10

	differingFactorThreshold = 15.0

	// maxDimensionSpread normalizes the euclidean distance. Scores span
	// [0,100]; the post-brush-up [20,80] band is a strict subset, so the
	// full spread is the sound bound for both.
	maxDimensionSpread = 100.0
)

// SimilarityService computes pairwise similarity between users' trait
// vectors, maintains the persisted similarity rows, and serves the
// read-through cache. The metric runs over the bigFive vector.
type SimilarityService struct {
	diagnosisRepo  repository.DiagnosisRepo
	similarityRepo repository.SimilarityRepo
	simCache       cache.SimilarMembersCache
	workers        int64
	log            *logger.Logger
}

func NewSimilarityService(
	diagnosisRepo repository.DiagnosisRepo,
	similarityRepo repository.SimilarityRepo,
	simCache cache.SimilarMembersCache,
	workers int,
	log *logger.Logger,
) *SimilarityService {
	if workers < 1 {
		workers = 1
	}
	return &SimilarityService{
		diagnosisRepo:  diagnosisRepo,
		similarityRepo: similarityRepo,
		simCache:       simCache,
		workers:        int64(workers),
		log:            log,
	}
}

// CosineSimilarity is the cosine of the two vectors over their shared
// dimensions, scaled to [0,100]. Zero-magnitude vectors score 0.
func CosineSimilarity(a, b model.TraitVector) float64 {
	dims := a.SharedDimensions(b)
	var dot, magA, magB float64
	for _, d := range dims {
		dot += a[d] * b[d]
		magA += a[d] * a[d]
		magB += b[d] * b[d]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return math.Round(dot / (math.Sqrt(magA) * math.Sqrt(magB)) * 100)
}

// EuclideanSimilarity maps euclidean distance onto [0,100], 100 meaning
// identical vectors.
func EuclideanSimilarity(a, b model.TraitVector) float64 {
	dims := a.SharedDimensions(b)
	if len(dims) == 0 {
		return 0
	}
	var sumSq float64
	for _, d := range dims {
		diff := a[d] - b[d]
		sumSq += diff * diff
	}
	distance := math.Sqrt(sumSq)
	maxDistance := math.Sqrt(float64(len(dims)) * maxDimensionSpread * maxDimensionSpread)
	return math.Round(math.Max(0, (1-distance/maxDistance)*100))
}

// CombinedSimilarity averages the cosine and euclidean measures.
func CombinedSimilarity(a, b model.TraitVector) float64 {
	return math.Round((CosineSimilarity(a, b) + EuclideanSimilarity(a, b)) / 2)
}

// DifferingFactors lists display names of dimensions whose values diverge
// by at least threshold, largest divergence first.
func DifferingFactors(a, b model.TraitVector, threshold float64) []string {
	dims := a.SharedDimensions(b)
	type factor struct {
		dim  string
		diff float64
	}
	var factors []factor
	for _, d := range dims {
		if diff := math.Abs(a[d] - b[d]); diff >= threshold {
			factors = append(factors, factor{dim: d, diff: diff})
		}
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].diff > factors[j].diff
	})

	names := make([]string, 0, len(factors))
	for _, f := range factors {
		name := model.DimensionDisplayNames[f.dim]
		if name == "" {
			name = f.dim
		}
		names = append(names, name)
	}
	return names
}

// FindSimilarMembers scans the cohort's current vectors against the target
// user. Results are not persisted.
func (s *SimilarityService) FindSimilarMembers(ctx context.Context, userID string, minSimilarity float64, limit int) ([]*model.SimilarityScore, error) {
	target, err := s.diagnosisRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("diagnosis for user %s: %w", userID, model.ErrNotFound)
	}

	cohort, err := s.diagnosisRepo.ListCurrent(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var matches []*model.SimilarityScore
	for _, member := range cohort {
		if member.UserID == userID || len(member.BigFive) == 0 {
			continue
		}
		similarity := CombinedSimilarity(target.BigFive, member.BigFive)
		if similarity < minSimilarity {
			continue
		}
		matches = append(matches, &model.SimilarityScore{
			UserID:               userID,
			SimilarUserID:        member.UserID,
			SimilarityPercentage: similarity,
			DifferingFactors:     DifferingFactors(target.BigFive, member.BigFive, differingFactorThreshold),
			CalculatedAt:         now,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityPercentage > matches[j].SimilarityPercentage
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// ComputeCohortMatrix recomputes every unordered pair in the cohort and
// upserts both directional rows per pair. Workers are bounded and a failing
// write is counted, logged and skipped; it never aborts the batch.
func (s *SimilarityService) ComputeCohortMatrix(ctx context.Context) (*model.MatrixReport, error) {
	cohort, err := s.diagnosisRepo.ListCurrent(ctx)
	if err != nil {
		return nil, err
	}

	members := make([]*model.DiagnosisResult, 0, len(cohort))
	for _, m := range cohort {
		if len(m.BigFive) > 0 {
			members = append(members, m)
		}
	}

	report := &model.MatrixReport{Members: len(members)}
	sem := semaphore.NewWeighted(s.workers)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			report.Pairs++
			if err := sem.Acquire(ctx, 1); err != nil {
				return report, err
			}
			wg.Add(1)
			go func(a, b *model.DiagnosisResult) {
				defer sem.Release(1)
				defer wg.Done()

				similarity := CombinedSimilarity(a.BigFive, b.BigFive)
				factors := DifferingFactors(a.BigFive, b.BigFive, differingFactorThreshold)
				now := time.Now()

				err := s.similarityRepo.UpsertPair(ctx,
					&model.SimilarityScore{
						UserID:               a.UserID,
						SimilarUserID:        b.UserID,
						SimilarityPercentage: similarity,
						DifferingFactors:     factors,
						CalculatedAt:         now,
					},
					&model.SimilarityScore{
						UserID:               b.UserID,
						SimilarUserID:        a.UserID,
						SimilarityPercentage: similarity,
						DifferingFactors:     factors,
						CalculatedAt:         now,
					},
				)

				mu.Lock()
				if err != nil {
					report.Failed++
					s.log.Warn("similarity pair upsert failed", "userA", a.UserID, "userB", b.UserID, "error", err)
				} else {
					report.Upserted++
				}
				mu.Unlock()
			}(members[i], members[j])
		}
	}
	wg.Wait()

	s.log.Info("cohort similarity matrix computed",
		"members", report.Members,
		"pairs", report.Pairs,
		"failed", report.Failed,
	)
	return report, nil
}

// CachedSimilarMembers is the read-through lookup: Redis, then the
// persisted similarity rows, then a live cohort scan. The live fallback is
// not written back.
func (s *SimilarityService) CachedSimilarMembers(ctx context.Context, userID string, minSimilarity float64, limit int) ([]*model.SimilarityScore, error) {
	if cached, err := s.simCache.Get(ctx, userID, minSimilarity, limit); err != nil {
		s.log.Warn("similarity cache read failed", "userId", userID, "error", err)
	} else if len(cached) > 0 {
		return cached, nil
	}

	stored, err := s.similarityRepo.GetByUserID(ctx, userID, minSimilarity, limit)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		if err := s.simCache.Set(ctx, userID, minSimilarity, limit, stored); err != nil {
			s.log.Warn("similarity cache write failed", "userId", userID, "error", err)
		}
		return stored, nil
	}

	return s.FindSimilarMembers(ctx, userID, minSimilarity, limit)
}
