package service

import (
	"math"

	"talentscope/internal/model"
)

// Reliability issue codes
const (
	IssueStraightLining = "straight_lining"
	IssueExtremity      = "extreme_responding"
	IssueLowVariance    = "low_variance"
)

// ReliabilityCheck is the verdict of the response-pattern heuristics.
type ReliabilityCheck struct {
	Status model.ReliabilityStatus
	Issues []string
}

// IsReliable reports whether no heuristic fired.
func (c ReliabilityCheck) IsReliable() bool {
	return len(c.Issues) == 0
}

// CheckReliability runs the response-pattern heuristics over the raw 1-7
// scores in questionnaire order. Zero issues is RELIABLE, two or more is
// UNRELIABLE, one is NEEDS_REVIEW.
func CheckReliability(rawScores []int) ReliabilityCheck {
	var issues []string

	if longestRun(rawScores) >= straightLineRunThreshold {
		issues = append(issues, IssueStraightLining)
	}
	if len(rawScores) > 0 {
		extremes := 0
		for _, s := range rawScores {
			if s == model.MinAnswerScore || s == model.MaxAnswerScore {
				extremes++
			}
		}
		if float64(extremes)/float64(len(rawScores)) > extremityFraction {
			issues = append(issues, IssueExtremity)
		}
	}
	if len(rawScores) > 0 && populationStdDev(rawScores) < lowVarianceStdDev {
		issues = append(issues, IssueLowVariance)
	}

	status := model.ReliabilityReliable
	switch {
	case len(issues) >= 2:
		status = model.ReliabilityUnreliable
	case len(issues) == 1:
		status = model.ReliabilityNeedsReview
	}
	return ReliabilityCheck{Status: status, Issues: issues}
}

func longestRun(scores []int) int {
	longest, run := 0, 0
	for i, s := range scores {
		if i > 0 && s == scores[i-1] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func populationStdDev(scores []int) float64 {
	n := float64(len(scores))
	var sum float64
	for _, s := range scores {
		sum += float64(s)
	}
	mean := sum / n

	var variance float64
	for _, s := range scores {
		d := float64(s) - mean
		variance += d * d
	}
	return math.Sqrt(variance / n)
}
