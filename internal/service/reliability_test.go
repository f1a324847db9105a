package service

import (
	"testing"

	"talentscope/internal/model"
)

func repeat(score, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = score
	}
	return out
}

func TestCheckReliabilityClean(t *testing.T) {
	scores := []int{2, 5, 3, 6, 4, 1, 7, 3, 5, 2, 6, 4}
	check := CheckReliability(scores)
	if !check.IsReliable() {
		t.Fatalf("issues = %v, want none", check.Issues)
	}
	if check.Status != model.ReliabilityReliable {
		t.Errorf("status = %s, want RELIABLE", check.Status)
	}
}

func TestCheckReliabilityStraightLining(t *testing.T) {
	// Ten identical answers in a row, embedded in otherwise varied data so
	// only the run heuristic fires.
	scores := append(repeat(4, 10), 1, 7, 2, 6, 3, 5)
	check := CheckReliability(scores)
	if len(check.Issues) != 1 || check.Issues[0] != IssueStraightLining {
		t.Fatalf("issues = %v, want [%s]", check.Issues, IssueStraightLining)
	}
	if check.Status != model.ReliabilityNeedsReview {
		t.Errorf("status = %s, want NEEDS_REVIEW", check.Status)
	}
}

func TestCheckReliabilityRunBelowThreshold(t *testing.T) {
	scores := append(repeat(4, 9), 1, 7, 2, 6, 3, 5, 1, 7)
	check := CheckReliability(scores)
	for _, issue := range check.Issues {
		if issue == IssueStraightLining {
			t.Errorf("run of 9 must not trigger straight-lining: %v", check.Issues)
		}
	}
}

func TestCheckReliabilityExtremity(t *testing.T) {
	// 8 of 10 answers on the scale endpoints.
	scores := []int{1, 7, 1, 7, 1, 7, 1, 7, 4, 4}
	check := CheckReliability(scores)
	if len(check.Issues) != 1 || check.Issues[0] != IssueExtremity {
		t.Fatalf("issues = %v, want [%s]", check.Issues, IssueExtremity)
	}
	if check.Status != model.ReliabilityNeedsReview {
		t.Errorf("status = %s, want NEEDS_REVIEW", check.Status)
	}
}

func TestCheckReliabilityExtremityBoundary(t *testing.T) {
	// Exactly 70% extremes does not fire; the heuristic is strictly greater.
	scores := []int{1, 7, 1, 7, 1, 7, 1, 4, 2, 6}
	check := CheckReliability(scores)
	for _, issue := range check.Issues {
		if issue == IssueExtremity {
			t.Errorf("70%% extremes must not trigger: %v", check.Issues)
		}
	}
}

func TestCheckReliabilityUnreliable(t *testing.T) {
	// A flat response set trips both straight-lining and low variance.
	check := CheckReliability(repeat(4, 12))
	if len(check.Issues) < 2 {
		t.Fatalf("issues = %v, want at least 2", check.Issues)
	}
	if check.Status != model.ReliabilityUnreliable {
		t.Errorf("status = %s, want UNRELIABLE", check.Status)
	}
}

func TestCheckReliabilityEmpty(t *testing.T) {
	check := CheckReliability(nil)
	if !check.IsReliable() {
		t.Errorf("empty input must not raise issues: %v", check.Issues)
	}
}

func TestLongestRun(t *testing.T) {
	cases := []struct {
		scores []int
		want   int
	}{
		{nil, 0},
		{[]int{5}, 1},
		{[]int{5, 5, 5}, 3},
		{[]int{1, 2, 2, 3, 3, 3, 1}, 3},
	}
	for _, c := range cases {
		if got := longestRun(c.scores); got != c.want {
			t.Errorf("longestRun(%v) = %d, want %d", c.scores, got, c.want)
		}
	}
}
