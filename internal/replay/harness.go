package replay

// #region imports
import (
	"fmt"

	"github.com/danielpatrickdp/faqforge/internal/orchestrator"
)

// #endregion

// #region result-types

// CaseResult is the outcome of replaying one case through the evaluator.
type CaseResult struct {
	ID       string
	Score    float64
	Level    string
	Scenario string
	Pass     bool
	Reason   string
}

// Summary aggregates a replay run.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// #endregion result-types

// #region replay

// Replay runs every fixture case through the evaluator and failure
// classifier and checks it against the recorded expectations. Pure and
// in-memory; no store or model involved.
func Replay(f Fixture) ([]CaseResult, Summary) {
	results := make([]CaseResult, 0, len(f.Cases))
	var sum Summary

	for _, c := range f.Cases {
		score := orchestrator.EvaluateQuality(c.Candidate, c.Prompt)
		scenario := orchestrator.ClassifyFailure(score)

		res := CaseResult{
			ID:       c.ID,
			Score:    score.Overall,
			Level:    string(score.Level),
			Scenario: string(scenario),
			Pass:     true,
		}

		if c.Expect.Level != "" && c.Expect.Level != res.Level {
			res.Pass = false
			res.Reason = fmt.Sprintf("level %s, expected %s", res.Level, c.Expect.Level)
		}
		if res.Pass && c.Expect.Scenario != "" && c.Expect.Scenario != res.Scenario {
			res.Pass = false
			res.Reason = fmt.Sprintf("scenario %s, expected %s", res.Scenario, c.Expect.Scenario)
		}
		if res.Pass && c.Expect.MinScore > 0 && res.Score < c.Expect.MinScore {
			res.Pass = false
			res.Reason = fmt.Sprintf("score %.3f below min %.3f", res.Score, c.Expect.MinScore)
		}
		if res.Pass && c.Expect.MaxScore > 0 && res.Score > c.Expect.MaxScore {
			res.Pass = false
			res.Reason = fmt.Sprintf("score %.3f above max %.3f", res.Score, c.Expect.MaxScore)
		}

		sum.Total++
		if res.Pass {
			sum.Passed++
		} else {
			sum.Failed++
		}
		results = append(results, res)
	}

	return results, sum
}

// #endregion replay
