package orchestrator

// #region imports
import (
	"context"

	"github.com/danielpatrickdp/faqforge/internal/faq"
)

// #endregion

// #region scenario-code

// ScenarioCode classifies why a generation attempt failed quality scoring.
// The set is closed; unrecognized codes are treated as ScenarioQualityLow.
type ScenarioCode string

const (
	ScenarioSuccess    ScenarioCode = "success"
	ScenarioIncomplete ScenarioCode = "incomplete_response"
	ScenarioLength     ScenarioCode = "length_issue"
	ScenarioStructure  ScenarioCode = "structure_issue"
	ScenarioRelevance  ScenarioCode = "relevance_issue"
	ScenarioQualityLow ScenarioCode = "quality_low"
)

// #endregion

// #region quality-level

// QualityLevel bands the overall score.
type QualityLevel string

const (
	LevelExcellent  QualityLevel = "excellent"
	LevelGood       QualityLevel = "good"
	LevelAcceptable QualityLevel = "acceptable"
	LevelPoor       QualityLevel = "poor"
	LevelFailed     QualityLevel = "failed"
)

// #endregion

// #region quality-score

// Breakdown holds the per-metric sub-scores, each in [0,1].
type Breakdown struct {
	Completeness float64 `json:"completeness"`
	Length       float64 `json:"length"`
	Structure    float64 `json:"structure"`
	Relevance    float64 `json:"relevance"`
}

// QualityScore is the full evaluation of one candidate. Computed fresh per
// attempt, never persisted individually.
type QualityScore struct {
	Overall   float64      `json:"score"`
	Breakdown Breakdown    `json:"breakdown"`
	Level     QualityLevel `json:"level"`
	Passed    bool         `json:"passed"`
}

// #endregion

// #region strategy

// Strategy is a named parameter override targeting one failure scenario.
type Strategy struct {
	Name   string
	Config faq.ParameterConfig
}

// #endregion

// #region attempt

// Attempt records one generation-plus-scoring cycle within a request.
type Attempt struct {
	Strategy   string              `json:"strategy"`
	Config     faq.ParameterConfig `json:"config"`
	Score      QualityScore        `json:"score"`
	DurationMs int64               `json:"duration_ms"`
	Err        string              `json:"error,omitempty"`
}

// #endregion

// #region result

// Result is the outcome of one learning-loop request. On failure the FAQ and
// Quality fields carry the best-scoring attempt seen, which may be zero when
// every generation call errored.
type Result struct {
	RequestID    string
	Success      bool
	FAQ          faq.FAQ
	Quality      QualityScore
	AttemptCount int
	Attempts     []Attempt
	Warning      string // non-fatal store write failure after a pass
}

// #endregion

// #region collaborators

// Generator produces one candidate for a prompt under the given sampling
// config. Implementations block until the upstream call completes.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg faq.ParameterConfig) (faq.FAQ, error)
}

// ParameterStore persists the best-known config per scenario code.
type ParameterStore interface {
	// GetBest returns the learned config for a code, or ok=false when none
	// is stored. Errors are the caller's to degrade.
	GetBest(ctx context.Context, code string) (faq.ParameterConfig, bool, error)
	// Upsert applies the keep-better rule: insert with successCount=1, or
	// increment successCount and replace the config only on a strictly
	// higher score.
	Upsert(ctx context.Context, code string, cfg faq.ParameterConfig, score float64) error
}

// AuditSink receives the finished attempt log. Fire-and-forget; it must
// never return control-flow-relevant failures.
type AuditSink interface {
	Append(requestID, prompt string, res Result)
}

// #endregion
