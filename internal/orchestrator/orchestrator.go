package orchestrator

// #region imports
import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/faqforge/internal/faq"
)

// #endregion

// #region constants

const (
	// defaultMaxAttempts bounds total generation calls per request.
	defaultMaxAttempts = 3
	// defaultRequestTimeout caps wall-clock time per request; hitting it is
	// equivalent to exhausting the attempt budget.
	defaultRequestTimeout = 90 * time.Second

	strategyLearned = "learned"
	strategyDefault = "default"
)

// #endregion

// #region orchestrator-struct

// Orchestrator drives the learned → default → adaptive attempt sequence for
// one prompt at a time. Safe for concurrent use; all per-request state is
// local to GenerateWithLearning.
type Orchestrator struct {
	gen         Generator
	store       ParameterStore
	audit       AuditSink
	log         *zap.Logger
	maxAttempts int
	timeout     time.Duration
}

// Option adjusts orchestrator construction.
type Option func(*Orchestrator)

// WithMaxAttempts overrides the per-request generation call budget.
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithRequestTimeout overrides the per-request wall-clock cap. Zero disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// New wires an orchestrator from its collaborators. audit may be nil.
func New(gen Generator, store ParameterStore, audit AuditSink, log *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:         gen,
		store:       store,
		audit:       audit,
		log:         log,
		maxAttempts: defaultMaxAttempts,
		timeout:     defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// #endregion

// #region request-state

// requestState is the per-request ephemeral best-so-far tracking.
type requestState struct {
	attempts  []Attempt
	bestFAQ   faq.FAQ
	bestScore QualityScore
	hasBest   bool
}

// observe runs one generation-plus-scoring cycle and folds it into the log.
// A failed upstream call is a zero-score attempt, never an abort.
func (o *Orchestrator) observe(ctx context.Context, st *requestState, name, prompt string, cfg faq.ParameterConfig) (QualityScore, bool) {
	start := time.Now()
	candidate, err := o.gen.Generate(ctx, prompt, cfg)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		o.log.Warn("generation attempt failed",
			zap.String("strategy", name), zap.Error(err))
		st.attempts = append(st.attempts, Attempt{
			Strategy:   name,
			Config:     cfg,
			Score:      QualityScore{Level: LevelFailed},
			DurationMs: elapsed,
			Err:        err.Error(),
		})
		return QualityScore{Level: LevelFailed}, false
	}

	score := EvaluateQuality(candidate, prompt)
	st.attempts = append(st.attempts, Attempt{
		Strategy:   name,
		Config:     cfg,
		Score:      score,
		DurationMs: elapsed,
	})

	// Strictly-greater keeps the earliest attempt on score ties.
	if !st.hasBest || score.Overall > st.bestScore.Overall {
		st.bestFAQ = candidate
		st.bestScore = score
		st.hasBest = true
	}

	o.log.Debug("attempt scored",
		zap.String("strategy", name),
		zap.Float64("score", score.Overall),
		zap.String("level", string(score.Level)))

	return score, score.Passed
}

// #endregion

// #region generate-with-learning

// GenerateWithLearning runs the full adaptive loop for one prompt: try the
// learned success config if one exists, then the default config, then the
// scenario-specific escalation chain, stopping at the first passing score or
// when the attempt budget or request timeout is exhausted.
func (o *Orchestrator) GenerateWithLearning(ctx context.Context, prompt string) Result {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	st := &requestState{}

	// The deadline is re-checked after every generation call, not just before:
	// a Generator that does not propagate ctx into its I/O can hand back a
	// passing candidate after the cutoff, and that is still an exhausted
	// request, never a pass.

	// --- Learned config, when one was persisted under success ---
	if learned, ok := o.getLearned(ctx); ok && len(st.attempts) < o.maxAttempts && ctx.Err() == nil {
		if score, passed := o.observe(ctx, st, strategyLearned, prompt, learned); passed && ctx.Err() == nil {
			return o.succeed(ctx, requestID, prompt, st, ScenarioSuccess, learned, score)
		}
	}

	// --- Default config ---
	var lastScored QualityScore
	if len(st.attempts) < o.maxAttempts && ctx.Err() == nil {
		score, passed := o.observe(ctx, st, strategyDefault, prompt, faq.DefaultParameterConfig())
		if passed && ctx.Err() == nil {
			return o.succeed(ctx, requestID, prompt, st, ScenarioSuccess, faq.DefaultParameterConfig(), score)
		}
		lastScored = score
	}

	// --- Adaptive escalation from the last attempt's failure scenario ---
	scenario := ClassifyFailure(lastScored)
	for _, strat := range StrategiesFor(scenario) {
		if len(st.attempts) >= o.maxAttempts || ctx.Err() != nil {
			break
		}
		if score, passed := o.observe(ctx, st, strat.Name, prompt, strat.Config); passed && ctx.Err() == nil {
			return o.succeed(ctx, requestID, prompt, st, scenario, strat.Config, score)
		}
	}

	// --- Exhausted: return the best-scoring attempt seen ---
	quality := st.bestScore
	if !st.hasBest {
		// Every call errored; there is no artifact to return.
		quality = QualityScore{Level: LevelFailed}
	}
	res := Result{
		RequestID:    requestID,
		Success:      false,
		FAQ:          st.bestFAQ,
		Quality:      quality,
		AttemptCount: len(st.attempts),
		Attempts:     st.attempts,
	}
	o.log.Info("request exhausted without a passing candidate",
		zap.String("request_id", requestID),
		zap.Int("attempts", res.AttemptCount),
		zap.Float64("best_score", st.bestScore.Overall))
	o.record(requestID, prompt, res)
	return res
}

// #endregion

// #region success-path

// succeed persists the winning config under the scenario code that selected
// it and builds the passing result. A store write failure does not demote
// the result; it is surfaced as a warning.
func (o *Orchestrator) succeed(ctx context.Context, requestID, prompt string, st *requestState, code ScenarioCode, cfg faq.ParameterConfig, score QualityScore) Result {
	res := Result{
		RequestID:    requestID,
		Success:      true,
		FAQ:          st.bestFAQ,
		Quality:      score,
		AttemptCount: len(st.attempts),
		Attempts:     st.attempts,
	}

	if err := o.store.Upsert(ctx, string(code), cfg, score.Overall); err != nil {
		o.log.Warn("parameter store write failed after passing result",
			zap.String("scenario", string(code)), zap.Error(err))
		res.Warning = "parameter learning not persisted: " + err.Error()
	}

	o.log.Info("request passed",
		zap.String("request_id", requestID),
		zap.String("scenario", string(code)),
		zap.Int("attempts", res.AttemptCount),
		zap.Float64("score", score.Overall))
	o.record(requestID, prompt, res)
	return res
}

// #endregion

// #region helpers

// getLearned degrades any store read failure to a cache miss.
func (o *Orchestrator) getLearned(ctx context.Context) (faq.ParameterConfig, bool) {
	cfg, ok, err := o.store.GetBest(ctx, string(ScenarioSuccess))
	if err != nil {
		o.log.Warn("parameter store read failed, proceeding without learned config", zap.Error(err))
		return faq.ParameterConfig{}, false
	}
	return cfg, ok
}

func (o *Orchestrator) record(requestID, prompt string, res Result) {
	if o.audit != nil {
		o.audit.Append(requestID, prompt, res)
	}
}

// #endregion
