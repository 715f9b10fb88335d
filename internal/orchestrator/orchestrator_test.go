package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/faqforge/internal/faq"
)

// #region stubs

type stubGen struct {
	fn func(call int, cfg faq.ParameterConfig) (faq.FAQ, error)

	mu    sync.Mutex
	calls int
}

func (s *stubGen) Generate(_ context.Context, _ string, cfg faq.ParameterConfig) (faq.FAQ, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()
	return s.fn(call, cfg)
}

type memRec struct {
	cfg   faq.ParameterConfig
	score float64
	count int
}

type memStore struct {
	mu         sync.Mutex
	recs       map[string]*memRec
	failReads  bool
	failWrites bool
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]*memRec)}
}

func (m *memStore) GetBest(_ context.Context, code string) (faq.ParameterConfig, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return faq.ParameterConfig{}, false, errors.New("read failure")
	}
	rec, ok := m.recs[code]
	if !ok {
		return faq.ParameterConfig{}, false, nil
	}
	return rec.cfg, true, nil
}

func (m *memStore) Upsert(_ context.Context, code string, cfg faq.ParameterConfig, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errors.New("write failure")
	}
	rec, ok := m.recs[code]
	if !ok {
		m.recs[code] = &memRec{cfg: cfg, score: score, count: 1}
		return nil
	}
	rec.count++
	if score > rec.score {
		rec.cfg = cfg
		rec.score = score
	}
	return nil
}

type captureAudit struct {
	mu      sync.Mutex
	results []Result
}

func (c *captureAudit) Append(_, _ string, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
}

// #endregion

// #region candidates

// poorCandidate scores well below acceptable: completeness 0.25, length 0.1.
func poorCandidate() faq.FAQ {
	return faq.FAQ{Answer: "Too short."}
}

// mediocreCandidate scores above poorCandidate but still not passing.
func mediocreCandidate() faq.FAQ {
	return faq.FAQ{Answer: "Too short.", Category: "general", Keywords: []string{"short"}}
}

// #endregion

// #region tests

func TestGenerateWithLearning_FirstCallPasses(t *testing.T) {
	gen := &stubGen{fn: func(int, faq.ParameterConfig) (faq.FAQ, error) {
		return goodCandidate(), nil
	}}
	store := newMemStore()
	sink := &captureAudit{}
	orch := New(gen, store, sink, zap.NewNop())

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	require.True(t, res.Success)
	assert.Equal(t, 1, res.AttemptCount)
	require.Len(t, res.Attempts, 1)
	assert.Equal(t, "default", res.Attempts[0].Strategy)
	assert.Equal(t, goodCandidate(), res.FAQ)

	// The winning default config was persisted under success.
	rec, ok := store.recs["success"]
	require.True(t, ok)
	assert.Equal(t, faq.DefaultParameterConfig(), rec.cfg)
	assert.Equal(t, 1, rec.count)

	require.Len(t, sink.results, 1)
}

func TestGenerateWithLearning_LearnedConfigTriedFirst(t *testing.T) {
	learned := faq.ParameterConfig{Temperature: 0.4, MaxTokens: 900, TopP: 0.8}
	store := newMemStore()
	store.recs["success"] = &memRec{cfg: learned, score: 0.8, count: 2}

	var seen faq.ParameterConfig
	gen := &stubGen{fn: func(_ int, cfg faq.ParameterConfig) (faq.FAQ, error) {
		seen = cfg
		return goodCandidate(), nil
	}}
	orch := New(gen, store, nil, zap.NewNop())

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	require.True(t, res.Success)
	assert.Equal(t, 1, res.AttemptCount)
	assert.Equal(t, "learned", res.Attempts[0].Strategy)
	assert.Equal(t, learned, seen)
	assert.Equal(t, 2, store.recs["success"].count, "pass increments the success record")
}

func TestGenerateWithLearning_ExhaustsAndReturnsBest(t *testing.T) {
	// Call 2 scores higher than calls 1 and 3; the call-2 artifact must come
	// back even though nothing passed.
	gen := &stubGen{fn: func(call int, _ faq.ParameterConfig) (faq.FAQ, error) {
		if call == 2 {
			return mediocreCandidate(), nil
		}
		return poorCandidate(), nil
	}}
	store := newMemStore()
	sink := &captureAudit{}
	orch := New(gen, store, sink, zap.NewNop())

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	assert.False(t, res.Success)
	assert.Equal(t, 3, res.AttemptCount)
	assert.Equal(t, mediocreCandidate(), res.FAQ)
	assert.Equal(t, res.Attempts[1].Score.Overall, res.Quality.Overall)

	// First attempt is default; the rest follow the chain for the default
	// attempt's failure scenario (incomplete_response here).
	assert.Equal(t, "default", res.Attempts[0].Strategy)
	assert.Equal(t, "raise_token_cap", res.Attempts[1].Strategy)
	assert.Equal(t, "structured_completion", res.Attempts[2].Strategy)

	assert.Empty(t, store.recs, "nothing learned from a failed request")
	require.Len(t, sink.results, 1)
}

func TestGenerateWithLearning_TiesKeepEarliestAttempt(t *testing.T) {
	first := poorCandidate()
	second := poorCandidate()
	second.Answer = "Also short."
	gen := &stubGen{fn: func(call int, _ faq.ParameterConfig) (faq.FAQ, error) {
		if call == 1 {
			return first, nil
		}
		return second, nil
	}}
	orch := New(gen, newMemStore(), nil, zap.NewNop())

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	assert.False(t, res.Success)
	assert.Equal(t, first, res.FAQ, "equal scores keep the earliest artifact")
}

func TestGenerateWithLearning_GenerationErrorsAreZeroScoreAttempts(t *testing.T) {
	gen := &stubGen{fn: func(int, faq.ParameterConfig) (faq.FAQ, error) {
		return faq.FAQ{}, errors.New("upstream unavailable")
	}}
	orch := New(gen, newMemStore(), nil, zap.NewNop())

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	assert.False(t, res.Success)
	assert.Equal(t, 3, res.AttemptCount)
	for _, a := range res.Attempts {
		assert.Equal(t, "upstream unavailable", a.Err)
		assert.Equal(t, 0.0, a.Score.Overall)
	}
	assert.True(t, res.FAQ.IsZero())
}

func TestGenerateWithLearning_NeverExceedsBudget(t *testing.T) {
	store := newMemStore()
	store.recs["success"] = &memRec{cfg: faq.DefaultParameterConfig(), score: 0.7, count: 1}

	gen := &stubGen{fn: func(int, faq.ParameterConfig) (faq.FAQ, error) {
		return poorCandidate(), nil
	}}
	orch := New(gen, store, nil, zap.NewNop())

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	assert.Equal(t, 3, gen.calls, "learned + default + one adaptive")
	assert.Equal(t, 3, res.AttemptCount)
	assert.Equal(t, "learned", res.Attempts[0].Strategy)
	assert.Equal(t, "default", res.Attempts[1].Strategy)
}

func TestGenerateWithLearning_MaxAttemptsOption(t *testing.T) {
	gen := &stubGen{fn: func(int, faq.ParameterConfig) (faq.FAQ, error) {
		return poorCandidate(), nil
	}}
	orch := New(gen, newMemStore(), nil, zap.NewNop(), WithMaxAttempts(1))

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, res.AttemptCount)
}

func TestGenerateWithLearning_RequestTimeoutExhausts(t *testing.T) {
	// The stub ignores ctx and sleeps past the deadline before handing back a
	// passing candidate. The deadline still wins: the request is exhausted,
	// nothing is learned, and the late artifact only survives as best-so-far.
	gen := &stubGen{fn: func(int, faq.ParameterConfig) (faq.FAQ, error) {
		time.Sleep(50 * time.Millisecond)
		return goodCandidate(), nil
	}}
	store := newMemStore()
	orch := New(gen, store, nil, zap.NewNop(), WithRequestTimeout(10*time.Millisecond))

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	assert.False(t, res.Success)
	assert.Equal(t, 1, gen.calls, "no further attempts after the deadline")
	assert.Equal(t, 1, res.AttemptCount)
	assert.Equal(t, goodCandidate(), res.FAQ)
	assert.Empty(t, store.recs, "nothing learned from a timed-out request")
}

func TestGenerateWithLearning_StoreReadFailureDegrades(t *testing.T) {
	store := newMemStore()
	store.failReads = true
	gen := &stubGen{fn: func(int, faq.ParameterConfig) (faq.FAQ, error) {
		return goodCandidate(), nil
	}}
	orch := New(gen, store, nil, zap.NewNop())

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	require.True(t, res.Success)
	assert.Equal(t, "default", res.Attempts[0].Strategy, "read failure means no learned attempt")
}

func TestGenerateWithLearning_StoreWriteFailureIsWarning(t *testing.T) {
	store := newMemStore()
	store.failWrites = true
	gen := &stubGen{fn: func(int, faq.ParameterConfig) (faq.FAQ, error) {
		return goodCandidate(), nil
	}}
	orch := New(gen, store, nil, zap.NewNop())

	res := orch.GenerateWithLearning(context.Background(), "What is a black hole?")

	require.True(t, res.Success, "a passing artifact is still returned")
	assert.NotEmpty(t, res.Warning)
}

// #endregion
