package genclient

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/danielpatrickdp/faqforge/internal/faq"
)

// #region stub

type stubCompleter struct {
	resp openai.ChatCompletionResponse
	err  error
	got  openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.got = req
	return s.resp, s.err
}

func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

// #endregion

func TestNew_ZeroFieldsFallBackToDefaults(t *testing.T) {
	client := New(Config{APIKey: "test-key"}, zap.NewNop())

	def := DefaultConfig()
	assert.Equal(t, def.Model, client.model)
	assert.Equal(t, def.Timeout, client.timeout)
	assert.Equal(t, rate.Limit(float64(def.RequestsPerMinute)/60.0), client.limiter.Limit())
}

func TestGenerate_AppliesParameterConfig(t *testing.T) {
	stub := &stubCompleter{resp: completionWith(`{"title":"What is Go?","answer":"A language.","category":"programming","keywords":["go"]}`)}
	client := NewWithService(stub, "gpt-4o-mini", zap.NewNop())

	cfg := faq.ParameterConfig{Temperature: 0.35, MaxTokens: 1600, TopP: 0.8}
	candidate, err := client.Generate(context.Background(), "What is Go?", cfg)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", stub.got.Model)
	assert.Equal(t, float32(0.35), stub.got.Temperature)
	assert.Equal(t, 1600, stub.got.MaxTokens)
	assert.Equal(t, float32(0.8), stub.got.TopP)
	require.Len(t, stub.got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, stub.got.Messages[0].Role)
	assert.Equal(t, "What is Go?", stub.got.Messages[1].Content)

	assert.Equal(t, "What is Go?", candidate.Title)
	assert.Equal(t, "A language.", candidate.Answer)
}

func TestGenerate_UpstreamErrorIsWrapped(t *testing.T) {
	stub := &stubCompleter{err: errors.New("429 too many requests")}
	client := NewWithService(stub, "gpt-4o-mini", zap.NewNop())

	_, err := client.Generate(context.Background(), "prompt text", faq.DefaultParameterConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerate_EmptyCompletion(t *testing.T) {
	stub := &stubCompleter{resp: openai.ChatCompletionResponse{}}
	client := NewWithService(stub, "gpt-4o-mini", zap.NewNop())

	_, err := client.Generate(context.Background(), "prompt text", faq.DefaultParameterConfig())
	assert.True(t, errors.Is(err, ErrEmptyCompletion))
}
