package genclient

// #region imports
import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/danielpatrickdp/faqforge/internal/faq"
)

// #endregion

// #region system-prompt

const systemPrompt = `You write FAQ entries. Answer the user's question as a JSON object with exactly these fields:
{"title": "a question-style title", "answer": "a well-structured answer of 50-300 words in 2-3 paragraphs", "category": "a single category word", "keywords": ["3-6", "topic", "keywords"]}
Return only the JSON object, no surrounding text.`

// #endregion

// #region errors

// ErrEmptyCompletion is returned when the provider answers with no content.
var ErrEmptyCompletion = errors.New("empty completion")

// #endregion

// #region config

// Config holds the generation provider settings.
type Config struct {
	BaseURL           string
	APIKey            string
	Model             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// DefaultConfig returns settings for the public OpenAI endpoint.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://api.openai.com/v1",
		Model:             "gpt-4o-mini",
		RequestsPerMinute: 60,
		Timeout:           30 * time.Second,
	}
}

// #endregion

// #region client-struct

// ChatCompleter is the slice of the OpenAI client the generator needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client calls an OpenAI-compatible chat completion endpoint and parses the
// result into an FAQ candidate.
type Client struct {
	api     ChatCompleter
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	log     *zap.Logger
}

// New builds a client against the configured endpoint. Zero-valued fields
// fall back to DefaultConfig.
func New(cfg Config, log *zap.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = def.RequestsPerMinute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &Client{
		api:     openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		log:     log,
	}
}

// NewWithService creates a Client with an injected completion service.
// Used for testing without a real endpoint.
func NewWithService(svc ChatCompleter, model string, log *zap.Logger) *Client {
	return &Client{
		api:     svc,
		model:   model,
		limiter: rate.NewLimiter(rate.Inf, 1),
		log:     log,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// #endregion

// #region generate

// Generate performs one chat completion under the given sampling config.
func (c *Client) Generate(ctx context.Context, prompt string, cfg faq.ParameterConfig) (faq.FAQ, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return faq.FAQ{}, errors.Wrap(err, "rate limit wait")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
		TopP:        float32(cfg.TopP),
	})
	if err != nil {
		return faq.FAQ{}, errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return faq.FAQ{}, ErrEmptyCompletion
	}

	candidate := ParseFAQ(resp.Choices[0].Message.Content)
	c.log.Debug("completion received",
		zap.Int("tokens_used", resp.Usage.TotalTokens),
		zap.Float64("temperature", cfg.Temperature))
	return candidate, nil
}

// #endregion
