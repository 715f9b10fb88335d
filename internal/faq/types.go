package faq

// #region imports
import (
	"github.com/pkg/errors"
)

// #endregion

// #region prompt-bounds

const (
	// MinPromptLen and MaxPromptLen bound accepted prompts, in characters.
	MinPromptLen = 5
	MaxPromptLen = 5000
)

// ErrInvalidPrompt is returned for prompts outside [MinPromptLen, MaxPromptLen].
var ErrInvalidPrompt = errors.New("prompt length out of range")

// ValidatePrompt enforces the prompt length contract. Runs before any
// generation attempt; a prompt that fails here never reaches the pipeline.
// Length is the plain rune count of the prompt as submitted.
func ValidatePrompt(prompt string) error {
	n := len([]rune(prompt))
	if n < MinPromptLen || n > MaxPromptLen {
		return errors.Wrapf(ErrInvalidPrompt, "got %d chars, want %d-%d", n, MinPromptLen, MaxPromptLen)
	}
	return nil
}

// #endregion

// #region faq

// FAQ is one generated question/answer artifact.
type FAQ struct {
	Title    string   `json:"title"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// IsZero reports whether no field was populated.
func (f FAQ) IsZero() bool {
	return f.Title == "" && f.Answer == "" && f.Category == "" && len(f.Keywords) == 0
}

// #endregion

// #region parameter-config

// ParameterConfig is an immutable set of sampling knobs for one generation
// call. Compared by value: two configs with identical fields are the same
// config for store uniqueness.
type ParameterConfig struct {
	Temperature float64 `json:"temperature" toml:"temperature"`
	MaxTokens   int     `json:"max_tokens" toml:"max_tokens"`
	TopP        float64 `json:"top_p" toml:"top_p"`
}

// DefaultParameterConfig is the baseline attempted before any adaptation.
func DefaultParameterConfig() ParameterConfig {
	return ParameterConfig{
		Temperature: 0.7,
		MaxTokens:   1200,
		TopP:        0.9,
	}
}

// Validate checks the provider-accepted ranges.
func (c ParameterConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.Errorf("temperature %.2f out of [0,2]", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return errors.Errorf("max_tokens %d must be positive", c.MaxTokens)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return errors.Errorf("top_p %.2f out of [0,1]", c.TopP)
	}
	return nil
}

// #endregion
