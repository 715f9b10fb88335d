package orchestrator

// #region imports
import "github.com/danielpatrickdp/faqforge/internal/faq"

// #endregion

// #region catalog

// catalog maps each failure scenario to its ordered escalation chain. List
// order is the order the loop tries them in.
var catalog = map[ScenarioCode][]Strategy{
	ScenarioIncomplete: {
		{Name: "raise_token_cap", Config: faq.ParameterConfig{Temperature: 0.7, MaxTokens: 2000, TopP: 0.9}},
		{Name: "structured_completion", Config: faq.ParameterConfig{Temperature: 0.5, MaxTokens: 1600, TopP: 0.85}},
	},
	ScenarioLength: {
		{Name: "expand_answer", Config: faq.ParameterConfig{Temperature: 0.8, MaxTokens: 1800, TopP: 0.9}},
		{Name: "tighten_answer", Config: faq.ParameterConfig{Temperature: 0.6, MaxTokens: 700, TopP: 0.85}},
	},
	ScenarioStructure: {
		{Name: "low_temp_structured", Config: faq.ParameterConfig{Temperature: 0.3, MaxTokens: 1200, TopP: 0.8}},
		{Name: "deterministic_outline", Config: faq.ParameterConfig{Temperature: 0.15, MaxTokens: 1000, TopP: 0.7}},
	},
	ScenarioRelevance: {
		{Name: "focus_prompt_terms", Config: faq.ParameterConfig{Temperature: 0.4, MaxTokens: 1200, TopP: 0.7}},
		{Name: "narrow_sampling", Config: faq.ParameterConfig{Temperature: 0.25, MaxTokens: 1000, TopP: 0.6}},
	},
	ScenarioQualityLow: {
		{Name: "explore_high_temp", Config: faq.ParameterConfig{Temperature: 1.0, MaxTokens: 1500, TopP: 0.95}},
		{Name: "balanced_retry", Config: faq.ParameterConfig{Temperature: 0.6, MaxTokens: 1200, TopP: 0.85}},
	},
}

// #endregion

// #region lookup

// StrategiesFor returns the escalation chain for a scenario code. Unknown
// codes (including success) fall back to the quality_low chain.
func StrategiesFor(code ScenarioCode) []Strategy {
	if chain, ok := catalog[code]; ok && code != ScenarioSuccess {
		return chain
	}
	return catalog[ScenarioQualityLow]
}

// #endregion
