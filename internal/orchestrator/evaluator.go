package orchestrator

// #region imports
import (
	"math"
	"strings"
	"unicode"

	"github.com/danielpatrickdp/faqforge/internal/faq"
)

// #endregion

// #region weights

const (
	weightCompleteness = 0.35
	weightLength       = 0.25
	weightStructure    = 0.20
	weightRelevance    = 0.20
)

// #endregion

// #region stopwords

// stopwords excludes common words from prompt keyword matching. Only words
// longer than 3 characters count as keywords, so short function words are
// filtered by length alone.
var stopwords = map[string]bool{
	"this": true, "that": true, "what": true, "which": true, "when": true,
	"where": true, "does": true, "have": true, "will": true, "with": true,
	"from": true, "about": true, "your": true, "their": true, "they": true,
	"them": true, "would": true, "could": true, "should": true, "there": true,
	"these": true, "those": true, "been": true, "into": true, "tell": true,
}

// promptKeywords splits a prompt into unique lowercase non-trivial tokens.
func promptKeywords(prompt string) []string {
	words := strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if len(w) <= 3 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}

// #endregion

// #region evaluate

// EvaluateQuality scores a candidate against the original prompt via string
// analysis. Deterministic, no model call.
func EvaluateQuality(candidate faq.FAQ, prompt string) QualityScore {
	breakdown := Breakdown{
		Completeness: scoreCompleteness(candidate),
		Length:       scoreLength(candidate.Answer),
		Structure:    scoreStructure(candidate),
		Relevance:    scoreRelevance(candidate, prompt),
	}

	overall := weightCompleteness*breakdown.Completeness +
		weightLength*breakdown.Length +
		weightStructure*breakdown.Structure +
		weightRelevance*breakdown.Relevance
	overall = math.Round(overall*1000) / 1000

	level := levelFor(overall)

	return QualityScore{
		Overall:   overall,
		Breakdown: breakdown,
		Level:     level,
		Passed:    level == LevelExcellent || level == LevelGood || level == LevelAcceptable,
	}
}

// levelFor is a pure threshold function over the overall score.
func levelFor(overall float64) QualityLevel {
	switch {
	case overall >= 0.85:
		return LevelExcellent
	case overall >= 0.70:
		return LevelGood
	case overall >= 0.50:
		return LevelAcceptable
	case overall >= 0.30:
		return LevelPoor
	default:
		return LevelFailed
	}
}

// #endregion

// #region completeness

// scoreCompleteness checks presence of the four structured fields, each
// contributing a quarter when non-empty.
func scoreCompleteness(c faq.FAQ) float64 {
	score := 0.0
	if strings.TrimSpace(c.Title) != "" {
		score += 0.25
	}
	if strings.TrimSpace(c.Answer) != "" {
		score += 0.25
	}
	if strings.TrimSpace(c.Category) != "" {
		score += 0.25
	}
	if len(c.Keywords) > 0 {
		score += 0.25
	}
	return score
}

// #endregion

// #region length

// scoreLength bands the answer body word count.
// 50-300 words is the target; <10 words is a near-failure.
func scoreLength(answer string) float64 {
	wc := len(strings.Fields(answer))
	switch {
	case wc >= 50 && wc <= 300:
		return 1.0
	case (wc >= 30 && wc < 50) || (wc > 300 && wc <= 500):
		return 0.7
	case wc < 10:
		return 0.1
	default:
		return 0.5
	}
}

// #endregion

// #region structure

// scoreStructure sums capped partial scores for paragraph count, sentence
// count, and title word count, bounded at 1.0.
func scoreStructure(c faq.FAQ) float64 {
	score := 0.0

	paragraphs := countParagraphs(c.Answer)
	switch {
	case paragraphs >= 2:
		score += 0.4
	case paragraphs == 1:
		score += 0.2
	}

	sentences := countSentences(c.Answer)
	switch {
	case sentences >= 3:
		score += 0.3
	case sentences >= 1:
		score += 0.15
	}

	titleWords := len(strings.Fields(c.Title))
	if titleWords >= 3 && titleWords <= 15 {
		score += 0.3
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func countParagraphs(text string) int {
	count := 0
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

func countSentences(text string) int {
	count := 0
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}

// #endregion

// #region relevance

// scoreRelevance is base 0.5 plus up to 0.5 proportional to the fraction of
// non-trivial prompt keywords that appear in the answer or title. A prompt
// with no non-trivial keywords has nothing to miss and scores 1.0.
func scoreRelevance(c faq.FAQ, prompt string) float64 {
	keywords := promptKeywords(prompt)
	if len(keywords) == 0 {
		return 1.0
	}

	haystack := make(map[string]bool)
	body := strings.ToLower(c.Answer + " " + c.Title)
	for _, w := range strings.FieldsFunc(body, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		haystack[w] = true
	}

	hits := 0
	for _, kw := range keywords {
		if haystack[kw] {
			hits++
		}
	}
	return 0.5 + 0.5*float64(hits)/float64(len(keywords))
}

// #endregion

// #region classify

// ClassifyFailure maps a quality score to a scenario code. Metrics are
// tested in fixed priority order against 0.5; the first deficient metric
// names the scenario.
func ClassifyFailure(score QualityScore) ScenarioCode {
	if score.Passed {
		return ScenarioSuccess
	}
	switch {
	case score.Breakdown.Completeness < 0.5:
		return ScenarioIncomplete
	case score.Breakdown.Length < 0.5:
		return ScenarioLength
	case score.Breakdown.Structure < 0.5:
		return ScenarioStructure
	case score.Breakdown.Relevance < 0.5:
		return ScenarioRelevance
	default:
		return ScenarioQualityLow
	}
}

// #endregion
