package genclient

// #region imports
import (
	"encoding/json"
	"strings"

	"github.com/danielpatrickdp/faqforge/internal/faq"
)

// #endregion

// #region parse

// ParseFAQ extracts an FAQ candidate from raw model output. It prefers the
// requested JSON object (tolerating markdown code fences); when the model
// returns prose instead, it falls back to a lexical split so the evaluator
// still has something to score.
func ParseFAQ(content string) faq.FAQ {
	cleaned := stripFences(content)

	var candidate faq.FAQ
	if err := json.Unmarshal([]byte(cleaned), &candidate); err == nil && candidate.Answer != "" {
		candidate.Title = strings.TrimSpace(candidate.Title)
		candidate.Answer = strings.TrimSpace(candidate.Answer)
		candidate.Category = strings.TrimSpace(candidate.Category)
		return candidate
	}

	return parseProse(cleaned)
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// parseProse treats the first non-empty line as the title and the remainder
// as the answer body.
func parseProse(content string) faq.FAQ {
	lines := strings.Split(content, "\n")
	var title string
	var bodyStart int
	for i, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			title = strings.TrimSpace(strings.TrimLeft(s, "# "))
			bodyStart = i + 1
			break
		}
	}

	answer := strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	if answer == "" {
		// Single-line output: the whole thing is the answer.
		answer = title
		title = ""
	}

	return faq.FAQ{
		Title:    title,
		Answer:   answer,
		Category: "general",
		Keywords: titleKeywords(title),
	}
}

// titleKeywords derives fallback keywords from the title.
func titleKeywords(title string) []string {
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, "?.,!:;\"'")
		if len(w) > 3 {
			keywords = append(keywords, w)
		}
		if len(keywords) == 6 {
			break
		}
	}
	return keywords
}

// #endregion
