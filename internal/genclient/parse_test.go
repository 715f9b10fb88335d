package genclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFAQ_PlainJSON(t *testing.T) {
	got := ParseFAQ(`{"title":"How do rockets work?","answer":"By throwing mass backwards.","category":"physics","keywords":["rocket","thrust"]}`)
	assert.Equal(t, "How do rockets work?", got.Title)
	assert.Equal(t, "By throwing mass backwards.", got.Answer)
	assert.Equal(t, "physics", got.Category)
	assert.Equal(t, []string{"rocket", "thrust"}, got.Keywords)
}

func TestParseFAQ_FencedJSON(t *testing.T) {
	content := "```json\n{\"title\":\"T\",\"answer\":\"A\",\"category\":\"c\",\"keywords\":[\"k\"]}\n```"
	got := ParseFAQ(content)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "A", got.Answer)
}

func TestParseFAQ_ProseFallback(t *testing.T) {
	content := "# What is photosynthesis?\n\nPlants convert light into chemical energy.\nIt happens in chloroplasts."
	got := ParseFAQ(content)
	assert.Equal(t, "What is photosynthesis?", got.Title)
	require.Contains(t, got.Answer, "chloroplasts")
	assert.Equal(t, "general", got.Category)
	assert.Contains(t, got.Keywords, "photosynthesis")
}

func TestParseFAQ_SingleLineProse(t *testing.T) {
	got := ParseFAQ("Just one line of output.")
	assert.Empty(t, got.Title)
	assert.Equal(t, "Just one line of output.", got.Answer)
}

func TestParseFAQ_JSONWithoutAnswerFallsBack(t *testing.T) {
	// Valid JSON but no answer field: treated as prose.
	got := ParseFAQ(`{"title":"only a title"}`)
	assert.NotEmpty(t, got.Answer)
}
