package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_StripsHighlightTags(t *testing.T) {
	c := New()

	got := c.Clean("Опыт работы с <highlighttext>Python</highlighttext> от года")
	assert.Equal(t, "Опыт работы с Python от года", got)
}

func TestClean_UnescapesEntities(t *testing.T) {
	c := New()

	assert.Equal(t, "C++ & Go", c.Clean("C++ &amp; Go"))
}

func TestCleanMap_RecursesAndPreservesInput(t *testing.T) {
	c := New()

	original := map[string]any{
		"name": "<b>Backend</b> разработчик",
		"snippet": map[string]any{
			"requirement": "Знание <highlighttext>Django</highlighttext>",
		},
		"key_skills": []any{
			map[string]any{"name": "<i>SQL</i>"},
		},
		"salary": map[string]any{"from": float64(100000)},
	}

	cleaned := c.CleanMap(original)

	assert.Equal(t, "Backend разработчик", cleaned["name"])
	snippet := cleaned["snippet"].(map[string]any)
	assert.Equal(t, "Знание Django", snippet["requirement"])
	skills := cleaned["key_skills"].([]any)
	assert.Equal(t, "SQL", skills[0].(map[string]any)["name"])
	assert.Equal(t, float64(100000), cleaned["salary"].(map[string]any)["from"])

	// The source payload keeps its raw markup.
	assert.Equal(t, "<b>Backend</b> разработчик", original["name"])
}
