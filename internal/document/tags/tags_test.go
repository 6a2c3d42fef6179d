// internal/document/tags/tags_test.go
package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docgen-engine/internal/models"
)

func TestExtract_DeduplicatesPreservingOrder(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "duplicate tag collapses to first occurrence",
			text:     "{{a}} {{b}} {{a}}",
			expected: []string{"{{a}}", "{{b}}"},
		},
		{
			name:     "order follows first appearance",
			text:     "intro {{client.name}} body {{project.number}} sign {{client.name}}",
			expected: []string{"{{client.name}}", "{{project.number}}"},
		},
		{
			name:     "empty text yields no tags",
			text:     "",
			expected: nil,
		},
		{
			name:     "text without delimiters yields no tags",
			text:     "plain paragraph with no placeholders",
			expected: nil,
		},
		{
			name:     "adjacent tags are matched non-greedily",
			text:     "{{a}}{{b}}",
			expected: []string{"{{a}}", "{{b}}"},
		},
		{
			name:     "unclosed delimiter is ignored",
			text:     "{{open and {{closed}}",
			expected: []string{"{{open and {{closed}}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.text))
		})
	}
}

func TestInterior(t *testing.T) {
	assert.Equal(t, "client.name", Interior("{{client.name}}"))
	assert.Equal(t, "bare", Interior("bare"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "{{custom}}", Wrap("custom"))
	assert.Equal(t, "{{custom}}", Wrap("{{custom}}"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		tag           string
		expectedCat   models.Category
		expectedField string
	}{
		{
			name:          "dotted prefix names a category",
			tag:           "{{client.name}}",
			expectedCat:   models.CategoryClient,
			expectedField: "name",
		},
		{
			name:          "dotted prefix for cadastre",
			tag:           "{{cadastre.quarter}}",
			expectedCat:   models.CategoryCadastre,
			expectedField: "quarter",
		},
		{
			name:          "field name substring match",
			tag:           "{{surface_area}}",
			expectedCat:   models.CategoryProject,
			expectedField: "surface_area",
		},
		{
			name:          "cadastral number substring match",
			tag:           "{{cadastral_number_main}}",
			expectedCat:   models.CategoryCadastre,
			expectedField: "cadastral_number",
		},
		{
			name:          "no match defaults to client",
			tag:           "{{xyz}}",
			expectedCat:   models.CategoryClient,
			expectedField: "",
		},
		{
			name:          "dotted tag with unknown prefix falls through",
			tag:           "{{foo.xyz}}",
			expectedCat:   models.CategoryClient,
			expectedField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, field := Classify(tt.tag)
			assert.Equal(t, tt.expectedCat, cat)
			assert.Equal(t, tt.expectedField, field)
		})
	}
}
