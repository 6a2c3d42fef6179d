// Package tags discovers placeholder tags in template text and infers the
// data category each tag most likely resolves against.
package tags

import (
	"regexp"
	"strings"

	"docgen-engine/internal/models"
)

// tagPattern matches one delimiter-enclosed span, non-greedy, no nesting.
var tagPattern = regexp.MustCompile(`\{\{.+?\}\}`)

// Extract returns every tag found in text, deduplicated by exact string
// equality, in first-seen order. Empty text yields an empty list.
func Extract(text string) []string {
	matches := tagPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Interior strips the tag delimiters, returning the bare tag text.
func Interior(tag string) string {
	return strings.TrimSuffix(strings.TrimPrefix(tag, "{{"), "}}")
}

// Wrap adds the tag delimiters unless they are already present.
func Wrap(text string) string {
	if strings.HasPrefix(text, "{{") && strings.HasSuffix(text, "}}") {
		return text
	}
	return "{{" + text + "}}"
}

// Classify infers the category a tag belongs to and returns the field name
// that drove the decision ("" when the default applied). The heuristic, in
// priority order:
//
//  1. A dotted tag whose prefix names a known category classifies to it.
//  2. A tag containing a known field name as substring classifies to the
//     first category (in fixed order) exposing that field.
//  3. Everything else defaults to client.
//
// This is a best-effort seed for the mapping table, not a guarantee; the
// table stays operator-editable for exactly that reason.
func Classify(tag string) (models.Category, string) {
	interior := Interior(tag)

	if idx := strings.Index(interior, "."); idx > 0 {
		prefix := models.Category(interior[:idx])
		if prefix.IsValid() {
			return prefix, interior[idx+1:]
		}
	}

	for _, category := range models.Categories {
		for _, field := range models.CategoryFields[category] {
			if strings.Contains(interior, field) {
				return category, field
			}
		}
	}

	return models.CategoryClient, ""
}
