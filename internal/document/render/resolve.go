// internal/document/render/resolve.go
package render

import (
	"strings"

	"docgen-engine/internal/models"
)

// localizedAddressField is the localized client address field name some
// templates still use. Upstream data populates the canonical "address" field;
// see normalizeClientAddress.
const localizedAddressField = "адрес"

// substitution pairs one tag with its resolved value.
type substitution struct {
	tag   string
	value string
}

// buildSubstitutions resolves every mapping against the data graph. A missing
// value substitutes a visible bracket-wrapped placeholder instead of failing,
// so an incomplete record still yields a reviewable document.
func buildSubstitutions(table *models.MappingTable, data models.DataGraph) []substitution {
	normalizeClientAddress(data)

	if table.IsEmpty() {
		return nil
	}

	subs := make([]substitution, 0, len(table.Mappings))
	for _, m := range table.Mappings {
		subs = append(subs, substitution{
			tag:   m.Tag,
			value: resolveValue(m, data),
		})
	}
	return subs
}

func resolveValue(m models.Mapping, data models.DataGraph) string {
	category, field := splitTarget(m.Target)
	if v, ok := data.Lookup(category, field); ok && v != "" {
		return v
	}
	return "[" + m.Target + "]"
}

// splitTarget splits a "category.field" target. Targets seeded from unmatched
// tags may carry dots in the field part; only the first dot separates.
func splitTarget(target string) (models.Category, string) {
	parts := strings.SplitN(target, ".", 2)
	if len(parts) != 2 {
		return models.Category(target), ""
	}
	return models.Category(parts[0]), parts[1]
}

// normalizeClientAddress mirrors the canonical client address onto the
// localized field name when only the canonical one is populated. This is a
// compatibility patch for inconsistent upstream data shape, applied once per
// request snapshot rather than scattered across renderers.
func normalizeClientAddress(data models.DataGraph) {
	client, ok := data[models.CategoryClient]
	if !ok {
		return
	}
	if client[localizedAddressField] == "" && client["address"] != "" {
		client[localizedAddressField] = client["address"]
	}
}

// substituteText literally replaces each tag with its resolved value and
// reports how many distinct tags matched at least once.
func substituteText(text string, subs []substitution) (string, int) {
	matched := 0
	for _, s := range subs {
		if strings.Contains(text, s.tag) {
			matched++
			text = strings.ReplaceAll(text, s.tag, s.value)
		}
	}
	return text, matched
}
