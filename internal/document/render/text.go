// internal/document/render/text.go
package render

import (
	"fmt"
	"strings"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/models"
)

// textRenderer handles plain-text templates and any format without a
// dedicated renderer. Substitution happens over the template text directly,
// so this path has no fallback and no partial-failure mode.
type textRenderer struct{}

func (r *textRenderer) Render(t *models.Template, table *models.MappingTable, data models.DataGraph) (*Result, error) {
	source := t.ContentText
	if strings.TrimSpace(source) == "" && t.HasBinaryContent() {
		raw, err := t.DecodeContent()
		if err != nil {
			return nil, apperrors.NewRenderFailureError(fmt.Sprintf("decoding template %s: %v", t.ID, err))
		}
		source = string(raw)
	}
	if strings.TrimSpace(source) == "" {
		return nil, apperrors.NewRenderFailureError(fmt.Sprintf("template %s has no renderable text", t.ID))
	}

	subs := buildSubstitutions(table, data)
	content, _ := substituteText(source, subs)

	return &Result{
		Content: content,
		Format:  models.FormatText,
	}, nil
}
