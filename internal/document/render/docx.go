// internal/document/render/docx.go
package render

import (
	"bytes"

	"github.com/nguyenthenguyen/docx"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/common/metrics"
	"docgen-engine/internal/models"
)

// docxRenderer is the package-document renderer. The primary path substitutes
// tags inside the decoded archive; a malformed archive or substitution
// failure degrades to literal replacement over the template's extracted plain
// text. This is the pipeline's single documented catch-and-continue.
type docxRenderer struct {
	logger logger.Logger
}

func (r *docxRenderer) Render(t *models.Template, table *models.MappingTable, data models.DataGraph) (*Result, error) {
	subs := buildSubstitutions(table, data)

	if !t.HasBinaryContent() {
		// Nothing to decode; substitute straight into the extracted text and
		// name the output distinctly from the original.
		content, matched := substituteText(t.ContentText, subs)
		if matched == 0 {
			return nil, apperrors.NewNoSubstitutionsAppliedError(
				"template has no binary content and no tag matched its text")
		}
		return &Result{
			Content:    content,
			Format:     models.FormatText,
			NameSuffix: "-mapped",
		}, nil
	}

	rendered, err := r.renderArchive(t, subs)
	if err == nil {
		return &Result{
			Content: models.EncodeContent(models.MIMEDocx, rendered),
			Format:  models.FormatDocx,
		}, nil
	}

	r.logger.Warn("package render failed, falling back to text substitution", map[string]interface{}{
		"templateId": t.ID,
		"error":      err.Error(),
	})
	metrics.RenderFallbacks.Inc()

	content, matched := substituteText(t.ContentText, subs)
	if matched == 0 {
		return nil, apperrors.NewNoSubstitutionsAppliedError(
			"fallback substitution matched no tags in extracted text")
	}
	return &Result{
		Content: content,
		Format:  models.FormatText,
	}, nil
}

// renderArchive decodes the template archive, replaces each tag literally
// inside the document body, and re-encodes the package.
func (r *docxRenderer) renderArchive(t *models.Template, subs []substitution) ([]byte, error) {
	raw, err := t.DecodeContent()
	if err != nil {
		return nil, err
	}

	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	doc := reader.Editable()
	for _, s := range subs {
		if err := doc.Replace(s.tag, s.value, -1); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
