// internal/document/render/pdf.go
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/models"
)

// pdfRenderer stamps resolved field values onto the first page of the
// template. PDFs are not edited in place; the resolved text is rendered as an
// overlay while the underlying pages stay untouched.
type pdfRenderer struct {
	charBudget int
	logger     logger.Logger
}

func (r *pdfRenderer) Render(t *models.Template, table *models.MappingTable, data models.DataGraph) (*Result, error) {
	raw, err := t.DecodeContent()
	if err != nil {
		return nil, apperrors.NewRenderFailureError(fmt.Sprintf("decoding pdf template %s: %v", t.ID, err))
	}

	overlay := r.overlayText(t, table, data)

	stamped, err := r.stampFirstPage(raw, overlay)
	if err != nil {
		return nil, apperrors.NewRenderFailureError(fmt.Sprintf("stamping pdf template %s: %v", t.ID, err))
	}

	return &Result{
		Content: models.EncodeContent(models.MIMEPDF, stamped),
		Format:  models.FormatPDF,
	}, nil
}

// overlayText builds the substituted text for the overlay, truncated to the
// configured budget. A template without extracted text gets a static notice
// so the output still identifies its origin.
func (r *pdfRenderer) overlayText(t *models.Template, table *models.MappingTable, data models.DataGraph) string {
	if strings.TrimSpace(t.ContentText) == "" {
		return fmt.Sprintf("Generated from template: %s", t.Name)
	}
	subs := buildSubstitutions(table, data)
	text, _ := substituteText(t.ContentText, subs)
	if len(text) > r.charBudget {
		text = text[:r.charBudget]
	}
	return text
}

func (r *pdfRenderer) stampFirstPage(raw []byte, text string) ([]byte, error) {
	wm, err := api.TextWatermark(text, "font:Helvetica, points:9, scale:1 abs, pos:tl, off:36 -36, rot:0", true, false, types.POINTS)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(raw), &buf, []string{"1"}, wm, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
