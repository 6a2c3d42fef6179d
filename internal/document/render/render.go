// Package render turns a template plus resolved mapping values into a
// concrete artifact. Three renderer variants exist, one per declared format,
// each with its own decode/encode concerns and failure mode; dispatch is a
// closed switch over the template's declared format.
package render

import (
	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/models"
)

// Result is a rendered artifact before validation and persistence. Format is
// the resolved format, which may differ from the template's declared format
// after a fallback. NameSuffix disambiguates degraded outputs from the
// original template name.
type Result struct {
	Content    string
	Format     models.TemplateFormat
	NameSuffix string
}

// Renderer is the single rendering contract all format variants implement.
type Renderer interface {
	Render(t *models.Template, table *models.MappingTable, data models.DataGraph) (*Result, error)
}

// Engine dispatches to the format renderer selected by the template's
// declared format.
type Engine struct {
	docx   Renderer
	pdf    Renderer
	text   Renderer
	logger logger.Logger
}

// Options tunes renderer behavior.
type Options struct {
	// OverlayCharBudget bounds the text block drawn onto a PDF page.
	OverlayCharBudget int
}

func NewEngine(opts Options, log logger.Logger) *Engine {
	l := log.WithFields(map[string]interface{}{"component": "render"})
	if opts.OverlayCharBudget <= 0 {
		opts.OverlayCharBudget = 2000
	}
	return &Engine{
		docx:   &docxRenderer{logger: l},
		pdf:    &pdfRenderer{charBudget: opts.OverlayCharBudget, logger: l},
		text:   &textRenderer{},
		logger: l,
	}
}

// Render dispatches to the variant for the template's declared format.
// Formats outside the closed set render by plain substitution.
func (e *Engine) Render(t *models.Template, table *models.MappingTable, data models.DataGraph) (*Result, error) {
	if t == nil {
		return nil, apperrors.NewRenderFailureError("template is nil")
	}

	switch t.Format {
	case models.FormatDocx:
		return e.docx.Render(t, table, data)
	case models.FormatPDF:
		return e.pdf.Render(t, table, data)
	default:
		return e.text.Render(t, table, data)
	}
}
