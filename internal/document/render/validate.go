// internal/document/render/validate.go
package render

import (
	"fmt"
	"strings"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/models"
)

const pdfSignature = "%PDF-"

// pdfTransientPrefixes mark content that is a handle to a PDF rather than the
// bytes themselves. Such content is accepted for download but is not a
// finished document.
var pdfTransientPrefixes = []string{"blob:", "data:application/pdf"}

// ValidateContent gates a rendered document before persistence and before
// download. Content must be non-empty after trimming, and PDF content must
// carry the format signature or one of the transient handle prefixes.
func ValidateContent(content string, format models.TemplateFormat) error {
	if strings.TrimSpace(content) == "" {
		return apperrors.NewInvalidDocumentContentError("document content is empty")
	}
	if format != models.FormatPDF {
		return nil
	}
	if strings.HasPrefix(content, pdfSignature) {
		return nil
	}
	for _, p := range pdfTransientPrefixes {
		if strings.HasPrefix(content, p) {
			return nil
		}
	}
	return apperrors.NewInvalidDocumentContentError(
		fmt.Sprintf("pdf content missing %q signature", pdfSignature))
}
