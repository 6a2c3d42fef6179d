// internal/document/render/validate_test.go
package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/models"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		format   models.TemplateFormat
		wantCode apperrors.ErrorCode
	}{
		{
			name:    "non-empty text passes",
			content: "some document body",
			format:  models.FormatText,
		},
		{
			name:     "empty content rejected",
			content:  "",
			format:   models.FormatText,
			wantCode: apperrors.ErrCodeInvalidDocumentContent,
		},
		{
			name:     "whitespace-only content rejected",
			content:  "  \n\t ",
			format:   models.FormatDocx,
			wantCode: apperrors.ErrCodeInvalidDocumentContent,
		},
		{
			name:    "pdf with signature passes",
			content: "%PDF-1.7 rest of file",
			format:  models.FormatPDF,
		},
		{
			name:    "pdf blob handle passes",
			content: "blob:https://app.local/3f1c",
			format:  models.FormatPDF,
		},
		{
			name:    "pdf data uri passes",
			content: "data:application/pdf;base64,JVBERi0=",
			format:  models.FormatPDF,
		},
		{
			name:     "pdf without signature rejected",
			content:  "plain text pretending to be pdf",
			format:   models.FormatPDF,
			wantCode: apperrors.ErrCodeInvalidDocumentContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.content, tt.format)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, apperrors.GetErrorCode(err))
		})
	}
}
