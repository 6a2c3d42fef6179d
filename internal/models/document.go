// internal/models/document.go
package models

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// TemplateFormat is the closed set of declared template formats.
type TemplateFormat string

const (
	FormatDocx  TemplateFormat = "docx"
	FormatPDF   TemplateFormat = "pdf"
	FormatText  TemplateFormat = "text"
	FormatOther TemplateFormat = "other"
)

// IsValid reports whether the format is one of the declared values.
func (f TemplateFormat) IsValid() bool {
	switch f {
	case FormatDocx, FormatPDF, FormatText, FormatOther:
		return true
	default:
		return false
	}
}

// MIME types used when re-encoding rendered artifacts.
const (
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPDF  = "application/pdf"
	MIMEText = "text/plain"
)

// Template is a stored document template. Content carries the binary payload
// as a self-describing encoded string (data URI); ContentText is the plain-text
// extraction used as the rendering fallback for docx templates.
type Template struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Format      TemplateFormat `json:"format"`
	Content     string         `json:"content"`
	ContentText string         `json:"content_text"`
	CreatedAt   time.Time      `json:"created_at"`
}

// HasBinaryContent reports whether the template carries an embedded binary payload.
func (t *Template) HasBinaryContent() bool {
	return strings.TrimSpace(t.Content) != ""
}

// DecodeContent decodes the Content string into raw bytes. A data-URI prefix
// is stripped when present; bare base64 is accepted as a compatibility form.
func (t *Template) DecodeContent() ([]byte, error) {
	return DecodeContent(t.Content)
}

// EncodeContent wraps raw bytes into the self-describing encoded string form.
func EncodeContent(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeContent decodes a self-describing encoded string into raw bytes.
func DecodeContent(content string) ([]byte, error) {
	payload := content
	if strings.HasPrefix(content, "data:") {
		idx := strings.Index(content, "base64,")
		if idx < 0 {
			return nil, fmt.Errorf("content is not base64 encoded")
		}
		payload = content[idx+len("base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return raw, nil
}

// Mapping associates one tag with a category.field target.
type Mapping struct {
	Tag      string   `json:"tag"`
	Category Category `json:"category"`
	Target   string   `json:"target"`
}

// UndefinedTarget is the sentinel for a mapping that was never resolved.
const UndefinedTarget = "undefined.undefined"

// IsValid reports whether the mapping has a usable target.
func (m Mapping) IsValid() bool {
	return m.Target != "" && m.Target != UndefinedTarget
}

// MappingTable is the complete, persisted set of mappings for one template.
type MappingTable struct {
	TemplateID string    `json:"template_id"`
	Mappings   []Mapping `json:"mappings"`
}

// IsEmpty reports whether the table carries no mappings at all.
func (t *MappingTable) IsEmpty() bool {
	return t == nil || len(t.Mappings) == 0
}

// DataGraph is the per-request, read-only snapshot of business data keyed by
// category. Unknown fields are simply absent, never an error.
type DataGraph map[Category]map[string]string

// Lookup returns the value for category.field and whether it is present.
func (g DataGraph) Lookup(category Category, field string) (string, bool) {
	fields, ok := g[category]
	if !ok {
		return "", false
	}
	v, ok := fields[field]
	return v, ok
}

// DocumentStatus is the lifecycle status of a generated document.
type DocumentStatus string

// DocumentStatusGenerated is the only status a persisted artifact can carry;
// documents are immutable after creation except for deletion.
const DocumentStatusGenerated DocumentStatus = "generated"

// GeneratedDocument is a rendered artifact. Created only after content
// validation succeeds; never persisted with empty or invalid content.
type GeneratedDocument struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Format    TemplateFormat `json:"format"`
	Content   string         `json:"content"`
	Status    DocumentStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// DecodeContent decodes the stored artifact content into deliverable bytes.
// Plain-text artifacts are stored verbatim, binary formats as encoded strings.
func (d *GeneratedDocument) DecodeContent() ([]byte, error) {
	if d.Format == FormatText || d.Format == FormatOther {
		return []byte(d.Content), nil
	}
	return DecodeContent(d.Content)
}
