// internal/document/generation/models.go
package generation

import "docgen-engine/internal/models"

// Request describes one document generation.
type Request struct {
	TemplateID string `json:"templateId"`
	SubjectID  string `json:"subjectId"`
	// Name overrides the template name for the generated artifact.
	Name string `json:"name,omitempty"`
	// MappingTable, when set, takes precedence over the template's persisted
	// table. An empty table renders the template without substitution.
	MappingTable *models.MappingTable `json:"mappingTable,omitempty"`
}

// requestSchema gates incoming requests before any stage runs.
var requestSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"templateId", "subjectId"},
	"properties": map[string]interface{}{
		"templateId": map[string]interface{}{"type": "string", "minLength": 1},
		"subjectId":  map[string]interface{}{"type": "string", "minLength": 1},
		"name":       map[string]interface{}{"type": "string"},
	},
}
