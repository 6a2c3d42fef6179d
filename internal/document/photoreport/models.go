// internal/document/photoreport/models.go
package photoreport

// Request describes one photo-report composition: two ordered image
// sequences plus the reference fields printed above each section.
type Request struct {
	Before []string `json:"before"`
	After  []string `json:"after"`

	ContractNumber   string `json:"contractNumber"`
	CadastralQuarter string `json:"cadastralQuarter"`
}

// sectionLabel names a report section in the order it is rendered.
type sectionLabel string

const (
	sectionBefore sectionLabel = "Before works"
	sectionAfter  sectionLabel = "After works"
)
