// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"docgen-engine/internal/models"
)

var (
	ErrTemplateNotFound = errors.New("TEMPLATE_NOT_FOUND")
	ErrDocumentNotFound = errors.New("DOCUMENT_NOT_FOUND")
)

// TemplateStore provides templates and their persisted mapping tables.
type TemplateStore interface {
	GetTemplate(ctx context.Context, id string) (*models.Template, error)
	// GetMappingTable returns (nil, nil) when no table was ever saved for the
	// template; callers fall back to initializing one from the template text.
	GetMappingTable(ctx context.Context, templateID string) (*models.MappingTable, error)
	// SaveMappingTable replaces any prior table for the same template.
	SaveMappingTable(ctx context.Context, table *models.MappingTable) error
}

// DataStore provides per-category business data snapshots. An absent record
// yields (nil, nil); only infrastructure failures return an error.
type DataStore interface {
	GetFields(ctx context.Context, subjectID string, category models.Category) (map[string]string, error)
}

// DocumentStore persists generated documents.
type DocumentStore interface {
	Insert(ctx context.Context, doc *models.GeneratedDocument) (string, error)
	Get(ctx context.Context, id string) (*models.GeneratedDocument, error)
	Delete(ctx context.Context, id string) error
}

// ImageSource fetches remote images for the photo-report composer.
type ImageSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
