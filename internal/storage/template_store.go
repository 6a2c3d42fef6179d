// internal/storage/template_store.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/models"
)

// PostgresTemplateStore implements TemplateStore over document_templates and
// template_mappings tables.
type PostgresTemplateStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresTemplateStore(db *sql.DB, log logger.Logger) *PostgresTemplateStore {
	return &PostgresTemplateStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "templates"}),
	}
}

func (s *PostgresTemplateStore) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	var t models.Template
	query := `SELECT id, name, format, content, content_text, created_at
		FROM document_templates WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Format, &t.Content, &t.ContentText, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

func (s *PostgresTemplateStore) GetMappingTable(ctx context.Context, templateID string) (*models.MappingTable, error) {
	query := `SELECT tag, category, target FROM template_mappings
		WHERE template_id = $1 ORDER BY position ASC`
	rows, err := s.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("get mapping table: %w", err)
	}
	defer rows.Close()

	var mappings []models.Mapping
	for rows.Next() {
		var m models.Mapping
		if err := rows.Scan(&m.Tag, &m.Category, &m.Target); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mappings: %w", err)
	}

	if len(mappings) == 0 {
		// No table was ever saved; not an error.
		return nil, nil
	}

	return &models.MappingTable{TemplateID: templateID, Mappings: mappings}, nil
}

// SaveMappingTable has upsert semantics: the prior table is replaced, not
// appended to.
func (s *PostgresTemplateStore) SaveMappingTable(ctx context.Context, table *models.MappingTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save mapping table: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM template_mappings WHERE template_id = $1`, table.TemplateID); err != nil {
		return fmt.Errorf("clear mapping table: %w", err)
	}

	for i, m := range table.Mappings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO template_mappings (template_id, position, tag, category, target)
			 VALUES ($1, $2, $3, $4, $5)`,
			table.TemplateID, i, m.Tag, m.Category, m.Target); err != nil {
			return fmt.Errorf("insert mapping %q: %w", m.Tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mapping table: %w", err)
	}

	s.logger.Debug("mapping table saved", map[string]interface{}{
		"templateId": table.TemplateID,
		"mappings":   len(table.Mappings),
	})
	return nil
}
