// internal/storage/data_store.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/models"
)

// categoryTables maps each data category to the back-office table holding its
// per-subject record.
var categoryTables = map[models.Category]string{
	models.CategoryClient:      "clients",
	models.CategoryProject:     "projects",
	models.CategoryCadastre:    "cadastre_records",
	models.CategoryCalculation: "calculations",
	models.CategoryDocument:    "documents",
}

// PostgresDataStore implements DataStore by scanning the subject's row from
// the category table into a flat field map. Column sets differ per category,
// so rows are scanned generically.
type PostgresDataStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresDataStore(db *sql.DB, log logger.Logger) *PostgresDataStore {
	return &PostgresDataStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "data"}),
	}
}

func (s *PostgresDataStore) GetFields(ctx context.Context, subjectID string, category models.Category) (map[string]string, error) {
	table, ok := categoryTables[category]
	if !ok {
		return nil, fmt.Errorf("unknown data category: %s", category)
	}

	// Table names come from the fixed map above, never from input.
	query := fmt.Sprintf(`SELECT * FROM %s WHERE subject_id = $1 LIMIT 1`, table)
	rows, err := s.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, apperrors.NewDataUnavailableError(string(category), err.Error())
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, apperrors.NewDataUnavailableError(string(category), err.Error())
		}
		// Missing related record: absent category, not an error.
		return nil, nil
	}

	fields, err := scanRowToMap(rows)
	if err != nil {
		return nil, apperrors.NewDataUnavailableError(string(category), err.Error())
	}
	return fields, nil
}

// scanRowToMap scans the current row into field -> string value, using the
// column names as field names. NULLs become absent fields.
func scanRowToMap(rows *sql.Rows) (map[string]string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("row columns: %w", err)
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	fields := make(map[string]string, len(columns))
	for i, col := range columns {
		if values[i].Valid {
			fields[col] = values[i].String
		}
	}
	return fields, nil
}

// IsNotFound reports whether err represents a missing record rather than an
// infrastructure failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) || errors.Is(err, ErrDocumentNotFound)
}
