// internal/storage/document_store.go
package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/models"
)

// PostgresDocumentStore implements DocumentStore over generated_documents,
// with optional best-effort metadata indexing into Elasticsearch so the
// back-office can search its document registry.
type PostgresDocumentStore struct {
	db      *sql.DB
	es      *elasticsearch.Client // nil when indexing is disabled
	esIndex string
	logger  logger.Logger
}

func NewPostgresDocumentStore(db *sql.DB, es *elasticsearch.Client, esIndex string, log logger.Logger) *PostgresDocumentStore {
	return &PostgresDocumentStore{
		db:      db,
		es:      es,
		esIndex: esIndex,
		logger:  log.WithFields(map[string]interface{}{"store": "documents"}),
	}
}

func (s *PostgresDocumentStore) Insert(ctx context.Context, doc *models.GeneratedDocument) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = models.DocumentStatusGenerated
	}

	query := `INSERT INTO generated_documents (id, name, format, content, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.db.ExecContext(ctx, query,
		doc.ID, doc.Name, doc.Format, doc.Content, doc.Status, doc.CreatedAt); err != nil {
		return "", fmt.Errorf("insert generated document: %w", err)
	}

	s.indexMetadata(ctx, doc)

	return doc.ID, nil
}

func (s *PostgresDocumentStore) Get(ctx context.Context, id string) (*models.GeneratedDocument, error) {
	var d models.GeneratedDocument
	query := `SELECT id, name, format, content, status, created_at
		FROM generated_documents WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Format, &d.Content, &d.Status, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get generated document: %w", err)
	}
	return &d, nil
}

func (s *PostgresDocumentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM generated_documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete generated document: %w", err)
	}
	return nil
}

// indexMetadata pushes document metadata (never content) to Elasticsearch.
// Indexing failures are logged and swallowed; search is a convenience, the
// Postgres row is the source of truth.
func (s *PostgresDocumentStore) indexMetadata(ctx context.Context, doc *models.GeneratedDocument) {
	if s.es == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"name":       doc.Name,
		"format":     doc.Format,
		"status":     doc.Status,
		"created_at": doc.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	res, err := s.es.Index(
		s.esIndex,
		bytes.NewReader(body),
		s.es.Index.WithDocumentID(doc.ID),
		s.es.Index.WithContext(ctx),
	)
	if err != nil {
		s.logger.Warn("document metadata indexing failed", map[string]interface{}{
			"documentId": doc.ID,
			"error":      err.Error(),
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Warn("document metadata indexing rejected", map[string]interface{}{
			"documentId": doc.ID,
			"status":     res.Status(),
		})
	}
}
