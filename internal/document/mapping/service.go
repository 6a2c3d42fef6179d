// Package mapping owns the tag-to-field association tables for document
// templates: seeding them from template text, operator edits, persistence
// with upsert semantics, and pre-render validation.
package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/document/tags"
	"docgen-engine/internal/models"
	"docgen-engine/internal/storage"
)

const (
	cacheKeyPrefix = "mapping:"
	cacheTTL       = 5 * time.Minute
)

type Service struct {
	store  storage.TemplateStore
	cache  *redis.Client // nil disables caching
	logger logger.Logger
}

func NewService(store storage.TemplateStore, cache *redis.Client, log logger.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "mapping"}),
	}
}

// InitFromTemplate seeds a mapping table from the template's text: every
// discovered tag is classified and given a default target. When the
// classifier matched a known field the target reuses it; otherwise the tag's
// raw interior stands in as the field name.
func InitFromTemplate(t *models.Template) *models.MappingTable {
	text := t.ContentText
	if text == "" {
		text = t.Content
	}

	found := tags.Extract(text)
	mappings := make([]models.Mapping, 0, len(found))
	for _, tag := range found {
		category, field := tags.Classify(tag)
		if field == "" {
			field = tags.Interior(tag)
		}
		mappings = append(mappings, models.Mapping{
			Tag:      tag,
			Category: category,
			Target:   fmt.Sprintf("%s.%s", category, field),
		})
	}

	return &models.MappingTable{TemplateID: t.ID, Mappings: mappings}
}

// Load returns the persisted mapping table for the template, falling back to
// InitFromTemplate when none was ever saved. A cached copy short-circuits the
// store read.
func (s *Service) Load(ctx context.Context, t *models.Template) (*models.MappingTable, error) {
	if cached := s.fromCache(ctx, t.ID); cached != nil {
		return cached, nil
	}

	table, err := s.store.GetMappingTable(ctx, t.ID)
	if err != nil {
		return nil, apperrors.NewStorageFailureError(err.Error())
	}
	if table == nil {
		return InitFromTemplate(t), nil
	}

	s.toCache(ctx, table)
	return table, nil
}

// Save persists the full table, replacing any prior table for the template,
// and refreshes the cache.
func (s *Service) Save(ctx context.Context, table *models.MappingTable) error {
	if err := s.store.SaveMappingTable(ctx, table); err != nil {
		return apperrors.NewStorageFailureError(err.Error())
	}
	s.toCache(ctx, table)
	return nil
}

// Edit updates category and/or target of one entry. Structural validation is
// deliberately deferred to Validate; an operator may leave entries
// half-edited between saves.
func Edit(table *models.MappingTable, index int, category models.Category, target string) error {
	if index < 0 || index >= len(table.Mappings) {
		return fmt.Errorf("mapping index %d out of range", index)
	}
	if category != "" {
		if !category.IsValid() {
			return fmt.Errorf("unknown category: %s", category)
		}
		table.Mappings[index].Category = category
	}
	if target != "" {
		table.Mappings[index].Target = target
	}
	return nil
}

// AddCustomTag appends an operator-supplied tag, wrapping it in delimiters if
// missing and defaulting the target to the active category plus the raw
// interior as field name.
func AddCustomTag(table *models.MappingTable, tagText string, active models.Category) models.Mapping {
	tag := tags.Wrap(tagText)
	m := models.Mapping{
		Tag:      tag,
		Category: active,
		Target:   fmt.Sprintf("%s.%s", active, tags.Interior(tag)),
	}
	table.Mappings = append(table.Mappings, m)
	return m
}

// Validate returns nil only if the table is non-empty and every entry's
// target is non-empty and not the undefined sentinel. Callers that accept an
// absent table ("render without substitution") must not invoke Validate for
// that case.
func Validate(table *models.MappingTable) error {
	if table.IsEmpty() {
		return apperrors.NewMappingIncompleteError("mapping table is empty")
	}
	for _, m := range table.Mappings {
		if !m.IsValid() {
			return apperrors.NewMappingIncompleteError(
				fmt.Sprintf("tag %s has no target", m.Tag))
		}
	}
	return nil
}

func (s *Service) cacheKey(templateID string) string {
	return cacheKeyPrefix + templateID
}

func (s *Service) fromCache(ctx context.Context, templateID string) *models.MappingTable {
	if s.cache == nil {
		return nil
	}
	val, err := s.cache.Get(ctx, s.cacheKey(templateID)).Result()
	if err != nil {
		return nil
	}
	var table models.MappingTable
	if err := json.Unmarshal([]byte(val), &table); err != nil {
		return nil
	}
	return &table
}

func (s *Service) toCache(ctx context.Context, table *models.MappingTable) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(table)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(table.TemplateID), data, cacheTTL).Err(); err != nil {
		s.logger.Debug("mapping table cache write failed", map[string]interface{}{
			"templateId": table.TemplateID,
			"error":      err.Error(),
		})
	}
}
