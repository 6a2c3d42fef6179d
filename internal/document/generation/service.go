// internal/document/generation/service.go
package generation

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/common/metrics"
	"docgen-engine/internal/document/mapping"
	"docgen-engine/internal/document/render"
	"docgen-engine/internal/models"
	"docgen-engine/internal/storage"
)

// Service orchestrates document generation. Each request walks the linear
// state machine; every stage either completes or raises one typed failure.
// No stage retries automatically.
type Service struct {
	templates storage.TemplateStore
	data      storage.DataStore
	documents storage.DocumentStore
	mappings  *mapping.Service
	engine    *render.Engine
	logger    logger.Logger
}

func NewService(
	templates storage.TemplateStore,
	data storage.DataStore,
	documents storage.DocumentStore,
	mappings *mapping.Service,
	engine *render.Engine,
	log logger.Logger,
) *Service {
	return &Service{
		templates: templates,
		data:      data,
		documents: documents,
		mappings:  mappings,
		engine:    engine,
		logger:    log.WithFields(map[string]interface{}{"component": "generation"}),
	}
}

// Generate runs one request through validating-template, resolving-data,
// rendering, validating-content and persisting. The returned document carries
// the id assigned by the store.
func (s *Service) Generate(ctx context.Context, req *Request) (*models.GeneratedDocument, error) {
	started := time.Now()

	if err := validateRequest(req); err != nil {
		metrics.GenerationFailures.WithLabelValues(string(StateIdle), string(apperrors.GetErrorCode(err))).Inc()
		return nil, err
	}

	state := newRequestState()

	// validating-template
	if err := state.advance(StateValidatingTemplate); err != nil {
		return nil, err
	}
	template, err := s.loadTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, s.failStage(state, req, err)
	}
	if err := validateTemplate(template); err != nil {
		return nil, s.failStage(state, req, err)
	}

	// resolving-data
	if err := state.advance(StateResolvingData); err != nil {
		return nil, err
	}
	data, err := s.resolveData(ctx, req.SubjectID)
	if err != nil {
		return nil, s.failStage(state, req, err)
	}

	// rendering
	if err := state.advance(StateRendering); err != nil {
		return nil, err
	}
	table, err := s.resolveTable(ctx, req, template)
	if err != nil {
		return nil, s.failStage(state, req, err)
	}
	if !table.IsEmpty() {
		if err := mapping.Validate(table); err != nil {
			return nil, s.failStage(state, req, err)
		}
	}
	result, err := s.engine.Render(template, table, data)
	if err != nil {
		return nil, s.failStage(state, req, err)
	}

	// validating-content
	if err := state.advance(StateValidatingContent); err != nil {
		return nil, err
	}
	if err := render.ValidateContent(result.Content, result.Format); err != nil {
		return nil, s.failStage(state, req, err)
	}

	// persisting
	if err := state.advance(StatePersisting); err != nil {
		return nil, err
	}
	doc := &models.GeneratedDocument{
		Name:      documentName(req, template, result),
		Format:    result.Format,
		Content:   result.Content,
		Status:    models.DocumentStatusGenerated,
		CreatedAt: time.Now(),
	}
	id, err := s.documents.Insert(ctx, doc)
	if err != nil {
		return nil, s.failStage(state, req, apperrors.NewStorageFailureError(err.Error()))
	}
	doc.ID = id

	if err := state.advance(StateDone); err != nil {
		return nil, err
	}

	metrics.DocumentsGenerated.WithLabelValues(string(result.Format)).Inc()
	metrics.GenerationDuration.WithLabelValues(string(result.Format)).Observe(time.Since(started).Seconds())
	s.logger.Info("document generated", map[string]interface{}{
		"documentId": doc.ID,
		"templateId": req.TemplateID,
		"subjectId":  req.SubjectID,
		"format":     string(doc.Format),
	})
	return doc, nil
}

// Download re-fetches a stored document, re-validates its content against the
// stored format, and only then releases the decoded bytes. Storage is not
// trusted to preserve validity across round-trips.
func (s *Service) Download(ctx context.Context, id string) ([]byte, *models.GeneratedDocument, error) {
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		if err == storage.ErrDocumentNotFound {
			return nil, nil, err
		}
		return nil, nil, apperrors.NewStorageFailureError(err.Error())
	}
	if err := render.ValidateContent(doc.Content, doc.Format); err != nil {
		return nil, nil, err
	}
	raw, err := doc.DecodeContent()
	if err != nil {
		return nil, nil, apperrors.NewInvalidDocumentContentError(
			fmt.Sprintf("decoding stored document %s: %v", id, err))
	}
	return raw, doc, nil
}

// Delete removes a stored document.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.documents.Delete(ctx, id)
}

func (s *Service) loadTemplate(ctx context.Context, id string) (*models.Template, error) {
	template, err := s.templates.GetTemplate(ctx, id)
	if err != nil {
		if err == storage.ErrTemplateNotFound {
			return nil, apperrors.NewTemplateInvalidError(fmt.Sprintf("template %s not found", id))
		}
		return nil, apperrors.NewStorageFailureError(err.Error())
	}
	return template, nil
}

// resolveData assembles a best-effort snapshot: absent categories are
// tolerated, only infrastructure failures abort.
func (s *Service) resolveData(ctx context.Context, subjectID string) (models.DataGraph, error) {
	graph := models.DataGraph{}
	for _, category := range models.Categories {
		fields, err := s.data.GetFields(ctx, subjectID, category)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			continue
		}
		graph[category] = fields
	}
	return graph, nil
}

// resolveTable prefers the caller-supplied table and falls back to the
// template's persisted (or freshly seeded) one.
func (s *Service) resolveTable(ctx context.Context, req *Request, template *models.Template) (*models.MappingTable, error) {
	if req.MappingTable != nil {
		return req.MappingTable, nil
	}
	return s.mappings.Load(ctx, template)
}

func (s *Service) failStage(state *requestState, req *Request, err error) error {
	stage := state.Current()
	state.fail()
	metrics.GenerationFailures.WithLabelValues(string(stage), string(apperrors.GetErrorCode(err))).Inc()
	s.logger.Error("generation failed", map[string]interface{}{
		"templateId": req.TemplateID,
		"subjectId":  req.SubjectID,
		"stage":      string(stage),
		"error":      err.Error(),
	})
	return err
}

func validateRequest(req *Request) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(requestSchema),
		gojsonschema.NewGoLoader(req),
	)
	if err != nil {
		return apperrors.NewTemplateInvalidError(fmt.Sprintf("request validation error: %v", err))
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewTemplateInvalidError(fmt.Sprintf("invalid request: %v", errs))
	}
	return nil
}

// validateTemplate applies the pre-render non-corruption checks.
func validateTemplate(t *models.Template) error {
	if strings.TrimSpace(t.Content) == "" && strings.TrimSpace(t.ContentText) == "" {
		return apperrors.NewTemplateInvalidError("template content is empty or invalid")
	}
	if t.Format == models.FormatDocx && strings.TrimSpace(t.ContentText) == "" {
		// Without extracted text the package renderer has no fallback path.
		return apperrors.NewTemplateInvalidError(
			fmt.Sprintf("template %s has no extracted text", t.ID))
	}
	if t.Format == models.FormatPDF {
		raw, err := t.DecodeContent()
		if err != nil {
			return apperrors.NewTemplateInvalidError(fmt.Sprintf("template %s: %v", t.ID, err))
		}
		if !bytes.HasPrefix(raw, []byte("%PDF-")) {
			return apperrors.NewTemplateInvalidError(
				fmt.Sprintf("template %s content is not a pdf", t.ID))
		}
	}
	return nil
}

func documentName(req *Request, template *models.Template, result *render.Result) string {
	name := req.Name
	if name == "" {
		name = template.Name
	}
	return name + result.NameSuffix
}
