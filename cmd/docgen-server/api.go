// cmd/docgen-server/api.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"docgen-engine/internal/common/database"
	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/document/generation"
	"docgen-engine/internal/document/mapping"
	"docgen-engine/internal/document/photoreport"
	"docgen-engine/internal/models"
	"docgen-engine/internal/storage"
)

// api exposes the generation pipeline over plain JSON endpoints. The engine
// itself owns no wire protocol; this surface exists so the back-office can
// drive it.
type api struct {
	generator *generation.Service
	mappings  *mapping.Service
	templates storage.TemplateStore
	composer  *photoreport.Composer
	documents storage.DocumentStore
	logger    logger.Logger
}

func newAPI(
	generator *generation.Service,
	mappings *mapping.Service,
	templates storage.TemplateStore,
	composer *photoreport.Composer,
	documents storage.DocumentStore,
	log logger.Logger,
) *api {
	return &api{
		generator: generator,
		mappings:  mappings,
		templates: templates,
		composer:  composer,
		documents: documents,
		logger:    log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

func (a *api) routes(pg *database.PostgresClient, redis *database.RedisClient) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.Ping(r.Context()); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := redis.Ping(r.Context()); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /api/documents", a.handleGenerate)
	mux.HandleFunc("GET /api/documents/{id}/download", a.handleDownload)
	mux.HandleFunc("DELETE /api/documents/{id}", a.handleDelete)
	mux.HandleFunc("POST /api/photo-reports", a.handlePhotoReport)
	mux.HandleFunc("GET /api/templates/{id}/mappings", a.handleGetMappings)
	mux.HandleFunc("PUT /api/templates/{id}/mappings", a.handleSaveMappings)

	return mux
}

func (a *api) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generation.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := a.generator.Generate(r.Context(), &req)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        doc.ID,
		"name":      doc.Name,
		"format":    doc.Format,
		"status":    doc.Status,
		"createdAt": doc.CreatedAt,
	})
}

func (a *api) handleDownload(w http.ResponseWriter, r *http.Request) {
	raw, doc, err := a.generator.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(doc.Format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (a *api) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.generator.Delete(r.Context(), r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handlePhotoReport(w http.ResponseWriter, r *http.Request) {
	var req photoreport.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := a.composer.Compose(r.Context(), &req)
	if err != nil {
		a.writeError(w, err)
		return
	}

	id, err := a.documents.Insert(r.Context(), doc)
	if err != nil {
		a.writeError(w, apperrors.NewStorageFailureError(err.Error()))
		return
	}

	a.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":     id,
		"name":   doc.Name,
		"format": doc.Format,
	})
}

func (a *api) handleGetMappings(w http.ResponseWriter, r *http.Request) {
	table, err := a.loadTable(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, table)
}

func (a *api) handleSaveMappings(w http.ResponseWriter, r *http.Request) {
	var table models.MappingTable
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	table.TemplateID = r.PathValue("id")

	// Half-edited tables are saveable; completeness is enforced at render
	// time, not here.
	if err := a.mappings.Save(r.Context(), &table); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) loadTable(ctx context.Context, templateID string) (*models.MappingTable, error) {
	template, err := a.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return a.mappings.Load(ctx, template)
}

func (a *api) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Error("response encoding failed", map[string]interface{}{"error": err.Error()})
	}
}

func (a *api) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", map[string]interface{}{"error": err.Error()})
	}

	if se, ok := apperrors.AsStandardError(err); ok {
		a.writeJSON(w, status, se)
		return
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	if errors.Is(err, storage.ErrTemplateNotFound) || errors.Is(err, storage.ErrDocumentNotFound) {
		return http.StatusNotFound
	}
	switch apperrors.GetErrorCode(err) {
	case apperrors.ErrCodeTemplateInvalid,
		apperrors.ErrCodeMappingIncomplete,
		apperrors.ErrCodeNoSubstitutionsApplied,
		apperrors.ErrCodeInvalidDocumentContent:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeDataUnavailable,
		apperrors.ErrCodeImageFetchFailure:
		return http.StatusBadGateway
	case apperrors.ErrCodeRenderFailure,
		apperrors.ErrCodeStorageFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func contentTypeFor(format models.TemplateFormat) string {
	switch format {
	case models.FormatDocx:
		return models.MIMEDocx
	case models.FormatPDF:
		return models.MIMEPDF
	default:
		return "text/plain; charset=utf-8"
	}
}
