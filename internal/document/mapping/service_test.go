// internal/document/mapping/service_test.go
package mapping

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeTemplateStore struct {
	table     *models.MappingTable
	saved     *models.MappingTable
	getErr    error
	saveErr   error
	getCalled bool
}

func (f *fakeTemplateStore) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	return nil, nil
}

func (f *fakeTemplateStore) GetMappingTable(ctx context.Context, templateID string) (*models.MappingTable, error) {
	f.getCalled = true
	return f.table, f.getErr
}

func (f *fakeTemplateStore) SaveMappingTable(ctx context.Context, table *models.MappingTable) error {
	f.saved = table
	return f.saveErr
}

func createTestTemplate() *models.Template {
	return &models.Template{
		ID:          "tpl-1",
		Name:        "Contract",
		Format:      models.FormatDocx,
		ContentText: "Agreement between {{client.name}} and us for {{surface_area}} of {{xyz}}",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestInitFromTemplate_DefaultTargets(t *testing.T) {
	table := InitFromTemplate(createTestTemplate())

	require.Len(t, table.Mappings, 3)
	assert.Equal(t, "tpl-1", table.TemplateID)

	assert.Equal(t, models.Mapping{
		Tag:      "{{client.name}}",
		Category: models.CategoryClient,
		Target:   "client.name",
	}, table.Mappings[0])

	assert.Equal(t, models.Mapping{
		Tag:      "{{surface_area}}",
		Category: models.CategoryProject,
		Target:   "project.surface_area",
	}, table.Mappings[1])

	// No classifier match: raw interior stands in as the field name.
	assert.Equal(t, models.Mapping{
		Tag:      "{{xyz}}",
		Category: models.CategoryClient,
		Target:   "client.xyz",
	}, table.Mappings[2])
}

func TestInitFromTemplate_EmptyText(t *testing.T) {
	table := InitFromTemplate(&models.Template{ID: "tpl-2", Format: models.FormatText})
	assert.Empty(t, table.Mappings)
}

func TestLoad_FallsBackToInitWhenAbsent(t *testing.T) {
	store := &fakeTemplateStore{table: nil}
	svc := NewService(store, nil, logger.NewTestLogger(t))

	table, err := svc.Load(context.Background(), createTestTemplate())
	require.NoError(t, err)
	assert.True(t, store.getCalled)
	assert.Len(t, table.Mappings, 3)
}

func TestLoad_ReturnsPersistedTable(t *testing.T) {
	persisted := &models.MappingTable{
		TemplateID: "tpl-1",
		Mappings: []models.Mapping{
			{Tag: "{{client.name}}", Category: models.CategoryClient, Target: "client.surname"},
		},
	}
	store := &fakeTemplateStore{table: persisted}
	svc := NewService(store, nil, logger.NewTestLogger(t))

	table, err := svc.Load(context.Background(), createTestTemplate())
	require.NoError(t, err)
	assert.Equal(t, persisted, table)
}

func TestLoad_CacheHitSkipsStore(t *testing.T) {
	cached := &models.MappingTable{
		TemplateID: "tpl-1",
		Mappings: []models.Mapping{
			{Tag: "{{a}}", Category: models.CategoryClient, Target: "client.a"},
		},
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("mapping:tpl-1").SetVal(string(payload))

	store := &fakeTemplateStore{}
	svc := NewService(store, rdb, logger.NewTestLogger(t))

	table, err := svc.Load(context.Background(), createTestTemplate())
	require.NoError(t, err)
	assert.Equal(t, cached.Mappings, table.Mappings)
	assert.False(t, store.getCalled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UpsertsAndRefreshesCache(t *testing.T) {
	table := &models.MappingTable{
		TemplateID: "tpl-1",
		Mappings: []models.Mapping{
			{Tag: "{{a}}", Category: models.CategoryClient, Target: "client.a"},
		},
	}
	payload, err := json.Marshal(table)
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectSet("mapping:tpl-1", payload, cacheTTL).SetVal("OK")

	store := &fakeTemplateStore{}
	svc := NewService(store, rdb, logger.NewTestLogger(t))

	require.NoError(t, svc.Save(context.Background(), table))
	assert.Equal(t, table, store.saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEdit(t *testing.T) {
	table := InitFromTemplate(createTestTemplate())

	err := Edit(table, 2, models.CategoryCadastre, "cadastre.quarter")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCadastre, table.Mappings[2].Category)
	assert.Equal(t, "cadastre.quarter", table.Mappings[2].Target)

	// Edits apply no structural validation: the sentinel is legal here.
	require.NoError(t, Edit(table, 0, "", models.UndefinedTarget))
	assert.Equal(t, models.UndefinedTarget, table.Mappings[0].Target)

	assert.Error(t, Edit(table, 99, models.CategoryClient, "client.name"))
	assert.Error(t, Edit(table, 1, models.Category("bogus"), ""))
}

func TestAddCustomTag(t *testing.T) {
	table := &models.MappingTable{TemplateID: "tpl-1"}

	m := AddCustomTag(table, "special_note", models.CategoryDocument)
	assert.Equal(t, "{{special_note}}", m.Tag)
	assert.Equal(t, "document.special_note", m.Target)

	m = AddCustomTag(table, "{{already_wrapped}}", models.CategoryProject)
	assert.Equal(t, "{{already_wrapped}}", m.Tag)
	assert.Equal(t, "project.already_wrapped", m.Target)

	assert.Len(t, table.Mappings, 2)
}

// ==========================
// Validation Tests
// ==========================

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		table     *models.MappingTable
		expectErr bool
	}{
		{
			name: "complete table is valid",
			table: &models.MappingTable{Mappings: []models.Mapping{
				{Tag: "{{a}}", Target: "client.name"},
			}},
			expectErr: false,
		},
		{
			name: "empty target is invalid",
			table: &models.MappingTable{Mappings: []models.Mapping{
				{Tag: "{{a}}", Target: ""},
			}},
			expectErr: true,
		},
		{
			name: "sentinel target is invalid",
			table: &models.MappingTable{Mappings: []models.Mapping{
				{Tag: "{{a}}", Target: models.UndefinedTarget},
			}},
			expectErr: true,
		},
		{
			name:      "empty table is invalid when checked explicitly",
			table:     &models.MappingTable{},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.table)
			if tt.expectErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrCodeMappingIncomplete, apperrors.GetErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
