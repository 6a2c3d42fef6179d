// internal/document/render/render_test.go
package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/models"
)

func testTable(mappings ...models.Mapping) *models.MappingTable {
	return &models.MappingTable{TemplateID: "tpl-1", Mappings: mappings}
}

func TestTextRendererSubstitutesResolvedValues(t *testing.T) {
	tpl := &models.Template{
		ID:          "tpl-1",
		Name:        "contract",
		Format:      models.FormatText,
		ContentText: "Prepared for {{client.name}} {{client.surname}}",
	}
	table := testTable(
		models.Mapping{Tag: "{{client.name}}", Category: models.CategoryClient, Target: "client.name"},
		models.Mapping{Tag: "{{client.surname}}", Category: models.CategoryClient, Target: "client.surname"},
	)
	data := models.DataGraph{
		models.CategoryClient: {"name": "Jane", "surname": "Doe"},
	}

	engine := NewEngine(Options{}, logger.NewTestLogger(t))
	result, err := engine.Render(tpl, table, data)

	require.NoError(t, err)
	assert.Equal(t, "Prepared for Jane Doe", result.Content)
	assert.Equal(t, models.FormatText, result.Format)
}

func TestTextRendererMissingValueGetsPlaceholder(t *testing.T) {
	tpl := &models.Template{
		ID:          "tpl-1",
		Format:      models.FormatText,
		ContentText: "Client: {{client.name}}",
	}
	table := testTable(
		models.Mapping{Tag: "{{client.name}}", Category: models.CategoryClient, Target: "client.name"},
	)

	engine := NewEngine(Options{}, logger.NewTestLogger(t))
	result, err := engine.Render(tpl, table, models.DataGraph{})

	require.NoError(t, err)
	assert.Equal(t, "Client: [client.name]", result.Content)
}

func TestTextRendererLocalizedAddressAlias(t *testing.T) {
	tpl := &models.Template{
		ID:          "tpl-1",
		Format:      models.FormatText,
		ContentText: "Address: {{адрес}}",
	}
	table := testTable(
		models.Mapping{Tag: "{{адрес}}", Category: models.CategoryClient, Target: "client.адрес"},
	)
	data := models.DataGraph{
		models.CategoryClient: {"address": "12 Main St"},
	}

	engine := NewEngine(Options{}, logger.NewTestLogger(t))
	result, err := engine.Render(tpl, table, data)

	require.NoError(t, err)
	assert.Equal(t, "Address: 12 Main St", result.Content)
}

func TestTextRendererEmptyTemplateFails(t *testing.T) {
	tpl := &models.Template{ID: "tpl-1", Format: models.FormatText, ContentText: "   "}

	engine := NewEngine(Options{}, logger.NewTestLogger(t))
	_, err := engine.Render(tpl, testTable(), models.DataGraph{})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRenderFailure, apperrors.GetErrorCode(err))
}

func TestDocxRendererNoBinaryContentSubstitutesText(t *testing.T) {
	tpl := &models.Template{
		ID:          "tpl-1",
		Format:      models.FormatDocx,
		ContentText: "Number: {{document.number}}",
	}
	table := testTable(
		models.Mapping{Tag: "{{document.number}}", Category: models.CategoryDocument, Target: "document.number"},
	)
	data := models.DataGraph{
		models.CategoryDocument: {"number": "42-A"},
	}

	engine := NewEngine(Options{}, logger.NewTestLogger(t))
	result, err := engine.Render(tpl, table, data)

	require.NoError(t, err)
	assert.Equal(t, "Number: 42-A", result.Content)
	assert.Equal(t, models.FormatText, result.Format)
	assert.Equal(t, "-mapped", result.NameSuffix)
}

func TestDocxRendererNoMatchesFails(t *testing.T) {
	tpl := &models.Template{
		ID:          "tpl-1",
		Format:      models.FormatDocx,
		ContentText: "static text without tags",
	}
	table := testTable(
		models.Mapping{Tag: "{{client.name}}", Category: models.CategoryClient, Target: "client.name"},
	)

	engine := NewEngine(Options{}, logger.NewTestLogger(t))
	_, err := engine.Render(tpl, table, models.DataGraph{})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNoSubstitutionsApplied, apperrors.GetErrorCode(err))
}

func TestDocxRendererCorruptArchiveFallsBackToText(t *testing.T) {
	tpl := &models.Template{
		ID:          "tpl-1",
		Format:      models.FormatDocx,
		Content:     models.EncodeContent(models.MIMEDocx, []byte("not a zip archive")),
		ContentText: "Client: {{client.name}}",
	}
	table := testTable(
		models.Mapping{Tag: "{{client.name}}", Category: models.CategoryClient, Target: "client.name"},
	)
	data := models.DataGraph{
		models.CategoryClient: {"name": "Jane"},
	}

	engine := NewEngine(Options{}, logger.NewTestLogger(t))
	result, err := engine.Render(tpl, table, data)

	require.NoError(t, err)
	assert.Equal(t, "Client: Jane", result.Content)
	assert.Equal(t, models.FormatText, result.Format)
}

func TestPDFRendererInvalidContentFails(t *testing.T) {
	tpl := &models.Template{
		ID:      "tpl-1",
		Format:  models.FormatPDF,
		Content: "%%%not-base64%%%",
	}

	engine := NewEngine(Options{}, logger.NewTestLogger(t))
	_, err := engine.Render(tpl, testTable(), models.DataGraph{})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRenderFailure, apperrors.GetErrorCode(err))
}

func TestSubstituteTextCountsDistinctMatches(t *testing.T) {
	subs := []substitution{
		{tag: "{{a}}", value: "1"},
		{tag: "{{b}}", value: "2"},
		{tag: "{{c}}", value: "3"},
	}

	out, matched := substituteText("{{a}} {{a}} {{b}}", subs)

	assert.Equal(t, "1 1 2", out)
	assert.Equal(t, 2, matched)
}
