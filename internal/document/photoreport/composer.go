// internal/document/photoreport/composer.go
package photoreport

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	godocx "github.com/fumiama/go-docx"
	"github.com/nfnt/resize"

	apperrors "docgen-engine/internal/common/errors"
	"docgen-engine/internal/common/logger"
	"docgen-engine/internal/common/metrics"
	"docgen-engine/internal/models"
	"docgen-engine/internal/storage"

	_ "image/gif"
	_ "image/png"
)

const (
	gridCols   = 2
	gridRows   = 2
	tableWidth = 9000 // twips, fits A4 portrait margins
)

// Options tunes image normalization. Every embedded photo is scaled to the
// same fixed size so the grid layout is stable regardless of source
// dimensions.
type Options struct {
	ImageWidth  int
	ImageHeight int
	JPEGQuality int
}

// Composer assembles a two-section photo report. Images are fetched strictly
// in sequence order; grid position follows fetch-completion order, so the
// fetch loop must never be parallelized without an explicit reordering step.
type Composer struct {
	source storage.ImageSource
	opts   Options
	logger logger.Logger
}

func NewComposer(source storage.ImageSource, opts Options, log logger.Logger) *Composer {
	if opts.ImageWidth <= 0 {
		opts.ImageWidth = 640
	}
	if opts.ImageHeight <= 0 {
		opts.ImageHeight = 480
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 85
	}
	return &Composer{
		source: source,
		opts:   opts,
		logger: log.WithFields(map[string]interface{}{"component": "photoreport"}),
	}
}

// Compose fetches both image sequences and lays them out as bordered 2x2
// grids, one section per sequence, separated by a page break. A single fetch
// failure aborts the whole composition; no partial report is produced.
func (c *Composer) Compose(ctx context.Context, req *Request) (*models.GeneratedDocument, error) {
	before, err := c.fetchSequence(ctx, req.Before)
	if err != nil {
		metrics.PhotoReportFailures.WithLabelValues(string(apperrors.GetErrorCode(err))).Inc()
		return nil, err
	}
	after, err := c.fetchSequence(ctx, req.After)
	if err != nil {
		metrics.PhotoReportFailures.WithLabelValues(string(apperrors.GetErrorCode(err))).Inc()
		return nil, err
	}

	content, err := c.buildDocument(req, before, after)
	if err != nil {
		metrics.PhotoReportFailures.WithLabelValues(string(apperrors.ErrCodeRenderFailure)).Inc()
		return nil, apperrors.NewRenderFailureError(fmt.Sprintf("assembling photo report: %v", err))
	}

	c.logger.Info("photo report composed", map[string]interface{}{
		"beforeImages": len(before),
		"afterImages":  len(after),
		"bytes":        len(content),
	})
	metrics.PhotoReportsComposed.Inc()

	return &models.GeneratedDocument{
		Name:      fmt.Sprintf("photo-report-%s", req.ContractNumber),
		Format:    models.FormatDocx,
		Content:   models.EncodeContent(models.MIMEDocx, content),
		Status:    models.DocumentStatusGenerated,
		CreatedAt: time.Now(),
	}, nil
}

// fetchSequence acquires images one at a time, normalizing each before the
// next fetch starts. Order of the returned slice is the placement order.
func (c *Composer) fetchSequence(ctx context.Context, refs []string) ([][]byte, error) {
	images := make([][]byte, 0, len(refs))
	for _, ref := range refs {
		raw, err := c.source.Fetch(ctx, ref)
		if err != nil {
			return nil, apperrors.NewImageFetchFailureError(ref, err.Error())
		}
		normalized, err := c.normalizeImage(raw)
		if err != nil {
			return nil, apperrors.NewImageFetchFailureError(ref, fmt.Sprintf("decoding image: %v", err))
		}
		images = append(images, normalized)
	}
	return images, nil
}

// normalizeImage re-encodes a fetched image as a fixed-size JPEG.
func (c *Composer) normalizeImage(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	scaled := resize.Resize(uint(c.opts.ImageWidth), uint(c.opts.ImageHeight), img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: c.opts.JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Composer) buildDocument(req *Request, before, after [][]byte) ([]byte, error) {
	doc := godocx.New().WithDefaultTheme()

	if err := c.writeSection(doc, sectionBefore, req, before); err != nil {
		return nil, err
	}
	doc.AddParagraph().AddPageBreaks()
	if err := c.writeSection(doc, sectionAfter, req, after); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSection emits one heading, the metadata block, and as many 2x2 grids
// as the image count requires, filled row-major in fetch order.
func (c *Composer) writeSection(doc *godocx.Docx, label sectionLabel, req *Request, images [][]byte) error {
	doc.AddParagraph().AddText(string(label)).Size("32").Bold()
	doc.AddParagraph().AddText(fmt.Sprintf("Contract: %s", req.ContractNumber))
	doc.AddParagraph().AddText(fmt.Sprintf("Cadastral quarter: %s", req.CadastralQuarter))

	perGrid := gridRows * gridCols
	for start := 0; start < len(images); start += perGrid {
		end := start + perGrid
		if end > len(images) {
			end = len(images)
		}
		if err := c.writeGrid(doc, images[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composer) writeGrid(doc *godocx.Docx, images [][]byte) error {
	table := doc.AddTable(gridRows, gridCols, tableWidth, nil)
	for i, img := range images {
		cell := table.TableRows[i/gridCols].TableCells[i%gridCols]
		if _, err := cell.AddParagraph().AddInlineDrawing(img); err != nil {
			return err
		}
	}
	return nil
}
