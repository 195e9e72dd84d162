package pdfsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/cardforge/cardforge/pkg/logger"
)

const (
	// Pages proposed for the initial range after an upload, counted from the
	// suggested start page.
	proposedWindowPages = 10

	// Share of empty pages above which the document is flagged as likely
	// scanned. The warning is advisory and never fails the extraction.
	emptyPageWarnRatio = 0.2

	// The suggested-start heuristic scans the leading pages for the first one
	// with enough text to look like real content rather than a cover, title
	// or table-of-contents page.
	suggestedStartScanPages = 10
	suggestedStartMinChars  = 400
)

var (
	ErrNotPDF           = errors.New("file is not a PDF")
	ErrFileTooLarge     = errors.New("PDF exceeds the maximum upload size")
	ErrExtractionFailed = errors.New("failed to extract text from PDF")
)

// Extraction is the result of pulling per-page text out of a document.
// Pages is ordered, index = page number - 1.
type Extraction struct {
	Pages              []string
	TotalPages         int
	Filename           string
	SuggestedStartPage int
	EmptyPages         int
}

// LooksScanned reports whether enough pages came back empty that the document
// is probably image-based.
func (e *Extraction) LooksScanned() bool {
	return e.TotalPages > 0 &&
		float64(e.EmptyPages) > float64(e.TotalPages)*emptyPageWarnRatio
}

type Extractor struct {
	maxBytes int64
	log      *logger.Logger
}

func NewExtractor(maxBytes int64, log *logger.Logger) *Extractor {
	return &Extractor{
		maxBytes: maxBytes,
		log:      log,
	}
}

// ExtractFile pulls per-page text from the PDF at path.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Extraction, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, ErrNotPDF
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > e.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, info.Size(), e.maxBytes)
	}

	// Up-front structural check so a corrupt file fails with a clear error
	// before the page loop.
	if _, err := api.PageCountFile(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	return e.extract(ctx, doc, filepath.Base(path))
}

// ExtractBytes is ExtractFile for an in-memory upload.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, filename string) (*Extraction, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, ErrNotPDF
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(data), e.maxBytes)
	}

	if _, err := api.PageCount(bytes.NewReader(data), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	return e.extract(ctx, doc, filename)
}

func (e *Extractor) extract(ctx context.Context, doc *fitz.Document, filename string) (*Extraction, error) {
	total := doc.NumPage()
	e.log.Debug("Extracting text from %s (%d pages)", filename, total)

	pages := make([]string, 0, total)
	empty := 0

	// Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < total; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			e.log.Debug("Could not extract text from page %d: %v", pageNum+1, err)
			text = ""
		}
		if strings.TrimSpace(text) == "" {
			empty++
			text = ""
		}
		pages = append(pages, text)
	}

	if total == 0 || empty == total {
		return nil, fmt.Errorf("%w: no extractable text, the file may be scanned or image-only", ErrExtractionFailed)
	}

	ex := &Extraction{
		Pages:              pages,
		TotalPages:         total,
		Filename:           filename,
		SuggestedStartPage: suggestStartPage(pages),
		EmptyPages:         empty,
	}

	if ex.LooksScanned() {
		e.log.Warn("%d of %d pages have no text, %s may be scanned or image-based", empty, total, filename)
	}

	return ex, nil
}

// suggestStartPage picks the first of the leading pages with enough text to
// be real content, skipping covers and front matter. Falls back to page 1.
func suggestStartPage(pages []string) int {
	scan := len(pages)
	if scan > suggestedStartScanPages {
		scan = suggestedStartScanPages
	}
	for i := 0; i < scan; i++ {
		if len(strings.TrimSpace(pages[i])) >= suggestedStartMinChars {
			return i + 1
		}
	}
	return 1
}
