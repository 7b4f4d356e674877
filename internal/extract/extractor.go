// Package extract turns stored document bytes into plain text. PDFs go
// through a page renderer with per-page OCR fallback, images go straight to
// OCR, and everything else is handed to a Tika server.
package extract

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/sgd-labs/docintel/internal/domain"
)

// PageDocument is an open paginated document. Pages are zero-indexed.
type PageDocument interface {
	NumPages() int
	Text(page int) (string, error)
	Image(page int) (image.Image, error)
	Close() error
}

// PDFOpener opens PDF bytes as a PageDocument.
type PDFOpener interface {
	Open(data []byte) (PageDocument, error)
}

// OCREngine recognizes text in rendered page images and raw image bytes.
type OCREngine interface {
	ImageText(ctx context.Context, img image.Image) (string, error)
	BytesText(ctx context.Context, data []byte) (string, error)
}

// FallbackParser extracts text from formats the extractor has no native
// path for.
type FallbackParser interface {
	Parse(ctx context.Context, data []byte, contentType string) (string, error)
}

// Extractor dispatches on content type. All failures are fatal extraction
// errors: a document with no recoverable text cannot continue the pipeline.
type Extractor struct {
	pdf      PDFOpener
	ocr      OCREngine
	fallback FallbackParser
}

// NewExtractor creates a new Extractor instance
func NewExtractor(pdf PDFOpener, ocr OCREngine, fallback FallbackParser) *Extractor {
	return &Extractor{pdf: pdf, ocr: ocr, fallback: fallback}
}

// Extract returns the plain text of a document.
func (e *Extractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", domain.NewExtractionError(domain.ErrMissingRequiredField)
	}

	switch {
	case contentType == "application/pdf":
		return e.extractPDF(ctx, data)
	case strings.HasPrefix(contentType, "image/"):
		return e.extractImage(ctx, data)
	case contentType == "text/plain":
		return string(data), nil
	default:
		return e.extractFallback(ctx, data, contentType)
	}
}

// extractPDF walks the document page by page. Pages with an embedded text
// layer use it directly; pages without one (scans) are rendered and OCRed.
// The page header records which path produced the text.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	doc, err := e.pdf.Open(data)
	if err != nil {
		return "", domain.NewExtractionError(err)
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPages(); i++ {
		if err := ctx.Err(); err != nil {
			return "", domain.NewExtractionError(err)
		}

		text, err := doc.Text(i)
		if err != nil {
			return "", domain.NewExtractionError(err)
		}

		if strings.TrimSpace(text) != "" {
			pages = append(pages, fmt.Sprintf("--- Page %d ---\n%s", i+1, text))
			continue
		}

		img, err := doc.Image(i)
		if err != nil {
			return "", domain.NewExtractionError(err)
		}
		ocrText, err := e.ocr.ImageText(ctx, img)
		if err != nil {
			return "", domain.NewExtractionError(err)
		}
		if strings.TrimSpace(ocrText) == "" {
			continue
		}
		pages = append(pages, fmt.Sprintf("--- Page %d (OCR) ---\n%s", i+1, ocrText))
	}

	combined := strings.Join(pages, "\n\n")
	if strings.TrimSpace(combined) == "" {
		return "", domain.NewExtractionError(fmt.Errorf("pdf has no extractable text"))
	}
	return combined, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	text, err := e.ocr.BytesText(ctx, data)
	if err != nil {
		return "", domain.NewExtractionError(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.NewExtractionError(fmt.Errorf("image has no recognizable text"))
	}
	return text, nil
}

func (e *Extractor) extractFallback(ctx context.Context, data []byte, contentType string) (string, error) {
	if e.fallback == nil {
		return "", domain.NewExtractionError(fmt.Errorf("no parser for content type %q", contentType))
	}
	text, err := e.fallback.Parse(ctx, data, contentType)
	if err != nil {
		return "", domain.NewExtractionError(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.NewExtractionError(fmt.Errorf("parser returned no text for content type %q", contentType))
	}
	return text, nil
}
