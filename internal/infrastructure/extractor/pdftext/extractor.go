// Package pdftext extracts text from stored documents. It is the upstream
// OCR stand-in: it produces the extracted text plus a rough quality estimate
// that the duplicate engine consumes.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/tlemarchand/locadoc/internal/core/domain"
	"github.com/tlemarchand/locadoc/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (domain.Extraction, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("read source document: %w", err)
	}

	if isPDF(doc.MimeType, raw) {
		return extractPDF(raw)
	}
	return extractPlaintext(doc, raw)
}

func isPDF(mimeType string, raw []byte) bool {
	return mimeType == "application/pdf" || bytes.HasPrefix(raw, []byte("%PDF-"))
}

func extractPDF(raw []byte) (domain.Extraction, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("parse pdf: %w", err)
	}

	totalPages := r.NumPage()
	pagesWithText := 0
	var b strings.Builder
	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A broken page degrades quality; the rest still counts.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pagesWithText++
		b.WriteString(text)
		b.WriteByte('\n')
	}

	text := strings.TrimSpace(b.String())
	quality := 0.0
	if totalPages > 0 && text != "" {
		density := float64(pagesWithText) / float64(totalPages)
		quality = 0.5*printableRatio(text) + 0.5*density
	}

	return domain.Extraction{
		Text:    text,
		Quality: clamp01(quality),
		Pages:   totalPages,
	}, nil
}

func extractPlaintext(doc *domain.Document, raw []byte) (domain.Extraction, error) {
	if !utf8.Valid(raw) {
		// Binary without a text layer: nothing extractable, quality zero.
		return domain.Extraction{Pages: doc.Pages}, nil
	}

	text := strings.TrimSpace(string(raw))
	pages := doc.Pages
	if pages <= 0 {
		pages = 1
	}

	quality := 0.0
	if text != "" {
		quality = printableRatio(text)
	}
	return domain.Extraction{
		Text:    text,
		Quality: clamp01(quality),
		Pages:   pages,
	}, nil
}

// printableRatio measures how much of the text is letters, digits, spaces
// and common punctuation; OCR garbage drags it down.
func printableRatio(text string) float64 {
	total := 0
	printable := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.IsPunct(r) {
			printable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(printable) / float64(total)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
