package pdftext

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tlemarchand/locadoc/internal/core/domain"
)

type storageFake struct {
	content string
	err     error
}

func (f *storageFake) Save(context.Context, string, io.Reader) error {
	return errors.New("not implemented")
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func TestExtractPlaintext(t *testing.T) {
	e := NewExtractor(&storageFake{content: "  Quittance de loyer janvier 2025  "})

	ext, err := e.Extract(context.Background(), &domain.Document{
		StoragePath: "doc-1_q.txt",
		MimeType:    "text/plain",
		Pages:       1,
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if ext.Text != "Quittance de loyer janvier 2025" {
		t.Fatalf("unexpected text %q", ext.Text)
	}
	if ext.Quality <= 0.9 || ext.Quality > 1 {
		t.Fatalf("expected high quality for clean text, got %v", ext.Quality)
	}
	if ext.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", ext.Pages)
	}
}

func TestExtractPlaintextDefaultsPages(t *testing.T) {
	e := NewExtractor(&storageFake{content: "facture"})

	ext, err := e.Extract(context.Background(), &domain.Document{MimeType: "text/plain"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if ext.Pages != 1 {
		t.Fatalf("expected page fallback 1, got %d", ext.Pages)
	}
}

func TestExtractBinaryWithoutTextLayer(t *testing.T) {
	e := NewExtractor(&storageFake{content: string([]byte{0xff, 0xfe, 0x00, 0x01})})

	ext, err := e.Extract(context.Background(), &domain.Document{MimeType: "application/octet-stream", Pages: 3})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if ext.Text != "" || ext.Quality != 0 {
		t.Fatalf("expected empty extraction, got %+v", ext)
	}
	if ext.Pages != 3 {
		t.Fatalf("expected declared pages kept, got %d", ext.Pages)
	}
}

func TestExtractStorageError(t *testing.T) {
	e := NewExtractor(&storageFake{err: errors.New("missing blob")})

	_, err := e.Extract(context.Background(), &domain.Document{StoragePath: "gone"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "open source document") {
		t.Fatalf("unexpected error %v", err)
	}
}
