package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical-ai/racecard/internal/domain"
)

// PDFLoader extracts page text from PDF programs with MuPDF. Every non-blank text
// line becomes a paragraph; PDF text carries no table structure, so documents loaded
// this way feed the meeting extractor only.
type PDFLoader struct{}

// NewPDFLoader creates a PDFLoader.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

// Supports implements domain.Loader.
func (l *PDFLoader) Supports(ext string) bool {
	return strings.EqualFold(ext, ".pdf")
}

// Load implements domain.Loader.
func (l *PDFLoader) Load(ctx context.Context, path string) (*domain.Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	out := &domain.Document{Path: path, Name: filepath.Base(path)}
	for page := 0; page < doc.NumPage(); page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		text, err := doc.Text(page)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", page+1, err)
		}
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out.Blocks = append(out.Blocks, domain.Paragraph(line))
			}
		}
	}
	return out, nil
}
