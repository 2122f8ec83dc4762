package document

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spherical-ai/racecard/internal/domain"
)

var (
	headingRe   = regexp.MustCompile(`^#+\s*`)
	emphasisRe  = regexp.MustCompile(`\*+([^*]+)\*+`)
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	commentRe   = regexp.MustCompile(`<!--.*?-->`)
	separatorRe = regexp.MustCompile(`^\|?\s*:?-{2,}:?\s*(\|\s*:?-{2,}:?\s*)*\|?$`)
)

// MarkdownLoader reads markdown or plain-text race programs. Runs of pipe-table
// lines become table blocks; every other non-blank line is a paragraph.
type MarkdownLoader struct{}

// NewMarkdownLoader creates a MarkdownLoader.
func NewMarkdownLoader() *MarkdownLoader {
	return &MarkdownLoader{}
}

// Supports implements domain.Loader.
func (l *MarkdownLoader) Supports(ext string) bool {
	switch strings.ToLower(ext) {
	case ".md", ".markdown", ".txt":
		return true
	}
	return false
}

// Load implements domain.Loader.
func (l *MarkdownLoader) Load(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc := &domain.Document{Path: path, Name: filepath.Base(path)}

	var table [][]string
	flush := func() {
		if len(table) > 0 {
			doc.Blocks = append(doc.Blocks, domain.Table(table...))
			table = nil
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "|"):
			if separatorRe.MatchString(line) {
				continue
			}
			table = append(table, splitPipeRow(line))
		default:
			flush()
			if text := cleanLine(line); text != "" {
				doc.Blocks = append(doc.Blocks, domain.Paragraph(text))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	flush()
	return doc, nil
}

// splitPipeRow splits "| a | b |" into its trimmed cells.
func splitPipeRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i, c := range cells {
		cells[i] = cleanLine(c)
	}
	return cells
}

func cleanLine(s string) string {
	s = commentRe.ReplaceAllString(s, "")
	s = headingRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = emphasisRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
