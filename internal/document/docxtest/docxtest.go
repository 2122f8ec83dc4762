// Package docxtest builds minimal Word documents for tests.
package docxtest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"testing"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// Builder accumulates body content in order.
type Builder struct {
	body    strings.Builder
	headers []string
	footers []string
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Paragraph appends a body paragraph. Tabs and newlines become w:tab and w:br.
func (b *Builder) Paragraph(text string) *Builder {
	b.body.WriteString(paragraph(text))
	return b
}

// Table appends a table. The first row is the header.
func (b *Builder) Table(rows ...[]string) *Builder {
	b.body.WriteString("<w:tbl>")
	for _, row := range rows {
		b.body.WriteString("<w:tr>")
		for _, cell := range row {
			b.body.WriteString("<w:tc>" + paragraph(cell) + "</w:tc>")
		}
		b.body.WriteString("</w:tr>")
	}
	b.body.WriteString("</w:tbl>")
	return b
}

// Raw appends WordprocessingML verbatim.
func (b *Builder) Raw(xmlText string) *Builder {
	b.body.WriteString(xmlText)
	return b
}

// Header adds a page header part holding one paragraph.
func (b *Builder) Header(text string) *Builder {
	b.headers = append(b.headers, text)
	return b
}

// Footer adds a page footer part holding one paragraph.
func (b *Builder) Footer(text string) *Builder {
	b.footers = append(b.footers, text)
	return b
}

// Write saves the document to path.
func (b *Builder) Write(t testing.TB, path string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	parts := map[string]string{
		"word/document.xml": fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><w:document %s><w:body>%s</w:body></w:document>`, wordNS, b.body.String()),
	}
	for i, h := range b.headers {
		parts[fmt.Sprintf("word/header%d.xml", i+1)] = fmt.Sprintf(`<w:hdr %s>%s</w:hdr>`, wordNS, paragraph(h))
	}
	for i, h := range b.footers {
		parts[fmt.Sprintf("word/footer%d.xml", i+1)] = fmt.Sprintf(`<w:ftr %s>%s</w:ftr>`, wordNS, paragraph(h))
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create part %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write part %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

func paragraph(text string) string {
	var sb strings.Builder
	sb.WriteString("<w:p><w:r>")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteString("<w:br/>")
		}
		for j, seg := range strings.Split(line, "\t") {
			if j > 0 {
				sb.WriteString("<w:tab/>")
			}
			sb.WriteString(`<w:t xml:space="preserve">`)
			xml.EscapeText(&sb, []byte(seg))
			sb.WriteString("</w:t>")
		}
	}
	sb.WriteString("</w:r></w:p>")
	return sb.String()
}
