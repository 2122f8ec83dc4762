package document

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spherical-ai/racecard/internal/domain"
)

const documentPart = "word/document.xml"

// DocxLoader reads Word documents: body paragraphs and top-level tables in source
// order, plus the paragraphs of page headers and footers.
type DocxLoader struct{}

// NewDocxLoader creates a DocxLoader.
func NewDocxLoader() *DocxLoader {
	return &DocxLoader{}
}

// Supports implements domain.Loader.
func (l *DocxLoader) Supports(ext string) bool {
	return strings.EqualFold(ext, ".docx")
}

// Load implements domain.Loader.
func (l *DocxLoader) Load(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	doc := &domain.Document{Path: path, Name: filepath.Base(path)}

	var body *zip.File
	var headers, footers []*zip.File
	for _, f := range r.File {
		switch {
		case f.Name == documentPart:
			body = f
		case strings.HasPrefix(f.Name, "word/header") && strings.HasSuffix(f.Name, ".xml"):
			headers = append(headers, f)
		case strings.HasPrefix(f.Name, "word/footer") && strings.HasSuffix(f.Name, ".xml"):
			footers = append(footers, f)
		}
	}
	if body == nil {
		return nil, fmt.Errorf("%s not found in archive", documentPart)
	}

	doc.Blocks, err = readPart(body)
	if err != nil {
		return nil, err
	}
	if doc.Headers, err = readTextParts(headers); err != nil {
		return nil, err
	}
	if doc.Footers, err = readTextParts(footers); err != nil {
		return nil, err
	}
	return doc, nil
}

func readPart(f *zip.File) ([]domain.Block, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	blocks, err := parseWordML(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return blocks, nil
}

// readTextParts flattens header or footer parts to paragraph text, cells included.
func readTextParts(parts []*zip.File) ([]string, error) {
	sort.Slice(parts, func(i, j int) bool { return parts[i].Name < parts[j].Name })
	var out []string
	for _, p := range parts {
		blocks, err := readPart(p)
		if err != nil {
			return nil, err
		}
		for _, b := range blocks {
			if b.IsParagraph() {
				out = append(out, b.Text)
				continue
			}
			for _, row := range b.Rows {
				for _, cell := range row {
					if strings.TrimSpace(cell) != "" {
						out = append(out, cell)
					}
				}
			}
		}
	}
	return out, nil
}

// cellState tracks the table cell being read.
type cellState struct {
	paragraphs []string
	span       int
	mergeCont  bool
}

// parseWordML walks a WordprocessingML part. Paragraphs outside tables become
// paragraph blocks. Each outermost table becomes one table block; nested tables are
// folded into the text of the enclosing cell. Horizontally merged cells repeat their
// text across the spanned columns and vertically merged cells repeat the text above.
func parseWordML(r io.Reader) ([]domain.Block, error) {
	decoder := xml.NewDecoder(r)

	var (
		blocks   []domain.Block
		para     strings.Builder
		inPara   bool
		inText   bool
		tblDepth int
		rows     [][]string
		row      []string
		cell     cellState
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
				if tblDepth == 1 {
					rows = nil
				}
			case "tr":
				if tblDepth == 1 {
					row = nil
				}
			case "tc":
				if tblDepth == 1 {
					cell = cellState{span: 1}
				}
			case "gridSpan":
				if tblDepth == 1 {
					if n, err := strconv.Atoi(attr(t, "val")); err == nil && n > 1 {
						cell.span = n
					}
				}
			case "vMerge":
				if tblDepth == 1 {
					cell.mergeCont = attr(t, "val") != "restart"
				}
			case "p":
				inPara = true
				para.Reset()
			case "t":
				inText = true
			case "tab":
				if inPara {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					para.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inPara && inText {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				inPara = false
				text := strings.TrimSpace(para.String())
				if tblDepth == 0 {
					if text != "" {
						blocks = append(blocks, domain.Paragraph(text))
					}
				} else {
					cell.paragraphs = append(cell.paragraphs, text)
				}
			case "tc":
				if tblDepth == 1 {
					text := strings.TrimSpace(strings.Join(cell.paragraphs, "\n"))
					if cell.mergeCont && len(rows) > 0 {
						above := rows[len(rows)-1]
						if col := len(row); col < len(above) {
							text = above[col]
						}
					}
					for i := 0; i < cell.span; i++ {
						row = append(row, text)
					}
				}
			case "tr":
				if tblDepth == 1 {
					rows = append(rows, row)
				}
			case "tbl":
				if tblDepth == 1 && len(rows) > 0 {
					blocks = append(blocks, domain.Table(rows...))
				}
				if tblDepth > 0 {
					tblDepth--
				}
			}
		}
	}
	return blocks, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
