package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spherical-ai/racecard/internal/domain"
)

// Paths lists the files written by an export.
type Paths struct {
	CSV  string `json:"csv"`
	XLSX string `json:"xlsx,omitempty"`
}

// Exporter writes finalized tables under a directory.
type Exporter struct {
	dir  string
	name string
	xlsx bool
}

// NewExporter creates an Exporter writing <dir>/<name>.csv and, when xlsx is set,
// <dir>/<name>.xlsx.
func NewExporter(dir, name string, xlsx bool) *Exporter {
	return &Exporter{dir: dir, name: name, xlsx: xlsx}
}

// Export writes the artifacts and returns their paths.
func (e *Exporter) Export(t *Tables) (Paths, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return Paths{}, domain.ExportError("create output directory", err)
	}

	paths := Paths{CSV: filepath.Join(e.dir, e.name+".csv")}
	if err := WriteCSV(paths.CSV, t.SummarySchema.Columns(), t.SummaryRows()); err != nil {
		return Paths{}, domain.ExportError("write summary csv", err)
	}

	if e.xlsx {
		paths.XLSX = filepath.Join(e.dir, e.name+".xlsx")
		if err := WriteXLSX(paths.XLSX, t); err != nil {
			return paths, domain.ExportError(fmt.Sprintf("write workbook %s", paths.XLSX), err)
		}
	}
	return paths, nil
}
