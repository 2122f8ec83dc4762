package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/racecard/cmd/racecard/ui"
	"github.com/spherical-ai/racecard/internal/document"
	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/extract"
)

// blockView is one row of the inspect output.
type blockView struct {
	Index    int      `json:"index"`
	Kind     string   `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Rows     int      `json:"rows,omitempty"`
	Header   []string `json:"header,omitempty"`
	Role     string   `json:"role,omitempty"`
	Fields   []string `json:"fields,omitempty"`
	Unmapped []string `json:"unmapped,omitempty"`
}

type inspectView struct {
	File     string             `json:"file"`
	Checksum string             `json:"checksum"`
	Meeting  domain.MeetingInfo `json:"meeting"`
	Headers  []string           `json:"headers,omitempty"`
	Footers  []string           `json:"footers,omitempty"`
	Blocks   []blockView        `json:"blocks"`
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the blocks of a document and how its tables are classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := document.NewRegistry(document.WithMaxFileSize(cfg.Input.MaxFileSize))
			doc, err := registry.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}

			view := inspectDocument(doc, extract.NewClassifier(), extract.NewMeetingExtractor(cfg.Extraction.ExtraTracks...))
			if outputJSON {
				return ui.JSON(view)
			}
			printInspect(view)
			return nil
		},
	}
}

func inspectDocument(doc *domain.Document, classifier *extract.Classifier, meeting *extract.MeetingExtractor) inspectView {
	view := inspectView{
		File:     doc.Name,
		Checksum: doc.Checksum,
		Meeting:  meeting.ExtractDocument(doc),
		Headers:  doc.Headers,
		Footers:  doc.Footers,
	}

	for i, b := range doc.Blocks {
		bv := blockView{Index: i, Kind: b.Kind.String()}
		if b.IsParagraph() {
			bv.Text = b.Text
			view.Blocks = append(view.Blocks, bv)
			continue
		}

		bv.Rows = len(b.Rows)
		if len(b.Rows) > 0 {
			bv.Header = b.Rows[0]
			entry := classifier.ClassifyRow(b.Rows[0], extract.ContextSummary)
			history := classifier.ClassifyRow(b.Rows[0], extract.ContextHistory)
			switch {
			case extract.IsEntryHeader(entry):
				bv.Role, bv.Fields, bv.Unmapped = "entry", entry.Fields, entry.Unmapped
			case extract.IsHistoryHeader(history):
				bv.Role, bv.Fields, bv.Unmapped = "history", history.Fields, history.Unmapped
			default:
				bv.Role = "ignored"
			}
		}
		view.Blocks = append(view.Blocks, bv)
	}
	return view
}

func printInspect(v inspectView) {
	ui.Section(v.File)

	m := v.Meeting
	ui.Box("Meeting", []string{
		ui.KeyValue("Track", m.Track),
		ui.KeyValue("Race date", m.RaceDate),
		ui.KeyValue("Race no", m.RaceNo),
		ui.KeyValue("Distance (m)", m.Distance),
		ui.KeyValue("Grade", m.RaceGrade),
		ui.KeyValue("Race time", m.RaceTime),
		ui.KeyValue("Race name", m.RaceName),
	})
	ui.Info("checksum %s, %d header and %d footer paragraph(s)", v.Checksum, len(v.Headers), len(v.Footers))

	rows := make([][]string, 0, len(v.Blocks))
	for _, b := range v.Blocks {
		detail := ui.Truncate(b.Text, 70)
		if b.Kind == domain.BlockTable.String() {
			detail = fmt.Sprintf("%d rows [%s]", b.Rows, ui.Truncate(strings.Join(b.Header, " | "), 60))
		}
		rows = append(rows, []string{strconv.Itoa(b.Index), b.Kind, b.Role, detail})
	}
	ui.Table([]string{"#", "KIND", "ROLE", "CONTENT"}, rows)

	for _, b := range v.Blocks {
		if b.Role != "entry" && b.Role != "history" {
			continue
		}
		ui.Newline()
		ui.Step("Block %d (%s) columns", b.Index, b.Role)
		mapping := make([][]string, len(b.Header))
		for i, h := range b.Header {
			field := b.Fields[i]
			if field == "" {
				field = "-"
			}
			mapping[i] = []string{h, field}
		}
		ui.Table([]string{"HEADER", "FIELD"}, mapping)
		if len(b.Unmapped) > 0 {
			ui.Warning("unmapped headers: %s", strings.Join(b.Unmapped, ", "))
		}
	}
}
