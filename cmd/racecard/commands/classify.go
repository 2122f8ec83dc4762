package commands

import (
	"github.com/spf13/cobra"

	"github.com/spherical-ai/racecard/cmd/racecard/ui"
	"github.com/spherical-ai/racecard/internal/extract"
)

type classification struct {
	Header        string `json:"header"`
	SummaryField  string `json:"summary_field"`
	SummaryMapped bool   `json:"summary_mapped"`
	HistoryField  string `json:"history_field"`
	HistoryMapped bool   `json:"history_mapped"`
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <header>...",
		Short: "Show the canonical field each raw table header maps to",
		Example: `  racecard classify "Dog Name" "DOG" "dog_name"
  racecard classify --json "Sec Time Adj" "Ongoing Winners"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := classifyHeaders(extract.NewClassifier(), args)
			if outputJSON {
				return ui.JSON(results)
			}

			rows := make([][]string, len(results))
			for i, r := range results {
				rows[i] = []string{r.Header, fieldLabel(r.SummaryField, r.SummaryMapped), fieldLabel(r.HistoryField, r.HistoryMapped)}
			}
			ui.Table([]string{"HEADER", "ENTRY TABLE", "HISTORY TABLE"}, rows)
			return nil
		},
	}
}

func classifyHeaders(c *extract.Classifier, headers []string) []classification {
	out := make([]classification, len(headers))
	for i, h := range headers {
		sf, sm := c.Classify(h, extract.ContextSummary)
		hf, hm := c.Classify(h, extract.ContextHistory)
		out[i] = classification{Header: h, SummaryField: sf, SummaryMapped: sm, HistoryField: hf, HistoryMapped: hm}
	}
	return out
}

func fieldLabel(field string, mapped bool) string {
	switch {
	case field == "":
		return "-"
	case !mapped:
		return field + " (unmapped)"
	}
	return field
}
