package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/racecard/cmd/racecard/ui"
	"github.com/spherical-ai/racecard/internal/schema"
)

type columnView struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
}

func newSchemaCmd() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the locked output columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := schema.Summary()
			if history {
				s = schema.History()
			}
			columns := describeSchema(s)
			if outputJSON {
				return ui.JSON(columns)
			}

			ui.Section(s.Name() + " schema (" + strconv.Itoa(s.Len()) + " columns)")
			rows := make([][]string, len(columns))
			for i, c := range columns {
				rows[i] = []string{strconv.Itoa(c.Position), c.Name, c.Kind}
			}
			ui.Table([]string{"#", "COLUMN", "KIND"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "print the history sheet columns")
	return cmd
}

func describeSchema(s *schema.Schema) []columnView {
	out := make([]columnView, 0, s.Len())
	for i, name := range s.Columns() {
		out = append(out, columnView{Position: i + 1, Name: name, Kind: s.KindOf(name).String()})
	}
	return out
}
