package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/racecard/cmd/racecard/ui"
	"github.com/spherical-ai/racecard/internal/config"
	"github.com/spherical-ai/racecard/internal/observability"
)

var (
	cfgFile    string
	verbose    bool
	noColor    bool
	outputJSON bool

	cfg    *config.Config
	logger *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "racecard",
	Short: "Extract greyhound race programs into summary and history tables",
	Long: `racecard reads greyhound race program documents (.docx, with .md and .pdf
as additional inputs), extracts meeting details, dog entries and form history,
aggregates run speeds, and exports a locked-schema summary CSV plus a workbook
with Summary and History sheets. Every run writes an audit report next to the
outputs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		}
		format := cfg.Observability.LogFormat
		if outputJSON {
			format = "json"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      format,
			NoColor:     noColor,
			ServiceName: "racecard",
		})

		ui.InitUI(noColor, verbose, outputJSON)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults and env vars)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newSchemaCmd())
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
