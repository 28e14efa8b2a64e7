package cli

import (
	"github.com/spf13/cobra"

	"github.com/mindmate/triage-client/internal/dashboard"
	"github.com/mindmate/triage-client/internal/models"
	"github.com/mindmate/triage-client/pkg/output"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Browse past submissions",
	Long:  "Fetch the submission history from the analyzer and show one filtered page of it.",
	Example: `  mindmate logs
  mindmate logs --severity High
  mindmate logs --filter-language Spanish --page 2
  mindmate logs -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()

		language, _ := cmd.Flags().GetString("filter-language")
		severity, _ := cmd.Flags().GetString("severity")
		page, _ := cmd.Flags().GetInt("page")

		engine := dashboard.NewEngine(a.analyzer, a.logger)
		loadErr := engine.Load(ctx)
		if loadErr == nil {
			engine.SetFilter(models.FilterCriteria{Language: language, Severity: severity})
			for p := 1; p < page; p++ {
				if !engine.NextPage() {
					break
				}
			}
		}
		view := engine.RenderState()

		if outputFormat(cmd) == "json" {
			if loadErr != nil {
				return loadErr
			}
			return output.JSON(toPageJSON(view))
		}

		table, _ := a.catalog.Lookup(a.language)
		printDashboard(dashboard.Render(view, table, a.catalog.Flag))
		if loadErr != nil {
			return errReported
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().String("filter-language", models.FilterAll, "only show submissions in this language, or \"unknown\"")
	logsCmd.Flags().String("severity", models.FilterAll, "only show submissions with this severity")
	logsCmd.Flags().Int("page", 1, "page to show")
}
