package cli

import (
	"github.com/spf13/cobra"

	"github.com/mindmate/triage-client/internal/i18n"
	"github.com/mindmate/triage-client/pkg/output"
)

type languageJSON struct {
	Name   string `json:"name"`
	Flag   string `json:"flag"`
	Locale string `json:"locale"`
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported interface languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := i18n.Default()
		if cfgFile != "" {
			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()
			catalog = a.catalog
		}

		rows := make([]languageJSON, 0, len(catalog.Languages()))
		for _, lang := range catalog.Languages() {
			table, _ := catalog.Lookup(lang)
			rows = append(rows, languageJSON{Name: string(lang), Flag: table.Flag, Locale: table.Locale})
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(rows)
		}
		t := output.NewTable([]string{"Flag", "Language", "Locale"})
		for _, r := range rows {
			t.AddRow([]string{r.Flag, r.Name, r.Locale})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
