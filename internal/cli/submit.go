package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindmate/triage-client/internal/i18n"
	"github.com/mindmate/triage-client/internal/models"
	"github.com/mindmate/triage-client/internal/workflow"
	"github.com/mindmate/triage-client/pkg/output"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit symptoms and get a recommendation",
	Long:  "Send one case to the analyzer and print the recommended severity and advice.",
	Example: `  mindmate submit --name Ana --age 34 --symptoms "headache since yesterday"
  mindmate submit --name Luis --age 52 --listen --language Spanish --speak
  mindmate submit --name Ana --age 34 --symptoms "cough" -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()

		name, _ := cmd.Flags().GetString("name")
		age, _ := cmd.Flags().GetInt("age")
		symptoms, _ := cmd.Flags().GetString("symptoms")
		listen, _ := cmd.Flags().GetBool("listen")
		speak, _ := cmd.Flags().GetBool("speak")

		ctrl := a.controller()
		table := ctrl.Table()
		ctrl.SetForm(models.SubmissionInput{Name: name, Age: age, Symptoms: symptoms, Language: table.Language})

		if listen {
			output.Info("%s", table.Text(i18n.KeyListening))
			transcript, err := ctrl.BeginVoiceCapture(ctx)
			if err != nil {
				return fmt.Errorf("voice capture: %w", err)
			}
			output.Muted("%s", transcript)
		}

		snap := ctrl.Snapshot()
		status, err := ctrl.Submit(ctx, snap.Form)
		if errors.Is(err, workflow.ErrInvalidInput) {
			return err
		}

		if outputFormat(cmd) == "json" {
			if jsonErr := output.JSON(toStatusJSON(status)); jsonErr != nil {
				return jsonErr
			}
		} else {
			printStatus(status, table)
		}
		if status.Phase != workflow.PhaseSuccess {
			return errReported
		}

		if speak {
			playback, err := ctrl.SpeakResult(ctx)
			if err != nil {
				output.Warn("%v", err)
				return nil
			}
			<-playback.Done()
			if err := playback.Err(); err != nil && !errors.Is(err, ctx.Err()) {
				output.Warn("%v", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().String("name", "", "patient name")
	submitCmd.Flags().Int("age", 0, "patient age")
	submitCmd.Flags().String("symptoms", "", "symptom description")
	submitCmd.Flags().Bool("listen", false, "dictate symptoms through speech recognition")
	submitCmd.Flags().Bool("speak", false, "read the result aloud")
}
