package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mindmate/triage-client/internal/utils"
	"github.com/mindmate/triage-client/pkg/output"
)

var cfgFile string

// errReported marks a failure that has already been shown to the user.
var errReported = errors.New("failure already reported")

var rootCmd = &cobra.Command{
	Use:   "mindmate",
	Short: "MindMate symptom triage client",
	Long: `mindmate submits symptom descriptions to the MindMate analyzer and shows
the recommended severity, and browses past submissions.

Results can be localized into ten languages, symptoms can be dictated through
speech recognition and results can be read aloud.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			output.Error("%s", utils.UserMessage(err))
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $MINDMATE_CONFIG)")
	rootCmd.PersistentFlags().String("language", "", "interface language, e.g. Spanish (default from config)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json")

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
}
