package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mindmate/triage-client/internal/dashboard"
	"github.com/mindmate/triage-client/internal/i18n"
	"github.com/mindmate/triage-client/internal/models"
	"github.com/mindmate/triage-client/internal/speech"
	"github.com/mindmate/triage-client/internal/workflow"
	"github.com/mindmate/triage-client/pkg/output"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive session with the submission form and the dashboard",
	Long: `Start an interactive session holding one submission form and one dashboard.
Type "help" for the list of commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if addr := a.cfg.Metrics.Address; addr != "" {
			stopMetrics := serveMetrics(addr, a.logger)
			defer stopMetrics()
		}

		c := newConsole(dashboard.NewEngine(a.analyzer, a.logger), a.controller(), a.catalog, cmd.InOrStdin())
		return c.run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func serveMetrics(addr string, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		logger.Info("metrics server listening", slog.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server exited", slog.Any("error", err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
	}
}

type console struct {
	engine  *dashboard.Engine
	ctrl    *workflow.Controller
	catalog *i18n.Catalog
	in      *bufio.Scanner
}

func newConsole(engine *dashboard.Engine, ctrl *workflow.Controller, catalog *i18n.Catalog, in io.Reader) *console {
	return &console{engine: engine, ctrl: ctrl, catalog: catalog, in: bufio.NewScanner(in)}
}

func (c *console) run(ctx context.Context) error {
	output.Info("%s", c.ctrl.Table().Text(i18n.KeyTitle))
	c.help()
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(output.Stdout, "> ")
		if !c.in.Scan() {
			return c.in.Err()
		}
		if quit := c.handle(ctx, c.in.Text()); quit {
			return nil
		}
	}
}

// handle executes one console line and reports whether the session should end.
func (c *console) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	table := c.ctrl.Table()

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		c.ctrl.Reset()
		return true
	case "help":
		c.help()
	case "load":
		output.Info("%s", table.Text(i18n.KeyLoading))
		_ = c.engine.Load(ctx)
		c.showPage()
	case "filter":
		criteria := models.AllCases()
		if len(fields) > 1 {
			criteria.Language = fields[1]
		}
		if len(fields) > 2 {
			criteria.Severity = strings.Join(fields[2:], " ")
		}
		c.engine.SetFilter(criteria)
		c.showPage()
	case "next":
		c.engine.NextPage()
		c.showPage()
	case "prev":
		c.engine.PrevPage()
		c.showPage()
	case "page":
		c.showPage()
	case "lang":
		if len(fields) < 2 {
			output.Warn("usage: lang <language>")
			return false
		}
		table = c.ctrl.SetLanguage(models.Language(fields[1]))
		output.Success("%s %s", table.Flag, table.Language)
	case "submit":
		c.submit(ctx)
	case "listen":
		c.listen(ctx)
	case "speak":
		c.speak(ctx)
	case "new":
		c.ctrl.Reset()
		output.Info("%s", table.Text(i18n.KeyTitle))
	case "status":
		printStatus(c.ctrl.Snapshot().Status, table)
	default:
		output.Warn("unknown command %q, type \"help\"", fields[0])
	}
	return false
}

func (c *console) help() {
	output.Muted(`commands:
  load                         fetch submissions
  filter <language|all> [sev]  filter the dashboard
  next | prev | page           move between pages
  lang <language>              switch interface language
  submit                       fill in and send the form
  listen                       dictate symptoms
  speak                        read the result aloud (again to stop)
  new                          start a new submission
  status                       show the current result
  quit`)
}

func (c *console) showPage() {
	printDashboard(dashboard.Render(c.engine.RenderState(), c.ctrl.Table(), c.catalog.Flag))
}

func (c *console) prompt(label, current string) string {
	if current != "" {
		fmt.Fprintf(output.Stdout, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(output.Stdout, "%s: ", label)
	}
	if !c.in.Scan() {
		return current
	}
	if v := strings.TrimSpace(c.in.Text()); v != "" {
		return v
	}
	return current
}

func (c *console) submit(ctx context.Context) {
	snap := c.ctrl.Snapshot()
	if !snap.SubmitEnabled {
		printStatus(snap.Status, c.ctrl.Table())
		output.Warn("type \"new\" to start another submission")
		return
	}

	form := snap.Form
	form.Name = c.prompt(snap.Labels[i18n.KeyName], form.Name)
	ageText := ""
	if form.Age > 0 {
		ageText = strconv.Itoa(form.Age)
	}
	ageText = c.prompt(snap.Labels[i18n.KeyAge], ageText)
	age, err := strconv.Atoi(ageText)
	if err != nil {
		output.Error("%s: %q", snap.Labels[i18n.KeyAge], ageText)
		return
	}
	form.Age = age
	form.Symptoms = c.prompt(snap.Labels[i18n.KeySymptoms], form.Symptoms)
	c.ctrl.SetForm(form)

	output.Info("%s", snap.Labels[i18n.KeyAnalyzing])
	status, err := c.ctrl.Submit(ctx, form)
	if errors.Is(err, workflow.ErrInvalidInput) {
		output.Error("%v", err)
		return
	}
	printStatus(status, c.ctrl.Table())
}

func (c *console) listen(ctx context.Context) {
	table := c.ctrl.Table()
	output.Info("%s", table.Text(i18n.KeyListening))
	transcript, err := c.ctrl.BeginVoiceCapture(ctx)
	switch {
	case errors.Is(err, speech.ErrUnavailable):
		output.Warn("speech recognition is not configured")
	case err != nil:
		output.Error("%v", err)
	default:
		output.Success("%s: %s", table.Text(i18n.KeySymptoms), transcript)
	}
}

func (c *console) speak(ctx context.Context) {
	table := c.ctrl.Table()
	playback, err := c.ctrl.SpeakResult(ctx)
	switch {
	case errors.Is(err, speech.ErrUnavailable):
		output.Warn("speech synthesis is not configured")
	case err != nil:
		output.Warn("%v", err)
	case playback == nil:
		output.Info("%s", table.Text(i18n.KeyStopSpeaking))
	default:
		output.Info("%s", table.Text(i18n.KeySpeak))
	}
}
