package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/mindmate/triage-client/internal/dashboard"
	"github.com/mindmate/triage-client/internal/i18n"
	"github.com/mindmate/triage-client/internal/models"
	"github.com/mindmate/triage-client/internal/workflow"
	"github.com/mindmate/triage-client/pkg/output"
)

func printStatus(status workflow.Status, table i18n.Table) {
	switch status.Phase {
	case workflow.PhaseSuccess:
		output.Success("%s", table.Text(i18n.KeyResultTitle))
		fmt.Fprintf(output.Stdout, "%s: %s\n",
			table.Text(i18n.KeySeverityLabel),
			output.Badge(status.ClassKey, table.SeverityName(status.Severity)),
		)
		fmt.Fprintln(output.Stdout, status.Message)
	case workflow.PhaseFailure:
		output.Error("%s: %s", table.Text(i18n.KeyErrorPrefix), status.Reason)
	case workflow.PhaseSubmitting:
		output.Info("%s", table.Text(i18n.KeyAnalyzing))
	}
}

func printDashboard(r dashboard.Rendered) {
	switch {
	case r.Loading != "":
		output.Info("%s", r.Loading)
		return
	case r.IsError:
		output.Error("%s", r.Placeholder)
		return
	case r.Placeholder != "":
		output.Warn("%s", r.Placeholder)
	default:
		t := output.NewTable(r.Headers)
		for _, row := range r.Rows {
			t.AddRow(row.Cells())
		}
		t.StyleColumn(4, func(cell string) *color.Color {
			return output.SeverityColor(models.Severity(cell).ClassKey())
		})
		t.Render()
	}
	output.Muted("%s", r.PageInfo)
}

type statusJSON struct {
	Phase    workflow.Phase  `json:"phase"`
	Severity models.Severity `json:"severity,omitempty"`
	Message  string          `json:"message,omitempty"`
	ClassKey string          `json:"classKey,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

func toStatusJSON(s workflow.Status) statusJSON {
	return statusJSON{Phase: s.Phase, Severity: s.Severity, Message: s.Message, ClassKey: s.ClassKey, Reason: s.Reason}
}

type pageJSON struct {
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Total      int                 `json:"total"`
	Language   string              `json:"language"`
	Severity   string              `json:"severity"`
	Records    []models.CaseRecord `json:"records"`
}

func toPageJSON(v dashboard.ViewState) pageJSON {
	return pageJSON{
		Page:       v.Page,
		TotalPages: v.TotalPages,
		Total:      len(v.FilteredRecords),
		Language:   v.Criteria.Language,
		Severity:   v.Criteria.Severity,
		Records:    v.PageRecords,
	}
}
