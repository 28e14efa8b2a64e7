package dashboard

import (
	"strconv"
	"unicode/utf8"

	"github.com/mindmate/triage-client/internal/i18n"
	"github.com/mindmate/triage-client/internal/models"
)

// SymptomPreviewLength is the number of characters shown before truncation.
const SymptomPreviewLength = 100

// ViewState is the derived, read-only projection handed to the presentation layer.
type ViewState struct {
	FilteredRecords []models.CaseRecord
	PageRecords     []models.CaseRecord
	TotalRecords    int
	Criteria        models.FilterCriteria
	Page            int
	PageSize        int
	TotalPages      int
	HasPrev         bool
	HasNext         bool
	Loading         bool
	LoadErr         error
}

// LoadFailed reports whether the last load ended in a transport failure.
func (v ViewState) LoadFailed() bool { return v.LoadErr != nil }

// Empty reports whether the current page has nothing to show.
func (v ViewState) Empty() bool { return len(v.PageRecords) == 0 }

// Rendered is the instruction set an adapter needs to draw the dashboard.
type Rendered struct {
	Headers     []string
	Rows        []Row
	Placeholder string
	IsError     bool
	Loading     string
	PageInfo    string
	PrevLabel   string
	NextLabel   string
	PrevEnabled bool
	NextEnabled bool
}

// Row is one table line.
type Row struct {
	Timestamp     string
	Name          string
	Age           string
	Language      string
	Severity      string
	SeverityClass string
	Symptoms      string
	SymptomsFull  string
}

// Cells returns the row in header order.
func (r Row) Cells() []string {
	return []string{r.Timestamp, r.Name, r.Age, r.Language, r.Severity, r.Symptoms}
}

// Render turns a view snapshot into display instructions. It is pure: the same
// snapshot and table always produce the same output.
func Render(view ViewState, table i18n.Table, flags func(models.Language) string) Rendered {
	if flags == nil {
		flags = func(models.Language) string { return i18n.UnknownFlag }
	}

	out := Rendered{
		Headers: []string{
			table.Text(i18n.KeyColumnTimestamp),
			table.Text(i18n.KeyColumnName),
			table.Text(i18n.KeyColumnAge),
			table.Text(i18n.KeyColumnLanguage),
			table.Text(i18n.KeyColumnSeverity),
			table.Text(i18n.KeyColumnSymptoms),
		},
		PageInfo:    table.Textf(i18n.KeyPageInfo, view.Page, maxInt(view.TotalPages, 1)),
		PrevLabel:   table.Text(i18n.KeyPrev),
		NextLabel:   table.Text(i18n.KeyNext),
		PrevEnabled: view.HasPrev,
		NextEnabled: view.HasNext,
	}

	switch {
	case view.Loading:
		out.Loading = table.Text(i18n.KeyLoading)
		return out
	case view.LoadFailed():
		out.Placeholder = table.Text(i18n.KeyLoadFailed)
		out.IsError = true
		return out
	case view.Empty():
		out.Placeholder = table.Text(i18n.KeyNoData)
		return out
	}

	out.Rows = make([]Row, 0, len(view.PageRecords))
	for _, rec := range view.PageRecords {
		out.Rows = append(out.Rows, Row{
			Timestamp:     rec.Timestamp,
			Name:          rec.Name,
			Age:           strconv.Itoa(int(rec.Age)),
			Language:      languageDisplay(rec, table, flags),
			Severity:      string(rec.Severity),
			SeverityClass: rec.Severity.ClassKey(),
			Symptoms:      Truncate(rec.Symptoms, SymptomPreviewLength),
			SymptomsFull:  rec.Symptoms,
		})
	}
	return out
}

func languageDisplay(rec models.CaseRecord, table i18n.Table, flags func(models.Language) string) string {
	if rec.EffectiveLanguage() == models.LanguageUnknown {
		return i18n.UnknownFlag + " " + table.Text(i18n.KeyUnknown)
	}
	return flags(rec.Language) + " " + string(rec.Language)
}

// Truncate shortens s to limit characters followed by "...". The record itself
// keeps the full text.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
