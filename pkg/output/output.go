package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Stdout and Stderr are the destinations for command output.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgWhite, color.Bold)
	mutedColor   = color.New(color.Faint)
)

var severityColors = map[string]*color.Color{
	"severity-low":      color.New(color.FgGreen),
	"severity-medium":   color.New(color.FgYellow),
	"severity-moderate": color.New(color.FgYellow),
	"severity-high":     color.New(color.FgRed, color.Bold),
	"severity-critical": color.New(color.FgHiWhite, color.BgRed, color.Bold),
}

func Success(format string, a ...interface{}) {
	successColor.Fprintf(Stdout, "✓ "+format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	errorColor.Fprintf(Stderr, "✗ "+format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	infoColor.Fprintf(Stdout, format+"\n", a...)
}

func Warn(format string, a ...interface{}) {
	warnColor.Fprintf(Stdout, "⚠ "+format+"\n", a...)
}

func Muted(format string, a ...interface{}) {
	mutedColor.Fprintf(Stdout, format+"\n", a...)
}

func JSON(v interface{}) error {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// SeverityColor returns the color for a severity class key such as
// "severity-high". Unknown keys are printed plain.
func SeverityColor(classKey string) *color.Color {
	if c, ok := severityColors[classKey]; ok {
		return c
	}
	return color.New(color.Reset)
}

// Badge renders label in the severity's color.
func Badge(classKey, label string) string {
	return SeverityColor(classKey).Sprint(label)
}

// Table prints aligned columns. Widths are measured in characters so accented
// text lines up.
type Table struct {
	headers []string
	rows    [][]string
	styles  map[int]func(cell string) *color.Color
}

func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
		styles:  map[int]func(string) *color.Color{},
	}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// StyleColumn colors every cell of column col with the color picked by style.
func (t *Table) StyleColumn(col int, style func(cell string) *color.Color) {
	t.styles[col] = style
}

func (t *Table) Render() {
	t.RenderTo(Stdout)
}

func (t *Table) RenderTo(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	for i, header := range t.headers {
		headerColor.Fprint(w, pad(header, widths[i])+"  ")
	}
	fmt.Fprintln(w)

	for i := range t.headers {
		fmt.Fprint(w, strings.Repeat("-", widths[i])+"  ")
	}
	fmt.Fprintln(w)

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			padded := pad(cell, widths[i])
			if style, ok := t.styles[i]; ok {
				padded = style(cell).Sprint(padded)
			}
			fmt.Fprint(w, padded+"  ")
		}
		fmt.Fprintln(w)
	}
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
