package reporters

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// TableReporter renders check results as a bordered table
type TableReporter struct {
	out   io.Writer
	theme color.Theme
	tr    *i18n.Translator
}

// NewTableReporter creates a new TableReporter writing to out
func NewTableReporter(out io.Writer, theme color.Theme, tr *i18n.Translator) *TableReporter {
	return &TableReporter{out: out, theme: theme, tr: tr}
}

// Report outputs the results as a table followed by the summary line
func (r *TableReporter) Report(results []doctor.CheckResult, verbose bool) {
	fmt.Fprintln(r.out, r.theme.Header.Render(r.tr.T("doctor_title")))

	if table := RenderTable(results, verbose, termWidth(r.out), r.theme, r.tr); table != "" {
		fmt.Fprintln(r.out, table)
	}

	fmt.Fprintln(r.out, RenderSummary(results, r.theme, r.tr))
}

// StatusIcon returns a single-width character icon for a check result.
// These are used inside tables where emoji would break column alignment.
func StatusIcon(result doctor.CheckResult) string {
	switch result.Status {
	case doctor.StatusPass:
		return "✓"
	case doctor.StatusFail:
		switch result.Severity {
		case doctor.SeverityError:
			return "✗"
		case doctor.SeverityWarning:
			return "!"
		default:
			return "i"
		}
	case doctor.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

// StyledIcon returns a StatusIcon colored by the theme.
func StyledIcon(result doctor.CheckResult, theme color.Theme) string {
	icon := StatusIcon(result)

	switch result.Status {
	case doctor.StatusPass:
		return theme.Success.Render(icon)
	case doctor.StatusFail:
		if result.Severity == doctor.SeverityError {
			return theme.Error.Render(icon)
		}

		return theme.Warning.Render(icon)
	case doctor.StatusSkipped:
		return theme.Skip.Render(icon)
	default:
		return icon
	}
}

// RenderTable builds a table from check results using tablewriter.
// Category headers span columns 2+ via horizontal merge, keeping the icon
// column narrow. A width of zero leaves column sizing to tablewriter.
func RenderTable(
	results []doctor.CheckResult,
	verbose bool,
	width int,
	theme color.Theme,
	tr *i18n.Translator,
) string {
	grouped := GroupResultsByCategory(results)
	if len(grouped) == 0 {
		return ""
	}

	headers := []string{
		tr.T("doctor_col_status"),
		tr.T("doctor_col_check"),
		tr.T("doctor_col_message"),
	}
	if verbose {
		headers = append(headers, tr.T("doctor_col_details"))
	}

	colWidths := calcColumnWidthsFor(width, results, verbose)

	var buf bytes.Buffer

	opts := []tablewriter.Option{
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenRows: tw.On,
				},
			},
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Merging().WithMode(tw.MergeHorizontal).Build().
			Formatting().WithAutoWrap(tw.WrapNormal).Build().
			Build().Build()),
	}

	if colWidths != nil {
		opts = append(opts, tablewriter.WithColumnWidths(toCellWidths(colWidths)))
	}

	t := tablewriter.NewTable(&buf, opts...)

	t.Header(headers)

	for _, g := range grouped {
		appendCategoryRows(t, g, len(headers), verbose, colWidths, theme, tr)
	}

	_ = t.Render()

	output := strings.TrimRight(buf.String(), "\n")

	return dimBorders(output, theme)
}

// appendCategoryRows adds a category header row and all result rows for a
// group to the table. Rows are sorted by severity and padded to colWidths.
func appendCategoryRows(
	t *tablewriter.Table,
	g categoryGroup,
	columns int,
	verbose bool,
	colWidths map[int]int,
	theme color.Theme,
	tr *i18n.Translator,
) {
	catName := theme.Header.Render(categoryName(g.Category, tr))

	catRow := []string{""}
	for i := 1; i < columns; i++ {
		catRow = append(catRow, catName)
	}

	_ = t.Append(catRow)

	sorted := slices.Clone(g.Results)
	slices.SortStableFunc(sorted, func(a, b doctor.CheckResult) int {
		return severityRank(a) - severityRank(b)
	})

	for _, r := range sorted {
		_ = t.Append(buildResultRow(r, verbose, colWidths, theme))
	}
}

// buildResultRow creates a table row for a single check result, padding cells
// to the target column widths when set.
func buildResultRow(
	r doctor.CheckResult,
	verbose bool,
	colWidths map[int]int,
	theme color.Theme,
) []string {
	row := []string{
		StyledIcon(r, theme),
		theme.Name.Render(r.Name),
		shortenPath(r.Message),
	}

	if verbose {
		row = append(row, shortenPath(strings.Join(r.Details, "; ")))
	}

	if colWidths != nil {
		for i, cell := range row {
			if w, ok := colWidths[i]; ok {
				row[i] = padToWidth(cell, w)
			}
		}
	}

	return row
}

// toCellWidths converts content widths to cell widths (content + left/right
// padding) for WithColumnWidths.
func toCellWidths(contentWidths map[int]int) tw.Mapper[int, int] {
	const padW = 2 // " " left + " " right

	m := make(tw.Mapper[int, int], len(contentWidths))
	for col, w := range contentWidths {
		m[col] = w + padW
	}

	return m
}

// padToWidth right-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padToWidth(s string, w int) string {
	visible := runewidth.StringWidth(ansi.Strip(s))
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}

// RenderSummary returns the summary line styled by the worst outcome.
func RenderSummary(results []doctor.CheckResult, theme color.Theme, tr *i18n.Translator) string {
	counts := doctor.Count(results)

	line := tr.T("doctor_summary", i18n.Data{
		"Passed":   counts.Passed,
		"Warnings": counts.Warnings,
		"Errors":   counts.Errors,
		"Skipped":  counts.Skipped,
	})

	return summaryStyle(counts, theme).Render(line)
}

func summaryStyle(counts doctor.Counts, theme color.Theme) lipgloss.Style {
	switch {
	case counts.Errors > 0:
		return theme.Error
	case counts.Warnings > 0:
		return theme.Warning
	default:
		return theme.Success
	}
}

// calcColumnWidthsFor computes per-column content widths for a given terminal
// width. Returns nil when the width is too narrow for a table.
func calcColumnWidthsFor(
	w int,
	results []doctor.CheckResult,
	verbose bool,
) map[int]int {
	const minTableW = 40

	if w < minTableW {
		return nil
	}

	checkW := 5

	for _, r := range results {
		if n := runewidth.StringWidth(r.Name); n > checkW {
			checkW = n
		}
	}

	const iconW = 1

	numCols := 3
	if verbose {
		numCols = 4
	}

	// Each column has: 1 border char + 1 left pad + 1 right pad = 3.
	// Plus 1 trailing border on the right.
	const colOverhead = 3

	overhead := numCols*colOverhead + 1
	available := w - overhead - iconW

	const minMsgW = 20

	const minCheckW = 5

	if available < minMsgW+minCheckW {
		return nil
	}

	if checkW > available-minMsgW {
		checkW = available - minMsgW
	}

	remaining := available - checkW

	widths := map[int]int{
		0: iconW,
		1: checkW,
		2: remaining,
	}

	if verbose {
		msgW := remaining * 60 / 100 //nolint:mnd // layout ratio
		widths[2] = msgW
		widths[3] = remaining - msgW
	}

	return widths
}

// termWidth returns the width of the terminal behind w, or 0.
func termWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}

	if width, _, err := term.GetSize(
		int(f.Fd()), //nolint:gosec // fd fits int
	); err == nil && width > 0 {
		return width
	}

	return 0
}

// homeDir caches the user's home directory for path shortening.
var homeDir string

func init() {
	homeDir, _ = os.UserHomeDir()
}

// shortenPath replaces the user's home directory prefix with ~.
func shortenPath(s string) string {
	if homeDir == "" {
		return s
	}

	return strings.ReplaceAll(s, homeDir, "~")
}

// Severity rank constants for sorting results within a category.
const (
	rankError   = 0
	rankWarning = 1
	rankPass    = 2
	rankSkipped = 3
)

func severityRank(r doctor.CheckResult) int {
	if r.IsError() {
		return rankError
	}

	if r.IsWarning() {
		return rankWarning
	}

	if r.IsSkipped() {
		return rankSkipped
	}

	return rankPass
}
