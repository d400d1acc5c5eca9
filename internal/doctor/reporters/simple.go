// Package reporters provides output formatting for doctor check results
package reporters

import (
	"fmt"
	"io"
	"slices"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// SimpleReporter provides simple checklist-style output
type SimpleReporter struct {
	out   io.Writer
	theme color.Theme
	tr    *i18n.Translator
}

// NewSimpleReporter creates a new SimpleReporter writing to out
func NewSimpleReporter(out io.Writer, theme color.Theme, tr *i18n.Translator) *SimpleReporter {
	return &SimpleReporter{out: out, theme: theme, tr: tr}
}

// Report outputs the results in a simple checklist format
func (r *SimpleReporter) Report(results []doctor.CheckResult, verbose bool) {
	fmt.Fprintln(r.out, r.theme.Header.Render(r.tr.T("doctor_title")))
	fmt.Fprintln(r.out)

	for _, g := range GroupResultsByCategory(results) {
		fmt.Fprintf(r.out, "%s:\n", r.theme.Header.Render(categoryName(g.Category, r.tr)))

		for _, result := range g.Results {
			r.printResult(result, verbose)
		}

		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out, RenderSummary(results, r.theme, r.tr))
}

// printResult prints a single check result
func (r *SimpleReporter) printResult(result doctor.CheckResult, verbose bool) {
	fmt.Fprintf(r.out, "  %s %s", statusEmoji(result), r.theme.Name.Render(result.Name))

	if result.Message != "" {
		fmt.Fprintf(r.out, " - %s", result.Message)
	}

	fmt.Fprintln(r.out)

	if verbose {
		for _, detail := range result.Details {
			fmt.Fprintf(r.out, "     %s\n", r.theme.Muted.Render(detail))
		}
	}
}

// statusEmoji returns the checklist icon for a check result
func statusEmoji(result doctor.CheckResult) string {
	switch result.Status {
	case doctor.StatusPass:
		return "✅"
	case doctor.StatusFail:
		switch result.Severity {
		case doctor.SeverityError:
			return "❌"
		case doctor.SeverityWarning:
			return "⚠️ "
		default:
			return "ℹ️ "
		}
	case doctor.StatusSkipped:
		return "⊘"
	default:
		return "?"
	}
}

// categoryName returns the translated display name for a category
func categoryName(category doctor.Category, tr *i18n.Translator) string {
	id := "doctor_cat_" + string(category)
	if name := tr.T(id); name != id {
		return name
	}

	if category == "" {
		return "-"
	}

	return string(category)
}

type categoryGroup struct {
	Category doctor.Category
	Results  []doctor.CheckResult
}

// GroupResultsByCategory groups results by category in doctor.Categories
// order. Unknown categories follow in order of first appearance.
func GroupResultsByCategory(results []doctor.CheckResult) []categoryGroup {
	var order []doctor.Category

	catMap := make(map[doctor.Category][]doctor.CheckResult)

	for _, r := range results {
		if _, ok := catMap[r.Category]; !ok && !slices.Contains(doctor.Categories, r.Category) {
			order = append(order, r.Category)
		}

		catMap[r.Category] = append(catMap[r.Category], r)
	}

	groups := make([]categoryGroup, 0, len(catMap))

	for _, cat := range append(slices.Clone(doctor.Categories), order...) {
		if rs, ok := catMap[cat]; ok {
			groups = append(groups, categoryGroup{Category: cat, Results: rs})
		}
	}

	return groups
}
