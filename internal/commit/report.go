package commit

import (
	"fmt"
	"io"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/i18n"
)

const (
	// ExitValid is the exit status for an accepted message.
	ExitValid = 0
	// ExitInvalid is the exit status for a rejected message.
	ExitInvalid = 1
)

// ExitCode maps a result to the process exit status.
func ExitCode(res *Result) int {
	if res != nil && res.Valid {
		return ExitValid
	}

	return ExitInvalid
}

// Report writes the human-readable diagnostics for res.
// Invalid results end with the allowed type listing of v.
func Report(w io.Writer, res *Result, v *Validator, theme color.Theme) {
	if res.Valid {
		fmt.Fprintln(w, theme.Success.Render(v.tr.T("report_valid")))
		writeList(w, v.tr.T("report_warnings"), res.Warnings, theme.Warning)

		return
	}

	fmt.Fprintln(w, theme.Error.Render(v.tr.T("report_invalid")))
	writeList(w, v.tr.T("report_errors"), res.Errors, theme.Error)
	writeList(w, v.tr.T("report_warnings"), res.Warnings, theme.Warning)

	fmt.Fprintln(w)
	fmt.Fprintln(w, v.TypeDescription())
}

// ReportSource writes a localized line describing where the message came from,
// such as report_file or report_head.
func ReportSource(w io.Writer, v *Validator, id string, data i18n.Data, theme color.Theme) {
	fmt.Fprintln(w, theme.Muted.Render(v.tr.T(id, data)))
}

type renderer interface {
	Render(strs ...string) string
}

func writeList(w io.Writer, title string, items []string, style renderer) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, title)

	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", style.Render(item))
	}
}
