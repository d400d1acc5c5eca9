package conflict

import (
	"fmt"
	"io"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// Descriptions renders one line per conflict, e.g. "发现 ESLint 配置文件: .eslintrc.js".
func (i *Info) Descriptions(tr *i18n.Translator) []string {
	out := make([]string, 0, len(i.Conflicts))
	for _, c := range i.Conflicts {
		out = append(out, tr.T("conflict_"+string(c.Category), i18n.Data{"File": c.File}))
	}

	return out
}

// Report writes the existing files grouped by tool family followed by the
// remediation options.
func Report(w io.Writer, info *Info, theme color.Theme, tr *i18n.Translator) {
	if !info.HasConflict {
		fmt.Fprintln(w, theme.Success.Render(tr.T("conflict_none")))

		return
	}

	fmt.Fprintln(w, theme.Warning.Render(tr.T("conflict_header")))

	for _, c := range Categories {
		files := info.Categories[c]
		if len(files) == 0 {
			continue
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, "  "+theme.Header.Render(tr.T("group_"+string(c))))

		for _, file := range files {
			fmt.Fprintf(w, "    - %s\n", theme.Name.Render(file))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, tr.T("conflict_suggestions"))

	for _, id := range []string{"conflict_suggest_delete", "conflict_suggest_force", "conflict_suggest_merge"} {
		fmt.Fprintln(w, "  "+tr.T(id))
	}
}

// ReportRemoval writes the outcome of a forced cleanup.
func ReportRemoval(w io.Writer, removal *Removal, theme color.Theme, tr *i18n.Translator) {
	fmt.Fprintln(w, tr.T("conflict_removing"))

	for _, file := range removal.Removed {
		fmt.Fprintln(w, "  "+theme.Success.Render(tr.T("conflict_removed", i18n.Data{"File": file})))
	}

	for _, file := range removal.FailedFiles() {
		msg := tr.T("conflict_remove_failed", i18n.Data{"File": file})
		fmt.Fprintf(w, "  %s %s\n", theme.Warning.Render(msg), theme.Muted.Render(removal.Failed[file].Error()))
	}
}
