package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"shireesh.com/bootgen/internal/executor"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

var actionStyles = map[executor.Action]lipgloss.Style{
	executor.ActionMkdir:     okStyle,
	executor.ActionCreate:    okStyle,
	executor.ActionOverwrite: warnStyle,
	executor.ActionExists:    dimStyle,
	executor.ActionUnchanged: dimStyle,
}

func printReport(w io.Writer, rep executor.Report, ok bool) {
	for _, e := range rep.Entries {
		rel, err := filepath.Rel(rep.Root, e.Path)
		if err != nil {
			rel = e.Path
		}
		style := actionStyles[e.Action]
		fmt.Fprintf(w, "%s %s\n", style.Render(fmt.Sprintf("%-9s", e.Action)), rel)
		if e.Diff != "" {
			fmt.Fprint(w, dimStyle.Render(e.Diff))
			fmt.Fprintln(w)
		}
	}
	if !ok {
		return
	}

	summary := fmt.Sprintf("%d created, %d overwritten, %d unchanged",
		rep.Count(executor.ActionCreate), rep.Count(executor.ActionOverwrite), rep.Count(executor.ActionUnchanged))
	if rep.DryRun {
		fmt.Fprintln(w, warnStyle.Render("dry run:"), summary)
		return
	}
	fmt.Fprintln(w, okStyle.Render("done:"), summary)
}
