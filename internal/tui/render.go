package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	totalStyle  = lipgloss.NewStyle().Bold(true)
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderCatalog())
	b.WriteString("\n")
	b.WriteString(a.renderPresets())
	b.WriteString("\n")
	b.WriteString(a.renderRegistry())
	b.WriteString("\n")
	b.WriteString(a.renderLedger())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[tab] Pane  [enter] Add/Apply  [space] Select  [x] Delete selected  [X] Delete all  [c] Commit  [h] Duration  [e] Edit ID  [r] Reload  [s] Save  [q] Quit"))
	if a.status != "" {
		b.WriteString("\n" + a.status)
	}
	if a.modal != modalNone {
		b.WriteString("\n\n" + a.renderModal())
	}
	return b.String()
}

func (a *App) heading(p pane, title string) string {
	if a.pane == p {
		return activeStyle.Render("▶ ") + titleStyle.Render(title)
	}
	return "  " + titleStyle.Render(title)
}

func (a *App) marker(p pane, i int) string {
	if a.pane == p && i == a.cursors[p] {
		return "▶"
	}
	return " "
}

func checkbox(sel bool) string {
	if sel {
		return "[x]"
	}
	return "[ ]"
}

func (a *App) renderCatalog() string {
	title := "Offenses"
	if a.filter != "" {
		title += fmt.Sprintf(" (filter: %s)", a.filter)
	}
	out := a.heading(paneCatalog, title) + "\n"
	names := a.catalogNames()
	if len(names) == 0 {
		return out + mutedStyle.Render("  (no offenses loaded)") + "\n"
	}
	a.cursor(paneCatalog, len(names))
	for i, n := range names {
		e, err := a.sess.Catalog().Lookup(n)
		if err != nil {
			continue
		}
		out += fmt.Sprintf("%s %-24s %s%d\n", a.marker(paneCatalog, i), n, a.currency, e.Fine)
	}
	return out
}

func (a *App) renderPresets() string {
	out := a.heading(panePresets, "Presets") + "\n"
	set := a.sess.Presets()
	names := set.Names()
	if len(names) == 0 {
		return out + mutedStyle.Render("  (no presets)") + "\n"
	}
	a.cursor(panePresets, len(names))
	for i, n := range names {
		d, _ := set.Get(n)
		out += fmt.Sprintf("%s %-12s %s\n", a.marker(panePresets, i), n, mutedStyle.Render(d.RawMembers))
	}
	return out
}

func (a *App) renderRegistry() string {
	out := a.heading(paneRegistry, "Current charges") + "\n"
	view := a.sess.RegistryView()
	out += fmt.Sprintf("  Num. of entry: %d\n", len(view))
	a.cursor(paneRegistry, len(view))
	for i, g := range view {
		out += fmt.Sprintf("%s %s %-24s %-8s %s%d\n", a.marker(paneRegistry, i), checkbox(g.Selected), g.Name, g.CatalogID, a.currency, g.Fine)
	}
	out += totalStyle.Render(fmt.Sprintf("  Total fine: %s%d", a.currency, a.sess.Total()))
	out += mutedStyle.Render(fmt.Sprintf("  wanted for %dh", a.sess.Duration())) + "\n"
	return out
}

func (a *App) renderLedger() string {
	title := "Wanted"
	if a.sess.HasUnsavedChanges() {
		title += " *"
	}
	out := a.heading(paneLedger, title) + "\n"
	rows := a.sess.Ledger()
	if len(rows) == 0 {
		return out + mutedStyle.Render("  (no wanted entries)") + "\n"
	}
	a.cursor(paneLedger, len(rows))
	loc := a.sess.Location()
	for i, r := range rows {
		id := r.SubjectID
		if id == "" {
			id = "-"
		}
		out += fmt.Sprintf("%s %s %-12s %s  %s  %-30s %s%d\n",
			a.marker(paneLedger, i), checkbox(r.Selected), id,
			r.Start.In(loc).Format(a.layout), r.End.In(loc).Format(a.layout),
			r.Charges, a.currency, r.TotalFine)
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalFilter:
		return titleStyle.Render("Filter offenses") + "\n" + a.input.View() + "\n[enter] Apply  [esc] Clear"
	case modalDuration:
		return titleStyle.Render("Wanted duration (hours)") + "\n" + a.input.View() + "\n[enter] Save  [esc] Cancel"
	case modalSubjectID:
		return titleStyle.Render("ID/Name") + "\n" + a.input.View() + "\n[enter] Save  [esc] Cancel"
	case modalClearRegistry:
		return titleStyle.Render("Delete all charges?") + "\n[y] Yes  [n] No"
	case modalClearLedger:
		return titleStyle.Render("Delete all wanted entries?") + "\nThe stored list is kept until you save.\n[y] Yes  [n] No"
	case modalConfirmReload:
		return titleStyle.Render("Reload wanted list?") + "\nUnsaved edits will be discarded.\n[y] Yes  [n] No"
	default:
		return ""
	}
}
