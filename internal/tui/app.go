package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/finecalc/internal/catalog"
	"github.com/jask/finecalc/internal/config"
	"github.com/jask/finecalc/internal/registry"
	"github.com/jask/finecalc/internal/session"
)

// App renders one session. Every key is handled to completion inside Update,
// so the session is only ever touched from one goroutine.
type App struct {
	ctx      context.Context
	sess     *session.Session
	currency string
	layout   string

	pane    pane
	modal   modalState
	status  string
	input   textinput.Model
	filter  string
	cursors map[pane]int
}

type pane string

const (
	paneCatalog  pane = "catalog"
	panePresets  pane = "presets"
	paneRegistry pane = "registry"
	paneLedger   pane = "ledger"
)

var paneOrder = []pane{paneCatalog, panePresets, paneRegistry, paneLedger}

type modalState string

const (
	modalNone          modalState = ""
	modalFilter        modalState = "filter"
	modalDuration      modalState = "duration"
	modalSubjectID     modalState = "subjectID"
	modalClearRegistry modalState = "clearRegistry"
	modalClearLedger   modalState = "clearLedger"
	modalConfirmReload modalState = "confirmReload"
)

// New builds the app over an opened session. warnings are the errors
// returned by Session.Open and are shown on the first frame.
func New(ctx context.Context, sess *session.Session, cfg config.Config, warnings []error) *App {
	layout := cfg.UI.TimeFormat
	if layout == "" {
		layout = "2006/01/02 15:04"
	}
	a := &App{
		ctx:      ctx,
		sess:     sess,
		currency: cfg.UI.CurrencySymbol,
		layout:   layout,
		pane:     paneCatalog,
		cursors:  map[pane]int{},
	}
	if len(warnings) > 0 {
		a.status = "warning: " + errors.Join(warnings...).Error()
	}
	return a
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "tab":
		a.pane = paneOrder[(a.paneIndex()+1)%len(paneOrder)]
	case "shift+tab":
		a.pane = paneOrder[(a.paneIndex()+len(paneOrder)-1)%len(paneOrder)]
	case "1":
		a.pane = paneCatalog
	case "2":
		a.pane = panePresets
	case "3":
		a.pane = paneRegistry
	case "4":
		a.pane = paneLedger
	case "up", "k":
		a.moveCursor(-1)
	case "down", "j":
		a.moveCursor(1)
	case "/":
		if a.pane == paneCatalog {
			a.openInput(modalFilter, "filter", a.filter)
		}
	case "enter":
		a.activate()
	case " ", "space":
		a.toggle()
	case "x":
		a.removeSelected()
	case "X":
		switch a.pane {
		case paneRegistry:
			a.modal = modalClearRegistry
		case paneLedger:
			a.modal = modalClearLedger
		}
	case "c":
		row := a.sess.Commit()
		a.status = fmt.Sprintf("wanted until %s: %s%d", row.End.Format(a.layout), a.currency, row.TotalFine)
	case "h":
		a.openInput(modalDuration, "hours", strconv.Itoa(a.sess.Duration()))
	case "e":
		if a.pane == paneLedger {
			a.editSubjectID()
		}
	case "r":
		pending, err := a.sess.RequestReload(a.ctx)
		switch {
		case err != nil:
			a.setErr(err)
		case pending:
			a.modal = modalConfirmReload
		default:
			a.status = "wanted list reloaded"
		}
	case "s":
		if err := a.sess.Save(a.ctx); err != nil {
			a.setErr(err)
			return a, nil
		}
		a.status = "wanted list saved"
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalClearRegistry, modalClearLedger, modalConfirmReload:
		switch m.String() {
		case "y", "Y":
			a.confirm(true)
		case "n", "N", "esc":
			a.confirm(false)
		}
		return a, nil
	}

	switch m.Type {
	case tea.KeyEsc:
		if a.modal == modalFilter {
			a.filter = ""
		}
		a.modal = modalNone
		return a, nil
	case tea.KeyEnter:
		a.submitInput(strings.TrimSpace(a.input.Value()))
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	if a.modal == modalFilter {
		a.filter = strings.TrimSpace(a.input.Value())
		a.cursors[paneCatalog] = 0
	}
	return a, cmd
}

func (a *App) confirm(yes bool) {
	mode := a.modal
	a.modal = modalNone
	switch mode {
	case modalClearRegistry:
		if yes {
			a.sess.ClearRegistry()
			a.status = "registry cleared"
		}
	case modalClearLedger:
		if yes {
			a.sess.ClearLedger()
			a.status = "wanted list cleared (not saved)"
		}
	case modalConfirmReload:
		if !yes {
			if err := a.sess.DeclineReload(); err != nil {
				a.setErr(err)
				return
			}
			a.status = "reload cancelled"
			return
		}
		if err := a.sess.ConfirmReload(a.ctx); err != nil {
			a.setErr(err)
			return
		}
		a.status = "wanted list reloaded, unsaved edits discarded"
	}
}

func (a *App) submitInput(text string) {
	mode := a.modal
	a.modal = modalNone
	switch mode {
	case modalFilter:
		a.filter = text
	case modalDuration:
		hours, err := strconv.Atoi(text)
		if err != nil {
			a.status = "enter a whole number of hours"
			return
		}
		if err := a.sess.SetDuration(hours); err != nil {
			a.setErr(err)
			return
		}
		a.status = fmt.Sprintf("wanted duration set to %dh", hours)
	case modalSubjectID:
		i := a.cursor(paneLedger, len(a.sess.Ledger()))
		if err := a.sess.SetSubjectID(i, text); err != nil {
			a.setErr(err)
		}
	}
}

func (a *App) openInput(mode modalState, placeholder, value string) {
	inp := textinput.New()
	inp.Placeholder = placeholder
	inp.Prompt = "> "
	inp.SetValue(value)
	inp.Focus()
	a.input = inp
	a.modal = mode
}

func (a *App) activate() {
	switch a.pane {
	case paneCatalog:
		names := a.catalogNames()
		if len(names) == 0 {
			return
		}
		name := names[a.cursor(paneCatalog, len(names))]
		if err := a.sess.Add(name); err != nil {
			a.setErr(err)
			return
		}
		a.status = "added " + name
	case panePresets:
		names := a.sess.Presets().Names()
		if len(names) == 0 {
			return
		}
		name := names[a.cursor(panePresets, len(names))]
		n, err := a.sess.ApplyPreset(name)
		if err != nil {
			a.setErr(err)
			return
		}
		a.status = fmt.Sprintf("preset %s: added %d", name, n)
	case paneLedger:
		a.editSubjectID()
	}
}

func (a *App) editSubjectID() {
	rows := a.sess.Ledger()
	if len(rows) == 0 {
		return
	}
	a.openInput(modalSubjectID, "ID/Name", rows[a.cursor(paneLedger, len(rows))].SubjectID)
}

func (a *App) toggle() {
	switch a.pane {
	case paneRegistry:
		view := a.sess.RegistryView()
		if len(view) == 0 {
			return
		}
		name := view[a.cursor(paneRegistry, len(view))].Name
		a.sess.ToggleRegistry(name)
		// the view re-sorts on selection; follow the row
		for i, g := range a.sess.RegistryView() {
			if g.Name == name {
				a.cursors[paneRegistry] = i
			}
		}
	case paneLedger:
		n := len(a.sess.Ledger())
		if n == 0 {
			return
		}
		if err := a.sess.ToggleLedger(a.cursor(paneLedger, n)); err != nil {
			a.setErr(err)
		}
	}
}

func (a *App) removeSelected() {
	switch a.pane {
	case paneRegistry:
		a.status = fmt.Sprintf("deleted %d", a.sess.RemoveSelectedRegistry())
	case paneLedger:
		a.status = fmt.Sprintf("deleted %d", a.sess.RemoveSelectedLedger())
	}
}

func (a *App) setErr(err error) {
	var nf *catalog.NotFoundError
	var dup *registry.DuplicateError
	switch {
	case errors.As(err, &dup), errors.As(err, &nf):
		a.status = "warning: " + err.Error()
	default:
		a.status = "error: " + err.Error()
	}
}

func (a *App) catalogNames() []string {
	names := a.sess.Catalog().Names()
	if a.filter == "" {
		return names
	}
	out := names[:0]
	for _, n := range names {
		if strings.Contains(n, a.filter) {
			out = append(out, n)
		}
	}
	return out
}

func (a *App) paneLen(p pane) int {
	switch p {
	case paneCatalog:
		return len(a.catalogNames())
	case panePresets:
		return a.sess.Presets().Len()
	case paneRegistry:
		return len(a.sess.RegistryView())
	case paneLedger:
		return len(a.sess.Ledger())
	}
	return 0
}

func (a *App) moveCursor(delta int) {
	n := a.paneLen(a.pane)
	c := a.cursor(a.pane, n) + delta
	if c < 0 || c >= n {
		return
	}
	a.cursors[a.pane] = c
}

// cursor clamps the stored cursor of p to a list of n rows.
func (a *App) cursor(p pane, n int) int {
	c := a.cursors[p]
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	a.cursors[p] = c
	return c
}

func (a *App) paneIndex() int {
	for i, p := range paneOrder {
		if p == a.pane {
			return i
		}
	}
	return 0
}
