// Package ledger is the wanted-persons ledger: finalized cases with an expiry.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the stored format of start and end times.
const TimeLayout = "2006/01/02 15:04"

// DefaultDurationHours is how long a case stays wanted unless configured.
const DefaultDurationHours = 72

// ErrRowIndex is returned for an index outside the table.
var ErrRowIndex = errors.New("ledger row index out of range")

// Row is one finalized case.
type Row struct {
	Selected  bool
	SubjectID string
	Start     time.Time
	End       time.Time
	Charges   string
	TotalFine int64
}

// Ledger is the in-memory table.
type Ledger struct {
	rows  []Row
	dirty bool
}

func New() *Ledger { return &Ledger{} }

var chargeArtifacts = strings.NewReplacer("[", "", "]", "", "'", "")

// FormatCharges joins names with "," and strips list punctuation.
func FormatCharges(names []string) string {
	return chargeArtifacts.Replace(strings.Join(names, ","))
}

// Commit appends a case created at created that expires durationHours later.
func (l *Ledger) Commit(created time.Time, charges []string, total int64, durationHours int) Row {
	row := Row{
		Start:     created,
		End:       created.Add(time.Duration(durationHours) * time.Hour),
		Charges:   FormatCharges(charges),
		TotalFine: total,
	}
	l.rows = append(l.rows, row)
	l.dirty = true
	return row
}

func (l *Ledger) SetSelected(i int, sel bool) error {
	if i < 0 || i >= len(l.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	l.rows[i].Selected = sel
	return nil
}

func (l *Ledger) ToggleSelected(i int) error {
	if i < 0 || i >= len(l.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	l.rows[i].Selected = !l.rows[i].Selected
	return nil
}

// SetSubjectID edits the ID/Name column of row i.
func (l *Ledger) SetSubjectID(i int, id string) error {
	if i < 0 || i >= len(l.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	id = strings.TrimSpace(id)
	if l.rows[i].SubjectID != id {
		l.rows[i].SubjectID = id
		l.dirty = true
	}
	return nil
}

// RemoveSelected drops every selected row and returns how many went.
func (l *Ledger) RemoveSelected() int {
	kept := l.rows[:0]
	for _, row := range l.rows {
		if !row.Selected {
			kept = append(kept, row)
		}
	}
	removed := len(l.rows) - len(kept)
	l.rows = kept
	if removed > 0 {
		l.dirty = true
	}
	return removed
}

func (l *Ledger) Clear() {
	if len(l.rows) > 0 {
		l.dirty = true
	}
	l.rows = nil
}

// Replace swaps in rows freshly read from the store.
func (l *Ledger) Replace(rows []Row) {
	l.rows = make([]Row, len(rows))
	copy(l.rows, rows)
	l.dirty = false
}

func (l *Ledger) Rows() []Row {
	out := make([]Row, len(l.rows))
	copy(out, l.rows)
	return out
}

func (l *Ledger) Len() int { return len(l.rows) }

// Dirty reports edits since the last load or save.
func (l *Ledger) Dirty() bool { return l.dirty }

func (l *Ledger) MarkSaved() { l.dirty = false }
