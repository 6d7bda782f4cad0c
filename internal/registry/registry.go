// Package registry is the working list of offenses for the case in progress.
//
// Raw rows are authoritative for add, select and remove. AggregateView is a
// read-only projection for display.
package registry

import (
	"fmt"
	"sort"

	"github.com/jask/finecalc/internal/catalog"
)

// Row is one selected offense.
type Row struct {
	Selected  bool
	CatalogID string
	Name      string
	Fine      int64
}

// Group is one line of the aggregate view.
type Group struct {
	Selected  bool
	Name      string
	CatalogID string
	Fine      int64
}

// DuplicateError is returned when a name is already in the registry.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%q is already registered", e.Name)
}

// Registry holds rows with unique names.
type Registry struct {
	rows  []Row
	dirty bool
}

func New() *Registry { return &Registry{} }

// Add appends entry unselected. A duplicate name leaves the registry unchanged.
func (r *Registry) Add(e catalog.Entry) error {
	if r.Contains(e.Name) {
		return &DuplicateError{Name: e.Name}
	}
	r.rows = append(r.rows, Row{CatalogID: e.ID, Name: e.Name, Fine: e.Fine})
	r.dirty = true
	return nil
}

// AddAll adds entries in order, skipping names already present.
func (r *Registry) AddAll(entries []catalog.Entry) int {
	added := 0
	for _, e := range entries {
		if r.Add(e) == nil {
			added++
		}
	}
	return added
}

func (r *Registry) Contains(name string) bool {
	return r.index(name) >= 0
}

// SetSelected marks the named row; it reports false for an unknown name.
func (r *Registry) SetSelected(name string, sel bool) bool {
	i := r.index(name)
	if i < 0 {
		return false
	}
	r.rows[i].Selected = sel
	return true
}

func (r *Registry) ToggleSelected(name string) bool {
	i := r.index(name)
	if i < 0 {
		return false
	}
	r.rows[i].Selected = !r.rows[i].Selected
	return true
}

// RemoveSelected drops every selected row and returns how many went.
func (r *Registry) RemoveSelected() int {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if !row.Selected {
			kept = append(kept, row)
		}
	}
	removed := len(r.rows) - len(kept)
	r.rows = kept
	if removed > 0 {
		r.dirty = true
	}
	return removed
}

// Clear empties the registry.
func (r *Registry) Clear() {
	if len(r.rows) > 0 {
		r.dirty = true
	}
	r.rows = nil
}

// TotalFine sums fines over all rows.
func (r *Registry) TotalFine() int64 {
	var total int64
	for _, row := range r.rows {
		total += row.Fine
	}
	return total
}

// Names returns row names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row.Name)
	}
	return out
}

// Rows returns a copy of the raw rows.
func (r *Registry) Rows() []Row {
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

func (r *Registry) Len() int { return len(r.rows) }

// AggregateView groups rows by (selected, name, catalog id) and sums fines,
// ordered unselected first, then by name and id.
func (r *Registry) AggregateView() []Group {
	type key struct {
		sel      bool
		name, id string
	}
	sums := map[key]int64{}
	var keys []key
	for _, row := range r.rows {
		k := key{row.Selected, row.Name, row.CatalogID}
		if _, ok := sums[k]; !ok {
			keys = append(keys, k)
		}
		sums[k] += row.Fine
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.sel != b.sel {
			return !a.sel
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.id < b.id
	})
	out := make([]Group, 0, len(keys))
	for _, k := range keys {
		out = append(out, Group{Selected: k.sel, Name: k.name, CatalogID: k.id, Fine: sums[k]})
	}
	return out
}

// Dirty reports rows added or changed since the last commit. An empty
// registry has nothing to lose and is never dirty.
func (r *Registry) Dirty() bool { return r.dirty && len(r.rows) > 0 }

func (r *Registry) MarkCommitted() { r.dirty = false }

func (r *Registry) index(name string) int {
	for i, row := range r.rows {
		if row.Name == name {
			return i
		}
	}
	return -1
}
