// Package catalog holds the per-session reference table of offenses.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/finecalc/internal/fine"
	"github.com/jask/finecalc/internal/store"
)

// Entry is one offense with its normalized fine.
type Entry struct {
	ID   string
	Name string
	Fine int64
}

// RawRow is a reference row before normalization.
type RawRow struct {
	ID   string
	Name string
	Fine fine.Value
}

// Catalog is immutable once loaded.
type Catalog struct {
	byName map[string]Entry
	names  []string
}

// NotFoundError is returned by Lookup for an unknown name.
type NotFoundError struct {
	Name       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("offense %q not found; preset members must be separated by \",\" or \"、\"", e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// RowsFromRecords maps crimes table records onto raw rows.
func RowsFromRecords(recs []store.Record) []RawRow {
	out := make([]RawRow, 0, len(recs))
	for _, r := range recs {
		out = append(out, RawRow{
			ID:   strings.TrimSpace(r.String(store.ColCrimeID)),
			Name: strings.TrimSpace(r.String(store.ColCrime)),
			Fine: fine.FromCell(r[store.ColFine]),
		})
	}
	return out
}

// Load builds a catalog. Rows without an id are dropped, the first row wins
// for a repeated name, and an unparseable fine aborts the load.
func Load(rows []RawRow) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Entry, len(rows))}
	for i, r := range rows {
		if r.ID == "" {
			continue
		}
		n, err := fine.Normalize(r.Fine)
		if err != nil {
			var pe *fine.ParseError
			if errors.As(err, &pe) {
				pe.Index = i
			}
			return nil, fmt.Errorf("load catalog row %q: %w", r.Name, err)
		}
		if _, dup := c.byName[r.Name]; dup {
			continue
		}
		c.byName[r.Name] = Entry{ID: r.ID, Name: r.Name, Fine: n}
		c.names = append(c.names, r.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// Empty returns a catalog with no entries.
func Empty() *Catalog {
	return &Catalog{byName: map[string]Entry{}}
}

// Lookup finds an entry by exact name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	if e, ok := c.byName[name]; ok {
		return e, nil
	}
	return Entry{}, &NotFoundError{Name: name, Suggestion: c.closest(name)}
}

// Names returns the sorted, unique entry names.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Catalog) Len() int { return len(c.names) }

// closest returns the nearest name when it is within a third of the query length.
func (c *Catalog) closest(name string) string {
	if name == "" {
		return ""
	}
	limit := utf8.RuneCountInString(name)/3 + 1
	best, bestDist := "", limit+1
	for _, n := range c.names {
		d := levenshtein.ComputeDistance(name, n)
		if d < bestDist {
			best, bestDist = n, d
		}
	}
	if bestDist > limit {
		return ""
	}
	return best
}
