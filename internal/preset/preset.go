// Package preset expands named shortcuts into ordered lists of offense names.
package preset

import (
	"sort"
	"strings"

	"github.com/jask/finecalc/internal/store"
)

// Definition is a preset as stored: a name and one delimited member string.
type Definition struct {
	Name       string
	RawMembers string
}

const fullWidthComma = "、"

// Expand splits the member string on ",", else on "、", else on whitespace.
// Each segment is whitespace-split again and flattened. Order is kept and
// duplicates are left for the registry to reject.
func Expand(d Definition) []string {
	raw := d.RawMembers
	var segments []string
	switch {
	case strings.Contains(raw, ","):
		segments = strings.Split(raw, ",")
	case strings.Contains(raw, fullWidthComma):
		segments = strings.Split(raw, fullWidthComma)
	default:
		segments = []string{raw}
	}
	var out []string
	for _, seg := range segments {
		out = append(out, strings.Fields(seg)...)
	}
	return out
}

// Defaults are used when the store holds no presets.
func Defaults() []Definition {
	return []Definition{
		{Name: "客船", RawMembers: "豪華客船強盗,PL殺人及び未遂"},
	}
}

// FromRecords maps presets table records onto definitions. Rows without a
// name are skipped.
func FromRecords(recs []store.Record) []Definition {
	out := make([]Definition, 0, len(recs))
	for _, r := range recs {
		name := strings.TrimSpace(r.String(store.ColPresetName))
		if name == "" {
			continue
		}
		out = append(out, Definition{Name: name, RawMembers: r.String(store.ColMemberList)})
	}
	return out
}

// Records is the inverse of FromRecords.
func Records(defs []Definition) []store.Record {
	out := make([]store.Record, 0, len(defs))
	for _, d := range defs {
		out = append(out, store.Record{store.ColPresetName: d.Name, store.ColMemberList: d.RawMembers})
	}
	return out
}

// Set is an ordered collection of presets keyed by name.
type Set struct {
	byName map[string]Definition
	names  []string
}

// NewSet indexes defs by name; a later definition replaces an earlier one.
func NewSet(defs []Definition) *Set {
	s := &Set{byName: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if _, ok := s.byName[d.Name]; !ok {
			s.names = append(s.names, d.Name)
		}
		s.byName[d.Name] = d
	}
	sort.Strings(s.names)
	return s
}

func (s *Set) Get(name string) (Definition, bool) {
	d, ok := s.byName[name]
	return d, ok
}

func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Set) Len() int { return len(s.names) }
