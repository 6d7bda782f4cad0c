package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/transform"

	"github.com/jask/finecalc/internal/catalog"
	"github.com/jask/finecalc/internal/fine"
	"github.com/jask/finecalc/internal/preset"
	"github.com/jask/finecalc/internal/store"
	"github.com/jask/finecalc/internal/store/csvfile"
)

// IngestService imports reference tables from CSV files into the store.
type IngestService struct {
	Store store.Store
	// Encoding of the input file; empty means UTF-8.
	Encoding string
	// AssignMissingIDs gives rows without a crime_id a stable id derived
	// from the name instead of skipping them.
	AssignMissingIDs bool
}

type IngestResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// CSV columns: crime_id, crime, fine. The header row is required; fine may be
// written as 1,200 or - like the reference sheet. Existing crimes win over
// imported rows with the same name.
func (s *IngestService) ImportCatalogCSV(ctx context.Context, r io.Reader) (IngestResult, error) {
	res := IngestResult{}
	recs, err := s.decode(r)
	if err != nil {
		return res, err
	}
	existing, err := s.Store.Read(ctx, store.TableCrimes)
	if err != nil {
		return res, err
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.String(store.ColCrime)] = true
	}

	out := existing
	for i, rec := range recs {
		line := i + 2 // header is line 1
		name := strings.TrimSpace(rec.String(store.ColCrime))
		if name == "" {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: missing crime name", line))
			continue
		}
		amount, err := fine.Normalize(fine.FromCell(rec[store.ColFine]))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d fine: %w", line, err))
			continue
		}
		id := strings.TrimSpace(rec.String(store.ColCrimeID))
		if id == "" {
			if !s.AssignMissingIDs {
				res.Skipped++
				continue
			}
			id = CrimeID(name)
		}
		if seen[name] {
			res.Skipped++
			continue
		}
		seen[name] = true
		out = append(out, store.Record{store.ColCrimeID: id, store.ColCrime: name, store.ColFine: amount})
		res.Imported++
	}
	if res.Imported == 0 {
		return res, nil
	}
	if err := s.Store.Write(ctx, store.TableCrimes, out); err != nil {
		return res, err
	}
	s.invalidate(store.TableCrimes)
	return res, nil
}

// CSV columns: preset_name, member_list. Every member must resolve in the
// stored catalog. An imported preset replaces a stored one of the same name.
func (s *IngestService) ImportPresetsCSV(ctx context.Context, r io.Reader) (IngestResult, error) {
	res := IngestResult{}
	recs, err := s.decode(r)
	if err != nil {
		return res, err
	}
	crimes, err := s.Store.Read(ctx, store.TableCrimes)
	if err != nil {
		return res, err
	}
	cat, err := catalog.Load(catalog.RowsFromRecords(crimes))
	if err != nil {
		return res, err
	}
	stored, err := s.Store.Read(ctx, store.TablePresets)
	if err != nil {
		return res, err
	}
	defs := preset.FromRecords(stored)

	for i, rec := range recs {
		line := i + 2
		def := preset.Definition{
			Name:       strings.TrimSpace(rec.String(store.ColPresetName)),
			RawMembers: rec.String(store.ColMemberList),
		}
		if def.Name == "" {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: missing preset name", line))
			continue
		}
		members := preset.Expand(def)
		if len(members) == 0 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: preset %s has no members", line, def.Name))
			continue
		}
		if err := lookupAll(cat, members); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		defs = append(defs, def)
		res.Imported++
	}
	if res.Imported == 0 {
		return res, nil
	}
	// NewSet keeps the last definition per name.
	set := preset.NewSet(defs)
	merged := make([]preset.Definition, 0, set.Len())
	for _, name := range set.Names() {
		d, _ := set.Get(name)
		merged = append(merged, d)
	}
	if err := s.Store.Write(ctx, store.TablePresets, preset.Records(merged)); err != nil {
		return res, err
	}
	s.invalidate(store.TablePresets)
	return res, nil
}

// CrimeID derives a stable id from an offense name.
func CrimeID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("crime:"+name)).String()
}

func lookupAll(cat *catalog.Catalog, names []string) error {
	for _, n := range names {
		if _, err := cat.Lookup(n); err != nil {
			return err
		}
	}
	return nil
}

func (s *IngestService) decode(r io.Reader) ([]store.Record, error) {
	enc, err := csvfile.LookupEncoding(s.Encoding)
	if err != nil {
		return nil, err
	}
	recs, err := csvfile.Decode(transform.NewReader(r, enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return recs, nil
}

func (s *IngestService) invalidate(table string) {
	if inv, ok := s.Store.(store.Invalidator); ok {
		inv.Invalidate(table)
	}
}
