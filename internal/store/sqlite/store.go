// Package sqlite implements store.Store over a local sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jask/finecalc/internal/database"
	"github.com/jask/finecalc/internal/database/repository"
	"github.com/jask/finecalc/internal/fine"
	"github.com/jask/finecalc/internal/store"
)

// Store maps the three known tables onto their repositories.
type Store struct {
	db      *sql.DB
	crimes  *repository.CrimeRepo
	presets *repository.PresetRepo
	wanted  *repository.WantedRepo
}

// Open creates the database directory, applies migrations, seeds default
// presets and returns a ready store.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		db:      db,
		crimes:  repository.NewCrimeRepo(db),
		presets: repository.NewPresetRepo(db),
		wanted:  repository.NewWantedRepo(db),
	}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Read(ctx context.Context, table string) ([]store.Record, error) {
	recs, err := s.read(ctx, table)
	return recs, store.Wrap("read", table, err)
}

func (s *Store) read(ctx context.Context, table string) ([]store.Record, error) {
	switch table {
	case store.TableCrimes:
		list, err := s.crimes.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]store.Record, 0, len(list))
		for _, c := range list {
			out = append(out, store.Record{store.ColCrimeID: c.ID, store.ColCrime: c.Name, store.ColFine: c.Fine})
		}
		return out, nil
	case store.TablePresets:
		list, err := s.presets.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]store.Record, 0, len(list))
		for _, p := range list {
			out = append(out, store.Record{store.ColPresetName: p.Name, store.ColMemberList: p.Members})
		}
		return out, nil
	case store.TableWanted:
		list, err := s.wanted.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]store.Record, 0, len(list))
		for _, w := range list {
			out = append(out, store.Record{
				store.ColSubjectID: w.SubjectID,
				store.ColStartTime: w.StartTime,
				store.ColEndTime:   w.EndTime,
				store.ColCharges:   w.Charges,
				store.ColTotalFine: w.TotalFine,
			})
		}
		return out, nil
	}
	_, err := store.Columns(table)
	return nil, err
}

// Write replaces table with rows. A wanted row whose total_fine does not
// parse is a data error and is returned as is, not as a ConnectionError.
func (s *Store) Write(ctx context.Context, table string, rows []store.Record) error {
	if table == store.TableWanted {
		list, err := wantedRows(rows)
		if err != nil {
			return err
		}
		return store.Wrap("write", table, s.wanted.ReplaceAll(ctx, list))
	}
	return store.Wrap("write", table, s.write(ctx, table, rows))
}

func wantedRows(rows []store.Record) ([]repository.Wanted, error) {
	list := make([]repository.Wanted, 0, len(rows))
	for i, r := range rows {
		total, err := fine.Normalize(fine.FromCell(r[store.ColTotalFine]))
		if err != nil {
			return nil, fmt.Errorf("wanted row %d total_fine: %w", i, err)
		}
		list = append(list, repository.Wanted{
			SubjectID: r.String(store.ColSubjectID),
			StartTime: r.String(store.ColStartTime),
			EndTime:   r.String(store.ColEndTime),
			Charges:   r.String(store.ColCharges),
			TotalFine: total,
		})
	}
	return list, nil
}

func (s *Store) write(ctx context.Context, table string, rows []store.Record) error {
	switch table {
	case store.TableCrimes:
		list := make([]repository.Crime, 0, len(rows))
		for _, r := range rows {
			list = append(list, repository.Crime{ID: r.String(store.ColCrimeID), Name: r.String(store.ColCrime), Fine: r[store.ColFine]})
		}
		return s.crimes.ReplaceAll(ctx, list)
	case store.TablePresets:
		list := make([]repository.Preset, 0, len(rows))
		for _, r := range rows {
			list = append(list, repository.Preset{Name: r.String(store.ColPresetName), Members: r.String(store.ColMemberList)})
		}
		return s.presets.ReplaceAll(ctx, list)
	}
	_, err := store.Columns(table)
	return err
}
