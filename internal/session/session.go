// Package session owns the in-memory tables of one user session and exposes
// every user action as a method.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jask/finecalc/internal/catalog"
	"github.com/jask/finecalc/internal/ledger"
	"github.com/jask/finecalc/internal/preset"
	"github.com/jask/finecalc/internal/registry"
	"github.com/jask/finecalc/internal/store"
)

// MaxDurationHours bounds the wanted duration to 100 years.
const MaxDurationHours = 100 * 365 * 24

var (
	// ErrNegativeDuration is returned by SetDuration for hours below zero.
	ErrNegativeDuration = errors.New("wanted duration must not be negative")
	// ErrDurationTooLong is returned by SetDuration above MaxDurationHours.
	ErrDurationTooLong = fmt.Errorf("wanted duration must not exceed %d hours", MaxDurationHours)
)

// Session is not safe for concurrent use. Each user action runs to
// completion before the next one starts.
type Session struct {
	store    store.Store
	logger   *slog.Logger
	now      func() time.Time
	loc      *time.Location
	duration int

	catalog  *catalog.Catalog
	presets  *preset.Set
	registry *registry.Registry
	ledger   *ledger.Ledger
	gate     ledger.ReloadGate
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		s.loc = loc
	}
}

// WithDuration sets the initial wanted duration in hours.
func WithDuration(hours int) Option {
	return func(s *Session) {
		s.duration = hours
	}
}

// New builds an empty session over st. Call Open to load the tables.
func New(st store.Store, opts ...Option) *Session {
	s := &Session{
		store:    st,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		loc:      time.FixedZone("JST", 9*60*60),
		duration: ledger.DefaultDurationHours,
		catalog:  catalog.Empty(),
		presets:  preset.NewSet(preset.Defaults()),
		registry: registry.New(),
		ledger:   ledger.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.duration < 0 || s.duration > MaxDurationHours {
		s.duration = ledger.DefaultDurationHours
	}
	return s
}

// Open reads the catalog, presets and wanted ledger. Failures do not stop
// the session: each one is returned as a warning and its table stays empty.
func (s *Session) Open(ctx context.Context) []error {
	var (
		crimeRecs, presetRecs, wantedRecs []store.Record
		errs                              [3]error
	)
	var g errgroup.Group
	g.Go(func() error {
		crimeRecs, errs[0] = s.store.Read(ctx, store.TableCrimes)
		return nil
	})
	g.Go(func() error {
		presetRecs, errs[1] = s.store.Read(ctx, store.TablePresets)
		return nil
	})
	g.Go(func() error {
		wantedRecs, errs[2] = s.store.Read(ctx, store.TableWanted)
		return nil
	})
	_ = g.Wait()

	var warnings []error
	warn := func(err error) {
		s.logger.Warn("session open", "error", err)
		warnings = append(warnings, err)
	}

	if errs[0] != nil {
		warn(errs[0])
	} else if c, err := catalog.Load(catalog.RowsFromRecords(crimeRecs)); err != nil {
		warn(err)
	} else {
		s.catalog = c
	}

	if errs[1] != nil {
		warn(errs[1])
	} else if defs := preset.FromRecords(presetRecs); len(defs) > 0 {
		s.presets = preset.NewSet(defs)
	}

	if errs[2] != nil {
		warn(errs[2])
	} else if rows, err := ledger.FromRecords(wantedRecs, s.loc); err != nil {
		warn(fmt.Errorf("load wanted: %w", err))
	} else {
		s.ledger.Replace(rows)
	}

	s.logger.Info("session opened",
		"crimes", s.catalog.Len(),
		"presets", s.presets.Len(),
		"wanted", s.ledger.Len(),
		"warnings", len(warnings))
	return warnings
}

func (s *Session) Catalog() *catalog.Catalog { return s.catalog }
func (s *Session) Presets() *preset.Set      { return s.presets }
func (s *Session) Location() *time.Location  { return s.loc }

// Registry returns the working registry rows.
func (s *Session) Registry() []registry.Row { return s.registry.Rows() }

// RegistryView is the grouped display projection of the registry.
func (s *Session) RegistryView() []registry.Group { return s.registry.AggregateView() }

// Ledger returns the wanted ledger rows.
func (s *Session) Ledger() []ledger.Row { return s.ledger.Rows() }

// Add looks name up in the catalog and appends it to the registry.
func (s *Session) Add(name string) error {
	e, err := s.catalog.Lookup(name)
	if err != nil {
		return err
	}
	if err := s.registry.Add(e); err != nil {
		return err
	}
	s.logger.Debug("registry add", "crime", e.Name, "fine", e.Fine)
	return nil
}

// ApplyPreset adds every member of the named preset. All members are looked
// up first; an unknown one aborts with no change. Members already in the
// registry are skipped. It returns how many rows were added.
func (s *Session) ApplyPreset(name string) (int, error) {
	def, ok := s.presets.Get(name)
	if !ok {
		return 0, fmt.Errorf("preset %q not found", name)
	}
	members := preset.Expand(def)
	entries := make([]catalog.Entry, 0, len(members))
	for _, m := range members {
		e, err := s.catalog.Lookup(m)
		if err != nil {
			return 0, fmt.Errorf("preset %s: %w", def.Name, err)
		}
		entries = append(entries, e)
	}
	n := s.registry.AddAll(entries)
	s.logger.Debug("preset applied", "preset", def.Name, "added", n)
	return n, nil
}

func (s *Session) ToggleRegistry(name string) bool { return s.registry.ToggleSelected(name) }

func (s *Session) RemoveSelectedRegistry() int { return s.registry.RemoveSelected() }

func (s *Session) ClearRegistry() { s.registry.Clear() }

// Total is the sum of registry fines.
func (s *Session) Total() int64 { return s.registry.TotalFine() }

// Commit appends the current registry as a wanted row stamped with the
// current time. The registry is left as is.
func (s *Session) Commit() ledger.Row {
	row := s.ledger.Commit(s.now().In(s.loc), s.registry.Names(), s.registry.TotalFine(), s.duration)
	s.registry.MarkCommitted()
	s.logger.Info("committed", "charges", row.Charges, "total", row.TotalFine, "end", row.End.Format(ledger.TimeLayout))
	return row
}

func (s *Session) Duration() int { return s.duration }

func (s *Session) SetDuration(hours int) error {
	if hours < 0 {
		return ErrNegativeDuration
	}
	if hours > MaxDurationHours {
		return ErrDurationTooLong
	}
	s.duration = hours
	return nil
}

func (s *Session) ToggleLedger(i int) error { return s.ledger.ToggleSelected(i) }

func (s *Session) SetSubjectID(i int, id string) error { return s.ledger.SetSubjectID(i, id) }

func (s *Session) RemoveSelectedLedger() int { return s.ledger.RemoveSelected() }

// ClearLedger empties the in-memory ledger. The store keeps its rows until Save.
func (s *Session) ClearLedger() {
	s.ledger.Clear()
	s.invalidate(store.TableWanted)
}

// HasUnsavedChanges reports edits a reload would discard.
func (s *Session) HasUnsavedChanges() bool {
	return s.ledger.Dirty() || s.registry.Dirty()
}

func (s *Session) ReloadState() ledger.ReloadState { return s.gate.State() }

// RequestReload reloads at once when nothing would be lost. Otherwise it
// parks the request and reports pending; nothing changes until
// ConfirmReload or DeclineReload.
func (s *Session) RequestReload(ctx context.Context) (pending bool, err error) {
	if s.HasUnsavedChanges() {
		s.gate.Request()
		return true, nil
	}
	return false, s.reload(ctx)
}

// ConfirmReload performs the pending reload, discarding ledger and registry edits.
func (s *Session) ConfirmReload(ctx context.Context) error {
	if err := s.gate.Confirm(); err != nil {
		return err
	}
	return s.reload(ctx)
}

func (s *Session) DeclineReload() error { return s.gate.Decline() }

func (s *Session) reload(ctx context.Context) error {
	s.invalidate(store.TableWanted)
	recs, err := s.store.Read(ctx, store.TableWanted)
	if err != nil {
		return err
	}
	rows, err := ledger.FromRecords(recs, s.loc)
	if err != nil {
		return fmt.Errorf("load wanted: %w", err)
	}
	s.ledger.Replace(rows)
	s.registry.Clear()
	s.registry.MarkCommitted()
	s.logger.Info("wanted reloaded", "rows", len(rows))
	return nil
}

// Save replaces the stored ledger with the in-memory one.
func (s *Session) Save(ctx context.Context) error {
	rows := s.ledger.Rows()
	if err := s.store.Write(ctx, store.TableWanted, ledger.Records(rows, s.loc)); err != nil {
		return err
	}
	s.invalidate(store.TableWanted)
	s.ledger.MarkSaved()
	s.logger.Info("wanted saved", "rows", len(rows))
	return nil
}

func (s *Session) invalidate(table string) {
	if inv, ok := s.store.(store.Invalidator); ok {
		inv.Invalidate(table)
	}
}
