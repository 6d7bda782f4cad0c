package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/finecalc/internal/catalog"
	"github.com/jask/finecalc/internal/fine"
	"github.com/jask/finecalc/internal/ledger"
	"github.com/jask/finecalc/internal/registry"
	"github.com/jask/finecalc/internal/store"
	"github.com/jask/finecalc/internal/store/cache"
	"github.com/jask/finecalc/internal/store/memory"
)

var jst = time.FixedZone("JST", 9*60*60)

func crimes() []store.Record {
	return []store.Record{
		{store.ColCrimeID: "1", store.ColCrime: "豪華客船強盗", store.ColFine: "5,000"},
		{store.ColCrimeID: "2", store.ColCrime: "PL殺人及び未遂", store.ColFine: int64(10000)},
		{store.ColCrimeID: "3", store.ColCrime: "強盗", store.ColFine: int64(500)},
		{store.ColCrimeID: "4", store.ColCrime: "殺人", store.ColFine: "1,200"},
		{store.ColCrimeID: "5", store.ColCrime: "信号無視", store.ColFine: "-"},
	}
}

func newSession(t *testing.T, st store.Store) *Session {
	t.Helper()
	clock := time.Date(2026, 10, 15, 21, 30, 0, 0, time.UTC)
	s := New(st, WithClock(func() time.Time { return clock }), WithLocation(jst))
	require.Empty(t, s.Open(context.Background()))
	return s
}

func TestPresetScenario(t *testing.T) {
	t.Parallel()
	s := newSession(t, memory.New().Seed(store.TableCrimes, crimes()))

	n, err := s.ApplyPreset("客船")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.EqualValues(t, 15000, s.Total())

	row := s.Commit()
	require.EqualValues(t, 15000, row.TotalFine)
	require.Equal(t, "豪華客船強盗,PL殺人及び未遂", row.Charges)
	require.Equal(t, "2026/10/16 06:30", row.Start.Format(ledger.TimeLayout))
	require.Equal(t, "2026/10/19 06:30", row.End.Format(ledger.TimeLayout))
	require.Len(t, s.Ledger(), 1)
	require.Len(t, s.Registry(), 2, "commit leaves the registry alone")
}

func TestAddDuplicateAndUnknown(t *testing.T) {
	t.Parallel()
	s := newSession(t, memory.New().Seed(store.TableCrimes, crimes()))

	require.NoError(t, s.Add("強盗"))
	require.NoError(t, s.Add("殺人"))
	require.NoError(t, s.Add("信号無視"))
	require.EqualValues(t, 1700, s.Total())

	var dup *registry.DuplicateError
	require.ErrorAs(t, s.Add("強盗"), &dup)
	require.Len(t, s.Registry(), 3)

	var nf *catalog.NotFoundError
	require.ErrorAs(t, s.Add("強盜"), &nf)
	require.Equal(t, "強盗", nf.Suggestion)
}

func TestApplyPresetUnknownMemberChangesNothing(t *testing.T) {
	t.Parallel()
	st := memory.New().
		Seed(store.TableCrimes, crimes()).
		Seed(store.TablePresets, []store.Record{
			{store.ColPresetName: "bad", store.ColMemberList: "強盗;殺人"},
			{store.ColPresetName: "pair", store.ColMemberList: "強盗、殺人"},
		})
	s := newSession(t, st)

	_, ok := s.Presets().Get("客船")
	require.False(t, ok, "stored presets replace the defaults")

	_, err := s.ApplyPreset("bad")
	var nf *catalog.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Empty(t, s.Registry())

	require.NoError(t, s.Add("強盗"))
	n, err := s.ApplyPreset("pair")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = s.ApplyPreset("missing")
	require.Error(t, err)
}

func TestRegistryEditing(t *testing.T) {
	t.Parallel()
	s := newSession(t, memory.New().Seed(store.TableCrimes, crimes()))
	require.NoError(t, s.Add("強盗"))
	require.NoError(t, s.Add("殺人"))

	require.True(t, s.ToggleRegistry("殺人"))
	require.False(t, s.ToggleRegistry("nope"))
	view := s.RegistryView()
	require.Len(t, view, 2)
	require.False(t, view[0].Selected)
	require.True(t, view[1].Selected)

	require.Equal(t, 1, s.RemoveSelectedRegistry())
	require.EqualValues(t, 500, s.Total())
	s.ClearRegistry()
	require.Zero(t, s.Total())
}

func TestDuration(t *testing.T) {
	t.Parallel()
	s := newSession(t, memory.New().Seed(store.TableCrimes, crimes()))
	require.Equal(t, ledger.DefaultDurationHours, s.Duration())

	require.ErrorIs(t, s.SetDuration(-1), ErrNegativeDuration)
	require.ErrorIs(t, s.SetDuration(MaxDurationHours+1), ErrDurationTooLong)
	require.ErrorIs(t, s.SetDuration(int(^uint(0)>>1)), ErrDurationTooLong)
	require.Equal(t, ledger.DefaultDurationHours, s.Duration())
	require.NoError(t, s.SetDuration(MaxDurationHours))
	far := s.Commit()
	require.True(t, far.End.After(far.Start))

	require.NoError(t, s.SetDuration(24))
	row := s.Commit()
	require.Equal(t, 24*time.Hour, row.End.Sub(row.Start))
}

func TestSaveThenReloadThroughCache(t *testing.T) {
	t.Parallel()
	mem := memory.New().Seed(store.TableCrimes, crimes())
	st := cache.New(mem, 0, time.Hour)
	s := newSession(t, st)

	require.NoError(t, s.Add("強盗"))
	s.Commit()
	require.NoError(t, s.SetSubjectID(0, "tanaka"))
	require.True(t, s.HasUnsavedChanges())
	require.NoError(t, s.Save(context.Background()))
	require.False(t, s.HasUnsavedChanges())

	pending, err := s.RequestReload(context.Background())
	require.NoError(t, err)
	require.False(t, pending)
	require.Equal(t, ledger.Clean, s.ReloadState())
	rows := s.Ledger()
	require.Len(t, rows, 1)
	require.Equal(t, "tanaka", rows[0].SubjectID)
	require.EqualValues(t, 500, rows[0].TotalFine)
	require.Equal(t, 2, mem.Reads(store.TableWanted), "reload must not be served from the cache")
}

func TestReloadDeclineLeavesLedgerIdentical(t *testing.T) {
	t.Parallel()
	s := newSession(t, memory.New().Seed(store.TableCrimes, crimes()))
	require.NoError(t, s.Add("強盗"))
	s.Commit()
	require.NoError(t, s.Add("殺人"))
	before := s.Ledger()

	pending, err := s.RequestReload(context.Background())
	require.NoError(t, err)
	require.True(t, pending)
	require.Equal(t, ledger.PendingReloadConfirmation, s.ReloadState())
	require.Equal(t, before, s.Ledger())

	require.NoError(t, s.DeclineReload())
	require.Equal(t, ledger.Clean, s.ReloadState())
	require.Equal(t, before, s.Ledger())
	require.Len(t, s.Registry(), 2)
	require.ErrorIs(t, s.DeclineReload(), ledger.ErrNoPendingReload)
}

func TestReloadConfirmDiscardsEdits(t *testing.T) {
	t.Parallel()
	s := newSession(t, memory.New().Seed(store.TableCrimes, crimes()))
	require.NoError(t, s.Add("強盗"))
	s.Commit()

	pending, err := s.RequestReload(context.Background())
	require.NoError(t, err)
	require.True(t, pending)
	require.NoError(t, s.ConfirmReload(context.Background()))
	require.Empty(t, s.Ledger())
	require.Empty(t, s.Registry())
	require.False(t, s.HasUnsavedChanges())
	require.ErrorIs(t, s.ConfirmReload(context.Background()), ledger.ErrNoPendingReload)
}

func TestLedgerEditing(t *testing.T) {
	t.Parallel()
	s := newSession(t, memory.New().Seed(store.TableCrimes, crimes()))
	s.Commit()
	s.Commit()
	require.NoError(t, s.ToggleLedger(1))
	require.ErrorIs(t, s.ToggleLedger(9), ledger.ErrRowIndex)
	require.Equal(t, 1, s.RemoveSelectedLedger())
	s.ClearLedger()
	require.Empty(t, s.Ledger())
}

func TestOpenWarnsOnConnectionError(t *testing.T) {
	t.Parallel()
	mem := memory.New().Seed(store.TableCrimes, crimes())
	mem.Err = errors.New("sheet unreachable")
	s := New(mem)

	warnings := s.Open(context.Background())
	require.Len(t, warnings, 3)
	for _, w := range warnings {
		var ce *store.ConnectionError
		require.ErrorAs(t, w, &ce)
	}
	require.Zero(t, s.Catalog().Len())
	require.Empty(t, s.Ledger())
	_, ok := s.Presets().Get("客船")
	require.True(t, ok)

	require.Error(t, s.Save(context.Background()))
}

func TestOpenWarnsOnBadFine(t *testing.T) {
	t.Parallel()
	mem := memory.New().Seed(store.TableCrimes, []store.Record{
		{store.ColCrimeID: "1", store.ColCrime: "強盗", store.ColFine: "five hundred"},
	})
	warnings := New(mem).Open(context.Background())
	require.Len(t, warnings, 1)
	var pe *fine.ParseError
	require.ErrorAs(t, warnings[0], &pe)
}

func TestEmptiedRegistryReloadsWithoutPrompt(t *testing.T) {
	t.Parallel()
	s := newSession(t, memory.New().Seed(store.TableCrimes, crimes()))
	require.NoError(t, s.Add("強盗"))
	require.True(t, s.ToggleRegistry("強盗"))
	require.Equal(t, 1, s.RemoveSelectedRegistry())
	require.False(t, s.HasUnsavedChanges())

	pending, err := s.RequestReload(context.Background())
	require.NoError(t, err)
	require.False(t, pending)
	require.Equal(t, ledger.Clean, s.ReloadState())
}
