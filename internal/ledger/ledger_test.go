package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/finecalc/internal/store"
)

var jst = time.FixedZone("JST", 9*60*60)

func TestCommitComputesExpiry(t *testing.T) {
	t.Parallel()

	l := New()
	created := time.Date(2026, 10, 15, 21, 30, 0, 0, jst)
	row := l.Commit(created, []string{"強盗"}, 1700, 72)

	require.Equal(t, created, row.Start)
	require.Equal(t, created.Add(72*time.Hour), row.End)
	require.Equal(t, "2026/10/18 21:30", row.End.Format(TimeLayout))
	require.Equal(t, "強盗", row.Charges)
	require.EqualValues(t, 1700, row.TotalFine)
	require.False(t, row.Selected)
	require.Empty(t, row.SubjectID)
	require.Equal(t, 1, l.Len())
	require.True(t, l.Dirty())
}

func TestFormatChargesStripsListPunctuation(t *testing.T) {
	t.Parallel()

	require.Equal(t, "豪華客船強盗,PL殺人及び未遂", FormatCharges([]string{"豪華客船強盗", "PL殺人及び未遂"}))
	require.Equal(t, "a,b", FormatCharges([]string{"['a'", "'b']"}))
	require.Empty(t, FormatCharges(nil))
}

func TestRemoveSelectedClearAndEdit(t *testing.T) {
	t.Parallel()

	l := New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, jst)
	l.Commit(now, []string{"a"}, 1, 1)
	l.Commit(now, []string{"b"}, 2, 1)
	l.Commit(now, []string{"c"}, 3, 1)
	l.MarkSaved()

	require.NoError(t, l.ToggleSelected(0))
	require.NoError(t, l.SetSelected(2, true))
	require.ErrorIs(t, l.SetSelected(3, true), ErrRowIndex)
	require.ErrorIs(t, l.ToggleSelected(-1), ErrRowIndex)
	require.False(t, l.Dirty(), "selection alone is not an edit")

	require.Equal(t, 2, l.RemoveSelected())
	require.Equal(t, "b", l.Rows()[0].Charges)
	require.True(t, l.Dirty())

	require.NoError(t, l.SetSubjectID(0, "  citizen-42 "))
	require.Equal(t, "citizen-42", l.Rows()[0].SubjectID)
	require.ErrorIs(t, l.SetSubjectID(5, "x"), ErrRowIndex)

	l.Clear()
	require.Zero(t, l.Len())
}

func TestReplaceResetsDirty(t *testing.T) {
	t.Parallel()

	l := New()
	l.Commit(time.Now(), nil, 0, 1)
	rows := []Row{{SubjectID: "x", Charges: "c", TotalFine: 5}}
	l.Replace(rows)
	require.False(t, l.Dirty())
	rows[0].SubjectID = "mutated"
	require.Equal(t, "x", l.Rows()[0].SubjectID, "Replace copies its input")
}

func TestRecordsRoundTrip(t *testing.T) {
	t.Parallel()

	l := New()
	created := time.Date(2026, 10, 15, 9, 5, 0, 0, jst)
	l.Commit(created, []string{"豪華客船強盗", "PL殺人及び未遂"}, 15000, 72)
	_ = l.SetSubjectID(0, "Tanaka")
	_ = l.SetSelected(0, true)

	recs := Records(l.Rows(), jst)
	require.Len(t, recs, 1)
	_, hasSelected := recs[0]["selected"]
	require.False(t, hasSelected)
	require.Equal(t, "2026/10/15 09:05", recs[0][store.ColStartTime])
	require.Equal(t, "2026/10/18 09:05", recs[0][store.ColEndTime])

	back, err := FromRecords(recs, jst)
	require.NoError(t, err)
	require.Len(t, back, 1)
	require.Equal(t, "Tanaka", back[0].SubjectID)
	require.True(t, created.Equal(back[0].Start))
	require.Equal(t, "豪華客船強盗,PL殺人及び未遂", back[0].Charges)
	require.EqualValues(t, 15000, back[0].TotalFine)
	require.False(t, back[0].Selected)
}

func TestFromRecordsTextCells(t *testing.T) {
	t.Parallel()

	rows, err := FromRecords([]store.Record{{
		store.ColSubjectID: "",
		store.ColStartTime: "2026/02/01 10:00",
		store.ColEndTime:   "2026/02/04 10:00",
		store.ColCharges:   "強盗",
		store.ColTotalFine: "1,700",
	}}, jst)
	require.NoError(t, err)
	require.EqualValues(t, 1700, rows[0].TotalFine)
	require.Equal(t, 72*time.Hour, rows[0].End.Sub(rows[0].Start))

	_, err = FromRecords([]store.Record{{store.ColStartTime: "yesterday"}}, jst)
	require.ErrorContains(t, err, "start_time")

	_, err = FromRecords([]store.Record{{store.ColTotalFine: "lots"}}, jst)
	require.ErrorContains(t, err, "total_fine")
}

func TestReloadGate(t *testing.T) {
	t.Parallel()

	var g ReloadGate
	require.Equal(t, Clean, g.State())
	require.ErrorIs(t, g.Confirm(), ErrNoPendingReload)
	require.ErrorIs(t, g.Decline(), ErrNoPendingReload)

	g.Request()
	require.Equal(t, PendingReloadConfirmation, g.State())
	require.NoError(t, g.Decline())
	require.Equal(t, Clean, g.State())

	g.Request()
	require.NoError(t, g.Confirm())
	require.Equal(t, Clean, g.State())
}

func TestBlankTimesRoundTrip(t *testing.T) {
	t.Parallel()

	rows, err := FromRecords([]store.Record{{
		store.ColSubjectID: "hand-edited",
		store.ColStartTime: "",
		store.ColEndTime:   " ",
		store.ColCharges:   "強盗",
		store.ColTotalFine: int64(500),
	}}, jst)
	require.NoError(t, err)
	require.True(t, rows[0].Start.IsZero())
	require.True(t, rows[0].End.IsZero())

	recs := Records(rows, jst)
	require.Equal(t, "", recs[0][store.ColStartTime])
	require.Equal(t, "", recs[0][store.ColEndTime])
}
