package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/jask/finecalc/internal/store"
	"github.com/jask/finecalc/internal/store/cache"
	"github.com/jask/finecalc/internal/store/memory"
)

var jst = time.FixedZone("JST", 9*60*60)

func wantedStore() *memory.Store {
	return memory.New().Seed(store.TableWanted, []store.Record{{
		store.ColSubjectID: "tanaka",
		store.ColStartTime: "2026/10/15 21:00",
		store.ColEndTime:   "2026/10/18 21:00",
		store.ColCharges:   "強盗,殺人",
		store.ColTotalFine: "1,700",
	}})
}

func TestLedgerListAndExport(t *testing.T) {
	t.Parallel()

	svc := &LedgerService{Store: wantedStore(), Location: jst}
	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 1700, rows[0].TotalFine)

	var buf bytes.Buffer
	n, err := svc.Export(context.Background(), &buf, "")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t,
		"subject_id,start_time,end_time,charges,total_fine\n"+
			"tanaka,2026/10/15 21:00,2026/10/18 21:00,\"強盗,殺人\",1700\n",
		buf.String())

	buf.Reset()
	_, err = svc.Export(context.Background(), &buf, "sjis")
	require.NoError(t, err)
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(buf.Bytes())
	require.NoError(t, err)
	require.Contains(t, string(decoded), "強盗,殺人")

	_, err = svc.Export(context.Background(), &buf, "ebcdic")
	require.Error(t, err)
}

func TestResetEmptiesWanted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := wantedStore()
	st := cache.New(mem, 0, time.Hour)
	_, err := st.Read(ctx, store.TableWanted)
	require.NoError(t, err)

	require.NoError(t, (&MaintenanceService{Store: st}).Reset(ctx))
	recs, err := st.Read(ctx, store.TableWanted)
	require.NoError(t, err)
	require.Empty(t, recs)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
