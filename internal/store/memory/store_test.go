package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/finecalc/internal/store"
)

func TestReadWriteIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()
	rows := []store.Record{{store.ColPresetName: "a", store.ColMemberList: "x"}}
	require.NoError(t, s.Write(ctx, store.TablePresets, rows))
	rows[0][store.ColPresetName] = "mutated"

	got, err := s.Read(ctx, store.TablePresets)
	require.NoError(t, err)
	require.Equal(t, "a", got[0][store.ColPresetName])
	got[0][store.ColPresetName] = "mutated again"

	again, err := s.Read(ctx, store.TablePresets)
	require.NoError(t, err)
	require.Equal(t, "a", again[0][store.ColPresetName])
	require.Equal(t, 2, s.Reads(store.TablePresets))
}

func TestErrIsConnectionError(t *testing.T) {
	t.Parallel()

	s := New()
	s.Err = errors.New("offline")
	_, err := s.Read(context.Background(), store.TableCrimes)
	var ce *store.ConnectionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "read", ce.Op)
	require.ErrorAs(t, s.Write(context.Background(), store.TableCrimes, nil), &ce)
	require.Equal(t, "write", ce.Op)

	_, err = s.Read(context.Background(), "bogus")
	require.ErrorIs(t, err, store.ErrUnknownTable)
}
