package service

import (
	"context"
	"io"
	"time"

	"golang.org/x/text/transform"

	"github.com/jask/finecalc/internal/ledger"
	"github.com/jask/finecalc/internal/store"
	"github.com/jask/finecalc/internal/store/csvfile"
)

// LedgerService reads the stored wanted ledger outside of a session.
type LedgerService struct {
	Store    store.Store
	Location *time.Location
}

func (s *LedgerService) List(ctx context.Context) ([]ledger.Row, error) {
	recs, err := s.Store.Read(ctx, store.TableWanted)
	if err != nil {
		return nil, err
	}
	return ledger.FromRecords(recs, s.Location)
}

// Export writes the stored ledger as CSV in the given encoding and returns
// the number of rows written.
func (s *LedgerService) Export(ctx context.Context, w io.Writer, encoding string) (int, error) {
	enc, err := csvfile.LookupEncoding(encoding)
	if err != nil {
		return 0, err
	}
	rows, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	cols, _ := store.Columns(store.TableWanted)
	tw := transform.NewWriter(w, enc.NewEncoder())
	if err := csvfile.Encode(tw, cols, ledger.Records(rows, s.Location)); err != nil {
		return 0, err
	}
	if err := tw.Close(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
