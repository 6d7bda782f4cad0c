package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/jask/finecalc/internal/fine"
	"github.com/jask/finecalc/internal/store"
)

// Records converts rows for storage. The selected flag is not persisted.
func Records(rows []Row, loc *time.Location) []store.Record {
	if loc == nil {
		loc = time.Local
	}
	out := make([]store.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, store.Record{
			store.ColSubjectID: r.SubjectID,
			store.ColStartTime: formatTime(r.Start, loc),
			store.ColEndTime:   formatTime(r.End, loc),
			store.ColCharges:   r.Charges,
			store.ColTotalFine: r.TotalFine,
		})
	}
	return out
}

// FromRecords parses stored rows. Times are read in loc.
func FromRecords(recs []store.Record, loc *time.Location) ([]Row, error) {
	if loc == nil {
		loc = time.Local
	}
	out := make([]Row, 0, len(recs))
	for i, rec := range recs {
		start, err := parseTime(rec.String(store.ColStartTime), loc)
		if err != nil {
			return nil, fmt.Errorf("wanted row %d start_time: %w", i, err)
		}
		end, err := parseTime(rec.String(store.ColEndTime), loc)
		if err != nil {
			return nil, fmt.Errorf("wanted row %d end_time: %w", i, err)
		}
		total, err := fine.Normalize(fine.FromCell(rec[store.ColTotalFine]))
		if err != nil {
			return nil, fmt.Errorf("wanted row %d total_fine: %w", i, err)
		}
		out = append(out, Row{
			SubjectID: strings.TrimSpace(rec.String(store.ColSubjectID)),
			Start:     start,
			End:       end,
			Charges:   rec.String(store.ColCharges),
			TotalFine: total,
		})
	}
	return out, nil
}

// formatTime writes a zero time as a blank cell, the inverse of parseTime.
func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(TimeLayout)
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(TimeLayout, s, loc)
}
