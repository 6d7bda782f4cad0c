package repository

import (
	"context"
	"database/sql"

	"github.com/jask/finecalc/internal/database"
)

// WantedRepo handles the wanted ledger.
type WantedRepo struct {
	db *sql.DB
}

func NewWantedRepo(db *sql.DB) *WantedRepo { return &WantedRepo{db: db} }

// List returns rows in the order they were saved.
func (r *WantedRepo) List(ctx context.Context) ([]Wanted, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT subject_id, start_time, end_time, charges, total_fine FROM wanted ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Wanted
	for rows.Next() {
		var w Wanted
		if err := rows.Scan(&w.SubjectID, &w.StartTime, &w.EndTime, &w.Charges, &w.TotalFine); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ReplaceAll re-materializes the whole ledger; there is no append at the
// store level.
func (r *WantedRepo) ReplaceAll(ctx context.Context, rows []Wanted) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM wanted`); err != nil {
			return err
		}
		for _, w := range rows {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO wanted(subject_id, start_time, end_time, charges, total_fine)
			VALUES (?, ?, ?, ?, ?)
			`, w.SubjectID, w.StartTime, w.EndTime, w.Charges, w.TotalFine); err != nil {
				return err
			}
		}
		return nil
	})
}
