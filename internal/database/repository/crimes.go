package repository

import (
	"context"
	"database/sql"

	"github.com/jask/finecalc/internal/database"
)

// CrimeRepo handles the reference table.
type CrimeRepo struct {
	db *sql.DB
}

func NewCrimeRepo(db *sql.DB) *CrimeRepo { return &CrimeRepo{db: db} }

func (r *CrimeRepo) List(ctx context.Context) ([]Crime, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT crime_id, crime, fine FROM crimes ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Crime
	for rows.Next() {
		var c Crime
		var id sql.NullString
		if err := rows.Scan(&id, &c.Name, &c.Fine); err != nil {
			return nil, err
		}
		c.ID = id.String
		if b, ok := c.Fine.([]byte); ok {
			c.Fine = string(b)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReplaceAll swaps the table contents in one transaction.
func (r *CrimeRepo) ReplaceAll(ctx context.Context, crimes []Crime) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM crimes`); err != nil {
			return err
		}
		for _, c := range crimes {
			if _, err := tx.ExecContext(ctx, `INSERT INTO crimes(crime_id, crime, fine) VALUES (?, ?, ?)`, c.ID, c.Name, c.Fine); err != nil {
				return err
			}
		}
		return nil
	})
}
