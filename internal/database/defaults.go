package database

import (
	"context"
	"database/sql"

	"github.com/jask/finecalc/internal/preset"
)

// SeedDefaults inserts the built-in presets into an empty presets table.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM presets`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, d := range preset.Defaults() {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO presets(preset_name, member_list) VALUES (?, ?)
			ON CONFLICT(preset_name) DO NOTHING;
			`, d.Name, d.RawMembers); err != nil {
				return err
			}
		}
		return nil
	})
}
