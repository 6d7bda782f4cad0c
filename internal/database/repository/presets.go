package repository

import (
	"context"
	"database/sql"

	"github.com/jask/finecalc/internal/database"
)

// PresetRepo handles presets.
type PresetRepo struct {
	db *sql.DB
}

func NewPresetRepo(db *sql.DB) *PresetRepo { return &PresetRepo{db: db} }

func (r *PresetRepo) List(ctx context.Context) ([]Preset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT preset_name, member_list FROM presets ORDER BY preset_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Preset
	for rows.Next() {
		var p Preset
		if err := rows.Scan(&p.Name, &p.Members); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PresetRepo) ReplaceAll(ctx context.Context, presets []Preset) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM presets`); err != nil {
			return err
		}
		for _, p := range presets {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO presets(preset_name, member_list) VALUES (?, ?)
			ON CONFLICT(preset_name) DO UPDATE SET member_list=excluded.member_list;
			`, p.Name, p.Members); err != nil {
				return err
			}
		}
		return nil
	})
}
