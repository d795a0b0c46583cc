package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
)

const tovColumns = `id, name, formality, warmth, directness, description, is_preset, created_at`

func scanTovConfig(row interface{ Scan(...any) error }) (*db.TovConfig, error) {
	var cfg db.TovConfig
	var name, description sql.NullString
	err := row.Scan(&cfg.ID, &name, &cfg.Tone.Formality, &cfg.Tone.Warmth, &cfg.Tone.Directness, &description, &cfg.IsPreset, &cfg.CreatedAt)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		cfg.Name = &name.String
	}
	if description.Valid {
		cfg.Description = &description.String
	}
	return &cfg, nil
}

// FindOrCreateTovConfig matches on exact tone values, and on name when one is given.
// Concurrent callers with the same key converge on one row.
func (p *PostgresDB) FindOrCreateTovConfig(ctx context.Context, tone model.ToneVector, name *string) (*db.TovConfig, error) {
	cfg, err := p.findTovConfig(ctx, tone, name)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, persistenceError("finding tone config", err)
	}

	insert := `
	INSERT INTO tov_configs (name, formality, warmth, directness, is_preset)
	VALUES ($1, $2, $3, $4, FALSE)
	ON CONFLICT DO NOTHING
	RETURNING ` + tovColumns

	cfg, err = scanTovConfig(p.conn.QueryRowContext(ctx, insert, name, tone.Formality, tone.Warmth, tone.Directness))
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, persistenceError("creating tone config", err)
	}

	// Lost the insert race; the winner's row is committed now
	cfg, err = p.findTovConfig(ctx, tone, name)
	if err != nil {
		return nil, persistenceError("finding tone config", err)
	}
	return cfg, nil
}

func (p *PostgresDB) findTovConfig(ctx context.Context, tone model.ToneVector, name *string) (*db.TovConfig, error) {
	query := `
	SELECT ` + tovColumns + `
	FROM tov_configs
	WHERE formality = $1 AND warmth = $2 AND directness = $3
	  AND ($4::text IS NULL OR name = $4)
	ORDER BY id
	LIMIT 1
	`
	return scanTovConfig(p.conn.QueryRowContext(ctx, query, tone.Formality, tone.Warmth, tone.Directness, name))
}

// UpsertTovPreset inserts or updates a preset keyed by tone and name
func (p *PostgresDB) UpsertTovPreset(ctx context.Context, preset db.TovConfig) (*db.TovConfig, error) {
	query := `
	INSERT INTO tov_configs (name, formality, warmth, directness, description, is_preset)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (formality, warmth, directness, name)
	DO UPDATE SET description = EXCLUDED.description, is_preset = EXCLUDED.is_preset
	RETURNING ` + tovColumns

	cfg, err := scanTovConfig(p.conn.QueryRowContext(ctx, query,
		preset.Name, preset.Tone.Formality, preset.Tone.Warmth, preset.Tone.Directness, preset.Description, preset.IsPreset))
	if err != nil {
		return nil, persistenceError("upserting tone preset", err)
	}
	return cfg, nil
}

// ListTovPresets returns presets ordered by name
func (p *PostgresDB) ListTovPresets(ctx context.Context) ([]db.TovConfig, error) {
	query := `SELECT ` + tovColumns + ` FROM tov_configs WHERE is_preset ORDER BY name`

	rows, err := p.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, persistenceError("querying tone presets", err)
	}
	defer rows.Close()

	var presets []db.TovConfig
	for rows.Next() {
		cfg, err := scanTovConfig(rows)
		if err != nil {
			return nil, persistenceError("scanning tone preset", err)
		}
		presets = append(presets, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterating tone presets", err)
	}
	return presets, nil
}
