package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
)

// UpsertProspect returns the prospect for url, creating it when absent
func (p *PostgresDB) UpsertProspect(ctx context.Context, url string) (*db.Prospect, error) {
	query := `
	INSERT INTO prospects (url)
	VALUES ($1)
	ON CONFLICT (url) DO UPDATE SET url = EXCLUDED.url
	RETURNING id, url, created_at
	`

	var prospect db.Prospect
	err := p.conn.QueryRowContext(ctx, query, url).Scan(&prospect.ID, &prospect.URL, &prospect.CreatedAt)
	if err != nil {
		return nil, persistenceError("upserting prospect", err)
	}
	return &prospect, nil
}

// GetProspect retrieves a prospect by id
func (p *PostgresDB) GetProspect(ctx context.Context, id int64) (*db.Prospect, error) {
	query := `SELECT id, url, created_at FROM prospects WHERE id = $1`

	var prospect db.Prospect
	err := p.conn.QueryRowContext(ctx, query, id).Scan(&prospect.ID, &prospect.URL, &prospect.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("prospect %d not found", id)
	}
	if err != nil {
		return nil, persistenceError("retrieving prospect", err)
	}
	return &prospect, nil
}
