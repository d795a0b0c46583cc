package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"

	"github.com/sirupsen/logrus"
)

// GetLatestPrompt returns the highest version prompt, or nil when none exists
func (p *PostgresDB) GetLatestPrompt(ctx context.Context) (*db.Prompt, error) {
	query := `
	SELECT id, version, content, created_at
	FROM prompts
	ORDER BY version DESC
	LIMIT 1
	`

	var prompt db.Prompt
	err := p.conn.QueryRowContext(ctx, query).Scan(&prompt.ID, &prompt.Version, &prompt.Content, &prompt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("retrieving latest prompt", err)
	}
	return &prompt, nil
}

// CreatePrompt stores content as the next prompt version
func (p *PostgresDB) CreatePrompt(ctx context.Context, content string) (*db.Prompt, error) {
	// The unique index on version makes concurrent writers fail rather than share a version
	query := `
	INSERT INTO prompts (version, content)
	SELECT COALESCE(MAX(version), 0) + 1, $1 FROM prompts
	RETURNING id, version, content, created_at
	`

	var prompt db.Prompt
	err := p.conn.QueryRowContext(ctx, query, content).Scan(&prompt.ID, &prompt.Version, &prompt.Content, &prompt.CreatedAt)
	if err != nil {
		return nil, persistenceError("creating prompt", err)
	}

	logger.Log.WithFields(logrus.Fields{"prompt_id": prompt.ID, "version": prompt.Version}).Info("Saved new prompt version")
	return &prompt, nil
}
