package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const sequenceColumns = `
	s.id, s.prospect_id, p.url, s.prompt_id, s.tov_config_id,
	s.tov_formality, s.tov_warmth, s.tov_directness,
	s.version, s.parent_sequence_id, s.company_context, s.sequence_length,
	s.messages, s.thinking_process, s.prospect_analysis, s.metadata, s.created_at`

const sequenceFrom = `FROM sequences s JOIN prospects p ON p.id = s.prospect_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSequence(row rowScanner) (*db.Sequence, error) {
	var seq db.Sequence
	var promptID, tovConfigID, parentID sql.NullInt64
	var messages, thinking, metadata []byte
	var analysis sql.NullString

	err := row.Scan(
		&seq.ID, &seq.ProspectID, &seq.ProspectURL, &promptID, &tovConfigID,
		&seq.Tone.Formality, &seq.Tone.Warmth, &seq.Tone.Directness,
		&seq.Version, &parentID, &seq.CompanyContext, &seq.SequenceLength,
		&messages, &thinking, &analysis, &metadata, &seq.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	seq.PromptID = promptID.Int64
	if tovConfigID.Valid {
		seq.TovConfigID = &tovConfigID.Int64
	}
	if parentID.Valid {
		seq.ParentSequenceID = &parentID.Int64
	}
	seq.Result.ProspectAnalysis = analysis.String

	if err := json.Unmarshal(messages, &seq.Result.Sequence); err != nil {
		return nil, fmt.Errorf("error decoding messages: %w", err)
	}
	if err := json.Unmarshal(thinking, &seq.Result.ThinkingProcess); err != nil {
		return nil, fmt.Errorf("error decoding thinking process: %w", err)
	}
	if err := json.Unmarshal(metadata, &seq.Result.Metadata); err != nil {
		return nil, fmt.Errorf("error decoding metadata: %w", err)
	}
	return &seq, nil
}

type encodedResult struct {
	messages, thinking, metadata []byte
}

func encodeResult(result model.GenerationResult) (*encodedResult, error) {
	msgs := result.Sequence
	if msgs == nil {
		msgs = []model.GeneratedMessage{}
	}
	messages, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("error encoding messages: %w", err)
	}
	thinking, err := json.Marshal(result.ThinkingProcess)
	if err != nil {
		return nil, fmt.Errorf("error encoding thinking process: %w", err)
	}
	metadata, err := json.Marshal(result.Metadata)
	if err != nil {
		return nil, fmt.Errorf("error encoding metadata: %w", err)
	}
	return &encodedResult{messages: messages, thinking: thinking, metadata: metadata}, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

// CreateSequence inserts a new sequence version
func (p *PostgresDB) CreateSequence(ctx context.Context, seq db.NewSequence) (*db.Sequence, error) {
	enc, err := encodeResult(seq.Result)
	if err != nil {
		return nil, err
	}

	version := seq.Version
	if version < 1 {
		version = 1
	}

	query := `
	INSERT INTO sequences (
		prospect_id, prompt_id, tov_config_id, tov_formality, tov_warmth, tov_directness,
		version, parent_sequence_id, company_context, sequence_length,
		messages, thinking_process, prospect_analysis, metadata
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id
	`

	var id int64
	err = p.conn.QueryRowContext(ctx, query,
		seq.ProspectID, nullID(seq.PromptID), seq.TovConfigID,
		seq.Tone.Formality, seq.Tone.Warmth, seq.Tone.Directness,
		version, seq.ParentSequenceID, seq.CompanyContext, seq.SequenceLength,
		enc.messages, enc.thinking, seq.Result.ProspectAnalysis, enc.metadata,
	).Scan(&id)
	if err != nil {
		return nil, persistenceError("creating sequence", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"sequence_id": id,
		"prospect_id": seq.ProspectID,
		"version":     version,
	}).Info("Created sequence")

	return p.GetSequence(ctx, id)
}

// GetSequence retrieves a sequence by id
func (p *PostgresDB) GetSequence(ctx context.Context, id int64) (*db.Sequence, error) {
	query := `SELECT ` + sequenceColumns + ` ` + sequenceFrom + ` WHERE s.id = $1`

	seq, err := scanSequence(p.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("sequence %d not found", id)
	}
	if err != nil {
		return nil, persistenceError("retrieving sequence", err)
	}
	return seq, nil
}

// UpdateSequenceResult replaces the stored generation result
func (p *PostgresDB) UpdateSequenceResult(ctx context.Context, id int64, result model.GenerationResult) (*db.Sequence, error) {
	enc, err := encodeResult(result)
	if err != nil {
		return nil, err
	}

	query := `
	UPDATE sequences
	SET messages = $2, thinking_process = $3, prospect_analysis = $4, metadata = $5
	WHERE id = $1
	`
	res, err := p.conn.ExecContext(ctx, query, id, enc.messages, enc.thinking, result.ProspectAnalysis, enc.metadata)
	if err != nil {
		return nil, persistenceError("updating sequence", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.NotFound("sequence %d not found", id)
	}
	return p.GetSequence(ctx, id)
}

// DeleteSequence removes a sequence. Children keep existing with a null parent.
func (p *PostgresDB) DeleteSequence(ctx context.Context, id int64) error {
	res, err := p.conn.ExecContext(ctx, `DELETE FROM sequences WHERE id = $1`, id)
	if err != nil {
		return persistenceError("deleting sequence", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("sequence %d not found", id)
	}
	logger.Log.WithField("sequence_id", id).Info("Deleted sequence")
	return nil
}

func (p *PostgresDB) querySequences(ctx context.Context, op, query string, args ...any) ([]db.Sequence, error) {
	rows, err := p.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError(op, err)
	}
	defer rows.Close()

	var sequences []db.Sequence
	for rows.Next() {
		seq, err := scanSequence(rows)
		if err != nil {
			return nil, persistenceError(op, err)
		}
		sequences = append(sequences, *seq)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError(op, err)
	}
	return sequences, nil
}

// FindSequencesByIDs returns the sequences that exist, ordered by version ascending
func (p *PostgresDB) FindSequencesByIDs(ctx context.Context, ids []int64) ([]db.Sequence, error) {
	query := `SELECT ` + sequenceColumns + ` ` + sequenceFrom + `
	WHERE s.id = ANY($1)
	ORDER BY s.version ASC, s.id ASC`
	return p.querySequences(ctx, "querying sequences by ids", query, pq.Array(ids))
}

// FindRefinementsByParentID returns the direct children of parentID, newest first
func (p *PostgresDB) FindRefinementsByParentID(ctx context.Context, parentID int64) ([]db.Sequence, error) {
	query := `SELECT ` + sequenceColumns + ` ` + sequenceFrom + `
	WHERE s.parent_sequence_id = $1
	ORDER BY s.created_at DESC, s.id DESC`
	return p.querySequences(ctx, "querying refinements", query, parentID)
}

// FindSequencesByProspectID returns every version for a prospect, newest first
func (p *PostgresDB) FindSequencesByProspectID(ctx context.Context, prospectID int64) ([]db.Sequence, error) {
	query := `SELECT ` + sequenceColumns + ` ` + sequenceFrom + `
	WHERE s.prospect_id = $1
	ORDER BY s.created_at DESC, s.id DESC`
	return p.querySequences(ctx, "querying prospect sequences", query, prospectID)
}

// GetSequenceStats counts direct refinements and the highest version among the node and its children
func (p *PostgresDB) GetSequenceStats(ctx context.Context, id int64) (*db.SequenceStats, error) {
	query := `
	SELECT s.created_at,
	       (SELECT COUNT(*) FROM sequences c WHERE c.parent_sequence_id = s.id),
	       (SELECT MAX(f.version) FROM sequences f WHERE f.id = s.id OR f.parent_sequence_id = s.id)
	FROM sequences s
	WHERE s.id = $1
	`

	var stats db.SequenceStats
	err := p.conn.QueryRowContext(ctx, query, id).Scan(&stats.CreatedAt, &stats.TotalRefinements, &stats.LatestVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("sequence %d not found", id)
	}
	if err != nil {
		return nil, persistenceError("retrieving sequence stats", err)
	}
	return &stats, nil
}
