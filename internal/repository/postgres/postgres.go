package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Ensure PostgresDB implements db.Database interface
var _ db.Database = (*PostgresDB)(nil)

// PostgresDB implements the db.Database interface
type PostgresDB struct {
	conn           *sql.DB
	migrationsPath string
}

// Open connects to PostgreSQL without running migrations
func Open(ctx context.Context, dbConfig config.DatabaseConfig) (*PostgresDB, error) {
	logger.Log.WithField("host", dbConfig.Host).Info("Connecting to PostgreSQL")

	conn, err := sql.Open("postgres", dbConfig.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	logger.Log.Info("Successfully connected to PostgreSQL")

	return &PostgresDB{conn: conn, migrationsPath: dbConfig.MigrationsPath}, nil
}

// NewPostgresDB creates a new PostgresDB instance and applies pending migrations
func NewPostgresDB(ctx context.Context, dbConfig config.DatabaseConfig) (*PostgresDB, error) {
	pg, err := Open(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	if err = pg.RunMigrations(); err != nil {
		pg.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	logger.Log.Info("Migrations completed successfully")

	return pg, nil
}

// Close closes the database connection
func (p *PostgresDB) Close() error {
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *PostgresDB) migrator() (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(p.conn, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("error creating migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(p.migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("error creating migration instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending up migrations using golang-migrate
func (p *PostgresDB) RunMigrations() error {
	m, err := p.migrator()
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	logger.Log.Info("Database migrations applied successfully")
	return nil
}

// RollbackMigrations reverts the given number of migration steps
func (p *PostgresDB) RollbackMigrations(steps int) error {
	m, err := p.migrator()
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error rolling back migrations: %w", err)
	}

	logger.Log.WithField("steps", steps).Info("Database migrations rolled back")
	return nil
}

// persistenceError marks a storage failure so callers can map it to a retryable status
func persistenceError(op string, err error) error {
	return apperr.New(apperr.KindPersistence, err, "error "+op)
}
