package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// newTestDB connects to the database described by TEST_DB_* variables and
// clears the tone table. Tests skip when TEST_DB_HOST is unset.
func newTestDB(t *testing.T) *PostgresDB {
	t.Helper()
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST not set")
	}

	var cfg config.DatabaseConfig
	require.NoError(t, envconfig.Process("TEST_DB", &cfg))
	cfg.MigrationsPath = "file://../../../migrations"

	ctx := context.Background()
	pg, err := NewPostgresDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { pg.Close() })

	_, err = pg.conn.ExecContext(ctx, `TRUNCATE sequences, tov_configs RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pg
}

func countTovConfigs(t *testing.T, pg *PostgresDB) int {
	t.Helper()
	var n int
	require.NoError(t, pg.conn.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM tov_configs`).Scan(&n))
	return n
}

func TestFindOrCreateTovConfig_ConcurrentUnnamed(t *testing.T) {
	pg := newTestDB(t)
	tone := model.ToneVector{Formality: 0.3, Warmth: 0.6, Directness: 0.9}

	const callers = 16
	results := make([]*db.TovConfig, callers)
	g, ctx := errgroup.WithContext(context.Background())
	for i := range callers {
		g.Go(func() error {
			cfg, err := pg.FindOrCreateTovConfig(ctx, tone, nil)
			results[i] = cfg
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, cfg := range results {
		assert.Equal(t, results[0].ID, cfg.ID)
	}
	assert.Equal(t, 1, countTovConfigs(t, pg))
}

func TestFindOrCreateTovConfig_ConcurrentNamed(t *testing.T) {
	pg := newTestDB(t)
	tone := model.ToneVector{Formality: 0.5, Warmth: 0.5, Directness: 0.5}
	name := "balanced"

	const callers = 8
	results := make([]*db.TovConfig, callers)
	g, ctx := errgroup.WithContext(context.Background())
	for i := range callers {
		g.Go(func() error {
			cfg, err := pg.FindOrCreateTovConfig(ctx, tone, &name)
			results[i] = cfg
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, cfg := range results {
		require.NotNil(t, cfg.Name)
		assert.Equal(t, name, *cfg.Name)
		assert.Equal(t, results[0].ID, cfg.ID)
	}
	assert.Equal(t, 1, countTovConfigs(t, pg))
}

func TestFindOrCreateTovConfig_ReusesExisting(t *testing.T) {
	pg := newTestDB(t)
	ctx := context.Background()
	tone := model.ToneVector{Formality: 0.1, Warmth: 0.2, Directness: 0.3}

	first, err := pg.FindOrCreateTovConfig(ctx, tone, nil)
	require.NoError(t, err)
	second, err := pg.FindOrCreateTovConfig(ctx, tone, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.IsPreset)
	assert.Equal(t, 1, countTovConfigs(t, pg))
}
