package testutil

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bibbank/credit-risk/pkg/postgres"
)

const postgresImage = "postgres:16-alpine"

// PostgresContainer is a throwaway PostgreSQL instance owned by one test.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	Pool      *pgxpool.Pool
}

type containerOptions struct {
	migrations    fs.FS
	migrationsDir string
}

// ContainerOption customises NewPostgresContainer.
type ContainerOption func(*containerOptions)

// WithMigrations applies the up-migrations under dir in fsys before the
// container is handed to the test.
func WithMigrations(fsys fs.FS, dir string) ContainerOption {
	return func(o *containerOptions) {
		o.migrations, o.migrationsDir = fsys, dir
	}
}

// NewPostgresContainer starts PostgreSQL in Docker and tears it down with
// t.Cleanup. Tests using it are skipped under -short.
func NewPostgresContainer(ctx context.Context, t *testing.T, opts ...ContainerOption) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in short mode")
	}
	var o containerOptions
	for _, opt := range opts {
		opt(&o)
	}

	ctr, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("credit_risk_test"),
		tcpostgres.WithUsername("risk"),
		tcpostgres.WithPassword("risk"),
		testcontainers.WithWaitStrategy(
			// postgres logs readiness twice: once for the init run, once for real.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ctr.Terminate(stopCtx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres connection string")

	if o.migrations != nil {
		require.NoError(t, postgres.RunMigrations(dsn, o.migrations, o.migrationsDir), "run migrations")
	}

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "open pool")
	t.Cleanup(pool.Close)

	return &PostgresContainer{Container: ctr, DSN: dsn, Pool: pool}
}

// Truncate empties tables between subtests sharing one container.
func (pc *PostgresContainer) Truncate(t *testing.T, tables ...string) {
	t.Helper()
	for _, table := range tables {
		_, err := pc.Pool.Exec(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err, "truncate %s", table)
	}
}
