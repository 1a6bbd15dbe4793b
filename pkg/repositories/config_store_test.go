package repositories_test

import (
	"os"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/fern/internal/testutil"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/repositories"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getTestDB connects to the database named by DB_* and applies migrations. Without DB_HOST
// it starts a container when FERN_TESTCONTAINERS is set and skips otherwise.
func getTestDB(t *testing.T) database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	var dsn string
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		dsn = "host=" + dbHost +
			" port=" + envOr("DB_PORT", "5432") +
			" user=" + envOr("DB_USER_NAME", "user") +
			" password=" + envOr("DB_PASSWORD", "password") +
			" dbname=" + envOr("DB_NAME", "fern") +
			" sslmode=disable"
	} else {
		dsn = testutil.StartPostgres(t)
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	logger := getTestLogger()
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	require.NoError(t, err)
	migrations := database.NewMigrationService(logger, &database.MigrationConfig{MigrationFolderPath: "../../db/pg"})
	require.NoError(t, migrations.Migrate("postgres", driver))

	return database.NewDatabaseInstance(db, logger)
}

func TestPostgresConfigStore(t *testing.T) {
	db := getTestDB(t)
	runStoreContract(t, repositories.NewPostgresConfigStore(db, getTestLogger()))
}

func TestPostgresConfigStore_Concurrency(t *testing.T) {
	db := getTestDB(t)
	runConcurrencyContract(t, repositories.NewPostgresConfigStore(db, getNoopLogger()), 10)
}
