//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPath2prepWithMySQL tests the path2prep CLI with a MySQL backend.
func TestPath2prepWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "path2prep",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/path2prep?parseTime=true", host, port.Port())
	runDatabaseScenario(t, "mysql", connStr)
}

// TestPath2prepWithPostgres tests the path2prep CLI with a PostgreSQL backend.
func TestPath2prepWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runDatabaseScenario(t, "postgresql", connStr)
}

// runDatabaseScenario migrates, ranks with history on, and inspects both stores.
// The embedding cache shares the database; its table name differs from the history tables.
func runDatabaseScenario(t *testing.T, backend, connStr string) {
	t.Helper()
	f := writeFixtures(t)
	stores := []string{
		"--cache-backend", backend, "--cache-db-connect", connStr,
		"--history-backend", backend, "--history-db-connect", connStr,
	}
	run := func(args ...string) string {
		out, err := runCommand(t, f.Dir, append(args, stores...)...)
		require.NoError(t, err)
		return out
	}

	run("cache", "clear")
	run("history", "clear")
	assert.Contains(t, run("history", "migrate"), "Successfully migrated")

	run(append([]string{"scholarships", "--user", "asha"}, f.dataArgs()...)...)
	run(append([]string{"careers", "--user", "ravi"}, f.dataArgs()...)...)

	assert.Contains(t, run("cache", "status"), "Connected: true")
	status := run("history", "status")
	assert.Contains(t, status, "Total Runs: 2")
	assert.Contains(t, status, "Total Results Ranked: 5")
}
