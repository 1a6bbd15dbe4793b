// Package testutil starts disposable infrastructure for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ContainersEnabled reports whether FERN_TESTCONTAINERS opts in to starting Docker containers.
func ContainersEnabled() bool {
	v, _ := strconv.ParseBool(os.Getenv("FERN_TESTCONTAINERS"))
	return v
}

func start(t testing.TB, req testcontainers.ContainerRequest, port string) (string, string) {
	t.Helper()
	if !ContainersEnabled() {
		t.Skip("FERN_TESTCONTAINERS is not set")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("failed to start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to read %s host: %v", req.Image, err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("failed to read %s port: %v", req.Image, err)
	}
	return host, mapped.Port()
}

// StartPostgres returns a lib/pq DSN for a fresh database.
func StartPostgres(t testing.TB) string {
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "user",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "fern",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")

	return fmt.Sprintf("host=%s port=%s user=user password=password dbname=fern sslmode=disable", host, port)
}

// StartRedis returns the host and port of a fresh Redis server.
func StartRedis(t testing.TB) (string, int) {
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(30 * time.Second),
	}, "6379")

	p, err := strconv.Atoi(port)
	if err != nil {
		t.Fatalf("invalid redis port %q: %v", port, err)
	}
	return host, p
}
