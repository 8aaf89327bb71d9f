// Package testutils holds shared test helpers: an ephemeral MySQL
// container for internal/stc/store's integration tests, and a free-port
// allocator, FreePort. No test in this module calls FreePort; the
// bp/httpserver and DFR listener tests pick their ports without it.
package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/phayes/freeport"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartMySQL launches an ephemeral MySQL 8 container via the generic
// testcontainers-go API (no dedicated mysql module is declared in this
// module's dependency set) and returns a DSN ready for
// internal/stc/store.Open. The container is terminated when t completes.
func StartMySQL(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	const (
		user     = "stc"
		password = "stc"
		dbName   = "stc"
	)

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": password,
			"MYSQL_USER":          user,
			"MYSQL_PASSWORD":      password,
			"MYSQL_DATABASE":      dbName,
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(45 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, password, host, port.Port(), dbName)
}

// FreePort asks the OS for an unused TCP port, used by components that
// need a real listener address in tests rather than a mocked one.
func FreePort(t *testing.T) int {
	t.Helper()
	port, err := freeport.GetFreePort()
	require.NoError(t, err)
	return port
}
