// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sbilibin2017/gw-user-portal/internal/migrations"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NewSQLiteDB opens a migrated SQLite database in a temporary directory.
// The connection is closed when the test finishes.
func NewSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "users.db") + "?_busy_timeout=5000"
	db, err := sqlx.Connect(migrations.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Up(context.Background(), db.DB, migrations.DriverSQLite); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// NewPostgresDB starts a PostgreSQL container and returns a migrated
// connection to it. The container is terminated when the test finishes.
func NewPostgresDB(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect(migrations.DriverPostgres, dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Up(ctx, db.DB, migrations.DriverPostgres); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// CountUsers returns how many rows with the given email exist.
func CountUsers(t *testing.T, db *sqlx.DB, email string) int {
	t.Helper()

	var n int
	if err := db.Get(&n, db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`), email); err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	return n
}
