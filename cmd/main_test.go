package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()
	os.Stdout = oldStdout

	if !contains(output, "Version: v1.0.0") ||
		!contains(output, "Commit: abcd1234") ||
		!contains(output, "Build: 2025-09-26") {
		t.Errorf("printBuildInfo output unexpected:\n%s", output)
	}
}

// Helper function to check substring
func contains(s, substr string) bool {
	return bytes.Contains([]byte(s), []byte(substr))
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	appHost, appPort, logLevel,
		dbDriver, dbDSN, dbMaxOpenConns, dbMaxIdleConns,
		sessionSecretKey, sessionCookieSecure,
		kafkaBrokers, kafkaTopic,
		err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "localhost", appHost)
	assert.Equal(t, "8080", appPort)
	assert.Equal(t, "info", logLevel)
	assert.Equal(t, "sqlite3", dbDriver)
	assert.Equal(t, "users.db?_busy_timeout=5000", dbDSN)
	assert.Equal(t, 16, dbMaxOpenConns)
	assert.Equal(t, 8, dbMaxIdleConns)
	assert.NotEmpty(t, sessionSecretKey)
	assert.False(t, sessionCookieSecure)
	assert.Empty(t, kafkaBrokers)
	assert.Equal(t, "user-events", kafkaTopic)
}

func TestParseConfig_CustomEnv(t *testing.T) {
	resetEnv()
	os.Setenv("APP_HOST", "127.0.0.1")
	os.Setenv("APP_PORT", "9090")
	os.Setenv("APP_LOG_LEVEL", "debug")

	os.Setenv("DB_DRIVER", "pgx")
	os.Setenv("DB_DSN", "postgres://user:password@db:5432/users?sslmode=disable")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("DB_MAX_IDLE_CONNS", "10")

	os.Setenv("SESSION_SECRET_KEY", "supersecret")
	os.Setenv("SESSION_COOKIE_SECURE", "true")

	os.Setenv("KAFKA_BROKERS", "kafka1:9092, kafka2:9092,")
	os.Setenv("KAFKA_TOPIC", "portal-events")

	appHost, appPort, logLevel,
		dbDriver, dbDSN, dbMaxOpenConns, dbMaxIdleConns,
		sessionSecretKey, sessionCookieSecure,
		kafkaBrokers, kafkaTopic,
		err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", appHost)
	assert.Equal(t, "9090", appPort)
	assert.Equal(t, "debug", logLevel)
	assert.Equal(t, "pgx", dbDriver)
	assert.Equal(t, "postgres://user:password@db:5432/users?sslmode=disable", dbDSN)
	assert.Equal(t, 20, dbMaxOpenConns)
	assert.Equal(t, 10, dbMaxIdleConns)
	assert.Equal(t, "supersecret", sessionSecretKey)
	assert.True(t, sessionCookieSecure)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, kafkaBrokers)
	assert.Equal(t, "portal-events", kafkaTopic)
}

func TestParseConfig_FromFile(t *testing.T) {
	resetEnv()

	path := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=7070\nDB_DSN=file.db\n"), 0o600))

	_, appPort, _, _, dbDSN, _, _, _, _, _, _, err := parseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", appPort)
	assert.Equal(t, "file.db", dbDSN)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"max open conns", "DB_MAX_OPEN_CONNS", "many"},
		{"max idle conns", "DB_MAX_IDLE_CONNS", "few"},
		{"cookie secure", "SESSION_COOKIE_SECURE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEnv()
			os.Setenv(tt.key, tt.value)

			_, _, _, _, _, _, _, _, _, _, _, err := parseConfig("nonexistent.env")
			assert.Error(t, err)
		})
	}
}

func TestRun_Success(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "users.db") + "?_busy_timeout=5000"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx,
			"127.0.0.1", "0", "error",
			"sqlite3", dsn, 4, 2,
			"testsecret", false,
			nil, "user-events",
		)
	}()

	select {
	case <-time.After(15 * time.Second):
		t.Fatal("test timed out")
	case err := <-errCh:
		require.NoError(t, err)
	}
}

func TestRun_Errors(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "users.db")

	tests := []struct {
		name     string
		logLevel string
		driver   string
	}{
		{"invalid log level", "loud", "sqlite3"},
		{"unknown driver", "error", "oracle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(),
				"127.0.0.1", "0", tt.logLevel,
				tt.driver, dsn, 4, 2,
				"testsecret", false,
				nil, "user-events",
			)
			assert.Error(t, err)
		})
	}
}
