package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PAYLOAD_SOURCE", "TABLE_PREFIX", "SESSION_TTL", "DEBUG", "RETRY_ATTEMPTS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Environment != "dev" || cfg.TablePrefix != "dev_" || !cfg.Debug {
		t.Errorf("env defaults = %s %s %v", cfg.Environment, cfg.TablePrefix, cfg.Debug)
	}
	if cfg.PayloadSource != SourceFile || cfg.SessionTTL != DefaultSessionTTL || cfg.RetryAttempts != DefaultRetryAttempts {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("DEBUG", "")
	t.Setenv("PAYLOAD_SOURCE", "SQLite")
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("RETRY_ATTEMPTS", "not-a-number")

	cfg := Load()

	if cfg.TablePrefix != "prod_" || cfg.Debug {
		t.Errorf("prod defaults = %s %v", cfg.TablePrefix, cfg.Debug)
	}
	if cfg.PayloadSource != SourceSQLite {
		t.Errorf("PayloadSource = %q, want sqlite", cfg.PayloadSource)
	}
	if cfg.SessionTTL != 90*time.Second {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.RetryAttempts != DefaultRetryAttempts {
		t.Errorf("RetryAttempts = %d, want default", cfg.RetryAttempts)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown source", mutate: func(c *Config) { c.PayloadSource = "redis" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *Config) { c.PayloadSource = SourcePostgres }, wantErr: true},
		{name: "postgres with url", mutate: func(c *Config) { c.PayloadSource = SourcePostgres; c.DatabaseURL = "postgres://localhost/db" }},
		{name: "unknown environment", mutate: func(c *Config) { c.Environment = "staging" }, wantErr: true},
		{name: "relative data path", mutate: func(c *Config) { c.DataPath = "api/data" }, wantErr: true},
		{name: "too many retries", mutate: func(c *Config) { c.RetryAttempts = MaxRetryAttempts + 1 }, wantErr: true},
		{name: "negative sessions", mutate: func(c *Config) { c.MaxSessions = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:           "8080",
				Environment:    "dev",
				PayloadSource:  SourceFile,
				PayloadFile:    "response.json",
				DataPath:       "/api/data",
				RequestTimeout: DefaultRequestTimeout,
				RetryAttempts:  DefaultRetryAttempts,
				SessionTTL:     DefaultSessionTTL,
				MaxSessions:    DefaultMaxSessions,
				LogMaxFiles:    DefaultLogMaxFiles,
			}
			tt.mutate(cfg)

			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetupLogFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"server-2020-01-01T00-00-00.000.log", "server-2020-01-02T00-00-00.000.log", "seed-2020-01-01T00-00-00.000.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, "server", 2)
	if err != nil {
		t.Fatalf("SetupLogFile() error = %v", err)
	}
	defer f.Close()

	servers, _ := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if len(servers) != 2 {
		t.Errorf("server logs = %v, want 2", servers)
	}
	if _, err := os.Stat(filepath.Join(dir, "server-2020-01-01T00-00-00.000.log")); !os.IsNotExist(err) {
		t.Error("oldest server log should be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "seed-2020-01-01T00-00-00.000.log")); err != nil {
		t.Error("logs of other binaries must be kept")
	}
}
