package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./tasks.db" {
			t.Errorf("expected database path ./tasks.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Remote.BaseURL != DefaultAPIURL {
			t.Errorf("expected remote base URL %s, got %s", DefaultAPIURL, config.Remote.BaseURL)
		}

		if config.Remote.Timeout.Duration != 0 {
			t.Errorf("expected no default timeout, got %v", config.Remote.Timeout)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[remote]
base_url = "http://tasks.internal:9000/api/tasks/"
timeout = "750ms"

[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Remote.Timeout.Duration != 750*time.Millisecond {
			t.Errorf("expected timeout 750ms, got %v", config.Remote.Timeout)
		}

		if config.Database.MaxOpenConns != 1 {
			t.Errorf("expected unset max_open_conns to keep default 1, got %d", config.Database.MaxOpenConns)
		}

		if config.LogLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", config.LogLevel())
		}

		if config.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Addr())
		}
	})

	t.Run("LoadConfig With Bad Duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[remote]\ntimeout = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestConfigAPIURL(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		baseURL string
		want    string
	}{
		{name: "environment wins", env: "http://env:1/tasks", baseURL: "http://file:2/tasks", want: "http://env:1/tasks"},
		{name: "config file", baseURL: "http://file:2/tasks/", want: "http://file:2/tasks"},
		{name: "fallback", want: DefaultAPIURL},
		{name: "blank values fall through", env: "   ", baseURL: " ", want: DefaultAPIURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPIURL, tt.env)
			config := &Config{Remote: RemoteConfig{BaseURL: tt.baseURL}}

			if got := config.APIURL(); got != tt.want {
				t.Errorf("APIURL() = %s, want %s", got, tt.want)
			}
		})
	}
}
