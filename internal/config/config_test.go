package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LOG_PATH", "/tmp/client.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ReadBudget != 5000 {
		t.Errorf("ReadBudget = %d, want 5000", cfg.ReadBudget)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("PollInterval = %v, want 1s", cfg.PollInterval)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", cfg.Debounce)
	}
	if cfg.ClickHouseEnabled {
		t.Error("ClickHouse mirror must be disabled by default")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_MissingLogPath(t *testing.T) {
	t.Setenv("LOG_PATH", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when LOG_PATH is unset")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LogPath:         "/tmp/client.log",
			ReadBudget:      5000,
			PollInterval:    time.Second,
			Debounce:        250 * time.Millisecond,
			TracingProtocol: "grpc",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero read budget",
			mutate:  func(c *Config) { c.ReadBudget = 0 },
			wantErr: true,
		},
		{
			name:    "poll interval too small",
			mutate:  func(c *Config) { c.PollInterval = 10 * time.Millisecond },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Debounce = -time.Second },
			wantErr: true,
		},
		{
			name: "clickhouse enabled without host",
			mutate: func(c *Config) {
				c.ClickHouseEnabled = true
				c.ClickHousePort = 9000
				c.ClickHouseDB = "connmon"
			},
			wantErr: true,
		},
		{
			name: "clickhouse enabled with bad port",
			mutate: func(c *Config) {
				c.ClickHouseEnabled = true
				c.ClickHouseHost = "localhost"
				c.ClickHousePort = 99999
				c.ClickHouseDB = "connmon"
			},
			wantErr: true,
		},
		{
			name:    "bad tracing protocol",
			mutate:  func(c *Config) { c.TracingProtocol = "udp" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
