package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/invoice"
)

func validConfig(dir string) *Config {
	return &Config{
		Mode:        ModeStdio,
		Host:        "127.0.0.1",
		Port:        8080,
		Directory:   dir,
		MaxFileSize: 1024,
		Duplicates:  "overwrite",
		DocType:     "auto",
		LogLevel:    "info",
		LogFormat:   "console",
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "tradedoc-reader", cfg.ServerName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, "overwrite", cfg.Duplicates)
	assert.Equal(t, "auto", cfg.DocType)

	currentDir, _ := os.Getwd()
	assert.Equal(t, currentDir, cfg.Directory)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid stdio", func(c *Config) {}, ""},
		{"valid server", func(c *Config) { c.Mode = ModeServer }, ""},
		{"stdio ignores port", func(c *Config) { c.Port = 0 }, ""},
		{"sum policy", func(c *Config) { c.Duplicates = "sum" }, ""},
		{"packing list type", func(c *Config) { c.DocType = "packing_list" }, ""},
		{"json logs", func(c *Config) { c.LogFormat = "json" }, ""},
		{"invalid mode", func(c *Config) { c.Mode = "invalid" }, "mode must be"},
		{"port too low", func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, "port must be"},
		{"port too high", func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, "port must be"},
		{"empty directory", func(c *Config) { c.Directory = "" }, "directory cannot be empty"},
		{"zero max size", func(c *Config) { c.MaxFileSize = 0 }, "maximum file size"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
		{"duplicates", func(c *Config) { c.Duplicates = "first" }, "duplicate policy"},
		{"doctype", func(c *Config) { c.DocType = "receipt" }, "unknown document type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t.TempDir())
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidate_DirectoryNotCreated(t *testing.T) {
	// placeholder paths like ${workspaceRoot} must be accepted as is
	dir := filepath.Join(t.TempDir(), "non-existent", "shipments")
	cfg := validConfig(dir)

	require.NoError(t, cfg.Validate())
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "directory should not have been created")
}

func TestConfigAccessors(t *testing.T) {
	cfg := validConfig("/tmp")
	cfg.Host = "192.168.1.1"
	cfg.Port = 9090
	assert.Equal(t, "192.168.1.1:9090", cfg.Address())

	assert.Equal(t, invoice.DuplicateOverwrite, cfg.DuplicatePolicy())
	cfg.Duplicates = "SUM"
	assert.Equal(t, invoice.DuplicateSum, cfg.DuplicatePolicy())
	cfg.Duplicates = "bogus"
	assert.Equal(t, invoice.DuplicateOverwrite, cfg.DuplicatePolicy())

	assert.Equal(t, document.TypeAuto, cfg.DocumentType())
	cfg.DocType = "invoice"
	assert.Equal(t, document.TypeInvoice, cfg.DocumentType())

	assert.False(t, cfg.IsDebug())
	cfg.LogLevel = "debug"
	assert.True(t, cfg.IsDebug())

	assert.True(t, cfg.IsStdioMode())
	assert.False(t, cfg.IsServerMode())
	cfg.Mode = ModeServer
	assert.True(t, cfg.IsServerMode())
	assert.False(t, cfg.IsStdioMode())
}

func TestConfigLogConfig(t *testing.T) {
	cfg := validConfig("/tmp")
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	lc := cfg.LogConfig()
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "stderr", lc.Output)
}

func TestConfigString(t *testing.T) {
	cfg := validConfig("/home/user/shipments")
	cfg.Mode = ModeServer
	cfg.LogLevel = "debug"

	result := cfg.String()
	for _, substr := range []string{
		"Mode: server",
		"Host: 127.0.0.1",
		"Port: 8080",
		"Directory: /home/user/shipments",
		"LogLevel: debug",
		"MaxFileSize: 1024",
		"Duplicates: overwrite",
		"DocType: auto",
	} {
		assert.Contains(t, result, substr)
	}
}
