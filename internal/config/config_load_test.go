package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("tradedoc-reader", nil)
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, "overwrite", cfg.Duplicates)
	assert.Equal(t, "auto", cfg.DocType)
	assert.NotEmpty(t, cfg.Directory)
}

func TestLoad_Flags(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		args   []string
		assert func(t *testing.T, cfg *Config)
	}{
		{
			name: "custom directory",
			args: []string{"--dir=" + dir},
			assert: func(t *testing.T, cfg *Config) {
				assert.Equal(t, dir, cfg.Directory)
			},
		},
		{
			name: "server mode with host and port",
			args: []string{"--mode=server", "--host=0.0.0.0", "--port=9090", "--dir=" + dir},
			assert: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsServerMode())
				assert.Equal(t, "0.0.0.0:9090", cfg.Address())
			},
		},
		{
			name: "logging",
			args: []string{"--loglevel=debug", "--logformat=json", "--dir=" + dir},
			assert: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsDebug())
				assert.Equal(t, "json", cfg.LogFormat)
			},
		},
		{
			name: "extraction settings",
			args: []string{"--duplicates=sum", "--doctype=packing_list", "--maxfilesize=2048", "--dir=" + dir},
			assert: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "sum", cfg.Duplicates)
				assert.Equal(t, "packing_list", cfg.DocType)
				assert.Equal(t, int64(2048), cfg.MaxFileSize)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("tradedoc-reader", tt.args)
			require.NoError(t, err)
			tt.assert(t, cfg)
		})
	}
}

func TestLoad_RelativeDirectoryIsExpanded(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("tradedoc-reader", []string{"--dir=shipments"})
	require.NoError(t, err)
	assert.True(t, len(cfg.Directory) > len("shipments"))
	assert.Contains(t, cfg.Directory, "shipments")
}

func TestLoad_Environment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADEDOC_MODE", "server")
	t.Setenv("TRADEDOC_PORT", "9191")
	t.Setenv("TRADEDOC_DIR", dir)
	t.Setenv("TRADEDOC_DUPLICATES", "sum")
	t.Setenv("TRADEDOC_LOGLEVEL", "warn")

	cfg, err := Load("tradedoc-reader", nil)
	require.NoError(t, err)
	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, dir, cfg.Directory)
	assert.Equal(t, "sum", cfg.Duplicates)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_FlagOverridesEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADEDOC_DIR", dir)
	t.Setenv("TRADEDOC_DUPLICATES", "sum")

	cfg, err := Load("tradedoc-reader", []string{"--duplicates=overwrite"})
	require.NoError(t, err)
	assert.Equal(t, "overwrite", cfg.Duplicates)
	assert.Equal(t, dir, cfg.Directory)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"mode", []string{"--mode=invalid", "--dir=" + dir}},
		{"port", []string{"--mode=server", "--port=70000", "--dir=" + dir}},
		{"log level", []string{"--loglevel=trace", "--dir=" + dir}},
		{"duplicates", []string{"--duplicates=first", "--dir=" + dir}},
		{"doctype", []string{"--doctype=receipt", "--dir=" + dir}},
		{"unknown flag", []string{"--nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("tradedoc-reader", tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Version(t *testing.T) {
	for _, flag := range []string{"--version", "-version", "-v"} {
		_, err := Load("tradedoc-reader", []string{flag})
		assert.ErrorIs(t, err, ErrVersionRequested, flag)
	}
}
