package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("BANANADB_ADDRESS", "")
	t.Setenv("BANANADB_DATA_DIR", "")
	t.Setenv("BANANADB_CONFIG", "")
	t.Setenv("GEMINI_MODEL", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Address)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "templates", cfg.TemplateDir)
	assert.Contains(t, cfg.DataDir, "bananadb")
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("BANANADB_ADDRESS", "127.0.0.1:9000")
	t.Setenv("BANANADB_DATA_DIR", "/tmp/banana-test")
	t.Setenv("BANANADB_CONFIG", "")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Address)
	assert.Equal(t, "/tmp/banana-test", cfg.DataDir)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, filepath.Join("/tmp/banana-test", "bananadb.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join("/tmp/banana-test", "uploads"), cfg.UploadsDir())
}

func TestNew_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "address: 127.0.0.1:8080\ndata_dir: /srv/banana\ngemini_model: gemini-1.5-flash\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("BANANADB_CONFIG", path)
	t.Setenv("BANANADB_ADDRESS", "")
	t.Setenv("BANANADB_DATA_DIR", "")
	t.Setenv("GEMINI_MODEL", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Address)
	assert.Equal(t, "/srv/banana", cfg.DataDir)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
}

func TestNew_EnvBeatsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("address: 127.0.0.1:8080\n"), 0o644))

	t.Setenv("BANANADB_CONFIG", path)
	t.Setenv("BANANADB_ADDRESS", "0.0.0.0:9999")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", cfg.Address)
}

func TestNew_MissingConfigFile(t *testing.T) {
	t.Setenv("BANANADB_CONFIG", "/nonexistent/config.yaml")

	_, err := New()
	assert.Error(t, err)
}
