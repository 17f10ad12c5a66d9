package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 500, cfg.MaxUploadSizeMB)
	assert.Equal(t, 1, cfg.JobRetentionDays)
	assert.Equal(t, "whisper", cfg.WhisperBin)
	assert.Equal(t, "small", cfg.WhisperModel)
	assert.Equal(t, "ffmpeg", cfg.FFmpegBin)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subpro.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = 9000
data_dir = "/srv/subpro"
whisper_model = "medium"
job_retention_days = 3
`), 0o644))
	t.Setenv("SUBPRO_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/srv/subpro", cfg.DataDir)
	assert.Equal(t, "medium", cfg.WhisperModel)
	assert.Equal(t, 3, cfg.JobRetentionDays)
	// Unset keys keep defaults.
	assert.Equal(t, 500, cfg.MaxUploadSizeMB)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subpro.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = 9000\n"), 0o644))
	t.Setenv("SUBPRO_CONFIG", path)
	t.Setenv("PORT", "9100")
	t.Setenv("WHISPER_MODEL", "large-v3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "large-v3", cfg.WhisperModel)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad int env", func(t *testing.T) {
		t.Setenv("PORT", "not-a-number")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("SUBPRO_CONFIG", "/does/not/exist.toml")
		_, err := Load()
		assert.Error(t, err)
	})
}
