package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port             int    `toml:"port"`
	DataDir          string `toml:"data_dir"`
	MaxUploadSizeMB  int    `toml:"max_upload_size_mb"`
	JobRetentionDays int    `toml:"job_retention_days"`
	WhisperBin       string `toml:"whisper_bin"`
	WhisperModel     string `toml:"whisper_model"`
	FFmpegBin        string `toml:"ffmpeg_bin"`
}

func defaults() *Config {
	return &Config{
		Port:             8000,
		DataDir:          "./data",
		MaxUploadSizeMB:  500,
		JobRetentionDays: 1,
		WhisperBin:       "whisper",
		WhisperModel:     "small",
		FFmpegBin:        "ffmpeg",
	}
}

// Load builds the configuration in three layers: defaults, then an optional
// TOML file named by SUBPRO_CONFIG, then individual environment overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("SUBPRO_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d out of range", cfg.Port)
	}
	if cfg.MaxUploadSizeMB <= 0 {
		return nil, errors.New("max upload size must be positive")
	}
	if cfg.JobRetentionDays <= 0 {
		return nil, errors.New("job retention must be at least one day")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error
	if cfg.Port, err = getEnvInt("PORT", cfg.Port); err != nil {
		return err
	}
	if cfg.MaxUploadSizeMB, err = getEnvInt("MAX_UPLOAD_SIZE_MB", cfg.MaxUploadSizeMB); err != nil {
		return err
	}
	if cfg.JobRetentionDays, err = getEnvInt("JOB_RETENTION_DAYS", cfg.JobRetentionDays); err != nil {
		return err
	}
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.WhisperBin = getEnv("WHISPER_BIN", cfg.WhisperBin)
	cfg.WhisperModel = getEnv("WHISPER_MODEL", cfg.WhisperModel)
	cfg.FFmpegBin = getEnv("FFMPEG_BIN", cfg.FFmpegBin)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
