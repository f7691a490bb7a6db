// Package config loads application settings from the config file, the
// environment, and defaults, in that order of increasing precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings keys
const (
	KeyDownloadDir = "download_dir"
	KeyBatchSize   = "batch_size"
	KeyLimit       = "limit"
	KeyLogLevel    = "log_level"
	KeyAuthHeaders = "auth_headers"
)

// Default values
const (
	DefaultBatchSize = 10
	DefaultLimit     = 50
	DefaultLogLevel  = "info"

	// SettingsDirName is created under the user's home for global state
	// and under each download dir for the cache database.
	SettingsDirName = ".ytmdl"

	CacheFileName       = "ytmdl.db"
	AuthHeadersFileName = "auth_headers.json"

	dirPermissions = 0o755
)

// Settings is the resolved application configuration.
type Settings struct {
	DownloadDir string
	BatchSize   int
	Limit       int
	LogLevel    string
	AuthHeaders map[string]string
}

// Load reads settings from ~/.ytmdl/config.yaml (if present) and YTMDL_*
// environment variables.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetDefault(KeyBatchSize, DefaultBatchSize)
	v.SetDefault(KeyLimit, DefaultLimit)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	v.SetEnvPrefix("YTMDL")
	v.AutomaticEnv()

	settingsDir, err := SettingsDir()
	if err != nil {
		return nil, err
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(settingsDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	s := &Settings{
		DownloadDir: v.GetString(KeyDownloadDir),
		BatchSize:   v.GetInt(KeyBatchSize),
		Limit:       v.GetInt(KeyLimit),
		LogLevel:    v.GetString(KeyLogLevel),
	}

	headers, err := loadAuthHeaders(filepath.Join(settingsDir, AuthHeadersFileName))
	if err != nil {
		return nil, err
	}
	s.AuthHeaders = headers

	return s, nil
}

// SettingsDir returns (creating if needed) the global settings directory.
func SettingsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home dir: %w", err)
	}
	dir := filepath.Join(home, SettingsDirName)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("create settings dir: %w", err)
	}
	return dir, nil
}

// CachePath returns the dedup database location for a download directory,
// creating the enclosing dot-directory if needed.
func CachePath(downloadDir string) (string, error) {
	dir := filepath.Join(downloadDir, SettingsDirName)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return filepath.Join(dir, CacheFileName), nil
}

// SaveAuthHeaders persists captured browser headers for authenticated calls.
func SaveAuthHeaders(headers map[string]string) (string, error) {
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, AuthHeadersFileName)

	data, err := json.MarshalIndent(headers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode auth headers: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write auth headers: %w", err)
	}
	return path, nil
}

// loadAuthHeaders reads previously saved headers; a missing file just means
// no authentication.
func loadAuthHeaders(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read auth headers: %w", err)
	}

	var headers map[string]string
	if err := json.Unmarshal(data, &headers); err != nil {
		return nil, fmt.Errorf("decode auth headers: %w", err)
	}
	return headers, nil
}
