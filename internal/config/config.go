// Package config loads server configuration from an optional JSONC file
// with flag and environment overrides applied by the caller.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options. Paths are created on startup if
// absent. Every consumer receives the value it needs explicitly; there is
// no process-wide configuration state.
type Config struct {
	DataDir      string `json:"data_dir"`       //nolint:tagliatelle // snake_case for config file
	UploadDir    string `json:"upload_dir"`     //nolint:tagliatelle // snake_case for config file
	UsersFile    string `json:"users_file"`     //nolint:tagliatelle // snake_case for config file
	Listen       string `json:"listen,omitempty"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` //nolint:tagliatelle // snake_case for config file
	GeminiModel  string `json:"gemini_model,omitempty"`   //nolint:tagliatelle // snake_case for config file
}

// Config errors.
var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config file")
	errDataDirEmpty       = errors.New("data_dir cannot be empty")
	errUploadDirEmpty     = errors.New("upload_dir cannot be empty")
	errUsersFileEmpty     = errors.New("users_file cannot be empty")
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:     "data/users",
		UploadDir:   "uploads",
		UsersFile:   "users.json",
		Listen:      ":8080",
		GeminiModel: "models/gemini-2.5-flash",
	}
}

// Load merges a config file over the defaults. With an empty path only the
// defaults are returned; a non-empty path must exist. The file may carry
// comments and trailing commas (JSONC).
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	fileCfg, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	cfg = merge(cfg, fileCfg)

	err = Validate(cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.UploadDir != "" {
		base.UploadDir = overlay.UploadDir
	}

	if overlay.UsersFile != "" {
		base.UsersFile = overlay.UsersFile
	}

	if overlay.Listen != "" {
		base.Listen = overlay.Listen
	}

	if overlay.GeminiAPIKey != "" {
		base.GeminiAPIKey = overlay.GeminiAPIKey
	}

	if overlay.GeminiModel != "" {
		base.GeminiModel = overlay.GeminiModel
	}

	return base
}

// Validate checks that the required paths are non-empty. Called again after
// flag overrides are applied.
func Validate(cfg Config) error {
	if cfg.DataDir == "" {
		return errDataDirEmpty
	}

	if cfg.UploadDir == "" {
		return errUploadDirEmpty
	}

	if cfg.UsersFile == "" {
		return errUsersFileEmpty
	}

	return nil
}
