// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// DefaultGreeting is the assistant turn every fresh transcript starts with.
const DefaultGreeting = "¡Hola! Soy tu asistente de conocimiento bancario. " +
	"Pregúntame sobre regulaciones, políticas y procedimientos."

// Config is the full client configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	UI       UIConfig       `toml:"ui"`
	Upload   UploadConfig   `toml:"upload"`
	Storage  StorageConfig  `toml:"storage"`
	Security SecurityConfig `toml:"security"`
}

// APIConfig locates the three backends.
type APIConfig struct {
	ChatBaseURL     string `toml:"chat_base_url"`
	NLSQLBaseURL    string `toml:"nlsql_base_url"`
	SupabaseURL     string `toml:"supabase_url"`
	SupabaseAnonKey string `toml:"supabase_anon_key"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// UIConfig tunes the terminal front end.
type UIConfig struct {
	Greeting string `toml:"greeting"`
	// Typing delay bounds per word, in milliseconds.
	TypingMinMs int    `toml:"typing_min_ms"`
	TypingMaxMs int    `toml:"typing_max_ms"`
	Theme       string `toml:"theme"`
	DebugLog    bool   `toml:"debug_log"`
}

// UploadConfig governs the document upload pipeline.
type UploadConfig struct {
	// WatchDir, when set, is monitored for dropped PDFs.
	WatchDir   string `toml:"watch_dir"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	SavePDF    bool   `toml:"save_pdf"`
	BucketName string `toml:"bucket_name"`
}

// StorageConfig governs local persistence.
type StorageConfig struct {
	DataDir          string `toml:"data_dir"`
	MaxConversations int    `toml:"max_conversations"`
}

// SecurityConfig governs the local credential vault.
type SecurityConfig struct {
	// AppLock requires a TOTP code before the stored session unlocks.
	AppLock bool `toml:"app_lock"`
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors accumulates every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		API: APIConfig{
			ChatBaseURL:    "http://localhost:3000/api/v1",
			NLSQLBaseURL:   "http://127.0.0.1:3000",
			TimeoutSeconds: 30,
		},
		UI: UIConfig{
			Greeting:    DefaultGreeting,
			TypingMinMs: 50,
			TypingMaxMs: 150,
			Theme:       "auto",
		},
		Upload: UploadConfig{
			MaxSizeMB:  25,
			BucketName: "documents",
		},
		Storage: StorageConfig{
			DataDir:          filepath.Join(home, ".leximind"),
			MaxConversations: 100,
		},
	}
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".leximind", "config.toml")
}

// Load reads the TOML file at path (DefaultPath when empty), falling back
// to defaults when the file is absent, then applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides lets LEXIMIND_* variables win over the file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LEXIMIND_API_BASE"); v != "" {
		c.API.ChatBaseURL = v
	}
	if v := os.Getenv("LEXIMIND_NLSQL_BASE"); v != "" {
		c.API.NLSQLBaseURL = v
	}
	if v := os.Getenv("LEXIMIND_SUPABASE_URL"); v != "" {
		c.API.SupabaseURL = v
	}
	if v := os.Getenv("LEXIMIND_SUPABASE_ANON_KEY"); v != "" {
		c.API.SupabaseAnonKey = v
	}
	if v := os.Getenv("LEXIMIND_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("LEXIMIND_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("LEXIMIND_UPLOAD_WATCH_DIR"); v != "" {
		c.Upload.WatchDir = v
	}
}

// Validate checks field ranges and required values, accumulating every
// problem rather than stopping at the first.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(c.API.ChatBaseURL) == "" {
		errs = append(errs, ValidationError{"api.chat_base_url", "must not be empty"})
	}
	if strings.TrimSpace(c.API.NLSQLBaseURL) == "" {
		errs = append(errs, ValidationError{"api.nlsql_base_url", "must not be empty"})
	}
	if c.API.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{"api.timeout_seconds", "must be positive"})
	}
	if c.UI.TypingMinMs <= 0 {
		errs = append(errs, ValidationError{"ui.typing_min_ms", "must be positive"})
	}
	if c.UI.TypingMaxMs < c.UI.TypingMinMs {
		errs = append(errs, ValidationError{"ui.typing_max_ms", "must be >= ui.typing_min_ms"})
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{"ui.theme", "must be auto, dark or light"})
	}
	if c.Upload.MaxSizeMB <= 0 {
		errs = append(errs, ValidationError{"upload.max_size_mb", "must be positive"})
	}
	if c.Storage.MaxConversations <= 0 {
		errs = append(errs, ValidationError{"storage.max_conversations", "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Save writes the configuration back to path as TOML.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

// ============================================================================
// GLOBAL ACCESS
// ============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide configuration, loading defaults on first
// use if SetGlobal was never called.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		globalCfg = Default()
	}
	return globalCfg
}

// SetGlobal installs the loaded configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ResetGlobalForTesting clears the global so tests start clean.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}
