// Package config handles application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned by Validate when no Gemini API key is set.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Config represents the application configuration.
type Config struct {
	Gemini       GeminiConfig       `yaml:"gemini"`
	Conversation ConversationConfig `yaml:"conversation"`
	Debate       DebateConfig       `yaml:"debate"`
	Storage      StorageConfig      `yaml:"storage"`
	Server       ServerConfig       `yaml:"server,omitempty"`
	Debug        bool               `yaml:"debug"`
}

// GeminiConfig holds generation backend settings. The API key is never read
// from the YAML file, only from the environment.
type GeminiConfig struct {
	APIKey      string  `yaml:"-"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// ConversationConfig holds dialogue/debate conversation settings.
type ConversationConfig struct {
	MaxHistory     int `yaml:"max_history"`
	SessionTimeout int `yaml:"session_timeout"` // seconds
}

// DebateConfig holds debate defaults.
type DebateConfig struct {
	MaxTurnsPerParticipant int `yaml:"max_turns_per_participant"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // "json" or "sqlite"
	SessionsDir string `yaml:"sessions_dir"`
	DBPath      string `yaml:"db_path"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:       "gemini-1.5-flash",
			MaxTokens:   500,
			Temperature: 0.8,
		},
		Conversation: ConversationConfig{
			MaxHistory:     20,
			SessionTimeout: 3600,
		},
		Debate: DebateConfig{
			MaxTurnsPerParticipant: 3,
		},
		Storage: StorageConfig{
			Backend:     "json",
			SessionsDir: "sessions",
			DBPath:      defaultDBPath(),
		},
		Server: ServerConfig{
			Port: 8184,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from a specific path. A missing file is not
// an error; defaults apply. Environment variables override file values, and
// a .env file in the working directory is loaded first if present.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file, proceed with defaults
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Best effort; the .env file is optional.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides updates the configuration from environment variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		cfg.Gemini.APIKey = val
	}
	if val := os.Getenv("GEMINI_MODEL"); val != "" {
		cfg.Gemini.Model = val
	}
	if val := os.Getenv("MAX_TOKENS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Gemini.MaxTokens = n
		}
	}
	if val := os.Getenv("TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Gemini.Temperature = f
		}
	}
	if val := os.Getenv("MAX_CONVERSATION_HISTORY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Conversation.MaxHistory = n
		}
	}
	if val := os.Getenv("SESSION_TIMEOUT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Conversation.SessionTimeout = n
		}
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = n
		}
	}
	if val := os.Getenv("AGORA_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("AGORA_SESSIONS_DIR"); val != "" {
		cfg.Storage.SessionsDir = val
	}
	if val := os.Getenv("AGORA_DB_PATH"); val != "" {
		cfg.Storage.DBPath = val
	}
	if val := os.Getenv("DEBUG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Debug = b
		}
	}
}

// Validate checks that the configuration is usable. A missing API key is
// fatal since every session needs the generation backend.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Gemini.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.Gemini.MaxTokens)
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Gemini.Temperature)
	}
	if c.Conversation.SessionTimeout <= 0 {
		return fmt.Errorf("session_timeout must be positive, got %d", c.Conversation.SessionTimeout)
	}
	switch c.Storage.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q (want json or sqlite)", c.Storage.Backend)
	}
	return nil
}

// SessionTimeoutDuration returns the dialogue idle timeout as a Duration.
func (c *Config) SessionTimeoutDuration() time.Duration {
	return time.Duration(c.Conversation.SessionTimeout) * time.Second
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "agora.yaml"
	}
	return filepath.Join(home, ".agora", "config.yaml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "agora.db"
	}
	return filepath.Join(home, ".agora", "agora.db")
}

// GenerateExample generates an example configuration file.
func GenerateExample() string {
	return `# agora configuration file
# Place this file at ~/.agora/config.yaml
#
# The Gemini API key is read from the GEMINI_API_KEY environment variable
# (or a .env file in the working directory), never from this file.

gemini:
  model: gemini-1.5-flash   # Generation model
  max_tokens: 500           # Response length cap
  temperature: 0.8          # Sampling temperature (0-2)

conversation:
  max_history: 20           # Messages replayed to the model per turn
  session_timeout: 3600     # Dialogue idle timeout in seconds

debate:
  max_turns_per_participant: 3

storage:
  backend: json             # "json" or "sqlite"
  sessions_dir: sessions    # JSON backend: base directory
  # db_path: ~/.agora/agora.db

server:
  port: 8184
`
}
