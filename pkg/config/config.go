// Package config loads Clarity's application configuration: a JSON file
// overlaid onto defaults, plus API credentials resolved from the environment
// and an optional .env file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Memory holds the long-term memory feature configuration. The whole section
// is optional; memory stays disabled unless explicitly enabled.
type Memory struct {
	EnableLongTermMemory     bool   `json:"enable_long_term_memory"`
	EnableLastSessionContext bool   `json:"enable_last_session_context"`
	MaxLastSessionTurns      int    `json:"max_last_session_turns"`
	Dir                      string `json:"memory_dir"`
}

// Config is the full application configuration.
type Config struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	BootDocPath string  `json:"boot_doc_path"`
	LogsDir     string  `json:"logs_dir"`
	Memory      Memory  `json:"memory"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:       "gpt-4o",
		Temperature: 0.7,
		MaxTokens:   2000,
		BootDocPath: "bootdocs/default.md",
		LogsDir:     "logs",
		Memory: Memory{
			MaxLastSessionTurns: 20,
			Dir:                 "memory",
		},
	}
}

// Load reads the configuration file at path and overlays it onto the
// defaults; fields absent from the file keep their default values. A missing
// file yields the defaults. A present but unparsable file is an error so a
// typo never silently reverts the user to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// APIKey resolves the OpenAI API key from the environment, loading a .env
// file from the working directory first if present.
func APIKey() (string, error) {
	_ = godotenv.Load() // absent .env is fine
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return "", fmt.Errorf("config: OPENAI_API_KEY not set; add it to the environment or to a .env file in the working directory")
	}
	return key, nil
}
