package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Finance Board Configuration

[board]
# Completion model used for all reasoning stages
model = "gpt-4o"
# Number of advisor pipelines run concurrently per batch
batch_size = 3
# Timeout for a single reasoning stage
stage_timeout = "45s"
# Deadline for a whole deliberation run
overall_deadline = "5m"
# Retry attempts for transient provider failures
max_stage_retries = 3
# Initial backoff between retries
retry_delay = "500ms"
# Generate a narrative financial insight alongside the verdict
insight_enabled = true
# Optional path to a personas.toml overriding the built-in roster
persona_overrides = ""

[storage]
# SQLite database path (empty = default config dir)
db_path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
`

const credentialsTemplate = `# Finance Board Credentials
# Keep this file private (chmod 600).

[openai]
api_key = ""
`

// WriteTemplates writes the template config.toml and credentials.toml into
// configDir, skipping files that already exist.
func WriteTemplates(configDir string) error {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := createTemplateConfig(configDir); err != nil {
		return err
	}
	return createTemplateCredentials(configDir)
}

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(credentialsTemplate), 0600)
}
