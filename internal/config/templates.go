package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Saham Workbench Configuration

[profile]
# Display name stamped on rendered reports
user_name = ""
# Default capital tier: MICRO, RETAIL, HIGH_NET, INSTITUTIONAL
default_tier = "RETAIL"
# Default risk profile: CONSERVATIVE, BALANCED, AGGRESSIVE
risk_profile = "BALANCED"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"

[logging]
# Log level: debug, info, warn, error
level = "info"
`

const credentialsTemplate = `# Saham Workbench Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[llm]
# OpenAI-compatible endpoint; leave empty for the provider default
endpoint = ""
api_key = ""
model = "gpt-4o"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Restricted permissions for credentials
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
