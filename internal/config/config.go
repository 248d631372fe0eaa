package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

/*
Config precedence, highest to lowest:

 1. CLI flags (RuntimeOverrides)
 2. Environment variables (ORBIT_URL, ORBIT_API_KEY, ...)
 3. Config file (~/.orbit/client.toml, or client.yaml)
 4. Built-in defaults

The config file is optional; everything has a usable default for a local
server except the API key, which a remote server will usually require.
*/

const (
	configDirName  = ".orbit"
	configFileName = "client"
)

// envVarConfig defines an environment variable mapping
type envVarConfig struct {
	key    string
	envVar string
}

var envVars = []envVarConfig{
	{key: "url", envVar: "ORBIT_URL"},
	{key: "api_key", envVar: "ORBIT_API_KEY"},
	{key: "session_id", envVar: "ORBIT_SESSION_ID"},
}

// Dir returns the directory holding the config file and history
// database, creating it if necessary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory: %w", err)
	}
	return dir, nil
}

// New loads, merges, and validates the configuration.
func New(overrides *RuntimeOverrides) (*ConfigSchema, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return load(dir, overrides)
}

func load(dir string, overrides *RuntimeOverrides) (*ConfigSchema, error) {
	v := viper.New()

	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("history_path", filepath.Join(dir, "history.db"))
	v.SetDefault("timeout", 60)
	v.SetDefault("show_timing", false)
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "WARN")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix("ORBIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, err
		}
	}

	v.SetConfigName(configFileName)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; flags and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if overrides != nil {
		if overrides.URL != nil {
			v.Set("url", *overrides.URL)
		}
		if overrides.APIKey != nil {
			v.Set("api_key", *overrides.APIKey)
		}
		if overrides.SessionID != nil {
			v.Set("session_id", *overrides.SessionID)
		}
		if overrides.LogLevel != nil {
			v.Set("log.level", *overrides.LogLevel)
		}
		if overrides.LogFile != nil {
			v.Set("log.file", *overrides.LogFile)
		}
	}

	var cfg ConfigSchema
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &cfg, nil
}

const defaultConfigContent = `# ORBIT chat client configuration

# URL of your ORBIT server
url = "http://localhost:3000"

# Your API key for the ORBIT server
# api_key = "your_api_key_here"

# Reuse a fixed session ID instead of generating one per run
# session_id = ""

# Per-request timeout in seconds
timeout = 60

# Show latency metrics after each exchange
show_timing = false

[log]
level = "WARN"
# file = "/path/to/orbit-chat.log"
`

// WriteDefault creates a commented starter config file. It refuses to
// overwrite an existing one.
func WriteDefault() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, configFileName+".toml")
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o600); err != nil {
		return path, fmt.Errorf("error creating config file: %w", err)
	}
	return path, nil
}

// Redacted returns the value with all but the last four characters
// masked, for displaying secrets.
func Redacted(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "***" + s[len(s)-4:]
}
