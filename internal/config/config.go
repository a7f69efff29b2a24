// Package config provides centralized configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultDomain is the public GitHub host.
const DefaultDomain = "github.com"

// envFile is read when present; variables already set in the environment win.
const envFile = ".env"

// Config holds all configuration parameters for the application.
type Config struct {
	GitHub  GitHubConfig
	Fetch   FetchConfig
	Logging LoggingConfig
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token  string
	Domain string

	// APIURL overrides the API base URL derived from Domain.
	APIURL string
}

// FetchConfig holds defaults for the fetch command flags.
type FetchConfig struct {
	Format   string
	PerPage  int
	MaxPages int
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string
}

// LoadConfig initializes and loads configuration from environment variables
// and an optional .env file in the working directory.
func LoadConfig() (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Map specific environment variables
	bindings := map[string]string{
		"github.token":    "GITHUB_TOKEN",
		"github.domain":   "GITHUB_DOMAIN",
		"github.api_url":  "GITHUB_API_URL",
		"logging.level":   "LOG_LEVEL",
		"fetch.format":    "PRFETCH_FORMAT",
		"fetch.per_page":  "PRFETCH_PER_PAGE",
		"fetch.max_pages": "PRFETCH_MAX_PAGES",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	domain := strings.TrimSpace(v.GetString("github.domain"))
	if domain == "" {
		domain = DefaultDomain
	}

	config := &Config{
		GitHub: GitHubConfig{
			Token:  strings.TrimSpace(v.GetString("github.token")),
			Domain: domain,
			APIURL: v.GetString("github.api_url"),
		},
		Fetch: FetchConfig{
			Format:   v.GetString("fetch.format"),
			PerPage:  v.GetInt("fetch.per_page"),
			MaxPages: v.GetInt("fetch.max_pages"),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(v.GetString("logging.level")),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.domain", DefaultDomain)
	v.SetDefault("logging.level", "info")
	v.SetDefault("fetch.format", "compact")
	v.SetDefault("fetch.per_page", 30)
	v.SetDefault("fetch.max_pages", 10)
}

// loadEnvFile copies variables from path into the process environment
// without overriding ones that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	envMap, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for k, val := range envMap {
		if _, exists := os.LookupEnv(k); !exists {
			if err := os.Setenv(k, val); err != nil {
				return fmt.Errorf("failed to set %s: %w", k, err)
			}
		}
	}
	return nil
}

// ValidateGitHubConfig ensures the GitHub token is present.
func ValidateGitHubConfig(config *Config) error {
	var missingVars []string

	if config.GitHub.Token == "" {
		missingVars = append(missingVars, "GITHUB_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}

// BaseURL returns the REST API base URL for the configured host, always with
// a trailing slash.
func (c GitHubConfig) BaseURL() string {
	if c.APIURL != "" {
		if !strings.HasSuffix(c.APIURL, "/") {
			return c.APIURL + "/"
		}
		return c.APIURL
	}
	if c.Domain == "" || c.Domain == DefaultDomain {
		return "https://api.github.com/"
	}
	return fmt.Sprintf("https://%s/api/v3/", c.Domain)
}
