package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables holding the two provider secrets.
const (
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvRapidAPIKey = "RAPID_API_KEY"
)

// Defaults for the single supported search and analysis run.
const (
	DefaultSearchBaseURL = "https://jsearch.p.rapidapi.com"
	DefaultSearchHost    = "jsearch.p.rapidapi.com"
	DefaultQuery         = "Sustainable finance and energy transition in cities jobs"
	DefaultPage          = 1
	DefaultDatePosted    = "month"
	DefaultTopic         = "Sustainable finance and energy transition in cities"
	DefaultAIBaseURL     = "https://api.openai.com/v1"
	DefaultModel         = "gpt-4"
)

// DatePostedValues are the recency windows accepted by the search provider.
var DatePostedValues = []string{"all", "today", "3days", "week", "month"}

// Config is the root configuration for a jobmarket run.
type Config struct {
	Search       SearchConfig
	Analysis     AnalysisConfig
	Notification NotificationConfig
	HTTPTimeout  time.Duration // zero leaves the http.Client default
}

// SearchConfig controls the job search request.
type SearchConfig struct {
	BaseURL    string
	Host       string // X-RapidAPI-Host
	APIKey     string // falls back to RAPID_API_KEY
	Query      string
	Page       int
	DatePosted string
}

// AnalysisConfig controls the completion request.
type AnalysisConfig struct {
	Topic   string // course or market named in the prompt
	BaseURL string
	Model   string
	APIKey  string // falls back to OPENAI_API_KEY
}

// NotificationConfig controls where the finished analysis goes.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "stdout" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Search       rawSearchConfig    `yaml:"search"`
	Analysis     rawAnalysisConfig  `yaml:"analysis"`
	Notification NotificationConfig `yaml:"notification"`
	HTTPTimeout  string             `yaml:"http_timeout"`
}

type rawSearchConfig struct {
	BaseURL    string `yaml:"base_url"`
	Host       string `yaml:"host"`
	APIKey     string `yaml:"api_key"`
	Query      string `yaml:"query"`
	Page       int    `yaml:"page"`
	DatePosted string `yaml:"date_posted"`
}

type rawAnalysisConfig struct {
	Topic   string `yaml:"topic"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// LoadDotEnv loads KEY=VALUE pairs from .env files into the process
// environment. Missing files are ignored and existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Default returns the built-in configuration with secrets read from the
// environment.
func Default() (*Config, error) {
	return fromRaw(rawConfig{})
}

// Load reads and parses the YAML config file at path, fills defaults,
// validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawConfig) (*Config, error) {
	var timeout time.Duration
	if raw.HTTPTimeout != "" {
		var err error
		timeout, err = time.ParseDuration(raw.HTTPTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse http_timeout %q: %w", raw.HTTPTimeout, err)
		}
	}

	page := raw.Search.Page
	if page == 0 {
		page = DefaultPage
	}

	notifType := raw.Notification.Type
	if notifType == "" {
		notifType = "stdout"
	}

	cfg := &Config{
		Search: SearchConfig{
			BaseURL:    orDefault(raw.Search.BaseURL, DefaultSearchBaseURL),
			Host:       orDefault(raw.Search.Host, DefaultSearchHost),
			APIKey:     orDefault(raw.Search.APIKey, os.Getenv(EnvRapidAPIKey)),
			Query:      orDefault(raw.Search.Query, DefaultQuery),
			Page:       page,
			DatePosted: orDefault(raw.Search.DatePosted, DefaultDatePosted),
		},
		Analysis: AnalysisConfig{
			Topic:   orDefault(raw.Analysis.Topic, DefaultTopic),
			BaseURL: strings.TrimRight(orDefault(raw.Analysis.BaseURL, DefaultAIBaseURL), "/"),
			Model:   orDefault(raw.Analysis.Model, DefaultModel),
			APIKey:  orDefault(raw.Analysis.APIKey, os.Getenv(EnvOpenAIKey)),
		},
		Notification: NotificationConfig{
			Type:       notifType,
			WebhookURL: raw.Notification.WebhookURL,
		},
		HTTPTimeout: timeout,
	}
	cfg.Search.BaseURL = strings.TrimRight(cfg.Search.BaseURL, "/")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// MissingSecrets names the environment variables whose secrets are empty.
// Missing secrets are not a load error: the upstream call reports them.
func (c *Config) MissingSecrets() []string {
	var missing []string
	if c.Search.APIKey == "" {
		missing = append(missing, EnvRapidAPIKey)
	}
	if c.Analysis.APIKey == "" {
		missing = append(missing, EnvOpenAIKey)
	}
	return missing
}

func validate(cfg *Config) error {
	if cfg.Search.Page < 1 {
		return fmt.Errorf("search.page must be at least 1, got %d", cfg.Search.Page)
	}

	validWindow := false
	for _, v := range DatePostedValues {
		if cfg.Search.DatePosted == v {
			validWindow = true
			break
		}
	}
	if !validWindow {
		return fmt.Errorf("search.date_posted must be one of %s, got %q",
			strings.Join(DatePostedValues, ", "), cfg.Search.DatePosted)
	}

	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative, got %v", cfg.HTTPTimeout)
	}

	switch cfg.Notification.Type {
	case "stdout":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"stdout\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
