package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingEnvironmentVariable = errors.New("missing environment variable")

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Provider      ProviderConfig
	Transcription TranscriptionConfig
	Slack         SlackConfig
	Agent         AgentConfig
	Message       MessageConfig
	Cycle         CycleConfig
}

type ServerConfig struct {
	Port string
}

// ProviderConfig holds telephony provider credentials
type ProviderConfig struct {
	BaseURL  string
	SID      string
	APIKey   string
	APIToken string
	PageSize int
}

type TranscriptionConfig struct {
	URL      string
	APIKey   string
	Model    string
	Language string
}

type SlackConfig struct {
	BotToken  string
	Channel   string
	Webhook   string
	APIURL    string
	Username  string
	IconEmoji string
}

// AgentConfig describes the primary agent, or a roster file that replaces it.
type AgentConfig struct {
	Phone         string
	Name          string
	SlackHandle   string
	Department    string
	DirectoryFile string
}

// MessageConfig holds the static labels printed in the summary message.
type MessageConfig struct {
	Exophone    string
	FlowName    string
	CompanyName string
}

type CycleConfig struct {
	Interval   time.Duration
	Workers    int
	MaxRetries uint64
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envOr("PORT", "8080"),
		},
		Provider: ProviderConfig{
			BaseURL:  strings.TrimRight(envOr("PROVIDER_BASE_URL", "https://api.exotel.com/v1"), "/"),
			SID:      os.Getenv("PROVIDER_SID"),
			APIKey:   os.Getenv("PROVIDER_API_KEY"),
			APIToken: os.Getenv("PROVIDER_API_TOKEN"),
		},
		Transcription: TranscriptionConfig{
			URL:      envOr("DEEPGRAM_URL", "https://api.deepgram.com/v1/listen"),
			APIKey:   os.Getenv("DEEPGRAM_API_KEY"),
			Model:    envOr("DEEPGRAM_MODEL", "nova-2"),
			Language: envOr("DEEPGRAM_LANGUAGE", "en-US"),
		},
		Slack: SlackConfig{
			BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
			Channel:   os.Getenv("SLACK_CHANNEL"),
			Webhook:   os.Getenv("SLACK_WEBHOOK"),
			APIURL:    strings.TrimRight(envOr("SLACK_API_URL", "https://slack.com/api"), "/"),
			Username:  envOr("SLACK_USERNAME", "Call Digest"),
			IconEmoji: envOr("SLACK_ICON_EMOJI", ":telephone_receiver:"),
		},
		Agent: AgentConfig{
			Phone:         os.Getenv("AGENT_PHONE"),
			Name:          envOr("AGENT_NAME", "Support Agent"),
			SlackHandle:   os.Getenv("AGENT_SLACK_HANDLE"),
			Department:    envOr("AGENT_DEPARTMENT", "Customer Success"),
			DirectoryFile: os.Getenv("AGENT_DIRECTORY_FILE"),
		},
		Message: MessageConfig{
			Exophone:    os.Getenv("EXOPHONE"),
			FlowName:    os.Getenv("FLOW_NAME"),
			CompanyName: os.Getenv("COMPANY_NAME"),
		},
	}

	var err error
	if cfg.Provider.PageSize, err = intEnv("PROVIDER_PAGE_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.Cycle.Workers, err = intEnv("CYCLE_WORKERS", 4); err != nil {
		return nil, err
	}
	retries, err := intEnv("HTTP_MAX_RETRIES", 0)
	if err != nil {
		return nil, err
	}
	if retries < 0 {
		return nil, fmt.Errorf("HTTP_MAX_RETRIES must not be negative")
	}
	cfg.Cycle.MaxRetries = uint64(retries)

	cfg.Cycle.Interval, err = time.ParseDuration(envOr("CYCLE_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CYCLE_INTERVAL: %w", err)
	}
	if cfg.Cycle.Interval <= 0 {
		return nil, fmt.Errorf("CYCLE_INTERVAL must be positive")
	}
	if cfg.Provider.PageSize <= 0 {
		cfg.Provider.PageSize = 10
	}
	if cfg.Cycle.Workers <= 0 {
		cfg.Cycle.Workers = 1
	}

	return cfg, nil
}

// Validate reports every credential a cycle needs that is not set.
func (c *Config) Validate() error {
	required := []struct{ name, value string }{
		{"PROVIDER_SID", c.Provider.SID},
		{"PROVIDER_API_KEY", c.Provider.APIKey},
		{"PROVIDER_API_TOKEN", c.Provider.APIToken},
		{"DEEPGRAM_API_KEY", c.Transcription.APIKey},
		{"SLACK_WEBHOOK", c.Slack.Webhook},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnvironmentVariable, strings.Join(missing, ", "))
	}
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intEnv(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return n, nil
}
