package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

// DefaultSecretKey is used when SECRET_KEY is unset. It is public, so forms
// signed with it offer no protection.
const DefaultSecretKey = "Supercalifragilisticexpialidocious"

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	SecretKey string `yaml:"secret_key"`

	// LLM
	LLMProvider     string `yaml:"llm_provider"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`
	LLMMaxTokens    int    `yaml:"llm_max_tokens"`

	// Google Calendar
	GoogleCredentialsFile string `yaml:"google_credentials_file"`
	GoogleTokenFile       string `yaml:"google_token_file"`
	CalendarID            string `yaml:"calendar_id"`
	EventsFile            string `yaml:"events_file"`

	// HTTP
	HTTPPort int    `yaml:"http_port"`
	BaseURL  string `yaml:"base_url"`

	LogLevel string `yaml:"log_level"`

	// Confirmation email (optional)
	ResendAPIKey string `yaml:"resend_api_key"`
	EmailFrom    string `yaml:"email_from"`
	NotifyEmail  string `yaml:"notify_email"`
}

func LoadFromEnv() *Config {
	cfg := &Config{
		SecretKey: getEnvOrDefault("SECRET_KEY", DefaultSecretKey),

		LLMProvider:     strings.ToLower(getEnvOrDefault("QUICKCAL_LLM_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:    getEnvOrDefault("OPEN_API_KEY", os.Getenv("OPENAI_API_KEY")),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		LLMModel:        os.Getenv("QUICKCAL_LLM_MODEL"),
		LLMMaxTokens:    getEnvAsIntOrDefault("QUICKCAL_LLM_MAX_TOKENS", 300),

		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),
		CalendarID:            getEnvOrDefault("QUICKCAL_CALENDAR_ID", "primary"),
		EventsFile:            getEnvOrDefault("QUICKCAL_EVENTS_FILE", "./events.json"),

		HTTPPort: getEnvAsIntOrDefault("QUICKCAL_HTTP_PORT", 5002),
		BaseURL:  os.Getenv("QUICKCAL_BASE_URL"),

		LogLevel: getEnvOrDefault("QUICKCAL_LOG_LEVEL", "info"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    os.Getenv("QUICKCAL_EMAIL_FROM"),
		NotifyEmail:  os.Getenv("QUICKCAL_NOTIFY_EMAIL"),
	}

	return cfg
}

// Load reads the environment and, when path is set, overlays the YAML file
// at path. Keys present in the file win over the environment.
func Load(path string) (*Config, error) {
	cfg := LoadFromEnv()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	return cfg, nil
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPEN_API_KEY is required for the openai provider"))
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the anthropic provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLMProvider))
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid http port %d", c.HTTPPort))
	}
	if c.LLMMaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("invalid llm max tokens %d", c.LLMMaxTokens))
	}

	return errors.Join(errs...)
}

// LLMAPIKey returns the key of the selected provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

// InsecureSecret reports whether the public default secret is in use.
func (c *Config) InsecureSecret() bool {
	return c.SecretKey == "" || c.SecretKey == DefaultSecretKey
}

// AppURL is the externally visible base URL, without a trailing slash.
func (c *Config) AppURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.HTTPPort)
}

// RedirectURL is the OAuth callback registered with Google.
func (c *Config) RedirectURL() string {
	return c.AppURL() + "/oauth/callback"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
