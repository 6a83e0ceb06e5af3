package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress             string        `mapstructure:"SERVER_ADDRESS"`
	GinMode                   string        `mapstructure:"GIN_MODE"`
	LogLevel                  string        `mapstructure:"LOG_LEVEL"`
	LogFormat                 string        `mapstructure:"LOG_FORMAT"`
	GoogleMapsAPIKey          string        `mapstructure:"GOOGLE_MAPS_API_KEY"`
	GoogleMapsBaseURL         string        `mapstructure:"GOOGLE_MAPS_BASE_URL"`
	HTTPClientTimeout         time.Duration `mapstructure:"HTTP_CLIENT_TIMEOUT"`
	HTTPResponseHeaderTimeout time.Duration `mapstructure:"HTTP_RESPONSE_HEADER_TIMEOUT"`
	RetryMaxAttempts          int           `mapstructure:"RETRY_MAX_ATTEMPTS"`
	RetryBackoffFactor        time.Duration `mapstructure:"RETRY_BACKOFF_FACTOR"`
	RetryStatusCodes          []int         `mapstructure:"-"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":               ":8080",
	"GIN_MODE":                     "release",
	"LOG_LEVEL":                    "debug",
	"LOG_FORMAT":                   "console",
	"GOOGLE_MAPS_API_KEY":          "",
	"GOOGLE_MAPS_BASE_URL":         "https://maps.googleapis.com/maps/api",
	"HTTP_CLIENT_TIMEOUT":          "90s",
	"HTTP_RESPONSE_HEADER_TIMEOUT": "10s",
	"RETRY_MAX_ATTEMPTS":           5,
	"RETRY_BACKOFF_FACTOR":         "2s",
	"RETRY_STATUS_CODES":           "500,503,504",
}

// LoadConfig reads app.env from path, then lets environment variables
// override it. A missing file is not an error: every key has a default
// except the provider API key.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	// Lists coming from env files or variables arrive as one comma separated string.
	codes, err := parseStatusCodes(v.GetString("RETRY_STATUS_CODES"))
	if err != nil {
		return Config{}, err
	}
	cfg.RetryStatusCodes = codes

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.GoogleMapsAPIKey) == "" {
		return errors.New("config: GOOGLE_MAPS_API_KEY is required")
	}
	if c.GoogleMapsBaseURL == "" {
		return errors.New("config: GOOGLE_MAPS_BASE_URL must not be empty")
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("config: RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.RetryMaxAttempts)
	}
	if c.RetryBackoffFactor < 0 {
		return fmt.Errorf("config: RETRY_BACKOFF_FACTOR must not be negative, got %s", c.RetryBackoffFactor)
	}
	if c.HTTPClientTimeout <= 0 {
		return fmt.Errorf("config: HTTP_CLIENT_TIMEOUT must be positive, got %s", c.HTTPClientTimeout)
	}
	return nil
}

func parseStatusCodes(raw string) ([]int, error) {
	var codes []int
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		code, err := strconv.Atoi(field)
		if err != nil || code < 100 || code > 599 {
			return nil, fmt.Errorf("config: invalid status code %q in RETRY_STATUS_CODES", field)
		}
		codes = append(codes, code)
	}
	return codes, nil
}
