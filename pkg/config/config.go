package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Pipeline
	Season           int    `mapstructure:"SEASON"`
	OutputDir        string `mapstructure:"OUTPUT_DIR"`
	OutputFormat     string `mapstructure:"OUTPUT_FORMAT"` // "array" or "schema"
	Validate         bool   `mapstructure:"VALIDATE"`
	StrictValidation bool   `mapstructure:"STRICT_VALIDATION"`

	// Sources, as "name=url-or-path" pairs in processing order
	Sources   []SourceSpec `mapstructure:"-"`
	ADPSource string       `mapstructure:"ADP_SOURCE"`

	// Optional enrichment inputs (YAML)
	RiskInput     string `mapstructure:"RISK_INPUT"`
	ScheduleInput string `mapstructure:"SCHEDULE_INPUT"`

	// Source fetching
	RedisURL                string        `mapstructure:"REDIS_URL"`
	CacheTTL                time.Duration `mapstructure:"CACHE_TTL"`
	HTTPTimeout             time.Duration `mapstructure:"HTTP_TIMEOUT"`
	RetryCount              int           `mapstructure:"RETRY_COUNT"`
	RequestsPerSecond       float64       `mapstructure:"REQUESTS_PER_SECOND"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`

	// Publishing
	S3Bucket       string `mapstructure:"S3_BUCKET"`
	AWSRegion      string `mapstructure:"AWS_REGION"`
	SNSTopicARN    string `mapstructure:"SNS_TOPIC_ARN"`
	PushgatewayURL string `mapstructure:"PUSHGATEWAY_URL"`
}

// SourceSpec names one projection source and where its rows come from.
type SourceSpec struct {
	Name     string
	Location string
}

// LoadConfig reads configuration from an optional .env file and the environment.
func LoadConfig() (*Config, error) {
	// .env is optional; variables already in the environment win
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("SEASON", time.Now().Year())
	v.SetDefault("OUTPUT_DIR", "processed")
	v.SetDefault("OUTPUT_FORMAT", "array")
	v.SetDefault("VALIDATE", true)
	v.SetDefault("STRICT_VALIDATION", false)

	v.SetDefault("SOURCES", "")
	v.SetDefault("ADP_SOURCE", "")
	v.SetDefault("RISK_INPUT", "")
	v.SetDefault("SCHEDULE_INPUT", "")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "2h")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("RETRY_COUNT", 3)
	v.SetDefault("REQUESTS_PER_SECOND", 2.0)
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)

	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("SNS_TOPIC_ARN", "")
	v.SetDefault("PUSHGATEWAY_URL", "")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	sources, err := ParseSources(v.GetString("SOURCES"))
	if err != nil {
		return nil, err
	}
	config.Sources = sources

	return &config, nil
}

// ParseSources parses a comma-separated list of name=location pairs.
func ParseSources(raw string) ([]SourceSpec, error) {
	var specs []SourceSpec
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, location, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		location = strings.TrimSpace(location)
		if !ok || name == "" || location == "" {
			return nil, fmt.Errorf("invalid source %q: expected name=location", part)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("duplicate source %q", name)
		}
		seen[strings.ToLower(name)] = true
		specs = append(specs, SourceSpec{Name: name, Location: location})
	}
	return specs, nil
}

// ValidateForRun checks the settings a pipeline run cannot do without.
func (c *Config) ValidateForRun(upload bool) error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no projection sources configured (set SOURCES)")
	}
	if c.ADPSource == "" {
		return fmt.Errorf("no ADP source configured (set ADP_SOURCE)")
	}
	if c.OutputFormat != "array" && c.OutputFormat != "schema" {
		return fmt.Errorf("invalid OUTPUT_FORMAT %q: must be array or schema", c.OutputFormat)
	}
	if upload && c.S3Bucket == "" {
		return fmt.Errorf("upload requested but S3_BUCKET is not set")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
