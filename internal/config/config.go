package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. DAILYREPORT_SERVER_PORT.
const EnvPrefix = "DAILYREPORT"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Upload    UploadConfig    `yaml:"upload" envconfig:"UPLOAD"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8501"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"5"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"10"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// UploadConfig bounds what the upload form accepts and how long results stay downloadable
type UploadConfig struct {
	MaxBytes    int64         `yaml:"max_bytes" envconfig:"MAX_BYTES" default:"20971520"`
	DownloadTTL time.Duration `yaml:"download_ttl" envconfig:"DOWNLOAD_TTL" default:"30m"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"production"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS" default:"true"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays explicitly set environment variables on top of the file config.
// envconfig fills defaults for unset variables, so only variables present in the
// environment take precedence over the file.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := fileConfig

	if isSet("SERVER_PORT") || merged.Server.Port == 0 {
		merged.Server.Port = envConfig.Server.Port
	}
	if isSet("SERVER_READ_TIMEOUT") || merged.Server.ReadTimeout == 0 {
		merged.Server.ReadTimeout = envConfig.Server.ReadTimeout
	}
	if isSet("SERVER_WRITE_TIMEOUT") || merged.Server.WriteTimeout == 0 {
		merged.Server.WriteTimeout = envConfig.Server.WriteTimeout
	}
	if isSet("SERVER_IDLE_TIMEOUT") || merged.Server.IdleTimeout == 0 {
		merged.Server.IdleTimeout = envConfig.Server.IdleTimeout
	}
	if isSet("SERVER_SHUTDOWN_TIMEOUT") || merged.Server.ShutdownTimeout == 0 {
		merged.Server.ShutdownTimeout = envConfig.Server.ShutdownTimeout
	}

	if isSet("SECURITY_RATE_LIMIT_ENABLED") {
		merged.Security.RateLimit.Enabled = envConfig.Security.RateLimit.Enabled
	}
	if isSet("SECURITY_RATE_LIMIT_RPS") || merged.Security.RateLimit.RPS == 0 {
		merged.Security.RateLimit.RPS = envConfig.Security.RateLimit.RPS
	}
	if isSet("SECURITY_RATE_LIMIT_BURST") || merged.Security.RateLimit.Burst == 0 {
		merged.Security.RateLimit.Burst = envConfig.Security.RateLimit.Burst
	}

	if isSet("LOGGING_LEVEL") || merged.Logging.Level == "" {
		merged.Logging.Level = envConfig.Logging.Level
	}
	if isSet("LOGGING_FORMAT") || merged.Logging.Format == "" {
		merged.Logging.Format = envConfig.Logging.Format
	}
	if isSet("LOGGING_OUTPUT") || merged.Logging.Output == "" {
		merged.Logging.Output = envConfig.Logging.Output
	}
	if isSet("LOGGING_FILE_PATH") || merged.Logging.FilePath == "" {
		merged.Logging.FilePath = envConfig.Logging.FilePath
	}

	if isSet("UPLOAD_MAX_BYTES") || merged.Upload.MaxBytes == 0 {
		merged.Upload.MaxBytes = envConfig.Upload.MaxBytes
	}
	if isSet("UPLOAD_DOWNLOAD_TTL") || merged.Upload.DownloadTTL == 0 {
		merged.Upload.DownloadTTL = envConfig.Upload.DownloadTTL
	}

	if isSet("TELEMETRY_ENVIRONMENT") || merged.Telemetry.Environment == "" {
		merged.Telemetry.Environment = envConfig.Telemetry.Environment
	}
	if isSet("TELEMETRY_TRACE_EXPORTER") || merged.Telemetry.TraceExporter == "" {
		merged.Telemetry.TraceExporter = envConfig.Telemetry.TraceExporter
	}
	if isSet("TELEMETRY_ENABLE_METRICS") {
		merged.Telemetry.EnableMetrics = envConfig.Telemetry.EnableMetrics
	}
	if isSet("TELEMETRY_SAMPLE_RATIO") || merged.Telemetry.SampleRatio == 0 {
		merged.Telemetry.SampleRatio = envConfig.Telemetry.SampleRatio
	}

	return merged
}

func isSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}

	if c.Upload.DownloadTTL <= 0 {
		return fmt.Errorf("download ttl must be positive")
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", c.Telemetry.TraceExporter)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("sample ratio must be within [0,1]: %v", c.Telemetry.SampleRatio)
	}

	// Logs are always structured JSON
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8501,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     5,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Upload: UploadConfig{
			MaxBytes:    20 << 20, // 20MB
			DownloadTTL: 30 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			Environment:   "production",
			TraceExporter: "none",
			EnableMetrics: true,
			SampleRatio:   1,
		},
	}
}
