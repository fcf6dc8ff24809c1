package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Chrome    ChromeConfig
	Export    ExportConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// ChromeConfig holds the headless browser used for capture and printing
type ChromeConfig struct {
	RemoteURL      string        // ws:// URL of a running browser; empty launches one
	NoSandbox      bool          // required when running as root in containers
	Timeout        time.Duration // per-operation limit; negative disables it
	ViewportWidth  int64
	ViewportHeight int64
}

// ExportConfig holds the export pipeline settings
type ExportConfig struct {
	PaperSize   string  // A4, A5, LETTER
	MarginMM    float64 // margin around the placed image
	PrintMargin float64 // @page margin of the print path
	Scale       float64 // capture device scale
	JPEGQuality int     // 1-100
}

// StorageConfig holds the output storage settings
type StorageConfig struct {
	Driver            string // filesystem or s3
	BasePath          string // filesystem root
	BaseURL           string // URL prefix for downloads
	Retention         time.Duration // zero keeps files forever
	SweepInterval     time.Duration
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	// Metrics and logs go to the same collector, each behind its own switch
	MetricsEnabled  bool
	MetricsInterval time.Duration // push interval (default: 60s)
	LogsEnabled     bool
}

// Storage drivers
const (
	StorageDriverFilesystem = "filesystem"
	StorageDriverS3         = "s3"
)

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with DOCGEN_ prefix (e.g., DOCGEN_STORAGE_BUCKET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("DOCGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Chrome: ChromeConfig{
			RemoteURL:      v.GetString("chrome.remote_url"),
			NoSandbox:      v.GetBool("chrome.no_sandbox"),
			Timeout:        v.GetDuration("chrome.timeout"),
			ViewportWidth:  v.GetInt64("chrome.viewport_width"),
			ViewportHeight: v.GetInt64("chrome.viewport_height"),
		},
		Export: ExportConfig{
			PaperSize:   v.GetString("export.paper_size"),
			MarginMM:    v.GetFloat64("export.margin_mm"),
			PrintMargin: v.GetFloat64("export.print_margin_mm"),
			Scale:       v.GetFloat64("export.scale"),
			JPEGQuality: v.GetInt("export.jpeg_quality"),
		},
		Storage: StorageConfig{
			Driver:            v.GetString("storage.driver"),
			BasePath:          v.GetString("storage.base_path"),
			BaseURL:           v.GetString("storage.base_url"),
			Retention:         v.GetDuration("storage.retention"),
			SweepInterval:     v.GetDuration("storage.sweep_interval"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "generatordok"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// exports wait on the browser, so writes get more room than reads
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 2 << 20 // 2MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Chrome.ViewportWidth == 0 {
		cfg.Chrome.ViewportWidth = 900
	}
	if cfg.Chrome.ViewportHeight == 0 {
		cfg.Chrome.ViewportHeight = 1200
	}
	if cfg.Export.PaperSize == "" {
		cfg.Export.PaperSize = "A4"
	}
	if cfg.Export.MarginMM == 0 {
		cfg.Export.MarginMM = 10
	}
	if cfg.Export.PrintMargin == 0 {
		cfg.Export.PrintMargin = 20
	}
	if cfg.Export.Scale == 0 {
		cfg.Export.Scale = 2
	}
	if cfg.Export.JPEGQuality == 0 {
		cfg.Export.JPEGQuality = 95
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageDriverFilesystem
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./data/exports"
	}
	if cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "/api/v1/exports"
	}
	if cfg.Storage.SweepInterval == 0 {
		cfg.Storage.SweepInterval = time.Hour
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "generatordok"
	}
	if cfg.Telemetry.MetricsInterval <= 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch strings.ToUpper(c.Export.PaperSize) {
	case "A4", "A5", "LETTER":
		c.Export.PaperSize = strings.ToUpper(c.Export.PaperSize)
	default:
		return fmt.Errorf("export.paper_size must be one of A4, A5, LETTER, got %q", c.Export.PaperSize)
	}
	if c.Export.MarginMM < 0 || c.Export.MarginMM > 100 {
		return fmt.Errorf("export.margin_mm must be between 0 and 100")
	}
	if c.Export.Scale <= 0 || c.Export.Scale > 4 {
		return fmt.Errorf("export.scale must be in (0, 4], got %f", c.Export.Scale)
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return fmt.Errorf("export.jpeg_quality must be between 1 and 100, got %d", c.Export.JPEGQuality)
	}

	switch c.Storage.Driver {
	case StorageDriverFilesystem:
	case StorageDriverS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q",
			StorageDriverFilesystem, StorageDriverS3, c.Storage.Driver)
	}

	if c.App.Env == "production" {
		// CORS must not use wildcard in production
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}
