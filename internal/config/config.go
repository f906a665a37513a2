// Package config loads the tracker configuration from a JSON or YAML file,
// with secrets taken from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Renderer names accepted by browser.renderer.
const (
	RendererChrome = "chrome"
	RendererStatic = "static"
)

// Config is the run configuration. It is loaded once and treated as
// read-only afterwards.
type Config struct {
	PriceThreshold      float64 `mapstructure:"price_threshold"       yaml:"price_threshold"`
	ScreenshotOnError   bool    `mapstructure:"screenshot_on_error"   yaml:"screenshot_on_error"`
	ExplicitWaitSeconds float64 `mapstructure:"explicit_wait_timeout" yaml:"explicit_wait_timeout"`
	ImplicitWaitSeconds float64 `mapstructure:"implicit_wait_timeout" yaml:"implicit_wait_timeout"`

	EmailAlerts EmailConfig    `mapstructure:"email_alerts" yaml:"email_alerts"`
	Discord     DiscordConfig  `mapstructure:"discord"      yaml:"discord"`
	Output      OutputConfig   `mapstructure:"output"       yaml:"output"`
	Browser     BrowserConfig  `mapstructure:"browser"      yaml:"browser"`
	Storage     StorageConfig  `mapstructure:"storage"      yaml:"storage"`
	Schedule    ScheduleConfig `mapstructure:"schedule"     yaml:"schedule"`
	Server      ServerConfig   `mapstructure:"server"       yaml:"server"`
	Tracing     TracingConfig  `mapstructure:"tracing"      yaml:"tracing"`
	Logging     LoggingConfig  `mapstructure:"logging"      yaml:"logging"`

	// File is the config file that was read, empty when defaults were used.
	File string `mapstructure:"-" yaml:"-"`
}

// EmailConfig defines SMTP alert delivery.
type EmailConfig struct {
	Enabled        bool   `mapstructure:"enabled"         yaml:"enabled"`
	SenderEmail    string `mapstructure:"sender_email"    yaml:"sender_email"`
	Password       string `mapstructure:"password"        yaml:"password"`
	RecipientEmail string `mapstructure:"recipient_email" yaml:"recipient_email"`
	SMTPServer     string `mapstructure:"smtp_server"     yaml:"smtp_server"`
	SMTPPort       int    `mapstructure:"smtp_port"       yaml:"smtp_port"`
}

// HasCredentials reports whether sender, password and recipient are all set.
func (e *EmailConfig) HasCredentials() bool {
	return e.SenderEmail != "" && e.Password != "" && e.RecipientEmail != ""
}

// Addr returns the SMTP host:port.
func (e *EmailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", e.SMTPServer, e.SMTPPort)
}

// DiscordConfig defines Discord webhook alert delivery.
type DiscordConfig struct {
	Enabled    bool   `mapstructure:"enabled"     yaml:"enabled"`
	WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url"`
}

// OutputConfig defines where observations and captures are written.
type OutputConfig struct {
	ResultsFile    string `mapstructure:"results_file"    yaml:"results_file"`
	ScreenshotsDir string `mapstructure:"screenshots_dir" yaml:"screenshots_dir"`
}

// BrowserConfig defines how pages are rendered.
type BrowserConfig struct {
	Renderer          string  `mapstructure:"renderer"    yaml:"renderer"` // chrome, static
	PageSettleSeconds float64 `mapstructure:"page_settle" yaml:"page_settle"`
	UserAgent         string  `mapstructure:"user_agent"  yaml:"user_agent"`
	Headless          bool    `mapstructure:"headless"    yaml:"headless"`
}

// StorageConfig defines the optional PostgreSQL observation log.
type StorageConfig struct {
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

// ScheduleConfig defines the interval between runs in schedule mode.
type ScheduleConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// ServerConfig defines the status server used in schedule mode.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// TracingConfig defines OTLP trace export.
type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// Threshold returns the alert threshold as a decimal.
func (c *Config) Threshold() decimal.Decimal {
	return decimal.NewFromFloat(c.PriceThreshold)
}

// ExplicitWait is how long a mandatory-field selector may wait.
func (c *Config) ExplicitWait() time.Duration {
	return seconds(c.ExplicitWaitSeconds)
}

// ImplicitWait is how long an optional-field selector may wait.
func (c *Config) ImplicitWait() time.Duration {
	return seconds(c.ImplicitWaitSeconds)
}

// PageSettle is the pause after navigation before fields are queried.
func (c *Config) PageSettle() time.Duration {
	return seconds(c.Browser.PageSettleSeconds)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults always validate; a failure here is a programming error.
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return cfg
}

// Load reads path (JSON or YAML by extension), applies defaults and
// environment overrides, and validates the result. A missing file is not an
// error: the defaults are returned with File left empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("binding environment: %w", err)
	}

	cfg := &Config{}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !isNotFound(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else {
			cfg.File = v.ConfigFileUsed()
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("price_threshold", 50.0)
	v.SetDefault("screenshot_on_error", true)
	v.SetDefault("explicit_wait_timeout", 20)
	v.SetDefault("implicit_wait_timeout", 10)

	v.SetDefault("email_alerts.enabled", false)
	v.SetDefault("email_alerts.sender_email", "")
	v.SetDefault("email_alerts.password", "")
	v.SetDefault("email_alerts.recipient_email", "")
	v.SetDefault("email_alerts.smtp_server", "smtp.gmail.com")
	v.SetDefault("email_alerts.smtp_port", 587)

	v.SetDefault("discord.enabled", false)
	v.SetDefault("discord.webhook_url", "")

	v.SetDefault("output.results_file", "results.csv")
	v.SetDefault("output.screenshots_dir", "screenshots")

	v.SetDefault("browser.renderer", RendererChrome)
	v.SetDefault("browser.page_settle", 2)
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.headless", false)

	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("schedule.interval", 6*time.Hour)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("tracing.otlp_endpoint", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// envBindings maps config keys to the environment variables that override
// them. Environment values win over the config file.
var envBindings = map[string]string{
	"email_alerts.sender_email":    "EMAIL_SENDER",
	"email_alerts.password":        "EMAIL_PASSWORD",
	"email_alerts.recipient_email": "EMAIL_RECIPIENT",
	"discord.webhook_url":          "DISCORD_WEBHOOK_URL",
	"storage.postgres_dsn":         "DEALHOUND_POSTGRES_DSN",
	"tracing.otlp_endpoint":        "OTEL_EXPORTER_OTLP_ENDPOINT",
	"logging.level":                "DEALHOUND_LOG_LEVEL",
}

func bindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

func validate(cfg *Config) error {
	var errs []error

	if math.IsNaN(cfg.PriceThreshold) || math.IsInf(cfg.PriceThreshold, 0) || cfg.PriceThreshold <= 0 {
		errs = append(errs, fmt.Errorf("price_threshold must be a positive number (got %v)", cfg.PriceThreshold))
	}
	if cfg.ExplicitWaitSeconds < 0 {
		errs = append(errs, fmt.Errorf("explicit_wait_timeout must not be negative"))
	}
	if cfg.ImplicitWaitSeconds < 0 {
		errs = append(errs, fmt.Errorf("implicit_wait_timeout must not be negative"))
	}
	if cfg.Browser.PageSettleSeconds < 0 {
		errs = append(errs, fmt.Errorf("browser.page_settle must not be negative"))
	}

	switch cfg.Browser.Renderer {
	case RendererChrome, RendererStatic:
	default:
		errs = append(errs, fmt.Errorf(
			"browser.renderer must be one of: chrome, static (got %q)",
			cfg.Browser.Renderer,
		))
	}

	if cfg.EmailAlerts.Enabled && (cfg.EmailAlerts.SMTPPort <= 0 || cfg.EmailAlerts.SMTPPort > 65535) {
		errs = append(errs, fmt.Errorf("email_alerts.smtp_port must be between 1 and 65535"))
	}

	if cfg.Schedule.Interval <= 0 {
		errs = append(errs, fmt.Errorf("schedule.interval must be positive"))
	}

	return errors.Join(errs...)
}

// Redacted returns a copy with secrets masked, suitable for printing.
func (c *Config) Redacted() *Config {
	out := *c
	out.EmailAlerts.Password = mask(out.EmailAlerts.Password)
	out.Discord.WebhookURL = mask(out.Discord.WebhookURL)
	out.Storage.PostgresDSN = mask(out.Storage.PostgresDSN)
	return &out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
