package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides, e.g. INVOICER_MAIL_HOST
const EnvPrefix = "INVOICER"

// DotEnvFile is loaded into the environment, when present, before the
// configuration is read. Variables already set are not overridden.
const DotEnvFile = ".env"

// DevMailAddress is the sender and internal recipient of the dev mail
// provider when neither mail.from nor mail.username is set
const DevMailAddress = "invoices@localhost"

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Renderer RendererConfig
	Mail     MailConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// RendererConfig holds PDF engine settings
type RendererConfig struct {
	Engine          string // chromedp, wkhtmltopdf
	RemoteURL       string // DevTools URL of an already running Chrome
	NoSandbox       bool
	Timeout         time.Duration
	WkhtmltopdfPath string
}

// MailConfig holds mail delivery settings
type MailConfig struct {
	Provider           string // smtp, postmark, dev
	Host               string
	Port               int
	Username           string
	Password           string
	TLSPolicy          string // mandatory, opportunistic, none
	InsecureSkipVerify bool
	Timeout            time.Duration
	From               string
	// InternalRecipient receives the internal copy of every invoice
	InternalRecipient    string
	PostmarkServerToken  string
	PostmarkAccountToken string
	DevDir               string
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Load loads configuration from config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with INVOICER_ prefix (e.g., INVOICER_MAIL_PASSWORD),
// then the legacy PORT, GMAIL_USER and GMAIL_PASS variables, including
// those set by a .env file in the working directory
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is like Load but reads the given TOML file instead of searching
// for config.toml. An empty path searches the default locations.
func LoadFile(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFileForRendering is like LoadFile but skips the mail settings checks,
// for tools that render invoices without sending them.
func LoadFileForRendering(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateRendering(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading %s: %w", DotEnvFile, err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Variables the service has always been deployed with
	bindLegacyEnv(v, "app.port", "PORT")
	bindLegacyEnv(v, "mail.username", "GMAIL_USER")
	bindLegacyEnv(v, "mail.password", "GMAIL_PASS")

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
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Renderer: RendererConfig{
			Engine:          v.GetString("renderer.engine"),
			RemoteURL:       v.GetString("renderer.remote_url"),
			NoSandbox:       v.GetBool("renderer.no_sandbox"),
			Timeout:         v.GetDuration("renderer.timeout"),
			WkhtmltopdfPath: v.GetString("renderer.wkhtmltopdf_path"),
		},
		Mail: MailConfig{
			Provider:             v.GetString("mail.provider"),
			Host:                 v.GetString("mail.host"),
			Port:                 v.GetInt("mail.port"),
			Username:             v.GetString("mail.username"),
			Password:             v.GetString("mail.password"),
			TLSPolicy:            v.GetString("mail.tls_policy"),
			InsecureSkipVerify:   v.GetBool("mail.insecure_skip_verify"),
			Timeout:              v.GetDuration("mail.timeout"),
			From:                 v.GetString("mail.from"),
			InternalRecipient:    v.GetString("mail.internal_recipient"),
			PostmarkServerToken:  v.GetString("mail.postmark_server_token"),
			PostmarkAccountToken: v.GetString("mail.postmark_account_token"),
			DevDir:               v.GetString("mail.dev_dir"),
		},
	}

	applyDefaults(cfg)
	return cfg, nil
}

// bindLegacyEnv lets an unprefixed variable set key when the prefixed one is absent
func bindLegacyEnv(v *viper.Viper, key, legacy string) {
	prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	_ = v.BindEnv(key, prefixed, legacy)
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "invoice-service"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3000"
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
	// Rendering and two SMTP round trips happen inside one request
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 30
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// CORS origins have no fallback; an empty list allows no cross-origin requests.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Renderer.Engine == "" {
		cfg.Renderer.Engine = "chromedp"
	}
	if cfg.Renderer.Timeout == 0 {
		cfg.Renderer.Timeout = 30 * time.Second
	}
	if cfg.Renderer.WkhtmltopdfPath == "" {
		cfg.Renderer.WkhtmltopdfPath = "wkhtmltopdf"
	}
	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "smtp"
	}
	if cfg.Mail.Host == "" {
		cfg.Mail.Host = "smtp.gmail.com"
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.TLSPolicy == "" {
		cfg.Mail.TLSPolicy = "mandatory"
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 30 * time.Second
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}
	if cfg.Mail.From == "" && cfg.Mail.Provider == "dev" {
		cfg.Mail.From = DevMailAddress
	}
	if cfg.Mail.InternalRecipient == "" {
		cfg.Mail.InternalRecipient = cfg.Mail.From
	}
	if cfg.Mail.DevDir == "" {
		cfg.Mail.DevDir = "./tmp/mail"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if err := c.validateRendering(); err != nil {
		return err
	}
	return c.validateMail()
}

// validateRendering checks everything except the mail settings
func (c *Config) validateRendering() error {
	switch c.Renderer.Engine {
	case "chromedp", "wkhtmltopdf":
	default:
		return fmt.Errorf("renderer.engine must be chromedp or wkhtmltopdf, got %q", c.Renderer.Engine)
	}
	if c.Renderer.Timeout < 0 {
		return fmt.Errorf("renderer.timeout cannot be negative")
	}

	if c.HTTP.MaxBodySize < 0 {
		return fmt.Errorf("http.max_body_size cannot be negative")
	}
	if c.HTTP.RateLimitEnabled && c.HTTP.RateLimitRequests <= 0 {
		return fmt.Errorf("http.rate_limit_requests must be positive when rate limiting is enabled")
	}
	if c.HTTP.RateLimitWindow <= 0 {
		return fmt.Errorf("http.rate_limit_window must be positive")
	}

	if c.IsProduction() {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}
	return nil
}

// validateMail checks the settings of the configured mail provider
func (c *Config) validateMail() error {
	switch c.Mail.TLSPolicy {
	case "mandatory", "opportunistic", "none":
	default:
		return fmt.Errorf("mail.tls_policy must be mandatory, opportunistic or none, got %q", c.Mail.TLSPolicy)
	}

	switch c.Mail.Provider {
	case "smtp":
		if c.Mail.Username == "" || c.Mail.Password == "" {
			return fmt.Errorf("mail.username and mail.password are required for the smtp provider (or set GMAIL_USER and GMAIL_PASS)")
		}
		if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
			return fmt.Errorf("mail.port must be between 1 and 65535")
		}
	case "postmark":
		if c.Mail.PostmarkServerToken == "" {
			return fmt.Errorf("mail.postmark_server_token is required for the postmark provider")
		}
		if c.Mail.From == "" {
			return fmt.Errorf("mail.from is required for the postmark provider")
		}
	case "dev":
	default:
		return fmt.Errorf("mail.provider must be smtp, postmark or dev, got %q", c.Mail.Provider)
	}
	if c.Mail.InternalRecipient == "" {
		return fmt.Errorf("mail.internal_recipient (or mail.from) is required")
	}

	if c.IsProduction() {
		if c.Mail.Provider == "dev" {
			return fmt.Errorf("mail.provider cannot be 'dev' in production")
		}
		if c.Mail.InsecureSkipVerify {
			return fmt.Errorf("mail.insecure_skip_verify must be false in production")
		}
	}

	return nil
}
