package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "GMAIL_USER", "GMAIL_PASS",
		"INVOICER_APP_NAME", "INVOICER_APP_ENV", "INVOICER_APP_PORT",
		"INVOICER_MAIL_PROVIDER", "INVOICER_MAIL_USERNAME", "INVOICER_MAIL_PASSWORD",
		"INVOICER_MAIL_FROM", "INVOICER_MAIL_INTERNAL_RECIPIENT", "INVOICER_MAIL_TLS_POLICY",
		"INVOICER_MAIL_POSTMARK_SERVER_TOKEN", "INVOICER_MAIL_INSECURE_SKIP_VERIFY",
		"INVOICER_RENDERER_ENGINE", "INVOICER_RENDERER_TIMEOUT",
		"INVOICER_HTTP_CORS_ALLOW_ORIGINS", "INVOICER_HTTP_RATE_LIMIT_ENABLED", "INVOICER_HTTP_RATE_LIMIT_REQUESTS",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GMAIL_USER", "billing@ntbusiness.co.za")
	t.Setenv("GMAIL_PASS", "app-password")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "invoice-service", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)
	assert.False(t, cfg.HTTP.RateLimitEnabled)
	assert.Equal(t, 30, cfg.HTTP.RateLimitRequests)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)

	assert.Equal(t, "chromedp", cfg.Renderer.Engine)
	assert.Equal(t, 30*time.Second, cfg.Renderer.Timeout)

	assert.Equal(t, "smtp", cfg.Mail.Provider)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "mandatory", cfg.Mail.TLSPolicy)
	assert.False(t, cfg.Mail.InsecureSkipVerify)
	assert.Equal(t, "billing@ntbusiness.co.za", cfg.Mail.Username)
	assert.Equal(t, "app-password", cfg.Mail.Password)
	assert.Equal(t, "billing@ntbusiness.co.za", cfg.Mail.From)
	assert.Equal(t, "billing@ntbusiness.co.za", cfg.Mail.InternalRecipient)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("INVOICER_APP_PORT", "9000")
	t.Setenv("INVOICER_MAIL_USERNAME", "user@x.com")
	t.Setenv("GMAIL_USER", "legacy@x.com")
	t.Setenv("INVOICER_MAIL_PASSWORD", "secret")
	t.Setenv("INVOICER_MAIL_FROM", "billing@x.com")
	t.Setenv("INVOICER_MAIL_INTERNAL_RECIPIENT", "accounts@x.com")
	t.Setenv("INVOICER_RENDERER_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "user@x.com", cfg.Mail.Username)
	assert.Equal(t, "billing@x.com", cfg.Mail.From)
	assert.Equal(t, "accounts@x.com", cfg.Mail.InternalRecipient)
	assert.Equal(t, 45*time.Second, cfg.Renderer.Timeout)
}

func TestLoad_LegacyPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("INVOICER_MAIL_PROVIDER", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
env = "staging"

[http]
cors_allow_origins = ["https://billing.ntbusiness.co.za"]
rate_limit_enabled = true

[renderer]
engine = "wkhtmltopdf"

[mail]
provider = "postmark"
from = "billing@ntbusiness.co.za"
postmark_server_token = "server-token"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, []string{"https://billing.ntbusiness.co.za"}, cfg.HTTP.CORSAllowOrigins)
	assert.True(t, cfg.HTTP.RateLimitEnabled)
	assert.Equal(t, "wkhtmltopdf", cfg.Renderer.Engine)
	assert.Equal(t, "postmark", cfg.Mail.Provider)
	assert.Equal(t, "server-token", cfg.Mail.PostmarkServerToken)
	assert.Equal(t, "billing@ntbusiness.co.za", cfg.Mail.InternalRecipient)
}

func TestLoadFile_Missing(t *testing.T) {
	clearEnv(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func validConfig() *Config {
	cfg := &Config{
		Mail: MailConfig{Username: "billing@x.com", Password: "secret"},
	}
	applyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"unknown engine", func(c *Config) { c.Renderer.Engine = "prince" }, "renderer.engine"},
		{"unknown provider", func(c *Config) { c.Mail.Provider = "fax" }, "mail.provider"},
		{"unknown tls policy", func(c *Config) { c.Mail.TLSPolicy = "maybe" }, "mail.tls_policy"},
		{"smtp without password", func(c *Config) { c.Mail.Password = "" }, "mail.password"},
		{"postmark without token", func(c *Config) { c.Mail.Provider = "postmark" }, "postmark_server_token"},
		{"negative rate limit window", func(c *Config) { c.HTTP.RateLimitWindow = -time.Second }, "rate_limit_window"},
		{"no internal recipient", func(c *Config) {
			c.Mail.From = ""
			c.Mail.InternalRecipient = ""
		}, "mail.internal_recipient"},
		{"rate limit without requests", func(c *Config) {
			c.HTTP.RateLimitEnabled = true
			c.HTTP.RateLimitRequests = 0
		}, "rate_limit_requests"},
		{"wildcard cors allowed in development", func(c *Config) { c.HTTP.CORSAllowOrigins = []string{"*"} }, ""},
		{"wildcard cors in production", func(c *Config) {
			c.App.Env = "production"
			c.HTTP.CORSAllowOrigins = []string{"*"}
		}, "cors_allow_origins"},
		{"dev provider in production", func(c *Config) {
			c.App.Env = "production"
			c.Mail.Provider = "dev"
		}, "mail.provider"},
		{"skip verify in production", func(c *Config) {
			c.App.Env = "production"
			c.Mail.InsecureSkipVerify = true
		}, "insecure_skip_verify"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile_DevProviderDefaultsAddresses(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[mail]
provider = "dev"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DevMailAddress, cfg.Mail.From)
	assert.Equal(t, DevMailAddress, cfg.Mail.InternalRecipient)
}

func TestLoadFile_DevProviderKeepsConfiguredRecipient(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[mail]
provider = "dev"
internal_recipient = "accounts@ntbusiness.co.za"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DevMailAddress, cfg.Mail.From)
	assert.Equal(t, "accounts@ntbusiness.co.za", cfg.Mail.InternalRecipient)
}

func TestLoadFile_NegativeRateLimitWindow(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[http]
rate_limit_window = "-1m"

[mail]
provider = "dev"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "rate_limit_window")
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{App: AppConfig{Env: "production"}}).IsProduction())
	assert.False(t, (&Config{App: AppConfig{Env: "development"}}).IsProduction())
}

func TestLoadFileForRendering_IgnoresMail(t *testing.T) {
	clearEnv(t)
	t.Setenv("INVOICER_RENDERER_ENGINE", "wkhtmltopdf")

	_, err := LoadFile("")
	require.Error(t, err, "smtp credentials are required for the full service")

	cfg, err := LoadFileForRendering("")
	require.NoError(t, err)
	assert.Equal(t, "wkhtmltopdf", cfg.Renderer.Engine)
}

func TestLoadFileForRendering_StillChecksRenderer(t *testing.T) {
	clearEnv(t)
	t.Setenv("INVOICER_RENDERER_ENGINE", "prince")

	_, err := LoadFileForRendering("")
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile),
		[]byte("GMAIL_USER=dotenv@ntbusiness.co.za\nGMAIL_PASS=from-dotenv\nPORT=4100\n"), 0o600))
	t.Chdir(dir)

	// Variables already in the environment win over the file
	t.Setenv("PORT", "4200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dotenv@ntbusiness.co.za", cfg.Mail.Username)
	assert.Equal(t, "from-dotenv", cfg.Mail.Password)
	assert.Equal(t, "4200", cfg.App.Port)
}
