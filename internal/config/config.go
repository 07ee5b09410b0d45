// Package config holds runtime settings. Values come from defaults, an
// optional config file, environment variables and CLI flags, via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/deusflow/scidigest/internal/article"
)

// Keys shared by viper, environment variables (upper-cased) and flags.
const (
	KeySources            = "sources"
	KeyGoogleAPIKey       = "google_api_key"
	KeyGeminiAPIKey       = "gemini_api_key"
	KeyModel              = "model"
	KeyDays               = "days"
	KeyFrom               = "from"
	KeyTo                 = "to"
	KeyHTMLOutput         = "html_output"
	KeyHTMLWidth          = "html_width"
	KeySummaryConcurrency = "summary_concurrency"
	KeyFetchFullText      = "fetch_full_text"
	KeyScrapeConcurrency  = "scrape_concurrency"
	KeyRequestTimeout     = "request_timeout"
	KeyDebug              = "debug"
	KeySchedule           = "schedule"
	KeyMonitoringPort     = "monitoring_port"
	KeySMTPHost           = "smtp_host"
	KeySMTPPort           = "smtp_port"
	KeySMTPUsername       = "smtp_username"
	KeySMTPPassword       = "smtp_password"
	KeyEmailFrom          = "email_from"
	KeyEmailTo            = "email_to"
)

type Config struct {
	// Feeds
	SourcesPath    string
	RequestTimeout time.Duration

	// Gemini settings
	GoogleAPIKey       string
	Model              string
	SummaryConcurrency int

	// Date window: the last Days days, unless From/To (YYYY-MM-DD) pin it.
	Days int
	From string
	To   string

	// Full-text enrichment for entries without content
	FetchFullText     bool
	ScrapeConcurrency int

	// Output
	HTMLOutput string
	HTMLWidth  int
	Email      EmailConfig

	// App settings
	Debug          bool
	Schedule       string // cron expression; empty runs once
	MonitoringPort string // empty disables /health and /metrics
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
	To       []string
}

// Enabled reports whether the HTML report should be mailed.
func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != ""
}

// SetDefaults registers default values and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySources, "configs/sources.yaml")
	v.SetDefault(KeyModel, "gemini-2.0-flash")
	v.SetDefault(KeyDays, 7)
	v.SetDefault(KeyHTMLWidth, 700)
	v.SetDefault(KeySummaryConcurrency, 1)
	v.SetDefault(KeyFetchFullText, false)
	v.SetDefault(KeyScrapeConcurrency, 4)
	v.SetDefault(KeyRequestTimeout, 30*time.Second)
	v.SetDefault(KeySMTPPort, 587)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// Load reads every setting from v and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		SourcesPath:        v.GetString(KeySources),
		RequestTimeout:     v.GetDuration(KeyRequestTimeout),
		GoogleAPIKey:       v.GetString(KeyGoogleAPIKey),
		Model:              v.GetString(KeyModel),
		SummaryConcurrency: v.GetInt(KeySummaryConcurrency),
		Days:               v.GetInt(KeyDays),
		From:               strings.TrimSpace(v.GetString(KeyFrom)),
		To:                 strings.TrimSpace(v.GetString(KeyTo)),
		FetchFullText:      v.GetBool(KeyFetchFullText),
		ScrapeConcurrency:  v.GetInt(KeyScrapeConcurrency),
		HTMLOutput:         v.GetString(KeyHTMLOutput),
		HTMLWidth:          v.GetInt(KeyHTMLWidth),
		Debug:              v.GetBool(KeyDebug),
		Schedule:           strings.TrimSpace(v.GetString(KeySchedule)),
		MonitoringPort:     v.GetString(KeyMonitoringPort),
		Email: EmailConfig{
			SMTPHost: v.GetString(KeySMTPHost),
			SMTPPort: v.GetInt(KeySMTPPort),
			Username: v.GetString(KeySMTPUsername),
			Password: v.GetString(KeySMTPPassword),
			From:     v.GetString(KeyEmailFrom),
			To:       splitList(v.GetStringSlice(KeyEmailTo)),
		},
	}

	// GEMINI_API_KEY is accepted as an alias.
	if cfg.GoogleAPIKey == "" {
		cfg.GoogleAPIKey = v.GetString(KeyGeminiAPIKey)
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SourcesPath == "" {
		return fmt.Errorf("%s is required", KeySources)
	}
	if c.Days < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", KeyDays, c.Days)
	}
	if c.HTMLWidth <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyHTMLWidth, c.HTMLWidth)
	}
	if c.SummaryConcurrency < 1 {
		return fmt.Errorf("%s must be >= 1, got %d", KeySummaryConcurrency, c.SummaryConcurrency)
	}
	if c.ScrapeConcurrency < 1 {
		return fmt.Errorf("%s must be >= 1, got %d", KeyScrapeConcurrency, c.ScrapeConcurrency)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyRequestTimeout)
	}
	if _, err := c.Window(time.Now(), time.Local); err != nil {
		return err
	}
	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("invalid %s %q: %w", KeySchedule, c.Schedule, err)
		}
	}
	if c.Email.Enabled() {
		if c.Email.From == "" {
			return fmt.Errorf("%s is required when %s is set", KeyEmailFrom, KeySMTPHost)
		}
		if len(c.Email.To) == 0 {
			return fmt.Errorf("%s is required when %s is set", KeyEmailTo, KeySMTPHost)
		}
	}
	return nil
}

// Window resolves the date window for a run starting at now.
func (c *Config) Window(now time.Time, loc *time.Location) (article.Window, error) {
	if c.From == "" && c.To == "" {
		return article.LastDays(now, c.Days, loc), nil
	}

	end := now.In(loc)
	if c.To != "" {
		t, err := article.ParseDate(c.To, loc)
		if err != nil {
			return article.Window{}, fmt.Errorf("%s: %w", KeyTo, err)
		}
		end = t
	}

	start := end.AddDate(0, 0, -c.Days)
	if c.From != "" {
		t, err := article.ParseDate(c.From, loc)
		if err != nil {
			return article.Window{}, fmt.Errorf("%s: %w", KeyFrom, err)
		}
		start = t
	}

	return article.NewWindow(start, end, loc)
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
