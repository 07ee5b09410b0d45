// Command scidigest fetches scientific feeds, summarizes the recent articles
// and prints a digest. It runs once, or on a cron schedule with --schedule.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deusflow/scidigest/internal/app"
	"github.com/deusflow/scidigest/internal/config"
	"github.com/deusflow/scidigest/internal/email"
	"github.com/deusflow/scidigest/internal/logger"
	"github.com/deusflow/scidigest/internal/metrics"
	"github.com/deusflow/scidigest/internal/rss"
	"github.com/deusflow/scidigest/internal/scraper"
	"github.com/deusflow/scidigest/internal/summary"
)

var rootCmd = &cobra.Command{
	Use:   "scidigest",
	Short: "Summarize recent scientific articles from RSS/Atom feeds",
	Long: `scidigest reads a list of feeds, keeps the articles published in the
requested date window, asks Gemini for a short summary of each one and for a
digest of the major themes, then prints the report and optionally writes it
as HTML or mails it.

Without GOOGLE_API_KEY the report still lists titles, sources and links.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scidigest.yaml)")
	flags.String("sources", "", "YAML file listing feeds (name, url)")
	flags.Int("days", 0, "include articles published in the last N days")
	flags.String("from", "", "window start date, YYYY-MM-DD")
	flags.String("to", "", "window end date, YYYY-MM-DD")
	flags.String("model", "", "Gemini model name")
	flags.Int("summary-concurrency", 0, "parallel summarization calls")
	flags.Bool("fetch-full-text", false, "scrape article pages when a feed has no content")
	flags.String("html-output", "", "write the HTML report to this file")
	flags.Int("html-width", 0, "max width of the HTML report in pixels")
	flags.String("schedule", "", "cron expression; run on this schedule instead of once")
	flags.String("monitoring-port", "", "serve /health and /metrics on this port")
	flags.Bool("debug", false, "enable debug logging")

	bind := map[string]string{
		config.KeySources:            "sources",
		config.KeyDays:               "days",
		config.KeyFrom:               "from",
		config.KeyTo:                 "to",
		config.KeyModel:              "model",
		config.KeySummaryConcurrency: "summary-concurrency",
		config.KeyFetchFullText:      "fetch-full-text",
		config.KeyHTMLOutput:         "html-output",
		config.KeyHTMLWidth:          "html-width",
		config.KeySchedule:           "schedule",
		config.KeyMonitoringPort:     "monitoring-port",
		config.KeyDebug:              "debug",
	}
	for key, flag := range bind {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scidigest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Init(cfg.Debug)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen, closeGen := summary.Connect(ctx, cfg.GoogleAPIKey, cfg.Model, log)
	defer closeGen()

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	deps := app.Deps{
		Fetcher:   rss.NewFetcher(httpClient, log, metrics.Global),
		Generator: gen,
		Metrics:   metrics.Global,
		Logger:    log,
	}
	if cfg.FetchFullText {
		deps.Enricher = scraper.New(httpClient, log)
	}
	if cfg.Email.Enabled() {
		deps.Mailer = email.NewSender(cfg.Email)
	}
	a := app.New(cfg, deps)

	if cfg.MonitoringPort != "" {
		srv := startMonitoringServer(cfg.MonitoringPort, metrics.Global, log)
		defer shutdownMonitoringServer(srv, log)
	}

	if cfg.Schedule == "" {
		_, err := a.Run(ctx)
		return err
	}
	return runScheduled(ctx, a, cfg.Schedule, log)
}

func runScheduled(ctx context.Context, a *app.App, schedule string, log *slog.Logger) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		log.Info("Cron triggered, running digest")
		if _, err := a.Run(ctx); err != nil {
			log.Error("Scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("set up cron schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Info("Scheduled digest", "schedule", schedule)

	<-ctx.Done()
	log.Info("Shutting down")
	<-c.Stop().Done()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
