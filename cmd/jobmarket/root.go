package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobmarket/internal/adapter"
	"github.com/amishk599/jobmarket/internal/ai"
	"github.com/amishk599/jobmarket/internal/config"
	"github.com/amishk599/jobmarket/internal/model"
	"github.com/amishk599/jobmarket/internal/notifier"
	"github.com/amishk599/jobmarket/internal/pipeline"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobmarket",
	Short: "Job market analysis from live postings",
	Long:  "jobmarket searches current job postings and asks an LLM for a market analysis of them.",
	// Default to `analyze` so that `jobmarket` with no args runs the pipeline.
	RunE:          runAnalyze,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBMARKET_CONFIG env var or ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env, resolves the config path and parses it.
// Priority: explicit path arg > JOBMARKET_CONFIG env var > "./config.yaml" > built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	if path == "" {
		path = os.Getenv("JOBMARKET_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

// setupLogger logs to stderr so stdout carries only the analysis.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// withRunID tags every log line of one run with a fresh id.
func withRunID(logger *slog.Logger) *slog.Logger {
	return logger.With("run_id", uuid.NewString())
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeout}
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewStdoutNotifier(os.Stdout)
	}
}

func buildPipeline(cfg *config.Config, httpClient *http.Client, n model.Notifier, logger *slog.Logger) *pipeline.MarketPipeline {
	searcher := adapter.NewJSearchAdapter(cfg.Search.BaseURL, cfg.Search.Host, cfg.Search.APIKey, httpClient)
	provider := ai.NewOpenAIProvider(cfg.Analysis.BaseURL, cfg.Analysis.APIKey, cfg.Analysis.Model, httpClient)
	analyzer := ai.NewMarketAnalyzer(provider, logger)

	params := model.SearchParams{
		Query:      cfg.Search.Query,
		Page:       cfg.Search.Page,
		DatePosted: cfg.Search.DatePosted,
	}
	return pipeline.NewMarketPipeline(searcher, params, cfg.Analysis.Topic, analyzer, n, logger)
}
