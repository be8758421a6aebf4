package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobmarket/internal/model"
	"github.com/amishk599/jobmarket/internal/progress"
)

var (
	strict   bool
	usePager bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Search postings and print an LLM market analysis",
	Long:  "Runs one search, composes the analysis prompt and prints the model's answer. Upstream failures degrade instead of aborting.",
	RunE:  runAnalyze,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, analyzeCmd} {
		c.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the analysis is an error message")
		c.Flags().BoolVar(&usePager, "pager", false, "show the analysis in a scrollable view (terminal only)")
	}
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = withRunID(logger)

	logger.Debug("config loaded",
		"query", cfg.Search.Query,
		"page", cfg.Search.Page,
		"date_posted", cfg.Search.DatePosted,
		"model", cfg.Analysis.Model,
		"notification", cfg.Notification.Type,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpClient := newHTTPClient(cfg)

	// The pager replaces stdout printing; other notifiers still run.
	pagerOn := usePager && cfg.Notification.Type == "stdout" && progress.IsTerminal(os.Stdout)
	var n model.Notifier
	if !pagerOn {
		n = setupNotifier(cfg, httpClient, logger)
	}

	p := buildPipeline(cfg, httpClient, n, logger)
	if progress.IsTerminal(os.Stderr) {
		p.SetStepRunner(progress.NewSpinner(os.Stderr, cancel))
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if pagerOn {
		if err := progress.ShowPager("Job market analysis: "+result.Topic, result.Text); err != nil {
			logger.Warn("pager unavailable, printing instead", "error", err)
			os.Stdout.WriteString(result.Text + "\n")
		}
	}

	if strict && result.Err != nil {
		return fmt.Errorf("analysis failed: %w", result.Err)
	}
	return nil
}
