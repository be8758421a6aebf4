package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Search once and print the prompt, without calling the LLM",
	Long:  "Dry run: fetches postings, composes the analysis prompt and prints it. No completion request is made.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = withRunID(logger)

	logger.Info("check mode: the prompt is printed instead of sent")
	for _, env := range cfg.MissingSecrets() {
		logger.Warn("secret not set", "env", env)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := newHTTPClient(cfg)
	p := buildPipeline(cfg, httpClient, nil, logger)

	jobs := p.SearchJobs(ctx)
	prompt, err := p.ComposePrompt(jobs)
	if err != nil {
		return err
	}

	fmt.Println(prompt)
	logger.Info("check complete", "jobs", len(jobs))
	return nil
}
