package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobmarket/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  "Loads the config (file, environment and defaults) and prints the resolved values with secrets masked.",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	printConfig(cfg)

	if missing := cfg.MissingSecrets(); len(missing) > 0 {
		fmt.Printf("\nMissing secrets: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func printConfig(cfg *config.Config) {
	timeout := "none"
	if cfg.HTTPTimeout > 0 {
		timeout = cfg.HTTPTimeout.String()
	}

	rows := [][2]string{
		{"search.base_url", cfg.Search.BaseURL},
		{"search.host", cfg.Search.Host},
		{"search.api_key", mask(cfg.Search.APIKey)},
		{"search.query", cfg.Search.Query},
		{"search.page", fmt.Sprint(cfg.Search.Page)},
		{"search.date_posted", cfg.Search.DatePosted},
		{"analysis.topic", cfg.Analysis.Topic},
		{"analysis.base_url", cfg.Analysis.BaseURL},
		{"analysis.model", cfg.Analysis.Model},
		{"analysis.api_key", mask(cfg.Analysis.APIKey)},
		{"notification.type", cfg.Notification.Type},
		{"notification.webhook_url", mask(cfg.Notification.WebhookURL)},
		{"http_timeout", timeout},
	}

	fmt.Printf("%-26s %s\n", "Key", "Value")
	fmt.Println(strings.Repeat("─", 60))
	for _, r := range rows {
		fmt.Printf("%-26s %s\n", r[0], r[1])
	}
}

// mask hides all but the last four characters of a secret.
func mask(s string) string {
	switch {
	case s == "":
		return "(unset)"
	case len(s) <= 4:
		return strings.Repeat("*", len(s))
	default:
		return strings.Repeat("*", 8) + s[len(s)-4:]
	}
}
