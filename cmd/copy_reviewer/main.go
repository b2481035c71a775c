// Package main provides the copy_reviewer CLI: the HTTP API server plus
// one-shot review, improve and analyze commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/copy-reviewer/internal/config"
	"github.com/jonathan/copy-reviewer/internal/llm"
	"github.com/jonathan/copy-reviewer/internal/metrics"
)

// newClient builds the provider client. Tests replace it with a stub.
var newClient = func(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (llm.Client, error) {
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return nil, err
	}
	return client.WithMetrics(m), nil
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "copy_reviewer",
		Short:        "Cold email copy reviewer",
		Long:         "copy_reviewer scores cold outreach emails against proven patterns and rewrites them with an LLM.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Optional JSON or YAML config file (environment variables take precedence)")

	cmd.AddCommand(
		newServeCmd(opts),
		newReviewCmd(opts),
		newImproveCmd(opts),
		newAnalyzeCmd(opts),
	)
	return cmd
}

// loadSettings reads and validates configuration
func (o *rootOptions) loadSettings() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
