package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harvestlane/contactsync/internal/analysis"
	"github.com/harvestlane/contactsync/internal/config"
	"github.com/harvestlane/contactsync/internal/models"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	NoSummary  bool
	NoKeywords bool
	Suggestion bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <message>",
		Short: "Analyze a customer message",
		Long: `Analyze a customer message for sentiment, a short summary, and
keywords. Uses the configured AI provider when one is set, and a local
heuristic otherwise.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&opts.NoSummary, "no-summary", false, "skip the summary")
	cmd.Flags().BoolVar(&opts.NoKeywords, "no-keywords", false, "skip keyword extraction")
	cmd.Flags().BoolVar(&opts.Suggestion, "suggest", false, "include a suggested response")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions, message string) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	analyzer := analysis.New(analysis.Config{
		Provider: analysis.Provider(cfg.Analysis.Provider),
		APIKey:   cfg.Analysis.APIKey,
		Model:    cfg.Analysis.Model,
		Endpoint: cfg.Analysis.Endpoint,
		Timeout:  cfg.Analysis.Timeout(),
	})

	analysisOpts := models.AnalysisOptions{
		IncludeSentiment:  true,
		IncludeSummary:    !opts.NoSummary,
		IncludeKeywords:   !opts.NoKeywords,
		IncludeSuggestion: opts.Suggestion,
	}

	result, err := analyzer.Analyze(cmd.Context(), message, analysisOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return printJSON(out, result)
	}

	fmt.Fprintf(out, "Sentiment: %s\n", result.Sentiment)
	if result.Summary != "" {
		fmt.Fprintf(out, "Summary:   %s\n", result.Summary)
	}
	if len(result.Keywords) > 0 {
		fmt.Fprintf(out, "Keywords:  %s\n", strings.Join(result.Keywords, ", "))
	}
	if result.Suggestion != "" {
		fmt.Fprintf(out, "Suggested: %s\n", result.Suggestion)
	}
	return nil
}
