package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"orginsights/internal/config"
	"orginsights/internal/domain"
	"orginsights/internal/gateway"
	"orginsights/internal/report"
	"orginsights/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyzes all repositories of a GitHub organization",
	Long: `Fetches every repository of the organization named by GITHUB_ORG, collects
per-repository metadata (language, topics, branches, contributors, license),
and writes a timestamped markdown insights report into the output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runAnalyze(cmd); code != 0 {
			os.Exit(code)
		}
	},
}

// runAnalyze wires the dependencies and runs the pipeline. It returns an
// exit code instead of calling os.Exit directly so that deferred cleanup
// (gateway shutdown, signal handler release) runs on every path.
func runAnalyze(cmd *cobra.Command) int {
	// Get the verbose flag from the root command to set up the logger.
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if verbose {
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
	}

	fmt.Println("🚀 GitHub Organization Analyzer")

	sortStr, _ := cmd.Flags().GetString("sort-active")
	sortBy, err := report.ParseSortPolicy(sortStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Fatal error: %v\n", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Fatal error: %v\n", err)
		return 1
	}

	// An interrupt cancels the context; the pipeline unwinds through the
	// next API call and the deferred cleanup below still runs.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := gateway.NewGitHubGateway(cfg.Token, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Fatal error: %v\n", err)
		return 1
	}
	defer gw.Close()

	if err := runAnalysis(ctx, cfg, gw, logger, sortBy); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\n⚠️ Analysis interrupted by user")
		} else {
			fmt.Fprintf(os.Stderr, "❌ Error during analysis: %v\n", err)
		}
		return 1
	}
	return 0
}

// runAnalysis executes the fetch, analyze, aggregate, render, save pipeline.
// Repositories are analyzed one at a time in listing order; the report file
// is only written once every repository has been analyzed.
func runAnalysis(ctx context.Context, cfg *config.Config, fetcher gateway.Fetcher, logger *log.Logger, sortBy report.SortPolicy) error {
	fmt.Printf("📊 Starting analysis for organization: %s\n", cfg.Org)

	fmt.Println("🔍 Fetching repositories...")
	repos, err := fetcher.ListRepositories(ctx, cfg.Org)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d repositories\n", len(repos))

	analyzer := usecase.NewAnalyzer(fetcher, logger)
	analyses := make([]*domain.RepositoryAnalysis, 0, len(repos))

	var reporter usecase.ProgressReporter
	bar := newAnalysisBar(len(repos))
	if bar != nil {
		reporter = &barReporter{bar: bar}
	}
	for _, repo := range repos {
		analysis, err := analyzer.Analyze(ctx, repo, reporter)
		if err != nil {
			return err
		}
		analyses = append(analyses, analysis)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	fmt.Println("📈 Calculating organization statistics...")
	stats := usecase.Aggregate(analyses)

	fmt.Println("📝 Generating report...")
	renderer := report.NewRenderer(cfg.Org, sortBy)
	text := renderer.Render(analyses, stats)

	path := filepath.Join(cfg.OutputDir, report.FileName(cfg.Org, time.Now()))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("✅ Analysis complete! Report saved to: %s\n", path)

	fmt.Println("\n📊 Quick Summary:")
	fmt.Printf("- Total Repositories: %d\n", stats.TotalRepos)
	fmt.Printf("- Active Repositories: %d\n", stats.ActiveRepos)
	fmt.Printf("- Total Contributors: %d\n", stats.Contributors)
	if top := stats.Languages.MostCommon(1); len(top) > 0 {
		fmt.Printf("- Most Used Language: %s\n", top[0].Key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("sort-active", string(report.SortByName),
		"Order of the Active Repositories section: name or updated")
}
