package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/schema-engine/internal/acquire"
	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/internal/plan"
	"github.com/pdiddy/schema-engine/internal/search"
	"github.com/pdiddy/schema-engine/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <exam name>",
	Short: "Find and rank candidate sources for an exam",
	Long: `Discover plans search queries for an exam and runs the discovery
strategies: scanning official domain home pages, probing well-known
notification paths, and scraping a general web search front end. Results are
deduplicated by URL and ranked with PDFs first, then by relevance.

Use --out to save the queries and results as a YAML query file. Use
--download to fetch the ranked sources into a directory, where the convert
command can turn them into text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().Int("max-results", types.DefaultMaxSearchResults, "maximum number of results")
	discoverCmd.Flags().Bool("json", false, "output results as JSON")
	discoverCmd.Flags().String("out", "", "write a YAML query file to this path")
	discoverCmd.Flags().String("download", "", "download ranked sources into this directory")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	examName := strings.Join(args, " ")

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	maxResults, _ := cmd.Flags().GetInt("max-results")

	dc := cfg.Discovery
	f := &httputil.Fetcher{
		Client:       newHTTPClient(),
		UserAgents:   userAgents(dc.HTTPConfig),
		ContactEmail: dc.ContactEmail,
		Timeout:      dc.Timeout,
	}
	strategies := []search.Strategy{
		&search.DomainScan{Fetcher: f, Concurrency: dc.Concurrency},
		&search.PathProbe{Fetcher: f, Concurrency: dc.Concurrency, Paths: dc.ProbePaths},
	}
	if !dc.DisableWebSearch {
		strategies = append(strategies, &search.WebSearch{Fetcher: f, Endpoint: dc.SearchEndpoint})
	}

	d := &search.Discoverer{Strategies: strategies, Concurrency: dc.Concurrency, Logger: logger}
	planner := &plan.Planner{Domains: dc.OfficialDomains}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := d.DiscoverAll(ctx, planner, examName, maxResults)

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		if err := search.WriteQueryFile(path, examName, planner.Plan(examName), out); err != nil {
			return err
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if err := search.FormatJSON(out, os.Stdout); err != nil {
			return err
		}
	} else {
		search.FormatTable(out, os.Stdout)
	}

	dir, _ := cmd.Flags().GetString("download")
	if dir == "" || len(out.Results) == 0 {
		return nil
	}
	result := acquire.DownloadBatch(ctx, f.WithTimeout(cfg.Extraction.Timeout), out.Results, dir, cfg.Extraction.BatchDelay, os.Stderr)
	if result.HasFailures() {
		logger.Warn("some downloads failed", zap.Int("failed", result.Failed), zap.Int("total", result.Total()))
	}
	return nil
}
