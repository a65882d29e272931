package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/schema-engine/internal/convert"
	"github.com/pdiddy/schema-engine/internal/extract"
	"github.com/pdiddy/schema-engine/internal/httputil"
	"github.com/pdiddy/schema-engine/internal/infer"
	"github.com/pdiddy/schema-engine/internal/search"
	"github.com/pdiddy/schema-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url|file>",
	Short: "Extract text and document requirements from one source",
	Long: `Extract fetches a single URL (or reads a local PDF or HTML file),
converts it to plain text, and prints the text together with the document
requirements inferred from it. Failed fetches are retried with exponential
backoff; when every attempt fails, placeholder text is shown instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("json", false, "output content and requirements as JSON")
	extractCmd.Flags().Bool("text-only", false, "print only the extracted text")

	rootCmd.AddCommand(extractCmd)
}

type extractOutput struct {
	Content      types.ExtractedContent      `json:"content"`
	Requirements []types.DocumentRequirement `json:"requirements"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var content types.ExtractedContent
	if _, statErr := os.Stat(source); statErr == nil {
		doc, err := convert.ConvertFile(source)
		if err != nil {
			return err
		}
		content = types.ExtractedContent{
			URL:        source,
			SourceType: convert.SourceTypeOfPath(source),
			Text:       doc.Text,
			Metadata:   doc.Metadata,
		}
	} else {
		ec := cfg.Extraction
		ex := &extract.Extractor{
			Fetcher: &httputil.Fetcher{
				Client:       newHTTPClient(),
				UserAgents:   userAgents(ec.HTTPConfig),
				ContactEmail: ec.ContactEmail,
				Timeout:      ec.Timeout,
				MaxBodyBytes: ec.MaxBodyBytes,
			},
			Logger: logger,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		content = ex.ExtractWithRetry(ctx, source, search.SourceTypeOf(source), ec.MaxRetries)
	}

	if textOnly, _ := cmd.Flags().GetBool("text-only"); textOnly {
		fmt.Println(content.Text)
		return nil
	}

	out := extractOutput{Content: content, Requirements: infer.Infer([]types.ExtractedContent{content})}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Source:      %s (%s)\n", content.URL, content.SourceType)
	if content.Metadata.Title != "" {
		fmt.Printf("Title:       %s\n", content.Metadata.Title)
	}
	if content.Placeholder {
		fmt.Println("Placeholder: yes (source could not be read)")
	}
	fmt.Printf("\n%s\n", content.Text)

	fmt.Printf("\nInferred requirements: %d\n", len(out.Requirements))
	writeDocuments(os.Stdout, out.Requirements)
	return nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 2 * time.Minute}
}

func userAgents(hc types.HTTPConfig) httputil.UserAgentProvider {
	if hc.UserAgent != "" {
		return httputil.StaticUserAgent(hc.UserAgent)
	}
	return httputil.NewRotatingUserAgents()
}
