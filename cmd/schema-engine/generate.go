package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/schema-engine/internal/plan"
	"github.com/pdiddy/schema-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <exam name>",
	Short: "Generate the document upload schema for an exam",
	Long: `Generate runs the full pipeline for an exam: it plans search queries,
discovers candidate notifications on official domains and the web, extracts
their text, infers the document requirements, and assembles a validated
schema. When the pipeline cannot produce one, the standard requirements for
the exam's category are returned instead and marked as a fallback.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("json", false, "output the schema as JSON")
	generateCmd.Flags().Bool("save", false, "save the schema to the local store")
	generateCmd.Flags().Bool("report", false, "print the pipeline report to stderr")
	generateCmd.Flags().Int("max-results", types.DefaultMaxSearchResults, "maximum number of candidate sources")
	generateCmd.Flags().Duration("timeout", types.DefaultTimeout, "per-request extraction timeout")
	generateCmd.Flags().Bool("all-sources", false, "use non-official sources regardless of score")
	generateCmd.Flags().Bool("no-prefer-pdfs", false, "rank sources by score only")
	generateCmd.Flags().String("data-dir", "", "schema store directory (default from config)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	examName := strings.Join(args, " ")

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := extractionOptionsFromFlags(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	schema, report := newEngine(cfg, logger).GenerateWithReport(ctx, examName, opts)

	if showReport, _ := cmd.Flags().GetBool("report"); showReport {
		report.Format(os.Stderr)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		st, err := openStore(cfg, cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		examID := plan.ExamID(examName)
		if err := st.Save(ctx, examID, schema); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved schema as %s\n", examID)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeSchema(os.Stdout, schema, jsonOutput)
}

func extractionOptionsFromFlags(cmd *cobra.Command) types.ExtractionOptions {
	opts := types.DefaultExtractionOptions()
	opts.MaxSearchResults, _ = cmd.Flags().GetInt("max-results")
	opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
	if all, _ := cmd.Flags().GetBool("all-sources"); all {
		opts.OfficialSourcesOnly = false
	}
	if noPDF, _ := cmd.Flags().GetBool("no-prefer-pdfs"); noPDF {
		opts.PreferPDFs = false
	}
	return opts.WithDefaults()
}

// writeSchema prints schema as indented JSON or as a readable summary.
func writeSchema(w io.Writer, schema types.ExamSchema, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	}

	fmt.Fprintf(w, "Exam:      %s\n", schema.Exam)
	fmt.Fprintf(w, "Source:    %s\n", schema.ExtractedFrom)
	fmt.Fprintf(w, "Extracted: %s\n", schema.ExtractedAt.Format("2006-01-02 15:04:05 MST"))
	writeDocuments(w, schema.Documents)
	return nil
}

func writeDocuments(w io.Writer, docs []types.DocumentRequirement) {
	for _, d := range docs {
		r := d.Requirements
		fmt.Fprintf(w, "\n%s\n", d.Type)
		writeField(w, "format", strings.Join(r.Format, ", "))
		writeField(w, "size", formatRange(r.SizeKB, "KB"))
		writeField(w, "dimensions", r.Dimensions)
		writeField(w, "color", string(r.Color))
		writeField(w, "background", r.Background)
		for _, n := range r.Notes {
			writeField(w, "note", n)
		}
	}
}

func writeField(w io.Writer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %-11s %s\n", name+":", value)
}

func formatRange(r *types.SizeRange, unit string) string {
	switch {
	case r.IsEmpty():
		return ""
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("%g-%g %s", *r.Min, *r.Max, unit)
	case r.Max != nil:
		return fmt.Sprintf("up to %g %s", *r.Max, unit)
	default:
		return fmt.Sprintf("at least %g %s", *r.Min, unit)
	}
}
