// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/schema-engine/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local schema store (list, show, find, export, delete)",
	Long: `Store manages the local SQLite database of generated schemas. Schemas
are added with "generate --save" or by the HTTP server, and are keyed by exam
ID (the lowercased, hyphenated exam name, e.g. ibps-clerk-2025).`,
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List stored schemas, optionally filtered by exam name",
	RunE:  runStoreList,
}

func runStoreList(cmd *cobra.Command, args []string) error {
	st, err := storeFromFlags(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(context.Background(), listOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}
	return formatEntries(cmd, entries)
}

// --- find subcommand ---

var storeFindCmd = &cobra.Command{
	Use:   "find <document type>",
	Short: "List stored schemas that specify a document type",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreFind,
}

func runStoreFind(cmd *cobra.Command, args []string) error {
	st, err := storeFromFlags(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.FindByDocumentType(context.Background(), args[0])
	if err != nil {
		return err
	}
	return formatEntries(cmd, entries)
}

// --- show subcommand ---

var storeShowCmd = &cobra.Command{
	Use:   "show <exam id>",
	Short: "Print one stored schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreShow,
}

func runStoreShow(cmd *cobra.Command, args []string) error {
	st, err := storeFromFlags(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	schema, err := st.Load(context.Background(), args[0])
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeSchema(os.Stdout, *schema, jsonOutput)
}

// --- delete subcommand ---

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <exam id>",
	Short: "Remove a stored schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export stored schemas to YAML or JSON",
	Long: `Export writes the stored schemas (or a filtered subset) to
<data-dir>/export.yaml or export.json. Supports the same filter flags as
list.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	st, err := storeFromFlags(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := listOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = st.ExportYAML(context.Background(), opts)
	case "json":
		path, err = st.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func storeFromFlags(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg, cmd)
}

func listOptsFromFlags(cmd *cobra.Command, args []string) store.ListOptions {
	query := strings.Join(args, " ")
	docType, _ := cmd.Flags().GetString("type")
	noFallback, _ := cmd.Flags().GetBool("no-fallback")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.ListOptions{
		Query:           query,
		DocumentType:    docType,
		ExcludeFallback: noFallback,
		MaxResults:      limit,
	}
}

func formatEntries(cmd *cobra.Command, entries []store.Entry) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No schemas found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-28s  %-28s  %-8s  %-40s  %s\n",
		"Exam ID", "Exam", "Fallback", "Documents", "Updated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 130))

	for _, e := range entries {
		fb := ""
		if e.Fallback {
			fb = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-28s  %-28s  %-8s  %-40s  %s\n",
			truncate(e.ExamID, 28), truncate(e.Exam, 28), fb,
			truncate(strings.Join(e.DocumentTypes, ","), 40),
			e.UpdatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(os.Stdout, "\n%d schemas\n", len(entries))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("data-dir", "", "schema store directory (default from config)")
	storeCmd.PersistentFlags().Bool("json", false, "output as JSON")

	for _, c := range []*cobra.Command{storeListCmd, storeExportCmd} {
		c.Flags().String("type", "", "only schemas that specify this document type")
		c.Flags().Bool("no-fallback", false, "exclude fallback schemas")
		c.Flags().Int("limit", 0, "maximum results (0 = use default)")
	}
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeFindCmd)
	storeCmd.AddCommand(storeShowCmd)
	storeCmd.AddCommand(storeDeleteCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
