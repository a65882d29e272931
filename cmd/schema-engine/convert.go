package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/schema-engine/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert <files...>",
	Short: "Convert local PDF and HTML notifications to plain text",
	Long: `Convert turns downloaded notification files (PDF or HTML) into plain
text with YAML frontmatter, one <name>.txt per input in the output directory.
Files whose output already exists are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out", "converted", "output directory")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")

	result := convert.ConvertBatch(args, outDir, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
