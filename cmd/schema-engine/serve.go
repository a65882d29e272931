package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/schema-engine/internal/server"
	"github.com/pdiddy/schema-engine/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the schema API over HTTP",
	Long: `Serve starts the HTTP API:

  POST /api/generate-schema   {"examName": "...", "options": {...}, "refresh": false}
  GET  /api/schemas/:examId   a cached schema
  GET  /health                liveness

Generated schemas are cached in the local store unless --no-store is set.
Fallback schemas are never cached.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :3001)")
	serveCmd.Flags().String("data-dir", "", "schema store directory (default from config)")
	serveCmd.Flags().Bool("no-store", false, "do not cache schemas")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	var schemaStore types.SchemaStore
	if noStore, _ := cmd.Flags().GetBool("no-store"); !noStore {
		st, err := openStore(cfg, cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		schemaStore = st
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, newEngine(cfg, logger), schemaStore, logger)
	return srv.Run(ctx)
}
