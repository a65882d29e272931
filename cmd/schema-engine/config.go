package main

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/schema-engine/internal/logging"
	"github.com/pdiddy/schema-engine/internal/store"
	"github.com/pdiddy/schema-engine/pkg/engine"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// setConfigDefaults registers every scalar default so environment
// variables such as SCHEMA_ENGINE_SERVER_ADDR are seen by Unmarshal.
func setConfigDefaults() {
	d := types.DefaultEngineConfig()
	viper.SetDefault("discovery.timeout", d.Discovery.Timeout)
	viper.SetDefault("discovery.user_agent", "")
	viper.SetDefault("discovery.contact_email", "")
	viper.SetDefault("discovery.concurrency", d.Discovery.Concurrency)
	viper.SetDefault("discovery.search_endpoint", d.Discovery.SearchEndpoint)
	viper.SetDefault("discovery.disable_web_search", d.Discovery.DisableWebSearch)
	viper.SetDefault("extraction.timeout", d.Extraction.Timeout)
	viper.SetDefault("extraction.max_retries", d.Extraction.MaxRetries)
	viper.SetDefault("extraction.batch_size", d.Extraction.BatchSize)
	viper.SetDefault("extraction.batch_delay", d.Extraction.BatchDelay)
	viper.SetDefault("extraction.max_body_bytes", d.Extraction.MaxBodyBytes)
	viper.SetDefault("store.data_dir", d.Store.DataDir)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.mode", d.Server.Mode)
	viper.SetDefault("logging.level", d.Logging.Level)
	viper.SetDefault("logging.development", d.Logging.Development)
}

// loadConfig decodes the viper settings into an EngineConfig, applies the
// persistent flags, and fills the crawler contact address from secrets.
func loadConfig(cmd *cobra.Command) (types.EngineConfig, error) {
	cfg := types.DefaultEngineConfig()
	err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.Squash = true
	})
	if err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if dev, _ := cmd.Flags().GetBool("dev-log"); dev {
		cfg.Logging.Development = true
	}

	if email := loadedSecrets.ContactEmail(); email != "" {
		if cfg.Discovery.ContactEmail == "" {
			cfg.Discovery.ContactEmail = email
		}
		if cfg.Extraction.ContactEmail == "" {
			cfg.Extraction.ContactEmail = email
		}
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command) (types.EngineConfig, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func newEngine(cfg types.EngineConfig, logger *zap.Logger) *engine.Engine {
	return engine.New(engine.WithConfig(cfg), engine.WithLogger(logger))
}

func openStore(cfg types.EngineConfig, cmd *cobra.Command) (*store.Store, error) {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.Store.DataDir = dir
	}
	return store.NewStore(cfg.Store)
}
