package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prodscope/prodscope/internal/config"
	"github.com/prodscope/prodscope/internal/logger"
	"github.com/prodscope/prodscope/internal/server"
	"github.com/prodscope/prodscope/pkg/analysis"
	"github.com/prodscope/prodscope/pkg/datasource"
	"github.com/prodscope/prodscope/pkg/llm"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Prodscope API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	lg, err := logger.New(logger.Config{
		Level:   level,
		File:    cfg.Logging.File,
		Console: true,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer lg.Close()
	log := lg.Logger()

	// Provider orchestration layer. A broken or missing LLM document
	// degrades to the built-in default inside LoadConfig.
	llmManager := llm.NewManager(
		llm.LoadConfig(cfg.LLMConfigPath, log),
		log,
		llm.WithDevelopmentMode(cfg.DevelopmentMode),
	)

	if watcher, err := llm.NewConfigWatcher(cfg.LLMConfigPath, llmManager, log); err != nil {
		log.Warn().Err(err).Msg("LLM config watcher unavailable")
	} else if err := watcher.Start(); err != nil {
		log.Warn().Err(err).Msg("LLM config watcher failed to start")
	} else {
		defer watcher.Stop()
	}

	// Data source collaborators. The warehouse is optional; analyses run
	// without it.
	var warehouse *datasource.Warehouse
	if cfg.Warehouse != "" {
		warehouse, err = datasource.OpenWarehouse(cfg.Warehouse, log)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Warehouse).Msg("Warehouse unavailable")
			warehouse = nil
		} else {
			defer warehouse.Close()
		}
	}
	var counter analysis.RecordCounter
	if warehouse != nil {
		counter = warehouse
	}

	analyses := analysis.NewManager(
		analysis.SixLayerSteps(llmManager, counter),
		log,
		analysis.WithStepDelay(time.Duration(cfg.Analysis.StepDelaySeconds)*time.Second),
		analysis.WithStepEstimate(time.Duration(cfg.Analysis.StepEstimateSeconds)*time.Second),
	)

	if cfg.Janitor.Enabled {
		janitor, err := analysis.NewJanitor(
			analyses,
			cfg.Janitor.Schedule,
			time.Duration(cfg.Janitor.TTLHours)*time.Hour,
			log,
		)
		if err != nil {
			return fmt.Errorf("failed to create janitor: %w", err)
		}
		janitor.Start()
		defer janitor.Stop()
	}

	srv := server.New(
		server.Config{Host: cfg.Server.Host, Port: cfg.Server.Port},
		llmManager,
		analyses,
		datasource.NewCatalog(warehouse),
		log,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}

	// Let in-flight analyses reach a terminal state before exit.
	analyses.Close()
	return nil
}
