package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/savvit/savvit-server/internal/cache"
	"github.com/savvit/savvit-server/internal/common"
	"github.com/savvit/savvit-server/internal/deals"
	"github.com/savvit/savvit-server/internal/history"
	"github.com/savvit/savvit-server/internal/llm"
	"github.com/savvit/savvit-server/internal/pipeline"
	"github.com/savvit/savvit-server/internal/prices"
	"github.com/savvit/savvit-server/internal/resolver"
	"github.com/savvit/savvit-server/internal/server"
	"github.com/savvit/savvit-server/internal/storage"
	"github.com/savvit/savvit-server/internal/verdict"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the verdict API server",
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "listen port (overrides config)")
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	perplexityKey := viper.GetString("perplexity.api_key")
	if perplexityKey == "" {
		return fmt.Errorf("%w: perplexity.api_key (SAVVIT_PERPLEXITY_API_KEY)", common.ErrMissingConfig)
	}
	geminiKey := viper.GetString("gemini.api_key")
	if geminiKey == "" {
		return fmt.Errorf("%w: gemini.api_key (SAVVIT_GEMINI_API_KEY)", common.ErrMissingConfig)
	}

	searcher, err := llm.NewPerplexityClient(llm.Config{
		APIKey: perplexityKey,
		Model:  viper.GetString("perplexity.model"),
	})
	if err != nil {
		return fmt.Errorf("creating search client: %w", err)
	}
	generator, err := llm.NewGeminiClient(llm.Config{
		APIKey: geminiKey,
		Model:  viper.GetString("gemini.model"),
	})
	if err != nil {
		return fmt.Errorf("creating generation client: %w", err)
	}

	store := cache.New()
	priceAgg := prices.NewAggregator(searcher, store, logger)
	dealFinder := deals.NewFinder(searcher, store, logger)
	verdictEngine := verdict.NewEngine(generator, store, logger)
	urlResolver := resolver.New(generator, logger)

	var histClient pipeline.HistoryClient
	if keepaKey := viper.GetString("keepa.api_key"); keepaKey != "" {
		histClient = history.NewClient(keepaKey, store, logger)
	} else {
		logger.Warn("no keepa API key configured, price history disabled")
	}

	pipe := pipeline.New(urlResolver, priceAgg, dealFinder, verdictEngine, histClient, logger,
		pipeline.WithSaleWindow(viper.GetInt("pipeline.sale_window_months")))

	var watchStore server.WatchlistStore
	db, err := storage.NewSQLiteStorage(viper.GetString("database.path"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	watchStore = db

	srv := server.New(pipe, watchStore, server.Config{
		APIToken:       viper.GetString("server.api_token"),
		WatchlistLimit: viper.GetInt("server.watchlist_limit"),
		Version:        version,
	}, logger)

	addr := fmt.Sprintf(":%d", viper.GetInt("server.port"))
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		common.LogInfo("starting server", common.Fields{"addr": addr, "version": version})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		common.LogError(err, "server failed", common.Fields{"addr": addr})
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := storage.NewSQLiteStorage(viper.GetString("database.path"))
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer func() { _ = db.Close() }()

			if err := db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
			slog.Info("database migrated", "path", viper.GetString("database.path"))
			return nil
		},
	}
}
