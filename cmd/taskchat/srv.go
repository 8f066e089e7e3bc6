package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"taskchat/internal/clickup"
	"taskchat/internal/config"
	"taskchat/internal/dataset"
	"taskchat/internal/query"
	"taskchat/internal/respond"
	"taskchat/internal/server"
	"taskchat/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the taskchat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.ListenAddr)
			if err != nil {
				return err
			}

			provider, err := newProvider(cfg, logger)
			if err != nil {
				return err
			}

			var persister dataset.Persister
			if path := strings.TrimSpace(cfg.SnapshotDB); path != "" {
				logger.Info("opening snapshot database", "path", path)
				st, err := store.Open(path)
				if err != nil {
					return err
				}
				defer st.Close()
				persister = st
			}

			interpreter, err := newInterpreter(cfg)
			if err != nil {
				return err
			}
			formatter := respond.New(respond.Options{
				TableLimit:    cfg.Display.TableLimit,
				AllTasksLimit: cfg.Display.AllTasksLimit,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cache := dataset.NewCache(provider, persister, logger)
			if _, err := cache.Warm(ctx); err != nil {
				logger.Warn("initial fetch failed", "error", err, "rows", cache.Snapshot().Len())
			}

			srv := server.New(addr, cache, interpreter, formatter, logger)
			return srv.ListenAndServe(ctx)
		},
	}
}

func newProvider(cfg *config.Config, logger *slog.Logger) (*clickup.Client, error) {
	return clickup.New(clickup.Options{
		BaseURL:           cfg.ClickUp.APIURL,
		AccessToken:       cfg.ClickUp.AccessToken,
		SpaceID:           cfg.ClickUp.SpaceID,
		Timeout:           cfg.ClickUp.Timeout.Duration,
		Concurrency:       cfg.ClickUp.FetchConcurrency,
		IncludeClosed:     cfg.ClickUp.IncludeClosed,
		IncludeFolderless: cfg.ClickUp.IncludeFolderless,
		Logger:            logger,
	})
}

func newInterpreter(cfg *config.Config) (*query.Interpreter, error) {
	path := strings.TrimSpace(cfg.VocabularyPath)
	if path == "" {
		return query.New(query.DefaultVocabulary()), nil
	}
	vocab, err := query.LoadVocabulary(path)
	if err != nil {
		return nil, err
	}
	return query.New(vocab), nil
}
