package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"freebies/internal/config"
	"freebies/internal/fetcher"
	"freebies/internal/logger"
	"freebies/internal/mailer"
	"freebies/internal/poller"
	"freebies/internal/recent"
	"freebies/internal/server"
	"freebies/internal/worker"

	"github.com/spf13/cobra"
)

var version = "0.1"

func main() {
	logger.Init()

	if err := newRootCmd().Execute(); err != nil {
		logger.Log.Fatalf("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	v, err := config.New()
	if err != nil {
		logger.Log.Fatalf("Config setup error: %v", err)
	}

	cmd := &cobra.Command{
		Use:           "freebies",
		Short:         "Emails free game announcements from a deals feed",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// .env подгружается до чтения конфигурации, но уже заданное окружение не перезаписывает
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				logger.Log.Warnf("Dotenv load error: %v", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "JSON config file")
	if err := config.RegisterFlags(v, cmd.Flags()); err != nil {
		logger.Log.Fatalf("Flag setup error: %v", err)
	}

	return cmd
}

func run(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher.UserAgent = "freebies/" + version
	src := fetcher.NewSource(cfg.FeedURL, nil)

	m, err := mailer.New(mailer.Config{
		Server:   cfg.SMTPServer,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.From,
		To:       cfg.To,
	})
	if err != nil {
		return err
	}

	wrk := worker.NewWorker(src, m, recent.New(cfg.Max))

	logger.Log.WithFields(logger.Fields{
		"feed":     cfg.FeedURL,
		"relay":    m.Addr(),
		"max":      cfg.Max,
		"interval": cfg.PollInterval.String(),
	}).Info("Application started")

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: server.NewServer(wrk).Handler()}
		go func() {
			logger.Log.Infof("Starting HTTP server on %s", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Errorf("Server error: %v", err)
			}
		}()
		defer func() {
			ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctxShutdown); err != nil {
				logger.Log.Errorf("Forced shutdown: %v", err)
			}
		}()
	}

	if err := poller.Run(ctx, wrk, cfg.PollInterval); err != nil {
		return err
	}

	logger.Log.Info("Application stopped")
	return nil
}
