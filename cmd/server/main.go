package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"portfolio/app/internal/app/bootstrap"
	"portfolio/app/internal/cache"
	"portfolio/app/internal/config"
	"portfolio/app/internal/content"
	appdb "portfolio/app/internal/db"
	applog "portfolio/app/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Portfolio site and admin content server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the local cache schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd.Context())
			},
		},
		newSeedCommand(),
		&cobra.Command{
			Use:   "sync",
			Short: "Push every locally cached entity to the remote document store",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return syncRemote(cmd.Context())
			},
		},
	)

	return root
}

func newSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load site content from a YAML seed file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seed(cmd.Context(), file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file path (defaults to SEED_PATH)")

	return cmd
}

// runtime holds what every command needs before touching storage.
type runtime struct {
	cfg    *config.Config
	logger *logrus.Logger
	deps   bootstrap.Dependencies
	close  func()
}

func setup() (*runtime, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, eris.Wrap(err, "failure initialising logger")
	}

	undoProcs, err := maxprocs.Set(maxprocs.Logger(logger.Debugf))
	if err != nil {
		logger.WithError(err).Warn("setting GOMAXPROCS failed")
	}

	sentryHub, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		undoProcs()
		return nil, eris.Wrap(err, "failure initialising sentry")
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		deps: bootstrap.Dependencies{
			Config:    cfg,
			Logger:    logger,
			SentryHub: sentryHub,
		},
		close: func() {
			flush()
			undoProcs()
		},
	}, nil
}

func serve(ctx context.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	app, err := bootstrap.Build(ctx, rt.deps)
	if err != nil {
		return eris.Wrap(err, "bootstrapping application")
	}
	defer func() {
		if closeErr := app.Cleanup(); closeErr != nil {
			rt.logger.WithError(closeErr).Error("releasing resources")
		}
	}()

	httpServer := &stdhttp.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", rt.cfg.ServerPort),
		Handler:           app.HTTPServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	rt.logger.WithFields(logrus.Fields{
		"addr":   httpServer.Addr,
		"remote": app.Content.RemoteAvailable(),
		"env":    rt.cfg.Environment,
	}).Info("starting http server")

	serverErrCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		rt.logger.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			return eris.Wrap(err, "http server error")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutting down http server")
	}

	rt.logger.Info("http server shut down cleanly")
	return nil
}

func migrate(ctx context.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	dbConn, err := appdb.Open(appdb.Options{Path: rt.cfg.DBPath, Logger: rt.logger})
	if err != nil {
		return eris.Wrap(err, "opening database")
	}
	defer func() {
		if closeErr := appdb.Close(dbConn); closeErr != nil {
			rt.logger.WithError(closeErr).Error("closing database")
		}
	}()

	if err := cache.Migrate(ctx, dbConn, rt.logger); err != nil {
		return eris.Wrap(err, "running migrations")
	}

	rt.logger.WithField("path", rt.cfg.DBPath).Info("local cache schema is up to date")
	return nil
}

func seed(ctx context.Context, file string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	path := strings.TrimSpace(file)
	if path == "" {
		path = rt.cfg.SeedPath
	}
	if path == "" {
		return eris.New("a seed file is required: pass --file or set SEED_PATH")
	}

	seedData, err := content.LoadSeed(path)
	if err != nil {
		return err
	}

	core, err := bootstrap.BuildCore(ctx, rt.deps)
	if err != nil {
		return eris.Wrap(err, "bootstrapping content")
	}
	defer func() {
		if closeErr := core.Cleanup(); closeErr != nil {
			rt.logger.WithError(closeErr).Error("releasing resources")
		}
	}()

	report, err := core.Content.ApplySeed(ctx, seedData)
	if err != nil {
		return eris.Wrapf(err, "applying seed file %s", path)
	}

	rt.logger.WithFields(logrus.Fields{
		"path":      path,
		"documents": report.Documents,
		"records":   report.Records,
		"remote":    core.Content.RemoteAvailable(),
	}).Info("seed applied")
	return nil
}

func syncRemote(ctx context.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	core, err := bootstrap.BuildCore(ctx, rt.deps)
	if err != nil {
		return eris.Wrap(err, "bootstrapping content")
	}
	defer func() {
		if closeErr := core.Cleanup(); closeErr != nil {
			rt.logger.WithError(closeErr).Error("releasing resources")
		}
	}()

	report, err := core.Content.Sync(ctx)
	if err != nil {
		if eris.Is(err, content.ErrRemoteUnavailable) {
			return eris.Wrap(err, "sync needs a reachable MONGO_URI")
		}
		return eris.Wrap(err, "syncing to remote")
	}

	rt.logger.WithFields(logrus.Fields{
		"documents": report.Documents,
		"records":   report.Records,
	}).Info("local content pushed to remote")
	return nil
}
