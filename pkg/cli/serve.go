package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ffbot/pkg/cli/config"
	controller "github.com/m-mizutani/ffbot/pkg/controller/http"
	githubinfra "github.com/m-mizutani/ffbot/pkg/infra/github"
	"github.com/m-mizutani/ffbot/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
		sentryCfg config.Sentry
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting ffbot server",
				slog.String("addr", serverCfg.Addr),
				slog.String("github_api_url", githubCfg.APIURL),
				slog.Any("github", githubCfg),
				slog.Bool("sentry", sentryCfg.Enabled()),
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			defer sentry.Flush(2 * time.Second)

			privateKey, err := githubCfg.PrivateKeyPEM()
			if err != nil {
				return err
			}

			tokenCreator, err := githubinfra.NewTokenCreator(githubCfg.AppClientID, privateKey)
			if err != nil {
				return goerr.Wrap(err, "failed to load GitHub App private key")
			}

			provider := githubinfra.NewProvider(tokenCreator,
				githubinfra.WithBaseURL(githubCfg.APIURL),
				githubinfra.WithHTTPClient(&http.Client{Timeout: githubCfg.APITimeout}),
			)

			// Create use cases
			webhookUC := usecase.NewWebhook(githubCfg.Secret(), provider)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithMaxBodySize(serverCfg.MaxBodySize),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "HTTP server error", goerr.V("addr", serverCfg.Addr))
				}
				close(serverErr)
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err, ok := <-serverErr:
				if ok {
					return err
				}
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
