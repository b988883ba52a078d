package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/pagebridge/dbopen"
	"github.com/hazyhaar/pagebridge/runlog"
	"github.com/hazyhaar/pagebridge/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger := setupLogger(cfg.LogLevel)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			db, err := dbopen.Open(cfg.RunDB,
				dbopen.WithMkdirAll(),
				dbopen.WithSchema(runlog.Schema))
			if err != nil {
				return fmt.Errorf("run db: %w", err)
			}
			defer db.Close()

			opts := []server.Option{server.WithRunLog(runlog.NewStore(db))}
			if cfg.AuthHash != "" {
				opts = append(opts, server.WithBasicAuth(cfg.AuthUser, cfg.AuthHash))
			}
			srv := server.New(logger, nil, opts...)

			httpSrv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("http listening", "addr", cfg.Addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpSrv.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cliLogger()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			srv := mcp.NewServer(&mcp.Implementation{
				Name:    "pagebridge",
				Version: version,
			}, nil)
			server.New(logger, nil).RegisterMCP(srv)

			logger.Info("mcp serving on stdio")
			return srv.Run(ctx, &mcp.StdioTransport{})
		},
	}
}
