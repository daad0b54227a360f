package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/codemod/internal/mcp"
	"github.com/Sumatoshi-tech/codemod/pkg/observability"
)

const metricsReadHeaderTimeout = 5 * time.Second

func newMCPCommand(globals *globalFlags) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes the icon migration as tools that AI agents can discover
and invoke:
  - icon_update: rewrite one source file, returning the new text
  - icon_scan: report legacy icon usage in one source file`,
	}

	bindings := importFlags(cmd)

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		var (
			readers []sdkmetric.Reader
			handler http.Handler
		)

		if metricsAddr != "" {
			reader, promHandler, err := observability.NewPrometheusExporter()
			if err != nil {
				return err
			}

			readers = append(readers, reader)
			handler = promHandler
		}

		a, err := setup(cmd, globals, observability.ModeMCP, bindings, readers...)
		if err != nil {
			return err
		}

		defer func() {
			closeErr := a.close(cmd.Context())
			if closeErr != nil {
				a.providers.Logger.Warn("shutdown failed", "error", closeErr)
			}
		}()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if handler != nil {
			stop, serveErr := serveMetrics(ctx, a, metricsAddr, handler)
			if serveErr != nil {
				return serveErr
			}

			defer stop()
		}

		srv := mcp.NewServer(mcp.ServerDeps{
			Logger:  a.providers.Logger,
			Metrics: a.metrics,
			Tracer:  a.providers.Tracer,
			Icons:   a.icons,
			Options: a.transformer.Options(),
		})

		return srv.Run(ctx)
	}

	return cmd
}

// serveMetrics starts the scrape endpoint and returns a function stopping it.
func serveMetrics(ctx context.Context, a *app, addr string, handler http.Handler) (func(), error) {
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Handler:           observability.HTTPMiddleware(a.providers.Tracer, a.metrics, mux),
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		serveErr := server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			a.providers.Logger.Error("metrics server stopped", "error", serveErr)
		}
	}()

	a.providers.Logger.InfoContext(ctx, "serving metrics", "addr", listener.Addr().String())

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsReadHeaderTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}, nil
}
