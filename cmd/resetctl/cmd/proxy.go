package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/elarca/resetweb/internal/middleware"
	"github.com/elarca/resetweb/internal/proxy"
)

func ProxyCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Run the development proxy on its own",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := setup()

			p, err := proxy.New(cfg.BackendBaseURL, &http.Client{Timeout: cfg.ClientTimeout})
			if err != nil {
				return err
			}
			return runProxy(cmd.Context(), addr, p, cfg.BackendBaseURL)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3001", "listen address")
	return cmd
}

func runProxy(ctx context.Context, addr string, p *proxy.Proxy, backend string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle(proxy.Pattern, p)

	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.Chain(mux, middleware.Recover, middleware.RequestID, middleware.RequestLogging),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	slog.Info("proxy listening", "addr", addr, "backend", backend)

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("proxy server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
