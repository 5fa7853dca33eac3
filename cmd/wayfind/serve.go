package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wayfind-dev/wayfind/internal/project"
	"github.com/wayfind-dev/wayfind/pkg/history"
	"github.com/wayfind-dev/wayfind/pkg/middleware"
	"github.com/wayfind-dev/wayfind/pkg/shell"
)

func serveCmd() *cobra.Command {
	var (
		manifestPath string
		addr         string
		htmlPath     string
		noBridge     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an application shell for the route table",
		Long: `Serve a single-page application shell with the route table's
semantics: redirect routes answer 302 to their settled target,
unmatched paths answer 404 with the shell so the client can boot,
and everything else answers 200 with the shell.

The server also exposes Prometheus metrics at /metrics and, unless
disabled, a WebSocket history bridge that mirrors browser locations.

Examples:
  wayfind serve
  wayfind serve --addr :3000 --html dist/index.html
  wayfind serve --manifest build/routes.json --no-bridge`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags win over wayfind.json, which wins over defaults.
			cfg := projectConfig()
			if !cmd.Flags().Changed("manifest") {
				manifestPath = cfg.Manifest
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("html") && cfg.Serve.HTML != "" {
				htmlPath = cfg.Serve.HTML
			}
			if !cmd.Flags().Changed("no-bridge") && cfg.Serve.NoBridge {
				noBridge = true
			}
			return runServe(manifestPath, addr, htmlPath, noBridge, cfg.Serve.MaxRedirectHops)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "Route manifest file")
	cmd.Flags().StringVarP(&addr, "addr", "a", project.DefaultAddr, "Address to listen on")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Shell document file (default: built-in document)")
	cmd.Flags().BoolVar(&noBridge, "no-bridge", false, "Disable the WebSocket history bridge")

	return cmd
}

func runServe(manifestPath, addr, htmlPath string, noBridge bool, maxHops int) error {
	m, tree, err := loadTree(manifestPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	middleware.InitMetrics()

	opts := []shell.Option{shell.WithLogger(logger)}
	if htmlPath != "" {
		data, err := os.ReadFile(htmlPath)
		if err != nil {
			return err
		}
		opts = append(opts, shell.WithHTML(string(data)))
	}
	if !noBridge {
		opts = append(opts, shell.WithClientScript(history.ClientScript))
	}
	if maxHops > 0 {
		opts = append(opts, shell.WithMaxRedirectHops(maxHops))
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())

	var bridge *history.Bridge
	if !noBridge {
		bridge = history.NewBridge(logger)
		bridge.OnConnect = middleware.RecordBridgeConnect
		bridge.OnDisconnect = middleware.RecordBridgeDisconnect
		r.Handle(history.DefaultBridgePath, bridge)
	}

	r.Handle("/*", shell.New(tree, opts...))

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	info("routes:   %d from %s", m.Routes(), manifestPath)
	info("listen:   http://localhost%s", addr)
	info("metrics:  /metrics")
	if !noBridge {
		info("bridge:   %s", history.DefaultBridgePath)
	}
	fmt.Println()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		fmt.Println("\n\n  Shutting down...")
		if bridge != nil {
			bridge.Close()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
