package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	apiv1 "github.com/Polqt/sbeschema/api/v1"
	"github.com/Polqt/sbeschema/internal/registry/config"
	"github.com/Polqt/sbeschema/internal/registry/metrics"
	"github.com/Polqt/sbeschema/internal/registry/service"
	"github.com/Polqt/sbeschema/internal/registry/store"
	"github.com/Polqt/sbeschema/internal/sbe/strategy"
)

var (
	serveConfigPath string
	serveAddr       string
)

// serveCmd boots the schema registry's HTTP API, wiring koanf-loaded
// configuration, the in-memory Store, Prometheus metrics, and the chi
// router together, then waits for SIGINT/SIGTERM.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the schema evolution registry HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]interface{}{}
		if serveAddr != "" {
			overrides["server.host"], overrides["server.port"] = splitAddr(serveAddr)
		}
		cfg, err := config.Load(serveConfigPath, overrides)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log := logrus.New()
		level, err := logrus.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		log.SetLevel(level)
		if cfg.Log.Format == "json" {
			log.SetFormatter(&logrus.JSONFormatter{})
		}

		strat, ok := strategy.Parse(cfg.Strategy)
		if !ok {
			return fmt.Errorf("unknown default strategy %q", cfg.Strategy)
		}

		st, err := store.New(cfg.Cache.Size, strat)
		if err != nil {
			return fmt.Errorf("construct store: %w", err)
		}

		mc := metrics.DefaultConfig()
		mc.Enabled = cfg.Metrics.Enabled
		m := metrics.NewManager(mc)

		svc := service.New(st, m, log)
		handler := apiv1.NewHandler(svc, log)

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		server := &http.Server{Addr: addr, Handler: handler.Router()}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			log.WithField("addr", addr).Info("sbecheck listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Fatal("server error")
			}
		}()

		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

// splitAddr parses a "host:port" or ":port" listen address into its
// components, falling back to host 0.0.0.0 and port 8080 for whichever
// part is omitted or unparsable.
func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "0.0.0.0", 8080
	}
	if host == "" {
		host = "0.0.0.0"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 8080
	}
	return host, port
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to a YAML or JSON config file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, e.g. :8081 (overrides config)")
}
