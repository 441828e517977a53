package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"modelhost/internal/app"
	"modelhost/internal/catalog"
	"modelhost/internal/config"
	"modelhost/internal/httpapi"
)

var version = "dev"

func main() {
	root := buildRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	var (
		cfgPath     string
		addr        string
		dataDir     string
		catalogPath string
		logLevel    string
		corsOrigins string
	)

	root := &cobra.Command{
		Use:           "modelhostd",
		Short:         "Local model lifecycle daemon: install, launch and run LLMs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (.yaml, .json or .toml)")
	root.PersistentFlags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8090")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Application data directory")
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog file; builtin catalog when empty")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; CORS disabled when empty")

	loadConfig := func() (config.Config, error) {
		var cfg config.Config
		if cfgPath != "" {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return cfg, fmt.Errorf("load config: %w", err)
			}
		}
		// Flags override file values.
		if addr != "" {
			cfg.Addr = addr
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if catalogPath != "" {
			cfg.CatalogPath = catalogPath
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		cfg.ApplyDefaults()
		return cfg, nil
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cfg, corsOrigins)
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Print the model catalog and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			for _, m := range cat.List() {
				fmt.Printf("%-24s %-16s %s\n", m.ID, m.TaskType, m.Name)
			}
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("modelhostd", version)
		},
	}

	root.AddCommand(serveCmd, modelsCmd, versionCmd)
	// Bare invocation serves; mirrors running under a process manager.
	root.RunE = serveCmd.RunE
	return root
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.New(catalog.Builtin())
	}
	return catalog.LoadFile(cfg.CatalogPath)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

func serve(cfg config.Config, corsOrigins string) error {
	logger := newLogger(cfg.LogLevel)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	core, err := app.New(cfg, cat, logger)
	if err != nil {
		return err
	}
	defer core.Close()

	httpapi.SetLogger(logger.With().Str("component", "http").Logger())
	if origins := splitCSV(corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{http.MethodGet, http.MethodPost, http.MethodOptions},
			[]string{"Content-Type", "X-Log-Level"})
	}

	// Shutdown cancels in-flight installs and generations.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(core)}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Int("models", cat.Len()).Msg("modelhostd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown")
	}
	return core.Close()
}

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
