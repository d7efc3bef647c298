package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goscrape/internal/app"
)

func main() {
	var (
		configPath   string
		envFile      string
		addr         string
		fetchTimeout time.Duration
		verbose      bool
		logJSON      bool
		showVersion  bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("GOSCRAPE_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&envFile, "env.file", "", "Additional dotenv file loaded after .env")
	flag.StringVar(&addr, "addr", "", "Listen address (default :8000, env ADDR or PORT)")
	flag.DurationVar(&fetchTimeout, "fetch.timeout", 0, "Upstream fetch timeout (default 10s, env FETCH_TIMEOUT)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&logJSON, "log.json", false, "Emit JSON log lines instead of console output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(app.VersionString())
		return
	}

	if err := app.LoadEnvFiles(".env", envFile); err != nil {
		fmt.Fprintf(os.Stderr, "load env: %v\n", err)
		os.Exit(1)
	}

	cfg := app.Config{
		Addr:         addr,
		FetchTimeout: fetchTimeout,
		Verbose:      verbose,
		LogJSON:      logJSON,
	}
	if err := loadConfig(&cfg, configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

// loadConfig layers environment, config file and defaults under whatever the
// flags already set, then validates the result.
func loadConfig(cfg *app.Config, configPath string) error {
	app.ApplyEnvToConfig(cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load %s: %w", configPath, err)
		}
		app.ApplyFileConfig(cfg, fc)
	}
	app.ApplyDefaults(cfg)
	return app.ValidateConfig(*cfg)
}

func setupLogging(cfg app.Config, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogJSON {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}
	zerolog.DefaultContextLogger = &log.Logger
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg app.Config) error {
	srv := app.NewServer(cfg, app.New(cfg))

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Dur("fetch_timeout", cfg.FetchTimeout).
			Str("version", app.BuildVersion).
			Str("commit", app.BuildCommit).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
