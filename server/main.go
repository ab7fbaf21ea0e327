package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/burntcarrot/chatpad/config"
)

// Flags represents the command-line flags that are passed to chatpad's server.
type Flags struct {
	Addr   string
	Config string
	Debug  bool
}

// parseFlags parses command-line flags and returns the names of the flags
// that were set explicitly.
func parseFlags() (Flags, map[string]bool) {
	addr := flag.String("addr", ":8080", "Server's network address")
	configPath := flag.String("config", "", "Path to a chatpad config file")
	enableDebug := flag.Bool("debug", false, "Enable debugging mode to show more verbose logs")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	return Flags{Addr: *addr, Config: *configPath, Debug: *enableDebug}, set
}

// applyFlags overrides configured values with explicitly set flags.
func applyFlags(s *config.Settings, flags Flags, set map[string]bool) {
	if set["addr"] {
		s.Server.Addr = flags.Addr
	}
	if set["debug"] {
		s.Log.Debug = flags.Debug
	}
}

func main() {
	flags, set := parseFlags()

	settings, err := config.Load(flags.Config)
	if err != nil {
		color.Red("Config error, exiting: %s", err)
		os.Exit(1)
	}
	applyFlags(&settings, flags, set)

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if settings.Log.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := NewHub(logger, color.Output)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/", hub)

	srv := &http.Server{Addr: settings.Server.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	// Start the server.
	logger.Infof("Starting server on %s", settings.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("Error starting server, exiting.")
	}
}
