package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"hellok8s/fmtlog"
	"hellok8s/greeter"
	"hellok8s/http"
)

func main() {
	// Setup signal handlers.
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() { <-c; cancel() }()

	// Instantiate a new type to represent our application.
	// This type lets us shared setup code with our end-to-end tests.
	m := NewMain()

	// Parse command line flags & load configuration.
	if err := m.ParseFlags(ctx, os.Args[1:]); err == flag.ErrHelp {
		os.Exit(1)
	} else if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Execute program.
	if err := m.Run(ctx); err != nil {
		_ = m.Close()
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Wait for CTRL-C or SIGTERM from the orchestrator.
	<-ctx.Done()

	// Clean up program.
	if err := m.Close(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the greeting caller program.
type Main struct {
	// Configuration path and parsed config data.
	Config     Config
	ConfigPath string

	Logger log.Logger

	// HTTP server for handling HTTP communication.
	// The greeting service is attached to it before running.
	HTTPServer *http.Server
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	var logger log.Logger
	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "caller", log.DefaultCaller)

	return &Main{
		Config: DefaultConfig(),
		Logger: logger,

		HTTPServer: http.NewServer(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.HTTPServer != nil {
		if err := m.HTTPServer.Close(); err != nil {
			return err
		}
	}
	return nil
}

// ParseFlags parses the command line arguments & loads the config.
//
// This exists separately from the Run() function so that we can skip it
// during end-to-end tests. Those tests will configure manually and call Run().
func (m *Main) ParseFlags(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hello-caller", flag.ContinueOnError)
	fs.StringVar(&m.ConfigPath, "config", "", "config path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	config, err := LoadConfig(m.ConfigPath)
	if err != nil {
		return err
	}
	m.Config = config

	return nil
}

// Run executes the program. The configuration should already be set up before
// calling this function.
func (m *Main) Run(ctx context.Context) (err error) {
	// The outbound client has no timeout of its own; the inbound request's
	// context bounds every call.
	nameClient, err := http.NewNameClient(m.Config.NameService.URL, nil)
	if err != nil {
		return fmt.Errorf("cannot create name service client: %w", err)
	}
	names := fmtlog.NameLoggingMiddleware(log.With(m.Logger, "component", "NameClient"))(nameClient)

	// Attach underlying service to the HTTP server.
	m.HTTPServer.GreetingService = fmtlog.GreetingLoggingMiddleware(log.With(m.Logger, "component", "GreetingService"))(greeter.NewGreetingService(names))
	m.HTTPServer.Logger = log.With(m.Logger, "component", "HTTPServer")

	// Copy configuration settings to the HTTP server.
	m.HTTPServer.Addr = m.Config.HTTP.Addr
	m.HTTPServer.Domain = m.Config.HTTP.Domain
	if len(m.Config.HTTP.AllowedOrigins) > 0 {
		m.HTTPServer.AllowedOrigins = m.Config.HTTP.AllowedOrigins
	}

	if err := m.HTTPServer.Open(); err != nil {
		return err
	}

	// If TLS enabled, redirect non-TLS connections to TLS.
	if m.HTTPServer.UseTLS() {
		go func() {
			if err := http.ListenAndServeTLSRedirect(m.Config.HTTP.Domain); err != nil {
				level.Error(m.Logger).Log("msg", "tls redirect server stopped", "err", err)
			}
		}()
	}

	if m.Config.HTTP.DebugAddr != "" {
		go func() {
			if err := http.ListenAndServeDebug(m.Config.HTTP.DebugAddr); err != nil {
				level.Error(m.Logger).Log("msg", "debug server stopped", "err", err)
			}
		}()
	}

	level.Info(m.Logger).Log(
		"msg", "hello caller running",
		"url", m.HTTPServer.URL(),
		"name_service", m.Config.NameService.URL,
	)

	return nil
}
