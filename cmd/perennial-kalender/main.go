package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/klabast/wb-services/perennial-kalender/internal/app"
	"github.com/klabast/wb-services/perennial-kalender/internal/commands"
)

// shutdownTimeout bounds how long in-flight requests may take to drain
const shutdownTimeout = 5 * time.Second

func main() {
	// Check for subcommands
	if len(os.Args) > 1 && os.Args[1] == app.ModeConvert {
		os.Exit(commands.Convert(os.Args[2:], os.Stdin, os.Stdout, os.Stderr))
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	port := flag.Int("port", cfg.Port, "Port to listen on (overrides PORT)")
	flag.Parse()
	cfg.Port = *port

	log := app.NewLogger(cfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.NewServer(cfg, log).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.WithError(err).Fatal("Failed to listen")
	}

	log.Infof("Starting Perennial Kalender in %s mode on http://localhost:%d", app.ModeServe, cfg.Port)
	if err := serve(ctx, srv, ln, log); err != nil {
		log.WithError(err).Fatal("Server failed")
	}
	log.Info("Server stopped")
}

// serve runs srv on ln until ctx is done, then shuts it down and returns
// once in-flight requests have drained or shutdownTimeout has passed.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, log *logrus.Logger) error {
	// Serve returns as soon as Shutdown starts; done is closed once
	// Shutdown itself has returned.
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Shutdown failed")
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
