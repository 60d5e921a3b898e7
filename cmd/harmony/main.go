// cmd/harmony/main.go
//
// Harmony – terminal client entry point.
//
// Life-cycle
// ----------
//
//  1. Load configuration (defaults → .env → conf/harmony.yaml → HARMONY_*).
//
//  2. Start the daily rotating logger.
//
//  3. Register the built-in forms, then any overrides under forms.dir.
//
//  4. Optionally expose Prometheus /metrics on metrics.listen_addr.
//
//  5. Check the backend (GET /api/test) and print the status line.
//
//  6. Unless the command is `status`, drive screens from the router until
//     the dashboard is reached or the user quits.
//
// Usage:  harmony [status|login|register]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/harmony/harcloud/internal/api"
	"github.com/harmony/harcloud/internal/config"
	"github.com/harmony/harcloud/internal/form"
	"github.com/harmony/harcloud/internal/logger"
	"github.com/harmony/harcloud/internal/message"
	"github.com/harmony/harcloud/internal/screen"
	"github.com/harmony/harcloud/internal/server"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [status|login|register]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := flag.Arg(0)
	start, err := startRoute(cmd)
	if err != nil {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Log.Dir, cfg.Log.Tee)
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	if err := form.RegisterBuiltin(); err != nil {
		logOut.Fatalf("register built-in forms: %v", err)
	}
	if err := form.RegisterDir(cfg.Forms.Dir); err != nil {
		logOut.Fatalf("register forms from %s: %v", cfg.Forms.Dir, err)
	}

	client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		logOut.Fatalf("backend client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, logOut)

	uiCtx, uiDone := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(uiCtx)

	if addr := cfg.Metrics.ListenAddr; addr != "" {
		g.Go(func() error {
			return server.Serve(gctx, server.New(addr, server.MetricsHandler()), logOut)
		})
	}

	g.Go(func() error {
		defer uiDone()
		a := &app{
			client:  client,
			driver:  screen.NewSurveyDriver(os.Stdout),
			printer: message.NewPrinter(os.Stdout),
		}
		return a.run(gctx, start, cmd == cmdStatus)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logOut.Errorw("harmony exited with error", "err", err)
		stop()
		os.Exit(1)
	}
}
