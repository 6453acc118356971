// wakewordd is the always-on wake word daemon: it watches the microphone
// for wake words, records until silence, publishes lifecycle events on a
// websocket bus and sends finished recordings for transcription.
package main

import (
	"context"
	"flag"
	stdlog "log"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-wakeword/internal/config"
	"github.com/teslashibe/go-wakeword/internal/log"
	"github.com/teslashibe/go-wakeword/pkg/daemon"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		debug      = flag.Bool("debug", false, "Enable verbose debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("config error: %v", err)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	log.Init(cfg.LogLevel)

	app, err := daemon.New(cfg, daemon.Deps{})
	if err != nil {
		stdlog.Fatalf("initialization failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		stdlog.Fatalf("runtime error: %v", err)
	}
}
