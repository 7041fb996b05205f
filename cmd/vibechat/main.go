package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vibechat/service/internal/app"
	"github.com/vibechat/service/internal/config"
)

// main runs the service entrypoint and exits on unrecoverable errors.
func main() {
	if errRun := run(context.Background(), os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("service failed")
		os.Exit(1)
	}
}

// run parses flags, loads config, and serves until interrupted.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vibechat", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	port := fs.Int("port", 0, "override the configured server port")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	cfg, errLoad := config.Load(config.ResolveConfigPath(*cfgPath))
	if errLoad != nil {
		return errLoad
	}
	if *port != 0 {
		if *port < 1 || *port > 65535 {
			return fmt.Errorf("invalid port %d", *port)
		}
		cfg.Server.Port = *port
	}

	if cfg.Server.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, cfg)
}
