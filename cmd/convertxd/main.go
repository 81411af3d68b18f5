package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"convertx/internal/backends"
	"convertx/internal/config"
	"convertx/internal/daemon"
	"convertx/internal/dispatch"
	"convertx/internal/jobs"
	"convertx/internal/logging"
	"convertx/internal/registry"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := jobs.Open(cfg)
	if err != nil {
		logger.Error("open job store", logging.Error(err))
		return
	}
	defer store.Close()

	set, err := backends.NewSet(cfg)
	if err != nil {
		logger.Error("build backends", logging.Error(err))
		return
	}

	reg, err := registry.New(set.Descriptors()...)
	if err != nil {
		logger.Error("build format registry", logging.Error(err))
		return
	}

	dispatcher, err := dispatch.New(reg, set.Runners(), logger)
	if err != nil {
		logger.Error("build dispatcher", logging.Error(err))
		return
	}

	d, err := daemon.New(cfg, store, reg, dispatcher, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("convertxd shutting down")
}
