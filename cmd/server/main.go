// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/internal/platform"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/internal/server"
)

const (
	healthInterval  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Error("server exited: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load platform config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base, err := platform.NewBaseService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := base.Close(); err != nil {
			log.Warn("closing platform resources: %v", err)
		}
	}()

	health := server.NewHealth(base)
	go health.Watch(ctx, healthInterval)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC health: %w", err)
	}
	grpcServer := health.ServeGRPC(lis)

	app := newApp(base, health)

	listenErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Info("starting %s on %s (gRPC health on :%d)", cfg.App.Name, addr, cfg.Server.GRPCPort)
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		grpcServer.Stop()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	health.Shutdown()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Warn("HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	return nil
}
