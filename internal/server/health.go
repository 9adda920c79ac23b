// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package server exposes process health over HTTP and the standard gRPC health protocol.
package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/qolzam/devflow/internal/pkg/log"
)

// ServiceName is the gRPC health service name reported alongside the overall ("") status.
const ServiceName = "devflow.api"

// Checker reports whether a dependency is usable.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// Health tracks the last probe result and serves it to both transports.
type Health struct {
	checker Checker
	timeout time.Duration
	grpc    *health.Server

	mu        sync.RWMutex
	lastErr   error
	checkedAt time.Time
}

// NewHealth creates a health reporter. Status starts as NOT_SERVING until the first probe.
func NewHealth(checker Checker) *Health {
	h := &Health{
		checker: checker,
		timeout: 2 * time.Second,
		grpc:    health.NewServer(),
	}
	h.grpc.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.grpc.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Probe runs the checker once and publishes the result.
func (h *Health) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := h.checker.HealthCheck(probeCtx)

	h.mu.Lock()
	h.lastErr = err
	h.checkedAt = time.Now()
	h.mu.Unlock()

	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		log.Warn("health probe failed: %v", err)
	}
	h.grpc.SetServingStatus("", status)
	h.grpc.SetServingStatus(ServiceName, status)
	return err
}

// Watch probes on every tick until ctx is done.
func (h *Health) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = h.Probe(ctx)
		}
	}
}

// Handler answers GET /health with a fresh probe.
func (h *Health) Handler(c *fiber.Ctx) error {
	if err := h.Probe(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unavailable",
			"database": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": "ok",
	})
}

// NewGRPCServer returns a gRPC server with only the health service registered.
func (h *Health) NewGRPCServer() *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, h.grpc)
	return s
}

// ServeGRPC serves the health protocol on lis until Stop is called on the returned server.
func (h *Health) ServeGRPC(lis net.Listener) *grpc.Server {
	s := h.NewGRPCServer()
	go func() {
		if err := s.Serve(lis); err != nil {
			log.Error("gRPC health server stopped: %v", err)
		}
	}()
	return s
}

// Shutdown marks every service NOT_SERVING so load balancers drain before exit.
func (h *Health) Shutdown() {
	h.grpc.Shutdown()
}
