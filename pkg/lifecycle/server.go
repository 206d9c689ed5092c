/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package lifecycle runs a long-lived service next to its gRPC health
// endpoint and stops both on SIGINT, SIGTERM or context cancellation.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/linkwatch/pkg/grpc"
	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

const defaultShutdownTimeout = 10 * time.Second

var errServiceRequired = errors.New("service is required")

// Service is a long-running component. Start blocks until ctx is done or
// the service fails; Stop releases its resources.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// HealthAware services report readiness themselves. Services that do not
// implement it are marked serving as soon as they are started.
type HealthAware interface {
	SetHealthReporter(func(serving bool))
}

// ServerOptions configures RunServer.
type ServerOptions struct {
	// ListenAddr is the gRPC health listen address. Empty disables it.
	ListenAddr        string
	ServiceName       string
	Service           Service
	EnableHealthCheck bool
	Security          *models.SecurityConfig
	Logger            logger.Logger
	ShutdownTimeout   time.Duration
	// Signals defaults to SIGINT and SIGTERM.
	Signals []os.Signal
}

// RunServer starts the service and, when enabled, the gRPC health server,
// then waits for a signal, ctx cancellation or a component failure before
// stopping both.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	if opts == nil || opts.Service == nil {
		return errServiceRequired
	}

	log := opts.Logger
	if log == nil {
		log = logger.Wrap(logger.GetLogger())
	}

	signals := opts.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	ctx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()

	health, err := newHealthServer(opts, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)

	if health != nil {
		go func() {
			if err := health.Start(); err != nil {
				errCh <- fmt.Errorf("health server: %w", err)
			}
		}()

		if aware, ok := opts.Service.(HealthAware); ok {
			aware.SetHealthReporter(health.SetServing)
		} else {
			health.SetServing(true)
		}
	}

	go func() {
		errCh <- opts.Service.Start(ctx)
	}()

	log.Info().Str("service", opts.ServiceName).Msg("Service started")

	var runErr error

	select {
	case <-ctx.Done():
		log.Info().Str("service", opts.ServiceName).Msg("Shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			runErr = err
			log.Error().Err(err).Str("service", opts.ServiceName).Msg("Service exited with error")
		}
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if health != nil {
		health.SetServing(false)
	}

	if err := opts.Service.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop service cleanly")

		runErr = errors.Join(runErr, err)
	}

	if health != nil {
		health.Stop(shutdownCtx)
	}

	log.Info().Str("service", opts.ServiceName).Msg("Service stopped")

	return runErr
}

func newHealthServer(opts *ServerOptions, log logger.Logger) (*grpc.Server, error) {
	if !opts.EnableHealthCheck || opts.ListenAddr == "" {
		return nil, nil
	}

	secOpt, err := grpc.WithSecurity(opts.Security, log)
	if err != nil {
		return nil, fmt.Errorf("failed to configure health server security: %w", err)
	}

	srv := grpc.NewServer(opts.ListenAddr, log, secOpt)
	srv.TrackService(opts.ServiceName)

	if err := srv.Listen(); err != nil {
		return nil, err
	}

	return srv, nil
}
