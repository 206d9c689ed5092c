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

// Package linkwatch assembles the poller, its notifiers and the HTTP API
// into one runnable service.
package linkwatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/linkwatch/pkg/api"
	"github.com/carverauto/linkwatch/pkg/collector"
	"github.com/carverauto/linkwatch/pkg/linkstate"
	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
	"github.com/carverauto/linkwatch/pkg/notify"
	"github.com/carverauto/linkwatch/pkg/poller"
	"github.com/carverauto/linkwatch/pkg/snmp"
)

const apiShutdownTimeout = 5 * time.Second

// Service runs the poll loop and, when configured, the HTTP API.
type Service struct {
	config    *Config
	poller    *poller.Poller
	detector  *linkstate.Detector
	collector *collector.Collector
	notifier  *notify.Multi
	hub       *notify.Hub
	nats      *notify.NATSNotifier
	api       *api.Server
	logger    logger.Logger

	mu       sync.Mutex
	health   func(serving bool)
	stopped  chan struct{}
	stopOnce sync.Once
}

// Option configures a Service.
type Option func(*options)

type options struct {
	transport snmp.Transport
	clock     poller.Clock
	notifiers []notify.Notifier
}

// WithTransport replaces the gosnmp transport.
func WithTransport(t snmp.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithClock replaces the poller's wall clock.
func WithClock(c poller.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithNotifiers adds notifiers next to the configured ones.
func WithNotifiers(n ...notify.Notifier) Option {
	return func(o *options) {
		o.notifiers = append(o.notifiers, n...)
	}
}

// New wires a Service from a validated config.
func New(ctx context.Context, cfg *Config, log logger.Logger, opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	catalog, err := cfg.SNMPConfig.Catalog()
	if err != nil {
		return nil, err
	}

	transport := o.transport
	if transport == nil {
		transport = snmp.NewGoSNMPTransport(cfg.SNMPConfig, component(log, "snmp"))
	}

	s := &Service{
		config:  cfg,
		logger:  log,
		stopped: make(chan struct{}),
	}

	fetcher := snmp.NewFetcher(transport, catalog, cfg.MaxWalkRows, component(log, "fetcher"))
	s.collector = collector.New(fetcher, cfg.MetricConcurrency, component(log, "collector"),
		collector.WithMaxFillIndex(cfg.MaxWalkRows))
	s.detector = linkstate.NewDetector(component(log, "linkstate"),
		linkstate.WithPerInterfaceEvents(cfg.PerInterfaceEvents))

	notifiers, err := s.buildNotifiers(ctx, o.notifiers)
	if err != nil {
		return nil, err
	}

	s.notifier = notify.NewMulti(notifiers...)

	pollerOpts := []poller.Option{poller.WithCycleHook(s.onCycle)}
	if o.clock != nil {
		pollerOpts = append(pollerOpts, poller.WithClock(o.clock))
	}

	s.poller, err = poller.New(&cfg.PollConfig, cfg.Devices, s.collector, s.detector, s.notifier,
		component(log, "poller"), pollerOpts...)
	if err != nil {
		s.closeNotifiers()

		return nil, err
	}

	if cfg.ListenAddr != "" {
		apiOpts := []api.Option{api.WithCollector(s.collector)}
		if s.hub != nil {
			apiOpts = append(apiOpts, api.WithEventStream(s.hub))
		}

		s.api = api.NewServer(cfg.APIConfig, s.poller, s.detector, component(log, "api"), apiOpts...)
	}

	return s, nil
}

func component(log logger.Logger, name string) logger.Logger {
	return logger.Wrap(log.WithComponent(name))
}

func (s *Service) buildNotifiers(ctx context.Context, extra []notify.Notifier) ([]notify.Notifier, error) {
	notifiers := []notify.Notifier{notify.NewLogNotifier(component(s.logger, "notify"))}

	for _, wh := range s.config.Webhooks {
		n, err := notify.NewWebhookNotifier(wh, component(s.logger, "webhook"))
		if err != nil {
			return nil, fmt.Errorf("webhook %s: %w", wh.Name, err)
		}

		notifiers = append(notifiers, n)
	}

	if s.config.NATS != nil {
		n, err := notify.NewNATSNotifier(ctx, *s.config.NATS, component(s.logger, "nats"))
		if err != nil {
			return nil, err
		}

		s.nats = n
		notifiers = append(notifiers, n)
	}

	if s.config.ListenAddr != "" {
		cors := s.config.CORS
		s.hub = notify.NewHub(component(s.logger, "stream"), func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			return origin == "" || cors.Allowed(origin)
		})
		notifiers = append(notifiers, s.hub)
	}

	return append(notifiers, extra...), nil
}

// SetHealthReporter implements lifecycle.HealthAware. The reporter is
// called with true after every completed cycle.
func (s *Service) SetHealthReporter(fn func(serving bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.health = fn
}

func (s *Service) onCycle(summary poller.CycleSummary) {
	s.logger.Debug().
		Int("devices", summary.Devices).
		Int("polled", summary.Polled).
		Int("skipped", summary.Skipped).
		Int("events", summary.Events).
		Int("notify_failures", summary.NotifyFailures).
		Dur("duration", summary.Duration).
		Msg("Poll cycle complete")

	s.mu.Lock()
	fn := s.health
	s.mu.Unlock()

	if fn != nil {
		fn(true)
	}
}

// Start runs the poller and the API until ctx is done or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.poller.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	})

	if s.api != nil {
		g.Go(func() error {
			return s.api.Start(gctx)
		})

		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-s.stopped:
			}

			stopCtx, cancel := context.WithTimeout(context.Background(), apiShutdownTimeout)
			defer cancel()

			return s.api.Stop(stopCtx)
		})
	}

	return g.Wait()
}

// PollOnce runs a single synchronous cycle.
func (s *Service) PollOnce(ctx context.Context) (poller.CycleSummary, error) {
	return s.poller.PollOnce(ctx)
}

// Snapshots returns the latest snapshot of every device polled so far,
// in configuration order.
func (s *Service) Snapshots() []*models.DeviceSnapshot {
	devices := s.poller.Devices()

	out := make([]*models.DeviceSnapshot, 0, len(devices))

	for _, d := range devices {
		if snap, ok := s.poller.LastSnapshot(d.Address); ok && snap != nil {
			out = append(out, snap)
		}
	}

	return out
}

// States returns the recorded link state of every observed device.
func (s *Service) States() map[string]models.DeviceLinkState {
	return s.detector.States()
}

// Stop stops the poller, the API and every notifier connection.
func (s *Service) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopped) })

	var errs []error

	if err := s.poller.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("poller: %w", err))
	}

	if s.api != nil {
		if err := s.api.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("api: %w", err))
		}
	}

	s.closeNotifiers()

	return errors.Join(errs...)
}

func (s *Service) closeNotifiers() {
	if s.hub != nil {
		s.hub.Close()
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to drain NATS connection")
		}
	}
}
