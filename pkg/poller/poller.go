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

// Package poller drives periodic collection across all configured devices
// and routes detected transitions to the notifier.
package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
	"github.com/carverauto/linkwatch/pkg/notify"
)

const tracerName = "github.com/carverauto/linkwatch/pkg/poller"

// CycleSummary describes one completed poll cycle.
type CycleSummary struct {
	Started        time.Time     `json:"started"`
	Duration       time.Duration `json:"duration"`
	Devices        int           `json:"devices"`
	Polled         int           `json:"polled"`
	Skipped        int           `json:"skipped"`
	Events         int           `json:"events"`
	NotifyFailures int           `json:"notify_failures"`
}

type deviceResult struct {
	skipped        bool
	events         int
	notifyFailures int
}

// Poller polls every device once per interval. Devices are polled
// concurrently and independently; a device whose previous poll has not
// finished is skipped for the tick.
type Poller struct {
	config    Config
	devices   []models.Device
	collector Collector
	detector  Detector
	notifier  notify.Notifier
	clock     Clock
	tracer    trace.Tracer
	logger    logger.Logger
	onCycle   func(CycleSummary)

	deviceLocks map[string]*sync.Mutex

	snapMu    sync.RWMutex
	snapshots map[string]*models.DeviceSnapshot
	last      CycleSummary

	ready     atomic.Bool
	cycles    atomic.Uint64
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	startWg   sync.WaitGroup
}

// Option configures a Poller.
type Option func(*Poller)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(p *Poller) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithCycleHook registers fn to run after every completed cycle.
func WithCycleHook(fn func(CycleSummary)) Option {
	return func(p *Poller) {
		p.onCycle = fn
	}
}

// New creates a new poller instance. A nil notifier logs events only.
func New(
	config *Config,
	devices []models.Device,
	collector Collector,
	detector Detector,
	notifier notify.Notifier,
	log logger.Logger,
	opts ...Option,
) (*Poller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		return nil, ErrNoDevices
	}

	locks := make(map[string]*sync.Mutex, len(devices))

	for _, d := range devices {
		if _, dup := locks[d.Address]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDevice, d.Address)
		}

		locks[d.Address] = &sync.Mutex{}
	}

	if notifier == nil {
		notifier = notify.NewLogNotifier(log)
	}

	p := &Poller{
		config:      *config,
		devices:     append([]models.Device(nil), devices...),
		collector:   collector,
		detector:    detector,
		notifier:    notifier,
		clock:       wallClock{},
		tracer:      otel.Tracer(tracerName),
		logger:      log,
		deviceLocks: locks,
		snapshots:   make(map[string]*models.DeviceSnapshot, len(devices)),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Start runs one cycle immediately and then one per tick until ctx is
// cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	interval := time.Duration(p.config.PollInterval)
	ticker := p.clock.Ticker(interval)

	defer ticker.Stop()

	p.logger.Info().
		Dur("interval", interval).
		Dur("device_timeout", time.Duration(p.config.DeviceTimeout)).
		Int("devices", len(p.devices)).
		Msg("Starting poller")

	p.startWg.Add(1)
	defer p.startWg.Done()

	p.wg.Add(1)
	defer p.wg.Done()

	select {
	case <-p.done:
		return nil
	default:
	}

	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return nil
		case <-ticker.Chan():
			p.wg.Add(1)

			go func() {
				defer p.wg.Done()

				p.runCycle(ctx)
			}()
		}
	}
}

// Stop implements the lifecycle.Service interface. It waits for in-flight
// cycles to finish or ctx to expire.
func (p *Poller) Stop(ctx context.Context) error {
	p.closeOnce.Do(func() {
		close(p.done)
	})

	finished := make(chan struct{})

	go func() {
		p.startWg.Wait()
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		p.logger.Info().Uint64("cycles", p.cycles.Load()).Msg("Poller stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for poll cycles: %w", ctx.Err())
	}
}

// PollOnce runs a single synchronous cycle.
func (p *Poller) PollOnce(ctx context.Context) (CycleSummary, error) {
	select {
	case <-p.done:
		return CycleSummary{}, ErrPollerStopped
	default:
	}

	if err := ctx.Err(); err != nil {
		return CycleSummary{}, err
	}

	p.wg.Add(1)
	defer p.wg.Done()

	return p.runCycle(ctx), nil
}

// Ready reports whether at least one full cycle has completed.
func (p *Poller) Ready() bool {
	return p.ready.Load()
}

// Cycles returns the number of completed cycles.
func (p *Poller) Cycles() uint64 {
	return p.cycles.Load()
}

// Devices returns the configured device list.
func (p *Poller) Devices() []models.Device {
	return append([]models.Device(nil), p.devices...)
}

// LastSnapshot returns the most recent snapshot collected for a device.
func (p *Poller) LastSnapshot(address string) (*models.DeviceSnapshot, bool) {
	p.snapMu.RLock()
	defer p.snapMu.RUnlock()

	s, ok := p.snapshots[address]

	return s, ok
}

// LastCycle returns the summary of the most recent completed cycle.
func (p *Poller) LastCycle() CycleSummary {
	p.snapMu.RLock()
	defer p.snapMu.RUnlock()

	return p.last
}

func (p *Poller) runCycle(ctx context.Context) CycleSummary {
	ctx, span := p.tracer.Start(ctx, "PollCycle")
	defer span.End()

	started := p.clock.Now()
	results := make([]deviceResult, len(p.devices))

	var g errgroup.Group

	for i, device := range p.devices {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error().
						Str("device", device.Address).
						Interface("panic", r).
						Msg("Device poll panicked")
				}
			}()

			results[i] = p.pollDevice(ctx, device)

			return nil
		})
	}

	_ = g.Wait()

	summary := CycleSummary{
		Started:  started,
		Duration: p.clock.Now().Sub(started),
		Devices:  len(p.devices),
	}

	for _, r := range results {
		if r.skipped {
			summary.Skipped++
			continue
		}

		summary.Polled++
		summary.Events += r.events
		summary.NotifyFailures += r.notifyFailures
	}

	span.SetAttributes(
		attribute.Int("devices", summary.Devices),
		attribute.Int("skipped", summary.Skipped),
		attribute.Int("events", summary.Events),
	)

	p.snapMu.Lock()
	p.last = summary
	p.snapMu.Unlock()

	p.cycles.Add(1)
	p.ready.Store(true)

	p.logger.Debug().
		Int("polled", summary.Polled).
		Int("skipped", summary.Skipped).
		Int("events", summary.Events).
		Dur("duration", summary.Duration).
		Msg("Polling cycle completed")

	if p.onCycle != nil {
		p.onCycle(summary)
	}

	return summary
}

func (p *Poller) pollDevice(ctx context.Context, device models.Device) deviceResult {
	lock := p.deviceLocks[device.Address]

	if !lock.TryLock() {
		p.logger.Warn().
			Str("device", device.Address).
			Msg("Previous poll still running, skipping device this tick")
		recordSkipped(ctx, device.Address)

		return deviceResult{skipped: true}
	}
	defer lock.Unlock()

	ctx, span := p.tracer.Start(ctx, "PollDevice", trace.WithAttributes(
		attribute.String("device", device.Address),
	))
	defer span.End()

	start := time.Now()

	dctx, cancel := context.WithTimeout(ctx, time.Duration(p.config.DeviceTimeout))
	snapshot := p.collector.Collect(dctx, device)

	cancel()

	recordPoll(ctx, device.Address, time.Since(start))

	if snapshot == nil {
		span.SetStatus(codes.Error, "collector returned no snapshot")
		p.logger.Error().Str("device", device.Address).Msg("Collector returned no snapshot")

		return deviceResult{}
	}

	p.snapMu.Lock()
	p.snapshots[device.Address] = snapshot
	p.snapMu.Unlock()

	event, ifEvents := p.detector.Observe(snapshot)

	var result deviceResult

	if event != nil {
		result.events++

		recordTransition(ctx, event.Device, event.Current)
		span.AddEvent("transition", trace.WithAttributes(
			attribute.String("previous_state", string(event.Previous)),
			attribute.String("new_state", string(event.Current)),
		))

		p.logger.Info().
			Str("device", event.Device).
			Str("previous_state", string(event.Previous)).
			Str("new_state", string(event.Current)).
			Msg("Link state changed")

		if !p.deliver(ctx, "device", func(nctx context.Context) error {
			return p.notifier.Notify(nctx, *event)
		}) {
			result.notifyFailures++
		}
	}

	result.events += len(ifEvents)

	if len(ifEvents) > 0 {
		if in, ok := p.notifier.(notify.InterfaceNotifier); ok {
			for _, ev := range ifEvents {
				if !p.deliver(ctx, "interface", func(nctx context.Context) error {
					return in.NotifyInterface(nctx, ev)
				}) {
					result.notifyFailures++
				}
			}
		}
	}

	return result
}

// deliver runs send with the notify timeout. Errors and panics are logged
// and counted; they never affect detector state.
func (p *Poller) deliver(ctx context.Context, kind string, send func(context.Context) error) (ok bool) {
	nctx, cancel := context.WithTimeout(ctx, time.Duration(p.config.NotifyTimeout))
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Str("kind", kind).
				Interface("panic", r).
				Msg("Notifier panicked")
			recordNotifyFailure(ctx, kind)

			ok = false
		}
	}()

	if err := send(nctx); err != nil {
		p.logger.Error().
			Err(err).
			Str("kind", kind).
			Msg("Failed to deliver notification")
		recordNotifyFailure(ctx, kind)

		return false
	}

	return true
}
