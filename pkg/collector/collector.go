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

// Package collector turns the per-metric fetch results for a device into a
// normalised DeviceSnapshot.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
	"github.com/carverauto/linkwatch/pkg/snmp"
)

const (
	// DefaultConcurrency bounds the in-flight fetches per device.
	DefaultConcurrency = 4

	// DefaultMaxFillIndex is the highest ifIndex up to which table gaps are
	// filled with placeholders.
	DefaultMaxFillIndex = snmp.DefaultMaxWalkRows

	unknownText = "Unknown"
)

// Collector gathers every catalogue metric for a device.
type Collector struct {
	fetcher     snmp.MetricFetcher
	concurrency int
	maxFill     int
	now         func() time.Time
	logger      logger.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithNow overrides the snapshot timestamp source.
func WithNow(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// WithMaxFillIndex bounds gap filling. Tables whose highest index exceeds
// n keep only their real entries. n <= 0 selects DefaultMaxFillIndex.
func WithMaxFillIndex(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.maxFill = n
		}
	}
}

// New returns a Collector. concurrency <= 0 selects DefaultConcurrency.
func New(fetcher snmp.MetricFetcher, concurrency int, log logger.Logger, opts ...Option) *Collector {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	c := &Collector{
		fetcher:     fetcher,
		concurrency: concurrency,
		maxFill:     DefaultMaxFillIndex,
		now:         time.Now,
		logger:      log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Collect fetches every metric the device supports and returns the
// snapshot once all fetches have finished. It never fails; unreachable
// devices produce a snapshot of Missing values and defaults.
func (c *Collector) Collect(ctx context.Context, device models.Device) *models.DeviceSnapshot {
	metrics := models.AllMetrics()
	if !device.SupportsInterfaces() {
		metrics = withoutMetric(metrics, models.MetricInterfaceTable)
	}

	values := make(map[models.MetricName]models.MetricValue, len(metrics))

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, name := range metrics {
		g.Go(func() error {
			v := c.fetcher.Fetch(gctx, device, name)

			mu.Lock()
			values[name] = v
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	if table, ok := values[models.MetricInterfaceTable].Table(); ok {
		if maxIndex := table.MaxIndex(); maxIndex > c.maxFill {
			c.logger.Warn().
				Str("device", device.Address).
				Int("max_index", maxIndex).
				Int("max_fill_index", c.maxFill).
				Int("interfaces", len(table)).
				Msg("Interface index above fill limit, keeping reported interfaces only")
		}
	}

	snapshot := Build(device, values, c.now(), c.maxFill)

	c.logger.Debug().
		Str("device", device.Address).
		Int("missing", countMissing(values)).
		Int("interfaces", len(snapshot.Interfaces)).
		Msg("Collected device snapshot")

	return snapshot
}

// Build assembles a snapshot from raw values, applying defaults and table
// normalisation bounded by maxFill. values is retained by the snapshot.
func Build(
	device models.Device, values map[models.MetricName]models.MetricValue, ts time.Time, maxFill int,
) *models.DeviceSnapshot {
	snapshot := &models.DeviceSnapshot{
		Device:         device,
		Timestamp:      ts,
		Values:         values,
		Hostname:       textOr(values[models.MetricHostname], unknownText),
		Domain:         textOr(values[models.MetricDomain], unknownText),
		UptimeTicks:    ticksOr(values[models.MetricUptime], 0),
		InterfaceCount: intOr(values[models.MetricInterfaceCount], 0),
		CPU: models.CPULoad{
			FiveSec: intOr(values[models.MetricCPU5s], 0),
			OneMin:  intOr(values[models.MetricCPU1m], 0),
			FiveMin: intOr(values[models.MetricCPU5m], 0),
		},
		Memory: memoryUsage(values[models.MetricMemTotal], values[models.MetricMemUsed]),
	}

	table, _ := values[models.MetricInterfaceTable].Table()
	snapshot.Interfaces = NormalizeInterfaces(table, maxFill)

	return snapshot
}

// memoryUsage defaults total to 1, also when reported as 0, and used to 0.
// Percent is only defined when the raw total is present and positive, and
// is clamped to [0, 100].
func memoryUsage(totalValue, usedValue models.MetricValue) models.MemoryUsage {
	usage := models.MemoryUsage{
		Total: intOr(totalValue, 1),
		Used:  intOr(usedValue, 0),
	}

	if usage.Total == 0 {
		usage.Total = 1
	}

	rawTotal, ok := totalValue.Int()
	if !ok || rawTotal <= 0 {
		return usage
	}

	pct := float64(usage.Used) / float64(rawTotal) * 100
	pct = min(max(pct, 0), 100)
	usage.Percent = &pct

	return usage
}

// NormalizeInterfaces orders the table by index and fills every gap in
// 1..max with a Down placeholder named "Unknown <i>". When max exceeds
// maxFill only the real entries are returned. maxFill <= 0 selects
// DefaultMaxFillIndex.
func NormalizeInterfaces(table models.InterfaceTable, maxFill int) models.InterfaceTable {
	if maxFill <= 0 {
		maxFill = DefaultMaxFillIndex
	}

	byIndex := make(map[int]models.InterfaceEntry, len(table))
	maxIndex := 0

	for _, e := range table {
		if e.Index <= 0 {
			continue
		}

		byIndex[e.Index] = e
		maxIndex = max(maxIndex, e.Index)
	}

	if maxIndex > maxFill {
		reported := make(models.InterfaceTable, 0, len(byIndex))
		for _, e := range byIndex {
			reported = append(reported, e)
		}

		return reported.Sorted()
	}

	out := make(models.InterfaceTable, 0, maxIndex)

	for i := 1; i <= maxIndex; i++ {
		if e, ok := byIndex[i]; ok {
			out = append(out, e)
			continue
		}

		out = append(out, models.InterfaceEntry{
			Index: i,
			Name:  fmt.Sprintf("%s %d", unknownText, i),
			State: models.LinkDown,
		})
	}

	return out
}

func textOr(v models.MetricValue, def string) string {
	if s, ok := v.Text(); ok {
		return s
	}

	return def
}

func intOr(v models.MetricValue, def int64) int64 {
	if n, ok := v.Int(); ok {
		return n
	}

	return def
}

func ticksOr(v models.MetricValue, def int64) int64 {
	if n, ok := v.Ticks(); ok {
		return n
	}

	return def
}

func withoutMetric(metrics []models.MetricName, drop models.MetricName) []models.MetricName {
	out := metrics[:0]

	for _, m := range metrics {
		if m != drop {
			out = append(out, m)
		}
	}

	return out
}

func countMissing(values map[models.MetricName]models.MetricValue) int {
	n := 0

	for _, v := range values {
		if v.IsMissing() {
			n++
		}
	}

	return n
}
