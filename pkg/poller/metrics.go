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

package poller

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/linkwatch/pkg/models"
)

const (
	meterName = "github.com/carverauto/linkwatch/pkg/poller"

	metricPolls          = "linkwatch.polls"
	metricPollDuration   = "linkwatch.poll.duration"
	metricPollSkipped    = "linkwatch.poll.skipped"
	metricTransitions    = "linkwatch.transitions"
	metricNotifyFailures = "linkwatch.notify.failures"
)

type pollerInstruments struct {
	polls          metric.Int64Counter
	duration       metric.Float64Histogram
	skipped        metric.Int64Counter
	transitions    metric.Int64Counter
	notifyFailures metric.Int64Counter
}

var (
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	instruments pollerInstruments
)

func initMeter() {
	meter := otel.Meter(meterName)

	var err error

	if instruments.polls, err = meter.Int64Counter(
		metricPolls,
		metric.WithDescription("Device polls completed"),
	); err != nil {
		otel.Handle(err)
	}

	if instruments.duration, err = meter.Float64Histogram(
		metricPollDuration,
		metric.WithDescription("Time to collect one device snapshot"),
		metric.WithUnit("s"),
	); err != nil {
		otel.Handle(err)
	}

	if instruments.skipped, err = meter.Int64Counter(
		metricPollSkipped,
		metric.WithDescription("Device polls skipped because the previous poll was still running"),
	); err != nil {
		otel.Handle(err)
	}

	if instruments.transitions, err = meter.Int64Counter(
		metricTransitions,
		metric.WithDescription("Link state transitions detected"),
	); err != nil {
		otel.Handle(err)
	}

	if instruments.notifyFailures, err = meter.Int64Counter(
		metricNotifyFailures,
		metric.WithDescription("Notifier deliveries that failed or panicked"),
	); err != nil {
		otel.Handle(err)
	}
}

func recordPoll(ctx context.Context, device string, elapsed time.Duration) {
	meterOnce.Do(initMeter)

	attrs := metric.WithAttributes(attribute.String("device", device))

	if instruments.polls != nil {
		instruments.polls.Add(ctx, 1, attrs)
	}

	if instruments.duration != nil {
		instruments.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

func recordSkipped(ctx context.Context, device string) {
	meterOnce.Do(initMeter)

	if instruments.skipped != nil {
		instruments.skipped.Add(ctx, 1, metric.WithAttributes(attribute.String("device", device)))
	}
}

func recordTransition(ctx context.Context, device string, current models.LinkState) {
	meterOnce.Do(initMeter)

	if instruments.transitions != nil {
		instruments.transitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("device", device),
			attribute.String("state", string(current)),
		))
	}
}

func recordNotifyFailure(ctx context.Context, kind string) {
	meterOnce.Do(initMeter)

	if instruments.notifyFailures != nil {
		instruments.notifyFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}
