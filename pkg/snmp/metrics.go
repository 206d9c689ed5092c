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

package snmp

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/linkwatch/pkg/models"
)

const (
	meterName          = "github.com/carverauto/linkwatch/pkg/snmp"
	metricFetchMissing = "linkwatch.fetch.missing"
)

var (
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	missingCounter metric.Int64Counter
)

func initMeter() {
	counter, err := otel.Meter(meterName).Int64Counter(
		metricFetchMissing,
		metric.WithDescription("Metric fetches that resolved to Missing"),
	)
	if err != nil {
		otel.Handle(err)
	}

	missingCounter = counter
}

// recordMissing counts a fetch that produced no value. reason is one of
// transport or parse.
func recordMissing(ctx context.Context, name models.MetricName, reason string) {
	meterOnce.Do(initMeter)

	if missingCounter == nil {
		return
	}

	missingCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("metric", string(name)),
		attribute.String("reason", reason),
	))
}
