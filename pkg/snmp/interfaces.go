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

	"github.com/carverauto/linkwatch/pkg/models"
)

//go:generate mockgen -destination=mock_snmp.go -package=snmp github.com/carverauto/linkwatch/pkg/snmp Transport,MetricFetcher

// Transport performs the SNMP exchanges for a device and returns reply text,
// one net-snmp style line per variable binding.
type Transport interface {
	// Get fetches a single scalar.
	Get(ctx context.Context, device models.Device, oid string) (string, error)
	// Walk returns at most limit rows under oid.
	Walk(ctx context.Context, device models.Device, oid string, limit int) ([]string, error)
}

// MetricFetcher resolves one catalogue metric for a device. It never fails;
// every problem becomes a Missing value.
type MetricFetcher interface {
	Fetch(ctx context.Context, device models.Device, metric models.MetricName) models.MetricValue
}
