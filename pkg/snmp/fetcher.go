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

// Package snmp fetches catalogue metrics from devices and decodes the
// replies into typed values.
package snmp

import (
	"context"

	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
)

const (
	reasonTransport = "transport"
	reasonParse     = "parse"
	reasonUnknown   = "unknown_metric"
)

// Fetcher resolves metrics through a Transport.
type Fetcher struct {
	transport   Transport
	catalog     Catalog
	maxWalkRows int
	logger      logger.Logger
}

var _ MetricFetcher = (*Fetcher)(nil)

// NewFetcher returns a Fetcher. maxWalkRows <= 0 selects DefaultMaxWalkRows.
func NewFetcher(transport Transport, catalog Catalog, maxWalkRows int, log logger.Logger) *Fetcher {
	if maxWalkRows <= 0 {
		maxWalkRows = DefaultMaxWalkRows
	}

	if catalog == nil {
		catalog = DefaultCatalog()
	}

	return &Fetcher{
		transport:   transport,
		catalog:     catalog,
		maxWalkRows: maxWalkRows,
		logger:      log,
	}
}

// Catalog returns the catalogue in use.
func (f *Fetcher) Catalog() Catalog {
	return f.catalog
}

// Fetch implements MetricFetcher.
func (f *Fetcher) Fetch(ctx context.Context, device models.Device, name models.MetricName) models.MetricValue {
	loc, ok := f.catalog[name]
	if !ok {
		f.logger.Debug().Str("device", device.Address).Str("metric", string(name)).Msg("Metric not in catalogue")
		recordMissing(ctx, name, reasonUnknown)

		return models.Missing()
	}

	if loc.Shape == ShapeTable {
		return f.fetchTable(ctx, device, name, loc)
	}

	reply, err := f.transport.Get(ctx, device, loc.OID)
	if err != nil {
		f.logger.Debug().
			Err(err).
			Str("device", device.Address).
			Str("metric", string(name)).
			Str("oid", loc.OID).
			Msg("SNMP get failed")
		recordMissing(ctx, name, reasonTransport)

		return models.Missing()
	}

	value := decodeScalar(loc.Shape, reply)
	if value.IsMissing() {
		f.logger.Debug().
			Str("device", device.Address).
			Str("metric", string(name)).
			Str("oid", loc.OID).
			Str("reply", reply).
			Msg("Unparseable SNMP reply")
		recordMissing(ctx, name, reasonParse)
	}

	return value
}

// fetchTable walks the status column, then the name column. Without status
// rows there is no table; without names the entries are unnamed.
func (f *Fetcher) fetchTable(
	ctx context.Context, device models.Device, name models.MetricName, loc Locator) models.MetricValue {
	statusRows, err := f.walk(ctx, device, loc.StatusOID)
	if err != nil {
		f.logger.Debug().
			Err(err).
			Str("device", device.Address).
			Str("metric", string(name)).
			Str("oid", loc.StatusOID).
			Msg("Interface status walk failed")
		recordMissing(ctx, name, reasonTransport)

		return models.Missing()
	}

	nameRows, err := f.walk(ctx, device, loc.OID)
	if err != nil {
		f.logger.Debug().
			Err(err).
			Str("device", device.Address).
			Str("oid", loc.OID).
			Msg("Interface name walk failed, continuing without names")

		nameRows = nil
	}

	return models.TableValue(DecodeTable(nameRows, statusRows))
}

// walk asks for one row more than the bound so truncation can be detected.
func (f *Fetcher) walk(ctx context.Context, device models.Device, oid string) ([]string, error) {
	rows, err := f.transport.Walk(ctx, device, oid, f.maxWalkRows+1)
	if err != nil {
		return nil, err
	}

	if len(rows) > f.maxWalkRows {
		f.logger.Warn().
			Str("device", device.Address).
			Str("oid", oid).
			Int("max_walk_rows", f.maxWalkRows).
			Msg("SNMP walk exceeded row limit, truncating")

		rows = rows[:f.maxWalkRows]
	}

	return rows, nil
}
