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
	"fmt"
	"strconv"
	"strings"

	"github.com/carverauto/linkwatch/pkg/models"
)

// Shape selects the decoder applied to a metric's reply.
type Shape int

const (
	ShapeInt Shape = iota
	ShapeString
	ShapeDuration
	ShapeTable
)

func (s Shape) String() string {
	switch s {
	case ShapeInt:
		return "int"
	case ShapeString:
		return "string"
	case ShapeDuration:
		return "duration"
	case ShapeTable:
		return "table"
	default:
		return "unknown"
	}
}

// Locator says where a metric lives. Table metrics use OID for the name
// column and StatusOID for the operational status column.
type Locator struct {
	OID       string
	StatusOID string
	Shape     Shape
}

// Override keys for the two interface table columns.
const (
	OverrideInterfaceNames  = "interface_names"
	OverrideInterfaceStatus = "interface_status"
)

// Default locators. The Cisco scalars come from OLD-CISCO-* MIBs; the rest
// are MIB-II.
const (
	oidHostname      = ".1.3.6.1.4.1.9.2.1.3.0"
	oidDomain        = ".1.3.6.1.4.1.9.2.1.4.0"
	oidSysUpTime     = ".1.3.6.1.2.1.1.3.0"
	oidCPU5s         = ".1.3.6.1.4.1.9.2.1.56.0"
	oidCPU1m         = ".1.3.6.1.4.1.9.2.1.57.0"
	oidCPU5m         = ".1.3.6.1.4.1.9.2.1.58.0"
	oidMemTotal      = ".1.3.6.1.4.1.9.2.1.8.0"
	oidMemUsed       = ".1.3.6.1.4.1.9.2.1.9.0"
	oidIfNumber      = ".1.3.6.1.2.1.2.1.0"
	oidIfDescr       = ".1.3.6.1.2.1.2.2.1.2"
	oidIfAdminStatus = ".1.3.6.1.2.1.2.2.1.7"
	oidIfOperStatus  = ".1.3.6.1.2.1.2.2.1.8"
)

// Catalog maps every metric name to its locator.
type Catalog map[models.MetricName]Locator

// DefaultCatalog returns a fresh copy of the built-in catalogue.
func DefaultCatalog() Catalog {
	return Catalog{
		models.MetricHostname:       {OID: oidHostname, Shape: ShapeString},
		models.MetricDomain:         {OID: oidDomain, Shape: ShapeString},
		models.MetricUptime:         {OID: oidSysUpTime, Shape: ShapeDuration},
		models.MetricCPU5s:          {OID: oidCPU5s, Shape: ShapeInt},
		models.MetricCPU1m:          {OID: oidCPU1m, Shape: ShapeInt},
		models.MetricCPU5m:          {OID: oidCPU5m, Shape: ShapeInt},
		models.MetricMemTotal:       {OID: oidMemTotal, Shape: ShapeInt},
		models.MetricMemUsed:        {OID: oidMemUsed, Shape: ShapeInt},
		models.MetricInterfaceCount: {OID: oidIfNumber, Shape: ShapeInt},
		models.MetricInterfaceTable: {OID: oidIfDescr, StatusOID: oidIfOperStatus, Shape: ShapeTable},
	}
}

// WithOverrides returns a copy of the catalogue with locators replaced.
// Keys are metric names, or interface_names / interface_status for the two
// table columns.
func (c Catalog) WithOverrides(overrides map[string]string) (Catalog, error) {
	out := make(Catalog, len(c))
	for k, v := range c {
		out[k] = v
	}

	for key, raw := range overrides {
		oid, err := NormalizeOID(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: override %q: %w", ErrInvalidConfig, key, err)
		}

		switch key {
		case OverrideInterfaceNames, string(models.MetricInterfaceTable):
			loc := out[models.MetricInterfaceTable]
			loc.OID = oid
			out[models.MetricInterfaceTable] = loc
		case OverrideInterfaceStatus:
			loc := out[models.MetricInterfaceTable]
			loc.StatusOID = oid
			out[models.MetricInterfaceTable] = loc
		default:
			loc, ok := out[models.MetricName(key)]
			if !ok {
				return nil, fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownMetric, key)
			}

			loc.OID = oid
			out[models.MetricName(key)] = loc
		}
	}

	return out, nil
}

// NormalizeOID checks that s is a dotted numeric OID and returns it with a
// leading dot.
func NormalizeOID(s string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), ".")

	parts := strings.Split(trimmed, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidOID, s)
	}

	for _, p := range parts {
		if _, err := strconv.ParseUint(p, 10, 32); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidOID, s)
		}
	}

	return "." + trimmed, nil
}
