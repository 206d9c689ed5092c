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

package linkwatch

import (
	"errors"
	"fmt"

	"github.com/carverauto/linkwatch/pkg/api"
	"github.com/carverauto/linkwatch/pkg/logger"
	"github.com/carverauto/linkwatch/pkg/models"
	"github.com/carverauto/linkwatch/pkg/notify"
	"github.com/carverauto/linkwatch/pkg/poller"
	"github.com/carverauto/linkwatch/pkg/snmp"
)

const (
	defaultServiceName       = "linkwatch"
	defaultMetricConcurrency = 4
)

// ErrInvalidConfig wraps service-level configuration errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// TelemetryConfig enables OTLP metric and trace export. OTel defaults to
// the logging OTel settings.
type TelemetryConfig struct {
	Metrics        bool               `json:"metrics"`
	Tracing        bool               `json:"tracing"`
	ExportInterval models.Duration    `json:"export_interval,omitempty"`
	OTel           *logger.OTelConfig `json:"otel,omitempty"`
}

// Section aliases give the embedded configs distinct field names.
type (
	SNMPConfig = snmp.Config
	PollConfig = poller.Config
	APIConfig  = api.Config
)

// Config is the top-level service configuration. SNMP, poll loop and HTTP
// API settings sit at the top level of the JSON document.
type Config struct {
	Devices []models.Device `json:"devices"`

	SNMPConfig
	PollConfig
	APIConfig

	MetricConcurrency int                    `json:"metric_concurrency"`
	GRPCListenAddr    string                 `json:"grpc_listen_addr,omitempty"`
	ServiceName       string                 `json:"service_name,omitempty"`
	Webhooks          []notify.WebhookConfig `json:"webhooks,omitempty"`
	NATS              *notify.NATSConfig     `json:"nats,omitempty"`
	Security          *models.SecurityConfig `json:"security,omitempty"`
	Logging           *logger.Config         `json:"logging,omitempty"`
	Telemetry         TelemetryConfig        `json:"telemetry"`
}

// Validate implements config.Validator. It fills defaults for every
// section and rejects the first unusable setting.
func (c *Config) Validate() error {
	if len(c.Devices) == 0 {
		return poller.ErrNoDevices
	}

	seen := make(map[string]struct{}, len(c.Devices))

	for i := range c.Devices {
		if err := c.Devices[i].Validate(); err != nil {
			return fmt.Errorf("%w: device %d: %w", ErrInvalidConfig, i, err)
		}

		if _, dup := seen[c.Devices[i].Address]; dup {
			return fmt.Errorf("%w: %s", poller.ErrDuplicateDevice, c.Devices[i].Address)
		}

		seen[c.Devices[i].Address] = struct{}{}
	}

	if err := c.SNMPConfig.Validate(); err != nil {
		return err
	}

	if err := c.PollConfig.Validate(); err != nil {
		return err
	}

	if c.ListenAddr != "" {
		if err := c.APIConfig.Validate(); err != nil {
			return err
		}
	}

	if c.MetricConcurrency < 0 {
		return fmt.Errorf("%w: metric_concurrency must not be negative", ErrInvalidConfig)
	}

	if c.MetricConcurrency == 0 {
		c.MetricConcurrency = defaultMetricConcurrency
	}

	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}

	for i := range c.Webhooks {
		if err := c.Webhooks[i].Validate(); err != nil {
			return fmt.Errorf("webhook %d: %w", i, err)
		}
	}

	if c.NATS != nil {
		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}

	return nil
}
