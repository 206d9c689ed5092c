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
	"context"
	"errors"
	"time"

	"github.com/carverauto/linkwatch/pkg/logger"
)

// InitTelemetry starts the OTLP meter and tracer providers requested by
// cfg.Telemetry. Missing or disabled exporters are logged and skipped.
// logger.Shutdown flushes whatever was started.
func InitTelemetry(ctx context.Context, cfg *Config, log logger.Logger) error {
	otelCfg := cfg.Telemetry.OTel
	if otelCfg == nil && cfg.Logging != nil {
		otelCfg = &cfg.Logging.OTel
	}

	if otelCfg != nil && otelCfg.ServiceName == "" {
		otelCfg.ServiceName = cfg.ServiceName
	}

	if cfg.Telemetry.Metrics {
		_, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
			OTel:           otelCfg,
			ExportInterval: time.Duration(cfg.Telemetry.ExportInterval),
		})

		switch {
		case errors.Is(err, logger.ErrOTelMetricsDisabled):
			log.Warn().Msg("Metrics requested but no OTel endpoint is enabled")
		case err != nil:
			return err
		default:
			log.Info().Str("endpoint", otelCfg.Endpoint).Msg("OTel metrics export enabled")
		}
	}

	if cfg.Telemetry.Tracing {
		_, err := logger.InitializeTracing(ctx, otelCfg)

		switch {
		case errors.Is(err, logger.ErrOTelTracingDisabled):
			log.Warn().Msg("Tracing requested but no OTel endpoint is enabled")
		case err != nil:
			return err
		default:
			log.Info().Str("endpoint", otelCfg.Endpoint).Msg("OTel tracing enabled")
		}
	}

	return nil
}
