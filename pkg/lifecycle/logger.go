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

package lifecycle

import (
	"context"
	"fmt"

	"github.com/carverauto/linkwatch/pkg/logger"
)

// CreateComponentLogger installs the global logger from config and returns
// a child tagged with the component name. A nil config uses
// logger.DefaultConfig.
func CreateComponentLogger(ctx context.Context, component string, config *logger.Config) (logger.Logger, error) {
	if config == nil {
		config = logger.DefaultConfig()
	}

	if err := logger.Init(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger.Wrap(logger.WithComponent(component)), nil
}

// ShutdownLogger flushes any pending OTel log records.
func ShutdownLogger() error {
	return logger.Shutdown()
}
