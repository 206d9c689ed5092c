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

//go:generate mockgen -destination=mock_poller.go -package=poller github.com/carverauto/linkwatch/pkg/poller Clock,Ticker,Collector,Detector

import (
	"context"
	"time"

	"github.com/carverauto/linkwatch/pkg/models"
)

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Collector produces one snapshot per device. It must honour ctx and
// return once the per-device deadline passes.
type Collector interface {
	Collect(ctx context.Context, device models.Device) *models.DeviceSnapshot
}

// Detector diffs a snapshot against the held state.
type Detector interface {
	Observe(snapshot *models.DeviceSnapshot) (*models.ChangeEvent, []models.InterfaceChangeEvent)
}
